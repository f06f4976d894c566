package service

import (
	"context"
	"time"

	"github.com/quantumpay/gateway-optimizer/internal/forecaster"
	"github.com/quantumpay/gateway-optimizer/internal/repository"
)

// HistoryWindow bounds how far back fee samples feed a forecast.
const HistoryWindow = 365 * 24 * time.Hour

type ForecastService struct {
	gwRepo  *repository.GatewayRepository
	feeRepo *repository.FeeHistoryRepository
}

func NewForecastService(gwRepo *repository.GatewayRepository, feeRepo *repository.FeeHistoryRepository) *ForecastService {
	return &ForecastService{gwRepo: gwRepo, feeRepo: feeRepo}
}

// GetForecast projects a gateway's fees over the horizon. The gateway must
// exist; unknown gateways surface as pgx.ErrNoRows from the snapshot read.
func (s *ForecastService) GetForecast(ctx context.Context, gatewayID string, horizon int) (*forecaster.Forecast, error) {
	if _, err := s.gwRepo.GetSnapshot(ctx, gatewayID); err != nil {
		return nil, err
	}

	samples, err := s.feeRepo.GetHistoricalFees(ctx, gatewayID, HistoryWindow)
	if err != nil {
		return nil, err
	}

	return forecaster.Project(gatewayID, samples, horizon)
}
