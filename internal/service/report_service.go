package service

import (
	"context"

	"github.com/quantumpay/gateway-optimizer/internal/model"
	"github.com/quantumpay/gateway-optimizer/internal/repository"
)

type ReportService struct {
	repo *repository.ReportRepository
}

func NewReportService(repo *repository.ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

func (s *ReportService) GetReport(ctx context.Context, batchID string) (*model.SavingsReport, error) {
	return s.repo.GetByBatchID(ctx, batchID)
}

func (s *ReportService) ListReports(ctx context.Context, limit, offset int) ([]model.SavingsReport, int, error) {
	return s.repo.List(ctx, limit, offset)
}

type ReportSummary struct {
	TotalSavings float64                 `json:"total_savings"`
	Gateways     []repository.SummaryRow `json:"gateways"`
}

func (s *ReportService) GetSummary(ctx context.Context) (*ReportSummary, error) {
	rows, totalSavings, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return &ReportSummary{TotalSavings: totalSavings, Gateways: rows}, nil
}
