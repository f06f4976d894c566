// Package forecaster projects per-gateway fee trends from historical
// samples. It is independent of the per-batch solve: same store, separate
// read path.
package forecaster

import (
	"errors"
	"fmt"
	"sort"

	"github.com/quantumpay/gateway-optimizer/internal/model"
)

var (
	// ErrInsufficientHistory reports fewer than two usable samples.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrInvalidHorizon reports an unsupported horizon length.
	ErrInvalidHorizon = errors.New("invalid horizon")
)

// PeriodDays is the width of one forecast period.
const PeriodDays = 30

// Point is one predicted fee, indexed by period starting at 1.
type Point struct {
	Period       int     `json:"period"`
	PredictedFee float64 `json:"predicted_fee"`
}

// Forecast is a fitted trend plus its projection over the horizon.
// Request-scoped; recomputed on demand, never persisted.
type Forecast struct {
	GatewayID string  `json:"gateway_id"`
	Horizon   int     `json:"horizon"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
	Points    []Point `json:"points"`
}

func validHorizon(h int) bool {
	return h == 3 || h == 6 || h == 12
}

// Project fits a least-squares linear trend over the samples (fee against
// days since the earliest sample) and extrapolates one fee per period over
// the horizon. Reproducible for identical input; predicted fees are
// clamped at zero.
func Project(gatewayID string, samples []model.FeeSample, horizon int) (*Forecast, error) {
	if !validHorizon(horizon) {
		return nil, fmt.Errorf("%w: %d (want 3, 6, or 12)", ErrInvalidHorizon, horizon)
	}
	if len(samples) < 2 {
		return nil, fmt.Errorf("%w: gateway %s has %d samples, need at least 2", ErrInsufficientHistory, gatewayID, len(samples))
	}

	ordered := make([]model.FeeSample, len(samples))
	copy(ordered, samples)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	earliest := ordered[0].Timestamp
	xs := make([]float64, len(ordered))
	ys := make([]float64, len(ordered))
	for i, s := range ordered {
		xs[i] = s.Timestamp.Sub(earliest).Hours() / 24
		ys[i] = s.Fee
	}

	slope, intercept, r2 := fitLine(xs, ys)

	lastX := xs[len(xs)-1]
	points := make([]Point, horizon)
	for i := 0; i < horizon; i++ {
		x := lastX + float64(i+1)*PeriodDays
		fee := slope*x + intercept
		if fee < 0 {
			fee = 0
		}
		points[i] = Point{Period: i + 1, PredictedFee: fee}
	}

	return &Forecast{
		GatewayID: gatewayID,
		Horizon:   horizon,
		Slope:     slope,
		Intercept: intercept,
		RSquared:  r2,
		Points:    points,
	}, nil
}

func fitLine(xs, ys []float64) (slope, intercept, rSquared float64) {
	n := float64(len(xs))

	var sumX, sumY, sumXY, sumX2 float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumX2 += xs[i] * xs[i]
	}

	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		// All samples share a timestamp; the best flat fit is the mean.
		return 0, sumY / n, 0
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssRes, ssTot float64
	for i := range xs {
		predicted := slope*xs[i] + intercept
		ssRes += (ys[i] - predicted) * (ys[i] - predicted)
		ssTot += (ys[i] - meanY) * (ys[i] - meanY)
	}
	if ssTot == 0 {
		return slope, intercept, 1.0
	}
	return slope, intercept, 1 - ssRes/ssTot
}
