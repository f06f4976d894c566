package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/quantumpay/gateway-optimizer/internal/config"
	"github.com/quantumpay/gateway-optimizer/internal/model"
	"github.com/quantumpay/gateway-optimizer/internal/optimizer"
	"github.com/quantumpay/gateway-optimizer/internal/repository"
	"github.com/quantumpay/gateway-optimizer/internal/savings"
)

type OptimizeService struct {
	gwRepo     *repository.GatewayRepository
	feeRepo    *repository.FeeHistoryRepository
	reportRepo *repository.ReportRepository
	solver     *optimizer.HybridSolver
	cfg        config.OptimizerConfig
}

func NewOptimizeService(
	gwRepo *repository.GatewayRepository,
	feeRepo *repository.FeeHistoryRepository,
	reportRepo *repository.ReportRepository,
	solver *optimizer.HybridSolver,
	cfg config.OptimizerConfig,
) *OptimizeService {
	return &OptimizeService{
		gwRepo:     gwRepo,
		feeRepo:    feeRepo,
		reportRepo: reportRepo,
		solver:     solver,
		cfg:        cfg,
	}
}

type OptimizeResult struct {
	BatchID    string               `json:"batch_id"`
	Assignment optimizer.Assignment `json:"assignment"`
	Report     *model.SavingsReport `json:"report"`
}

// OptimizeBatch runs the full pipeline for one batch: load a versioned
// gateway snapshot, build the cost model, solve, aggregate savings against
// the cheapest-average baseline, and persist the report.
func (s *OptimizeService) OptimizeBatch(ctx context.Context, txns []model.Transaction, weights *optimizer.Weights, mode optimizer.Mode) (*OptimizeResult, error) {
	batchID := uuid.NewString()

	for i := range txns {
		if txns[i].ID == "" {
			txns[i].ID = uuid.NewString()
		}
	}

	// One snapshot per solve; the matrix below is built against exactly
	// this data, so the batch is reproducible.
	var gateways []model.Gateway
	var avgFees map[string]float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		gateways, err = s.gwRepo.ListSnapshots(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		avgFees, err = s.feeRepo.AverageFees(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load gateway snapshot: %w", err)
	}

	w := s.defaultWeights()
	if weights != nil {
		w = *weights
	}

	cm, err := optimizer.BuildCostModel(txns, gateways, w, s.cfg.MaxBatchSize)
	if err != nil {
		return nil, err
	}

	assignment, err := s.solver.Solve(ctx, cm, mode)
	if err != nil {
		return nil, err
	}

	report, err := savings.Aggregate(batchID, assignment, cm, savings.CheapestAverageFee{AvgFees: avgFees})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", optimizer.ErrSolverInternal, err)
	}

	if err := s.reportRepo.Insert(ctx, report); err != nil {
		return nil, err
	}
	for _, b := range report.Breakdown {
		if err := s.gwRepo.AddWins(ctx, b.GatewayID, b.TransactionCount); err != nil {
			return nil, err
		}
	}

	log.Info().
		Str("batch_id", batchID).
		Int("batch_size", len(txns)).
		Str("mode", string(mode)).
		Float64("savings", report.Savings).
		Msg("batch optimized")

	return &OptimizeResult{
		BatchID:    batchID,
		Assignment: assignment,
		Report:     report,
	}, nil
}

func (s *OptimizeService) defaultWeights() optimizer.Weights {
	return optimizer.Weights{
		Fee:         s.cfg.FeeWeight,
		Latency:     s.cfg.LatencyWeight,
		Reliability: s.cfg.ReliabilityWeight,
		Pressure:    s.cfg.PressureWeight,
	}
}
