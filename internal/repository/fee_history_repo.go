package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantumpay/gateway-optimizer/internal/model"
)

type FeeHistoryRepository struct {
	pool *pgxpool.Pool
}

func NewFeeHistoryRepository(pool *pgxpool.Pool) *FeeHistoryRepository {
	return &FeeHistoryRepository{pool: pool}
}

// GetHistoricalFees returns a gateway's fee samples inside the window,
// oldest first.
func (r *FeeHistoryRepository) GetHistoricalFees(ctx context.Context, gatewayID string, window time.Duration) ([]model.FeeSample, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT gateway_id, fee, latency_ms, sample_time
		FROM fee_samples
		WHERE gateway_id = $1 AND sample_time >= NOW() - $2::interval
		ORDER BY sample_time ASC
	`, gatewayID, fmt.Sprintf("%d seconds", int(window.Seconds())))
	if err != nil {
		return nil, fmt.Errorf("query fee history: %w", err)
	}
	defer rows.Close()

	var samples []model.FeeSample
	for rows.Next() {
		var s model.FeeSample
		if err := rows.Scan(&s.GatewayID, &s.Fee, &s.LatencyMs, &s.Timestamp); err != nil {
			return nil, fmt.Errorf("scan fee sample: %w", err)
		}
		samples = append(samples, s)
	}

	return samples, rows.Err()
}

// AverageFees returns each gateway's average historical fee, the input for
// the cheapest-average baseline policy.
func (r *FeeHistoryRepository) AverageFees(ctx context.Context) (map[string]float64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT gateway_id, AVG(fee) FROM fee_samples GROUP BY gateway_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query average fees: %w", err)
	}
	defer rows.Close()

	averages := make(map[string]float64)
	for rows.Next() {
		var id string
		var avg float64
		if err := rows.Scan(&id, &avg); err != nil {
			return nil, fmt.Errorf("scan average fee: %w", err)
		}
		averages[id] = avg
	}

	return averages, rows.Err()
}

// InsertSample records one observed fee for a gateway.
func (r *FeeHistoryRepository) InsertSample(ctx context.Context, s *model.FeeSample) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO fee_samples (gateway_id, fee, latency_ms, sample_time)
		VALUES ($1, $2, $3, $4)
	`, s.GatewayID, s.Fee, s.LatencyMs, s.Timestamp)
	if err != nil {
		return fmt.Errorf("insert fee sample: %w", err)
	}
	return nil
}
