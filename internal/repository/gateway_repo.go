package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantumpay/gateway-optimizer/internal/model"
)

type GatewayRepository struct {
	pool *pgxpool.Pool
}

func NewGatewayRepository(pool *pgxpool.Pool) *GatewayRepository {
	return &GatewayRepository{pool: pool}
}

const gatewayColumns = `id, name, percent_fee, fixed_fee, avg_latency_ms, p95_latency_ms, reliability, currencies, win_count`

// ListSnapshots returns a read-only snapshot of every gateway, ordered by
// ID so repeated solves see the catalog in a stable order.
func (r *GatewayRepository) ListSnapshots(ctx context.Context) ([]model.Gateway, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+gatewayColumns+` FROM gateways ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query gateways: %w", err)
	}
	defer rows.Close()

	var gateways []model.Gateway
	for rows.Next() {
		var g model.Gateway
		if err := rows.Scan(
			&g.ID, &g.Name, &g.FeeSchedule.PercentFee, &g.FeeSchedule.FixedFee,
			&g.AvgLatencyMs, &g.P95LatencyMs, &g.Reliability, &g.Currencies, &g.WinCount,
		); err != nil {
			return nil, fmt.Errorf("scan gateway: %w", err)
		}
		gateways = append(gateways, g)
	}

	return gateways, rows.Err()
}

// GetSnapshot returns one gateway by ID; pgx.ErrNoRows when unknown.
func (r *GatewayRepository) GetSnapshot(ctx context.Context, id string) (*model.Gateway, error) {
	var g model.Gateway
	err := r.pool.QueryRow(ctx, `SELECT `+gatewayColumns+` FROM gateways WHERE id = $1`, id).Scan(
		&g.ID, &g.Name, &g.FeeSchedule.PercentFee, &g.FeeSchedule.FixedFee,
		&g.AvgLatencyMs, &g.P95LatencyMs, &g.Reliability, &g.Currencies, &g.WinCount,
	)
	if err != nil {
		return nil, fmt.Errorf("get gateway %s: %w", id, err)
	}
	return &g, nil
}

// AddWins bumps a gateway's win counter after a solved batch routed
// transactions to it.
func (r *GatewayRepository) AddWins(ctx context.Context, id string, wins int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE gateways SET win_count = win_count + $2 WHERE id = $1`, id, wins)
	if err != nil {
		return fmt.Errorf("add wins for gateway %s: %w", id, err)
	}
	return nil
}
