package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantumpay/gateway-optimizer/internal/model"
)

type ReportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

func (r *ReportRepository) Insert(ctx context.Context, report *model.SavingsReport) error {
	breakdown, err := json.Marshal(report.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO savings_reports (batch_id, baseline_gateway, baseline_cost, optimized_cost, savings, breakdown, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, report.BatchID, report.BaselineGateway, report.BaselineCost,
		report.OptimizedCost, report.Savings, breakdown, report.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert savings report: %w", err)
	}
	return nil
}

// GetByBatchID returns one report; pgx.ErrNoRows when unknown.
func (r *ReportRepository) GetByBatchID(ctx context.Context, batchID string) (*model.SavingsReport, error) {
	var report model.SavingsReport
	var breakdown []byte
	err := r.pool.QueryRow(ctx, `
		SELECT batch_id, baseline_gateway, baseline_cost, optimized_cost, savings, breakdown, created_at
		FROM savings_reports WHERE batch_id = $1
	`, batchID).Scan(
		&report.BatchID, &report.BaselineGateway, &report.BaselineCost,
		&report.OptimizedCost, &report.Savings, &breakdown, &report.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", batchID, err)
	}

	if err := json.Unmarshal(breakdown, &report.Breakdown); err != nil {
		return nil, fmt.Errorf("unmarshal breakdown: %w", err)
	}
	return &report, nil
}

// List returns reports newest first with a total count for pagination.
func (r *ReportRepository) List(ctx context.Context, limit, offset int) ([]model.SavingsReport, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM savings_reports`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT batch_id, baseline_gateway, baseline_cost, optimized_cost, savings, breakdown, created_at
		FROM savings_reports ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var reports []model.SavingsReport
	for rows.Next() {
		var report model.SavingsReport
		var breakdown []byte
		if err := rows.Scan(
			&report.BatchID, &report.BaselineGateway, &report.BaselineCost,
			&report.OptimizedCost, &report.Savings, &breakdown, &report.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan report: %w", err)
		}
		if err := json.Unmarshal(breakdown, &report.Breakdown); err != nil {
			return nil, 0, fmt.Errorf("unmarshal breakdown: %w", err)
		}
		reports = append(reports, report)
	}

	return reports, total, rows.Err()
}

// SummaryRow is the cumulative per-gateway tally across all reports.
type SummaryRow struct {
	GatewayID string  `json:"gateway_id"`
	Wins      int     `json:"wins"`
	TotalCost float64 `json:"total_cost"`
}

// Summary aggregates wins per gateway and total savings across every
// solved batch.
func (r *ReportRepository) Summary(ctx context.Context) ([]SummaryRow, float64, error) {
	var totalSavings float64
	if err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(savings), 0) FROM savings_reports`).Scan(&totalSavings); err != nil {
		return nil, 0, fmt.Errorf("sum savings: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT
			entry->>'gateway_id' AS gateway_id,
			SUM((entry->>'transaction_count')::int) AS wins,
			SUM((entry->>'optimized_cost')::numeric) AS total_cost
		FROM savings_reports, jsonb_array_elements(breakdown) AS entry
		GROUP BY entry->>'gateway_id'
		ORDER BY wins DESC, gateway_id
	`)
	if err != nil {
		return nil, 0, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	var summary []SummaryRow
	for rows.Next() {
		var row SummaryRow
		if err := rows.Scan(&row.GatewayID, &row.Wins, &row.TotalCost); err != nil {
			return nil, 0, fmt.Errorf("scan summary row: %w", err)
		}
		summary = append(summary, row)
	}

	return summary, totalSavings, rows.Err()
}
