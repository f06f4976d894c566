package database

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

type gatewayProfile struct {
	ID           string
	Name         string
	PercentFee   float64
	FixedFee     float64
	AvgLatencyMs float64
	P95LatencyMs float64
	Reliability  float64
	Currencies   []string
	// FeeDriftPerDay shifts the seeded fee history so forecasts have a
	// real trend to pick up.
	FeeDriftPerDay float64
}

// Published sandbox rates: Stripe 2.9% + $0.30, PayPal 2.99% + $0.49,
// Square 2.6% + $0.10. Adyen and Braintree round out the catalog with
// narrower currency support so eligibility actually constrains solves.
var gatewayProfiles = []gatewayProfile{
	{ID: "stripe", Name: "Stripe", PercentFee: 0.029, FixedFee: 0.30, AvgLatencyMs: 85, P95LatencyMs: 140, Reliability: 0.992, Currencies: []string{"USD", "EUR", "GBP", "BRL", "MXN"}, FeeDriftPerDay: 0.0004},
	{ID: "paypal", Name: "PayPal", PercentFee: 0.0299, FixedFee: 0.49, AvgLatencyMs: 180, P95LatencyMs: 320, Reliability: 0.985, Currencies: []string{"USD", "EUR", "GBP", "MXN"}, FeeDriftPerDay: -0.0002},
	{ID: "square", Name: "Square", PercentFee: 0.026, FixedFee: 0.10, AvgLatencyMs: 95, P95LatencyMs: 170, Reliability: 0.990, Currencies: []string{"USD", "GBP"}, FeeDriftPerDay: 0.0001},
	{ID: "adyen", Name: "Adyen", PercentFee: 0.022, FixedFee: 0.12, AvgLatencyMs: 110, P95LatencyMs: 210, Reliability: 0.994, Currencies: []string{"USD", "EUR", "GBP", "BRL"}, FeeDriftPerDay: 0.0003},
	{ID: "braintree", Name: "Braintree", PercentFee: 0.0259, FixedFee: 0.49, AvgLatencyMs: 150, P95LatencyMs: 280, Reliability: 0.988, Currencies: []string{"USD", "EUR"}, FeeDriftPerDay: -0.0001},
}

const (
	seedHistoryDays      = 120
	seedSamplesPerDay    = 2
	seedReferenceCharge  = 100.0
	seedFeeNoiseAbsolute = 0.02
)

// SeedData loads the gateway catalog and synthetic fee history. Idempotent:
// a non-empty gateways table short-circuits.
func SeedData(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM gateways`).Scan(&count); err != nil {
		return fmt.Errorf("count gateways: %w", err)
	}
	if count > 0 {
		log.Info().Int("gateways", count).Msg("seed skipped, gateways already present")
		return nil
	}

	rng := rand.New(rand.NewSource(42))
	now := time.Now().UTC()
	sampleCount := 0

	for _, p := range gatewayProfiles {
		_, err := pool.Exec(ctx, `
			INSERT INTO gateways (id, name, percent_fee, fixed_fee, avg_latency_ms, p95_latency_ms, reliability, currencies)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, p.ID, p.Name, p.PercentFee, p.FixedFee, p.AvgLatencyMs, p.P95LatencyMs, p.Reliability, p.Currencies)
		if err != nil {
			return fmt.Errorf("seed gateway %s: %w", p.ID, err)
		}

		for day := seedHistoryDays; day > 0; day-- {
			for s := 0; s < seedSamplesPerDay; s++ {
				age := float64(seedHistoryDays - day)
				fee := seedReferenceCharge*p.PercentFee + p.FixedFee +
					age*p.FeeDriftPerDay +
					(rng.Float64()*2-1)*seedFeeNoiseAbsolute
				if fee < 0 {
					fee = 0
				}
				latency := p.AvgLatencyMs * (0.8 + rng.Float64()*0.6)
				sampleTime := now.AddDate(0, 0, -day).Add(time.Duration(s) * 11 * time.Hour)

				_, err := pool.Exec(ctx, `
					INSERT INTO fee_samples (gateway_id, fee, latency_ms, sample_time)
					VALUES ($1, $2, $3, $4)
				`, p.ID, fee, latency, sampleTime)
				if err != nil {
					return fmt.Errorf("seed fee sample for %s: %w", p.ID, err)
				}
				sampleCount++
			}
		}
	}

	log.Info().
		Int("gateways", len(gatewayProfiles)).
		Int("fee_samples", sampleCount).
		Msg("seed data loaded")

	return nil
}
