package model

import (
	"time"
)

// Transaction is a pending payment awaiting gateway assignment. Immutable
// once created; the optimizer only reads it.
type Transaction struct {
	ID         string    `json:"id"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	MerchantID string    `json:"merchant_id,omitempty"`
	CustomerID string    `json:"customer_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	CreatedAt  time.Time `json:"created_at"`
}

// FeeSchedule is a gateway's pricing: a percentage of the amount plus a
// fixed component, both in the settlement currency.
type FeeSchedule struct {
	PercentFee float64 `json:"percent_fee"`
	FixedFee   float64 `json:"fixed_fee"`
}

// Fee returns the fee this schedule charges for the given amount.
func (f FeeSchedule) Fee(amount float64) float64 {
	return amount*f.PercentFee + f.FixedFee
}

// Gateway is a read-only snapshot of one payment gateway for a single solve.
// Mutated only by metric ingestion, never by the optimizer.
type Gateway struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	FeeSchedule  FeeSchedule `json:"fee_schedule"`
	AvgLatencyMs float64     `json:"avg_latency_ms"`
	P95LatencyMs float64     `json:"p95_latency_ms"`
	Reliability  float64     `json:"reliability"`
	Currencies   []string    `json:"currencies"`
	WinCount     int         `json:"win_count"`
}

// SupportsCurrency reports whether the gateway settles the given currency.
// An empty currency list means the gateway accepts everything.
func (g Gateway) SupportsCurrency(currency string) bool {
	if len(g.Currencies) == 0 {
		return true
	}
	for _, c := range g.Currencies {
		if c == currency {
			return true
		}
	}
	return false
}

// FeeSample is one historical fee observation for a gateway.
type FeeSample struct {
	GatewayID string    `json:"gateway_id"`
	Fee       float64   `json:"fee"`
	LatencyMs float64   `json:"latency_ms,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// GatewayBreakdown is the per-gateway slice of a savings report.
type GatewayBreakdown struct {
	GatewayID        string  `json:"gateway_id"`
	TransactionCount int     `json:"transaction_count"`
	OptimizedCost    float64 `json:"optimized_cost"`
	SharePct         float64 `json:"share_pct"`
}

// SavingsReport compares an optimized assignment against the baseline
// policy for one batch. Read-only after creation.
type SavingsReport struct {
	BatchID         string             `json:"batch_id"`
	BaselineGateway string             `json:"baseline_gateway,omitempty"`
	BaselineCost    float64            `json:"baseline_cost"`
	OptimizedCost   float64            `json:"optimized_cost"`
	Savings         float64            `json:"savings"`
	Breakdown       []GatewayBreakdown `json:"breakdown"`
	CreatedAt       time.Time          `json:"created_at"`
}
