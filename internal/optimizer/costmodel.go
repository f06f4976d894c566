package optimizer

import (
	"fmt"
	"math"

	"github.com/quantumpay/gateway-optimizer/internal/model"
)

// Weights blend the cost components of a (transaction, gateway) pair.
// All must be non-negative and at least one positive.
type Weights struct {
	Fee         float64 `json:"fee"`
	Latency     float64 `json:"latency"`
	Reliability float64 `json:"reliability"`
	// Pressure penalizes gateways that keep winning batches, spreading
	// routing load. Zero disables the term.
	Pressure float64 `json:"pressure,omitempty"`
}

func (w Weights) Validate() error {
	if w.Fee < 0 || w.Latency < 0 || w.Reliability < 0 || w.Pressure < 0 {
		return fmt.Errorf("%w: weights must be non-negative", ErrInvalidBatch)
	}
	if w.Fee == 0 && w.Latency == 0 && w.Reliability == 0 && w.Pressure == 0 {
		return fmt.Errorf("%w: at least one weight must be positive", ErrInvalidBatch)
	}
	return nil
}

// CostMatrix is the weighted objective for one batch: a cost per
// (transaction, gateway) pair plus an eligibility mask. Built fresh per
// solve and never mutated afterwards.
type CostMatrix struct {
	Transactions []model.Transaction
	Gateways     []model.Gateway

	// Costs is transaction-major; Costs[t][g] is only meaningful where
	// Eligible[t][g] is true. All costs are non-negative.
	Costs    [][]float64
	Eligible [][]bool
}

// BuildCostModel turns a batch of transactions and a set of gateway
// snapshots into a cost matrix. Fees are min-max scaled across the batch
// so the solver coefficients stay well-conditioned; latency is scaled by
// the slowest gateway so slower gateways keep a proportional penalty.
func BuildCostModel(txns []model.Transaction, gateways []model.Gateway, weights Weights, maxBatch int) (*CostMatrix, error) {
	if len(txns) == 0 {
		return nil, fmt.Errorf("%w: batch is empty", ErrInvalidBatch)
	}
	if maxBatch > 0 && len(txns) > maxBatch {
		return nil, fmt.Errorf("%w: batch size %d exceeds limit %d", ErrInvalidBatch, len(txns), maxBatch)
	}
	if len(gateways) == 0 {
		return nil, fmt.Errorf("%w: no gateways available", ErrNoEligibleGateway)
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	cm := &CostMatrix{
		Transactions: txns,
		Gateways:     gateways,
		Costs:        make([][]float64, len(txns)),
		Eligible:     make([][]bool, len(txns)),
	}

	// Raw fees and eligibility first; normalization bounds come from the
	// eligible pairs only. Assignments are keyed by transaction ID, so IDs
	// must be unique within the batch.
	seen := make(map[string]struct{}, len(txns))
	rawFees := make([][]float64, len(txns))
	minFee, maxFee := math.Inf(1), math.Inf(-1)
	for t, txn := range txns {
		if _, dup := seen[txn.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate transaction ID %s", ErrInvalidBatch, txn.ID)
		}
		seen[txn.ID] = struct{}{}
		rawFees[t] = make([]float64, len(gateways))
		cm.Eligible[t] = make([]bool, len(gateways))
		eligible := 0
		for g, gw := range gateways {
			if !gw.SupportsCurrency(txn.Currency) {
				continue
			}
			cm.Eligible[t][g] = true
			eligible++
			fee := gw.FeeSchedule.Fee(txn.Amount)
			rawFees[t][g] = fee
			if fee < minFee {
				minFee = fee
			}
			if fee > maxFee {
				maxFee = fee
			}
		}
		if eligible == 0 {
			return nil, fmt.Errorf("%w: transaction %s (currency %s)", ErrNoEligibleGateway, txn.ID, txn.Currency)
		}
	}

	feeRange := maxFee - minFee
	maxLatency := 0.0
	totalWins := 0
	for _, gw := range gateways {
		if gw.P95LatencyMs > maxLatency {
			maxLatency = gw.P95LatencyMs
		}
		totalWins += gw.WinCount
	}

	for t := range txns {
		cm.Costs[t] = make([]float64, len(gateways))
		for g, gw := range gateways {
			if !cm.Eligible[t][g] {
				continue
			}

			normFee := 0.0
			if feeRange > 0 {
				normFee = (rawFees[t][g] - minFee) / feeRange
			}
			normLatency := 0.0
			if maxLatency > 0 {
				normLatency = gw.P95LatencyMs / maxLatency
			}
			winShare := 0.0
			if totalWins > 0 {
				winShare = float64(gw.WinCount) / float64(totalWins)
			}

			cost := weights.Fee*normFee +
				weights.Latency*normLatency +
				weights.Reliability*(1-clamp01(gw.Reliability)) +
				weights.Pressure*winShare
			if cost < 0 {
				cost = 0
			}
			cm.Costs[t][g] = cost
		}
	}

	return cm, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// MaxCost returns the largest cost over all eligible pairs.
func (cm *CostMatrix) MaxCost() float64 {
	max := 0.0
	for t := range cm.Costs {
		for g, c := range cm.Costs[t] {
			if cm.Eligible[t][g] && c > max {
				max = c
			}
		}
	}
	return max
}

// GatewayIndex returns the column for a gateway ID, or -1.
func (cm *CostMatrix) GatewayIndex(id string) int {
	for g, gw := range cm.Gateways {
		if gw.ID == id {
			return g
		}
	}
	return -1
}

// MinCostGateway returns the cheapest eligible gateway column for a
// transaction row, breaking ties by higher reliability and then by
// lexicographically smaller gateway ID. Deterministic and reproducible.
func (cm *CostMatrix) MinCostGateway(t int) int {
	best := -1
	for g := range cm.Gateways {
		if !cm.Eligible[t][g] {
			continue
		}
		if best == -1 || cm.prefer(t, g, best) {
			best = g
		}
	}
	return best
}

// prefer reports whether column g beats the current best column for row t.
func (cm *CostMatrix) prefer(t, g, best int) bool {
	cg, cb := cm.Costs[t][g], cm.Costs[t][best]
	if cg != cb {
		return cg < cb
	}
	rg, rb := cm.Gateways[g].Reliability, cm.Gateways[best].Reliability
	if rg != rb {
		return rg > rb
	}
	return cm.Gateways[g].ID < cm.Gateways[best].ID
}

// AssignmentCost sums the matrix cost of an assignment. Transactions
// missing from the assignment contribute nothing; callers validate
// coverage separately.
func (cm *CostMatrix) AssignmentCost(a Assignment) float64 {
	total := 0.0
	for t, txn := range cm.Transactions {
		gwID, ok := a[txn.ID]
		if !ok {
			continue
		}
		g := cm.GatewayIndex(gwID)
		if g >= 0 && cm.Eligible[t][g] {
			total += cm.Costs[t][g]
		}
	}
	return total
}
