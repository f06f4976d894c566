// Package savings compares optimized assignments against a naive baseline
// policy and produces per-batch reports.
package savings

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/quantumpay/gateway-optimizer/internal/model"
	"github.com/quantumpay/gateway-optimizer/internal/optimizer"
)

// BaselinePolicy chooses the non-optimized gateway per transaction row,
// serving as the comparison point for savings.
type BaselinePolicy interface {
	Name() string
	// Choose returns one eligible gateway column per transaction row.
	Choose(cm *optimizer.CostMatrix) []int
}

// CheapestAverageFee routes every transaction to the gateway with the
// lowest average historical fee, the way a merchant without an optimizer
// would. When no single gateway is eligible for the whole batch, rows the
// favorite cannot serve fall back to their cheapest eligible gateway.
type CheapestAverageFee struct {
	// AvgFees maps gateway ID to its average historical fee.
	AvgFees map[string]float64
}

func (p CheapestAverageFee) Name() string { return "cheapest_average_fee" }

func (p CheapestAverageFee) Choose(cm *optimizer.CostMatrix) []int {
	favorite := p.favorite(cm)

	choices := make([]int, len(cm.Transactions))
	for t := range cm.Transactions {
		if favorite >= 0 && cm.Eligible[t][favorite] {
			choices[t] = favorite
			continue
		}
		choices[t] = cm.MinCostGateway(t)
	}
	return choices
}

// favorite picks the gateway with the lowest average fee among those
// eligible for every transaction in the batch, ties broken by higher
// reliability and then smaller gateway ID.
func (p CheapestAverageFee) favorite(cm *optimizer.CostMatrix) int {
	best := -1
	for g, gw := range cm.Gateways {
		universal := true
		for t := range cm.Transactions {
			if !cm.Eligible[t][g] {
				universal = false
				break
			}
		}
		if !universal {
			continue
		}
		if best == -1 {
			best = g
			continue
		}
		fg, fb := p.AvgFees[gw.ID], p.AvgFees[cm.Gateways[best].ID]
		switch {
		case fg < fb:
			best = g
		case fg == fb && gw.Reliability > cm.Gateways[best].Reliability:
			best = g
		case fg == fb && gw.Reliability == cm.Gateways[best].Reliability && gw.ID < cm.Gateways[best].ID:
			best = g
		}
	}
	return best
}

// Aggregate builds the savings report for one solved batch: baseline cost
// under the policy, optimized cost under the assignment, and a per-gateway
// breakdown of where transactions landed.
func Aggregate(batchID string, a optimizer.Assignment, cm *optimizer.CostMatrix, policy BaselinePolicy) (*model.SavingsReport, error) {
	if len(a) != len(cm.Transactions) {
		return nil, fmt.Errorf("assignment covers %d of %d transactions", len(a), len(cm.Transactions))
	}

	choices := policy.Choose(cm)
	baselineCost := 0.0
	baselineGateway := ""
	uniform := true
	for t, g := range choices {
		baselineCost += cm.Costs[t][g]
		id := cm.Gateways[g].ID
		if baselineGateway == "" {
			baselineGateway = id
		} else if baselineGateway != id {
			uniform = false
		}
	}
	if !uniform {
		baselineGateway = ""
	}

	optimizedCost := cm.AssignmentCost(a)

	counts := make(map[string]int)
	costs := make(map[string]float64)
	for t, txn := range cm.Transactions {
		gwID := a[txn.ID]
		counts[gwID]++
		g := cm.GatewayIndex(gwID)
		costs[gwID] += cm.Costs[t][g]
	}

	breakdown := make([]model.GatewayBreakdown, 0, len(counts))
	for gwID, count := range counts {
		breakdown = append(breakdown, model.GatewayBreakdown{
			GatewayID:        gwID,
			TransactionCount: count,
			OptimizedCost:    round4(costs[gwID]),
			SharePct:         round2(float64(count) / float64(len(cm.Transactions)) * 100),
		})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].TransactionCount != breakdown[j].TransactionCount {
			return breakdown[i].TransactionCount > breakdown[j].TransactionCount
		}
		return breakdown[i].GatewayID < breakdown[j].GatewayID
	})

	// Round before differencing so savings always equals the difference of
	// the reported costs.
	baseline4 := round4(baselineCost)
	optimized4 := round4(optimizedCost)

	return &model.SavingsReport{
		BatchID:         batchID,
		BaselineGateway: baselineGateway,
		BaselineCost:    baseline4,
		OptimizedCost:   optimized4,
		Savings:         round4(baseline4 - optimized4),
		Breakdown:       breakdown,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
