package savings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantumpay/gateway-optimizer/internal/model"
	"github.com/quantumpay/gateway-optimizer/internal/optimizer"
)

func buildMatrix(t *testing.T, txns []model.Transaction, gateways []model.Gateway) *optimizer.CostMatrix {
	t.Helper()
	cm, err := optimizer.BuildCostModel(txns, gateways, optimizer.Weights{Fee: 1, Latency: 0.1}, 100)
	require.NoError(t, err)
	return cm
}

func usdTransactions() []model.Transaction {
	return []model.Transaction{
		{ID: "T1", Amount: 100, Currency: "USD"},
		{ID: "T2", Amount: 50, Currency: "USD"},
		{ID: "T3", Amount: 200, Currency: "USD"},
	}
}

func catalog() []model.Gateway {
	return []model.Gateway{
		{ID: "paypal", FeeSchedule: model.FeeSchedule{PercentFee: 0.0299, FixedFee: 0.49}, P95LatencyMs: 320, Reliability: 0.985, Currencies: []string{"USD", "EUR"}},
		{ID: "square", FeeSchedule: model.FeeSchedule{PercentFee: 0.026, FixedFee: 0.10}, P95LatencyMs: 170, Reliability: 0.990, Currencies: []string{"USD"}},
		{ID: "stripe", FeeSchedule: model.FeeSchedule{PercentFee: 0.029, FixedFee: 0.30}, P95LatencyMs: 140, Reliability: 0.992, Currencies: []string{"USD", "EUR"}},
	}
}

func avgFees() map[string]float64 {
	return map[string]float64{"stripe": 3.2, "paypal": 3.48, "square": 2.7}
}

func TestCheapestAverageFeePolicy(t *testing.T) {
	t.Run("happy: lowest average fee wins when universally eligible", func(t *testing.T) {
		cm := buildMatrix(t, usdTransactions(), catalog())

		choices := CheapestAverageFee{AvgFees: avgFees()}.Choose(cm)
		for _, g := range choices {
			assert.Equal(t, "square", cm.Gateways[g].ID)
		}
	})

	t.Run("happy: rows the favorite cannot serve fall back per row", func(t *testing.T) {
		txns := usdTransactions()
		txns[1].Currency = "EUR" // square does not settle EUR
		cm := buildMatrix(t, txns, catalog())

		choices := CheapestAverageFee{AvgFees: avgFees()}.Choose(cm)
		eur := choices[1]
		assert.NotEqual(t, "square", cm.Gateways[eur].ID)
		assert.True(t, cm.Eligible[1][eur])
	})
}

func TestAggregate(t *testing.T) {
	cm := buildMatrix(t, usdTransactions(), catalog())
	solver := optimizer.NewHybridSolver(nil, optimizer.SolverOptions{})

	assignment, err := solver.Solve(context.Background(), cm, optimizer.ModeClassical)
	require.NoError(t, err)

	policy := CheapestAverageFee{AvgFees: avgFees()}

	t.Run("happy: optimized never beats worse than an eligible baseline", func(t *testing.T) {
		report, err := Aggregate("batch-1", assignment, cm, policy)
		require.NoError(t, err)

		// The baseline gateway is in the optimizer's search space and
		// eligible for every transaction, so the optimum cannot cost more.
		assert.LessOrEqual(t, report.OptimizedCost, report.BaselineCost)
		assert.InDelta(t, report.BaselineCost-report.OptimizedCost, report.Savings, 1e-9)
	})

	t.Run("happy: uniform baseline is named in the report", func(t *testing.T) {
		report, err := Aggregate("batch-2", assignment, cm, policy)
		require.NoError(t, err)
		assert.Equal(t, "square", report.BaselineGateway)
	})

	t.Run("happy: breakdown accounts for every transaction", func(t *testing.T) {
		report, err := Aggregate("batch-3", assignment, cm, policy)
		require.NoError(t, err)

		total := 0
		share := 0.0
		for _, b := range report.Breakdown {
			total += b.TransactionCount
			share += b.SharePct
		}
		assert.Equal(t, len(cm.Transactions), total)
		assert.InDelta(t, 100.0, share, 0.1)
	})

	t.Run("bad: partial assignment rejected", func(t *testing.T) {
		partial := optimizer.Assignment{"T1": "stripe"}
		_, err := Aggregate("batch-4", partial, cm, policy)
		assert.Error(t, err)
	})
}
