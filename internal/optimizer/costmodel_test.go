package optimizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantumpay/gateway-optimizer/internal/model"
)

func testTransactions(amounts ...float64) []model.Transaction {
	txns := make([]model.Transaction, len(amounts))
	for i, amount := range amounts {
		txns[i] = model.Transaction{
			ID:        string(rune('A' + i)),
			Amount:    amount,
			Currency:  "USD",
			Timestamp: time.Now(),
		}
	}
	return txns
}

func testGateways() []model.Gateway {
	return []model.Gateway{
		{
			ID:           "g1",
			Name:         "Gateway One",
			FeeSchedule:  model.FeeSchedule{PercentFee: 0.02},
			P95LatencyMs: 50,
			Reliability:  0.99,
			Currencies:   []string{"USD"},
		},
		{
			ID:           "g2",
			Name:         "Gateway Two",
			FeeSchedule:  model.FeeSchedule{PercentFee: 0.015},
			P95LatencyMs: 120,
			Reliability:  0.99,
			Currencies:   []string{"USD"},
		},
	}
}

func TestBuildCostModel(t *testing.T) {
	weights := Weights{Fee: 1, Latency: 0.1}

	t.Run("happy: builds full matrix", func(t *testing.T) {
		cm, err := BuildCostModel(testTransactions(100, 50, 200), testGateways(), weights, 100)
		require.NoError(t, err)

		assert.Len(t, cm.Costs, 3)
		for t_ := range cm.Costs {
			assert.Len(t, cm.Costs[t_], 2)
			for g := range cm.Costs[t_] {
				assert.True(t, cm.Eligible[t_][g])
				assert.GreaterOrEqual(t, cm.Costs[t_][g], 0.0)
			}
		}
	})

	t.Run("happy: fees min-max scaled across batch", func(t *testing.T) {
		cm, err := BuildCostModel(testTransactions(100, 50, 200), testGateways(), Weights{Fee: 1}, 100)
		require.NoError(t, err)

		// Cheapest pair (T2 on g2) scales to 0, priciest (T3 on g1) to 1.
		assert.InDelta(t, 0.0, cm.Costs[1][1], 1e-12)
		assert.InDelta(t, 1.0, cm.Costs[2][0], 1e-12)
	})

	t.Run("bad: empty batch", func(t *testing.T) {
		_, err := BuildCostModel(nil, testGateways(), weights, 100)
		assert.ErrorIs(t, err, ErrInvalidBatch)
	})

	t.Run("bad: batch over size bound", func(t *testing.T) {
		_, err := BuildCostModel(testTransactions(10, 20, 30), testGateways(), weights, 2)
		assert.ErrorIs(t, err, ErrInvalidBatch)
	})

	t.Run("bad: negative weight", func(t *testing.T) {
		_, err := BuildCostModel(testTransactions(10), testGateways(), Weights{Fee: -1}, 100)
		assert.ErrorIs(t, err, ErrInvalidBatch)
	})

	t.Run("bad: all weights zero", func(t *testing.T) {
		_, err := BuildCostModel(testTransactions(10), testGateways(), Weights{}, 100)
		assert.ErrorIs(t, err, ErrInvalidBatch)
	})

	t.Run("bad: duplicate transaction ids", func(t *testing.T) {
		txns := testTransactions(100, 50)
		txns[1].ID = txns[0].ID
		_, err := BuildCostModel(txns, testGateways(), weights, 100)
		assert.ErrorIs(t, err, ErrInvalidBatch)
		assert.NotErrorIs(t, err, ErrSolverInternal)
	})

	t.Run("bad: currency unsupported by every gateway", func(t *testing.T) {
		txns := testTransactions(100)
		txns[0].Currency = "JPY"
		_, err := BuildCostModel(txns, testGateways(), weights, 100)
		assert.ErrorIs(t, err, ErrNoEligibleGateway)
	})

	t.Run("happy: partial eligibility masks the matrix", func(t *testing.T) {
		gateways := testGateways()
		gateways[0].Currencies = []string{"EUR"}
		txns := testTransactions(100)

		cm, err := BuildCostModel(txns, gateways, weights, 100)
		require.NoError(t, err)
		assert.False(t, cm.Eligible[0][0])
		assert.True(t, cm.Eligible[0][1])
	})

	t.Run("happy: empty currency list accepts everything", func(t *testing.T) {
		gateways := testGateways()
		gateways[0].Currencies = nil
		txns := testTransactions(100)
		txns[0].Currency = "JPY"

		cm, err := BuildCostModel(txns, gateways, weights, 100)
		require.NoError(t, err)
		assert.True(t, cm.Eligible[0][0])
		assert.False(t, cm.Eligible[0][1])
	})
}

func TestMinCostGatewayTieBreak(t *testing.T) {
	// Identical fees and latencies force a cost tie on every row.
	gateways := []model.Gateway{
		{ID: "zeta", FeeSchedule: model.FeeSchedule{PercentFee: 0.02}, P95LatencyMs: 100, Reliability: 0.95, Currencies: []string{"USD"}},
		{ID: "alpha", FeeSchedule: model.FeeSchedule{PercentFee: 0.02}, P95LatencyMs: 100, Reliability: 0.99, Currencies: []string{"USD"}},
	}

	cm, err := BuildCostModel(testTransactions(100), gateways, Weights{Fee: 1, Latency: 0.1}, 100)
	require.NoError(t, err)

	// Higher reliability wins the tie.
	assert.Equal(t, 1, cm.MinCostGateway(0))

	gateways[0].Reliability = 0.99
	cm, err = BuildCostModel(testTransactions(100), gateways, Weights{Fee: 1, Latency: 0.1}, 100)
	require.NoError(t, err)

	// Equal reliability falls through to the smaller gateway ID.
	assert.Equal(t, 1, cm.MinCostGateway(0))
	assert.Equal(t, "alpha", cm.Gateways[1].ID)
}
