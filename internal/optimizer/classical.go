package optimizer

// solveClassical computes the exact optimum of the per-row formulation:
// with the one-hot constraint enforced structurally, rows decouple and
// each transaction independently takes its cheapest eligible gateway.
// Deterministic, including tie-breaks.
func solveClassical(cm *CostMatrix) Assignment {
	a := make(Assignment, len(cm.Transactions))
	for t, txn := range cm.Transactions {
		g := cm.MinCostGateway(t)
		a[txn.ID] = cm.Gateways[g].ID
	}
	return a
}
