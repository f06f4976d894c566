package optimizer

// QUBO is the solver-native form of the assignment problem: one binary
// variable per eligible (transaction, gateway) pair, with the exactly-one
// constraint per transaction folded in as a quadratic penalty.
type QUBO struct {
	n      int
	linear []float64
	adj    []map[int]float64 // symmetric quadratic coefficients
	offset float64

	vars []varRef
	rows [][]int // variable indices per transaction row

	cm      *CostMatrix
	penalty float64
}

type varRef struct {
	txn int
	gw  int
}

// Sample is one candidate solution from a probabilistic solver.
type Sample struct {
	Bits   []bool
	Energy float64
}

// EncodeQUBO builds the penalized objective
//
//	sum cost[t,g]*x[t,g] + P * sum_t (sum_g x[t,g] - 1)^2
//
// with P = penaltyFactor * (maxCost + 1), large enough that any one-hot
// violation costs more than any cost differential it could save.
func EncodeQUBO(cm *CostMatrix, penaltyFactor float64) *QUBO {
	if penaltyFactor <= 0 {
		penaltyFactor = 2.0
	}
	penalty := penaltyFactor * (cm.MaxCost() + 1)

	q := &QUBO{
		cm:      cm,
		penalty: penalty,
		rows:    make([][]int, len(cm.Transactions)),
	}

	for t := range cm.Transactions {
		for g := range cm.Gateways {
			if !cm.Eligible[t][g] {
				continue
			}
			q.vars = append(q.vars, varRef{txn: t, gw: g})
			q.rows[t] = append(q.rows[t], len(q.vars)-1)
		}
	}

	q.n = len(q.vars)
	q.linear = make([]float64, q.n)
	q.adj = make([]map[int]float64, q.n)
	for i := range q.adj {
		q.adj[i] = make(map[int]float64)
	}

	// (sum x - 1)^2 expands to -sum x + 2*sum_{i<j} x_i x_j + 1 because
	// x^2 = x for binaries.
	for i, v := range q.vars {
		q.linear[i] = cm.Costs[v.txn][v.gw] - penalty
	}
	for _, row := range q.rows {
		for i := 0; i < len(row); i++ {
			for j := i + 1; j < len(row); j++ {
				q.adj[row[i]][row[j]] += 2 * penalty
				q.adj[row[j]][row[i]] += 2 * penalty
			}
		}
		q.offset += penalty
	}

	return q
}

// NumVars returns the number of binary variables.
func (q *QUBO) NumVars() int { return q.n }

// Penalty returns the one-hot constraint penalty.
func (q *QUBO) Penalty() float64 { return q.penalty }

// Energy evaluates the objective for a bitstring.
func (q *QUBO) Energy(bits []bool) float64 {
	e := q.offset
	for i := 0; i < q.n; i++ {
		if !bits[i] {
			continue
		}
		e += q.linear[i]
		for j, coeff := range q.adj[i] {
			if j > i && bits[j] {
				e += coeff
			}
		}
	}
	return e
}

// flipDelta returns the energy change of flipping variable i.
func (q *QUBO) flipDelta(bits []bool, i int) float64 {
	d := q.linear[i]
	for j, coeff := range q.adj[i] {
		if bits[j] {
			d += coeff
		}
	}
	if bits[i] {
		return -d
	}
	return d
}

// Decode turns a bitstring into an assignment. Rows violating the one-hot
// constraint are repaired greedily onto their cheapest eligible gateway;
// the returned flag reports whether the raw bitstring was already feasible.
func (q *QUBO) Decode(bits []bool) (Assignment, bool) {
	a := make(Assignment, len(q.cm.Transactions))
	feasible := true

	for t, txn := range q.cm.Transactions {
		chosen := -1
		ones := 0
		for _, v := range q.rows[t] {
			if bits[v] {
				ones++
				chosen = q.vars[v].gw
			}
		}
		if ones != 1 {
			feasible = false
			chosen = q.cm.MinCostGateway(t)
		}
		a[txn.ID] = q.cm.Gateways[chosen].ID
	}

	return a, feasible
}
