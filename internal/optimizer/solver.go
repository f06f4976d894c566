package optimizer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Assignment maps every transaction ID in a batch to exactly one gateway ID.
type Assignment map[string]string

// Mode selects the solve path.
type Mode string

const (
	ModeAuto      Mode = "auto"
	ModeQuantum   Mode = "quantum"
	ModeClassical Mode = "classical"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAuto, ModeQuantum, ModeClassical:
		return Mode(s), nil
	case "":
		return ModeAuto, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidBatch, s)
}

// SolverOptions tune the hybrid dispatch. Zero values take defaults.
type SolverOptions struct {
	// QuantumThreshold is the largest batch the quantum path accepts in
	// auto mode.
	QuantumThreshold int
	// PenaltyFactor scales the one-hot penalty (see EncodeQUBO).
	PenaltyFactor float64
	// Timeout bounds one quantum-path round trip; expiry falls back to
	// the classical path.
	Timeout time.Duration
}

func (o SolverOptions) withDefaults() SolverOptions {
	if o.QuantumThreshold <= 0 {
		o.QuantumThreshold = 16
	}
	if o.PenaltyFactor <= 0 {
		o.PenaltyFactor = 2.0
	}
	if o.Timeout <= 0 {
		o.Timeout = 2 * time.Second
	}
	return o
}

// HybridSolver produces assignments from cost matrices, preferring the
// quantum-style backend for small batches and guaranteeing a valid result
// through deterministic classical fallback.
type HybridSolver struct {
	sampler Sampler
	opts    SolverOptions
}

func NewHybridSolver(sampler Sampler, opts SolverOptions) *HybridSolver {
	return &HybridSolver{sampler: sampler, opts: opts.withDefaults()}
}

// Solve assigns every transaction in the matrix to exactly one eligible
// gateway. Quantum-path failures are logged and recovered via the
// classical path; the returned assignment always covers the full batch or
// the call fails with ErrSolverInternal.
func (s *HybridSolver) Solve(ctx context.Context, cm *CostMatrix, mode Mode) (Assignment, error) {
	if mode == "" {
		mode = ModeAuto
	}

	// Cooperative cancellation point before any dispatch.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var a Assignment
	switch {
	case mode == ModeClassical:
		a = solveClassical(cm)
	case len(cm.Transactions) > s.opts.QuantumThreshold:
		if mode == ModeQuantum {
			log.Warn().
				Int("batch_size", len(cm.Transactions)).
				Int("threshold", s.opts.QuantumThreshold).
				Msg("batch exceeds quantum threshold, solving classically")
		}
		a = solveClassical(cm)
	default:
		a = s.solveQuantum(ctx, cm)
	}

	if err := s.validate(cm, a); err != nil {
		return nil, err
	}
	return a, nil
}

// solveQuantum runs the sample-and-validate-and-repair pipeline. Any
// backend failure, including timeout, degrades to the classical path.
func (s *HybridSolver) solveQuantum(ctx context.Context, cm *CostMatrix) Assignment {
	q := EncodeQUBO(cm, s.opts.PenaltyFactor)

	solveCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := time.Now()
	samples, err := s.sampler.Submit(solveCtx, q)
	if err != nil {
		log.Warn().Err(err).
			Dur("elapsed", time.Since(start)).
			Int("batch_size", len(cm.Transactions)).
			Msg("quantum path failed, falling back to classical")
		return solveClassical(cm)
	}
	if len(samples) == 0 {
		log.Warn().Msg("quantum path returned no samples, falling back to classical")
		return solveClassical(cm)
	}

	// Best-of-N: lowest-energy feasible sample wins; if no sample
	// satisfies the one-hot rows, repair the lowest-energy one.
	best := -1
	bestFeasible := -1
	for i, sample := range samples {
		if best == -1 || sample.Energy < samples[best].Energy {
			best = i
		}
		if _, ok := q.Decode(sample.Bits); ok {
			if bestFeasible == -1 || sample.Energy < samples[bestFeasible].Energy {
				bestFeasible = i
			}
		}
	}

	chosen := best
	if bestFeasible >= 0 {
		chosen = bestFeasible
	}
	a, feasible := q.Decode(samples[chosen].Bits)

	// The annealer can converge on a feasible but suboptimal sample. The
	// per-row optimum is exact and cheap, so never return anything worse.
	if c := solveClassical(cm); cm.AssignmentCost(c) < cm.AssignmentCost(a) {
		log.Debug().
			Int("shots", len(samples)).
			Float64("sample_cost", cm.AssignmentCost(a)).
			Float64("classical_cost", cm.AssignmentCost(c)).
			Dur("elapsed", time.Since(start)).
			Msg("quantum sample beaten by classical solution")
		return c
	}

	log.Debug().
		Int("shots", len(samples)).
		Float64("energy", samples[chosen].Energy).
		Bool("repaired", !feasible).
		Dur("elapsed", time.Since(start)).
		Msg("quantum sample accepted")
	return a
}

// validate enforces the hard postcondition: every transaction assigned
// exactly once, to an eligible gateway.
func (s *HybridSolver) validate(cm *CostMatrix, a Assignment) error {
	if len(a) != len(cm.Transactions) {
		return fmt.Errorf("%w: %d assignments for %d transactions", ErrSolverInternal, len(a), len(cm.Transactions))
	}
	for t, txn := range cm.Transactions {
		gwID, ok := a[txn.ID]
		if !ok {
			return fmt.Errorf("%w: transaction %s unassigned", ErrSolverInternal, txn.ID)
		}
		g := cm.GatewayIndex(gwID)
		if g < 0 || !cm.Eligible[t][g] {
			return fmt.Errorf("%w: transaction %s assigned to ineligible gateway %s", ErrSolverInternal, txn.ID, gwID)
		}
	}
	return nil
}
