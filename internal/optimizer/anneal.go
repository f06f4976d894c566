package optimizer

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Sampler is the quantum-style solver backend: it takes an encoded QUBO
// and returns the best-of-N candidate bitstrings it found. Probabilistic
// backends return ErrSolverUnavailable on transport or hardware failure.
type Sampler interface {
	Submit(ctx context.Context, q *QUBO) ([]Sample, error)
}

// Annealer is the in-process quantum-inspired backend: best-of-N simulated
// annealing with geometric cooling and single-bit-flip moves.
type Annealer struct {
	Shots  int
	Sweeps int
	// Seed fixes the random source when non-zero; zero seeds from the
	// clock on every submit.
	Seed int64
}

func NewAnnealer(shots, sweeps int) *Annealer {
	if shots < 10 {
		shots = 10
	}
	if sweeps < 1 {
		sweeps = 200
	}
	return &Annealer{Shots: shots, Sweeps: sweeps}
}

func (a *Annealer) Submit(ctx context.Context, q *QUBO) ([]Sample, error) {
	if q.NumVars() == 0 {
		return nil, fmt.Errorf("%w: empty problem", ErrSolverUnavailable)
	}

	seed := a.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	// Starting temperature on the order of the penalty so early sweeps can
	// climb out of constraint violations; end cold enough to freeze.
	tStart := q.Penalty()
	if tStart <= 0 {
		tStart = 1
	}
	tEnd := 1e-3

	samples := make([]Sample, 0, a.Shots)
	for shot := 0; shot < a.Shots; shot++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSolverUnavailable, err)
		}

		bits := make([]bool, q.NumVars())
		for i := range bits {
			bits[i] = rng.Intn(2) == 1
		}

		for sweep := 0; sweep < a.Sweeps; sweep++ {
			if sweep%32 == 0 {
				if err := ctx.Err(); err != nil {
					return nil, fmt.Errorf("%w: %v", ErrSolverUnavailable, err)
				}
			}
			frac := float64(sweep) / float64(a.Sweeps)
			temp := tStart * math.Pow(tEnd/tStart, frac)

			for _, i := range rng.Perm(q.NumVars()) {
				delta := q.flipDelta(bits, i)
				if delta <= 0 || rng.Float64() < math.Exp(-delta/temp) {
					bits[i] = !bits[i]
				}
			}
		}

		samples = append(samples, Sample{Bits: bits, Energy: q.Energy(bits)})
	}

	return samples, nil
}
