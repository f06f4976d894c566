package optimizer

import "errors"

var (
	// ErrInvalidBatch reports a caller mistake in the batch itself: empty,
	// over the configured size bound, or unusable weights.
	ErrInvalidBatch = errors.New("invalid batch")

	// ErrNoEligibleGateway reports a transaction no gateway can settle.
	ErrNoEligibleGateway = errors.New("no eligible gateway")

	// ErrSolverUnavailable reports a transient quantum-path failure. It is
	// recovered by classical fallback and never surfaced to callers.
	ErrSolverUnavailable = errors.New("solver unavailable")

	// ErrSolverInternal reports a broken invariant: the solver produced an
	// assignment that does not cover the batch. Fatal, never swallowed.
	ErrSolverInternal = errors.New("solver internal error")
)
