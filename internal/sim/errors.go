package sim

import "errors"

// Error kinds surfaced by the engine. Wrapped details are attached with
// fmt.Errorf and %w; callers classify with errors.Is.
var (
	// ErrInvalidQuery marks a query that violates a model invariant
	// (hand larger than deck, min above max, oversubscribed pools, ...).
	ErrInvalidQuery = errors.New("invalid query")

	// ErrInternal marks a broken engine invariant. Should not happen.
	ErrInternal = errors.New("internal error")
)
