package cursor

import "context"

// Repository stores the last fully processed block per stream.
type Repository interface {
	// Get returns the committed block, or 0 with domain.ErrNotFound when
	// the stream has never committed.
	Get(ctx context.Context, stream string) (uint64, error)
	// Advance moves the cursor forward. It never moves it backwards.
	Advance(ctx context.Context, stream string, block uint64) error
}
