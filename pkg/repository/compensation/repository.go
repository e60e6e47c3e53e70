package compensation

import (
	"context"

	"github.com/amirasaad/ledgersync/pkg/domain/compensation"
)

// Repository journals compensating actions so that each is issued at most
// once successfully.
type Repository interface {
	// Get returns the entry for (ref, action) or domain.ErrNotFound.
	Get(ctx context.Context, ref string, action compensation.Action) (*compensation.Entry, error)
	// Save inserts or replaces the entry for (entry.RefNumber, entry.Action).
	Save(ctx context.Context, entry *compensation.Entry) error
	// ListUnfinished returns up to limit entries that are not done, oldest first.
	ListUnfinished(ctx context.Context, limit int) ([]*compensation.Entry, error)
}
