package txlog

import (
	"context"

	"github.com/amirasaad/ledgersync/pkg/domain/txlog"
)

// Repository is the append-only transaction ledger. It has no update or
// delete operations.
type Repository interface {
	// GetByRefNumber returns the earliest record for ref, which is the root
	// of the logical transaction. It returns domain.ErrNotFound when absent.
	GetByRefNumber(ctx context.Context, ref string) (*txlog.Record, error)

	// GetByRefNumberAndStatus returns the record for one transition, or
	// domain.ErrNotFound.
	GetByRefNumberAndStatus(ctx context.Context, ref string, status txlog.Status) (*txlog.Record, error)

	// Create appends rec and fills in its ID and CreatedAt. A record for the
	// same (ref, status) fails with domain.ErrAlreadyExists; any other
	// storage failure wraps domain.ErrStore.
	Create(ctx context.Context, rec *txlog.Record) error
}
