package country

import (
	"context"

	"github.com/amirasaad/ledgersync/pkg/domain/location"
)

type Repository interface {
	// GetByISO2 returns domain.ErrNotFound for unknown codes.
	GetByISO2(ctx context.Context, code string) (*location.Country, error)
}
