package repository

import (
	"errors"
	"fmt"

	"github.com/amirasaad/ledgersync/pkg/domain"
	"gorm.io/gorm"
)

// MapGormErrorToDomain converts GORM errors to domain errors. Anything that
// is not a duplicate or a miss is reported as a storage failure.
func MapGormErrorToDomain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", domain.ErrAlreadyExists, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, domain.ErrStore):
		return err
	default:
		return fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
}

// WrapError runs a GORM operation and maps its error.
//
//	err := WrapError(func() error {
//	    return r.db.WithContext(ctx).Create(rec).Error
//	})
func WrapError(op func() error) error {
	return MapGormErrorToDomain(op())
}
