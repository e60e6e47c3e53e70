package repository

import (
	"context"
	"strings"

	"github.com/amirasaad/ledgersync/pkg/domain/location"
	countryrepo "github.com/amirasaad/ledgersync/pkg/repository/country"
	"gorm.io/gorm"
)

type countryRepository struct {
	db *gorm.DB
}

func NewCountryRepository(db *gorm.DB) countryrepo.Repository {
	return &countryRepository{db: db}
}

func (r *countryRepository) GetByISO2(ctx context.Context, code string) (*location.Country, error) {
	var row Country
	err := WrapError(func() error {
		return r.db.WithContext(ctx).Where("iso2 = ?", strings.ToUpper(code)).First(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &location.Country{ISO2: row.ISO2, Name: row.Name}, nil
}
