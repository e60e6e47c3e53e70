package repository

import (
	"context"
	"time"

	cursorrepo "github.com/amirasaad/ledgersync/pkg/repository/cursor"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cursorRepository struct {
	db *gorm.DB
}

func NewCursorRepository(db *gorm.DB) cursorrepo.Repository {
	return &cursorRepository{db: db}
}

func (r *cursorRepository) Get(ctx context.Context, stream string) (uint64, error) {
	var row IngestCursor
	err := WrapError(func() error {
		return r.db.WithContext(ctx).Where("stream = ?", stream).First(&row).Error
	})
	if err != nil {
		return 0, err
	}
	return row.BlockNumber, nil
}

// Advance upserts the cursor and keeps the greater block number.
func (r *cursorRepository) Advance(ctx context.Context, stream string, block uint64) error {
	row := IngestCursor{Stream: stream, BlockNumber: block, UpdatedAt: time.Now().UTC()}
	return WrapError(func() error {
		return r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "stream"}},
			DoUpdates: clause.Assignments(map[string]any{
				"block_number": gorm.Expr("GREATEST(ingest_cursors.block_number, EXCLUDED.block_number)"),
				"updated_at":   gorm.Expr("EXCLUDED.updated_at"),
			}),
		}).Create(&row).Error
	})
}
