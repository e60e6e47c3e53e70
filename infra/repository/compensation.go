package repository

import (
	"context"
	"time"

	"github.com/amirasaad/ledgersync/pkg/domain/compensation"
	comprepo "github.com/amirasaad/ledgersync/pkg/repository/compensation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type compensationRepository struct {
	db *gorm.DB
}

func NewCompensationRepository(db *gorm.DB) comprepo.Repository {
	return &compensationRepository{db: db}
}

func (r *compensationRepository) Get(
	ctx context.Context,
	ref string,
	action compensation.Action,
) (*compensation.Entry, error) {
	var row CompensationEntry
	err := WrapError(func() error {
		return r.db.WithContext(ctx).
			Where("ref_number = ? AND action = ?", ref, string(action)).
			First(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return toEntry(row), nil
}

// Save upserts on (ref_number, action).
func (r *compensationRepository) Save(ctx context.Context, entry *compensation.Entry) error {
	row := CompensationEntry{
		RefNumber: entry.RefNumber,
		Action:    string(entry.Action),
		Target:    entry.Target,
		State:     string(entry.State),
		Attempts:  entry.Attempts,
		LastError: entry.LastError,
		UpdatedAt: entry.UpdatedAt,
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = time.Now().UTC()
	}
	return WrapError(func() error {
		return r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ref_number"}, {Name: "action"}},
			DoUpdates: clause.AssignmentColumns([]string{"target", "state", "attempts", "last_error", "updated_at"}),
		}).Create(&row).Error
	})
}

func (r *compensationRepository) ListUnfinished(ctx context.Context, limit int) ([]*compensation.Entry, error) {
	var rows []CompensationEntry
	q := r.db.WithContext(ctx).
		Where("state <> ?", string(compensation.StateDone)).
		Order("updated_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := WrapError(func() error { return q.Find(&rows).Error }); err != nil {
		return nil, err
	}
	out := make([]*compensation.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, toEntry(row))
	}
	return out, nil
}

func toEntry(row CompensationEntry) *compensation.Entry {
	return &compensation.Entry{
		RefNumber: row.RefNumber,
		Action:    compensation.Action(row.Action),
		Target:    row.Target,
		State:     compensation.State(row.State),
		Attempts:  row.Attempts,
		LastError: row.LastError,
		UpdatedAt: row.UpdatedAt,
	}
}
