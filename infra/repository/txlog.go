package repository

import (
	"context"
	"time"

	"github.com/amirasaad/ledgersync/pkg/domain/txlog"
	txlogrepo "github.com/amirasaad/ledgersync/pkg/repository/txlog"
	"gorm.io/gorm"
)

type txLogRepository struct {
	db *gorm.DB
}

// NewTxLogRepository returns the postgres-backed transaction ledger.
func NewTxLogRepository(db *gorm.DB) txlogrepo.Repository {
	return &txLogRepository{db: db}
}

func (r *txLogRepository) GetByRefNumber(ctx context.Context, ref string) (*txlog.Record, error) {
	var row TransactionLog
	err := WrapError(func() error {
		return r.db.WithContext(ctx).
			Where("ref_number = ?", ref).
			Order("id ASC").
			First(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return toRecord(row), nil
}

func (r *txLogRepository) GetByRefNumberAndStatus(
	ctx context.Context,
	ref string,
	status txlog.Status,
) (*txlog.Record, error) {
	var row TransactionLog
	err := WrapError(func() error {
		return r.db.WithContext(ctx).
			Where("ref_number = ? AND transaction_status = ?", ref, int(status)).
			First(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return toRecord(row), nil
}

func (r *txLogRepository) Create(ctx context.Context, rec *txlog.Record) error {
	row := fromRecord(rec)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).Create(&row).Error
	}); err != nil {
		return err
	}
	rec.ID = row.ID
	rec.CreatedAt = row.CreatedAt
	return nil
}

func toRecord(row TransactionLog) *txlog.Record {
	return &txlog.Record{
		ID:              row.ID,
		RefNumber:       row.RefNumber,
		ParentID:        row.ParentID,
		Type:            txlog.Type(row.TransactionType),
		Status:          txlog.Status(row.TransactionStatus),
		Address:         row.Address,
		Amount:          row.Amount,
		Currency:        row.Currency,
		TransactionHash: row.TransactionHash,
		BlockNumber:     row.BlockNumber,
		CreatedAt:       row.CreatedAt,
	}
}

func fromRecord(rec *txlog.Record) TransactionLog {
	return TransactionLog{
		RefNumber:         rec.RefNumber,
		ParentID:          rec.ParentID,
		TransactionType:   int(rec.Type),
		TransactionStatus: int(rec.Status),
		Address:           rec.Address,
		Amount:            rec.Amount,
		Currency:          rec.Currency,
		TransactionHash:   rec.TransactionHash,
		BlockNumber:       rec.BlockNumber,
		CreatedAt:         rec.CreatedAt,
	}
}
