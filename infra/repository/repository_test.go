package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/amirasaad/ledgersync/pkg/domain"
	"github.com/amirasaad/ledgersync/pkg/domain/compensation"
	"github.com/amirasaad/ledgersync/pkg/domain/txlog"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDb.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return db, mock
}

func anyArgs(n int) []driver.Value {
	args := make([]driver.Value, n)
	for i := range args {
		args[i] = sqlmock.AnyArg()
	}
	return args
}

var txLogColumns = []string{
	"id", "ref_number", "parent_id", "transaction_type", "transaction_status",
	"address", "amount", "currency", "transaction_hash", "block_number", "created_at",
}

func TestTxLogRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTxLogRepository(db)
	parent := uint64(3)
	rec := &txlog.Record{
		RefNumber:   "O-1",
		ParentID:    &parent,
		Type:        txlog.TypeRefund,
		Status:      txlog.StatusOrderCancelled,
		Address:     "5C",
		Amount:      decimal.RequireFromString("1.5"),
		Currency:    "DBIO",
		BlockNumber: 12,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "transaction_logs" (.+) VALUES (.+) RETURNING "id"`).
		WithArgs(anyArgs(10)...).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), rec))
	assert.EqualValues(t, 9, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTxLogRepository_CreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTxLogRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "transaction_logs"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &txlog.Record{RefNumber: "O-1", Status: txlog.StatusOrderCreated})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTxLogRepository_CreateStoreFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTxLogRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "transaction_logs"`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &txlog.Record{RefNumber: "O-1", Status: txlog.StatusOrderCreated})
	assert.ErrorIs(t, err, domain.ErrStore)
	assert.NotErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestTxLogRepository_GetByRefNumber(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTxLogRepository(db)
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "transaction_logs" WHERE ref_number = \$1 ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows(txLogColumns).
			AddRow(1, "O-1", nil, 1, 1, "5C", "2.5", "DBIO", "0xh", 10, created))

	rec, err := repo.GetByRefNumber(context.Background(), "O-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, rec.ID)
	assert.Nil(t, rec.ParentID)
	assert.Equal(t, txlog.StatusOrderCreated, rec.Status)
	assert.Equal(t, "2.5", rec.Amount.String())

	mock.ExpectQuery(`SELECT \* FROM "transaction_logs" WHERE ref_number = \$1`).
		WillReturnRows(sqlmock.NewRows(txLogColumns))
	_, err = repo.GetByRefNumber(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTxLogRepository_GetByRefNumberAndStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTxLogRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "transaction_logs" WHERE ref_number = \$1 AND transaction_status = \$2`).
		WithArgs("O-1", int(txlog.StatusOrderPaid), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(txLogColumns).
			AddRow(2, "O-1", 1, 1, 2, "5C", "2.5", "DBIO", "", 11, time.Now()))

	rec, err := repo.GetByRefNumberAndStatus(context.Background(), "O-1", txlog.StatusOrderPaid)
	require.NoError(t, err)
	require.NotNil(t, rec.ParentID)
	assert.EqualValues(t, 1, *rec.ParentID)
}

func TestCompensationRepository_SaveUpserts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCompensationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "compensation_journal" (.+) ON CONFLICT \("ref_number","action"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Save(context.Background(), &compensation.Entry{
		RefNumber: "O-1",
		Action:    compensation.ActionEscrowRefund,
		Target:    "O-1",
		State:     compensation.StateDone,
		Attempts:  1,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompensationRepository_ListUnfinished(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCompensationRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "compensation_journal" WHERE state <> \$1 ORDER BY updated_at ASC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"ref_number", "action", "target", "state", "attempts", "last_error", "updated_at"}).
			AddRow("O-1", "set_order_refunded", "O-1", "failed", 2, "timeout", time.Now()))

	entries, err := repo.ListUnfinished(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, compensation.ActionSetOrderRefunded, entries[0].Action)
	assert.Equal(t, compensation.StateFailed, entries[0].State)
}

func TestCursorRepository(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCursorRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "ingest_cursors" WHERE stream = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"stream", "block_number", "updated_at"}))
	_, err := repo.Get(context.Background(), "ledger.blocks")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "ingest_cursors" (.+) ON CONFLICT \("stream"\) DO UPDATE SET .*GREATEST`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, repo.Advance(context.Background(), "ledger.blocks", 42))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountryRepository_GetByISO2(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCountryRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "countries" WHERE iso2 = \$1`).
		WithArgs("ID", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"iso2", "name"}).AddRow("ID", "Indonesia"))

	c, err := repo.GetByISO2(context.Background(), "id")
	require.NoError(t, err)
	assert.Equal(t, "Indonesia", c.Name)
}
