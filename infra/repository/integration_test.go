//go:build integration

package repository

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/ledgersync/infra"
	"github.com/amirasaad/ledgersync/pkg/config"
	"github.com/amirasaad/ledgersync/pkg/domain"
	"github.com/amirasaad/ledgersync/pkg/domain/compensation"
	"github.com/amirasaad/ledgersync/pkg/domain/txlog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

type PostgresSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
}

func (s *PostgresSuite) SetupSuite() {
	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("ledgersync"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)
	db, err := infra.NewDBConnection(&config.DB{Url: dsn, MaxOpenConns: 5}, "test")
	s.Require().NoError(err)
	s.Require().NoError(infra.Migrate(db, "", slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.db = db
}

func (s *PostgresSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PostgresSuite) TestTxLogAppendOnly() {
	ctx := context.Background()
	repo := NewTxLogRepository(s.db)

	root := &txlog.Record{
		RefNumber: "O-int", Type: txlog.TypeOrderPayment, Status: txlog.StatusOrderCreated,
		Address: "5C", Amount: decimal.RequireFromString("12.000000000000000001"), Currency: "DBIO", BlockNumber: 1,
	}
	s.Require().NoError(repo.Create(ctx, root))
	s.NotZero(root.ID)

	dup := *root
	dup.ID = 0
	s.ErrorIs(repo.Create(ctx, &dup), domain.ErrAlreadyExists)

	child := &txlog.Record{
		RefNumber: "O-int", ParentID: &root.ID, Type: txlog.TypeRefund, Status: txlog.StatusOrderCancelled,
		Address: "5C", Amount: root.Amount, Currency: "DBIO", BlockNumber: 2,
	}
	s.Require().NoError(repo.Create(ctx, child))

	got, err := repo.GetByRefNumber(ctx, "O-int")
	s.Require().NoError(err)
	s.Equal(root.ID, got.ID)
	s.True(got.Amount.Equal(root.Amount))

	bad := uint64(999999)
	orphan := &txlog.Record{RefNumber: "O-orphan", ParentID: &bad, Status: txlog.StatusOrderPaid, Currency: "DBIO"}
	err = repo.Create(ctx, orphan)
	s.ErrorIs(err, domain.ErrStore)
}

func (s *PostgresSuite) TestJournalAndCursor() {
	ctx := context.Background()
	journal := NewCompensationRepository(s.db)
	entry := &compensation.Entry{
		RefNumber: "O-j", Action: compensation.ActionEscrowRefund, Target: "O-j", State: compensation.StateFailed, Attempts: 1,
	}
	s.Require().NoError(journal.Save(ctx, entry))
	entry.State, entry.Attempts = compensation.StateDone, 2
	s.Require().NoError(journal.Save(ctx, entry))

	got, err := journal.Get(ctx, "O-j", compensation.ActionEscrowRefund)
	s.Require().NoError(err)
	s.Equal(compensation.StateDone, got.State)
	s.Equal(2, got.Attempts)

	cursor := NewCursorRepository(s.db)
	s.Require().NoError(cursor.Advance(ctx, "t", 10))
	s.Require().NoError(cursor.Advance(ctx, "t", 4))
	n, err := cursor.Get(ctx, "t")
	s.Require().NoError(err)
	s.EqualValues(10, n)

	c, err := NewCountryRepository(s.db).GetByISO2(ctx, "id")
	s.Require().NoError(err)
	s.Equal("Indonesia", c.Name)
}

func TestPostgresSuite(t *testing.T) {
	suite.Run(t, new(PostgresSuite))
}
