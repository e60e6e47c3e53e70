package order

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/ledgersync/infra/repository/memory"
	"github.com/amirasaad/ledgersync/internal/fixtures/mocks"
	"github.com/amirasaad/ledgersync/pkg/compensation"
	"github.com/amirasaad/ledgersync/pkg/domain"
	"github.com/amirasaad/ledgersync/pkg/domain/events"
	"github.com/amirasaad/ledgersync/pkg/domain/txlog"
	"github.com/amirasaad/ledgersync/pkg/handler/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store  *memory.TxLog
	client *mocks.LedgerClient
	rec    *common.Recorder
	logger *slog.Logger
}

func newFixture(t *testing.T) *fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewTxLog()
	client := mocks.NewLedgerClient(t)
	dispatcher := compensation.NewDispatcher(memory.NewJournal(), client, time.Second, logger)
	return &fixture{
		store:  store,
		client: client,
		rec:    common.NewRecorder(store, dispatcher, time.Second, logger),
		logger: logger,
	}
}

func order(status txlog.Status) *events.Order {
	return &events.Order{
		Meta:            events.Meta{BlockNumber: 77},
		ID:              "R",
		CustomerAddress: "5Customer",
		Currency:        "DBIO",
		Prices:          []events.Price{{Component: "testing_price", Value: decimal.NewFromInt(20)}},
		OrderStatus:     status,
	}
}

func TestHandleCancelled_RefundScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, HandleCreated(f.rec, f.logger)(ctx, order(txlog.StatusOrderCreated)))
	created := f.store.Records()[0]

	f.client.On("RefundOrder", mock.Anything, "R").Return(nil).Once()
	f.client.On("SetOrderRefunded", mock.Anything, "R").Return(nil).Once()

	handler := HandleCancelled(f.rec, f.logger)
	require.NoError(t, handler(ctx, order(txlog.StatusOrderCancelled)))
	// Redelivery: no record, no refund call.
	require.NoError(t, handler(ctx, order(txlog.StatusOrderCancelled)))

	records := f.store.Records()
	require.Len(t, records, 2)
	cancelled := records[1]
	assert.Equal(t, txlog.StatusOrderCancelled, cancelled.Status)
	assert.Equal(t, txlog.TypeRefund, cancelled.Type)
	require.NotNil(t, cancelled.ParentID)
	assert.Equal(t, created.ID, *cancelled.ParentID)
	assert.True(t, decimal.NewFromInt(20).Equal(cancelled.Amount))

	f.client.AssertNumberOfCalls(t, "RefundOrder", 1)
	f.client.AssertNumberOfCalls(t, "SetOrderRefunded", 1)
}

func TestHandleFailed_RetriesCompensationOnRedelivery(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, HandleCreated(f.rec, f.logger)(ctx, order(txlog.StatusOrderCreated)))

	f.client.On("RefundOrder", mock.Anything, "R").Return(errors.New("ws closed")).Once()
	handler := HandleFailed(f.rec, f.logger)
	err := handler(ctx, order(txlog.StatusOrderFailed))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOutbound)
	assert.Len(t, f.store.Records(), 2, "the failure record stays written")

	f.client.On("RefundOrder", mock.Anything, "R").Return(nil).Once()
	f.client.On("SetOrderRefunded", mock.Anything, "R").Return(nil).Once()
	require.NoError(t, handler(ctx, order(txlog.StatusOrderFailed)))
	assert.Len(t, f.store.Records(), 2)
}

func TestNonFailureStatusesNeverCompensate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, HandleCreated(f.rec, f.logger)(ctx, order(txlog.StatusOrderCreated)))
	require.NoError(t, HandlePaid(f.rec, f.logger)(ctx, order(txlog.StatusOrderPaid)))
	require.NoError(t, HandleFulfilled(f.rec, f.logger)(ctx, order(txlog.StatusOrderFulfilled)))
	require.NoError(t, HandleRefunded(f.rec, f.logger)(ctx, order(txlog.StatusOrderRefunded)))

	records := f.store.Records()
	require.Len(t, records, 4)
	for _, r := range records[1:] {
		require.NotNil(t, r.ParentID)
		assert.Equal(t, records[0].ID, *r.ParentID)
	}
	f.client.AssertNotCalled(t, "RefundOrder", mock.Anything, mock.Anything)
}

func TestHandleCancelled_BeforeCreated(t *testing.T) {
	f := newFixture(t)
	err := HandleCancelled(f.rec, f.logger)(context.Background(), order(txlog.StatusOrderCancelled))
	assert.ErrorIs(t, err, domain.ErrNotYetProcessable)
	assert.Empty(t, f.store.Records())
}

func TestHandle_WrongEventType(t *testing.T) {
	f := newFixture(t)
	err := HandleCreated(f.rec, f.logger)(context.Background(), &events.StakingRequest{Hash: "R"})
	assert.Error(t, err)
}
