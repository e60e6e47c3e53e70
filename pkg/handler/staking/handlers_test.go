package staking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/ledgersync/infra/repository/memory"
	"github.com/amirasaad/ledgersync/internal/fixtures/mocks"
	"github.com/amirasaad/ledgersync/pkg/domain"
	"github.com/amirasaad/ledgersync/pkg/domain/events"
	"github.com/amirasaad/ledgersync/pkg/domain/txlog"
	"github.com/amirasaad/ledgersync/pkg/handler/common"
	"github.com/amirasaad/ledgersync/pkg/provider/notify"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

func request(status txlog.Status) *events.StakingRequest {
	return &events.StakingRequest{
		Meta:             events.Meta{BlockNumber: 9},
		Hash:             "0xreq",
		RequesterAddress: "5Requester",
		Country:          "ID",
		Region:           "JK",
		City:             "Jakarta",
		ServiceCategory:  "Covid-19",
		StakingAmount:    decimal.RequireFromString("1.5"),
		RequestStatus:    status,
	}
}

func TestHandleCreated_RedeliverySafety(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTxLog()
	rec := common.NewRecorder(store, nil, time.Second, logger)
	notifier := mocks.NewNotificationDispatcher(t)
	notifier.On("Send", mock.Anything, mock.MatchedBy(func(m notify.Message) bool {
		return m.Template == notify.TemplateStakingRequestCreated &&
			m.Subject == "New Service Request - Covid-19 - Jakarta, JK, ID"
	})).Return(nil).Once()

	handler := HandleCreated(rec, notifier, []string{"ops@example.com"}, logger)
	require.NoError(t, handler(ctx, request(txlog.StatusStakingCreated)))
	require.NoError(t, handler(ctx, request(txlog.StatusStakingCreated)))

	records := store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, txlog.TypeStaking, records[0].Type)
	assert.Equal(t, "DBIO", records[0].Currency)
	assert.Nil(t, records[0].ParentID)
}

func TestHandleCreated_NotificationFailureIsIgnored(t *testing.T) {
	store := memory.NewTxLog()
	rec := common.NewRecorder(store, nil, time.Second, logger)
	notifier := mocks.NewNotificationDispatcher(t)
	notifier.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()

	err := HandleCreated(rec, notifier, []string{"ops@example.com"}, logger)(context.Background(), request(txlog.StatusStakingCreated))
	require.NoError(t, err)
	assert.Len(t, store.Records(), 1)
}

func TestHandleUnstaked_ParentLinkage(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTxLog()
	rec := common.NewRecorder(store, nil, time.Second, logger)

	err := HandleUnstaked(rec, logger)(ctx, request(txlog.StatusStakingUnstaked))
	require.ErrorIs(t, err, domain.ErrNotYetProcessable)

	require.NoError(t, HandleCreated(rec, nil, nil, logger)(ctx, request(txlog.StatusStakingCreated)))
	require.NoError(t, HandleUnstaked(rec, logger)(ctx, request(txlog.StatusStakingUnstaked)))

	records := store.Records()
	require.Len(t, records, 2)
	assert.Equal(t, txlog.StatusStakingUnstaked, records[1].Status)
	require.NotNil(t, records[1].ParentID)
	assert.Equal(t, records[0].ID, *records[1].ParentID)
	assert.True(t, decimal.RequireFromString("1.5").Equal(records[1].Amount))
}
