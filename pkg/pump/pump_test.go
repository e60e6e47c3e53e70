package pump

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	infraeventbus "github.com/amirasaad/ledgersync/infra/eventbus"
	"github.com/amirasaad/ledgersync/pkg/decoder"
	"github.com/amirasaad/ledgersync/pkg/domain/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

type recorder struct {
	mu   sync.Mutex
	seen []string
	fail map[events.EventType]error
}

func (r *recorder) handle(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail[e.Type()]; err != nil {
		return err
	}
	r.seen = append(r.seen, e.Identity()+"/"+e.Type().String())
	return nil
}

func (r *recorder) forRef(ref string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, s := range r.seen {
		if len(s) > len(ref) && s[:len(ref)+1] == ref+"/" {
			out = append(out, s)
		}
	}
	return out
}

func ev(index int, section, method, data string) decoder.RawEvent {
	return decoder.RawEvent{Section: section, Method: method, Index: index, Data: json.RawMessage(data)}
}

func testBlock() decoder.Block {
	order := `{"id":"R","customer_id":"5C","prices":[{"component":"p","value":"1"}]}`
	return decoder.Block{Number: 100, Hash: "0xb", Events: []decoder.RawEvent{
		ev(3, "orders", "OrderCancelled", order),
		ev(0, "orders", "OrderCreated", order),
		ev(1, "serviceRequest", "ServiceRequestCreated", `{"hash":"S","requester_address":"5R","staking_amount":"1"}`),
		ev(2, "balances", "Transfer", `{}`),
		ev(4, "orders", "OrderPaid", `{"customer_id":"5C"}`),
	}}
}

func newPump(r *recorder) *Pump {
	bus := infraeventbus.NewWithMemory(logger)
	for _, t := range events.AllTypes() {
		bus.Register(t, r.handle)
	}
	return New(decoder.New(), bus, 2, logger)
}

func TestProcessBlock_OrdersPerRef(t *testing.T) {
	r := &recorder{}
	require.NoError(t, newPump(r).ProcessBlock(context.Background(), testBlock()))

	assert.Equal(t, []string{"R/Order.Created", "R/Order.Cancelled"}, r.forRef("R"))
	assert.Equal(t, []string{"S/StakingRequest.Created"}, r.forRef("S"))
	assert.Len(t, r.seen, 3, "unsupported and malformed events are dropped")
}

func TestProcessBlock_FailureHoldsRefOnly(t *testing.T) {
	boom := errors.New("db down")
	r := &recorder{fail: map[events.EventType]error{events.EventTypeOrderCreated: boom}}

	err := newPump(r).ProcessBlock(context.Background(), testBlock())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var be *BlockError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, uint64(100), be.Block)
	assert.Contains(t, be.Failed, "R")
	assert.NotContains(t, be.Failed, "S")

	assert.Empty(t, r.forRef("R"), "cancel must not run after a failed create")
	assert.Equal(t, []string{"S/StakingRequest.Created"}, r.forRef("S"))
}

func TestProcessBlock_Empty(t *testing.T) {
	r := &recorder{}
	require.NoError(t, newPump(r).ProcessBlock(context.Background(), decoder.Block{Number: 1}))
	assert.Empty(t, r.seen)
}
