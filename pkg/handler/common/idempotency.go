package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/ledgersync/pkg/domain"
	"github.com/amirasaad/ledgersync/pkg/domain/events"
	"github.com/amirasaad/ledgersync/pkg/domain/txlog"
	"github.com/amirasaad/ledgersync/pkg/eventbus"
	txlogrepo "github.com/amirasaad/ledgersync/pkg/repository/txlog"
	"golang.org/x/sync/singleflight"
)

// Guard answers whether a transition is already durably recorded.
type Guard struct {
	repo txlogrepo.Repository
}

func NewGuard(repo txlogrepo.Repository) *Guard {
	return &Guard{repo: repo}
}

// HasBeenRecorded reports whether a record exists for (ref, status). Lookup
// failures are returned wrapped in domain.ErrStore, never as false.
func (g *Guard) HasBeenRecorded(ctx context.Context, ref string, status txlog.Status) (bool, error) {
	_, err := g.repo.GetByRefNumberAndStatus(ctx, ref, status)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	case errors.Is(err, domain.ErrStore):
		return false, err
	default:
		return false, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
}

// KeyExtractor extracts an idempotency key from an event
type KeyExtractor func(events.Event) string

// TransitionKey keys an event by the transition it records.
func TransitionKey(e events.Event) string {
	if e.Identity() == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", e.Identity(), e.Status())
}

// InFlight coalesces concurrent deliveries of the same transition.
type InFlight struct {
	group singleflight.Group
}

func NewInFlight() *InFlight {
	return &InFlight{}
}

// WithIdempotency wraps a handler so that concurrent duplicate deliveries
// share one execution and observe the same result. Sequential redelivery is
// handled by the durable Guard inside the handler.
func WithIdempotency(
	handler eventbus.HandlerFunc,
	inflight *InFlight,
	keyExtractor KeyExtractor,
	handlerName string,
	logger *slog.Logger,
) eventbus.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, e events.Event) error {
		key := keyExtractor(e)
		if key == "" {
			return handler(ctx, e)
		}

		_, err, shared := inflight.group.Do(key, func() (any, error) {
			return nil, handler(ctx, e)
		})
		if shared {
			logger.Debug("🔁 [SHARED] concurrent delivery coalesced",
				"handler", handlerName,
				"event_type", e.Type(),
				"idempotency_key", key,
			)
		}
		return err
	}
}
