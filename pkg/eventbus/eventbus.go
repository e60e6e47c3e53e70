package eventbus

import (
	"context"

	"github.com/amirasaad/ledgersync/pkg/domain/events"
)

// HandlerFunc processes one event. A nil error means the event is durably
// handled and may be acknowledged.
type HandlerFunc func(ctx context.Context, e events.Event) error

// Bus routes events to the handlers registered for their type.
type Bus interface {
	Register(eventType events.EventType, handler HandlerFunc)
	// Emit runs every handler registered for the event type and returns the
	// joined handler errors.
	Emit(ctx context.Context, e events.Event) error
	// Registered reports whether any handler is registered for eventType.
	Registered(eventType events.EventType) bool
}
