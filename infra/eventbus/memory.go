package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/amirasaad/ledgersync/pkg/domain/events"
	"github.com/amirasaad/ledgersync/pkg/eventbus"
)

// MemoryEventBus dispatches synchronously in the caller's goroutine.
type MemoryEventBus struct {
	handlers map[events.EventType][]eventbus.HandlerFunc
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewWithMemory creates a new in-memory event bus.
func NewWithMemory(logger *slog.Logger) *MemoryEventBus {
	return &MemoryEventBus{
		handlers: make(map[events.EventType][]eventbus.HandlerFunc),
		logger:   logger.With("bus", "memory"),
	}
}

// Register registers a handler for a specific event type.
func (b *MemoryEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

func (b *MemoryEventBus) Registered(eventType events.EventType) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType]) > 0
}

// Emit dispatches the event to all registered handlers for its type. A
// panicking handler is reported as an error instead of crashing the pump.
func (b *MemoryEventBus) Emit(ctx context.Context, e events.Event) error {
	b.mu.RLock()
	handlers := append([]eventbus.HandlerFunc{}, b.handlers[e.Type()]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Warn("no handler registered", "event_type", e.Type())
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := b.run(ctx, handler, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *MemoryEventBus) run(ctx context.Context, handler eventbus.HandlerFunc, e events.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panic recovered in event handler", "event_type", e.Type(), "ref_number", e.Identity(), "panic", r)
			err = fmt.Errorf("handler panic for %s: %v", e.Type(), r)
		}
	}()
	return handler(ctx, e)
}

// Ensure MemoryEventBus implements the Bus interface.
var _ eventbus.Bus = (*MemoryEventBus)(nil)
