// Package order records lab order transitions and refunds cancelled or
// failed orders.
package order

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/ledgersync/pkg/domain/events"
	"github.com/amirasaad/ledgersync/pkg/domain/txlog"
	"github.com/amirasaad/ledgersync/pkg/eventbus"
	"github.com/amirasaad/ledgersync/pkg/handler/common"
)

// HandleCreated records the root payment record of an order.
func HandleCreated(rec *common.Recorder, logger *slog.Logger) eventbus.HandlerFunc {
	return handle("order.HandleCreated", txlog.TypeOrderPayment, rec, logger)
}

func HandlePaid(rec *common.Recorder, logger *slog.Logger) eventbus.HandlerFunc {
	return handle("order.HandlePaid", txlog.TypeOrderPayment, rec, logger)
}

func HandleFulfilled(rec *common.Recorder, logger *slog.Logger) eventbus.HandlerFunc {
	return handle("order.HandleFulfilled", txlog.TypeOrderPayment, rec, logger)
}

func HandleRefunded(rec *common.Recorder, logger *slog.Logger) eventbus.HandlerFunc {
	return handle("order.HandleRefunded", txlog.TypeRefund, rec, logger)
}

// HandleCancelled records the cancellation and refunds the escrowed value.
func HandleCancelled(rec *common.Recorder, logger *slog.Logger) eventbus.HandlerFunc {
	return handle("order.HandleCancelled", txlog.TypeRefund, rec, logger)
}

// HandleFailed records the failure and refunds the escrowed value.
func HandleFailed(rec *common.Recorder, logger *slog.Logger) eventbus.HandlerFunc {
	return handle("order.HandleFailed", txlog.TypeRefund, rec, logger)
}

func handle(name string, typ txlog.Type, rec *common.Recorder, logger *slog.Logger) eventbus.HandlerFunc {
	return func(ctx context.Context, e events.Event) error {
		log := logger.With("handler", name, "event_type", e.Type())

		o, ok := e.(*events.Order)
		if !ok {
			err := fmt.Errorf("expected Order event, got %T", e)
			log.Error("invalid event type", "error", err)
			return err
		}

		_, err := rec.Record(ctx, common.Transition{
			Event:    o,
			Type:     typ,
			Address:  o.CustomerAddress,
			Amount:   o.Amount(),
			Currency: o.Currency,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}
