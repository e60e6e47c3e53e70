// Package gaorder records genetic analysis order transitions.
package gaorder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/ledgersync/pkg/domain/events"
	"github.com/amirasaad/ledgersync/pkg/domain/txlog"
	"github.com/amirasaad/ledgersync/pkg/eventbus"
	"github.com/amirasaad/ledgersync/pkg/handler/common"
)

func HandleCreated(rec *common.Recorder, logger *slog.Logger) eventbus.HandlerFunc {
	return handle("gaorder.HandleCreated", txlog.TypeGeneticAnalysisOrderPayment, rec, logger)
}

func HandlePaid(rec *common.Recorder, logger *slog.Logger) eventbus.HandlerFunc {
	return handle("gaorder.HandlePaid", txlog.TypeGeneticAnalysisOrderPayment, rec, logger)
}

func HandleFulfilled(rec *common.Recorder, logger *slog.Logger) eventbus.HandlerFunc {
	return handle("gaorder.HandleFulfilled", txlog.TypeGeneticAnalysisOrderPayment, rec, logger)
}

// HandleRefunded links the refund to the order's creation record.
func HandleRefunded(rec *common.Recorder, logger *slog.Logger) eventbus.HandlerFunc {
	return handle("gaorder.HandleRefunded", txlog.TypeRefund, rec, logger)
}

func HandleCancelled(rec *common.Recorder, logger *slog.Logger) eventbus.HandlerFunc {
	return handle("gaorder.HandleCancelled", txlog.TypeRefund, rec, logger)
}

func handle(name string, typ txlog.Type, rec *common.Recorder, logger *slog.Logger) eventbus.HandlerFunc {
	return func(ctx context.Context, e events.Event) error {
		log := logger.With("handler", name, "event_type", e.Type())

		o, ok := e.(*events.GeneticAnalysisOrder)
		if !ok {
			err := fmt.Errorf("expected GeneticAnalysisOrder event, got %T", e)
			log.Error("invalid event type", "error", err)
			return err
		}

		if _, err := rec.Record(ctx, common.Transition{
			Event:    o,
			Type:     typ,
			Address:  o.CustomerAddress,
			Amount:   o.Amount(),
			Currency: o.Currency,
		}); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}
