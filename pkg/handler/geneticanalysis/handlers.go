// Package geneticanalysis records analysis progress and compensates the
// customer when an analyst rejects the submitted data.
package geneticanalysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/ledgersync/pkg/domain/events"
	"github.com/amirasaad/ledgersync/pkg/domain/txlog"
	"github.com/amirasaad/ledgersync/pkg/eventbus"
	"github.com/amirasaad/ledgersync/pkg/handler/common"
	"github.com/amirasaad/ledgersync/pkg/money"
	"github.com/shopspring/decimal"
)

func HandleSubmitted(rec *common.Recorder, logger *slog.Logger) eventbus.HandlerFunc {
	return handle("geneticanalysis.HandleSubmitted", txlog.TypeGeneticAnalysis, rec, logger)
}

func HandleInProgress(rec *common.Recorder, logger *slog.Logger) eventbus.HandlerFunc {
	return handle("geneticanalysis.HandleInProgress", txlog.TypeGeneticAnalysis, rec, logger)
}

func HandleResulted(rec *common.Recorder, logger *slog.Logger) eventbus.HandlerFunc {
	return handle("geneticanalysis.HandleResulted", txlog.TypeGeneticAnalysis, rec, logger)
}

// HandleRejected records the rejection and marks the linked genetic
// analysis order refunded on the ledger.
func HandleRejected(rec *common.Recorder, logger *slog.Logger) eventbus.HandlerFunc {
	return handle("geneticanalysis.HandleRejected", txlog.TypeRefund, rec, logger)
}

func HandleRefunded(rec *common.Recorder, logger *slog.Logger) eventbus.HandlerFunc {
	return handle("geneticanalysis.HandleRefunded", txlog.TypeRefund, rec, logger)
}

func handle(name string, typ txlog.Type, rec *common.Recorder, logger *slog.Logger) eventbus.HandlerFunc {
	return func(ctx context.Context, e events.Event) error {
		log := logger.With("handler", name, "event_type", e.Type())

		ga, ok := e.(*events.GeneticAnalysis)
		if !ok {
			err := fmt.Errorf("expected GeneticAnalysis event, got %T", e)
			log.Error("invalid event type", "error", err)
			return err
		}
		if ga.Status() == txlog.StatusGARejected {
			log.Info("genetic analysis rejected", "ref_number", ga.TrackingID, "title", ga.RejectedTitle)
		}

		// The analysis itself carries no value; the order it belongs to does.
		if _, err := rec.Record(ctx, common.Transition{
			Event:    ga,
			Type:     typ,
			Address:  ga.OwnerAddress,
			Amount:   decimal.Zero,
			Currency: money.NativeCurrency,
		}); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}
