// Package app wires the reconciliation handlers onto the event bus and
// builds the services that run on top of them.
package app

import (
	"github.com/amirasaad/ledgersync/pkg/domain/events"
	"github.com/amirasaad/ledgersync/pkg/eventbus"
	"github.com/amirasaad/ledgersync/pkg/handler/common"
	"github.com/amirasaad/ledgersync/pkg/handler/gaorder"
	"github.com/amirasaad/ledgersync/pkg/handler/geneticanalysis"
	"github.com/amirasaad/ledgersync/pkg/handler/order"
	"github.com/amirasaad/ledgersync/pkg/handler/staking"
)

type registration struct {
	eventType events.EventType
	name      string
	handler   eventbus.HandlerFunc
}

// setupEventBus registers every transition handler with the bus.
func (a *App) setupEventBus() {
	rec := a.Recorder
	logger := a.Deps.Logger

	var recipients []string
	if a.Config != nil && a.Config.Notify != nil {
		recipients = a.Config.Notify.StakingRequestRecipients
	}

	regs := []registration{
		{events.EventTypeOrderCreated, "order.HandleCreated", order.HandleCreated(rec, logger)},
		{events.EventTypeOrderPaid, "order.HandlePaid", order.HandlePaid(rec, logger)},
		{events.EventTypeOrderFulfilled, "order.HandleFulfilled", order.HandleFulfilled(rec, logger)},
		{events.EventTypeOrderRefunded, "order.HandleRefunded", order.HandleRefunded(rec, logger)},
		{events.EventTypeOrderCancelled, "order.HandleCancelled", order.HandleCancelled(rec, logger)},
		{events.EventTypeOrderFailed, "order.HandleFailed", order.HandleFailed(rec, logger)},

		{events.EventTypeStakingRequestCreated, "staking.HandleCreated",
			staking.HandleCreated(rec, a.Deps.Notifier, recipients, logger)},
		{events.EventTypeStakingRequestUnstaked, "staking.HandleUnstaked", staking.HandleUnstaked(rec, logger)},

		{events.EventTypeGAOrderCreated, "gaorder.HandleCreated", gaorder.HandleCreated(rec, logger)},
		{events.EventTypeGAOrderPaid, "gaorder.HandlePaid", gaorder.HandlePaid(rec, logger)},
		{events.EventTypeGAOrderFulfilled, "gaorder.HandleFulfilled", gaorder.HandleFulfilled(rec, logger)},
		{events.EventTypeGAOrderRefunded, "gaorder.HandleRefunded", gaorder.HandleRefunded(rec, logger)},
		{events.EventTypeGAOrderCancelled, "gaorder.HandleCancelled", gaorder.HandleCancelled(rec, logger)},

		{events.EventTypeGASubmitted, "geneticanalysis.HandleSubmitted",
			geneticanalysis.HandleSubmitted(rec, logger)},
		{events.EventTypeGAInProgress, "geneticanalysis.HandleInProgress",
			geneticanalysis.HandleInProgress(rec, logger)},
		{events.EventTypeGAResulted, "geneticanalysis.HandleResulted",
			geneticanalysis.HandleResulted(rec, logger)},
		{events.EventTypeGARejected, "geneticanalysis.HandleRejected",
			geneticanalysis.HandleRejected(rec, logger)},
		{events.EventTypeGARefunded, "geneticanalysis.HandleRefunded",
			geneticanalysis.HandleRefunded(rec, logger)},
	}

	// One InFlight per handler so coalescing never crosses event types.
	for _, r := range regs {
		a.Deps.EventBus.Register(
			r.eventType,
			common.WithIdempotency(
				r.handler,
				common.NewInFlight(),
				common.TransitionKey,
				r.name,
				logger,
			),
		)
	}
}
