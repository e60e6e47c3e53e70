// Package staking records service request stakes and their return.
package staking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/ledgersync/pkg/domain/events"
	"github.com/amirasaad/ledgersync/pkg/domain/txlog"
	"github.com/amirasaad/ledgersync/pkg/eventbus"
	"github.com/amirasaad/ledgersync/pkg/handler/common"
	"github.com/amirasaad/ledgersync/pkg/money"
	"github.com/amirasaad/ledgersync/pkg/provider/notify"
)

const notifyTimeout = 5 * time.Second

// HandleCreated records the stake and notifies the configured recipients.
// The notification is best effort and never fails the event.
func HandleCreated(
	rec *common.Recorder,
	notifier notify.Dispatcher,
	recipients []string,
	logger *slog.Logger,
) eventbus.HandlerFunc {
	return func(ctx context.Context, e events.Event) error {
		log := logger.With("handler", "staking.HandleCreated", "event_type", e.Type())

		sr, ok := e.(*events.StakingRequest)
		if !ok {
			err := fmt.Errorf("expected StakingRequest event, got %T", e)
			log.Error("invalid event type", "error", err)
			return err
		}

		res, err := rec.Record(ctx, transition(sr))
		if err != nil {
			return fmt.Errorf("staking.HandleCreated: %w", err)
		}
		if res.Duplicate || notifier == nil || len(recipients) == 0 {
			return nil
		}

		msg := StakingRequestMessage(sr, recipients)
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		if err := notifier.Send(nctx, msg); err != nil {
			log.Warn("failed to send staking request notification", "ref_number", sr.Hash, "error", err)
		}
		return nil
	}
}

// HandleUnstaked records the returned stake as a child of the original stake.
func HandleUnstaked(rec *common.Recorder, logger *slog.Logger) eventbus.HandlerFunc {
	return func(ctx context.Context, e events.Event) error {
		log := logger.With("handler", "staking.HandleUnstaked", "event_type", e.Type())

		sr, ok := e.(*events.StakingRequest)
		if !ok {
			err := fmt.Errorf("expected StakingRequest event, got %T", e)
			log.Error("invalid event type", "error", err)
			return err
		}

		if _, err := rec.Record(ctx, transition(sr)); err != nil {
			return fmt.Errorf("staking.HandleUnstaked: %w", err)
		}
		return nil
	}
}

func transition(sr *events.StakingRequest) common.Transition {
	return common.Transition{
		Event:    sr,
		Type:     txlog.TypeStaking,
		Address:  sr.RequesterAddress,
		Amount:   sr.StakingAmount,
		Currency: money.NativeCurrency,
	}
}

// StakingRequestMessage builds the notification for a new staking request.
func StakingRequestMessage(sr *events.StakingRequest, recipients []string) notify.Message {
	return notify.Message{
		To:       recipients,
		Template: notify.TemplateStakingRequestCreated,
		Subject:  fmt.Sprintf("New Service Request - %s - %s, %s, %s", sr.ServiceCategory, sr.City, sr.Region, sr.Country),
		Data: map[string]any{
			"request_id":       sr.Hash,
			"requester":        sr.RequesterAddress,
			"service_category": sr.ServiceCategory,
			"country":          sr.Country,
			"region":           sr.Region,
			"city":             sr.City,
			"staking_amount":   sr.StakingAmount.String(),
			"currency":         money.NativeCurrency,
			"block_number":     sr.BlockNumber,
		},
	}
}
