// Package compensation issues refunds and refunded-state calls to the ledger
// for transactions that reached a terminal-failure status.
package compensation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/ledgersync/pkg/domain"
	"github.com/amirasaad/ledgersync/pkg/domain/compensation"
	"github.com/amirasaad/ledgersync/pkg/domain/events"
	"github.com/amirasaad/ledgersync/pkg/handler/common"
	"github.com/amirasaad/ledgersync/pkg/provider/ledger"
	comprepo "github.com/amirasaad/ledgersync/pkg/repository/compensation"
	"github.com/shopspring/decimal"
)

// Dispatcher journals every compensating call by (ref, action). A call whose
// entry is done is never issued again; a failed one is retried on the next
// redelivery or sweep.
type Dispatcher struct {
	journal     comprepo.Repository
	client      ledger.Client
	locks       *common.KeyedMutex
	callTimeout time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

func NewDispatcher(
	journal comprepo.Repository,
	client ledger.Client,
	callTimeout time.Duration,
	logger *slog.Logger,
) *Dispatcher {
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	return &Dispatcher{
		journal:     journal,
		client:      client,
		locks:       common.NewKeyedMutex(),
		callTimeout: callTimeout,
		now:         time.Now,
		logger:      logger.With("component", "compensation.Dispatcher"),
	}
}

// Compensate picks the plan for a terminal-failure event.
func (d *Dispatcher) Compensate(ctx context.Context, e events.Event) error {
	switch ev := e.(type) {
	case *events.Order:
		return d.RefundOrder(ctx, ev.ID, ev.Amount())
	case *events.GeneticAnalysis:
		return d.MarkGeneticAnalysisOrderRefunded(ctx, ev.TrackingID)
	default:
		return fmt.Errorf("no compensation plan for %s", e.Type())
	}
}

// RefundOrder returns the escrowed value to the customer, then marks the
// order refunded. The second call is only issued once the first is done.
func (d *Dispatcher) RefundOrder(ctx context.Context, orderID string, amount decimal.Decimal) error {
	unlock := d.locks.Lock(orderID)
	defer unlock()

	log := d.logger.With("ref_number", orderID, "amount", amount.String())
	if err := d.ensure(ctx, log, orderID, compensation.ActionEscrowRefund, orderID, d.client.RefundOrder); err != nil {
		return err
	}
	return d.ensure(ctx, log, orderID, compensation.ActionSetOrderRefunded, orderID, d.client.SetOrderRefunded)
}

// MarkGeneticAnalysisOrderRefunded moves the order behind a rejected genetic
// analysis to its refunded state.
func (d *Dispatcher) MarkGeneticAnalysisOrderRefunded(ctx context.Context, trackingID string) error {
	unlock := d.locks.Lock(trackingID)
	defer unlock()

	log := d.logger.With("ref_number", trackingID)
	return d.ensure(ctx, log, trackingID, compensation.ActionSetGeneticAnalysisOrderRefunded, trackingID,
		d.client.SetGeneticAnalysisOrderRefunded)
}

// Retry re-runs the plan that produced entry.
func (d *Dispatcher) Retry(ctx context.Context, entry *compensation.Entry) error {
	switch entry.Action {
	case compensation.ActionEscrowRefund, compensation.ActionSetOrderRefunded:
		return d.RefundOrder(ctx, entry.RefNumber, decimal.Zero)
	case compensation.ActionSetGeneticAnalysisOrderRefunded:
		return d.MarkGeneticAnalysisOrderRefunded(ctx, entry.Target)
	default:
		return fmt.Errorf("unknown compensation action %q", entry.Action)
	}
}

func (d *Dispatcher) ensure(
	ctx context.Context,
	log *slog.Logger,
	ref string,
	action compensation.Action,
	target string,
	call func(context.Context, string) error,
) error {
	log = log.With("action", string(action))

	getCtx, cancelGet := context.WithTimeout(ctx, d.callTimeout)
	entry, err := d.journal.Get(getCtx, ref, action)
	cancelGet()
	switch {
	case errors.Is(err, domain.ErrNotFound):
		entry = &compensation.Entry{RefNumber: ref, Action: action, Target: target, State: compensation.StatePending}
		// Journal the intent first so a crash mid-call leaves work for the sweeper.
		entry.UpdatedAt = d.now().UTC()
		if err := d.save(ctx, entry); err != nil {
			return err
		}
	case err != nil:
		return fmt.Errorf("failed to read compensation journal: %w", storeErr(err))
	}

	if entry.State == compensation.StateDone {
		log.Debug("🔁 [SKIP] compensation already applied")
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, d.callTimeout)
	callErr := call(callCtx, target)
	cancel()

	entry.Attempts++
	entry.UpdatedAt = d.now().UTC()
	switch {
	case callErr == nil:
		entry.State, entry.LastError = compensation.StateDone, ""
		log.Info("✅ compensation applied", "attempts", entry.Attempts)
	case errors.Is(callErr, domain.ErrAlreadyApplied):
		entry.State, entry.LastError = compensation.StateDone, ""
		log.Info("✅ compensation already in target state on ledger", "attempts", entry.Attempts)
	default:
		entry.State, entry.LastError = compensation.StateFailed, callErr.Error()
		log.Error("compensation call failed", "attempts", entry.Attempts, "error", callErr)
	}

	if err := d.save(ctx, entry); err != nil {
		return err
	}
	if entry.State != compensation.StateDone {
		if !errors.Is(callErr, domain.ErrOutbound) {
			callErr = fmt.Errorf("%w: %w", domain.ErrOutbound, callErr)
		}
		return fmt.Errorf("failed to %s for %s: %w", action, target, callErr)
	}
	return nil
}

func (d *Dispatcher) save(ctx context.Context, entry *compensation.Entry) error {
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.callTimeout)
	defer cancel()
	if err := d.journal.Save(saveCtx, entry); err != nil {
		d.logger.Error("failed to save compensation journal", "ref_number", entry.RefNumber, "error", err)
		return fmt.Errorf("failed to save compensation journal: %w", storeErr(err))
	}
	return nil
}

func storeErr(err error) error {
	if errors.Is(err, domain.ErrStore) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStore, err)
}

var _ common.Compensator = (*Dispatcher)(nil)
