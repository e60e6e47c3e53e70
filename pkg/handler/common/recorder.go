package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/ledgersync/pkg/domain"
	"github.com/amirasaad/ledgersync/pkg/domain/events"
	"github.com/amirasaad/ledgersync/pkg/domain/txlog"
	txlogrepo "github.com/amirasaad/ledgersync/pkg/repository/txlog"
	"github.com/shopspring/decimal"
)

// Compensator issues the compensating actions for a terminal-failure event.
// It must itself be idempotent per event identity.
type Compensator interface {
	Compensate(ctx context.Context, e events.Event) error
}

// Transition is the record a handler wants appended for an event.
type Transition struct {
	Event    events.Event
	Type     txlog.Type
	Address  string
	Amount   decimal.Decimal
	Currency string
}

// Result reports what Record did.
type Result struct {
	Record *txlog.Record
	// Duplicate is true when the transition was already recorded and no
	// write happened.
	Duplicate bool
}

// Recorder runs the shared transition protocol: serialize per ref, check
// the guard, resolve the parent, append, then compensate when the status
// requires it.
type Recorder struct {
	repo         txlogrepo.Repository
	guard        *Guard
	locks        *KeyedMutex
	compensator  Compensator
	storeTimeout time.Duration
	now          func() time.Time
	logger       *slog.Logger
}

// NewRecorder builds a Recorder. compensator may be nil only when no
// compensating status is ever handled.
func NewRecorder(
	repo txlogrepo.Repository,
	compensator Compensator,
	storeTimeout time.Duration,
	logger *slog.Logger,
) *Recorder {
	if storeTimeout <= 0 {
		storeTimeout = 10 * time.Second
	}
	return &Recorder{
		repo:         repo,
		guard:        NewGuard(repo),
		locks:        NewKeyedMutex(),
		compensator:  compensator,
		storeTimeout: storeTimeout,
		now:          time.Now,
		logger:       logger,
	}
}

// Record appends the transition at most once. Errors wrap one of
// domain.ErrStore, domain.ErrNotYetProcessable or domain.ErrOutbound.
func (r *Recorder) Record(ctx context.Context, t Transition) (Result, error) {
	e := t.Event
	ref, status := e.Identity(), e.Status()
	log := r.logger.With("ref_number", ref, "status", status.String(), "block_number", e.Metadata().BlockNumber)

	unlock := r.locks.Lock(ref)
	defer unlock()

	readCtx, cancel := context.WithTimeout(ctx, r.storeTimeout)
	recorded, err := r.guard.HasBeenRecorded(readCtx, ref, status)
	cancel()
	if err != nil {
		log.Error("idempotency check failed", "error", err)
		return Result{}, fmt.Errorf("failed to check idempotency: %w", err)
	}
	if recorded {
		log.Info("🔁 [SKIP] transition already recorded")
		// A previous delivery may have written the record and then failed
		// to compensate. The compensator's journal makes this a no-op
		// when it already succeeded.
		if err := r.compensate(ctx, e, log); err != nil {
			return Result{Duplicate: true}, err
		}
		return Result{Duplicate: true}, nil
	}

	rec := &txlog.Record{
		RefNumber:       ref,
		Type:            t.Type,
		Status:          status,
		Address:         t.Address,
		Amount:          t.Amount,
		Currency:        t.Currency,
		TransactionHash: e.Metadata().BlockHash,
		BlockNumber:     e.Metadata().BlockNumber,
		CreatedAt:       r.now().UTC(),
	}

	if !status.IsRoot() {
		readCtx, cancel := context.WithTimeout(ctx, r.storeTimeout)
		parent, err := r.repo.GetByRefNumber(readCtx, ref)
		cancel()
		switch {
		case errors.Is(err, domain.ErrNotFound):
			log.Warn("parent record not stored yet")
			return Result{}, fmt.Errorf("%w: no parent record for %s", domain.ErrNotYetProcessable, ref)
		case err != nil:
			log.Error("parent lookup failed", "error", err)
			return Result{}, fmt.Errorf("failed to get parent record: %w", asStoreError(err))
		}
		parentID := parent.ID
		rec.ParentID = &parentID
	}

	// The write is not abandoned when the caller gives up; it completes or
	// fails within the store timeout.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.storeTimeout)
	err = r.repo.Create(writeCtx, rec)
	cancel()
	switch {
	case errors.Is(err, domain.ErrAlreadyExists):
		log.Info("🔁 [SKIP] transition recorded concurrently")
		if err := r.compensate(ctx, e, log); err != nil {
			return Result{Duplicate: true}, err
		}
		return Result{Duplicate: true}, nil
	case err != nil:
		log.Error("failed to create transaction record", "error", err)
		return Result{}, fmt.Errorf("failed to create transaction record: %w", asStoreError(err))
	}
	log.Info("✅ transition recorded", "record_id", rec.ID, "type", rec.Type.String())

	if err := r.compensate(ctx, e, log); err != nil {
		return Result{Record: rec}, err
	}
	return Result{Record: rec}, nil
}

func (r *Recorder) compensate(ctx context.Context, e events.Event, log *slog.Logger) error {
	if !e.Status().RequiresCompensation() {
		return nil
	}
	if r.compensator == nil {
		return fmt.Errorf("%w: no compensator configured for %s", domain.ErrOutbound, e.Type())
	}
	if err := r.compensator.Compensate(ctx, e); err != nil {
		log.Error("compensation failed, will retry on redelivery", "error", err)
		if !errors.Is(err, domain.ErrOutbound) && !errors.Is(err, domain.ErrStore) {
			err = fmt.Errorf("%w: %w", domain.ErrOutbound, err)
		}
		return fmt.Errorf("failed to compensate %s: %w", e.Identity(), err)
	}
	return nil
}

func asStoreError(err error) error {
	if errors.Is(err, domain.ErrStore) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStore, err)
}
