package compensation

import (
	"context"
	"log/slog"
	"time"

	comprepo "github.com/amirasaad/ledgersync/pkg/repository/compensation"
)

// Sweeper periodically retries compensations left pending or failed.
type Sweeper struct {
	dispatcher *Dispatcher
	journal    comprepo.Repository
	interval   time.Duration
	batch      int
	logger     *slog.Logger
}

func NewSweeper(dispatcher *Dispatcher, journal comprepo.Repository, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		dispatcher: dispatcher,
		journal:    journal,
		interval:   interval,
		batch:      100,
		logger:     logger.With("component", "compensation.Sweeper"),
	}
}

// Run sweeps every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Info("compensation sweeper disabled")
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				s.logger.Error("sweep failed", "error", err)
			}
		}
	}
}

// SweepOnce retries one batch and returns how many entries completed.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	listCtx, cancel := context.WithTimeout(ctx, s.dispatcher.callTimeout)
	entries, err := s.journal.ListUnfinished(listCtx, s.batch)
	cancel()
	if err != nil {
		return 0, storeErr(err)
	}
	done := 0
	for _, entry := range entries {
		if ctx.Err() != nil {
			return done, ctx.Err()
		}
		if err := s.dispatcher.Retry(ctx, entry); err != nil {
			s.logger.Warn("compensation still failing", "ref_number", entry.RefNumber, "action", string(entry.Action), "error", err)
			continue
		}
		done++
	}
	if len(entries) > 0 {
		s.logger.Info("compensation sweep finished", "candidates", len(entries), "completed", done)
	}
	return done, nil
}
