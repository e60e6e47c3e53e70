// Package memory holds in-process implementations of the repositories, used
// by tests and by the single-node development profile.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/amirasaad/ledgersync/pkg/domain"
	"github.com/amirasaad/ledgersync/pkg/domain/txlog"
	txlogrepo "github.com/amirasaad/ledgersync/pkg/repository/txlog"
)

type txKey struct {
	ref    string
	status txlog.Status
}

// TxLog is an append-only in-memory ledger.
type TxLog struct {
	mu      sync.RWMutex
	records []txlog.Record
	byKey   map[txKey]int
	creates int
}

func NewTxLog() *TxLog {
	return &TxLog{byKey: make(map[txKey]int)}
}

func (s *TxLog) GetByRefNumber(_ context.Context, ref string) (*txlog.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.records {
		if s.records[i].RefNumber == ref {
			rec := s.records[i]
			return &rec, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *TxLog) GetByRefNumberAndStatus(_ context.Context, ref string, status txlog.Status) (*txlog.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byKey[txKey{ref, status}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	rec := s.records[i]
	return &rec, nil
}

func (s *TxLog) Create(_ context.Context, rec *txlog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	k := txKey{rec.RefNumber, rec.Status}
	if _, ok := s.byKey[k]; ok {
		return fmt.Errorf("%w: %s/%s", domain.ErrAlreadyExists, rec.RefNumber, rec.Status)
	}
	if rec.ParentID != nil && (*rec.ParentID == 0 || *rec.ParentID > uint64(len(s.records))) {
		return fmt.Errorf("%w: parent %d does not exist", domain.ErrStore, *rec.ParentID)
	}
	rec.ID = uint64(len(s.records) + 1)
	s.records = append(s.records, *rec)
	s.byKey[k] = len(s.records) - 1
	return nil
}

// Records returns a copy of every stored record in insertion order.
func (s *TxLog) Records() []txlog.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]txlog.Record(nil), s.records...)
}

// Creates counts Create calls, including rejected ones.
func (s *TxLog) Creates() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creates
}

var _ txlogrepo.Repository = (*TxLog)(nil)
