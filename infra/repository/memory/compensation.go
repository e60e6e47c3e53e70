package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/amirasaad/ledgersync/pkg/domain"
	"github.com/amirasaad/ledgersync/pkg/domain/compensation"
	comprepo "github.com/amirasaad/ledgersync/pkg/repository/compensation"
)

type journalKey struct {
	ref    string
	action compensation.Action
}

// Journal is an in-memory compensation journal.
type Journal struct {
	mu      sync.Mutex
	entries map[journalKey]compensation.Entry
}

func NewJournal() *Journal {
	return &Journal{entries: make(map[journalKey]compensation.Entry)}
}

func (j *Journal) Get(_ context.Context, ref string, action compensation.Action) (*compensation.Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	e, ok := j.entries[journalKey{ref, action}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

func (j *Journal) Save(_ context.Context, entry *compensation.Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries[journalKey{entry.RefNumber, entry.Action}] = *entry
	return nil
}

func (j *Journal) ListUnfinished(_ context.Context, limit int) ([]*compensation.Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]*compensation.Entry, 0)
	for _, e := range j.entries {
		if e.State != compensation.StateDone {
			e := e
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].UpdatedAt.Before(out[b].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ comprepo.Repository = (*Journal)(nil)
