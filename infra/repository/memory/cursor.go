package memory

import (
	"context"
	"sync"

	"github.com/amirasaad/ledgersync/pkg/domain"
	cursorrepo "github.com/amirasaad/ledgersync/pkg/repository/cursor"
)

type Cursor struct {
	mu     sync.Mutex
	blocks map[string]uint64
}

func NewCursor() *Cursor {
	return &Cursor{blocks: make(map[string]uint64)}
}

func (c *Cursor) Get(_ context.Context, stream string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.blocks[stream]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return b, nil
}

func (c *Cursor) Advance(_ context.Context, stream string, block uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if block > c.blocks[stream] {
		c.blocks[stream] = block
	}
	return nil
}

var _ cursorrepo.Repository = (*Cursor)(nil)
