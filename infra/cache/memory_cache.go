package cache

import (
	"context"
	"sync"
	"time"

	"github.com/amirasaad/ledgersync/pkg/domain"
	"github.com/amirasaad/ledgersync/pkg/provider/exchange"
)

// MemoryRateCache holds one rates snapshot with an optional expiry.
type MemoryRateCache struct {
	mu        sync.RWMutex
	rates     *exchange.Rates
	expiresAt time.Time
	now       func() time.Time
}

func NewMemoryRateCache() *MemoryRateCache {
	return &MemoryRateCache{now: time.Now}
}

func (c *MemoryRateCache) Get(_ context.Context) (*exchange.Rates, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.rates == nil || (!c.expiresAt.IsZero() && c.now().After(c.expiresAt)) {
		return nil, domain.ErrNotFound
	}
	r := *c.rates
	return &r, nil
}

func (c *MemoryRateCache) Set(_ context.Context, rates *exchange.Rates, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := *rates
	c.rates = &r
	c.expiresAt = time.Time{}
	if ttl > 0 {
		c.expiresAt = c.now().Add(ttl)
	}
	return nil
}

var _ exchange.RateCache = (*MemoryRateCache)(nil)
