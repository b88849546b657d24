package cache

import (
	"context"
	"sync"
	"time"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain/dashboard"
)

type localEntry struct {
	day     string
	stats   dashboard.Stats
	expires time.Time
}

// LocalCache is an in-process dashboard cache for single-instance
// deployments without Redis.
type LocalCache struct {
	mu      sync.RWMutex
	entries map[id.ID]localEntry
	gens    map[id.ID]int64
	ttl     time.Duration
	now     func() time.Time
}

var _ dashboard.Cache = (*LocalCache)(nil)

// NewLocalCache creates an in-process cache whose entries expire after ttl.
func NewLocalCache(ttl time.Duration) *LocalCache {
	return &LocalCache{
		entries: make(map[id.ID]localEntry),
		gens:    make(map[id.ID]int64),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *LocalCache) Get(_ context.Context, ownerID id.ID, day string) (*dashboard.Stats, int64, error) {
	c.mu.RLock()
	e, ok := c.entries[ownerID]
	gen := c.gens[ownerID]
	c.mu.RUnlock()

	if !ok || e.day != day || !c.now().Before(e.expires) {
		return nil, gen, nil
	}
	st := e.stats
	st.TopProducts = append([]dashboard.ProductSales(nil), e.stats.TopProducts...)
	return &st, gen, nil
}

// Set is a no-op when Delete ran since the Get that returned gen.
func (c *LocalCache) Set(_ context.Context, ownerID id.ID, day string, gen int64, st dashboard.Stats) error {
	st.TopProducts = append([]dashboard.ProductSales(nil), st.TopProducts...)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[ownerID] != gen {
		return nil
	}
	c.entries[ownerID] = localEntry{day: day, stats: st, expires: c.now().Add(c.ttl)}
	return nil
}

func (c *LocalCache) Delete(_ context.Context, ownerID id.ID) error {
	c.mu.Lock()
	delete(c.entries, ownerID)
	c.gens[ownerID]++
	c.mu.Unlock()
	return nil
}
