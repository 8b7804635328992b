// Package ttlcache provides a keyed in-memory cache for scalar values with
// explicit time-to-live expiry. It is the pull-based counterpart to the
// refetch package's push-based background refresh: entries older than the TTL
// are treated as absent and lazily evicted on the next read, which re-fetches.
//
// It was built for rating-style lookups (an average rating per class id or
// per teacher id); several independently named instances can coexist in one
// process.
package ttlcache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultTTL is the entry lifetime applied when WithTTL is not given.
const DefaultTTL = time.Hour

// Fetcher produces the value for a single id, typically from a network call.
type Fetcher[K comparable] func(ctx context.Context, id K) (float64, error)

type entry struct {
	value    float64
	cachedAt time.Time
}

// Cache is a TTL-keyed cache of float64 values. The name and TTL are fixed at
// construction. All methods are safe for concurrent use.
type Cache[K comparable] struct {
	name string
	cfg  config

	mu      sync.Mutex
	entries map[K]entry
}

// New creates a Cache with the given diagnostic name.
func New[K comparable](name string, opts ...Option) *Cache[K] {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Cache[K]{
		name:    name,
		cfg:     cfg,
		entries: make(map[K]entry),
	}
}

// Get returns the cached value for id when it is younger than the TTL.
// Otherwise the stale entry (if any) is evicted, fetch is invoked, and its
// result is cached and returned. Fetch failures propagate; callers that want
// a default instead should handle the error at the call site, or use GetMany.
func (c *Cache[K]) Get(ctx context.Context, id K, fetch Fetcher[K]) (float64, error) {
	if v, ok := c.lookup(id); ok {
		c.cfg.metrics.Hit(c.name)
		return v, nil
	}
	c.cfg.metrics.Miss(c.name)
	return c.fill(ctx, id, fetch)
}

// Refresh evicts any entry for id and re-fetches unconditionally.
func (c *Cache[K]) Refresh(ctx context.Context, id K, fetch Fetcher[K]) (float64, error) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
	c.cfg.metrics.Miss(c.name)
	return c.fill(ctx, id, fetch)
}

// GetMany applies Get sequentially to each id and aggregates the results.
// A failed id maps to 0 and is logged; one failure never aborts the batch.
func (c *Cache[K]) GetMany(ctx context.Context, ids []K, fetch Fetcher[K]) map[K]float64 {
	out := make(map[K]float64, len(ids))
	for _, id := range ids {
		v, err := c.Get(ctx, id, fetch)
		if err != nil {
			c.cfg.logger.Warn("falling back to zero for failed fetch",
				"cache", c.name, "id", fmt.Sprint(id), "err", err)
			v = 0
		}
		out[id] = v
	}
	return out
}

// Clear removes the entry for id. Removing an absent id is a no-op.
func (c *Cache[K]) Clear(id K) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}

// ClearAll removes every entry.
func (c *Cache[K]) ClearAll() {
	c.mu.Lock()
	c.entries = make(map[K]entry)
	c.mu.Unlock()
}

// TTL returns the configured entry lifetime.
func (c *Cache[K]) TTL() time.Duration { return c.cfg.ttl }

// Status is a read-only diagnostic snapshot of a cache instance. Entries
// counts stored entries, including any that have expired but not yet been
// lazily evicted by a read.
type Status struct {
	Name    string
	TTL     time.Duration
	Entries int
}

// Status returns a diagnostic snapshot. It has no side effects.
func (c *Cache[K]) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{Name: c.name, TTL: c.cfg.ttl, Entries: len(c.entries)}
}

// lookup returns a valid cached value, lazily evicting an expired entry.
func (c *Cache[K]) lookup(id K) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return 0, false
	}
	if c.cfg.now().Sub(e.cachedAt) > c.cfg.ttl {
		delete(c.entries, id)
		c.cfg.metrics.Expired(c.name)
		return 0, false
	}
	return e.value, true
}

// fill runs the miss path: fetch, cache, return.
func (c *Cache[K]) fill(ctx context.Context, id K, fetch Fetcher[K]) (float64, error) {
	v, err := fetch(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("ttlcache %q: fetch %v: %w", c.name, id, err)
	}
	c.mu.Lock()
	c.entries[id] = entry{value: v, cachedAt: c.cfg.now()}
	c.mu.Unlock()
	return v, nil
}
