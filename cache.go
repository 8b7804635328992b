// Package refetch implements a fetch-with-cache-and-background-refresh layer
// for client applications: reads are served from a pluggable key-value store
// when possible, and a hit on a stale value schedules at most one asynchronous
// re-fetch whose result updates the store for subsequent reads.
//
// A Cache never expires its entries; the store is the sole authority for
// presence, and staleness only triggers a background refresh. For read-time
// expiry of scalar values see the ttlcache package.
package refetch

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/refetch-go/refetch/store"
)

// Fetcher produces a fresh value, typically from a network call. It is
// supplied per call so different call sites can share one cache instance.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Cache is a per-key fetch-with-cache engine. The identity key, store and
// configuration are fixed at construction. All methods are safe for
// concurrent use.
type Cache[T any] struct {
	key string
	st  store.Store
	cfg config

	mu          sync.Mutex
	refreshing  bool
	lastRefresh time.Time // zero means never refreshed by this instance
	br          *breaker

	// refreshWG tracks in-flight background refreshes so tests can await
	// their completion instead of polling.
	refreshWG sync.WaitGroup
}

// New creates a Cache for the given identity key backed by st.
func New[T any](key string, st store.Store, opts ...Option) *Cache[T] {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	c := &Cache[T]{key: key, st: st, cfg: cfg}
	if cfg.breaker != nil {
		c.br = newBreaker(*cfg.breaker, cfg.nowFunc)
	}
	return c
}

// Key returns the identity key this instance caches under.
func (c *Cache[T]) Key() string { return c.key }

// Get returns the value for this cache's key. A store hit is returned
// immediately; before returning, the hit may schedule a single background
// refresh if the value has gone stale. A miss invokes fetcher synchronously
// and persists its result. Fetcher and store failures on the miss path
// propagate to the caller.
func (c *Cache[T]) Get(ctx context.Context, fetcher Fetcher[T]) (T, error) {
	var span trace.Span
	if c.cfg.tracer != nil {
		ctx, span = c.cfg.tracer.Start(ctx, "refetch.Get",
			trace.WithAttributes(attribute.String("cache.key", c.key)))
		defer span.End()
	}

	var zero T
	raw, ok, err := c.st.Get(ctx, c.key)
	if err != nil {
		return zero, c.fail(span, fmt.Errorf("refetch: read %q: %w", c.key, err))
	}
	if ok {
		var val T
		if err := json.Unmarshal(raw, &val); err != nil {
			// A value this instance cannot decode is treated as absent.
			c.cfg.logger.Warn("discarding undecodable cache entry",
				"cache", c.key, "err", err)
		} else {
			if span != nil {
				span.SetAttributes(attribute.Bool("cache.hit", true))
			}
			c.cfg.metrics.Hit(c.key)
			c.maybeRefresh(fetcher)
			return val, nil
		}
	}

	if span != nil {
		span.SetAttributes(attribute.Bool("cache.hit", false))
	}
	c.cfg.metrics.Miss(c.key)
	val, err := c.fetchAndStore(ctx, fetcher)
	if err != nil {
		return zero, c.fail(span, err)
	}
	return val, nil
}

// Refresh bypasses the cache: it always invokes fetcher, and on success
// overwrites the store and resets the staleness clock. On failure the error
// propagates and the store is left untouched.
func (c *Cache[T]) Refresh(ctx context.Context, fetcher Fetcher[T]) (T, error) {
	var span trace.Span
	if c.cfg.tracer != nil {
		ctx, span = c.cfg.tracer.Start(ctx, "refetch.Refresh",
			trace.WithAttributes(attribute.String("cache.key", c.key)))
		defer span.End()
	}

	val, err := c.fetchAndStore(ctx, fetcher)
	if err != nil {
		var zero T
		return zero, c.fail(span, err)
	}
	return val, nil
}

// fetchAndStore runs the foreground fetch-persist-record sequence shared by
// the miss path and Refresh.
func (c *Cache[T]) fetchAndStore(ctx context.Context, fetcher Fetcher[T]) (T, error) {
	var zero T
	val, err := fetcher(ctx)
	if err != nil {
		return zero, fmt.Errorf("refetch: fetch %q: %w", c.key, err)
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return zero, fmt.Errorf("refetch: encode %q: %w", c.key, err)
	}
	if err := c.st.Set(ctx, c.key, raw); err != nil {
		return zero, fmt.Errorf("refetch: write %q: %w", c.key, err)
	}

	c.mu.Lock()
	c.lastRefresh = c.cfg.now()
	c.refreshing = false
	c.mu.Unlock()
	return val, nil
}

// maybeRefresh decides, after a hit, whether to spawn a background refresh.
// At most one refresh per instance is in flight at a time; an unset
// lastRefresh (value seeded into the store by someone else) refreshes
// immediately, otherwise refresh starts once the interval has elapsed.
func (c *Cache[T]) maybeRefresh(fetcher Fetcher[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.refreshing {
		return
	}
	if !c.lastRefresh.IsZero() && c.cfg.now().Sub(c.lastRefresh) < c.cfg.refreshInterval {
		return
	}
	if c.br != nil && !c.br.allow() {
		return
	}
	if c.cfg.limiter != nil && !c.cfg.limiter.Allow() {
		return
	}

	c.refreshing = true
	c.refreshWG.Add(1)
	go c.backgroundRefresh(fetcher)
}

// backgroundRefresh re-fetches and updates the store. Failures are logged and
// absorbed: a caller that did not ask for fresh data must never see them.
func (c *Cache[T]) backgroundRefresh(fetcher Fetcher[T]) {
	defer c.refreshWG.Done()

	ctx := context.Background()
	var span trace.Span
	if c.cfg.tracer != nil {
		ctx, span = c.cfg.tracer.Start(ctx, "refetch.backgroundRefresh",
			trace.WithAttributes(attribute.String("cache.key", c.key)))
		defer span.End()
	}

	c.cfg.metrics.RefreshStarted(c.key)

	val, err := fetcher(ctx)
	if err == nil {
		var raw []byte
		if raw, err = json.Marshal(val); err == nil {
			err = c.st.Set(ctx, c.key, raw)
		}
	}

	c.mu.Lock()
	c.refreshing = false
	if err != nil {
		if c.br != nil {
			c.br.onFailure()
		}
		c.mu.Unlock()
		c.cfg.metrics.RefreshFailed(c.key)
		c.cfg.logger.Warn("background refresh failed", "cache", c.key, "err", err)
		if span != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return
	}
	c.lastRefresh = c.cfg.now()
	if c.br != nil {
		c.br.onSuccess()
	}
	c.mu.Unlock()
	c.cfg.metrics.RefreshSucceeded(c.key)
}

// Clear removes the store entry for this instance's key and resets the
// refresh bookkeeping, so the next Get behaves as a first-ever miss. A
// refresh already in flight cannot be aborted and will still write its
// result.
func (c *Cache[T]) Clear(ctx context.Context) error {
	if err := c.st.Remove(ctx, c.key); err != nil {
		return fmt.Errorf("refetch: clear %q: %w", c.key, err)
	}
	c.mu.Lock()
	c.lastRefresh = time.Time{}
	c.refreshing = false
	c.mu.Unlock()
	return nil
}

// Cancel resets the refresh bookkeeping without touching stored data. A
// refresh already in flight still completes and writes its result, so a Get
// issued after Cancel may briefly overlap with it.
func (c *Cache[T]) Cancel() {
	c.mu.Lock()
	c.refreshing = false
	c.mu.Unlock()
}

// Status is a read-only diagnostic snapshot of a cache instance.
type Status struct {
	Key             string
	Refreshing      bool
	LastRefresh     time.Time // zero if never refreshed by this instance
	RefreshInterval time.Duration
}

// Status returns a diagnostic snapshot. It has no side effects.
func (c *Cache[T]) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		Key:             c.key,
		Refreshing:      c.refreshing,
		LastRefresh:     c.lastRefresh,
		RefreshInterval: c.cfg.refreshInterval,
	}
}

// waitRefresh blocks until all in-flight background refreshes complete.
func (c *Cache[T]) waitRefresh() {
	c.refreshWG.Wait()
}

// fail records err on span (when tracing) and returns it unchanged.
func (c *Cache[T]) fail(span trace.Span, err error) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
