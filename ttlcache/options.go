package ttlcache

import (
	"log/slog"
	"time"

	"github.com/refetch-go/refetch/metrics"
)

// config holds the internal configuration assembled via functional options.
type config struct {
	ttl     time.Duration
	logger  *slog.Logger
	metrics metrics.Metrics
	nowFunc func() time.Time
}

func (c *config) now() time.Time {
	if c.nowFunc != nil {
		return c.nowFunc()
	}
	return time.Now()
}

func defaultConfig() config {
	return config{
		ttl:     DefaultTTL,
		logger:  slog.Default(),
		metrics: metrics.Noop{},
	}
}

// Option configures a Cache.
type Option func(*config)

// WithTTL sets the entry lifetime. Values <= 0 are ignored.
func WithTTL(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithLogger sets the logger used for GetMany fallback reporting.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the instrumentation sink for hit/miss/expiry events.
func WithMetrics(m metrics.Metrics) Option {
	return func(c *config) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.nowFunc = now
	}
}
