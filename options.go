package refetch

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/refetch-go/refetch/metrics"
)

// tracerName identifies spans created by this module.
const tracerName = "github.com/refetch-go/refetch"

// Option configures a Cache.
type Option func(*config)

// WithRefreshInterval sets how stale a value may get before a cache hit
// schedules a background refresh. Values <= 0 are ignored.
func WithRefreshInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.refreshInterval = d
		}
	}
}

// WithPollInterval sets the period between forced fetches in Watch. Values
// <= 0 are ignored.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithBackoff sets the failure backoff applied to Watch polling.
func WithBackoff(b Backoff) Option {
	return func(c *config) {
		c.backoff = b
	}
}

// WithLogger sets the logger used for background refresh and Watch failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the instrumentation sink for cache lifecycle events.
func WithMetrics(m metrics.Metrics) Option {
	return func(c *config) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracerProvider enables OpenTelemetry spans around foreground fetches
// and background refreshes. When tp is nil the global provider is used.
// Without this option tracing is disabled.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		if tp == nil {
			tp = otel.GetTracerProvider()
		}
		c.tracer = tp.Tracer(tracerName)
	}
}

// WithRefreshLimit caps the rate at which background refreshes may start.
// A refresh that the limiter rejects is skipped; the next stale hit tries
// again.
func WithRefreshLimit(rps float64, burst int) Option {
	return func(c *config) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithBreaker suppresses background refreshes after repeated consecutive
// failures, for the cooldown configured in cfg. Foreground fetches are never
// blocked.
func WithBreaker(cfg BreakerConfig) Option {
	return func(c *config) {
		c.breaker = &cfg
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.nowFunc = now
	}
}
