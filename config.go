package refetch

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/refetch-go/refetch/metrics"
)

// config holds the internal per-cache configuration assembled via functional
// options.
type config struct {
	refreshInterval time.Duration
	pollInterval    time.Duration
	backoff         Backoff
	logger          *slog.Logger
	metrics         metrics.Metrics
	tracer          trace.Tracer
	limiter         *rate.Limiter
	breaker         *BreakerConfig
	nowFunc         func() time.Time
}

func (c *config) now() time.Time {
	if c.nowFunc != nil {
		return c.nowFunc()
	}
	return time.Now()
}
