package refetch

import (
	"log/slog"
	"time"

	"github.com/refetch-go/refetch/metrics"
)

const (
	// DefaultRefreshInterval is how stale a value may get before a cache hit
	// schedules a background refresh.
	DefaultRefreshInterval = 48 * time.Hour

	// DefaultPollInterval is the period between forced fetches in Watch.
	DefaultPollInterval = 30 * time.Second
)

// DefaultBackoff is the failure backoff applied to Watch polling.
var DefaultBackoff = Backoff{
	Base:   DefaultPollInterval,
	Max:    10 * time.Minute,
	Jitter: 0.2,
}

func defaultConfig() config {
	return config{
		refreshInterval: DefaultRefreshInterval,
		pollInterval:    DefaultPollInterval,
		backoff:         DefaultBackoff,
		logger:          slog.Default(),
		metrics:         metrics.Noop{},
	}
}
