// Package metrics defines the instrumentation hooks the refetch caches emit
// into, with a no-op default and a Prometheus-backed implementation.
package metrics

// Metrics receives cache lifecycle events. The cache argument is the identity
// key (or name) of the emitting instance.
type Metrics interface {
	// Hit is called when a read is served from the store.
	Hit(cache string)

	// Miss is called when a read falls through to the fetcher.
	Miss(cache string)

	// RefreshStarted is called when a background refresh begins.
	RefreshStarted(cache string)

	// RefreshSucceeded is called when a background refresh stores a value.
	RefreshSucceeded(cache string)

	// RefreshFailed is called when a background refresh fails.
	RefreshFailed(cache string)

	// Expired is called when a TTL entry is lazily evicted on read.
	Expired(cache string)
}

// Noop ignores all events. It is the default so that callers who do not care
// about instrumentation never have to nil-check.
type Noop struct{}

func (Noop) Hit(string)              {}
func (Noop) Miss(string)             {}
func (Noop) RefreshStarted(string)   {}
func (Noop) RefreshSucceeded(string) {}
func (Noop) RefreshFailed(string)    {}
func (Noop) Expired(string)          {}
