package refetch

import (
	"context"
	"time"
)

// Watch returns a channel of values for this cache's key. One cache-aware
// value is emitted immediately (via Get), then a forced fetch runs every poll
// interval and emits its result, indefinitely. A failed fetch is logged and
// skipped — the stream continues at the next poll, with exponential backoff
// applied while failures persist. The channel is closed when ctx is done;
// cancelling ctx is the only way to stop the stream.
func (c *Cache[T]) Watch(ctx context.Context, fetcher Fetcher[T]) <-chan T {
	out := make(chan T, 1)
	go c.watchLoop(ctx, fetcher, out)
	return out
}

func (c *Cache[T]) watchLoop(ctx context.Context, fetcher Fetcher[T], out chan<- T) {
	defer close(out)

	failures := 0
	if v, err := c.Get(ctx, fetcher); err != nil {
		failures++
		c.cfg.logger.Warn("watch: initial fetch failed", "cache", c.key, "err", err)
	} else if !emit(ctx, out, v) {
		return
	}

	timer := time.NewTimer(c.nextPoll(failures))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if v, err := c.Refresh(ctx, fetcher); err != nil {
			failures++
			c.cfg.logger.Warn("watch: forced fetch failed",
				"cache", c.key, "failures", failures, "err", err)
		} else {
			failures = 0
			if !emit(ctx, out, v) {
				return
			}
		}
		timer.Reset(c.nextPoll(failures))
	}
}

// nextPoll returns the wait before the next forced fetch: the poll interval
// normally, or a backoff delay while consecutive failures accumulate.
func (c *Cache[T]) nextPoll(failures int) time.Duration {
	if failures == 0 {
		return c.cfg.pollInterval
	}
	b := c.cfg.backoff
	if b.Base <= 0 {
		b.Base = c.cfg.pollInterval
	}
	return b.delay(failures)
}

func emit[T any](ctx context.Context, out chan<- T, v T) bool {
	select {
	case out <- v:
		return true
	case <-ctx.Done():
		return false
	}
}
