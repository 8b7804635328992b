package refetch

import "time"

// breakerState represents the current circuit state.
type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

// BreakerConfig holds the circuit breaker parameters for background refresh
// suppression.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive refresh failures before
	// further background refreshes are suppressed.
	FailureThreshold int

	// OpenTimeout is how long refreshes stay suppressed before a single
	// probe refresh is allowed through.
	OpenTimeout time.Duration

	// HalfOpenMaxSuccess is the number of consecutive probe successes
	// required to resume normal refreshing.
	HalfOpenMaxSuccess int
}

// breaker is a minimal circuit breaker guarding the background refresh path.
// Callers must hold the owning cache's mutex; the breaker itself does no
// locking.
type breaker struct {
	cfg BreakerConfig

	state     breakerState
	failures  int // consecutive failures in closed
	successes int // consecutive successes in half-open
	openedAt  time.Time
	nowFunc   func() time.Time
}

func newBreaker(cfg BreakerConfig, now func() time.Time) *breaker {
	if now == nil {
		now = time.Now
	}
	return &breaker{cfg: cfg, state: breakerClosed, nowFunc: now}
}

// allow reports whether a refresh may start.
func (b *breaker) allow() bool {
	b.checkOpenTimeout()
	switch b.state {
	case breakerClosed:
		return true
	case breakerHalfOpen:
		return b.successes < b.cfg.HalfOpenMaxSuccess
	default: // open
		return false
	}
}

func (b *breaker) onSuccess() {
	switch b.state {
	case breakerClosed:
		b.failures = 0
	case breakerHalfOpen:
		b.successes++
		if b.successes >= b.cfg.HalfOpenMaxSuccess {
			b.state = breakerClosed
			b.failures = 0
			b.successes = 0
		}
	}
}

func (b *breaker) onFailure() {
	switch b.state {
	case breakerClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.toOpen()
		}
	case breakerHalfOpen:
		b.toOpen()
	}
}

// checkOpenTimeout transitions from open to half-open when the timeout has
// elapsed.
func (b *breaker) checkOpenTimeout() {
	if b.state == breakerOpen && b.nowFunc().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		b.state = breakerHalfOpen
		b.successes = 0
	}
}

func (b *breaker) toOpen() {
	b.state = breakerOpen
	b.openedAt = b.nowFunc()
	b.successes = 0
}
