package refetch

import (
	"math"
	"math/rand"
	"time"
)

// Backoff controls how Watch slows down after consecutive forced-fetch
// failures, so a failing remote dependency is not hot-looped at the poll
// interval.
type Backoff struct {
	// Base is the delay after the first failure. Subsequent failures use
	// exponential back-off: Base * 2^failures.
	Base time.Duration

	// Max caps the computed back-off delay.
	Max time.Duration

	// Jitter adds randomness to the delay. A value of 0.2 means ±20 % of
	// the computed delay. Zero disables jitter.
	Jitter float64
}

// delay returns the wait for the given consecutive-failure count (1-indexed).
func (b Backoff) delay(failures int) time.Duration {
	if failures < 1 {
		failures = 1
	}
	d := float64(b.Base) * math.Pow(2, float64(failures-1))
	if max := float64(b.Max); b.Max > 0 && d > max {
		d = max
	}
	if b.Jitter > 0 {
		d += d * b.Jitter * (rand.Float64()*2 - 1)
	}
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}
