package refetch

import (
	"testing"
	"time"
)

func TestBackoff_ExponentialGrowth(t *testing.T) {
	b := Backoff{Base: time.Second, Max: time.Minute}

	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}
	for i, w := range want {
		if d := b.delay(i + 1); d != w {
			t.Fatalf("delay(%d) = %v, want %v", i+1, d, w)
		}
	}
}

func TestBackoff_CappedAtMax(t *testing.T) {
	b := Backoff{Base: time.Second, Max: 5 * time.Second}

	if d := b.delay(10); d != 5*time.Second {
		t.Fatalf("delay(10) = %v, want cap %v", d, 5*time.Second)
	}
}

func TestBackoff_JitterStaysInBounds(t *testing.T) {
	b := Backoff{Base: time.Second, Max: time.Minute, Jitter: 0.2}

	for i := 0; i < 100; i++ {
		d := b.delay(1)
		if d < 800*time.Millisecond || d > 1200*time.Millisecond {
			t.Fatalf("delay(1) = %v, want within ±20%% of 1s", d)
		}
	}
}

func TestBackoff_ZeroFailuresTreatedAsOne(t *testing.T) {
	b := Backoff{Base: time.Second, Max: time.Minute}

	if d := b.delay(0); d != time.Second {
		t.Fatalf("delay(0) = %v, want %v", d, time.Second)
	}
}
