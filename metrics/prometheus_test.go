package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheus_CountsByCache(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg)

	p.Hit("weather")
	p.Hit("weather")
	p.Miss("weather")
	p.Hit("ratings")

	if got := testutil.ToFloat64(p.hits.WithLabelValues("weather")); got != 2 {
		t.Fatalf("weather hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(p.misses.WithLabelValues("weather")); got != 1 {
		t.Fatalf("weather misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.hits.WithLabelValues("ratings")); got != 1 {
		t.Fatalf("ratings hits = %v, want 1", got)
	}
}

func TestPrometheus_RefreshOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg)

	p.RefreshStarted("k")
	p.RefreshSucceeded("k")
	p.RefreshStarted("k")
	p.RefreshFailed("k")

	if got := testutil.ToFloat64(p.refreshes.WithLabelValues("k", "started")); got != 2 {
		t.Fatalf("started = %v, want 2", got)
	}
	if got := testutil.ToFloat64(p.refreshes.WithLabelValues("k", "success")); got != 1 {
		t.Fatalf("success = %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.refreshes.WithLabelValues("k", "failure")); got != 1 {
		t.Fatalf("failure = %v, want 1", got)
	}
}

func TestNoop_ImplementsMetrics(t *testing.T) {
	var m Metrics = Noop{}
	m.Hit("k")
	m.Miss("k")
	m.RefreshStarted("k")
	m.RefreshSucceeded("k")
	m.RefreshFailed("k")
	m.Expired("k")
}
