package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus implements Metrics with counters labeled by cache name.
type Prometheus struct {
	hits      *prometheus.CounterVec
	misses    *prometheus.CounterVec
	refreshes *prometheus.CounterVec
	expired   *prometheus.CounterVec
}

// NewPrometheus creates a Prometheus metrics sink and registers its collectors
// with reg. Pass prometheus.DefaultRegisterer to use the default registry.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "refetch_hits_total",
			Help: "Reads served from the store without invoking the fetcher.",
		}, []string{"cache"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "refetch_misses_total",
			Help: "Reads that fell through to the fetcher.",
		}, []string{"cache"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "refetch_refreshes_total",
			Help: "Background refreshes, by outcome (started, success, failure).",
		}, []string{"cache", "outcome"}),
		expired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "refetch_expired_total",
			Help: "TTL entries lazily evicted on read.",
		}, []string{"cache"}),
	}
	reg.MustRegister(p.hits, p.misses, p.refreshes, p.expired)
	return p
}

func (p *Prometheus) Hit(cache string)  { p.hits.WithLabelValues(cache).Inc() }
func (p *Prometheus) Miss(cache string) { p.misses.WithLabelValues(cache).Inc() }

func (p *Prometheus) RefreshStarted(cache string) {
	p.refreshes.WithLabelValues(cache, "started").Inc()
}

func (p *Prometheus) RefreshSucceeded(cache string) {
	p.refreshes.WithLabelValues(cache, "success").Inc()
}

func (p *Prometheus) RefreshFailed(cache string) {
	p.refreshes.WithLabelValues(cache, "failure").Inc()
}

func (p *Prometheus) Expired(cache string) { p.expired.WithLabelValues(cache).Inc() }
