package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics instruments store queries with Prometheus counters and a
// latency histogram. It satisfies the store.Observer interface.
type StoreMetrics struct {
	queries  *prometheus.CounterVec
	failures *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewStoreMetrics builds and registers the store metric set. reg may be a
// custom registry in tests; pass prometheus.DefaultRegisterer in production.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pdm_store_queries_total",
			Help: "Store queries executed, by operation.",
		}, []string{"op"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pdm_store_query_failures_total",
			Help: "Store queries that returned an error, by operation.",
		}, []string{"op"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pdm_store_query_duration_seconds",
			Help:    "Store query latency, by operation.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"op"}),
	}
	reg.MustRegister(m.queries, m.failures, m.latency)
	return m
}

// ObserveQuery records one store query outcome.
func (m *StoreMetrics) ObserveQuery(op string, d time.Duration, err error) {
	m.queries.WithLabelValues(op).Inc()
	m.latency.WithLabelValues(op).Observe(d.Seconds())
	if err != nil {
		m.failures.WithLabelValues(op).Inc()
	}
}
