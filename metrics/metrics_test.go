package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveQuery(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStoreMetrics(reg)

	m.ObserveQuery("list_machines", 5*time.Millisecond, nil)
	m.ObserveQuery("list_machines", 7*time.Millisecond, nil)
	m.ObserveQuery("list_machines", 3*time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(m.queries.WithLabelValues("list_machines")); got != 3 {
		t.Fatalf("expected 3 queries, got %f", got)
	}
	if got := testutil.ToFloat64(m.failures.WithLabelValues("list_machines")); got != 1 {
		t.Fatalf("expected 1 failure, got %f", got)
	}
	if samples := testutil.CollectAndCount(m.latency); samples != 1 {
		t.Fatalf("expected 1 latency series, got %d", samples)
	}
}

func TestObserveQuerySeparatesOps(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStoreMetrics(reg)

	m.ObserveQuery("dashboard_summary", time.Millisecond, nil)
	m.ObserveQuery("telemetry_raw", time.Millisecond, nil)

	if got := testutil.ToFloat64(m.queries.WithLabelValues("dashboard_summary")); got != 1 {
		t.Fatalf("expected 1 dashboard query, got %f", got)
	}
	if got := testutil.ToFloat64(m.queries.WithLabelValues("telemetry_raw")); got != 1 {
		t.Fatalf("expected 1 telemetry query, got %f", got)
	}
}
