package metrics

import "net/http"

// MetricsCollector is the part of *Metrics that application code depends on:
// creating and looking up instruments, and binding them to handlers.
//
// It exposes no Prometheus types, so consumers can substitute a fake in tests.
type MetricsCollector interface {
	// CreateCounter creates a counter and registers it. It fails with
	// ErrDuplicateMetric if the name is taken.
	//
	// Example:
	//   counter, err := m.CreateCounter("orders_total", "Orders placed", []string{"channel"})
	//   counter.WithLabelValues("web").Inc()
	CreateCounter(name, help string, labels []string) (Counter, error)

	// CreateGauge creates a gauge and registers it.
	CreateGauge(name, help string, labels []string) (Gauge, error)

	// CreateHistogram creates a histogram and registers it. Empty buckets
	// mean prometheus.DefBuckets.
	//
	// Example:
	//   hist, err := m.CreateHistogram("upload_bytes", "Upload sizes", nil, []float64{1e3, 1e4, 1e5, 1e6})
	//   hist.Observe(float64(r.ContentLength))
	CreateHistogram(name, help string, labels []string, buckets []float64) (Histogram, error)

	// CreateSummary creates a summary and registers it.
	CreateSummary(name, help string, labels []string, objectives map[float64]float64) (Summary, error)

	// GetMetric returns the instrument registered under name, or ErrMetricNotFound.
	GetMetric(name string) (Instrument, error)

	// GetCounter and GetGauge are typed variants of GetMetric. They fail
	// with ErrWrongKind when the name belongs to another kind.
	GetCounter(name string) (Counter, error)
	GetGauge(name string) (Gauge, error)

	// Bind wraps handlers so that inst is updated after each call.
	Bind(inst Instrument, opts ...BindOption) (func(http.Handler) http.Handler, error)
}

var _ MetricsCollector = (*Metrics)(nil)
