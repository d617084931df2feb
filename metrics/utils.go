package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// defaultObjectives are used by CreateSummary when none are given.
var defaultObjectives = map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001}

// CreateCounter creates a counter and registers it in one step.
//
//	counter, err := m.CreateCounter("orders_created_total", "Orders created", []string{"channel"})
//	counter.WithLabelValues("web").Inc()
func (m *Metrics) CreateCounter(name, help string, labels []string) (Counter, error) {
	c := createCounterVec(name, help, labels)
	if err := m.register(c); err != nil {
		return nil, err
	}
	return c, nil
}

// CreateGauge creates a gauge and registers it in one step.
func (m *Metrics) CreateGauge(name, help string, labels []string) (Gauge, error) {
	g := createGaugeVec(name, help, labels)
	if err := m.register(g); err != nil {
		return nil, err
	}
	return g, nil
}

// CreateHistogram creates a histogram and registers it in one step. Empty
// buckets mean prometheus.DefBuckets.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) (Histogram, error) {
	if err := validateBuckets(name, buckets); err != nil {
		return nil, err
	}
	h := createHistogramVec(name, help, labels, buckets)
	if err := m.register(h); err != nil {
		return nil, err
	}
	return h, nil
}

// CreateSummary creates a summary and registers it in one step. Empty
// objectives mean the 0.5, 0.9 and 0.99 quantiles.
func (m *Metrics) CreateSummary(name, help string, labels []string, objectives map[float64]float64) (Summary, error) {
	s := createSummaryVec(name, help, labels, objectives)
	if err := m.register(s); err != nil {
		return nil, err
	}
	return s, nil
}

// GetMetric returns a previously registered instrument, for example to
// update a gauge from inside a handler.
func (m *Metrics) GetMetric(name string) (Instrument, error) {
	return m.registry.Get(name)
}

// GetCounter is GetMetric restricted to counters.
func (m *Metrics) GetCounter(name string) (Counter, error) {
	inst, err := m.getKind(name, KindCounter)
	if err != nil {
		return nil, err
	}
	return inst.(Counter), nil
}

// GetGauge is GetMetric restricted to gauges.
func (m *Metrics) GetGauge(name string) (Gauge, error) {
	inst, err := m.getKind(name, KindGauge)
	if err != nil {
		return nil, err
	}
	return inst.(Gauge), nil
}

// GetHistogram is GetMetric restricted to histograms.
func (m *Metrics) GetHistogram(name string) (Histogram, error) {
	inst, err := m.getKind(name, KindHistogram)
	if err != nil {
		return nil, err
	}
	return inst.(Histogram), nil
}

func (m *Metrics) getKind(name string, kind Kind) (Instrument, error) {
	inst, err := m.registry.Get(name)
	if err != nil {
		return nil, err
	}
	if inst.Kind() != kind {
		return nil, newMetricError(name, ErrWrongKind, nil)
	}
	return inst, nil
}

func (m *Metrics) register(inst Instrument) error {
	if err := m.registry.Register(inst); err != nil {
		m.log.Error("failed to register metric", err, map[string]interface{}{
			"metric": inst.Name(),
			"kind":   inst.Kind().String(),
		})
		return err
	}
	m.log.Debug("metric registered", nil, map[string]interface{}{
		"metric": inst.Name(),
		"kind":   inst.Kind().String(),
		"labels": inst.LabelNames(),
	})
	return nil
}

// validateBuckets rejects bounds that prometheus would only panic on when the
// first child is created.
func validateBuckets(name string, buckets []float64) error {
	for i := 1; i < len(buckets); i++ {
		if buckets[i] <= buckets[i-1] {
			return newMetricError(name, ErrInvalidMetric, fmt.Errorf("buckets must be strictly increasing, got %v", buckets))
		}
	}
	return nil
}

func newDescriptor(name, help string, kind Kind, labels []string) descriptor {
	schema := make([]string, len(labels))
	copy(schema, labels)
	return descriptor{name: name, help: help, kind: kind, labels: schema}
}

func createCounterVec(name, help string, labels []string) *counterVec {
	d := newDescriptor(name, help, KindCounter, labels)
	return &counterVec{
		descriptor: d,
		vec:        prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, d.labels),
	}
}

func createGaugeVec(name, help string, labels []string) *gaugeVec {
	d := newDescriptor(name, help, KindGauge, labels)
	return &gaugeVec{
		descriptor: d,
		vec:        prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, d.labels),
	}
}

func createHistogramVec(name, help string, labels []string, buckets []float64) *histogramVec {
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}
	d := newDescriptor(name, help, KindHistogram, labels)
	return &histogramVec{
		descriptor: d,
		vec: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: buckets,
		}, d.labels),
	}
}

func createSummaryVec(name, help string, labels []string, objectives map[float64]float64) *summaryVec {
	if len(objectives) == 0 {
		objectives = defaultObjectives
	}
	d := newDescriptor(name, help, KindSummary, labels)
	return &summaryVec{
		descriptor: d,
		vec: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       name,
			Help:       help,
			Objectives: objectives,
		}, d.labels),
	}
}
