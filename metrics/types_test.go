package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalemi-dev/httpmetrics/metrics"
)

// --- Counter ---

func TestCounter_IncAndAdd_NoLabels(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)
	c, err := m.CreateCounter("counter_no_labels", "help", nil)
	require.NoError(t, err)

	c.Inc()
	c.Add(3)

	inst, err := m.GetMetric("counter_no_labels")
	require.NoError(t, err)
	assert.Equal(t, 4.0, testutil.ToFloat64(inst.Collector()))
}

func TestCounter_WithLabelValues(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)
	c, err := m.CreateCounter("counter_labels", "help", []string{"method"})
	require.NoError(t, err)

	labeled := c.WithLabelValues("GET")
	labeled.Inc()
	labeled.Add(2)
	// Children ignore further label values.
	labeled.WithLabelValues("ignored").Inc()

	assert.Equal(t, 4.0, counterValue(t, m, "counter_labels", map[string]string{"method": "GET"}))
}

func TestCounter_With(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)
	c, err := m.CreateCounter("counter_with", "help", []string{"a", "b"})
	require.NoError(t, err)

	child, err := c.With(metrics.Labels{"a": "1", "b": "2"})
	require.NoError(t, err)
	child.Inc()

	_, err = c.With(metrics.Labels{"a": "1"})
	require.ErrorIs(t, err, metrics.ErrLabelMismatch)

	_, err = c.With(metrics.Labels{"a": "1", "b": "2", "c": "3"})
	require.ErrorIs(t, err, metrics.ErrLabelMismatch)

	assert.Equal(t, 1.0, counterValue(t, m, "counter_with", map[string]string{"a": "1", "b": "2"}))
}

func TestCounter_WithLabelValuesPanicsOnWrongArity(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)
	c, err := m.CreateCounter("counter_arity", "help", []string{"a"})
	require.NoError(t, err)

	assert.Panics(t, func() { c.WithLabelValues("1", "2") })
}

// --- Gauge ---

func TestGauge_Operations(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)
	g, err := m.CreateGauge("pool_size", "help", []string{"pool"})
	require.NoError(t, err)

	p := g.WithLabelValues("db")
	p.Set(10)
	p.Inc()
	p.Dec()
	p.Add(5)
	p.Sub(3)

	metric := findMetric(t, m.Registry().Gatherer(), "pool_size", map[string]string{"pool": "db"})
	require.NotNil(t, metric)
	assert.Equal(t, 12.0, metric.GetGauge().GetValue())

	p.SetToCurrentTime()
	metric = findMetric(t, m.Registry().Gatherer(), "pool_size", map[string]string{"pool": "db"})
	assert.Greater(t, metric.GetGauge().GetValue(), 1e9)
}

func TestGauge_WithMismatch(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)
	g, err := m.CreateGauge("gauge_with", "help", []string{"pool"})
	require.NoError(t, err)

	_, err = g.With(metrics.Labels{"other": "x"})
	require.ErrorIs(t, err, metrics.ErrLabelMismatch)
}

// --- Histogram / Summary ---

func TestHistogram_DefaultBuckets(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)
	h, err := m.CreateHistogram("latency_seconds", "help", []string{"op"}, nil)
	require.NoError(t, err)

	h.WithLabelValues("read").Observe(0.3)

	metric := findMetric(t, m.Registry().Gatherer(), "latency_seconds", map[string]string{"op": "read"})
	require.NotNil(t, metric)
	assert.Len(t, metric.GetHistogram().GetBucket(), 11)
	assert.Equal(t, uint64(1), metric.GetHistogram().GetSampleCount())
}

func TestHistogram_RejectsUnorderedBuckets(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)

	_, err := m.CreateHistogram("bad_buckets", "help", nil, []float64{1, 1, 2})
	require.ErrorIs(t, err, metrics.ErrInvalidMetric)

	_, err = m.GetMetric("bad_buckets")
	require.ErrorIs(t, err, metrics.ErrMetricNotFound)
}

func TestHistogram_WithMismatch(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)
	h, err := m.CreateHistogram("hist_with", "help", []string{"op"}, nil)
	require.NoError(t, err)

	o, err := h.With(metrics.Labels{"op": "write"})
	require.NoError(t, err)
	o.Observe(1)

	_, err = h.With(nil)
	require.ErrorIs(t, err, metrics.ErrLabelMismatch)
}

func TestSummary_Observe(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)
	s, err := m.CreateSummary("rpc_seconds", "help", nil, nil)
	require.NoError(t, err)

	s.Observe(0.1)
	s.Observe(0.2)

	metric := findMetric(t, m.Registry().Gatherer(), "rpc_seconds", nil)
	require.NotNil(t, metric)
	assert.Equal(t, uint64(2), metric.GetSummary().GetSampleCount())
	assert.Len(t, metric.GetSummary().GetQuantile(), 3)
}

// --- Lookup ---

func TestTypedLookup(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)
	_, err := m.CreateGauge("queue_depth", "help", nil)
	require.NoError(t, err)

	g, err := m.GetGauge("queue_depth")
	require.NoError(t, err)
	g.Set(3)

	_, err = m.GetCounter("queue_depth")
	require.ErrorIs(t, err, metrics.ErrWrongKind)

	_, err = m.GetHistogram(metrics.RequestsTotalName)
	require.ErrorIs(t, err, metrics.ErrWrongKind)

	h, err := m.GetHistogram(metrics.RequestDurationName)
	require.NoError(t, err)
	assert.NotNil(t, h)

	_, err = m.GetCounter("nope")
	require.ErrorIs(t, err, metrics.ErrMetricNotFound)
}

func TestKind_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "counter", metrics.KindCounter.String())
	assert.Equal(t, "gauge", metrics.KindGauge.String())
	assert.Equal(t, "histogram", metrics.KindHistogram.String())
	assert.Equal(t, "summary", metrics.KindSummary.String())
	assert.Equal(t, "unknown", metrics.Kind(0).String())
}
