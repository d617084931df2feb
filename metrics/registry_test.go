package metrics_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalemi-dev/httpmetrics/metrics"
)

func TestRegistry_DuplicateKeepsFirst(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)

	first, err := m.CreateCounter("jobs_total", "first", []string{"queue"})
	require.NoError(t, err)

	_, err = m.CreateCounter("jobs_total", "second", nil)
	require.ErrorIs(t, err, metrics.ErrDuplicateMetric)

	_, err = m.CreateGauge("jobs_total", "gauge with the same name", nil)
	require.ErrorIs(t, err, metrics.ErrDuplicateMetric)

	inst, err := m.GetMetric("jobs_total")
	require.NoError(t, err)
	assert.Equal(t, "first", inst.Help())
	assert.Equal(t, metrics.KindCounter, inst.Kind())
	assert.Equal(t, []string{"queue"}, inst.LabelNames())

	first.WithLabelValues("default").Inc()
	assert.Equal(t, 1.0, counterValue(t, m, "jobs_total", map[string]string{"queue": "default"}))
}

func TestRegistry_DuplicateOfDefaultInstrument(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)

	_, err := m.CreateCounter(metrics.RequestsTotalName, "shadow", nil)
	require.ErrorIs(t, err, metrics.ErrDuplicateMetric)

	var metricErr *metrics.MetricError
	require.True(t, errors.As(err, &metricErr))
	assert.Equal(t, metrics.RequestsTotalName, metricErr.Name)
}

func TestRegistry_NotFound(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)

	_, err := m.GetMetric("missing")
	require.ErrorIs(t, err, metrics.ErrMetricNotFound)
	assert.Contains(t, err.Error(), `"missing"`)
}

func TestRegistry_InvalidName(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)

	_, err := m.CreateCounter("not-a-valid-name", "help", nil)
	require.ErrorIs(t, err, metrics.ErrInvalidMetric)

	_, err = m.GetMetric("not-a-valid-name")
	require.ErrorIs(t, err, metrics.ErrMetricNotFound)

	_, err = m.CreateGauge("valid_name", "help", []string{"bad-label"})
	require.ErrorIs(t, err, metrics.ErrInvalidMetric)
	assert.Contains(t, err.Error(), "bad-label")

	_, err = m.CreateHistogram("1starts_with_digit", "help", nil, nil)
	require.ErrorIs(t, err, metrics.ErrInvalidMetric)

	count, err := testutil.GatherAndCount(m.Registry().Gatherer(), "not_a_valid_name", "valid_name")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRegistry_Names(t *testing.T) {
	t.Parallel()
	r := metrics.NewRegistry("")
	m := newTestMetrics(t)

	for _, name := range []string{"zeta_total", "alpha_total"} {
		c, err := m.CreateCounter(name, "help", nil)
		require.NoError(t, err)
		require.NoError(t, r.Register(c.(metrics.Instrument)))
	}

	assert.Equal(t, []string{"alpha_total", "zeta_total"}, r.Names())
}

func TestRegistry_SnapshotIsOrdered(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)

	b, err := m.CreateCounter("b_total", "B", []string{"k"})
	require.NoError(t, err)
	a, err := m.CreateCounter("a_total", "A", nil)
	require.NoError(t, err)

	b.WithLabelValues("y").Inc()
	b.WithLabelValues("x").Add(2)
	a.Inc()

	out, err := m.Snapshot()
	require.NoError(t, err)
	text := string(out)

	assert.Less(t, strings.Index(text, "a_total 1"), strings.Index(text, `b_total{k="x"} 2`))
	assert.Less(t, strings.Index(text, `b_total{k="x"} 2`), strings.Index(text, `b_total{k="y"} 1`))

	again, err := m.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestRegistry_ServiceLabel(t *testing.T) {
	t.Parallel()
	m, err := metrics.NewMetrics(metrics.Config{ServiceName: "orders", DisableRuntimeCollectors: true}, nil)
	require.NoError(t, err)

	c, err := m.CreateCounter("placed_total", "Orders placed", nil)
	require.NoError(t, err)
	c.Inc()

	out, err := m.Snapshot()
	require.NoError(t, err)
	assert.Contains(t, string(out), `placed_total{service="orders"} 1`)
}

func TestRegistry_IndependentInstances(t *testing.T) {
	t.Parallel()
	m1 := newTestMetrics(t)
	m2 := newTestMetrics(t)

	_, err := m1.CreateCounter("same_name_total", "help", nil)
	require.NoError(t, err)
	_, err = m2.CreateCounter("same_name_total", "help", nil)
	require.NoError(t, err)
}
