package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aalemi-dev/httpmetrics/logger"
	"github.com/aalemi-dev/httpmetrics/metrics"
)

var errBoom = errors.New("boom")

// newTestMetrics returns a Metrics without runtime collectors, so gathered
// output only contains what the test created.
func newTestMetrics(t *testing.T, opts ...metrics.Option) *metrics.Metrics {
	t.Helper()
	m, err := metrics.NewMetrics(metrics.Config{DisableRuntimeCollectors: true}, nil, opts...)
	require.NoError(t, err)
	return m
}

func newObservedMetrics(t *testing.T, opts ...metrics.Option) (*metrics.Metrics, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	log := &logger.LoggerClient{Zap: zap.New(core)}
	m, err := metrics.NewMetrics(metrics.Config{DisableRuntimeCollectors: true}, log, opts...)
	require.NoError(t, err)
	return m, logs
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

// findMetric returns the series of family name whose labels include want,
// or nil when there is none.
func findMetric(t *testing.T, g prometheus.Gatherer, name string, want map[string]string) *dto.Metric {
	t.Helper()
	families, err := g.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	series:
		for _, metric := range family.GetMetric() {
			got := make(map[string]string, len(metric.GetLabel()))
			for _, lp := range metric.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if got[k] != v {
					continue series
				}
			}
			return metric
		}
	}
	return nil
}

func counterValue(t *testing.T, m *metrics.Metrics, name string, labels map[string]string) float64 {
	t.Helper()
	metric := findMetric(t, m.Registry().Gatherer(), name, labels)
	if metric == nil {
		return 0
	}
	return metric.GetCounter().GetValue()
}

func histogramCount(t *testing.T, m *metrics.Metrics, name string, labels map[string]string) uint64 {
	t.Helper()
	metric := findMetric(t, m.Registry().Gatherer(), name, labels)
	if metric == nil {
		return 0
	}
	return metric.GetHistogram().GetSampleCount()
}

func familyNames(t *testing.T, g prometheus.Gatherer) []string {
	t.Helper()
	families, err := g.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, family := range families {
		names = append(names, family.GetName())
	}
	return names
}
