package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Kind identifies the type of an Instrument.
type Kind int

const (
	// KindCounter is a monotonically increasing value.
	KindCounter Kind = iota + 1
	// KindGauge is a value that can go up and down.
	KindGauge
	// KindHistogram counts observations into configurable buckets.
	KindHistogram
	// KindSummary tracks streaming quantiles of observations.
	KindSummary
)

// String returns the lower-case Prometheus type name of k.
func (k Kind) String() string {
	switch k {
	case KindCounter:
		return "counter"
	case KindGauge:
		return "gauge"
	case KindHistogram:
		return "histogram"
	case KindSummary:
		return "summary"
	default:
		return "unknown"
	}
}

// Labels maps label names to values for a single update.
type Labels map[string]string

// Instrument is a named metric with a fixed label schema, as stored in a Registry.
type Instrument interface {
	// Name returns the metric name as exposed to Prometheus.
	Name() string

	// Help returns the HELP text.
	Help() string

	// Kind reports whether this is a counter, gauge, histogram or summary.
	Kind() Kind

	// LabelNames returns a copy of the label schema in declaration order.
	LabelNames() []string

	// Collector returns the underlying Prometheus collector.
	Collector() prometheus.Collector
}

// Counter is a cumulative metric that only increases.
type Counter interface {
	// WithLabelValues returns the child for the given values. It panics when
	// the number of values does not match the schema.
	WithLabelValues(lvs ...string) Counter

	// With returns the child for labels, or ErrLabelMismatch.
	With(labels Labels) (Counter, error)

	// Inc increments the counter by 1. On a labelled counter it needs an
	// empty schema; call WithLabelValues or With first otherwise.
	Inc()

	// Add increases the counter by val. It panics if val is negative.
	Add(val float64)
}

// Gauge is a metric that can go up and down.
type Gauge interface {
	// WithLabelValues returns the child for the given values. It panics when
	// the number of values does not match the schema.
	WithLabelValues(lvs ...string) Gauge

	// With returns the child for labels, or ErrLabelMismatch.
	With(labels Labels) (Gauge, error)

	// Set sets the gauge to val.
	Set(val float64)

	// Inc increments the gauge by 1.
	Inc()

	// Dec decrements the gauge by 1.
	Dec()

	// Add adds val, which may be negative.
	Add(val float64)

	// Sub subtracts val.
	Sub(val float64)

	// SetToCurrentTime sets the gauge to the current Unix time in seconds.
	SetToCurrentTime()
}

// Histogram samples observations into buckets. Bucket boundaries are fixed
// at creation; DefBuckets is used when none are given.
type Histogram interface {
	// WithLabelValues returns the child for the given values. It panics when
	// the number of values does not match the schema.
	WithLabelValues(lvs ...string) Observer

	// With returns the child for labels, or ErrLabelMismatch.
	With(labels Labels) (Observer, error)

	// Observe adds a single observation, typically a duration in seconds.
	Observe(val float64)
}

// Summary computes streaming quantiles of observations over a sliding
// window. Without objectives it only tracks count and sum.
type Summary interface {
	// WithLabelValues returns the child for the given values. It panics when
	// the number of values does not match the schema.
	WithLabelValues(lvs ...string) Observer

	// With returns the child for labels, or ErrLabelMismatch.
	With(labels Labels) (Observer, error)

	// Observe adds a single observation.
	Observe(val float64)
}

// Observer records a single observation. It is the child type returned by
// Histogram and Summary lookups and is satisfied by prometheus.Observer.
type Observer interface {
	// Observe adds val to the distribution.
	Observe(val float64)
}

// descriptor holds the identity shared by all instrument kinds.
type descriptor struct {
	name   string
	help   string
	kind   Kind
	labels []string
}

func (d descriptor) Name() string { return d.name }

func (d descriptor) Help() string { return d.help }

func (d descriptor) Kind() Kind   { return d.kind }

func (d descriptor) LabelNames() []string {
	out := make([]string, len(d.labels))
	copy(out, d.labels)
	return out
}

func (d descriptor) mismatch(cause error) error {
	return newMetricError(d.name, ErrLabelMismatch, cause)
}

// counterVec adapts prometheus.CounterVec to Counter and Instrument.
type counterVec struct {
	descriptor
	vec *prometheus.CounterVec
}

// Collector returns the wrapped vec.
func (c *counterVec) Collector() prometheus.Collector { return c.vec }

func (c *counterVec) WithLabelValues(lvs ...string) Counter {
	return &counter{metric: c.vec.WithLabelValues(lvs...)}
}

func (c *counterVec) With(labels Labels) (Counter, error) {
	m, err := c.vec.GetMetricWith(prometheus.Labels(labels))
	if err != nil {
		return nil, c.mismatch(err)
	}
	return &counter{metric: m}, nil
}

// Inc increments the unlabelled child.
func (c *counterVec) Inc() {
	c.vec.WithLabelValues().Inc()
}

// Add adds val to the unlabelled child.
func (c *counterVec) Add(val float64) {
	c.vec.WithLabelValues().Add(val)
}

// counter is a Counter child with all labels applied.
type counter struct {
	metric prometheus.Counter
}

// WithLabelValues returns c: every label is already bound.
func (c *counter) WithLabelValues(...string) Counter {
	return c
}

// With returns c: every label is already bound.
func (c *counter) With(Labels) (Counter, error) {
	return c, nil
}

func (c *counter) Inc() {
	c.metric.Inc()
}

func (c *counter) Add(val float64) {
	c.metric.Add(val)
}

// gaugeVec adapts prometheus.GaugeVec to Gauge and Instrument.
type gaugeVec struct {
	descriptor
	vec *prometheus.GaugeVec
}

func (g *gaugeVec) Collector() prometheus.Collector { return g.vec }

func (g *gaugeVec) WithLabelValues(lvs ...string) Gauge {
	return &gauge{metric: g.vec.WithLabelValues(lvs...)}
}

func (g *gaugeVec) With(labels Labels) (Gauge, error) {
	m, err := g.vec.GetMetricWith(prometheus.Labels(labels))
	if err != nil {
		return nil, g.mismatch(err)
	}
	return &gauge{metric: m}, nil
}

// Set and the other update methods act on the unlabelled child.
func (g *gaugeVec) Set(val float64) {
	g.vec.WithLabelValues().Set(val)
}

func (g *gaugeVec) Inc() {
	g.vec.WithLabelValues().Inc()
}

func (g *gaugeVec) Dec() {
	g.vec.WithLabelValues().Dec()
}

func (g *gaugeVec) Add(val float64) {
	g.vec.WithLabelValues().Add(val)
}

func (g *gaugeVec) Sub(val float64) {
	g.vec.WithLabelValues().Sub(val)
}

func (g *gaugeVec) SetToCurrentTime() {
	g.vec.WithLabelValues().SetToCurrentTime()
}

// gauge is a Gauge child with all labels applied.
type gauge struct {
	metric prometheus.Gauge
}

// WithLabelValues returns g: every label is already bound.
func (g *gauge) WithLabelValues(...string) Gauge {
	return g
}

// With returns g: every label is already bound.
func (g *gauge) With(Labels) (Gauge, error) {
	return g, nil
}

func (g *gauge) Set(val float64) {
	g.metric.Set(val)
}

func (g *gauge) Inc() {
	g.metric.Inc()
}

func (g *gauge) Dec() {
	g.metric.Dec()
}

func (g *gauge) Add(val float64) {
	g.metric.Add(val)
}

func (g *gauge) Sub(val float64) {
	g.metric.Sub(val)
}

func (g *gauge) SetToCurrentTime() {
	g.metric.SetToCurrentTime()
}

// histogramVec adapts prometheus.HistogramVec to Histogram and Instrument.
type histogramVec struct {
	descriptor
	vec *prometheus.HistogramVec
}

func (h *histogramVec) Collector() prometheus.Collector { return h.vec }

func (h *histogramVec) WithLabelValues(lvs ...string) Observer {
	return h.vec.WithLabelValues(lvs...)
}

func (h *histogramVec) With(labels Labels) (Observer, error) {
	o, err := h.vec.GetMetricWith(prometheus.Labels(labels))
	if err != nil {
		return nil, h.mismatch(err)
	}
	return o, nil
}

// Observe records val on the unlabelled child.
func (h *histogramVec) Observe(val float64) {
	h.vec.WithLabelValues().Observe(val)
}

// summaryVec adapts prometheus.SummaryVec to Summary and Instrument.
type summaryVec struct {
	descriptor
	vec *prometheus.SummaryVec
}

func (s *summaryVec) Collector() prometheus.Collector { return s.vec }

func (s *summaryVec) WithLabelValues(lvs ...string) Observer {
	return s.vec.WithLabelValues(lvs...)
}

func (s *summaryVec) With(labels Labels) (Observer, error) {
	o, err := s.vec.GetMetricWith(prometheus.Labels(labels))
	if err != nil {
		return nil, s.mismatch(err)
	}
	return o, nil
}

// Observe records val on the unlabelled child.
func (s *summaryVec) Observe(val float64) {
	s.vec.WithLabelValues().Observe(val)
}
