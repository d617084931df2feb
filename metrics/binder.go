package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"
)

// BindOption configures how a bound instrument is updated.
type BindOption func(*binding)

// WithLabels fixes label values for every update made by the wrapper.
func WithLabels(labels Labels) BindOption {
	return func(b *binding) {
		for k, v := range labels {
			b.static[k] = v
		}
	}
}

// WithRequestLabels declares label names whose values are computed from each
// request by fn. Names fn does not return get an empty value, so the label
// set always matches the schema.
//
//	m.Counter("user_lookups_total", "User lookups by tier",
//	    metrics.WithRequestLabels([]string{"tier"}, func(r *http.Request) metrics.Labels {
//	        return metrics.Labels{"tier": r.Header.Get("X-Tier")}
//	    }))
func WithRequestLabels(names []string, fn func(r *http.Request) Labels) BindOption {
	return func(b *binding) {
		b.requestNames = append(b.requestNames, names...)
		b.requestLabels = fn
	}
}

// WithBuckets sets histogram bounds. Only the Histogram decorator accepts it.
func WithBuckets(buckets ...float64) BindOption {
	return func(b *binding) {
		b.buckets = buckets
	}
}

// WithObjectives sets summary quantiles. Only the Summary decorator accepts it.
func WithObjectives(objectives map[float64]float64) BindOption {
	return func(b *binding) {
		b.objectives = objectives
	}
}

// OnCounter replaces the default Inc of a bound counter.
func OnCounter(fn func(Counter)) BindOption {
	return func(b *binding) {
		b.onCounter = fn
	}
}

// OnGauge replaces the default Inc of a bound gauge.
func OnGauge(fn func(Gauge)) BindOption {
	return func(b *binding) {
		b.onGauge = fn
	}
}

// OnObserve replaces the default Observe(elapsed seconds) of a bound
// histogram or summary.
func OnObserve(fn func(o Observer, elapsed time.Duration)) BindOption {
	return func(b *binding) {
		b.onObserve = fn
	}
}

// WithoutUpdate binds the instrument without updating it. The handler is
// expected to update it itself, typically through GetGauge.
func WithoutUpdate() BindOption {
	return func(b *binding) {
		b.noUpdate = true
	}
}

type binding struct {
	static        Labels
	requestNames  []string
	requestLabels func(*http.Request) Labels

	buckets    []float64
	objectives map[float64]float64

	onCounter func(Counter)
	onGauge   func(Gauge)
	onObserve func(Observer, time.Duration)
	noUpdate  bool
}

func newBinding(opts []BindOption) *binding {
	b := &binding{static: Labels{}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// schema is the label schema a decorator declares: static names in sorted
// order followed by request names in declaration order.
func (b *binding) schema() []string {
	names := make([]string, 0, len(b.static)+len(b.requestNames))
	for k := range b.static {
		names = append(names, k)
	}
	sort.Strings(names)
	return append(names, b.requestNames...)
}

func (b *binding) validate(inst Instrument) error {
	kind := inst.Kind()
	switch {
	case b.onCounter != nil && kind != KindCounter,
		b.onGauge != nil && kind != KindGauge,
		b.onObserve != nil && kind != KindHistogram && kind != KindSummary:
		return newMetricError(inst.Name(), ErrWrongKind, errors.New("update callback does not match the metric kind"))
	}

	declared := make(map[string]bool)
	for _, name := range inst.LabelNames() {
		declared[name] = true
	}

	seen := make(map[string]bool)
	for _, name := range b.schema() {
		if seen[name] {
			return newMetricError(inst.Name(), ErrLabelMismatch, fmt.Errorf("label %q is given more than once", name))
		}
		if !declared[name] {
			return newMetricError(inst.Name(), ErrLabelMismatch, fmt.Errorf("label %q is not in the schema", name))
		}
		seen[name] = true
	}
	if len(seen) != len(declared) {
		return newMetricError(inst.Name(), ErrLabelMismatch,
			fmt.Errorf("schema %v needs values for every label, got %v", inst.LabelNames(), b.schema()))
	}
	return nil
}

func (b *binding) labels(r *http.Request) Labels {
	out := make(Labels, len(b.static)+len(b.requestNames))
	for k, v := range b.static {
		out[k] = v
	}
	if b.requestLabels != nil {
		values := b.requestLabels(r)
		for _, name := range b.requestNames {
			out[name] = values[name]
		}
	} else {
		for _, name := range b.requestNames {
			out[name] = ""
		}
	}
	return out
}

// Bind returns a wrapper that updates inst each time the wrapped handler
// returns. Counters and gauges are incremented and histograms and summaries
// observe the handler duration in seconds, unless an On* option says
// otherwise.
//
// Label values must cover inst's schema exactly; otherwise Bind fails with
// ErrLabelMismatch. If the wrapped handler panics the panic propagates
// unchanged and inst is not updated.
//
// The wrapper is independent of the default request instruments and of
// ExcludeFromTracking.
func (m *Metrics) Bind(inst Instrument, opts ...BindOption) (func(http.Handler) http.Handler, error) {
	b := newBinding(opts)
	if b.buckets != nil || b.objectives != nil {
		return nil, newMetricError(inst.Name(), ErrInvalidMetric,
			errors.New("buckets and objectives only apply when a decorator creates the metric"))
	}
	return m.bind(inst, b)
}

func (m *Metrics) bind(inst Instrument, b *binding) (func(http.Handler) http.Handler, error) {
	if err := b.validate(inst); err != nil {
		return nil, err
	}

	update, err := m.updater(inst, b)
	if err != nil {
		return nil, err
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			if err := update(r, time.Since(start)); err != nil {
				m.log.WarnWithContext(r.Context(), "failed to update bound metric", err, map[string]interface{}{
					"metric": inst.Name(),
					"method": r.Method,
				})
			}
		})
	}, nil
}

func (m *Metrics) updater(inst Instrument, b *binding) (func(*http.Request, time.Duration) error, error) {
	if b.noUpdate {
		return func(*http.Request, time.Duration) error { return nil }, nil
	}

	switch v := inst.(type) {
	case Counter:
		onCounter := b.onCounter
		if onCounter == nil {
			onCounter = func(c Counter) { c.Inc() }
		}
		return func(r *http.Request, _ time.Duration) error {
			c, err := v.With(b.labels(r))
			if err != nil {
				return err
			}
			onCounter(c)
			return nil
		}, nil

	case Gauge:
		onGauge := b.onGauge
		if onGauge == nil {
			onGauge = func(g Gauge) { g.Inc() }
		}
		return func(r *http.Request, _ time.Duration) error {
			g, err := v.With(b.labels(r))
			if err != nil {
				return err
			}
			onGauge(g)
			return nil
		}, nil

	case interface {
		With(Labels) (Observer, error)
	}:
		onObserve := b.onObserve
		if onObserve == nil {
			onObserve = func(o Observer, elapsed time.Duration) { o.Observe(elapsed.Seconds()) }
		}
		return func(r *http.Request, elapsed time.Duration) error {
			o, err := v.With(b.labels(r))
			if err != nil {
				return err
			}
			onObserve(o, elapsed)
			return nil
		}, nil
	}

	return nil, newMetricError(inst.Name(), ErrWrongKind, fmt.Errorf("%s metrics cannot be bound", inst.Kind()))
}

// Counter creates and registers a counter whose labels are derived from opts,
// then binds it. It panics on configuration errors, so misconfigured routes
// fail while the application is being wired.
//
//	router.Handle("/counter", m.Counter("my_counter", "Counts /counter calls",
//	    metrics.WithLabels(metrics.Labels{"labelA": "A", "labelB": "B"}))(h))
func (m *Metrics) Counter(name, help string, opts ...BindOption) func(http.Handler) http.Handler {
	b := newBinding(opts)
	return m.mustBind(name, b, func() (Instrument, error) {
		if b.buckets != nil || b.objectives != nil {
			return nil, newMetricError(name, ErrInvalidMetric, errors.New("counters take no buckets or objectives"))
		}
		c, err := m.CreateCounter(name, help, b.schema())
		if err != nil {
			return nil, err
		}
		return c.(Instrument), nil
	})
}

// Gauge is Counter for gauges.
func (m *Metrics) Gauge(name, help string, opts ...BindOption) func(http.Handler) http.Handler {
	b := newBinding(opts)
	return m.mustBind(name, b, func() (Instrument, error) {
		if b.buckets != nil || b.objectives != nil {
			return nil, newMetricError(name, ErrInvalidMetric, errors.New("gauges take no buckets or objectives"))
		}
		g, err := m.CreateGauge(name, help, b.schema())
		if err != nil {
			return nil, err
		}
		return g.(Instrument), nil
	})
}

// Histogram is Counter for histograms. By default it observes the wrapped
// handler's duration in seconds.
func (m *Metrics) Histogram(name, help string, opts ...BindOption) func(http.Handler) http.Handler {
	b := newBinding(opts)
	return m.mustBind(name, b, func() (Instrument, error) {
		if b.objectives != nil {
			return nil, newMetricError(name, ErrInvalidMetric, errors.New("histograms take no objectives"))
		}
		h, err := m.CreateHistogram(name, help, b.schema(), b.buckets)
		if err != nil {
			return nil, err
		}
		return h.(Instrument), nil
	})
}

// Summary is Counter for summaries. By default it observes the wrapped
// handler's duration in seconds.
func (m *Metrics) Summary(name, help string, opts ...BindOption) func(http.Handler) http.Handler {
	b := newBinding(opts)
	return m.mustBind(name, b, func() (Instrument, error) {
		if b.buckets != nil {
			return nil, newMetricError(name, ErrInvalidMetric, errors.New("summaries take no buckets"))
		}
		s, err := m.CreateSummary(name, help, b.schema(), b.objectives)
		if err != nil {
			return nil, err
		}
		return s.(Instrument), nil
	})
}

func (m *Metrics) mustBind(name string, b *binding, create func() (Instrument, error)) func(http.Handler) http.Handler {
	inst, err := create()
	if err == nil {
		var wrap func(http.Handler) http.Handler
		if wrap, err = m.bind(inst, b); err == nil {
			return wrap
		}
	}
	m.log.Error("failed to bind metric", err, map[string]interface{}{"metric": name})
	panic(err)
}
