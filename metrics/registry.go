package metrics

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"
)

// Registry maps metric names to instruments and owns the Prometheus registry
// they are collected from.
//
// Registration is meant to happen while the application is being wired,
// before it serves requests. The name map is not locked: after startup it is
// only read. Instrument updates are safe for concurrent use on their own.
type Registry struct {
	gatherer    *prometheus.Registry
	registerer  prometheus.Registerer
	instruments map[string]Instrument
}

// NewRegistry returns an empty Registry backed by a fresh prometheus.Registry.
// A non-empty serviceName is attached to every series as a constant "service" label.
func NewRegistry(serviceName string) *Registry {
	promRegistry := prometheus.NewRegistry()

	var registerer prometheus.Registerer = promRegistry
	if serviceName != "" {
		registerer = prometheus.WrapRegistererWith(prometheus.Labels{"service": serviceName}, promRegistry)
	}

	return &Registry{
		gatherer:    promRegistry,
		registerer:  registerer,
		instruments: make(map[string]Instrument),
	}
}

// Register adds inst under its name. A name that is already present yields
// ErrDuplicateMetric and leaves the existing entry untouched. Metric and label
// names must match the classic [a-zA-Z_:][a-zA-Z0-9_:]* form so the scraped
// name is the registered one; anything else yields ErrInvalidMetric.
func (r *Registry) Register(inst Instrument) error {
	name := inst.Name()
	if err := validateNames(inst); err != nil {
		return newMetricError(name, ErrInvalidMetric, err)
	}
	if _, exists := r.instruments[name]; exists {
		return newMetricError(name, ErrDuplicateMetric, nil)
	}

	if err := r.registerer.Register(inst.Collector()); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return newMetricError(name, ErrDuplicateMetric, err)
		}
		return newMetricError(name, ErrInvalidMetric, err)
	}

	r.instruments[name] = inst
	return nil
}

func validateNames(inst Instrument) error {
	if !model.IsValidLegacyMetricName(inst.Name()) {
		return fmt.Errorf("metric name %q is not a valid Prometheus name", inst.Name())
	}
	for _, label := range inst.LabelNames() {
		if !model.LabelName(label).IsValidLegacy() {
			return fmt.Errorf("label name %q is not a valid Prometheus label name", label)
		}
	}
	return nil
}

// Get returns the instrument registered under name.
func (r *Registry) Get(name string) (Instrument, error) {
	inst, ok := r.instruments[name]
	if !ok {
		return nil, newMetricError(name, ErrMetricNotFound, nil)
	}
	return inst, nil
}

// Names returns the registered metric names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.instruments))
	for name := range r.instruments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Gatherer exposes the underlying registry for exposition handlers and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.gatherer
}

// Snapshot renders every gathered metric family in the text exposition
// format, ordered by metric name and then by label values.
//
// If some collectors fail, the families that were gathered are still encoded
// and returned together with the joined error.
func (r *Registry) Snapshot() ([]byte, error) {
	families, gatherErr := r.gatherer.Gather()

	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))

	var encodeErrs []error
	for _, family := range families {
		if err := enc.Encode(family); err != nil {
			encodeErrs = append(encodeErrs, err)
		}
	}

	return buf.Bytes(), errors.Join(gatherErr, errors.Join(encodeErrs...))
}

// registerCollector registers a collector that is not addressable by name,
// such as the runtime collectors.
func (r *Registry) registerCollector(c prometheus.Collector) error {
	return r.registerer.Register(c)
}
