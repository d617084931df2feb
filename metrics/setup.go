package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aalemi-dev/httpmetrics/logger"
	"github.com/aalemi-dev/httpmetrics/observability"
)

// Metrics instruments one HTTP application. It owns the metric registry, the
// three default request instruments, the exposition endpoint and the request
// lifecycle hooks.
//
// Several Metrics values can live in one process; none of them touch the
// Prometheus default registry.
type Metrics struct {
	// Server serves only the exposition endpoint. It is nil unless
	// Config.ListenAddress is set.
	Server *http.Server

	cfg      Config
	registry *Registry
	log      *logger.LoggerClient
	observer observability.Observer
	routes   RouteResolver

	requestDuration   *histogramVec
	requestsTotal     *counterVec
	requestExceptions *counterVec
}

// Option customises a Metrics value beyond what Config expresses.
type Option func(*Metrics)

// WithObserver reports every tracked request to o.
func WithObserver(o observability.Observer) Option {
	return func(m *Metrics) {
		m.observer = o
	}
}

// WithRouteResolver sets the fallback used to find the route template of a
// request when neither gorilla/mux nor http.ServeMux recorded one.
func WithRouteResolver(r RouteResolver) Option {
	return func(m *Metrics) {
		m.routes = r
	}
}

// NewMetrics builds a Metrics value with its own registry and registers the
// default instruments:
//
//   - http_request_duration_seconds{method,path,status} histogram
//   - http_requests_total{method,path,status} counter
//   - http_request_exceptions_total{method,path} counter
//
// plus the Go runtime and process collectors unless disabled. Any
// registration failure is returned; callers should treat it as fatal.
//
// A nil log discards instrumentation logs.
//
//	m, err := metrics.NewMetrics(metrics.Config{ServiceName: "orders"}, log)
//	if err != nil {
//	    log.Fatal("metrics setup failed", err)
//	}
//	handler := m.Instrument(router)
func NewMetrics(cfg Config, log *logger.LoggerClient, opts ...Option) (*Metrics, error) {
	if log == nil {
		log = logger.NewNopLoggerClient()
	}

	m := &Metrics{
		cfg:      cfg.withDefaults(),
		registry: NewRegistry(cfg.ServiceName),
		log:      log.Named("httpmetrics"),
		observer: observability.NewNoOpObserver(),
		routes:   noRoutes{},
	}
	for _, opt := range opts {
		opt(m)
	}

	if !m.cfg.DisableRuntimeCollectors {
		if err := m.registerRuntimeCollectors(); err != nil {
			return nil, err
		}
	}

	if err := m.loadDefaultMetrics(); err != nil {
		return nil, err
	}

	if m.cfg.ListenAddress != nil && *m.cfg.ListenAddress != "" {
		mux := http.NewServeMux()
		mux.Handle(m.cfg.Endpoint, m.Handler())
		m.Server = &http.Server{
			Addr:              *m.cfg.ListenAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return m, nil
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *Registry {
	return m.registry
}

// Config returns the effective configuration, defaults included.
func (m *Metrics) Config() Config {
	return m.cfg
}

func (m *Metrics) loadDefaultMetrics() error {
	labels := []string{"method", "path", "status"}

	if err := validateBuckets(RequestDurationName, m.cfg.DurationBuckets); err != nil {
		return err
	}

	m.requestDuration = createHistogramVec(RequestDurationName,
		"HTTP request duration in seconds", labels, m.cfg.DurationBuckets)
	m.requestsTotal = createCounterVec(RequestsTotalName,
		"Total number of HTTP requests", labels)
	m.requestExceptions = createCounterVec(RequestExceptionsName,
		"Total number of HTTP requests which resulted in an exception", []string{"method", "path"})

	for _, inst := range []Instrument{m.requestDuration, m.requestsTotal, m.requestExceptions} {
		if err := m.register(inst); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) registerRuntimeCollectors() error {
	if err := m.registry.registerCollector(collectors.NewGoCollector()); err != nil {
		return fmt.Errorf("register go collector: %w", err)
	}
	if err := m.registry.registerCollector(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return fmt.Errorf("register process collector: %w", err)
	}
	return nil
}
