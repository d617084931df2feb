// Package metrics instruments HTTP handlers with Prometheus request metrics
// and serves them in the exposition format.
//
// The package covers what a web service needs to be scraped: a registry of
// named instruments, middleware that records every request, a way to opt
// single handlers out, helpers that bind custom metrics to a handler, and
// the exposition endpoint itself. It integrates with go.uber.org/fx and logs
// through the httpmetrics logger package.
//
// # Architecture
//
// This package follows the "accept interfaces, return structs" pattern:
//   - MetricsCollector interface: the contract for creating and looking up instruments
//   - Metrics struct: concrete implementation, plus the HTTP middleware and handlers
//   - NewMetrics constructor: returns *Metrics
//   - FXModule: provides both *Metrics and MetricsCollector
//
// Instruments are stored in a Registry, keyed by metric name. A Registry owns
// its own prometheus.Registry, so two Metrics values never share state.
//
// # Default instrumentation
//
// Every request that passes through Metrics.Middleware (or the handler returned
// by Metrics.Instrument) updates three instruments:
//
//   - http_request_duration_seconds{method,path,status}: handler latency histogram
//   - http_requests_total{method,path,status}: completed requests
//   - http_request_exceptions_total{method,path}: requests whose handler panicked
//
// The request lifecycle is split into three hooks that Middleware calls for
// you. They are exported for frameworks that have their own hook points:
//
//   - BeforeRequest stores the start time in the request context
//   - AfterRequest records duration and count for a completed request
//   - OnException counts a failed request
//
// A request whose handler panics counts as an exception only. It is not
// counted in http_requests_total and its duration is not observed. The panic
// is re-raised unchanged after the counter is updated, so an outer recovery
// middleware or net/http itself still sees the original value.
//
// The status label is the final status sent to the client. Handlers that never
// call WriteHeader report 200. Informational 1xx headers do not fix the status.
//
// # Path labels
//
// The path label is the matched route template ("/users/{id}"), never the raw
// URL, so cardinality stays bounded. It is resolved in this order:
//
//  1. the gorilla/mux route attached to the request (mux.CurrentRoute)
//  2. the pattern set by http.ServeMux (Request.Pattern), without its method
//  3. the RouteResolver given with WithRouteResolver, or installed by Instrument
//  4. Config.UnmatchedPath, "<unmatched>" by default
//
// Wrapping a mux.Router from the outside runs the middleware before routing,
// so the first two sources are empty. Instrument solves this by installing
// MuxRoutes(router) as the resolver:
//
//	handler := m.Instrument(router)
//
// Registering the middleware with router.Use works as well, but gorilla/mux
// does not run middleware for requests that match no route, so 404s are not
// counted that way.
//
// # Opting out
//
// Wrap a handler in ExcludeFromTracking to keep it out of the default
// instruments:
//
//	router.Handle("/healthz", metrics.ExcludeFromTracking(healthHandler))
//
// The flag is read when the request finishes, so it may be set anywhere in the
// chain below the middleware. IsExcluded reports it from a request context.
// The exposition handler is always excluded. Excluding a request does not
// affect custom metrics bound to the handler.
//
// # Custom metrics
//
// The Counter, Gauge, Histogram and Summary methods create, register and bind
// an instrument to a single handler:
//
//	router.Handle("/counter", m.Counter("my_counter", "Counts calls",
//		metrics.WithLabels(metrics.Labels{"labelA": "A", "labelB": "B"}))(counterHandler))
//
//	router.Handle("/hist", m.Histogram("my_hist", "Handler duration")(histHandler))
//
// Defaults per kind, applied after the handler returns:
//   - Counter: Inc
//   - Gauge: Inc (override with OnGauge, or skip with WithoutUpdate)
//   - Histogram and Summary: observe the handler duration in seconds
//
// Label values come from two places. WithLabels fixes them when the handler is
// wrapped. WithRequestLabels computes them for every request:
//
//	m.Counter("user_lookups_total", "Lookups by tier", metrics.WithRequestLabels(
//		[]string{"tier"},
//		func(r *http.Request) metrics.Labels {
//			return metrics.Labels{"tier": r.Header.Get("X-Client-Tier")}
//		},
//	))
//
// The label schema of a bound instrument is the sorted static keys followed by
// the request label names. It is checked when the handler is wrapped, so a
// mismatch is a startup error rather than a dropped update.
//
// Bound instruments update only when the wrapped handler returns normally. A
// panicking handler leaves them untouched.
//
// The decorator helpers panic on configuration errors, such as a duplicate
// name or labels that do not match. Use Metrics.Bind to attach an instrument
// created elsewhere and get the error back instead:
//
//	gauge, err := m.CreateGauge("task_queue", "Tasks in queue", nil)
//	if err != nil {
//		return err
//	}
//	wrap, err := m.Bind(gauge, metrics.WithoutUpdate())
//	if err != nil {
//		return err
//	}
//	router.Handle("/gauge", wrap(queueHandler))
//
// # Creating and looking up instruments
//
// CreateCounter, CreateGauge, CreateHistogram and CreateSummary register an
// instrument and return it. Names must be unique within a Metrics value:
// registering an existing name returns ErrDuplicateMetric and keeps the
// first instrument. Metric and label names must be classic Prometheus names,
// otherwise ErrInvalidMetric is returned.
//
//	orders, err := m.CreateCounter("orders_total", "Orders placed", []string{"channel"})
//	if err != nil {
//		return err
//	}
//	orders.WithLabelValues("web").Inc()
//
// GetMetric returns any instrument by name. GetCounter, GetGauge and
// GetHistogram also check the kind and return ErrWrongKind on a mismatch.
// All errors are *MetricError values that carry the metric name and match the
// sentinels with errors.Is.
//
// # Exposition
//
// Metrics.Handler serves the registry in the Prometheus text format, or in
// OpenMetrics when Config.EnableOpenMetrics is set and the scraper asks for
// it. A collector that fails during a scrape is logged and skipped; the rest
// of the registry is still served. Metrics.Snapshot returns the same text
// without HTTP, in a stable order.
//
// Instrument mounts Metrics.Handler at Config.Endpoint ("/metrics" by
// default). Setting Config.ListenAddress additionally builds Metrics.Server,
// a dedicated http.Server that serves only the endpoint:
//
//	cfg := metrics.Config{
//		Endpoint:      "/internal/metrics",
//		ListenAddress: metrics.Ptr(":9090"),
//		ServiceName:   "orders",
//	}
//
// ServiceName adds a constant service label to every series. Go and process
// runtime collectors are registered unless DisableRuntimeCollectors is set.
//
// # Tracing
//
// When the request context carries a sampled OpenTelemetry span, the duration
// observation is recorded with a trace_id exemplar. Put the tracer middleware
// outside the metrics middleware so the span exists when the request ends.
//
// # Observers
//
// WithObserver registers an observability.Observer that is told about every
// tracked request after its metrics are recorded, with the method, route,
// status, outcome and duration. Excluded requests produce no observation.
//
// # Direct Usage (Without FX)
//
//	m, err := metrics.NewMetrics(metrics.Config{ServiceName: "orders"}, log)
//	if err != nil {
//		return err
//	}
//
//	router := mux.NewRouter()
//	router.HandleFunc("/", index)
//	return http.ListenAndServe(":8080", m.Instrument(router))
//
// A nil logger is replaced by a no-op one.
//
// # FX Module Integration
//
//	app := fx.New(
//		fx.Supply(metricsConfig, loggerConfig),
//		logger.FXModule,
//		metrics.FXModule,
//		fx.Invoke(func(m *metrics.Metrics, router *mux.Router) {
//			// bind custom metrics, build the handler
//		}),
//	)
//
// FXModule takes the logger and an observability.Observer as optional
// dependencies. When Config.ListenAddress is set it starts Metrics.Server on
// application start and shuts it down on stop.
//
// # Thread safety
//
// Registration is expected during startup. Everything used while serving is
// safe for concurrent use: the hooks keep per-request state in the request
// context and instrument updates are atomic.
package metrics
