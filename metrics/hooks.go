package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/aalemi-dev/httpmetrics/observability"
)

// BeforeRequest starts tracking r and returns the request to pass down the
// handler chain. The start time is taken from the monotonic clock.
func (m *Metrics) BeforeRequest(r *http.Request) *http.Request {
	state := &requestState{start: time.Now()}
	return r.WithContext(withRequestState(r.Context(), state))
}

// AfterRequest records a completed request: one observation of
// http_request_duration_seconds and one increment of http_requests_total,
// both labelled {method, path, status}. Excluded requests are skipped.
//
// r must be the request returned by BeforeRequest, or one derived from it.
func (m *Metrics) AfterRequest(r *http.Request, status int) {
	ctx := r.Context()
	state, ok := requestStateFrom(ctx)
	if !ok {
		m.log.WarnWithContext(ctx, "request finished without tracking state", nil, requestFields(r))
		return
	}
	if state.excluded.Load() {
		m.log.DebugWithContext(ctx, "skipping excluded request", nil, requestFields(r))
		return
	}

	elapsed := time.Since(state.start)
	path := m.pathLabel(r)
	code := strconv.Itoa(status)

	if err := m.observeDuration(ctx, elapsed, r.Method, path, code); err != nil {
		m.log.WarnWithContext(ctx, "failed to observe request duration", err, requestFields(r))
	}

	if c, err := m.requestsTotal.vec.GetMetricWithLabelValues(r.Method, path, code); err != nil {
		m.log.WarnWithContext(ctx, "failed to count request", m.requestsTotal.mismatch(err), requestFields(r))
	} else {
		c.Inc()
	}

	m.observer.ObserveRequest(ctx, observability.RequestObservation{
		Method:   r.Method,
		Route:    path,
		Status:   status,
		Outcome:  observability.OutcomeCompleted,
		Duration: elapsed,
	})
}

// OnException records a request whose handler failed with err by
// incrementing http_request_exceptions_total{method, path}. Excluded requests
// are skipped. It never panics and never alters err.
func (m *Metrics) OnException(r *http.Request, err error) {
	ctx := r.Context()
	state, ok := requestStateFrom(ctx)
	if !ok {
		m.log.WarnWithContext(ctx, "request failed without tracking state", err, requestFields(r))
		return
	}
	if state.excluded.Load() {
		m.log.DebugWithContext(ctx, "skipping excluded failed request", err, requestFields(r))
		return
	}

	path := m.pathLabel(r)
	if c, cerr := m.requestExceptions.vec.GetMetricWithLabelValues(r.Method, path); cerr != nil {
		m.log.WarnWithContext(ctx, "failed to count request exception", m.requestExceptions.mismatch(cerr), requestFields(r))
	} else {
		c.Inc()
	}

	m.observer.ObserveRequest(ctx, observability.RequestObservation{
		Method:   r.Method,
		Route:    path,
		Outcome:  observability.OutcomeFailed,
		Duration: time.Since(state.start),
		Err:      err,
	})
}

// Middleware runs the lifecycle hooks around next.
//
// A panic escaping next is the failure signal: OnException runs, then the
// original value is re-panicked for the server (or an outer recovery
// middleware) to handle. A failed request is not counted as completed.
//
// Used with router.Use, the route template comes from mux.CurrentRoute.
// Wrapping a whole router from the outside needs a RouteResolver, see
// Instrument.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = m.BeforeRequest(r)
		rec := newStatusRecorder(w)

		returned := false
		defer func() {
			if returned {
				return
			}
			// A nil value means runtime.Goexit, which is neither outcome.
			if p := recover(); p != nil {
				m.OnException(r, panicError(p))
				panic(p)
			}
		}()

		next.ServeHTTP(rec, r)
		returned = true

		m.AfterRequest(r, rec.status)
	})
}

// Instrument mounts the exposition handler on router at Config.Endpoint and
// returns router wrapped in Middleware. Route templates are resolved by
// matching against router, so requests that match no route are still
// counted, under Config.UnmatchedPath.
//
//	router := mux.NewRouter()
//	router.HandleFunc("/users/{id}", getUser).Methods(http.MethodGet)
//	http.ListenAndServe(":8080", m.Instrument(router))
func (m *Metrics) Instrument(router *mux.Router) http.Handler {
	router.Handle(m.cfg.Endpoint, m.Handler())
	if _, isDefault := m.routes.(noRoutes); isDefault {
		m.routes = MuxRoutes(router)
	}
	return m.Middleware(router)
}

func (m *Metrics) observeDuration(ctx context.Context, elapsed time.Duration, lvs ...string) error {
	o, err := m.requestDuration.vec.GetMetricWithLabelValues(lvs...)
	if err != nil {
		return m.requestDuration.mismatch(err)
	}

	seconds := elapsed.Seconds()
	if sc := trace.SpanContextFromContext(ctx); sc.IsSampled() {
		if eo, ok := o.(prometheus.ExemplarObserver); ok {
			eo.ObserveWithExemplar(seconds, prometheus.Labels{"trace_id": sc.TraceID().String()})
			return nil
		}
	}
	o.Observe(seconds)
	return nil
}

func panicError(p any) error {
	if err, ok := p.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", p)
}

func requestFields(r *http.Request) map[string]interface{} {
	return map[string]interface{}{
		"method": r.Method,
		"url":    r.URL.Path,
	}
}

// statusRecorder remembers the status code written through it. Handlers that
// never call WriteHeader get 200.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (s *statusRecorder) WriteHeader(code int) {
	// 1xx responses are informational and may be followed by the real status.
	if !s.wroteHeader && code >= http.StatusOK {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	return s.ResponseWriter.Write(b)
}

// Flush keeps streaming handlers working behind the recorder.
func (s *statusRecorder) Flush() {
	s.wroteHeader = true
	_ = http.NewResponseController(s.ResponseWriter).Flush()
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
