package tracer

import (
	"net/http"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// Middleware continues the caller's trace from the request headers and wraps
// next in a server span named "HTTP <method>". The span context is in the
// request context seen by next, so metrics exemplars and log entries written
// downstream carry its trace id.
//
// 5xx responses and panics mark the span as failed. Panics are re-raised.
//
// Put it outside the metrics middleware:
//
//	handler := tracerClient.Middleware(m.Instrument(router))
func (t *TracerClient) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := t.propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := t.tracer.Start(ctx, "HTTP "+r.Method,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPMethodKey.String(r.Method),
				semconv.HTTPTargetKey.String(r.URL.Path),
				semconv.HTTPSchemeKey.String(scheme(r)),
			),
		)
		// End records a panic as an exception event and re-raises it.
		defer span.End()

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		completed := false
		defer func() {
			if !completed {
				span.SetStatus(codes.Error, "handler panicked")
			}
		}()

		next.ServeHTTP(sw, r.WithContext(ctx))
		completed = true

		span.SetAttributes(semconv.HTTPStatusCodeKey.Int(sw.status))
		if sw.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(sw.status))
		}
	})
}

func scheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusWriter) WriteHeader(code int) {
	if !s.wroteHeader && code >= http.StatusOK {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusWriter) Write(b []byte) (int, error) {
	s.wroteHeader = true
	return s.ResponseWriter.Write(b)
}

func (s *statusWriter) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
