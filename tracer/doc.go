// Package tracer wraps OpenTelemetry tracing behind a small interface.
//
// TracerClient starts spans, moves W3C trace context across process
// boundaries and, through Middleware, opens a server span for every HTTP
// request. Handlers and middlewares below it see the span in the request
// context. The logger package uses it to add trace_id/span_id to entries and
// the metrics package to attach trace_id exemplars to the request duration
// histogram.
//
// # Usage
//
//	tracerClient, err := tracer.NewClient(tracer.Config{
//		ServiceName:  "orders",
//		AppEnv:       "production",
//		EnableExport: true,
//		Endpoint:     "otel-collector:4318",
//	})
//	if err != nil {
//		return err
//	}
//	defer tracerClient.Shutdown(context.Background())
//
//	handler := tracerClient.Middleware(m.Instrument(router))
//
// Spans for work inside a handler:
//
//	ctx, span := tracerClient.StartSpan(r.Context(), "load-user")
//	defer span.End()
//	if err := load(ctx); err != nil {
//		span.RecordError(err)
//	}
//
// # FX
//
// FXModule provides *TracerClient and Tracer from a tracer.Config and shuts
// the provider down on application stop.
package tracer
