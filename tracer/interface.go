package tracer

import (
	"context"
	"net/http"
)

// Tracer is the tracing contract used by the rest of the module. It is
// implemented by *TracerClient.
type Tracer interface {
	// StartSpan starts a child of the span in ctx, or a root span.
	StartSpan(ctx context.Context, name string) (context.Context, Span)

	// GetCarrier extracts the trace context of ctx as propagation headers.
	GetCarrier(ctx context.Context) map[string]string

	// SetCarrierOnContext continues the trace carried by the given headers.
	SetCarrierOnContext(ctx context.Context, carrier map[string]string) context.Context

	// Middleware starts a server span for every request served by next.
	Middleware(next http.Handler) http.Handler
}

// Span is a single traced operation.
type Span interface {
	// End completes the span. Defer it right after StartSpan.
	End()

	// SetAttributes adds key/value context to the span.
	//
	// Example:
	//   span.SetAttributes(map[string]interface{}{
	//     "user.id": userID,
	//     "retry.enabled": true,
	//   })
	SetAttributes(attrs map[string]interface{})

	// RecordError marks the span as failed with err.
	RecordError(err error)

	// TraceID is the hex-encoded trace id, as attached to log entries and
	// histogram exemplars.
	TraceID() string
}

var _ Tracer = (*TracerClient)(nil)
