package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// spanImpl adapts an OpenTelemetry span to Span.
type spanImpl struct {
	span trace.Span
}

// End finishes the span. Nothing may be recorded on it afterwards.
func (s *spanImpl) End() {
	s.span.End()
}

// SetAttributes converts attrs to OpenTelemetry attributes. Strings, ints,
// int64s, float64s and bools keep their type; anything else is stored as
// fmt.Sprint(v).
func (s *spanImpl) SetAttributes(attrs map[string]interface{}) {
	if len(attrs) == 0 {
		return
	}

	attributes := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		attributes = append(attributes, toAttribute(k, v))
	}
	s.span.SetAttributes(attributes...)
}

// RecordError adds an exception event and marks the span as failed.
func (s *spanImpl) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// TraceID returns the hex trace id, or "" when the span is not valid.
func (s *spanImpl) TraceID() string {
	sc := s.span.SpanContext()
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

func toAttribute(k string, v interface{}) attribute.KeyValue {
	switch val := v.(type) {
	case string:
		return attribute.String(k, val)
	case int:
		return attribute.Int(k, val)
	case int64:
		return attribute.Int64(k, val)
	case float64:
		return attribute.Float64(k, val)
	case bool:
		return attribute.Bool(k, val)
	default:
		return attribute.String(k, fmt.Sprint(val))
	}
}

// StartSpan starts a span named name as a child of the span in ctx, if any.
// Callers must End the returned span.
//
//	ctx, span := t.StartSpan(ctx, "load-user")
//	defer span.End()
func (t *TracerClient) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	ctx, otSpan := t.tracer.Start(ctx, name)
	return ctx, &spanImpl{span: otSpan}
}

// GetCarrier returns the W3C traceparent/tracestate and baggage headers for
// the span in ctx, ready to be copied onto an outgoing request.
func (t *TracerClient) GetCarrier(ctx context.Context) map[string]string {
	carrier := propagation.MapCarrier{}
	t.propagator.Inject(ctx, carrier)
	return carrier
}

// SetCarrierOnContext continues the trace described by carrier.
func (t *TracerClient) SetCarrierOnContext(ctx context.Context, carrier map[string]string) context.Context {
	return t.propagator.Extract(ctx, propagation.MapCarrier(carrier))
}
