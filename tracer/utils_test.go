package tracer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTestClient(t *testing.T) (*TracerClient, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	client, err := NewClient(Config{ServiceName: "test", AppEnv: "test"}, WithSpanProcessor(recorder))
	require.NoError(t, err)
	return client, recorder
}

func TestStartSpan_IsRecording(t *testing.T) {
	t.Parallel()
	client, recorder := newTestClient(t)

	ctx, span := client.StartSpan(context.Background(), "test-op")
	assert.True(t, trace.SpanFromContext(ctx).IsRecording())
	assert.Len(t, span.TraceID(), 32)
	span.End()

	require.Len(t, recorder.Ended(), 1)
	assert.Equal(t, "test-op", recorder.Ended()[0].Name())
}

func TestStartSpan_ChildInheritsParent(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t)

	ctx, parent := client.StartSpan(context.Background(), "parent")
	defer parent.End()
	_, child := client.StartSpan(ctx, "child")
	defer child.End()

	assert.Equal(t, parent.TraceID(), child.TraceID())
}

func TestSetAttributes_AllTypes(t *testing.T) {
	t.Parallel()
	client, recorder := newTestClient(t)

	_, span := client.StartSpan(context.Background(), "attrs")
	span.SetAttributes(map[string]interface{}{
		"str":   "value",
		"int":   42,
		"int64": int64(7),
		"float": 3.5,
		"bool":  true,
		"other": []int{1, 2},
	})
	span.SetAttributes(nil)
	span.End()

	require.Len(t, recorder.Ended(), 1)
	assert.ElementsMatch(t, []attribute.KeyValue{
		attribute.String("str", "value"),
		attribute.Int("int", 42),
		attribute.Int64("int64", 7),
		attribute.Float64("float", 3.5),
		attribute.Bool("bool", true),
		attribute.String("other", "[1 2]"),
	}, recorder.Ended()[0].Attributes())
}

func TestRecordError(t *testing.T) {
	t.Parallel()
	client, recorder := newTestClient(t)

	_, span := client.StartSpan(context.Background(), "failing")
	span.RecordError(nil)
	span.RecordError(errors.New("something went wrong"))
	span.End()

	require.Len(t, recorder.Ended(), 1)
	ended := recorder.Ended()[0]
	assert.Equal(t, codes.Error, ended.Status().Code)
	assert.Equal(t, "something went wrong", ended.Status().Description)
	assert.Len(t, ended.Events(), 1)
}

func TestCarrier_RoundTrip(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t)

	assert.Empty(t, client.GetCarrier(context.Background()))

	ctx, span := client.StartSpan(context.Background(), "outbound")
	defer span.End()

	carrier := client.GetCarrier(ctx)
	require.Contains(t, carrier, "traceparent")

	received := client.SetCarrierOnContext(context.Background(), carrier)
	sc := trace.SpanContextFromContext(received)
	assert.True(t, sc.IsRemote())
	assert.Equal(t, span.TraceID(), sc.TraceID().String())

	empty := client.SetCarrierOnContext(context.Background(), map[string]string{})
	assert.False(t, trace.SpanContextFromContext(empty).IsValid())
}
