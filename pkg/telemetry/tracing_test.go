package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/vango-dev/signals/pkg/reactive"
)

func setupTestTracer(t *testing.T) (*sdktrace.TracerProvider, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() {
		_ = provider.Shutdown(t.Context())
	})
	return provider, exporter
}

func attrValue(span tracetest.SpanStub, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracerEmitsPassSpans(t *testing.T) {
	provider, exporter := setupTestTracer(t)
	rt := newRuntime(t, Tracer(WithTracer(provider.Tracer("test"))))

	count := reactive.NewSignal(rt.Root(), 0)
	_, err := reactive.NewEffect(rt.Root(), func() reactive.Cleanup {
		_ = count.Get()
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, count.Set(1))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "signals.pass", span.Name)
	assert.Equal(t, codes.Ok, span.Status.Code)
	assert.False(t, span.EndTime.Before(span.StartTime))

	v, ok := attrValue(span, "signals.runtime_id")
	require.True(t, ok)
	assert.Equal(t, rt.ID(), v.AsString())

	v, ok = attrValue(span, "signals.effects")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.AsInt64())
}

func TestTracerRecordsPassError(t *testing.T) {
	provider, exporter := setupTestTracer(t)
	tr := Tracer(WithTracer(provider.Tracer("test")))

	start := time.Now()
	tr.OnPass(reactive.PassInfo{
		Runtime:  "rt-1",
		Start:    start,
		Duration: 5 * time.Millisecond,
		Err:      errors.New("boom"),
	})

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "boom", spans[0].Status.Description)
	assert.True(t, start.Add(5*time.Millisecond).Equal(spans[0].EndTime))
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "exception", spans[0].Events[0].Name)
}

func TestTracerNodeSpans(t *testing.T) {
	provider, exporter := setupTestTracer(t)

	node := reactive.NodeInfo{Kind: reactive.KindMemo, Name: "doubled"}
	Tracer(WithTracer(provider.Tracer("test"))).OnRecompute(node, time.Millisecond)
	assert.Empty(t, exporter.GetSpans(), "node spans are off by default")

	tr := Tracer(WithTracer(provider.Tracer("test")), WithNodeSpans(true))
	tr.OnRecompute(node, time.Millisecond)
	tr.OnEffect(reactive.NodeInfo{Kind: reactive.KindEffect}, time.Millisecond)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "signals.recompute", spans[0].Name)
	assert.Equal(t, "signals.effect", spans[1].Name)

	v, ok := attrValue(spans[0], "signals.node_name")
	require.True(t, ok)
	assert.Equal(t, "doubled", v.AsString())
}
