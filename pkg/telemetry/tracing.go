package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/signals/pkg/reactive"
)

// Default tracer name for reactive runtimes.
const defaultTracerName = "signals"

// TracerConfig configures the OpenTelemetry observer.
type TracerConfig struct {
	// TracerName is the name of the tracer (default: "signals").
	TracerName string

	// Tracer overrides the tracer resolved from the global provider.
	Tracer trace.Tracer

	// NodeSpans emits a span per memo recomputation and effect run in
	// addition to the pass spans. Disabled by default.
	NodeSpans bool
}

// TracerOption configures the OpenTelemetry observer.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) {
		c.TracerName = name
	}
}

// WithTracer uses t instead of a tracer from the global provider.
func WithTracer(t trace.Tracer) TracerOption {
	return func(c *TracerConfig) {
		c.Tracer = t
	}
}

// WithNodeSpans enables one span per recompute and effect run.
func WithNodeSpans(enabled bool) TracerOption {
	return func(c *TracerConfig) {
		c.NodeSpans = enabled
	}
}

// Tracing is a reactive.Observer emitting OpenTelemetry spans.
type Tracing struct {
	tracer    trace.Tracer
	nodeSpans bool
}

var _ reactive.Observer = (*Tracing)(nil)

// Tracer creates an observer that records one span per propagation pass,
// named "signals.pass", with the pass counters as attributes. Aborted
// passes record the error and set an error status.
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracer is given. Configure it in main() before creating runtimes:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func Tracer(opts ...TracerOption) *Tracing {
	config := TracerConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Tracer == nil {
		config.Tracer = otel.Tracer(config.TracerName)
	}
	return &Tracing{tracer: config.Tracer, nodeSpans: config.NodeSpans}
}

// OnPass implements reactive.Observer. Passes are reported after they end,
// so the span is started and ended with the pass's own timestamps.
func (t *Tracing) OnPass(info reactive.PassInfo) {
	_, span := t.tracer.Start(
		context.Background(),
		"signals.pass",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(info.Start),
		trace.WithAttributes(
			attribute.String("signals.runtime_id", info.Runtime),
			attribute.Int("signals.pass", info.Index),
			attribute.Int("signals.pending", info.Pending),
			attribute.Int("signals.effects", info.Effects),
			attribute.Int("signals.recomputes", info.Recomputes),
			attribute.Int("signals.live_nodes", info.Nodes.Total()),
		),
	)
	if info.Err != nil {
		span.RecordError(info.Err)
		span.SetStatus(codes.Error, info.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(info.Start.Add(info.Duration)))
}

// OnRecompute implements reactive.Observer.
func (t *Tracing) OnRecompute(node reactive.NodeInfo, d time.Duration) {
	t.nodeSpan("signals.recompute", node, d)
}

// OnEffect implements reactive.Observer.
func (t *Tracing) OnEffect(node reactive.NodeInfo, d time.Duration) {
	t.nodeSpan("signals.effect", node, d)
}

func (t *Tracing) nodeSpan(name string, node reactive.NodeInfo, d time.Duration) {
	if !t.nodeSpans {
		return
	}
	end := time.Now()
	_, span := t.tracer.Start(
		context.Background(),
		name,
		trace.WithTimestamp(end.Add(-d)),
		trace.WithAttributes(
			attribute.String("signals.node_id", node.ID.String()),
			attribute.String("signals.node_kind", node.Kind.String()),
			attribute.String("signals.node_name", node.Name),
		),
	)
	span.End(trace.WithTimestamp(end))
}
