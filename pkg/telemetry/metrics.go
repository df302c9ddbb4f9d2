package telemetry

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/signals/pkg/reactive"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "signals").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass and node durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "signals",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a reactive.Observer recording Prometheus metrics.
type Metrics struct {
	passesTotal     *prometheus.CounterVec
	passDuration    prometheus.Histogram
	passErrors      *prometheus.CounterVec
	recomputesTotal prometheus.Counter
	effectRuns      prometheus.Counter
	nodeDuration    *prometheus.HistogramVec
	liveNodes       *prometheus.GaugeVec
}

var _ reactive.Observer = (*Metrics)(nil)

// Prometheus creates an observer that records Prometheus metrics for every
// propagation pass. The metrics are registered with the configured
// registry, so create one Metrics per registry.
//
// Metrics collected:
//   - signals_passes_total: Counter of passes by status (ok, aborted)
//   - signals_pass_duration_seconds: Histogram of pass duration
//   - signals_pass_errors_total: Counter of aborted passes by error kind
//   - signals_recomputes_total: Counter of memo recomputations
//   - signals_effect_runs_total: Counter of effect runs
//   - signals_node_duration_seconds: Histogram of recompute and effect time by kind
//   - signals_live_nodes: Gauge of live nodes by kind after the last pass
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		passesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "passes_total",
			Help:        "Total number of propagation passes",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_duration_seconds",
			Help:        "Propagation pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		passErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_errors_total",
			Help:        "Total number of aborted passes by error kind",
			ConstLabels: config.ConstLabels,
		}, []string{"error_type"}),

		recomputesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "recomputes_total",
			Help:        "Total number of memo recomputations",
			ConstLabels: config.ConstLabels,
		}),

		effectRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Total number of effect runs",
			ConstLabels: config.ConstLabels,
		}),

		nodeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "node_duration_seconds",
			Help:        "Memo recomputation and effect run duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"kind"}),

		liveNodes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_nodes",
			Help:        "Number of live nodes by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),
	}
}

// OnPass implements reactive.Observer.
func (m *Metrics) OnPass(info reactive.PassInfo) {
	m.passDuration.Observe(info.Duration.Seconds())

	status := "ok"
	if info.Err != nil {
		status = "aborted"
		m.passErrors.WithLabelValues(categorizeError(info.Err)).Inc()
	}
	m.passesTotal.WithLabelValues(status).Inc()

	m.liveNodes.WithLabelValues(reactive.KindSignal.String()).Set(float64(info.Nodes.Signals))
	m.liveNodes.WithLabelValues(reactive.KindMemo.String()).Set(float64(info.Nodes.Memos))
	m.liveNodes.WithLabelValues(reactive.KindEffect.String()).Set(float64(info.Nodes.Effects))
}

// OnRecompute implements reactive.Observer.
func (m *Metrics) OnRecompute(node reactive.NodeInfo, d time.Duration) {
	m.recomputesTotal.Inc()
	m.nodeDuration.WithLabelValues(node.Kind.String()).Observe(d.Seconds())
}

// OnEffect implements reactive.Observer.
func (m *Metrics) OnEffect(node reactive.NodeInfo, d time.Duration) {
	m.effectRuns.Inc()
	m.nodeDuration.WithLabelValues(node.Kind.String()).Observe(d.Seconds())
}

// categorizeError returns a low-cardinality label for a pass error.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, reactive.ErrCyclicDependency):
		return "cyclic_dependency"
	case errors.Is(err, reactive.ErrUseAfterDispose):
		return "use_after_dispose"
	case errors.Is(err, reactive.ErrPassLimit):
		return "pass_limit"
	default:
		return "internal"
	}
}
