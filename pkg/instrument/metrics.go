package instrument

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "reconcile").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collectors.
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
		Namespace: "reconcile",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the reconciler's collectors. It is safe for concurrent use.
type Metrics struct {
	rendersTotal   *prometheus.CounterVec
	renderDuration prometheus.Histogram
	renderErrors   *prometheus.CounterVec
	hostOps        *prometheus.CounterVec
	nodesMoved     prometheus.Counter

	// opCounters caches hostOps children by opcode.
	opCounters [vdom.OpSetText + 1]prometheus.Counter
}

// NewMetrics creates and registers the collectors. Registering twice with
// the same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	m := &Metrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of renders by mode",
			ConstLabels: config.ConstLabels,
		}, []string{"mode"}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		renderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_errors_total",
			Help:        "Total number of failed renders by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		hostOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "host_ops_total",
			Help:        "Total number of host mutations by operation",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		nodesMoved: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_moved_total",
			Help:        "Total number of host nodes repositioned by keyed diffs",
			ConstLabels: config.ConstLabels,
		}),
	}
	for op := vdom.OpCreateElement; op <= vdom.OpSetText; op++ {
		m.opCounters[op] = m.hostOps.WithLabelValues(op.String())
	}
	return m
}

// ObserveRender records one render.
func (m *Metrics) ObserveRender(stats vdom.Stats, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.rendersTotal.WithLabelValues(stats.Mode.String()).Inc()
	m.renderDuration.Observe(d.Seconds())
	m.nodesMoved.Add(float64(stats.Moved))
	if err != nil {
		code := errors.Code(err)
		if code == "" {
			code = "unknown"
		}
		m.renderErrors.WithLabelValues(code).Inc()
	}
}

// ObserveHostOp records one successful host mutation.
func (m *Metrics) ObserveHostOp(op vdom.OpCode) {
	if m == nil || !op.Valid() {
		return
	}
	m.opCounters[op].Inc()
}
