// Package metrics exports the counters of an element.Group to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/livetree/pkg/diff"
	"github.com/vango-dev/livetree/pkg/element"
	"github.com/vango-dev/livetree/pkg/reactive"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "livetree").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "livetree",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Recorder implements element.Recorder with Prometheus collectors. It is
// safe for concurrent use.
type Recorder struct {
	passes       prometheus.Counter
	passDuration prometheus.Histogram
	diffOps      *prometheus.CounterVec
	textCreated  prometheus.Counter
	evictions    prometheus.Counter
	attrWrites   prometheus.Counter
	events       *prometheus.CounterVec
	violations   *prometheus.CounterVec
	effects      *prometheus.GaugeVec
}

var _ element.Recorder = (*Recorder)(nil)

// New registers the collectors and returns a Recorder. Registering twice on
// the same registry panics, as promauto does.
func New(opts ...Option) *Recorder {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Recorder{
		passes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reconcile_passes_total",
			Help:        "Total number of completed region reconciliation passes",
			ConstLabels: config.ConstLabels,
		}),

		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reconcile_duration_seconds",
			Help:        "Region reconciliation pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		diffOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "diff_operations_total",
			Help:        "Total number of structural operations applied by region diffs",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		textCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "text_nodes_created_total",
			Help:        "Total number of text nodes created for scalar children",
			ConstLabels: config.ConstLabels,
		}),

		evictions: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cache_evictions_total",
			Help:        "Total number of text nodes evicted from region caches",
			ConstLabels: config.ConstLabels,
		}),

		attrWrites: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "attribute_writes_total",
			Help:        "Total number of attribute and style writes",
			ConstLabels: config.ConstLabels,
		}),

		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_total",
			Help:        "Total number of native and lifecycle events delivered by watched roots",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		violations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "precondition_violations_total",
			Help:        "Total number of skipped passes and rejected bindings by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		effects: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reactive_effects",
			Help:        "Reactive runtime counters as of the last SetRuntimeStats call",
			ConstLabels: config.ConstLabels,
		}, []string{"counter"}),
	}
}

// ReconcilePass records one completed pass.
func (r *Recorder) ReconcilePass(d time.Duration) {
	r.passes.Inc()
	r.passDuration.Observe(d.Seconds())
}

// DiffOp records one structural operation.
func (r *Recorder) DiffOp(op diff.Op) {
	r.diffOps.WithLabelValues(op.String()).Inc()
}

// TextNodesCreated records created text nodes.
func (r *Recorder) TextNodesCreated(n int) {
	if n > 0 {
		r.textCreated.Add(float64(n))
	}
}

// CacheEvictions records evicted cache entries.
func (r *Recorder) CacheEvictions(n int) {
	if n > 0 {
		r.evictions.Add(float64(n))
	}
}

// AttributeWrite records one attribute or style write.
func (r *Recorder) AttributeWrite() {
	r.attrWrites.Inc()
}

// Event records one delivered event.
func (r *Recorder) Event(kind string) {
	r.events.WithLabelValues(kind).Inc()
}

// Violation records a coded failure.
func (r *Recorder) Violation(code string) {
	r.violations.WithLabelValues(code).Inc()
}

// SetRuntimeStats publishes a snapshot of runtime counters. Call it from
// the goroutine that owns the runtime.
func (r *Recorder) SetRuntimeStats(s reactive.Stats) {
	r.effects.WithLabelValues("created").Set(float64(s.EffectsCreated))
	r.effects.WithLabelValues("runs").Set(float64(s.EffectRuns))
	r.effects.WithLabelValues("disposed").Set(float64(s.EffectsDisposed))
	r.effects.WithLabelValues("signal_writes").Set(float64(s.SignalWrites))
}
