// Package metrics collects Prometheus metrics for imui render passes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures a Recorder.
type Config struct {
	// Namespace is the metrics namespace (default: "imui").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: buckets from 50µs to ~100ms.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures a Recorder.
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
		Namespace: "imui",
		Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12),
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Recorder holds the render metrics. A nil *Recorder is valid and records
// nothing.
//
// Metrics collected:
//   - imui_renders_total: Counter of render passes by trigger
//   - imui_render_duration_seconds: Histogram of render pass duration
//   - imui_nodes_created_total: Counter of created nodes by kind
//   - imui_nodes_destroyed_total: Counter of destroyed nodes by kind
//   - imui_refreshes_total: Counter of refresh requests
//   - imui_moves_total: Counter of nodes moved into declaration order
//   - imui_duplicate_ids_total: Counter of duplicate sibling IDs
type Recorder struct {
	rendersTotal   *prometheus.CounterVec
	renderDuration prometheus.Histogram
	nodesCreated   *prometheus.CounterVec
	nodesDestroyed *prometheus.CounterVec
	refreshes      prometheus.Counter
	moves          prometheus.Counter
	duplicates     prometheus.Counter
}

// New creates and registers a Recorder.
func New(opts ...Option) *Recorder {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Recorder{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of render passes",
			ConstLabels: config.ConstLabels,
		}, []string{"trigger"}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Render pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		nodesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_created_total",
			Help:        "Total number of widget nodes created",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		nodesDestroyed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_destroyed_total",
			Help:        "Total number of widget nodes destroyed",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		refreshes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "refreshes_total",
			Help:        "Total number of refresh requests issued to the toolkit",
			ConstLabels: config.ConstLabels,
		}),

		moves: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "moves_total",
			Help:        "Total number of nodes moved into declaration order",
			ConstLabels: config.ConstLabels,
		}),

		duplicates: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "duplicate_ids_total",
			Help:        "Total number of duplicate sibling IDs declared",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// RecordRender records a completed render pass.
func (r *Recorder) RecordRender(trigger string, d time.Duration) {
	if r == nil {
		return
	}
	r.rendersTotal.WithLabelValues(trigger).Inc()
	r.renderDuration.Observe(d.Seconds())
}

// RecordCreate records a node creation.
func (r *Recorder) RecordCreate(kind string) {
	if r == nil {
		return
	}
	r.nodesCreated.WithLabelValues(kind).Inc()
}

// RecordDestroy records a node destruction.
func (r *Recorder) RecordDestroy(kind string) {
	if r == nil {
		return
	}
	r.nodesDestroyed.WithLabelValues(kind).Inc()
}

// RecordRefresh records a refresh request.
func (r *Recorder) RecordRefresh() {
	if r == nil {
		return
	}
	r.refreshes.Inc()
}

// RecordMoves records n nodes moved into declaration order.
func (r *Recorder) RecordMoves(n int) {
	if r == nil {
		return
	}
	r.moves.Add(float64(n))
}

// RecordDuplicate records a duplicate sibling ID.
func (r *Recorder) RecordDuplicate() {
	if r == nil {
		return
	}
	r.duplicates.Inc()
}
