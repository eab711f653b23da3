// Package metrics provides Prometheus instrumentation for lazyflow components.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every metric name unless Config.Namespace overrides it.
const DefaultNamespace = "lazyflow"

// Registry holds all metric instances for lazyflow components.
type Registry struct {
	// Pipeline Metrics
	PipelineItemsPulled   *prometheus.CounterVec
	PipelineItemsEmitted  *prometheus.CounterVec
	PipelineItemsRejected *prometheus.CounterVec
	PipelineRewinds       *prometheus.CounterVec

	// Refresh Metrics
	RefreshRuns     *prometheus.CounterVec
	RefreshFailures *prometheus.CounterVec
	RefreshDuration *prometheus.HistogramVec
	RefreshItems    *prometheus.GaugeVec
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns a Registry registered with prometheus.DefaultRegisterer.
// It is created on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	cfg := DefaultConfig()
	cfg.Registry = reg
	return NewRegistryWithConfig(cfg)
}

// NewRegistryWithConfig creates a metrics registry from cfg. A disabled
// config yields nil, which every component treats as "no metrics".
func NewRegistryWithConfig(cfg Config) *Registry {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.DefaultRegisterer
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}

	factory := promauto.With(cfg.Registry)
	ns, labels := cfg.Namespace, cfg.Labels

	return &Registry{
		PipelineItemsPulled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "pipeline",
				Name:        "items_pulled_total",
				Help:        "Total number of source items evaluated against the stage chain",
				ConstLabels: labels,
			},
			[]string{"pipeline_name"},
		),

		PipelineItemsEmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "pipeline",
				Name:        "items_emitted_total",
				Help:        "Total number of items that survived every filter",
				ConstLabels: labels,
			},
			[]string{"pipeline_name"},
		),

		PipelineItemsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "pipeline",
				Name:        "items_rejected_total",
				Help:        "Total number of items rejected by a filter stage",
				ConstLabels: labels,
			},
			[]string{"pipeline_name"},
		),

		PipelineRewinds: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "pipeline",
				Name:        "rewinds_total",
				Help:        "Total number of pipeline rewinds",
				ConstLabels: labels,
			},
			[]string{"pipeline_name"},
		),

		RefreshRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "refresh",
				Name:        "runs_total",
				Help:        "Total number of scheduled pipeline refreshes",
				ConstLabels: labels,
			},
			[]string{"refresher_name"},
		),

		RefreshFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "refresh",
				Name:        "failures_total",
				Help:        "Total number of refreshes whose sink returned an error",
				ConstLabels: labels,
			},
			[]string{"refresher_name"},
		),

		RefreshDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Subsystem:   "refresh",
				Name:        "duration_seconds",
				Help:        "Time spent materializing a pipeline and delivering it to the sink",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: labels,
			},
			[]string{"refresher_name"},
		),

		RefreshItems: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "refresh",
				Name:        "items",
				Help:        "Number of items produced by the last refresh",
				ConstLabels: labels,
			},
			[]string{"refresher_name"},
		),
	}
}

// PipelineCounters are the pipeline counters bound to one pipeline name.
type PipelineCounters struct {
	Pulled   prometheus.Counter
	Emitted  prometheus.Counter
	Rejected prometheus.Counter
	Rewinds  prometheus.Counter
}

// Pipeline binds the pipeline counters to name. It returns nil on a nil Registry.
func (r *Registry) Pipeline(name string) *PipelineCounters {
	if r == nil {
		return nil
	}
	return &PipelineCounters{
		Pulled:   r.PipelineItemsPulled.WithLabelValues(name),
		Emitted:  r.PipelineItemsEmitted.WithLabelValues(name),
		Rejected: r.PipelineItemsRejected.WithLabelValues(name),
		Rewinds:  r.PipelineRewinds.WithLabelValues(name),
	}
}
