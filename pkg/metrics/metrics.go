// Package metrics provides Prometheus instrumentation for gopool components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for gopool components.
type Registry struct {
	// Worklist Metrics
	WorklistDepth    *prometheus.GaugeVec
	WorklistCapacity *prometheus.GaugeVec
	WorklistAdds     *prometheus.CounterVec
	WorklistTakes    *prometheus.CounterVec
	WorklistRejects  *prometheus.CounterVec
	SaturationEvents *prometheus.CounterVec
	BlockedThreads   *prometheus.GaugeVec

	// Pool Metrics
	PoolWorkers          *prometheus.GaugeVec
	PoolParked           *prometheus.GaugeVec
	PoolActive           *prometheus.GaugeVec
	TasksExecuted        *prometheus.CounterVec
	TasksFailed          *prometheus.CounterVec
	TasksPanicked        *prometheus.CounterVec
	TaskDuration         *prometheus.HistogramVec
	LifecycleTransitions *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by gopool components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		// Worklist Metrics
		WorklistDepth: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "gopool",
				Subsystem: "worklist",
				Name:      "depth",
				Help:      "Number of tasks currently queued",
			},
			[]string{"pool_name"},
		),

		WorklistCapacity: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "gopool",
				Subsystem: "worklist",
				Name:      "capacity",
				Help:      "Maximum number of tasks the worklist can hold",
			},
			[]string{"pool_name"},
		),

		WorklistAdds: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gopool",
				Subsystem: "worklist",
				Name:      "adds_total",
				Help:      "Total number of tasks accepted by the worklist",
			},
			[]string{"pool_name"},
		),

		WorklistTakes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gopool",
				Subsystem: "worklist",
				Name:      "takes_total",
				Help:      "Total number of tasks dequeued from the worklist",
			},
			[]string{"pool_name"},
		),

		WorklistRejects: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gopool",
				Subsystem: "worklist",
				Name:      "rejects_total",
				Help:      "Total number of rejected operations",
			},
			[]string{"pool_name", "reason"},
		),

		SaturationEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gopool",
				Subsystem: "worklist",
				Name:      "saturation_events_total",
				Help:      "Total number of saturation trigger firings",
			},
			[]string{"pool_name", "side"},
		),

		BlockedThreads: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "gopool",
				Subsystem: "worklist",
				Name:      "blocked_threads",
				Help:      "Threads currently blocked inside the worklist",
			},
			[]string{"pool_name", "side"},
		),

		// Pool Metrics
		PoolWorkers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "gopool",
				Subsystem: "pool",
				Name:      "workers",
				Help:      "Configured worker count",
			},
			[]string{"pool_name"},
		),

		PoolParked: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "gopool",
				Subsystem: "pool",
				Name:      "parked_workers",
				Help:      "Workers currently parked by a stop request",
			},
			[]string{"pool_name"},
		),

		PoolActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "gopool",
				Subsystem: "pool",
				Name:      "active_workers",
				Help:      "Workers currently executing tasks",
			},
			[]string{"pool_name"},
		),

		TasksExecuted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gopool",
				Subsystem: "pool",
				Name:      "tasks_executed_total",
				Help:      "Total number of tasks executed",
			},
			[]string{"pool_name"},
		),

		TasksFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gopool",
				Subsystem: "pool",
				Name:      "tasks_failed_total",
				Help:      "Total number of tasks that returned an error",
			},
			[]string{"pool_name"},
		),

		TasksPanicked: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gopool",
				Subsystem: "pool",
				Name:      "tasks_panicked_total",
				Help:      "Total number of tasks that panicked",
			},
			[]string{"pool_name"},
		),

		TaskDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "gopool",
				Subsystem: "pool",
				Name:      "task_duration_seconds",
				Help:      "Time spent executing tasks",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"pool_name"},
		),

		LifecycleTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gopool",
				Subsystem: "pool",
				Name:      "lifecycle_transitions_total",
				Help:      "Total number of pool lifecycle operations",
			},
			[]string{"pool_name", "operation"},
		),
	}
}
