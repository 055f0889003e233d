package pool

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/gopool/pkg/metrics"
	"github.com/vnykmshr/gopool/pkg/worklist"
)

// MetricsPool wraps a Pool with Prometheus metrics collection.
type MetricsPool struct {
	pool     Pool
	base     *pool // concrete pool, for worklist-level gauges
	name     string
	registry *metrics.Registry
	enabled  bool
}

// NewWithMetrics creates a new pool with metrics enabled.
func NewWithMetrics(workers int, name string) (Pool, error) {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewWithConfigAndMetrics(Config{
		Workers: workers,
	}, name, config)
}

// NewWithConfigAndMetrics creates a new pool with custom config and metrics.
func NewWithConfigAndMetrics(config Config, name string, metricsConfig metrics.Config) (Pool, error) {
	basePool, err := NewWithConfig(config)
	if err != nil {
		return nil, err
	}

	if !metricsConfig.Enabled {
		return basePool, nil
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	mp := &MetricsPool{
		pool:     basePool,
		name:     name,
		registry: registry,
		enabled:  true,
	}
	mp.base, _ = basePool.(*pool)

	mp.registry.PoolWorkers.WithLabelValues(mp.name).Set(float64(basePool.Size()))
	queueSize := config.QueueSize
	if queueSize == 0 {
		queueSize = worklist.DefaultCapacity
	}
	mp.registry.WorklistCapacity.WithLabelValues(mp.name).Set(float64(queueSize))
	mp.updateMetrics()
	return mp, nil
}

// updateMetrics updates the current state gauges.
func (mp *MetricsPool) updateMetrics() {
	if !mp.enabled {
		return
	}

	mp.registry.WorklistDepth.WithLabelValues(mp.name).Set(float64(mp.pool.QueueLen()))
	mp.registry.PoolParked.WithLabelValues(mp.name).Set(float64(mp.pool.ParkedWorkers()))
	mp.registry.PoolActive.WithLabelValues(mp.name).Set(float64(mp.pool.ActiveWorkers()))
	if mp.base != nil {
		mp.registry.BlockedThreads.WithLabelValues(mp.name, "full").Set(float64(mp.base.list.BlockedProducers()))
		mp.registry.BlockedThreads.WithLabelValues(mp.name, "empty").Set(float64(mp.base.list.BlockedConsumers()))
	}
}

// Submit adds a task to the pool, recording the outcome.
func (mp *MetricsPool) Submit(task Task) error {
	if !mp.enabled {
		return mp.pool.Submit(task)
	}

	err := mp.pool.Submit(&metricsTask{original: task, pool: mp})
	switch {
	case err == nil:
		mp.registry.WorklistAdds.WithLabelValues(mp.name).Inc()
	case errors.Is(err, worklist.ErrStopped):
		mp.registry.WorklistRejects.WithLabelValues(mp.name, "stopped").Inc()
	case errors.Is(err, worklist.ErrSaturated):
		mp.registry.WorklistRejects.WithLabelValues(mp.name, "saturated").Inc()
	}
	mp.updateMetrics()
	return err
}

// metricsTask wraps a Task to collect execution metrics.
type metricsTask struct {
	original Task
	pool     *MetricsPool
}

// Execute runs the original task and records metrics.
func (mt *metricsTask) Execute(ctx context.Context) error {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			mt.pool.registry.TasksPanicked.WithLabelValues(mt.pool.name).Inc()
			panic(r)
		}
	}()

	mt.pool.registry.WorklistTakes.WithLabelValues(mt.pool.name).Inc()

	err := mt.original.Execute(ctx)

	mt.pool.registry.TaskDuration.WithLabelValues(mt.pool.name).Observe(time.Since(start).Seconds())
	mt.pool.registry.TasksExecuted.WithLabelValues(mt.pool.name).Inc()
	if err != nil {
		mt.pool.registry.TasksFailed.WithLabelValues(mt.pool.name).Inc()
	}
	mt.pool.updateMetrics()

	return err
}

// SoftStop requests a soft stop and records the transition.
func (mp *MetricsPool) SoftStop() {
	mp.pool.SoftStop()
	if mp.enabled {
		mp.registry.LifecycleTransitions.WithLabelValues(mp.name, "soft_stop").Inc()
	}
}

// HardStop requests a hard stop and records the transition.
func (mp *MetricsPool) HardStop() {
	mp.pool.HardStop()
	if mp.enabled {
		mp.registry.LifecycleTransitions.WithLabelValues(mp.name, "hard_stop").Inc()
	}
}

// Wait blocks until every worker has parked.
func (mp *MetricsPool) Wait() {
	mp.pool.Wait()
	mp.updateMetrics()
}

// Continue restarts a quiesced pool and records the transition.
func (mp *MetricsPool) Continue() error {
	err := mp.pool.Continue()
	if err == nil && mp.enabled {
		mp.registry.LifecycleTransitions.WithLabelValues(mp.name, "continue").Inc()
		mp.updateMetrics()
	}
	return err
}

// Register installs saturation triggers on the underlying pool, wrapping
// them so firings are counted by side.
func (mp *MetricsPool) Register(onEmpty, onFull Task) error {
	if !mp.enabled {
		return mp.pool.Register(onEmpty, onFull)
	}
	return mp.pool.Register(
		mp.countingTrigger("empty", onEmpty),
		mp.countingTrigger("full", onFull),
	)
}

func (mp *MetricsPool) countingTrigger(side string, trigger Task) Task {
	if trigger == nil {
		return nil
	}
	return TaskFunc(func(ctx context.Context) error {
		mp.registry.SaturationEvents.WithLabelValues(mp.name, side).Inc()
		return trigger.Execute(ctx)
	})
}

// Close tears down the pool and records the transition.
func (mp *MetricsPool) Close() error {
	err := mp.pool.Close()
	if err == nil && mp.enabled {
		mp.registry.LifecycleTransitions.WithLabelValues(mp.name, "close").Inc()
	}
	return err
}

// Size returns the number of workers in the pool.
func (mp *MetricsPool) Size() int {
	return mp.pool.Size()
}

// QueueLen returns the current number of queued tasks.
func (mp *MetricsPool) QueueLen() int {
	queueLen := mp.pool.QueueLen()
	if mp.enabled {
		mp.registry.WorklistDepth.WithLabelValues(mp.name).Set(float64(queueLen))
	}
	return queueLen
}

// Busy reports whether the worklist is near capacity.
func (mp *MetricsPool) Busy() bool {
	return mp.pool.Busy()
}

// ParkedWorkers returns the number of workers currently parked.
func (mp *MetricsPool) ParkedWorkers() int {
	parked := mp.pool.ParkedWorkers()
	if mp.enabled {
		mp.registry.PoolParked.WithLabelValues(mp.name).Set(float64(parked))
	}
	return parked
}

// ActiveWorkers returns the number of workers currently executing tasks.
func (mp *MetricsPool) ActiveWorkers() int {
	active := mp.pool.ActiveWorkers()
	if mp.enabled {
		mp.registry.PoolActive.WithLabelValues(mp.name).Set(float64(active))
	}
	return active
}

// TotalSubmitted returns the total number of tasks accepted by Submit.
func (mp *MetricsPool) TotalSubmitted() int64 {
	return mp.pool.TotalSubmitted()
}

// TotalExecuted returns the total number of tasks executed.
func (mp *MetricsPool) TotalExecuted() int64 {
	return mp.pool.TotalExecuted()
}

// EnableMetrics enables metrics collection.
func (mp *MetricsPool) EnableMetrics(config metrics.Config) error {
	mp.enabled = config.Enabled

	if config.Registry != nil {
		mp.registry = metrics.NewRegistry(config.Registry)
	}

	if mp.enabled {
		mp.registry.PoolWorkers.WithLabelValues(mp.name).Set(float64(mp.pool.Size()))
		mp.updateMetrics()
	}

	return nil
}

// DisableMetrics disables metrics collection.
func (mp *MetricsPool) DisableMetrics() {
	mp.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (mp *MetricsPool) MetricsEnabled() bool {
	return mp.enabled
}
