// Package metrics provides Prometheus instrumentation for gopool components.
//
// # Overview
//
// The metrics package provides automatic instrumentation for:
//   - The worklist (depth, capacity, adds, takes, rejects, saturation
//     events, blocked threads)
//   - The pool (worker counts, parked and active workers, task outcomes,
//     task durations, lifecycle transitions)
//
// # Quick Start
//
// Enable metrics by using the metrics-enabled constructor:
//
//	p, err := pool.NewWithMetrics(4, "ingest_pool")
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	config := metrics.Config{
//		Enabled:  true,
//		Registry: registry,
//	}
//	p, err := pool.NewWithConfigAndMetrics(pool.Config{Workers: 4}, "ingest_pool", config)
//
// # Available Metrics
//
//   - gopool_worklist_depth: Number of tasks currently queued
//   - gopool_worklist_capacity: Maximum number of tasks the worklist can hold
//   - gopool_worklist_adds_total: Total tasks accepted by the worklist
//   - gopool_worklist_takes_total: Total tasks dequeued from the worklist
//   - gopool_worklist_rejects_total: Rejected operations, by reason
//   - gopool_worklist_saturation_events_total: Saturation trigger firings, by side
//   - gopool_worklist_blocked_threads: Threads blocked inside the worklist, by side
//   - gopool_pool_workers: Configured worker count
//   - gopool_pool_parked_workers: Workers parked by a stop request
//   - gopool_pool_active_workers: Workers currently executing tasks
//   - gopool_pool_tasks_executed_total: Total tasks executed
//   - gopool_pool_tasks_failed_total: Tasks that returned an error
//   - gopool_pool_tasks_panicked_total: Tasks that panicked
//   - gopool_pool_task_duration_seconds: Task execution time
//   - gopool_pool_lifecycle_transitions_total: Lifecycle operations, by operation
//
// All metrics carry a pool_name label identifying the instrumented instance.
package metrics
