/*
Package pool implements a fixed-size worker pool over a bounded worklist,
with a cooperative stop, resume, and destroy lifecycle.

Workers are spawned once at construction and live for the lifetime of the
pool. Each worker loops taking tasks from the shared worklist and executing
them with panic recovery and an optional per-task timeout. The pool never
grows or shrinks; backpressure comes from the bounded worklist, which blocks
Submit while full.

Basic usage:

	p, err := pool.New(4, 256)
	if err != nil {
		log.Fatal(err)
	}

	p.Submit(pool.TaskFunc(func(ctx context.Context) error {
		// Do work
		return nil
	}))

Lifecycle:

A stop parks all workers as a group. SoftStop lets each worker finish its
current task and park on its own; it does not wake a worker blocked taking
from an empty worklist. HardStop additionally stops the worklist, so blocked
workers wake immediately. Wait blocks until every worker has parked:

	p.HardStop()
	p.Wait()

A quiesced pool can be resumed with Continue, which discards any queued
backlog and releases all workers through a shared barrier, or torn down for
good with Close, which joins every worker and releases the worklist.
Continue, Register, and Close all require the pool to be quiesced first.

Saturation triggers registered with Register fire when all workers stall on
an empty worklist or all submitters stall on a full one. A trigger may call
back into the pool; hard-stopping from an on-empty trigger turns "no work
left" into automatic quiescence:

	p.Register(pool.TaskFunc(func(ctx context.Context) error {
		p.HardStop()
		return nil
	}), nil)

For Prometheus instrumentation wrap the pool with NewWithConfigAndMetrics,
which records task outcomes, queue depth, and lifecycle transitions.
*/
package pool
