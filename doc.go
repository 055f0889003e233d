/*
Package gopool provides a fixed-size worker pool built on a bounded
concurrent worklist, with saturation triggers and a cooperative
stop/continue/destroy lifecycle.

Worklist (pkg/worklist):
  - Bounded FIFO ring with independent head and tail locks
  - Blocking Add and Take with cooperative Stop
  - Saturation triggers that fire when all producers or consumers stall

Pool (pkg/pool):
  - Fixed worker count over a shared worklist
  - Soft and hard stop, barrier-gated Continue, Close
  - Panic recovery, per-task timeouts, Prometheus instrumentation
  - YAML/JSON file configuration

Scheduler (pkg/scheduler):
  - One-time, interval, and cron dispatch into a pool
  - Exponential-backoff task wrapper

Example usage:

	import "github.com/vnykmshr/gopool/pkg/pool"

	p, err := pool.New(4, 256) // 4 workers, queue 256
	if err != nil {
		log.Fatal(err)
	}

	p.Submit(pool.TaskFunc(func(ctx context.Context) error {
		return nil
	}))

	p.HardStop()
	p.Wait()
	p.Close()
*/
package gopool
