package pool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/vnykmshr/gopool/pkg/worklist"
)

// worker is the main loop of a single pool worker: park while a stop is in
// effect, otherwise take a task from the worklist and execute it.
func (p *pool) worker(id int) {
	defer p.wg.Done()
	if h := p.config.OnWorkerStart; h != nil {
		h(id)
	}
	defer func() {
		if h := p.config.OnWorkerStop; h != nil {
			h(id)
		}
	}()

	for {
		p.mu.Lock()
		for p.stopRequested || p.closing {
			if p.closing {
				p.mu.Unlock()
				return
			}
			p.park()
		}
		p.mu.Unlock()

		item, err := p.list.Take()
		if err != nil {
			if errors.Is(err, worklist.ErrSaturated) {
				// Every worker stalled on an empty worklist and the
				// trigger did not stop the pool. Yield before re-polling.
				runtime.Gosched()
			}
			continue
		}
		p.executeTask(id, item)
	}
}

// park records this worker as stopped, waking Wait when it is the last one,
// then sleeps until Continue or Close releases it. On resume the worker
// crosses the gate barrier with its siblings before returning, so no worker
// polls the fresh worklist until every worker has observed the resume.
// Called with p.mu held; returns with p.mu held.
func (p *pool) park() {
	p.parked++
	if p.parked == p.config.Workers {
		p.quiesced.Broadcast()
	}
	for p.release == 0 && !p.closing {
		p.resume.Wait()
	}
	if p.closing {
		return
	}
	p.release--
	gate := p.gate
	p.mu.Unlock()

	gate.Done()
	gate.Wait()

	p.mu.Lock()
}

// executeTask executes a single task with panic recovery and the configured
// timeout.
func (p *pool) executeTask(id int, task Task) {
	start := time.Now()
	p.active.Add(1)
	var err error

	defer func() {
		if r := recover(); r != nil {
			if h := p.config.PanicHandler; h != nil {
				h(task, r)
			} else {
				err = fmt.Errorf("task panicked: %v\nStack trace:\n%s", r, debug.Stack())
			}
		}

		p.active.Add(-1)
		p.totalExecuted.Add(1)
		if h := p.config.OnTaskComplete; h != nil {
			h(id, task, err, time.Since(start))
		}
	}()

	ctx := context.Background()
	if p.config.TaskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.TaskTimeout)
		defer cancel()
	}

	err = task.Execute(ctx)
}
