package pool

import (
	"sync"

	gperrors "github.com/vnykmshr/gopool/pkg/common/errors"
	"github.com/vnykmshr/gopool/pkg/worklist"
)

// Submit adds a task to the pool for execution. It delegates to the
// worklist, so it blocks while the worklist is full and returns
// worklist.ErrStopped after a stop or worklist.ErrSaturated when the
// producer side saturates.
func (p *pool) Submit(task Task) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return gperrors.ErrClosed
	}

	if err := p.list.Add(task); err != nil {
		return err
	}
	p.totalSubmitted.Add(1)
	return nil
}

// SoftStop requests every worker to park after its current task. It does
// not wake a worker blocked taking from an empty worklist; that worker only
// observes the request on its next loop iteration.
func (p *pool) SoftStop() {
	p.mu.Lock()
	p.stopRequested = true
	p.mu.Unlock()
}

// HardStop requests every worker to park and stops the worklist, so workers
// blocked in a take are woken immediately. A task already executing runs to
// completion.
func (p *pool) HardStop() {
	p.mu.Lock()
	p.stopRequested = true
	p.mu.Unlock()
	p.list.Stop()
}

// Wait blocks until every worker has parked. It is the only supported way
// to synchronize on full quiescence.
func (p *pool) Wait() {
	p.mu.Lock()
	for p.parked < p.config.Workers {
		p.quiesced.Wait()
	}
	p.mu.Unlock()
}

// Continue restarts a quiesced pool. The worklist is reset first, so any
// backlog left from before the stop is discarded; then exactly Workers
// parked workers are released through a fresh barrier.
func (p *pool) Continue() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return gperrors.ErrClosed
	}
	if p.parked != p.config.Workers {
		p.mu.Unlock()
		return ErrNotQuiesced
	}
	if err := p.list.Reset(); err != nil {
		p.mu.Unlock()
		return gperrors.NewOperationError("pool", "continue", err).
			WithContext("worklist reset")
	}

	p.stopRequested = false
	p.parked = 0
	p.release = p.config.Workers
	p.gate = &sync.WaitGroup{}
	p.gate.Add(p.config.Workers)
	p.mu.Unlock()

	p.resume.Broadcast()
	return nil
}

// Register installs saturation triggers on the underlying worklist, using
// the configured concurrency limit (or the worker count when unset). Only
// valid while the pool is quiesced.
func (p *pool) Register(onEmpty, onFull Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return gperrors.ErrClosed
	}
	if p.parked != p.config.Workers {
		return ErrNotQuiesced
	}

	if onEmpty == nil && onFull == nil {
		return p.list.SetAttr(nil)
	}

	concurrency := p.config.Workers
	if p.config.Attr != nil && p.config.Attr.Concurrency > 0 {
		concurrency = p.config.Attr.Concurrency
	}
	return p.list.SetAttr(&worklist.Attr{
		Concurrency: concurrency,
		OnEmpty:     onEmpty,
		OnFull:      onFull,
	})
}

// Close tears down a quiesced pool: every parked worker is released, sees
// the closing flag and exits, all workers are joined, and the worklist is
// closed. Calling Close twice returns ErrClosed.
func (p *pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return gperrors.ErrClosed
	}
	if p.parked != p.config.Workers {
		p.mu.Unlock()
		return ErrNotQuiesced
	}
	p.closed = true
	p.closing = true
	p.mu.Unlock()

	p.resume.Broadcast()
	p.wg.Wait()
	return p.list.Close()
}

// Size returns the number of workers in the pool.
func (p *pool) Size() int {
	return p.config.Workers
}

// QueueLen returns the current number of queued tasks.
func (p *pool) QueueLen() int {
	return p.list.Len()
}

// Busy reports whether the worklist is near capacity.
func (p *pool) Busy() bool {
	return p.list.Busy()
}

// ParkedWorkers returns the number of workers currently parked.
func (p *pool) ParkedWorkers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.parked
}

// ActiveWorkers returns the number of workers currently executing tasks.
func (p *pool) ActiveWorkers() int {
	return int(p.active.Load())
}

// TotalSubmitted returns the total number of tasks accepted by Submit.
func (p *pool) TotalSubmitted() int64 {
	return p.totalSubmitted.Load()
}

// TotalExecuted returns the total number of tasks executed.
func (p *pool) TotalExecuted() int64 {
	return p.totalExecuted.Load()
}
