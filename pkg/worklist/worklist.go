package worklist

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	gperrors "github.com/vnykmshr/gopool/pkg/common/errors"
	"github.com/vnykmshr/gopool/pkg/common/validation"
)

// DefaultCapacity is used when New is called with capacity 0.
const DefaultCapacity = 4096

var (
	// ErrStopped indicates the worklist was stopped while the caller was
	// adding or waiting. The operation did not enqueue or dequeue anything.
	ErrStopped = errors.New("worklist: stopped")

	// ErrSaturated indicates every permitted thread on one side was blocked
	// at once and the operation was rejected instead of waiting further.
	ErrSaturated = errors.New("worklist: saturation limit reached")

	// ErrBusy indicates an MT-unsafe operation (Reset, Close) was attempted
	// while threads were still blocked inside the worklist.
	ErrBusy = errors.New("worklist: threads blocked inside the worklist")
)

// Attr configures the saturation policy of a Worklist.
//
// When Concurrency > 0 and that many threads are simultaneously blocked on
// one side, the side's trigger task runs exactly once per saturation episode
// and every blocked call on that side returns ErrSaturated instead of
// waiting further. Triggers run with no worklist locks held, so they may
// call Add, Take, or Stop on the same worklist.
type Attr struct {
	// Concurrency is the maximum number of threads allowed to be
	// simultaneously blocked on one side before the trigger fires.
	// 0 disables the saturation escape valve.
	Concurrency int

	// OnEmpty runs when Concurrency threads are blocked in Take at once.
	OnEmpty Task

	// OnFull runs when Concurrency threads are blocked in Add at once.
	OnFull Task
}

// Worklist is a fixed-capacity FIFO of tasks with blocking Add and Take.
//
// Head and tail are protected by independent locks so a concurrent Add and
// Take contend only when one side must observe the other's index. The ring
// keeps two sentinel slots, which lets fullness be tested from the tail side
// and emptiness from the head side without a shared counter.
type Worklist struct {
	headMu   sync.Mutex
	tailMu   sync.Mutex
	notEmpty *sync.Cond // paired with headMu
	notFull  *sync.Cond // paired with tailMu

	buf  []Task
	size int64 // ring size: requested capacity + 2 sentinel slots

	head atomic.Int64 // advanced by Take under headMu
	tail atomic.Int64 // advanced by Add under tailMu

	stopped atomic.Bool
	closed  atomic.Bool

	attr *Attr

	// Threads currently inside Add/Take past the entry lock. Incremented
	// before the full/empty predicate is evaluated so the opposite side's
	// wakeup handoff cannot miss a thread about to park.
	adding atomic.Int32
	taking atomic.Int32

	fullSat  bool // guarded by tailMu: full-side trigger fired this episode
	emptySat bool // guarded by headMu: empty-side trigger fired this episode
}

// New creates a Worklist holding up to capacity tasks. A capacity of 0
// selects DefaultCapacity. attr may be nil to disable saturation handling;
// a non-nil attr is copied.
func New(capacity int, attr *Attr) (*Worklist, error) {
	if err := validation.ValidateNonNegative("worklist", "capacity", capacity); err != nil {
		return nil, err
	}
	if capacity == 0 {
		capacity = DefaultCapacity
	}

	if attr != nil {
		if err := validation.ValidateNonNegative("worklist", "concurrency", attr.Concurrency); err != nil {
			return nil, err
		}
		if attr.Concurrency == 0 {
			attr = nil
		} else {
			cp := *attr
			attr = &cp
		}
	}

	wl := &Worklist{
		buf:  make([]Task, capacity+2),
		size: int64(capacity + 2),
		attr: attr,
	}
	wl.notEmpty = sync.NewCond(&wl.headMu)
	wl.notFull = sync.NewCond(&wl.tailMu)
	wl.tail.Store(1)
	return wl, nil
}

// full and empty inspect the ring via the sentinel-slot scheme. Each needs
// only a snapshot of the far side's index.
func (wl *Worklist) full() bool {
	return (wl.tail.Load()+1)%wl.size == wl.head.Load()
}

func (wl *Worklist) empty() bool {
	return (wl.head.Load()+1)%wl.size == wl.tail.Load()
}

// Add appends item, blocking while the worklist is full. It returns
// ErrStopped if the worklist is stopped before the item is enqueued, and
// ErrSaturated if the saturation limit is reached while waiting (the item
// is dropped and the caller is told, rather than blocking indefinitely).
func (wl *Worklist) Add(item Task) error {
	if item == nil {
		return validation.ValidateNotNil("worklist", "item", nil)
	}

	wl.tailMu.Lock()
	if wl.closed.Load() {
		wl.tailMu.Unlock()
		return gperrors.ErrClosed
	}
	if wl.stopped.Load() {
		// A stopped worklist accepts no new work, full or not.
		wl.tailMu.Unlock()
		return ErrStopped
	}

	wl.adding.Add(1)
	for wl.full() {
		if wl.stopped.Load() {
			wl.adding.Add(-1)
			wl.tailMu.Unlock()
			return ErrStopped
		}
		if wl.fullSat {
			wl.adding.Add(-1)
			wl.tailMu.Unlock()
			return ErrSaturated
		}
		if wl.attr != nil && int(wl.adding.Load()) >= wl.attr.Concurrency {
			// This registration saturated the producer side: fire the
			// trigger once, release the siblings, and reject the item.
			wl.adding.Add(-1)
			wl.fullSat = true
			trigger := wl.attr.OnFull
			wl.tailMu.Unlock()
			wl.notFull.Broadcast()
			if trigger != nil {
				_ = trigger.Execute(context.Background())
			}
			return ErrSaturated
		}
		wl.notFull.Wait()
	}
	wl.adding.Add(-1)
	wl.fullSat = false

	tail := wl.tail.Load()
	wl.buf[tail] = item
	wl.tail.Store((tail + 1) % wl.size)
	wl.tailMu.Unlock()

	wl.wakeTakers()
	return nil
}

// Take removes and returns the oldest item, blocking while the worklist is
// empty. On stop or saturation it returns (Noop, ErrStopped) or
// (Noop, ErrSaturated) respectively, so the result is always runnable.
func (wl *Worklist) Take() (Task, error) {
	wl.headMu.Lock()
	if wl.closed.Load() {
		wl.headMu.Unlock()
		return Noop, gperrors.ErrClosed
	}

	wl.taking.Add(1)
	for wl.empty() {
		if wl.stopped.Load() {
			wl.taking.Add(-1)
			wl.headMu.Unlock()
			return Noop, ErrStopped
		}
		if wl.emptySat {
			wl.taking.Add(-1)
			wl.headMu.Unlock()
			return Noop, ErrSaturated
		}
		if wl.attr != nil && int(wl.taking.Load()) >= wl.attr.Concurrency {
			wl.taking.Add(-1)
			wl.emptySat = true
			trigger := wl.attr.OnEmpty
			wl.headMu.Unlock()
			wl.notEmpty.Broadcast()
			if trigger != nil {
				_ = trigger.Execute(context.Background())
			}
			return Noop, ErrSaturated
		}
		wl.notEmpty.Wait()
	}
	wl.taking.Add(-1)
	wl.emptySat = false

	head := (wl.head.Load() + 1) % wl.size
	item := wl.buf[head]
	wl.buf[head] = nil
	wl.head.Store(head)
	wl.headMu.Unlock()

	wl.wakeAdders()
	return item, nil
}

// wakeTakers signals notEmpty after an Add. A consumer announces itself on
// wl.taking before evaluating the empty predicate, so if the count is
// non-zero the consumer is either parked already or still holds headMu; the
// lock handoff below delays the signal until it has parked.
func (wl *Worklist) wakeTakers() {
	if wl.taking.Load() > 0 {
		wl.headMu.Lock()
		wl.headMu.Unlock() //nolint:staticcheck // empty section: rendezvous only
	}
	wl.notEmpty.Signal()
}

// wakeAdders is the producer-side mirror of wakeTakers.
func (wl *Worklist) wakeAdders() {
	if wl.adding.Load() > 0 {
		wl.tailMu.Lock()
		wl.tailMu.Unlock() //nolint:staticcheck // empty section: rendezvous only
	}
	wl.notFull.Signal()
}

// Stop marks the worklist stopped and wakes every thread blocked in Add or
// Take. It is idempotent and does not affect items already dequeued. Both
// locks are taken so a thread between its stop check and its wait cannot
// miss the wakeup.
func (wl *Worklist) Stop() {
	wl.headMu.Lock()
	wl.tailMu.Lock()
	wl.stopped.Store(true)
	wl.tailMu.Unlock()
	wl.headMu.Unlock()
	wl.notFull.Broadcast()
	wl.notEmpty.Broadcast()
}

// Stopped reports whether Stop has been called since the last Reset.
func (wl *Worklist) Stopped() bool {
	return wl.stopped.Load()
}

// Reset clears the ring and status back to empty and not-stopped, keeping
// capacity and saturation policy. It is MT-unsafe by contract; if threads
// are still blocked inside the worklist it returns ErrBusy and changes
// nothing.
func (wl *Worklist) Reset() error {
	wl.headMu.Lock()
	wl.tailMu.Lock()
	defer wl.headMu.Unlock()
	defer wl.tailMu.Unlock()

	if wl.closed.Load() {
		return gperrors.ErrClosed
	}
	if wl.adding.Load() > 0 || wl.taking.Load() > 0 {
		return ErrBusy
	}

	for i := range wl.buf {
		wl.buf[i] = nil
	}
	wl.head.Store(0)
	wl.tail.Store(1)
	wl.stopped.Store(false)
	wl.fullSat = false
	wl.emptySat = false
	return nil
}

// Close releases the ring and policy. Further operations return ErrClosed.
// Like Reset it is MT-unsafe and refuses to run while threads are blocked
// inside the worklist.
func (wl *Worklist) Close() error {
	wl.headMu.Lock()
	wl.tailMu.Lock()
	defer wl.headMu.Unlock()
	defer wl.tailMu.Unlock()

	if wl.closed.Load() {
		return gperrors.ErrClosed
	}
	if wl.adding.Load() > 0 || wl.taking.Load() > 0 {
		return ErrBusy
	}

	wl.closed.Store(true)
	wl.buf = nil
	wl.attr = nil
	return nil
}

// SetAttr replaces the saturation policy. Like Reset it is MT-unsafe: it
// refuses to run while threads are blocked inside the worklist. A nil attr,
// or one with Concurrency 0, disables saturation handling.
func (wl *Worklist) SetAttr(attr *Attr) error {
	if attr != nil {
		if err := validation.ValidateNonNegative("worklist", "concurrency", attr.Concurrency); err != nil {
			return err
		}
		if attr.Concurrency == 0 {
			attr = nil
		} else {
			cp := *attr
			attr = &cp
		}
	}

	wl.headMu.Lock()
	wl.tailMu.Lock()
	defer wl.headMu.Unlock()
	defer wl.tailMu.Unlock()

	if wl.closed.Load() {
		return gperrors.ErrClosed
	}
	if wl.adding.Load() > 0 || wl.taking.Load() > 0 {
		return ErrBusy
	}

	wl.attr = attr
	return nil
}

// Len returns the number of items currently queued. The value is a snapshot
// and may be stale during concurrent operations.
func (wl *Worklist) Len() int {
	head := wl.head.Load()
	tail := wl.tail.Load()
	return int((tail - head - 1 + wl.size) % wl.size)
}

// Cap returns the maximum number of items the worklist can hold.
func (wl *Worklist) Cap() int {
	return int(wl.size) - 2
}

// Busy reports whether the worklist is at or above 90% occupancy. It is a
// racy hint, not a guarantee.
func (wl *Worklist) Busy() bool {
	return wl.Len()*10 >= wl.Cap()*9
}

// BlockedProducers returns the approximate number of threads currently
// inside Add waiting for space.
func (wl *Worklist) BlockedProducers() int {
	return int(wl.adding.Load())
}

// BlockedConsumers returns the approximate number of threads currently
// inside Take waiting for items.
func (wl *Worklist) BlockedConsumers() int {
	return int(wl.taking.Load())
}
