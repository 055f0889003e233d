package pool

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vnykmshr/gopool/pkg/common/validation"
	"github.com/vnykmshr/gopool/pkg/worklist"
)

// Task is the unit of work executed by the pool's workers.
type Task = worklist.Task

// TaskFunc adapts a function to the Task interface.
type TaskFunc = worklist.TaskFunc

// Noop is the distinguished no-op task shared with the worklist.
var Noop = worklist.Noop

// ErrNotQuiesced indicates a lifecycle operation that requires every worker
// to be parked (Continue, Register, Close) was called while workers were
// still running. Stop the pool and call Wait first.
var ErrNotQuiesced = errors.New("pool: workers not quiesced")

// Pool is a fixed-size worker pool over a bounded worklist. Workers loop
// taking tasks and executing them until stopped as a group; a stopped pool
// can be resumed with Continue or torn down with Close.
type Pool interface {
	// Submit adds a task for execution. It may be called by the owner or
	// from inside a running task. It blocks while the worklist is full and
	// returns worklist.ErrStopped or worklist.ErrSaturated on rejection.
	Submit(task Task) error

	// SoftStop asks every worker to finish its current task and park.
	// A worker already blocked taking from an empty worklist is NOT woken;
	// it only notices the request once a task or a stop reaches it.
	SoftStop()

	// HardStop asks every worker to park and stops the worklist, waking
	// workers blocked in a take. A task already executing is not interrupted.
	HardStop()

	// Wait blocks until every worker has parked. It returns immediately if
	// the pool is already quiesced.
	Wait()

	// Continue restarts a quiesced pool: the worklist is reset (discarding
	// any backlog), the stop request is cleared, and all workers cross a
	// barrier together before any of them takes a new task.
	Continue() error

	// Register installs saturation trigger tasks on the underlying
	// worklist. Only valid while the pool is quiesced.
	Register(onEmpty, onFull Task) error

	// Close tears down a quiesced pool: workers exit and are joined, then
	// the worklist is closed. A second Close returns ErrClosed.
	Close() error

	// Size returns the number of workers in the pool.
	Size() int

	// QueueLen returns the number of tasks currently queued.
	QueueLen() int

	// Busy reports whether the worklist is near capacity. Racy hint.
	Busy() bool

	// ParkedWorkers returns the number of workers currently parked.
	ParkedWorkers() int

	// ActiveWorkers returns the number of workers currently executing tasks.
	ActiveWorkers() int

	// TotalSubmitted returns the total number of tasks accepted by Submit.
	TotalSubmitted() int64

	// TotalExecuted returns the total number of tasks executed.
	TotalExecuted() int64
}

// Config holds configuration options for creating a pool.
type Config struct {
	// Workers is the number of worker goroutines. Must be >= 0.
	Workers int

	// QueueSize is the worklist capacity. 0 selects the worklist default.
	QueueSize int

	// Attr is the saturation policy passed to the worklist. A Concurrency
	// of 0 is replaced by Workers, so "all workers stalled" is the default
	// trigger condition.
	Attr *worklist.Attr

	// TaskTimeout bounds individual task execution. Zero means no timeout.
	TaskTimeout time.Duration

	// PanicHandler is called when a task panics. If nil, panics are
	// recovered and reported through OnTaskComplete as errors.
	PanicHandler func(task Task, recovered interface{})

	// OnWorkerStart is called when a worker starts.
	// Useful for per-worker initialization.
	OnWorkerStart func(workerID int)

	// OnWorkerStop is called when a worker exits.
	OnWorkerStop func(workerID int)

	// OnTaskComplete is called after each task finishes, with the error it
	// returned (or the recovered panic, wrapped) and its duration.
	OnTaskComplete func(workerID int, task Task, err error, duration time.Duration)
}

// pool implements the Pool interface.
type pool struct {
	config Config
	list   *worklist.Worklist

	mu            sync.Mutex
	quiesced      *sync.Cond // signaled when the last worker parks
	resume        *sync.Cond // parked workers wait here
	parked        int
	release       int // parked workers authorized to resume
	stopRequested bool
	closing       bool
	closed        bool
	gate          *sync.WaitGroup // resume barrier, fresh per Continue

	wg             sync.WaitGroup
	active         atomic.Int32
	totalSubmitted atomic.Int64
	totalExecuted  atomic.Int64
}

// New creates a pool with the given worker count and worklist capacity.
func New(workers, queueSize int) (Pool, error) {
	return NewWithConfig(Config{
		Workers:   workers,
		QueueSize: queueSize,
	})
}

// NewWithConfig creates a pool with the specified configuration. All workers
// are spawned before New returns; on error no resources are left behind.
func NewWithConfig(config Config) (Pool, error) {
	if err := validation.ValidateNonNegative("pool", "workers", config.Workers); err != nil {
		return nil, err
	}
	if err := validation.ValidateNonNegative("pool", "queueSize", config.QueueSize); err != nil {
		return nil, err
	}

	attr := config.Attr
	if attr != nil {
		cp := *attr
		if cp.Concurrency == 0 {
			cp.Concurrency = config.Workers
		}
		attr = &cp
	}

	list, err := worklist.New(config.QueueSize, attr)
	if err != nil {
		return nil, err
	}

	p := &pool{
		config: config,
		list:   list,
	}
	p.quiesced = sync.NewCond(&p.mu)
	p.resume = sync.NewCond(&p.mu)

	for i := 0; i < config.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	return p, nil
}
