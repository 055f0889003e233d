package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	gperrors "github.com/vnykmshr/gopool/pkg/common/errors"
	"github.com/vnykmshr/gopool/pkg/common/validation"
	"github.com/vnykmshr/gopool/pkg/pool"
)

// Entry describes a scheduled task.
type Entry struct {
	ID       string
	RunAt    time.Time
	Interval time.Duration // Zero for one-time tasks
	Created  time.Time
}

// Scheduler dispatches tasks to a worker pool at scheduled times.
type Scheduler interface {
	// Basic scheduling
	Schedule(id string, task pool.Task, runAt time.Time) error
	ScheduleAfter(id string, task pool.Task, delay time.Duration) error
	ScheduleRepeating(id string, task pool.Task, interval time.Duration) error

	// Cron scheduling
	ScheduleCron(id string, cronExpr string, task pool.Task) error

	// Entry management
	Cancel(id string) bool
	CancelAll()
	List() []Entry

	// Lifecycle
	Start() error
	Stop() <-chan struct{}
}

// NewEntryID returns a fresh unique entry ID for callers that do not care
// about the name.
func NewEntryID() string {
	return uuid.NewString()
}

// BackoffTask wraps a task with exponential-backoff retries.
type BackoffTask struct {
	Task         pool.Task
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// Execute implements pool.Task, retrying with doubled delays up to MaxDelay.
func (bt BackoffTask) Execute(ctx context.Context) error {
	var lastErr error
	delay := bt.InitialDelay

	for attempt := 0; attempt <= bt.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = bt.Task.Execute(ctx)
		if lastErr == nil {
			return nil
		}

		delay *= 2
		if delay > bt.MaxDelay {
			delay = bt.MaxDelay
		}
	}

	return lastErr
}

// Config holds scheduler configuration.
type Config struct {
	Pool         pool.Pool      // Target pool; nil creates an owned 4-worker pool
	Location     *time.Location // For cron scheduling
	TickInterval time.Duration  // How often to check for ready tasks (default: 50ms)
	MaxEntries   int            // Maximum number of scheduled entries (default: 10000)
}

type scheduledEntry struct {
	id           string
	task         pool.Task
	runAt        time.Time
	interval     time.Duration
	cronSchedule cron.Schedule
	created      time.Time
}

type scheduler struct {
	pool         pool.Pool
	ownPool      bool
	location     *time.Location
	tickInterval time.Duration
	maxEntries   int
	cronParser   cron.Parser

	mu      sync.RWMutex
	entries map[string]*scheduledEntry
	ticker  *time.Ticker
	done    chan struct{}
	running bool
}

// New creates a scheduler with default configuration.
func New() (Scheduler, error) {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a scheduler with custom configuration.
func NewWithConfig(cfg Config) (Scheduler, error) {
	p := cfg.Pool
	ownPool := false
	if p == nil {
		var err error
		p, err = pool.New(4, 100)
		if err != nil {
			return nil, err
		}
		ownPool = true
	}

	location := cfg.Location
	if location == nil {
		location = time.Local
	}

	tickInterval := cfg.TickInterval
	if tickInterval <= 0 {
		tickInterval = 50 * time.Millisecond
	}

	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 10000
	}

	return &scheduler{
		pool:         p,
		ownPool:      ownPool,
		location:     location,
		tickInterval: tickInterval,
		maxEntries:   maxEntries,
		cronParser:   cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
		entries:      make(map[string]*scheduledEntry),
		done:         make(chan struct{}),
	}, nil
}

func (s *scheduler) validate(id string, task pool.Task) error {
	if err := validation.ValidateNotEmpty("scheduler", "id", id); err != nil {
		return err
	}
	if len(id) > 255 {
		return fmt.Errorf("entry ID too long (max 255 characters)")
	}
	return validation.ValidateNotNil("scheduler", "task", task)
}

// insert adds an entry under the lock, enforcing uniqueness and the entry
// cap.
func (s *scheduler) insert(e *scheduledEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[e.id]; exists {
		return fmt.Errorf("entry %q already exists, cancel it first", e.id)
	}
	if len(s.entries) >= s.maxEntries {
		return fmt.Errorf("cannot schedule entry: %w (max %d)", gperrors.ErrCapacityExceeded, s.maxEntries)
	}

	s.entries[e.id] = e
	return nil
}

func (s *scheduler) Schedule(id string, task pool.Task, runAt time.Time) error {
	if err := s.validate(id, task); err != nil {
		return err
	}
	if runAt.IsZero() {
		return fmt.Errorf("entry run time cannot be zero")
	}

	return s.insert(&scheduledEntry{
		id:      id,
		task:    task,
		runAt:   runAt,
		created: time.Now(),
	})
}

func (s *scheduler) ScheduleAfter(id string, task pool.Task, delay time.Duration) error {
	return s.Schedule(id, task, time.Now().Add(delay))
}

func (s *scheduler) ScheduleRepeating(id string, task pool.Task, interval time.Duration) error {
	if err := s.validate(id, task); err != nil {
		return err
	}
	if err := validation.ValidatePositive("scheduler", "interval", int(interval)); err != nil {
		return err
	}

	return s.insert(&scheduledEntry{
		id:       id,
		task:     task,
		runAt:    time.Now(),
		interval: interval,
		created:  time.Now(),
	})
}

func (s *scheduler) ScheduleCron(id string, cronExpr string, task pool.Task) error {
	if err := s.validate(id, task); err != nil {
		return err
	}
	if cronExpr == "" {
		return fmt.Errorf("cron expression cannot be empty")
	}

	schedule, err := s.cronParser.Parse(cronExpr)
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	now := time.Now().In(s.location)
	return s.insert(&scheduledEntry{
		id:           id,
		task:         task,
		runAt:        schedule.Next(now),
		cronSchedule: schedule,
		created:      time.Now(),
	})
}

func (s *scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; exists {
		delete(s.entries, id)
		return true
	}
	return false
}

func (s *scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*scheduledEntry)
}

func (s *scheduler) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, Entry{
			ID:       e.id,
			RunAt:    e.runAt,
			Interval: e.interval,
			Created:  e.created,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RunAt.Before(entries[j].RunAt)
	})

	return entries
}

func (s *scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running, call Stop() first")
	}

	s.running = true
	s.ticker = time.NewTicker(s.tickInterval)

	go s.run()
	return nil
}

// Stop halts dispatching. The returned channel closes once the run loop has
// exited and, for an owned pool, the pool is quiesced and closed.
func (s *scheduler) Stop() <-chan struct{} {
	s.mu.Lock()
	if s.running {
		s.running = false
		close(s.done)
		if s.ticker != nil {
			s.ticker.Stop()
		}
	}
	s.mu.Unlock()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if s.ownPool {
			s.pool.HardStop()
			s.pool.Wait()
			_ = s.pool.Close()
		}
	}()

	return stopped
}

func (s *scheduler) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.ticker.C:
			s.dispatchReady()
		}
	}
}

// dispatchReady submits every due entry to the pool and reschedules
// repeating and cron entries.
func (s *scheduler) dispatchReady() {
	now := time.Now()

	s.mu.Lock()
	if len(s.entries) == 0 {
		s.mu.Unlock()
		return
	}

	ready := make([]*scheduledEntry, 0, len(s.entries))
	for id, e := range s.entries {
		if now.Before(e.runAt) {
			continue
		}
		ready = append(ready, e)

		switch {
		case e.interval > 0:
			e.runAt = now.Add(e.interval)
		case e.cronSchedule != nil:
			e.runAt = e.cronSchedule.Next(now.In(s.location))
		default:
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()

	for _, e := range ready {
		// A stopped or saturated pool drops the dispatch; repeating
		// entries get another chance on their next tick.
		_ = s.pool.Submit(e.task)
	}
}
