package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vnykmshr/gopool/internal/testutil"
	gperrors "github.com/vnykmshr/gopool/pkg/common/errors"
	"github.com/vnykmshr/gopool/pkg/pool"
)

func newTestScheduler(t *testing.T) Scheduler {
	t.Helper()
	s, err := NewWithConfig(Config{TickInterval: 5 * time.Millisecond})
	testutil.AssertNoError(t, err)
	return s
}

func TestScheduleValidation(t *testing.T) {
	s := newTestScheduler(t)
	defer func() { <-s.Stop() }()

	future := time.Now().Add(time.Hour)

	testutil.AssertError(t, s.Schedule("", pool.Noop, future))
	testutil.AssertError(t, s.Schedule("a", nil, future))
	testutil.AssertError(t, s.Schedule("a", pool.Noop, time.Time{}))
	testutil.AssertError(t, s.ScheduleRepeating("a", pool.Noop, 0))
	testutil.AssertError(t, s.ScheduleCron("a", "", pool.Noop))
	testutil.AssertError(t, s.ScheduleCron("a", "not a cron expr", pool.Noop))

	testutil.AssertNoError(t, s.Schedule("a", pool.Noop, future))
	testutil.AssertError(t, s.Schedule("a", pool.Noop, future)) // duplicate
}

func TestScheduleAfterRuns(t *testing.T) {
	s := newTestScheduler(t)
	testutil.AssertNoError(t, s.Start())

	var counter atomic.Int64
	testutil.AssertNoError(t, s.ScheduleAfter(NewEntryID(), pool.TaskFunc(func(ctx context.Context) error {
		counter.Add(1)
		return nil
	}), 10*time.Millisecond))

	testutil.Eventually(t, testutil.TestTimeout, func() bool {
		return counter.Load() == 1
	})

	// One-time entries are removed after dispatch.
	testutil.Eventually(t, testutil.TestTimeout, func() bool {
		return len(s.List()) == 0
	})

	<-s.Stop()
}

func TestScheduleRepeating(t *testing.T) {
	s := newTestScheduler(t)
	testutil.AssertNoError(t, s.Start())

	var counter atomic.Int64
	id := NewEntryID()
	testutil.AssertNoError(t, s.ScheduleRepeating(id, pool.TaskFunc(func(ctx context.Context) error {
		counter.Add(1)
		return nil
	}), 10*time.Millisecond))

	testutil.Eventually(t, testutil.TestTimeout, func() bool {
		return counter.Load() >= 2
	})

	testutil.AssertEqual(t, s.Cancel(id), true)
	testutil.AssertEqual(t, s.Cancel(id), false)

	<-s.Stop()
}

func TestScheduleCron(t *testing.T) {
	s := newTestScheduler(t)
	defer func() { <-s.Stop() }()

	testutil.AssertNoError(t, s.ScheduleCron("tick", "0 0 * * * *", pool.Noop))

	entries := s.List()
	testutil.AssertEqual(t, len(entries), 1)
	testutil.AssertEqual(t, entries[0].ID, "tick")
	if !entries[0].RunAt.After(time.Now()) {
		t.Fatalf("cron entry runAt = %v, want in the future", entries[0].RunAt)
	}
}

func TestListSortedAndCancelAll(t *testing.T) {
	s := newTestScheduler(t)
	defer func() { <-s.Stop() }()

	now := time.Now()
	testutil.AssertNoError(t, s.Schedule("late", pool.Noop, now.Add(2*time.Hour)))
	testutil.AssertNoError(t, s.Schedule("early", pool.Noop, now.Add(time.Hour)))

	entries := s.List()
	testutil.AssertEqual(t, len(entries), 2)
	testutil.AssertEqual(t, entries[0].ID, "early")
	testutil.AssertEqual(t, entries[1].ID, "late")

	s.CancelAll()
	testutil.AssertEqual(t, len(s.List()), 0)
}

func TestMaxEntries(t *testing.T) {
	s, err := NewWithConfig(Config{MaxEntries: 1, TickInterval: 5 * time.Millisecond})
	testutil.AssertNoError(t, err)
	defer func() { <-s.Stop() }()

	future := time.Now().Add(time.Hour)
	testutil.AssertNoError(t, s.Schedule("a", pool.Noop, future))

	err = s.Schedule("b", pool.Noop, future)
	testutil.AssertEqual(t, errors.Is(err, gperrors.ErrCapacityExceeded), true)
}

func TestStartTwice(t *testing.T) {
	s := newTestScheduler(t)
	testutil.AssertNoError(t, s.Start())
	testutil.AssertError(t, s.Start())
	<-s.Stop()
}

func TestSharedPoolSurvivesStop(t *testing.T) {
	p, err := pool.New(2, 16)
	testutil.AssertNoError(t, err)

	s, err := NewWithConfig(Config{Pool: p, TickInterval: 5 * time.Millisecond})
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, s.Start())

	var counter atomic.Int64
	testutil.AssertNoError(t, s.ScheduleAfter("task", pool.TaskFunc(func(ctx context.Context) error {
		counter.Add(1)
		return nil
	}), time.Millisecond))

	testutil.Eventually(t, testutil.TestTimeout, func() bool {
		return counter.Load() == 1
	})
	<-s.Stop()

	// The caller's pool is untouched by scheduler shutdown.
	testutil.AssertNoError(t, p.Submit(pool.Noop))
	p.HardStop()
	p.Wait()
	testutil.AssertNoError(t, p.Close())
}

func TestBackoffTask(t *testing.T) {
	var attempts atomic.Int64
	task := BackoffTask{
		Task: pool.TaskFunc(func(ctx context.Context) error {
			if attempts.Add(1) < 3 {
				return errors.New("transient")
			}
			return nil
		}),
		MaxRetries:   5,
		InitialDelay: time.Millisecond,
		MaxDelay:     10 * time.Millisecond,
	}

	testutil.AssertNoError(t, task.Execute(context.Background()))
	testutil.AssertEqual(t, attempts.Load(), int64(3))
}

func TestBackoffTaskExhausted(t *testing.T) {
	sentinel := errors.New("permanent")
	var attempts atomic.Int64
	task := BackoffTask{
		Task: pool.TaskFunc(func(ctx context.Context) error {
			attempts.Add(1)
			return sentinel
		}),
		MaxRetries:   2,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
	}

	err := task.Execute(context.Background())
	testutil.AssertEqual(t, errors.Is(err, sentinel), true)
	testutil.AssertEqual(t, attempts.Load(), int64(3))
}
