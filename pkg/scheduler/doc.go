/*
Package scheduler dispatches tasks to a pool.Pool at scheduled times.

Entries are one-time (Schedule, ScheduleAfter), fixed-interval
(ScheduleRepeating), or cron-based (ScheduleCron, six-field expressions with
seconds). A single run loop ticks at a configurable interval, submits due
entries to the pool, and reschedules repeating ones. Execution itself
happens on the pool's workers, so a slow task never delays the tick.

	s, err := scheduler.New()
	if err != nil {
		log.Fatal(err)
	}
	s.Start()

	s.ScheduleRepeating(scheduler.NewEntryID(), pool.TaskFunc(func(ctx context.Context) error {
		// Periodic work
		return nil
	}), time.Minute)

	<-s.Stop()

With Config.Pool the scheduler shares an existing pool and leaves its
lifecycle to the caller; otherwise it owns a small pool and tears it down on
Stop. BackoffTask wraps any task with exponential-backoff retries.
*/
package scheduler
