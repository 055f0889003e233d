/*
Package worklist implements a bounded concurrent FIFO of tasks with blocking
producers and consumers, cooperative stop, and saturation triggers.

The worklist is a fixed-capacity ring guarded by independent head and tail
locks, so a concurrent Add and Take mostly proceed in parallel. Two sentinel
slots let each side test fullness or emptiness against a snapshot of the
other side's index without a shared counter.

Basic usage:

	wl, err := worklist.New(128, nil)
	if err != nil {
		log.Fatal(err)
	}

	wl.Add(worklist.TaskFunc(func(ctx context.Context) error {
		// Do work
		return nil
	}))

	task, err := wl.Take() // blocks until an item or a stop arrives
	if err == nil {
		task.Execute(context.Background())
	}

Stop wakes every blocked thread: Add returns ErrStopped, Take returns the
Noop task with ErrStopped. Reset rearms a stopped worklist; both Reset and
Close must only run once no thread is blocked inside the worklist.

Saturation triggers:

An Attr attaches a concurrency limit and per-side trigger tasks. When the
configured number of threads is simultaneously blocked on one side, the
thread whose arrival reaches the limit runs the side's trigger exactly once
per saturation episode and every blocked call on that side returns
ErrSaturated instead of waiting forever:

	attr := &worklist.Attr{
		Concurrency: 4,
		OnEmpty: worklist.TaskFunc(func(ctx context.Context) error {
			log.Print("all consumers stalled on an empty worklist")
			return nil
		}),
	}
	wl, err := worklist.New(128, attr)

Triggers run with no worklist locks held, so a trigger may call Add, Take,
or Stop on the same worklist without deadlocking.
*/
package worklist
