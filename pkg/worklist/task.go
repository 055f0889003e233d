package worklist

import "context"

// Task represents a unit of work that can be scheduled on a Worklist.
type Task interface {
	// Execute runs the task with the given context.
	// It should respect context cancellation and return any error encountered.
	Execute(ctx context.Context) error
}

// TaskFunc is a function type that implements the Task interface.
type TaskFunc func(ctx context.Context) error

// Execute implements the Task interface for TaskFunc.
func (f TaskFunc) Execute(ctx context.Context) error {
	return f(ctx)
}

// Noop is the distinguished no-op task. Take returns it in place of a real
// item when the worklist is stopped or saturated, so callers always receive
// a runnable task value.
var Noop Task = noopTask{}

type noopTask struct{}

func (noopTask) Execute(context.Context) error { return nil }
