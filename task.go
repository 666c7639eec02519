package lieutenant

import "context"

// Task[T] is an in-flight fetch. It completes exactly once.
type Task[T any] struct {
	done   chan struct{}
	cancel context.CancelFunc
	result Result[T]
}

// Go starts fn on its own goroutine and returns the Task tracking it.
// Cancelling ctx, or the Task, cancels the context fn receives.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Task[T] {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task[T]{done: make(chan struct{}), cancel: cancel}
	go func() {
		defer close(t.done)
		defer cancel()
		v, err := fn(ctx)
		if err != nil {
			t.result = Err[T](err)
			return
		}
		t.result = OK(v)
	}()
	return t
}

// Done is closed when the task completes.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Cancel cancels the task's context. The task still completes, normally
// with the context error.
func (t *Task[T]) Cancel() {
	t.cancel()
}

// Wait blocks until the task completes and returns its result.
func (t *Task[T]) Wait() Result[T] {
	<-t.done
	return t.result
}

// Then runs fn with the task's result once it completes. Continuations run
// on their own goroutine; callers serialize state changes themselves.
func Then[T any](t *Task[T], fn func(Result[T])) {
	go func() {
		fn(t.Wait())
	}()
}
