package lieutenant

// Result[T] is the outcome of a fetch: a value or the reason it failed.
//
// Results are transient. A continuation consumes one as soon as its Task
// completes:
//
//	styles := Go(ctx, func(ctx context.Context) (string, error) {
//	    return fetcher.Text(ctx, attrs.Styles)
//	})
//	Then(styles, func(r Result[string]) {
//	    if !r.IsOK() {
//	        log.Println(r.Err())
//	    }
//	})
type Result[T any] struct {
	value T
	err   error
}

// OK creates a successful result.
func OK[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Err creates a failed result.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// IsOK reports whether the result carries a value.
func (r Result[T]) IsOK() bool {
	return r.err == nil
}

// Value returns the value (the zero value on failure).
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the failure reason, or nil.
func (r Result[T]) Err() error {
	return r.err
}

// Get returns value and error in Go's usual form.
func (r Result[T]) Get() (T, error) {
	return r.value, r.err
}
