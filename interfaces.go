package lieutenant

import (
	"context"

	"github.com/a-h/templ"

	"github.com/pthm/lieutenant/lib/fetch"
)

// ResourceFetcher retrieves the resources an instance and its hooks need.
// *fetch.Client is the network implementation; StaticFetcher serves tests.
//
// Every failure must be a TransportError, HTTPStatusError or
// MalformedContentError so the controller can treat them uniformly.
type ResourceFetcher interface {
	Text(ctx context.Context, locator string) (string, error)
	JSON(ctx context.Context, locator string, v any) error
	Form(ctx context.Context, locator string) (fetch.Form, error)
}

// ReadyHook is implemented by variants that do follow-on work once their
// content is in place: fetching a data resource to fill fields, loading a
// sub-form, and so on.
//
// OnReady runs exactly once per mount, after the stylesheet and content are
// both applied and the instance is Ready. It runs outside the controller
// lock, so it may call Nested, Update, EnterNestedLoading and
// ExitNestedLoading on inst.
//
//	func (c *Card) OnReady(ctx context.Context, inst *lieutenant.Instance) error {
//	    var data map[string]any
//	    err := inst.Nested(ctx, inst.Attributes().Loading, func(ctx context.Context) error {
//	        return inst.Fetcher().JSON(ctx, inst.Attributes().Data, &data)
//	    })
//	    if err != nil {
//	        return nil // the instance already shows the error display
//	    }
//	    return inst.Update(func(s *lieutenant.Scope) error { ... })
//	}
//
// A non-nil error moves an instance that is still Ready to Error.
type ReadyHook interface {
	OnReady(ctx context.Context, inst *Instance) error
}

// ReadyFunc adapts a function to ReadyHook.
type ReadyFunc func(ctx context.Context, inst *Instance) error

// OnReady calls f.
func (f ReadyFunc) OnReady(ctx context.Context, inst *Instance) error {
	return f(ctx, inst)
}

// LoadingView renders a loading indicator of the given size.
type LoadingView func(d Dimensions) templ.Component

// ErrorView renders the error display with the given message.
type ErrorView func(message string) templ.Component

var _ ResourceFetcher = (*fetch.Client)(nil)
