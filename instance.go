package lieutenant

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/pthm/lieutenant/lib/markup"
	"github.com/pthm/lieutenant/lib/style"
)

// Instance is one mounted component. It owns the lifecycle state machine
// and the rendering scope:
//
//	Idle → LoadingStyles → LoadingContent → Ready
//	         ↓                  ↓             ↕ (nested loading)
//	       Error              Error         StashedLoading → Error
//
// Fetches run as Tasks. Their continuations take the instance lock, so
// transitions are applied one at a time, and they become no-ops once the
// instance is unmounted.
type Instance struct {
	id      string
	variant *Variant
	fetcher ResourceFetcher
	log     *zap.Logger
	opts    options

	mu        sync.Mutex
	state     State
	attrs     Attributes
	scope     *Scope
	indicator []*html.Node
	stashed   []*html.Node
	reason    error
	mounted   bool
	alive     bool
	readyRan  bool
	ctx       context.Context
	cancel    context.CancelFunc

	settled    chan struct{}
	settleOnce sync.Once
}

// NewInstance creates an Idle instance of v.
func NewInstance(v *Variant, opts ...Option) *Instance {
	o := newOptions(opts)
	id := uuid.NewString()
	return &Instance{
		id:      id,
		variant: v,
		fetcher: o.fetcher,
		log:     o.log.With(zap.String("instance", id), zap.String("element", v.Name())),
		opts:    o,
		scope:   newScope(),
		ctx:     context.Background(),
		cancel:  func() {},
		settled: make(chan struct{}),
	}
}

// Mount starts the lifecycle: it shows the loading indicator and issues
// the stylesheet fetch, then returns. ctx bounds every fetch and the
// OnReady hook.
//
// Zero loading dimensions fall back to the configured default. An instance
// mounts once; a second call returns ErrAlreadyMounted.
func (c *Instance) Mount(ctx context.Context, attrs Attributes) error {
	if attrs.Loading.IsZero() {
		attrs.Loading = c.opts.loading
	}
	if err := attrs.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.mounted {
		c.mu.Unlock()
		return ErrAlreadyMounted
	}
	c.mounted = true
	c.alive = true
	c.attrs = attrs
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.transition(LoadingStyles)
	c.showLoading(attrs.Loading)
	ictx := c.ctx
	c.mu.Unlock()

	styles := Go(ictx, func(ctx context.Context) (string, error) {
		return c.fetcher.Text(ctx, attrs.Styles)
	})
	Then(styles, c.onStylesFetched)
	return nil
}

// onStylesFetched adopts the stylesheet and issues the content fetch.
func (c *Instance) onStylesFetched(r Result[string]) {
	c.mu.Lock()
	if !c.alive {
		c.mu.Unlock()
		return
	}
	if !r.IsOK() {
		c.fail("styles", r.Err())
		c.mu.Unlock()
		return
	}

	sheet, err := style.Compile(r.Value())
	if err != nil {
		c.log.Warn("stylesheet adopted unparsed",
			zap.String("stage", "styles"),
			zap.String("styles", c.attrs.Styles),
			zap.Error(err),
		)
	}
	c.scope.Adopt(sheet)
	c.transition(LoadingContent)
	ctx, locator := c.ctx, c.attrs.Content
	c.mu.Unlock()

	content := Go(ctx, func(ctx context.Context) (string, error) {
		return c.fetcher.Text(ctx, locator)
	})
	Then(content, c.onContentFetched)
}

// onContentFetched swaps the loading indicator for the content and runs the
// hook.
func (c *Instance) onContentFetched(r Result[string]) {
	c.mu.Lock()
	if !c.alive {
		c.mu.Unlock()
		return
	}
	if !r.IsOK() {
		c.fail("content", r.Err())
		c.mu.Unlock()
		return
	}

	nodes, err := markup.Parse(r.Value())
	if err != nil {
		c.fail("content", &MalformedContentError{URL: c.attrs.Content, Reason: "unparsable markup", Err: err})
		c.mu.Unlock()
		return
	}
	c.clearIndicator()
	c.scope.Append(nodes...)
	c.transition(Ready)
	runHook := !c.readyRan
	c.readyRan = true
	ctx := c.ctx
	c.mu.Unlock()

	if runHook {
		c.runReady(ctx)
	}
	c.settle()
}

func (c *Instance) runReady(ctx context.Context) {
	hook := c.variant.Hook()
	if hook == nil {
		return
	}
	if err := c.callHook(ctx, hook); err != nil {
		c.mu.Lock()
		if c.alive && (c.state == Ready || c.state == StashedLoading) {
			c.fail("ready", err)
		}
		c.mu.Unlock()
	}
}

// callHook runs the hook, turning a panic into an error.
func (c *Instance) callHook(ctx context.Context, hook ReadyHook) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHookPanicked, r)
		}
	}()
	return hook.OnReady(ctx, c)
}

// EnterNestedLoading stashes the Ready output and shows a loading indicator
// of size d (the mount size when d is zero).
func (c *Instance) EnterNestedLoading(d Dimensions) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.alive {
		return ErrNotMounted
	}
	if c.state == StashedLoading {
		return ErrAlreadyStashed
	}
	if c.state != Ready {
		return fmt.Errorf("%w: state is %s", ErrNotReady, c.state)
	}
	if d.IsZero() {
		d = c.attrs.Loading
	}

	c.stashed = c.scope.Detach()
	c.showLoading(d)
	c.transition(StashedLoading)
	return nil
}

// ExitNestedLoading ends a nested detour. A nil result restores the stashed
// output node for node; OnReady does not run again. A non-nil result
// discards the stash and shows the error display.
func (c *Instance) ExitNestedLoading(result error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.alive {
		return ErrNotMounted
	}
	if c.state != StashedLoading {
		return ErrNotNested
	}
	if result != nil {
		c.fail("nested", result)
		return nil
	}

	c.clearIndicator()
	c.scope.Append(c.stashed...)
	c.stashed = nil
	c.transition(Ready)
	return nil
}

// Nested runs fn as a nested detour: it enters nested loading, waits for
// fn, and exits with fn's outcome. It returns fn's error, or the error that
// kept the detour from starting or finishing. Unmounting the instance
// cancels fn.
func (c *Instance) Nested(ctx context.Context, d Dimensions, fn func(ctx context.Context) error) error {
	if err := c.EnterNestedLoading(d); err != nil {
		return err
	}

	c.mu.Lock()
	lifetime := c.ctx
	c.mu.Unlock()

	task := Go(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	select {
	case <-task.Done():
	case <-lifetime.Done():
		task.Cancel()
	}
	err := task.Wait().Err()

	if exitErr := c.ExitNestedLoading(err); exitErr != nil {
		return exitErr
	}
	return err
}

// Update runs fn against the scope while the instance is Ready.
func (c *Instance) Update(fn func(s *Scope) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.alive {
		return ErrNotMounted
	}
	if c.state != Ready {
		return fmt.Errorf("%w: state is %s", ErrNotReady, c.state)
	}
	return fn(c.scope)
}

// Unmount releases the instance. In-flight fetches are cancelled and their
// completions ignored. The last output stays readable.
func (c *Instance) Unmount() {
	c.mu.Lock()
	if !c.alive {
		c.mu.Unlock()
		return
	}
	c.alive = false
	c.cancel()
	c.log.Debug("unmounted", zap.Stringer("state", c.state))
	c.mu.Unlock()

	c.settle()
}

// Wait blocks until the mount lifecycle settles: Ready with the hook
// returned, Error, or unmounted. It returns the state at that point.
func (c *Instance) Wait(ctx context.Context) (State, error) {
	select {
	case <-c.settled:
		return c.State(), nil
	case <-ctx.Done():
		return c.State(), ctx.Err()
	}
}

// Settled is closed when Wait would return.
func (c *Instance) Settled() <-chan struct{} {
	return c.settled
}

// ID returns the instance id used in logs.
func (c *Instance) ID() string {
	return c.id
}

// Variant returns the variant this instance was created from.
func (c *Instance) Variant() *Variant {
	return c.variant
}

// Attributes returns the attributes given to Mount.
func (c *Instance) Attributes() Attributes {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attrs
}

// Fetcher returns the fetcher hooks should use for extra resources.
func (c *Instance) Fetcher() ResourceFetcher {
	return c.fetcher
}

// Logger returns the instance logger.
func (c *Instance) Logger() *zap.Logger {
	return c.log
}

// State returns the current state.
func (c *Instance) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Mounted reports whether the instance is mounted and not yet unmounted.
func (c *Instance) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alive
}

// Err returns the reason the instance entered Error, or nil. The reason is
// for diagnostics; the error display only shows it with WithExposeReason.
func (c *Instance) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}

// Nodes returns the active top-level output nodes.
func (c *Instance) Nodes() []*html.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scope.Nodes()
}

// Stashed returns the stashed output, empty unless nested loading is in
// progress.
func (c *Instance) Stashed() []*html.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*html.Node(nil), c.stashed...)
}

// Stylesheets returns the stylesheets adopted by the scope.
func (c *Instance) Stylesheets() []*style.Sheet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scope.Stylesheets()
}

// HTML serializes the active output, without stylesheets.
func (c *Instance) HTML() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scope.HTML()
}

// Component renders the scope as a declarative shadow root, the stylesheets
// first. The output is captured when Component is called.
func (c *Instance) Component() templ.Component {
	var buf bytes.Buffer
	c.mu.Lock()
	err := c.scope.Render(&buf)
	c.mu.Unlock()

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<template shadowrootmode="open">`); err != nil {
			return err
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</template>`)
		return err
	})
}

// fail moves to Error. The reason goes to the log; the display gets the
// configured message. Caller holds c.mu.
func (c *Instance) fail(stage string, reason error) {
	c.reason = reason
	c.log.Error("component failed",
		zap.String("stage", stage),
		zap.Stringer("from", c.state),
		zap.Error(reason),
	)

	c.clearIndicator()
	c.scope.Detach()
	c.stashed = nil
	c.transition(Error)

	msg := c.opts.message
	if c.opts.exposeReason {
		msg = reason.Error()
	}
	c.scope.Append(c.renderView(c.variant.errorView(msg), msg)...)
	c.settle()
}

// Caller holds c.mu.
func (c *Instance) showLoading(d Dimensions) {
	c.indicator = c.renderView(c.variant.loading(d), "")
	c.scope.Append(c.indicator...)
}

// Caller holds c.mu.
func (c *Instance) clearIndicator() {
	c.scope.Remove(c.indicator...)
	c.indicator = nil
}

// Caller holds c.mu.
func (c *Instance) transition(to State) {
	c.log.Debug("transition", zap.Stringer("from", c.state), zap.Stringer("to", to))
	c.state = to
}

// renderView renders a view into nodes, falling back to a text node.
func (c *Instance) renderView(comp templ.Component, fallback string) []*html.Node {
	var buf bytes.Buffer
	if err := comp.Render(c.ctx, &buf); err == nil {
		if nodes, err := markup.Parse(buf.String()); err == nil {
			return nodes
		}
	} else {
		c.log.Warn("view render failed", zap.Error(err))
	}
	if fallback == "" {
		return nil
	}
	return []*html.Node{{Type: html.TextNode, Data: fallback}}
}

func (c *Instance) settle() {
	c.settleOnce.Do(func() {
		close(c.settled)
	})
}
