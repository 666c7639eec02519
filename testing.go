package lieutenant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/pthm/lieutenant/lib/fetch"
)

// StaticFetcher is an in-memory ResourceFetcher for tests.
//
// Resources are served by locator. Unknown locators fail with
// HTTPStatusError(404), like a real server would:
//
//	f := lieutenant.NewStaticFetcher().
//	    Serve("theme.css", "span { font-weight: 800 }").
//	    Serve("card.html", "<h1>Hello</h1>").
//	    Status("data.json", http.StatusInternalServerError)
//
// Every request is recorded in order, so tests can assert that a fetch
// was never issued.
type StaticFetcher struct {
	mu        sync.Mutex
	resources map[string]string
	failures  map[string]error
	gates     map[string]chan struct{}
	calls     []string
}

// NewStaticFetcher creates an empty StaticFetcher.
func NewStaticFetcher() *StaticFetcher {
	return &StaticFetcher{
		resources: make(map[string]string),
		failures:  make(map[string]error),
		gates:     make(map[string]chan struct{}),
	}
}

// Serve makes locator return body.
func (f *StaticFetcher) Serve(locator, body string) *StaticFetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resources[locator] = body
	delete(f.failures, locator)
	return f
}

// Fail makes locator return err.
func (f *StaticFetcher) Fail(locator string, err error) *StaticFetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[locator] = err
	return f
}

// Status makes locator answer with a non-success HTTP status.
func (f *StaticFetcher) Status(locator string, code int) *StaticFetcher {
	return f.Fail(locator, &HTTPStatusError{URL: locator, Code: code})
}

// Hold blocks requests for locator until the returned function is called
// or the request context ends. Use it to observe in-between states.
func (f *StaticFetcher) Hold(locator string) (release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.gates[locator] = gate
	var once sync.Once
	return func() {
		once.Do(func() { close(gate) })
	}
}

// Calls returns the requested locators in order.
func (f *StaticFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Fetched reports whether locator was requested.
func (f *StaticFetcher) Fetched(locator string) bool {
	for _, c := range f.Calls() {
		if c == locator {
			return true
		}
	}
	return false
}

// Text implements ResourceFetcher.
func (f *StaticFetcher) Text(ctx context.Context, locator string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, locator)
	gate := f.gates[locator]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", &TransportError{URL: locator, Err: ctx.Err()}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failures[locator]; ok {
		return "", err
	}
	body, ok := f.resources[locator]
	if !ok {
		return "", &HTTPStatusError{URL: locator, Code: http.StatusNotFound}
	}
	return body, nil
}

// JSON implements ResourceFetcher.
func (f *StaticFetcher) JSON(ctx context.Context, locator string, v any) error {
	body, err := f.Text(ctx, locator)
	if err != nil {
		return err
	}
	return fetch.DecodeJSON(locator, []byte(body), v)
}

// Form implements ResourceFetcher.
func (f *StaticFetcher) Form(ctx context.Context, locator string) (fetch.Form, error) {
	body, err := f.Text(ctx, locator)
	if err != nil {
		return fetch.Form{}, err
	}
	return fetch.ParseForm(locator, body)
}

// TestResult holds the settled outcome of mounting an instance in a test.
type TestResult struct {
	Instance *Instance
	State    State
	HTML     string
	Reason   error
}

// TestMount mounts v with attrs against f, waits up to five seconds for the
// lifecycle to settle and returns the outcome. The instance stays mounted;
// tests may continue with nested loading on result.Instance.
//
//	result, err := lieutenant.TestMount(card, attrs, f)
//	if !result.IsReady() || !result.HTMLContains("Hello") {
//	    t.Fatal(result.HTML)
//	}
func TestMount(v *Variant, attrs Attributes, f ResourceFetcher, opts ...Option) (*TestResult, error) {
	return TestMountWithContext(context.Background(), v, attrs, f, opts...)
}

// TestMountWithContext is TestMount with a caller-supplied context.
func TestMountWithContext(ctx context.Context, v *Variant, attrs Attributes, f ResourceFetcher, opts ...Option) (*TestResult, error) {
	inst := NewInstance(v, append(append([]Option(nil), opts...), WithFetcher(f))...)
	if err := inst.Mount(ctx, attrs); err != nil {
		return nil, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	state, err := inst.Wait(waitCtx)
	if err != nil {
		return nil, err
	}

	return &TestResult{
		Instance: inst,
		State:    state,
		HTML:     inst.HTML(),
		Reason:   inst.Err(),
	}, nil
}

// TestGet requests the registry handler for the named element. htmx marks
// the request as coming from htmx.
func TestGet(reg *Registry, name string, attrs Attributes, htmx bool) (*httptest.ResponseRecorder, error) {
	u, err := reg.URL(name, attrs)
	if err != nil {
		return nil, err
	}
	req := httptest.NewRequest(http.MethodGet, u, nil)
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, req)
	return rec, nil
}

// IsReady reports whether the instance settled in Ready.
func (r *TestResult) IsReady() bool {
	return r.State == Ready
}

// IsError reports whether the instance settled in Error.
func (r *TestResult) IsError() bool {
	return r.State == Error
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}
