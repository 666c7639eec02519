package lieutenant

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/pthm/lieutenant/lib/encoding"
)

// Registry holds the defined component variants and serves their instances
// over HTTP.
type Registry struct {
	mu       sync.RWMutex
	variants map[string]*Variant
	encoder  *encoding.Encoder
	opts     []Option
	o        options

	// OnError is called when a request cannot be served.
	// Customize this to handle errors appropriately for your application.
	OnError func(http.ResponseWriter, *http.Request, error)
}

// NewRegistry creates a registry. key signs (or encrypts) the attribute
// tokens carried in element URLs. opts apply to every instance the
// registry creates.
func NewRegistry(key []byte, opts ...Option) *Registry {
	enc, err := encoding.NewEncoder(key)
	if err != nil {
		panic(fmt.Sprintf("lieutenant: failed to create encoder: %v", err))
	}

	reg := &Registry{
		variants: make(map[string]*Variant),
		encoder:  enc,
		opts:     opts,
		o:        newOptions(opts),
	}

	reg.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
		switch {
		case errors.Is(err, ErrUnknownElement):
			http.Error(w, "Not found", http.StatusNotFound)
		case IsTokenError(err), errors.Is(err, ErrInvalidAttributes):
			http.Error(w, "Bad request", http.StatusBadRequest)
		default:
			http.Error(w, "Internal error", http.StatusInternalServerError)
		}
	}

	return reg
}

// Define registers variants. It panics on an invalid element name or a
// name that is already defined; definitions happen once at startup and a
// silent overwrite would hide a wiring bug.
func (reg *Registry) Define(variants ...*Variant) {
	for _, v := range variants {
		if err := reg.Register(v); err != nil {
			panic(err.Error())
		}
	}
}

// Register is Define for a single variant, returning the error instead of
// panicking.
func (reg *Registry) Register(v *Variant) error {
	if err := v.validate(); err != nil {
		return err
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.variants[v.name]; exists {
		return fmt.Errorf("%w: %q", ErrAlreadyDefined, v.name)
	}
	reg.variants[v.name] = v
	reg.o.log.Debug("element defined", zap.String("element", v.name))
	return nil
}

// Lookup returns the variant defined under name.
func (reg *Registry) Lookup(name string) (*Variant, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	v, ok := reg.variants[name]
	return v, ok
}

// Names returns the defined element names, sorted.
func (reg *Registry) Names() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	names := make([]string, 0, len(reg.variants))
	for name := range reg.variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates an Idle instance of the named element.
func (reg *Registry) New(name string) (*Instance, error) {
	v, ok := reg.Lookup(name)
	if !ok {
		return nil, reg.unknown(name)
	}
	return NewInstance(v, reg.opts...), nil
}

// Path returns the URL prefix the handler expects to be mounted at.
func (reg *Registry) Path() string {
	return reg.o.path
}

// URL returns the handler URL rendering the named element with attrs.
func (reg *Registry) URL(name string, attrs Attributes) (string, error) {
	v, ok := reg.Lookup(name)
	if !ok {
		return "", reg.unknown(name)
	}
	token, err := reg.encoder.Encode(attrs, v.sensitive)
	if err != nil {
		return "", err
	}
	return reg.o.path + name + "?p=" + url.QueryEscape(token), nil
}

// Element returns the placeholder a page embeds for a component. The
// placeholder shows until htmx loads the rendered instance into it.
// A nil placeholder renders the default spinner.
//
//	@reg.Element("lut-card", attrs, nil)
func (reg *Registry) Element(name string, attrs Attributes, placeholder templ.Component) templ.Component {
	return reg.ElementSwap(name, attrs, placeholder, SwapInner)
}

// ElementSwap is Element with an explicit htmx swap mode.
func (reg *Registry) ElementSwap(name string, attrs Attributes, placeholder templ.Component, swap SwapMode) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		u, err := reg.URL(name, attrs)
		if err != nil {
			return err
		}
		ph := placeholder
		if ph == nil {
			d := attrs.Loading
			if d.IsZero() {
				d = reg.o.loading
			}
			ph = Spinner(d)
		}

		_, err = io.WriteString(w, fmt.Sprintf(`<%s hx-get="%s" hx-trigger="load" hx-swap="%s">`,
			name, html.EscapeString(u), swap))
		if err != nil {
			return err
		}
		if err := ph.Render(ctx, w); err != nil {
			return err
		}
		_, err = io.WriteString(w, "</"+name+">")
		return err
	})
}

// Handler serves GET {path}{element}?p={token}: it mounts a fresh instance,
// waits for it to settle and writes its output. htmx requests get the
// shadow root only; direct requests get it wrapped in the element tag.
//
// Mount this at Path():
//
//	http.Handle(reg.Path(), reg.Handler())
func (reg *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		name := strings.Trim(strings.TrimPrefix(r.URL.Path, reg.o.path), "/")
		v, ok := reg.Lookup(name)
		if !ok {
			reg.OnError(w, r, reg.unknown(name))
			return
		}

		var attrs Attributes
		if err := reg.encoder.Decode(r.URL.Query().Get("p"), v.sensitive, &attrs); err != nil {
			reg.OnError(w, r, fmt.Errorf("%w: %w", ErrInvalidToken, err))
			return
		}

		inst := NewInstance(v, reg.opts...)
		if err := inst.Mount(r.Context(), attrs); err != nil {
			reg.OnError(w, r, err)
			return
		}
		defer inst.Unmount()

		select {
		case <-inst.Settled():
		case <-r.Context().Done():
			reg.o.log.Debug("request ended before settle",
				zap.String("element", name),
				zap.String("instance", inst.ID()),
				zap.Stringer("state", inst.State()),
			)
			return
		}
		state := inst.State()

		w.Header().Set("X-Lieutenant-State", state.String())
		w.Header().Set("HX-Trigger", Settled{
			Element:  name,
			Instance: inst.ID(),
			State:    state.String(),
		}.TriggerJSON())
		out := inst.Component()
		if !IsHTMX(r) {
			out = wrapElement(name, out)
		}
		if err := Render(w, r, out); err != nil {
			reg.o.log.Warn("render failed", zap.String("element", name), zap.Error(err))
		}
	})
}

func wrapElement(name string, inner templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<"+name+">"); err != nil {
			return err
		}
		if err := inner.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</"+name+">")
		return err
	})
}

var defaultRegistry atomic.Pointer[Registry]

// Init installs reg as the process-wide registry. It is the single startup
// step for applications that use Define and Default; calling it twice
// panics.
func Init(reg *Registry) {
	if reg == nil {
		panic("lieutenant: Init with nil registry")
	}
	if !defaultRegistry.CompareAndSwap(nil, reg) {
		panic("lieutenant: Init called more than once")
	}
}

// Default returns the registry installed by Init. It panics if Init has not
// run.
func Default() *Registry {
	reg := defaultRegistry.Load()
	if reg == nil {
		panic("lieutenant: Init has not been called")
	}
	return reg
}

// Define registers variants on the default registry.
func Define(variants ...*Variant) {
	Default().Define(variants...)
}
