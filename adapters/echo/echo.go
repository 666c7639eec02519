// Package lutecho provides Echo framework integration for lieutenant
// components.
//
// Mount the component handler onto an Echo instance or group:
//
//	e := echo.New()
//	reg := lutecho.Mount(e, lutecho.WithKey(key))
//	reg.Define(variants.Card())
//
// Or mount on a group with middleware:
//
//	g := e.Group("/app", authMiddleware)
//	reg := lutecho.MountGroup(g, lutecho.WithPrefix("/app"))
//	reg.Define(variants.Card())
package lutecho

import (
	"crypto/rand"
	"fmt"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/pthm/lieutenant"
)

// Option configures the Mount and MountGroup functions.
type Option func(*options)

type options struct {
	key         []byte
	route       string
	prefix      string
	setDefault  bool
	instanceOps []lieutenant.Option
}

// WithKey sets the signing key for attribute tokens.
// The key should be at least 32 bytes of cryptographically random data.
// If not provided, a random key is generated (suitable for development only).
func WithKey(key []byte) Option {
	return func(o *options) {
		o.key = key
	}
}

// WithPath sets the route the component handler is mounted at.
// Defaults to "/_lut/".
func WithPath(path string) Option {
	return func(o *options) {
		o.route = path
	}
}

// WithPrefix sets the path of the group MountGroup is given, so element
// URLs include it.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithOptions passes options to the registry and its instances.
func WithOptions(opts ...lieutenant.Option) Option {
	return func(o *options) {
		o.instanceOps = append(o.instanceOps, opts...)
	}
}

// AsDefault installs the registry with lieutenant.Init.
func AsDefault() Option {
	return func(o *options) {
		o.setDefault = true
	}
}

// Mount creates a registry and mounts the component handler on an Echo
// instance.
//
//	e := echo.New()
//	reg := lutecho.Mount(e)
//	reg.Define(variants.Card())
//
//	// With options:
//	reg := lutecho.Mount(e, lutecho.WithKey(key), lutecho.AsDefault())
func Mount(e *echo.Echo, opts ...Option) *lieutenant.Registry {
	reg, route := newRegistry(opts)
	e.Any(route+"*", handler(reg))
	return reg
}

// MountGroup creates a registry and mounts the component handler on an Echo
// group. Components share middleware with the group (auth, logging, etc.).
//
//	g := e.Group("/app", authMiddleware)
//	reg := lutecho.MountGroup(g, lutecho.WithPrefix("/app"))
func MountGroup(g *echo.Group, opts ...Option) *lieutenant.Registry {
	reg, route := newRegistry(opts)
	g.Any(route+"*", handler(reg))
	return reg
}

// handler serves the element named by the wildcard. The request path is
// rewritten to the registry path, so group prefixes do not reach it.
func handler(reg *lieutenant.Registry) echo.HandlerFunc {
	h := reg.Handler()
	return func(c echo.Context) error {
		req := c.Request()
		u := *req.URL
		u.Path = reg.Path() + c.Param("*")
		r := req.Clone(req.Context())
		r.URL = &u
		h.ServeHTTP(c.Response(), r)
		return nil
	}
}

func newRegistry(opts []Option) (*lieutenant.Registry, string) {
	o := &options{route: "/_lut/"}
	for _, opt := range opts {
		opt(o)
	}

	key := o.key
	if key == nil {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("lutecho: failed to generate random key: %v", err))
		}
	}

	ropts := append([]lieutenant.Option{lieutenant.WithPath(o.prefix + o.route)}, o.instanceOps...)
	reg := lieutenant.NewRegistry(key, ropts...)
	if o.setDefault {
		lieutenant.Init(reg)
	}
	return reg, o.route
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return lutecho.Render(c, page())
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
