package lieutenant

import (
	"go.uber.org/zap"

	"github.com/pthm/lieutenant/lib/fetch"
)

// Option configures a Registry and the instances it creates.
type Option func(*options)

type options struct {
	fetcher      ResourceFetcher
	log          *zap.Logger
	message      string
	exposeReason bool
	loading      Dimensions
	path         string
}

func newOptions(opts []Option) options {
	o := options{
		message: DefaultErrorMessage,
		loading: DefaultLoading,
		path:    "/_lut/",
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.fetcher == nil {
		o.fetcher = fetch.New()
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	return o
}

// WithFetcher sets the resource fetcher. Defaults to fetch.New().
func WithFetcher(f ResourceFetcher) Option {
	return func(o *options) {
		o.fetcher = f
	}
}

// WithLogger sets the diagnostic sink. Failure reasons are only ever
// written here. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithErrorMessage sets the message shown by the error display.
func WithErrorMessage(msg string) Option {
	return func(o *options) {
		o.message = msg
	}
}

// WithExposeReason shows the underlying failure in the error display
// instead of the generic message. Meant for development and support
// builds; it leaks URLs and status codes to end users.
func WithExposeReason(expose bool) Option {
	return func(o *options) {
		o.exposeReason = expose
	}
}

// WithLoading sets the loading size used when attributes carry none.
func WithLoading(d Dimensions) Option {
	return func(o *options) {
		if !d.IsZero() {
			o.loading = d
		}
	}
}

// WithPath sets the URL prefix the registry handler is mounted at.
// Defaults to "/_lut/".
func WithPath(path string) Option {
	return func(o *options) {
		if path != "" {
			o.path = path
		}
	}
}
