// Package fetch retrieves component resources over HTTP.
//
// Every failure is reported as one of three typed errors so callers can
// treat them uniformly: TransportError, HTTPStatusError and
// MalformedContentError. The client never retries.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/net/html"

	"github.com/pthm/lieutenant/lib/markup"
)

// DefaultTimeout bounds a single request when no client is supplied.
const DefaultTimeout = 15 * time.Second

// MaxBody caps the size of a response body.
const MaxBody = 8 << 20

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Form is form-bearing markup: the parsed nodes and the form element found
// among them.
type Form struct {
	Nodes   []*html.Node
	Element *html.Node
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithBaseURL sets the URL relative locators are resolved against.
func WithBaseURL(base *url.URL) Option {
	return func(c *Client) {
		c.base = base
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// Client fetches text, JSON and form resources.
type Client struct {
	http      *http.Client
	base      *url.URL
	userAgent string
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: DefaultTimeout},
		userAgent: "lieutenant",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Text retrieves a resource as raw text.
func (c *Client) Text(ctx context.Context, locator string) (string, error) {
	body, err := c.get(ctx, locator, "text/css, text/html, text/plain, */*")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// JSON retrieves a resource and decodes it into v.
func (c *Client) JSON(ctx context.Context, locator string, v any) error {
	body, err := c.get(ctx, locator, "application/json")
	if err != nil {
		return err
	}
	return DecodeJSON(locator, body, v)
}

// DecodeJSON decodes body into v, reporting failures as
// MalformedContentError.
func DecodeJSON(locator string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &MalformedContentError{URL: locator, Reason: "invalid JSON", Err: err}
	}
	return nil
}

// Form retrieves form-bearing markup.
func (c *Client) Form(ctx context.Context, locator string) (Form, error) {
	text, err := c.Text(ctx, locator)
	if err != nil {
		return Form{}, err
	}
	return ParseForm(locator, text)
}

// ParseForm parses markup and locates its form element. Markup without a
// form is a MalformedContentError.
func ParseForm(locator, text string) (Form, error) {
	nodes, err := markup.Parse(text)
	if err != nil {
		return Form{}, &MalformedContentError{URL: locator, Reason: "unparsable markup", Err: err}
	}
	form := markup.FindForm(nodes)
	if form == nil {
		return Form{}, &MalformedContentError{URL: locator, Reason: "no form element"}
	}
	return Form{Nodes: nodes, Element: form}, nil
}

// Resolve turns a locator into an absolute URL using the base URL.
func (c *Client) Resolve(locator string) (string, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return "", err
	}
	if c.base != nil {
		u = c.base.ResolveReference(u)
	}
	if !u.IsAbs() {
		return "", fmt.Errorf("relative locator %q without base URL", locator)
	}
	return u.String(), nil
}

func (c *Client) get(ctx context.Context, locator, accept string) ([]byte, error) {
	target, err := c.Resolve(locator)
	if err != nil {
		return nil, &TransportError{URL: locator, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{URL: locator, Err: err}
	}
	req.Header.Set("Accept", accept)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{URL: locator, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxBody))
		return nil, &HTTPStatusError{URL: locator, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBody+1))
	if err != nil {
		return nil, &TransportError{URL: locator, Err: err}
	}
	if len(body) > MaxBody {
		return nil, &MalformedContentError{
			URL:    locator,
			Reason: "body exceeds " + humanize.IBytes(MaxBody),
		}
	}
	return body, nil
}
