package fetch

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is against the typed errors below.
var (
	ErrTransport        = errors.New("fetch: transport failure")
	ErrHTTPStatus       = errors.New("fetch: non-success status")
	ErrMalformedContent = errors.New("fetch: malformed content")
)

// TransportError reports a request that never produced a response.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch: GET %s: TransportError: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// HTTPStatusError reports a response outside the 2xx range.
type HTTPStatusError struct {
	URL  string
	Code int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("fetch: GET %s: HTTPStatusError(%d)", e.URL, e.Code)
}

func (e *HTTPStatusError) Is(target error) bool { return target == ErrHTTPStatus }

// MalformedContentError reports a payload that could not be used: invalid
// JSON, unparsable markup, or form markup without a form element.
type MalformedContentError struct {
	URL    string
	Reason string
	Err    error
}

func (e *MalformedContentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch: GET %s: MalformedContentError: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("fetch: GET %s: MalformedContentError: %s", e.URL, e.Reason)
}

func (e *MalformedContentError) Unwrap() error { return e.Err }

func (e *MalformedContentError) Is(target error) bool { return target == ErrMalformedContent }

// Status returns the HTTP status code carried by err, or 0.
func Status(err error) int {
	var se *HTTPStatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
