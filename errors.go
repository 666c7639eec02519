package lieutenant

import (
	"errors"

	"github.com/pthm/lieutenant/lib/encoding"
	"github.com/pthm/lieutenant/lib/fetch"
)

// Sentinel errors for instance and registry operations.
var (
	ErrInvalidAttributes = errors.New("lieutenant: invalid attributes")
	ErrAlreadyMounted    = errors.New("lieutenant: instance already mounted")
	ErrNotMounted        = errors.New("lieutenant: instance not mounted")
	ErrNotReady          = errors.New("lieutenant: instance not ready")
	ErrNotNested         = errors.New("lieutenant: no nested loading in progress")
	ErrAlreadyStashed    = errors.New("lieutenant: output already stashed")
	ErrUnknownElement    = errors.New("lieutenant: unknown element")
	ErrAlreadyDefined    = errors.New("lieutenant: element already defined")
	ErrInvalidToken      = errors.New("lieutenant: invalid attribute token")
	ErrHookPanicked      = errors.New("lieutenant: OnReady hook panicked")
)

// Fetch failure taxonomy, shared with lib/fetch.
type (
	TransportError        = fetch.TransportError
	HTTPStatusError       = fetch.HTTPStatusError
	MalformedContentError = fetch.MalformedContentError
)

// Sentinels matching the fetch failure types with errors.Is.
var (
	ErrTransport        = fetch.ErrTransport
	ErrHTTPStatus       = fetch.ErrHTTPStatus
	ErrMalformedContent = fetch.ErrMalformedContent
)

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsHTTPStatus reports whether err is a non-success HTTP status.
func IsHTTPStatus(err error) bool {
	return errors.Is(err, ErrHTTPStatus)
}

// IsMalformed reports whether err is a malformed payload.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedContent)
}

// IsTokenError reports whether err came from decoding an attribute token.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, encoding.ErrInvalidFormat) ||
		errors.Is(err, encoding.ErrSignatureInvalid) ||
		errors.Is(err, encoding.ErrDecryptFailed)
}
