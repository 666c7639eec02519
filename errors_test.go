package lieutenant

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/pthm/lieutenant/lib/encoding"
)

func TestSentinelErrors(t *testing.T) {
	// Verify sentinel errors are distinct
	errs := []error{
		ErrInvalidAttributes,
		ErrAlreadyMounted,
		ErrNotMounted,
		ErrNotReady,
		ErrNotNested,
		ErrAlreadyStashed,
		ErrUnknownElement,
		ErrAlreadyDefined,
		ErrInvalidToken,
		ErrTransport,
		ErrHTTPStatus,
		ErrMalformedContent,
	}

	for i, err1 := range errs {
		for j, err2 := range errs {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors should be distinct: %v and %v", err1, err2)
			}
		}
	}
}

func TestFetchErrorClassification(t *testing.T) {
	transport := &TransportError{URL: "theme.css", Err: context.DeadlineExceeded}
	status := &HTTPStatusError{URL: "card.html", Code: 404}
	malformed := &MalformedContentError{URL: "data.json", Reason: "invalid JSON"}

	tests := []struct {
		name      string
		err       error
		transport bool
		status    bool
		malformed bool
	}{
		{"nil error", nil, false, false, false},
		{"transport", transport, true, false, false},
		{"wrapped transport", fmt.Errorf("styles: %w", transport), true, false, false},
		{"status", status, false, true, false},
		{"wrapped status", fmt.Errorf("content: %w", status), false, true, false},
		{"malformed", malformed, false, false, true},
		{"other error", errors.New("other error"), false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransport(tt.err); got != tt.transport {
				t.Errorf("IsTransport(%v) = %v, want %v", tt.err, got, tt.transport)
			}
			if got := IsHTTPStatus(tt.err); got != tt.status {
				t.Errorf("IsHTTPStatus(%v) = %v, want %v", tt.err, got, tt.status)
			}
			if got := IsMalformed(tt.err); got != tt.malformed {
				t.Errorf("IsMalformed(%v) = %v, want %v", tt.err, got, tt.malformed)
			}
		})
	}
}

func TestHTTPStatusErrorMessage(t *testing.T) {
	err := &HTTPStatusError{URL: "card.html", Code: 404}
	want := "fetch: GET card.html: HTTPStatusError(404)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestTransportErrorUnwrap(t *testing.T) {
	err := &TransportError{URL: "theme.css", Err: context.Canceled}
	if !errors.Is(err, context.Canceled) {
		t.Error("TransportError should unwrap to its cause")
	}
}

func TestIsTokenError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{"nil error", nil, false},
		{"ErrInvalidToken", ErrInvalidToken, true},
		{"wrapped signature", fmt.Errorf("%w: %w", ErrInvalidToken, encoding.ErrSignatureInvalid), true},
		{"bare format", encoding.ErrInvalidFormat, true},
		{"bare decrypt", encoding.ErrDecryptFailed, true},
		{"invalid attributes", ErrInvalidAttributes, false},
		{"other error", errors.New("other error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTokenError(tt.err); got != tt.expect {
				t.Errorf("IsTokenError(%v) = %v, want %v", tt.err, got, tt.expect)
			}
		})
	}
}
