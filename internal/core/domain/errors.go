package domain

import (
	"errors"
	"fmt"
)

var ErrNotAuthenticated = errors.New("not authenticated")
var ErrForbidden = errors.New("access forbidden")
var ErrPasswordMismatch = errors.New("new passwords do not match")
var ErrSessionClosed = errors.New("session closed")
var ErrNoRefreshToken = errors.New("no refresh token stored")
var ErrShuttingDown = errors.New("console is shutting down")

// ErrorKind classifies a failed backend call.
type ErrorKind int

const (
	// KindNetwork means the request never produced an HTTP response.
	KindNetwork ErrorKind = iota + 1
	// KindDecode means the response body could not be read or parsed.
	KindDecode
	// KindHTTPStatus means the backend answered with a non-2xx status other than 401.
	KindHTTPStatus
	// KindUnauthorized means the backend rejected the credentials (401).
	KindUnauthorized
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	case KindHTTPStatus:
		return "http_status"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// APIError is the single error type returned by the backend client.
// Status is zero for Network errors and for Decode errors raised before a
// status was known.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// KindOf returns the kind of the first APIError in err's chain, or zero.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

// IsUnauthorized reports whether err carries a 401 from the backend.
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}

// Message returns the text an operator should see for err: the backend's
// own message when there is one, otherwise err's text, otherwise fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	return err.Error()
}
