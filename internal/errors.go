package internal

import "net/http"

// StatusSessionExpired is the non-standard code answered when an
// anti-replay form token does not match.
const StatusSessionExpired = 440

// HTTPError carries a status code out of a route handler. The kernel
// records the code on the request instead of answering a generic 500.
type HTTPError struct {
	// Err is the underlying error, kept for logging.
	Err error

	// Message is the user-facing error message.
	Message string

	// Code is the HTTP status code.
	Code int
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Code)
}

func (e *HTTPError) Unwrap() error { return e.Err }

func (e *HTTPError) StatusCode() int { return e.Code }

// NewHTTPError creates an HTTPError with the given status code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message}
}

// Common route handler errors.
var (
	ErrNotFound       = NewHTTPError(http.StatusNotFound, "not found")
	ErrForbidden      = NewHTTPError(http.StatusForbidden, "forbidden")
	ErrSessionExpired = NewHTTPError(StatusSessionExpired, "form token mismatch")
)
