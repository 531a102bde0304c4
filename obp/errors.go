package obp

import (
	"errors"
	"fmt"
)

// Classification sentinels. Callers use errors.Is against these; the
// gateway never retries on either.
var (
	// ErrAuthRejected indicates OBP rejected the presented credentials.
	ErrAuthRejected = errors.New("obp: credentials rejected")

	// ErrUnavailable indicates OBP could not be reached, returned an
	// unexpected status, or returned an unusable body.
	ErrUnavailable = errors.New("obp: upstream unavailable")
)

// APIError is the concrete error returned by gateway operations. It
// classifies as exactly one of the sentinels above while preserving the
// operation, upstream status, and underlying cause.
type APIError struct {
	// Op is the gateway operation, e.g. "login" or "accounts".
	Op string

	// StatusCode is the HTTP status OBP returned, or 0 when the call
	// never completed.
	StatusCode int

	Message string
	Cause   error

	kind error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("obp %s: %s (status %d)", e.Op, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("obp %s: %s", e.Op, e.Message)
}

// Unwrap exposes the underlying transport or decoding error.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// Is matches the classification sentinel.
func (e *APIError) Is(target error) bool {
	return target == e.kind
}

func authRejected(op string, statusCode int, message string, cause error) *APIError {
	return &APIError{Op: op, StatusCode: statusCode, Message: message, Cause: cause, kind: ErrAuthRejected}
}

func unavailable(op string, statusCode int, message string, cause error) *APIError {
	return &APIError{Op: op, StatusCode: statusCode, Message: message, Cause: cause, kind: ErrUnavailable}
}
