package services

import (
	"errors"
	"fmt"

	"github.com/asaikali/money-mate/obp"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeAuthentication ErrorType = "authentication"
	ErrorTypeUnavailable    ErrorType = "unavailable"
	ErrorTypeInternal       ErrorType = "internal"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables

var (
	// ErrAuthenticationFailed means the upstream rejected the supplied
	// username/password. User-facing 401, never retried automatically.
	ErrAuthenticationFailed = NewDomainError(ErrorTypeAuthentication, "authentication failed", nil)

	// ErrUpstreamUnavailable means OBP could not be reached or returned
	// an unusable response. User-facing 503, logged, not retried within
	// the same request.
	ErrUpstreamUnavailable = NewDomainError(ErrorTypeUnavailable, "banking service unavailable", nil)

	// ErrAccountNotFound means the requested account is absent from the
	// caller's own account list. User-facing 404.
	ErrAccountNotFound = NewDomainError(ErrorTypeNotFound, "account not found", nil)

	// ErrInvalidInput is a request validation failure.
	ErrInvalidInput = NewDomainError(ErrorTypeValidation, "invalid input", nil)

	// ErrInternal is an unexpected local failure.
	ErrInternal = NewDomainError(ErrorTypeInternal, "internal server error", nil)
)

// FromGateway translates an OBP gateway failure into the domain
// taxonomy. Anything unrecognized is treated as upstream unavailability
// rather than allowed to crash request handling.
func FromGateway(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, obp.ErrAuthRejected):
		return NewDomainError(ErrorTypeAuthentication, "upstream rejected credentials", err)
	case errors.Is(err, obp.ErrUnavailable):
		return NewDomainError(ErrorTypeUnavailable, "banking service unavailable", err)
	default:
		return NewDomainError(ErrorTypeUnavailable, "unexpected upstream failure", err)
	}
}

// Error type checking helper functions

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeNotFound
	}
	return false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeValidation
	}
	return false
}

// IsAuthenticationError checks if an error is an authentication error
func IsAuthenticationError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeAuthentication
	}
	return false
}

// IsUnavailableError checks if an error is an upstream unavailability error
func IsUnavailableError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeUnavailable
	}
	return false
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeInternal
	}
	return false
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}
