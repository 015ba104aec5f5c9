package apperr

import (
	"errors"
	"net/http"
)

// Kind is the stable machine-readable class of a failure.
type Kind string

const (
	// KindUnauthenticated covers missing, invalid or expired tokens.
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	// KindValidation covers structurally invalid request payloads.
	KindValidation Kind = "VALIDATION_ERROR"
	// KindConflict covers uniqueness violations on create.
	KindConflict Kind = "CONFLICT"
	// KindNotFound covers referenced entities that do not resolve.
	KindNotFound Kind = "NOT_FOUND"
	// KindInvalidCredential covers a password mismatch, kept distinct
	// from KindNotFound on an unknown email.
	KindInvalidCredential Kind = "INVALID_CREDENTIAL"
	// KindUnavailable covers store or upstream transport failures.
	KindUnavailable Kind = "UNAVAILABLE"
)

// Error is a typed business failure. The cause, if any, stays internal
// and is never serialized to callers.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New builds a typed error with a caller-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds a typed error that keeps the underlying cause for logs.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// KindOf extracts the Kind from err, or KindUnavailable for anything
// that is not a typed error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnavailable
}

// ErrorResponse represents a standardized error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapToHTTP maps a typed error to its HTTP representation. Untyped
// errors collapse to a generic unavailable response so that internal
// detail never reaches the caller.
func MapToHTTP(err error) *HTTPError {
	var e *Error
	if !errors.As(err, &e) {
		return &HTTPError{StatusCode: http.StatusServiceUnavailable, Message: "service unavailable", Code: string(KindUnavailable)}
	}

	status := http.StatusInternalServerError
	switch e.Kind {
	case KindUnauthenticated, KindInvalidCredential:
		status = http.StatusUnauthorized
	case KindValidation:
		status = http.StatusBadRequest
	case KindConflict:
		status = http.StatusConflict
	case KindNotFound:
		status = http.StatusNotFound
	case KindUnavailable:
		status = http.StatusServiceUnavailable
	}

	return &HTTPError{StatusCode: status, Message: e.Message, Code: string(e.Kind)}
}
