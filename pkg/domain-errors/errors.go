// Package domainerrors defines the coded error type shared by all services.
// Services translate storage sentinels and validation failures into coded
// errors; the transport layer maps codes to HTTP statuses in one place.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for transport mapping and logging.
type Code string

const (
	// CodeBadRequest marks a request that could not be decoded at all.
	CodeBadRequest Code = "bad_request"

	// CodeInvalidInput marks a field that failed syntactic validation
	// (unknown dose label, malformed UUID, impossible date).
	CodeInvalidInput Code = "invalid_input"

	// CodeValidation marks a well-formed registration rejected by a
	// business rule; the Reason field names which one.
	CodeValidation Code = "validation_failed"

	// CodeInvariantViolation marks an entity that failed a construction
	// invariant.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeNotFound marks a missing entity.
	CodeNotFound Code = "not_found"

	// CodeConflict marks a uniqueness violation.
	CodeConflict Code = "conflict"

	// CodeUnauthorized marks a rejected credential.
	CodeUnauthorized Code = "unauthorized"

	// CodeTimeout marks an operation abandoned on a deadline.
	CodeTimeout Code = "timeout"

	// CodeInternal marks everything the caller cannot act on.
	CodeInternal Code = "internal"
)

// Error is a coded domain error. Reason optionally narrows the code to a
// machine-readable cause (validation rejections carry one).
type Error struct {
	Code    Code
	Reason  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match two coded errors by code alone.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// New constructs a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// WithReason constructs a coded error carrying a machine-readable reason.
func WithReason(code Code, reason, message string) *Error {
	return &Error{Code: code, Reason: reason, Message: message}
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == code
}

// Reason extracts the machine-readable reason, or "" for uncoded errors.
func Reason(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Reason
	}
	return ""
}

// ToHTTPStatus maps a code to its response status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeValidation, CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
