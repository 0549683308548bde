// Package domain defines the core record models for the token store.
package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DomainError represents a business domain error with a structured code.
//
// Codes follow the format TS-{AREA}-{NNNN} where NNNN/10 is the
// HTTP-style status the error maps to (e.g. TS-TOKN-4011 -> 401).
type DomainError struct {
	Code    string // Error code (e.g., "TS-TOKN-4011")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// HTTPStatus returns the HTTP status encoded in the error code.
// Unknown codes map to 500.
func (e *DomainError) HTTPStatus() int {
	idx := strings.LastIndex(e.Code, "-")
	if idx < 0 {
		return 500
	}
	n, err := strconv.Atoi(e.Code[idx+1:])
	if err != nil || n < 1000 {
		return 500
	}
	return n / 10
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithMessage returns a copy of the error with the message replaced.
//
// This is how a dead record's stored flash message surfaces verbatim as
// the rejection reason instead of the generic revocation text.
func (e *DomainError) WithMessage(message string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: message,
		Details: e.Details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Record errors (RECD)

var (
	// ErrRecordNotFound indicates a backend miss or a corrupt stored
	// payload. This is a recoverable condition, never a crash.
	ErrRecordNotFound = NewDomainError("TS-RECD-4040", "record not found")

	// ErrRecordDeleted indicates an operation on a record that has been
	// deleted; the in-memory reference must be discarded.
	ErrRecordDeleted = NewDomainError("TS-RECD-4100", "record deleted")
)

// Access token errors (TOKN)

var (
	// ErrTokenRequired indicates no access token was provided.
	ErrTokenRequired = NewDomainError("TS-TOKN-4010", "access token is required")

	// ErrTokenInvalid indicates the access token resolved to no record.
	ErrTokenInvalid = NewDomainError("TS-TOKN-4011", "access token is invalid")

	// ErrTokenRevoked indicates the record was marked dead; the message
	// is normally replaced by the stored flash message.
	ErrTokenRevoked = NewDomainError("TS-TOKN-4012", "access token has been revoked")

	// ErrFingerprintMismatch indicates the computed client fingerprint no
	// longer matches the one bound at creation.
	ErrFingerprintMismatch = NewDomainError("TS-TOKN-4013", "client fingerprint is changed")
)

// Session token errors (SESS)

var (
	// ErrSessionTokenRequired indicates no session token was provided.
	ErrSessionTokenRequired = NewDomainError("TS-SESS-4030", "session token is required")

	// ErrSessionTokenInvalid indicates the session token resolved to no record.
	ErrSessionTokenInvalid = NewDomainError("TS-SESS-4031", "session token is invalid")

	// ErrSessionNameInvalid indicates the record belongs to a different
	// session flow. The record is not deleted.
	ErrSessionNameInvalid = NewDomainError("TS-SESS-4032", "session name is invalid")
)

// Step token errors (STEP)

var (
	// ErrStepTokenRequired indicates no step token was provided.
	ErrStepTokenRequired = NewDomainError("TS-STEP-4030", "step token is required")

	// ErrStepTokenInvalid indicates the step token resolved to no record.
	ErrStepTokenInvalid = NewDomainError("TS-STEP-4031", "step token is invalid")

	// ErrStepInvalid indicates the record's current step does not match
	// the expected one. The record is not deleted.
	ErrStepInvalid = NewDomainError("TS-STEP-4033", "session step is invalid")
)

// System errors (SYS)

var (
	// ErrInternalServer indicates an internal error.
	ErrInternalServer = NewDomainError("TS-SYS-5000", "internal server error")

	// ErrStorageError indicates a backend-level failure. There is no
	// degraded mode without the backend; this propagates upward.
	ErrStorageError = NewDomainError("TS-SYS-5001", "storage error")

	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("TS-ARG-4000", "invalid argument")
)
