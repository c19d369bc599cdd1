package policycheck

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECHECKFAILED = "check_failed"
	EFETCH       = "fetch"
	EINTERNAL    = "internal"
	EINVALID     = "invalid"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract out the code & message.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string

	// Underlying cause, kept for logs. Never shown to API clients.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("policycheck error: code=%s message=%s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("policycheck error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError returns an Error with the given code and message that keeps err as its cause.
func WrapError(err error, code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// ErrorCode unwraps an application error and returns its code.
// Fetch errors report EFETCH. Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return EFETCH
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return their own error text.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	return err.Error()
}

// FetchErrorKind classifies why a page could not be fetched.
type FetchErrorKind string

// FetchErrorKind constants.
const (
	// FetchHTTPStatus means the server answered with a status outside [200, 300).
	FetchHTTPStatus FetchErrorKind = "http-status"

	// FetchNoResponse means the request was sent but no response arrived
	// (DNS failure, refused connection, timeout, cancellation).
	FetchNoResponse FetchErrorKind = "no-response"

	// FetchSetup means the request could not be constructed or dispatched.
	FetchSetup FetchErrorKind = "setup"
)

// FetchError is returned when a page cannot be retrieved.
type FetchError struct {
	Kind FetchErrorKind
	URL  string

	// StatusCode is set only for FetchHTTPStatus.
	StatusCode int

	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchHTTPStatus:
		return fmt.Sprintf("Fetch failed with status %d", e.StatusCode)
	case FetchNoResponse:
		return "No response received from the server"
	default:
		if e.Err == nil {
			return "Error in request setup"
		}
		return fmt.Sprintf("Error in request setup: %s", e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}
