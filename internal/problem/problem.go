package problem

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure
type Code string

const (
	// UnterminatedLiteral is reported when a helper argument opens a string literal it never closes
	UnterminatedLiteral Code = "compile_unterminated_literal"

	// InvalidHashKey is reported for a hash argument with an empty or quoted key
	InvalidHashKey Code = "compile_invalid_hash_key"

	// HelperValidation is reported when a helper rejects its tag definition
	HelperValidation Code = "compile_helper_validation"

	// InvalidTemplate is reported when a template cannot be compiled
	InvalidTemplate Code = "compile_invalid_template"

	// RecursionLimitExceeded is reported when a lookup exceeds the configured recursion limit
	RecursionLimitExceeded Code = "render_recursion_limit_exceeded"

	// InvalidPop is reported when a scope is popped that was never pushed
	InvalidPop Code = "render_invalid_pop"

	// AsyncProcessing is reported when an asynchronous task cannot be scheduled or fails
	AsyncProcessing Code = "render_async_processing"

	// PartialNotFound is reported for an unknown partial or source identifier
	PartialNotFound Code = "render_partial_not_found"

	// RenderIO is reported when the output sink fails
	RenderIO Code = "render_io"

	// HelperFailed is reported when a helper returns an error of its own
	HelperFailed Code = "render_helper_failed"
)

// Error is a render core failure
type Error struct {
	Code    Code   // Class of the failure
	Origin  string // Call site, e.g. "[template: page, line: 3]"
	Message string // Human readable description
	Err     error  // Underlying cause, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := string(e.Code)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Origin != "" {
		msg += " " + e.Origin
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates an error with a formatted message
func New(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error with a cause and a formatted message
func Wrap(code Code, err error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// At sets the call site and returns the error
func (e *Error) At(origin string) *Error {
	e.Origin = origin
	return e
}

// Is reports whether any error in err's chain carries code.
func Is(err error, code Code) bool {
	return errors.Is(err, &Error{Code: code})
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there is none.
func CodeOf(err error) Code {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// WithOrigin sets the call site of the first *Error in err's chain unless it
// already has one, and returns err.
func WithOrigin(err error, origin string) error {
	var pe *Error
	if errors.As(err, &pe) && pe.Origin == "" {
		pe.Origin = origin
	}
	return err
}
