// Package errors provides structured error types for stepflow.
//
// The layout core never fails on malformed process content: problems in a
// process are reported as diagnostics next to the result. Errors from this
// package are reserved for everything around the core, where failing is the
// only sensible outcome:
//   - Bytes that are not a process record at all
//   - Unsupported file or render formats
//   - Rendering engine failures
//   - Cache backend and configuration problems
//
// # Error Codes
//
//   - INVALID_INPUT, UNSUPPORTED_FORMAT, SCHEMA_VIOLATION: caller mistakes
//   - NOT_FOUND: missing files or cache entries
//   - CACHE, RENDER, CONFIG: failures of a specific subsystem
//   - INTERNAL: unexpected failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnsupportedFormat, "unknown format %q", ext)
//	if errors.Is(err, errors.ErrCodeUnsupportedFormat) {
//	    // Handle format error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRender, origErr, "graphviz render")
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Caller errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeUnsupportedFormat Code = "UNSUPPORTED_FORMAT"
	ErrCodeSchemaViolation   Code = "SCHEMA_VIOLATION"
	ErrCodeNotFound          Code = "NOT_FOUND"

	// Subsystem errors
	ErrCodeCache  Code = "CACHE"
	ErrCodeRender Code = "RENDER"
	ErrCodeConfig Code = "CONFIG"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error to the status code an API should answer with.
// Errors without a code are internal.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeSchemaViolation, ErrCodeUnsupportedFormat:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
