// Package errors provides structured error types for the ntgraph layout engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP service and the library
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages that name the offending node or time step
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The layout engine distinguishes three kinds of failure:
//   - STRUCTURAL_INCONSISTENCY: the nested graph references unknown nodes,
//     mixes time steps, or contains a containment cycle. Fatal.
//   - LAYOUT_INCOMPLETE: a position needed by slot allocation (or a backup
//     needed by the minimal layout) is missing. Fatal.
//   - ORDER_MISMATCH: the solved order disagrees with the backup order that
//     constrained it. Reported as a warning; processing continues.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeStructural, "node %s: unknown child %s", parent, child)
//	if errors.Is(err, errors.ErrCodeStructural) {
//	    // Abort the pass
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeSolverFailed, origErr, "render plain layout")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// Layout engine errors
	ErrCodeStructural       Code = "STRUCTURAL_INCONSISTENCY"
	ErrCodeLayoutIncomplete Code = "LAYOUT_INCOMPLETE"
	ErrCodeOrderMismatch    Code = "ORDER_MISMATCH"

	// External solver errors
	ErrCodeSolverFailed Code = "SOLVER_FAILED"
	ErrCodeTimeout      Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// Fatal reports whether err aborts a layout pass.
// Structural and completeness errors are fatal; order mismatches are not.
func Fatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeOrderMismatch:
		return false
	case "":
		return err != nil
	default:
		return true
	}
}
