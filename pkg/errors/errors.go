// Package errors provides structured error types for flowbench.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so the comparison orchestrator, the CLI and the playground server can
// decide how to report it without string matching.
//
// # Error Codes
//
// Codes are grouped by where they originate:
//   - graph structure: DANGLING_EDGE_REFERENCE, DUPLICATE_NODE_ID, ...
//   - input documents: MALFORMED_INPUT_DOCUMENT, NO_MATCHING_EXAMPLE
//   - lookups: UNKNOWN_NODE, UNKNOWN_DATASET, UNKNOWN_LAYOUT, UNKNOWN_BACKEND
//   - render boundary: RENDERER_UNAVAILABLE, RENDER_FAILED, TIMEOUT
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateNodeID, "duplicate node id %q", id)
//	if errors.Is(err, errors.ErrCodeDuplicateNodeID) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRenderFailed, origErr, "d2 exited for %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Graph structure errors
	ErrCodeDanglingEdge    Code = "DANGLING_EDGE_REFERENCE"
	ErrCodeDuplicateNodeID Code = "DUPLICATE_NODE_ID"
	ErrCodeCyclicParent    Code = "CYCLIC_PARENT_CHAIN"
	ErrCodeUnknownParent   Code = "UNKNOWN_PARENT_REFERENCE"
	ErrCodeInvalidGraphID  Code = "INVALID_GRAPH_ID"

	// Input document errors
	ErrCodeMalformedInput    Code = "MALFORMED_INPUT_DOCUMENT"
	ErrCodeNoMatchingExample Code = "NO_MATCHING_EXAMPLE"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"

	// Lookup errors
	ErrCodeUnknownNode    Code = "UNKNOWN_NODE"
	ErrCodeUnknownDataset Code = "UNKNOWN_DATASET"
	ErrCodeUnknownLayout  Code = "UNKNOWN_LAYOUT"
	ErrCodeUnknownBackend Code = "UNKNOWN_BACKEND"
	ErrCodeUnknownFormat  Code = "UNKNOWN_FORMAT"

	// Render boundary errors
	ErrCodeRendererUnavailable Code = "RENDERER_UNAVAILABLE"
	ErrCodeRenderFailed        Code = "RENDER_FAILED"
	ErrCodeTimeout             Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix,
// followed by the cause's own user message when there is one.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
