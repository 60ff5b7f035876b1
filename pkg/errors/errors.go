// Package errors provides structured error types for the drawforge engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes map to the engine's failure taxonomy:
//   - SCHEMA_*: input description rejected before any computation
//   - LAYOUT_*: geometry computation failures (cycles in leveled layouts)
//   - STYLE_*: palette/dimension lookups with no configured entry
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownNode, "edge target %q is not a declared node", id)
//	if errors.Is(err, errors.ErrCodeUnknownNode) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeSchema, origErr, "decode input")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Schema errors: the input description is rejected before layout.
	ErrCodeSchema         Code = "SCHEMA_INVALID"
	ErrCodeDuplicateID    Code = "SCHEMA_DUPLICATE_ID"
	ErrCodeUnknownNode    Code = "SCHEMA_UNKNOWN_NODE"
	ErrCodeUnknownLane    Code = "SCHEMA_UNKNOWN_LANE"
	ErrCodeInvalidType    Code = "SCHEMA_INVALID_TYPE"
	ErrCodeInvalidVariant Code = "SCHEMA_INVALID_VARIANT"
	ErrCodeInvalidLayout  Code = "SCHEMA_INVALID_LAYOUT"
	ErrCodeInvalidField   Code = "SCHEMA_INVALID_FIELD"

	// Layout errors: geometry computation is undefined for the input.
	ErrCodeGraphCycle Code = "LAYOUT_GRAPH_CYCLE"

	// Style errors: the palette has no entry for a requested combination.
	ErrCodeMissingStyle Code = "STYLE_MISSING"
	ErrCodeBadPalette   Code = "STYLE_BAD_PALETTE"

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

// IsSchema reports whether the error belongs to the schema category.
// Schema errors are raised before any layout computation happens.
func IsSchema(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Code {
	case ErrCodeSchema, ErrCodeDuplicateID, ErrCodeUnknownNode, ErrCodeUnknownLane,
		ErrCodeInvalidType, ErrCodeInvalidVariant, ErrCodeInvalidLayout, ErrCodeInvalidField:
		return true
	}
	return false
}
