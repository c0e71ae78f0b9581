// Package errors provides structured error types for polisher.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes map onto the failure kinds of a styling run:
//   - CONFIGURATION_ERROR: a brand theme is malformed or incomplete
//   - UNKNOWN_BRAND: the requested brand identifier is not registered
//   - SOURCE_READ_ERROR: the input document could not be loaded or parsed
//   - TABLE_INTEGRITY: a table stayed ragged after padding (reported, not raised)
//   - INVALID_*: input validation failures
//   - INTERNAL_ERROR: unexpected internal errors
//
// # Usage
//
//	err := errors.UnknownBrand("globex", registry.IDs())
//	if errors.Is(err, errors.ErrCodeUnknownBrand) {
//	    // Handle unknown brand
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeSourceRead, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Styling run failures
	ErrCodeConfiguration  Code = "CONFIGURATION_ERROR"
	ErrCodeUnknownBrand   Code = "UNKNOWN_BRAND"
	ErrCodeSourceRead     Code = "SOURCE_READ_ERROR"
	ErrCodeTableIntegrity Code = "TABLE_INTEGRITY"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Resource errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// ConfigurationError reports a brand theme that is missing a required key
// or carries an invalid value. brand and key are both named in the message.
func ConfigurationError(brand, key, format string, args ...any) *Error {
	detail := fmt.Sprintf(format, args...)
	if detail == "" {
		detail = "missing required key"
	}
	return New(ErrCodeConfiguration, "brand %q: %s: %s", brand, key, detail)
}

// UnknownBrand reports a brand identifier that is not registered.
func UnknownBrand(id string, available []string) *Error {
	if len(available) == 0 {
		return New(ErrCodeUnknownBrand, "brand %q not found", id)
	}
	return New(ErrCodeUnknownBrand, "brand %q not found (available: %s)", id, strings.Join(available, ", "))
}

// SourceRead wraps a failure to load or parse the input document.
func SourceRead(cause error, format string, args ...any) *Error {
	return Wrap(ErrCodeSourceRead, cause, format, args...)
}
