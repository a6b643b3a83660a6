// Package errors defines the structured error types used across deckgen.
//
// The taxonomy is small and deliberate: configuration errors (bad grammar
// tokens, missing template archive, mutually exclusive options) and conflict
// errors (target deck directory already exists) are fatal and abort the run
// before any further file-system mutation; I/O errors propagate immediately;
// everything else degrades locally and is reported as a warning.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType categorizes an error for handling decisions.
type ErrorType string

const (
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeInternal   ErrorType = "internal"
)

// DeckError is a structured error with context.
type DeckError struct {
	Type    ErrorType
	Code    string
	Message string
	Cause   error
	Context map[string]interface{}
	Path    string
}

// Error implements the error interface.
func (e *DeckError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Path != "" {
		parts = append(parts, e.Path)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *DeckError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison by type and code.
func (e *DeckError) Is(target error) bool {
	var t *DeckError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *DeckError) WithContext(key string, value interface{}) *DeckError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithPath attaches the file-system path the error refers to.
func (e *DeckError) WithPath(path string) *DeckError {
	e.Path = path

	return e
}

// Common error codes.
const (
	ErrCodeBadToken        = "ERR_BAD_TOKEN"
	ErrCodeExclusiveOpts   = "ERR_EXCLUSIVE_OPTIONS"
	ErrCodeArchiveMissing  = "ERR_ARCHIVE_MISSING"
	ErrCodeDeckExists      = "ERR_DECK_EXISTS"
	ErrCodeEntryMissing    = "ERR_ENTRY_MISSING"
	ErrCodeExtractFailed   = "ERR_EXTRACT_FAILED"
	ErrCodeBadFormat       = "ERR_BAD_FORMAT"
	ErrCodeConfigInvalid   = "ERR_CONFIG_INVALID"
	ErrCodeMarkupUnparsed  = "ERR_MARKUP_UNPARSED"
	ErrCodeInternalFailure = "ERR_INTERNAL"
)

// NewConfigError creates a configuration error. Always fatal.
func NewConfigError(code, message string) *DeckError {
	return &DeckError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewConflictError creates a conflict error, used when a deck directory
// already occupies the target path. Always fatal.
func NewConflictError(code, message string) *DeckError {
	return &DeckError{
		Type:    ErrorTypeConflict,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *DeckError {
	return &DeckError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

// NewIOError creates an I/O error wrapping its cause.
func NewIOError(code, message string, cause error) *DeckError {
	return &DeckError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInternalError creates an internal error wrapping its cause.
func NewInternalError(code, message string, cause error) *DeckError {
	return &DeckError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsConfigError reports whether err is a configuration error.
func IsConfigError(err error) bool {
	var de *DeckError
	if errors.As(err, &de) {
		return de.Type == ErrorTypeConfig
	}

	return false
}

// IsConflictError reports whether err is a conflict error.
func IsConflictError(err error) bool {
	var de *DeckError
	if errors.As(err, &de) {
		return de.Type == ErrorTypeConflict
	}

	return false
}

// Helper constructors for the common cases.

// ErrBadToken creates a grammar error naming the offending token.
func ErrBadToken(token string) *DeckError {
	return NewConfigError(ErrCodeBadToken, "invalid structure token: "+token).
		WithContext("token", token)
}

// ErrExclusiveOptions creates an error for mutually exclusive options.
func ErrExclusiveOptions(a, b string) *DeckError {
	return NewConfigError(
		ErrCodeExclusiveOpts,
		fmt.Sprintf("options %s and %s are mutually exclusive", a, b),
	)
}

// ErrArchiveMissing creates an error for a missing template archive.
func ErrArchiveMissing(path string) *DeckError {
	return NewConfigError(ErrCodeArchiveMissing, "template archive not found").
		WithPath(path)
}

// ErrDeckExists creates a conflict error for an occupied deck directory.
func ErrDeckExists(path string) *DeckError {
	return NewConflictError(ErrCodeDeckExists, "deck directory already exists").
		WithPath(path)
}
