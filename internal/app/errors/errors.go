package errors

import (
	"fmt"
	"strings"
)

// Kind classifies pipeline errors. Two errors of the same kind match under errors.Is.
type Kind string

const (
	KindIngestion  Kind = "ingestion"
	KindConversion Kind = "conversion"
	KindExtraction Kind = "extraction"
	KindStore      Kind = "store"
	KindNotFound   Kind = "not_found"
	KindJobFailed  Kind = "job_failed"
	KindConfig     Kind = "config"
)

// Common error types
var (
	// Pipeline stage errors
	ErrIngestion  = newKind(KindIngestion, "ingestion failed")
	ErrConversion = newKind(KindConversion, "conversion failed")
	ErrExtraction = newKind(KindExtraction, "caption extraction failed")

	// Store errors
	ErrStore    = newKind(KindStore, "store operation failed")
	ErrNotFound = newKind(KindNotFound, "artifact not found")

	// ErrJobFailed is the only failure a pipeline caller sees; the stage cause stays on the job.
	ErrJobFailed = newKind(KindJobFailed, "error processing file")

	// Configuration errors
	ErrInvalidConfig = newKind(KindConfig, "invalid configuration")
)

// Error represents a standardized error
type Error struct {
	kind    Kind
	message string
	cause   error
}

func newKind(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		kind:    KindOf(err),
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		kind:    KindOf(err),
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// WithKind creates an error of the given kind. cause may be nil.
func WithKind(kind Kind, cause error, format string, args ...interface{}) error {
	return &Error{
		kind:    kind,
		message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
}

// Ingestion, Conversion, Extraction, Store and NotFound build stage errors.
func Ingestion(cause error, format string, args ...interface{}) error {
	return WithKind(KindIngestion, cause, format, args...)
}

func Conversion(cause error, format string, args ...interface{}) error {
	return WithKind(KindConversion, cause, format, args...)
}

func Extraction(cause error, format string, args ...interface{}) error {
	return WithKind(KindExtraction, cause, format, args...)
}

func Store(cause error, format string, args ...interface{}) error {
	return WithKind(KindStore, cause, format, args...)
}

func NotFound(itemType string, identifier string) error {
	return WithKind(KindNotFound, nil, "%s not found: %s", itemType, identifier)
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Kind returns the error kind, empty for plain errors.
func (e *Error) Kind() Kind {
	return e.kind
}

// Is reports a match when both errors carry the same non-empty kind,
// falling back to message equality for kindless errors.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.kind != "" || t.kind != "" {
		return e.kind == t.kind
	}
	return e.message == t.message
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok && e.kind != "" {
			return e.kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// Helper functions for common patterns

// RequiredField returns an error for missing required fields
func RequiredField(field string) error {
	return WithKind(KindConfig, nil, "%s is required", field)
}

// InvalidField returns an error for invalid field values
func InvalidField(field string, reason string) error {
	return WithKind(KindConfig, nil, "%s is invalid: %s", field, reason)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	if KindOf(err) == KindConfig {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "required") ||
		strings.Contains(msg, "invalid")
}
