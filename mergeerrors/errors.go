package mergeerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrConfigNotFound indicates the base document could not be loaded.
	ErrConfigNotFound = errors.New("config not found")

	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrBase indicates the base document is not a usable merge target.
	ErrBase = errors.New("invalid base document")

	// ErrInvalidFragment indicates a service fragment violated the compiler contract.
	ErrInvalidFragment = errors.New("invalid fragment")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrOutput indicates the merged document could not be written.
	ErrOutput = errors.New("output error")
)

// ConfigNotFoundError reports that the base document is missing or unusable.
// It is fatal: no fragment collection proceeds without a base.
type ConfigNotFoundError struct {
	// Path is the base document path that was requested
	Path string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigNotFoundError) Error() string {
	msg := "config not found"
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigNotFoundError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigNotFoundError) Is(target error) bool {
	return target == ErrConfigNotFound
}

// ParseError represents a failure to parse a YAML document.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// BaseError reports a base document that cannot receive merged clusters.
type BaseError struct {
	// Path is the dotted location inside the document (e.g., "static_resources.clusters")
	Path string
	// Message describes what is wrong at Path
	Message string
}

// Error returns a human-readable error message.
func (e *BaseError) Error() string {
	msg := "invalid base document"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *BaseError) Is(target error) bool {
	return target == ErrBase
}

// FragmentError reports a fragment passed to the compiler that is absent
// or carries absent entries. This is a caller contract violation, not an
// input problem, so it is never recovered.
type FragmentError struct {
	// Service identifies the fragment's service directory, if known
	Service string
	// Index is the fragment's position in the compile sequence
	Index int
	// Message describes the violation
	Message string
}

// Error returns a human-readable error message.
func (e *FragmentError) Error() string {
	msg := fmt.Sprintf("invalid fragment %d", e.Index)
	if e.Service != "" {
		msg += " (" + e.Service + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *FragmentError) Is(target error) bool {
	return target == ErrInvalidFragment
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// OutputError reports a failure writing the merged document.
type OutputError struct {
	// Path is the destination file
	Path string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *OutputError) Error() string {
	msg := "output error"
	if e.Path != "" {
		msg += " for " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *OutputError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *OutputError) Is(target error) bool {
	return target == ErrOutput
}
