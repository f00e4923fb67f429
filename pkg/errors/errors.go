// Package errors provides custom error types for the doccov system.
// These errors enable programmatic error checking across the extraction,
// resolution and matching stages and carry enough context to explain a
// failed run to the caller.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the doccov system
var (
	// ErrNotFound indicates that a requested file or directory was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")

	// ErrIncomplete indicates that a run stopped before producing a report
	ErrIncomplete = errors.New("incomplete run")

	// ErrCycle indicates a cycle in the router mount graph
	ErrCycle = errors.New("mount cycle")

	// ErrBelowThreshold indicates documentation coverage under a required minimum
	ErrBelowThreshold = errors.New("coverage below threshold")
)

// NotFoundError represents an error when a file or directory is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing a source or documentation file
type ParseError struct {
	Format  string // "python", "markdown", "yaml"
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "stat", "walk", "write"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// CycleError reports routers whose mount chain loops back on itself.
type CycleError struct {
	Routers []string
}

// Error implements the error interface
func (e *CycleError) Error() string {
	return fmt.Sprintf("mount cycle: %s", strings.Join(e.Routers, " -> "))
}

// Is implements errors.Is support
func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}

// NewCycleError creates a new CycleError
func NewCycleError(routers []string) *CycleError {
	return &CycleError{Routers: routers}
}

// IncompleteError is returned instead of a report when a run is stopped
// part way through a stage.
type IncompleteError struct {
	Stage     string // "routes", "references", "match"
	Processed int
	Total     int
	Err       error
}

// Error implements the error interface
func (e *IncompleteError) Error() string {
	if e.Total > 0 {
		return fmt.Sprintf("%s stage incomplete after %d of %d files: %v", e.Stage, e.Processed, e.Total, e.Err)
	}
	return fmt.Sprintf("%s stage incomplete: %v", e.Stage, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IncompleteError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncomplete || target == ErrCanceled
}

// NewIncompleteError creates a new IncompleteError
func NewIncompleteError(stage string, processed, total int, err error) *IncompleteError {
	return &IncompleteError{
		Stage:     stage,
		Processed: processed,
		Total:     total,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// IsIncomplete checks if a run ended without a report
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncomplete)
}

// IsCycle checks if an error reports a mount cycle
func IsCycle(err error) bool {
	return errors.Is(err, ErrCycle)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
