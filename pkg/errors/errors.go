// Package errors provides custom error types for the curio system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the reconciliation workflow.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the curio system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrPreconditionFailed indicates that a workflow precondition was not met
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrQueryTransient indicates a transient failure talking to the
	// knowledge base; the operation can be retried
	ErrQueryTransient = errors.New("transient query failure")

	// ErrPatternInvalid indicates a malformed constraint pattern
	ErrPatternInvalid = errors.New("invalid constraint pattern")

	// ErrStaleResponse indicates a response that arrived after a newer
	// request was issued for the same cell
	ErrStaleResponse = errors.New("stale response")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")

	// ErrReadOnly indicates an attempt to modify a read-only resource
	ErrReadOnly = errors.New("read only")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
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
	Value   interface{}
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
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// PreconditionError represents a failed workflow precondition, such as
// initializing the reconciliation store without any mapped properties.
// It is returned (never panicked) and blocks the operation entirely;
// no partial state is built when one is reported.
type PreconditionError struct {
	Condition string // Machine-checkable condition name, e.g. "dataset-non-empty"
	Message   string
}

// Error implements the error interface
func (e *PreconditionError) Error() string {
	if e.Condition != "" {
		return fmt.Sprintf("precondition %s failed: %s", e.Condition, e.Message)
	}
	return fmt.Sprintf("precondition failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPreconditionFailed
}

// NewPreconditionError creates a new PreconditionError
func NewPreconditionError(condition, message string) *PreconditionError {
	return &PreconditionError{Condition: condition, Message: message}
}

// QueryError represents a failure querying the knowledge base API.
// All query errors are classified as transient: the owning cell stays
// pending and the caller is expected to offer a retry.
type QueryError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *QueryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("query error from %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("query error from %s: %s", e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *QueryError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *QueryError) Is(target error) bool {
	return target == ErrQueryTransient
}

// NewQueryError creates a new QueryError
func NewQueryError(endpoint string, statusCode int, message string) *QueryError {
	return &QueryError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    message,
	}
}

// PatternError represents a malformed constraint pattern definition.
// Validation fails open on these: the property is treated as
// unconstrained rather than blocking the workflow.
type PatternError struct {
	Property string
	Pattern  string
	Err      error
}

// Error implements the error interface
func (e *PatternError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("invalid constraint pattern %q for property %s: %v", e.Pattern, e.Property, e.Err)
	}
	return fmt.Sprintf("invalid constraint pattern %q: %v", e.Pattern, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *PatternError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *PatternError) Is(target error) bool {
	return target == ErrPatternInvalid
}

// NewPatternError creates a new PatternError
func NewPatternError(property, pattern string, err error) *PatternError {
	return &PatternError{Property: property, Pattern: pattern, Err: err}
}

// StaleResponseError reports a knowledge-base response that lost the
// race against a newer request for the same cell and was discarded.
type StaleResponseError struct {
	Cell       string
	Generation uint64
	Latest     uint64
}

// Error implements the error interface
func (e *StaleResponseError) Error() string {
	return fmt.Sprintf("discarded stale response for cell %s (generation %d, latest %d)", e.Cell, e.Generation, e.Latest)
}

// Is implements errors.Is support
func (e *StaleResponseError) Is(target error) bool {
	return target == ErrStaleResponse
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", etc.
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
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
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete", "open", "close"
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

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsPreconditionFailed checks if an error is a failed precondition
func IsPreconditionFailed(err error) bool {
	return errors.Is(err, ErrPreconditionFailed)
}

// IsQueryTransient checks if an error is a retryable query failure
func IsQueryTransient(err error) bool {
	return errors.Is(err, ErrQueryTransient)
}

// IsPatternInvalid checks if an error is a malformed constraint pattern
func IsPatternInvalid(err error) bool {
	return errors.Is(err, ErrPatternInvalid)
}

// IsStaleResponse checks if an error reports a discarded stale response
func IsStaleResponse(err error) bool {
	return errors.Is(err, ErrStaleResponse)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
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

// WrapQuery wraps an error as a QueryError
func WrapQuery(endpoint string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &QueryError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}
