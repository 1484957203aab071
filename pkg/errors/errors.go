package errors

import (
	"errors"
	"fmt"
)

// Pipeline error taxonomy

var (
	// ErrSourceUnavailable indicates a single source failed (network, timeout, non-2xx, bad payload).
	// It is contained at the source boundary and never fails an aggregate fetch.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrNoDataFound indicates the merged, deduplicated corpus is empty
	ErrNoDataFound = errors.New("no data found")

	// ErrMalformedItem indicates an item has no usable text after normalization
	ErrMalformedItem = errors.New("malformed item")
)

// Generic errors

var (
	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("operation timeout")

	// ErrRateLimitExceeded indicates a source's rate-limit window could not admit the request
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrCircuitOpen indicates a source is short-circuited after repeated failures
	ErrCircuitOpen = errors.New("circuit open")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")
)

// SourceError ties a failure to the source that produced it
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

// Unwrap returns the wrapped error
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is reports every SourceError as ErrSourceUnavailable
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// NewSourceError wraps err as a failure of the named source
func NewSourceError(source string, err error) *SourceError {
	return &SourceError{Source: source, Err: err}
}

// MultiError wraps multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("multiple errors (%d): %v", len(m.Errors), m.Errors[0])
}

// Add adds an error to the list
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// Unwrap exposes the collected errors to Is and As
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// HasErrors returns true if there are any errors
func (m *MultiError) HasErrors() bool {
	return len(m.Errors) > 0
}

// ToError returns the MultiError as an error, or nil if no errors
func (m *MultiError) ToError() error {
	if !m.HasErrors() {
		return nil
	}
	return m
}

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
