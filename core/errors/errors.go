// Package errors provides the standardized error taxonomy for the osmxml codec.
//
// Every failure mode of the codec unwraps to one of the sentinel errors below,
// so callers can classify with errors.Is while the concrete error types carry
// enough context (offending key, raw value, shape) for reporting.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the codec failure modes
var (
	// ErrDecode indicates the input is not valid UTF-8
	ErrDecode = errors.New("invalid byte sequence")
	// ErrMalformed indicates an XML syntax error from the tokenizer
	ErrMalformed = errors.New("malformed xml")
	// ErrNestingTooDeep indicates the element stack bound was reached
	ErrNestingTooDeep = errors.New("nesting too deep")
	// ErrInvalidFormat indicates a value failed key-driven coercion
	ErrInvalidFormat = errors.New("invalid format")
	// ErrEmptyDocument indicates the input produced no root element
	ErrEmptyDocument = errors.New("empty document")
	// ErrInvalidRoot indicates unparse input without exactly one string-keyed entry
	ErrInvalidRoot = errors.New("invalid root")
	// ErrInvalidTimezone indicates a timestamp with a non-UTC zone
	ErrInvalidTimezone = errors.New("timezone must be UTC")
	// ErrRootMultiValue indicates a root sequence with multiple non-pair entries
	ErrRootMultiValue = errors.New("root element cannot contain multiple values")
	// ErrNestedSequence indicates a sequence directly inside a sequence
	ErrNestedSequence = errors.New("nested sequence not allowed")
	// ErrTypeMismatch indicates a value of a kind the operation cannot accept
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrInputTooBig indicates the input exceeded the configured size limit
	ErrInputTooBig = errors.New("input too big")
)

// SyntaxError represents a tokenizer-level XML syntax error
type SyntaxError struct {
	Message string // Error details from the underlying parser
	Err     error  // Underlying error, if any
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed xml: %s", e.Message)
}

func (e *SyntaxError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformed, e.Err}
	}
	return []error{ErrMalformed}
}

// InvalidFormatError represents a coercion failure for a specific key
type InvalidFormatError struct {
	Key string // Attribute or element name that selected the coercion rule
	Raw string // Raw text that failed to coerce
	Err error  // Underlying error, if any
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid %s value %q", e.Key, e.Raw)
}

func (e *InvalidFormatError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidFormat, e.Err}
	}
	return []error{ErrInvalidFormat}
}

// NestingError represents an element stack overflow during parsing
type NestingError struct {
	Limit int // Configured stack bound
}

func (e *NestingError) Error() string {
	return fmt.Sprintf("xml nesting depth exceeded limit of %d", e.Limit)
}

func (e *NestingError) Unwrap() error {
	return ErrNestingTooDeep
}

// InvalidRootError represents unparse input whose top level is not a
// single-entry mapping
type InvalidRootError struct {
	Count int // Number of top-level entries found
}

func (e *InvalidRootError) Error() string {
	return fmt.Sprintf("invalid root element count %d", e.Count)
}

func (e *InvalidRootError) Unwrap() error {
	return ErrInvalidRoot
}

// TimezoneError represents a timestamp that cannot be serialized because its
// zone is not UTC
type TimezoneError struct {
	Zone   string // Zone name of the offending timestamp
	Offset int    // Zone offset in seconds east of UTC
}

func (e *TimezoneError) Error() string {
	return fmt.Sprintf("timezone must be UTC, got %s (offset %ds)", e.Zone, e.Offset)
}

func (e *TimezoneError) Unwrap() error {
	return ErrInvalidTimezone
}

// TypeMismatchError represents a value whose kind the current operation
// cannot accept
type TypeMismatchError struct {
	Expected string // Description of the accepted kinds
	Got      string // Kind that was found
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Expected, e.Got)
}

func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// SizeError represents an input buffer exceeding the configured limit
type SizeError struct {
	Size  int // Input size in bytes
	Limit int // Configured limit in bytes
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("input of %d bytes exceeds limit of %d", e.Size, e.Limit)
}

func (e *SizeError) Unwrap() error {
	return ErrInputTooBig
}

// Helper functions for creating common errors

// NewSyntax creates a SyntaxError wrapping a tokenizer error
func NewSyntax(err error) *SyntaxError {
	return &SyntaxError{
		Message: err.Error(),
		Err:     err,
	}
}

// NewInvalidFormat creates an InvalidFormatError
func NewInvalidFormat(key, raw string, err error) *InvalidFormatError {
	return &InvalidFormatError{
		Key: key,
		Raw: raw,
		Err: err,
	}
}

// NewNesting creates a NestingError
func NewNesting(limit int) *NestingError {
	return &NestingError{
		Limit: limit,
	}
}

// NewInvalidRoot creates an InvalidRootError
func NewInvalidRoot(count int) *InvalidRootError {
	return &InvalidRootError{
		Count: count,
	}
}

// NewTimezone creates a TimezoneError
func NewTimezone(zone string, offset int) *TimezoneError {
	return &TimezoneError{
		Zone:   zone,
		Offset: offset,
	}
}

// NewTypeMismatch creates a TypeMismatchError
func NewTypeMismatch(expected, got string) *TypeMismatchError {
	return &TypeMismatchError{
		Expected: expected,
		Got:      got,
	}
}

// NewSize creates a SizeError
func NewSize(size, limit int) *SizeError {
	return &SizeError{
		Size:  size,
		Limit: limit,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
