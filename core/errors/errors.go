// Package errors provides standardized error types and helpers for the
// chordshow codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrMalformedDirective indicates an unterminated {...} directive.
	// Fatal for the document it appears in; the batch continues.
	ErrMalformedDirective = errors.New("malformed directive")
	// ErrMetadataNotFound indicates no metadata record matches a song's
	// source identifier. Non-fatal; enrichment becomes a no-op.
	ErrMetadataNotFound = errors.New("metadata not found")
	// ErrSchemaViolation indicates the presentation serializer was handed
	// a song that violates its structural invariants.
	ErrSchemaViolation = errors.New("schema violation")
	// ErrNotFound indicates a resource was not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnavailable indicates a remote resource could not be fetched.
	ErrUnavailable = errors.New("unavailable")
)

// DirectiveError reports an unterminated directive with its location.
type DirectiveError struct {
	Line int    // 1-based line number in the source document
	Text string // offending line text
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("malformed directive at line %d: %q", e.Line, e.Text)
}

func (e *DirectiveError) Unwrap() error {
	return ErrMalformedDirective
}

// MetadataError reports a missing metadata record for a source.
type MetadataError struct {
	Source string // source identifier that had no record
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("no metadata record for %s", e.Source)
}

func (e *MetadataError) Unwrap() error {
	return ErrMetadataNotFound
}

// SchemaError reports a structural violation found during presentation
// serialization.
type SchemaError struct {
	Section int    // index of the offending section, -1 if not section-scoped
	Reason  string // human-readable explanation
}

func (e *SchemaError) Error() string {
	if e.Section >= 0 {
		return fmt.Sprintf("presentation schema violation in section %d: %s", e.Section, e.Reason)
	}
	return fmt.Sprintf("presentation schema violation: %s", e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaViolation
}

// ParseError represents a parsing or deserialization error outside the
// directive taxonomy (CSV, config, JSON).
type ParseError struct {
	Format  string // format being parsed (e.g. "CSV", "YAML")
	Path    string // file path, if applicable
	Message string // error details
	Err     error  // underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// FetchError reports a download failure after retries were exhausted.
type FetchError struct {
	URL      string // resource URL
	Attempts int    // number of attempts made
	Err      error  // last underlying error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnavailable
}

// Helper functions for creating common errors

// NewDirective creates a DirectiveError.
func NewDirective(line int, text string) *DirectiveError {
	return &DirectiveError{Line: line, Text: text}
}

// NewMetadata creates a MetadataError.
func NewMetadata(source string) *MetadataError {
	return &MetadataError{Source: source}
}

// NewSchema creates a SchemaError.
func NewSchema(section int, reason string) *SchemaError {
	return &SchemaError{Section: section, Reason: reason}
}

// NewParse creates a ParseError.
func NewParse(format, path, message string) *ParseError {
	return &ParseError{Format: format, Path: path, Message: message}
}

// NewFetch creates a FetchError.
func NewFetch(url string, attempts int, err error) *FetchError {
	return &FetchError{URL: url, Attempts: attempts, Err: err}
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
