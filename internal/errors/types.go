package errors

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
)

// GeneratorError is implemented by every error accessorgen reports
type GeneratorError interface {
	error
	ErrorCode() ErrorCode
	Location() SourceLocation
	Context() map[string]interface{}
	Suggestions() []string
	Unwrap() error
}

// ErrorCode classifies a GeneratorError
type ErrorCode int

const (
	UnknownErrorCode ErrorCode = iota
	SyntaxErrorCode
	ValidationErrorCode
	GenerationErrorCode
	TemplateErrorCode
	FileSystemErrorCode
	ClassMapErrorCode
	ConfigurationErrorCode
)

var codeNames = [...]string{
	UnknownErrorCode:       "UnknownError",
	SyntaxErrorCode:        "SyntaxError",
	ValidationErrorCode:    "ValidationError",
	GenerationErrorCode:    "GenerationError",
	TemplateErrorCode:      "TemplateError",
	FileSystemErrorCode:    "FileSystemError",
	ClassMapErrorCode:      "ClassMapError",
	ConfigurationErrorCode: "ConfigurationError",
}

func (c ErrorCode) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return codeNames[UnknownErrorCode]
	}
	return codeNames[c]
}

// SourceLocation points at a file, optionally a line and column (1-based)
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

func (s SourceLocation) String() string {
	if s.IsEmpty() {
		return "unknown location"
	}
	parts := []string{s.File}
	if s.Line > 0 {
		parts = append(parts, strconv.Itoa(s.Line))
		if s.Column > 0 {
			parts = append(parts, strconv.Itoa(s.Column))
		}
	}
	return strings.Join(parts, ":")
}

// IsEmpty reports whether the location names no file
func (s SourceLocation) IsEmpty() bool {
	return s.File == ""
}

// BaseError is the common GeneratorError implementation. The With* methods
// modify the error in place and return it for chaining.
type BaseError struct {
	Code        ErrorCode
	Message     string
	Loc         SourceLocation
	Cause       error
	ContextData map[string]interface{}
	Hints       []string
}

// Error renders "<location>: <message>: <cause>", omitting absent parts
func (e *BaseError) Error() string {
	var b strings.Builder
	if !e.Loc.IsEmpty() {
		b.WriteString(e.Loc.String())
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *BaseError) ErrorCode() ErrorCode     { return e.Code }
func (e *BaseError) Location() SourceLocation { return e.Loc }
func (e *BaseError) Suggestions() []string    { return e.Hints }
func (e *BaseError) Unwrap() error            { return e.Cause }

// Context returns a copy of the context data
func (e *BaseError) Context() map[string]interface{} {
	ctx := make(map[string]interface{}, len(e.ContextData))
	maps.Copy(ctx, e.ContextData)
	return ctx
}

func (e *BaseError) WithLocation(loc SourceLocation) *BaseError {
	e.Loc = loc
	return e
}

func (e *BaseError) WithCause(cause error) *BaseError {
	e.Cause = cause
	return e
}

func (e *BaseError) WithContext(key string, value interface{}) *BaseError {
	if e.ContextData == nil {
		e.ContextData = map[string]interface{}{}
	}
	e.ContextData[key] = value
	return e
}

func (e *BaseError) WithSuggestion(suggestion string) *BaseError {
	return e.WithSuggestions(suggestion)
}

func (e *BaseError) WithSuggestions(suggestions ...string) *BaseError {
	e.Hints = append(e.Hints, suggestions...)
	return e
}

// New creates an error without a cause
func New(code ErrorCode, message string) *BaseError {
	return Wrap(code, message, nil)
}

// Newf creates an error with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *BaseError {
	return Wrap(code, fmt.Sprintf(format, args...), nil)
}

// Wrap creates an error caused by cause
func Wrap(code ErrorCode, message string, cause error) *BaseError {
	return &BaseError{Code: code, Message: message, Cause: cause, Hints: []string{}}
}

// MultipleErrors aggregates the failures of one generation run. It is not
// a GeneratorError itself; errors.As and HasCode see through it.
type MultipleErrors struct {
	Errors []GeneratorError
}

// NewMultipleErrors creates an empty collection
func NewMultipleErrors() *MultipleErrors {
	return &MultipleErrors{Errors: []GeneratorError{}}
}

func (e *MultipleErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "multiple errors (%d total):", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, err)
	}
	return b.String()
}

func (e *MultipleErrors) Unwrap() []error {
	errs := make([]error, 0, len(e.Errors))
	for _, err := range e.Errors {
		errs = append(errs, err)
	}
	return errs
}

func (e *MultipleErrors) Add(err GeneratorError) { e.Errors = append(e.Errors, err) }
func (e *MultipleErrors) Count() int             { return len(e.Errors) }
func (e *MultipleErrors) IsEmpty() bool          { return len(e.Errors) == 0 }

// ErrOrNil returns nil for a nil or empty collection, otherwise e
func (e *MultipleErrors) ErrOrNil() error {
	if e == nil || e.IsEmpty() {
		return nil
	}
	return e
}
