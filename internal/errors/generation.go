package errors

import (
	stderrors "errors"
	"fmt"
)

// Generation stages
const (
	StageSynthesize = "synthesize"
	StageRender     = "render"
	StageWrite      = "write"
	StagePublish    = "publish"
)

// GenerationError reports that a class could not be fully generated. No
// artifact is published for the class; other classes are unaffected.
type GenerationError struct {
	*BaseError
	Class    string // logical class name
	Property string // property that caused the failure, if any
	Stage    string // stage of generation where error occurred
}

// NewGenerationError creates a generation failure for class
func NewGenerationError(class, stage, message string) *GenerationError {
	return &GenerationError{
		BaseError: New(GenerationErrorCode, fmt.Sprintf("cannot generate %s: %s", class, message)),
		Class:     class,
		Stage:     stage,
	}
}

// NewGenerationErrorf creates a generation failure with a formatted message
func NewGenerationErrorf(class, stage, format string, args ...interface{}) *GenerationError {
	return NewGenerationError(class, stage, fmt.Sprintf(format, args...))
}

// WithProperty records the property that caused the failure
func (e *GenerationError) WithProperty(property string) *GenerationError {
	e.Property = property
	e.BaseError.WithContext("property", property)
	return e
}

// WithCause adds an underlying error cause
func (e *GenerationError) WithCause(cause error) *GenerationError {
	e.BaseError.WithCause(cause)
	return e
}

// WithLocation adds location information to the error
func (e *GenerationError) WithLocation(loc SourceLocation) *GenerationError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithSuggestion adds a helpful suggestion for fixing the error
func (e *GenerationError) WithSuggestion(suggestion string) *GenerationError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// IsGenerationFailure reports whether err is or wraps a GenerationError
func IsGenerationFailure(err error) bool {
	var target *GenerationError
	return stderrors.As(err, &target)
}

// HasCode reports whether any GeneratorError in err's tree has the given
// code. Every member of a MultipleErrors is searched.
func HasCode(err error, code ErrorCode) bool {
	switch e := err.(type) {
	case nil:
		return false
	case GeneratorError:
		return e.ErrorCode() == code || HasCode(e.Unwrap(), code)
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if HasCode(inner, code) {
				return true
			}
		}
		return false
	default:
		return HasCode(stderrors.Unwrap(err), code)
	}
}
