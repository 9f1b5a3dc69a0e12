package annotations

import (
	"errors"
	"fmt"
)

// Kind classifies a provider failure
type Kind int

const (
	// NotFound means the requested tag is absent (or, for @var, present but empty)
	NotFound Kind = iota
	// Malformed means the tag is present but its field list cannot be parsed
	Malformed
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case Malformed:
		return "Malformed"
	default:
		return "Unknown"
	}
}

// Error is returned by providers. It always names the requested tag.
type Error struct {
	Kind     Kind
	Property Property
	Name     string // requested tag name
	Err      error  // underlying parse failure for Malformed
}

func (e *Error) Error() string {
	target := "<unknown property>"
	if e.Property != nil {
		target = propertyKey(e.Property)
	}

	switch e.Kind {
	case Malformed:
		return fmt.Sprintf("annotation @%s on %s is malformed: %v", e.Name, target, e.Err)
	default:
		return fmt.Sprintf("annotation @%s not found on %s", e.Name, target)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a NotFound provider failure
func IsNotFound(err error) bool {
	var target *Error
	return errors.As(err, &target) && target.Kind == NotFound
}

// IsMalformed reports whether err is a Malformed provider failure
func IsMalformed(err error) bool {
	var target *Error
	return errors.As(err, &target) && target.Kind == Malformed
}

func notFound(p Property, name string) *Error {
	return &Error{Kind: NotFound, Property: p, Name: name}
}

// SyntaxError describes a field list that could not be parsed
type SyntaxError struct {
	Tag  string
	Line int // 1-based line within the documentation text
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: @%s: %s", e.Line, e.Tag, e.Msg)
}
