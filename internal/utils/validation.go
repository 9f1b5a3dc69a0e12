package utils

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// FieldError reports a rejected value
type FieldError struct {
	Field  string
	Value  any
	Reason string
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Reason
	}
	if s, ok := e.Value.(string); ok {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, s, e.Reason)
	}
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Rule inspects a value and returns why it is rejected, or "" when it passes
type Rule[T any] func(T) string

// Check applies rules to value in order and returns a FieldError for the
// first rule that rejects it
func Check[T any](field string, value T, rules ...Rule[T]) error {
	for _, rule := range rules {
		if reason := rule(value); reason != "" {
			return FieldError{Field: field, Value: value, Reason: reason}
		}
	}
	return nil
}

// Required rejects blank strings
func Required() Rule[string] {
	return func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "cannot be empty"
		}
		return ""
	}
}

// Pattern rejects strings not matching expr
func Pattern(expr string) Rule[string] {
	re := regexp.MustCompile(expr)
	return func(s string) string {
		if re.MatchString(s) {
			return ""
		}
		return fmt.Sprintf("must match pattern '%s'", expr)
	}
}

// OneOf rejects values outside allowed
func OneOf[T comparable](allowed ...T) Rule[T] {
	return func(v T) string {
		if slices.Contains(allowed, v) {
			return ""
		}
		return fmt.Sprintf("must be one of: %v", allowed)
	}
}

// Between rejects ints outside [lo, hi]
func Between(lo, hi int) Rule[int] {
	return func(n int) string {
		if n < lo || n > hi {
			return fmt.Sprintf("must be between %d and %d", lo, hi)
		}
		return ""
	}
}

// NonEmpty rejects empty slices
func NonEmpty[S ~[]E, E any](reason string) Rule[S] {
	return func(s S) string {
		if len(s) == 0 {
			return reason
		}
		return ""
	}
}

// Satisfies rejects values for which ok returns false
func Satisfies[T any](reason string, ok func(T) bool) Rule[T] {
	return func(v T) string {
		if ok(v) {
			return ""
		}
		return reason
	}
}
