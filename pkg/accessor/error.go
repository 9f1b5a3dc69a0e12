package accessor

import (
	"errors"
	"fmt"
)

// InvalidArgumentTypeError is returned by a validating accessor when its argument
// does not match the declared type of the property
type InvalidArgumentTypeError struct {
	Value         any    // the offending value (an element for collection checks)
	ValueType     string // runtime type display of Value, "null" when absent
	ExpectedTypes string // expected type display as carried by the descriptor
}

// Error implements the error interface
func (e *InvalidArgumentTypeError) Error() string {
	return fmt.Sprintf("%s expected, %s [%s] given", e.ExpectedTypes, formatValue(e.Value), e.ValueType)
}

// NewInvalidArgumentTypeError creates an error for value with the given expected display
func NewInvalidArgumentTypeError(value any, expected string) *InvalidArgumentTypeError {
	return &InvalidArgumentTypeError{
		Value:         value,
		ValueType:     TypeName(value),
		ExpectedTypes: expected,
	}
}

// IsInvalidArgumentType reports whether err is (or wraps) an InvalidArgumentTypeError
func IsInvalidArgumentType(err error) bool {
	var target *InvalidArgumentTypeError
	return errors.As(err, &target)
}

// Errors returned by the dispatch backend
var (
	ErrUnknownMethod    = errors.New("unknown accessor method")
	ErrMethodNotVisible = errors.New("accessor method is not public")
	ErrArgumentCount    = errors.New("wrong number of arguments")
	ErrUnresolvedType   = errors.New("unresolved object type")
)

func formatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return NullDisplay
	case string:
		return fmt.Sprintf("%q", value)
	default:
		s := fmt.Sprintf("%v", value)
		if len(s) > 64 {
			s = s[:61] + "..."
		}
		return s
	}
}
