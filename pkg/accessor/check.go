package accessor

import "reflect"

// TypeName returns the runtime type display of v.
//
// Absent values report "null", predeclared scalars report their scalar kind
// (every integer kind is "int", every float kind is "float"), unnamed slices and
// arrays report "array" and everything else reports its Go type string.
func TypeName(v any) string {
	if isNull(v) {
		return NullDisplay
	}

	t := reflect.TypeOf(v)
	if t.PkgPath() != "" {
		return t.String()
	}

	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "bool"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return "int"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.Slice, reflect.Array:
		return ArrayDisplay
	}
	return t.String()
}

// isNull reports whether v is absent: a nil interface or a nil pointer, map, func,
// chan or interface value. Nil slices are empty sequences, not null.
func isNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// isSequence reports whether v is an ordered sequence
func isSequence(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}

// Checker runs the type checks of one property
type Checker struct {
	typ  Type
	elem reflect.Type // resolved object type, nil for scalar kinds
}

// NewChecker creates a checker for t. elem is the resolved Go type of the object
// (or array element object) and is ignored for scalar kinds.
func NewChecker(t Type, elem reflect.Type) Checker {
	return Checker{typ: t, elem: elem}
}

// Type returns the descriptor the checker validates against
func (c Checker) Type() Type {
	return c.typ
}

// CheckValue validates a whole property value, as done by Set
func (c Checker) CheckValue(v any) error {
	if !c.typ.IsValidated() {
		return nil
	}

	if isNull(v) {
		if c.typ.Nullable {
			return nil
		}
		return &InvalidArgumentTypeError{Value: v, ValueType: NullDisplay, ExpectedTypes: c.typ.Display()}
	}

	if !c.typ.IsCollection() {
		if !c.matches(v) {
			return NewInvalidArgumentTypeError(v, c.typ.Display())
		}
		return nil
	}

	if !isSequence(v) {
		return NewInvalidArgumentTypeError(v, c.typ.Display())
	}
	rv := reflect.ValueOf(v)
	for i := 0; i < rv.Len(); i++ {
		if err := c.CheckElement(rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

// CheckElement validates one collection element, as done by Add, Remove and Contains
func (c Checker) CheckElement(v any) error {
	if !c.typ.IsValidated() {
		return nil
	}

	expected := c.typ.ElementDisplay()
	if isNull(v) {
		return &InvalidArgumentTypeError{Value: v, ValueType: NullDisplay, ExpectedTypes: expected}
	}
	if !c.matches(v) {
		return NewInvalidArgumentTypeError(v, expected)
	}
	return nil
}

func (c Checker) matches(v any) bool {
	switch c.typ.Kind {
	case Scalar, ArrayOfScalar:
		return scalarMatches(c.typ.ScalarName(), v)
	case Object, ArrayOfObject:
		return objectMatches(c.elem, v)
	}
	return true
}

func scalarMatches(canonical string, v any) bool {
	switch canonical {
	case "mixed":
		return true
	case ArrayDisplay:
		return isSequence(v)
	}
	return TypeName(v) == canonical
}

// objectMatches accepts any value whose type is assignable to the declared type,
// so implementations satisfy interfaces. For pointer types the pointee is accepted too.
func objectMatches(declared reflect.Type, v any) bool {
	if declared == nil {
		return true
	}
	t := reflect.TypeOf(v)
	if t.AssignableTo(declared) {
		return true
	}
	return declared.Kind() == reflect.Pointer && t.AssignableTo(declared.Elem())
}
