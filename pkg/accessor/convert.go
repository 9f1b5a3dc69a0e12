package accessor

import "reflect"

// Convert converts a validated value to the storage type T.
// It reports false when v cannot be stored as T.
func Convert[T any](v any) (T, bool) {
	var zero T
	if v == nil {
		return zero, true
	}
	if typed, ok := v.(T); ok {
		return typed, true
	}

	out, ok := convertValue(reflect.ValueOf(v), reflect.TypeFor[T]())
	if !ok {
		return zero, false
	}
	if !out.IsValid() {
		return zero, true
	}
	typed, ok := out.Interface().(T)
	if !ok {
		return zero, true
	}
	return typed, true
}

// As is Convert without the ok result; unconvertible values become the zero value
func As[T any](v any) T {
	out, _ := Convert[T](v)
	return out
}

func convertValue(rv reflect.Value, target reflect.Type) (reflect.Value, bool) {
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Zero(target), true
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return reflect.Zero(target), true
	}

	t := rv.Type()
	switch {
	case t.AssignableTo(target):
		out := reflect.New(target).Elem()
		out.Set(rv)
		return out, true
	case target.Kind() == reflect.Pointer && t.AssignableTo(target.Elem()):
		p := reflect.New(target.Elem())
		p.Elem().Set(rv)
		return p, true
	case target.Kind() == reflect.Slice && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array):
		out := reflect.MakeSlice(target, rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem, ok := convertValue(rv.Index(i), target.Elem())
			if !ok {
				return reflect.Value{}, false
			}
			out.Index(i).Set(elem)
		}
		return out, true
	case sameFamily(rv.Kind(), target.Kind()) && t.ConvertibleTo(target):
		return rv.Convert(target), true
	}
	return reflect.Value{}, false
}

func sameFamily(a, b reflect.Kind) bool {
	return kindFamily(a) != 0 && kindFamily(a) == kindFamily(b)
}

func kindFamily(k reflect.Kind) int {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return 1
	case reflect.Float32, reflect.Float64:
		return 2
	case reflect.String:
		return 3
	case reflect.Bool:
		return 4
	}
	return 0
}

// Equal reports whether a and b are the same element: value equality for
// scalars, == for comparable values (identity for pointers), deep equality otherwise
func Equal(a, b any) bool {
	if isNull(a) || isNull(b) {
		return isNull(a) && isNull(b)
	}
	if reflect.TypeOf(a) == reflect.TypeOf(b) && reflect.ValueOf(a).Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// ContainsElement reports whether s holds an element equal to v
func ContainsElement[S ~[]E, E any](s S, v E) bool {
	return indexOf(s, v) >= 0
}

// RemoveElement returns s without its first element equal to v. s is returned
// unchanged when no such element exists.
func RemoveElement[S ~[]E, E any](s S, v E) S {
	i := indexOf(s, v)
	if i < 0 {
		return s
	}
	out := make(S, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

func indexOf[S ~[]E, E any](s S, v E) int {
	for i, e := range s {
		if Equal(any(e), any(v)) {
			return i
		}
	}
	return -1
}
