package accessor

import (
	"fmt"
	"reflect"
)

// Instance is a class realized as a dispatch table of validated closures over
// one set of backing values. It is not safe for concurrent use.
type Instance struct {
	class   Class
	values  map[string]any
	methods map[string]boundMethod
}

type boundMethod struct {
	spec Method
	call func(args []any) (any, error)
}

// Bind realizes class as an Instance. Object type names are resolved through
// registry (DefaultRegistry when nil); an unresolvable name fails the binding.
func Bind(class Class, registry *TypeRegistry) (*Instance, error) {
	if registry == nil {
		registry = DefaultRegistry
	}

	inst := &Instance{
		class:   class,
		values:  make(map[string]any, len(class.Properties)),
		methods: make(map[string]boundMethod, len(class.Methods)),
	}

	checkers := make(map[string]Checker, len(class.Properties))
	for _, prop := range class.Properties {
		checker, err := checkerFor(prop.Type, registry)
		if err != nil {
			return nil, fmt.Errorf("class %s property %s: %w", class.Name, prop.Name, err)
		}
		checkers[prop.Name] = checker
		if prop.Type.IsCollection() {
			inst.values[prop.Name] = []any{}
		}
	}

	for _, m := range class.Methods {
		checker, ok := checkers[m.Property]
		if !ok {
			return nil, fmt.Errorf("class %s method %s: unknown property %q", class.Name, m.Name, m.Property)
		}
		if _, exists := inst.methods[m.Name]; exists {
			return nil, fmt.Errorf("class %s: duplicate method %s", class.Name, m.Name)
		}
		inst.methods[m.Name] = boundMethod{spec: m, call: inst.closure(m, checker)}
	}

	return inst, nil
}

func checkerFor(t Type, registry *TypeRegistry) (Checker, error) {
	if t.Kind != Object && t.Kind != ArrayOfObject {
		return NewChecker(t, nil), nil
	}
	resolved, ok := registry.Lookup(t.ElementTypeName)
	if !ok {
		return Checker{}, fmt.Errorf("%w: %s", ErrUnresolvedType, t.ElementDisplay())
	}
	return NewChecker(t, resolved), nil
}

// Class returns the class the instance was bound from
func (i *Instance) Class() Class {
	return i.class
}

// Methods returns the bound methods in class order
func (i *Instance) Methods() []Method {
	methods := make([]Method, len(i.class.Methods))
	copy(methods, i.class.Methods)
	return methods
}

// Call invokes a public accessor
func (i *Instance) Call(name string, args ...any) (any, error) {
	m, ok := i.methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, name)
	}
	if m.spec.Visibility != Public {
		return nil, fmt.Errorf("%w: %s is %s", ErrMethodNotVisible, name, m.spec.Visibility)
	}
	return m.call(args)
}

// Invoke invokes an accessor regardless of its visibility
func (i *Instance) Invoke(name string, args ...any) (any, error) {
	m, ok := i.methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, name)
	}
	return m.call(args)
}

func (i *Instance) closure(m Method, checker Checker) func(args []any) (any, error) {
	prop := m.Property
	collection := checker.Type().IsCollection()

	switch m.Operation {
	case Get:
		return func(args []any) (any, error) {
			if err := arity(m, args, 0); err != nil {
				return nil, err
			}
			if collection {
				return cloneSequence(i.values[prop]), nil
			}
			return i.values[prop], nil
		}
	case Set:
		return func(args []any) (any, error) {
			if err := arity(m, args, 1); err != nil {
				return nil, err
			}
			value := args[0]
			if err := checker.CheckValue(value); err != nil {
				return nil, err
			}
			switch {
			case isNull(value):
				value = nil
			case collection:
				value = cloneSequence(value)
			}
			i.values[prop] = value
			return nil, nil
		}
	case Add:
		return func(args []any) (any, error) {
			if err := arity(m, args, 1); err != nil {
				return nil, err
			}
			if err := checker.CheckElement(args[0]); err != nil {
				return nil, err
			}
			i.values[prop] = appendValue(i.values[prop], args[0])
			return nil, nil
		}
	case Remove:
		return func(args []any) (any, error) {
			if err := arity(m, args, 1); err != nil {
				return nil, err
			}
			if err := checker.CheckElement(args[0]); err != nil {
				return nil, err
			}
			i.values[prop] = removeValue(i.values[prop], args[0])
			return nil, nil
		}
	case Contains:
		return func(args []any) (any, error) {
			if err := arity(m, args, 1); err != nil {
				return false, err
			}
			if err := checker.CheckElement(args[0]); err != nil {
				return false, err
			}
			return indexOfValue(i.values[prop], args[0]) >= 0, nil
		}
	}

	return func([]any) (any, error) {
		return nil, fmt.Errorf("%w: %s has unsupported operation %s", ErrUnknownMethod, m.Name, m.Operation)
	}
}

func arity(m Method, args []any, want int) error {
	if len(args) != want {
		return fmt.Errorf("%w: %s expects %d, got %d", ErrArgumentCount, m.Name, want, len(args))
	}
	return nil
}

// cloneSequence copies a slice (arrays become []any) so callers never alias
// the backing storage. Nil slices stay nil.
func cloneSequence(seq any) any {
	if seq == nil {
		return nil
	}
	rv := reflect.ValueOf(seq)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return seq
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		return out.Interface()
	case reflect.Array:
		return toAnySlice(rv)
	}
	return seq
}

func toAnySlice(rv reflect.Value) []any {
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func appendValue(seq any, elem any) any {
	if seq == nil {
		return []any{elem}
	}
	rv := reflect.ValueOf(seq)
	ev := reflect.ValueOf(elem)
	if ev.Type().AssignableTo(rv.Type().Elem()) {
		return reflect.Append(rv, ev).Interface()
	}
	return append(toAnySlice(rv), elem)
}

func indexOfValue(seq any, elem any) int {
	if seq == nil {
		return -1
	}
	rv := reflect.ValueOf(seq)
	for i := 0; i < rv.Len(); i++ {
		if Equal(rv.Index(i).Interface(), elem) {
			return i
		}
	}
	return -1
}

func removeValue(seq any, elem any) any {
	i := indexOfValue(seq, elem)
	if i < 0 {
		return seq
	}
	rv := reflect.ValueOf(seq)
	out := reflect.MakeSlice(rv.Type(), 0, rv.Len()-1)
	out = reflect.AppendSlice(out, rv.Slice(0, i))
	out = reflect.AppendSlice(out, rv.Slice(i+1, rv.Len()))
	return out.Interface()
}
