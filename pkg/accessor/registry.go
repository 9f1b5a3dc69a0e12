package accessor

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"
)

// TypeRegistry resolves object type names used in type expressions to Go types.
// It is consulted by the dispatch backend when a class is bound.
type TypeRegistry struct {
	mutex sync.RWMutex
	types map[string]reflect.Type
}

// NewTypeRegistry creates a registry pre-populated with the standard object types
func NewTypeRegistry() *TypeRegistry {
	r := &TypeRegistry{
		types: make(map[string]reflect.Type),
	}
	RegisterType[time.Time](r, "time.Time")
	RegisterType[time.Duration](r, "time.Duration")
	RegisterType[fmt.Stringer](r, "fmt.Stringer")
	RegisterType[error](r, "error")
	return r
}

// DefaultRegistry is used by Bind when no registry is given
var DefaultRegistry = NewTypeRegistry()

// Register maps name to t, replacing any previous mapping
func (r *TypeRegistry) Register(name string, t reflect.Type) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.types[normalizeTypeName(name)] = t
}

// RegisterType maps name to the Go type T
func RegisterType[T any](r *TypeRegistry, name string) {
	r.Register(name, reflect.TypeFor[T]())
}

// Lookup resolves name. A leading backslash is ignored and backslash path
// separators also match their dotted form (\Foo\Bar matches Foo.Bar).
func (r *TypeRegistry) Lookup(name string) (reflect.Type, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	key := normalizeTypeName(name)
	if t, ok := r.types[key]; ok {
		return t, true
	}
	t, ok := r.types[strings.ReplaceAll(key, `\`, ".")]
	return t, ok
}

// Names returns all registered names, sorted
func (r *TypeRegistry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeTypeName(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), `\`)
}
