package accessor

import "strings"

// Kind classifies the declared type of a property
type Kind int

const (
	// Scalar is a built-in scalar such as string, int or bool
	Scalar Kind = iota
	// Object is a single named (non-scalar) type
	Object
	// ArrayOfScalar is a sequence of scalars, e.g. string[]
	ArrayOfScalar
	// ArrayOfObject is a sequence of named types, e.g. \Foo[]
	ArrayOfObject
	// RawExpression is an expression kept for display only, never validated
	RawExpression
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Object:
		return "object"
	case ArrayOfScalar:
		return "array_of_scalar"
	case ArrayOfObject:
		return "array_of_object"
	case RawExpression:
		return "raw_expression"
	default:
		return "unknown"
	}
}

// NullDisplay is the type display used for absent values
const NullDisplay = "null"

// ArrayDisplay is the type display used for sequences
const ArrayDisplay = "array"

// scalarNames maps every accepted scalar spelling to its canonical name.
// The canonical name is what TypeName reports for a value of that kind.
var scalarNames = map[string]string{
	"string":  "string",
	"int":     "int",
	"integer": "int",
	"bool":    "bool",
	"boolean": "bool",
	"float":   "float",
	"double":  "float",
	"float64": "float",
	"array":   "array",
	"mixed":   "mixed",
}

// IsScalarName reports whether name (leading backslash ignored) is a built-in scalar
func IsScalarName(name string) bool {
	_, ok := scalarNames[strings.TrimPrefix(name, `\`)]
	return ok
}

// CanonicalScalar returns the canonical spelling of a scalar name, or "" when name is not a scalar
func CanonicalScalar(name string) string {
	return scalarNames[strings.TrimPrefix(name, `\`)]
}

// Type is the resolved declared type of one property
type Type struct {
	Kind            Kind   // shape of the declared type
	Nullable        bool   // true iff the expression has a null alternative
	ElementTypeName string // scalar or object name; for arrays the element name
	RawExpression   string // original expression text, kept verbatim
}

// IsCollection reports whether the type is one of the array kinds
func (t Type) IsCollection() bool {
	return t.Kind == ArrayOfScalar || t.Kind == ArrayOfObject
}

// IsValidated reports whether accessors for this type run type checks
func (t Type) IsValidated() bool {
	return t.Kind != RawExpression
}

// ScalarName returns the canonical scalar name of the element type
func (t Type) ScalarName() string {
	return CanonicalScalar(t.ElementTypeName)
}

// Display returns the expected-type display used when a whole value is checked
func (t Type) Display() string {
	switch t.Kind {
	case RawExpression:
		return t.RawExpression
	case ArrayOfScalar, ArrayOfObject:
		if t.Nullable {
			return ArrayDisplay + "|" + NullDisplay
		}
		return ArrayDisplay
	}

	parts := strings.Split(t.RawExpression, "|")
	for i, part := range parts {
		parts[i] = strings.TrimPrefix(strings.TrimSpace(part), `\`)
	}
	return strings.Join(parts, "|")
}

// ElementDisplay returns the expected-type display used when a single element is checked
func (t Type) ElementDisplay() string {
	return strings.TrimPrefix(t.ElementTypeName, `\`)
}

// String returns the raw expression
func (t Type) String() string {
	return t.RawExpression
}
