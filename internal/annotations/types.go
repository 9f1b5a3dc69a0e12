package annotations

// VarTag is the reserved tag carrying a property's type expression
const VarTag = "var"

// Property is the introspection handle of one struct field
type Property interface {
	// DeclaringClass returns the logical name of the struct declaring the field
	DeclaringClass() string
	// Name returns the field name
	Name() string
	// DocComment returns the raw documentation text, or "" when there is none
	DocComment() string
}

// Field is one key="value" pair of an occurrence's field list
type Field struct {
	Name  string
	Value string
}

// Occurrence is one parsed appearance of a tag in a documentation block.
// It carries either a bare value or a field list, never both.
type Occurrence struct {
	Name   string  // tag identifier, e.g. Get or var
	Value  string  // bare value, "" when the field form was used
	Fields []Field // ordered, duplicates kept

	err error // set when the field list could not be parsed
}

// HasValue reports whether the occurrence carries a bare value
func (o Occurrence) HasValue() bool {
	return o.Value != ""
}

// Field returns the value of the first field called name
func (o Occurrence) Field(name string) (string, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Err returns the parse failure of a malformed occurrence
func (o Occurrence) Err() error {
	return o.err
}

// Malformed reports whether the occurrence's field list failed to parse
func (o Occurrence) Malformed() bool {
	return o.err != nil
}

func (o Occurrence) withName(name string) Occurrence {
	o.Name = name
	if o.Fields != nil {
		fields := make([]Field, len(o.Fields))
		copy(fields, o.Fields)
		o.Fields = fields
	}
	return o
}

// Provider resolves annotation occurrences for a property. The singular
// form fails with a NotFound Error when nothing matches; the plural form
// returns an empty slice instead.
type Provider interface {
	Annotation(p Property, name string) (Occurrence, error)
	Annotations(p Property, name string) ([]Occurrence, error)
}

func propertyKey(p Property) string {
	return p.DeclaringClass() + "." + p.Name()
}
