package generator

import (
	"fmt"
	"go/token"

	"github.com/toyz/accessorgen/internal/annotations"
	"github.com/toyz/accessorgen/internal/errors"
	"github.com/toyz/accessorgen/internal/models"
	"github.com/toyz/accessorgen/pkg/accessor"
)

// Recognised occurrence fields
const (
	FieldName       = "name"
	FieldVisibility = "visibility"
)

// Synthesizer builds accessor specifications from property annotations
type Synthesizer struct {
	methods annotations.Provider
	types   TypeResolver
}

// NewSynthesizer creates a synthesizer reading method tags from methods and
// declared types from types
func NewSynthesizer(methods annotations.Provider, types TypeResolver) *Synthesizer {
	return &Synthesizer{
		methods: methods,
		types:   types,
	}
}

// NewDefaultSynthesizer wires the structured and @var providers for the given
// tag -> operation map, sharing one occurrence cache
func NewDefaultSynthesizer(methodAnnotations map[string]string, cache *annotations.Cache) *Synthesizer {
	vars := annotations.NewVarProvider(annotations.WithCache(cache))
	methods := annotations.NewStructuredProvider(methodAnnotations, vars, annotations.WithCache(cache))
	return NewSynthesizer(methods, vars)
}

// Synthesize returns the accessor IR of class. Properties without method
// tags are skipped. Any invalid property fails the whole class with a
// *errors.GenerationError; no partial class is returned.
func (s *Synthesizer) Synthesize(class models.ClassMetadata) (accessor.Class, error) {
	out := accessor.Class{
		Name:     class.Name(),
		Package:  class.PackageName,
		TypeName: class.TypeName,
	}

	fields := make(map[string]bool, len(class.Properties))
	for _, prop := range class.Properties {
		fields[prop.FieldName] = true
	}

	names := make(map[string]bool)
	identifiers := make(map[string]string)

	for _, prop := range class.Properties {
		occurrences, total, err := s.methodOccurrences(prop)
		if err != nil {
			return accessor.Class{}, s.fail(class, prop, "cannot read accessor annotations").WithCause(err)
		}
		if total == 0 {
			continue
		}

		typ, err := s.types.Type(prop)
		if err != nil {
			return accessor.Class{}, s.fail(class, prop, "declares accessors but has no resolvable @var type").
				WithCause(err).
				WithSuggestion(fmt.Sprintf("add a type annotation such as // @var string to field %s", prop.FieldName))
		}
		out.Properties = append(out.Properties, accessor.Property{
			Name:   prop.FieldName,
			GoType: prop.GoType,
			Type:   typ,
		})

		for _, op := range accessor.Operations {
			for _, occ := range occurrences[op] {
				m, err := s.method(op, prop, typ, occ)
				if err != nil {
					return accessor.Class{}, s.fail(class, prop, err.Error())
				}

				id := m.Identifier()
				switch {
				case names[m.Name]:
					return accessor.Class{}, s.fail(class, prop, fmt.Sprintf("accessor %s is declared more than once", m.Name))
				case identifiers[id] != "":
					return accessor.Class{}, s.fail(class, prop, fmt.Sprintf("accessor %s conflicts with accessor %s (both become %s)", m.Name, identifiers[id], id))
				case class.HasMethod(id):
					return accessor.Class{}, s.fail(class, prop, fmt.Sprintf("accessor %s conflicts with the hand-written method %s.%s", m.Name, class.TypeName, id)).
						WithSuggestion("rename the accessor with a name field or remove the method")
				case fields[id]:
					return accessor.Class{}, s.fail(class, prop, fmt.Sprintf("accessor %s conflicts with the field %s.%s", m.Name, class.TypeName, id))
				}
				names[m.Name] = true
				identifiers[id] = m.Name
				out.Methods = append(out.Methods, m)
			}
		}
	}

	return out, nil
}

func (s *Synthesizer) methodOccurrences(prop models.PropertyMetadata) (map[accessor.Operation][]annotations.Occurrence, int, error) {
	occurrences := make(map[accessor.Operation][]annotations.Occurrence, len(accessor.Operations))
	total := 0
	for _, op := range accessor.Operations {
		found, err := s.methods.Annotations(prop, op.String())
		if err != nil {
			return nil, 0, err
		}
		occurrences[op] = found
		total += len(found)
	}
	return occurrences, total, nil
}

// method derives one accessor specification from an occurrence
func (s *Synthesizer) method(op accessor.Operation, prop models.PropertyMetadata, typ accessor.Type, occ annotations.Occurrence) (accessor.Method, error) {
	if occ.HasValue() {
		return accessor.Method{}, fmt.Errorf("@%s takes a field list, not the value %q", op, occ.Value)
	}
	for _, f := range occ.Fields {
		if f.Name != FieldName && f.Name != FieldVisibility {
			return accessor.Method{}, fmt.Errorf("@%s has unknown field %q (expected %s or %s)", op, f.Name, FieldName, FieldVisibility)
		}
	}

	if op.RequiresCollection() && !typ.IsCollection() {
		return accessor.Method{}, fmt.Errorf("@%s requires an array type, %q declared", op, typ.RawExpression)
	}

	subject := prop.FieldName
	if name, ok := occ.Field(FieldName); ok {
		if name == "" {
			return accessor.Method{}, fmt.Errorf("@%s has an empty name field", op)
		}
		subject = name
	}

	visibility := accessor.Public
	if value, ok := occ.Field(FieldVisibility); ok {
		parsed, err := accessor.ParseVisibility(value)
		if err != nil {
			return accessor.Method{}, fmt.Errorf("@%s: %w", op, err)
		}
		visibility = parsed
	}

	m := accessor.Method{
		Name:         accessor.MethodName(op, subject),
		Operation:    op,
		Property:     prop.FieldName,
		Visibility:   visibility,
		ExpectedType: expectedType(op, typ),
	}
	if !token.IsIdentifier(m.Identifier()) {
		return accessor.Method{}, fmt.Errorf("@%s: %q is not a valid method name", op, m.Name)
	}
	return m, nil
}

func expectedType(op accessor.Operation, typ accessor.Type) string {
	switch op {
	case accessor.Get:
		return ""
	case accessor.Set:
		return typ.Display()
	default:
		return typ.ElementDisplay()
	}
}

func (s *Synthesizer) fail(class models.ClassMetadata, prop models.PropertyMetadata, message string) *errors.GenerationError {
	return errors.NewGenerationErrorf(class.Name(), errors.StageSynthesize, "property %s: %s", prop.FieldName, message).
		WithProperty(prop.FieldName).
		WithLocation(errors.SourceLocation{File: prop.FileName, Line: prop.Line})
}
