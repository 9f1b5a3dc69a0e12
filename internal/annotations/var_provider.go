package annotations

import (
	"strings"

	"github.com/toyz/accessorgen/internal/typeexpr"
	"github.com/toyz/accessorgen/pkg/accessor"
)

// VarProvider resolves the reserved @var tag. It supports no other tag and
// no multiplicity: a property declares exactly one type or none.
type VarProvider struct {
	reader
	types *typeexpr.Parser
}

// NewVarProvider creates a @var provider
func NewVarProvider(opts ...Option) *VarProvider {
	return &VarProvider{
		reader: newReader(opts),
		types:  typeexpr.New(),
	}
}

// Annotation returns the @var occurrence of p; its Value is the type
// expression. A missing tag and a tag without expression both fail with NotFound.
func (v *VarProvider) Annotation(p Property, name string) (Occurrence, error) {
	if name != VarTag {
		return Occurrence{}, notFound(p, name)
	}

	for _, occ := range v.occurrences(p) {
		if occ.Name != VarTag {
			continue
		}
		expr := firstWord(occ.Value)
		if expr == "" {
			break
		}
		return Occurrence{Name: VarTag, Value: expr}, nil
	}
	return Occurrence{}, notFound(p, name)
}

// Annotations is not supported for type declarations and always returns an empty slice
func (v *VarProvider) Annotations(Property, string) ([]Occurrence, error) {
	return []Occurrence{}, nil
}

// Type resolves the declared type of p
func (v *VarProvider) Type(p Property) (accessor.Type, error) {
	occ, err := v.Annotation(p, VarTag)
	if err != nil {
		return accessor.Type{}, err
	}
	return v.types.Parse(occ.Value), nil
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
