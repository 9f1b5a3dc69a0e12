package annotations

// DefaultMethodAnnotations maps the method-generating tags to their logical operation names
func DefaultMethodAnnotations() map[string]string {
	return map[string]string{
		"Add":      "add",
		"Contains": "contains",
		"Get":      "get",
		"Remove":   "remove",
		"Set":      "set",
	}
}

// StructuredProvider resolves method-generating tags such as @Get and
// @Set(name="x"). It is queried with logical names ("get"); tags are mapped
// to them through the method annotations map. Requests for @var are
// delegated to the VarProvider.
type StructuredProvider struct {
	reader
	tags map[string]string // tag -> logical name
	vars *VarProvider
}

// NewStructuredProvider creates a provider for the given tag -> logical name map.
// A nil map means DefaultMethodAnnotations; a nil vars disables @var delegation.
func NewStructuredProvider(methodAnnotations map[string]string, vars *VarProvider, opts ...Option) *StructuredProvider {
	if methodAnnotations == nil {
		methodAnnotations = DefaultMethodAnnotations()
	}
	tags := make(map[string]string, len(methodAnnotations))
	for tag, logical := range methodAnnotations {
		tags[tag] = logical
	}

	return &StructuredProvider{
		reader: newReader(opts),
		tags:   tags,
		vars:   vars,
	}
}

// Annotation returns the first occurrence resolving to name, in document order
func (s *StructuredProvider) Annotation(p Property, name string) (Occurrence, error) {
	if name == VarTag && s.vars != nil {
		return s.vars.Annotation(p, name)
	}

	occurrences, err := s.Annotations(p, name)
	if err != nil {
		return Occurrence{}, err
	}
	if len(occurrences) == 0 {
		return Occurrence{}, notFound(p, name)
	}
	return occurrences[0], nil
}

// Annotations returns every occurrence resolving to name, in document order.
// Occurrences are renamed to name. A malformed matching occurrence fails the
// lookup with a Malformed error.
func (s *StructuredProvider) Annotations(p Property, name string) ([]Occurrence, error) {
	if name == VarTag && s.vars != nil {
		return s.vars.Annotations(p, name)
	}

	matches := []Occurrence{}
	for _, occ := range s.occurrences(p) {
		if !s.resolves(occ.Name, name) {
			continue
		}
		if occ.Malformed() {
			return nil, &Error{Kind: Malformed, Property: p, Name: name, Err: occ.Err()}
		}
		matches = append(matches, occ.withName(name))
	}
	return matches, nil
}

// resolves reports whether tag is mapped to name. Unmapped tags never
// resolve, whatever their spelling.
func (s *StructuredProvider) resolves(tag, name string) bool {
	logical, ok := s.tags[tag]
	return ok && logical == name
}
