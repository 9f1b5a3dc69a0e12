package templates

// Template names
const (
	FileTemplate     = "accessors-file"
	GetTemplate      = "get"
	SetTemplate      = "set"
	AddTemplate      = "add"
	RemoveTemplate   = "remove"
	ContainsTemplate = "contains"
)

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerFileTemplates()
	registry.registerAccessorTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// Set replaces or adds a template
func (tr *TemplateRegistry) Set(name, template string) {
	tr.templates[name] = template
}

func (tr *TemplateRegistry) registerFileTemplates() {
	tr.templates[FileTemplate] = `{{.Header}}

package {{.Package}}

{{.Imports}}
{{- if .Checkers}}
var (
{{- range .Checkers}}
	{{.Var}} = {{$.Runtime}}.NewChecker({{typeLiteral $.Runtime .Type}}, {{if .Elem}}{{$.Reflect}}.TypeFor[{{.Elem}}](){{else}}nil{{end}})
{{- end}}
)
{{end}}
{{- range .Methods}}
{{accessor .}}
{{end}}`
}

func (tr *TemplateRegistry) registerAccessorTemplates() {
	tr.templates[GetTemplate] = `// {{.Identifier}} returns {{.Field}}.
func ({{.Receiver}} *{{.TypeName}}) {{.Identifier}}() {{.GoType}} {
	return {{.Receiver}}.{{.Field}}
}`

	tr.templates[SetTemplate] = `// {{.Identifier}} stores value in {{.Field}}; value must be {{.Expected}}.
func ({{.Receiver}} *{{.TypeName}}) {{.Identifier}}(value any) error {
	if err := {{.Checker}}.CheckValue(value); err != nil {
		return err
	}
	converted, ok := {{.Runtime}}.Convert[{{.GoType}}](value)
	if !ok {
		return {{.Runtime}}.NewInvalidArgumentTypeError(value, {{quote .Expected}})
	}
	{{.Receiver}}.{{.Field}} = converted
	return nil
}`

	tr.templates[AddTemplate] = `// {{.Identifier}} appends value to {{.Field}}.
func ({{.Receiver}} *{{.TypeName}}) {{.Identifier}}(value any) error {
	if err := {{.Checker}}.CheckElement(value); err != nil {
		return err
	}
	elem, ok := {{.Runtime}}.Convert[{{.ElemType}}](value)
	if !ok {
		return {{.Runtime}}.NewInvalidArgumentTypeError(value, {{quote .Expected}})
	}
	{{.Receiver}}.{{.Field}} = append({{.Receiver}}.{{.Field}}, elem)
	return nil
}`

	tr.templates[RemoveTemplate] = `// {{.Identifier}} removes the first element of {{.Field}} equal to value.
func ({{.Receiver}} *{{.TypeName}}) {{.Identifier}}(value any) error {
	if err := {{.Checker}}.CheckElement(value); err != nil {
		return err
	}
	elem, ok := {{.Runtime}}.Convert[{{.ElemType}}](value)
	if !ok {
		return {{.Runtime}}.NewInvalidArgumentTypeError(value, {{quote .Expected}})
	}
	{{.Receiver}}.{{.Field}} = {{.Runtime}}.RemoveElement({{.Receiver}}.{{.Field}}, elem)
	return nil
}`

	tr.templates[ContainsTemplate] = `// {{.Identifier}} reports whether {{.Field}} holds an element equal to value.
func ({{.Receiver}} *{{.TypeName}}) {{.Identifier}}(value any) (bool, error) {
	if err := {{.Checker}}.CheckElement(value); err != nil {
		return false, err
	}
	elem, ok := {{.Runtime}}.Convert[{{.ElemType}}](value)
	if !ok {
		return false, {{.Runtime}}.NewInvalidArgumentTypeError(value, {{quote .Expected}})
	}
	return {{.Runtime}}.ContainsElement({{.Receiver}}.{{.Field}}, elem), nil
}`
}
