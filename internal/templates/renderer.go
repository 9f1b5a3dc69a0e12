package templates

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/tools/imports"

	"github.com/toyz/accessorgen/internal/errors"
	"github.com/toyz/accessorgen/internal/models"
	"github.com/toyz/accessorgen/internal/parser"
	"github.com/toyz/accessorgen/pkg/accessor"
)

const (
	// Header marks generated files for tools and reviewers
	Header = "// Code generated by accessorgen. DO NOT EDIT."
	// RuntimeImportPath is the import path of the runtime package used by generated code
	RuntimeImportPath = "github.com/toyz/accessorgen/pkg/accessor"
	// FileSuffix ends every generated accessor file name
	FileSuffix = ".accessors.go"
)

const reflectImportPath = "reflect"

// FileName returns the name of the generated accessor file of a type
func FileName(typeName string) string {
	return parser.GeneratedFilePrefix + strings.ToLower(typeName) + FileSuffix
}

// Renderer turns accessor specifications into Go source
type Renderer struct {
	registry      *TemplateRegistry
	runtimeImport string
	now           func() time.Time
}

// Option configures a Renderer
type Option func(*Renderer)

// WithRegistry renders with a custom template registry
func WithRegistry(registry *TemplateRegistry) Option {
	return func(r *Renderer) {
		r.registry = registry
	}
}

// WithClock sets the time source used for GeneratedAt
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// NewRenderer creates a renderer using the built-in templates
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		registry:      NewTemplateRegistry(),
		runtimeImport: RuntimeImportPath,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ForRuntime returns a copy of r whose output imports the runtime package
// from path
func (r *Renderer) ForRuntime(path string) *Renderer {
	clone := *r
	clone.runtimeImport = path
	return &clone
}

type fileData struct {
	Header   string
	Package  string
	Imports  string
	Runtime  string
	Reflect  string
	Checkers []checkerData
	Methods  []methodData
}

type checkerData struct {
	Var  string
	Type accessor.Type
	Elem string // Go type handed to reflect.TypeFor, "" for none
}

type methodData struct {
	Op         accessor.Operation
	Identifier string
	Receiver   string
	TypeName   string
	Field      string
	GoType     string
	ElemType   string
	Checker    string
	Expected   string
	Runtime    string
}

// Render produces the accessor file of class. meta is the introspected
// struct the class was synthesized from; its imports are made available to
// the generated code and unused ones are pruned.
func (r *Renderer) Render(class accessor.Class, meta models.ClassMetadata) (*models.GeneratedArtifact, error) {
	fileName := FileName(class.TypeName)

	im := NewImportManager()
	im.AddImports(meta.Imports...)
	data := fileData{
		Header:  Header,
		Package: class.Package,
		Runtime: im.Require(r.runtimeImport),
		Reflect: im.Require(reflectImportPath),
	}
	data.Imports = im.GenerateImports()

	receiver := receiverName(class.TypeName)
	checkers := make(map[string]string)
	for _, prop := range class.Properties {
		if err := checkNullable(class, meta, prop); err != nil {
			return nil, r.fail(class, meta, prop.Name, err.Error()).
				WithSuggestion(fmt.Sprintf("declare %s as *%s or drop null from its @var type", prop.Name, prop.GoType))
		}
		if !needsChecker(class, prop.Name) {
			continue
		}
		checker, err := newChecker(class.TypeName, prop)
		if err != nil {
			return nil, r.fail(class, meta, prop.Name, err.Error())
		}
		data.Checkers = append(data.Checkers, checker)
		checkers[prop.Name] = checker.Var
	}

	artifact := &models.GeneratedArtifact{
		ClassName:   class.Name,
		TypeName:    class.TypeName,
		PackageName: class.Package,
		GeneratedAt: r.now(),
	}

	for _, m := range class.Methods {
		prop, ok := class.Property(m.Property)
		if !ok {
			return nil, r.fail(class, meta, m.Property, fmt.Sprintf("accessor %s refers to an unknown property", m.Name))
		}
		md := methodData{
			Op:         m.Operation,
			Identifier: m.Identifier(),
			Receiver:   receiver,
			TypeName:   class.TypeName,
			Field:      prop.Name,
			GoType:     prop.GoType,
			Checker:    checkers[prop.Name],
			Expected:   m.ExpectedType,
			Runtime:    data.Runtime,
		}
		if m.Operation.RequiresCollection() {
			elem, ok := sliceElem(prop.GoType)
			if !ok {
				return nil, r.fail(class, meta, prop.Name,
					fmt.Sprintf("accessor %s needs a slice field, %s.%s is %s", m.Name, class.TypeName, prop.Name, prop.GoType))
			}
			md.ElemType = elem
		}
		data.Methods = append(data.Methods, md)
		artifact.Methods = append(artifact.Methods, md.Identifier)
	}

	source, err := r.execute(FileTemplate, data)
	if err != nil {
		return nil, r.fail(class, meta, "", "cannot render accessors").WithCause(err)
	}

	formatted, err := imports.Process(fileName, []byte(source), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, r.fail(class, meta, "", "generated code does not compile").
			WithCause(errors.WrapTemplateError(FileTemplate, "format", err)).
			WithSuggestion("check the Go types of the annotated fields")
	}

	artifact.Content = string(formatted)
	return artifact, nil
}

// execute runs a registered template; accessor templates are reachable from
// the file template through the accessor function
func (r *Renderer) execute(name string, data interface{}) (string, error) {
	templateStr, ok := r.registry.Get(name)
	if !ok {
		return "", errors.WrapTemplateError(name, "find", fmt.Errorf("template not registered"))
	}
	return executeTemplate(name, templateStr, data, template.FuncMap{
		"accessor": func(m methodData) (string, error) {
			return r.execute(templateFor(m.Op), m)
		},
	})
}

// executeTemplate executes a Go template with the given data
func executeTemplate(name, templateStr string, data interface{}, funcs template.FuncMap) (string, error) {
	funcMap := template.FuncMap{
		"quote":       strconv.Quote,
		"typeLiteral": typeLiteral,
	}
	for k, v := range funcs {
		funcMap[k] = v
	}

	tmpl, err := template.New(name).Funcs(funcMap).Parse(templateStr)
	if err != nil {
		return "", errors.WrapTemplateError(name, "parse", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.WrapTemplateError(name, "execute", err)
	}

	return buf.String(), nil
}

func templateFor(op accessor.Operation) string {
	switch op {
	case accessor.Set:
		return SetTemplate
	case accessor.Add:
		return AddTemplate
	case accessor.Remove:
		return RemoveTemplate
	case accessor.Contains:
		return ContainsTemplate
	default:
		return GetTemplate
	}
}

// typeLiteral renders t as an accessor.Type composite literal
func typeLiteral(runtime string, t accessor.Type) string {
	return fmt.Sprintf("%s.Type{Kind: %s.%s, Nullable: %t, ElementTypeName: %q, RawExpression: %q}",
		runtime, runtime, kindIdent(t.Kind), t.Nullable, t.ElementTypeName, t.RawExpression)
}

func kindIdent(k accessor.Kind) string {
	switch k {
	case accessor.Object:
		return "Object"
	case accessor.ArrayOfScalar:
		return "ArrayOfScalar"
	case accessor.ArrayOfObject:
		return "ArrayOfObject"
	case accessor.RawExpression:
		return "RawExpression"
	default:
		return "Scalar"
	}
}

func needsChecker(class accessor.Class, property string) bool {
	for _, m := range class.Methods {
		if m.Property == property && m.Operation != accessor.Get {
			return true
		}
	}
	return false
}

func hasOperation(class accessor.Class, property string, op accessor.Operation) bool {
	for _, m := range class.Methods {
		if m.Property == property && m.Operation == op {
			return true
		}
	}
	return false
}

func newChecker(typeName string, prop accessor.Property) (checkerData, error) {
	if prop.GoType == "" {
		return checkerData{}, fmt.Errorf("field %s has no Go type", prop.Name)
	}
	checker := checkerData{
		Var:  lowerFirst(typeName) + accessor.UpperFirst(prop.Name) + "Checker",
		Type: prop.Type,
	}
	switch prop.Type.Kind {
	case accessor.Object:
		checker.Elem = prop.GoType
	case accessor.ArrayOfObject:
		elem, ok := sliceElem(prop.GoType)
		if !ok {
			return checkerData{}, fmt.Errorf("field %s declares %s but is %s, not a slice", prop.Name, prop.Type.Display(), prop.GoType)
		}
		checker.Elem = elem
	}
	if checker.Elem != "" && !sameTypeName(prop.Type.ElementTypeName, checker.Elem) {
		return checkerData{}, fmt.Errorf("field %s declares %s but is %s", prop.Name, prop.Type.Display(), prop.GoType)
	}
	return checker, nil
}

// checkNullable rejects a settable nullable property whose field cannot
// hold nil, since a stored null would read back as the zero value
func checkNullable(class accessor.Class, meta models.ClassMetadata, prop accessor.Property) error {
	if !prop.Type.Nullable || !hasOperation(class, prop.Name, accessor.Set) {
		return nil
	}
	field, ok := meta.Property(prop.Name)
	if !ok || field.Nilable {
		return nil
	}
	return fmt.Errorf("field %s declares %s but %s cannot hold null", prop.Name, prop.Type.Display(), prop.GoType)
}

// sameTypeName compares the last segment of a declared object name
// (\Ns\Name or \pkg.Name) with the named Go type
func sameTypeName(declared, goType string) bool {
	return lastSegment(declared) == lastSegment(strings.TrimLeft(goType, "*"))
}

func lastSegment(name string) string {
	if i := strings.LastIndexAny(name, `\.`); i >= 0 {
		return name[i+1:]
	}
	return name
}

func sliceElem(goType string) (string, bool) {
	if !strings.HasPrefix(goType, "[]") {
		return "", false
	}
	return goType[2:], true
}

func receiverName(typeName string) string {
	r, _ := utf8.DecodeRuneInString(typeName)
	if r == utf8.RuneError || !unicode.IsLetter(r) {
		return "x"
	}
	return string(unicode.ToLower(r))
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func (r *Renderer) fail(class accessor.Class, meta models.ClassMetadata, property, message string) *errors.GenerationError {
	err := errors.NewGenerationError(class.Name, errors.StageRender, message).
		WithLocation(errors.SourceLocation{File: meta.FileName, Line: meta.Line})
	if property != "" {
		err.WithProperty(property)
	}
	return err
}
