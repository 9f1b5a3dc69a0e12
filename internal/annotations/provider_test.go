package annotations

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/toyz/accessorgen/pkg/accessor"
)

type mockProperty struct {
	mock.Mock
}

func (m *mockProperty) DeclaringClass() string {
	return m.Called().String(0)
}

func (m *mockProperty) Name() string {
	return m.Called().String(0)
}

func (m *mockProperty) DocComment() string {
	return m.Called().String(0)
}

func newMockProperty(doc string) *mockProperty {
	p := &mockProperty{}
	p.On("DeclaringClass").Return("example.com/app/models.Foo").Maybe()
	p.On("Name").Return("test").Maybe()
	p.On("DocComment").Return(doc)
	return p
}

type stubProperty struct {
	class string
	name  string
	doc   string
}

func (s stubProperty) DeclaringClass() string { return s.class }
func (s stubProperty) Name() string           { return s.name }
func (s stubProperty) DocComment() string     { return s.doc }

var varExpressions = []string{
	"string",
	"integer",
	"null",
	"string|null",
	"int",
	"string|integer",
	`\Foo`,
	`\Foo\Bar`,
	"Foo",
	`\Foo|integer`,
	"string[]",
	`\Foo[]`,
	"Template<Foo>",
	"integer:string",
}

func TestVarProvider_Annotation(t *testing.T) {
	for _, expr := range varExpressions {
		docs := map[string]string{
			"inline":    fmt.Sprintf("/** @var %s */", expr),
			"multiline": fmt.Sprintf("/**\n\t * @var %s\n\t */", expr),
			"go line":   fmt.Sprintf("// @var %s", expr),
		}

		for shape, doc := range docs {
			t.Run(expr+" - "+shape, func(t *testing.T) {
				p := &mockProperty{}
				p.On("DeclaringClass").Return("example.com/app/models.Foo").Maybe()
				p.On("Name").Return("test").Maybe()
				p.On("DocComment").Return(doc).Once()

				occ, err := NewVarProvider().Annotation(p, VarTag)
				require.NoError(t, err)

				assert.Equal(t, VarTag, occ.Name)
				assert.Equal(t, expr, occ.Value)
				assert.Len(t, occ.Fields, 0)
				p.AssertExpectations(t)
			})
		}
	}
}

func TestVarProvider_NotFound(t *testing.T) {
	tests := []struct {
		name       string
		doc        string
		annotation string
	}{
		{"var annotation does not exist", "/**\n * @author\n */", "var"},
		{"malformed var annotation", "/**\n * @var\n */", "var"},
		{"var annotation with field list", `// @var(type="string")`, "var"},
		{"no documentation", "", "var"},
		{"supports only var annotation", "/**\n * @author\n */", "author"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newMockProperty(tt.doc)

			_, err := NewVarProvider().Annotation(p, tt.annotation)
			require.Error(t, err)

			var notFoundErr *Error
			require.ErrorAs(t, err, &notFoundErr)
			assert.Equal(t, NotFound, notFoundErr.Kind)
			assert.Same(t, p, notFoundErr.Property)
			assert.Equal(t, tt.annotation, notFoundErr.Name)
			assert.Contains(t, err.Error(), "@"+tt.annotation)
			assert.True(t, IsNotFound(err))

			docReads := 0
			for _, call := range p.Calls {
				if call.Method == "DocComment" {
					docReads++
				}
			}
			assert.LessOrEqual(t, docReads, 1)
		})
	}
}

func TestVarProvider_UnsupportedNameDoesNotReadDocumentation(t *testing.T) {
	p := newMockProperty("// @author")

	_, err := NewVarProvider().Annotation(p, "author")
	assert.True(t, IsNotFound(err))
	p.AssertNotCalled(t, "DocComment")
}

func TestVarProvider_DoesNotSupportAnnotations(t *testing.T) {
	p := newMockProperty("// @var string")

	occurrences, err := NewVarProvider().Annotations(p, VarTag)
	require.NoError(t, err)
	assert.NotNil(t, occurrences)
	assert.Len(t, occurrences, 0)
	p.AssertNotCalled(t, "DocComment")
}

func TestVarProvider_FirstWordIsTheExpression(t *testing.T) {
	p := stubProperty{class: "models.Article", name: "title", doc: "// @var string the article title"}

	occ, err := NewVarProvider().Annotation(p, VarTag)
	require.NoError(t, err)
	assert.Equal(t, "string", occ.Value)
}

func TestVarProvider_Type(t *testing.T) {
	provider := NewVarProvider()

	typ, err := provider.Type(stubProperty{class: "models.Article", name: "tags", doc: "// @var string[]|null"})
	require.NoError(t, err)
	assert.Equal(t, accessor.ArrayOfScalar, typ.Kind)
	assert.True(t, typ.Nullable)
	assert.Equal(t, "string", typ.ElementTypeName)

	_, err = provider.Type(stubProperty{class: "models.Article", name: "body"})
	assert.True(t, IsNotFound(err))
}

func TestProvider_CacheReadsDocumentationOnce(t *testing.T) {
	cache := NewCache()
	p := &mockProperty{}
	p.On("DeclaringClass").Return("example.com/app/models.Foo")
	p.On("Name").Return("title")
	p.On("DocComment").Return("// @Get\n// @var string").Once()

	vars := NewVarProvider(WithCache(cache))
	structured := NewStructuredProvider(nil, vars, WithCache(cache))

	_, err := vars.Annotation(p, VarTag)
	require.NoError(t, err)
	_, err = structured.Annotation(p, "get")
	require.NoError(t, err)

	p.AssertExpectations(t)
	assert.Equal(t, 1, cache.Size())
}

var fooDocs = map[string]string{
	"noParams":   "/**\n * @Sentry\\Get\n * @var string\n */",
	"withFields": "/**\n * @Sentry\\Get(name=\"fooName\", visibility=\"private\")\n * @var string\n */",
	"multiple":   "/**\n * @Sentry\\Get\n * @Sentry\\Get(name=\"fooName\")\n * @var string\n */",
	"withoutVar": "/** @phpcsSuppress SlevomatCodingStandard.TypeHints.TypeHintDeclaration.MissingPropertyTypeHint */",
}

func fooProperty(name string) stubProperty {
	return stubProperty{class: "example.com/app/models.Foo", name: name, doc: fooDocs[name]}
}

func newFooProvider() *StructuredProvider {
	return NewStructuredProvider(map[string]string{`Sentry\Get`: "get"}, NewVarProvider())
}

func TestStructuredProvider_Annotation(t *testing.T) {
	provider := newFooProvider()

	occ, err := provider.Annotation(fooProperty("noParams"), "get")
	require.NoError(t, err)
	assert.Equal(t, "get", occ.Name)
	assert.Empty(t, occ.Fields)

	occ, err = provider.Annotation(fooProperty("withFields"), "get")
	require.NoError(t, err)
	assert.Equal(t, "get", occ.Name)
	assert.Equal(t, []Field{
		{Name: "name", Value: "fooName"},
		{Name: "visibility", Value: "private"},
	}, occ.Fields)

	occ, err = provider.Annotation(fooProperty("multiple"), "get")
	require.NoError(t, err)
	assert.Empty(t, occ.Fields)
}

func TestStructuredProvider_Annotations(t *testing.T) {
	provider := newFooProvider()

	occurrences, err := provider.Annotations(fooProperty("multiple"), "get")
	require.NoError(t, err)
	require.Len(t, occurrences, 2)
	assert.Empty(t, occurrences[0].Fields)
	value, ok := occurrences[1].Field("name")
	assert.True(t, ok)
	assert.Equal(t, "fooName", value)
}

func TestStructuredProvider_NotFound(t *testing.T) {
	provider := newFooProvider()
	p := fooProperty("withoutVar")

	occurrences, err := provider.Annotations(p, "get")
	require.NoError(t, err)
	assert.NotNil(t, occurrences)
	assert.Len(t, occurrences, 0)

	_, err = provider.Annotation(p, "get")
	require.Error(t, err)
	var notFoundErr *Error
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "get", notFoundErr.Name)
	assert.Equal(t, p, notFoundErr.Property)
	assert.Contains(t, err.Error(), "@get")
}

func TestStructuredProvider_DelegatesVar(t *testing.T) {
	provider := newFooProvider()

	occ, err := provider.Annotation(fooProperty("noParams"), VarTag)
	require.NoError(t, err)
	assert.Equal(t, "string", occ.Value)

	_, err = provider.Annotation(fooProperty("withoutVar"), VarTag)
	assert.True(t, IsNotFound(err))

	occurrences, err := provider.Annotations(fooProperty("noParams"), VarTag)
	require.NoError(t, err)
	assert.Empty(t, occurrences)
}

func TestStructuredProvider_TagMapping(t *testing.T) {
	p := stubProperty{class: "models.Article", name: "title", doc: "// @Get\n// @Read(name=\"headline\")\n// @Set"}

	provider := NewStructuredProvider(map[string]string{"Get": "get", "Read": "get", "Set": "set"}, nil)

	occurrences, err := provider.Annotations(p, "get")
	require.NoError(t, err)
	require.Len(t, occurrences, 2)
	assert.Equal(t, "get", occurrences[0].Name)
	assert.Equal(t, "get", occurrences[1].Name)

	_, err = provider.Annotation(p, "Get")
	assert.True(t, IsNotFound(err))

	p.doc = "// @author someone"
	_, err = provider.Annotation(p, "author")
	assert.True(t, IsNotFound(err))
}

func TestStructuredProvider_OnlyMappedTagsResolve(t *testing.T) {
	p := stubProperty{class: "models.Article", name: "title", doc: `// @get
// @set
// @add
// @Get
// @var string`}

	provider := NewStructuredProvider(map[string]string{"Read": "get"}, NewVarProvider())
	for _, name := range []string{"get", "set", "add", "remove", "contains"} {
		occurrences, err := provider.Annotations(p, name)
		require.NoError(t, err)
		assert.Empty(t, occurrences, name)
	}

	defaults := NewStructuredProvider(nil, nil)
	occurrences, err := defaults.Annotations(p, "get")
	require.NoError(t, err)
	require.Len(t, occurrences, 1)

	occurrences, err = defaults.Annotations(p, "set")
	require.NoError(t, err)
	assert.Empty(t, occurrences)
}

func TestStructuredProvider_Malformed(t *testing.T) {
	p := stubProperty{class: "models.Article", name: "title", doc: "// @Get(name=\"x\"\n// @Set"}
	provider := NewStructuredProvider(nil, nil)

	_, err := provider.Annotations(p, "get")
	assert.True(t, IsMalformed(err))
	assert.Contains(t, err.Error(), "@get")

	var syntaxErr *SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)

	occurrences, err := provider.Annotations(p, "set")
	require.NoError(t, err)
	assert.Len(t, occurrences, 1)
}

func TestStructuredProvider_ReturnsCopies(t *testing.T) {
	cache := NewCache()
	provider := NewStructuredProvider(nil, nil, WithCache(cache))
	p := stubProperty{class: "models.Article", name: "title", doc: `// @Get(name="headline")`}

	first, err := provider.Annotations(p, "get")
	require.NoError(t, err)
	first[0].Fields[0].Value = "mutated"

	second, err := provider.Annotations(p, "get")
	require.NoError(t, err)
	assert.Equal(t, "headline", second[0].Fields[0].Value)
}
