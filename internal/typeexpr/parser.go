// Package typeexpr parses the type expressions carried by @var annotations
// into accessor type descriptors.
package typeexpr

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/accessorgen/pkg/accessor"
)

// nullName is the alternative that makes an expression nullable
const nullName = "null"

// Expression is the grammar root: alternatives separated by '|'
type Expression struct {
	Alternatives []*Alternative `parser:"@@ ( '|' @@ )*"`
}

// Alternative is one identifier, optionally marked as an array with a
// trailing T[] or a leading Go-style []T
type Alternative struct {
	Prefix bool   `parser:"@Brackets?"`
	Name   string `parser:"@Ident"`
	Suffix bool   `parser:"@Brackets?"`
}

// IsArray reports whether the alternative denotes an array of its identifier
func (a *Alternative) IsArray() bool {
	return a.Prefix || a.Suffix
}

// Parser turns type expression text into accessor.Type values.
// A Parser is safe for concurrent use.
type Parser struct {
	parser *participle.Parser[Expression]
}

// New creates a type expression parser
func New() *Parser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Brackets", Pattern: `\[\]`},
		{Name: "Ident", Pattern: `[\\*]?[a-zA-Z_][a-zA-Z0-9_]*([\\.][a-zA-Z_][a-zA-Z0-9_]*)*`},
		{Name: "Pipe", Pattern: `\|`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	parser := participle.MustBuild[Expression](
		participle.Lexer(lex),
		participle.Elide("Whitespace"),
	)

	return &Parser{parser: parser}
}

var defaultParser = New()

// Parse classifies expr with the package-level parser
func Parse(expr string) accessor.Type {
	return defaultParser.Parse(expr)
}

// Parse classifies expr. It never fails: text outside the grammar, and
// expressions with zero or several non-null alternatives, yield a
// RawExpression descriptor kept for display only.
func (p *Parser) Parse(expr string) accessor.Type {
	raw := strings.TrimSpace(expr)
	t := accessor.Type{Kind: accessor.RawExpression, RawExpression: raw}

	parsed, err := p.parser.ParseString("", raw)
	if err != nil {
		return t
	}

	var candidates []*Alternative
	for _, alt := range parsed.Alternatives {
		if alt.Name == nullName && !alt.IsArray() {
			t.Nullable = true
			continue
		}
		if alt.Prefix && alt.Suffix {
			return t
		}
		candidates = append(candidates, alt)
	}

	candidates = absorbArrayAlternative(candidates)
	if len(candidates) != 1 {
		return t
	}

	alt := candidates[0]
	t.ElementTypeName = alt.Name
	scalar := accessor.IsScalarName(alt.Name)
	switch {
	case alt.IsArray() && scalar:
		t.Kind = accessor.ArrayOfScalar
	case alt.IsArray():
		t.Kind = accessor.ArrayOfObject
	case scalar:
		t.Kind = accessor.Scalar
	default:
		t.Kind = accessor.Object
	}
	return t
}

// absorbArrayAlternative drops a plain "array" alternative when a typed array
// alternative describes the same value more precisely (string[]|array).
func absorbArrayAlternative(alts []*Alternative) []*Alternative {
	typed := false
	for _, alt := range alts {
		if alt.IsArray() {
			typed = true
			break
		}
	}
	if !typed {
		return alts
	}

	out := alts[:0:0]
	for _, alt := range alts {
		if !alt.IsArray() && accessor.CanonicalScalar(alt.Name) == accessor.ArrayDisplay {
			continue
		}
		out = append(out, alt)
	}
	return out
}
