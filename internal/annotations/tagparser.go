package annotations

import (
	"errors"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// FieldList is the grammar of a parenthesised key="value" list
type FieldList struct {
	Entries []*FieldEntry `parser:"'(' ( @@ ( ',' @@ )* ','? )? ')'"`
}

// FieldEntry is one key=value entry of a field list
type FieldEntry struct {
	Key   string `parser:"@Ident '='"`
	Value string `parser:"@(String | Ident | Number)"`
}

var tagNamePattern = regexp.MustCompile(`^[A-Za-z_\\][A-Za-z0-9_\\.]*`)

// TagParser extracts annotation occurrences from documentation text.
// A TagParser is safe for concurrent use.
type TagParser struct {
	fields *participle.Parser[FieldList]
}

// NewTagParser creates a tag parser
func NewTagParser() *TagParser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `"(\\"|[^"])*"`},
		{Name: "Number", Pattern: `-?[0-9]+(\.[0-9]+)?`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_\\.]*`},
		{Name: "Punct", Pattern: `[(),=]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	fields := participle.MustBuild[FieldList](
		participle.Lexer(lex),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
	)

	return &TagParser{fields: fields}
}

var defaultTagParser = NewTagParser()

// ParseText parses doc with the package-level tag parser
func ParseText(doc string) ([]Occurrence, error) {
	return defaultTagParser.ParseText(doc)
}

// ParseText returns every occurrence in doc, in document order.
//
// A line whose text starts with @Name is one occurrence. @Name( starts a field
// list, which may continue over the following lines until its closing
// parenthesis; anything else after the name is the bare value. Malformed field
// lists are kept as occurrences with Err set, and their errors are joined in
// the returned error.
func (tp *TagParser) ParseText(doc string) ([]Occurrence, error) {
	lines := normalizeLines(doc)

	var occurrences []Occurrence
	var errs []error

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if !strings.HasPrefix(line, "@") {
			continue
		}
		name := tagNamePattern.FindString(line[1:])
		if name == "" {
			continue
		}
		rest := line[1+len(name):]

		if strings.HasPrefix(rest, "(") {
			start := i
			text := rest
			end := closingParen(text)
			for end < 0 && i+1 < len(lines) {
				i++
				text += " " + lines[i]
				end = closingParen(text)
			}

			occ := Occurrence{Name: name}
			if end < 0 {
				occ.err = &SyntaxError{Tag: name, Line: start + 1, Msg: "unterminated field list"}
				i = start
			} else {
				occ.Fields, occ.err = tp.parseFields(name, start+1, text[:end+1])
			}
			if occ.err != nil {
				errs = append(errs, occ.err)
			}
			occurrences = append(occurrences, occ)
			continue
		}

		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			continue
		}
		occurrences = append(occurrences, Occurrence{Name: name, Value: strings.TrimSpace(rest)})
	}

	return occurrences, errors.Join(errs...)
}

func (tp *TagParser) parseFields(tag string, line int, text string) ([]Field, error) {
	list, err := tp.fields.ParseString("", text)
	if err != nil {
		return nil, &SyntaxError{Tag: tag, Line: line, Msg: err.Error()}
	}

	fields := make([]Field, 0, len(list.Entries))
	for _, entry := range list.Entries {
		fields = append(fields, Field{Name: entry.Key, Value: entry.Value})
	}
	return fields, nil
}

// closingParen returns the index of the parenthesis closing the one at
// text[0], skipping quoted strings, or -1
func closingParen(text string) int {
	depth := 0
	inString := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case inString:
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// normalizeLines strips comment markers from every line of doc
func normalizeLines(doc string) []string {
	raw := strings.Split(strings.ReplaceAll(doc, "\r\n", "\n"), "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimSuffix(line, "*/"))
		for _, prefix := range []string{"/**", "/*", "//"} {
			if strings.HasPrefix(line, prefix) {
				line = line[len(prefix):]
				break
			}
		}
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		lines[i] = line
	}
	return lines
}
