package accessor

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Operation is the logical behaviour of a generated accessor
type Operation int

const (
	Get Operation = iota
	Set
	Add
	Remove
	Contains
)

// Operations lists every operation in canonical order
var Operations = []Operation{Get, Set, Add, Remove, Contains}

// String returns the operation verb
func (o Operation) String() string {
	switch o {
	case Get:
		return "get"
	case Set:
		return "set"
	case Add:
		return "add"
	case Remove:
		return "remove"
	case Contains:
		return "contains"
	default:
		return "unknown"
	}
}

// RequiresCollection reports whether the operation is only valid for array kinds
func (o Operation) RequiresCollection() bool {
	return o == Add || o == Remove || o == Contains
}

// ParseOperation converts a verb to an Operation
func ParseOperation(s string) (Operation, error) {
	for _, op := range Operations {
		if op.String() == s {
			return op, nil
		}
	}
	return Get, fmt.Errorf("unknown accessor operation: %s", s)
}

// Visibility is the access level of a generated accessor
type Visibility int

const (
	Public Visibility = iota
	Protected
	Private
)

// String returns the visibility keyword
func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "unknown"
	}
}

// ParseVisibility converts a keyword to a Visibility
func ParseVisibility(s string) (Visibility, error) {
	switch s {
	case "public":
		return Public, nil
	case "protected":
		return Protected, nil
	case "private":
		return Private, nil
	default:
		return Public, fmt.Errorf("unknown visibility %q (expected public, protected or private)", s)
	}
}

// Property is one property of a generated class
type Property struct {
	Name   string // struct field name
	GoType string // Go type expression of the backing field; empty outside source generation
	Type   Type   // declared type
}

// Method is one generated accessor
type Method struct {
	Name         string // accessor name, e.g. getName
	Operation    Operation
	Property     string // name of the backing property
	Visibility   Visibility
	ExpectedType string // expected-type display of the accessor argument
}

// Identifier returns the Go identifier of the method: exported for public
// accessors, unexported otherwise
func (m Method) Identifier() string {
	if m.Visibility != Public {
		return lowerFirst(m.Name)
	}
	return UpperFirst(m.Name)
}

// Class is the intermediate representation of a generated class. Backends
// render it to source or bind it to a dispatch table.
type Class struct {
	Name       string // logical class name, e.g. example.com/app/models.Article
	Package    string // Go package name
	TypeName   string // Go type name
	Properties []Property
	Methods    []Method
}

// Property returns the property called name
func (c Class) Property(name string) (Property, bool) {
	for _, p := range c.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Method returns the method called name
func (c Class) Method(name string) (Method, bool) {
	for _, m := range c.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return Method{}, false
}

// UpperFirst upper-cases the first rune of s
func UpperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// MethodName builds the default accessor name: the verb followed by the
// capitalized subject, e.g. get + name = getName
func MethodName(op Operation, subject string) string {
	return op.String() + UpperFirst(strings.TrimSpace(subject))
}
