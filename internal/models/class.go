package models

// ClassMetadata describes one struct type
type ClassMetadata struct {
	TypeName    string             // Go type name
	PackageName string             // name of the declaring package
	ImportPath  string             // import path of the declaring package
	FileName    string             // file declaring the type
	Line        int                // line of the type declaration
	Properties  []PropertyMetadata // named fields in declaration order
	Methods     []string           // methods declared on the type outside generated files
	Imports     []Import           // imports of the declaring file
}

// Import is one import spec of a source file
type Import struct {
	Name string // explicit local name, "" for the default
	Path string
}

// Name returns the logical class name: <import path>.<type>, or
// <package>.<type> when the import path is unknown
func (c ClassMetadata) Name() string {
	return className(c.ImportPath, c.PackageName, c.TypeName)
}

// HasMethod reports whether a method called name is declared on the type
func (c ClassMetadata) HasMethod(name string) bool {
	for _, m := range c.Methods {
		if m == name {
			return true
		}
	}
	return false
}

// Property returns the property with the given field name
func (c ClassMetadata) Property(fieldName string) (PropertyMetadata, bool) {
	for _, p := range c.Properties {
		if p.FieldName == fieldName {
			return p, true
		}
	}
	return PropertyMetadata{}, false
}

// HasDocumentedProperties reports whether any property carries documentation
func (c ClassMetadata) HasDocumentedProperties() bool {
	for _, p := range c.Properties {
		if p.Doc != "" {
			return true
		}
	}
	return false
}

func (c *ClassMetadata) setImportPath(importPath string) {
	c.ImportPath = importPath
	for i := range c.Properties {
		c.Properties[i].Class = c.Name()
	}
}

// PropertyMetadata describes one named struct field. It is the property
// handle consumed by the annotation providers.
type PropertyMetadata struct {
	Class     string // logical name of the declaring class
	FieldName string // field name
	GoType    string // Go type expression of the field
	Nilable   bool   // nil is a value of the field type
	Doc       string // raw doc and line comment text, "" when undocumented
	FileName  string // file declaring the field
	Line      int    // line of the field
}

// DeclaringClass returns the logical name of the declaring class
func (p PropertyMetadata) DeclaringClass() string {
	return p.Class
}

// Name returns the field name
func (p PropertyMetadata) Name() string {
	return p.FieldName
}

// DocComment returns the raw documentation text
func (p PropertyMetadata) DocComment() string {
	return p.Doc
}

func className(importPath, packageName, typeName string) string {
	if importPath != "" {
		return importPath + "." + typeName
	}
	return packageName + "." + typeName
}
