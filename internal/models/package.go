package models

// PackageMetadata represents all struct types found in a package
type PackageMetadata struct {
	PackageName string          // name of the Go package
	PackagePath string          // file system path to the package
	ImportPath  string          // import path, empty until the module is resolved
	Classes     []ClassMetadata // all struct types found in the package, in source order
}

// SetImportPath records the package import path on the package, its classes and their properties
func (p *PackageMetadata) SetImportPath(importPath string) {
	p.ImportPath = importPath
	for i := range p.Classes {
		p.Classes[i].setImportPath(importPath)
	}
}

// AnnotatedClasses returns the classes with at least one documented property
func (p *PackageMetadata) AnnotatedClasses() []ClassMetadata {
	var classes []ClassMetadata
	for _, class := range p.Classes {
		if class.HasDocumentedProperties() {
			classes = append(classes, class)
		}
	}
	return classes
}

// Class returns the class with the given type name
func (p *PackageMetadata) Class(typeName string) (ClassMetadata, bool) {
	for _, class := range p.Classes {
		if class.TypeName == typeName {
			return class, true
		}
	}
	return ClassMetadata{}, false
}
