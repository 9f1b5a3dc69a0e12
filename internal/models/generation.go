package models

import "time"

// GeneratedArtifact represents the generated accessor file of one class
type GeneratedArtifact struct {
	ClassName   string    // logical class name
	TypeName    string    // Go type name
	PackageName string    // name of the package
	FilePath    string    // path where the file is written
	Content     string    // generated Go code content
	Methods     []string  // generated method identifiers, in order
	GeneratedAt time.Time // when the content was rendered
}
