package generator

import (
	"github.com/toyz/accessorgen/internal/annotations"
	"github.com/toyz/accessorgen/internal/models"
	"github.com/toyz/accessorgen/pkg/accessor"
)

// ClassSynthesizer turns an introspected struct into the accessor IR
type ClassSynthesizer interface {
	Synthesize(class models.ClassMetadata) (accessor.Class, error)
}

// TypeResolver resolves the declared type of a property
type TypeResolver interface {
	Type(p annotations.Property) (accessor.Type, error)
}
