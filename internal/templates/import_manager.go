package templates

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/toyz/accessorgen/internal/models"
)

// ImportManager tracks the imports of a generated file and hands out
// non-conflicting local names
type ImportManager struct {
	names map[string]string // local name -> path
	specs map[string]string // path -> explicit alias, "" for the default name
}

// NewImportManager creates an empty import manager
func NewImportManager() *ImportManager {
	return &ImportManager{
		names: make(map[string]string),
		specs: make(map[string]string),
	}
}

// AddImports adds the imports of a source file
func (im *ImportManager) AddImports(imports ...models.Import) {
	for _, imp := range imports {
		if imp.Path == "" {
			continue
		}
		if _, exists := im.specs[imp.Path]; exists {
			continue
		}
		name := imp.Name
		if name == "" {
			name = DefaultPackageName(imp.Path)
		}
		if _, taken := im.names[name]; taken {
			continue
		}
		im.names[name] = imp.Path
		im.specs[imp.Path] = imp.Name
	}
}

// Require adds importPath and returns the local name generated code must use
// for it. The default name is used when free, otherwise an alias is derived.
func (im *ImportManager) Require(importPath string) string {
	if alias, exists := im.specs[importPath]; exists {
		if alias != "" {
			return alias
		}
		return DefaultPackageName(importPath)
	}

	name := DefaultPackageName(importPath)
	candidate := name
	for i := 1; ; i++ {
		if _, taken := im.names[candidate]; !taken {
			break
		}
		candidate = fmt.Sprintf("%s%d", name, i)
	}

	im.names[candidate] = importPath
	if candidate == name {
		im.specs[importPath] = ""
	} else {
		im.specs[importPath] = candidate
	}
	return candidate
}

// GenerateImports returns the import block, standard library first
func (im *ImportManager) GenerateImports() string {
	if len(im.specs) == 0 {
		return ""
	}

	var std, external []string
	for importPath, alias := range im.specs {
		line := fmt.Sprintf("%q", importPath)
		if alias != "" {
			line = alias + " " + line
		}
		if isStandardLibrary(importPath) {
			std = append(std, line)
		} else {
			external = append(external, line)
		}
	}
	sort.Strings(std)
	sort.Strings(external)

	var result strings.Builder
	result.WriteString("import (\n")
	for _, imp := range std {
		result.WriteString("\t" + imp + "\n")
	}
	if len(std) > 0 && len(external) > 0 {
		result.WriteString("\n")
	}
	for _, imp := range external {
		result.WriteString("\t" + imp + "\n")
	}
	result.WriteString(")\n")

	return result.String()
}

// DefaultPackageName guesses the package name of importPath from its last
// element, skipping major version suffixes (/v2, .v3) and dropping a go- prefix
func DefaultPackageName(importPath string) string {
	elems := strings.Split(importPath, "/")
	name := elems[len(elems)-1]
	if len(elems) > 1 && isMajorVersion(name) {
		name = elems[len(elems)-2]
	}
	name = strings.TrimPrefix(path.Base(name), "go-")
	name = strings.TrimSuffix(name, ".go")
	if base, version, found := strings.Cut(name, "."); found && isMajorVersion(version) {
		name = base
	}
	return strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return '_'
		}
		return r
	}, name)
}

func isMajorVersion(elem string) bool {
	if len(elem) < 2 || elem[0] != 'v' {
		return false
	}
	for _, r := range elem[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isStandardLibrary(importPath string) bool {
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}
