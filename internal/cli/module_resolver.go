package cli

import (
	"fmt"
	"os"

	"golang.org/x/mod/module"

	"github.com/toyz/accessorgen/internal/utils"
)

// ModuleResolver handles resolving Go module information
type ModuleResolver struct{}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{}
}

// ResolveModule locates the module enclosing startDir. A custom module path
// replaces the one declared in go.mod; without a go.mod, startDir becomes
// the module root of the custom path.
func (r *ModuleResolver) ResolveModule(customModule, startDir string) (utils.GoModule, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return utils.GoModule{}, fmt.Errorf("failed to get current directory: %w", err)
		}
		startDir = wd
	}

	found, findErr := utils.FindGoModule(startDir)
	if customModule == "" {
		if findErr != nil {
			return utils.GoModule{}, fmt.Errorf("failed to determine module name: %w (consider using --module flag)", findErr)
		}
		return found, nil
	}

	if err := module.CheckImportPath(customModule); err != nil {
		return utils.GoModule{}, fmt.Errorf("invalid module path %q: %w", customModule, err)
	}
	if findErr != nil {
		found = utils.GoModule{Dir: startDir}
		if abs, err := absPath(startDir); err == nil {
			found.Dir = abs
		}
	}
	found.Path = customModule
	return found, nil
}

// BuildPackagePath builds the full import path for a package directory
func (r *ModuleResolver) BuildPackagePath(mod utils.GoModule, packageDir string) (string, error) {
	importPath, err := mod.ImportPath(packageDir)
	if err != nil {
		return "", fmt.Errorf("failed to build import path for %s: %w", packageDir, err)
	}
	return importPath, nil
}
