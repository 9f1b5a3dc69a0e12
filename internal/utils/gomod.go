package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
)

// GoModule is a located go.mod
type GoModule struct {
	Path string // module path
	Dir  string // directory holding go.mod
}

// ImportPath returns the import path of the package in dir, which must lie
// inside the module
func (m GoModule) ImportPath(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(m.Dir, absDir)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("directory %s is outside module %s (%s)", dir, m.Path, m.Dir)
	}
	if rel == "." {
		return m.Path, nil
	}
	return m.Path + "/" + filepath.ToSlash(rel), nil
}

// ParseModuleName extracts the module path from a go.mod file
func ParseModuleName(goModPath string) (string, error) {
	cleanPath := filepath.Clean(goModPath)
	if filepath.Base(cleanPath) != "go.mod" {
		return "", fmt.Errorf("file is not a go.mod file: %s", goModPath)
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod file: %w", err)
	}

	path := modfile.ModulePath(content)
	if path == "" {
		return "", fmt.Errorf("no module declaration found in %s", cleanPath)
	}
	if err := module.CheckImportPath(path); err != nil {
		return "", fmt.Errorf("invalid module path in %s: %w", cleanPath, err)
	}
	return path, nil
}

// FindGoModule searches for go.mod starting from startDir and walking up
func FindGoModule(startDir string) (GoModule, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return GoModule{}, err
	}

	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if info, err := os.Stat(goModPath); err == nil && !info.IsDir() {
			path, err := ParseModuleName(goModPath)
			if err != nil {
				return GoModule{}, err
			}
			return GoModule{Path: path, Dir: currentDir}, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return GoModule{}, fmt.Errorf("go.mod file not found above %s", startDir)
}
