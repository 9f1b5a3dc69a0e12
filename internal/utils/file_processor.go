package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be descended into
type DirectoryFilter func(path string, info os.DirEntry) bool

// FileProcessor finds package directories and generated files on disk
type FileProcessor struct {
	sourceFilter    FileFilter
	generatedFilter FileFilter
	dirFilter       DirectoryFilter
}

// NewFileProcessor creates a file processor. Generated files are recognised
// by generatedPrefix and generatedSuffix.
func NewFileProcessor(generatedPrefix, generatedSuffix string) *FileProcessor {
	return &FileProcessor{
		sourceFilter:    GoSourceFilter(generatedPrefix),
		generatedFilter: GeneratedFileFilter(generatedPrefix, generatedSuffix),
		dirFilter:       DefaultDirectoryFilter(),
	}
}

// GoSourceFilter matches hand-written .go files, excluding tests and generated files
func GoSourceFilter(generatedPrefix string) FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		name := info.Name()
		return strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go") &&
			!strings.HasPrefix(name, generatedPrefix)
	}
}

// GeneratedFileFilter matches files written by the generator
func GeneratedFileFilter(prefix, suffix string) FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		name := info.Name()
		return strings.HasPrefix(name, prefix) && strings.HasSuffix(name, suffix)
	}
}

// DefaultDirectoryFilter skips common directories that shouldn't contain source code
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
	}

	return func(path string, info os.DirEntry) bool {
		name := info.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			return false
		}
		return !skipDirs[name]
	}
}

// ExpandPatterns resolves directory arguments to package directories. A
// trailing /... scans the tree below the directory; any other argument names
// one directory. Results are sorted and deduplicated.
func (fp *FileProcessor) ExpandPatterns(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		clean := filepath.Clean(dir)
		if !seen[clean] {
			seen[clean] = true
			dirs = append(dirs, clean)
		}
	}

	for _, pattern := range patterns {
		root, recursive := strings.CutSuffix(filepath.ToSlash(pattern), "/...")
		if pattern == "..." {
			root, recursive = ".", true
		}
		if root == "" {
			root = "."
		}
		root = filepath.FromSlash(root)

		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("cannot scan %s: %w", pattern, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("cannot scan %s: not a directory", pattern)
		}

		if !recursive {
			add(root)
			continue
		}
		found, err := fp.ScanDirectoriesWithGoFiles(root)
		if err != nil {
			return nil, err
		}
		for _, dir := range found {
			add(dir)
		}
	}

	sort.Strings(dirs)
	return dirs, nil
}

// ScanDirectoriesWithGoFiles returns root and every directory below it that
// holds hand-written Go files
func (fp *FileProcessor) ScanDirectoriesWithGoFiles(root string) ([]string, error) {
	var dirs []string

	err := filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && !fp.dirFilter(path, entry) {
			return filepath.SkipDir
		}

		hasGoFiles, err := fp.HasGoFiles(path)
		if err != nil {
			return err
		}
		if hasGoFiles {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	return dirs, nil
}

// HasGoFiles checks if a directory contains hand-written Go files
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}

	for _, entry := range entries {
		if fp.sourceFilter(filepath.Join(dir, entry.Name()), entry) {
			return true, nil
		}
	}
	return false, nil
}

// GeneratedFiles lists the generated files directly inside dir
func (fp *FileProcessor) GeneratedFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if fp.generatedFilter(path, entry) {
			files = append(files, path)
		}
	}
	return files, nil
}
