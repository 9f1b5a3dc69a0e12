package cli

import (
	"path/filepath"

	"github.com/toyz/accessorgen/internal/errors"
	"github.com/toyz/accessorgen/internal/parser"
	"github.com/toyz/accessorgen/internal/templates"
	"github.com/toyz/accessorgen/internal/utils"
)

// DirectoryScanner resolves directory arguments to Go package directories
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessor(parser.GeneratedFilePrefix, templates.FileSuffix),
	}
}

// ScanDirectories returns the package directories named by rootDirs.
// Go-style patterns like "./..." scan recursively.
func (s *DirectoryScanner) ScanDirectories(rootDirs []string) ([]string, error) {
	dirs, err := s.fileProcessor.ExpandPatterns(rootDirs)
	if err != nil {
		return nil, errors.Wrap(errors.FileSystemErrorCode, "failed to scan directories", err).
			WithSuggestion("check that the specified directories exist")
	}

	for i, dir := range dirs {
		if abs, err := absPath(dir); err == nil {
			dirs[i] = abs
		}
	}
	return dirs, nil
}

// GeneratedFiles lists the accessor files written into dir
func (s *DirectoryScanner) GeneratedFiles(dir string) ([]string, error) {
	files, err := s.fileProcessor.GeneratedFiles(dir)
	if err != nil {
		return nil, errors.WrapFileSystemError("read directory", dir, err)
	}
	return files, nil
}

func absPath(path string) (string, error) {
	return filepath.Abs(path)
}
