package cli

import (
	"os"
	"path/filepath"

	"github.com/toyz/accessorgen/internal/classmap"
	"github.com/toyz/accessorgen/internal/errors"
	"github.com/toyz/accessorgen/internal/utils"
)

// CleanSummary reports what a clean removed
type CleanSummary struct {
	RemovedFiles   []string
	RemovedEntries []string
}

// Cleaner handles cleaning up generated files
type Cleaner struct {
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	diagnostics    *utils.DiagnosticSystem
}

// NewCleaner creates a new cleaner
func NewCleaner(diagnostics *utils.DiagnosticSystem) *Cleaner {
	if diagnostics == nil {
		diagnostics = utils.NewQuietDiagnostics()
	}
	return &Cleaner{
		scanner:        NewDirectoryScanner(),
		moduleResolver: NewModuleResolver(),
		diagnostics:    diagnostics,
	}
}

// CleanGeneratedFiles removes the accessor files in the configured
// directories. Class map entries pointing at removed or missing files are
// dropped as well.
func (c *Cleaner) CleanGeneratedFiles(config Config) (CleanSummary, error) {
	var summary CleanSummary

	dirs, err := c.scanner.ScanDirectories(config.Directories)
	if err != nil {
		return summary, err
	}

	removed := make(map[string]bool)
	for _, dir := range dirs {
		files, err := c.scanner.GeneratedFiles(dir)
		if err != nil {
			return summary, err
		}
		for _, file := range files {
			if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
				return summary, errors.WrapFileSystemError("remove", file, err)
			}
			c.diagnostics.Verbose("Removed %s", file)
			removed[file] = true
			summary.RemovedFiles = append(summary.RemovedFiles, file)
		}
	}

	store := classmap.NewFileStore(config.GeneratedFilesDirectory)
	if _, err := os.Stat(store.Path()); err != nil {
		return summary, nil
	}

	startDir := ""
	if len(dirs) > 0 {
		startDir = dirs[0]
	}
	mod, err := c.moduleResolver.ResolveModule(config.ModuleName, startDir)
	if err != nil {
		c.diagnostics.Warn("Class map left untouched: %v", err)
		return summary, nil
	}

	entries, err := store.Snapshot()
	if err != nil {
		return summary, err
	}
	for _, entry := range entries {
		path := filepath.Join(mod.Dir, filepath.FromSlash(entry.Path))
		if !removed[path] {
			if _, err := os.Stat(path); err == nil {
				continue
			}
		}
		if err := store.Remove(entry.Name); err != nil {
			return summary, err
		}
		summary.RemovedEntries = append(summary.RemovedEntries, entry.Name)
	}
	return summary, nil
}
