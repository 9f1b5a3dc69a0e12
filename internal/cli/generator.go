package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/toyz/accessorgen/internal/annotations"
	"github.com/toyz/accessorgen/internal/classmap"
	"github.com/toyz/accessorgen/internal/errors"
	"github.com/toyz/accessorgen/internal/generator"
	"github.com/toyz/accessorgen/internal/models"
	"github.com/toyz/accessorgen/internal/parser"
	"github.com/toyz/accessorgen/internal/templates"
	"github.com/toyz/accessorgen/internal/utils"
)

// GenerationSummary contains information about what was generated
type GenerationSummary struct {
	RunID             string
	PackagesProcessed int
	ClassesScanned    int
	ClassesGenerated  int
	ClassesSkipped    int
	ClassesFailed     int
	GeneratedFiles    []string
	RemovedFiles      []string
	Duration          time.Duration
}

// Generator coordinates the CLI generation process
type Generator struct {
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	parser         *parser.Parser
	renderer       *templates.Renderer
	diagnostics    *utils.DiagnosticSystem
	newRunID       func() string
	workingDir     string
}

// GeneratorOption configures a Generator
type GeneratorOption func(*Generator)

// WithRenderer replaces the source renderer
func WithRenderer(renderer *templates.Renderer) GeneratorOption {
	return func(g *Generator) {
		g.renderer = renderer
	}
}

// WithRunID fixes the run id generator, mostly for tests
func WithRunID(newRunID func() string) GeneratorOption {
	return func(g *Generator) {
		g.newRunID = newRunID
	}
}

// WithWorkingDir sets the directory the module is resolved from when no
// package directory is found
func WithWorkingDir(dir string) GeneratorOption {
	return func(g *Generator) {
		g.workingDir = dir
	}
}

// NewGenerator creates a new CLI generator reporting through diagnostics
func NewGenerator(diagnostics *utils.DiagnosticSystem, opts ...GeneratorOption) *Generator {
	if diagnostics == nil {
		diagnostics = utils.NewQuietDiagnostics()
	}
	g := &Generator{
		scanner:        NewDirectoryScanner(),
		moduleResolver: NewModuleResolver(),
		parser:         parser.NewParser(),
		renderer:       templates.NewRenderer(),
		diagnostics:    diagnostics,
		newRunID:       func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// run holds the state shared by the workers of one generation run
type run struct {
	config      Config
	module      utils.GoModule
	store       *classmap.FileStore
	synthesizer *generator.Synthesizer
	renderer    *templates.Renderer

	mu      sync.Mutex
	summary GenerationSummary
	errs    *errors.MultipleErrors
}

// Run executes the complete generation process. Configuration, module and
// scan failures abort the run. Package and class failures are collected and
// returned together as *errors.MultipleErrors after every other class has
// been generated.
func (g *Generator) Run(ctx context.Context, config Config) (GenerationSummary, error) {
	startTime := time.Now()
	runID := g.newRunID()

	g.diagnostics.Verbose("Starting code generation run %s", runID)
	g.diagnostics.Debug("Scanning directories: %v", config.Directories)

	if err := config.Validate(); err != nil {
		return GenerationSummary{RunID: runID}, err
	}
	if err := config.EnsureGeneratedDirectory(); err != nil {
		return GenerationSummary{RunID: runID}, err
	}

	packageDirs, err := g.scanner.ScanDirectories(config.Directories)
	if err != nil {
		return GenerationSummary{RunID: runID}, err
	}
	if len(packageDirs) == 0 {
		g.diagnostics.Warn("No Go packages found in %v", config.Directories)
		return GenerationSummary{RunID: runID, Duration: time.Since(startTime)}, nil
	}

	startDir := g.workingDir
	if startDir == "" {
		startDir = packageDirs[0]
	}
	mod, err := g.moduleResolver.ResolveModule(config.ModuleName, startDir)
	if err != nil {
		return GenerationSummary{RunID: runID}, errors.Wrap(errors.ConfigurationErrorCode, "failed to resolve module", err).
			WithSuggestions(
				"check that a go.mod file exists above the scanned directories",
				"try specifying --module explicitly",
			).
			WithContext("directories", config.Directories)
	}
	g.diagnostics.Debug("Resolved module %s at %s", mod.Path, mod.Dir)

	renderer := g.renderer
	if config.RuntimeImport != "" {
		renderer = renderer.ForRuntime(config.RuntimeImport)
		g.diagnostics.Debug("Importing runtime from %s", config.RuntimeImport)
	}

	cache := annotations.NewCache()
	r := &run{
		config:      config,
		module:      mod,
		store:       classmap.NewFileStore(config.GeneratedFilesDirectory),
		synthesizer: generator.NewDefaultSynthesizer(config.MethodAnnotationsMap, cache),
		renderer:    renderer,
		summary: GenerationSummary{
			RunID:             runID,
			PackagesProcessed: len(packageDirs),
		},
		errs: errors.NewMultipleErrors(),
	}

	g.diagnostics.Info("Found %d packages to process", len(packageDirs))
	var classes []models.ClassMetadata
	for _, dir := range packageDirs {
		pkg, err := g.parsePackage(mod, dir)
		if err != nil {
			r.fail(err)
			continue
		}
		g.diagnostics.Verbose("Parsed %s: %d types", pkg.ImportPath, len(pkg.Classes))
		classes = append(classes, pkg.Classes...)
	}
	r.summary.ClassesScanned = len(classes)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(config.Workers)
	for _, class := range classes {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			g.generateClass(r, class)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return r.finish(startTime), err
	}
	stats := cache.Stats()
	g.diagnostics.Verbose("Annotation cache: %d properties, %d hits, %d misses", stats.Size, stats.Hits, stats.Misses)
	if err := ctx.Err(); err != nil {
		return r.finish(startTime), err
	}

	return r.finish(startTime), r.errs.ErrOrNil()
}

func (g *Generator) parsePackage(mod utils.GoModule, dir string) (*models.PackageMetadata, error) {
	pkg, err := g.parser.ParseDirectory(dir)
	if err != nil {
		var parseErr *models.GeneratorError
		if stderrors.As(err, &parseErr) && parseErr.Cause != nil {
			err = parseErr.Cause
		}
		return nil, errors.WrapParseError(fmt.Sprintf("package %s", dir), err).
			WithLocation(errors.SourceLocation{File: dir})
	}

	importPath, err := g.moduleResolver.BuildPackagePath(mod, dir)
	if err != nil {
		return nil, errors.Wrap(errors.ConfigurationErrorCode, "cannot determine import path", err).
			WithLocation(errors.SourceLocation{File: dir}).
			WithSuggestion("scan only directories inside the module or set --module")
	}
	pkg.SetImportPath(importPath)
	return pkg, nil
}

// generateClass runs synthesize, render, write and publish for one class.
// A class whose accessors all disappeared has its stale artifact removed.
func (g *Generator) generateClass(r *run, class models.ClassMetadata) {
	name := class.Name()
	target := filepath.Join(filepath.Dir(class.FileName), templates.FileName(class.TypeName))

	if !class.HasDocumentedProperties() {
		g.skip(r, name, target)
		return
	}

	synthesized, err := r.synthesizer.Synthesize(class)
	if err != nil {
		g.failClass(r, name, errors.StageSynthesize, err)
		return
	}
	if len(synthesized.Methods) == 0 {
		g.skip(r, name, target)
		return
	}

	artifact, err := r.renderer.Render(synthesized, class)
	if err != nil {
		g.failClass(r, name, errors.StageRender, err)
		return
	}
	artifact.FilePath = target

	if err := writeFileAtomic(target, []byte(artifact.Content)); err != nil {
		g.failClass(r, name, errors.StageWrite, err)
		return
	}

	entry := classmap.Entry{
		Name:        name,
		Path:        r.relativePath(target),
		RunID:       r.summary.RunID,
		GeneratedAt: artifact.GeneratedAt,
	}
	if err := r.store.Put(entry); err != nil {
		g.failClass(r, name, errors.StagePublish, err)
		return
	}

	g.diagnostics.Progress("%s (%d accessors)", name, len(artifact.Methods))
	r.mu.Lock()
	r.summary.ClassesGenerated++
	r.summary.GeneratedFiles = append(r.summary.GeneratedFiles, target)
	r.mu.Unlock()
}

func (g *Generator) skip(r *run, name, target string) {
	removed := false
	if _, err := os.Stat(target); err == nil {
		if err := os.Remove(target); err != nil {
			r.fail(errors.WrapFileSystemError("remove stale accessors", target, err))
			return
		}
		removed = true
		g.diagnostics.Verbose("Removed stale %s", target)
	}
	if _, ok := r.store.Lookup(name); ok {
		if err := r.store.Remove(name); err != nil {
			r.fail(err)
			return
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary.ClassesSkipped++
	if removed {
		r.summary.RemovedFiles = append(r.summary.RemovedFiles, target)
	}
}

// failClass records a class failure. The class loses its class map entry;
// an artifact from an earlier run is left in place.
func (g *Generator) failClass(r *run, name, stage string, err error) {
	var genErr *errors.GenerationError
	if !stderrors.As(err, &genErr) {
		genErr = errors.NewGenerationErrorf(name, stage, "%s failed", stage).WithCause(err)
	}
	g.diagnostics.Failure("%s: %s", name, genErr.Message)
	if removeErr := r.store.Remove(name); removeErr != nil {
		g.diagnostics.Warn("cannot unpublish %s: %v", name, removeErr)
	}

	r.mu.Lock()
	r.summary.ClassesFailed++
	r.mu.Unlock()
	r.fail(genErr)
}

func (r *run) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var genErr errors.GeneratorError
	if !stderrors.As(err, &genErr) {
		genErr = errors.Wrap(errors.UnknownErrorCode, err.Error(), err)
	}
	r.errs.Add(genErr)
}

func (r *run) relativePath(path string) string {
	rel, err := filepath.Rel(r.module.Dir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (r *run) finish(startTime time.Time) GenerationSummary {
	r.mu.Lock()
	defer r.mu.Unlock()

	summary := r.summary
	summary.GeneratedFiles = append([]string(nil), summary.GeneratedFiles...)
	summary.RemovedFiles = append([]string(nil), summary.RemovedFiles...)
	sort.Strings(summary.GeneratedFiles)
	sort.Strings(summary.RemovedFiles)
	summary.Duration = time.Since(startTime)
	return summary
}

// writeFileAtomic replaces path with data through a temporary file in the
// same directory
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.WrapFileSystemError("create temporary file in", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.WrapFileSystemError("write", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapFileSystemError("close", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return errors.WrapFileSystemError("chmod", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.WrapFileSystemError("write", path, err)
	}
	return nil
}
