package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/accessorgen/internal/classmap"
	"github.com/toyz/accessorgen/internal/errors"
	"github.com/toyz/accessorgen/internal/utils"
)

// writeModule creates a module rooted in a temporary directory from a map of
// slash-separated relative paths to file contents
func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func quietDiagnostics() *utils.DiagnosticSystem {
	diagnostics := utils.NewQuietDiagnostics()
	diagnostics.SetOutput(io.Discard, io.Discard)
	return diagnostics
}

func testConfig(root string) Config {
	config := DefaultConfig()
	config.Directories = []string{filepath.Join(root, "...")}
	config.GeneratedFilesDirectory = filepath.Join(root, DefaultGeneratedFilesDirectory)
	config.Workers = 4
	return config
}

func newTestGenerator() *Generator {
	return NewGenerator(quietDiagnostics(), WithRunID(func() string { return "run-1" }))
}

const goMod = "module example.com/blog\n\ngo 1.22\n"

const articleSource = `package models

type Article struct {
	// @Get
	// @Set
	// @var string
	title string

	// @Get
	// @Add(name="tag")
	// @Contains(name="tag")
	// @var string[]
	tags []string
}

type Plain struct {
	name string
}
`

const brokenSource = `package broken

type Broken struct {
	// @Get
	name string
}
`

func TestGenerator_Run(t *testing.T) {
	root := writeModule(t, map[string]string{
		"go.mod":            goMod,
		"models/article.go": articleSource,
		"broken/broken.go":  brokenSource,
		"syntax/syntax.go":  "package syntax\n\nfunc {\n",
	})

	summary, err := newTestGenerator().Run(context.Background(), testConfig(root))
	require.Error(t, err)

	var multi *errors.MultipleErrors
	require.True(t, stderrors.As(err, &multi), "expected aggregated errors, got %T", err)
	assert.Equal(t, 2, multi.Count())
	assert.True(t, errors.HasCode(err, errors.GenerationErrorCode))
	assert.True(t, errors.HasCode(err, errors.SyntaxErrorCode))
	assert.True(t, errors.IsGenerationFailure(err))

	assert.Equal(t, "run-1", summary.RunID)
	assert.Equal(t, 3, summary.PackagesProcessed)
	assert.Equal(t, 3, summary.ClassesScanned)
	assert.Equal(t, 1, summary.ClassesGenerated)
	assert.Equal(t, 1, summary.ClassesSkipped)
	assert.Equal(t, 1, summary.ClassesFailed)

	target := filepath.Join(root, "models", "zz_generated.article.accessors.go")
	assert.Equal(t, []string{target}, summary.GeneratedFiles)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "// Code generated by accessorgen. DO NOT EDIT."))
	assert.Contains(t, string(content), "func (a *Article) GetTitle() string {")
	assert.Contains(t, string(content), "func (a *Article) AddTag(value any) error {")
	assert.Contains(t, string(content), "func (a *Article) ContainsTag(value any) (bool, error) {")

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	assert.NoFileExists(t, filepath.Join(root, "models", "zz_generated.plain.accessors.go"))
	assert.NoFileExists(t, filepath.Join(root, "broken", "zz_generated.broken.accessors.go"))

	store := classmap.NewFileStore(filepath.Join(root, DefaultGeneratedFilesDirectory))
	entry, ok := store.Lookup("example.com/blog/models.Article")
	require.True(t, ok)
	assert.Equal(t, "models/zz_generated.article.accessors.go", entry.Path)
	assert.Equal(t, "run-1", entry.RunID)
	assert.False(t, entry.GeneratedAt.IsZero())

	_, ok = store.Lookup("example.com/blog/broken.Broken")
	assert.False(t, ok)
	assert.Len(t, store.Entries(), 1)
}

func TestGenerator_RunIsRepeatable(t *testing.T) {
	root := writeModule(t, map[string]string{
		"go.mod":            goMod,
		"models/article.go": articleSource,
	})
	config := testConfig(root)
	target := filepath.Join(root, "models", "zz_generated.article.accessors.go")

	_, err := newTestGenerator().Run(context.Background(), config)
	require.NoError(t, err)
	first, err := os.ReadFile(target)
	require.NoError(t, err)

	summary, err := NewGenerator(quietDiagnostics(), WithRunID(func() string { return "run-2" })).
		Run(context.Background(), config)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ClassesGenerated)

	second, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	entry, ok := classmap.NewFileStore(config.GeneratedFilesDirectory).Lookup("example.com/blog/models.Article")
	require.True(t, ok)
	assert.Equal(t, "run-2", entry.RunID)

	leftovers, err := filepath.Glob(filepath.Join(root, "models", ".*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestGenerator_RemovesStaleArtifacts(t *testing.T) {
	root := writeModule(t, map[string]string{
		"go.mod":            goMod,
		"models/article.go": articleSource,
	})
	config := testConfig(root)
	target := filepath.Join(root, "models", "zz_generated.article.accessors.go")

	_, err := newTestGenerator().Run(context.Background(), config)
	require.NoError(t, err)
	require.FileExists(t, target)

	plain := "package models\n\ntype Article struct {\n\t// just a title\n\ttitle string\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "models", "article.go"), []byte(plain), 0o644))

	summary, err := newTestGenerator().Run(context.Background(), config)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.ClassesGenerated)
	assert.Equal(t, 1, summary.ClassesSkipped)
	assert.Equal(t, []string{target}, summary.RemovedFiles)
	assert.NoFileExists(t, target)

	_, ok := classmap.NewFileStore(config.GeneratedFilesDirectory).Lookup("example.com/blog/models.Article")
	assert.False(t, ok)
}

func TestGenerator_FailureKeepsPreviousArtifact(t *testing.T) {
	root := writeModule(t, map[string]string{
		"go.mod":            goMod,
		"models/article.go": articleSource,
	})
	config := testConfig(root)
	target := filepath.Join(root, "models", "zz_generated.article.accessors.go")

	_, err := newTestGenerator().Run(context.Background(), config)
	require.NoError(t, err)

	broken := strings.Replace(articleSource, "// @var string\n\ttitle", "title", 1)
	require.NotEqual(t, articleSource, broken)
	require.NoError(t, os.WriteFile(filepath.Join(root, "models", "article.go"), []byte(broken), 0o644))

	summary, err := newTestGenerator().Run(context.Background(), config)
	require.Error(t, err)
	assert.True(t, errors.IsGenerationFailure(err))
	assert.Equal(t, 1, summary.ClassesFailed)
	assert.FileExists(t, target)

	_, ok := classmap.NewFileStore(config.GeneratedFilesDirectory).Lookup("example.com/blog/models.Article")
	assert.False(t, ok)
}

func TestGenerator_ManyClassesInParallel(t *testing.T) {
	var source strings.Builder
	source.WriteString("package models\n")
	names := []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot", "Golf", "Hotel", "India", "Juliet", "Kilo", "Lima"}
	for _, name := range names {
		source.WriteString("\ntype " + name + " struct {\n\t// @Get\n\t// @Set\n\t// @var int\n\tcount int\n}\n")
	}
	root := writeModule(t, map[string]string{
		"go.mod":          goMod,
		"models/types.go": source.String(),
	})

	summary, err := newTestGenerator().Run(context.Background(), testConfig(root))
	require.NoError(t, err)
	assert.Equal(t, len(names), summary.ClassesGenerated)
	assert.Len(t, summary.GeneratedFiles, len(names))

	entries := classmap.NewFileStore(filepath.Join(root, DefaultGeneratedFilesDirectory)).Entries()
	require.Len(t, entries, len(names))
	for _, entry := range entries {
		assert.True(t, strings.HasPrefix(entry.Name, "example.com/blog/models."), entry.Name)
	}
}

func TestGenerator_CustomModule(t *testing.T) {
	root := writeModule(t, map[string]string{
		"models/article.go": articleSource,
	})
	config := testConfig(root)
	config.ModuleName = "example.org/custom"

	_, err := NewGenerator(quietDiagnostics(), WithWorkingDir(root)).Run(context.Background(), config)
	require.NoError(t, err)

	entry, ok := classmap.NewFileStore(config.GeneratedFilesDirectory).Lookup("example.org/custom/models.Article")
	require.True(t, ok)
	assert.Equal(t, "models/zz_generated.article.accessors.go", entry.Path)
}

func TestGenerator_RuntimeImport(t *testing.T) {
	root := writeModule(t, map[string]string{
		"go.mod":            goMod,
		"models/article.go": articleSource,
	})
	config := testConfig(root)
	config.RuntimeImport = "example.com/blog/internal/accessor"

	_, err := newTestGenerator().Run(context.Background(), config)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(root, "models", "zz_generated.article.accessors.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "\"example.com/blog/internal/accessor\"")
	assert.NotContains(t, string(content), "github.com/toyz/accessorgen/pkg/accessor")
}

func TestGenerator_VerboseReportsAnnotationCache(t *testing.T) {
	root := writeModule(t, map[string]string{
		"go.mod":            goMod,
		"models/article.go": articleSource,
	})
	previous := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = previous })

	var out bytes.Buffer
	diagnostics := utils.NewVerboseDiagnostics()
	diagnostics.SetOutput(&out, io.Discard)

	_, err := NewGenerator(diagnostics).Run(context.Background(), testConfig(root))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "[VERBOSE] Annotation cache: 2 properties")
}

func TestGenerator_InvalidConfig(t *testing.T) {
	root := writeModule(t, map[string]string{"go.mod": goMod})
	config := testConfig(root)
	config.Workers = 0

	_, err := newTestGenerator().Run(context.Background(), config)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ConfigurationErrorCode))
	assert.NoDirExists(t, config.GeneratedFilesDirectory)
}

func TestGenerator_GeneratedDirectoryFailureIsFatal(t *testing.T) {
	root := writeModule(t, map[string]string{
		"go.mod":            goMod,
		"models/article.go": articleSource,
		"blocked":           "not a directory",
	})
	config := testConfig(root)
	config.GeneratedFilesDirectory = filepath.Join(root, "blocked", "generated")

	summary, err := newTestGenerator().Run(context.Background(), config)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.FileSystemErrorCode))
	assert.Contains(t, err.Error(), config.GeneratedFilesDirectory)
	assert.Zero(t, summary.ClassesGenerated)
	assert.NoFileExists(t, filepath.Join(root, "models", "zz_generated.article.accessors.go"))
}

func TestGenerator_CancelledContext(t *testing.T) {
	root := writeModule(t, map[string]string{
		"go.mod":            goMod,
		"models/article.go": articleSource,
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := newTestGenerator().Run(ctx, testConfig(root))
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.ClassesGenerated)
}

func TestGenerator_NoPackages(t *testing.T) {
	root := writeModule(t, map[string]string{"go.mod": goMod})

	summary, err := newTestGenerator().Run(context.Background(), testConfig(root))
	require.NoError(t, err)
	assert.Zero(t, summary.PackagesProcessed)
}
