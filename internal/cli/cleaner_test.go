package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/accessorgen/internal/classmap"
)

func TestCleaner_CleanGeneratedFiles(t *testing.T) {
	root := writeModule(t, map[string]string{
		"go.mod":            goMod,
		"models/article.go": articleSource,
		"other/other.go":    "package other\n\ntype Other struct {\n\t// @Get\n\t// @var int\n\tcount int\n}\n",
	})
	config := testConfig(root)

	_, err := newTestGenerator().Run(context.Background(), config)
	require.NoError(t, err)

	store := classmap.NewFileStore(config.GeneratedFilesDirectory)
	require.NoError(t, store.Put(classmap.Entry{
		Name:        "example.com/blog/gone.Gone",
		Path:        "gone/zz_generated.gone.accessors.go",
		RunID:       "run-0",
		GeneratedAt: time.Now(),
	}))
	require.Len(t, store.Entries(), 3)

	config.Directories = []string{filepath.Join(root, "models")}
	summary, err := NewCleaner(quietDiagnostics()).CleanGeneratedFiles(config)
	require.NoError(t, err)

	article := filepath.Join(root, "models", "zz_generated.article.accessors.go")
	other := filepath.Join(root, "other", "zz_generated.other.accessors.go")
	assert.Equal(t, []string{article}, summary.RemovedFiles)
	assert.ElementsMatch(t, []string{"example.com/blog/models.Article", "example.com/blog/gone.Gone"}, summary.RemovedEntries)
	assert.NoFileExists(t, article)
	assert.FileExists(t, other)

	entries := store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "example.com/blog/other.Other", entries[0].Name)
}

func TestCleaner_WithoutClassMap(t *testing.T) {
	root := writeModule(t, map[string]string{
		"go.mod":            goMod,
		"models/article.go": articleSource,
	})

	summary, err := NewCleaner(quietDiagnostics()).CleanGeneratedFiles(testConfig(root))
	require.NoError(t, err)
	assert.Empty(t, summary.RemovedFiles)
	assert.Empty(t, summary.RemovedEntries)
	assert.NoDirExists(t, filepath.Join(root, DefaultGeneratedFilesDirectory))
}
