package classmap

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/accessorgen/internal/errors"
)

var generatedAt = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

func entry(name string) Entry {
	return Entry{
		Name:        name,
		Path:        "models/zz_generated.article.accessors.go",
		RunID:       "6f1c3b1e-6f6a-4c1e-9a53-0c1f2b7f8e11",
		GeneratedAt: generatedAt,
	}
}

func TestFileStore_PutLookup(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	assert.Equal(t, filepath.Join(dir, FileName), store.Path())

	_, ok := store.Lookup("example.com/blog/models.Article")
	assert.False(t, ok)
	assert.Empty(t, store.Entries())

	require.NoError(t, store.Put(entry("example.com/blog/models.Article")))

	reopened := NewFileStore(dir)
	got, ok := reopened.Lookup("example.com/blog/models.Article")
	require.True(t, ok)
	assert.Equal(t, entry("example.com/blog/models.Article"), got)

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: \"1.0\"")
	assert.Contains(t, string(data), "example.com/blog/models.Article:")
	assert.Contains(t, string(data), "6f1c3b1e-6f6a-4c1e-9a53-0c1f2b7f8e11")
}

func TestFileStore_PutReplaces(t *testing.T) {
	store := NewFileStore(t.TempDir())

	require.NoError(t, store.Put(entry("app.A")))
	updated := entry("app.A")
	updated.RunID = "second"
	require.NoError(t, store.Put(updated))

	entries := store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "second", entries[0].RunID)
}

func TestFileStore_RemoveAndEntries(t *testing.T) {
	store := NewFileStore(t.TempDir())

	for _, name := range []string{"app.C", "app.A", "app.B"} {
		require.NoError(t, store.Put(entry(name)))
	}

	require.NoError(t, store.Remove("app.B"))
	require.NoError(t, store.Remove("app.Missing"))

	entries := store.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "app.A", entries[0].Name)
	assert.Equal(t, "app.C", entries[1].Name)
}

func TestFileStore_ConcurrentPuts(t *testing.T) {
	store := NewFileStore(t.TempDir())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Put(entry(fmt.Sprintf("app.Class%02d", i))))
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Entries(), 20)

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(store.Path()), ".classmap-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFileStore_RejectsEmptyName(t *testing.T) {
	err := NewFileStore(t.TempDir()).Put(Entry{Path: "x.go"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ClassMapErrorCode))
}

func TestFileStore_LoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{
			name:     "unsupported version",
			content:  "version: \"2.1\"\nentries: {}\n",
			contains: "format version 2.1",
		},
		{
			name:     "missing version",
			content:  "entries: {}\n",
			contains: "invalid format version",
		},
		{
			name:     "not yaml",
			content:  "entries: [",
			contains: "failed to decode class map",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewFileStore(t.TempDir())
			require.NoError(t, os.WriteFile(store.Path(), []byte(tt.content), 0o644))

			_, err := store.Snapshot()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
			assert.True(t, errors.HasCode(err, errors.ClassMapErrorCode))

			assert.Nil(t, store.Entries())
			_, ok := store.Lookup("app.A")
			assert.False(t, ok)
			assert.Error(t, store.Put(entry("app.A")))
		})
	}
}

func TestFileStore_MissingDirectory(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent"))

	err := store.Put(entry("app.A"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write class map")
}
