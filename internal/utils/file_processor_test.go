package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")
	writeFile(t, filepath.Join(root, "models", "article.go"), "package models\n")
	writeFile(t, filepath.Join(root, "models", "zz_generated.article.accessors.go"), "package models\n")
	writeFile(t, filepath.Join(root, "models", "article_test.go"), "package models\n")
	writeFile(t, filepath.Join(root, "only_tests", "a_test.go"), "package only\n")
	writeFile(t, filepath.Join(root, "vendor", "lib", "lib.go"), "package lib\n")
	writeFile(t, filepath.Join(root, ".accessorgen", "x.go"), "package x\n")
	writeFile(t, filepath.Join(root, "_scratch", "x.go"), "package x\n")
	return root
}

func TestFileProcessor_ExpandPatterns(t *testing.T) {
	root := newTestTree(t)
	fp := NewFileProcessor("zz_generated.", ".accessors.go")

	dirs, err := fp.ExpandPatterns([]string{root + "/..."})
	require.NoError(t, err)
	assert.Equal(t, []string{root, filepath.Join(root, "models")}, dirs)

	dirs, err = fp.ExpandPatterns([]string{filepath.Join(root, "models"), root + "/models/..."})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "models")}, dirs)

	_, err = fp.ExpandPatterns([]string{filepath.Join(root, "missing")})
	assert.ErrorContains(t, err, "cannot scan")

	_, err = fp.ExpandPatterns([]string{filepath.Join(root, "main.go")})
	assert.ErrorContains(t, err, "not a directory")
}

func TestFileProcessor_HasGoFiles(t *testing.T) {
	root := newTestTree(t)
	fp := NewFileProcessor("zz_generated.", ".accessors.go")

	ok, err := fp.HasGoFiles(filepath.Join(root, "models"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = fp.HasGoFiles(filepath.Join(root, "only_tests"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileProcessor_GeneratedFiles(t *testing.T) {
	root := newTestTree(t)
	fp := NewFileProcessor("zz_generated.", ".accessors.go")

	files, err := fp.GeneratedFiles(filepath.Join(root, "models"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "models", "zz_generated.article.accessors.go")}, files)
}
