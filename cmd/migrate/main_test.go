package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindTableFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	for _, name := range []string{"a.csv", "nested/b.XLSX", "notes.txt", "nested/c.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	files, err := findTableFiles(dir)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	assert.ElementsMatch(t, []string{"a.csv", "b.XLSX", "c.json"}, names)
}

func TestFindTableFiles_MissingDir(t *testing.T) {
	_, err := findTableFiles(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
