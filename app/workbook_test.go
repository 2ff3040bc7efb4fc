package app

import (
	"os"
	"path/filepath"
	"testing"

	"gosheet/domain/table"
	"gosheet/internal/document"
	"gosheet/internal/errors"
	"gosheet/internal/tablediff"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConvertFileAcrossFormats(t *testing.T) {
	in := writeFile(t, "q.csv", "Name,Q1\nAlice,10\nBob,30\n")
	dir := t.TempDir()

	for _, ext := range []string{"xlsx", "xml", "json", "csv"} {
		out := filepath.Join(dir, "q."+ext)
		_, err := ConvertFile(in, out)
		require.NoError(t, err, ext)

		back, err := LoadFile(out)
		require.NoError(t, err, ext)
		assert.True(t, table.Equal(table.New(
			[]string{"Name", "Q1"}, []string{"Alice", "10"}, []string{"Bob", "30"},
		), back), ext)
	}
}

func TestConvertFileErrors(t *testing.T) {
	_, err := ConvertFile(filepath.Join(t.TempDir(), "missing.csv"), "out.json")
	assert.Error(t, err)

	in := writeFile(t, "q.csv", "a\n")
	_, err = ConvertFile(in, filepath.Join(t.TempDir(), "out.pdf"))
	assert.True(t, errors.Is(err, errors.CodeUnsupportedFormat))
}

func TestQueryAndSummarizeFile(t *testing.T) {
	path := writeFile(t, "q.json", `[["Name","Q1"],["Alice",10],["Bob",30]]`)

	res, err := QueryFile(path, document.QueryRequest{ItemRow: 1, NameColumn: "A", Item: "Q1", Op: document.OpAverage})
	require.NoError(t, err)
	assert.Equal(t, []string{"Average: 20.00"}, res.Lines)

	summary, ok, err := SummarizeFile(path, []int{1, 2})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 40.0, summary.Sum)
}

func TestDiffFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.json")
	require.NoError(t, os.WriteFile(a, []byte("Name,Q1\nAlice,10\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte(`[["Name","Q1"],["Alice",10],["Bob",3]]`), 0o644))

	lines, err := DiffFiles(a, b)
	require.NoError(t, err)
	assert.Equal(t, tablediff.Stats{Added: 1, Unchanged: 2}, tablediff.Summarize(lines))
}
