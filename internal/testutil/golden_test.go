package testutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoldenFile(t *testing.T) {
	content := GoldenFile(t)
	assert.Equal(t, "# TestGoldenFile\n\nHi!\n", string(content))
}

func TestAssertGolden(t *testing.T) {
	assert.True(t, AssertGolden(t, "TestAssertGolden.txt", "line 1\nline 2\n"))
}

func TestSetUpDir(t *testing.T) {
	dir := SetUpDir(t, map[string]string{
		"notes.md":         "# Notes\n",
		"projects/todo.md": "* [x] Create backlog\n",
	})

	assertFileContains(t, filepath.Join(dir, "notes.md"), "# Notes\n")
	assertFileContains(t, filepath.Join(dir, "projects/todo.md"), "* [x] Create backlog\n")
	assert.Equal(t, map[string]string{
		"notes.md":         "# Notes\n",
		"projects/todo.md": "* [x] Create backlog\n",
	}, ReadDir(t, dir))
}

func TestSetUpZip(t *testing.T) {
	path := SetUpZip(t, map[string]string{"c.txt": "c", "a/b.txt": "b"})
	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, stat.Size(), int64(0))

	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"a/b.txt", "c.txt"}, names)
}

/* Test Assertions */

func assertFileContains(t *testing.T, filename string, expected string) {
	actual, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, expected, string(actual))
}
