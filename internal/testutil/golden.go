package testutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	godiffpatch "github.com/sourcegraph/go-diff-patch"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// UpdateGoldenEnv rewrites golden files instead of comparing when set to a non-empty value.
const UpdateGoldenEnv = "UPDATE_GOLDEN"

// GoldenFile reads the content of the golden file of the current test.
func GoldenFile(t *testing.T) []byte {
	return GoldenFileNamed(t, t.Name()+".md")
}

// GoldenFileNamed reads the content of the given golden file.
func GoldenFileNamed(t *testing.T, filename string) []byte {
	path := filepath.Join("testdata", filename)
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed reading golden file %s: %v", path, err)
	}
	return b
}

// AssertGolden compares the actual text with the golden file testdata/<filename>.
// A unified diff is reported on mismatch.
func AssertGolden(t *testing.T, filename string, actual string) bool {
	t.Helper()
	path := filepath.Join("testdata", filename)
	if os.Getenv(UpdateGoldenEnv) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(actual), 0644); err != nil {
			t.Fatal(err)
		}
		return true
	}
	expected := string(GoldenFileNamed(t, filename))
	if expected == actual {
		return true
	}
	t.Errorf("content differs from golden file %s:\n%s", path, godiffpatch.GeneratePatch(filename, expected, actual))
	return false
}

// SetUpFromFileContent creates a temp file based on the given file content.
func SetUpFromFileContent(t *testing.T, filename string, content string) string {
	dir := t.TempDir()

	fileOut := filepath.Join(dir, filename)
	err := os.WriteFile(fileOut, []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	return fileOut
}

// SetUpDir populates a temp directory with the given files (slash-separated relative path => content).
func SetUpDir(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// SetUpZip creates a temp zip file containing the given files.
func SetUpZip(t *testing.T, files map[string]string) string {
	path := filepath.Join(t.TempDir(), "export.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	names := maps.Keys(files)
	slices.Sort(names)
	for _, name := range names {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := entry.Write([]byte(files[name])); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

// ReadDir returns the files present under dir (slash-separated relative path => content).
func ReadDir(t *testing.T, dir string) map[string]string {
	result := make(map[string]string)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		result[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return result
}
