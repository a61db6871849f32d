// Package archive reads the entries of an export, either a zip file or an extracted directory.
package archive

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"golang.org/x/exp/slices"
)

var (
	// ErrArchiveNotFound is fatal for the whole run.
	ErrArchiveNotFound = errors.New("archive not found")
	ErrEntryNotFound   = errors.New("entry not found")
)

// Reader gives access to the entries of an archive. Entry names always use forward slashes.
type Reader interface {
	// Name returns the archive location.
	Name() string
	// Exists checks if an entry is present.
	Exists(name string) bool
	ReadText(name string) (string, error)
	ReadBinary(name string) ([]byte, error)
	// ListEntries returns the files under the directory prefix, excluding the given base names.
	ListEntries(prefix string, excluded ...string) ([]string, error)
	Close() error
}

// Open opens a zip file or a directory.
func Open(location string) (Reader, error) {
	stat, err := os.Stat(location)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrArchiveNotFound, location)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open archive %s: %w", location, err)
	}
	if stat.IsDir() {
		return OpenDir(location)
	}
	return OpenZip(location)
}

// cleanEntry normalizes an entry name.
func cleanEntry(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Clean("/" + name)
	return strings.TrimPrefix(name, "/")
}

// filterEntries keeps the files under prefix and sorts them.
func filterEntries(names []string, prefix string, excluded []string) []string {
	prefix = cleanEntry(prefix)
	if prefix != "" {
		prefix += "/"
	}
	var result []string
	for _, name := range names {
		if strings.HasSuffix(name, "/") || !strings.HasPrefix(name, prefix) {
			continue
		}
		if slices.Contains(excluded, path.Base(name)) {
			continue
		}
		result = append(result, name)
	}
	slices.Sort(result)
	return result
}
