package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DirReader reads entries from an already extracted export.
type DirReader struct {
	root string
}

func OpenDir(root string) (*DirReader, error) {
	stat, err := os.Stat(root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrArchiveNotFound, root)
	}
	if err != nil {
		return nil, err
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}
	return &DirReader{root: root}, nil
}

func (d *DirReader) Name() string {
	return d.root
}

func (d *DirReader) abs(name string) string {
	return filepath.Join(d.root, filepath.FromSlash(cleanEntry(name)))
}

func (d *DirReader) Exists(name string) bool {
	stat, err := os.Stat(d.abs(name))
	return err == nil && !stat.IsDir()
}

func (d *DirReader) ReadText(name string) (string, error) {
	data, err := d.ReadBinary(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (d *DirReader) ReadBinary(name string) ([]byte, error) {
	data, err := os.ReadFile(d.abs(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s in %s", ErrEntryNotFound, name, d.root)
	}
	return data, err
}

func (d *DirReader) ListEntries(prefix string, excluded ...string) ([]string, error) {
	start := d.abs(prefix)
	if _, err := os.Stat(start); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	var names []string
	err := filepath.WalkDir(start, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list %s in %s: %w", prefix, d.root, err)
	}
	return filterEntries(names, prefix, excluded), nil
}

func (d *DirReader) Close() error {
	return nil
}
