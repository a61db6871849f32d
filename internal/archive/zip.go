package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
)

// ZipReader reads entries from a zip file.
type ZipReader struct {
	location string
	reader   *zip.ReadCloser
	files    map[string]*zip.File
	names    []string
}

func OpenZip(location string) (*ZipReader, error) {
	reader, err := zip.OpenReader(location)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrArchiveNotFound, location)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read zip %s: %w", location, err)
	}
	result := &ZipReader{
		location: location,
		reader:   reader,
		files:    make(map[string]*zip.File),
	}
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		name := cleanEntry(file.Name)
		result.files[name] = file
		result.names = append(result.names, name)
	}
	return result, nil
}

func (z *ZipReader) Name() string {
	return z.location
}

func (z *ZipReader) Exists(name string) bool {
	_, ok := z.files[cleanEntry(name)]
	return ok
}

func (z *ZipReader) ReadText(name string) (string, error) {
	data, err := z.ReadBinary(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (z *ZipReader) ReadBinary(name string) ([]byte, error) {
	file, ok := z.files[cleanEntry(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrEntryNotFound, name, z.location)
	}
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("unable to open %s in %s: %w", name, z.location, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (z *ZipReader) ListEntries(prefix string, excluded ...string) ([]string, error) {
	return filterEntries(z.names, prefix, excluded), nil
}

func (z *ZipReader) Close() error {
	return z.reader.Close()
}
