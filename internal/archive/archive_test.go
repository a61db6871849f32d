package archive_test

import (
	"path/filepath"
	"testing"

	"github.com/julien-sobczak/nimbus2md/internal/archive"
	"github.com/julien-sobczak/nimbus2md/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var files = map[string]string{
	"workspaces.json":         `[]`,
	"n1/note.json":            `{"id": "n1"}`,
	"n1/note.html":            `<p>Hello</p>`,
	"n1/assets/photo.png":     "PNG",
	"n1/assets/sub/doc.pdf":   "PDF",
	"n1/assets/.DS_Store":     "",
	"n2/note.html.enc":        "xxx",
	"n2/assets/unrelated.txt": "txt",
}

func TestReaders(t *testing.T) {
	var tests = []struct {
		name string
		open func(t *testing.T) archive.Reader
	}{
		{
			name: "zip",
			open: func(t *testing.T) archive.Reader {
				reader, err := archive.Open(testutil.SetUpZip(t, files))
				require.NoError(t, err)
				return reader
			},
		},
		{
			name: "directory",
			open: func(t *testing.T) archive.Reader {
				reader, err := archive.Open(testutil.SetUpDir(t, files))
				require.NoError(t, err)
				return reader
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := tt.open(t)
			defer reader.Close()

			text, err := reader.ReadText("n1/note.html")
			require.NoError(t, err)
			assert.Equal(t, "<p>Hello</p>", text)

			data, err := reader.ReadBinary("/n1/assets/photo.png")
			require.NoError(t, err)
			assert.Equal(t, []byte("PNG"), data)

			_, err = reader.ReadText("n1/missing.html")
			assert.ErrorIs(t, err, archive.ErrEntryNotFound)

			assert.True(t, reader.Exists("n2/note.html.enc"))
			assert.False(t, reader.Exists("n2/note.html"))
			assert.False(t, reader.Exists("n1"))

			entries, err := reader.ListEntries("n1/assets", ".DS_Store")
			require.NoError(t, err)
			assert.Equal(t, []string{"n1/assets/photo.png", "n1/assets/sub/doc.pdf"}, entries)

			entries, err = reader.ListEntries("n3/assets")
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := archive.Open(filepath.Join(t.TempDir(), "missing.zip"))
	assert.ErrorIs(t, err, archive.ErrArchiveNotFound)
}
