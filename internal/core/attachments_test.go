package core_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/julien-sobczak/nimbus2md/internal/core"
	"github.com/julien-sobczak/nimbus2md/pkg/filename"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachmentStore(t *testing.T) {
	root := t.TempDir()
	store := core.NewAttachmentStore(root, filename.NewReserver())

	path, reused, err := store.Put("Work/attachments", "photo.png", []byte("PNG"))
	require.NoError(t, err)
	assert.False(t, reused)
	assert.Equal(t, "Work/attachments/photo.png", path)

	path, reused, err = store.Put("Work/attachments", "copy.png", []byte("PNG"))
	require.NoError(t, err)
	assert.True(t, reused)
	assert.Equal(t, "Work/attachments/photo.png", path)

	path, reused, err = store.Put("Work/attachments", "photo.png", []byte("JPG"))
	require.NoError(t, err)
	assert.False(t, reused)
	assert.Equal(t, "Work/attachments/photo-1.png", path)
}

func TestAttachmentStoreWriteFailure(t *testing.T) {
	root := t.TempDir()
	store := core.NewAttachmentStore(root, filename.NewReserver())

	// A file blocks the creation of the directory
	blocker := filepath.Join(root, "Work")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	_, _, err := store.Put("Work/attachments", "photo.png", []byte("PNG"))
	require.Error(t, err)

	// The failed write is neither reused nor keeps its name reserved
	require.NoError(t, os.Remove(blocker))
	path, reused, err := store.Put("Work/attachments", "photo.png", []byte("PNG"))
	require.NoError(t, err)
	assert.False(t, reused)
	assert.Equal(t, "Work/attachments/photo.png", path)

	data, err := os.ReadFile(filepath.Join(root, "Work", "attachments", "photo.png"))
	require.NoError(t, err)
	assert.Equal(t, "PNG", string(data))
}
