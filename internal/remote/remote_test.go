package remote_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/julien-sobczak/nimbus2md/internal/remote"
	"github.com/julien-sobczak/nimbus2md/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSRemote(t *testing.T) {
	origin := t.TempDir()

	r, err := remote.NewFSRemote(origin)
	require.NoError(t, err)

	// Add a file
	err = r.PutObject("Personal/Roadmap.md", []byte("# Plan\n"))
	require.NoError(t, err)

	// Read the wrong file
	_, err = r.GetObject("Roadmap.md")
	require.ErrorIs(t, err, remote.ErrObjectNotExist)

	// Read the correct file
	data, err := r.GetObject("Personal/Roadmap.md")
	require.NoError(t, err)
	require.Equal(t, []byte("# Plan\n"), data)

	// Update the file
	require.NoError(t, r.PutObject("Personal/Roadmap.md", []byte("# Plan\n\n- [ ] item\n")))
	data, err = r.GetObject("Personal/Roadmap.md")
	require.NoError(t, err)
	require.Equal(t, []byte("# Plan\n\n- [ ] item\n"), data)

	// Delete the file
	err = r.DeleteObject("Personal/Roadmap.md")
	require.NoError(t, err)

	// Delete a missing file
	err = r.DeleteObject("Personal/Roadmap.md")
	require.ErrorIs(t, err, remote.ErrObjectNotExist)
}

func TestNewFSRemoteNotADirectory(t *testing.T) {
	path := testutil.SetUpFromFileContent(t, "file.txt", "hello")
	_, err := remote.NewFSRemote(path)
	assert.Error(t, err)
}

func TestPublish(t *testing.T) {
	root := testutil.SetUpDir(t, map[string]string{
		"Personal/Roadmap.md":            "# Plan\n",
		"Personal/attachments/photo.png": "PNG",
		"Unsorted/Ideas.md":              "Ideas\n",
	})
	target := t.TempDir()
	r, err := remote.NewFSRemote(target)
	require.NoError(t, err)

	var mu sync.Mutex
	var uploaded []string
	count, err := remote.Publish(context.Background(), root, r, 2, func(key string) {
		mu.Lock()
		defer mu.Unlock()
		uploaded = append(uploaded, key)
	})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	sort.Strings(uploaded)
	assert.Equal(t, []string{
		"Personal/Roadmap.md",
		"Personal/attachments/photo.png",
		"Unsorted/Ideas.md",
	}, uploaded)
	assert.Equal(t, map[string]string{
		"Personal/Roadmap.md":            "# Plan\n",
		"Personal/attachments/photo.png": "PNG",
		"Unsorted/Ideas.md":              "Ideas\n",
	}, testutil.ReadDir(t, target))
}

func TestPublishCanceled(t *testing.T) {
	root := testutil.SetUpDir(t, map[string]string{"a.md": "a"})
	r, err := remote.NewFSRemote(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = remote.Publish(ctx, root, r, 1, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
