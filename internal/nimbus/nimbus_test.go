package nimbus_test

import (
	"testing"

	"github.com/julien-sobczak/nimbus2md/internal/archive"
	"github.com/julien-sobczak/nimbus2md/internal/nimbus"
	"github.com/julien-sobczak/nimbus2md/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := testutil.SetUpDir(t, map[string]string{
		"workspaces.json": `[{"id": "w1", "title": "Personal"}]`,
		"folders.json": `[
			{"id": "f1", "title": "Projects", "workspace_id": "w1"},
			{"id": "f2", "title": "Home", "parent_id": "f1", "workspace_id": "w1"},
			{"id": "f3", "title": "Loop", "parent_id": "f4"},
			{"id": "f4", "title": "Back", "parent_id": "f3"}
		]`,
		"b/note.json":          `{"id": "nb", "title": "Secret", "encrypted": true}`,
		"a/note.json":          `{"id": "na", "title": "Kitchen", "parent_id": "f2", "workspace_id": "w1", "tags": ["home"], "created_at": 1700000000}`,
		"a/note.html":          `<p>Hello</p>`,
		"a/assets/photo.png":   "PNG",
		"a/assets/.DS_Store":   "",
		"c/note.json":          `{"title": "Locked"}`,
		"c/note.html.enc":      "xxx",
		"orphan/assets/x.png":  "PNG",
	})
	reader, err := archive.Open(dir)
	require.NoError(t, err)

	export, err := nimbus.Load(reader)
	require.NoError(t, err)

	require.Len(t, export.Notes, 3)
	a, b, c := export.Notes[0], export.Notes[1], export.Notes[2]

	assert.Equal(t, "na", a.ID)
	assert.Equal(t, "a/note.html", a.HTMLEntry())
	assert.Equal(t, "a/assets/photo.png", a.AssetEntry("./assets/photo.png"))
	assert.Equal(t, []string{"home"}, a.Tags)
	assert.Equal(t, 2023, a.Created().Year())
	assert.False(t, a.Encrypted)

	assert.True(t, b.Encrypted)
	// Detected from the entries
	assert.Equal(t, "c", c.ID)
	assert.True(t, c.Encrypted)

	assert.Equal(t, []string{"Projects", "Home"}, export.FolderChain("f2"))
	assert.Len(t, export.FolderChain("f3"), 2)
	assert.Nil(t, export.FolderChain("unknown"))
	assert.Equal(t, "Personal", export.WorkspaceTitle("w1"))
	assert.Equal(t, "", export.WorkspaceTitle("w2"))

	assets, err := export.Assets(a)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/assets/photo.png"}, assets)
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := testutil.SetUpDir(t, map[string]string{
		"a/note.json": `{"id": `,
	})
	reader, err := archive.Open(dir)
	require.NoError(t, err)

	_, err = nimbus.Load(reader)
	assert.ErrorContains(t, err, "invalid JSON in a/note.json")
}
