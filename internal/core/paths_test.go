package core_test

import (
	"strings"
	"testing"

	"github.com/julien-sobczak/nimbus2md/internal/core"
	"github.com/julien-sobczak/nimbus2md/internal/nimbus"
	"github.com/stretchr/testify/assert"
)

func TestLayout(t *testing.T) {
	export := &nimbus.Export{
		Workspaces: map[string]*nimbus.Workspace{
			"w1": {ID: "w1", Title: "My Work"},
		},
		Folders: map[string]*nimbus.Folder{
			"f1": {ID: "f1", Title: "Projects: 2024", WorkspaceID: "w1"},
			"f2": {ID: "f2", Title: "Q1/Q2", ParentID: "f1", WorkspaceID: "w1"},
		},
	}
	settings := core.NewSettings()
	layout := core.NewLayout(settings, export)

	assert.Equal(t, "My-Work", layout.WorkspaceDir("w1"))
	assert.Equal(t, "My-Work/Projects-2024/Q1-Q2", layout.FolderDir("f2"))

	paths := layout.Paths(&nimbus.Note{ID: "n1", Title: "Weekly review?", ParentID: "f2", Dir: "n1"})
	assert.Equal(t, "n1/note.html", paths.Source)
	assert.Equal(t, "My-Work/Projects-2024/Q1-Q2/Weekly-review.md", paths.Target())
	assert.Equal(t, "My-Work/Projects-2024/Q1-Q2/attachments", paths.AttachmentDir)
	assert.Equal(t, "attachments/photo.png", paths.AttachmentTarget(paths.AttachmentDir+"/photo.png"))

	unsorted := layout.Paths(&nimbus.Note{ID: "n2", WorkspaceID: "w1", Dir: "n2"})
	assert.Equal(t, "My-Work/Unsorted/Untitled.md", unsorted.Target())

	settings.WorkspaceDirectories = false
	assert.Equal(t, "Projects-2024/Q1-Q2", layout.FolderDir("f2"))
	assert.Equal(t, "Unsorted/Untitled.md", layout.Paths(&nimbus.Note{ID: "n2", WorkspaceID: "w1", Dir: "n2"}).Target())
}

func TestLayoutMaxNameLength(t *testing.T) {
	settings := core.NewSettings()
	settings.MaxNameLength = 20
	layout := core.NewLayout(settings, &nimbus.Export{})
	note := &nimbus.Note{ID: "n1", Title: "A very long weekly review title", Dir: "n1"}

	for _, format := range []string{"gfm", "html"} {
		settings.ExportFormat = format
		paths := layout.Paths(note)
		assert.LessOrEqual(t, len(paths.Filename), 20, paths.Filename)
		assert.True(t, strings.HasPrefix(paths.Filename, "A-very-long"), paths.Filename)
		assert.True(t, strings.HasSuffix(paths.Filename, settings.Dialect().Extension()), paths.Filename)
	}
}
