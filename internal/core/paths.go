package core

import (
	"path"
	"strings"

	"github.com/julien-sobczak/nimbus2md/internal/links"
	"github.com/julien-sobczak/nimbus2md/internal/nimbus"
	"github.com/julien-sobczak/nimbus2md/pkg/filename"
)

// UntitledNote is the title of notes without title.
const UntitledNote = "Untitled"

// NotePaths locates a note. All paths are slash-separated and relative to the export root.
type NotePaths struct {
	// Source is the archive entry of the note body.
	Source string
	// Notebook is the directory of the note.
	Notebook string
	// Filename is the name of the output file including the extension.
	Filename string
	// AttachmentDir is the directory receiving the note attachments.
	AttachmentDir string
}

// Target returns the path of the output file.
func (p NotePaths) Target() string {
	return path.Join(p.Notebook, p.Filename)
}

// AttachmentTarget returns the path of an attachment relative to the note file.
func (p NotePaths) AttachmentTarget(attachmentPath string) string {
	return links.Relative(p.Target(), attachmentPath)
}

// Layout computes the directories of the output tree.
type Layout struct {
	settings *Settings
	export   *nimbus.Export
}

func NewLayout(settings *Settings, export *nimbus.Export) *Layout {
	return &Layout{
		settings: settings,
		export:   export,
	}
}

func (l *Layout) clean(name string) string {
	return filename.CleanDirName(name, l.settings.MaxNameLength, l.settings.AllowUnicode)
}

// WorkspaceDir returns the directory of a workspace, empty when workspace directories are disabled.
func (l *Layout) WorkspaceDir(workspaceID string) string {
	if !l.settings.WorkspaceDirectories {
		return ""
	}
	title := l.export.WorkspaceTitle(workspaceID)
	if title == "" {
		return ""
	}
	return l.clean(title)
}

// FolderDir returns the directory of a folder including its parents.
func (l *Layout) FolderDir(folderID string) string {
	chain := l.export.FolderChain(folderID)
	if len(chain) == 0 {
		return ""
	}
	var parts []string
	workspaceID := l.export.Folders[folderID].WorkspaceID
	if dir := l.WorkspaceDir(workspaceID); dir != "" {
		parts = append(parts, dir)
	}
	for _, title := range chain {
		parts = append(parts, l.clean(title))
	}
	return path.Join(parts...)
}

// Notebook returns the directory of a note. Notes in unknown folders go to the Unsorted folder.
func (l *Layout) Notebook(note *nimbus.Note) string {
	if dir := l.FolderDir(note.ParentID); dir != "" {
		return dir
	}
	parts := []string{nimbus.UnsortedFolder}
	if dir := l.WorkspaceDir(note.WorkspaceID); dir != "" {
		parts = append([]string{dir}, parts...)
	}
	return path.Join(parts...)
}

// Paths returns the paths of a note before duplicate resolution.
func (l *Layout) Paths(note *nimbus.Note) NotePaths {
	title := strings.TrimSpace(note.Title)
	if title == "" {
		title = UntitledNote
	}
	notebook := l.Notebook(note)
	ext := l.settings.Dialect().Extension()
	return NotePaths{
		Source:        note.HTMLEntry(),
		Notebook:      notebook,
		Filename:      filename.CleanName(title, l.settings.MaxNameLength-len(ext), l.settings.AllowUnicode) + ext,
		AttachmentDir: path.Join(notebook, l.settings.AttachmentFolderName),
	}
}
