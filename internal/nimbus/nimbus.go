// Package nimbus reads the metadata of a Nimbus Note export.
//
// An export contains an optional workspaces.json, an optional folders.json and one directory per note:
//
//	<note_id>/note.json
//	<note_id>/note.html
//	<note_id>/assets/<file>
package nimbus

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/julien-sobczak/nimbus2md/internal/archive"
	"golang.org/x/exp/slices"
)

const (
	WorkspacesEntry = "workspaces.json"
	FoldersEntry    = "folders.json"
	NoteEntry       = "note.json"
	HTMLEntry       = "note.html"
	EncryptedEntry  = "note.html.enc"
	AssetsDir       = "assets"

	// UnsortedFolder is the folder of notes whose folder is unknown.
	UnsortedFolder = "Unsorted"
)

// IgnoredAssets are never considered as attachments.
var IgnoredAssets = []string{".DS_Store", "Thumbs.db", "desktop.ini"}

type Workspace struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Folder struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ParentID    string `json:"parent_id"`
	WorkspaceID string `json:"workspace_id"`
}

type Note struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	ParentID    string   `json:"parent_id"`
	WorkspaceID string   `json:"workspace_id"`
	Tags        []string `json:"tags"`
	CreatedAt   int64    `json:"created_at"`
	UpdatedAt   int64    `json:"updated_at"`
	URL         string   `json:"url"`
	Encrypted   bool     `json:"encrypted"`

	// Dir is the entry directory of the note inside the archive.
	Dir string `json:"-"`
}

func (n *Note) HTMLEntry() string {
	return path.Join(n.Dir, HTMLEntry)
}

func (n *Note) AssetsDir() string {
	return path.Join(n.Dir, AssetsDir)
}

// AssetEntry returns the archive entry of an asset referenced relatively from the note body.
func (n *Note) AssetEntry(relative string) string {
	return path.Join(n.Dir, strings.TrimPrefix(relative, "./"))
}

func (n *Note) Created() time.Time {
	return time.Unix(n.CreatedAt, 0).UTC()
}

func (n *Note) Updated() time.Time {
	return time.Unix(n.UpdatedAt, 0).UTC()
}

// Export is the content of an archive.
type Export struct {
	Archive    archive.Reader
	Workspaces map[string]*Workspace
	Folders    map[string]*Folder
	Notes      []*Note
}

// Load reads the metadata of every note present in the archive.
func Load(reader archive.Reader) (*Export, error) {
	result := &Export{
		Archive:    reader,
		Workspaces: make(map[string]*Workspace),
		Folders:    make(map[string]*Folder),
	}

	var workspaces []*Workspace
	if err := readOptionalJSON(reader, WorkspacesEntry, &workspaces); err != nil {
		return nil, err
	}
	for _, workspace := range workspaces {
		result.Workspaces[workspace.ID] = workspace
	}

	var folders []*Folder
	if err := readOptionalJSON(reader, FoldersEntry, &folders); err != nil {
		return nil, err
	}
	for _, folder := range folders {
		result.Folders[folder.ID] = folder
	}

	entries, err := reader.ListEntries("")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if path.Base(entry) != NoteEntry {
			continue
		}
		var note Note
		if err := readJSON(reader, entry, &note); err != nil {
			return nil, err
		}
		note.Dir = path.Dir(entry)
		if note.ID == "" {
			note.ID = path.Base(note.Dir)
		}
		if !note.Encrypted && !reader.Exists(note.HTMLEntry()) && reader.Exists(path.Join(note.Dir, EncryptedEntry)) {
			note.Encrypted = true
		}
		result.Notes = append(result.Notes, &note)
	}
	slices.SortFunc(result.Notes, func(a, b *Note) int {
		return strings.Compare(a.Dir, b.Dir)
	})
	return result, nil
}

func readOptionalJSON(reader archive.Reader, entry string, target any) error {
	err := readJSON(reader, entry, target)
	if errors.Is(err, archive.ErrEntryNotFound) {
		return nil
	}
	return err
}

func readJSON(reader archive.Reader, entry string, target any) error {
	data, err := reader.ReadBinary(entry)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", entry, err)
	}
	return nil
}

// FolderChain returns the titles of the folder and its parents, root first.
// Unknown folders return nil. Cycles are broken.
func (e *Export) FolderChain(folderID string) []string {
	var chain []string
	seen := make(map[string]bool)
	for id := folderID; id != ""; {
		folder, ok := e.Folders[id]
		if !ok || seen[id] {
			break
		}
		seen[id] = true
		chain = append([]string{folder.Title}, chain...)
		id = folder.ParentID
	}
	return chain
}

// WorkspaceTitle returns the title of a workspace or an empty string.
func (e *Export) WorkspaceTitle(workspaceID string) string {
	if workspace, ok := e.Workspaces[workspaceID]; ok {
		return workspace.Title
	}
	return ""
}

// Assets lists the asset entries of a note.
func (e *Export) Assets(note *Note) ([]string, error) {
	return e.Archive.ListEntries(note.AssetsDir(), IgnoredAssets...)
}
