// Package links resolves the mentions between notes once every note knows its output path.
package links

import (
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/julien-sobczak/nimbus2md/internal/content"
)

// Index maps identifiers to output paths for a single run.
// Paths are slash-separated and relative to the export root.
// An identifier may point to several paths when the same content exists in several places.
type Index struct {
	mu         sync.RWMutex
	workspaces map[string]map[string]struct{}
	folders    map[string]map[string]struct{}
	notes      map[string]map[string]struct{}
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		workspaces: make(map[string]map[string]struct{}),
		folders:    make(map[string]map[string]struct{}),
		notes:      make(map[string]map[string]struct{}),
	}
}

func (i *Index) entries(target content.MentionTarget) map[string]map[string]struct{} {
	switch target {
	case content.MentionWorkspace:
		return i.workspaces
	case content.MentionFolder:
		return i.folders
	case content.MentionNote:
		return i.notes
	}
	return nil
}

// Add registers a path for an identifier. User mentions are never indexed.
func (i *Index) Add(target content.MentionTarget, id string, path string) {
	if id == "" || path == "" {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	entries := i.entries(target)
	if entries == nil {
		return
	}
	paths, ok := entries[id]
	if !ok {
		paths = make(map[string]struct{})
		entries[id] = paths
	}
	paths[path] = struct{}{}
}

// AddWorkspace registers the directory of a workspace.
func (i *Index) AddWorkspace(id, path string) {
	i.Add(content.MentionWorkspace, id, path)
}

// AddFolder registers a directory of a folder.
func (i *Index) AddFolder(id, path string) {
	i.Add(content.MentionFolder, id, path)
}

// AddNote registers a file of a note.
func (i *Index) AddNote(id, path string) {
	i.Add(content.MentionNote, id, path)
}

// Lookup returns the sorted paths of an identifier.
func (i *Index) Lookup(target content.MentionTarget, id string) []string {
	if id == "" {
		return nil
	}
	i.mu.RLock()
	defer i.mu.RUnlock()
	entries := i.entries(target)
	if entries == nil {
		return nil
	}
	return sortedKeys(entries[id])
}

// Len returns the number of indexed identifiers.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.workspaces) + len(i.folders) + len(i.notes)
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	result := maps.Keys(set)
	slices.Sort(result)
	return result
}
