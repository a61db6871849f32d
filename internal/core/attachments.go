package core

import (
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/julien-sobczak/nimbus2md/internal/content"
	"github.com/julien-sobczak/nimbus2md/internal/helpers"
	"github.com/julien-sobczak/nimbus2md/pkg/filename"
)

// AttachmentStore writes attachments under a root directory.
// Identical content already written in the same directory is reused.
type AttachmentStore struct {
	root     string
	reserver *filename.Reserver

	mu      sync.Mutex
	written map[string]string // directory + hash => path
}

func NewAttachmentStore(root string, reserver *filename.Reserver) *AttachmentStore {
	return &AttachmentStore{
		root:     root,
		reserver: reserver,
		written:  make(map[string]string),
	}
}

// Put writes the data as dir/name and returns the slash-separated path relative to the root.
// The name is suffixed when already taken by a different content.
func (s *AttachmentStore) Put(dir, name string, data []byte) (string, bool, error) {
	key := dir + ":" + helpers.Hash(data)

	s.mu.Lock()
	if existing, ok := s.written[key]; ok {
		s.mu.Unlock()
		return existing, true, nil
	}
	abs := s.reserver.Reserve(filepath.Join(s.root, filepath.FromSlash(dir), name))
	rel, err := filepath.Rel(s.root, abs)
	if err != nil {
		s.mu.Unlock()
		return "", false, err
	}
	rel = filepath.ToSlash(rel)
	s.written[key] = rel
	s.mu.Unlock()

	if err := write(abs, data); err != nil {
		s.mu.Lock()
		delete(s.written, key)
		s.reserver.Release(abs)
		s.mu.Unlock()
		return "", false, err
	}
	return rel, false, nil
}

func write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// copyAttachments writes the attachments referenced by the note and updates their target paths.
// Assets never referenced are reported as orphans.
func (e *Exporter) copyAttachments(note *Note, store *AttachmentStore) error {
	referenced := make(map[string]bool)
	archiveName := note.Export.Archive.Name()

	for _, link := range content.AttachmentLinks(note.Body) {
		if link.SourcePath == "" {
			// Remote resource
			continue
		}
		entry := note.Meta.AssetEntry(link.SourcePath)
		referenced[entry] = true
		name := filename.CleanName(path.Base(entry), e.settings.MaxNameLength, e.settings.AllowUnicode)

		if !note.Export.Archive.Exists(entry) {
			link.Missing = true
			link.TargetPath = note.Paths.AttachmentTarget(path.Join(note.Paths.AttachmentDir, name))
			e.logger.Warnf("%s: missing attachment %s", note.Paths.Target(), entry)
			e.report.AddMissingAttachment(archiveName + ": " + entry)
			continue
		}

		data, err := note.Export.Archive.ReadBinary(entry)
		if err != nil {
			return err
		}
		target, reused, err := store.Put(note.Paths.AttachmentDir, name, data)
		if err != nil {
			return err
		}
		if reused {
			e.report.AddAttachmentReused()
		} else {
			e.report.AddAttachmentCopied()
		}
		link.TargetPath = note.Paths.AttachmentTarget(target)
		e.logger.Debugf("%s: attachment %s written to %s", note.Paths.Target(), entry, target)
	}

	assets, err := note.Export.Assets(note.Meta)
	if err != nil {
		return err
	}
	for _, asset := range assets {
		if !referenced[asset] {
			e.report.AddOrphanFile(archiveName + ": " + asset)
		}
	}
	return nil
}
