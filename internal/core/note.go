package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julien-sobczak/nimbus2md/internal/archive"
	"github.com/julien-sobczak/nimbus2md/internal/checklist"
	"github.com/julien-sobczak/nimbus2md/internal/content"
	"github.com/julien-sobczak/nimbus2md/internal/extract"
	"github.com/julien-sobczak/nimbus2md/internal/links"
	"github.com/julien-sobczak/nimbus2md/internal/markdown"
	"github.com/julien-sobczak/nimbus2md/internal/nimbus"
	"github.com/julien-sobczak/nimbus2md/pkg/placeholder"
)

// ErrEncryptedNote is reported for notes whose content cannot be read.
var ErrEncryptedNote = errors.New("encrypted note")

// Note is a note being exported.
type Note struct {
	Meta   *nimbus.Note
	Export *nimbus.Export
	Title  string
	Paths  NotePaths

	// Set by Parse
	Body         *content.Body
	Checklist    checklist.Items
	Placeholders *placeholder.Registry
}

func NewNote(export *nimbus.Export, meta *nimbus.Note, paths NotePaths) *Note {
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = UntitledNote
	}
	return &Note{
		Meta:         meta,
		Export:       export,
		Title:        title,
		Paths:        paths,
		Placeholders: placeholder.New(meta.ID),
	}
}

// Name identifies the note in messages.
func (n *Note) Name() string {
	return fmt.Sprintf("%s (%s)", n.Paths.Target(), n.Meta.ID)
}

// Parse reads the note body and builds its content tree.
// A missing body is logged and produces an empty note.
func (n *Note) Parse(settings *Settings, logger *Logger) error {
	if n.Meta.Encrypted {
		return ErrEncryptedNote
	}
	raw, err := n.Export.Archive.ReadText(n.Meta.HTMLEntry())
	if errors.Is(err, archive.ErrEntryNotFound) {
		logger.Warnf("%s: missing %s", n.Name(), nimbus.HTMLEntry)
		raw = ""
	} else if err != nil {
		return err
	}

	fragment, items, err := checklist.Preprocess(raw, n.Placeholders)
	if err != nil {
		return fmt.Errorf("unable to parse checklists of %s: %w", n.Name(), err)
	}
	n.Checklist = items

	nodes, err := extract.Extract(fragment, extract.Options{
		Dialect:             settings.Dialect(),
		FirstRowAsHeader:    settings.FirstRowAsHeader,
		FirstColumnAsHeader: settings.FirstColumnAsHeader,
		Checklist:           items,
		Placeholders:        n.Placeholders,
		Logger:              logger,
		Source:              n.Paths.Target(),
	})
	if err != nil {
		return err
	}

	var frontMatter *content.FrontMatter
	if format := settings.FrontMatter(); format != markdown.FrontMatterNone {
		frontMatter = &content.FrontMatter{Format: format, Fields: n.FrontMatter()}
	}
	n.Body = content.NewBody(n.Title, frontMatter, nodes...)
	return nil
}

// FrontMatter returns the attributes of the note.
func (n *Note) FrontMatter() markdown.FrontMatter {
	result := markdown.FrontMatter{
		{Key: "title", Value: n.Title},
	}
	if n.Meta.CreatedAt > 0 {
		result = append(result, markdown.Field{Key: "created", Value: n.Meta.Created().Format(time.RFC3339)})
	}
	if n.Meta.UpdatedAt > 0 {
		result = append(result, markdown.Field{Key: "updated", Value: n.Meta.Updated().Format(time.RFC3339)})
	}
	if len(n.Meta.Tags) > 0 {
		result = append(result, markdown.Field{Key: "tags", Value: n.Meta.Tags})
	}
	if n.Meta.URL != "" {
		result = append(result, markdown.Field{Key: "url", Value: n.Meta.URL})
	}
	result = append(result, markdown.Field{Key: "nimbus_id", Value: n.Meta.ID})
	return result
}

// Document returns the note as seen by the link resolver.
func (n *Note) Document() *links.Document {
	return &links.Document{
		ID:       n.Meta.ID,
		Path:     n.Paths.Target(),
		Mentions: content.Mentions(n.Body),
	}
}
