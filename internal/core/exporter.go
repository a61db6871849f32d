package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	copydir "github.com/otiai10/copy"
	"golang.org/x/sync/errgroup"

	"github.com/julien-sobczak/nimbus2md/internal/archive"
	"github.com/julien-sobczak/nimbus2md/internal/checklist"
	"github.com/julien-sobczak/nimbus2md/internal/content"
	"github.com/julien-sobczak/nimbus2md/internal/converter"
	"github.com/julien-sobczak/nimbus2md/internal/links"
	"github.com/julien-sobczak/nimbus2md/internal/markdown"
	"github.com/julien-sobczak/nimbus2md/internal/nimbus"
	"github.com/julien-sobczak/nimbus2md/pkg/clock"
	"github.com/julien-sobczak/nimbus2md/pkg/filename"
	"github.com/julien-sobczak/nimbus2md/pkg/filesystem"
)

// Exporter converts export archives into a tree of documents.
type Exporter struct {
	settings  *Settings
	logger    *Logger
	converter converter.Converter
	report    *Report
	listeners []func(note *Note)
	collected []func(count int)
}

// NewExporter creates an exporter. The converter selected by the settings must be available.
func NewExporter(settings *Settings, logger *Logger) (*Exporter, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	result := &Exporter{
		settings: settings.Clone(),
		logger:   logger,
		report:   NewReport(),
	}
	if !settings.Dialect().IsLightweight() {
		// HTML documents are rendered directly
		return result, nil
	}
	switch settings.ConverterKind() {
	case converter.Builtin:
		result.converter = converter.NewBuiltinConverter()
	case converter.Pandoc:
		pandoc, err := converter.NewPandocConverter(settings.Timeout())
		if err != nil {
			return nil, err
		}
		result.converter = pandoc
	}
	if result.converter != nil {
		result.converter.OnPreConversion(func(cmd string, args ...string) {
			logger.Tracef("Running %s %v", cmd, args)
		})
	}
	return result, nil
}

// WithConverter overrides the converter of a lightweight dialect.
func (e *Exporter) WithConverter(c converter.Converter) *Exporter {
	e.converter = c
	return e
}

// OnNoteExported registers a function called after each note is written.
func (e *Exporter) OnNoteExported(fn func(note *Note)) {
	e.listeners = append(e.listeners, fn)
}

// OnNotesCollected registers a function called once the notes to export are known.
func (e *Exporter) OnNotesCollected(fn func(count int)) {
	e.collected = append(e.collected, fn)
}

func (e *Exporter) Report() *Report {
	return e.report
}

// Run exports the archives into the output directory.
// Documents are written to a staging directory first and copied to the output at the end.
func (e *Exporter) Run(ctx context.Context, archives []string, output string) (*Report, error) {
	start := clock.Now()

	filter, err := NewNoteFilter(e.settings.Filter)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(output, 0755); err != nil {
		return nil, fmt.Errorf("unable to create export root %s: %w", output, err)
	}
	staging, err := os.MkdirTemp("", "nimbus2md-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(staging)

	reserver := filename.NewReserver()
	index := links.NewIndex()
	catalog := links.NewCatalog()

	// Collect notes
	var notes []*Note
	for _, location := range archives {
		reader, err := archive.Open(location)
		if err != nil {
			return nil, err
		}
		defer reader.Close()
		export, err := nimbus.Load(reader)
		if err != nil {
			return nil, fmt.Errorf("unable to load %s: %w", location, err)
		}
		e.logger.Infof("Loaded %d notes from %s", len(export.Notes), location)

		layout := NewLayout(e.settings, export)
		registerContainers(layout, export, index, catalog)

		for _, meta := range export.Notes {
			if meta.Encrypted {
				e.logger.Infof("Skipping encrypted note %s", meta.ID)
				e.report.AddEncrypted(encryptedName(meta))
				continue
			}
			ok, err := filter.Match(meta)
			if err != nil {
				e.logger.Warnf("%v", err)
				e.report.AddFailed(meta.ID)
				continue
			}
			if !ok {
				e.report.AddFiltered()
				continue
			}

			paths := layout.Paths(meta)
			candidate := filepath.Join(staging, filepath.FromSlash(paths.Target()))
			reserved := reserver.Reserve(candidate)
			if reserved != candidate {
				e.logger.Debugf("Duplicate title %q in %s", meta.Title, paths.Notebook)
				e.report.AddDuplicateTitle()
				paths.Filename = filepath.Base(reserved)
			}

			note := NewNote(export, meta, paths)
			index.AddNote(meta.ID, paths.Target())
			catalog.Add(content.MentionNote, note.Title, paths.Target())
			notes = append(notes, note)
		}
	}

	for _, fn := range e.collected {
		fn(len(notes))
	}

	// Extract notes and copy attachments
	store := NewAttachmentStore(staging, reserver)
	if err := e.forEach(ctx, notes, func(ctx context.Context, note *Note) error {
		if err := note.Parse(e.settings, e.logger); err != nil {
			return err
		}
		return e.copyAttachments(note, store)
	}); err != nil {
		return nil, err
	}

	// Every note must be extracted before resolving links
	var documents []*links.Document
	for _, note := range notes {
		if note.Body != nil {
			documents = append(documents, note.Document())
		}
	}
	e.report.SetLinks(links.NewResolver(index, catalog).Resolve(documents))

	// Render notes
	if err := e.forEach(ctx, notes, func(ctx context.Context, note *Note) error {
		if note.Body == nil {
			return nil
		}
		result, err := e.Render(ctx, note)
		if err != nil {
			return err
		}
		target := filepath.Join(staging, filepath.FromSlash(note.Paths.Target()))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(target, []byte(result), 0644); err != nil {
			return err
		}
		e.report.AddExported()
		for _, listener := range e.listeners {
			listener(note)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if size, err := filesystem.DirSize(staging); err == nil {
		e.report.SetSize(size)
	}
	if err := copydir.Copy(staging, output); err != nil {
		return nil, fmt.Errorf("unable to copy documents to %s: %w", output, err)
	}

	e.report.SetDuration(clock.Since(start))
	e.report.Log(e.logger)
	return e.report, nil
}

// forEach processes the notes in parallel. A note failing is reported and skipped.
// Only errors that must stop the run are returned.
func (e *Exporter) forEach(ctx context.Context, notes []*Note, fn func(ctx context.Context, note *Note) error) error {
	parallel := e.settings.Parallel
	if parallel < 1 {
		parallel = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for _, note := range notes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			err := fn(gctx, note)
			if err == nil {
				return nil
			}
			if errors.Is(err, converter.ErrExecutableNotFound) {
				return err
			}
			e.logger.Warnf("%s: %v", note.Name(), err)
			e.report.AddFailed(note.Name())
			note.Body = nil
			return nil
		})
	}
	return g.Wait()
}

// Render returns the final text of a note.
func (e *Exporter) Render(ctx context.Context, note *Note) (string, error) {
	dialect := e.settings.Dialect()
	opts := content.Options{
		Dialect:         dialect,
		Embeddable:      e.settings.Embeddable,
		ChecklistAsHTML: e.settings.KeepChecklistAsHTML,
	}

	if !dialect.IsLightweight() {
		return note.Placeholders.Apply(note.Body.RenderStructured(opts)) + "\n", nil
	}

	if e.converter == nil {
		doc := markdown.Document(note.Body.RenderLightweight(opts))
		result, err := doc.Transform(markdown.Finalize(note.Placeholders, "")...)
		return result.String(), err
	}

	opts.Intermediate = true
	opts.Placeholders = note.Placeholders
	input := note.Body.RenderStructured(opts)
	output, err := e.converter.Convert(ctx, input, "html", dialect.PandocFormat())
	if err != nil {
		return "", err
	}
	output = checklist.Postprocess(output, note.Checklist, e.settings.KeepChecklistAsHTML)
	if pending := checklist.Pending(output, note.Checklist); len(pending) > 0 {
		e.logger.Warnf("%s: %d checklist items lost during conversion", note.Paths.Target(), len(pending))
		e.report.AddPendingPlaceholders(len(pending))
	}

	var frontMatter string
	if fm := note.Body.FrontMatter(); fm != nil {
		frontMatter = fm.RenderLightweight(opts)
	}
	// Converters separate adjacent lists with comments
	transformers := append([]markdown.Transformer{markdown.StripHTMLComments()}, markdown.Finalize(note.Placeholders, frontMatter)...)
	result, err := markdown.Document(output).Transform(transformers...)
	return result.String(), err
}

// registerContainers makes folders and workspaces reachable from mentions.
func registerContainers(layout *Layout, export *nimbus.Export, index *links.Index, catalog *links.Catalog) {
	for id, folder := range export.Folders {
		dir := layout.FolderDir(id)
		index.AddFolder(id, dir)
		catalog.Add(content.MentionFolder, folder.Title, dir)
	}
	for id, workspace := range export.Workspaces {
		dir := layout.WorkspaceDir(id)
		index.AddWorkspace(id, dir)
		catalog.Add(content.MentionWorkspace, workspace.Title, dir)
	}
}

func encryptedName(meta *nimbus.Note) string {
	if meta.Title != "" {
		return fmt.Sprintf("%s (%s)", meta.Title, meta.ID)
	}
	return meta.ID
}
