package links

import (
	"path"
	"strings"

	"github.com/julien-sobczak/nimbus2md/internal/content"
)

// Passes is the number of passes run by Resolve.
// One level of indirection is recovered: a mention resolved by text in one note
// lets every other mention of the same identifier resolve in the next pass.
// Longer rename chains are not followed.
const Passes = 2

// Document is a note taking part in the resolution.
type Document struct {
	ID string
	// Path of the output file, slash-separated and relative to the export root.
	Path     string
	Mentions []*content.Mention
}

// Catalog lists the entries a mention can match by title.
type Catalog struct {
	titles map[content.MentionTarget]map[string][]string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{titles: make(map[content.MentionTarget]map[string][]string)}
}

// Add registers the path of a titled entry.
func (c *Catalog) Add(target content.MentionTarget, title, path string) {
	key := normalizeTitle(title)
	if key == "" || path == "" {
		return
	}
	titles, ok := c.titles[target]
	if !ok {
		titles = make(map[string][]string)
		c.titles[target] = titles
	}
	for _, existing := range titles[key] {
		if existing == path {
			return
		}
	}
	titles[key] = append(titles[key], path)
}

// Find returns the paths of the entries whose title matches the text.
func (c *Catalog) Find(target content.MentionTarget, text string) []string {
	return c.titles[target][normalizeTitle(text)]
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}

// Unresolved is a mention without target after resolution.
type Unresolved struct {
	Note string
	Text string
}

// Result summarizes a resolution.
type Result struct {
	Resolved   int
	Unresolved []Unresolved
}

// Resolver fills the resolved paths of mentions.
type Resolver struct {
	Index   *Index
	Catalog *Catalog
}

// NewResolver creates a resolver. The index is expected to be seeded with the known identifiers.
func NewResolver(index *Index, catalog *Catalog) *Resolver {
	return &Resolver{
		Index:   index,
		Catalog: catalog,
	}
}

// Resolve runs the passes over all documents and counts the outcome.
// Resolution never fails: a mention without match is reported.
func (r *Resolver) Resolve(documents []*Document) Result {
	for pass := 1; pass <= Passes; pass++ {
		r.Pass(documents, pass == 1)
	}
	return Count(documents)
}

// Pass resolves every mention by identifier, falling back on titles when allowed.
// A mention resolved by title registers its identifier in the index.
func (r *Resolver) Pass(documents []*Document, byTitle bool) {
	for _, document := range documents {
		for _, mention := range document.Mentions {
			r.resolve(document, mention, byTitle)
		}
	}
}

func (r *Resolver) resolve(document *Document, mention *content.Mention, byTitle bool) {
	if mention.Target == content.MentionUser {
		return
	}
	if targets := r.Index.Lookup(mention.Target, mention.Identifier); len(targets) > 0 {
		mention.Resolved = relativeAll(document.Path, targets)
		return
	}
	if !byTitle || r.Catalog == nil {
		return
	}
	targets := r.Catalog.Find(mention.Target, mention.Text)
	if len(targets) == 0 {
		return
	}
	for _, target := range targets {
		r.Index.Add(mention.Target, mention.Identifier, target)
	}
	mention.Resolved = relativeAll(document.Path, targets)
}

// Count returns the number of resolved mentions and the unresolved ones. User mentions are ignored.
func Count(documents []*Document) Result {
	var result Result
	for _, document := range documents {
		for _, mention := range document.Mentions {
			if mention.Target == content.MentionUser {
				continue
			}
			if mention.IsResolved() {
				result.Resolved++
				continue
			}
			result.Unresolved = append(result.Unresolved, Unresolved{
				Note: document.Path,
				Text: mention.Text,
			})
		}
	}
	return result
}

func relativeAll(from string, targets []string) []string {
	result := make([]string, len(targets))
	for i, target := range targets {
		result[i] = Relative(from, target)
	}
	return result
}

// Relative returns the path of target relative to the directory of the file from.
// Both paths are slash-separated and relative to the same root.
func Relative(from, target string) string {
	fromParts := splitPath(path.Dir(from))
	targetParts := splitPath(target)
	common := 0
	for common < len(fromParts) && common < len(targetParts) && fromParts[common] == targetParts[common] {
		common++
	}
	var parts []string
	for i := common; i < len(fromParts); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, targetParts[common:]...)
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}

func splitPath(p string) []string {
	p = path.Clean(p)
	if p == "." || p == "/" || p == "" {
		return nil
	}
	return strings.Split(strings.Trim(p, "/"), "/")
}
