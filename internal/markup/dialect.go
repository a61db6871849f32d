// Package markup contains the string builders used to produce structured (HTML) and lightweight (Markdown) output.
// Functions are stateless except for the list helpers that track the previous indentation.
package markup

import (
	"fmt"
	"strings"
)

// Dialect is the output format of a conversion.
type Dialect string

const (
	GFM                  Dialect = "gfm"
	Obsidian             Dialect = "obsidian"
	CommonMark           Dialect = "commonmark"
	PandocMarkdown       Dialect = "pandoc_markdown"
	PandocMarkdownStrict Dialect = "pandoc_markdown_strict"
	MultiMarkdown        Dialect = "multimarkdown"
	QOwnNotes            Dialect = "q_own_notes"
	HTML                 Dialect = "html"
)

// Dialects lists every supported dialect.
var Dialects = []Dialect{
	GFM,
	Obsidian,
	CommonMark,
	PandocMarkdown,
	PandocMarkdownStrict,
	MultiMarkdown,
	QOwnNotes,
	HTML,
}

// ParseDialect validates a dialect name.
func ParseDialect(s string) (Dialect, error) {
	value := Dialect(strings.ToLower(strings.TrimSpace(s)))
	for _, d := range Dialects {
		if d == value {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// IsLightweight returns if the dialect is a Markdown flavor.
func (d Dialect) IsLightweight() bool {
	return d != HTML
}

// Extension returns the file extension of documents in this dialect.
func (d Dialect) Extension() string {
	if d == HTML {
		return ".html"
	}
	return ".md"
}

// PandocFormat returns the name of the format as understood by pandoc.
func (d Dialect) PandocFormat() string {
	switch d {
	case GFM, Obsidian:
		return "gfm"
	case CommonMark:
		return "commonmark"
	case PandocMarkdown:
		return "markdown"
	case PandocMarkdownStrict, QOwnNotes:
		return "markdown_strict"
	case MultiMarkdown:
		return "markdown_mmd"
	case HTML:
		return "html"
	}
	return string(d)
}

// SupportsStrikethrough returns if ~~text~~ is understood.
func (d Dialect) SupportsStrikethrough() bool {
	switch d {
	case GFM, Obsidian, PandocMarkdown, QOwnNotes:
		return true
	}
	return false
}

// AnchorStyle returns the heading anchor strategy of the dialect.
func (d Dialect) AnchorStyle() AnchorStyle {
	switch d {
	case GFM:
		return AnchorGFM
	case Obsidian:
		return AnchorCaret
	case PandocMarkdownStrict, QOwnNotes:
		return AnchorParenthesized
	case MultiMarkdown:
		return AnchorBracketed
	}
	return AnchorPlain
}
