package markup

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/gosimple/slug"
)

// AnchorStyle determines how heading identifiers are written.
type AnchorStyle int

const (
	// AnchorPlain emits no identifier.
	AnchorPlain AnchorStyle = iota
	// AnchorCaret emits an Obsidian block identifier (## Title ^id).
	AnchorCaret
	// AnchorParenthesized emits a parenthesized hash identifier (## Title (#id)).
	AnchorParenthesized
	// AnchorBracketed emits a bracketed hash identifier (## Title [#id]).
	AnchorBracketed
	// AnchorGFM derives the identifier from the heading text like GitHub does.
	AnchorGFM
)

var reLeadingSectionNumber = regexp.MustCompile(`^\s*(\d+(?:\.\d+)+)`)

// HeadingID returns the identifier to use for a heading, or an empty string.
func HeadingID(style AnchorStyle, text string, id string) string {
	if style == AnchorGFM {
		return GFMSlug(text)
	}
	return strings.ReplaceAll(id, "_", "")
}

// GFMSlug returns the anchor GitHub generates for a heading.
// A leading section number (1.2.3) loses its dots before slugifying.
func GFMSlug(text string) string {
	text = reLeadingSectionNumber.ReplaceAllStringFunc(text, func(number string) string {
		return strings.ReplaceAll(number, ".", "")
	})
	return strings.ReplaceAll(slug.Make(text), "_", "")
}

// HeadingLightweight returns a Markdown heading line.
func HeadingLightweight(style AnchorStyle, level int, text string, id string) string {
	level = clampLevel(level)
	line := strings.Repeat("#", level) + " " + strings.TrimSpace(text)
	if id == "" {
		return line
	}
	switch style {
	case AnchorCaret:
		return line + " ^" + id
	case AnchorParenthesized:
		return line + " (#" + id + ")"
	case AnchorBracketed:
		return line + " [#" + id + "]"
	}
	return line
}

// HeadingStructured returns an HTML heading. The content is expected to be already escaped.
func HeadingStructured(level int, content string, id string) string {
	level = clampLevel(level)
	if id == "" {
		return fmt.Sprintf("<h%d>%s</h%d>", level, content, level)
	}
	return fmt.Sprintf(`<h%d id="%s">%s</h%d>`, level, html.EscapeString(id), content, level)
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}
