package markup

import (
	"html"
	"regexp"
	"strings"
)

// Style is an inline formatting.
type Style string

const (
	Bold          Style = "bold"
	Italic        Style = "italic"
	Strikethrough Style = "strikethrough"
	Underline     Style = "underline"
	Code          Style = "code"
	Superscript   Style = "superscript"
	Subscript     Style = "subscript"
	Highlight     Style = "highlight"
)

var (
	reLeadingNumber = regexp.MustCompile(`^(\s*\d+)\.`)
	reLeadingBlock  = regexp.MustCompile(`^(\s*)(#{1,6}(?:\s|$)|>|[-+](?:\s|$)|-{2,}\s*$|=+\s*$)`)
	reSpecials      = regexp.MustCompile("([\\\\`*\\[\\]])")
	reUnderscores   = regexp.MustCompile(`(^|[^\p{L}\p{N}])_|_($|[^\p{L}\p{N}])`)
	reHTMLOpening   = regexp.MustCompile(`<([A-Za-z/!])`)
)

// EscapeLeadingNumber escapes a leading "1989." to prevent the text from becoming an ordered list.
func EscapeLeadingNumber(line string) string {
	return reLeadingNumber.ReplaceAllString(line, `$1\.`)
}

// EscapeLeadingBlock escapes a leading heading, list, quote or rule marker so that a text line stays a text line.
func EscapeLeadingBlock(line string) string {
	return reLeadingBlock.ReplaceAllString(line, `$1\$2`)
}

// EscapeText escapes Markdown inline syntax present in raw text.
func EscapeText(text string) string {
	text = reSpecials.ReplaceAllString(text, `\$1`)
	text = reUnderscores.ReplaceAllStringFunc(text, func(match string) string {
		return strings.Replace(match, "_", `\_`, 1)
	})
	text = reHTMLOpening.ReplaceAllString(text, `\<$1`)
	return text
}

// EscapeLinkText escapes the brackets of a link text.
func EscapeLinkText(text string) string {
	return strings.NewReplacer("[", `\[`, "]", `\]`).Replace(text)
}

// EscapeTableCell makes a cell content fit on a single table line.
func EscapeTableCell(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "|", `\|`)
	return strings.ReplaceAll(text, "\n", "<br>")
}

// Emphasis wraps a Markdown text with the markers of a style.
// Spaces around the text are moved outside the markers as Markdown ignores emphasis starting with a space.
func Emphasis(d Dialect, style Style, text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text
	}
	start := strings.Index(text, trimmed)
	leading, trailing := text[:start], text[start+len(trimmed):]

	var wrapped string
	switch style {
	case Bold:
		wrapped = "**" + trimmed + "**"
	case Italic:
		wrapped = "*" + trimmed + "*"
	case Strikethrough:
		if d.SupportsStrikethrough() {
			wrapped = "~~" + trimmed + "~~"
		} else {
			wrapped = "<del>" + trimmed + "</del>"
		}
	case Underline:
		wrapped = "<u>" + trimmed + "</u>"
	case Code:
		wrapped = InlineCode(trimmed)
	case Superscript:
		if d == PandocMarkdown {
			wrapped = "^" + trimmed + "^"
		} else {
			wrapped = "<sup>" + trimmed + "</sup>"
		}
	case Subscript:
		if d == PandocMarkdown {
			wrapped = "~" + trimmed + "~"
		} else {
			wrapped = "<sub>" + trimmed + "</sub>"
		}
	case Highlight:
		if d == Obsidian {
			wrapped = "==" + trimmed + "=="
		} else {
			wrapped = "<mark>" + trimmed + "</mark>"
		}
	default:
		wrapped = trimmed
	}
	return leading + wrapped + trailing
}

// EmphasisStructured wraps an HTML content with the tag of a style.
func EmphasisStructured(style Style, content string) string {
	tag := map[Style]string{
		Bold:          "strong",
		Italic:        "em",
		Strikethrough: "s",
		Underline:     "u",
		Code:          "code",
		Superscript:   "sup",
		Subscript:     "sub",
		Highlight:     "mark",
	}[style]
	if tag == "" {
		return content
	}
	return "<" + tag + ">" + content + "</" + tag + ">"
}

// InlineCode wraps a text with enough backticks.
func InlineCode(text string) string {
	if !strings.Contains(text, "`") {
		return "`" + text + "`"
	}
	fence := strings.Repeat("`", maxConsecutive(text, '`')+1)
	return fence + " " + text + " " + fence
}

// CodeBlockLightweight returns a fenced code block.
func CodeBlockLightweight(language, code string) string {
	fence := "```"
	if n := maxConsecutive(code, '`'); n >= 3 {
		fence = strings.Repeat("`", n+1)
	}
	return fence + language + "\n" + strings.TrimRight(code, "\n") + "\n" + fence
}

// CodeBlockStructured returns an HTML code block.
func CodeBlockStructured(language, code string) string {
	code = strings.TrimRight(code, "\n")
	if language == "" {
		return "<pre><code>" + html.EscapeString(code) + "</code></pre>"
	}
	return `<pre><code class="language-` + html.EscapeString(language) + `">` + html.EscapeString(code) + "</code></pre>"
}

func maxConsecutive(text string, c rune) int {
	result, current := 0, 0
	for _, r := range text {
		if r == c {
			current++
			result = max(result, current)
		} else {
			current = 0
		}
	}
	return result
}

/* Tables */

// TableRow joins cells with pipes.
func TableRow(cells []string) string {
	escaped := make([]string, len(cells))
	for i, cell := range cells {
		escaped[i] = EscapeTableCell(cell)
	}
	return "|" + strings.Join(escaped, "|") + "|"
}

// TableSeparator returns the line following a header row.
func TableSeparator(columns int) string {
	return "|" + strings.Repeat("--|", columns)
}
