// Package markdown converts Markdown to HTML in-process.
package markdown

import (
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

var (
	reTableSeparator = regexp.MustCompile(`(?m)^[ \t]*\|?(?:[ \t]*:?-+:?[ \t]*\|)+(?:[ \t]*:?-+:?[ \t]*)?$`)
	reDashes         = regexp.MustCompile(`-+`)
)

// ToHTML converts a CommonMark document with the common extensions (tables, strikethrough, fenced code, ...).
// Table separators with fewer than three dashes per cell (`|--|`) are accepted.
func ToHTML(md string) string {
	md = widenTableSeparators(md)
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	result := markdown.ToHTML([]byte(md), p, renderer)
	return strings.TrimSpace(string(result))
}

// ToStrictHTML converts a document without extensions nor typographic replacements.
func ToStrictHTML(md string) string {
	p := parser.NewWithExtensions(parser.NoExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.HTMLFlagsNone})
	result := markdown.ToHTML([]byte(md), p, renderer)
	return strings.TrimSpace(string(result))
}

// widenTableSeparators rewrites the separator lines of tables so that every cell has at least three dashes.
func widenTableSeparators(md string) string {
	return reTableSeparator.ReplaceAllStringFunc(md, func(line string) string {
		return reDashes.ReplaceAllStringFunc(line, func(dashes string) string {
			if len(dashes) < 3 {
				return "---"
			}
			return dashes
		})
	})
}
