package content

import (
	"fmt"
	"html"
	"strings"

	"github.com/julien-sobczak/nimbus2md/internal/markup"
	"github.com/julien-sobczak/nimbus2md/pkg/placeholder"
	"github.com/julien-sobczak/nimbus2md/pkg/text"
)

// Options drives the rendering of a tree.
type Options struct {
	Dialect         markup.Dialect
	Embeddable      markup.Embeddable
	ChecklistAsHTML bool
	// Intermediate is set when the structured output is the input of an external converter.
	// Checklist items become paragraphs starting with their token and the document has no head.
	Intermediate bool
	// Placeholders receives in intermediate mode the fragments a converter cannot produce.
	Placeholders *placeholder.Registry

	tableCell bool
}

// DefaultOptions returns the options to render GitHub Flavored Markdown.
func DefaultOptions() Options {
	return Options{
		Dialect:    markup.GFM,
		Embeddable: markup.DefaultEmbeddable(),
	}
}

func (o Options) inTableCell() Options {
	o.tableCell = true
	return o
}

/* Helpers */

func renderInlineLightweight(nodes []Node, opts Options) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(n.RenderLightweight(opts))
	}
	return sb.String()
}

func renderInlineStructured(nodes []Node, opts Options) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(n.RenderStructured(opts))
	}
	return sb.String()
}

// listEntry returns the list entry of a list item node.
func listEntry(n Node) (markup.ListEntry, bool) {
	switch v := n.(type) {
	case *BulletItem:
		return markup.ListEntry{Kind: markup.BulletList, Indent: v.Indent}, true
	case *NumberedItem:
		return markup.ListEntry{Kind: markup.NumberedList, Indent: v.Indent}, true
	case *ChecklistItem:
		return markup.ListEntry{Kind: markup.Checklist, Indent: v.Indent, Checked: v.Checked}, true
	}
	return markup.ListEntry{}, false
}

func listItemChildren(n Node) []Node {
	if parent, ok := n.(Parent); ok {
		return parent.Nodes()
	}
	return nil
}

// renderBlocksLightweight renders a sequence of blocks separated by blank lines.
// Consecutive list items are rendered together to track indents and counters.
func renderBlocksLightweight(nodes []Node, opts Options) string {
	var blocks []string
	var run []markup.ListEntry

	flush := func() {
		if len(run) > 0 {
			blocks = append(blocks, markup.ListLightweight(run, opts.ChecklistAsHTML))
			run = nil
		}
	}

	for _, n := range nodes {
		if entry, ok := listEntry(n); ok {
			entry.Content = markup.EscapeLeadingBlock(markup.EscapeLeadingNumber(strings.TrimSpace(renderInlineLightweight(listItemChildren(n), opts))))
			run = append(run, entry)
			continue
		}
		flush()
		if _, ok := n.(*FrontMatter); ok {
			continue
		}
		rendered := n.RenderLightweight(opts)
		if strings.TrimSpace(rendered) == "" {
			continue
		}
		blocks = append(blocks, rendered)
	}
	flush()
	return strings.Join(blocks, "\n\n")
}

// renderBlocksStructured renders a sequence of blocks, consecutive list items being nested in HTML lists.
func renderBlocksStructured(nodes []Node, opts Options) string {
	var blocks []string
	var run []markup.ListEntry

	flush := func() {
		if len(run) > 0 {
			blocks = append(blocks, markup.ListStructured(run))
			run = nil
		}
	}

	for _, n := range nodes {
		if opts.Intermediate {
			if item, ok := n.(*ChecklistItem); ok && item.Token != "" {
				flush()
				blocks = append(blocks, item.RenderStructured(opts))
				continue
			}
		}
		if entry, ok := listEntry(n); ok {
			entry.Content = renderInlineStructured(listItemChildren(n), opts)
			run = append(run, entry)
			continue
		}
		flush()
		if _, ok := n.(*FrontMatter); ok {
			continue
		}
		rendered := n.RenderStructured(opts)
		if strings.TrimSpace(rendered) == "" {
			continue
		}
		blocks = append(blocks, rendered)
	}
	flush()
	return strings.Join(blocks, "\n")
}

/* Text */

func (n *Text) RenderLightweight(opts Options) string {
	return markup.EscapeText(n.Value)
}

func (n *Text) RenderStructured(opts Options) string {
	return html.EscapeString(n.Value)
}

/* Formatted */

func (n *Formatted) RenderLightweight(opts Options) string {
	if n.Style == markup.Code {
		return markup.Emphasis(opts.Dialect, n.Style, PlainText(n.Children...))
	}
	return markup.Emphasis(opts.Dialect, n.Style, renderInlineLightweight(n.Children, opts))
}

func (n *Formatted) RenderStructured(opts Options) string {
	return markup.EmphasisStructured(n.Style, renderInlineStructured(n.Children, opts))
}

/* LineBreak */

func (n *LineBreak) RenderLightweight(opts Options) string {
	if opts.tableCell {
		return "<br>"
	}
	switch opts.Dialect {
	case markup.GFM, markup.CommonMark, markup.Obsidian, markup.PandocMarkdown:
		return "\\\n"
	}
	return "<br>\n"
}

func (n *LineBreak) RenderStructured(opts Options) string {
	return "<br />"
}

/* HorizontalRule */

func (n *HorizontalRule) RenderLightweight(opts Options) string {
	return "---"
}

func (n *HorizontalRule) RenderStructured(opts Options) string {
	return "<hr />"
}

/* Hyperlink */

func (n *Hyperlink) RenderLightweight(opts Options) string {
	label := strings.TrimSpace(renderInlineLightweight(n.Children, opts))
	if label == "" {
		label = markup.EscapeLinkText(n.Target)
	}
	if n.Target == "" {
		return label
	}
	return "[" + label + "](" + markup.Destination(n.Target) + ")"
}

func (n *Hyperlink) RenderStructured(opts Options) string {
	content := renderInlineStructured(n.Children, opts)
	if strings.TrimSpace(content) == "" {
		content = html.EscapeString(n.Target)
	}
	if n.Target == "" {
		return content
	}
	return markup.LinkStructured(content, n.Target)
}

/* Mention */

// IsResolved returns if the mention points to at least one path.
func (n *Mention) IsResolved() bool {
	return len(n.Resolved) > 0
}

func (n *Mention) RenderLightweight(opts Options) string {
	if n.Target == MentionUser {
		return "@" + markup.EscapeText(n.Text)
	}
	if !n.IsResolved() {
		return markup.UnresolvedLink(n.Text)
	}
	links := make([]string, len(n.Resolved))
	for i, target := range n.Resolved {
		links[i] = markup.Link(n.Text, target)
	}
	return strings.Join(links, " ")
}

func (n *Mention) RenderStructured(opts Options) string {
	if n.Target == MentionUser {
		return `<span class="mention">@` + html.EscapeString(n.Text) + `</span>`
	}
	if !n.IsResolved() {
		return markup.UnresolvedLinkStructured(n.Text)
	}
	links := make([]string, len(n.Resolved))
	for i, target := range n.Resolved {
		links[i] = markup.LinkStructured(html.EscapeString(n.Text), target)
	}
	return strings.Join(links, " ")
}

/* Image */

// PlaceholderImage is the placeholder kind of sized images.
const PlaceholderImage = "image"

func (n *Image) target() string {
	if n.Link == nil {
		return ""
	}
	return n.Link.TargetPath
}

func (n *Image) RenderLightweight(opts Options) string {
	target := n.target()
	if target == "" {
		return markup.EscapeText(n.Alt)
	}
	embeddable := opts.Embeddable.CategoryOf(target) != markup.CategoryNone
	return markup.ImageLightweight(opts.Dialect, n.Alt, target, n.Width, n.Height, embeddable)
}

func (n *Image) RenderStructured(opts Options) string {
	target := n.target()
	if target == "" {
		return html.EscapeString(n.Alt)
	}
	sized := n.Width > 0 || n.Height > 0
	if opts.Intermediate && opts.Placeholders != nil && sized && opts.Dialect.IsLightweight() {
		// Converters lose the size syntax of the dialect
		return opts.Placeholders.Put(PlaceholderImage, n.RenderLightweight(opts))
	}
	return markup.EmbedStructured(markup.CategoryImage, n.Alt, target, n.Width, n.Height)
}

/* FileAttachment */

func (n *FileAttachment) target() string {
	if n.Link == nil {
		return ""
	}
	return n.Link.TargetPath
}

func (n *FileAttachment) RenderLightweight(opts Options) string {
	target := n.target()
	if target == "" {
		return markup.EscapeText(n.Display)
	}
	if opts.Embeddable.CategoryOf(target) != markup.CategoryNone {
		return "![" + markup.EscapeLinkText(n.Display) + "](" + markup.Destination(target) + ")"
	}
	display := n.Display
	if display == "" {
		display = target
	}
	return markup.Link(display, target)
}

func (n *FileAttachment) RenderStructured(opts Options) string {
	target := n.target()
	if target == "" {
		return html.EscapeString(n.Display)
	}
	return markup.EmbedStructured(opts.Embeddable.CategoryOf(target), n.Display, target, 0, 0)
}

/* Placeholder */

func (n *Placeholder) RenderLightweight(opts Options) string {
	return n.Token
}

func (n *Placeholder) RenderStructured(opts Options) string {
	if n.Block {
		return "<p>" + n.Token + "</p>"
	}
	return n.Token
}

/* FrontMatter */

func (n *FrontMatter) RenderLightweight(opts Options) string {
	result, err := n.Fields.Render(n.Format)
	if err != nil {
		return n.Fields.AsText()
	}
	return result
}

func (n *FrontMatter) RenderStructured(opts Options) string {
	return n.Fields.AsHTMLMeta()
}

/* Heading */

func (n *Heading) RenderLightweight(opts Options) string {
	style := opts.Dialect.AnchorStyle()
	id := markup.HeadingID(style, PlainText(n.Children...), n.ID)
	content := strings.ReplaceAll(renderInlineLightweight(n.Children, opts), "\\\n", " ")
	return markup.HeadingLightweight(style, n.Level, content, id)
}

func (n *Heading) RenderStructured(opts Options) string {
	id := markup.HeadingID(opts.Dialect.AnchorStyle(), PlainText(n.Children...), n.ID)
	return markup.HeadingStructured(n.Level, renderInlineStructured(n.Children, opts), id)
}

/* Paragraph */

func (n *Paragraph) RenderLightweight(opts Options) string {
	content := strings.TrimSpace(renderInlineLightweight(n.Children, opts))
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = markup.EscapeLeadingBlock(markup.EscapeLeadingNumber(line))
	}
	return strings.Join(lines, "\n")
}

func (n *Paragraph) RenderStructured(opts Options) string {
	content := renderInlineStructured(n.Children, opts)
	if strings.TrimSpace(content) == "" {
		return ""
	}
	return "<p>" + content + "</p>"
}

/* List items */

func (n *BulletItem) RenderLightweight(opts Options) string {
	return renderBlocksLightweight([]Node{n}, opts)
}

func (n *BulletItem) RenderStructured(opts Options) string {
	return renderBlocksStructured([]Node{n}, opts)
}

func (n *NumberedItem) RenderLightweight(opts Options) string {
	return renderBlocksLightweight([]Node{n}, opts)
}

func (n *NumberedItem) RenderStructured(opts Options) string {
	return renderBlocksStructured([]Node{n}, opts)
}

func (n *ChecklistItem) RenderLightweight(opts Options) string {
	return renderBlocksLightweight([]Node{n}, opts)
}

// RenderStructured renders the item as a paragraph starting with its token in intermediate mode
// so that the item survives the external converter.
func (n *ChecklistItem) RenderStructured(opts Options) string {
	if opts.Intermediate && n.Token != "" {
		content := strings.TrimSpace(renderInlineStructured(n.Children, opts))
		if content == "" {
			return "<p>" + n.Token + "</p>"
		}
		return "<p>" + n.Token + " " + content + "</p>"
	}
	return markup.ListStructured([]markup.ListEntry{{
		Kind:    markup.Checklist,
		Indent:  n.Indent,
		Checked: n.Checked,
		Content: renderInlineStructured(n.Children, opts),
	}})
}

/* Tables */

// Columns returns the number of cells of the widest row.
func (n *Table) Columns() int {
	columns := 0
	if n.Header != nil {
		columns = len(n.Header.Cells)
	}
	for _, row := range n.Rows {
		columns = max(columns, len(row.Cells))
	}
	return columns
}

func (n *TableRow) lightweightCells(opts Options, columns int) []string {
	cellOpts := opts.inTableCell()
	cells := make([]string, max(columns, len(n.Cells)))
	for i, cell := range n.Cells {
		cells[i] = renderInlineLightweight(cell, cellOpts)
	}
	return cells
}

func (n *TableRow) RenderLightweight(opts Options) string {
	line := markup.TableRow(n.lightweightCells(opts, len(n.Cells)))
	if n.Header {
		line += "\n" + markup.TableSeparator(len(n.Cells))
	}
	return line
}

func (n *TableRow) structured(opts Options, columns int, firstColumnHeader bool) string {
	var sb strings.Builder
	sb.WriteString("<tr>")
	for i := 0; i < max(columns, len(n.Cells)); i++ {
		tag := "td"
		if n.Header || (firstColumnHeader && i == 0) {
			tag = "th"
		}
		content := ""
		if i < len(n.Cells) {
			content = renderInlineStructured(n.Cells[i], opts)
		}
		fmt.Fprintf(&sb, "<%s>%s</%s>", tag, content, tag)
	}
	sb.WriteString("</tr>")
	return sb.String()
}

func (n *TableRow) RenderStructured(opts Options) string {
	return n.structured(opts, len(n.Cells), false)
}

// RenderLightweight renders a pipe table. A table without header row gets an empty one
// as Markdown tables cannot start with a data row.
func (n *Table) RenderLightweight(opts Options) string {
	columns := n.Columns()
	if columns == 0 {
		return ""
	}
	var lines []string
	if n.Header != nil {
		lines = append(lines, markup.TableRow(n.Header.lightweightCells(opts, columns)))
	} else {
		lines = append(lines, markup.TableRow(make([]string, columns)))
	}
	lines = append(lines, markup.TableSeparator(columns))
	for _, row := range n.Rows {
		lines = append(lines, markup.TableRow(row.lightweightCells(opts, columns)))
	}
	return strings.Join(lines, "\n")
}

func (n *Table) RenderStructured(opts Options) string {
	columns := n.Columns()
	if columns == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(`<table border="1">`)
	if n.Header != nil {
		sb.WriteString("<thead>")
		sb.WriteString(n.Header.structured(opts, columns, false))
		sb.WriteString("</thead>")
	}
	sb.WriteString("<tbody>")
	for _, row := range n.Rows {
		sb.WriteString(row.structured(opts, columns, n.FirstColumnHeader))
	}
	sb.WriteString("</tbody></table>")
	return sb.String()
}

/* BlockQuote */

func (n *BlockQuote) RenderLightweight(opts Options) string {
	inner := renderBlocksLightweight(n.Children, opts)
	if n.Citation != "" {
		inner += "\n\n" + markup.Emphasis(opts.Dialect, markup.Italic, markup.EscapeText(n.Citation))
	}
	return text.PrefixLines(inner, "> ")
}

func (n *BlockQuote) RenderStructured(opts Options) string {
	inner := renderBlocksStructured(n.Children, opts)
	if n.Citation != "" {
		inner += "<footer><cite>" + html.EscapeString(n.Citation) + "</cite></footer>"
	}
	return "<blockquote>" + inner + "</blockquote>"
}

/* CodeBlock */

func (n *CodeBlock) RenderLightweight(opts Options) string {
	return markup.CodeBlockLightweight(n.Language, n.Text)
}

func (n *CodeBlock) RenderStructured(opts Options) string {
	return markup.CodeBlockStructured(n.Language, n.Text)
}

/* Body */

// RenderLightweight renders the whole note, front matter included.
func (n *Body) RenderLightweight(opts Options) string {
	blocks := renderBlocksLightweight(n.Children, opts)
	if fm := n.FrontMatter(); fm != nil {
		if rendered := fm.RenderLightweight(opts); rendered != "" {
			return rendered + "\n\n" + blocks
		}
	}
	return blocks
}

// RenderStructured renders a complete HTML document, or only the content in intermediate mode.
func (n *Body) RenderStructured(opts Options) string {
	blocks := renderBlocksStructured(n.Children, opts)
	if opts.Intermediate {
		return blocks
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	sb.WriteString(`<meta charset="utf-8" />` + "\n")
	sb.WriteString("<title>" + html.EscapeString(n.Title) + "</title>\n")
	if fm := n.FrontMatter(); fm != nil {
		if meta := fm.RenderStructured(opts); meta != "" {
			sb.WriteString(meta + "\n")
		}
	}
	sb.WriteString("</head>\n<body>\n")
	sb.WriteString(blocks)
	sb.WriteString("\n</body>\n</html>")
	return sb.String()
}

// Render renders the body in the format selected by the dialect.
func (n *Body) Render(opts Options) string {
	if opts.Dialect.IsLightweight() {
		return n.RenderLightweight(opts)
	}
	return n.RenderStructured(opts)
}
