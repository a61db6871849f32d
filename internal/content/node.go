// Package content is the typed tree of a note body.
//
// Every variant renders itself to structured markup (HTML) and to lightweight markup (Markdown).
// Rendering is a pure function of the node, its children and the Options.
package content

import (
	"strings"

	"github.com/julien-sobczak/nimbus2md/internal/markdown"
	"github.com/julien-sobczak/nimbus2md/internal/markup"
)

// Kind identifies a node variant.
type Kind int

const (
	KindBody Kind = iota
	KindFrontMatter
	KindText
	KindFormatted
	KindLineBreak
	KindHorizontalRule
	KindHeading
	KindParagraph
	KindBulletItem
	KindNumberedItem
	KindChecklistItem
	KindTable
	KindTableHeaderRow
	KindTableRow
	KindImage
	KindFileAttachment
	KindHyperlink
	KindMention
	KindBlockQuote
	KindCodeBlock
	KindPlaceholder
)

var kindNames = map[Kind]string{
	KindBody:           "body",
	KindFrontMatter:    "front-matter",
	KindText:           "text",
	KindFormatted:      "formatted",
	KindLineBreak:      "line-break",
	KindHorizontalRule: "horizontal-rule",
	KindHeading:        "heading",
	KindParagraph:      "paragraph",
	KindBulletItem:     "bullet-item",
	KindNumberedItem:   "numbered-item",
	KindChecklistItem:  "checklist-item",
	KindTable:          "table",
	KindTableHeaderRow: "table-header-row",
	KindTableRow:       "table-row",
	KindImage:          "image",
	KindFileAttachment: "file-attachment",
	KindHyperlink:      "hyperlink",
	KindMention:        "mention",
	KindBlockQuote:     "block-quote",
	KindCodeBlock:      "code-block",
	KindPlaceholder:    "placeholder",
}

func (k Kind) String() string {
	return kindNames[k]
}

// Node is a node of the content tree. The set of implementations is closed.
type Node interface {
	Kind() Kind
	RenderStructured(opts Options) string
	RenderLightweight(opts Options) string
	node()
}

// Parent is implemented by nodes owning children.
type Parent interface {
	Node
	Nodes() []Node
}

/* Inline nodes */

// Text is a run of plain text. Whitespaces are already collapsed.
type Text struct {
	Value string
}

// Formatted applies an inline style to its children.
type Formatted struct {
	Style    markup.Style
	Children []Node
}

// LineBreak forces a new line inside a block.
type LineBreak struct{}

// Hyperlink is a link to an external resource.
type Hyperlink struct {
	Target   string
	Children []Node
}

// MentionTarget is what a mention points to.
type MentionTarget int

const (
	MentionNote MentionTarget = iota
	MentionFolder
	MentionWorkspace
	MentionUser
)

func (m MentionTarget) String() string {
	switch m {
	case MentionFolder:
		return "folder"
	case MentionWorkspace:
		return "workspace"
	case MentionUser:
		return "user"
	}
	return "note"
}

// Mention is a reference to another note, folder, workspace or user.
// Resolved holds the relative paths computed by the link resolver. The node never references another node.
type Mention struct {
	Target      MentionTarget
	Identifier  string
	WorkspaceID string
	Text        string
	Resolved    []string
}

// AttachmentLink locates an attachment inside the archive and in the output.
type AttachmentLink struct {
	SourcePath string // Entry name inside the archive
	TargetPath string // Relative to the note file
	Missing    bool   // The entry does not exist in the archive
}

// Image is an embedded picture.
type Image struct {
	Alt    string
	Width  int
	Height int
	Link   *AttachmentLink
}

// FileAttachment is a downloadable file.
type FileAttachment struct {
	Display string
	Link    *AttachmentLink
}

// Placeholder stands for content substituted after rendering (iframes, charts, ...).
type Placeholder struct {
	Token string
	Block bool
}

/* Block nodes */

// Body is the root of a note.
type Body struct {
	Title    string
	Children []Node
}

// FrontMatter holds the note attributes. Only allowed as first child of a Body.
type FrontMatter struct {
	Format markdown.FrontMatterFormat
	Fields markdown.FrontMatter
}

// Heading is a section title.
type Heading struct {
	Level    int
	ID       string
	Children []Node
}

// Paragraph is a block of inline nodes.
type Paragraph struct {
	Children []Node
}

// HorizontalRule separates sections.
type HorizontalRule struct{}

// BulletItem is an unordered list item. Nesting is expressed by the indent only.
type BulletItem struct {
	Indent   int
	Children []Node
}

// NumberedItem is an ordered list item.
type NumberedItem struct {
	Indent   int
	Children []Node
}

// ChecklistItem is a checkbox line. Indent and state come from the checklist processor.
type ChecklistItem struct {
	Indent   int
	Checked  bool
	Token    string
	Children []Node
}

// Table is a grid of cells.
type Table struct {
	Header            *TableRow
	Rows              []*TableRow
	FirstColumnHeader bool
}

// TableRow is a line of cells. A header row is rendered as TableHeaderRow.
type TableRow struct {
	Header bool
	Cells  [][]Node
}

// BlockQuote is a quotation.
type BlockQuote struct {
	Citation string
	Children []Node
}

// CodeBlock is preformatted text.
type CodeBlock struct {
	Language string
	Text     string
}

func (*Text) Kind() Kind           { return KindText }
func (*Formatted) Kind() Kind      { return KindFormatted }
func (*LineBreak) Kind() Kind      { return KindLineBreak }
func (*Hyperlink) Kind() Kind      { return KindHyperlink }
func (*Mention) Kind() Kind        { return KindMention }
func (*Image) Kind() Kind          { return KindImage }
func (*FileAttachment) Kind() Kind { return KindFileAttachment }
func (*Placeholder) Kind() Kind    { return KindPlaceholder }
func (*Body) Kind() Kind           { return KindBody }
func (*FrontMatter) Kind() Kind    { return KindFrontMatter }
func (*Heading) Kind() Kind        { return KindHeading }
func (*Paragraph) Kind() Kind      { return KindParagraph }
func (*HorizontalRule) Kind() Kind { return KindHorizontalRule }
func (*BulletItem) Kind() Kind     { return KindBulletItem }
func (*NumberedItem) Kind() Kind   { return KindNumberedItem }
func (*ChecklistItem) Kind() Kind  { return KindChecklistItem }
func (*Table) Kind() Kind          { return KindTable }
func (*BlockQuote) Kind() Kind     { return KindBlockQuote }
func (*CodeBlock) Kind() Kind      { return KindCodeBlock }
func (r *TableRow) Kind() Kind {
	if r.Header {
		return KindTableHeaderRow
	}
	return KindTableRow
}

func (*Text) node()           {}
func (*Formatted) node()      {}
func (*LineBreak) node()      {}
func (*Hyperlink) node()      {}
func (*Mention) node()        {}
func (*Image) node()          {}
func (*FileAttachment) node() {}
func (*Placeholder) node()    {}
func (*Body) node()           {}
func (*FrontMatter) node()    {}
func (*Heading) node()        {}
func (*Paragraph) node()      {}
func (*HorizontalRule) node() {}
func (*BulletItem) node()     {}
func (*NumberedItem) node()   {}
func (*ChecklistItem) node()  {}
func (*Table) node()          {}
func (*TableRow) node()       {}
func (*BlockQuote) node()     {}
func (*CodeBlock) node()      {}

func (n *Formatted) Nodes() []Node     { return n.Children }
func (n *Hyperlink) Nodes() []Node     { return n.Children }
func (n *Body) Nodes() []Node          { return n.Children }
func (n *Heading) Nodes() []Node       { return n.Children }
func (n *Paragraph) Nodes() []Node     { return n.Children }
func (n *BulletItem) Nodes() []Node    { return n.Children }
func (n *NumberedItem) Nodes() []Node  { return n.Children }
func (n *ChecklistItem) Nodes() []Node { return n.Children }
func (n *BlockQuote) Nodes() []Node    { return n.Children }
func (n *TableRow) Nodes() []Node {
	var result []Node
	for _, cell := range n.Cells {
		result = append(result, cell...)
	}
	return result
}
func (n *Table) Nodes() []Node {
	var result []Node
	if n.Header != nil {
		result = append(result, n.Header)
	}
	for _, row := range n.Rows {
		result = append(result, row)
	}
	return result
}

/* Constructors */

// NewBody creates the root of a note. The front matter, when present, becomes the first child.
func NewBody(title string, frontMatter *FrontMatter, children ...Node) *Body {
	body := &Body{Title: title}
	if frontMatter != nil {
		body.Children = append(body.Children, frontMatter)
	}
	for _, child := range children {
		if _, ok := child.(*FrontMatter); ok {
			continue
		}
		body.Children = append(body.Children, child)
	}
	return body
}

// WithFrontMatter returns a copy of the body using the given front matter.
func (n *Body) WithFrontMatter(frontMatter *FrontMatter) *Body {
	return NewBody(n.Title, frontMatter, n.Children...)
}

// FrontMatter returns the front matter of the body if any.
func (n *Body) FrontMatter() *FrontMatter {
	if len(n.Children) == 0 {
		return nil
	}
	fm, _ := n.Children[0].(*FrontMatter)
	return fm
}

// NewText returns a text node.
func NewText(value string) *Text {
	return &Text{Value: value}
}

/* Traversal */

// Walk visits the node and its descendants depth-first. Returning false skips the children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	parent, ok := n.(Parent)
	if !ok {
		return
	}
	for _, child := range parent.Nodes() {
		Walk(child, fn)
	}
}

// Mentions returns every mention of the tree in document order.
func Mentions(n Node) []*Mention {
	var result []*Mention
	Walk(n, func(child Node) bool {
		if mention, ok := child.(*Mention); ok {
			result = append(result, mention)
		}
		return true
	})
	return result
}

// AttachmentLinks returns the attachments referenced by the tree in document order.
func AttachmentLinks(n Node) []*AttachmentLink {
	var result []*AttachmentLink
	Walk(n, func(child Node) bool {
		switch v := child.(type) {
		case *Image:
			if v.Link != nil {
				result = append(result, v.Link)
			}
		case *FileAttachment:
			if v.Link != nil {
				result = append(result, v.Link)
			}
		}
		return true
	})
	return result
}

// PlainText returns the text content of nodes without any formatting.
func PlainText(nodes ...Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		Walk(n, func(child Node) bool {
			switch v := child.(type) {
			case *Text:
				sb.WriteString(v.Value)
			case *LineBreak:
				sb.WriteString("\n")
			case *Mention:
				sb.WriteString(v.Text)
			case *Image:
				sb.WriteString(v.Alt)
			case *FileAttachment:
				sb.WriteString(v.Display)
			case *CodeBlock:
				sb.WriteString(v.Text)
			}
			return true
		})
	}
	return sb.String()
}
