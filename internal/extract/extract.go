// Package extract builds the content tree of a note from its HTML body.
//
// The parsed HTML is never modified: a new content tree is built in a single descent.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/julien-sobczak/nimbus2md/internal/checklist"
	"github.com/julien-sobczak/nimbus2md/internal/content"
	"github.com/julien-sobczak/nimbus2md/internal/markup"
	"github.com/julien-sobczak/nimbus2md/pkg/placeholder"
)

// Logger receives the recoverable problems found in the markup.
type Logger interface {
	Warnf(format string, v ...any)
}

type discardLogger struct{}

func (discardLogger) Warnf(format string, v ...any) {}

// Options configures the extraction.
type Options struct {
	// Dialect of the final output, used to render the content hidden behind placeholders.
	Dialect             markup.Dialect
	FirstRowAsHeader    bool
	FirstColumnAsHeader bool
	// Checklist contains the items found by the checklist preprocessing.
	Checklist checklist.Items
	// Placeholders stores iframes and charts. Required when the markup contains some.
	Placeholders *placeholder.Registry
	Logger       Logger
	// Source names the note in log messages.
	Source string
}

type extractor struct {
	opts   Options
	tokens *regexp.Regexp
}

// Extract parses a HTML document or fragment and returns the blocks of the note.
func Extract(markupText string, opts Options) ([]content.Node, error) {
	doc, err := html.Parse(strings.NewReader(markupText))
	if err != nil {
		return nil, fmt.Errorf("unable to parse HTML of %q: %w", opts.Source, err)
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger{}
	}
	if opts.Placeholders == nil {
		opts.Placeholders = placeholder.New(opts.Source)
	}

	e := &extractor{opts: opts}
	if tokens := opts.Checklist.Tokens(); len(tokens) > 0 {
		var quoted []string
		for _, token := range tokens {
			quoted = append(quoted, regexp.QuoteMeta(token))
		}
		e.tokens = regexp.MustCompile(strings.Join(quoted, "|"))
	}

	body := findBody(doc)
	if body == nil {
		return nil, nil
	}
	return e.blocks(body), nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

func (e *extractor) warnf(format string, v ...any) {
	e.opts.Logger.Warnf("%s: "+format, append([]any{e.opts.Source}, v...)...)
}

/* Blocks */

// paragraphBuilder accumulates inline nodes until a block element interrupts them.
type paragraphBuilder struct {
	e       *extractor
	inlines []content.Node
	result  []content.Node
}

func (b *paragraphBuilder) add(nodes ...content.Node) {
	for _, n := range nodes {
		if text, ok := n.(*content.Text); ok && len(b.inlines) == 0 && strings.TrimSpace(text.Value) == "" {
			continue
		}
		b.inlines = append(b.inlines, n)
	}
}

func (b *paragraphBuilder) flush() {
	inlines := trimInlines(b.inlines)
	b.inlines = nil
	if len(inlines) == 0 {
		return
	}
	b.result = append(b.result, b.e.paragraphOrChecklist(inlines)...)
}

func (b *paragraphBuilder) block(nodes ...content.Node) {
	b.flush()
	b.result = append(b.result, nodes...)
}

// blocks converts the children of a container. Inline runs become paragraphs.
func (e *extractor) blocks(n *html.Node) []content.Node {
	b := &paragraphBuilder{e: e}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		e.block(c, b)
	}
	b.flush()
	return b.result
}

func (e *extractor) block(n *html.Node, b *paragraphBuilder) {
	switch n.Type {
	case html.TextNode:
		b.add(e.inline(n)...)
		return
	case html.ElementNode:
	default:
		return
	}

	if isWidget(n) {
		b.block(e.widget(n))
		return
	}

	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Head, atom.Title, atom.Template, atom.Noscript:
		return
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Header, atom.Footer, atom.Main, atom.Aside, atom.Nav, atom.Figure, atom.Center:
		b.flush()
		b.block(e.blocks(n)...)
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level, _ := strconv.Atoi(n.Data[1:])
		b.block(&content.Heading{
			Level:    level,
			ID:       attr(n, "id"),
			Children: trimInlines(e.inlineChildren(n)),
		})
	case atom.Ul, atom.Ol:
		b.block(e.list(n, 0)...)
	case atom.Table:
		if table := e.table(n); table != nil {
			b.block(table)
		}
	case atom.Blockquote:
		b.block(&content.BlockQuote{
			Citation: attr(n, "cite"),
			Children: e.blocks(n),
		})
	case atom.Pre:
		b.block(e.codeBlock(n))
	case atom.Hr:
		b.block(&content.HorizontalRule{})
	case atom.Iframe:
		b.block(e.iframe(n))
	default:
		b.add(e.inline(n)...)
	}
}

// paragraphOrChecklist returns a paragraph, or checklist items when the inline nodes contain checklist tokens.
func (e *extractor) paragraphOrChecklist(inlines []content.Node) []content.Node {
	segments := e.splitChecklist(inlines)
	if segments == nil {
		return []content.Node{&content.Paragraph{Children: inlines}}
	}
	var result []content.Node
	for _, segment := range segments {
		if segment.item == nil {
			result = append(result, &content.Paragraph{Children: segment.inlines})
			continue
		}
		result = append(result, segment.checklistItem())
	}
	return result
}

type segment struct {
	item    *checklist.Item
	inlines []content.Node
}

func (s segment) checklistItem() *content.ChecklistItem {
	return &content.ChecklistItem{
		Indent:   s.item.Indent,
		Checked:  s.item.Checked,
		Token:    s.item.Token,
		Children: trimInlines(s.inlines),
	}
}

// splitChecklist cuts the inline nodes at every checklist token. It returns nil when no token is present.
func (e *extractor) splitChecklist(inlines []content.Node) []segment {
	if e.tokens == nil {
		return nil
	}
	found := false
	current := segment{}
	var segments []segment
	for _, n := range inlines {
		text, ok := n.(*content.Text)
		if !ok {
			current.inlines = append(current.inlines, n)
			continue
		}
		value := text.Value
		for {
			loc := e.tokens.FindStringIndex(value)
			if loc == nil {
				break
			}
			found = true
			if before := value[:loc[0]]; before != "" {
				current.inlines = append(current.inlines, content.NewText(before))
			}
			if current.item != nil || len(trimInlines(current.inlines)) > 0 {
				segments = append(segments, segment{item: current.item, inlines: trimInlines(current.inlines)})
			}
			item, _ := e.opts.Checklist.Lookup(value[loc[0]:loc[1]])
			current = segment{item: item}
			value = value[loc[1]:]
		}
		if value != "" {
			current.inlines = append(current.inlines, content.NewText(value))
		}
	}
	if !found {
		return nil
	}
	if current.item != nil || len(trimInlines(current.inlines)) > 0 {
		segments = append(segments, segment{item: current.item, inlines: trimInlines(current.inlines)})
	}
	return segments
}

/* Code */

var reLanguage = regexp.MustCompile(`(?:^|\s)(?:language|lang)-([\w+#-]+)`)

func (e *extractor) codeBlock(n *html.Node) *content.CodeBlock {
	language := ""
	for _, candidate := range []*html.Node{n, firstElement(n, atom.Code)} {
		if candidate == nil {
			continue
		}
		if match := reLanguage.FindStringSubmatch(attr(candidate, "class")); match != nil {
			language = match[1]
			break
		}
	}
	return &content.CodeBlock{
		Language: language,
		Text:     strings.TrimPrefix(textContent(n), "\n"),
	}
}

/* Helpers */

func attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, candidate := range strings.Fields(attr(n, "class")) {
		if strings.EqualFold(candidate, class) {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Br {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

func firstElement(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.DataAtom == a {
			return c
		}
		if found := firstElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

var reDimension = regexp.MustCompile(`^\s*(\d+)(?:\.\d+)?\s*(?:px)?\s*$`)

// parseDimension parses "600" or "600px". Relative units are ignored.
func parseDimension(value string) int {
	match := reDimension.FindStringSubmatch(value)
	if match == nil {
		return 0
	}
	result, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return result
}

// styleProperty returns the value of a CSS property declared in a style attribute.
func styleProperty(n *html.Node, property string) string {
	for _, declaration := range strings.Split(attr(n, "style"), ";") {
		key, value, ok := strings.Cut(declaration, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), property) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
