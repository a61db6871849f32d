package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/julien-sobczak/nimbus2md/internal/content"
	"github.com/julien-sobczak/nimbus2md/internal/markup"
)

var reWhitespaces = regexp.MustCompile(`[ \t\r\n\f]+`)

var inlineStyles = map[atom.Atom]markup.Style{
	atom.B:      markup.Bold,
	atom.Strong: markup.Bold,
	atom.I:      markup.Italic,
	atom.Em:     markup.Italic,
	atom.Cite:   markup.Italic,
	atom.S:      markup.Strikethrough,
	atom.Strike: markup.Strikethrough,
	atom.Del:    markup.Strikethrough,
	atom.U:      markup.Underline,
	atom.Ins:    markup.Underline,
	atom.Code:   markup.Code,
	atom.Kbd:    markup.Code,
	atom.Tt:     markup.Code,
	atom.Sup:    markup.Superscript,
	atom.Sub:    markup.Subscript,
	atom.Mark:   markup.Highlight,
}

func (e *extractor) inlineChildren(n *html.Node) []content.Node {
	var result []content.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		result = append(result, e.inline(c)...)
	}
	return result
}

// inline converts a node found inside a block. Nested blocks are flattened with line breaks.
func (e *extractor) inline(n *html.Node) []content.Node {
	switch n.Type {
	case html.TextNode:
		value := reWhitespaces.ReplaceAllString(n.Data, " ")
		if value == "" {
			return nil
		}
		return []content.Node{content.NewText(value)}
	case html.ElementNode:
	default:
		return nil
	}

	if isWidget(n) {
		return []content.Node{e.widget(n)}
	}

	if style, ok := inlineStyles[n.DataAtom]; ok {
		return wrap(style, e.inlineChildren(n))
	}

	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Head, atom.Title, atom.Template, atom.Noscript, atom.Input:
		return nil
	case atom.Br:
		return []content.Node{&content.LineBreak{}}
	case atom.Img:
		if image := e.image(n); image != nil {
			return []content.Node{image}
		}
		return nil
	case atom.A:
		return e.anchor(n)
	case atom.Iframe:
		return []content.Node{e.iframe(n)}
	case atom.Span, atom.Font, atom.Label, atom.Small, atom.Big, atom.Abbr, atom.Q, atom.Time:
		if mention := e.mention(n); mention != nil {
			return []content.Node{mention}
		}
		return e.styledSpan(n)
	case atom.P, atom.Div, atom.Li, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Blockquote, atom.Pre,
		atom.Section, atom.Article, atom.Header, atom.Footer, atom.Ul, atom.Ol, atom.Tr, atom.Table:
		children := trimInlines(e.inlineChildren(n))
		if len(children) == 0 {
			return nil
		}
		return append([]content.Node{&content.LineBreak{}}, children...)
	}
	return e.inlineChildren(n)
}

// styledSpan converts the CSS formatting of a span to formatted nodes.
func (e *extractor) styledSpan(n *html.Node) []content.Node {
	children := e.inlineChildren(n)

	weight := strings.ToLower(styleProperty(n, "font-weight"))
	if weight == "bold" || weight == "bolder" || weight == "700" || weight == "800" || weight == "900" {
		children = wrap(markup.Bold, children)
	}
	if strings.EqualFold(styleProperty(n, "font-style"), "italic") {
		children = wrap(markup.Italic, children)
	}
	decoration := strings.ToLower(styleProperty(n, "text-decoration") + " " + styleProperty(n, "text-decoration-line"))
	if strings.Contains(decoration, "line-through") {
		children = wrap(markup.Strikethrough, children)
	}
	if strings.Contains(decoration, "underline") {
		children = wrap(markup.Underline, children)
	}
	return children
}

func wrap(style markup.Style, children []content.Node) []content.Node {
	if len(children) == 0 {
		return nil
	}
	if strings.TrimSpace(content.PlainText(children...)) == "" && !hasNonText(children) {
		return children
	}
	return []content.Node{&content.Formatted{Style: style, Children: children}}
}

func hasNonText(nodes []content.Node) bool {
	for _, n := range nodes {
		if _, ok := n.(*content.Text); !ok {
			return true
		}
	}
	return false
}

// trimInlines removes the leading and trailing whitespaces and line breaks of an inline run.
func trimInlines(nodes []content.Node) []content.Node {
	start, end := 0, len(nodes)
	for start < end && isBlankInline(nodes[start]) {
		start++
	}
	for end > start && isBlankInline(nodes[end-1]) {
		end--
	}
	if start == end {
		return nil
	}
	result := make([]content.Node, end-start)
	copy(result, nodes[start:end])
	if text, ok := result[0].(*content.Text); ok {
		result[0] = content.NewText(strings.TrimLeft(text.Value, " "))
	}
	if text, ok := result[len(result)-1].(*content.Text); ok {
		result[len(result)-1] = content.NewText(strings.TrimRight(text.Value, " "))
	}
	return result
}

func isBlankInline(n content.Node) bool {
	switch v := n.(type) {
	case *content.LineBreak:
		return true
	case *content.Text:
		return strings.TrimSpace(v.Value) == ""
	}
	return false
}
