// Package checklist keeps checkboxes alive through an external markup converter.
//
// Preprocess replaces every checkbox of an HTML fragment by an opaque token and records its state.
// Postprocess substitutes the tokens of the converted text with formatted checklist lines.
package checklist

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/julien-sobczak/nimbus2md/internal/markup"
	"github.com/julien-sobczak/nimbus2md/pkg/placeholder"
)

// PlaceholderKind is the kind of tokens reserved for checklist items.
const PlaceholderKind = "checklist"

var (
	reIndent        = regexp.MustCompile(`(?:padding|margin)-left:\s*(\d+)`)
	reCheckboxClass = regexp.MustCompile(`(?i)^(?:.*[-_])?checkbox$`)
)

// Item is a checkbox discovered in a note.
type Item struct {
	Token   string
	Checked bool
	// RawIndent is the first left padding or margin found on the checkbox or its enclosing block.
	RawIndent int
	// SiblingExtraIndent nests the checkboxes following another one on the same line.
	SiblingExtraIndent int
	// Indent is the final level: compacted raw indent plus sibling extra indent.
	Indent int
}

// Line returns the Markdown prefix of the item.
func (i *Item) Line(asHTML bool) string {
	return markup.ChecklistLine(i.Indent, i.Checked, asHTML)
}

// Items are the checklist items of a note in document order.
type Items []*Item

// Lookup returns the item using the given token.
func (items Items) Lookup(token string) (*Item, bool) {
	for _, item := range items {
		if item.Token == token {
			return item, true
		}
	}
	return nil, false
}

// Tokens returns the tokens of all items.
func (items Items) Tokens() []string {
	var result []string
	for _, item := range items {
		result = append(result, item.Token)
	}
	return result
}

// Preprocess replaces the checkboxes of the HTML fragment by tokens placed in front of their text.
func Preprocess(fragment string, registry *placeholder.Registry) (string, Items, error) {
	root := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), root)
	if err != nil {
		return "", nil, err
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	// Collect first, edit after
	var checkboxes []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if IsCheckbox(n) {
			checkboxes = append(checkboxes, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if len(checkboxes) == 0 {
		return fragment, nil, nil
	}

	var items Items
	siblings := make(map[*html.Node]int)
	for _, checkbox := range checkboxes {
		line := enclosingBlock(checkbox)
		item := &Item{
			Token:              registry.Reserve(PlaceholderKind),
			Checked:            IsChecked(checkbox),
			RawIndent:          rawIndent(checkbox, line),
			SiblingExtraIndent: min(siblings[line], 1),
		}
		siblings[line]++
		items = append(items, item)
	}

	CompactIndents(items)

	for i, checkbox := range checkboxes {
		replaceWithToken(checkbox, items[i].Token)
	}

	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", nil, err
		}
	}
	return buf.String(), items, nil
}

// CompactIndents maps the raw indents to dense levels then adds the sibling extra indent.
func CompactIndents(items Items) {
	raws := make([]int, len(items))
	for i, item := range items {
		raws[i] = item.RawIndent
	}
	for i, level := range markup.CompactIndents(raws) {
		items[i].Indent = level + items[i].SiblingExtraIndent
	}
}

// IsCheckbox returns if the node is a checkbox input or an element styled as a checkbox.
func IsCheckbox(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if n.DataAtom == atom.Input && strings.EqualFold(Attr(n, "type"), "checkbox") {
		return true
	}
	for _, class := range strings.Fields(Attr(n, "class")) {
		if reCheckboxClass.MatchString(class) {
			return strings.TrimSpace(textContent(n)) == ""
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
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

// IsChecked returns the state of a checkbox.
func IsChecked(n *html.Node) bool {
	if HasAttr(n, "checked") {
		return true
	}
	switch strings.ToLower(Attr(n, "data-checked")) {
	case "true", "1", "checked":
		return true
	}
	for _, class := range strings.Fields(Attr(n, "class")) {
		if strings.EqualFold(class, "checked") {
			return true
		}
	}
	return false
}

// Attr returns the value of an attribute or an empty string.
func Attr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// HasAttr returns if the attribute is present, even without value.
func HasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}

// ParseIndent returns the first left padding or margin of a style attribute.
func ParseIndent(style string) (int, bool) {
	match := reIndent.FindStringSubmatch(style)
	if match == nil {
		return 0, false
	}
	value, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return value, true
}

func rawIndent(checkbox, line *html.Node) int {
	for n := checkbox; n != nil; n = n.Parent {
		if indent, ok := ParseIndent(Attr(n, "style")); ok {
			return indent
		}
		if n == line {
			break
		}
	}
	return 0
}

var blocks = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.Li:         true,
	atom.Td:         true,
	atom.Th:         true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Blockquote: true,
	atom.Body:       true,
}

// enclosingBlock returns the element delimiting the line of a checkbox.
func enclosingBlock(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && blocks[p.DataAtom] {
			return p
		}
	}
	return n.Parent
}

// replaceWithToken removes the checkbox and inserts the token in front of the adjacent text.
func replaceWithToken(checkbox *html.Node, token string) {
	parent := checkbox.Parent
	next := checkbox.NextSibling
	parent.RemoveChild(checkbox)

	if next != nil && next.Type == html.TextNode {
		next.Data = token + " " + strings.TrimLeft(next.Data, " \t ")
		return
	}

	tokenNode := &html.Node{Type: html.TextNode, Data: token + " "}
	if parent.DataAtom == atom.Body {
		// Top-level checkbox without text
		wrapper := &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P}
		wrapper.AppendChild(tokenNode)
		parent.InsertBefore(wrapper, next)
		return
	}
	parent.InsertBefore(tokenNode, next)
}
