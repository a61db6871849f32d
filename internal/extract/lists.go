package extract

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/julien-sobczak/nimbus2md/internal/content"
	"github.com/julien-sobczak/nimbus2md/internal/markup"
)

// list flattens a HTML list into items carrying their nesting level.
// A list directly nested in another list (instead of inside an item) is a child of the previous item.
func (e *extractor) list(n *html.Node, depth int) []content.Node {
	items := e.listItems(n, depth)
	if depth > 0 {
		return items
	}

	// The shallowest item starts at 0 and levels are dense
	indents := make([]int, len(items))
	for i, item := range items {
		indents[i] = indentOf(item)
	}
	for i, level := range markup.CompactIndents(indents) {
		setIndent(items[i], level)
	}
	return items
}

func (e *extractor) listItems(n *html.Node, depth int) []content.Node {
	numbered := n.DataAtom == atom.Ol
	var result []content.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.ElementNode && (c.DataAtom == atom.Ul || c.DataAtom == atom.Ol):
			result = append(result, e.listItems(c, depth+1)...)
		case c.Type == html.ElementNode:
			result = append(result, e.listItem(c, depth, numbered)...)
		case c.Type == html.TextNode:
			if inlines := trimInlines(e.inline(c)); len(inlines) > 0 {
				result = append(result, newItem(numbered, depth, inlines))
			}
		}
	}
	return result
}

// listItem converts a <li> and the lists nested inside it.
func (e *extractor) listItem(li *html.Node, depth int, numbered bool) []content.Node {
	var inlines []content.Node
	var nested []content.Node
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Ul || c.DataAtom == atom.Ol) {
			nested = append(nested, e.listItems(c, depth+1)...)
			continue
		}
		inlines = append(inlines, e.inline(c)...)
	}
	inlines = trimInlines(inlines)

	var result []content.Node
	if segments := e.splitChecklist(inlines); segments != nil {
		for _, segment := range segments {
			if segment.item == nil {
				result = append(result, newItem(numbered, depth, segment.inlines))
				continue
			}
			item := segment.checklistItem()
			item.Indent += depth
			result = append(result, item)
		}
	} else if len(inlines) > 0 {
		result = append(result, newItem(numbered, depth, inlines))
	}
	return append(result, nested...)
}

func newItem(numbered bool, indent int, children []content.Node) content.Node {
	if numbered {
		return &content.NumberedItem{Indent: indent, Children: children}
	}
	return &content.BulletItem{Indent: indent, Children: children}
}

func indentOf(n content.Node) int {
	switch v := n.(type) {
	case *content.BulletItem:
		return v.Indent
	case *content.NumberedItem:
		return v.Indent
	case *content.ChecklistItem:
		return v.Indent
	}
	return 0
}

func setIndent(n content.Node, indent int) {
	switch v := n.(type) {
	case *content.BulletItem:
		v.Indent = indent
	case *content.NumberedItem:
		v.Indent = indent
	case *content.ChecklistItem:
		v.Indent = indent
	}
}
