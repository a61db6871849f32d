package markup

import (
	"fmt"
	"sort"
	"strings"
)

// ListKind is the kind of a list item.
type ListKind int

const (
	BulletList ListKind = iota
	NumberedList
	Checklist
)

// ListEntry is a rendered list item waiting to be nested.
type ListEntry struct {
	Kind    ListKind
	Indent  int
	Checked bool
	Content string
}

// CompactIndents maps the distinct indent values to dense levels starting at 0.
func CompactIndents(indents []int) []int {
	distinct := make(map[int]struct{})
	for _, indent := range indents {
		distinct[indent] = struct{}{}
	}
	var sorted []int
	for indent := range distinct {
		sorted = append(sorted, indent)
	}
	sort.Ints(sorted)
	levels := make(map[int]int)
	for level, indent := range sorted {
		levels[indent] = level
	}
	result := make([]int, len(indents))
	for i, indent := range indents {
		result[i] = levels[indent]
	}
	return result
}

/* Numbered counters */

// NumberCounters keeps one running counter per indent level.
type NumberCounters struct {
	counters map[int]int
	previous int
}

func NewNumberCounters() *NumberCounters {
	return &NumberCounters{
		counters: make(map[int]int),
		previous: -1,
	}
}

// Next returns the number of the next numbered item at the given level.
// Deeper levels start again at 1 once the list returns to a shallower level.
func (c *NumberCounters) Next(level int) int {
	c.forgetDeeperThan(level)
	c.counters[level]++
	c.previous = level
	return c.counters[level]
}

// Interrupt notifies a non-numbered item at the given level. The next numbered item at this level restarts at 1.
func (c *NumberCounters) Interrupt(level int) {
	c.forgetDeeperThan(level)
	delete(c.counters, level)
	c.previous = level
}

func (c *NumberCounters) forgetDeeperThan(level int) {
	if level >= c.previous {
		return
	}
	for l := range c.counters {
		if l > level {
			delete(c.counters, l)
		}
	}
}

/* Lightweight */

// ListLightweight renders list entries as Markdown lines indented with tabs.
func ListLightweight(entries []ListEntry, checklistAsHTML bool) string {
	counters := NewNumberCounters()
	var lines []string
	for _, entry := range entries {
		indent := max(entry.Indent, 0)
		var prefix string
		switch entry.Kind {
		case NumberedList:
			prefix = strings.Repeat("\t", indent) + fmt.Sprintf("%d. ", counters.Next(indent))
		case Checklist:
			counters.Interrupt(indent)
			prefix = ChecklistLine(indent, entry.Checked, checklistAsHTML)
		default:
			counters.Interrupt(indent)
			prefix = strings.Repeat("\t", indent) + "- "
		}
		lines = append(lines, prefix+continuationLines(entry.Content, indent+1))
	}
	return strings.Join(lines, "\n")
}

// ChecklistLine returns the prefix of a checklist line.
func ChecklistLine(indent int, checked bool, asHTML bool) string {
	prefix := strings.Repeat("\t", max(indent, 0)) + "- "
	if asHTML {
		if checked {
			return prefix + `<input type="checkbox" checked="checked" /> `
		}
		return prefix + `<input type="checkbox" /> `
	}
	if checked {
		return prefix + "[x] "
	}
	return prefix + "[ ] "
}

// continuationLines indents the lines following the first one so that they stay inside the list item.
func continuationLines(content string, indent int) string {
	if !strings.Contains(content, "\n") {
		return content
	}
	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		lines[i] = strings.Repeat("\t", indent) + lines[i]
	}
	return strings.Join(lines, "\n")
}

/* Structured */

type openList struct {
	kind   ListKind
	liOpen bool
}

// ListStructured renders list entries as nested HTML lists.
// Every indent delta opens or closes the same number of list containers.
func ListStructured(entries []ListEntry) string {
	var sb strings.Builder
	var stack []*openList

	for _, entry := range entries {
		level := max(entry.Indent, 0)

		if len(stack) < level+1 {
			for len(stack) < level+1 {
				sb.WriteString(openTag(entry.Kind))
				stack = append(stack, &openList{kind: entry.Kind})
			}
		} else {
			for len(stack) > level+1 {
				top := stack[len(stack)-1]
				if top.liOpen {
					sb.WriteString("</li>")
				}
				sb.WriteString(closeTag(top.kind))
				stack = stack[:len(stack)-1]
			}
			current := stack[level]
			if current.liOpen {
				sb.WriteString("</li>")
				current.liOpen = false
			}
			if current.kind != entry.Kind {
				sb.WriteString(closeTag(current.kind))
				sb.WriteString(openTag(entry.Kind))
				current.kind = entry.Kind
			}
		}

		sb.WriteString("<li>")
		if entry.Kind == Checklist {
			sb.WriteString(CheckboxStructured(entry.Checked))
		}
		sb.WriteString(entry.Content)
		stack[level].liOpen = true
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.liOpen {
			sb.WriteString("</li>")
		}
		sb.WriteString(closeTag(top.kind))
		stack = stack[:len(stack)-1]
	}
	return sb.String()
}

// CheckboxStructured returns a read-only HTML checkbox.
func CheckboxStructured(checked bool) string {
	if checked {
		return `<input type="checkbox" checked="checked" disabled="disabled" /> `
	}
	return `<input type="checkbox" disabled="disabled" /> `
}

func openTag(kind ListKind) string {
	switch kind {
	case NumberedList:
		return "<ol>"
	case Checklist:
		return `<ul class="checklist">`
	}
	return "<ul>"
}

func closeTag(kind ListKind) string {
	if kind == NumberedList {
		return "</ol>"
	}
	return "</ul>"
}
