package markdown

import (
	"strings"
)

// Document represents a Markdown (or HTML) document produced by the exporter.
type Document string

// Lines returns the lines present in the document
func (m Document) Lines() []string {
	return strings.Split(string(m), "\n")
}

func (m Document) String() string {
	return string(m)
}
