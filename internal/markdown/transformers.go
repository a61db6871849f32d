package markdown

import (
	"regexp"
	"strings"

	"github.com/julien-sobczak/nimbus2md/pkg/placeholder"
	"github.com/julien-sobczak/nimbus2md/pkg/text"
)

// Transformer applies changes on a document
type Transformer func(document Document) (Document, error)

// Transform applies transformers successively to create a new document
func (m Document) Transform(transformers ...Transformer) (Document, error) {
	result := m
	for _, transformer := range transformers {
		resultTransformed, err := transformer(result)
		if err != nil {
			return m, err
		}
		result = resultTransformed
	}
	return result, nil
}

/*
 * Transformers
 */

// ReplacePlaceholders substitutes the tokens of a registry.
func ReplacePlaceholders(registry *placeholder.Registry) Transformer {
	return func(document Document) (Document, error) {
		if registry == nil {
			return document, nil
		}
		return Document(registry.Apply(string(document))), nil
	}
}

// StripHTMLComments transforms a document to remove HTML comments.
// Fenced code blocks are kept untouched.
func StripHTMLComments() Transformer {
	r := regexp.MustCompile(`(?s)<!--.*?-->`)
	return func(document Document) (Document, error) {
		var result []string
		var segment []string
		flush := func() {
			if len(segment) > 0 {
				result = append(result, r.ReplaceAllString(strings.Join(segment, "\n"), ""))
				segment = nil
			}
		}
		insideCodeBlock := false
		for _, line := range document.Lines() {
			fence := strings.HasPrefix(strings.TrimLeft(line, "\t "), "```")
			if fence && !insideCodeBlock {
				flush()
			}
			if insideCodeBlock || fence {
				result = append(result, line)
			} else {
				segment = append(segment, line)
			}
			if fence {
				insideCodeBlock = !insideCodeBlock
			}
		}
		flush()
		return Document(strings.Join(result, "\n")), nil
	}
}

// SquashBlankLines removes blank lines when multiple successive blank lines are present
func SquashBlankLines() Transformer {
	return func(document Document) (Document, error) {
		return Document(text.SquashBlankLines(string(document))), nil
	}
}

// TrimTrailingSpaces removes spaces at the end of lines.
// Lines inside fenced code blocks are kept untouched.
func TrimTrailingSpaces() Transformer {
	return func(document Document) (Document, error) {
		lines := document.Lines()
		insideCodeBlock := false
		for i, line := range lines {
			if strings.HasPrefix(strings.TrimLeft(line, "\t "), "```") {
				insideCodeBlock = !insideCodeBlock
			}
			if insideCodeBlock {
				continue
			}
			lines[i] = text.TrimTrailingSpaces(line)
		}
		return Document(strings.Join(lines, "\n")), nil
	}
}

// PrependFrontMatter adds a front matter block at the start of the document.
func PrependFrontMatter(frontMatter string) Transformer {
	return func(document Document) (Document, error) {
		if strings.TrimSpace(frontMatter) == "" {
			return document, nil
		}
		return Document(strings.TrimRight(frontMatter, "\n") + "\n\n" + strings.TrimLeft(string(document), "\n")), nil
	}
}

// EnsureTrailingNewline ends the document with exactly one newline.
func EnsureTrailingNewline() Transformer {
	return func(document Document) (Document, error) {
		return Document(strings.TrimRight(string(document), "\n") + "\n"), nil
	}
}

// Finalize is the list of transformers applied to every Markdown document before being written.
func Finalize(registry *placeholder.Registry, frontMatter string) []Transformer {
	return []Transformer{
		ReplacePlaceholders(registry),
		TrimTrailingSpaces(),
		SquashBlankLines(),
		PrependFrontMatter(frontMatter),
		EnsureTrailingNewline(),
	}
}
