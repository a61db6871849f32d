package checklist

import (
	"regexp"
	"strings"
)

// Postprocess substitutes the tokens of a converted Markdown text with checklist lines.
// Any list marker or indentation the converter added in front of a token is absorbed.
// Tokens not found in the text are left untouched.
func Postprocess(text string, items Items, asHTML bool) string {
	text = tighten(text, items)
	for _, item := range items {
		if item.Token == "" {
			continue
		}
		line := item.Line(asHTML)
		token := regexp.QuoteMeta(item.Token)

		atLineStart := regexp.MustCompile(`(?m)^[\t ]*(?:[-*+]|\d+[.)])?[\t ]*` + token + `[\t ]*`)
		if atLineStart.MatchString(text) {
			text = atLineStart.ReplaceAllLiteralString(text, line)
			continue
		}

		// The converter joined the item with the previous line
		inline := regexp.MustCompile(`[\t ]*` + token + `[\t ]*`)
		text = inline.ReplaceAllLiteralString(text, "\n"+line)
	}
	return text
}

var reLeadingMarker = regexp.MustCompile(`^[\t ]*(?:[-*+]|\d+[.)])?[\t ]*`)

// tighten removes the blank lines the converter inserted between consecutive checklist items.
func tighten(text string, items Items) string {
	startsWithToken := func(line string) bool {
		rest := strings.TrimPrefix(line, reLeadingMarker.FindString(line))
		for _, item := range items {
			if item.Token != "" && strings.HasPrefix(rest, item.Token) {
				return true
			}
		}
		return false
	}

	lines := strings.Split(text, "\n")
	result := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" && len(result) > 0 && startsWithToken(result[len(result)-1]) {
			j := i
			for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
				j++
			}
			if j < len(lines) && startsWithToken(lines[j]) {
				i = j - 1
				continue
			}
		}
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}

// Pending returns the tokens still present in a text.
func Pending(text string, items Items) []string {
	var result []string
	for _, item := range items {
		if item.Token != "" && strings.Contains(text, item.Token) {
			result = append(result, item.Token)
		}
	}
	return result
}
