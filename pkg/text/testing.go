package text

import "strings"

// UnescapeTestContent supports content using a special character instead of backticks.
//
// Multiline strings in Golang cannot contain backticks but expected Markdown outputs often do.
// The ” and ‛ characters are replaced by a backtick.
//
// Example: ”code” will become `code`
func UnescapeTestContent(content string) string {
	result := strings.ReplaceAll(content, "”", "`")
	return strings.ReplaceAll(result, "‛", "`")
}
