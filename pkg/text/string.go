package text

import (
	"bufio"
	"bytes"
	"strings"
)

// SquashBlankLines replaces successive blank lines by a single empty one.
func SquashBlankLines(text string) string {
	var result bytes.Buffer
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	previousLineEmpty := false
	for scanner.Scan() {
		line := scanner.Text()
		if len(strings.TrimSpace(line)) == 0 {
			if previousLineEmpty {
				continue
			}
			previousLineEmpty = true
			line = ""
		} else {
			previousLineEmpty = false
		}
		result.WriteString(line)
		result.WriteRune('\n')
	}

	return result.String()
}

// TrimTrailingSpaces removes spaces and tabs at the end of every line.
func TrimTrailingSpaces(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

// PrefixLines adds a prefix to every line. Blank lines receive the trimmed prefix.
func PrefixLines(text string, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if IsBlank(line) {
			lines[i] = strings.TrimRight(prefix, " \t")
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// IsBlank returns if a text is blank.
func IsBlank(text string) bool {
	return len(strings.TrimSpace(text)) == 0
}
