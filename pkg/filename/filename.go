// Package filename turns arbitrary titles into names safe on every common filesystem.
package filename

import (
	"math/rand"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxLength is the maximal length of a single path part.
const DefaultMaxLength = 64

// MaxExtensionLength is the maximal length kept for an extension (dot included) when a name is truncated.
const MaxExtensionLength = 8

// RandomNameLength is the length of names generated for empty titles.
const RandomNameLength = 6

var (
	reForbidden = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f\x7f]`)
	reDashes    = regexp.MustCompile(`[\s-]+`)
	reReserved  = regexp.MustCompile(`(?i)^(con|prn|aux|nul|com[1-9]|lpt[1-9])$`)
	reExtension = regexp.MustCompile(`^\.[A-Za-z0-9]+$`)

	separators = strings.NewReplacer("/", "-", "\\", "-")

	// Remove every non-ASCII code point after the NFKD decomposition (accents become combining marks first).
	asciiOnly = runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	}))
)

var (
	randomMu sync.Mutex
	random   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomName returns a random lowercase alphabetic string of the given length.
func RandomName(length int) string {
	randomMu.Lock()
	defer randomMu.Unlock()
	var sb strings.Builder
	for i := 0; i < length; i++ {
		sb.WriteByte(byte('a' + random.Intn(26)))
	}
	return sb.String()
}

// CleanName cleans a file name. The extension, if any, is preserved when the name must be truncated.
func CleanName(raw string, maxLength int, allowUnicode bool) string {
	return clean(raw, maxLength, allowUnicode, true)
}

// CleanDirName cleans a directory name. The whole name is truncated when too long.
func CleanDirName(raw string, maxLength int, allowUnicode bool) string {
	return clean(raw, maxLength, allowUnicode, false)
}

// CleanPath cleans every part of a slash-separated relative path.
// The last part is considered as a file name.
func CleanPath(raw string, maxLength int, allowUnicode bool) string {
	parts := strings.Split(filepath.ToSlash(raw), "/")
	var result []string
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == len(parts)-1 {
			result = append(result, CleanName(part, maxLength, allowUnicode))
		} else {
			result = append(result, CleanDirName(part, maxLength, allowUnicode))
		}
	}
	return filepath.Join(result...)
}

func clean(raw string, maxLength int, allowUnicode bool, file bool) string {
	if maxLength < 1 {
		maxLength = DefaultMaxLength
	}

	s := raw
	if decoded, err := url.PathUnescape(s); err == nil {
		s = decoded
	}
	s = separators.Replace(s)
	s = normalize(s, allowUnicode)
	s = reForbidden.ReplaceAllString(s, "")
	s = reDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-_.")
	if s == "" {
		s = RandomName(min(RandomNameLength, maxLength))
	}

	stem, ext := s, ""
	if file {
		ext = filepath.Ext(s)
		stem = strings.TrimSuffix(s, ext)
		if strings.Trim(stem, "-_.") == "" || !reExtension.MatchString(ext) {
			stem, ext = s, ""
		}
	}

	if runeCount(stem)+runeCount(ext) > maxLength {
		if ext != "" {
			ext = truncate(ext, MaxExtensionLength)
			if runeCount(ext) >= maxLength {
				ext = ""
			}
		}
		room := maxLength - runeCount(ext)
		stem = strings.TrimRight(truncate(stem, room), "-_.")
		if stem == "" {
			stem = RandomName(min(RandomNameLength, room))
		}
	}

	// Device names are checked last as truncation may produce one.
	// A shorter stem is never reserved when the prefix does not fit.
	if reReserved.MatchString(stem) {
		room := maxLength - runeCount(ext)
		if runeCount(stem) < room {
			stem = "_" + stem
		} else {
			stem = truncate(stem, room-1)
		}
	}
	return stem + ext
}

func normalize(s string, allowUnicode bool) string {
	if allowUnicode {
		return norm.NFKC.String(s)
	}
	result, _, err := transform.String(transform.Chain(norm.NFKD, asciiOnly), s)
	if err != nil {
		return ""
	}
	return result
}

func runeCount(s string) int {
	return utf8.RuneCountInString(s)
}

func truncate(s string, length int) string {
	if length <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length])
}
