// Package converter transforms a document between markup formats.
//
// Formats are named like pandoc does: html, gfm, commonmark, markdown, markdown_strict, markdown_mmd.
package converter

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExecutableNotFound is fatal for the whole run.
	ErrExecutableNotFound = errors.New("converter executable not found")
	// ErrTimeout is reported when a single conversion takes too long.
	ErrTimeout = errors.New("conversion timed out")
	// ErrUnsupportedConversion is reported for a pair of formats the converter cannot handle.
	ErrUnsupportedConversion = errors.New("unsupported conversion")
)

// Converter converts a text from a format to another.
type Converter interface {
	Name() string
	OnPreConversion(fn func(cmd string, args ...string))
	Convert(ctx context.Context, input, from, to string) (string, error)
}

// Kind selects a converter.
type Kind string

const (
	// Native renders Markdown directly from the content tree without converter.
	Native  Kind = "native"
	Builtin Kind = "builtin"
	Pandoc  Kind = "pandoc"
)

// Kinds lists the supported converters.
var Kinds = []Kind{Native, Builtin, Pandoc}

// ParseKind returns the converter kind of a setting value.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown converter %q", s)
}

// IsMarkdown returns if the format is a Markdown flavor.
func IsMarkdown(format string) bool {
	switch format {
	case "gfm", "commonmark", "commonmark_x", "markdown", "markdown_strict", "markdown_mmd", "markdown_phpextra":
		return true
	}
	return false
}

type listeners []func(cmd string, args ...string)

func (l listeners) notify(cmd string, args ...string) {
	for _, fn := range l {
		fn(cmd, args...)
	}
}
