package converter

import (
	"context"
	"fmt"
	"strings"

	htmlconverter "github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/julien-sobczak/nimbus2md/pkg/markdown"
)

// BuiltinConverter converts in-process without external executable.
// HTML to Markdown uses html-to-markdown. Markdown to HTML uses gomarkdown.
type BuiltinConverter struct {
	strict    *htmlconverter.Converter
	extended  *htmlconverter.Converter
	listeners listeners
}

func NewBuiltinConverter() *BuiltinConverter {
	return &BuiltinConverter{
		strict: htmlconverter.NewConverter(
			htmlconverter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(
					commonmark.WithBulletListMarker("-"),
				),
			),
		),
		extended: htmlconverter.NewConverter(
			htmlconverter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(
					commonmark.WithBulletListMarker("-"),
				),
				strikethrough.NewStrikethroughPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

func (c *BuiltinConverter) Name() string {
	return string(Builtin)
}

func (c *BuiltinConverter) OnPreConversion(fn func(cmd string, args ...string)) {
	c.listeners = append(c.listeners, fn)
}

func (c *BuiltinConverter) Convert(ctx context.Context, input, from, to string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.listeners.notify(c.Name(), "--from", from, "--to", to)

	switch {
	case from == to:
		return input, nil
	case from == "html" && IsMarkdown(to):
		conv := c.extended
		if to == "commonmark" || to == "markdown_strict" {
			conv = c.strict
		}
		result, err := conv.ConvertString(input)
		if err != nil {
			return "", fmt.Errorf("unable to convert HTML to %s: %w", to, err)
		}
		return strings.TrimSpace(result) + "\n", nil
	case IsMarkdown(from) && to == "html":
		if from == "commonmark" || from == "markdown_strict" {
			return markdown.ToStrictHTML(input) + "\n", nil
		}
		return markdown.ToHTML(input) + "\n", nil
	}
	return "", fmt.Errorf("%w: %s -> %s", ErrUnsupportedConversion, from, to)
}
