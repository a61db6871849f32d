package markdown

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FrontMatterFormat is the syntax used to write note attributes at the top of a document.
type FrontMatterFormat string

const (
	FrontMatterYAML FrontMatterFormat = "yaml"
	FrontMatterTOML FrontMatterFormat = "toml"
	FrontMatterJSON FrontMatterFormat = "json"
	FrontMatterText FrontMatterFormat = "text"
	FrontMatterNone FrontMatterFormat = "none"
)

var FrontMatterFormats = []FrontMatterFormat{
	FrontMatterYAML,
	FrontMatterTOML,
	FrontMatterJSON,
	FrontMatterText,
	FrontMatterNone,
}

func ParseFrontMatterFormat(s string) (FrontMatterFormat, error) {
	value := FrontMatterFormat(strings.ToLower(strings.TrimSpace(s)))
	for _, format := range FrontMatterFormats {
		if format == value {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown front matter format %q", s)
}

// Field is a single attribute. Values are strings, string slices, numbers or booleans.
type Field struct {
	Key   string
	Value any
}

// FrontMatter is an ordered list of attributes.
type FrontMatter []Field

// Get returns the value of an attribute.
func (f FrontMatter) Get(key string) (any, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return nil, false
}

// Render formats the attributes in the given format, delimiters included.
func (f FrontMatter) Render(format FrontMatterFormat) (string, error) {
	if len(f) == 0 {
		return "", nil
	}
	switch format {
	case FrontMatterYAML:
		return f.AsYAML()
	case FrontMatterTOML:
		return f.AsTOML()
	case FrontMatterJSON:
		return f.AsJSON()
	case FrontMatterText:
		return f.AsText(), nil
	}
	return "", nil
}

// AsYAML formats the attributes between --- delimiters, preserving their order.
func (f FrontMatter) AsYAML() (string, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode}
	for _, field := range f {
		var value yaml.Node
		if err := value.Encode(field.Value); err != nil {
			return "", fmt.Errorf("invalid front matter attribute %q: %w", field.Key, err)
		}
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: field.Key},
			&value,
		)
	}
	document := &yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{mapping},
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(Indent)
	if err := encoder.Encode(document); err != nil {
		return "", err
	}
	if err := encoder.Close(); err != nil {
		return "", err
	}
	return "---\n" + CompactYAML(buf.String()) + "---", nil
}

// AsTOML formats the attributes between +++ delimiters, preserving their order.
func (f FrontMatter) AsTOML() (string, error) {
	var sb strings.Builder
	sb.WriteString("+++\n")
	for _, field := range f {
		line, err := toml.Marshal(map[string]any{field.Key: field.Value})
		if err != nil {
			return "", fmt.Errorf("invalid front matter attribute %q: %w", field.Key, err)
		}
		sb.Write(line)
	}
	sb.WriteString("+++")
	return sb.String(), nil
}

// AsJSON formats the attributes as a JSON object, preserving their order.
func (f FrontMatter) AsJSON() (string, error) {
	var lines []string
	for _, field := range f {
		key, err := json.Marshal(field.Key)
		if err != nil {
			return "", err
		}
		value, err := json.Marshal(field.Value)
		if err != nil {
			return "", fmt.Errorf("invalid front matter attribute %q: %w", field.Key, err)
		}
		lines = append(lines, "  "+string(key)+": "+string(value))
	}
	return "{\n" + strings.Join(lines, ",\n") + "\n}", nil
}

// AsText formats the attributes as "key: value" lines.
func (f FrontMatter) AsText() string {
	var lines []string
	for _, field := range f {
		lines = append(lines, field.Key+": "+plain(field.Value))
	}
	return strings.Join(lines, "\n")
}

// AsHTMLMeta formats the attributes as HTML meta tags.
func (f FrontMatter) AsHTMLMeta() string {
	var lines []string
	for _, field := range f {
		lines = append(lines, fmt.Sprintf(`<meta name="%s" content="%s" />`, html.EscapeString(field.Key), html.EscapeString(plain(field.Value))))
	}
	return strings.Join(lines, "\n")
}

func plain(value any) string {
	switch v := value.(type) {
	case []string:
		return strings.Join(v, ", ")
	case nil:
		return ""
	}
	return fmt.Sprintf("%v", value)
}
