package markup

import (
	"fmt"
	"html"
	"net/url"
	"path"
	"strings"
)

// Embeddable lists the extensions (lowercase, without dot) rendered inline instead of as links.
type Embeddable struct {
	Documents []string `toml:"documents" yaml:"documents"`
	Images    []string `toml:"images" yaml:"images"`
	Audio     []string `toml:"audio" yaml:"audio"`
	Video     []string `toml:"video" yaml:"video"`
}

// Category of an embeddable file.
type Category string

const (
	CategoryNone     Category = ""
	CategoryDocument Category = "document"
	CategoryImage    Category = "image"
	CategoryAudio    Category = "audio"
	CategoryVideo    Category = "video"
)

// DefaultEmbeddable returns the extensions embedded by default.
func DefaultEmbeddable() Embeddable {
	return Embeddable{
		Documents: []string{"pdf"},
		Images:    []string{"png", "jpg", "jpeg", "gif", "bmp", "svg", "webp", "avif"},
		Audio:     []string{"mp3", "wav", "m4a", "ogg", "flac", "webm"},
		Video:     []string{"mp4", "mov", "mkv", "ogv"},
	}
}

// CategoryOf returns the category of a file path based on its extension.
func (e Embeddable) CategoryOf(filePath string) Category {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filePath)), ".")
	if ext == "" {
		return CategoryNone
	}
	switch {
	case contains(e.Images, ext):
		return CategoryImage
	case contains(e.Video, ext):
		return CategoryVideo
	case contains(e.Audio, ext):
		return CategoryAudio
	case contains(e.Documents, ext):
		return CategoryDocument
	}
	return CategoryNone
}

func contains(extensions []string, ext string) bool {
	for _, candidate := range extensions {
		if strings.TrimPrefix(strings.ToLower(candidate), ".") == ext {
			return true
		}
	}
	return false
}

// Destination escapes a relative path to be used as a link destination.
func Destination(target string) string {
	if strings.Contains(target, "://") || strings.HasPrefix(target, "mailto:") || strings.HasPrefix(target, "#") {
		return strings.NewReplacer(" ", "%20", "(", "%28", ")", "%29").Replace(target)
	}
	target = strings.ReplaceAll(target, "\\", "/")
	parts := strings.Split(target, "/")
	for i, part := range parts {
		parts[i] = strings.NewReplacer("(", "%28", ")", "%29").Replace(url.PathEscape(part))
	}
	return strings.Join(parts, "/")
}

// Link returns a Markdown link.
func Link(text, target string) string {
	return "[" + EscapeLinkText(text) + "](" + Destination(target) + ")"
}

// LinkStructured returns an HTML link. The content is expected to be already escaped.
func LinkStructured(content, target string) string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(Destination(target)), content)
}

// ImageLightweight renders an image reference.
//
// A width or a height selects the dialect-specific form carrying the dimensions, an embeddable extension selects
// the embed marker, anything else becomes a plain link.
func ImageLightweight(d Dialect, alt, target string, width, height int, embeddable bool) string {
	if width > 0 || height > 0 {
		switch d {
		case Obsidian:
			// Obsidian cannot express a height without a width
			if width <= 0 {
				return "![" + EscapeLinkText(alt) + "](" + Destination(target) + ")"
			}
			size := fmt.Sprintf("%d", width)
			if height > 0 {
				size += fmt.Sprintf("x%d", height)
			}
			return "![" + EscapeLinkText(alt) + "|" + size + "](" + Destination(target) + ")"
		case PandocMarkdown:
			var attributes []string
			if width > 0 {
				attributes = append(attributes, fmt.Sprintf("width=%dpx", width))
			}
			if height > 0 {
				attributes = append(attributes, fmt.Sprintf("height=%dpx", height))
			}
			return "![" + EscapeLinkText(alt) + "](" + Destination(target) + "){" + strings.Join(attributes, " ") + "}"
		default:
			return ImageTag(alt, target, width, height)
		}
	}
	if embeddable {
		return "![" + EscapeLinkText(alt) + "](" + Destination(target) + ")"
	}
	text := alt
	if text == "" {
		text = path.Base(strings.ReplaceAll(target, "\\", "/"))
	}
	return Link(text, target)
}

// ImageTag returns an HTML image tag.
func ImageTag(alt, target string, width, height int) string {
	var sb strings.Builder
	sb.WriteString(`<img src="`)
	sb.WriteString(html.EscapeString(Destination(target)))
	sb.WriteString(`" alt="`)
	sb.WriteString(html.EscapeString(alt))
	sb.WriteString(`"`)
	if width > 0 {
		fmt.Fprintf(&sb, ` width="%d"`, width)
	}
	if height > 0 {
		fmt.Fprintf(&sb, ` height="%d"`, height)
	}
	sb.WriteString(" />")
	return sb.String()
}

// EmbedStructured renders a file in HTML according to its category.
func EmbedStructured(category Category, text, target string, width, height int) string {
	if width > 0 || height > 0 {
		return ImageTag(text, target, width, height)
	}
	src := html.EscapeString(Destination(target))
	switch category {
	case CategoryImage:
		return ImageTag(text, target, 0, 0)
	case CategoryAudio:
		return fmt.Sprintf(`<audio controls="controls" src="%s"></audio>`, src)
	case CategoryVideo:
		return fmt.Sprintf(`<video controls="controls" src="%s"></video>`, src)
	case CategoryDocument:
		return fmt.Sprintf(`<embed src="%s" />`, src)
	}
	if text == "" {
		text = path.Base(strings.ReplaceAll(target, "\\", "/"))
	}
	return LinkStructured(html.EscapeString(text), target)
}

// UnresolvedLink renders a mention that could not be linked.
func UnresolvedLink(text string) string {
	return EscapeText(text) + " [unable to link]"
}

// UnresolvedLinkStructured renders a mention that could not be linked in HTML.
func UnresolvedLinkStructured(text string) string {
	return `<span class="unresolved-link">` + html.EscapeString(text) + ` [unable to link]</span>`
}
