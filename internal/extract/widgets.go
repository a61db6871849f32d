package extract

import (
	"fmt"
	"html"
	"net/url"
	"path"
	"regexp"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/julien-sobczak/nimbus2md/internal/content"
	"github.com/julien-sobczak/nimbus2md/internal/markup"
)

// Placeholder kinds
const (
	KindIframe = "iframe"
	KindChart  = "chart"
)

var reScheme = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]+:`)

// Links to the web application: /ws/<workspace>/(note|folder)/<id>
var reAppLink = regexp.MustCompile(`/ws/([^/?#]+)/(note|folder)/([^/?#]+)`)

func isWidget(n *nethtml.Node) bool {
	if n.Type != nethtml.ElementNode {
		return false
	}
	return n.DataAtom == atom.Iframe || isChart(n)
}

func isChart(n *nethtml.Node) bool {
	return hasAttr(n, "data-chart") || strings.EqualFold(attr(n, "data-type"), "chart") || hasClass(n, "nimbus-chart")
}

// widget replaces embedded content by a placeholder holding its final rendering.
func (e *extractor) widget(n *nethtml.Node) *content.Placeholder {
	if isChart(n) {
		return e.chart(n)
	}
	return e.iframe(n)
}

func (e *extractor) iframe(n *nethtml.Node) *content.Placeholder {
	src := attr(n, "src")
	if src == "" {
		src = attr(n, "data-src")
	}
	if src == "" {
		e.warnf("missing attribute src on iframe")
	}
	title := strings.TrimSpace(attr(n, "title"))
	if title == "" {
		title = "Embedded content"
	}

	var value string
	switch {
	case src == "":
		value = ""
	case e.opts.Dialect.IsLightweight():
		value = markup.Link(title, src)
	default:
		value = fmt.Sprintf(`<iframe src="%s" title="%s"`, html.EscapeString(src), html.EscapeString(title))
		if width := parseDimension(attr(n, "width")); width > 0 {
			value += fmt.Sprintf(` width="%d"`, width)
		}
		if height := parseDimension(attr(n, "height")); height > 0 {
			value += fmt.Sprintf(` height="%d"`, height)
		}
		value += "></iframe>"
	}
	return &content.Placeholder{
		Token: e.opts.Placeholders.Put(KindIframe, value),
		Block: true,
	}
}

func (e *extractor) chart(n *nethtml.Node) *content.Placeholder {
	data := attr(n, "data-chart")
	if data == "" {
		data = strings.TrimSpace(textContent(n))
	}
	var value string
	if e.opts.Dialect.IsLightweight() {
		value = markup.CodeBlockLightweight("json", data)
	} else {
		value = markup.CodeBlockStructured("json", data)
	}
	if title := strings.TrimSpace(attr(n, "data-title")); title != "" {
		if e.opts.Dialect.IsLightweight() {
			value = markup.Emphasis(e.opts.Dialect, markup.Bold, markup.EscapeText(title)) + "\n\n" + value
		} else {
			value = "<p><strong>" + html.EscapeString(title) + "</strong></p>\n" + value
		}
	}
	return &content.Placeholder{
		Token: e.opts.Placeholders.Put(KindChart, value),
		Block: true,
	}
}

/* Images */

func (e *extractor) image(n *nethtml.Node) *content.Image {
	image := &content.Image{
		Alt:    attr(n, "alt"),
		Width:  parseDimension(attr(n, "width")),
		Height: parseDimension(attr(n, "height")),
	}
	if image.Width == 0 {
		image.Width = parseDimension(styleProperty(n, "width"))
	}
	if image.Height == 0 {
		image.Height = parseDimension(styleProperty(n, "height"))
	}

	src := attr(n, "src")
	if isPlaceholderSource(src) {
		// The visible source is a placeholder, the real one is kept aside
		if reference := attr(n, "data-src"); reference != "" {
			src = reference
		}
	}
	if src == "" {
		e.warnf("missing attribute src on img")
		return image
	}
	if strings.HasPrefix(src, "data:") {
		e.warnf("ignoring inline image data %q", truncate(src, 32))
		return image
	}
	image.Link = attachmentLink(src)
	return image
}

func isPlaceholderSource(src string) bool {
	return src == "" || strings.HasPrefix(src, "data:") || strings.HasPrefix(src, "blob:") || src == "about:blank"
}

// attachmentLink returns the link of a resource. Remote resources have no source path.
func attachmentLink(src string) *content.AttachmentLink {
	if isRemote(src) {
		return &content.AttachmentLink{TargetPath: src}
	}
	if decoded, err := url.PathUnescape(src); err == nil {
		src = decoded
	}
	src = strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(src, "\\", "/")), "/")
	return &content.AttachmentLink{SourcePath: src}
}

func isRemote(target string) bool {
	return reScheme.MatchString(target) || strings.HasPrefix(target, "//")
}

/* Links */

func (e *extractor) anchor(n *nethtml.Node) []content.Node {
	if mention := e.mention(n); mention != nil {
		return []content.Node{mention}
	}

	children := trimInlines(e.inlineChildren(n))
	href := strings.TrimSpace(attr(n, "href"))
	if href == "" {
		return children
	}

	if match := reAppLink.FindStringSubmatch(href); match != nil {
		target := content.MentionNote
		if match[2] == "folder" {
			target = content.MentionFolder
		}
		return []content.Node{&content.Mention{
			Target:      target,
			Identifier:  match[3],
			WorkspaceID: match[1],
			Text:        strings.TrimSpace(content.PlainText(children...)),
		}}
	}

	if isRemote(href) || strings.HasPrefix(href, "#") {
		return []content.Node{&content.Hyperlink{Target: href, Children: children}}
	}

	// Relative links point to attachments of the note
	link := attachmentLink(href)
	if len(children) == 1 {
		if image, ok := children[0].(*content.Image); ok && image.Link != nil && image.Link.SourcePath == link.SourcePath {
			return children
		}
	}
	display := strings.TrimSpace(content.PlainText(children...))
	if display == "" {
		display = path.Base(link.SourcePath)
	}
	return []content.Node{&content.FileAttachment{Display: display, Link: link}}
}

/* Mentions */

var mentionTargets = map[string]content.MentionTarget{
	"note":      content.MentionNote,
	"folder":    content.MentionFolder,
	"workspace": content.MentionWorkspace,
	"user":      content.MentionUser,
}

func (e *extractor) mention(n *nethtml.Node) *content.Mention {
	kind := strings.ToLower(attr(n, "data-mention-type"))
	if kind == "" {
		if !hasClass(n, "mention") {
			return nil
		}
		kind = "note"
	}
	target, ok := mentionTargets[kind]
	if !ok {
		e.warnf("unknown mention type %q", kind)
		target = content.MentionNote
	}
	identifier := attr(n, "data-mention-id")
	if identifier == "" {
		identifier = attr(n, "data-id")
	}
	if identifier == "" {
		e.warnf("missing attribute data-mention-id on mention")
	}
	text := strings.TrimSpace(reWhitespaces.ReplaceAllString(textContent(n), " "))
	text = strings.TrimPrefix(text, "@")
	return &content.Mention{
		Target:      target,
		Identifier:  identifier,
		WorkspaceID: attr(n, "data-workspace-id"),
		Text:        text,
	}
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length] + "..."
}
