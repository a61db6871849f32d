package content_test

import (
	"strings"
	"testing"

	"github.com/julien-sobczak/nimbus2md/internal/content"
	"github.com/julien-sobczak/nimbus2md/internal/markdown"
	"github.com/julien-sobczak/nimbus2md/internal/markup"
	"github.com/julien-sobczak/nimbus2md/pkg/placeholder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txt(value string) []content.Node {
	return []content.Node{content.NewText(value)}
}

func optionsFor(d markup.Dialect) content.Options {
	opts := content.DefaultOptions()
	opts.Dialect = d
	return opts
}

func attachment(target string) *content.AttachmentLink {
	return &content.AttachmentLink{SourcePath: "assets/" + target, TargetPath: target}
}

func TestEndToEndGFM(t *testing.T) {
	body := content.NewBody("Groceries", nil,
		&content.ChecklistItem{Indent: 0, Checked: true, Children: txt("item1")},
		&content.ChecklistItem{Indent: 0, Checked: false, Children: txt("item2")},
		&content.Paragraph{Children: txt("Then:")},
		&content.BulletItem{Indent: 0, Children: txt("a")},
		&content.BulletItem{Indent: 1, Children: txt("b")},
		&content.BulletItem{Indent: 0, Children: txt("c")},
		&content.Paragraph{Children: []content.Node{
			&content.Image{Width: 600, Link: attachment("target.png")},
		}},
	)

	actual := body.RenderLightweight(optionsFor(markup.GFM))
	expected := strings.Join([]string{
		"- [x] item1",
		"- [ ] item2",
		"",
		"Then:",
		"",
		"- a",
		"\t- b",
		"- c",
		"",
		`<img src="target.png" alt="" width="600" />`,
	}, "\n")
	assert.Equal(t, expected, actual)
}

func TestNumberedItems(t *testing.T) {
	var nodes []content.Node
	for i, indent := range []int{0, 0, 1, 1, 0} {
		nodes = append(nodes, &content.NumberedItem{Indent: indent, Children: txt(string(rune('a' + i)))})
	}
	body := content.NewBody("", nil, nodes...)
	assert.Equal(t, "1. a\n2. b\n\t1. c\n\t2. d\n3. e", body.RenderLightweight(content.DefaultOptions()))
	assert.Equal(t,
		"<ol><li>a</li><li>b<ol><li>c</li><li>d</li></ol></li><li>e</li></ol>",
		body.RenderStructured(content.Options{Dialect: markup.HTML, Intermediate: true}))
}

func TestLeadingNumberEscape(t *testing.T) {
	opts := content.DefaultOptions()
	assert.Equal(t, `1989\. was a good year`, (&content.Paragraph{Children: txt("1989. was a good year")}).RenderLightweight(opts))
	assert.Equal(t, "1989 was a good year", (&content.Paragraph{Children: txt("1989 was a good year")}).RenderLightweight(opts))
	assert.Equal(t, `- 1989\. was a good year`, (&content.BulletItem{Children: txt("1989. was a good year")}).RenderLightweight(opts))
}

func TestLeadingBlockEscape(t *testing.T) {
	opts := content.DefaultOptions()
	assert.Equal(t, `\# not a heading`, (&content.Paragraph{Children: txt("# not a heading")}).RenderLightweight(opts))
	assert.Equal(t, `\- not a list`, (&content.Paragraph{Children: txt("- not a list")}).RenderLightweight(opts))
	assert.Equal(t, `\> not a quote`, (&content.Paragraph{Children: txt("> not a quote")}).RenderLightweight(opts))
	assert.Equal(t, `- \+ not nested`, (&content.BulletItem{Children: txt("+ not nested")}).RenderLightweight(opts))

	paragraph := &content.Paragraph{Children: []content.Node{content.NewText("a"), &content.LineBreak{}, content.NewText("# b")}}
	assert.Equal(t, "a\\\n\\# b", paragraph.RenderLightweight(optionsFor(markup.GFM)))
	assert.Equal(t, "<p># not a heading</p>", (&content.Paragraph{Children: txt("# not a heading")}).RenderStructured(opts))
}

func TestHeadings(t *testing.T) {
	heading := &content.Heading{Level: 2, ID: "sec_1", Children: txt("1.2 Intro")}

	var tests = []struct {
		dialect     markup.Dialect
		lightweight string
		structured  string
	}{
		{markup.GFM, "## 1.2 Intro", `<h2 id="12-intro">1.2 Intro</h2>`},
		{markup.Obsidian, "## 1.2 Intro ^sec1", `<h2 id="sec1">1.2 Intro</h2>`},
		{markup.PandocMarkdownStrict, "## 1.2 Intro (#sec1)", `<h2 id="sec1">1.2 Intro</h2>`},
		{markup.QOwnNotes, "## 1.2 Intro (#sec1)", `<h2 id="sec1">1.2 Intro</h2>`},
		{markup.MultiMarkdown, "## 1.2 Intro [#sec1]", `<h2 id="sec1">1.2 Intro</h2>`},
		{markup.CommonMark, "## 1.2 Intro", `<h2 id="sec1">1.2 Intro</h2>`},
	}
	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			opts := optionsFor(tt.dialect)
			assert.Equal(t, tt.lightweight, heading.RenderLightweight(opts))
			assert.Equal(t, tt.structured, heading.RenderStructured(opts))
		})
	}
}

func TestImages(t *testing.T) {
	var tests = []struct {
		name     string
		dialect  markup.Dialect
		image    *content.Image
		expected string
	}{
		{
			name:     "obsidian width only",
			dialect:  markup.Obsidian,
			image:    &content.Image{Alt: "alt", Width: 600, Link: attachment("path.png")},
			expected: "![alt|600](path.png)",
		},
		{
			name:     "obsidian width and height",
			dialect:  markup.Obsidian,
			image:    &content.Image{Alt: "alt", Width: 600, Height: 300, Link: attachment("path.png")},
			expected: "![alt|600x300](path.png)",
		},
		{
			name:     "obsidian height only",
			dialect:  markup.Obsidian,
			image:    &content.Image{Alt: "alt", Height: 300, Link: attachment("path.png")},
			expected: "![alt](path.png)",
		},
		{
			name:     "pandoc attributes",
			dialect:  markup.PandocMarkdown,
			image:    &content.Image{Alt: "alt", Width: 600, Link: attachment("path.png")},
			expected: "![alt](path.png){width=600px}",
		},
		{
			name:     "embeddable",
			dialect:  markup.GFM,
			image:    &content.Image{Alt: "alt", Link: attachment("my image.png")},
			expected: "![alt](my%20image.png)",
		},
		{
			name:     "not embeddable",
			dialect:  markup.GFM,
			image:    &content.Image{Alt: "", Link: attachment("scan.tiff")},
			expected: "[scan.tiff](scan.tiff)",
		},
		{
			name:     "missing link",
			dialect:  markup.GFM,
			image:    &content.Image{Alt: "lost"},
			expected: "lost",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.image.RenderLightweight(optionsFor(tt.dialect)))
		})
	}
}

func TestFileAttachments(t *testing.T) {
	opts := content.DefaultOptions()

	doc := &content.FileAttachment{Display: "Report", Link: attachment("report.pdf")}
	assert.Equal(t, "![Report](report.pdf)", doc.RenderLightweight(opts))
	assert.Equal(t, `<embed src="report.pdf" />`, doc.RenderStructured(opts))

	archive := &content.FileAttachment{Display: "Backup", Link: attachment("backup.zip")}
	assert.Equal(t, "[Backup](backup.zip)", archive.RenderLightweight(opts))
	assert.Equal(t, `<a href="backup.zip">Backup</a>`, archive.RenderStructured(opts))

	song := &content.FileAttachment{Display: "Song", Link: attachment("song.mp3")}
	assert.Equal(t, `<audio controls="controls" src="song.mp3"></audio>`, song.RenderStructured(opts))
}

func TestMentions(t *testing.T) {
	opts := content.DefaultOptions()

	unresolved := &content.Mention{Target: content.MentionNote, Identifier: "n1", Text: "Todo"}
	assert.Equal(t, "Todo [unable to link]", unresolved.RenderLightweight(opts))
	assert.Equal(t, `<span class="unresolved-link">Todo [unable to link]</span>`, unresolved.RenderStructured(opts))

	resolved := &content.Mention{Target: content.MentionNote, Identifier: "n1", Text: "Todo", Resolved: []string{"Todo.md", "../Old notes/Todo.md"}}
	assert.Equal(t, "[Todo](Todo.md) [Todo](../Old%20notes/Todo.md)", resolved.RenderLightweight(opts))
	assert.Equal(t, `<a href="Todo.md">Todo</a> <a href="../Old%20notes/Todo.md">Todo</a>`, resolved.RenderStructured(opts))

	user := &content.Mention{Target: content.MentionUser, Identifier: "u1", Text: "alice"}
	assert.Equal(t, "@alice", user.RenderLightweight(opts))
}

func TestFormatted(t *testing.T) {
	var tests = []struct {
		dialect  markup.Dialect
		node     content.Node
		expected string
	}{
		{markup.GFM, &content.Formatted{Style: markup.Bold, Children: txt("bold ")}, "**bold** "},
		{markup.GFM, &content.Formatted{Style: markup.Strikethrough, Children: txt("old")}, "~~old~~"},
		{markup.CommonMark, &content.Formatted{Style: markup.Strikethrough, Children: txt("old")}, "<del>old</del>"},
		{markup.Obsidian, &content.Formatted{Style: markup.Highlight, Children: txt("key")}, "==key=="},
		{markup.GFM, &content.Formatted{Style: markup.Code, Children: txt("a*b")}, "`a*b`"},
		{markup.GFM, &content.Formatted{Style: markup.Italic, Children: []content.Node{
			&content.Formatted{Style: markup.Bold, Children: txt("both")},
		}}, "***both***"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.node.RenderLightweight(optionsFor(tt.dialect)))
	}
}

func TestLineBreaks(t *testing.T) {
	paragraph := &content.Paragraph{Children: []content.Node{content.NewText("a"), &content.LineBreak{}, content.NewText("b")}}
	assert.Equal(t, "a\\\nb", paragraph.RenderLightweight(optionsFor(markup.GFM)))
	assert.Equal(t, "a<br>\nb", paragraph.RenderLightweight(optionsFor(markup.MultiMarkdown)))
	assert.Equal(t, "<p>a<br />b</p>", paragraph.RenderStructured(optionsFor(markup.HTML)))
}

func TestTables(t *testing.T) {
	table := &content.Table{
		Header: &content.TableRow{Header: true, Cells: [][]content.Node{txt("Name"), txt("Note")}},
		Rows: []*content.TableRow{
			{Cells: [][]content.Node{txt("a|b"), {content.NewText("x"), &content.LineBreak{}, content.NewText("y")}}},
			{Cells: [][]content.Node{txt("c")}},
		},
	}
	assert.Equal(t, "|Name|Note|\n|--|--|\n|a\\|b|x<br>y|\n|c||", table.RenderLightweight(content.DefaultOptions()))
	assert.Equal(t,
		`<table border="1"><thead><tr><th>Name</th><th>Note</th></tr></thead><tbody><tr><td>a|b</td><td>x<br />y</td></tr><tr><td>c</td><td></td></tr></tbody></table>`,
		table.RenderStructured(content.DefaultOptions()))

	headless := &content.Table{
		FirstColumnHeader: true,
		Rows:              []*content.TableRow{{Cells: [][]content.Node{txt("k"), txt("v")}}},
	}
	assert.Equal(t, "|||\n|--|--|\n|k|v|", headless.RenderLightweight(content.DefaultOptions()))
	assert.Equal(t, `<table border="1"><tbody><tr><th>k</th><td>v</td></tr></tbody></table>`, headless.RenderStructured(content.DefaultOptions()))

	header := &content.TableRow{Header: true, Cells: [][]content.Node{txt("A"), txt("B"), txt("C")}}
	assert.Equal(t, "|A|B|C|\n|--|--|--|", header.RenderLightweight(content.DefaultOptions()))
	assert.Equal(t, content.KindTableHeaderRow, header.Kind())
}

func TestChecklistItemIntermediate(t *testing.T) {
	opts := content.Options{Dialect: markup.GFM, Intermediate: true}
	body := content.NewBody("", nil,
		&content.ChecklistItem{Token: "NIMBUSPHCHECKLISTA", Checked: true, Children: txt("buy milk")},
		&content.ChecklistItem{Token: "NIMBUSPHCHECKLISTB", Indent: 1},
		&content.BulletItem{Children: txt("other")},
	)
	assert.Equal(t, "<p>NIMBUSPHCHECKLISTA buy milk</p>\n<p>NIMBUSPHCHECKLISTB</p>\n<ul><li>other</li></ul>", body.RenderStructured(opts))

	// Final HTML documents keep real checkboxes
	opts.Intermediate = false
	opts.Dialect = markup.HTML
	assert.Contains(t, body.RenderStructured(opts), `<ul class="checklist"><li><input type="checkbox" checked="checked" disabled="disabled" /> buy milk`)
}

func TestChecklistAsHTML(t *testing.T) {
	opts := content.DefaultOptions()
	opts.ChecklistAsHTML = true
	item := &content.ChecklistItem{Indent: 1, Checked: true, Children: txt("done")}
	assert.Equal(t, "\t- <input type=\"checkbox\" checked=\"checked\" /> done", item.RenderLightweight(opts))
}

func TestBlockQuoteAndCode(t *testing.T) {
	quote := &content.BlockQuote{
		Citation: "Someone",
		Children: []content.Node{
			&content.Paragraph{Children: txt("First")},
			&content.Paragraph{Children: txt("Second")},
		},
	}
	assert.Equal(t, "> First\n>\n> Second\n>\n> *Someone*", quote.RenderLightweight(content.DefaultOptions()))
	assert.Equal(t, "<blockquote><p>First</p>\n<p>Second</p><footer><cite>Someone</cite></footer></blockquote>", quote.RenderStructured(content.DefaultOptions()))

	code := &content.CodeBlock{Language: "go", Text: "fmt.Println(\"<>\")\n"}
	assert.Equal(t, "```go\nfmt.Println(\"<>\")\n```", code.RenderLightweight(content.DefaultOptions()))
	assert.Equal(t, `<pre><code class="language-go">fmt.Println(&#34;&lt;&gt;&#34;)</code></pre>`, code.RenderStructured(content.DefaultOptions()))
}

func TestBodyFrontMatter(t *testing.T) {
	fm := &content.FrontMatter{
		Format: markdown.FrontMatterYAML,
		Fields: markdown.FrontMatter{{Key: "title", Value: "Groceries"}},
	}
	// A front matter among children is ignored in favor of the explicit one
	body := content.NewBody("Groceries", fm, &content.FrontMatter{}, &content.Paragraph{Children: txt("Hello")})
	require.Len(t, body.Children, 2)
	assert.Same(t, fm, body.FrontMatter())

	assert.Equal(t, "---\ntitle: Groceries\n---\n\nHello", body.RenderLightweight(content.DefaultOptions()))

	html := body.RenderStructured(optionsFor(markup.HTML))
	assert.Contains(t, html, "<title>Groceries</title>")
	assert.Contains(t, html, `<meta name="title" content="Groceries" />`)
	assert.Contains(t, html, "<body>\n<p>Hello</p>\n</body>")

	intermediate := body.RenderStructured(content.Options{Dialect: markup.GFM, Intermediate: true})
	assert.Equal(t, "<p>Hello</p>", intermediate)

	assert.Nil(t, content.NewBody("Empty", nil).FrontMatter())
}

func TestPlaceholders(t *testing.T) {
	body := content.NewBody("", nil,
		&content.Paragraph{Children: []content.Node{content.NewText("See "), &content.Placeholder{Token: "NIMBUSPHIFRAMEX"}}},
		&content.Placeholder{Token: "NIMBUSPHCHARTY", Block: true},
	)
	assert.Equal(t, "See NIMBUSPHIFRAMEX\n\nNIMBUSPHCHARTY", body.RenderLightweight(content.DefaultOptions()))
	assert.Equal(t, "<p>See NIMBUSPHIFRAMEX</p>\n<p>NIMBUSPHCHARTY</p>", body.RenderStructured(content.Options{Dialect: markup.GFM, Intermediate: true}))
}

func TestTraversal(t *testing.T) {
	mention := &content.Mention{Text: "Other"}
	image := &content.Image{Alt: "pic", Link: attachment("pic.png")}
	file := &content.FileAttachment{Display: "doc", Link: attachment("doc.pdf")}
	body := content.NewBody("", nil,
		&content.Paragraph{Children: []content.Node{content.NewText("Hi "), mention}},
		&content.Table{Rows: []*content.TableRow{{Cells: [][]content.Node{{image}, {file}}}}},
	)

	assert.Equal(t, []*content.Mention{mention}, content.Mentions(body))
	assert.Equal(t, []*content.AttachmentLink{image.Link, file.Link}, content.AttachmentLinks(body))
	assert.Equal(t, "Hi Otherpicdoc", content.PlainText(body))
	assert.Equal(t, "table", content.KindTable.String())
}

func TestSizedImageIntermediate(t *testing.T) {
	registry := placeholder.New("note")
	opts := optionsFor(markup.Obsidian)
	opts.Intermediate = true
	opts.Placeholders = registry

	sized := &content.Image{Alt: "alt", Width: 600, Link: attachment("path.png")}
	token := sized.RenderStructured(opts)
	assert.True(t, strings.HasPrefix(token, placeholder.Prefix))
	value, ok := registry.Lookup(token)
	require.True(t, ok)
	assert.Equal(t, "![alt|600](path.png)", value)

	plain := &content.Image{Alt: "alt", Link: attachment("path.png")}
	assert.NotContains(t, plain.RenderStructured(opts), placeholder.Prefix)
	assert.Equal(t, 1, registry.Len())
}
