package core_test

import (
	"testing"
	"time"

	"github.com/julien-sobczak/nimbus2md/internal/converter"
	"github.com/julien-sobczak/nimbus2md/internal/core"
	"github.com/julien-sobczak/nimbus2md/internal/markdown"
	"github.com/julien-sobczak/nimbus2md/internal/markup"
	"github.com/julien-sobczak/nimbus2md/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	settings := core.NewSettings()
	require.NoError(t, settings.Validate())

	assert.Equal(t, markup.GFM, settings.Dialect())
	assert.Equal(t, markdown.FrontMatterYAML, settings.FrontMatter())
	assert.Equal(t, converter.Native, settings.ConverterKind())
	assert.Equal(t, 30*time.Second, settings.Timeout())
	assert.Equal(t, "attachments", settings.AttachmentFolderName)
	assert.Equal(t, markup.DefaultEmbeddable(), settings.Embeddable)
	assert.True(t, settings.FirstRowAsHeader)
	assert.True(t, settings.WorkspaceDirectories)
}

func TestReadSettingsFromFile(t *testing.T) {
	t.Setenv("TEST_SECRET", "s3cr3t")

	t.Run("TOML", func(t *testing.T) {
		path := testutil.SetUpFromFileContent(t, "settings.toml", `
export_format = "obsidian"
keep_checklist_as_html = true

[remote]
type = "s3"
secret_key = "${TEST_SECRET}"
`)
		settings, err := core.ReadSettingsFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, markup.Obsidian, settings.Dialect())
		assert.True(t, settings.KeepChecklistAsHTML)
		assert.Equal(t, "s3cr3t", settings.Remote.SecretKey)
		// Defaults are kept
		assert.Equal(t, "attachments", settings.AttachmentFolderName)
	})

	t.Run("YAML", func(t *testing.T) {
		path := testutil.SetUpFromFileContent(t, "settings.yaml", `
export_format: html
front_matter_format: toml
parallel: 8
`)
		settings, err := core.ReadSettingsFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, markup.HTML, settings.Dialect())
		assert.Equal(t, markdown.FrontMatterTOML, settings.FrontMatter())
		assert.Equal(t, 8, settings.Parallel)
	})

	t.Run("Invalid", func(t *testing.T) {
		path := testutil.SetUpFromFileContent(t, "settings.toml", `export_format = "docx"`)
		_, err := core.ReadSettingsFromFile(path)
		assert.ErrorContains(t, err, "unknown export format")
	})

	t.Run("Unknown field", func(t *testing.T) {
		path := testutil.SetUpFromFileContent(t, "settings.toml", `colour = "blue"`)
		_, err := core.ReadSettingsFromFile(path)
		assert.Error(t, err)
	})
}

func TestSettingsValidate(t *testing.T) {
	var tests = []struct {
		name   string
		update func(s *core.Settings)
	}{
		{"front matter", func(s *core.Settings) { s.FrontMatterFormat = "xml" }},
		{"converter", func(s *core.Settings) { s.Converter = "word" }},
		{"timeout", func(s *core.Settings) { s.ConverterTimeout = "soon" }},
		{"attachment folder", func(s *core.Settings) { s.AttachmentFolderName = "" }},
		{"name length", func(s *core.Settings) { s.MaxNameLength = 4 }},
		{"remote", func(s *core.Settings) { s.Remote.Type = "ftp" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := core.NewSettings()
			tt.update(settings)
			assert.Error(t, settings.Validate())
		})
	}
}

func TestSettingsClone(t *testing.T) {
	settings := core.NewSettings()
	clone := settings.Clone()
	clone.Embeddable.Images[0] = "tiff"
	clone.ExportFormat = "html"

	assert.Equal(t, "png", settings.Embeddable.Images[0])
	assert.Equal(t, "gfm", settings.ExportFormat)
}

func TestSettingsTOML(t *testing.T) {
	text, err := core.NewSettings().TOML()
	require.NoError(t, err)
	assert.Contains(t, text, "export_format = 'gfm'")
}
