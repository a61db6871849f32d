package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/jinzhu/copier"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/julien-sobczak/nimbus2md/internal/converter"
	"github.com/julien-sobczak/nimbus2md/internal/markdown"
	"github.com/julien-sobczak/nimbus2md/internal/markup"
)

// Default settings file content
const DefaultSettings = `
export_format = "gfm"
front_matter_format = "yaml"
first_row_as_header = true
first_column_as_header = false
keep_checklist_as_html = false
attachment_folder_name = "attachments"
converter = "native"
converter_timeout = "30s"
parallel = 4
max_name_length = 64
allow_unicode = false
workspace_directories = true

[embeddable]
documents = ["pdf"]
images = ["png", "jpg", "jpeg", "gif", "bmp", "svg", "webp", "avif"]
audio = ["mp3", "wav", "m4a", "ogg", "flac", "webm"]
video = ["mp4", "mov", "mkv", "ogv"]

[remote]
type = "fs"
`

// Note: Fields must be public for toml package to unmarshall
type Settings struct {
	ExportFormat         string            `toml:"export_format" yaml:"export_format"`
	FrontMatterFormat    string            `toml:"front_matter_format" yaml:"front_matter_format"`
	FirstRowAsHeader     bool              `toml:"first_row_as_header" yaml:"first_row_as_header"`
	FirstColumnAsHeader  bool              `toml:"first_column_as_header" yaml:"first_column_as_header"`
	KeepChecklistAsHTML  bool              `toml:"keep_checklist_as_html" yaml:"keep_checklist_as_html"`
	AttachmentFolderName string            `toml:"attachment_folder_name" yaml:"attachment_folder_name"`
	Embeddable           markup.Embeddable `toml:"embeddable" yaml:"embeddable"`
	Converter            string            `toml:"converter" yaml:"converter"`
	ConverterTimeout     string            `toml:"converter_timeout" yaml:"converter_timeout"`
	Parallel             int               `toml:"parallel" yaml:"parallel"`
	MaxNameLength        int               `toml:"max_name_length" yaml:"max_name_length"`
	AllowUnicode         bool              `toml:"allow_unicode" yaml:"allow_unicode"`
	WorkspaceDirectories bool              `toml:"workspace_directories" yaml:"workspace_directories"`
	// Filter is a jq expression evaluated against note.json. Notes producing false or nothing are skipped.
	Filter string         `toml:"filter" yaml:"filter"`
	Remote RemoteSettings `toml:"remote" yaml:"remote"`
}

type RemoteSettings struct {
	Type string `toml:"type" yaml:"type"` // fs or s3
	// fs-specific attributes
	Dir string `toml:"dir" yaml:"dir"`
	// s3-specific attributes
	Endpoint   string `toml:"endpoint" yaml:"endpoint"`
	AccessKey  string `toml:"access_key" yaml:"access_key"`
	SecretKey  string `toml:"secret_key" yaml:"secret_key"`
	BucketName string `toml:"bucket_name" yaml:"bucket_name"`
	Secure     bool   `toml:"secure" yaml:"secure"`
}

// NewSettings returns the default settings.
func NewSettings() *Settings {
	settings, err := parseSettings(DefaultSettings, "toml")
	if err != nil {
		// Must never happen
		panic(err)
	}
	return settings
}

// ReadSettingsFromFile reads a TOML or YAML file (based on the extension) on top of the default settings.
// Environment variables like ${S3_SECRET_KEY} are expanded.
func ReadSettingsFromFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}
	syntax := "toml"
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
		syntax = "yaml"
	}
	settings, err := parseSettingsOver(NewSettings(), os.ExpandEnv(string(data)), syntax)
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return settings, nil
}

func parseSettings(content string, syntax string) (*Settings, error) {
	return parseSettingsOver(&Settings{}, content, syntax)
}

func parseSettingsOver(result *Settings, content string, syntax string) (*Settings, error) {
	r := strings.NewReader(content)
	switch syntax {
	case "yaml":
		d := yaml.NewDecoder(r)
		d.KnownFields(true)
		if err := d.Decode(result); err != nil {
			return nil, err
		}
	default:
		d := toml.NewDecoder(r)
		d.DisallowUnknownFields()
		if err := d.Decode(result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Validate rejects unknown enumerated values.
func (s *Settings) Validate() error {
	err := validation.ValidateStruct(s,
		validation.Field(&s.ExportFormat, validation.Required, validation.By(func(value any) error {
			_, err := markup.ParseDialect(value.(string))
			return err
		})),
		validation.Field(&s.FrontMatterFormat, validation.Required, validation.By(func(value any) error {
			_, err := markdown.ParseFrontMatterFormat(value.(string))
			return err
		})),
		validation.Field(&s.Converter, validation.Required, validation.By(func(value any) error {
			_, err := converter.ParseKind(value.(string))
			return err
		})),
		validation.Field(&s.ConverterTimeout, validation.By(func(value any) error {
			if value.(string) == "" {
				return nil
			}
			_, err := time.ParseDuration(value.(string))
			return err
		})),
		validation.Field(&s.AttachmentFolderName, validation.Required),
		validation.Field(&s.Parallel, validation.Min(1)),
		validation.Field(&s.MaxNameLength, validation.Required, validation.Min(8), validation.Max(255)),
	)
	if err != nil {
		return err
	}
	return validation.ValidateStruct(&s.Remote,
		validation.Field(&s.Remote.Type, validation.In("fs", "s3")),
	)
}

func (s *Settings) Dialect() markup.Dialect {
	d, _ := markup.ParseDialect(s.ExportFormat)
	return d
}

func (s *Settings) FrontMatter() markdown.FrontMatterFormat {
	f, _ := markdown.ParseFrontMatterFormat(s.FrontMatterFormat)
	return f
}

func (s *Settings) ConverterKind() converter.Kind {
	k, _ := converter.ParseKind(s.Converter)
	return k
}

func (s *Settings) Timeout() time.Duration {
	d, err := time.ParseDuration(s.ConverterTimeout)
	if err != nil {
		return converter.DefaultTimeout
	}
	return d
}

// Clone returns a deep copy.
func (s *Settings) Clone() *Settings {
	var result Settings
	if err := copier.CopyWithOption(&result, s, copier.Option{DeepCopy: true}); err != nil {
		// Must never happen with plain structs
		panic(err)
	}
	return &result
}

// TOML returns the settings in the syntax of the settings file.
func (s *Settings) TOML() (string, error) {
	data, err := toml.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ConfigureFSRemote defines a local remote using the file system.
func (s *Settings) ConfigureFSRemote(dir string) *Settings {
	s.Remote = RemoteSettings{
		Type: "fs",
		Dir:  dir,
	}
	return s
}

// ConfigureS3Remote defines a remote using a S3 backend.
func (s *Settings) ConfigureS3Remote(endpoint, bucketName, accessKey, secretKey string, secure bool) *Settings {
	s.Remote = RemoteSettings{
		Type:       "s3",
		Endpoint:   endpoint,
		BucketName: bucketName,
		AccessKey:  accessKey,
		SecretKey:  secretKey,
		Secure:     secure,
	}
	return s
}
