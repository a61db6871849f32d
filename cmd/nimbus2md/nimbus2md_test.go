package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julien-sobczak/nimbus2md/internal/core"
	"github.com/julien-sobczak/nimbus2md/internal/testutil"
	"github.com/julien-sobczak/nimbus2md/pkg/console"
)

func execute(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestApplyRemote(t *testing.T) {
	tests := []struct {
		name     string
		location string
		expected core.RemoteSettings
		wantErr  bool
	}{
		{
			name:     "fs",
			location: "fs:/tmp/notes",
			expected: core.RemoteSettings{Type: "fs", Dir: "/tmp/notes"},
		},
		{
			name:     "s3",
			location: "s3://notes/",
			expected: core.RemoteSettings{Type: "s3", Endpoint: "localhost:9000", BucketName: "notes", AccessKey: "key", SecretKey: "secret"},
		},
		{
			name:     "missing bucket",
			location: "s3://",
			wantErr:  true,
		},
		{
			name:     "unknown",
			location: "ftp://notes",
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := core.NewSettings()
			settings.Remote.Endpoint = "localhost:9000"
			settings.Remote.AccessKey = "key"
			settings.Remote.SecretKey = "secret"
			err := applyRemote(settings, tt.location)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, settings.Remote)
		})
	}
}

func TestConvertCommand(t *testing.T) {
	input := testutil.SetUpDir(t, map[string]string{
		"n1/note.json": `{"id": "n1", "title": "Hello"}`,
		"n1/note.html": `<p>World</p>`,
	})
	output := t.TempDir()
	config := testutil.SetUpFromFileContent(t, "settings.toml", `front_matter_format = "none"`)

	_, err := execute(t, "convert", input, "--output", output, "--config", config, "--silent")
	require.NoError(t, err)
	t.Cleanup(func() { silent = false })

	files := testutil.ReadDir(t, output)
	assert.Equal(t, "World\n", files["Unsorted/Hello.md"])
}

func TestProgressOptions(t *testing.T) {
	var out bytes.Buffer
	assert.Len(t, progressOptions(&out), 2)
	console.NewProgressLog(2, progressOptions(&out)...).Log(1, "a.md")
	assert.True(t, strings.HasPrefix(out.String(), "#####      ( 50%) a.md"), out.String())

	// Regular files are not terminals
	f, err := os.Create(filepath.Join(t.TempDir(), "progress.log"))
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, progressOptions(f), 2)
}

func TestConfigCommand(t *testing.T) {
	out, err := execute(t, "config", "--config", "")
	require.NoError(t, err)
	assert.Contains(t, out, "export_format = 'gfm'")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "nimbus2md dev\n", out)
}
