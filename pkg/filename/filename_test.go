package filename_test

import (
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/julien-sobczak/nimbus2md/pkg/filename"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reRandomName = regexp.MustCompile(`^[a-z]{6}$`)

func TestCleanName(t *testing.T) {
	var tests = []struct {
		name         string // name
		raw          string // input
		maxLength    int    // input
		allowUnicode bool   // input
		expected     string // output
	}{
		{"Basic", "My Note", 64, false, "My-Note"},
		{"Extension", "report final.pdf", 64, false, "report-final.pdf"},
		{"Separators", "a/b\\c", 64, false, "a-b-c"},
		{"PercentDecoding", "hello%20world.txt", 64, false, "hello-world.txt"},
		{"ForbiddenCharacters", `what? <this> is: "it" | *`, 64, false, "what-this-is-it"},
		{"DashRuns", "a  -- b", 64, false, "a-b"},
		{"TrimmedEdges", "._-note-_.", 64, false, "note"},
		{"Accents", "Crème brûlée", 64, false, "Creme-brulee"},
		{"NonLatinDropped", "日本 notes", 64, false, "notes"},
		{"UnicodeKept", "日本 notes", 64, true, "日本-notes"},
		{"UnicodeCompatibility", "ｆｕｌｌ ｗｉｄｔｈ", 64, true, "full-width"},
		{"ReservedDevice", "con", 64, false, "_con"},
		{"ReservedDeviceCase", "LPT1", 64, false, "_LPT1"},
		{"ReservedDeviceExtension", "aux.txt", 64, false, "_aux.txt"},
		{"NotReserved", "console", 64, false, "console"},
		{"ReservedNoRoomForPrefix", "con", 3, false, "co"},
		{"ReservedAfterTruncation", "console", 3, false, "co"},
		{"ReservedAfterTrimPrefixed", "aux-file", 4, false, "_aux"},
		{"ReservedDigitAfterTruncation", "lpt1x", 4, false, "lpt"},
		{"ReservedStemWithExtension", "auxiliary.html", 8, false, "au.html"},
		{"ReservedExtensionNoRoom", "con.md", 6, false, "co.md"},
		{"TruncatedStem", "abcdefghijklmnop.md", 10, false, "abcdefg.md"},
		{"CappedExtension", "file.verylongextension", 20, false, "file.verylon"},
		{"TruncatedTrailingDash", "abcd efgh.md", 8, false, "abcd.md"},
		{"NotAnExtension", "Version 1.2 - final", 64, false, "Version-1.2-final"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := filename.CleanName(tt.raw, tt.maxLength, tt.allowUnicode)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestCleanDirName(t *testing.T) {
	assert.Equal(t, "Projects-2023", filename.CleanDirName("Projects / 2023", 64, false))
	assert.Equal(t, "abcdefgh", filename.CleanDirName("abcdefgh.ijkl", 8, false))
	assert.Equal(t, "Work", filename.CleanDirName("Work.", 64, false))
}

func TestCleanPath(t *testing.T) {
	assert.Equal(t, filepath.Join("My-Notebook", "sub-dir", "note-1.md"), filename.CleanPath("My Notebook/sub dir/note 1.md", 64, false))
	assert.Equal(t, filepath.Join("_nul", "a.md"), filename.CleanPath("nul//a.md", 64, false))
}

func TestCleanNameRandom(t *testing.T) {
	for _, raw := range []string{"", ".", "..", "???", "日本"} {
		t.Run(raw, func(t *testing.T) {
			assert.Regexp(t, reRandomName, filename.CleanName(raw, 64, false))
		})
	}
	assert.Len(t, filename.CleanName("", 3, false), 3)
}

func TestCleanNameIdempotence(t *testing.T) {
	inputs := []string{
		"My Note",
		"report final.pdf",
		"con",
		"aux.txt",
		"Crème brûlée",
		"  spaced   out  ",
		"a/b\\c",
		"file.verylongextension",
		"what? <this> is: \"it\"",
		"2023-01-01 Meeting notes (draft).md",
		"abcdefghijklmnopqrstuvwxyz abcdefghijklmnopqrstuvwxyz.html",
	}
	for _, input := range inputs {
		for _, allowUnicode := range []bool{false, true} {
			once := filename.CleanName(input, 20, allowUnicode)
			twice := filename.CleanName(once, 20, allowUnicode)
			assert.Equal(t, once, twice, "input %q", input)
		}
	}

	// Truncation may produce a device name
	for _, input := range []string{"con", "console", "lpt1x", "auxiliary.html", "con.md", "_con", "nul.txt"} {
		for maxLength := 3; maxLength <= 10; maxLength++ {
			once := filename.CleanName(input, maxLength, false)
			twice := filename.CleanName(once, maxLength, false)
			assert.Equal(t, once, twice, "input %q (max %d)", input, maxLength)
		}
	}
}

func TestCleanNameLength(t *testing.T) {
	inputs := []string{
		"con",
		"a very long title for a note that never ends.markdown",
		"x.y",
		"日本語のノート",
		"",
	}
	for n := 1; n <= 24; n++ {
		for _, input := range inputs {
			for _, allowUnicode := range []bool{false, true} {
				result := filename.CleanName(input, n, allowUnicode)
				assert.LessOrEqual(t, utf8.RuneCountInString(result), n, "input %q with max length %d", input, n)
				assert.NotEmpty(t, result)

				dir := filename.CleanDirName(input, n, allowUnicode)
				assert.LessOrEqual(t, utf8.RuneCountInString(dir), n, "input %q with max length %d", input, n)
			}
		}
	}
}

func TestCleanNameReserved(t *testing.T) {
	reserved := regexp.MustCompile(`(?i)^(con|prn|aux|nul|com[1-9]|lpt[1-9])$`)
	for n := 3; n <= 10; n++ {
		for _, input := range []string{"con", "PRN", "aux", "nul", "com1", "lpt9", "console", "lpt1x", "auxiliary.html", "nul.txt"} {
			assert.NotRegexp(t, reserved, filename.CleanName(input, n, false))
		}
	}
}

func TestFindValidPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.md")

	assert.Equal(t, path, filename.FindValidPath(path))

	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	assert.Equal(t, filepath.Join(dir, "note-1.md"), filename.FindValidPath(path))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "note-1.md"), []byte("x"), 0644))
	assert.Equal(t, filepath.Join(dir, "note-2.md"), filename.FindValidPath(path))

	require.NoError(t, os.Mkdir(filepath.Join(dir, "attachments"), 0755))
	assert.Equal(t, filepath.Join(dir, "attachments-1"), filename.FindValidPath(filepath.Join(dir, "attachments")))
}

func TestReserver(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte("x"), 0644))

	r := filename.NewReserver()
	assert.Equal(t, filepath.Join(dir, "image-1.png"), r.Reserve(filepath.Join(dir, "image.png")))
	assert.Equal(t, filepath.Join(dir, "image-2.png"), r.Reserve(filepath.Join(dir, "image.png")))
	assert.Equal(t, filepath.Join(dir, "IMAGE-1-1.png"), r.Reserve(filepath.Join(dir, "IMAGE-1.png")))
	assert.True(t, r.Reserved(filepath.Join(dir, "image-1.png")))

	r.Release(filepath.Join(dir, "image-1.png"))
	assert.False(t, r.Reserved(filepath.Join(dir, "image-1.png")))

	t.Run("Concurrent", func(t *testing.T) {
		r := filename.NewReserver()
		var mu sync.Mutex
		seen := make(map[string]bool)
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				path := r.Reserve(filepath.Join(dir, "doc.pdf"))
				mu.Lock()
				defer mu.Unlock()
				seen[path] = true
			}()
		}
		wg.Wait()
		assert.Len(t, seen, 50)
	})
}
