package core

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"golang.org/x/exp/slices"

	"github.com/julien-sobczak/nimbus2md/internal/links"
	"github.com/julien-sobczak/nimbus2md/pkg/filesystem"
)

// Report aggregates the outcome of an export. Safe for concurrent use.
type Report struct {
	mu sync.Mutex

	Exported            int
	Failed              []string
	Encrypted           []string
	Filtered            int
	ResolvedLinks       int
	UnresolvedLinks     []links.Unresolved
	AttachmentsCopied   int
	AttachmentsReused   int
	MissingAttachments  []string
	OrphanFiles         []string
	DuplicateTitles     int
	PendingPlaceholders int
	Size                int64
	Duration            time.Duration
}

func NewReport() *Report {
	return &Report{}
}

func (r *Report) lock(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn()
}

func (r *Report) AddExported() { r.lock(func() { r.Exported++ }) }
func (r *Report) AddFailed(note string) { r.lock(func() { r.Failed = append(r.Failed, note) }) }
func (r *Report) AddEncrypted(note string) { r.lock(func() { r.Encrypted = append(r.Encrypted, note) }) }
func (r *Report) AddFiltered() { r.lock(func() { r.Filtered++ }) }
func (r *Report) AddAttachmentCopied() { r.lock(func() { r.AttachmentsCopied++ }) }
func (r *Report) AddAttachmentReused() { r.lock(func() { r.AttachmentsReused++ }) }
func (r *Report) AddMissingAttachment(p string) { r.lock(func() { r.MissingAttachments = append(r.MissingAttachments, p) }) }
func (r *Report) AddOrphanFile(p string) { r.lock(func() { r.OrphanFiles = append(r.OrphanFiles, p) }) }
func (r *Report) AddDuplicateTitle() { r.lock(func() { r.DuplicateTitles++ }) }
func (r *Report) AddPendingPlaceholders(n int) { r.lock(func() { r.PendingPlaceholders += n }) }
func (r *Report) SetLinks(result links.Result) { r.lock(func() { r.ResolvedLinks, r.UnresolvedLinks = result.Resolved, result.Unresolved }) }
func (r *Report) SetDuration(d time.Duration) { r.lock(func() { r.Duration = d }) }
func (r *Report) SetSize(size int64) { r.lock(func() { r.Size = size }) }

// Skipped returns the number of notes not exported on purpose.
func (r *Report) Skipped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Encrypted) + r.Filtered
}

// sort makes the lists deterministic whatever the order of the workers.
func (r *Report) sort() {
	slices.Sort(r.Failed)
	slices.Sort(r.Encrypted)
	slices.Sort(r.MissingAttachments)
	slices.Sort(r.OrphanFiles)
}

// Summary returns the counters as text lines.
func (r *Report) Summary() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return []string{
		fmt.Sprintf("Notes exported: %d", r.Exported),
		fmt.Sprintf("Notes failed: %d", len(r.Failed)),
		fmt.Sprintf("Notes skipped: %d (encrypted: %d, filtered: %d)", len(r.Encrypted)+r.Filtered, len(r.Encrypted), r.Filtered),
		fmt.Sprintf("Links resolved: %d", r.ResolvedLinks),
		fmt.Sprintf("Links unresolved: %d", len(r.UnresolvedLinks)),
		fmt.Sprintf("Attachments copied: %d (reused: %d)", r.AttachmentsCopied, r.AttachmentsReused),
		fmt.Sprintf("Attachments missing: %d", len(r.MissingAttachments)),
		fmt.Sprintf("Orphan files: %d", len(r.OrphanFiles)),
		fmt.Sprintf("Duplicate titles: %d", r.DuplicateTitles),
		fmt.Sprintf("Output size: %s", filesystem.HumanSize(r.Size)),
		fmt.Sprintf("Duration: %s", r.Duration.Round(time.Millisecond)),
	}
}

// Log writes the report at info level.
func (r *Report) Log(logger *Logger) {
	for _, line := range r.Summary() {
		logger.Info(line)
	}
	r.lock(func() {
		r.sort()
		for _, note := range r.Failed {
			logger.Warn("failed note", "note", note)
		}
		for _, note := range r.Encrypted {
			logger.Info("encrypted note", "note", note)
		}
		for _, file := range r.MissingAttachments {
			logger.Warn("missing attachment", "file", file)
		}
		for _, file := range r.OrphanFiles {
			logger.Info("orphan file", "file", file)
		}
		for _, link := range r.UnresolvedLinks {
			logger.Info("unresolved link", "note", link.Note, "text", link.Text)
		}
	})
}

var summaryStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	Padding(0, 1)

// Print writes the human-readable report.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintln(w, summaryStyle.Render(strings.Join(r.Summary(), "\n")))

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sort()

	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	printList(w, red, "Failed notes", r.Failed)
	printList(w, yellow, "Encrypted notes", r.Encrypted)
	printList(w, red, "Missing attachments", r.MissingAttachments)
	printList(w, yellow, "Orphan files", r.OrphanFiles)
	var unresolved []string
	for _, link := range r.UnresolvedLinks {
		unresolved = append(unresolved, link.Note+" -> "+link.Text)
	}
	printList(w, yellow, "Unresolved links", unresolved)
}

func printList(w io.Writer, c *color.Color, title string, values []string) {
	if len(values) == 0 {
		return
	}
	c.Fprintf(w, "%s:\n", title)
	for _, value := range values {
		fmt.Fprintf(w, "  - %s\n", value)
	}
}
