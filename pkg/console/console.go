package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
)

// ProgressLog rewrites a single console line to report the progress of a batch.
// Safe for concurrent use.
type ProgressLog struct {
	mu            sync.Mutex
	output        io.Writer
	showPercent   bool
	gradient      *progress.Model
	maxSteps      int
	currentStep   int
	maxCharacters int
}

func NewProgressLog(maxSteps int, options ...func(*ProgressLog)) *ProgressLog {
	if maxSteps <= 0 {
		maxSteps = 1
	}
	result := &ProgressLog{
		output:        os.Stdout,
		showPercent:   false,
		maxSteps:      maxSteps,
		maxCharacters: 80,
	}
	for _, option := range options {
		option(result)
	}
	return result
}

func ToWriter(w io.Writer) func(*ProgressLog) {
	return func(s *ProgressLog) {
		s.output = w
	}
}

func ShowPercent() func(*ProgressLog) {
	return func(s *ProgressLog) {
		s.showPercent = true
	}
}

func LineLength(characters int) func(*ProgressLog) {
	return func(s *ProgressLog) {
		s.maxCharacters = characters
	}
}

// GradientBar replaces the '#' bar by a colored bar. The line length no longer truncates the bar.
func GradientBar(width int) func(*ProgressLog) {
	return func(s *ProgressLog) {
		bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
		bar.Width = width
		s.gradient = &bar
	}
}

// Advance moves to the next step.
func (l *ProgressLog) Advance(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.currentStep < l.maxSteps {
		l.currentStep++
	}
	l.log(l.currentStep, message)
}

func (l *ProgressLog) Log(currentStep int, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.currentStep = currentStep
	l.log(currentStep, message)
}

func (l *ProgressLog) log(currentStep int, message string) {
	// Determine the percent
	i100 := currentStep * 100 / l.maxSteps

	// We show between 0 and 10 '#' depending on the percent
	i10 := i100 / 10

	// Build the line step by step
	var sb strings.Builder

	if l.showPercent {
		sb.WriteString(fmt.Sprintf("(%3d%%) ", i100))
	} else {
		sb.WriteString(fmt.Sprintf("(%d/%d) ", currentStep, l.maxSteps))
	}
	sb.WriteString(message)
	status := sb.String()

	if l.gradient != nil {
		fmt.Fprint(l.output, "\r", l.gradient.ViewAs(float64(i100)/100), " ", pad(status, l.maxCharacters))
		return
	}

	line := strings.Repeat("#", i10) + strings.Repeat(" ", 10-i10) + " " + status

	// Show the result
	fmt.Fprint(l.output, pad(line, l.maxCharacters), "\r")
}

func (l *ProgressLog) Clear(newMessage string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Rewrite the last line
	fmt.Fprint(l.output, pad(newMessage, l.maxCharacters))

	if newMessage == "" {
		fmt.Fprint(l.output, "\r")
	} else {
		// Move to next line
		fmt.Fprint(l.output, "\n")
	}
}

// pad truncates or completes a line to the given length.
func pad(line string, length int) string {
	if len(line) > length {
		return line[0:length]
	}
	return line + strings.Repeat(" ", length-len(line))
}
