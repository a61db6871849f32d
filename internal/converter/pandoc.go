package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single pandoc invocation.
const DefaultTimeout = 30 * time.Second

// PandocConverter runs the pandoc executable.
// Requirements:
//
//	brew install pandoc
type PandocConverter struct {
	exe       string
	timeout   time.Duration
	listeners listeners
}

// NewPandocConverter locates pandoc in $PATH.
func NewPandocConverter(timeout time.Duration) (*PandocConverter, error) {
	path, err := exec.LookPath("pandoc")
	if err != nil {
		return nil, fmt.Errorf("%w: 'pandoc' not in $PATH", ErrExecutableNotFound)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &PandocConverter{
		exe:     path,
		timeout: timeout,
	}, nil
}

func (c *PandocConverter) Name() string {
	return string(Pandoc)
}

func (c *PandocConverter) OnPreConversion(fn func(cmd string, args ...string)) {
	c.listeners = append(c.listeners, fn)
}

// Args returns the command line arguments for a conversion.
func (c *PandocConverter) Args(from, to string) []string {
	return []string{"--from", from, "--to", to, "--wrap=none"}
}

// Convert pipes the input through pandoc.
func (c *PandocConverter) Convert(ctx context.Context, input, from, to string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := c.Args(from, to)
	c.listeners.notify(c.exe, args...)
	cmd := exec.CommandContext(ctx, c.exe, args...)
	cmd.Stdin = strings.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
	}
	if err != nil {
		return "", fmt.Errorf("pandoc %s -> %s failed: %w: %s", from, to, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
