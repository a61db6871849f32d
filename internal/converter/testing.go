package converter

import (
	"context"
	"sync"
)

// FakeConverter returns the input unchanged or the result of a custom function.
// Useful in tests to avoid depending on pandoc.
type FakeConverter struct {
	mu        sync.Mutex
	fn        func(input, from, to string) (string, error)
	calls     int
	listeners listeners
}

// NewFakeConverter creates a converter. A nil function returns the input unchanged.
func NewFakeConverter(fn func(input, from, to string) (string, error)) *FakeConverter {
	return &FakeConverter{fn: fn}
}

func (c *FakeConverter) Name() string {
	return "fake"
}

func (c *FakeConverter) OnPreConversion(fn func(cmd string, args ...string)) {
	c.listeners = append(c.listeners, fn)
}

func (c *FakeConverter) Convert(ctx context.Context, input, from, to string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	c.listeners.notify("fake", "--from", from, "--to", to)
	if c.fn == nil {
		return input, nil
	}
	return c.fn(input, from, to)
}

// Calls returns the number of conversions.
func (c *FakeConverter) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}
