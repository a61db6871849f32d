package filename

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FindValidPath returns the given path when nothing exists there, or the first free variant
// obtained by appending -1, -2, ... before the extension.
func FindValidPath(path string) string {
	return nextFree(path, func(candidate string) bool {
		return exists(candidate)
	})
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return !errors.Is(err, os.ErrNotExist)
}

func nextFree(path string, taken func(string) bool) string {
	if !taken(path) {
		return path
	}
	ext := filepath.Ext(path)
	if !reExtension.MatchString(ext) {
		ext = ""
	}
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, i, ext)
		if !taken(candidate) {
			return candidate
		}
	}
}

// Reserver hands out collision-free paths to concurrent writers.
// A path is considered taken when it exists on disk or was already reserved.
type Reserver struct {
	mu       sync.Mutex
	reserved map[string]struct{}
}

func NewReserver() *Reserver {
	return &Reserver{
		reserved: make(map[string]struct{}),
	}
}

// Reserve returns a free path derived from the given one and marks it as taken.
// The existence check and the reservation are atomic.
func (r *Reserver) Reserve(path string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := nextFree(filepath.Clean(path), func(candidate string) bool {
		if _, ok := r.reserved[strings.ToLower(candidate)]; ok {
			return true
		}
		return exists(candidate)
	})
	r.reserved[strings.ToLower(result)] = struct{}{}
	return result
}

// Reserved returns if a path was already handed out.
func (r *Reserver) Reserved(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.reserved[strings.ToLower(filepath.Clean(path))]
	return ok
}

// Release makes a reserved path available again.
func (r *Reserver) Release(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reserved, strings.ToLower(filepath.Clean(path)))
}
