package syntax

import (
	"errors"
	"os"
	"slices"
	"sync"
	"time"

	"lexis/pkg/diag"
)

// Cache keeps parse results keyed by path and reparses a file only when its
// modification time or size changed. Failed parses are kept too, so an
// unchanged broken file is not reported twice. It is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	files   map[string]*cachedProgram
	options []Option
}

type cachedProgram struct {
	program *Program
	err     error
	modTime time.Time
	size    int64
}

// NewCache parses with opts. Every parse gets its own arena regardless of
// WithArena.
func NewCache(opts ...Option) *Cache {
	return &Cache{
		files:   make(map[string]*cachedProgram),
		options: append(slices.Clone(opts), WithArena(nil)),
	}
}

// Load returns the cached result for path when the file is unchanged, and
// parses it otherwise. hit reports whether the cached result was used. Errors
// from reading the file are never cached.
func (c *Cache) Load(path string) (program *Program, hit bool, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false, err
	}

	c.mu.RLock()
	cached, exists := c.files[path]
	c.mu.RUnlock()

	if exists && cached.modTime.Equal(info.ModTime()) && cached.size == info.Size() {
		return cached.program, true, cached.err
	}

	program, err = Parse(path, c.options...)
	var d diag.Diagnostic
	if err != nil && !errors.As(err, &d) {
		c.Forget(path)
		return nil, false, err
	}

	c.mu.Lock()
	c.files[path] = &cachedProgram{program: program, err: err, modTime: info.ModTime(), size: info.Size()}
	c.mu.Unlock()

	return program, false, err
}

// Forget drops path from the cache.
func (c *Cache) Forget(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

// Clear drops every cached program.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.files)
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}
