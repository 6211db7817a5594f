package syntax

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexis/pkg/diag"
)

func TestCacheReusesUnchangedFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.lx")
	require.NoError(t, os.WriteFile(path, []byte("a = 1"), 0o644))

	cache := NewCache(quiet)
	first, hit, err := cache.Load(path)
	require.NoError(t, err)
	assert.False(t, hit)

	again, hit, err := cache.Load(path)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Same(t, first, again)
	assert.Equal(t, 1, cache.Len())

	require.NoError(t, os.WriteFile(path, []byte("a = 1 + 2"), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	changed, hit, err := cache.Load(path)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NotSame(t, first, changed)
	assert.NotSame(t, first.Arena, changed.Arena)
}

func TestCacheKeepsFailedParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.lx")
	require.NoError(t, os.WriteFile(path, []byte("a }"), 0o644))

	var collector diag.Collector
	cache := NewCache(WithSink(&collector), quiet)
	_, hit, err := cache.Load(path)
	require.Error(t, err)
	assert.False(t, hit)

	program, hit, again := cache.Load(path)
	assert.True(t, hit)
	assert.Nil(t, program)
	assert.Equal(t, err, again)
	assert.Len(t, collector.Failures(), 1, "an unchanged broken file is reported once")

	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	program, hit, err = cache.Load(path)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NotNil(t, program)

	_, _, err = cache.Load(filepath.Join(t.TempDir(), "missing.lx"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 1, cache.Len())

	cache.Forget(path)
	assert.Zero(t, cache.Len())
}

func TestCacheConcurrentLoads(t *testing.T) {
	dir := t.TempDir()
	paths := make([]string, 8)
	for i := range paths {
		paths[i] = filepath.Join(dir, string(rune('a'+i))+".lx")
		require.NoError(t, os.WriteFile(paths[i], []byte("f -> { x }"), 0o644))
	}

	cache := NewCache(quiet)
	var wg sync.WaitGroup
	for round := 0; round < 4; round++ {
		for _, path := range paths {
			wg.Add(1)
			go func(path string) {
				defer wg.Done()
				_, _, err := cache.Load(path)
				assert.NoError(t, err)
			}(path)
		}
	}
	wg.Wait()
	assert.Equal(t, len(paths), cache.Len())

	cache.Clear()
	assert.Zero(t, cache.Len())
}
