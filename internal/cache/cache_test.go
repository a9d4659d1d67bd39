package cache

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/sourcelens/internal/analysis"
)

// Test Plan for Cache:
// - Second scan of an unchanged file is a hit and skips the scanner
// - A changed file size is a miss and rescans
// - Invalidate forces a rescan
// - Scanner errors are returned and not cached
// - Reports come from the real Scanner when wrapped around it
// - A file first scanned by relative path is reported by absolute path, so a
//   later batch scan through the cache keeps its import edges

type countingScanner struct {
	inner analysis.FileScanner
	calls atomic.Int64
}

func (c *countingScanner) ScanFile(ctx context.Context, path string) (*analysis.FileReport, error) {
	c.calls.Add(1)
	return c.inner.ScanFile(ctx, path)
}

func newTestCache(t *testing.T) (*Cache, *countingScanner) {
	t.Helper()

	counter := &countingScanner{inner: analysis.NewScanner()}
	c, err := New(counter, 16)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, counter
}

func writeSource(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "main.js")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCache_Hit(t *testing.T) {
	t.Parallel()

	c, counter := newTestCache(t)
	path := writeSource(t, "import x from './x'\n")

	first, err := c.ScanFile(context.Background(), path)
	require.NoError(t, err)
	second, err := c.ScanFile(context.Background(), path)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), counter.calls.Load())
	assert.Equal(t, Stats{Hits: 1, Misses: 1}, c.Stats())
	assert.Equal(t, 1, c.Len())
	require.Len(t, first.Dependencies, 1)
	assert.Equal(t, "./x", first.Dependencies[0].Dependency)
}

func TestCache_ChangedFile(t *testing.T) {
	t.Parallel()

	c, counter := newTestCache(t)
	path := writeSource(t, "import x from './x'\n")

	_, err := c.ScanFile(context.Background(), path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("import x from './x'\nimport y from './y'\n"), 0644))

	report, err := c.ScanFile(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, report.Dependencies, 2)
	assert.Equal(t, int64(2), counter.calls.Load())
	assert.Equal(t, Stats{Hits: 0, Misses: 2}, c.Stats(), "a stale entry is a miss")
}

func TestCache_Invalidate(t *testing.T) {
	t.Parallel()

	c, counter := newTestCache(t)
	path := writeSource(t, "const a = 1\n")

	_, err := c.ScanFile(context.Background(), path)
	require.NoError(t, err)

	c.Invalidate(path)
	assert.Equal(t, 0, c.Len())

	_, err = c.ScanFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counter.calls.Load())
}

func TestCache_ErrorNotCached(t *testing.T) {
	t.Parallel()

	c, counter := newTestCache(t)
	missing := filepath.Join(t.TempDir(), "missing.js")

	_, err := c.ScanFile(context.Background(), missing)
	assert.ErrorIs(t, err, analysis.ErrIO)
	_, err = c.ScanFile(context.Background(), missing)
	assert.ErrorIs(t, err, analysis.ErrIO)

	assert.Equal(t, int64(2), counter.calls.Load())
	assert.Equal(t, 0, c.Len())
}

func TestCache_RelativePathThenBatchScan(t *testing.T) {
	// Changes the working directory, so not parallel.
	dir := t.TempDir()
	a := filepath.Join(dir, "a.js")
	b := filepath.Join(dir, "b.js")
	require.NoError(t, os.WriteFile(a, []byte("import { b } from './b'\n"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("export const b = 1\n"), 0644))
	t.Chdir(dir)

	scanner := analysis.NewScanner()
	c, err := New(scanner, 16)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	first, err := c.ScanFile(context.Background(), "a.js")
	require.NoError(t, err)
	assert.Equal(t, a, first.Path)

	report, err := analysis.NewBatchScanner(scanner, analysis.WithFileScanner(c)).Scan(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.Stats().Hits, "a.js should come from the cache")

	g, err := report.Graph()
	require.NoError(t, err)
	assert.Equal(t, []string{b}, g.Dependencies(a, 1))
	assert.Equal(t, []string{a}, g.Dependents(b, 1))
}
