// Package cache memoizes per-file scan reports, keyed by absolute path and
// invalidated when the file's modification time or size changes.
package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/maypok86/otter"

	"github.com/mvp-joe/sourcelens/internal/analysis"
)

// DefaultMaxEntries bounds the cache when no size is configured.
const DefaultMaxEntries = 10000

// stamp identifies a version of a file on disk.
type stamp struct {
	modTime time.Time
	size    int64
}

func (s stamp) equal(o stamp) bool {
	return s.size == o.size && s.modTime.Equal(o.modTime)
}

type entry struct {
	stamp  stamp
	report *analysis.FileReport
}

// Stats counts cache lookups.
type Stats struct {
	Hits   int64 `json:"hits" yaml:"hits"`
	Misses int64 `json:"misses" yaml:"misses"`
}

// Cache wraps a FileScanner with a bounded in-memory result cache. Returned
// reports are shared between callers and must not be modified.
type Cache struct {
	scanner analysis.FileScanner
	store   otter.Cache[string, entry]
}

var _ analysis.FileScanner = (*Cache)(nil)

// New creates a cache in front of scanner holding at most maxEntries reports.
// maxEntries <= 0 uses DefaultMaxEntries.
func New(scanner analysis.FileScanner, maxEntries int) (*Cache, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	store, err := otter.MustBuilder[string, entry](maxEntries).
		CollectStats().
		Cost(func(key string, value entry) uint32 {
			return 1
		}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build result cache: %w", err)
	}

	return &Cache{
		scanner: scanner,
		store:   store,
	}, nil
}

// ScanFile returns the cached report for path when the file is unchanged since it
// was scanned, and scans it otherwise. Reports always carry the absolute path, so
// relative and absolute lookups of one file share an entry.
func (c *Cache) ScanFile(ctx context.Context, path string) (*analysis.FileReport, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}

	current, statErr := statFile(key)
	if statErr == nil {
		// Stale versions are dropped quietly so the lookup below counts as a miss.
		if e, ok := c.store.Extension().GetQuietly(key); ok && !e.stamp.equal(current) {
			c.store.Delete(key)
		}
		if e, ok := c.store.Get(key); ok && e.stamp.equal(current) {
			return e.report, nil
		}
	}

	report, err := c.scanner.ScanFile(ctx, key)
	if err != nil {
		c.store.Delete(key)
		return nil, err
	}

	if statErr == nil {
		c.store.Set(key, entry{stamp: current, report: report})
	}
	return report, nil
}

// Invalidate drops the cached reports for paths.
func (c *Cache) Invalidate(paths ...string) {
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		c.store.Delete(p)
	}
}

// Len returns the number of cached reports.
func (c *Cache) Len() int {
	return c.store.Size()
}

// Stats returns hit and miss counts since the cache was created.
func (c *Cache) Stats() Stats {
	st := c.store.Stats()
	return Stats{
		Hits:   st.Hits(),
		Misses: st.Misses(),
	}
}

// Close releases the cache's background resources.
func (c *Cache) Close() {
	c.store.Close()
}

func statFile(path string) (stamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return stamp{}, err
	}
	return stamp{modTime: info.ModTime(), size: info.Size()}, nil
}
