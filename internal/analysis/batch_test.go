package analysis

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for BatchScanner:
// - Scans every discovered file, sorted by path, skipping ignored directories
// - Detects the project type of the root
// - Records per-file failures without aborting
// - Reports import cycles across files
// - Totals are the sum of per-file token estimates
// - Progress callbacks fire once per file
// - Missing root and cancelled context abort the scan

type recordingProgress struct {
	mu        sync.Mutex
	total     int
	processed []string
	stats     *ScanStats
}

func (r *recordingProgress) OnDiscoveryStart()                  {}
func (r *recordingProgress) OnDiscoveryComplete(totalFiles int) { r.total = totalFiles }
func (r *recordingProgress) OnFileProcessed(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processed = append(r.processed, path)
}
func (r *recordingProgress) OnGraphBuilt(fileCount, edgeCount int, d time.Duration) {}
func (r *recordingProgress) OnComplete(stats *ScanStats)                            { r.stats = stats }

func writeBatchFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, dir, "package.json", `{"name": "fixture"}`)
	writeFile(t, dir, "src/a.js", "import b from './b'\n\nfunction run() {\n  return b()\n}\n")
	writeFile(t, dir, "src/b.js", "import a from './a'\n// TODO: break the cycle\n")
	writeFile(t, dir, "src/broken.js", "const s = '\xff\xfe'\n")
	writeFile(t, dir, "node_modules/dep/index.js", "module.exports = {}\n")
	return dir
}

func TestBatchScanner_Scan(t *testing.T) {
	t.Parallel()

	dir := writeBatchFixture(t)
	progress := &recordingProgress{}

	report, err := NewBatchScanner(NewScanner(), WithWorkers(2), WithProgress(progress)).
		Scan(context.Background(), dir)
	require.NoError(t, err)

	root, err := filepath.Abs(dir)
	require.NoError(t, err)
	a := filepath.Join(root, "src/a.js")
	b := filepath.Join(root, "src/b.js")
	broken := filepath.Join(root, "src/broken.js")

	_, err = uuid.Parse(report.ID)
	assert.NoError(t, err)
	assert.Equal(t, root, report.Root)
	assert.False(t, report.GeneratedAt.IsZero())

	require.NotNil(t, report.Project)
	assert.Equal(t, "Node.js", report.Project.DetectedType)

	var paths []string
	for _, f := range report.Files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{filepath.Join(root, "package.json"), a, b}, paths)

	require.Len(t, report.Errors, 1)
	assert.Equal(t, broken, report.Errors[0].Path)
	assert.Equal(t, "encoding", report.Errors[0].Kind)

	assert.Equal(t, [][]string{{a, b}}, report.Cycles)

	fileA := report.Files[1]
	assert.Equal(t, []string{b}, fileA.Imports)
	require.Len(t, fileA.Functions, 1)
	assert.Equal(t, "run", fileA.Functions[0].Name)
	require.Len(t, report.Files[2].Annotations, 1)

	chars := 0
	for _, f := range report.Files {
		chars += f.Tokens.CharCount
	}
	assert.Equal(t, chars, report.Totals.CharCount)

	assert.Equal(t, 4, progress.total)
	assert.Len(t, progress.processed, 4)
	require.NotNil(t, progress.stats)
	assert.Equal(t, 3, progress.stats.FilesScanned)
	assert.Equal(t, 1, progress.stats.FilesFailed)
	assert.Equal(t, 1, progress.stats.Cycles)
}

func TestBatchScanner_IgnorePatterns(t *testing.T) {
	t.Parallel()

	dir := writeBatchFixture(t)

	report, err := NewBatchScanner(NewScanner(), WithIgnorePatterns([]string{"*.json", "broken"})).
		Scan(context.Background(), dir)
	require.NoError(t, err)

	assert.Len(t, report.Files, 2)
	assert.Empty(t, report.Errors)
}

func TestBatchScanner_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := NewBatchScanner(NewScanner()).Scan(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrIO)
}

func TestBatchScanner_Cancelled(t *testing.T) {
	t.Parallel()

	dir := writeBatchFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBatchScanner(NewScanner()).Scan(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReport_Graph(t *testing.T) {
	t.Parallel()

	dir := writeBatchFixture(t)
	report, err := NewBatchScanner(NewScanner()).Scan(context.Background(), dir)
	require.NoError(t, err)

	g, err := report.Graph()
	require.NoError(t, err)

	a := filepath.Join(report.Root, "src/a.js")
	b := filepath.Join(report.Root, "src/b.js")
	assert.Equal(t, []string{b}, g.Dependencies(a, 1))
	assert.Equal(t, []string{b}, g.Dependents(a, 1))
}
