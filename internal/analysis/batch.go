package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/sourcelens/internal/depgraph"
	"github.com/mvp-joe/sourcelens/internal/discovery"
)

// BatchScanner scans every eligible file under a directory in parallel.
type BatchScanner struct {
	scanner     *Scanner
	files       FileScanner
	ignore      []string
	maxFileSize int64
	workers     int
	progress    ProgressReporter
	logger      logrus.FieldLogger
	now         func() time.Time
}

// BatchOption configures a BatchScanner.
type BatchOption func(*BatchScanner)

// WithFileScanner replaces the per-file scanner, e.g. with a caching wrapper.
func WithFileScanner(fs FileScanner) BatchOption {
	return func(b *BatchScanner) {
		b.files = fs
	}
}

// WithIgnorePatterns adds ignore tokens on top of the discovery defaults.
func WithIgnorePatterns(patterns []string) BatchOption {
	return func(b *BatchScanner) {
		b.ignore = append(b.ignore, patterns...)
	}
}

// WithMaxFileSize skips files larger than n bytes. Zero disables the limit.
func WithMaxFileSize(n int64) BatchOption {
	return func(b *BatchScanner) {
		b.maxFileSize = n
	}
}

// WithWorkers sets the number of files scanned concurrently.
func WithWorkers(n int) BatchOption {
	return func(b *BatchScanner) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithProgress sets the progress reporter.
func WithProgress(p ProgressReporter) BatchOption {
	return func(b *BatchScanner) {
		if p != nil {
			b.progress = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) BatchOption {
	return func(b *BatchScanner) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBatchScanner creates a batch scanner around s.
func NewBatchScanner(s *Scanner, opts ...BatchOption) *BatchScanner {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	b := &BatchScanner{
		scanner:  s,
		files:    s,
		workers:  runtime.NumCPU(),
		progress: &NoOpProgressReporter{},
		logger:   quiet,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Scan discovers files under root, scans them, detects the project type and builds
// the import graph. Per-file failures are recorded in Report.Errors; only a missing
// root or a cancelled context aborts the scan.
func (b *BatchScanner) Scan(ctx context.Context, root string) (*Report, error) {
	start := b.now()

	project, err := b.scanner.DetectProjectType(root)
	if err != nil {
		return nil, err
	}

	b.progress.OnDiscoveryStart()
	fd, err := discovery.NewFileDiscovery(root, b.ignore, b.maxFileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create file discovery: %w", err)
	}
	paths, err := fd.DiscoverFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	b.progress.OnDiscoveryComplete(len(paths))
	b.logger.WithFields(logrus.Fields{"root": fd.Root(), "files": len(paths)}).Debug("discovered files")

	results := make([]*FileReport, len(paths))
	fileErrors := make([]*FileError, len(paths))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, path := range paths {
		g.Go(func() error {
			report, err := b.files.ScanFile(gctx, path)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				fileErrors[i] = newFileError(path, err)
				b.logger.WithError(err).WithField("file", path).Warn("scan failed")
			} else {
				results[i] = report
			}

			mu.Lock()
			b.progress.OnFileProcessed(path)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		ID:          uuid.New().String(),
		Root:        fd.Root(),
		GeneratedAt: start.UTC(),
		Project:     project,
		Files:       []FileReport{},
		Cycles:      [][]string{},
	}
	stats := &ScanStats{}

	edges := make(map[string][]string, len(paths))
	for i := range paths {
		if fe := fileErrors[i]; fe != nil {
			report.Errors = append(report.Errors, *fe)
			stats.FilesFailed++
			continue
		}
		fr := results[i]
		report.Files = append(report.Files, *fr)
		report.Totals = report.Totals.Add(fr.Tokens)
		edges[fr.Path] = fr.Imports

		stats.FilesScanned++
		stats.Dependencies += len(fr.Dependencies)
		stats.Functions += len(fr.Functions)
		stats.Annotations += len(fr.Annotations)
	}

	graphStart := time.Now()
	graph, err := depgraph.Build(edges)
	if err != nil {
		return nil, fmt.Errorf("failed to build import graph: %w", err)
	}
	b.progress.OnGraphBuilt(len(graph.Files()), graph.EdgeCount(), time.Since(graphStart))

	cycles, err := graph.Cycles()
	if err != nil {
		return nil, err
	}
	report.Cycles = cycles
	stats.Cycles = len(cycles)
	stats.Duration = b.now().Sub(start)

	b.progress.OnComplete(stats)
	b.logger.WithFields(logrus.Fields{
		"scanned": stats.FilesScanned,
		"failed":  stats.FilesFailed,
		"cycles":  stats.Cycles,
	}).Info("scan complete")

	return report, nil
}

// Graph builds the import graph for a finished report.
func (r *Report) Graph() (*depgraph.Graph, error) {
	edges := make(map[string][]string, len(r.Files))
	for _, f := range r.Files {
		edges[f.Path] = f.Imports
	}
	return depgraph.Build(edges)
}

func newFileError(path string, err error) *FileError {
	kind := "unknown"
	if k, ok := KindOf(err); ok {
		kind = k.String()
	}
	return &FileError{
		Path:    path,
		Kind:    kind,
		Message: err.Error(),
	}
}
