package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/sourcelens/internal/analysis"
)

// CLIProgressReporter renders batch scan progress on a terminal stream.
// Stdout carries the report, so progress goes to stderr.
type CLIProgressReporter struct {
	quiet     bool
	out       io.Writer
	fileBar   *progressbar.ProgressBar
	startTime time.Time
}

var _ analysis.ProgressReporter = (*CLIProgressReporter)(nil)

// NewCLIProgressReporter creates a new CLI progress reporter writing to out.
func NewCLIProgressReporter(out io.Writer, quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet:     quiet,
		out:       out,
		startTime: time.Now(),
	}
}

func (c *CLIProgressReporter) OnDiscoveryStart() {
	if c.quiet {
		return
	}
	fmt.Fprintln(c.out, "Discovering files...")
}

func (c *CLIProgressReporter) OnDiscoveryComplete(totalFiles int) {
	if c.quiet {
		return
	}
	fmt.Fprintf(c.out, "Scanning %s files\n", formatNumber(totalFiles))

	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Scanning files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

func (c *CLIProgressReporter) OnFileProcessed(path string) {
	if c.quiet || c.fileBar == nil {
		return
	}
	c.fileBar.Add(1)
}

func (c *CLIProgressReporter) OnGraphBuilt(fileCount, edgeCount int, duration time.Duration) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Finish()
		c.fileBar = nil
	}
	fmt.Fprintf(c.out, "✓ Import graph: %s files, %s edges (took %.1fs)\n",
		formatNumber(fileCount), formatNumber(edgeCount), duration.Seconds())
}

func (c *CLIProgressReporter) OnComplete(stats *analysis.ScanStats) {
	if c.quiet {
		return
	}
	fmt.Fprintf(c.out, "✓ Scan complete: %s files in %.1fs\n",
		formatNumber(stats.FilesScanned), time.Since(c.startTime).Seconds())
	fmt.Fprintf(c.out, "  Dependencies: %s\n", formatNumber(stats.Dependencies))
	fmt.Fprintf(c.out, "  Functions:    %s\n", formatNumber(stats.Functions))
	fmt.Fprintf(c.out, "  Annotations:  %s\n", formatNumber(stats.Annotations))
	if stats.FilesFailed > 0 {
		fmt.Fprintf(c.out, "  Failed:       %s\n", formatNumber(stats.FilesFailed))
	}
	if stats.Cycles > 0 {
		fmt.Fprintf(c.out, "  Cycles:       %s\n", formatNumber(stats.Cycles))
	}
}

// formatNumber renders n with thousands separators.
func formatNumber(n int) string {
	return humanize.Comma(int64(n))
}
