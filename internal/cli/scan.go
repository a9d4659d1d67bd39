package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/sourcelens/internal/analysis"
)

var (
	scanWorkers int
	scanQuiet   bool
	scanIgnore  []string
)

var scanCmd = &cobra.Command{
	Use:   "scan [DIR]",
	Short: "Scan every source file under a directory",
	Long: `Scan a directory tree: detect the project type, run every per-file analysis
on each discovered file, build the file import graph and report import cycles.

Files matching the built-in ignore list (node_modules, .git, dist, ...), files
over the configured size limit and binary files are skipped. Files that cannot
be read or are not UTF-8 are listed under errors without stopping the scan.

Progress is written to stderr and the report to stdout.

Example:
  sourcelens scan .
  sourcelens scan ./service --ignore "*.gen.go" --format yaml > report.yml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVarP(&scanWorkers, "workers", "w", 0, "number of files scanned concurrently (default from config)")
	scanCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "suppress progress output")
	scanCmd.Flags().StringSliceVar(&scanIgnore, "ignore", nil, "additional ignore patterns")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := scanDir(ctx, cmd, dirArg(args), nil)
	if err != nil {
		return err
	}
	return render(cmd, report, textReport(report))
}

// scanDir runs a batch scan with the loaded configuration and the scan flags.
func scanDir(ctx context.Context, cmd *cobra.Command, dir string, files analysis.FileScanner) (*analysis.Report, error) {
	scanner := newScanner()

	opts := cfg.BatchOptions()
	if len(scanIgnore) > 0 {
		opts = append(opts, analysis.WithIgnorePatterns(append(append([]string{}, cfg.Scan.Ignore...), scanIgnore...)))
	}
	if scanWorkers > 0 {
		opts = append(opts, analysis.WithWorkers(scanWorkers))
	}
	if files != nil {
		opts = append(opts, analysis.WithFileScanner(files))
	}
	opts = append(opts,
		analysis.WithLogger(logger),
		analysis.WithProgress(NewCLIProgressReporter(cmd.ErrOrStderr(), scanQuiet)),
	)

	return analysis.NewBatchScanner(scanner, opts...).Scan(ctx, dir)
}

func dirArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return "."
}
