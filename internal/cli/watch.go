package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/sourcelens/internal/cache"
	"github.com/mvp-joe/sourcelens/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [DIR]",
	Short: "Rescan a directory whenever its files change",
	Long: `Scan a directory, then watch it and print a fresh report after each batch
of changes. Changes are debounced (watch.debounce_ms, default 500ms) and only
changed files are re-read; the rest come from the result cache.

Press Ctrl+C to stop.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "suppress progress output")
	watchCmd.Flags().StringSliceVar(&scanIgnore, "ignore", nil, "additional ignore patterns")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir := dirArg(args)

	results, err := cache.New(newScanner(), cfg.Cache.MaxEntries)
	if err != nil {
		return fmt.Errorf("failed to create result cache: %w", err)
	}
	defer results.Close()

	report, err := scanDir(ctx, cmd, dir, results)
	if err != nil {
		return err
	}
	if err := render(cmd, report, textReport(report)); err != nil {
		return err
	}

	w, err := watcher.New(watcher.Options{
		Root:           dir,
		IgnorePatterns: append(append([]string{}, cfg.Scan.Ignore...), scanIgnore...),
		Debounce:       cfg.Debounce(),
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Stop()

	rescans := make(chan []string, 1)
	if err := w.Start(ctx, func(files []string) {
		select {
		case rescans <- files:
		case <-ctx.Done():
		}
	}); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	logger.WithField("root", report.Root).Info("watching for changes")

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping watcher")
			return nil
		case files := <-rescans:
			results.Invalidate(files...)
			logger.WithFields(logrus.Fields{"files": len(files)}).Info("files changed, rescanning")

			report, err := scanDir(ctx, cmd, dir, results)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			stats := results.Stats()
			logger.WithFields(logrus.Fields{"hits": stats.Hits, "misses": stats.Misses}).Debug("cache stats")
			if err := render(cmd, report, textReport(report)); err != nil {
				return err
			}
		}
	}
}
