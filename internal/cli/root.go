package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/sourcelens/internal/analysis"
	"github.com/mvp-joe/sourcelens/internal/config"
)

var (
	configRoot   string
	verbose      bool
	outputFormat string

	logger *logrus.Logger
	cfg    *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sourcelens",
	Short: "Heuristic multi-language source scanner",
	Long: `sourcelens inspects source files without parsing them. It finds imports,
approximate function boundaries, TODO-style annotations and project types,
resolves relative imports to files, strips comments and estimates token counts.

Configuration is read from .sourcelens/config.yml in the current directory
(or --config-root), falling back to ~/.sourcelens/config.yml. SOURCELENS_*
environment variables override file values.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logrus.New()
		logger.SetOutput(cmd.ErrOrStderr())
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}

		root := configRoot
		if root == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			root = wd
		}

		loaded, err := config.LoadConfigFromDir(root)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded

		if !cmd.Flags().Changed("format") {
			outputFormat = cfg.Output.Format
		}
		if err := config.ValidateFormat(outputFormat); err != nil {
			return err
		}

		logger.WithField("root", root).Debug("configuration loaded")
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configRoot, "config-root", "", "directory containing .sourcelens/config.yml (default is the current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "output format: json, yaml or text")
}

// newScanner builds a scanner from the loaded configuration.
func newScanner() *analysis.Scanner {
	return analysis.NewScanner(cfg.ScannerOptions()...)
}
