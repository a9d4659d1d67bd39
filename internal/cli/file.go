package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/sourcelens/internal/analysis"
	"github.com/mvp-joe/sourcelens/internal/lang"
	"github.com/mvp-joe/sourcelens/internal/tokens"
)

var (
	stripIncludeComments bool
	tokensStripComments  bool
)

var depsCmd = &cobra.Command{
	Use:   "deps FILE",
	Short: "List the import statements of a file",
	Long: `List every import, require, use and from statement of a source file with its
line number. Specifiers are printed exactly as written.

Example:
  sourcelens deps src/app.ts
  sourcelens deps main.py --format text`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := newScanner().DetectDependencies(args[0])
		if err != nil {
			return err
		}
		return render(cmd, deps, textDependencies(deps))
	},
}

var funcsCmd = &cobra.Command{
	Use:   "funcs FILE",
	Short: "List function declarations with approximate line spans",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		funcs, err := newScanner().ExtractFunctions(args[0])
		if err != nil {
			return err
		}
		return render(cmd, funcs, textFunctions(funcs))
	},
}

var todosCmd = &cobra.Command{
	Use:   "todos FILE",
	Short: "List TODO, FIXME, NOTE, HACK and XXX comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notes, err := newScanner().ExtractAnnotations(args[0])
		if err != nil {
			return err
		}
		return render(cmd, notes, textAnnotations(notes))
	},
}

var stripCmd = &cobra.Command{
	Use:   "strip FILE",
	Short: "Print a file with its comments removed",
	Long: `Print a source file with comments removed for its language. Files of
unknown type are printed unchanged. The output is always plain text.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := analysis.ReadSource(args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(),
			newScanner().FilterComments(content, lang.Extension(args[0]), stripIncludeComments))
		return err
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve FILE",
	Short: "Resolve relative imports to files on disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolved, err := newScanner().ResolveImports(args[0])
		if err != nil {
			return err
		}
		return render(cmd, resolved, textLines(resolved))
	},
}

var tokensCmd = &cobra.Command{
	Use:   "tokens FILE",
	Short: "Estimate LLM token counts for a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := analysis.ReadSource(args[0])
		if err != nil {
			return err
		}
		if tokensStripComments {
			content = newScanner().FilterComments(content, lang.Extension(args[0]), false)
		}
		est := tokens.EstimateText(content)
		return render(cmd, est, textTokens(est))
	},
}

var projectCmd = &cobra.Command{
	Use:   "project [DIR]",
	Short: "Guess the project ecosystem of a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		project, err := newScanner().DetectProjectType(dir)
		if err != nil {
			return err
		}
		return render(cmd, project, textProject(project))
	},
}

func init() {
	stripCmd.Flags().BoolVar(&stripIncludeComments, "include-comments", false, "print the file unchanged")
	tokensCmd.Flags().BoolVar(&tokensStripComments, "strip", false, "strip comments before estimating")

	rootCmd.AddCommand(depsCmd, funcsCmd, todosCmd, stripCmd, resolveCmd, tokensCmd, projectCmd)
}

// relTo returns path relative to root when possible.
func relTo(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}
