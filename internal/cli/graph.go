package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/sourcelens/internal/depgraph"
)

var (
	graphFile       string
	graphDependents bool
	graphDepth      int
	graphCycles     bool
)

// GraphResult is the output of the graph command.
type GraphResult struct {
	Operation string     `json:"operation" yaml:"operation"`
	Target    string     `json:"target,omitempty" yaml:"target,omitempty"`
	Depth     int        `json:"depth,omitempty" yaml:"depth,omitempty"`
	Results   []string   `json:"results,omitempty" yaml:"results,omitempty"`
	Cycles    [][]string `json:"cycles,omitempty" yaml:"cycles,omitempty"`
	Files     int        `json:"files" yaml:"files"`
}

var graphCmd = &cobra.Command{
	Use:   "graph [DIR]",
	Short: "Query the file import graph of a directory",
	Long: `Scan a directory and query the graph of resolved local imports.

With --file, list the files that file imports (or, with --dependents, the files
that import it) up to --depth levels away. With --cycles, list import cycles.

Example:
  sourcelens graph . --file src/app.ts --depth 2
  sourcelens graph . --file src/util.ts --dependents
  sourcelens graph . --cycles`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGraph,
}

func init() {
	graphCmd.Flags().StringVar(&graphFile, "file", "", "file to query")
	graphCmd.Flags().BoolVar(&graphDependents, "dependents", false, "list files importing --file instead of its imports")
	graphCmd.Flags().IntVar(&graphDepth, "depth", depgraph.DefaultDepth, fmt.Sprintf("traversal depth (max %d)", depgraph.MaxDepth))
	graphCmd.Flags().BoolVar(&graphCycles, "cycles", false, "list import cycles")
	graphCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "suppress progress output")
	graphCmd.Flags().StringSliceVar(&scanIgnore, "ignore", nil, "additional ignore patterns")

	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
	if !graphCycles && graphFile == "" {
		return fmt.Errorf("either --file or --cycles is required")
	}

	report, err := scanDir(cmd.Context(), cmd, dirArg(args), nil)
	if err != nil {
		return err
	}
	g, err := report.Graph()
	if err != nil {
		return err
	}

	result := GraphResult{Files: len(g.Files())}
	if graphCycles {
		result.Operation = "cycles"
		result.Cycles = report.Cycles
		return render(cmd, result, textGraph(report.Root, result))
	}

	target, err := filepath.Abs(graphFile)
	if err != nil {
		return err
	}
	result.Target = target
	result.Depth = graphDepth
	if graphDependents {
		result.Operation = "dependents"
		result.Results = g.Dependents(target, graphDepth)
	} else {
		result.Operation = "dependencies"
		result.Results = g.Dependencies(target, graphDepth)
	}
	return render(cmd, result, textGraph(report.Root, result))
}

func textGraph(root string, r GraphResult) func(io.Writer) error {
	return func(w io.Writer) error {
		if r.Operation == "cycles" {
			if len(r.Cycles) == 0 {
				fmt.Fprintln(w, "No import cycles")
				return nil
			}
			for _, c := range r.Cycles {
				rel := make([]string, len(c))
				for i, p := range c {
					rel[i] = relTo(root, p)
				}
				fmt.Fprintln(w, strings.Join(rel, " -> "))
			}
			return nil
		}
		for _, p := range r.Results {
			fmt.Fprintln(w, relTo(root, p))
		}
		return nil
	}
}
