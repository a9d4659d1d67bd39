package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/sourcelens/internal/cache"
	"github.com/mvp-joe/sourcelens/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server exposing the scanner as tools",
	Long: `Start the Model Context Protocol (MCP) server so LLM coding assistants can
call the scanner directly.

The MCP server:
- Exposes scan_dependencies, scan_functions, scan_annotations, scan_file,
  resolve_imports, strip_comments, detect_project, estimate_tokens and
  import_graph
- Caches per-file results until a file's size or modification time changes
- Communicates via stdio (standard MCP transport); logs go to stderr

Example:
  sourcelens mcp`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	scanner := newScanner()

	results, err := cache.New(scanner, cfg.Cache.MaxEntries)
	if err != nil {
		return fmt.Errorf("failed to create result cache: %w", err)
	}
	defer results.Close()

	srv := mcp.NewServer(scanner, Version,
		mcp.WithLogger(logger),
		mcp.WithFileScanner(results),
	)
	return srv.Serve(cmd.Context())
}
