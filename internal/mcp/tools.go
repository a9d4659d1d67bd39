package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/mvp-joe/sourcelens/internal/analysis"
	mcputils "github.com/mvp-joe/sourcelens/internal/mcp-utils"
	"github.com/mvp-joe/sourcelens/internal/tokens"
)

// FileRequest is the argument shape of the single-file tools.
type FileRequest struct {
	FilePath string `json:"file_path"`
}

// DirRequest is the argument shape of detect_project.
type DirRequest struct {
	DirPath string `json:"dir_path"`
}

// StripRequest is the argument shape of strip_comments.
type StripRequest struct {
	Content         string `json:"content"`
	Extension       string `json:"extension"`
	IncludeComments bool   `json:"include_comments"`
}

// TokensRequest is the argument shape of estimate_tokens.
type TokensRequest struct {
	Content string `json:"content"`
}

// GraphRequest is the argument shape of import_graph.
type GraphRequest struct {
	DirPath   string `json:"dir_path"`
	FilePath  string `json:"file_path"`
	Operation string `json:"operation"` // "dependencies", "dependents" or "cycles"
	Depth     int    `json:"depth"`
}

// GraphResponse is returned by import_graph.
type GraphResponse struct {
	Operation string     `json:"operation"`
	Target    string     `json:"target,omitempty"`
	Results   []string   `json:"results,omitempty"`
	Cycles    [][]string `json:"cycles,omitempty"`
	Files     int        `json:"files"`
}

type toolSet struct {
	scanner *analysis.Scanner
	files   analysis.FileScanner
	logger  logrus.FieldLogger
}

func (ts *toolSet) register(s *server.MCPServer) {
	fileArg := mcp.WithString("file_path",
		mcp.Required(),
		mcp.Description("Path to the source file"))

	s.AddTool(mcp.NewTool("scan_dependencies",
		mcp.WithDescription("List the import/require/use statements of a source file with their line numbers. Specifiers are returned exactly as written."),
		fileArg,
		mcp.WithReadOnlyHintAnnotation(true),
	), ts.scanDependencies)

	s.AddTool(mcp.NewTool("scan_functions",
		mcp.WithDescription("List function declarations in a source file with approximate start/end lines and body text. Brace languages end at the matching brace; Python ends at the first dedent."),
		fileArg,
		mcp.WithReadOnlyHintAnnotation(true),
	), ts.scanFunctions)

	s.AddTool(mcp.NewTool("scan_annotations",
		mcp.WithDescription("List TODO, FIXME, NOTE, HACK and XXX comments in a file."),
		fileArg,
		mcp.WithReadOnlyHintAnnotation(true),
	), ts.scanAnnotations)

	s.AddTool(mcp.NewTool("scan_file",
		mcp.WithDescription("Run every per-file analysis (dependencies, functions, annotations, resolved imports, token estimate) on one file."),
		fileArg,
		mcp.WithReadOnlyHintAnnotation(true),
	), ts.scanFile)

	s.AddTool(mcp.NewTool("resolve_imports",
		mcp.WithDescription("Resolve the relative imports of a file to files on disk. Package imports and unresolvable specifiers are skipped."),
		fileArg,
		mcp.WithReadOnlyHintAnnotation(true),
	), ts.resolveImports)

	s.AddTool(mcp.NewTool("strip_comments",
		mcp.WithDescription("Remove comments from source text for the language of the given extension. Unknown extensions are returned unchanged."),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Source text")),
		mcp.WithString("extension",
			mcp.Required(),
			mcp.Description("File extension without the dot, e.g. 'ts' or 'py'")),
		mcp.WithBoolean("include_comments",
			mcp.Description("Return the text unchanged (default: false)")),
		mcp.WithReadOnlyHintAnnotation(true),
	), ts.stripComments)

	s.AddTool(mcp.NewTool("detect_project",
		mcp.WithDescription("Guess the project ecosystem of a directory from marker files such as package.json, Cargo.toml or go.mod."),
		mcp.WithString("dir_path",
			mcp.Required(),
			mcp.Description("Directory to inspect")),
		mcp.WithReadOnlyHintAnnotation(true),
	), ts.detectProject)

	s.AddTool(mcp.NewTool("estimate_tokens",
		mcp.WithDescription("Estimate LLM token counts for a piece of text."),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Text to measure")),
		mcp.WithReadOnlyHintAnnotation(true),
	), ts.estimateTokens)

	s.AddTool(mcp.NewTool("import_graph",
		mcp.WithDescription("Scan a directory and query its file import graph: dependencies (what a file imports), dependents (what imports a file) or cycles."),
		mcp.WithString("dir_path",
			mcp.Required(),
			mcp.Description("Project directory to scan")),
		mcp.WithString("operation",
			mcp.Required(),
			mcp.Description("'dependencies', 'dependents' or 'cycles'")),
		mcp.WithString("file_path",
			mcp.Description("Target file, required for dependencies and dependents")),
		mcp.WithNumber("depth",
			mcp.Description("Traversal depth (default: 1, max: 10)")),
		mcp.WithReadOnlyHintAnnotation(true),
	), ts.importGraph)
}

// bindFile binds and validates a FileRequest.
func bindFile(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	var req FileRequest
	if err := mcputils.CoerceBindArguments(request, &req); err != nil {
		return "", mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err))
	}
	if strings.TrimSpace(req.FilePath) == "" {
		return "", mcp.NewToolResultError("file_path parameter is required")
	}
	return req.FilePath, nil
}

func (ts *toolSet) scanDependencies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errResult := bindFile(request)
	if errResult != nil {
		return errResult, nil
	}
	deps, err := ts.scanner.DetectDependencies(path)
	if err != nil {
		return scanErrorResult(err)
	}
	return marshalToolResponse(deps)
}

func (ts *toolSet) scanFunctions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errResult := bindFile(request)
	if errResult != nil {
		return errResult, nil
	}
	funcs, err := ts.scanner.ExtractFunctions(path)
	if err != nil {
		return scanErrorResult(err)
	}
	return marshalToolResponse(funcs)
}

func (ts *toolSet) scanAnnotations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errResult := bindFile(request)
	if errResult != nil {
		return errResult, nil
	}
	notes, err := ts.scanner.ExtractAnnotations(path)
	if err != nil {
		return scanErrorResult(err)
	}
	return marshalToolResponse(notes)
}

func (ts *toolSet) scanFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errResult := bindFile(request)
	if errResult != nil {
		return errResult, nil
	}
	report, err := ts.files.ScanFile(ctx, path)
	if err != nil {
		return scanErrorResult(err)
	}
	return marshalToolResponse(report)
}

func (ts *toolSet) resolveImports(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errResult := bindFile(request)
	if errResult != nil {
		return errResult, nil
	}
	resolved, err := ts.scanner.ResolveImports(path)
	if err != nil {
		return scanErrorResult(err)
	}
	return marshalToolResponse(resolved)
}

func (ts *toolSet) stripComments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var req StripRequest
	if err := mcputils.CoerceBindArguments(request, &req); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if req.Extension == "" {
		return mcp.NewToolResultError("extension parameter is required"), nil
	}
	ext := strings.TrimPrefix(req.Extension, ".")
	return mcp.NewToolResultText(ts.scanner.FilterComments(req.Content, ext, req.IncludeComments)), nil
}

func (ts *toolSet) detectProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var req DirRequest
	if err := mcputils.CoerceBindArguments(request, &req); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if strings.TrimSpace(req.DirPath) == "" {
		return mcp.NewToolResultError("dir_path parameter is required"), nil
	}
	project, err := ts.scanner.DetectProjectType(req.DirPath)
	if err != nil {
		return scanErrorResult(err)
	}
	return marshalToolResponse(project)
}

func (ts *toolSet) estimateTokens(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var req TokensRequest
	if err := mcputils.CoerceBindArguments(request, &req); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	return marshalToolResponse(tokens.EstimateText(req.Content))
}

func (ts *toolSet) importGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var req GraphRequest
	if err := mcputils.CoerceBindArguments(request, &req); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if strings.TrimSpace(req.DirPath) == "" {
		return mcp.NewToolResultError("dir_path parameter is required"), nil
	}

	switch req.Operation {
	case "dependencies", "dependents":
		if strings.TrimSpace(req.FilePath) == "" {
			return mcp.NewToolResultError("file_path parameter is required for " + req.Operation), nil
		}
	case "cycles":
	default:
		return mcp.NewToolResultError(fmt.Sprintf("invalid operation: %s (must be one of: dependencies, dependents, cycles)", req.Operation)), nil
	}

	report, err := analysis.NewBatchScanner(ts.scanner,
		analysis.WithFileScanner(ts.files),
		analysis.WithLogger(ts.logger),
	).Scan(ctx, req.DirPath)
	if err != nil {
		return scanErrorResult(err)
	}

	g, err := report.Graph()
	if err != nil {
		return nil, err
	}

	resp := GraphResponse{
		Operation: req.Operation,
		Files:     len(g.Files()),
	}

	if req.Operation == "cycles" {
		resp.Cycles = report.Cycles
		return marshalToolResponse(resp)
	}

	target, err := filepath.Abs(req.FilePath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp.Target = target
	if req.Operation == "dependencies" {
		resp.Results = g.Dependencies(target, req.Depth)
	} else {
		resp.Results = g.Dependents(target, req.Depth)
	}
	return marshalToolResponse(resp)
}
