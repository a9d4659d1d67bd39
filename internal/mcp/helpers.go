package mcp

import (
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mvp-joe/sourcelens/internal/analysis"
)

// marshalToolResponse marshals a response object to JSON and returns it as an MCP tool result.
func marshalToolResponse(response any) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(response)
	if err != nil {
		return nil, analysis.SerializationError("tool response", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// scanErrorResult turns scanner failures into tool errors the client can read.
// Anything that is not a ScanError is returned as a protocol error.
func scanErrorResult(err error) (*mcp.CallToolResult, error) {
	var se *analysis.ScanError
	if errors.As(err, &se) {
		return mcp.NewToolResultError(se.Error()), nil
	}
	return nil, err
}
