package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// TaskCounter reports how many video analyses are running.
type TaskCounter interface {
	ActiveCount() int
}

type healthResult struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	ActiveTasks int    `json:"active_tasks"`
}

// RegisterHealthTool adds a health check tool to the MCP server.
// The tool returns the server status, version and running analysis count.
func RegisterHealthTool(s *server.MCPServer, version string, tasks TaskCounter) {
	tool := mcp.NewTool(
		"health",
		mcp.WithDescription("Returns server health status, version and the number of video analyses in progress"),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res := healthResult{Status: "ok", Version: version}
		if tasks != nil {
			res.ActiveTasks = tasks.ActiveCount()
		}
		result, err := json.Marshal(res)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal health result: %w", err)
		}
		return mcp.NewToolResultText(string(result)), nil
	})
}
