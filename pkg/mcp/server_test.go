package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewServer(t *testing.T) {
	logger := zap.NewNop()
	s := NewServer("test-server", "1.0.0", logger)

	require.NotNil(t, s)
	assert.NotNil(t, s.mcp)
	assert.Same(t, logger, s.logger)
	assert.Same(t, s.mcp, s.MCP())
}

func TestServer_InitializeReturnsInstructions(t *testing.T) {
	s := NewServer("lacrosselens-engine", "1.0.0", zap.NewNop())

	raw, err := json.Marshal(s.MCP().HandleMessage(context.Background(), []byte(
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`)))
	require.NoError(t, err)

	var response struct {
		Result struct {
			Instructions string `json:"instructions"`
			ServerInfo   struct {
				Name string `json:"name"`
			} `json:"serverInfo"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &response))
	assert.Equal(t, "lacrosselens-engine", response.Result.ServerInfo.Name)
	assert.Contains(t, response.Result.Instructions, "list_videos")
}

func TestServer_RegisterTool(t *testing.T) {
	s := NewServer("test-server", "1.0.0", zap.NewNop())

	calls := 0
	s.RegisterTool(mcp.NewTool("echo", mcp.WithDescription("Echo")), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		calls++
		return mcp.NewToolResultText("pong"), nil
	})
	assert.Zero(t, calls, "handler should not run during registration")

	raw, err := json.Marshal(s.MCP().HandleMessage(context.Background(), []byte(
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"echo"}}`)))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, string(raw), "pong")
}

func TestServer_RecoversFromToolPanic(t *testing.T) {
	s := NewServer("test-server", "1.0.0", zap.NewNop())
	s.RegisterTool(mcp.NewTool("boom"), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		panic("unexpected")
	})

	raw, err := json.Marshal(s.MCP().HandleMessage(context.Background(), []byte(
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"boom"}}`)))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"error"`)
}

func TestServer_NewStreamableHTTPServer(t *testing.T) {
	s := NewServer("test-server", "1.0.0", zap.NewNop())
	assert.NotNil(t, s.NewStreamableHTTPServer())
}
