package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/auth"
	"github.com/lacrosselens/lacrosselens-engine/pkg/mcp"
	mcpauth "github.com/lacrosselens/lacrosselens-engine/pkg/mcp/auth"
	"github.com/lacrosselens/lacrosselens-engine/pkg/mcp/tools"
)

func newTestMCPMux(t *testing.T, authService auth.AuthService) *http.ServeMux {
	t.Helper()
	logger := zap.NewNop()
	mcpServer := mcp.NewServer("test", "test-version", logger)
	tools.RegisterHealthTool(mcpServer.MCP(), "test-version", nil)

	mux := http.NewServeMux()
	NewMCPHandler(mcpServer, logger).RegisterRoutes(mux, mcpauth.NewMiddleware(authService, logger))
	return mux
}

func passingAuth() *mockAuthService {
	return &mockAuthService{
		claims: &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: testUserID}},
		token:  "test-token",
	}
}

func postMCP(mux *http.ServeMux, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestNewMCPHandler(t *testing.T) {
	logger := zap.NewNop()
	handler := NewMCPHandler(mcp.NewServer("test", "1.0.0", logger), logger)

	require.NotNil(t, handler)
	assert.NotNil(t, handler.httpServer)
	assert.Same(t, logger, handler.logger)
}

func TestMCPHandler_ToolsList(t *testing.T) {
	rec := postMCP(newTestMCPMux(t, passingAuth()), `{"jsonrpc":"2.0","method":"tools/list","id":1}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var response map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "2.0", response["jsonrpc"])
	assert.Equal(t, float64(1), response["id"])
}

func TestMCPHandler_ToolsCall(t *testing.T) {
	rec := postMCP(newTestMCPMux(t, passingAuth()),
		`{"jsonrpc":"2.0","method":"tools/call","params":{"name":"health"},"id":1}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var response struct {
		Result struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	require.NotEmpty(t, response.Result.Content)

	var health struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	require.NoError(t, json.Unmarshal([]byte(response.Result.Content[0].Text), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "test-version", health.Version)
}

func TestMCPHandler_RejectsNonPOST(t *testing.T) {
	mux := newTestMCPMux(t, passingAuth())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mcp", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "POST", rec.Header().Get("Allow"))
}

func TestMCPHandler_RequiresAuth(t *testing.T) {
	rec := postMCP(newTestMCPMux(t, &mockAuthService{validateErr: errors.New("no token")}),
		`{"jsonrpc":"2.0","method":"tools/list","id":1}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), `error="invalid_token"`)
}
