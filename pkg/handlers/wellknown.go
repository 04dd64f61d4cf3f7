package handlers

import (
	"net/http"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/config"
)

// ProtectedResourceMetadata represents OAuth 2.0 Protected Resource Metadata (RFC 9728).
// MCP clients read it to find the identity provider that issues tokens for /mcp.
type ProtectedResourceMetadata struct {
	Resource               string   `json:"resource"`
	AuthorizationServers   []string `json:"authorization_servers"`
	BearerMethodsSupported []string `json:"bearer_methods_supported"`
	ResourceName           string   `json:"resource_name,omitempty"`
}

// WellKnownHandler handles /.well-known/* endpoints.
type WellKnownHandler struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewWellKnownHandler creates a new WellKnownHandler.
func NewWellKnownHandler(cfg *config.Config, logger *zap.Logger) *WellKnownHandler {
	return &WellKnownHandler{
		cfg:    cfg,
		logger: logger,
	}
}

// RegisterRoutes registers well-known endpoints.
func (h *WellKnownHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /.well-known/oauth-protected-resource", h.ProtectedResource)
	mux.HandleFunc("GET /.well-known/oauth-protected-resource/mcp", h.ProtectedResource)
}

// ProtectedResource serves the metadata for the MCP endpoint. The
// authorization servers are the configured JWKS issuers.
func (h *WellKnownHandler) ProtectedResource(w http.ResponseWriter, r *http.Request) {
	issuers := make([]string, 0, len(h.cfg.Auth.JWKSEndpoints))
	for issuer := range h.cfg.Auth.JWKSEndpoints {
		issuers = append(issuers, issuer)
	}
	slices.Sort(issuers)

	metadata := ProtectedResourceMetadata{
		Resource:               strings.TrimSuffix(h.cfg.BaseURL, "/") + "/mcp",
		AuthorizationServers:   issuers,
		BearerMethodsSupported: []string{"header"},
		ResourceName:           "LacrosseLens",
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	if err := WriteJSON(w, http.StatusOK, metadata); err != nil {
		h.logger.Error("Failed to encode protected resource metadata", zap.Error(err))
	}
}
