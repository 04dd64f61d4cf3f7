// Package mcpauth authenticates MCP clients. It wraps the core auth service
// with RFC 6750 Bearer token error responses, which MCP clients use to start
// their OAuth flow.
package mcpauth

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/audit"
	"github.com/lacrosselens/lacrosselens-engine/pkg/auth"
)

// Middleware provides MCP-specific authentication middleware.
type Middleware struct {
	authService auth.AuthService
	logger      *zap.Logger
}

// NewMiddleware creates a new MCP auth middleware.
func NewMiddleware(authService auth.AuthService, logger *zap.Logger) *Middleware {
	return &Middleware{
		authService: authService,
		logger:      logger,
	}
}

// RequireAuth accepts a bearer token or a session cookie and stores the
// caller's claims in the request context. Failures carry a
// WWW-Authenticate challenge.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, token, err := m.authService.ValidateRequest(r)
		if err != nil {
			m.logger.Debug("MCP auth failed: invalid or missing token",
				zap.String("path", r.URL.Path),
				zap.Error(err))
			m.writeWWWAuthenticate(w, http.StatusUnauthorized, "invalid_token", "The access token is invalid or expired")
			return
		}
		if claims.Subject == "" {
			m.writeWWWAuthenticate(w, http.StatusUnauthorized, "invalid_token", "The access token has no subject")
			return
		}
		audit.SetUser(r.Context(), claims.Subject)

		ctx := auth.WithClaims(r.Context(), claims)
		if token != "" {
			ctx = context.WithValue(ctx, auth.TokenKey, token)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// writeWWWAuthenticate writes an RFC 6750 Bearer token error response.
// See: https://datatracker.ietf.org/doc/html/rfc6750#section-3
func (m *Middleware) writeWWWAuthenticate(w http.ResponseWriter, status int, errorCode, description string) {
	headerValue := `Bearer error="` + errorCode + `", error_description="` + description + `"`
	w.Header().Set("WWW-Authenticate", headerValue)
	w.WriteHeader(status)
}
