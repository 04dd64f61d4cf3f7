package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/audit"
)

// Middleware provides HTTP authentication middleware.
// It is thin and delegates authentication logic to AuthService.
type Middleware struct {
	authService AuthService
	logger      *zap.Logger
}

// NewMiddleware creates a new auth middleware with the given AuthService.
func NewMiddleware(authService AuthService, logger *zap.Logger) *Middleware {
	return &Middleware{
		authService: authService,
		logger:      logger,
	}
}

// RequireAuth accepts a session cookie or a bearer token and stores the
// caller's claims in the request context.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, token, err := m.authService.ValidateRequest(r)
		if err != nil {
			m.unauthorized(w, "Authentication required")
			return
		}
		audit.SetUser(r.Context(), claims.Subject)

		ctx := WithClaims(r.Context(), claims)
		if token != "" {
			ctx = context.WithValue(ctx, TokenKey, token)
		}
		next(w, r.WithContext(ctx))
	}
}

// RequireBearer accepts only a bearer token. Used by the session exchange
// endpoint, which must see a fresh token.
func (m *Middleware) RequireBearer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, token, err := m.authService.ValidateBearer(r)
		if err != nil {
			m.unauthorized(w, "Bearer token required")
			return
		}
		audit.SetUser(r.Context(), claims.Subject)

		ctx := WithClaims(r.Context(), claims)
		ctx = context.WithValue(ctx, TokenKey, token)
		next(w, r.WithContext(ctx))
	}
}

// unauthorized returns a 401 response with JSON error body.
func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}
