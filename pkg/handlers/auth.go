package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/apperrors"
	"github.com/lacrosselens/lacrosselens-engine/pkg/auth"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
	"github.com/lacrosselens/lacrosselens-engine/pkg/services"
)

// LogoutResponse represents the response for logout.
type LogoutResponse struct {
	Success bool `json:"success"`
}

// AuthHandler handles session exchange and the current-user endpoint.
type AuthHandler struct {
	authService auth.AuthService
	userService services.UserService
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService auth.AuthService, userService services.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers the auth handler's routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/auth/session", authMiddleware.RequireBearer(h.StartSession))
	mux.HandleFunc("GET /api/auth/user", authMiddleware.RequireAuth(h.CurrentUser))
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
}

// StartSession handles POST /api/auth/session
// Exchanges a verified bearer token for a session cookie and records the user.
func (h *AuthHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok || claims.Subject == "" {
		writeError(w, h.logger, http.StatusUnauthorized, "unauthorized", "Bearer token required")
		return
	}

	user, err := h.userService.Ensure(r.Context(), claims.Subject, claims.Email, claims.Name)
	if err != nil {
		writeServiceError(w, h.logger, err, "session_failed")
		return
	}

	if err := h.authService.StartSession(w, r, claims); err != nil {
		h.logger.Error("Failed to start session",
			zap.String("user_id", claims.Subject),
			zap.Error(err))
		writeError(w, h.logger, http.StatusInternalServerError, "session_failed", "Failed to start session")
		return
	}

	h.logger.Info("Session started", zap.String("user_id", claims.Subject))
	writeJSON(w, h.logger, http.StatusOK, user)
}

// CurrentUser handles GET /api/auth/user
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok || claims.Subject == "" {
		writeError(w, h.logger, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	user, err := h.userService.Get(r.Context(), claims.Subject)
	if errors.Is(err, apperrors.ErrNotFound) {
		// Bearer callers that never opened a session have no stored row yet.
		user = &models.User{ID: claims.Subject, Email: claims.Email, Name: claims.Name}
	} else if err != nil {
		writeServiceError(w, h.logger, err, "get_user_failed")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, user)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.EndSession(w, r); err != nil {
		h.logger.Warn("Failed to end session", zap.Error(err))
	}
	writeJSON(w, h.logger, http.StatusOK, LogoutResponse{Success: true})
}
