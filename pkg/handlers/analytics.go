package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/auth"
	"github.com/lacrosselens/lacrosselens-engine/pkg/services"
)

// AnalyticsHandler serves the derived analytics views.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
	logger           *zap.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(analyticsService services.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, logger: logger}
}

// RegisterRoutes registers the analytics handler's routes on the given mux.
func (h *AnalyticsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	base := "/api/analytics"

	mux.HandleFunc("GET "+base+"/videos/{id}/players", authMiddleware.RequireAuth(h.Players))
	mux.HandleFunc("GET "+base+"/players/{profileId}/performance", authMiddleware.RequireAuth(h.PlayerPerformance))
	mux.HandleFunc("GET "+base+"/videos/{id}/teams", authMiddleware.RequireAuth(h.Teams))
	mux.HandleFunc("GET "+base+"/videos/{id}/game-flow", authMiddleware.RequireAuth(h.GameFlow))
	mux.HandleFunc("GET "+base+"/videos/{id}/faceoffs", authMiddleware.RequireAuth(h.Faceoffs))
	mux.HandleFunc("GET "+base+"/videos/{id}/coaching-insights", authMiddleware.RequireAuth(h.CoachingInsights))
}

// videoView runs a per-video read and writes its result.
func videoView[T any](h *AnalyticsHandler, w http.ResponseWriter, r *http.Request, failureCode string,
	read func(ctx context.Context, userID string, videoID uuid.UUID) (T, error),
) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}
	videoID, ok := ParseVideoID(w, r, h.logger)
	if !ok {
		return
	}
	out, err := read(r.Context(), userID, videoID)
	if err != nil {
		writeServiceError(w, h.logger, err, failureCode)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, out)
}

// Players handles GET /api/analytics/videos/{id}/players
func (h *AnalyticsHandler) Players(w http.ResponseWriter, r *http.Request) {
	videoView(h, w, r, "video_players_failed", h.analyticsService.VideoPlayers)
}

// PlayerPerformance handles GET /api/analytics/players/{profileId}/performance
func (h *AnalyticsHandler) PlayerPerformance(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}
	profileID, ok := ParseProfileID(w, r, h.logger)
	if !ok {
		return
	}
	perf, err := h.analyticsService.PlayerPerformance(r.Context(), userID, profileID)
	if err != nil {
		writeServiceError(w, h.logger, err, "player_performance_failed")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, perf)
}

// Teams handles GET /api/analytics/videos/{id}/teams
func (h *AnalyticsHandler) Teams(w http.ResponseWriter, r *http.Request) {
	videoView(h, w, r, "team_analytics_failed", h.analyticsService.TeamAnalytics)
}

// GameFlow handles GET /api/analytics/videos/{id}/game-flow
func (h *AnalyticsHandler) GameFlow(w http.ResponseWriter, r *http.Request) {
	videoView(h, w, r, "game_flow_failed", h.analyticsService.GameFlow)
}

// Faceoffs handles GET /api/analytics/videos/{id}/faceoffs
func (h *AnalyticsHandler) Faceoffs(w http.ResponseWriter, r *http.Request) {
	videoView(h, w, r, "faceoff_analytics_failed", h.analyticsService.FaceoffAnalytics)
}

// CoachingInsights handles GET /api/analytics/videos/{id}/coaching-insights
func (h *AnalyticsHandler) CoachingInsights(w http.ResponseWriter, r *http.Request) {
	videoView(h, w, r, "coaching_insights_failed", h.analyticsService.CoachingInsights)
}
