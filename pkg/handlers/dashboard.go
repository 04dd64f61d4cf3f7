package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/auth"
	"github.com/lacrosselens/lacrosselens-engine/pkg/services"
)

// DashboardHandler serves the coach dashboard counts.
type DashboardHandler struct {
	dashboardService services.DashboardService
	logger           *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboardService services.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, logger: logger}
}

// RegisterRoutes registers the dashboard handler's routes on the given mux.
func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/dashboard/stats", authMiddleware.RequireAuth(h.Stats))
}

// Stats handles GET /api/dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}
	stats, err := h.dashboardService.Stats(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err, "dashboard_stats_failed")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, stats)
}
