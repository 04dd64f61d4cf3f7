package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/auth"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
	"github.com/lacrosselens/lacrosselens-engine/pkg/services"
)

// CreateTeamRequest for POST /api/teams
type CreateTeamRequest struct {
	Name  string  `json:"name"`
	Level *string `json:"level,omitempty"`
}

// AddPlayerRequest for POST /api/teams/{id}/players
type AddPlayerRequest struct {
	Name         string  `json:"name"`
	JerseyNumber *string `json:"jerseyNumber,omitempty"`
	Position     *string `json:"position,omitempty"`
}

// TeamHandler handles team and roster HTTP requests.
type TeamHandler struct {
	teamService services.TeamService
	logger      *zap.Logger
}

// NewTeamHandler creates a new team handler.
func NewTeamHandler(teamService services.TeamService, logger *zap.Logger) *TeamHandler {
	return &TeamHandler{teamService: teamService, logger: logger}
}

// RegisterRoutes registers the team handler's routes on the given mux.
func (h *TeamHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/teams", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/teams", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/teams/{id}/players", authMiddleware.RequireAuth(h.ListPlayers))
	mux.HandleFunc("POST /api/teams/{id}/players", authMiddleware.RequireAuth(h.AddPlayer))
}

// List handles GET /api/teams
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}
	teams, err := h.teamService.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err, "list_teams_failed")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, teams)
}

// Create handles POST /api/teams
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}
	var req CreateTeamRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	team, err := h.teamService.Create(r.Context(), userID, req.Name, req.Level)
	if err != nil {
		writeServiceError(w, h.logger, err, "create_team_failed")
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, team)
}

// ListPlayers handles GET /api/teams/{id}/players
func (h *TeamHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}
	teamID, ok := ParseTeamID(w, r, h.logger)
	if !ok {
		return
	}
	players, err := h.teamService.ListPlayers(r.Context(), userID, teamID)
	if err != nil {
		writeServiceError(w, h.logger, err, "list_players_failed")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, players)
}

// AddPlayer handles POST /api/teams/{id}/players
func (h *TeamHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}
	teamID, ok := ParseTeamID(w, r, h.logger)
	if !ok {
		return
	}
	var req AddPlayerRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	player, err := h.teamService.AddPlayer(r.Context(), userID, teamID, &models.Player{
		Name:         req.Name,
		JerseyNumber: req.JerseyNumber,
		Position:     req.Position,
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "add_player_failed")
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, player)
}
