package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/auth"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
	"github.com/lacrosselens/lacrosselens-engine/pkg/services"
)

// multipartOverhead is the allowance for form fields on top of the file limit.
const multipartOverhead = 1 << 20

// ============================================================================
// Request/Response Types
// ============================================================================

// SubmitYouTubeRequest for POST /api/videos/youtube
type SubmitYouTubeRequest struct {
	YouTubeURL   string `json:"youtubeUrl"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PlayerNumber string `json:"playerNumber"`
	TeamName     string `json:"teamName"`
	Position     string `json:"position"`
	Level        string `json:"level"`
	UserPrompt   string `json:"userPrompt"`
	TeamID       string `json:"teamId"`
	AnalysisMode string `json:"analysisMode"`
}

// VideoResponse wraps a single video for the submit endpoints.
type VideoResponse struct {
	Video *models.Video `json:"video"`
}

// ============================================================================
// Handler
// ============================================================================

// VideoHandler handles video upload, listing, and processing HTTP requests.
type VideoHandler struct {
	videoService services.VideoService
	statsService services.StatisticsService
	maxUploadMB  int64
	logger       *zap.Logger
}

// NewVideoHandler creates a new video handler.
func NewVideoHandler(
	videoService services.VideoService,
	statsService services.StatisticsService,
	maxUploadMB int64,
	logger *zap.Logger,
) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
		statsService: statsService,
		maxUploadMB:  maxUploadMB,
		logger:       logger,
	}
}

// RegisterRoutes registers the video handler's routes on the given mux.
func (h *VideoHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	base := "/api/videos"

	mux.HandleFunc("POST "+base+"/upload", authMiddleware.RequireAuth(h.Upload))
	mux.HandleFunc("POST "+base+"/youtube", authMiddleware.RequireAuth(h.SubmitYouTube))
	mux.HandleFunc("GET "+base, authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET "+base+"/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("GET "+base+"/{id}/analyses", authMiddleware.RequireAuth(h.Analyses))
	mux.HandleFunc("GET "+base+"/{id}/statistics", authMiddleware.RequireAuth(h.Statistics))
	mux.HandleFunc("GET "+base+"/{id}/play-by-play", authMiddleware.RequireAuth(h.PlayByPlay))
	mux.HandleFunc("POST "+base+"/{id}/retry", authMiddleware.RequireAuth(h.Retry))
	mux.HandleFunc("DELETE "+base+"/{id}", authMiddleware.RequireAuth(h.Delete))

	mux.HandleFunc("GET "+services.ThumbnailRoute+"{filename}", h.Thumbnail)
}

// Upload handles POST /api/videos/upload
func (h *VideoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	limit := h.maxUploadMB<<20 + multipartOverhead
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, h.logger, http.StatusRequestEntityTooLarge, "file_too_large", "Video exceeds the upload limit")
			return
		}
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "Expected a multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("video")
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "missing_file", "A video file is required")
		return
	}
	defer file.Close()

	sub, ok := h.submission(w, submissionFields{
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		PlayerNumber: r.FormValue("playerNumber"),
		TeamName:     r.FormValue("teamName"),
		Position:     r.FormValue("position"),
		Level:        r.FormValue("level"),
		UserPrompt:   r.FormValue("userPrompt"),
		TeamID:       r.FormValue("teamId"),
		AnalysisMode: r.FormValue("analysisMode"),
	})
	if !ok {
		return
	}

	video, err := h.videoService.Upload(r.Context(), userID, sub, services.VideoFile{Name: header.Filename, Reader: file})
	if err != nil {
		writeServiceError(w, h.logger, err, "upload_failed")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, VideoResponse{Video: video})
}

// SubmitYouTube handles POST /api/videos/youtube
func (h *VideoHandler) SubmitYouTube(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	var req SubmitYouTubeRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	if strings.TrimSpace(req.YouTubeURL) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "missing_parameters", "youtubeUrl is required")
		return
	}

	sub, ok := h.submission(w, req.fields())
	if !ok {
		return
	}

	video, err := h.videoService.SubmitYouTube(r.Context(), userID, req.YouTubeURL, sub)
	if err != nil {
		writeServiceError(w, h.logger, err, "youtube_submit_failed")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, VideoResponse{Video: video})
}

type submissionFields struct {
	Title, Description, PlayerNumber, TeamName, Position, Level, UserPrompt, TeamID, AnalysisMode string
}

func (req SubmitYouTubeRequest) fields() submissionFields {
	return submissionFields{
		Title:        req.Title,
		Description:  req.Description,
		PlayerNumber: req.PlayerNumber,
		TeamName:     req.TeamName,
		Position:     req.Position,
		Level:        req.Level,
		UserPrompt:   req.UserPrompt,
		TeamID:       req.TeamID,
		AnalysisMode: req.AnalysisMode,
	}
}

func (h *VideoHandler) submission(w http.ResponseWriter, f submissionFields) (services.VideoSubmission, bool) {
	sub := services.VideoSubmission{
		Title:        f.Title,
		Description:  f.Description,
		PlayerNumber: f.PlayerNumber,
		TeamName:     f.TeamName,
		Position:     f.Position,
		Level:        f.Level,
		UserPrompt:   f.UserPrompt,
		AnalysisMode: models.AnalysisMode(strings.TrimSpace(f.AnalysisMode)),
	}
	if teamID := strings.TrimSpace(f.TeamID); teamID != "" {
		id, err := uuid.Parse(teamID)
		if err != nil {
			writeError(w, h.logger, http.StatusBadRequest, "invalid_team_id", "Invalid team ID format")
			return sub, false
		}
		sub.TeamID = &id
	}
	return sub, true
}

// List handles GET /api/videos
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	videos, err := h.videoService.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err, "list_videos_failed")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, videos)
}

// Get handles GET /api/videos/{id}
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, videoID, ok := h.userAndVideo(w, r)
	if !ok {
		return
	}

	video, err := h.videoService.Get(r.Context(), userID, videoID)
	if err != nil {
		writeServiceError(w, h.logger, err, "get_video_failed")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, video)
}

// Analyses handles GET /api/videos/{id}/analyses
func (h *VideoHandler) Analyses(w http.ResponseWriter, r *http.Request) {
	userID, videoID, ok := h.userAndVideo(w, r)
	if !ok {
		return
	}

	analyses, err := h.videoService.Analyses(r.Context(), userID, videoID)
	if err != nil {
		writeServiceError(w, h.logger, err, "list_analyses_failed")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, analyses)
}

// Statistics handles GET /api/videos/{id}/statistics
func (h *VideoHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	userID, videoID, ok := h.userAndVideo(w, r)
	if !ok {
		return
	}

	stats, err := h.statsService.GetVideoPlayStatistics(r.Context(), userID, videoID)
	if err != nil {
		writeServiceError(w, h.logger, err, "statistics_failed")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, stats)
}

// PlayByPlay handles GET /api/videos/{id}/play-by-play
func (h *VideoHandler) PlayByPlay(w http.ResponseWriter, r *http.Request) {
	userID, videoID, ok := h.userAndVideo(w, r)
	if !ok {
		return
	}

	entries, err := h.statsService.GetVideoPlayByPlay(r.Context(), userID, videoID)
	if err != nil {
		writeServiceError(w, h.logger, err, "play_by_play_failed")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, entries)
}

// Retry handles POST /api/videos/{id}/retry
func (h *VideoHandler) Retry(w http.ResponseWriter, r *http.Request) {
	userID, videoID, ok := h.userAndVideo(w, r)
	if !ok {
		return
	}

	video, err := h.videoService.Retry(r.Context(), userID, videoID)
	if err != nil {
		writeServiceError(w, h.logger, err, "retry_failed")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, video)
}

// Delete handles DELETE /api/videos/{id}
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, videoID, ok := h.userAndVideo(w, r)
	if !ok {
		return
	}

	if err := h.videoService.Delete(r.Context(), userID, videoID); err != nil {
		writeServiceError(w, h.logger, err, "delete_video_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Thumbnail handles GET /api/thumbnails/{filename}
func (h *VideoHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	path, err := h.videoService.ThumbnailPath(r.PathValue("filename"))
	if err != nil {
		writeServiceError(w, h.logger, err, "thumbnail_failed")
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, path)
}

func (h *VideoHandler) userAndVideo(w http.ResponseWriter, r *http.Request) (string, uuid.UUID, bool) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return "", uuid.Nil, false
	}
	videoID, ok := ParseVideoID(w, r, h.logger)
	if !ok {
		return "", uuid.Nil, false
	}
	return userID, videoID, true
}
