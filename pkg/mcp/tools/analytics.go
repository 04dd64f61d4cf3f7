// Package tools provides the MCP tools that expose game analytics to
// assistant clients.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/auth"
	"github.com/lacrosselens/lacrosselens-engine/pkg/extraction"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
	"github.com/lacrosselens/lacrosselens-engine/pkg/services"
)

// AnalyticsToolDeps contains dependencies for the analytics tools.
type AnalyticsToolDeps struct {
	Videos     services.VideoService
	Statistics services.StatisticsService
	Analytics  services.AnalyticsService
	Logger     *zap.Logger
}

// videoSummary is the compact listing returned by list_videos.
type videoSummary struct {
	ID        uuid.UUID          `json:"id"`
	Title     string             `json:"title"`
	Status    models.VideoStatus `json:"status"`
	TeamName  *string            `json:"team_name,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

type listVideosResult struct {
	Videos []videoSummary `json:"videos"`
	Count  int            `json:"count"`
}

type playByPlayResult struct {
	VideoID uuid.UUID                `json:"video_id"`
	Plays   []models.PlayByPlayEntry `json:"plays"`
	Total   int                      `json:"total"`
}

type classifyResult struct {
	Plays []extraction.ClassifiedPlay `json:"plays"`
}

const maxClassifyLength = 10000

// RegisterAnalyticsTools registers the video and analytics tools.
func RegisterAnalyticsTools(s *server.MCPServer, deps *AnalyticsToolDeps) {
	videoID := mcp.WithString("video_id",
		mcp.Required(),
		mcp.Description("ID of the video, as returned by list_videos"),
	)

	s.AddTool(mcp.NewTool(
		"list_videos",
		mcp.WithDescription("List the caller's game videos with their processing status. "+
			"Only videos with status 'completed' have analytics."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	), deps.listVideos)

	s.AddTool(mcp.NewTool(
		"get_play_statistics",
		mcp.WithDescription("Count goals, assists, saves, shots, turnovers, ground balls, face-offs, clears and "+
			"transitions found in a video's analyses."),
		videoID,
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	), deps.getPlayStatistics)

	s.AddTool(mcp.NewTool(
		"get_play_by_play",
		mcp.WithDescription("Chronological list of detected plays with timestamps, players and the analysis text "+
			"each play came from."),
		videoID,
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of plays to return (default: all)"),
			mcp.Min(1),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	), deps.getPlayByPlay)

	s.AddTool(mcp.NewTool(
		"get_team_analytics",
		mcp.WithDescription("Per-team event counts, success rates, average player ratings and observed formations "+
			"for a video."),
		videoID,
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	), deps.getTeamAnalytics)

	s.AddTool(mcp.NewTool(
		"get_coaching_insights",
		mcp.WithDescription("Prioritized coaching points for a video: player skill gaps and strengths plus team "+
			"patterns such as face-off losses, failed transitions and penalties."),
		videoID,
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	), deps.getCoachingInsights)

	s.AddTool(mcp.NewTool(
		"get_player_performance",
		mcp.WithDescription("Skill ratings, strengths, weaknesses and event history for one player profile."),
		mcp.WithString("profile_id",
			mcp.Required(),
			mcp.Description("ID of the player profile"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	), deps.getPlayerPerformance)

	s.AddTool(mcp.NewTool(
		"classify_play_text",
		mcp.WithDescription("Classify a free-text play description into play types (goal, save, face_off, ...) "+
			"and whether each play succeeded. Uses the same rules as video statistics."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Play description to classify"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	), deps.classifyPlayText)
}

func (d *AnalyticsToolDeps) listVideos(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, errResult := callerID(ctx)
	if errResult != nil {
		return errResult, nil
	}

	videos, err := d.Videos.List(ctx, userID)
	if err != nil {
		return d.serviceError("list_videos", err)
	}

	out := listVideosResult{Videos: make([]videoSummary, 0, len(videos))}
	for _, v := range videos {
		out.Videos = append(out.Videos, videoSummary{
			ID:        v.ID,
			Title:     v.Title,
			Status:    v.Status,
			TeamName:  v.TeamName,
			CreatedAt: v.CreatedAt,
		})
	}
	out.Count = len(out.Videos)
	return jsonResult(out)
}

func (d *AnalyticsToolDeps) getPlayStatistics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, videoID, errResult := videoArgs(ctx, req)
	if errResult != nil {
		return errResult, nil
	}
	stats, err := d.Statistics.GetVideoPlayStatistics(ctx, userID, videoID)
	if err != nil {
		return d.serviceError("get_play_statistics", err)
	}
	return jsonResult(stats)
}

func (d *AnalyticsToolDeps) getPlayByPlay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, videoID, errResult := videoArgs(ctx, req)
	if errResult != nil {
		return errResult, nil
	}
	limit := req.GetInt("limit", 0)
	if limit < 0 {
		return NewErrorResult("invalid_parameters", "limit must be positive"), nil
	}

	plays, err := d.Statistics.GetVideoPlayByPlay(ctx, userID, videoID)
	if err != nil {
		return d.serviceError("get_play_by_play", err)
	}

	out := playByPlayResult{VideoID: videoID, Plays: plays, Total: len(plays)}
	if limit > 0 && len(plays) > limit {
		out.Plays = plays[:limit]
	}
	if out.Plays == nil {
		out.Plays = []models.PlayByPlayEntry{}
	}
	return jsonResult(out)
}

func (d *AnalyticsToolDeps) getTeamAnalytics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, videoID, errResult := videoArgs(ctx, req)
	if errResult != nil {
		return errResult, nil
	}
	teams, err := d.Analytics.TeamAnalytics(ctx, userID, videoID)
	if err != nil {
		return d.serviceError("get_team_analytics", err)
	}
	return jsonResult(teams)
}

func (d *AnalyticsToolDeps) getCoachingInsights(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, videoID, errResult := videoArgs(ctx, req)
	if errResult != nil {
		return errResult, nil
	}
	points, err := d.Analytics.CoachingInsights(ctx, userID, videoID)
	if err != nil {
		return d.serviceError("get_coaching_insights", err)
	}
	return jsonResult(points)
}

func (d *AnalyticsToolDeps) getPlayerPerformance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, errResult := callerID(ctx)
	if errResult != nil {
		return errResult, nil
	}
	profileID, errResult := uuidArg(req, "profile_id")
	if errResult != nil {
		return errResult, nil
	}
	perf, err := d.Analytics.PlayerPerformance(ctx, userID, profileID)
	if err != nil {
		return d.serviceError("get_player_performance", err)
	}
	return jsonResult(perf)
}

func (d *AnalyticsToolDeps) classifyPlayText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return NewErrorResult("invalid_parameters", err.Error()), nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return NewErrorResult("invalid_parameters", "text cannot be empty"), nil
	}
	if len(text) > maxClassifyLength {
		return NewErrorResultWithDetails("invalid_parameters", "text is too long",
			map[string]any{"max_length": maxClassifyLength, "length": len(text)}), nil
	}
	return jsonResult(classifyResult{Plays: extraction.Classify(text)})
}

// serviceError turns a service failure into a tool error result, or a Go
// error when the failure is not the caller's to fix.
func (d *AnalyticsToolDeps) serviceError(tool string, err error) (*mcp.CallToolResult, error) {
	if result := NewServiceErrorResult(err); result != nil {
		d.Logger.Debug("Tool input error", zap.String("tool", tool), zap.Error(err))
		return result, nil
	}
	d.Logger.Error("Tool failed", zap.String("tool", tool), zap.Error(err))
	return nil, fmt.Errorf("%s failed: %w", tool, err)
}

func callerID(ctx context.Context) (string, *mcp.CallToolResult) {
	userID, err := auth.RequireUserIDFromContext(ctx)
	if err != nil {
		return "", NewErrorResult("unauthorized", "authentication required")
	}
	return userID, nil
}

func videoArgs(ctx context.Context, req mcp.CallToolRequest) (string, uuid.UUID, *mcp.CallToolResult) {
	userID, errResult := callerID(ctx)
	if errResult != nil {
		return "", uuid.Nil, errResult
	}
	videoID, errResult := uuidArg(req, "video_id")
	if errResult != nil {
		return "", uuid.Nil, errResult
	}
	return userID, videoID, nil
}

func uuidArg(req mcp.CallToolRequest, name string) (uuid.UUID, *mcp.CallToolResult) {
	raw, err := req.RequireString(name)
	if err != nil {
		return uuid.Nil, NewErrorResult("invalid_parameters", err.Error())
	}
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, NewErrorResultWithDetails("invalid_parameters",
			fmt.Sprintf("%s must be a UUID", name),
			map[string]any{"parameter": name, "value": raw})
	}
	return id, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}
