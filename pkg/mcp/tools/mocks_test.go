package tools

import (
	"context"

	"github.com/google/uuid"

	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
	"github.com/lacrosselens/lacrosselens-engine/pkg/services"
)

// mockVideoService implements the listing part of services.VideoService.
type mockVideoService struct {
	services.VideoService
	videos  []*models.Video
	err     error
	gotUser string
}

func (m *mockVideoService) List(ctx context.Context, userID string) ([]*models.Video, error) {
	m.gotUser = userID
	return m.videos, m.err
}

type mockStatisticsService struct {
	stats      *models.PlayStatistics
	plays      []models.PlayByPlayEntry
	err        error
	gotUser    string
	gotVideoID uuid.UUID
}

func (m *mockStatisticsService) GetVideoPlayStatistics(ctx context.Context, userID string, videoID uuid.UUID) (*models.PlayStatistics, error) {
	m.gotUser, m.gotVideoID = userID, videoID
	return m.stats, m.err
}

func (m *mockStatisticsService) GetVideoPlayByPlay(ctx context.Context, userID string, videoID uuid.UUID) ([]models.PlayByPlayEntry, error) {
	m.gotUser, m.gotVideoID = userID, videoID
	return m.plays, m.err
}

// mockAnalyticsService implements the read views used by the tools.
type mockAnalyticsService struct {
	services.AnalyticsService
	teams       *models.TeamAnalytics
	points      []*models.CoachingPoint
	performance *models.PlayerPerformance
	err         error
	gotID       uuid.UUID
}

func (m *mockAnalyticsService) TeamAnalytics(ctx context.Context, userID string, videoID uuid.UUID) (*models.TeamAnalytics, error) {
	m.gotID = videoID
	return m.teams, m.err
}

func (m *mockAnalyticsService) CoachingInsights(ctx context.Context, userID string, videoID uuid.UUID) ([]*models.CoachingPoint, error) {
	m.gotID = videoID
	return m.points, m.err
}

func (m *mockAnalyticsService) PlayerPerformance(ctx context.Context, userID string, profileID uuid.UUID) (*models.PlayerPerformance, error) {
	m.gotID = profileID
	return m.performance, m.err
}

var (
	_ services.VideoService      = (*mockVideoService)(nil)
	_ services.StatisticsService = (*mockStatisticsService)(nil)
	_ services.AnalyticsService  = (*mockAnalyticsService)(nil)
)
