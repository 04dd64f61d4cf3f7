package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
	"github.com/lacrosselens/lacrosselens-engine/pkg/repositories"
)

// hoursSavedPerVideo is the manual review time one analyzed video replaces.
const hoursSavedPerVideo = 2

// DashboardService serves a coach's aggregate counts. Results are cached in
// redis per user when a client is configured.
type DashboardService interface {
	StatsInvalidator
	Stats(ctx context.Context, userID string) (*models.DashboardStats, error)
}

type dashboardService struct {
	repo   repositories.DashboardRepository
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewDashboardService creates the dashboard service. A nil redis client
// disables caching.
func NewDashboardService(repo repositories.DashboardRepository, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		redis:  rdb,
		ttl:    ttl,
		logger: logger.Named("dashboard"),
	}
}

var _ DashboardService = (*dashboardService)(nil)

func statsKey(userID string) string {
	return "lacrosselens:stats:" + userID
}

func (s *dashboardService) Stats(ctx context.Context, userID string) (*models.DashboardStats, error) {
	if cached := s.cached(ctx, userID); cached != nil {
		return cached, nil
	}

	stats, err := s.repo.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.HoursSaved = float64(stats.VideosAnalyzed * hoursSavedPerVideo)

	s.store(ctx, userID, stats)
	return stats, nil
}

// cached returns nil on a miss or on any cache failure.
func (s *dashboardService) cached(ctx context.Context, userID string) *models.DashboardStats {
	if s.redis == nil {
		return nil
	}
	raw, err := s.redis.Get(ctx, statsKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("Stats cache read failed", zap.String("user_id", userID), zap.Error(err))
		}
		return nil
	}
	var stats models.DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		s.logger.Warn("Discarding malformed cached stats", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	return &stats
}

func (s *dashboardService) store(ctx context.Context, userID string, stats *models.DashboardStats) {
	if s.redis == nil || s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, statsKey(userID), raw, s.ttl).Err(); err != nil {
		s.logger.Warn("Stats cache write failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *dashboardService) Invalidate(ctx context.Context, userID string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, statsKey(userID)).Err(); err != nil {
		s.logger.Warn("Stats cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}
