package repositories

import (
	"context"
	"fmt"

	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

// DashboardRepository computes the raw dashboard counts for one user.
type DashboardRepository interface {
	Stats(ctx context.Context, userID string) (*models.DashboardStats, error)
}

type dashboardRepository struct{}

// NewDashboardRepository creates a new dashboard repository.
func NewDashboardRepository() DashboardRepository {
	return &dashboardRepository{}
}

var _ DashboardRepository = (*dashboardRepository)(nil)

// Stats fills every field except HoursSaved, which is a presentation rule
// applied by the service.
func (r *dashboardRepository) Stats(ctx context.Context, userID string) (*models.DashboardStats, error) {
	q, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT
			(SELECT COUNT(*) FROM videos WHERE user_id = $1 AND status = 'completed'),
			(SELECT COUNT(*) FROM videos WHERE user_id = $1),
			(SELECT COUNT(*) FROM videos WHERE user_id = $1 AND status = 'processing'),
			(SELECT COUNT(*) FROM teams WHERE user_id = $1),
			COUNT(a.id),
			COALESCE(AVG(a.confidence), 0)::float8
		FROM analyses a
		JOIN videos v ON v.id = a.video_id
		WHERE v.user_id = $1`

	var s models.DashboardStats
	err = q.QueryRow(ctx, query, userID).Scan(
		&s.VideosAnalyzed, &s.TotalVideos, &s.ProcessingVideos, &s.Teams,
		&s.TotalAnalyses, &s.AverageConfidence,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}
	return &s, nil
}
