package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

// RollupRepository defines data access for the per-video reporting rollups:
// team formations, game flow windows and coaching points.
type RollupRepository interface {
	CreateFormation(ctx context.Context, f *models.TeamFormation) error
	ListFormations(ctx context.Context, videoID uuid.UUID) ([]*models.TeamFormation, error)

	// ReplaceGameFlow swaps the stored windows of a video for flows.
	ReplaceGameFlow(ctx context.Context, videoID uuid.UUID, flows []*models.GameFlow) error
	ListGameFlow(ctx context.Context, videoID uuid.UUID) ([]*models.GameFlow, error)

	// ReplaceCoachingPoints swaps the stored coaching points of a video for points.
	ReplaceCoachingPoints(ctx context.Context, videoID uuid.UUID, points []*models.CoachingPoint) error
	ListCoachingPoints(ctx context.Context, videoID uuid.UUID) ([]*models.CoachingPoint, error)
}

type rollupRepository struct{}

// NewRollupRepository creates a new rollup repository.
func NewRollupRepository() RollupRepository {
	return &rollupRepository{}
}

var _ RollupRepository = (*rollupRepository)(nil)

func (r *rollupRepository) CreateFormation(ctx context.Context, f *models.TeamFormation) error {
	q, err := conn(ctx)
	if err != nil {
		return err
	}

	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.CreatedAt = time.Now()

	_, err = q.Exec(ctx, `
		INSERT INTO team_formations (id, video_id, timestamp, team, formation_type, formation, effectiveness, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		f.ID, f.VideoID, f.Timestamp, f.Team, f.FormationType, f.Formation, f.Effectiveness, f.Source, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create team formation: %w", err)
	}
	return nil
}

func (r *rollupRepository) ListFormations(ctx context.Context, videoID uuid.UUID) ([]*models.TeamFormation, error) {
	q, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
		SELECT id, video_id, timestamp, team, formation_type, formation, effectiveness, source, created_at
		FROM team_formations
		WHERE video_id = $1
		ORDER BY timestamp NULLS LAST, created_at`, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team formations: %w", err)
	}
	defer rows.Close()

	return collect(rows, func(row pgx.Rows) (*models.TeamFormation, error) {
		var f models.TeamFormation
		err := row.Scan(&f.ID, &f.VideoID, &f.Timestamp, &f.Team, &f.FormationType,
			&f.Formation, &f.Effectiveness, &f.Source, &f.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team formation: %w", err)
		}
		return &f, nil
	})
}

func (r *rollupRepository) ReplaceGameFlow(ctx context.Context, videoID uuid.UUID, flows []*models.GameFlow) error {
	q, err := conn(ctx)
	if err != nil {
		return err
	}

	if _, err := q.Exec(ctx, `DELETE FROM game_flow WHERE video_id = $1`, videoID); err != nil {
		return fmt.Errorf("failed to clear game flow: %w", err)
	}

	now := time.Now()
	for _, g := range flows {
		if g.ID == uuid.Nil {
			g.ID = uuid.New()
		}
		g.VideoID = videoID
		g.CreatedAt = now
		teamEvents, err := json.Marshal(g.TeamEvents)
		if err != nil {
			return fmt.Errorf("failed to encode team events: %w", err)
		}
		_, err = q.Exec(ctx, `
			INSERT INTO game_flow (id, video_id, window_start, window_end, event_count, team_events, dominant_team, momentum, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			g.ID, g.VideoID, g.WindowStart, g.WindowEnd, g.EventCount, teamEvents, g.DominantTeam, g.Momentum, g.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create game flow window: %w", err)
		}
	}
	return nil
}

func (r *rollupRepository) ListGameFlow(ctx context.Context, videoID uuid.UUID) ([]*models.GameFlow, error) {
	q, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
		SELECT id, video_id, window_start, window_end, event_count, team_events, dominant_team, momentum, created_at
		FROM game_flow
		WHERE video_id = $1
		ORDER BY window_start`, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list game flow: %w", err)
	}
	defer rows.Close()

	return collect(rows, func(row pgx.Rows) (*models.GameFlow, error) {
		var g models.GameFlow
		var teamEvents []byte
		err := row.Scan(&g.ID, &g.VideoID, &g.WindowStart, &g.WindowEnd, &g.EventCount,
			&teamEvents, &g.DominantTeam, &g.Momentum, &g.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game flow: %w", err)
		}
		g.TeamEvents = map[string]int{}
		if err := json.Unmarshal(teamEvents, &g.TeamEvents); err != nil {
			return nil, fmt.Errorf("failed to decode team events: %w", err)
		}
		return &g, nil
	})
}

func (r *rollupRepository) ReplaceCoachingPoints(ctx context.Context, videoID uuid.UUID, points []*models.CoachingPoint) error {
	q, err := conn(ctx)
	if err != nil {
		return err
	}

	if _, err := q.Exec(ctx, `DELETE FROM coaching_points WHERE video_id = $1`, videoID); err != nil {
		return fmt.Errorf("failed to clear coaching points: %w", err)
	}

	now := time.Now()
	for _, p := range points {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		p.VideoID = videoID
		p.CreatedAt = now
		_, err := q.Exec(ctx, `
			INSERT INTO coaching_points (id, video_id, player_profile_id, category, priority, title, detail, timestamp, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			p.ID, p.VideoID, p.PlayerProfileID, p.Category, p.Priority, p.Title, p.Detail, p.Timestamp, p.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create coaching point: %w", err)
		}
	}
	return nil
}

func (r *rollupRepository) ListCoachingPoints(ctx context.Context, videoID uuid.UUID) ([]*models.CoachingPoint, error) {
	q, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
		SELECT id, video_id, player_profile_id, category, priority, title, detail, timestamp, created_at
		FROM coaching_points
		WHERE video_id = $1
		ORDER BY CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, timestamp NULLS LAST, title`, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list coaching points: %w", err)
	}
	defer rows.Close()

	return collect(rows, func(row pgx.Rows) (*models.CoachingPoint, error) {
		var p models.CoachingPoint
		err := row.Scan(&p.ID, &p.VideoID, &p.PlayerProfileID, &p.Category, &p.Priority,
			&p.Title, &p.Detail, &p.Timestamp, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coaching point: %w", err)
		}
		return &p, nil
	})
}
