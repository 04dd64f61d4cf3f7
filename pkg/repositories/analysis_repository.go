package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

// AnalysisRepository defines data access for analyses. Analyses are
// append-only; a reprocessing run clears them through ClearDerived.
type AnalysisRepository interface {
	Create(ctx context.Context, a *models.Analysis) error
	ListByVideo(ctx context.Context, videoID uuid.UUID) ([]*models.Analysis, error)
	CountByVideo(ctx context.Context, videoID uuid.UUID) (int, error)

	// ClearDerived removes every analysis, profile and rollup of a video.
	// Play events and their details go with the analyses by cascade.
	ClearDerived(ctx context.Context, videoID uuid.UUID) error
}

type analysisRepository struct{}

// NewAnalysisRepository creates a new analysis repository.
func NewAnalysisRepository() AnalysisRepository {
	return &analysisRepository{}
}

var _ AnalysisRepository = (*analysisRepository)(nil)

func (r *analysisRepository) Create(ctx context.Context, a *models.Analysis) error {
	q, err := conn(ctx)
	if err != nil {
		return err
	}

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	if a.PlayerIDs == nil {
		a.PlayerIDs = []string{}
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}

	metadata, err := models.EncodeMetadata(a.Type, a.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	_, err = q.Exec(ctx, `
		INSERT INTO analyses (
			id, video_id, type, title, content, timestamp, confidence,
			metadata, player_ids, tags, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		a.ID, a.VideoID, a.Type, a.Title, a.Content, a.Timestamp, a.Confidence,
		metadata, a.PlayerIDs, a.Tags, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

func (r *analysisRepository) ListByVideo(ctx context.Context, videoID uuid.UUID) ([]*models.Analysis, error) {
	q, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
		SELECT id, video_id, type, title, content, timestamp, confidence,
		       metadata, player_ids, tags, created_at
		FROM analyses
		WHERE video_id = $1
		ORDER BY timestamp NULLS LAST, created_at, id`, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	analyses := make([]*models.Analysis, 0)
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analyses: %w", err)
	}
	return analyses, nil
}

func (r *analysisRepository) CountByVideo(ctx context.Context, videoID uuid.UUID) (int, error) {
	q, err := conn(ctx)
	if err != nil {
		return 0, err
	}

	var n int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM analyses WHERE video_id = $1`, videoID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count analyses: %w", err)
	}
	return n, nil
}

func (r *analysisRepository) ClearDerived(ctx context.Context, videoID uuid.UUID) error {
	q, err := conn(ctx)
	if err != nil {
		return err
	}

	statements := []string{
		`DELETE FROM coaching_points WHERE video_id = $1`,
		`DELETE FROM game_flow WHERE video_id = $1`,
		`DELETE FROM team_formations WHERE video_id = $1`,
		`DELETE FROM analyses WHERE video_id = $1`,
		`DELETE FROM player_profiles WHERE video_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := q.Exec(ctx, stmt, videoID); err != nil {
			return fmt.Errorf("failed to clear derived data: %w", err)
		}
	}
	return nil
}

func scanAnalysis(row pgx.Row) (*models.Analysis, error) {
	var a models.Analysis
	var metadata []byte
	err := row.Scan(
		&a.ID, &a.VideoID, &a.Type, &a.Title, &a.Content, &a.Timestamp, &a.Confidence,
		&metadata, &a.PlayerIDs, &a.Tags, &a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan analysis: %w", err)
	}
	a.Metadata, err = models.DecodeMetadata(a.Type, metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to decode metadata for analysis %s: %w", a.ID, err)
	}
	return &a, nil
}
