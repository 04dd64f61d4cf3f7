package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lacrosselens/lacrosselens-engine/pkg/apperrors"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

// VideoDetails are the descriptive fields filled in after upload, from
// YouTube metadata or ffprobe. Nil fields are left unchanged.
type VideoDetails struct {
	Title        *string
	Description  *string
	Duration     *int
	ThumbnailURL *string
}

// VideoRepository defines data access for videos and their processing state.
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Video, error)
	UpdateDetails(ctx context.Context, id uuid.UUID, details VideoDetails) error
	Delete(ctx context.Context, id uuid.UUID) error

	// BeginRun moves the video to processing under a fresh run id,
	// incrementing processing_attempts. resetAttempts starts the count over
	// (manual retry) instead of incrementing it.
	BeginRun(ctx context.Context, id uuid.UUID, resetAttempts bool) (*models.Video, error)

	// FinishRun writes a terminal status only if runID still owns the
	// video. Returns false when a newer run has taken over.
	FinishRun(ctx context.Context, id, runID uuid.UUID, status models.VideoStatus, errorMessage *string) (bool, error)

	// ListStale returns videos stuck in processing since before cutoff.
	ListStale(ctx context.Context, cutoff time.Time) ([]*models.Video, error)

	// MarkFailed fails a processing video regardless of run id.
	MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
}

type videoRepository struct{}

// NewVideoRepository creates a new video repository.
func NewVideoRepository() VideoRepository {
	return &videoRepository{}
}

var _ VideoRepository = (*videoRepository)(nil)

const videoColumns = `
	id, user_id, team_id, title, description, file_path, youtube_url, status,
	duration, thumbnail_url, user_prompt, player_number, team_name, position, level,
	analysis_mode, processing_attempts, processing_started_at, processing_run_id,
	error_message, created_at, updated_at`

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	q, err := conn(ctx)
	if err != nil {
		return err
	}

	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	if video.Status == "" {
		video.Status = models.VideoStatusUploading
	}
	if video.AnalysisMode == "" {
		video.AnalysisMode = models.AnalysisModeAdvanced
	}
	now := time.Now()
	video.CreatedAt = now
	video.UpdatedAt = now

	query := `
		INSERT INTO videos (
			id, user_id, team_id, title, description, file_path, youtube_url, status,
			duration, thumbnail_url, user_prompt, player_number, team_name, position, level,
			analysis_mode, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err = q.Exec(ctx, query,
		video.ID, video.UserID, video.TeamID, video.Title, video.Description,
		video.FilePath, video.YouTubeURL, video.Status, video.Duration, video.ThumbnailURL,
		video.UserPrompt, video.PlayerNumber, video.TeamName, video.Position, video.Level,
		video.AnalysisMode, video.CreatedAt, video.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}
	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	q, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	row := q.QueryRow(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, id)
	video, err := scanVideo(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return video, nil
}

func (r *videoRepository) ListByUser(ctx context.Context, userID string) ([]*models.Video, error) {
	q, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	return collectVideos(rows)
}

func (r *videoRepository) UpdateDetails(ctx context.Context, id uuid.UUID, details VideoDetails) error {
	q, err := conn(ctx)
	if err != nil {
		return err
	}

	query := `
		UPDATE videos SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			duration = COALESCE($4, duration),
			thumbnail_url = COALESCE($5, thumbnail_url),
			updated_at = now()
		WHERE id = $1`

	tag, err := q.Exec(ctx, query, id, details.Title, details.Description, details.Duration, details.ThumbnailURL)
	if err != nil {
		return fmt.Errorf("failed to update video details: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *videoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	q, err := conn(ctx)
	if err != nil {
		return err
	}

	tag, err := q.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *videoRepository) BeginRun(ctx context.Context, id uuid.UUID, resetAttempts bool) (*models.Video, error) {
	q, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE videos SET
			status = 'processing',
			processing_attempts = CASE WHEN $3 THEN 1 ELSE processing_attempts + 1 END,
			processing_started_at = now(),
			processing_run_id = $2,
			error_message = NULL,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + videoColumns

	video, err := scanVideo(q.QueryRow(ctx, query, id, uuid.New(), resetAttempts))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to begin processing run: %w", err)
	}
	return video, nil
}

func (r *videoRepository) FinishRun(ctx context.Context, id, runID uuid.UUID, status models.VideoStatus, errorMessage *string) (bool, error) {
	q, err := conn(ctx)
	if err != nil {
		return false, err
	}

	query := `
		UPDATE videos SET
			status = $3,
			error_message = $4,
			updated_at = now()
		WHERE id = $1 AND processing_run_id = $2 AND status = 'processing'`

	tag, err := q.Exec(ctx, query, id, runID, status, errorMessage)
	if err != nil {
		return false, fmt.Errorf("failed to finish processing run: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *videoRepository) ListStale(ctx context.Context, cutoff time.Time) ([]*models.Video, error) {
	q, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
		SELECT `+videoColumns+` FROM videos
		WHERE status = 'processing' AND processing_started_at < $1
		ORDER BY processing_started_at`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale videos: %w", err)
	}
	defer rows.Close()

	return collectVideos(rows)
}

func (r *videoRepository) MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error {
	q, err := conn(ctx)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, `
		UPDATE videos SET status = 'failed', error_message = $2, updated_at = now()
		WHERE id = $1 AND status = 'processing'`, id, errorMessage)
	if err != nil {
		return fmt.Errorf("failed to mark video failed: %w", err)
	}
	return nil
}

func scanVideo(row pgx.Row) (*models.Video, error) {
	var v models.Video
	err := row.Scan(
		&v.ID, &v.UserID, &v.TeamID, &v.Title, &v.Description, &v.FilePath, &v.YouTubeURL, &v.Status,
		&v.Duration, &v.ThumbnailURL, &v.UserPrompt, &v.PlayerNumber, &v.TeamName, &v.Position, &v.Level,
		&v.AnalysisMode, &v.ProcessingAttempts, &v.ProcessingStartedAt, &v.ProcessingRunID,
		&v.ErrorMessage, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func collectVideos(rows pgx.Rows) ([]*models.Video, error) {
	videos := make([]*models.Video, 0)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}
	return videos, nil
}
