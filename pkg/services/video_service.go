package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/apperrors"
	"github.com/lacrosselens/lacrosselens-engine/pkg/config"
	"github.com/lacrosselens/lacrosselens-engine/pkg/media"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
	"github.com/lacrosselens/lacrosselens-engine/pkg/repositories"
	"github.com/lacrosselens/lacrosselens-engine/pkg/youtube"
)

// ThumbnailRoute is the URL prefix thumbnails are served under.
const ThumbnailRoute = "/api/thumbnails/"

var uploadExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".m4v": true, ".avi": true, ".mkv": true, ".webm": true,
}

// VideoSubmission holds the coach-supplied fields shared by uploads and
// YouTube submissions.
type VideoSubmission struct {
	Title        string
	Description  string
	PlayerNumber string
	TeamName     string
	Position     string
	Level        string
	UserPrompt   string
	TeamID       *uuid.UUID
	AnalysisMode models.AnalysisMode
}

// VideoFile is an uploaded video stream.
type VideoFile struct {
	Name   string
	Reader io.Reader
}

// VideoService manages a user's videos and triggers their processing.
type VideoService interface {
	Upload(ctx context.Context, userID string, sub VideoSubmission, file VideoFile) (*models.Video, error)
	SubmitYouTube(ctx context.Context, userID, youtubeURL string, sub VideoSubmission) (*models.Video, error)
	List(ctx context.Context, userID string) ([]*models.Video, error)
	Get(ctx context.Context, userID string, id uuid.UUID) (*models.Video, error)
	Analyses(ctx context.Context, userID string, id uuid.UUID) ([]*models.Analysis, error)
	Retry(ctx context.Context, userID string, id uuid.UUID) (*models.Video, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error

	// ThumbnailPath resolves a served thumbnail name to a file on disk.
	ThumbnailPath(name string) (string, error)
}

type videoService struct {
	videoRepo    repositories.VideoRepository
	analysisRepo repositories.AnalysisRepository
	teamRepo     repositories.TeamRepository
	processor    VideoProcessor
	media        media.Tools
	youtube      youtube.Client
	stats        StatsInvalidator
	storage      config.StorageConfig
	logger       *zap.Logger
}

// NewVideoService creates the video service. yt and stats may be nil.
func NewVideoService(
	videoRepo repositories.VideoRepository,
	analysisRepo repositories.AnalysisRepository,
	teamRepo repositories.TeamRepository,
	processor VideoProcessor,
	mediaTools media.Tools,
	yt youtube.Client,
	stats StatsInvalidator,
	storage *config.StorageConfig,
	logger *zap.Logger,
) VideoService {
	return &videoService{
		videoRepo:    videoRepo,
		analysisRepo: analysisRepo,
		teamRepo:     teamRepo,
		processor:    processor,
		media:        mediaTools,
		youtube:      yt,
		stats:        stats,
		storage:      *storage,
		logger:       logger.Named("video-service"),
	}
}

var _ VideoService = (*videoService)(nil)

func (s *videoService) newVideo(ctx context.Context, userID string, sub VideoSubmission) (*models.Video, error) {
	if sub.TeamID != nil {
		team, err := s.teamRepo.GetByID(ctx, *sub.TeamID)
		if err != nil {
			return nil, fmt.Errorf("team %s: %w", sub.TeamID, err)
		}
		if team.UserID != userID {
			return nil, apperrors.ErrForbidden
		}
	}
	switch sub.AnalysisMode {
	case "", models.AnalysisModeStandard, models.AnalysisModeAdvanced:
	default:
		return nil, fmt.Errorf("analysis mode %q: %w", sub.AnalysisMode, apperrors.ErrInvalidInput)
	}

	return &models.Video{
		UserID:       userID,
		TeamID:       sub.TeamID,
		Title:        strings.TrimSpace(sub.Title),
		Description:  models.StringPtr(strings.TrimSpace(sub.Description)),
		UserPrompt:   models.StringPtr(strings.TrimSpace(sub.UserPrompt)),
		PlayerNumber: models.StringPtr(strings.TrimPrefix(strings.TrimSpace(sub.PlayerNumber), "#")),
		TeamName:     models.StringPtr(strings.TrimSpace(sub.TeamName)),
		Position:     models.StringPtr(strings.TrimSpace(sub.Position)),
		Level:        models.StringPtr(strings.TrimSpace(sub.Level)),
		AnalysisMode: sub.AnalysisMode,
		Status:       models.VideoStatusUploading,
	}, nil
}

func (s *videoService) Upload(ctx context.Context, userID string, sub VideoSubmission, file VideoFile) (*models.Video, error) {
	if file.Reader == nil {
		return nil, fmt.Errorf("video file required: %w", apperrors.ErrInvalidInput)
	}
	ext := strings.ToLower(filepath.Ext(file.Name))
	if !uploadExtensions[ext] {
		return nil, fmt.Errorf("unsupported video format %q: %w", ext, apperrors.ErrInvalidInput)
	}

	video, err := s.newVideo(ctx, userID, sub)
	if err != nil {
		return nil, err
	}
	if video.Title == "" {
		video.Title = strings.TrimSuffix(filepath.Base(file.Name), filepath.Ext(file.Name))
	}
	video.ID = uuid.New()

	path, err := s.saveUpload(video.ID, ext, file.Reader)
	if err != nil {
		return nil, err
	}
	video.FilePath = &path

	if err := s.videoRepo.Create(ctx, video); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("create video: %w", err)
	}

	if thumb, ok := s.makeThumbnail(ctx, video.ID, path); ok {
		if err := s.videoRepo.UpdateDetails(ctx, video.ID, repositories.VideoDetails{ThumbnailURL: &thumb}); err != nil {
			s.logger.Warn("Failed to store thumbnail url", zap.String("video_id", video.ID.String()), zap.Error(err))
		}
	}

	s.logger.Info("Video uploaded",
		zap.String("video_id", video.ID.String()),
		zap.String("user_id", userID),
		zap.String("file", filepath.Base(path)))
	return s.startProcessing(ctx, video)
}

// saveUpload streams the upload into the upload directory, enforcing the
// configured size limit.
func (s *videoService) saveUpload(id uuid.UUID, ext string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.storage.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	path := filepath.Join(s.storage.UploadDir, id.String()+ext)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	limit := s.storage.MaxUploadMB << 20
	n, err := io.Copy(f, io.LimitReader(r, limit+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	switch {
	case err != nil:
		_ = os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	case n == 0:
		_ = os.Remove(path)
		return "", fmt.Errorf("video file is empty: %w", apperrors.ErrInvalidInput)
	case limit > 0 && n > limit:
		_ = os.Remove(path)
		return "", fmt.Errorf("video exceeds %d MB: %w", s.storage.MaxUploadMB, apperrors.ErrInvalidInput)
	}
	return path, nil
}

func (s *videoService) makeThumbnail(ctx context.Context, id uuid.UUID, videoPath string) (string, bool) {
	if s.media == nil {
		return "", false
	}
	if err := os.MkdirAll(s.storage.ThumbnailDir, 0o755); err != nil {
		s.logger.Warn("Failed to create thumbnail dir", zap.Error(err))
		return "", false
	}
	name := id.String() + ".jpg"
	if err := s.media.Thumbnail(ctx, videoPath, filepath.Join(s.storage.ThumbnailDir, name), s.storage.ThumbnailAtSec); err != nil {
		s.logger.Warn("Thumbnail generation failed",
			zap.String("video_id", id.String()),
			zap.Error(err))
		return "", false
	}
	return ThumbnailRoute + name, true
}

func (s *videoService) SubmitYouTube(ctx context.Context, userID, youtubeURL string, sub VideoSubmission) (*models.Video, error) {
	id, err := youtube.ParseVideoID(youtubeURL)
	if err != nil {
		return nil, err
	}

	video, err := s.newVideo(ctx, userID, sub)
	if err != nil {
		return nil, err
	}
	watch := youtube.WatchURL(id)
	video.YouTubeURL = &watch

	meta := &youtube.Metadata{VideoID: id}
	if s.youtube != nil {
		fetched, err := s.youtube.Metadata(ctx, watch)
		if err != nil {
			s.logger.Warn("YouTube metadata unavailable",
				zap.String("youtube_id", id),
				zap.Error(err))
		} else {
			meta = fetched
		}
	}

	video.Title = youtube.EnhanceTitle(video.Title, meta)
	if video.Description == nil {
		video.Description = models.StringPtr(strings.TrimSpace(meta.Description))
	}
	if meta.Duration > 0 {
		d := meta.Duration
		video.Duration = &d
	}
	video.ThumbnailURL = models.StringPtr(meta.ThumbnailURL)

	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("create video: %w", err)
	}
	s.logger.Info("YouTube video submitted",
		zap.String("video_id", video.ID.String()),
		zap.String("user_id", userID),
		zap.String("youtube_id", id))
	return s.startProcessing(ctx, video)
}

// startProcessing schedules the first run. A scheduling failure leaves the
// video failed and retryable rather than failing the submission.
func (s *videoService) startProcessing(ctx context.Context, video *models.Video) (*models.Video, error) {
	if s.stats != nil {
		s.stats.Invalidate(ctx, video.UserID)
	}
	started, err := s.processor.Start(ctx, video.ID, true)
	if err != nil {
		s.logger.Error("Failed to start processing",
			zap.String("video_id", video.ID.String()),
			zap.Error(err))
		if current, gerr := s.videoRepo.GetByID(ctx, video.ID); gerr == nil {
			return current, nil
		}
		return video, nil
	}
	return started, nil
}

func (s *videoService) List(ctx context.Context, userID string) ([]*models.Video, error) {
	videos, err := s.videoRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list videos", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if videos == nil {
		videos = []*models.Video{}
	}
	return videos, nil
}

func (s *videoService) Get(ctx context.Context, userID string, id uuid.UUID) (*models.Video, error) {
	return ownedVideo(ctx, s.videoRepo, userID, id)
}

// ownedVideo loads a video and checks the caller owns it.
func ownedVideo(ctx context.Context, repo repositories.VideoRepository, userID string, id uuid.UUID) (*models.Video, error) {
	video, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if video.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return video, nil
}

func (s *videoService) Analyses(ctx context.Context, userID string, id uuid.UUID) ([]*models.Analysis, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	analyses, err := s.analysisRepo.ListByVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	if analyses == nil {
		analyses = []*models.Analysis{}
	}
	return analyses, nil
}

func (s *videoService) Retry(ctx context.Context, userID string, id uuid.UUID) (*models.Video, error) {
	video, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if video.Status == models.VideoStatusCompleted {
		return nil, fmt.Errorf("video already analysed: %w", apperrors.ErrConflict)
	}

	started, err := s.processor.Start(ctx, id, true)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Processing retried by user",
		zap.String("video_id", id.String()),
		zap.String("previous_status", string(video.Status)))
	if s.stats != nil {
		s.stats.Invalidate(ctx, userID)
	}
	return started, nil
}

func (s *videoService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	video, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	s.processor.Cancel(id)
	if err := s.videoRepo.Delete(ctx, id); err != nil {
		return err
	}

	if video.FilePath != nil {
		s.removeFile(*video.FilePath)
	}
	if video.ThumbnailURL != nil && strings.HasPrefix(*video.ThumbnailURL, ThumbnailRoute) {
		if path, err := s.ThumbnailPath(strings.TrimPrefix(*video.ThumbnailURL, ThumbnailRoute)); err == nil {
			s.removeFile(path)
		}
	}
	if s.stats != nil {
		s.stats.Invalidate(ctx, userID)
	}
	s.logger.Info("Video deleted", zap.String("video_id", id.String()), zap.String("user_id", userID))
	return nil
}

func (s *videoService) removeFile(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("Failed to remove video file", zap.String("path", path), zap.Error(err))
	}
}

func (s *videoService) ThumbnailPath(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("thumbnail name %q: %w", name, apperrors.ErrInvalidInput)
	}
	path := filepath.Join(s.storage.ThumbnailDir, name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", apperrors.ErrNotFound
		}
		return "", err
	}
	return path, nil
}
