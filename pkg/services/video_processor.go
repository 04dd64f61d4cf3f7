package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/apperrors"
	"github.com/lacrosselens/lacrosselens-engine/pkg/config"
	"github.com/lacrosselens/lacrosselens-engine/pkg/media"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
	"github.com/lacrosselens/lacrosselens-engine/pkg/prompts"
	"github.com/lacrosselens/lacrosselens-engine/pkg/repositories"
	"github.com/lacrosselens/lacrosselens-engine/pkg/services/workqueue"
	"github.com/lacrosselens/lacrosselens-engine/pkg/videoai"
	"github.com/lacrosselens/lacrosselens-engine/pkg/youtube"
)

// VideoProcessor runs the analysis pipeline for videos in the background.
type VideoProcessor interface {
	// Start opens a new processing run for the video and schedules it,
	// cancelling any run already active for the same video. It returns the
	// video as updated by the run start.
	Start(ctx context.Context, videoID uuid.UUID, resetAttempts bool) (*models.Video, error)

	// Cancel stops the active run for the video, if any.
	Cancel(videoID uuid.UUID) bool

	// IsActive reports whether a run for the video is scheduled or running.
	IsActive(videoID uuid.UUID) bool

	// Shutdown cancels every run and waits for them to return.
	Shutdown(ctx context.Context) error
}

// RollupBuilder recomputes the analytics rollups of a video after a run.
type RollupBuilder interface {
	Rebuild(ctx context.Context, videoID uuid.UUID) error
}

// StatsInvalidator drops cached aggregate stats for a user.
type StatsInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

type videoProcessor struct {
	videoRepo    repositories.VideoRepository
	analysisRepo repositories.AnalysisRepository
	rollupRepo   repositories.RollupRepository
	enrichment   EnrichmentService
	multiPass    MultiPassAnalyzer
	model        videoai.VideoModel
	media        media.Tools
	youtube      youtube.Client
	rollups      RollupBuilder
	stats        StatsInvalidator
	runner       *workqueue.Runner
	scope        ScopeFunc
	cfg          config.ProcessingConfig
	maxFrames    int
	logger       *zap.Logger
}

// NewVideoProcessor creates the processor. rollups, stats and yt may be nil;
// a nil scope runs tasks without acquiring a database scope.
func NewVideoProcessor(
	videoRepo repositories.VideoRepository,
	analysisRepo repositories.AnalysisRepository,
	rollupRepo repositories.RollupRepository,
	enrichment EnrichmentService,
	multiPass MultiPassAnalyzer,
	model videoai.VideoModel,
	mediaTools media.Tools,
	yt youtube.Client,
	rollups RollupBuilder,
	stats StatsInvalidator,
	runner *workqueue.Runner,
	scope ScopeFunc,
	cfg *config.Config,
	logger *zap.Logger,
) VideoProcessor {
	if scope == nil {
		scope = inheritScope
	}
	return &videoProcessor{
		videoRepo:    videoRepo,
		analysisRepo: analysisRepo,
		rollupRepo:   rollupRepo,
		enrichment:   enrichment,
		multiPass:    multiPass,
		model:        model,
		media:        mediaTools,
		youtube:      yt,
		rollups:      rollups,
		stats:        stats,
		runner:       runner,
		scope:        scope,
		cfg:          cfg.Processing,
		maxFrames:    cfg.AI.MaxFrames,
		logger:       logger.Named("video-processor"),
	}
}

var _ VideoProcessor = (*videoProcessor)(nil)

func (p *videoProcessor) Start(ctx context.Context, videoID uuid.UUID, resetAttempts bool) (*models.Video, error) {
	video, err := p.videoRepo.BeginRun(ctx, videoID, resetAttempts)
	if err != nil {
		return nil, fmt.Errorf("begin run: %w", err)
	}
	if video.ProcessingRunID == nil {
		return nil, fmt.Errorf("begin run for %s returned no run id", videoID)
	}

	runVideo := *video
	_, err = p.runner.Start(videoID.String(), "process "+video.Title, func(taskCtx context.Context) error {
		return p.runScoped(taskCtx, &runVideo)
	})
	if err != nil {
		msg := "processing could not be scheduled"
		if _, ferr := p.videoRepo.FinishRun(ctx, videoID, *video.ProcessingRunID, models.VideoStatusFailed, &msg); ferr != nil {
			p.logger.Error("Failed to mark unscheduled run", zap.String("video_id", videoID.String()), zap.Error(ferr))
		}
		return nil, fmt.Errorf("schedule processing: %w", err)
	}

	p.logger.Info("Processing scheduled",
		zap.String("video_id", videoID.String()),
		zap.String("run_id", video.ProcessingRunID.String()),
		zap.Int("attempt", video.ProcessingAttempts),
		zap.String("mode", string(p.modeFor(video))))
	return video, nil
}

func (p *videoProcessor) Cancel(videoID uuid.UUID) bool {
	return p.runner.Cancel(videoID.String())
}

func (p *videoProcessor) IsActive(videoID uuid.UUID) bool {
	return p.runner.IsActive(videoID.String())
}

func (p *videoProcessor) Shutdown(ctx context.Context) error {
	return p.runner.Shutdown(ctx)
}

func (p *videoProcessor) runScoped(ctx context.Context, video *models.Video) error {
	scoped, cleanup, err := p.scope(ctx)
	if err != nil {
		return fmt.Errorf("acquire scope: %w", err)
	}
	defer cleanup()
	return p.run(scoped, video)
}

// run executes one processing run and records its terminal status. A run
// that was cancelled leaves the status to whoever cancelled it.
func (p *videoProcessor) run(ctx context.Context, video *models.Video) error {
	log := p.logger.With(
		zap.String("video_id", video.ID.String()),
		zap.String("run_id", video.ProcessingRunID.String()))

	err := p.process(ctx, video, log)
	if err != nil && errors.Is(err, context.Canceled) {
		log.Info("Processing run cancelled")
		return err
	}

	status := models.VideoStatusCompleted
	var msg *string
	if err != nil {
		status = models.VideoStatusFailed
		m := err.Error()
		msg = &m
		log.Error("Processing failed", zap.Error(err))
	}

	ok, ferr := p.videoRepo.FinishRun(context.WithoutCancel(ctx), video.ID, *video.ProcessingRunID, status, msg)
	if ferr != nil {
		log.Error("Failed to record run status", zap.String("status", string(status)), zap.Error(ferr))
		return errors.Join(err, ferr)
	}
	if !ok {
		log.Warn("Run superseded, status not recorded", zap.String("status", string(status)))
	} else {
		log.Info("Processing finished", zap.String("status", string(status)))
	}
	if p.stats != nil {
		p.stats.Invalidate(context.WithoutCancel(ctx), video.UserID)
	}
	return err
}

func (p *videoProcessor) process(ctx context.Context, video *models.Video, log *zap.Logger) error {
	if err := p.analysisRepo.ClearDerived(ctx, video.ID); err != nil {
		return fmt.Errorf("clear previous results: %w", err)
	}

	input, err := p.buildInput(ctx, video, log)
	if err != nil {
		return err
	}

	items, formations, err := p.analyze(ctx, video, input, log)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	kept := p.filterByConfidence(items)
	if skipped := len(items) - len(kept); skipped > 0 {
		log.Info("Skipped low-confidence items",
			zap.Int("skipped", skipped),
			zap.Int("min_confidence", p.cfg.MinConfidence))
	}

	res := p.enrichment.EnrichBatch(ctx, video, kept)
	log.Info("Analysis items stored",
		zap.Int("persisted", res.Persisted),
		zap.Int("write_failures", res.WriteFailures),
		zap.Int("enrichment_failures", res.EnrichmentFailures))
	if err := ctx.Err(); err != nil {
		return err
	}
	if res.Persisted == 0 && res.WriteFailures > 0 {
		return fmt.Errorf("no analysis item could be stored (%d write failures)", res.WriteFailures)
	}

	for _, f := range formations {
		if err := p.rollupRepo.CreateFormation(ctx, f); err != nil {
			log.Warn("Failed to store formation", zap.String("formation", f.Formation), zap.Error(err))
		}
	}
	if p.rollups != nil {
		if err := p.rollups.Rebuild(ctx, video.ID); err != nil {
			log.Warn("Failed to rebuild analytics rollups", zap.Error(err))
		}
	}
	return nil
}

func (p *videoProcessor) modeFor(video *models.Video) models.AnalysisMode {
	switch video.AnalysisMode {
	case models.AnalysisModeStandard, models.AnalysisModeAdvanced:
		return video.AnalysisMode
	}
	if p.cfg.Mode == string(models.AnalysisModeStandard) {
		return models.AnalysisModeStandard
	}
	return models.AnalysisModeAdvanced
}

// analyze runs the configured mode. A failed advanced run falls back to
// exactly one standard call.
func (p *videoProcessor) analyze(ctx context.Context, video *models.Video, input *videoai.VideoInput, log *zap.Logger) ([]models.RawAnalysis, []*models.TeamFormation, error) {
	if p.modeFor(video) == models.AnalysisModeAdvanced && p.multiPass != nil {
		res, err := p.multiPass.Analyze(ctx, video, input)
		if err == nil {
			return res.Items(), res.Formations, nil
		}
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		log.Warn("Multi-pass analysis failed, falling back to standard", zap.Error(err))
	}

	items, err := p.standard(ctx, video, input)
	if err != nil {
		return nil, nil, fmt.Errorf("standard analysis: %w", err)
	}
	return items, nil, nil
}

func (p *videoProcessor) standard(ctx context.Context, video *models.Video, input *videoai.VideoInput) ([]models.RawAnalysis, error) {
	response, err := p.model.Analyze(ctx, &videoai.Request{
		System: prompts.SystemPersona,
		Prompt: prompts.BuildStandardPrompt(video.Hints()),
		Video:  input,
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}
	result, err := videoai.ParseJSONResponse[videoai.AnalysisResult](response)
	if err != nil {
		return nil, err
	}
	return result.Items(models.SourceStandard), nil
}

func (p *videoProcessor) filterByConfidence(items []models.RawAnalysis) []models.RawAnalysis {
	kept := make([]models.RawAnalysis, 0, len(items))
	for _, item := range items {
		if item.Confidence < p.cfg.MinConfidence {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

// buildInput collects what the model sees: sampled keyframes for uploads,
// the link and its thumbnail for YouTube videos.
func (p *videoProcessor) buildInput(ctx context.Context, video *models.Video, log *zap.Logger) (*videoai.VideoInput, error) {
	input := &videoai.VideoInput{Title: video.Title}
	if video.Duration != nil {
		input.Duration = float64(*video.Duration)
	}

	if video.IsYouTube() {
		input.YouTubeURL = *video.YouTubeURL
		if p.youtube == nil {
			return input, nil
		}
		meta, err := p.youtube.Metadata(ctx, input.YouTubeURL)
		if err != nil {
			log.Warn("YouTube metadata unavailable, analysing link only", zap.Error(err))
			return input, nil
		}
		if input.Duration == 0 {
			input.Duration = float64(meta.Duration)
		}
		thumb, err := p.youtube.Thumbnail(ctx, meta)
		if err != nil {
			log.Warn("YouTube thumbnail unavailable", zap.Error(err))
			return input, nil
		}
		input.Frames = []videoai.Frame{{Timestamp: 0, JPEG: thumb}}
		return input, nil
	}

	if video.FilePath == nil || *video.FilePath == "" {
		return nil, fmt.Errorf("video has neither a file nor a YouTube link: %w", apperrors.ErrInvalidInput)
	}
	if p.media == nil {
		return nil, fmt.Errorf("media tools are not configured")
	}

	path := *video.FilePath
	if input.Duration == 0 {
		d, err := p.media.Duration(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("probe duration: %w", err)
		}
		input.Duration = d
		secs := int(d + 0.5)
		if err := p.videoRepo.UpdateDetails(ctx, video.ID, repositories.VideoDetails{Duration: &secs}); err != nil {
			log.Warn("Failed to store duration", zap.Error(err))
		}
	}

	frames, err := p.media.Keyframes(ctx, path, input.Duration, p.maxFrames)
	if err != nil {
		return nil, fmt.Errorf("extract keyframes: %w", err)
	}
	input.Frames = make([]videoai.Frame, len(frames))
	for i, f := range frames {
		input.Frames[i] = videoai.Frame{Timestamp: f.Timestamp, JPEG: f.JPEG}
	}
	log.Debug("Keyframes extracted", zap.Int("frames", len(frames)), zap.Float64("duration", input.Duration))
	return input, nil
}
