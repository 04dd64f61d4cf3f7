package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/config"
	"github.com/lacrosselens/lacrosselens-engine/pkg/repositories"
)

// SweepResult counts what one watchdog pass did.
type SweepResult struct {
	Retried int
	Failed  int
}

// ProcessingWatchdog recovers videos stuck in processing.
type ProcessingWatchdog interface {
	// Sweep handles every video whose run started more than the processing
	// timeout ago: one automatic retry while attempts remain, then failure.
	Sweep(ctx context.Context) (SweepResult, error)

	// RunScheduler sweeps on the configured interval until ctx is cancelled.
	RunScheduler(ctx context.Context)
}

type processingWatchdog struct {
	videoRepo   repositories.VideoRepository
	processor   VideoProcessor
	scope       ScopeFunc
	timeout     time.Duration
	interval    time.Duration
	maxAttempts int
	now         func() time.Time
	logger      *zap.Logger
}

// NewProcessingWatchdog creates the watchdog. A nil scope sweeps on the
// caller's context.
func NewProcessingWatchdog(
	videoRepo repositories.VideoRepository,
	processor VideoProcessor,
	scope ScopeFunc,
	cfg *config.ProcessingConfig,
	logger *zap.Logger,
) ProcessingWatchdog {
	if scope == nil {
		scope = inheritScope
	}
	return &processingWatchdog{
		videoRepo:   videoRepo,
		processor:   processor,
		scope:       scope,
		timeout:     cfg.Timeout,
		interval:    cfg.WatchdogInterval,
		maxAttempts: cfg.MaxAttempts,
		now:         time.Now,
		logger:      logger.Named("processing-watchdog"),
	}
}

var _ ProcessingWatchdog = (*processingWatchdog)(nil)

func (w *processingWatchdog) Sweep(ctx context.Context) (SweepResult, error) {
	var res SweepResult

	ctx, cleanup, err := w.scope(ctx)
	if err != nil {
		return res, fmt.Errorf("acquire scope: %w", err)
	}
	defer cleanup()

	stale, err := w.videoRepo.ListStale(ctx, w.now().Add(-w.timeout))
	if err != nil {
		return res, fmt.Errorf("list stale videos: %w", err)
	}

	for _, v := range stale {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		log := w.logger.With(
			zap.String("video_id", v.ID.String()),
			zap.Int("attempts", v.ProcessingAttempts))

		w.processor.Cancel(v.ID)

		if v.ProcessingAttempts < w.maxAttempts {
			if _, err := w.processor.Start(ctx, v.ID, false); err != nil {
				log.Error("Failed to restart stuck video", zap.Error(err))
				continue
			}
			log.Warn("Video stuck in processing, retrying")
			res.Retried++
			continue
		}

		msg := fmt.Sprintf("processing timed out after %d attempts", v.ProcessingAttempts)
		if err := w.videoRepo.MarkFailed(ctx, v.ID, msg); err != nil {
			log.Error("Failed to mark stuck video failed", zap.Error(err))
			continue
		}
		log.Warn("Video stuck in processing, marked failed")
		res.Failed++
	}
	return res, nil
}

func (w *processingWatchdog) RunScheduler(ctx context.Context) {
	go func() {
		w.logger.Info("Processing watchdog started",
			zap.Duration("interval", w.interval),
			zap.Duration("timeout", w.timeout))

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Processing watchdog stopped")
				return
			case <-ticker.C:
				if _, err := w.Sweep(ctx); err != nil && ctx.Err() == nil {
					w.logger.Error("Watchdog sweep failed", zap.Error(err))
				}
			}
		}
	}()
}
