package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
	"github.com/lacrosselens/lacrosselens-engine/pkg/videoai"
)

// stuckFixture builds a processor whose model never answers until cancelled.
func stuckFixture(t *testing.T) (*processorFixture, ProcessingWatchdog) {
	t.Helper()
	f := newProcessorFixture(t, "standard")
	f.model.AnalyzeFunc = func(ctx context.Context, _ *videoai.Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}
	p := f.build()
	return f, NewProcessingWatchdog(f.videos, p, nil, &f.cfg.Processing, zap.NewNop())
}

func TestProcessingWatchdog_RetriesOnceThenFails(t *testing.T) {
	f, w := stuckFixture(t)
	v := f.createUpload(t)
	ctx := context.Background()

	_, err := f.processor.Start(ctx, v.ID, true)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return f.model.Calls() == 1 }, time.Second, 5*time.Millisecond)

	// Nothing is stale yet.
	res, err := w.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{}, res)

	f.videos.age(v.ID, 6*time.Minute)
	res, err = w.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Retried: 1}, res)

	got, err := f.videos.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VideoStatusProcessing, got.Status)
	assert.Equal(t, 2, got.ProcessingAttempts)
	require.Eventually(t, func() bool { return f.model.Calls() == 2 }, time.Second, 5*time.Millisecond)

	f.videos.age(v.ID, 6*time.Minute)
	res, err = w.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Failed: 1}, res)

	got, err = f.videos.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VideoStatusFailed, got.Status)
	require.NotNil(t, got.ErrorMessage)
	assert.Contains(t, *got.ErrorMessage, "timed out after 2 attempts")

	require.Eventually(t, func() bool { return !f.processor.IsActive(v.ID) }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, f.model.Calls(), "no further retries after failure")

	// A failed video is no longer swept.
	res, err = w.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{}, res)
}

func TestProcessingWatchdog_IgnoresFinishedVideos(t *testing.T) {
	f, w := stuckFixture(t)
	ctx := context.Background()
	v := &models.Video{UserID: "coach-1", Title: "Done", Status: models.VideoStatusCompleted}
	require.NoError(t, f.videos.Create(ctx, v))

	res, err := w.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{}, res)
}

func TestProcessingWatchdog_ManualRetryResetsBudget(t *testing.T) {
	f, w := stuckFixture(t)
	v := f.createUpload(t)
	ctx := context.Background()

	_, err := f.processor.Start(ctx, v.ID, false)
	require.NoError(t, err)
	_, err = f.processor.Start(ctx, v.ID, false)
	require.NoError(t, err)

	got, _ := f.videos.GetByID(ctx, v.ID)
	require.Equal(t, 2, got.ProcessingAttempts)

	// A user retry starts the attempt count over, so one automatic retry remains.
	_, err = f.processor.Start(ctx, v.ID, true)
	require.NoError(t, err)
	f.videos.age(v.ID, 6*time.Minute)

	res, err := w.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Retried: 1}, res)
}

func TestProcessingWatchdog_SchedulerStopsWithContext(t *testing.T) {
	f, _ := stuckFixture(t)
	f.cfg.Processing.WatchdogInterval = 10 * time.Millisecond
	w := NewProcessingWatchdog(f.videos, f.processor, nil, &f.cfg.Processing, zap.NewNop())
	v := f.createUpload(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, err := f.processor.Start(ctx, v.ID, true)
	require.NoError(t, err)
	f.videos.age(v.ID, 6*time.Minute)

	w.RunScheduler(ctx)
	require.Eventually(t, func() bool {
		got, _ := f.videos.GetByID(context.Background(), v.ID)
		return got.ProcessingAttempts == 2
	}, time.Second, 5*time.Millisecond)
}
