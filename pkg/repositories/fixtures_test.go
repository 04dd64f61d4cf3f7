//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
	"github.com/lacrosselens/lacrosselens-engine/pkg/testhelpers"
)

// repoTestContext holds a scoped context and a fresh user for one test.
type repoTestContext struct {
	t        *testing.T
	engineDB *testhelpers.EngineDB
	ctx      context.Context
	userID   string
}

func setupRepoTest(t *testing.T) *repoTestContext {
	t.Helper()
	engineDB := testhelpers.GetEngineDB(t)
	tc := &repoTestContext{
		t:        t,
		engineDB: engineDB,
		ctx:      engineDB.Scope(t),
		userID:   "coach-" + uuid.NewString(),
	}
	require.NoError(t, NewUserRepository().Upsert(tc.ctx, &models.User{ID: tc.userID, Email: tc.userID + "@example.com"}))
	return tc
}

// createVideo inserts a video owned by the test user.
func (tc *repoTestContext) createVideo(title string) *models.Video {
	tc.t.Helper()
	video := &models.Video{
		UserID:     tc.userID,
		Title:      title,
		YouTubeURL: models.StringPtr("https://www.youtube.com/watch?v=dQw4w9WgXcQ"),
	}
	require.NoError(tc.t, NewVideoRepository().Create(tc.ctx, video))
	return video
}

// createAnalysis inserts an analysis for videoID.
func (tc *repoTestContext) createAnalysis(videoID uuid.UUID, t models.AnalysisType, content string, ts *float64) *models.Analysis {
	tc.t.Helper()
	a := &models.Analysis{
		VideoID:    videoID,
		Type:       t,
		Title:      string(t),
		Content:    content,
		Timestamp:  ts,
		Confidence: models.DefaultConfidence,
		Metadata:   models.NewMetadata(t, models.SourceStandard),
	}
	require.NoError(tc.t, NewAnalysisRepository().Create(tc.ctx, a))
	return a
}

func floatPtr(f float64) *float64 { return &f }
