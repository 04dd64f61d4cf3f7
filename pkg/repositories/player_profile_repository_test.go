//go:build integration

package repositories

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lacrosselens/lacrosselens-engine/pkg/apperrors"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

func observation(video *models.Video, identifier string, shooting int) *models.ProfileObservation {
	return &models.ProfileObservation{
		VideoID:          video.ID,
		PlayerIdentifier: identifier,
		Handedness:       "unknown",
		HeightEstimate:   "average",
		Skills: models.SkillRatings{
			Dodging: 70, Shooting: shooting, Passing: 70, GroundBalls: 70,
			Defense: 70, OffBall: 70, IQ: 70, Athleticism: 70,
		},
		OverallRating:     3.5,
		PotentialRating:   3.5,
		CoachabilityScore: 70,
	}
}

func TestPlayerProfileRepository_UpsertAveragesSkills(t *testing.T) {
	tc := setupRepoTest(t)
	repo := NewPlayerProfileRepository()
	video := tc.createVideo("Averaging")

	first, err := repo.Upsert(tc.ctx, observation(video, "#23 white", 90))
	require.NoError(t, err)
	assert.Equal(t, 90, first.ShootingSkill)
	assert.Equal(t, 1, first.ObservationCount)

	second, err := repo.Upsert(tc.ctx, observation(video, "#23 white", 60))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 75, second.ShootingSkill)
	assert.Equal(t, 70, second.DodgingSkill)
	assert.Equal(t, 2, second.ObservationCount)
}

func TestPlayerProfileRepository_UpsertRoundsHalfAwayFromZero(t *testing.T) {
	tc := setupRepoTest(t)
	repo := NewPlayerProfileRepository()
	video := tc.createVideo("Rounding")

	_, err := repo.Upsert(tc.ctx, observation(video, "#7 dark", 80))
	require.NoError(t, err)
	got, err := repo.Upsert(tc.ctx, observation(video, "#7 dark", 71))
	require.NoError(t, err)
	assert.Equal(t, 76, got.ShootingSkill)
}

func TestPlayerProfileRepository_UpsertKeepsRatingsAndFillsDescriptiveFields(t *testing.T) {
	tc := setupRepoTest(t)
	repo := NewPlayerProfileRepository()
	video := tc.createVideo("Frozen ratings")

	obs := observation(video, "#5 blue", 90)
	obs.OverallRating = 4.0
	obs.PotentialRating = 4.5
	_, err := repo.Upsert(tc.ctx, obs)
	require.NoError(t, err)

	next := observation(video, "#5 blue", 60)
	next.JerseyNumber = models.StringPtr("5")
	next.TeamColor = models.StringPtr("blue")
	next.Handedness = "left"
	next.OverallRating = 2.5
	next.PotentialRating = 2.5
	got, err := repo.Upsert(tc.ctx, next)
	require.NoError(t, err)

	assert.InDelta(t, 4.0, got.OverallRating, 0.001)
	assert.InDelta(t, 4.5, got.PotentialRating, 0.001)
	require.NotNil(t, got.JerseyNumber)
	assert.Equal(t, "5", *got.JerseyNumber)
	require.NotNil(t, got.TeamColor)
	assert.Equal(t, "blue", *got.TeamColor)
	assert.Equal(t, "left", got.Handedness)
}

func TestPlayerProfileRepository_ConcurrentUpsertsKeepOneRow(t *testing.T) {
	tc := setupRepoTest(t)
	repo := NewPlayerProfileRepository()
	video := tc.createVideo("Concurrent")

	const writers = 8
	ctxs := make([]context.Context, writers)
	for i := range ctxs {
		ctxs[i] = tc.engineDB.Scope(t)
	}

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(ctx context.Context) {
			defer wg.Done()
			_, err := repo.Upsert(ctx, observation(video, "#11 red", 80))
			errs <- err
		}(ctxs[i])
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	profiles, err := repo.ListByVideo(tc.ctx, video.ID)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, writers, profiles[0].ObservationCount)
	assert.Equal(t, 80, profiles[0].ShootingSkill)
}

func TestPlayerProfileRepository_RejectsEmptyIdentifier(t *testing.T) {
	tc := setupRepoTest(t)
	video := tc.createVideo("No identifier")

	_, err := NewPlayerProfileRepository().Upsert(tc.ctx, observation(video, "", 70))
	assert.Error(t, err)
}

func TestPlayerProfileRepository_GetByIdentifier(t *testing.T) {
	tc := setupRepoTest(t)
	video := tc.createVideo("Lookup")
	repo := NewPlayerProfileRepository()

	created, err := repo.Upsert(tc.ctx, observation(video, "#7 blue", 80))
	require.NoError(t, err)

	got, err := repo.GetByIdentifier(tc.ctx, video.ID, "#7 blue")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.GetByIdentifier(tc.ctx, video.ID, "#8 blue")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
