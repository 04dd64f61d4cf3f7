//go:build integration

package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

func TestRollupRepository_GameFlowReplace(t *testing.T) {
	tc := setupRepoTest(t)
	repo := NewRollupRepository()
	video := tc.createVideo("Flow")

	white := "white"
	require.NoError(t, repo.ReplaceGameFlow(tc.ctx, video.ID, []*models.GameFlow{
		{WindowStart: 0, WindowEnd: 120, EventCount: 3, TeamEvents: map[string]int{"white": 2, "dark": 1}, DominantTeam: &white, Momentum: models.MomentumPositive},
		{WindowStart: 120, WindowEnd: 240, EventCount: 0, TeamEvents: map[string]int{}, Momentum: models.MomentumNeutral},
	}))
	require.NoError(t, repo.ReplaceGameFlow(tc.ctx, video.ID, []*models.GameFlow{
		{WindowStart: 0, WindowEnd: 120, EventCount: 1, TeamEvents: map[string]int{"dark": 1}, Momentum: models.MomentumNegative},
	}))

	flows, err := repo.ListGameFlow(tc.ctx, video.ID)
	require.NoError(t, err)
	require.Len(t, flows, 1)
	assert.Equal(t, map[string]int{"dark": 1}, flows[0].TeamEvents)
	assert.Equal(t, models.MomentumNegative, flows[0].Momentum)
}

func TestRollupRepository_FormationsAndCoachingPoints(t *testing.T) {
	tc := setupRepoTest(t)
	repo := NewRollupRepository()
	video := tc.createVideo("Formations")

	require.NoError(t, repo.CreateFormation(tc.ctx, &models.TeamFormation{
		VideoID: video.ID, Timestamp: floatPtr(45), Team: "white",
		FormationType: "offense", Formation: "2-3-1", Source: "tactical",
	}))
	formations, err := repo.ListFormations(tc.ctx, video.ID)
	require.NoError(t, err)
	require.Len(t, formations, 1)
	assert.Equal(t, "2-3-1", formations[0].Formation)

	require.NoError(t, repo.ReplaceCoachingPoints(tc.ctx, video.ID, []*models.CoachingPoint{
		{Category: "faceoff", Priority: models.PriorityLow, Title: "Keep winning the clamp", Detail: "x"},
		{Category: "transition", Priority: models.PriorityHigh, Title: "Clean up clears", Detail: "y"},
	}))
	points, err := repo.ListCoachingPoints(tc.ctx, video.ID)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, models.PriorityHigh, points[0].Priority)
}
