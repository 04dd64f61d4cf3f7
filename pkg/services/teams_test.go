package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/apperrors"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

func TestTeamService_CreateAndList(t *testing.T) {
	svc := NewTeamService(newMemTeamRepo(), zap.NewNop())
	ctx := context.Background()

	level := " Varsity "
	team, err := svc.Create(ctx, "coach-1", "  Westfield  ", &level)
	require.NoError(t, err)
	assert.Equal(t, "Westfield", team.Name)
	assert.Equal(t, "Varsity", *team.Level)
	assert.NotEqual(t, uuid.Nil, team.ID)

	_, err = svc.Create(ctx, "coach-1", "Oak Ridge", nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "coach-2", "Other", nil)
	require.NoError(t, err)

	teams, err := svc.List(ctx, "coach-1")
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "Oak Ridge", teams[0].Name)

	empty, err := svc.List(ctx, "coach-3")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestTeamService_CreateRequiresName(t *testing.T) {
	svc := NewTeamService(newMemTeamRepo(), zap.NewNop())

	_, err := svc.Create(context.Background(), "coach-1", "   ", nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestTeamService_Roster(t *testing.T) {
	svc := NewTeamService(newMemTeamRepo(), zap.NewNop())
	ctx := context.Background()
	team, err := svc.Create(ctx, "coach-1", "Westfield", nil)
	require.NoError(t, err)

	empty, err := svc.ListPlayers(ctx, "coach-1", team.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)

	p, err := svc.AddPlayer(ctx, "coach-1", team.ID, &models.Player{
		Name:         " Sam Reyes ",
		JerseyNumber: models.StringPtr("#23"),
		Position:     models.StringPtr("attack"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Sam Reyes", p.Name)
	assert.Equal(t, "23", *p.JerseyNumber)
	assert.Equal(t, team.ID, p.TeamID)

	players, err := svc.ListPlayers(ctx, "coach-1", team.ID)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, p.ID, players[0].ID)

	_, err = svc.AddPlayer(ctx, "coach-1", team.ID, &models.Player{Name: ""})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestTeamService_Ownership(t *testing.T) {
	svc := NewTeamService(newMemTeamRepo(), zap.NewNop())
	ctx := context.Background()
	team, err := svc.Create(ctx, "coach-1", "Westfield", nil)
	require.NoError(t, err)

	_, err = svc.AddPlayer(ctx, "coach-2", team.ID, &models.Player{Name: "Sam"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = svc.ListPlayers(ctx, "coach-2", team.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = svc.ListPlayers(ctx, "coach-1", uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserService_Ensure(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, zap.NewNop())
	ctx := context.Background()

	u, err := svc.Ensure(ctx, "coach-1", "coach@example.com", "Coach One")
	require.NoError(t, err)
	assert.Equal(t, "coach@example.com", u.Email)

	u, err = svc.Ensure(ctx, "coach-1", "", "Coach Renamed")
	require.NoError(t, err)
	assert.Equal(t, "coach@example.com", u.Email)
	assert.Equal(t, "Coach Renamed", u.Name)

	got, err := svc.Get(ctx, "coach-1")
	require.NoError(t, err)
	assert.Equal(t, "Coach Renamed", got.Name)

	_, err = svc.Ensure(ctx, "", "", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = svc.Get(ctx, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
