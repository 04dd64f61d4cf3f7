package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/apperrors"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
	"github.com/lacrosselens/lacrosselens-engine/pkg/repositories"
)

// TeamService manages a coach's teams and rosters.
type TeamService interface {
	Create(ctx context.Context, userID, name string, level *string) (*models.Team, error)
	List(ctx context.Context, userID string) ([]*models.Team, error)
	AddPlayer(ctx context.Context, userID string, teamID uuid.UUID, player *models.Player) (*models.Player, error)
	ListPlayers(ctx context.Context, userID string, teamID uuid.UUID) ([]*models.Player, error)
}

type teamService struct {
	teamRepo repositories.TeamRepository
	logger   *zap.Logger
}

func NewTeamService(teamRepo repositories.TeamRepository, logger *zap.Logger) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		logger:   logger.Named("teams"),
	}
}

var _ TeamService = (*teamService)(nil)

func (s *teamService) Create(ctx context.Context, userID, name string, level *string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: team name is required", apperrors.ErrInvalidInput)
	}
	team := &models.Team{UserID: userID, Name: name}
	if level != nil {
		team.Level = models.StringPtr(strings.TrimSpace(*level))
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}
	s.logger.Info("Team created", zap.String("team_id", team.ID.String()), zap.String("user_id", userID))
	return team, nil
}

func (s *teamService) List(ctx context.Context, userID string) ([]*models.Team, error) {
	teams, err := s.teamRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if teams == nil {
		teams = []*models.Team{}
	}
	return teams, nil
}

func (s *teamService) ownedTeam(ctx context.Context, userID string, teamID uuid.UUID) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return team, nil
}

func (s *teamService) AddPlayer(ctx context.Context, userID string, teamID uuid.UUID, player *models.Player) (*models.Player, error) {
	if _, err := s.ownedTeam(ctx, userID, teamID); err != nil {
		return nil, err
	}
	player.Name = strings.TrimSpace(player.Name)
	if player.Name == "" {
		return nil, fmt.Errorf("%w: player name is required", apperrors.ErrInvalidInput)
	}
	if player.JerseyNumber != nil {
		player.JerseyNumber = models.StringPtr(strings.TrimPrefix(strings.TrimSpace(*player.JerseyNumber), "#"))
	}
	if player.Position != nil {
		player.Position = models.StringPtr(strings.TrimSpace(*player.Position))
	}
	player.ID = uuid.Nil
	player.TeamID = teamID
	if err := s.teamRepo.AddPlayer(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (s *teamService) ListPlayers(ctx context.Context, userID string, teamID uuid.UUID) ([]*models.Player, error) {
	if _, err := s.ownedTeam(ctx, userID, teamID); err != nil {
		return nil, err
	}
	players, err := s.teamRepo.ListPlayers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if players == nil {
		players = []*models.Player{}
	}
	return players, nil
}
