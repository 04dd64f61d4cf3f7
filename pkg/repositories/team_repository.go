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

// TeamRepository defines data access for teams and their rosters.
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Team, error)
	AddPlayer(ctx context.Context, player *models.Player) error
	ListPlayers(ctx context.Context, teamID uuid.UUID) ([]*models.Player, error)
}

type teamRepository struct{}

// NewTeamRepository creates a new team repository.
func NewTeamRepository() TeamRepository {
	return &teamRepository{}
}

var _ TeamRepository = (*teamRepository)(nil)

func (r *teamRepository) Create(ctx context.Context, team *models.Team) error {
	q, err := conn(ctx)
	if err != nil {
		return err
	}

	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}
	team.CreatedAt = time.Now()

	_, err = q.Exec(ctx, `
		INSERT INTO teams (id, user_id, name, level, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		team.ID, team.UserID, team.Name, team.Level, team.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *teamRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	q, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	var t models.Team
	err = q.QueryRow(ctx, `SELECT id, user_id, name, level, created_at FROM teams WHERE id = $1`, id).
		Scan(&t.ID, &t.UserID, &t.Name, &t.Level, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return &t, nil
}

func (r *teamRepository) ListByUser(ctx context.Context, userID string) ([]*models.Team, error) {
	q, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
		SELECT id, user_id, name, level, created_at FROM teams
		WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Level, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}
	return teams, nil
}

func (r *teamRepository) AddPlayer(ctx context.Context, player *models.Player) error {
	q, err := conn(ctx)
	if err != nil {
		return err
	}

	if player.ID == uuid.Nil {
		player.ID = uuid.New()
	}
	player.CreatedAt = time.Now()

	_, err = q.Exec(ctx, `
		INSERT INTO players (id, team_id, name, jersey_number, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		player.ID, player.TeamID, player.Name, player.JerseyNumber, player.Position, player.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add player: %w", err)
	}
	return nil
}

func (r *teamRepository) ListPlayers(ctx context.Context, teamID uuid.UUID) ([]*models.Player, error) {
	q, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
		SELECT id, team_id, name, jersey_number, position, created_at FROM players
		WHERE team_id = $1 ORDER BY name`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.TeamID, &p.Name, &p.JerseyNumber, &p.Position, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}
	return players, nil
}
