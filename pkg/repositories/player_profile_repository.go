package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lacrosselens/lacrosselens-engine/pkg/apperrors"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

// PlayerProfileRepository defines data access for per-video player profiles.
type PlayerProfileRepository interface {
	// Upsert merges an observation into the (video, identifier) profile in a
	// single statement. A new profile is seeded from the observation; an
	// existing one averages each skill with the observed value, fills empty
	// descriptive fields and keeps its ratings.
	Upsert(ctx context.Context, obs *models.ProfileObservation) (*models.PlayerProfile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.PlayerProfile, error)
	GetByIdentifier(ctx context.Context, videoID uuid.UUID, identifier string) (*models.PlayerProfile, error)
	ListByVideo(ctx context.Context, videoID uuid.UUID) ([]*models.PlayerProfile, error)
}

type playerProfileRepository struct{}

// NewPlayerProfileRepository creates a new player profile repository.
func NewPlayerProfileRepository() PlayerProfileRepository {
	return &playerProfileRepository{}
}

var _ PlayerProfileRepository = (*playerProfileRepository)(nil)

const profileColumns = `
	id, video_id, player_identifier, jersey_number, team_color, position,
	handedness, height_estimate, dodging_skill, shooting_skill, passing_skill,
	ground_ball_skill, defense_skill, off_ball_skill, iq_skill, athleticism,
	overall_rating::float8, potential_rating::float8, coachability_score,
	observation_count, created_at, updated_at`

func (r *playerProfileRepository) Upsert(ctx context.Context, obs *models.ProfileObservation) (*models.PlayerProfile, error) {
	q, err := conn(ctx)
	if err != nil {
		return nil, err
	}
	if obs.PlayerIdentifier == "" {
		return nil, fmt.Errorf("%w: player identifier is required", apperrors.ErrInvalidInput)
	}
	if err := obs.Skills.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidInput, err)
	}

	// ROUND on numeric rounds half away from zero.
	query := `
		INSERT INTO player_profiles AS p (
			id, video_id, player_identifier, jersey_number, team_color, position,
			handedness, height_estimate, dodging_skill, shooting_skill, passing_skill,
			ground_ball_skill, defense_skill, off_ball_skill, iq_skill, athleticism,
			overall_rating, potential_rating, coachability_score, observation_count,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, 1, now(), now()
		)
		ON CONFLICT ON CONSTRAINT uq_player_profiles_video_identifier DO UPDATE SET
			dodging_skill     = ROUND((p.dodging_skill + EXCLUDED.dodging_skill) / 2.0)::int,
			shooting_skill    = ROUND((p.shooting_skill + EXCLUDED.shooting_skill) / 2.0)::int,
			passing_skill     = ROUND((p.passing_skill + EXCLUDED.passing_skill) / 2.0)::int,
			ground_ball_skill = ROUND((p.ground_ball_skill + EXCLUDED.ground_ball_skill) / 2.0)::int,
			defense_skill     = ROUND((p.defense_skill + EXCLUDED.defense_skill) / 2.0)::int,
			off_ball_skill    = ROUND((p.off_ball_skill + EXCLUDED.off_ball_skill) / 2.0)::int,
			iq_skill          = ROUND((p.iq_skill + EXCLUDED.iq_skill) / 2.0)::int,
			athleticism       = ROUND((p.athleticism + EXCLUDED.athleticism) / 2.0)::int,
			jersey_number     = COALESCE(p.jersey_number, EXCLUDED.jersey_number),
			team_color        = COALESCE(p.team_color, EXCLUDED.team_color),
			position          = COALESCE(p.position, EXCLUDED.position),
			handedness        = CASE WHEN p.handedness = 'unknown' THEN EXCLUDED.handedness ELSE p.handedness END,
			observation_count = p.observation_count + 1,
			updated_at        = now()
		RETURNING ` + profileColumns

	s := obs.Skills
	row := q.QueryRow(ctx, query,
		uuid.New(), obs.VideoID, obs.PlayerIdentifier, obs.JerseyNumber, obs.TeamColor, obs.Position,
		orDefault(obs.Handedness, "unknown"), orDefault(obs.HeightEstimate, "average"),
		s.Dodging, s.Shooting, s.Passing, s.GroundBalls, s.Defense, s.OffBall, s.IQ, s.Athleticism,
		obs.OverallRating, obs.PotentialRating, obs.CoachabilityScore,
	)
	profile, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert player profile: %w", err)
	}
	return profile, nil
}

func (r *playerProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PlayerProfile, error) {
	q, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := scanProfile(q.QueryRow(ctx, `SELECT `+profileColumns+` FROM player_profiles WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player profile: %w", err)
	}
	return profile, nil
}

func (r *playerProfileRepository) GetByIdentifier(ctx context.Context, videoID uuid.UUID, identifier string) (*models.PlayerProfile, error) {
	q, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := scanProfile(q.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM player_profiles WHERE video_id = $1 AND player_identifier = $2`,
		videoID, identifier))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player profile: %w", err)
	}
	return profile, nil
}

func (r *playerProfileRepository) ListByVideo(ctx context.Context, videoID uuid.UUID) ([]*models.PlayerProfile, error) {
	q, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
		SELECT `+profileColumns+` FROM player_profiles
		WHERE video_id = $1
		ORDER BY overall_rating DESC, observation_count DESC, player_identifier`, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list player profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]*models.PlayerProfile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player profiles: %w", err)
	}
	return profiles, nil
}

func scanProfile(row pgx.Row) (*models.PlayerProfile, error) {
	var p models.PlayerProfile
	err := row.Scan(
		&p.ID, &p.VideoID, &p.PlayerIdentifier, &p.JerseyNumber, &p.TeamColor, &p.Position,
		&p.Handedness, &p.HeightEstimate, &p.DodgingSkill, &p.ShootingSkill, &p.PassingSkill,
		&p.GroundBallSkill, &p.DefenseSkill, &p.OffBallSkill, &p.IQSkill, &p.Athleticism,
		&p.OverallRating, &p.PotentialRating, &p.CoachabilityScore,
		&p.ObservationCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
