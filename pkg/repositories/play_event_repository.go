package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

// PlayEventRepository defines data access for play events and their 1:1
// detail tables.
type PlayEventRepository interface {
	Create(ctx context.Context, e *models.PlayEvent) error
	CreateFaceoffDetail(ctx context.Context, d *models.FaceoffDetail) error
	CreateTransitionDetail(ctx context.Context, d *models.TransitionDetail) error
	CreateShotDetail(ctx context.Context, d *models.ShotDetail) error
	CreateDefensiveDetail(ctx context.Context, d *models.DefensiveDetail) error

	ListByVideo(ctx context.Context, videoID uuid.UUID) ([]*models.PlayEvent, error)
	ListByPlayer(ctx context.Context, profileID uuid.UUID) ([]*models.PlayEvent, error)
	ListFaceoffs(ctx context.Context, videoID uuid.UUID) ([]*models.FaceoffEvent, error)
	ListTransitions(ctx context.Context, videoID uuid.UUID) ([]*models.TransitionEvent, error)
}

type playEventRepository struct{}

// NewPlayEventRepository creates a new play event repository.
func NewPlayEventRepository() PlayEventRepository {
	return &playEventRepository{}
}

var _ PlayEventRepository = (*playEventRepository)(nil)

const playEventColumns = `
	e.id, e.video_id, e.analysis_id, e.start_time, e.end_time, e.event_type, e.event_subtype,
	e.primary_player_id, e.secondary_player_id, e.team, e.field_zone, e.field_side,
	e.success, e.confidence, e.description, e.game_context, e.momentum, e.created_at`

func (r *playEventRepository) Create(ctx context.Context, e *models.PlayEvent) error {
	q, err := conn(ctx)
	if err != nil {
		return err
	}

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.GameContext == "" {
		e.GameContext = models.ContextEvenStrength
	}
	if e.Momentum == "" {
		e.Momentum = models.MomentumNeutral
	}
	e.CreatedAt = time.Now()

	_, err = q.Exec(ctx, `
		INSERT INTO play_events (
			id, video_id, analysis_id, start_time, end_time, event_type, event_subtype,
			primary_player_id, secondary_player_id, team, field_zone, field_side,
			success, confidence, description, game_context, momentum, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		e.ID, e.VideoID, e.AnalysisID, e.StartTime, e.EndTime, e.EventType, e.EventSubtype,
		e.PrimaryPlayerID, e.SecondaryPlayerID, e.Team, e.FieldZone, e.FieldSide,
		e.Success, e.Confidence, e.Description, e.GameContext, e.Momentum, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create play event: %w", err)
	}
	return nil
}

func (r *playEventRepository) CreateFaceoffDetail(ctx context.Context, d *models.FaceoffDetail) error {
	q, err := conn(ctx)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO faceoff_details (
			play_event_id, technique, clamp_speed, clamp_angle, counter_move, counter_timing,
			exit_direction, exit_speed, wing_support, winner, possession_team,
			fast_break_opportunity, violation, ground_ball_battle
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		d.PlayEventID, d.Technique, d.ClampSpeed, d.ClampAngle, d.CounterMove, d.CounterTiming,
		d.ExitDirection, d.ExitSpeed, d.WingSupport, d.Winner, d.PossessionTeam,
		d.FastBreakOpportunity, d.Violation, d.GroundBallBattle,
	)
	if err != nil {
		return fmt.Errorf("failed to create faceoff detail: %w", err)
	}
	return nil
}

func (r *playEventRepository) CreateTransitionDetail(ctx context.Context, d *models.TransitionDetail) error {
	q, err := conn(ctx)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO transition_details (
			play_event_id, transition_type, clearing_team, riding_team, offensive_formation,
			defensive_formation, pass_count, ground_ball_count, pressure_level, field_spacing,
			numbers_advantage, success, resulting_opportunity, duration_seconds
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		d.PlayEventID, d.TransitionType, d.ClearingTeam, d.RidingTeam, d.OffensiveFormation,
		d.DefensiveFormation, d.PassCount, d.GroundBallCount, d.PressureLevel, d.FieldSpacing,
		d.NumbersAdvantage, d.Success, d.ResultingOpportunity, d.DurationSeconds,
	)
	if err != nil {
		return fmt.Errorf("failed to create transition detail: %w", err)
	}
	return nil
}

func (r *playEventRepository) CreateShotDetail(ctx context.Context, d *models.ShotDetail) error {
	q, err := conn(ctx)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO shot_details (play_event_id, shot_type, shot_location, shot_distance, velocity, outcome)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		d.PlayEventID, d.ShotType, d.ShotLocation, d.ShotDistance, d.Velocity, d.Outcome,
	)
	if err != nil {
		return fmt.Errorf("failed to create shot detail: %w", err)
	}
	return nil
}

func (r *playEventRepository) CreateDefensiveDetail(ctx context.Context, d *models.DefensiveDetail) error {
	q, err := conn(ctx)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO defensive_details (play_event_id, defense_type, check_type, result)
		VALUES ($1, $2, $3, $4)`,
		d.PlayEventID, d.DefenseType, d.CheckType, d.Result,
	)
	if err != nil {
		return fmt.Errorf("failed to create defensive detail: %w", err)
	}
	return nil
}

func (r *playEventRepository) ListByVideo(ctx context.Context, videoID uuid.UUID) ([]*models.PlayEvent, error) {
	return r.list(ctx, `
		SELECT `+playEventColumns+` FROM play_events e
		WHERE e.video_id = $1
		ORDER BY e.start_time NULLS LAST, e.created_at`, videoID)
}

func (r *playEventRepository) ListByPlayer(ctx context.Context, profileID uuid.UUID) ([]*models.PlayEvent, error) {
	return r.list(ctx, `
		SELECT `+playEventColumns+` FROM play_events e
		WHERE e.primary_player_id = $1 OR e.secondary_player_id = $1
		ORDER BY e.start_time NULLS LAST, e.created_at`, profileID)
}

func (r *playEventRepository) list(ctx context.Context, query string, id uuid.UUID) ([]*models.PlayEvent, error) {
	q, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list play events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.PlayEvent, 0)
	for rows.Next() {
		var e models.PlayEvent
		if err := rows.Scan(playEventDest(&e)...); err != nil {
			return nil, fmt.Errorf("failed to scan play event: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating play events: %w", err)
	}
	return events, nil
}

func (r *playEventRepository) ListFaceoffs(ctx context.Context, videoID uuid.UUID) ([]*models.FaceoffEvent, error) {
	q, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
		SELECT `+playEventColumns+`,
		       d.technique, d.clamp_speed, d.clamp_angle, d.counter_move, d.counter_timing,
		       d.exit_direction, d.exit_speed, d.wing_support, d.winner, d.possession_team,
		       d.fast_break_opportunity, d.violation, d.ground_ball_battle
		FROM play_events e
		JOIN faceoff_details d ON d.play_event_id = e.id
		WHERE e.video_id = $1
		ORDER BY e.start_time NULLS LAST, e.created_at`, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list faceoffs: %w", err)
	}
	defer rows.Close()

	return collect(rows, func(row pgx.Rows) (*models.FaceoffEvent, error) {
		var f models.FaceoffEvent
		d := &f.Detail
		dest := append(playEventDest(&f.PlayEvent),
			&d.Technique, &d.ClampSpeed, &d.ClampAngle, &d.CounterMove, &d.CounterTiming,
			&d.ExitDirection, &d.ExitSpeed, &d.WingSupport, &d.Winner, &d.PossessionTeam,
			&d.FastBreakOpportunity, &d.Violation, &d.GroundBallBattle,
		)
		if err := row.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan faceoff: %w", err)
		}
		d.PlayEventID = f.ID
		return &f, nil
	})
}

func (r *playEventRepository) ListTransitions(ctx context.Context, videoID uuid.UUID) ([]*models.TransitionEvent, error) {
	q, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
		SELECT `+playEventColumns+`,
		       d.transition_type, d.clearing_team, d.riding_team, d.offensive_formation,
		       d.defensive_formation, d.pass_count, d.ground_ball_count, d.pressure_level,
		       d.field_spacing, d.numbers_advantage, d.success, d.resulting_opportunity,
		       d.duration_seconds
		FROM play_events e
		JOIN transition_details d ON d.play_event_id = e.id
		WHERE e.video_id = $1
		ORDER BY e.start_time NULLS LAST, e.created_at`, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transitions: %w", err)
	}
	defer rows.Close()

	return collect(rows, func(row pgx.Rows) (*models.TransitionEvent, error) {
		var t models.TransitionEvent
		d := &t.Detail
		dest := append(playEventDest(&t.PlayEvent),
			&d.TransitionType, &d.ClearingTeam, &d.RidingTeam, &d.OffensiveFormation,
			&d.DefensiveFormation, &d.PassCount, &d.GroundBallCount, &d.PressureLevel,
			&d.FieldSpacing, &d.NumbersAdvantage, &d.Success, &d.ResultingOpportunity,
			&d.DurationSeconds,
		)
		if err := row.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan transition: %w", err)
		}
		d.PlayEventID = t.ID
		return &t, nil
	})
}

func playEventDest(e *models.PlayEvent) []any {
	return []any{
		&e.ID, &e.VideoID, &e.AnalysisID, &e.StartTime, &e.EndTime, &e.EventType, &e.EventSubtype,
		&e.PrimaryPlayerID, &e.SecondaryPlayerID, &e.Team, &e.FieldZone, &e.FieldSide,
		&e.Success, &e.Confidence, &e.Description, &e.GameContext, &e.Momentum, &e.CreatedAt,
	}
}

func collect[T any](rows pgx.Rows, scan func(pgx.Rows) (T, error)) ([]T, error) {
	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}
