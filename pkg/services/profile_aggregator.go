package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/apperrors"
	"github.com/lacrosselens/lacrosselens-engine/pkg/extraction"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
	"github.com/lacrosselens/lacrosselens-engine/pkg/repositories"
)

// ProfileAggregator maintains one evolving profile per (video, player identifier).
type ProfileAggregator interface {
	// UpsertProfile seeds a profile from the first observation of a player or
	// merges a later one into it. sourceText feeds the handedness, height,
	// coachability and potential probes.
	UpsertProfile(ctx context.Context, videoID uuid.UUID, info extraction.IdentifierInfo, skills models.SkillRatings, sourceText string) (*models.PlayerProfile, error)

	// Lookup returns the profile for identifier, or nil when the player has
	// not been evaluated in this video.
	Lookup(ctx context.Context, videoID uuid.UUID, identifier string) (*models.PlayerProfile, error)
}

type profileAggregator struct {
	repo   repositories.PlayerProfileRepository
	logger *zap.Logger
}

// NewProfileAggregator creates a profile aggregator.
func NewProfileAggregator(repo repositories.PlayerProfileRepository, logger *zap.Logger) ProfileAggregator {
	return &profileAggregator{
		repo:   repo,
		logger: logger.Named("profile-aggregator"),
	}
}

var _ ProfileAggregator = (*profileAggregator)(nil)

func (a *profileAggregator) UpsertProfile(ctx context.Context, videoID uuid.UUID, info extraction.IdentifierInfo, skills models.SkillRatings, sourceText string) (*models.PlayerProfile, error) {
	if info.Identifier == "" {
		return nil, fmt.Errorf("player identifier required: %w", apperrors.ErrInvalidInput)
	}
	if err := skills.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}

	obs := extraction.BuildObservation(info, skills, sourceText)
	obs.VideoID = videoID

	profile, err := a.repo.Upsert(ctx, &obs)
	if err != nil {
		return nil, fmt.Errorf("upsert profile %s: %w", info.Identifier, err)
	}

	a.logger.Debug("Profile merged",
		zap.String("video_id", videoID.String()),
		zap.String("player", info.Identifier),
		zap.Int("observations", profile.ObservationCount))
	return profile, nil
}

func (a *profileAggregator) Lookup(ctx context.Context, videoID uuid.UUID, identifier string) (*models.PlayerProfile, error) {
	if identifier == "" {
		return nil, nil
	}
	profile, err := a.repo.GetByIdentifier(ctx, videoID, identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}
