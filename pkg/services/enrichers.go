package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lacrosselens/lacrosselens-engine/pkg/extraction"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
	"github.com/lacrosselens/lacrosselens-engine/pkg/repositories"
)

// Enricher derives structured rows from one persisted analysis.
type Enricher interface {
	Enrich(ctx context.Context, video *models.Video, analysis *models.Analysis) error
}

// EnricherFunc adapts a function to Enricher.
type EnricherFunc func(ctx context.Context, video *models.Video, analysis *models.Analysis) error

func (f EnricherFunc) Enrich(ctx context.Context, video *models.Video, analysis *models.Analysis) error {
	return f(ctx, video, analysis)
}

// EnricherRegistry maps analysis types to their enrichers.
type EnricherRegistry struct {
	enrichers map[models.AnalysisType]Enricher
}

// NewEnricherRegistry creates an empty registry.
func NewEnricherRegistry() *EnricherRegistry {
	return &EnricherRegistry{enrichers: make(map[models.AnalysisType]Enricher)}
}

// Register sets the enricher for t, replacing any previous one.
func (r *EnricherRegistry) Register(t models.AnalysisType, e Enricher) {
	r.enrichers[t] = e
}

// Lookup returns the enricher for t.
func (r *EnricherRegistry) Lookup(t models.AnalysisType) (Enricher, bool) {
	e, ok := r.enrichers[t]
	return e, ok
}

// NewDefaultEnricherRegistry wires the enrichers for every analysis type.
// Overall analyses are stored as-is.
func NewDefaultEnricherRegistry(profiles ProfileAggregator, events repositories.PlayEventRepository) *EnricherRegistry {
	r := NewEnricherRegistry()
	r.Register(models.AnalysisTypeOverall, EnricherFunc(func(context.Context, *models.Video, *models.Analysis) error { return nil }))
	r.Register(models.AnalysisTypePlayerEvaluation, &playerEvaluationEnricher{profiles: profiles, events: events})
	r.Register(models.AnalysisTypeFaceOff, &faceOffEnricher{events: events})
	r.Register(models.AnalysisTypeTransition, &transitionEnricher{events: events})
	r.Register(models.AnalysisTypeKeyMoment, &keyMomentEnricher{profiles: profiles, events: events})
	return r
}

// newPlayEvent fills the fields shared by every event derived from a.
func newPlayEvent(a *models.Analysis, eventType models.EventType, success bool) *models.PlayEvent {
	return &models.PlayEvent{
		VideoID:     a.VideoID,
		AnalysisID:  a.ID,
		StartTime:   a.Timestamp,
		EventType:   eventType,
		FieldZone:   extraction.FieldZoneOf(a.Content),
		FieldSide:   extraction.FieldSideOf(a.Content),
		Success:     success,
		Confidence:  a.Confidence,
		Description: a.Content,
		GameContext: extraction.GameContextOf(a.Content),
		Momentum:    extraction.MomentumOf(eventType, success),
	}
}

// playSuccess returns the classifier's success flag for category t, or def
// when the text does not mention it.
func playSuccess(content string, t extraction.PlayType, def bool) bool {
	for _, p := range extraction.Classify(content) {
		if p.Type == t {
			return p.Success
		}
	}
	return def
}

// ============================================================================
// player_evaluation
// ============================================================================

type playerEvaluationEnricher struct {
	profiles ProfileAggregator
	events   repositories.PlayEventRepository
}

// resolveIdentifier prefers what the model reported, then the text.
func resolveIdentifier(content string, meta *models.PlayerEvaluationMetadata) extraction.IdentifierInfo {
	var id string
	if meta != nil {
		id = meta.PlayerIdentifier
		if id == "" {
			id = extraction.CanonicalIdentifier(meta.JerseyNumber, meta.TeamColor, meta.Position)
		}
	}
	if id == "" {
		id = extraction.PrimaryIdentifier(content)
	}
	if id == "" {
		return extraction.IdentifierInfo{}
	}

	info := extraction.ParseIdentifier(id)
	if info.TeamColor == "" {
		info.TeamColor = extraction.TeamColor(content)
		if info.TeamColor == "" && meta != nil {
			info.TeamColor = meta.TeamColor
		}
	}
	if info.Position == "" {
		info.Position = extraction.Position(content)
		if info.Position == "" && meta != nil {
			info.Position = meta.Position
		}
	}
	return info
}

func (e *playerEvaluationEnricher) Enrich(ctx context.Context, video *models.Video, a *models.Analysis) error {
	meta, _ := a.Metadata.(*models.PlayerEvaluationMetadata)
	info := resolveIdentifier(a.Content, meta)
	skills := extraction.RateSkills(a.Content)

	event := newPlayEvent(a, models.EventEvaluation, true)
	if info.Identifier != "" {
		profile, err := e.profiles.UpsertProfile(ctx, video.ID, info, skills, a.Content)
		if err != nil {
			return err
		}
		event.PrimaryPlayerID = &profile.ID
		event.Team = models.StringPtr(info.TeamColor)
	}
	event.EventSubtype = models.StringPtr(info.Position)

	return e.events.Create(ctx, event)
}

// ============================================================================
// face_off
// ============================================================================

type faceOffEnricher struct {
	events repositories.PlayEventRepository
}

func (e *faceOffEnricher) Enrich(ctx context.Context, _ *models.Video, a *models.Analysis) error {
	detail := extraction.ExtractFaceoffDetail(a.Content)
	if meta, ok := a.Metadata.(*models.FaceOffMetadata); ok {
		if detail.Winner == nil && meta.Winner != "" {
			detail.Winner = models.StringPtr(meta.Winner)
			detail.PossessionTeam = detail.Winner
		}
		if detail.Technique == "neutral" && meta.Technique != "" {
			detail.Technique = meta.Technique
		}
	}

	event := newPlayEvent(a, models.EventFaceoff, playSuccess(a.Content, extraction.PlayFaceOff, true))
	event.EventSubtype = models.StringPtr(detail.Technique)
	event.Team = detail.Winner
	if detail.FastBreakOpportunity {
		event.GameContext = models.ContextTransition
	}
	if err := e.events.Create(ctx, event); err != nil {
		return err
	}

	detail.PlayEventID = event.ID
	if err := e.events.CreateFaceoffDetail(ctx, &detail); err != nil {
		return fmt.Errorf("faceoff detail: %w", err)
	}
	return nil
}

// ============================================================================
// transition
// ============================================================================

type transitionEnricher struct {
	events repositories.PlayEventRepository
}

func (e *transitionEnricher) Enrich(ctx context.Context, _ *models.Video, a *models.Analysis) error {
	detail := extraction.ExtractTransitionDetail(a.Content)
	if meta, ok := a.Metadata.(*models.TransitionMetadata); ok {
		if detail.TransitionType == "transition" && meta.TransitionType != "" {
			detail.TransitionType = meta.TransitionType
		}
		if detail.OffensiveFormation == nil && meta.Formation != "" {
			detail.OffensiveFormation = models.StringPtr(meta.Formation)
		}
	}

	event := newPlayEvent(a, models.EventTransition, detail.Success)
	event.EventSubtype = models.StringPtr(detail.TransitionType)
	event.GameContext = models.ContextTransition
	switch {
	case detail.ClearingTeam != nil:
		event.Team = detail.ClearingTeam
	case detail.RidingTeam != nil:
		event.Team = detail.RidingTeam
	}
	if a.Timestamp != nil && detail.DurationSeconds != nil {
		end := *a.Timestamp + float64(*detail.DurationSeconds)
		event.EndTime = &end
	}
	if err := e.events.Create(ctx, event); err != nil {
		return err
	}

	detail.PlayEventID = event.ID
	if err := e.events.CreateTransitionDetail(ctx, &detail); err != nil {
		return fmt.Errorf("transition detail: %w", err)
	}
	return nil
}

// ============================================================================
// key_moment
// ============================================================================

type keyMomentEnricher struct {
	profiles ProfileAggregator
	events   repositories.PlayEventRepository
}

var momentPlay = map[models.EventType]extraction.PlayType{
	models.EventGoal:           extraction.PlayGoal,
	models.EventAssist:         extraction.PlayAssist,
	models.EventSave:           extraction.PlaySave,
	models.EventCausedTurnover: extraction.PlayCausedTurnover,
	models.EventPenalty:        extraction.PlayPenalty,
	models.EventShot:           extraction.PlayShot,
}

// momentTypeFromLabel maps the model's own label to an event type when the
// text alone only yields a highlight.
func momentTypeFromLabel(label string) (models.EventType, bool) {
	t := models.EventType(label)
	if _, ok := momentPlay[t]; ok {
		return t, true
	}
	return "", false
}

func (e *keyMomentEnricher) Enrich(ctx context.Context, video *models.Video, a *models.Analysis) error {
	meta, _ := a.Metadata.(*models.KeyMomentMetadata)

	eventType := extraction.KeyMomentType(a.Content)
	if eventType == models.EventHighlight && meta != nil {
		if t, ok := momentTypeFromLabel(meta.MomentType); ok {
			eventType = t
		}
	}

	success := true
	if play, ok := momentPlay[eventType]; ok {
		success = playSuccess(a.Content, play, eventType != models.EventPenalty)
	}

	event := newPlayEvent(a, eventType, success)
	if meta != nil {
		event.EndTime = meta.EndTime
		event.Team = models.StringPtr(meta.Team)
		event.EventSubtype = models.StringPtr(meta.Importance)
	}
	if event.Team == nil {
		event.Team = models.StringPtr(extraction.TeamColor(a.Content))
	}

	ids := extraction.ExtractIdentifiers(a.Content)
	players := make([]*uuid.UUID, 0, 2)
	for _, id := range ids {
		if len(players) == 2 {
			break
		}
		profile, err := e.profiles.Lookup(ctx, video.ID, id)
		if err != nil {
			return err
		}
		if profile != nil {
			players = append(players, &profile.ID)
		}
	}
	if len(players) > 0 {
		event.PrimaryPlayerID = players[0]
	}
	if len(players) > 1 {
		event.SecondaryPlayerID = players[1]
	}

	if err := e.events.Create(ctx, event); err != nil {
		return err
	}

	switch eventType {
	case models.EventGoal, models.EventShot:
		detail := extraction.ExtractShotDetail(a.Content, eventType)
		detail.PlayEventID = event.ID
		if err := e.events.CreateShotDetail(ctx, &detail); err != nil {
			return fmt.Errorf("shot detail: %w", err)
		}
	case models.EventSave, models.EventCausedTurnover:
		detail := extraction.ExtractDefensiveDetail(a.Content, eventType)
		detail.PlayEventID = event.ID
		if err := e.events.CreateDefensiveDetail(ctx, &detail); err != nil {
			return fmt.Errorf("defensive detail: %w", err)
		}
	}
	return nil
}
