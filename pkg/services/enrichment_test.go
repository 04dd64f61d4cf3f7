package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

type enrichmentFixture struct {
	video    *models.Video
	analyses *memAnalysisRepo
	profiles *memProfileRepo
	events   *memPlayEventRepo
	registry *EnricherRegistry
	svc      EnrichmentService
}

func newEnrichmentFixture(t *testing.T) *enrichmentFixture {
	t.Helper()
	f := &enrichmentFixture{
		video:    &models.Video{ID: uuid.New(), UserID: "coach-1", Title: "Scrimmage"},
		analyses: newMemAnalysisRepo(),
		profiles: newMemProfileRepo(),
		events:   newMemPlayEventRepo(),
	}
	aggregator := NewProfileAggregator(f.profiles, zap.NewNop())
	f.registry = NewDefaultEnricherRegistry(aggregator, f.events)
	f.svc = NewEnrichmentService(f.analyses, f.registry, nil, zap.NewNop())
	return f
}

func TestEnrich_PlayerEvaluationAveragesSkills(t *testing.T) {
	f := newEnrichmentFixture(t)
	ctx := context.Background()

	_, err := f.svc.Enrich(ctx, f.video, models.RawAnalysis{
		Type:    models.AnalysisTypePlayerEvaluation,
		Content: "#23 white shows an exceptional shot",
	})
	require.NoError(t, err)
	_, err = f.svc.Enrich(ctx, f.video, models.RawAnalysis{
		Type:    models.AnalysisTypePlayerEvaluation,
		Content: "#23 white has an inconsistent shot",
	})
	require.NoError(t, err)

	profile, err := f.profiles.GetByIdentifier(ctx, f.video.ID, "#23 white")
	require.NoError(t, err)
	assert.Equal(t, 75, profile.ShootingSkill)
	assert.Equal(t, 2, profile.ObservationCount)
	require.NotNil(t, profile.TeamColor)
	assert.Equal(t, "white", *profile.TeamColor)

	evals := f.events.byType(models.EventEvaluation)
	require.Len(t, evals, 2)
	for _, e := range evals {
		require.NotNil(t, e.PrimaryPlayerID)
		assert.Equal(t, profile.ID, *e.PrimaryPlayerID)
	}
}

func TestEnrich_PlayerEvaluationWithoutIdentifier(t *testing.T) {
	f := newEnrichmentFixture(t)

	a, err := f.svc.Enrich(context.Background(), f.video, models.RawAnalysis{
		Type:    models.AnalysisTypePlayerEvaluation,
		Content: "The midfield unit shows great speed",
	})
	require.NoError(t, err)
	assert.Empty(t, a.PlayerIDs)

	evals := f.events.byType(models.EventEvaluation)
	require.Len(t, evals, 1)
	assert.Nil(t, evals[0].PrimaryPlayerID)
	assert.Empty(t, f.profiles.profiles)
}

func TestEnrich_PlayerEvaluationUsesMetadataIdentifier(t *testing.T) {
	f := newEnrichmentFixture(t)

	a, err := f.svc.Enrich(context.Background(), f.video, models.RawAnalysis{
		Type:    models.AnalysisTypePlayerEvaluation,
		Content: "Crisp passing all game",
		Metadata: &models.PlayerEvaluationMetadata{
			Source:       models.SourceStandard,
			JerseyNumber: "7",
			TeamColor:    "Blue",
		},
	})
	require.NoError(t, err)

	profile, err := f.profiles.GetByIdentifier(context.Background(), f.video.ID, "#7 blue")
	require.NoError(t, err)
	assert.Equal(t, 80, profile.PassingSkill)
	assert.Equal(t, f.video.ID, a.VideoID)
}

func TestEnrich_FaceOffFastBreak(t *testing.T) {
	f := newEnrichmentFixture(t)
	ts := 42.0

	a, err := f.svc.Enrich(context.Background(), f.video, models.RawAnalysis{
		Type:      models.AnalysisTypeFaceOff,
		Content:   "White wins the clamp and explodes forward for a fast break",
		Timestamp: &ts,
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultConfidence, a.Confidence)

	faceoffs, err := f.events.ListFaceoffs(context.Background(), f.video.ID)
	require.NoError(t, err)
	require.Len(t, faceoffs, 1)

	fo := faceoffs[0]
	require.NotNil(t, fo.Detail.Winner)
	assert.Equal(t, "white", *fo.Detail.Winner)
	require.NotNil(t, fo.Detail.ExitDirection)
	assert.Equal(t, "forward", *fo.Detail.ExitDirection)
	assert.True(t, fo.Detail.FastBreakOpportunity)
	assert.Equal(t, models.ContextTransition, fo.GameContext)
	assert.Equal(t, a.ID, fo.AnalysisID)
	require.NotNil(t, fo.StartTime)
	assert.Equal(t, 42.0, *fo.StartTime)
}

func TestEnrich_FaceOffMetadataFallback(t *testing.T) {
	f := newEnrichmentFixture(t)

	_, err := f.svc.Enrich(context.Background(), f.video, models.RawAnalysis{
		Type:     models.AnalysisTypeFaceOff,
		Content:  "Battle at the X",
		Metadata: &models.FaceOffMetadata{Source: models.SourceMultiPass, Winner: "blue", Technique: "plunger"},
	})
	require.NoError(t, err)

	faceoffs, _ := f.events.ListFaceoffs(context.Background(), f.video.ID)
	require.Len(t, faceoffs, 1)
	require.NotNil(t, faceoffs[0].Detail.Winner)
	assert.Equal(t, "blue", *faceoffs[0].Detail.Winner)
	assert.Equal(t, "plunger", faceoffs[0].Detail.Technique)
}

func TestEnrich_TransitionCreatesDetail(t *testing.T) {
	f := newEnrichmentFixture(t)

	_, err := f.svc.Enrich(context.Background(), f.video, models.RawAnalysis{
		Type:     models.AnalysisTypeTransition,
		Content:  "Clean clear up the middle",
		Metadata: &models.TransitionMetadata{Source: models.SourceStandard, Formation: "2-3-1"},
	})
	require.NoError(t, err)

	transitions, _ := f.events.ListTransitions(context.Background(), f.video.ID)
	require.Len(t, transitions, 1)
	tr := transitions[0]
	assert.Equal(t, models.ContextTransition, tr.GameContext)
	require.NotNil(t, tr.Detail.OffensiveFormation)
	assert.Equal(t, tr.Success, tr.Detail.Success)
}

func TestEnrich_KeyMomentGoalLinksPlayersAndShotDetail(t *testing.T) {
	f := newEnrichmentFixture(t)
	ctx := context.Background()

	_, err := f.svc.Enrich(ctx, f.video, models.RawAnalysis{
		Type:    models.AnalysisTypePlayerEvaluation,
		Content: "#23 white shows an exceptional shot",
	})
	require.NoError(t, err)

	ts := 95.0
	_, err = f.svc.Enrich(ctx, f.video, models.RawAnalysis{
		Type:      models.AnalysisTypeKeyMoment,
		Content:   "#23 white scores from the left wing",
		Timestamp: &ts,
		Metadata:  &models.KeyMomentMetadata{Source: models.SourceStandard, Importance: "high"},
	})
	require.NoError(t, err)

	goals := f.events.byType(models.EventGoal)
	require.Len(t, goals, 1)
	goal := goals[0]
	require.NotNil(t, goal.PrimaryPlayerID)
	profile, _ := f.profiles.GetByIdentifier(ctx, f.video.ID, "#23 white")
	assert.Equal(t, profile.ID, *goal.PrimaryPlayerID)
	assert.Nil(t, goal.SecondaryPlayerID)
	assert.True(t, goal.Success)
	require.NotNil(t, goal.EventSubtype)
	assert.Equal(t, "high", *goal.EventSubtype)
	require.NotNil(t, goal.Team)
	assert.Equal(t, "white", *goal.Team)

	assert.Contains(t, f.events.shots, goal.ID)
	assert.Empty(t, f.events.defensive)
}

func TestEnrich_KeyMomentSaveCreatesDefensiveDetail(t *testing.T) {
	f := newEnrichmentFixture(t)

	_, err := f.svc.Enrich(context.Background(), f.video, models.RawAnalysis{
		Type:    models.AnalysisTypeKeyMoment,
		Content: "#1 blue makes the save",
	})
	require.NoError(t, err)

	saves := f.events.byType(models.EventSave)
	require.Len(t, saves, 1)
	assert.Nil(t, saves[0].PrimaryPlayerID, "no profile exists for the goalie")
	assert.Contains(t, f.events.defensive, saves[0].ID)
}

func TestEnrich_KeyMomentLabelFallback(t *testing.T) {
	f := newEnrichmentFixture(t)

	_, err := f.svc.Enrich(context.Background(), f.video, models.RawAnalysis{
		Type:     models.AnalysisTypeKeyMoment,
		Content:  "Huge momentum swing for the home side",
		Metadata: &models.KeyMomentMetadata{Source: models.SourceMultiPass, MomentType: "penalty"},
	})
	require.NoError(t, err)

	penalties := f.events.byType(models.EventPenalty)
	require.Len(t, penalties, 1)
	assert.False(t, penalties[0].Success)
}

func TestEnrich_OverallStoresOnlyAnalysis(t *testing.T) {
	f := newEnrichmentFixture(t)

	a, err := f.svc.Enrich(context.Background(), f.video, models.RawAnalysis{
		Type:       models.AnalysisTypeOverall,
		Content:    "White controlled the pace with patient offense",
		Confidence: 140,
	})
	require.NoError(t, err)
	assert.Equal(t, 100, a.Confidence)
	assert.NotEmpty(t, a.Title)
	assert.Empty(t, f.events.events)
}

func TestEnrich_UnknownTypeIsRejected(t *testing.T) {
	f := newEnrichmentFixture(t)

	_, err := f.svc.Enrich(context.Background(), f.video, models.RawAnalysis{Type: "scouting_report", Content: "x"})
	assert.Error(t, err)
	assert.Empty(t, f.analyses.analyses)
}

func TestEnrich_EnrichmentFailureKeepsAnalysis(t *testing.T) {
	f := newEnrichmentFixture(t)
	f.events.failCreate = errBoom

	a, err := f.svc.Enrich(context.Background(), f.video, models.RawAnalysis{
		Type:    models.AnalysisTypeFaceOff,
		Content: "White wins the clamp",
	})
	require.NoError(t, err)
	require.NotNil(t, a)

	count, _ := f.analyses.CountByVideo(context.Background(), f.video.ID)
	assert.Equal(t, 1, count)
}

func TestEnrich_EnrichmentFailureIsLogged(t *testing.T) {
	f := newEnrichmentFixture(t)
	f.events.failCreate = errBoom
	core, logs := observer.New(zapcore.WarnLevel)
	svc := NewEnrichmentService(f.analyses, f.registry, nil, zap.New(core))

	_, err := svc.Enrich(context.Background(), f.video, models.RawAnalysis{
		Type:    models.AnalysisTypeFaceOff,
		Content: "White wins the clamp",
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("Enrichment failed, keeping base analysis").All()
	require.Len(t, entries, 1)
	assert.Equal(t, string(models.AnalysisTypeFaceOff), entries[0].ContextMap()["type"])
}

func TestEnrichBatch_IsolatesFailures(t *testing.T) {
	f := newEnrichmentFixture(t)
	f.registry.Register(models.AnalysisTypeFaceOff, EnricherFunc(func(context.Context, *models.Video, *models.Analysis) error {
		panic("enricher exploded")
	}))
	f.analyses.failOn = func(a *models.Analysis) error {
		if a.Type == models.AnalysisTypeTransition {
			return errBoom
		}
		return nil
	}

	items := []models.RawAnalysis{
		{Type: models.AnalysisTypeOverall, Content: "Solid game overall"},
		{Type: models.AnalysisTypeFaceOff, Content: "White wins the clamp"},
		{Type: models.AnalysisTypeTransition, Content: "Clean clear"},
		{Type: models.AnalysisTypeKeyMoment, Content: "#23 white scores"},
	}
	res := f.svc.EnrichBatch(context.Background(), f.video, items)

	assert.Equal(t, BatchResult{Persisted: 3, WriteFailures: 1, EnrichmentFailures: 1}, res)
	count, _ := f.analyses.CountByVideo(context.Background(), f.video.ID)
	assert.Equal(t, 3, count)
	assert.Len(t, f.events.byType(models.EventGoal), 1)
}

func TestEnrich_TransactorWrapsEnricher(t *testing.T) {
	f := newEnrichmentFixture(t)
	var calls int
	tx := func(ctx context.Context, fn func(context.Context) error) error {
		calls++
		return fn(ctx)
	}
	svc := NewEnrichmentService(f.analyses, f.registry, tx, zap.NewNop())

	_, err := svc.Enrich(context.Background(), f.video, models.RawAnalysis{
		Type:    models.AnalysisTypeKeyMoment,
		Content: "#23 white scores",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
