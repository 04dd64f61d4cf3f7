package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/config"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
	"github.com/lacrosselens/lacrosselens-engine/pkg/prompts"
	"github.com/lacrosselens/lacrosselens-engine/pkg/videoai"
)

// segmentsJSON builds n scenes of 20s; every third one is high importance.
func segmentsJSON(n int) string {
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		importance := "medium"
		if i%3 == 0 {
			importance = "high"
		}
		parts[i] = fmt.Sprintf(`{"start": %d, "end": %d, "description": "scene %d", "importance": %q}`, i*20, i*20+20, i, importance)
	}
	return `{"segments": [` + strings.Join(parts, ",") + `]}`
}

const (
	technicalJSON = `{
		"players": [{"playerIdentifier": "#23 white", "evaluation": "#23 white shows an exceptional shot", "confidence": 90}],
		"faceOffs": [{"analysis": "White wins the clamp", "winner": "white", "technique": "clamp"}]
	}`
	tacticalJSON = `{
		"summary": "White controls tempo with a 2-3-1 motion offense",
		"formations": [
			{"timestamp": "1:05", "team": "White", "formationType": "offense", "formation": "2-3-1", "effectiveness": 80},
			{"timestamp": 70, "team": "blue", "formationType": "press", "formation": "10-man ride"},
			{"timestamp": 90, "team": "blue", "formationType": "defense", "formation": ""}
		],
		"transitions": [{"timestamp": 30, "analysis": "Blue clears against a 10-man ride", "type": "clear"}]
	}`
	statisticalJSON = `{"events": [{"timestamp": "2:10", "description": "#23 white scores", "type": "goal", "importance": "high", "team": "white"}]}`
)

type phaseModel struct {
	segments    string
	technical   string
	tactical    string
	statistical string
	failPhase   string
	technicalN  atomic.Int32
}

func (p *phaseModel) mock() *videoai.MockVideoModel {
	m := videoai.NewMockVideoModel()
	m.AnalyzeFunc = func(_ context.Context, req *videoai.Request) (string, error) {
		switch {
		case strings.Contains(req.Prompt, "# Phase 1"):
			if p.failPhase == PhaseSegmentation {
				return "", errors.New("segmentation unavailable")
			}
			return p.segments, nil
		case strings.Contains(req.Prompt, "# Phase 2"):
			p.technicalN.Add(1)
			if p.failPhase == PhaseTechnical {
				return "not json at all", nil
			}
			return p.technical, nil
		case strings.Contains(req.Prompt, "# Phase 3"):
			return p.tactical, nil
		case strings.Contains(req.Prompt, "# Phase 4"):
			if p.failPhase == PhaseStatistical {
				return "", errors.New("statistics unavailable")
			}
			return p.statistical, nil
		}
		return "", errors.New("unexpected prompt")
	}
	return m
}

func newTestAnalyzer(model videoai.VideoModel) MultiPassAnalyzer {
	return NewMultiPassAnalyzer(model, &config.ProcessingConfig{SegmentWorkers: 2, MaxSegments: 10}, zap.NewNop())
}

func TestMultiPass_MergesPhases(t *testing.T) {
	p := &phaseModel{segments: segmentsJSON(18), technical: technicalJSON, tactical: tacticalJSON, statistical: statisticalJSON}
	model := p.mock()
	video := &models.Video{ID: uuid.New(), Title: "Final", PlayerNumber: models.StringPtr("23")}

	res, err := newTestAnalyzer(model).Analyze(context.Background(), video, &videoai.VideoInput{Title: "Final"})
	require.NoError(t, err)

	// 18 scenes, every third is high: 6 technical calls.
	assert.Equal(t, int32(6), p.technicalN.Load())
	assert.Equal(t, 1+6+1+1, model.Calls())
	assert.Len(t, res.Segments, 18)

	assert.Equal(t, "White controls tempo with a 2-3-1 motion offense", res.Result.OverallAnalysis)
	assert.Len(t, res.Result.PlayerEvaluations, 6)
	assert.Len(t, res.Result.FaceOffAnalysis, 6)
	assert.Len(t, res.Result.TransitionAnalysis, 1)
	assert.Len(t, res.Result.KeyMoments, 1)

	// Unknown formation types and blank formations are dropped.
	require.Len(t, res.Formations, 1)
	f := res.Formations[0]
	assert.Equal(t, video.ID, f.VideoID)
	assert.Equal(t, "white", f.Team)
	assert.Equal(t, "offense", f.FormationType)
	require.NotNil(t, f.Timestamp)
	assert.Equal(t, 65.0, *f.Timestamp)
	require.NotNil(t, f.Effectiveness)
	assert.Equal(t, 80, *f.Effectiveness)

	for _, req := range model.Requests() {
		assert.Equal(t, prompts.SystemPersona, req.System)
		assert.True(t, req.JSON)
		assert.Contains(t, req.Prompt, "player #23")
	}
}

func TestMultiPass_TechnicalItemsDefaultToSegmentStart(t *testing.T) {
	p := &phaseModel{segments: segmentsJSON(15), technical: technicalJSON, tactical: tacticalJSON, statistical: statisticalJSON}
	res, err := newTestAnalyzer(p.mock()).Analyze(context.Background(), &models.Video{ID: uuid.New()}, &videoai.VideoInput{})
	require.NoError(t, err)

	starts := map[float64]bool{}
	for _, pe := range res.Result.PlayerEvaluations {
		require.True(t, pe.Timestamp.Valid)
		starts[pe.Timestamp.Seconds] = true
	}
	// high scenes are 0, 3, 6, 9, 12 -> starts 0, 60, 120, 180, 240
	assert.Equal(t, map[float64]bool{0: true, 60: true, 120: true, 180: true, 240: true}, starts)
}

func TestMultiPass_ItemsRecordSegmentsAndPhases(t *testing.T) {
	p := &phaseModel{segments: segmentsJSON(15), technical: technicalJSON, tactical: tacticalJSON, statistical: statisticalJSON}
	res, err := newTestAnalyzer(p.mock()).Analyze(context.Background(), &models.Video{ID: uuid.New()}, &videoai.VideoInput{})
	require.NoError(t, err)

	items := res.Items()
	require.NotEmpty(t, items)
	overall, ok := items[0].Metadata.(*models.OverallMetadata)
	require.True(t, ok)
	assert.Equal(t, models.SourceMultiPass, overall.Source)
	assert.Equal(t, 15, overall.SegmentCount)
	assert.Equal(t, []string{PhaseSegmentation, PhaseTechnical, PhaseTactical, PhaseStatistical}, overall.Phases)
}

func TestMultiPass_PhaseFailureFailsAnalysis(t *testing.T) {
	for _, phase := range []string{PhaseSegmentation, PhaseTechnical, PhaseStatistical} {
		t.Run(phase, func(t *testing.T) {
			p := &phaseModel{
				segments: segmentsJSON(15), technical: technicalJSON, tactical: tacticalJSON,
				statistical: statisticalJSON, failPhase: phase,
			}
			_, err := newTestAnalyzer(p.mock()).Analyze(context.Background(), &models.Video{ID: uuid.New()}, &videoai.VideoInput{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), phase)
		})
	}
}

func TestMultiPass_InvalidSegmentationIsRejected(t *testing.T) {
	cases := map[string]string{
		"empty":          `{"segments": []}`,
		"bad importance": `{"segments": [{"start": 0, "end": 10, "description": "x", "importance": "urgent"}]}`,
		"reversed":       `{"segments": [{"start": 30, "end": 10, "description": "x", "importance": "low"}]}`,
		"no start":       `{"segments": [{"end": 10, "description": "x", "importance": "low"}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			p := &phaseModel{segments: body, technical: technicalJSON, tactical: tacticalJSON, statistical: statisticalJSON}
			_, err := newTestAnalyzer(p.mock()).Analyze(context.Background(), &models.Video{ID: uuid.New()}, &videoai.VideoInput{})
			assert.Error(t, err)
		})
	}
}

func TestSelectFocusSegments(t *testing.T) {
	segs := []prompts.SegmentContext{
		{Index: 0, Importance: "low"},
		{Index: 1, Importance: "medium"},
		{Index: 2, Importance: "high"},
		{Index: 3, Importance: "high"},
		{Index: 4, Importance: "high"},
	}
	got := selectFocusSegments(segs, 2)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Index)
	assert.Equal(t, 3, got[1].Index)

	got = selectFocusSegments(segs[:2], 10)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Index)

	assert.Empty(t, selectFocusSegments(segs[:1], 10))
}

func TestToSegments_SortsAndFillsEnd(t *testing.T) {
	var resp segmentationResponse
	require.NoError(t, json.Unmarshal([]byte(`{"segments": [
		{"start": "1:00", "description": "b", "importance": "LOW"},
		{"start": 0, "end": 20, "description": "a", "importance": "high"},
		{"start": 90, "description": "c", "importance": "medium"}
	]}`), &resp))

	segs := toSegments(resp.Segments)
	require.Len(t, segs, 3)
	assert.Equal(t, "a", segs[0].Description)
	assert.Equal(t, 20.0, segs[0].End)
	assert.Equal(t, "b", segs[1].Description)
	assert.Equal(t, 90.0, segs[1].End, "open scene ends where the next begins")
	assert.Equal(t, "low", segs[1].Importance)
	assert.Equal(t, 90.0, segs[2].End)
	assert.Equal(t, 2, segs[2].Index)
}
