package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/config"
	"github.com/lacrosselens/lacrosselens-engine/pkg/jsonutil"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
	"github.com/lacrosselens/lacrosselens-engine/pkg/prompts"
	"github.com/lacrosselens/lacrosselens-engine/pkg/videoai"
)

// Scene count bounds requested from the segmentation phase.
const (
	MinSegments = 15
	MaxSegments = 30
)

// Phase names, recorded on the overall analysis.
const (
	PhaseSegmentation = "segmentation"
	PhaseTechnical    = "technical"
	PhaseTactical     = "tactical"
	PhaseStatistical  = "statistical"
)

// MultiPassAnalyzer runs the four-phase analysis of a video.
type MultiPassAnalyzer interface {
	// Analyze returns the merged result. Any phase failure fails the whole
	// analysis; the caller decides whether to fall back.
	Analyze(ctx context.Context, video *models.Video, input *videoai.VideoInput) (*MultiPassResult, error)
}

// MultiPassResult is the merged output of all phases.
type MultiPassResult struct {
	Result     *videoai.AnalysisResult
	Formations []*models.TeamFormation
	Segments   []prompts.SegmentContext
	Phases     []string
}

// Items flattens the result, recording the segment count and phases on the
// overall item.
func (r *MultiPassResult) Items() []models.RawAnalysis {
	items := r.Result.Items(models.SourceMultiPass)
	for i := range items {
		if m, ok := items[i].Metadata.(*models.OverallMetadata); ok {
			m.SegmentCount = len(r.Segments)
			m.Phases = r.Phases
		}
	}
	return items
}

// ============================================================================
// Phase response shapes
// ============================================================================

type segmentItem struct {
	Start       jsonutil.Timestamp  `json:"start"`
	End         jsonutil.Timestamp  `json:"end"`
	Description string              `json:"description"`
	Importance  jsonutil.FlexString `json:"importance"`
}

type segmentationResponse struct {
	Segments []segmentItem `json:"segments"`
}

func (r *segmentationResponse) Validate() error {
	if len(r.Segments) == 0 {
		return fmt.Errorf("no segments")
	}
	for i, s := range r.Segments {
		if !s.Start.Valid {
			return fmt.Errorf("segment %d has no start", i)
		}
		if s.End.Valid && s.End.Seconds < s.Start.Seconds {
			return fmt.Errorf("segment %d ends before it starts", i)
		}
		if strings.TrimSpace(s.Description) == "" {
			return fmt.Errorf("segment %d has no description", i)
		}
		switch strings.ToLower(s.Importance.String()) {
		case "high", "medium", "low":
		default:
			return fmt.Errorf("segment %d importance %q is not high, medium or low", i, s.Importance)
		}
	}
	return nil
}

type technicalResponse struct {
	Players  []videoai.PlayerEvaluation `json:"players"`
	FaceOffs []videoai.FaceOffItem      `json:"faceOffs"`
}

type formationItem struct {
	Timestamp     jsonutil.Timestamp  `json:"timestamp"`
	Team          jsonutil.FlexString `json:"team"`
	FormationType jsonutil.FlexString `json:"formationType"`
	Formation     jsonutil.FlexString `json:"formation"`
	Effectiveness jsonutil.Confidence `json:"effectiveness"`
}

type tacticalResponse struct {
	Summary     string                   `json:"summary"`
	Formations  []formationItem          `json:"formations"`
	Transitions []videoai.TransitionItem `json:"transitions"`
}

func (r *tacticalResponse) Validate() error {
	if strings.TrimSpace(r.Summary) == "" && len(r.Formations) == 0 && len(r.Transitions) == 0 {
		return fmt.Errorf("tactical response is empty")
	}
	return nil
}

type statisticalResponse struct {
	Events []videoai.KeyMomentItem `json:"events"`
}

// ============================================================================
// Analyzer
// ============================================================================

type multiPassAnalyzer struct {
	model       videoai.VideoModel
	pool        *videoai.WorkerPool
	maxSegments int
	logger      *zap.Logger
}

// NewMultiPassAnalyzer creates the four-phase analyzer. Technical breakdowns
// run through a worker pool sized by cfg.SegmentWorkers.
func NewMultiPassAnalyzer(model videoai.VideoModel, cfg *config.ProcessingConfig, logger *zap.Logger) MultiPassAnalyzer {
	maxSegments := cfg.MaxSegments
	if maxSegments < 1 {
		maxSegments = 10
	}
	return &multiPassAnalyzer{
		model:       model,
		pool:        videoai.NewWorkerPool(videoai.WorkerPoolConfig{MaxConcurrent: cfg.SegmentWorkers}, logger),
		maxSegments: maxSegments,
		logger:      logger.Named("multi-pass"),
	}
}

var _ MultiPassAnalyzer = (*multiPassAnalyzer)(nil)

// callPhase sends one prompt and decodes its JSON answer into T.
func callPhase[T any](ctx context.Context, model videoai.VideoModel, input *videoai.VideoInput, prompt string) (T, error) {
	var zero T
	response, err := model.Analyze(ctx, &videoai.Request{
		System: prompts.SystemPersona,
		Prompt: prompt,
		Video:  input,
		JSON:   true,
	})
	if err != nil {
		return zero, err
	}
	return videoai.ParseJSONResponse[T](response)
}

func (a *multiPassAnalyzer) Analyze(ctx context.Context, video *models.Video, input *videoai.VideoInput) (*MultiPassResult, error) {
	hints := video.Hints()
	log := a.logger.With(zap.String("video_id", video.ID.String()))

	seg, err := callPhase[segmentationResponse](ctx, a.model, input, prompts.BuildSegmentationPrompt(hints))
	if err != nil {
		return nil, fmt.Errorf("%s phase: %w", PhaseSegmentation, err)
	}
	segments := toSegments(seg.Segments)
	if n := len(seg.Segments); n < MinSegments || n > MaxSegments {
		log.Warn("Segment count outside requested range", zap.Int("segments", n))
	}
	log.Debug("Segmentation complete", zap.Int("segments", len(segments)))

	focus := selectFocusSegments(segments, a.maxSegments)
	technical, err := a.technicalPhase(ctx, input, focus, hints)
	if err != nil {
		return nil, fmt.Errorf("%s phase: %w", PhaseTechnical, err)
	}

	tactical, err := callPhase[tacticalResponse](ctx, a.model, input, prompts.BuildTacticalPrompt(segments, hints))
	if err != nil {
		return nil, fmt.Errorf("%s phase: %w", PhaseTactical, err)
	}

	stats, err := callPhase[statisticalResponse](ctx, a.model, input, prompts.BuildStatisticalPrompt(segments, hints))
	if err != nil {
		return nil, fmt.Errorf("%s phase: %w", PhaseStatistical, err)
	}

	merged := &videoai.AnalysisResult{
		OverallAnalysis:    strings.TrimSpace(tactical.Summary),
		TransitionAnalysis: tactical.Transitions,
		KeyMoments:         stats.Events,
	}
	for _, t := range technical {
		merged.PlayerEvaluations = append(merged.PlayerEvaluations, t.Players...)
		merged.FaceOffAnalysis = append(merged.FaceOffAnalysis, t.FaceOffs...)
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	result := &MultiPassResult{
		Result:     merged,
		Formations: toFormations(video, tactical.Formations),
		Segments:   segments,
		Phases:     []string{PhaseSegmentation, PhaseTechnical, PhaseTactical, PhaseStatistical},
	}
	log.Info("Multi-pass analysis complete",
		zap.Int("segments", len(segments)),
		zap.Int("focus_segments", len(focus)),
		zap.Int("items", merged.Len()),
		zap.Int("formations", len(result.Formations)))
	return result, nil
}

// technicalPhase breaks down each focus segment in parallel. Items without a
// timestamp are placed at the start of their segment.
func (a *multiPassAnalyzer) technicalPhase(ctx context.Context, input *videoai.VideoInput, focus []prompts.SegmentContext, hints models.TargetingHints) ([]technicalResponse, error) {
	items := make([]videoai.WorkItem[technicalResponse], 0, len(focus))
	for _, s := range focus {
		segment := s
		items = append(items, videoai.WorkItem[technicalResponse]{
			ID: fmt.Sprintf("segment-%d", segment.Index),
			Execute: func(ctx context.Context) (technicalResponse, error) {
				resp, err := callPhase[technicalResponse](ctx, a.model, input, prompts.BuildTechnicalPrompt(segment, hints))
				if err != nil {
					return resp, err
				}
				for i := range resp.Players {
					if !resp.Players[i].Timestamp.Valid {
						resp.Players[i].Timestamp = jsonutil.Timestamp{Seconds: segment.Start, Valid: true}
					}
				}
				for i := range resp.FaceOffs {
					if !resp.FaceOffs[i].Timestamp.Valid {
						resp.FaceOffs[i].Timestamp = jsonutil.Timestamp{Seconds: segment.Start, Valid: true}
					}
				}
				return resp, nil
			},
		})
	}

	results := videoai.Process(ctx, a.pool, items, nil)
	if err := videoai.FirstError(results); err != nil {
		return nil, err
	}
	out := make([]technicalResponse, len(results))
	for i, r := range results {
		out[i] = r.Result
	}
	return out, nil
}

// toSegments orders scenes by start time and caps them at MaxSegments.
func toSegments(items []segmentItem) []prompts.SegmentContext {
	sorted := make([]segmentItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start.Seconds < sorted[j].Start.Seconds })
	if len(sorted) > MaxSegments {
		sorted = sorted[:MaxSegments]
	}

	out := make([]prompts.SegmentContext, len(sorted))
	for i, s := range sorted {
		end := s.Start.Seconds
		if s.End.Valid {
			end = s.End.Seconds
		} else if i+1 < len(sorted) {
			end = sorted[i+1].Start.Seconds
		}
		out[i] = prompts.SegmentContext{
			Index:       i,
			Start:       s.Start.Seconds,
			End:         end,
			Description: strings.TrimSpace(s.Description),
			Importance:  strings.ToLower(s.Importance.String()),
		}
	}
	return out
}

// selectFocusSegments returns up to limit high-importance scenes in timeline
// order. Footage with no high-importance scene uses its medium ones.
func selectFocusSegments(segments []prompts.SegmentContext, limit int) []prompts.SegmentContext {
	for _, importance := range []string{"high", "medium"} {
		var out []prompts.SegmentContext
		for _, s := range segments {
			if s.Importance == importance {
				out = append(out, s)
			}
			if len(out) == limit {
				break
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

var formationTypes = map[string]bool{"offense": true, "defense": true, "ride": true, "clear": true}

func toFormations(video *models.Video, items []formationItem) []*models.TeamFormation {
	out := make([]*models.TeamFormation, 0, len(items))
	for _, f := range items {
		formation := strings.TrimSpace(f.Formation.String())
		kind := strings.ToLower(f.FormationType.String())
		if formation == "" || !formationTypes[kind] {
			continue
		}
		tf := &models.TeamFormation{
			VideoID:       video.ID,
			Timestamp:     f.Timestamp.Ptr(),
			Team:          strings.ToLower(f.Team.String()),
			FormationType: kind,
			Formation:     formation,
			Source:        string(models.SourceMultiPass),
		}
		if f.Effectiveness.Valid {
			v := f.Effectiveness.Value
			tf.Effectiveness = &v
		}
		out = append(out, tf)
	}
	return out
}
