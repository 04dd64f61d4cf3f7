package videoai

import (
	"strings"

	"github.com/lacrosselens/lacrosselens-engine/pkg/apperrors"
	"github.com/lacrosselens/lacrosselens-engine/pkg/jsonutil"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

// AnalysisResult is the fixed response shape of a standard analysis call.
// The multi-pass orchestrator assembles the same shape from its phases.
type AnalysisResult struct {
	OverallAnalysis    string             `json:"overallAnalysis"`
	PlayerEvaluations  []PlayerEvaluation `json:"playerEvaluations"`
	FaceOffAnalysis    []FaceOffItem      `json:"faceOffAnalysis"`
	TransitionAnalysis []TransitionItem   `json:"transitionAnalysis"`
	KeyMoments         []KeyMomentItem    `json:"keyMoments"`
}

// PlayerEvaluation is one player assessment.
type PlayerEvaluation struct {
	PlayerIdentifier jsonutil.FlexString `json:"playerIdentifier"`
	JerseyNumber     jsonutil.FlexString `json:"jerseyNumber"`
	TeamColor        jsonutil.FlexString `json:"teamColor"`
	Position         jsonutil.FlexString `json:"position"`
	Evaluation       string              `json:"evaluation"`
	Timestamp        jsonutil.Timestamp  `json:"timestamp"`
	Confidence       jsonutil.Confidence `json:"confidence"`
}

// FaceOffItem is one face-off breakdown.
type FaceOffItem struct {
	Timestamp  jsonutil.Timestamp  `json:"timestamp"`
	Analysis   string              `json:"analysis"`
	Winner     jsonutil.FlexString `json:"winner"`
	Technique  jsonutil.FlexString `json:"technique"`
	Confidence jsonutil.Confidence `json:"confidence"`
}

// TransitionItem is one clear, ride or fast break.
type TransitionItem struct {
	Timestamp  jsonutil.Timestamp  `json:"timestamp"`
	Analysis   string              `json:"analysis"`
	Type       jsonutil.FlexString `json:"type"`
	Formation  jsonutil.FlexString `json:"formation"`
	Confidence jsonutil.Confidence `json:"confidence"`
}

// KeyMomentItem is one highlight.
type KeyMomentItem struct {
	Timestamp   jsonutil.Timestamp  `json:"timestamp"`
	EndTime     jsonutil.Timestamp  `json:"endTime"`
	Description string              `json:"description"`
	Type        jsonutil.FlexString `json:"type"`
	Importance  jsonutil.FlexString `json:"importance"`
	Team        jsonutil.FlexString `json:"team"`
	Confidence  jsonutil.Confidence `json:"confidence"`
}

// Validate rejects a result with no usable content.
func (r *AnalysisResult) Validate() error {
	if r.Len() == 0 {
		return apperrors.ErrEmptyAnalysis
	}
	return nil
}

// Len counts the items Items would return.
func (r *AnalysisResult) Len() int {
	n := 0
	if strings.TrimSpace(r.OverallAnalysis) != "" {
		n++
	}
	for _, p := range r.PlayerEvaluations {
		if strings.TrimSpace(p.Evaluation) != "" {
			n++
		}
	}
	for _, f := range r.FaceOffAnalysis {
		if strings.TrimSpace(f.Analysis) != "" {
			n++
		}
	}
	for _, t := range r.TransitionAnalysis {
		if strings.TrimSpace(t.Analysis) != "" {
			n++
		}
	}
	for _, k := range r.KeyMoments {
		if strings.TrimSpace(k.Description) != "" {
			n++
		}
	}
	return n
}

// Items flattens the result into analysis items in response order. Blank
// items are dropped; missing confidences get models.DefaultConfidence.
func (r *AnalysisResult) Items(source models.MetadataSource) []models.RawAnalysis {
	items := make([]models.RawAnalysis, 0, r.Len())

	if content := strings.TrimSpace(r.OverallAnalysis); content != "" {
		items = append(items, models.RawAnalysis{
			Type:       models.AnalysisTypeOverall,
			Content:    content,
			Confidence: models.DefaultConfidence,
			Metadata:   &models.OverallMetadata{Source: source},
		})
	}

	for _, p := range r.PlayerEvaluations {
		content := strings.TrimSpace(p.Evaluation)
		if content == "" {
			continue
		}
		items = append(items, models.RawAnalysis{
			Type:       models.AnalysisTypePlayerEvaluation,
			Content:    content,
			Timestamp:  p.Timestamp.Ptr(),
			Confidence: p.Confidence.Or(models.DefaultConfidence),
			Metadata: &models.PlayerEvaluationMetadata{
				Source:           source,
				PlayerIdentifier: p.PlayerIdentifier.String(),
				JerseyNumber:     strings.TrimPrefix(p.JerseyNumber.String(), "#"),
				TeamColor:        strings.ToLower(p.TeamColor.String()),
				Position:         strings.ToLower(p.Position.String()),
			},
		})
	}

	for _, f := range r.FaceOffAnalysis {
		content := strings.TrimSpace(f.Analysis)
		if content == "" {
			continue
		}
		items = append(items, models.RawAnalysis{
			Type:       models.AnalysisTypeFaceOff,
			Content:    content,
			Timestamp:  f.Timestamp.Ptr(),
			Confidence: f.Confidence.Or(models.DefaultConfidence),
			Metadata: &models.FaceOffMetadata{
				Source:    source,
				Winner:    strings.ToLower(f.Winner.String()),
				Technique: strings.ToLower(f.Technique.String()),
			},
		})
	}

	for _, t := range r.TransitionAnalysis {
		content := strings.TrimSpace(t.Analysis)
		if content == "" {
			continue
		}
		items = append(items, models.RawAnalysis{
			Type:       models.AnalysisTypeTransition,
			Content:    content,
			Timestamp:  t.Timestamp.Ptr(),
			Confidence: t.Confidence.Or(models.DefaultConfidence),
			Metadata: &models.TransitionMetadata{
				Source:         source,
				TransitionType: strings.ToLower(t.Type.String()),
				Formation:      t.Formation.String(),
			},
		})
	}

	for _, k := range r.KeyMoments {
		content := strings.TrimSpace(k.Description)
		if content == "" {
			continue
		}
		items = append(items, models.RawAnalysis{
			Type:       models.AnalysisTypeKeyMoment,
			Content:    content,
			Timestamp:  k.Timestamp.Ptr(),
			Confidence: k.Confidence.Or(models.DefaultConfidence),
			Metadata: &models.KeyMomentMetadata{
				Source:     source,
				MomentType: strings.ToLower(k.Type.String()),
				Importance: normalizeImportance(k.Importance.String()),
				EndTime:    k.EndTime.Ptr(),
				Team:       strings.ToLower(k.Team.String()),
			},
		})
	}

	return items
}

// normalizeImportance maps free-form importance labels onto high|medium|low.
func normalizeImportance(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "critical", "major":
		return "high"
	case "medium", "moderate":
		return "medium"
	case "low", "minor":
		return "low"
	}
	return ""
}
