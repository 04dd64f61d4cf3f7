package models

import (
	"encoding/json"
	"fmt"
)

// MetadataSource records which processing path produced an analysis.
type MetadataSource string

const (
	SourceStandard  MetadataSource = "standard"
	SourceMultiPass MetadataSource = "multi_pass"
)

// AnalysisMetadata is the typed metadata attached to an Analysis. There is
// one concrete type per AnalysisType; DecodeMetadata picks it from the type.
type AnalysisMetadata interface {
	Kind() AnalysisType
	Validate() error
}

// OverallMetadata describes the summary item.
type OverallMetadata struct {
	Source       MetadataSource `json:"source"`
	SegmentCount int            `json:"segmentCount,omitempty"`
	Phases       []string       `json:"phases,omitempty"`
}

// PlayerEvaluationMetadata carries what the model told us about the player.
type PlayerEvaluationMetadata struct {
	Source           MetadataSource `json:"source"`
	PlayerIdentifier string         `json:"playerIdentifier,omitempty"`
	JerseyNumber     string         `json:"jerseyNumber,omitempty"`
	TeamColor        string         `json:"teamColor,omitempty"`
	Position         string         `json:"position,omitempty"`
	Skills           *SkillRatings  `json:"skills,omitempty"`
}

// FaceOffMetadata carries model-reported face-off fields.
type FaceOffMetadata struct {
	Source    MetadataSource `json:"source"`
	Winner    string         `json:"winner,omitempty"`
	Technique string         `json:"technique,omitempty"`
}

// TransitionMetadata carries model-reported transition fields.
type TransitionMetadata struct {
	Source         MetadataSource `json:"source"`
	TransitionType string         `json:"transitionType,omitempty"`
	Formation      string         `json:"formation,omitempty"`
}

// KeyMomentMetadata carries the model's own label for the moment.
type KeyMomentMetadata struct {
	Source     MetadataSource `json:"source"`
	MomentType string         `json:"momentType,omitempty"`
	Importance string         `json:"importance,omitempty"`
	EndTime    *float64       `json:"endTime,omitempty"`
	Team       string         `json:"team,omitempty"`
}

func (OverallMetadata) Kind() AnalysisType          { return AnalysisTypeOverall }
func (PlayerEvaluationMetadata) Kind() AnalysisType { return AnalysisTypePlayerEvaluation }
func (FaceOffMetadata) Kind() AnalysisType          { return AnalysisTypeFaceOff }
func (TransitionMetadata) Kind() AnalysisType       { return AnalysisTypeTransition }
func (KeyMomentMetadata) Kind() AnalysisType        { return AnalysisTypeKeyMoment }

func (m OverallMetadata) Validate() error {
	if m.SegmentCount < 0 {
		return fmt.Errorf("segmentCount must not be negative")
	}
	return nil
}

func (m PlayerEvaluationMetadata) Validate() error {
	if m.Skills != nil {
		return m.Skills.Validate()
	}
	return nil
}

func (FaceOffMetadata) Validate() error    { return nil }
func (TransitionMetadata) Validate() error { return nil }

func (m KeyMomentMetadata) Validate() error {
	switch m.Importance {
	case "", "high", "medium", "low":
		return nil
	}
	return fmt.Errorf("importance %q is not high, medium or low", m.Importance)
}

// NewMetadata returns empty metadata of the right concrete type.
func NewMetadata(t AnalysisType, source MetadataSource) AnalysisMetadata {
	switch t {
	case AnalysisTypePlayerEvaluation:
		return &PlayerEvaluationMetadata{Source: source}
	case AnalysisTypeFaceOff:
		return &FaceOffMetadata{Source: source}
	case AnalysisTypeTransition:
		return &TransitionMetadata{Source: source}
	case AnalysisTypeKeyMoment:
		return &KeyMomentMetadata{Source: source}
	default:
		return &OverallMetadata{Source: source}
	}
}

// DecodeMetadata parses stored JSON into the concrete metadata for t and
// validates it. Empty input yields empty metadata of that type.
func DecodeMetadata(t AnalysisType, raw []byte) (AnalysisMetadata, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown analysis type %q", t)
	}
	m := NewMetadata(t, "")
	if len(raw) == 0 || string(raw) == "null" {
		return m, nil
	}
	if err := json.Unmarshal(raw, m); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", t, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s metadata: %w", t, err)
	}
	return m, nil
}

// EncodeMetadata serializes metadata for storage, checking it matches t.
func EncodeMetadata(t AnalysisType, m AnalysisMetadata) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	if m.Kind() != t {
		return nil, fmt.Errorf("metadata kind %s does not match analysis type %s", m.Kind(), t)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(m)
}
