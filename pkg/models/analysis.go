package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AnalysisType is the taxonomy of items returned by the video model.
type AnalysisType string

const (
	AnalysisTypeOverall          AnalysisType = "overall"
	AnalysisTypePlayerEvaluation AnalysisType = "player_evaluation"
	AnalysisTypeFaceOff          AnalysisType = "face_off"
	AnalysisTypeTransition       AnalysisType = "transition"
	AnalysisTypeKeyMoment        AnalysisType = "key_moment"
)

// AnalysisTypes lists every known type in display order.
var AnalysisTypes = []AnalysisType{
	AnalysisTypeOverall,
	AnalysisTypePlayerEvaluation,
	AnalysisTypeFaceOff,
	AnalysisTypeTransition,
	AnalysisTypeKeyMoment,
}

// Valid reports whether t is a known analysis type.
func (t AnalysisType) Valid() bool {
	for _, known := range AnalysisTypes {
		if t == known {
			return true
		}
	}
	return false
}

// DefaultConfidence applies when neither the model nor the parent record gave one.
const DefaultConfidence = 85

// Analysis is one atomic unit of model output tied to a video. Rows are
// written once and never updated.
type Analysis struct {
	ID         uuid.UUID        `json:"id"`
	VideoID    uuid.UUID        `json:"videoId"`
	Type       AnalysisType     `json:"type"`
	Title      string           `json:"title"`
	Content    string           `json:"content"`
	Timestamp  *float64         `json:"timestamp,omitempty"`
	Confidence int              `json:"confidence"`
	Metadata   AnalysisMetadata `json:"metadata,omitempty"`
	PlayerIDs  []string         `json:"playerIds"`
	Tags       []string         `json:"tags"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// RawAnalysis is an item as produced by the model layer before it is titled,
// tagged and persisted.
type RawAnalysis struct {
	Type       AnalysisType
	Content    string
	Timestamp  *float64
	Confidence int
	Metadata   AnalysisMetadata
}

// UnmarshalJSON decodes metadata into the concrete type selected by Type.
func (a *Analysis) UnmarshalJSON(data []byte) error {
	type analysisAlias Analysis
	aux := struct {
		*analysisAlias
		Metadata json.RawMessage `json:"metadata,omitempty"`
	}{analysisAlias: (*analysisAlias)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m, err := DecodeMetadata(a.Type, aux.Metadata)
	if err != nil {
		return err
	}
	a.Metadata = m
	return nil
}
