// Package models contains domain types for the LacrosseLens engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// VideoStatus is the lifecycle state of a submitted video.
type VideoStatus string

const (
	VideoStatusUploading  VideoStatus = "uploading"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusCompleted  VideoStatus = "completed"
	VideoStatusFailed     VideoStatus = "failed"
)

// AnalysisMode selects single-pass or multi-pass processing for a run.
type AnalysisMode string

const (
	AnalysisModeStandard AnalysisMode = "standard"
	AnalysisModeAdvanced AnalysisMode = "advanced"
)

// Video is a user-submitted piece of footage. Exactly one of FilePath and
// YouTubeURL is expected to be set.
type Video struct {
	ID           uuid.UUID   `json:"id"`
	UserID       string      `json:"userId"`
	TeamID       *uuid.UUID  `json:"teamId,omitempty"`
	Title        string      `json:"title"`
	Description  *string     `json:"description,omitempty"`
	FilePath     *string     `json:"filePath,omitempty"`
	YouTubeURL   *string     `json:"youtubeUrl,omitempty"`
	Status       VideoStatus `json:"status"`
	Duration     *int        `json:"duration,omitempty"`
	ThumbnailURL *string     `json:"thumbnailUrl,omitempty"`

	UserPrompt   *string `json:"userPrompt,omitempty"`
	PlayerNumber *string `json:"playerNumber,omitempty"`
	TeamName     *string `json:"teamName,omitempty"`
	Position     *string `json:"position,omitempty"`
	Level        *string `json:"level,omitempty"`

	AnalysisMode        AnalysisMode `json:"analysisMode"`
	ProcessingAttempts  int          `json:"processingAttempts"`
	ProcessingStartedAt *time.Time   `json:"processingStartedAt,omitempty"`
	ProcessingRunID     *uuid.UUID   `json:"-"`
	ErrorMessage        *string      `json:"errorMessage,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsYouTube reports whether the video is analysed from a YouTube link.
func (v *Video) IsYouTube() bool {
	return v.YouTubeURL != nil && *v.YouTubeURL != ""
}

// TargetingHints are the optional coach-supplied focus fields sent with a video.
type TargetingHints struct {
	UserPrompt   string
	PlayerNumber string
	TeamName     string
	Position     string
	Level        string
}

// Hints collects the targeting fields of the video.
func (v *Video) Hints() TargetingHints {
	return TargetingHints{
		UserPrompt:   deref(v.UserPrompt),
		PlayerNumber: deref(v.PlayerNumber),
		TeamName:     deref(v.TeamName),
		Position:     deref(v.Position),
		Level:        deref(v.Level),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
