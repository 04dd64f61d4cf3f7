package models

import (
	"time"

	"github.com/google/uuid"
)

// TeamFormation is a formation observed at a moment of the video.
type TeamFormation struct {
	ID            uuid.UUID `json:"id"`
	VideoID       uuid.UUID `json:"videoId"`
	Timestamp     *float64  `json:"timestamp,omitempty"`
	Team          string    `json:"team"`
	FormationType string    `json:"formationType"`
	Formation     string    `json:"formation"`
	Effectiveness *int      `json:"effectiveness,omitempty"`
	Source        string    `json:"source"`
	CreatedAt     time.Time `json:"createdAt"`
}

// GameFlow summarizes one time window of play.
type GameFlow struct {
	ID           uuid.UUID      `json:"id"`
	VideoID      uuid.UUID      `json:"videoId"`
	WindowStart  float64        `json:"windowStart"`
	WindowEnd    float64        `json:"windowEnd"`
	EventCount   int            `json:"eventCount"`
	TeamEvents   map[string]int `json:"teamEvents"`
	DominantTeam *string        `json:"dominantTeam,omitempty"`
	Momentum     Momentum       `json:"momentum"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// CoachingPriority orders coaching points.
type CoachingPriority string

const (
	PriorityHigh   CoachingPriority = "high"
	PriorityMedium CoachingPriority = "medium"
	PriorityLow    CoachingPriority = "low"
)

// CoachingPoint is an actionable insight for a team or a player.
type CoachingPoint struct {
	ID              uuid.UUID        `json:"id"`
	VideoID         uuid.UUID        `json:"videoId"`
	PlayerProfileID *uuid.UUID       `json:"playerProfileId,omitempty"`
	Category        string           `json:"category"`
	Priority        CoachingPriority `json:"priority"`
	Title           string           `json:"title"`
	Detail          string           `json:"detail"`
	Timestamp       *float64         `json:"timestamp,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
}
