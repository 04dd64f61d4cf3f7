package models

import "github.com/google/uuid"

// PlayerPerformance is the analytics view of one player profile.
type PlayerPerformance struct {
	Profile        *PlayerProfile   `json:"profile"`
	Skills         map[string]int   `json:"skills"`
	Strengths      []string         `json:"strengths"`
	Weaknesses     []string         `json:"weaknesses"`
	Events         []*PlayEvent     `json:"events"`
	EventCounts    map[string]int   `json:"eventCounts"`
	SuccessRate    float64          `json:"successRate"`
	CoachingPoints []*CoachingPoint `json:"coachingPoints"`
}

// TeamSummary aggregates the events attributed to one team color.
type TeamSummary struct {
	Team                  string           `json:"team"`
	Events                int              `json:"events"`
	Successes             int              `json:"successes"`
	Goals                 int              `json:"goals"`
	Shots                 int              `json:"shots"`
	Saves                 int              `json:"saves"`
	CausedTurnovers       int              `json:"causedTurnovers"`
	Penalties             int              `json:"penalties"`
	FaceoffWins           int              `json:"faceoffWins"`
	Transitions           int              `json:"transitions"`
	SuccessfulTransitions int              `json:"successfulTransitions"`
	Players               int              `json:"players"`
	AverageRating         float64          `json:"averageRating"`
	Formations            []*TeamFormation `json:"formations"`
}

// TeamAnalytics is the per-team view of a video.
type TeamAnalytics struct {
	VideoID uuid.UUID      `json:"videoId"`
	Teams   []*TeamSummary `json:"teams"`
}

// FaceoffAnalytics summarizes every face-off of a video.
type FaceoffAnalytics struct {
	VideoID           uuid.UUID       `json:"videoId"`
	Total             int             `json:"total"`
	WinsByTeam        map[string]int  `json:"winsByTeam"`
	Techniques        map[string]int  `json:"techniques"`
	ExitDirections    map[string]int  `json:"exitDirections"`
	FastBreaks        int             `json:"fastBreaks"`
	Violations        int             `json:"violations"`
	GroundBallBattles int             `json:"groundBallBattles"`
	Faceoffs          []*FaceoffEvent `json:"faceoffs"`
}
