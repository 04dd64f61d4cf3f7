package models

import "github.com/google/uuid"

// PlayStatistics are per-category counts recomputed from a video's analyses.
type PlayStatistics struct {
	VideoID               uuid.UUID      `json:"videoId"`
	AnalysesScanned       int            `json:"analysesScanned"`
	Goals                 int            `json:"goals"`
	Assists               int            `json:"assists"`
	HockeyAssists         int            `json:"hockeyAssists"`
	Saves                 int            `json:"saves"`
	Shots                 int            `json:"shots"`
	ShotsOnTarget         int            `json:"shotsOnTarget"`
	Turnovers             int            `json:"turnovers"`
	CausedTurnovers       int            `json:"causedTurnovers"`
	GroundBalls           int            `json:"groundBalls"`
	Checks                int            `json:"checks"`
	Penalties             int            `json:"penalties"`
	Clears                int            `json:"clears"`
	SuccessfulClears      int            `json:"successfulClears"`
	BallTouches           int            `json:"ballTouches"`
	FaceoffWins           int            `json:"faceoffWins"`
	FaceoffLosses         int            `json:"faceoffLosses"`
	Transitions           int            `json:"transitions"`
	SuccessfulTransitions int            `json:"successfulTransitions"`
	ByType                map[string]int `json:"byType"`
}

// PlayByPlayEntry is one classified play in timeline order.
type PlayByPlayEntry struct {
	AnalysisID  uuid.UUID    `json:"analysisId"`
	Timestamp   *float64     `json:"timestamp,omitempty"`
	Clock       string       `json:"clock,omitempty"`
	Type        string       `json:"type"`
	Success     bool         `json:"success"`
	Confidence  int          `json:"confidence"`
	Source      AnalysisType `json:"source"`
	Players     []string     `json:"players"`
	Description string       `json:"description"`
}

// DashboardStats are the aggregate counts shown on a coach's dashboard.
type DashboardStats struct {
	VideosAnalyzed    int     `json:"videosAnalyzed"`
	TotalVideos       int     `json:"totalVideos"`
	ProcessingVideos  int     `json:"processingVideos"`
	Teams             int     `json:"teams"`
	TotalAnalyses     int     `json:"totalAnalyses"`
	AverageConfidence float64 `json:"averageConfidence"`
	HoursSaved        float64 `json:"hoursSaved"`
}
