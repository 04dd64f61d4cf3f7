package models

import (
	"time"

	"github.com/google/uuid"
)

// EventType is the kind of a classified, timestamped action.
type EventType string

const (
	EventEvaluation     EventType = "evaluation"
	EventFaceoff        EventType = "faceoff"
	EventTransition     EventType = "transition"
	EventGoal           EventType = "goal"
	EventAssist         EventType = "assist"
	EventSave           EventType = "save"
	EventCausedTurnover EventType = "caused_turnover"
	EventPenalty        EventType = "penalty"
	EventShot           EventType = "shot"
	EventHighlight      EventType = "highlight"
)

// GameContext describes the manpower situation of an event.
type GameContext string

const (
	ContextEvenStrength GameContext = "even_strength"
	ContextManUp        GameContext = "man_up"
	ContextManDown      GameContext = "man_down"
	ContextTransition   GameContext = "transition"
)

// Momentum tags an event's effect on the flow of the game.
type Momentum string

const (
	MomentumPositive Momentum = "positive"
	MomentumNegative Momentum = "negative"
	MomentumNeutral  Momentum = "neutral"
)

// PlayEvent is one classified action derived from an Analysis.
type PlayEvent struct {
	ID                uuid.UUID   `json:"id"`
	VideoID           uuid.UUID   `json:"videoId"`
	AnalysisID        uuid.UUID   `json:"analysisId"`
	StartTime         *float64    `json:"startTime,omitempty"`
	EndTime           *float64    `json:"endTime,omitempty"`
	EventType         EventType   `json:"eventType"`
	EventSubtype      *string     `json:"eventSubtype,omitempty"`
	PrimaryPlayerID   *uuid.UUID  `json:"primaryPlayerId,omitempty"`
	SecondaryPlayerID *uuid.UUID  `json:"secondaryPlayerId,omitempty"`
	Team              *string     `json:"team,omitempty"`
	FieldZone         *string     `json:"fieldZone,omitempty"`
	FieldSide         *string     `json:"fieldSide,omitempty"`
	Success           bool        `json:"success"`
	Confidence        int         `json:"confidence"`
	Description       string      `json:"description"`
	GameContext       GameContext `json:"gameContext"`
	Momentum          Momentum    `json:"momentum"`
	CreatedAt         time.Time   `json:"createdAt"`
}

// FaceoffDetail extends a faceoff PlayEvent.
type FaceoffDetail struct {
	PlayEventID          uuid.UUID `json:"playEventId"`
	Technique            string    `json:"technique"`
	ClampSpeed           string    `json:"clampSpeed"`
	ClampAngle           string    `json:"clampAngle"`
	CounterMove          *string   `json:"counterMove,omitempty"`
	CounterTiming        *string   `json:"counterTiming,omitempty"`
	ExitDirection        *string   `json:"exitDirection,omitempty"`
	ExitSpeed            string    `json:"exitSpeed"`
	WingSupport          string    `json:"wingSupport"`
	Winner               *string   `json:"winner,omitempty"`
	PossessionTeam       *string   `json:"possessionTeam,omitempty"`
	FastBreakOpportunity bool      `json:"fastBreakOpportunity"`
	Violation            bool      `json:"violation"`
	GroundBallBattle     bool      `json:"groundBallBattle"`
}

// TransitionDetail extends a transition PlayEvent.
type TransitionDetail struct {
	PlayEventID          uuid.UUID `json:"playEventId"`
	TransitionType       string    `json:"transitionType"`
	ClearingTeam         *string   `json:"clearingTeam,omitempty"`
	RidingTeam           *string   `json:"ridingTeam,omitempty"`
	OffensiveFormation   *string   `json:"offensiveFormation,omitempty"`
	DefensiveFormation   *string   `json:"defensiveFormation,omitempty"`
	PassCount            int       `json:"passCount"`
	GroundBallCount      int       `json:"groundBallCount"`
	PressureLevel        string    `json:"pressureLevel"`
	FieldSpacing         string    `json:"fieldSpacing"`
	NumbersAdvantage     *string   `json:"numbersAdvantage,omitempty"`
	Success              bool      `json:"success"`
	ResultingOpportunity *string   `json:"resultingOpportunity,omitempty"`
	DurationSeconds      *int      `json:"durationSeconds,omitempty"`
}

// ShotDetail extends a goal or shot PlayEvent.
type ShotDetail struct {
	PlayEventID  uuid.UUID `json:"playEventId"`
	ShotType     *string   `json:"shotType,omitempty"`
	ShotLocation *string   `json:"shotLocation,omitempty"`
	ShotDistance *string   `json:"shotDistance,omitempty"`
	Velocity     string    `json:"velocity"`
	Outcome      string    `json:"outcome"`
}

// DefensiveDetail extends a save or caused-turnover PlayEvent.
type DefensiveDetail struct {
	PlayEventID uuid.UUID `json:"playEventId"`
	DefenseType string    `json:"defenseType"`
	CheckType   *string   `json:"checkType,omitempty"`
	Result      string    `json:"result"`
}

// FaceoffEvent is a faceoff PlayEvent joined with its detail row.
type FaceoffEvent struct {
	PlayEvent
	Detail FaceoffDetail `json:"detail"`
}

// TransitionEvent is a transition PlayEvent joined with its detail row.
type TransitionEvent struct {
	PlayEvent
	Detail TransitionDetail `json:"detail"`
}
