package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SkillRatings are the eight per-skill scores (0-100) derived from text.
type SkillRatings struct {
	Dodging     int `json:"dodging"`
	Shooting    int `json:"shooting"`
	Passing     int `json:"passing"`
	GroundBalls int `json:"groundBalls"`
	Defense     int `json:"defense"`
	OffBall     int `json:"offBall"`
	IQ          int `json:"iq"`
	Athleticism int `json:"athleticism"`
}

// Validate checks every score is within [0,100].
func (s SkillRatings) Validate() error {
	for name, v := range s.ByName() {
		if v < 0 || v > 100 {
			return fmt.Errorf("skill %s out of range: %d", name, v)
		}
	}
	return nil
}

// ByName returns the ratings keyed by their JSON name.
func (s SkillRatings) ByName() map[string]int {
	return map[string]int{
		"dodging":     s.Dodging,
		"shooting":    s.Shooting,
		"passing":     s.Passing,
		"groundBalls": s.GroundBalls,
		"defense":     s.Defense,
		"offBall":     s.OffBall,
		"iq":          s.IQ,
		"athleticism": s.Athleticism,
	}
}

// PlayerProfile is the evolving identity of one player within one video.
// (VideoID, PlayerIdentifier) is unique.
type PlayerProfile struct {
	ID               uuid.UUID `json:"id"`
	VideoID          uuid.UUID `json:"videoId"`
	PlayerIdentifier string    `json:"playerIdentifier"`
	JerseyNumber     *string   `json:"jerseyNumber,omitempty"`
	TeamColor        *string   `json:"teamColor,omitempty"`
	Position         *string   `json:"position,omitempty"`
	Handedness       string    `json:"handedness"`
	HeightEstimate   string    `json:"heightEstimate"`

	DodgingSkill    int `json:"dodgingSkill"`
	ShootingSkill   int `json:"shootingSkill"`
	PassingSkill    int `json:"passingSkill"`
	GroundBallSkill int `json:"groundBallSkill"`
	DefenseSkill    int `json:"defenseSkill"`
	OffBallSkill    int `json:"offBallSkill"`
	IQSkill         int `json:"lacrosseIQ"`
	Athleticism     int `json:"athleticism"`

	OverallRating     float64 `json:"overallRating"`
	PotentialRating   float64 `json:"potentialRating"`
	CoachabilityScore int     `json:"coachabilityScore"`
	ObservationCount  int     `json:"observationCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Skills returns the profile's current skill scores.
func (p *PlayerProfile) Skills() SkillRatings {
	return SkillRatings{
		Dodging:     p.DodgingSkill,
		Shooting:    p.ShootingSkill,
		Passing:     p.PassingSkill,
		GroundBalls: p.GroundBallSkill,
		Defense:     p.DefenseSkill,
		OffBall:     p.OffBallSkill,
		IQ:          p.IQSkill,
		Athleticism: p.Athleticism,
	}
}

// ProfileObservation is one mention of a player, ready to be merged.
type ProfileObservation struct {
	VideoID           uuid.UUID
	PlayerIdentifier  string
	JerseyNumber      *string
	TeamColor         *string
	Position          *string
	Handedness        string
	HeightEstimate    string
	Skills            SkillRatings
	OverallRating     float64
	PotentialRating   float64
	CoachabilityScore int
}
