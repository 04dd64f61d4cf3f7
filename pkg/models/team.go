package models

import (
	"time"

	"github.com/google/uuid"
)

// Team is a coach's roster grouping.
type Team struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Level     *string   `json:"level,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Player is a roster entry on a team.
type Player struct {
	ID           uuid.UUID `json:"id"`
	TeamID       uuid.UUID `json:"teamId"`
	Name         string    `json:"name"`
	JerseyNumber *string   `json:"jerseyNumber,omitempty"`
	Position     *string   `json:"position,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
