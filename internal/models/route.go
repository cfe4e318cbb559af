package models

import (
	"time"

	"github.com/google/uuid"
)

// Route represents a transit route with an ordered sequence of stops.
type Route struct {
	ID                       uuid.UUID   `json:"id" db:"id"`
	Name                     string      `json:"name" db:"name"`
	RouteNumber              NullString  `json:"route_number,omitempty" db:"route_number"`
	Origin                   string      `json:"origin" db:"origin"`
	Destination              string      `json:"destination" db:"destination"`
	Description              NullString  `json:"description,omitempty" db:"description"`
	EstimatedDurationMinutes NullInt     `json:"estimated_duration_minutes,omitempty" db:"estimated_duration_minutes"`
	DistanceKm               NullFloat64 `json:"distance_km,omitempty" db:"distance_km"`
	FareAmount               NullFloat64 `json:"fare_amount,omitempty" db:"fare_amount"`
	IsActive                 bool        `json:"is_active" db:"is_active"`
	CreatedAt                time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt                time.Time   `json:"updated_at" db:"updated_at"`

	// Stops is populated on read, ordered by sequence.
	Stops []RouteStop `json:"stops"`
}

// Stop is a named boarding point. Names are unique; creation dedupes
// case-insensitively so "CBD" and "cbd" map to one record.
type Stop struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RouteStop links a stop into a route at a zero-based sequence position.
// Sequence is unique per route; rows cascade-delete with their route.
type RouteStop struct {
	ID       uuid.UUID `json:"-" db:"id"`
	RouteID  uuid.UUID `json:"-" db:"route_id"`
	StopID   uuid.UUID `json:"-" db:"stop_id"`
	Sequence int       `json:"sequence" db:"sequence"`
	Stop     Stop      `json:"stop"`
}
