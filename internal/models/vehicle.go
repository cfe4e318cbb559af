package models

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle represents a matatu or bus in the fleet. Position is
// last-write-wins; no location history is retained here.
type Vehicle struct {
	ID                 uuid.UUID     `json:"id" db:"id"`
	RegistrationNumber string        `json:"registration_number" db:"registration_number"`
	SaccoID            uuid.NullUUID `json:"sacco_id,omitempty" db:"sacco_id"`
	RouteID            uuid.NullUUID `json:"route_id,omitempty" db:"route_id"`
	Capacity           int           `json:"capacity" db:"capacity"`
	VehicleType        string        `json:"vehicle_type" db:"vehicle_type"`
	Make               NullString    `json:"make,omitempty" db:"make"`
	Model              NullString    `json:"model,omitempty" db:"model"`
	YearOfManufacture  NullInt       `json:"year_of_manufacture,omitempty" db:"year_of_manufacture"`
	CurrentLatitude    NullFloat64   `json:"current_latitude,omitempty" db:"current_latitude"`
	CurrentLongitude   NullFloat64   `json:"current_longitude,omitempty" db:"current_longitude"`
	LastLocationUpdate NullTime      `json:"last_location_update,omitempty" db:"last_location_update"`
	IsActive           bool          `json:"is_active" db:"is_active"`
	IsOnline           bool          `json:"is_online" db:"is_online"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" db:"updated_at"`
}
