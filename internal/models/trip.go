package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus enumerates trip payment states
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// TripStatus enumerates trip lifecycle states
type TripStatus string

const (
	TripStatusScheduled TripStatus = "scheduled"
	TripStatusOngoing   TripStatus = "ongoing"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

// Trip represents a passenger journey. At most one trip per user may be
// ongoing at any time; trips are never deleted.
type Trip struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	UserID          uuid.UUID     `json:"user_id" db:"user_id"`
	VehicleID       uuid.NullUUID `json:"vehicle_id,omitempty" db:"vehicle_id"`
	DriverID        uuid.NullUUID `json:"driver_id,omitempty" db:"driver_id"`
	RouteID         uuid.NullUUID `json:"route_id,omitempty" db:"route_id"`
	StartLatitude   NullFloat64   `json:"start_latitude,omitempty" db:"start_latitude"`
	StartLongitude  NullFloat64   `json:"start_longitude,omitempty" db:"start_longitude"`
	EndLatitude     NullFloat64   `json:"end_latitude,omitempty" db:"end_latitude"`
	EndLongitude    NullFloat64   `json:"end_longitude,omitempty" db:"end_longitude"`
	StartTime       time.Time     `json:"start_time" db:"start_time"`
	EndTime         NullTime      `json:"end_time,omitempty" db:"end_time"`
	DurationMinutes NullInt       `json:"duration_minutes,omitempty" db:"duration_minutes"`
	DistanceKm      NullFloat64   `json:"distance_km,omitempty" db:"distance_km"`
	FareAmount      NullFloat64   `json:"fare_amount,omitempty" db:"fare_amount"`
	PaymentStatus   PaymentStatus `json:"payment_status" db:"payment_status"`
	TripStatus      TripStatus    `json:"trip_status" db:"trip_status"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}

// IsOngoing reports whether the trip is currently in progress
func (t *Trip) IsOngoing() bool {
	return t.TripStatus == TripStatusOngoing
}
