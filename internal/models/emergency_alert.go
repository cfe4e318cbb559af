package models

import (
	"time"

	"github.com/google/uuid"
)

// AlertType enumerates the kinds of emergency a rider can report
type AlertType string

const (
	AlertTypeGeneral    AlertType = "general"
	AlertTypeAccident   AlertType = "accident"
	AlertTypeHarassment AlertType = "harassment"
	AlertTypeTheft      AlertType = "theft"
	AlertTypeMedical    AlertType = "medical"
)

// ValidAlertType reports whether t is a known alert type
func ValidAlertType(t AlertType) bool {
	switch t {
	case AlertTypeGeneral, AlertTypeAccident, AlertTypeHarassment, AlertTypeTheft, AlertTypeMedical:
		return true
	}
	return false
}

// AlertStatus enumerates alert lifecycle states
type AlertStatus string

const (
	AlertStatusActive       AlertStatus = "active"
	AlertStatusAcknowledged AlertStatus = "acknowledged"
	AlertStatusResolved     AlertStatus = "resolved"
	AlertStatusFalseAlarm   AlertStatus = "false_alarm"
)

// ValidAlertStatus reports whether s is a known alert status
func ValidAlertStatus(s AlertStatus) bool {
	switch s {
	case AlertStatusActive, AlertStatusAcknowledged, AlertStatusResolved, AlertStatusFalseAlarm:
		return true
	}
	return false
}

// EmergencyAlert represents a distress report raised by a user, optionally
// tied to a trip and vehicle. The status field is overwritten on every
// update; AcknowledgedAt and ResolvedAt are written once and never
// overwritten by later transitions.
type EmergencyAlert struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	UserID         uuid.UUID     `json:"user_id" db:"user_id"`
	TripID         uuid.NullUUID `json:"trip_id,omitempty" db:"trip_id"`
	VehicleID      uuid.NullUUID `json:"vehicle_id,omitempty" db:"vehicle_id"`
	AlertType      AlertType     `json:"alert_type" db:"alert_type"`
	Latitude       float64       `json:"latitude" db:"latitude"`
	Longitude      float64       `json:"longitude" db:"longitude"`
	Description    NullString    `json:"description,omitempty" db:"description"`
	Status         AlertStatus   `json:"status" db:"status"`
	AcknowledgedBy uuid.NullUUID `json:"acknowledged_by,omitempty" db:"acknowledged_by"`
	AcknowledgedAt NullTime      `json:"acknowledged_at,omitempty" db:"acknowledged_at"`
	ResolvedAt     NullTime      `json:"resolved_at,omitempty" db:"resolved_at"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}
