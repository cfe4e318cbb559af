package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/safarisalama/transit-backend/internal/models"
)

// AlertRepository handles database operations for emergency alerts
type AlertRepository struct {
	db DB
}

// NewAlertRepository creates a new AlertRepository
func NewAlertRepository(db DB) *AlertRepository {
	return &AlertRepository{db: db}
}

const alertColumns = `
	id, user_id, trip_id, vehicle_id, alert_type, latitude, longitude,
	description, status, acknowledged_by, acknowledged_at, resolved_at,
	created_at, updated_at
`

// Create inserts a new emergency alert record
func (r *AlertRepository) Create(alert *models.EmergencyAlert) error {
	query := `
		INSERT INTO emergency_alerts (
			id, user_id, trip_id, vehicle_id, alert_type,
			latitude, longitude, description, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		alert.ID, alert.UserID, alert.TripID, alert.VehicleID, alert.AlertType,
		alert.Latitude, alert.Longitude, alert.Description, alert.Status,
	).Scan(&alert.CreatedAt, &alert.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create emergency alert: %w", err)
	}
	return nil
}

func scanAlert(scan func(dest ...interface{}) error) (*models.EmergencyAlert, error) {
	alert := &models.EmergencyAlert{}
	err := scan(
		&alert.ID, &alert.UserID, &alert.TripID, &alert.VehicleID, &alert.AlertType,
		&alert.Latitude, &alert.Longitude, &alert.Description, &alert.Status,
		&alert.AcknowledgedBy, &alert.AcknowledgedAt, &alert.ResolvedAt,
		&alert.CreatedAt, &alert.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return alert, nil
}

// GetByID retrieves an alert by ID, or nil if no such alert exists
func (r *AlertRepository) GetByID(alertID uuid.UUID) (*models.EmergencyAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM emergency_alerts WHERE id = $1`

	alert, err := scanAlert(r.db.QueryRow(query, alertID).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return alert, nil
}

// List retrieves alerts newest first, optionally filtered by status
func (r *AlertRepository) List(status models.AlertStatus) ([]models.EmergencyAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM emergency_alerts`
	args := []interface{}{}

	if status != "" {
		args = append(args, status)
		query += ` WHERE status = $1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	alerts := []models.EmergencyAlert{}
	for rows.Next() {
		alert, err := scanAlert(rows.Scan)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *alert)
	}
	return alerts, rows.Err()
}

// UpdateStatus persists a status transition and its audit timestamps
func (r *AlertRepository) UpdateStatus(alert *models.EmergencyAlert) error {
	query := `
		UPDATE emergency_alerts
		SET status = $2, acknowledged_by = $3, acknowledged_at = $4,
		    resolved_at = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		alert.ID, alert.Status, alert.AcknowledgedBy, alert.AcknowledgedAt,
		alert.ResolvedAt,
	).Scan(&alert.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update alert status: %w", err)
	}
	return nil
}
