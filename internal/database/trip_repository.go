package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/safarisalama/transit-backend/internal/models"
)

// TripRepository handles database operations for trips
type TripRepository struct {
	db DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db DB) *TripRepository {
	return &TripRepository{db: db}
}

const tripColumns = `
	id, user_id, vehicle_id, driver_id, route_id,
	start_latitude, start_longitude, end_latitude, end_longitude,
	start_time, end_time, duration_minutes, distance_km, fare_amount,
	payment_status, trip_status, created_at, updated_at
`

// Create inserts a new trip record. A partial unique index on
// (user_id) WHERE trip_status = 'ongoing' backs the one-active-trip
// invariant under concurrent starts; callers should check the error
// with IsUniqueViolation.
func (r *TripRepository) Create(trip *models.Trip) error {
	query := `
		INSERT INTO trips (
			id, user_id, vehicle_id, driver_id, route_id,
			start_latitude, start_longitude, start_time,
			distance_km, fare_amount, payment_status, trip_status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		trip.ID, trip.UserID, trip.VehicleID, trip.DriverID, trip.RouteID,
		trip.StartLatitude, trip.StartLongitude, trip.StartTime,
		trip.DistanceKm, trip.FareAmount, trip.PaymentStatus, trip.TripStatus,
	).Scan(&trip.CreatedAt, &trip.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}
	return nil
}

func scanTrip(scan func(dest ...interface{}) error) (*models.Trip, error) {
	trip := &models.Trip{}
	err := scan(
		&trip.ID, &trip.UserID, &trip.VehicleID, &trip.DriverID, &trip.RouteID,
		&trip.StartLatitude, &trip.StartLongitude, &trip.EndLatitude, &trip.EndLongitude,
		&trip.StartTime, &trip.EndTime, &trip.DurationMinutes, &trip.DistanceKm,
		&trip.FareAmount, &trip.PaymentStatus, &trip.TripStatus,
		&trip.CreatedAt, &trip.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return trip, nil
}

// GetByID retrieves a trip by ID, or nil if no such trip exists
func (r *TripRepository) GetByID(tripID uuid.UUID) (*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	trip, err := scanTrip(r.db.QueryRow(query, tripID).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return trip, nil
}

// GetActiveByUser retrieves the user's ongoing trip, or nil if none exists
func (r *TripRepository) GetActiveByUser(userID uuid.UUID) (*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE user_id = $1 AND trip_status = 'ongoing'`

	trip, err := scanTrip(r.db.QueryRow(query, userID).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return trip, nil
}

// ListCompletedByUser retrieves the user's completed trips, most recent
// first, skipping skip rows and returning at most limit
func (r *TripRepository) ListCompletedByUser(userID uuid.UUID, skip, limit int) ([]models.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE user_id = $1 AND trip_status = 'completed'
		ORDER BY end_time DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.Query(query, userID, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := []models.Trip{}
	for rows.Next() {
		trip, err := scanTrip(rows.Scan)
		if err != nil {
			return nil, err
		}
		trips = append(trips, *trip)
	}
	return trips, rows.Err()
}

// List retrieves trips with optional user and status filters, newest first
func (r *TripRepository) List(userID uuid.NullUUID, status models.TripStatus) ([]models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE TRUE`
	args := []interface{}{}

	if userID.Valid {
		args = append(args, userID.UUID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND trip_status = $%d", len(args))
	}
	query += ` ORDER BY start_time DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := []models.Trip{}
	for rows.Next() {
		trip, err := scanTrip(rows.Scan)
		if err != nil {
			return nil, err
		}
		trips = append(trips, *trip)
	}
	return trips, rows.Err()
}

// UpdateEnd persists the completion of a trip: end position, end time,
// duration and status
func (r *TripRepository) UpdateEnd(trip *models.Trip) error {
	query := `
		UPDATE trips
		SET end_latitude = $2, end_longitude = $3, end_time = $4,
		    duration_minutes = $5, trip_status = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		trip.ID, trip.EndLatitude, trip.EndLongitude, trip.EndTime,
		trip.DurationMinutes, trip.TripStatus,
	).Scan(&trip.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to end trip: %w", err)
	}
	return nil
}

// UpdateDistance persists an accumulated trip distance
func (r *TripRepository) UpdateDistance(tripID uuid.UUID, distanceKm float64) error {
	_, err := r.db.Exec(
		`UPDATE trips SET distance_km = $2, updated_at = NOW() WHERE id = $1`,
		tripID, distanceKm,
	)
	if err != nil {
		return fmt.Errorf("failed to update trip distance: %w", err)
	}
	return nil
}

// DailyStats aggregates a user's completed trips since the given time
type DailyStats struct {
	TripCount       int     `json:"trip_count"`
	TotalFare       float64 `json:"total_fare"`
	TotalDistanceKm float64 `json:"total_distance_km"`
}

// GetDailyStats aggregates completed trips for a user since the given cutoff
func (r *TripRepository) GetDailyStats(userID uuid.UUID, since time.Time) (*DailyStats, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(fare_amount), 0), COALESCE(SUM(distance_km), 0)
		FROM trips
		WHERE user_id = $1 AND trip_status = 'completed' AND end_time >= $2
	`

	stats := &DailyStats{}
	err := r.db.QueryRow(query, userID, since).
		Scan(&stats.TripCount, &stats.TotalFare, &stats.TotalDistanceKm)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate trip stats: %w", err)
	}
	return stats, nil
}
