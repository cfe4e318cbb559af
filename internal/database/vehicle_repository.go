package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/safarisalama/transit-backend/internal/models"
)

// VehicleRepository handles database operations for vehicles
type VehicleRepository struct {
	db DB
}

// NewVehicleRepository creates a new VehicleRepository
func NewVehicleRepository(db DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

const vehicleColumns = `
	id, registration_number, sacco_id, route_id, capacity, vehicle_type,
	make, model, year_of_manufacture, current_latitude, current_longitude,
	last_location_update, is_active, is_online, created_at, updated_at
`

// Create inserts a new vehicle record
func (r *VehicleRepository) Create(vehicle *models.Vehicle) error {
	query := `
		INSERT INTO vehicles (
			id, registration_number, sacco_id, route_id, capacity, vehicle_type,
			make, model, year_of_manufacture
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		RETURNING is_active, is_online, created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		vehicle.ID, vehicle.RegistrationNumber, vehicle.SaccoID, vehicle.RouteID,
		vehicle.Capacity, vehicle.VehicleType, vehicle.Make, vehicle.Model,
		vehicle.YearOfManufacture,
	).Scan(&vehicle.IsActive, &vehicle.IsOnline, &vehicle.CreatedAt, &vehicle.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

func scanVehicle(scan func(dest ...interface{}) error) (*models.Vehicle, error) {
	vehicle := &models.Vehicle{}
	err := scan(
		&vehicle.ID, &vehicle.RegistrationNumber, &vehicle.SaccoID, &vehicle.RouteID,
		&vehicle.Capacity, &vehicle.VehicleType, &vehicle.Make, &vehicle.Model,
		&vehicle.YearOfManufacture, &vehicle.CurrentLatitude, &vehicle.CurrentLongitude,
		&vehicle.LastLocationUpdate, &vehicle.IsActive, &vehicle.IsOnline,
		&vehicle.CreatedAt, &vehicle.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return vehicle, nil
}

// GetByID retrieves a vehicle by ID, or nil if no such vehicle exists
func (r *VehicleRepository) GetByID(vehicleID uuid.UUID) (*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`

	vehicle, err := scanVehicle(r.db.QueryRow(query, vehicleID).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return vehicle, nil
}

// GetByRegistrationNumber retrieves a vehicle by registration number,
// or nil if no such vehicle exists
func (r *VehicleRepository) GetByRegistrationNumber(registration string) (*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE registration_number = $1`

	vehicle, err := scanVehicle(r.db.QueryRow(query, registration).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return vehicle, nil
}

// ListLocations retrieves active vehicles with optional route and online filters
func (r *VehicleRepository) ListLocations(routeID uuid.NullUUID, isOnline *bool) ([]models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE is_active = TRUE`
	args := []interface{}{}

	if routeID.Valid {
		args = append(args, routeID.UUID)
		query += fmt.Sprintf(" AND route_id = $%d", len(args))
	}
	if isOnline != nil {
		args = append(args, *isOnline)
		query += fmt.Sprintf(" AND is_online = $%d", len(args))
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := []models.Vehicle{}
	for rows.Next() {
		vehicle, err := scanVehicle(rows.Scan)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, *vehicle)
	}
	return vehicles, rows.Err()
}

// UpdateLocation persists a last-write-wins position update and marks
// the vehicle online
func (r *VehicleRepository) UpdateLocation(vehicleID uuid.UUID, lat, lon float64, at time.Time) (*models.Vehicle, error) {
	query := `
		UPDATE vehicles
		SET current_latitude = $2, current_longitude = $3,
		    last_location_update = $4, is_online = TRUE, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + vehicleColumns

	vehicle, err := scanVehicle(r.db.QueryRow(query, vehicleID, lat, lon, at).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return vehicle, nil
}
