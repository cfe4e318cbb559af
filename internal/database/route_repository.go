package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/safarisalama/transit-backend/internal/models"
)

// RouteRepository handles database operations for routes and their stops
type RouteRepository struct {
	db DB
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db DB) *RouteRepository {
	return &RouteRepository{db: db}
}

const routeColumns = `
	id, name, route_number, origin, destination, description,
	estimated_duration_minutes, distance_km, fare_amount, is_active,
	created_at, updated_at
`

// Create inserts a route together with its ordered stops. Stop names are
// trimmed and matched case-insensitively against existing stops, so a
// name that differs only in case reuses the existing record. Sequence
// numbers follow the position in stopNames; blank names are skipped.
func (r *RouteRepository) Create(route *models.Route, stopNames []string) error {
	query := `
		INSERT INTO routes (
			id, name, route_number, origin, destination, description,
			estimated_duration_minutes, distance_km, fare_amount
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		RETURNING is_active, created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		route.ID, route.Name, route.RouteNumber, route.Origin, route.Destination,
		route.Description, route.EstimatedDurationMinutes, route.DistanceKm,
		route.FareAmount,
	).Scan(&route.IsActive, &route.CreatedAt, &route.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create route: %w", err)
	}

	for idx, name := range stopNames {
		clean := strings.TrimSpace(name)
		if clean == "" {
			continue
		}

		stop, err := r.findOrCreateStop(clean)
		if err != nil {
			return err
		}

		_, err = r.db.Exec(
			`INSERT INTO route_stops (id, route_id, stop_id, sequence) VALUES ($1, $2, $3, $4)`,
			uuid.New(), route.ID, stop.ID, idx,
		)
		if err != nil {
			return fmt.Errorf("failed to link stop %q to route: %w", clean, err)
		}
	}

	stops, err := r.loadStops(route.ID)
	if err != nil {
		return err
	}
	route.Stops = stops
	return nil
}

// findOrCreateStop looks up a stop by name ignoring case, creating it if missing
func (r *RouteRepository) findOrCreateStop(name string) (*models.Stop, error) {
	stop := &models.Stop{}
	err := r.db.QueryRow(
		`SELECT id, name, created_at FROM stops WHERE LOWER(name) = LOWER($1)`,
		name,
	).Scan(&stop.ID, &stop.Name, &stop.CreatedAt)
	if err == nil {
		return stop, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	stop.ID = uuid.New()
	stop.Name = name
	err = r.db.QueryRow(
		`INSERT INTO stops (id, name) VALUES ($1, $2) RETURNING created_at`,
		stop.ID, stop.Name,
	).Scan(&stop.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create stop %q: %w", name, err)
	}
	return stop, nil
}

// loadStops fetches a route's stops ordered by sequence
func (r *RouteRepository) loadStops(routeID uuid.UUID) ([]models.RouteStop, error) {
	query := `
		SELECT rs.id, rs.route_id, rs.stop_id, rs.sequence, s.id, s.name, s.created_at
		FROM route_stops rs
		JOIN stops s ON s.id = rs.stop_id
		WHERE rs.route_id = $1
		ORDER BY rs.sequence
	`

	rows, err := r.db.Query(query, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stops := []models.RouteStop{}
	for rows.Next() {
		var rs models.RouteStop
		err := rows.Scan(
			&rs.ID, &rs.RouteID, &rs.StopID, &rs.Sequence,
			&rs.Stop.ID, &rs.Stop.Name, &rs.Stop.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		stops = append(stops, rs)
	}
	return stops, rows.Err()
}

func scanRoute(scan func(dest ...interface{}) error) (*models.Route, error) {
	route := &models.Route{}
	err := scan(
		&route.ID, &route.Name, &route.RouteNumber, &route.Origin,
		&route.Destination, &route.Description, &route.EstimatedDurationMinutes,
		&route.DistanceKm, &route.FareAmount, &route.IsActive,
		&route.CreatedAt, &route.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return route, nil
}

// GetByID retrieves an active route with its stops, or nil if not found
func (r *RouteRepository) GetByID(routeID uuid.UUID) (*models.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE id = $1 AND is_active = TRUE`

	route, err := scanRoute(r.db.QueryRow(query, routeID).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	stops, err := r.loadStops(route.ID)
	if err != nil {
		return nil, err
	}
	route.Stops = stops
	return route, nil
}

// List retrieves routes ordered by route number, each with its stops
func (r *RouteRepository) List(activeOnly bool) ([]models.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY route_number`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := []models.Route{}
	for rows.Next() {
		route, err := scanRoute(rows.Scan)
		if err != nil {
			return nil, err
		}
		routes = append(routes, *route)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range routes {
		stops, err := r.loadStops(routes[i].ID)
		if err != nil {
			return nil, err
		}
		routes[i].Stops = stops
	}
	return routes, nil
}
