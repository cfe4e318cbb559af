package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/safarisalama/transit-backend/internal/database"
	"github.com/safarisalama/transit-backend/internal/metrics"
	"github.com/safarisalama/transit-backend/internal/models"
	"github.com/safarisalama/transit-backend/pkg/geo"
	"github.com/sirupsen/logrus"
)

// TripStore is the persistence surface the trip lifecycle needs. It is
// satisfied by database.TripRepository and by in-memory fakes in tests.
type TripStore interface {
	Create(trip *models.Trip) error
	GetByID(tripID uuid.UUID) (*models.Trip, error)
	GetActiveByUser(userID uuid.UUID) (*models.Trip, error)
	ListCompletedByUser(userID uuid.UUID, skip, limit int) ([]models.Trip, error)
	List(userID uuid.NullUUID, status models.TripStatus) ([]models.Trip, error)
	UpdateEnd(trip *models.Trip) error
	UpdateDistance(tripID uuid.UUID, distanceKm float64) error
	GetDailyStats(userID uuid.UUID, since time.Time) (*database.DailyStats, error)
}

// UserStore is the user lookup surface services need
type UserStore interface {
	GetByID(userID uuid.UUID) (*models.User, error)
}

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// TripService handles trip lifecycle business logic
type TripService struct {
	trips   TripStore
	users   UserStore
	metrics *metrics.Collector
	logger  *logrus.Logger

	now func() time.Time
}

// NewTripService creates a new TripService
func NewTripService(trips TripStore, users UserStore, collector *metrics.Collector, logger *logrus.Logger) *TripService {
	return &TripService{
		trips:   trips,
		users:   users,
		metrics: collector,
		logger:  logger,
		now:     time.Now,
	}
}

// StartTripInput contains the data needed to start a trip
type StartTripInput struct {
	UserID         uuid.UUID
	VehicleID      uuid.NullUUID
	RouteID        uuid.NullUUID
	StartLatitude  float64
	StartLongitude float64
	FareAmount     models.NullFloat64
}

// StartTrip creates an ongoing trip for the user. A user may have at
// most one ongoing trip; a second start is rejected with ConflictError.
// Coordinates are persisted verbatim, and distance starts out null
// until the first end-to-end recalculation.
func (s *TripService) StartTrip(input *StartTripInput) (*models.Trip, error) {
	active, err := s.trips.GetActiveByUser(input.UserID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, &ConflictError{Message: "active trip exists"}
	}

	trip := &models.Trip{
		ID:             uuid.New(),
		UserID:         input.UserID,
		VehicleID:      input.VehicleID,
		RouteID:        input.RouteID,
		StartLatitude:  models.Float(input.StartLatitude),
		StartLongitude: models.Float(input.StartLongitude),
		StartTime:      s.now().UTC(),
		FareAmount:     input.FareAmount,
		PaymentStatus:  models.PaymentStatusPending,
		TripStatus:     models.TripStatusOngoing,
	}

	if err := s.trips.Create(trip); err != nil {
		// Two concurrent starts race past the read above; the partial
		// unique index on ongoing trips is the safety net.
		if database.IsUniqueViolation(err) {
			return nil, &ConflictError{Message: "active trip exists"}
		}
		return nil, err
	}

	s.metrics.TripsStarted.Inc()
	s.logger.WithFields(logrus.Fields{
		"trip_id": trip.ID,
		"user_id": trip.UserID,
	}).Info("Trip started")

	return trip, nil
}

// EndTrip completes an ongoing trip: records the end position and time,
// and derives the duration in whole minutes. Ending a trip that is not
// ongoing fails with InvalidStateError; a double end is rejected, never
// silently accepted.
func (s *TripService) EndTrip(tripID uuid.UUID, endLat, endLon float64) (*models.Trip, error) {
	trip, err := s.trips.GetByID(tripID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, &NotFoundError{Resource: "trip"}
	}
	if !trip.IsOngoing() {
		return nil, &InvalidStateError{Message: "trip is not ongoing"}
	}

	endTime := s.now().UTC()
	trip.EndLatitude = models.Float(endLat)
	trip.EndLongitude = models.Float(endLon)
	trip.EndTime = models.Time(endTime)
	trip.TripStatus = models.TripStatusCompleted

	minutes := int64(endTime.Sub(trip.StartTime).Seconds() / 60)
	trip.DurationMinutes = models.Int(minutes)

	if err := s.trips.UpdateEnd(trip); err != nil {
		return nil, err
	}

	s.metrics.TripsCompleted.Inc()
	s.logger.WithFields(logrus.Fields{
		"trip_id":          trip.ID,
		"duration_minutes": minutes,
	}).Info("Trip completed")

	return trip, nil
}

// SyncOfflineLocations reconciles a batch of GPS points queued while
// the client was offline. The total haversine path length is added to
// the trip's distance only while the trip is ongoing and already has a
// distance value; otherwise the sync has no persisted effect. An empty
// batch is a no-op, not an error. The trip is returned either way.
func (s *TripService) SyncOfflineLocations(tripID uuid.UUID, points []geo.Point) (*models.Trip, error) {
	trip, err := s.trips.GetByID(tripID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, &NotFoundError{Resource: "trip"}
	}

	if len(points) == 0 {
		return trip, nil
	}

	total := geo.PathLengthKm(points)

	if trip.IsOngoing() && trip.DistanceKm.Valid {
		updated := trip.DistanceKm.Float64 + total
		if err := s.trips.UpdateDistance(trip.ID, updated); err != nil {
			return nil, err
		}
		trip.DistanceKm = models.Float(updated)
	}

	s.metrics.PointsSynced.Add(float64(len(points)))
	s.logger.WithFields(logrus.Fields{
		"trip_id":     trip.ID,
		"points":      len(points),
		"distance_km": total,
	}).Debug("Offline locations synced")

	return trip, nil
}

// GetActiveTrip returns the user's ongoing trip, failing with
// NotFoundError when there is none
func (s *TripService) GetActiveTrip(userID uuid.UUID) (*models.Trip, error) {
	trip, err := s.trips.GetActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, &NotFoundError{Resource: "active trip"}
	}
	return trip, nil
}

// GetTrip returns a trip by ID
func (s *TripService) GetTrip(tripID uuid.UUID) (*models.Trip, error) {
	trip, err := s.trips.GetByID(tripID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, &NotFoundError{Resource: "trip"}
	}
	return trip, nil
}

// ListTrips returns trips with optional user and status filters
func (s *TripService) ListTrips(userID uuid.NullUUID, status models.TripStatus) ([]models.Trip, error) {
	return s.trips.List(userID, status)
}

// ListTripHistory returns the user's completed trips, most recent
// first, with skip/limit pagination
func (s *TripService) ListTripHistory(userID uuid.UUID, skip, limit int) ([]models.Trip, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.trips.ListCompletedByUser(userID, skip, limit)
}

// DriverDashboard summarizes a driver's current trip and today's
// completed trips
type DriverDashboard struct {
	Driver     *models.User         `json:"driver"`
	ActiveTrip *models.Trip         `json:"active_trip"`
	Today      *database.DailyStats `json:"today"`
}

// GetDriverDashboard builds the driver dashboard projection
func (s *TripService) GetDriverDashboard(driverID uuid.UUID) (*DriverDashboard, error) {
	driver, err := s.users.GetByID(driverID)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, &NotFoundError{Resource: "driver"}
	}

	activeTrip, err := s.trips.GetActiveByUser(driverID)
	if err != nil {
		return nil, err
	}

	dayStart := s.now().UTC().Truncate(24 * time.Hour)
	stats, err := s.trips.GetDailyStats(driverID, dayStart)
	if err != nil {
		return nil, err
	}

	return &DriverDashboard{
		Driver:     driver,
		ActiveTrip: activeTrip,
		Today:      stats,
	}, nil
}
