package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/safarisalama/transit-backend/internal/database"
	"github.com/safarisalama/transit-backend/internal/metrics"
	"github.com/safarisalama/transit-backend/internal/models"
	"github.com/safarisalama/transit-backend/pkg/geo"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTripStore is an in-memory TripStore
type fakeTripStore struct {
	trips     map[uuid.UUID]*models.Trip
	createErr error

	lastSkip  int
	lastLimit int
}

func newFakeTripStore() *fakeTripStore {
	return &fakeTripStore{trips: map[uuid.UUID]*models.Trip{}}
}

func (f *fakeTripStore) Create(trip *models.Trip) error {
	if f.createErr != nil {
		return f.createErr
	}
	copied := *trip
	f.trips[trip.ID] = &copied
	return nil
}

func (f *fakeTripStore) GetByID(tripID uuid.UUID) (*models.Trip, error) {
	trip, ok := f.trips[tripID]
	if !ok {
		return nil, nil
	}
	copied := *trip
	return &copied, nil
}

func (f *fakeTripStore) GetActiveByUser(userID uuid.UUID) (*models.Trip, error) {
	for _, trip := range f.trips {
		if trip.UserID == userID && trip.TripStatus == models.TripStatusOngoing {
			copied := *trip
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeTripStore) ListCompletedByUser(userID uuid.UUID, skip, limit int) ([]models.Trip, error) {
	f.lastSkip = skip
	f.lastLimit = limit
	trips := []models.Trip{}
	for _, trip := range f.trips {
		if trip.UserID == userID && trip.TripStatus == models.TripStatusCompleted {
			trips = append(trips, *trip)
		}
	}
	return trips, nil
}

func (f *fakeTripStore) List(userID uuid.NullUUID, status models.TripStatus) ([]models.Trip, error) {
	trips := []models.Trip{}
	for _, trip := range f.trips {
		if userID.Valid && trip.UserID != userID.UUID {
			continue
		}
		if status != "" && trip.TripStatus != status {
			continue
		}
		trips = append(trips, *trip)
	}
	return trips, nil
}

func (f *fakeTripStore) UpdateEnd(trip *models.Trip) error {
	stored, ok := f.trips[trip.ID]
	if !ok {
		return nil
	}
	stored.EndLatitude = trip.EndLatitude
	stored.EndLongitude = trip.EndLongitude
	stored.EndTime = trip.EndTime
	stored.DurationMinutes = trip.DurationMinutes
	stored.TripStatus = trip.TripStatus
	return nil
}

func (f *fakeTripStore) UpdateDistance(tripID uuid.UUID, distanceKm float64) error {
	if stored, ok := f.trips[tripID]; ok {
		stored.DistanceKm = models.Float(distanceKm)
	}
	return nil
}

func (f *fakeTripStore) GetDailyStats(userID uuid.UUID, since time.Time) (*database.DailyStats, error) {
	stats := &database.DailyStats{}
	for _, trip := range f.trips {
		if trip.UserID != userID || trip.TripStatus != models.TripStatusCompleted {
			continue
		}
		if !trip.EndTime.Valid || trip.EndTime.Time.Before(since) {
			continue
		}
		stats.TripCount++
		if trip.FareAmount.Valid {
			stats.TotalFare += trip.FareAmount.Float64
		}
		if trip.DistanceKm.Valid {
			stats.TotalDistanceKm += trip.DistanceKm.Float64
		}
	}
	return stats, nil
}

type fakeUserStore struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUserStore) GetByID(userID uuid.UUID) (*models.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	return user, nil
}

func newTripService(store *fakeTripStore) *TripService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewTripService(store, &fakeUserStore{users: map[uuid.UUID]*models.User{}}, metrics.NewCollector(), logger)
}

func TestStartTrip(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := newFakeTripStore()
		service := newTripService(store)

		userID := uuid.New()
		trip, err := service.StartTrip(&StartTripInput{
			UserID:         userID,
			StartLatitude:  -1.2921,
			StartLongitude: 36.8219,
			FareAmount:     models.Float(50),
		})
		require.NoError(t, err)
		assert.Equal(t, models.TripStatusOngoing, trip.TripStatus)
		assert.Equal(t, models.PaymentStatusPending, trip.PaymentStatus)
		assert.Equal(t, userID, trip.UserID)
		assert.False(t, trip.DistanceKm.Valid, "distance starts null")
		assert.False(t, trip.StartTime.IsZero())
	})

	t.Run("Second Start Conflicts", func(t *testing.T) {
		store := newFakeTripStore()
		service := newTripService(store)

		userID := uuid.New()
		_, err := service.StartTrip(&StartTripInput{UserID: userID})
		require.NoError(t, err)

		_, err = service.StartTrip(&StartTripInput{UserID: userID})
		require.Error(t, err)
		assert.True(t, IsConflict(err))
		assert.Contains(t, err.Error(), "active trip exists")
	})

	t.Run("Store Unique Violation Maps To Conflict", func(t *testing.T) {
		store := newFakeTripStore()
		store.createErr = &pq.Error{Code: "23505"}
		service := newTripService(store)

		_, err := service.StartTrip(&StartTripInput{UserID: uuid.New()})
		require.Error(t, err)
		assert.True(t, IsConflict(err))
	})
}

func TestEndTrip(t *testing.T) {
	t.Run("Unknown Trip", func(t *testing.T) {
		service := newTripService(newFakeTripStore())

		_, err := service.EndTrip(uuid.New(), 0, 0)
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})

	t.Run("Duration Is Floored Minutes", func(t *testing.T) {
		store := newFakeTripStore()
		service := newTripService(store)

		start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
		end := time.Date(2024, 1, 1, 10, 32, 30, 0, time.UTC)

		service.now = func() time.Time { return start }
		trip, err := service.StartTrip(&StartTripInput{UserID: uuid.New()})
		require.NoError(t, err)

		service.now = func() time.Time { return end }
		ended, err := service.EndTrip(trip.ID, -1.3032, 36.8880)
		require.NoError(t, err)

		assert.Equal(t, models.TripStatusCompleted, ended.TripStatus)
		require.True(t, ended.DurationMinutes.Valid)
		assert.Equal(t, int64(32), ended.DurationMinutes.Int64)
		require.True(t, ended.EndTime.Valid)
		assert.Equal(t, end, ended.EndTime.Time)
	})

	t.Run("Double End Rejected", func(t *testing.T) {
		store := newFakeTripStore()
		service := newTripService(store)

		trip, err := service.StartTrip(&StartTripInput{UserID: uuid.New()})
		require.NoError(t, err)

		first, err := service.EndTrip(trip.ID, 0, 0)
		require.NoError(t, err)

		_, err = service.EndTrip(trip.ID, 0, 0)
		require.Error(t, err)
		assert.True(t, IsInvalidState(err))

		// Duration from the first end was not recomputed
		stored, _ := store.GetByID(trip.ID)
		assert.Equal(t, first.DurationMinutes, stored.DurationMinutes)
	})
}

func TestSyncOfflineLocations(t *testing.T) {
	oneKmApart := []geo.Point{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 0.009}, // ~1.0 km at the equator
	}

	t.Run("Unknown Trip", func(t *testing.T) {
		service := newTripService(newFakeTripStore())

		_, err := service.SyncOfflineLocations(uuid.New(), oneKmApart)
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})

	t.Run("Empty Batch Is A NoOp", func(t *testing.T) {
		store := newFakeTripStore()
		service := newTripService(store)

		trip, err := service.StartTrip(&StartTripInput{UserID: uuid.New()})
		require.NoError(t, err)

		synced, err := service.SyncOfflineLocations(trip.ID, nil)
		require.NoError(t, err)
		assert.False(t, synced.DistanceKm.Valid)
	})

	t.Run("Accumulates Onto Existing Distance", func(t *testing.T) {
		store := newFakeTripStore()
		service := newTripService(store)

		trip, err := service.StartTrip(&StartTripInput{UserID: uuid.New()})
		require.NoError(t, err)
		require.NoError(t, store.UpdateDistance(trip.ID, 5.0))

		synced, err := service.SyncOfflineLocations(trip.ID, oneKmApart)
		require.NoError(t, err)
		require.True(t, synced.DistanceKm.Valid)
		assert.InDelta(t, 6.0, synced.DistanceKm.Float64, 0.1)

		stored, _ := store.GetByID(trip.ID)
		assert.InDelta(t, 6.0, stored.DistanceKm.Float64, 0.1)
	})

	t.Run("Null Prior Distance Is Left Null", func(t *testing.T) {
		// A freshly started trip has no distance yet, and the sync
		// deliberately leaves it that way: the first batch after start
		// is dropped rather than seeding the counter.
		store := newFakeTripStore()
		service := newTripService(store)

		trip, err := service.StartTrip(&StartTripInput{UserID: uuid.New()})
		require.NoError(t, err)

		synced, err := service.SyncOfflineLocations(trip.ID, oneKmApart)
		require.NoError(t, err)
		assert.False(t, synced.DistanceKm.Valid)

		stored, _ := store.GetByID(trip.ID)
		assert.False(t, stored.DistanceKm.Valid)
	})

	t.Run("Completed Trip Is Not Accumulated", func(t *testing.T) {
		store := newFakeTripStore()
		service := newTripService(store)

		trip, err := service.StartTrip(&StartTripInput{UserID: uuid.New()})
		require.NoError(t, err)
		require.NoError(t, store.UpdateDistance(trip.ID, 5.0))
		_, err = service.EndTrip(trip.ID, 0, 0)
		require.NoError(t, err)

		synced, err := service.SyncOfflineLocations(trip.ID, oneKmApart)
		require.NoError(t, err)
		assert.InDelta(t, 5.0, synced.DistanceKm.Float64, 1e-9)
	})
}

func TestGetActiveTrip(t *testing.T) {
	store := newFakeTripStore()
	service := newTripService(store)

	userID := uuid.New()
	_, err := service.GetActiveTrip(userID)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	started, err := service.StartTrip(&StartTripInput{UserID: userID})
	require.NoError(t, err)

	active, err := service.GetActiveTrip(userID)
	require.NoError(t, err)
	assert.Equal(t, started.ID, active.ID)
}

func TestListTripHistory_ClampsPagination(t *testing.T) {
	store := newFakeTripStore()
	service := newTripService(store)

	userID := uuid.New()

	_, err := service.ListTripHistory(userID, -5, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, store.lastSkip)
	assert.Equal(t, defaultHistoryLimit, store.lastLimit)

	_, err = service.ListTripHistory(userID, 10, 500)
	require.NoError(t, err)
	assert.Equal(t, 10, store.lastSkip)
	assert.Equal(t, maxHistoryLimit, store.lastLimit)
}

func TestGetDriverDashboard(t *testing.T) {
	store := newFakeTripStore()
	users := &fakeUserStore{users: map[uuid.UUID]*models.User{}}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	service := NewTripService(store, users, metrics.NewCollector(), logger)

	driverID := uuid.New()

	_, err := service.GetDriverDashboard(driverID)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	users.users[driverID] = &models.User{ID: driverID, UserType: models.UserTypeDriver}

	day := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return day }

	trip, err := service.StartTrip(&StartTripInput{UserID: driverID, FareAmount: models.Float(120)})
	require.NoError(t, err)
	require.NoError(t, store.UpdateDistance(trip.ID, 3.5))
	service.now = func() time.Time { return day.Add(30 * time.Minute) }
	_, err = service.EndTrip(trip.ID, 0, 0)
	require.NoError(t, err)

	dashboard, err := service.GetDriverDashboard(driverID)
	require.NoError(t, err)
	assert.Nil(t, dashboard.ActiveTrip)
	assert.Equal(t, 1, dashboard.Today.TripCount)
	assert.InDelta(t, 120.0, dashboard.Today.TotalFare, 1e-9)
	assert.InDelta(t, 3.5, dashboard.Today.TotalDistanceKm, 1e-9)
}
