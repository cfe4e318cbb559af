package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/safarisalama/transit-backend/internal/metrics"
	"github.com/safarisalama/transit-backend/internal/models"
	"github.com/safarisalama/transit-backend/pkg/notify"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAlertStore is an in-memory AlertStore
type fakeAlertStore struct {
	alerts map[uuid.UUID]*models.EmergencyAlert
}

func newFakeAlertStore() *fakeAlertStore {
	return &fakeAlertStore{alerts: map[uuid.UUID]*models.EmergencyAlert{}}
}

func (f *fakeAlertStore) Create(alert *models.EmergencyAlert) error {
	copied := *alert
	f.alerts[alert.ID] = &copied
	return nil
}

func (f *fakeAlertStore) GetByID(alertID uuid.UUID) (*models.EmergencyAlert, error) {
	alert, ok := f.alerts[alertID]
	if !ok {
		return nil, nil
	}
	copied := *alert
	return &copied, nil
}

func (f *fakeAlertStore) List(status models.AlertStatus) ([]models.EmergencyAlert, error) {
	alerts := []models.EmergencyAlert{}
	for _, alert := range f.alerts {
		if status != "" && alert.Status != status {
			continue
		}
		alerts = append(alerts, *alert)
	}
	return alerts, nil
}

func (f *fakeAlertStore) UpdateStatus(alert *models.EmergencyAlert) error {
	stored, ok := f.alerts[alert.ID]
	if !ok {
		return nil
	}
	stored.Status = alert.Status
	stored.AcknowledgedBy = alert.AcknowledgedBy
	stored.AcknowledgedAt = alert.AcknowledgedAt
	stored.ResolvedAt = alert.ResolvedAt
	return nil
}

// recordingDispatcher captures dispatched events for assertions
type recordingDispatcher struct {
	events []notify.AlertEvent
}

func (d *recordingDispatcher) Dispatch(event notify.AlertEvent) {
	d.events = append(d.events, event)
}

func newAlertService(store *fakeAlertStore, dispatcher AlertDispatcher) *AlertService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewAlertService(store, dispatcher, metrics.NewCollector(), logger)
}

func TestCreateAlert(t *testing.T) {
	t.Run("Defaults To General And Active", func(t *testing.T) {
		store := newFakeAlertStore()
		dispatcher := &recordingDispatcher{}
		service := newAlertService(store, dispatcher)

		alert, err := service.CreateAlert(&CreateAlertInput{
			UserID:    uuid.New(),
			Latitude:  -1.2921,
			Longitude: 36.8219,
		})
		require.NoError(t, err)
		assert.Equal(t, models.AlertTypeGeneral, alert.AlertType)
		assert.Equal(t, models.AlertStatusActive, alert.Status)

		require.Len(t, dispatcher.events, 1)
		assert.Equal(t, alert.ID, dispatcher.events[0].AlertID)
		assert.Empty(t, dispatcher.events[0].EmergencyContacts)
		assert.Empty(t, dispatcher.events[0].NearbyDrivers)
	})

	t.Run("Persisted And Retrievable After Dispatch", func(t *testing.T) {
		store := newFakeAlertStore()
		// A real dispatcher with a failing notifier: the worker logs
		// and swallows every error, so creation still succeeds.
		logger := logrus.New()
		logger.SetLevel(logrus.PanicLevel)
		dispatcher := notify.NewDispatcher(failingNotifier{}, logger, 4)
		defer dispatcher.Close()

		service := newAlertService(store, dispatcher)

		alert, err := service.CreateAlert(&CreateAlertInput{
			UserID:    uuid.New(),
			AlertType: models.AlertTypeAccident,
			Latitude:  -1.3,
			Longitude: 36.9,
		})
		require.NoError(t, err)

		fetched, err := service.GetAlert(alert.ID)
		require.NoError(t, err)
		assert.Equal(t, models.AlertTypeAccident, fetched.AlertType)
	})
}

type failingNotifier struct{}

func (failingNotifier) Send(notify.AlertEvent) error { return assert.AnError }
func (failingNotifier) GetName() string              { return "failing" }

func TestUpdateAlertStatus(t *testing.T) {
	t.Run("Unknown Alert", func(t *testing.T) {
		service := newAlertService(newFakeAlertStore(), &recordingDispatcher{})

		_, err := service.UpdateAlertStatus(uuid.New(), models.AlertStatusAcknowledged, uuid.New())
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})

	t.Run("Unknown Status Is Rejected", func(t *testing.T) {
		service := newAlertService(newFakeAlertStore(), &recordingDispatcher{})

		_, err := service.UpdateAlertStatus(uuid.New(), models.AlertStatus("escalated"), uuid.New())
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("Acknowledge Sets Audit Fields Once", func(t *testing.T) {
		store := newFakeAlertStore()
		service := newAlertService(store, &recordingDispatcher{})

		alert, err := service.CreateAlert(&CreateAlertInput{UserID: uuid.New()})
		require.NoError(t, err)

		firstAdmin := uuid.New()
		t1 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
		service.now = func() time.Time { return t1 }

		updated, err := service.UpdateAlertStatus(alert.ID, models.AlertStatusAcknowledged, firstAdmin)
		require.NoError(t, err)
		assert.Equal(t, models.AlertStatusAcknowledged, updated.Status)
		require.True(t, updated.AcknowledgedAt.Valid)
		assert.Equal(t, t1, updated.AcknowledgedAt.Time)
		assert.Equal(t, firstAdmin, updated.AcknowledgedBy.UUID)

		// Second acknowledgement keeps the original timestamp and admin
		secondAdmin := uuid.New()
		service.now = func() time.Time { return t1.Add(time.Hour) }

		updated, err = service.UpdateAlertStatus(alert.ID, models.AlertStatusAcknowledged, secondAdmin)
		require.NoError(t, err)
		assert.Equal(t, t1, updated.AcknowledgedAt.Time)
		assert.Equal(t, firstAdmin, updated.AcknowledgedBy.UUID)
	})

	t.Run("Resolve Timestamp Is Write Once", func(t *testing.T) {
		store := newFakeAlertStore()
		service := newAlertService(store, &recordingDispatcher{})

		alert, err := service.CreateAlert(&CreateAlertInput{UserID: uuid.New()})
		require.NoError(t, err)

		t1 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
		service.now = func() time.Time { return t1 }
		_, err = service.UpdateAlertStatus(alert.ID, models.AlertStatusResolved, uuid.New())
		require.NoError(t, err)

		service.now = func() time.Time { return t1.Add(time.Hour) }
		updated, err := service.UpdateAlertStatus(alert.ID, models.AlertStatusResolved, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, t1, updated.ResolvedAt.Time)
	})

	t.Run("Status Overwritten Even Backwards", func(t *testing.T) {
		// The status field itself is not a forward-only state machine:
		// moving a resolved alert back to acknowledged is accepted and
		// leaves the original resolved_at in place.
		store := newFakeAlertStore()
		service := newAlertService(store, &recordingDispatcher{})

		alert, err := service.CreateAlert(&CreateAlertInput{UserID: uuid.New()})
		require.NoError(t, err)

		t1 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
		service.now = func() time.Time { return t1 }
		_, err = service.UpdateAlertStatus(alert.ID, models.AlertStatusResolved, uuid.New())
		require.NoError(t, err)

		service.now = func() time.Time { return t1.Add(time.Hour) }
		updated, err := service.UpdateAlertStatus(alert.ID, models.AlertStatusAcknowledged, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, models.AlertStatusAcknowledged, updated.Status)
		require.True(t, updated.ResolvedAt.Valid)
		assert.Equal(t, t1, updated.ResolvedAt.Time, "stale resolved_at is preserved")
	})
}

func TestListAlerts_FiltersByStatus(t *testing.T) {
	store := newFakeAlertStore()
	service := newAlertService(store, &recordingDispatcher{})

	a, err := service.CreateAlert(&CreateAlertInput{UserID: uuid.New()})
	require.NoError(t, err)
	_, err = service.CreateAlert(&CreateAlertInput{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = service.UpdateAlertStatus(a.ID, models.AlertStatusFalseAlarm, uuid.New())
	require.NoError(t, err)

	active, err := service.ListAlerts(models.AlertStatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := service.ListAlerts("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
