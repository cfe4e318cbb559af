package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safarisalama/transit-backend/internal/models"
)

var alertTestColumns = []string{
	"id", "user_id", "trip_id", "vehicle_id", "alert_type", "latitude", "longitude",
	"description", "status", "acknowledged_by", "acknowledged_at", "resolved_at",
	"created_at", "updated_at",
}

func TestCreateAlert(t *testing.T) {
	mockDB, mock := newMockDB(t)
	defer mockDB.Close()
	repo := NewAlertRepository(mockDB)

	alert := &models.EmergencyAlert{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		AlertType: models.AlertTypeGeneral,
		Latitude:  -1.2921,
		Longitude: 36.8219,
		Status:    models.AlertStatusActive,
	}

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO emergency_alerts`).
		WithArgs(
			alert.ID, alert.UserID, alert.TripID, alert.VehicleID, alert.AlertType,
			alert.Latitude, alert.Longitude, alert.Description, alert.Status,
		).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	err := repo.Create(alert)
	require.NoError(t, err)
	assert.False(t, alert.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAlertByID(t *testing.T) {
	mockDB, mock := newMockDB(t)
	defer mockDB.Close()
	repo := NewAlertRepository(mockDB)

	alertID := uuid.New()
	now := time.Now()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM emergency_alerts WHERE id = \$1`).
			WithArgs(alertID).
			WillReturnRows(sqlmock.NewRows(alertTestColumns).AddRow(
				alertID, uuid.New(), nil, nil, "harassment", -1.2921, 36.8219,
				"Tout refusing to give change", "active", nil, nil, nil, now, now,
			))

		alert, err := repo.GetByID(alertID)
		require.NoError(t, err)
		require.NotNil(t, alert)
		assert.Equal(t, models.AlertTypeHarassment, alert.AlertType)
		assert.Equal(t, models.AlertStatusActive, alert.Status)
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM emergency_alerts WHERE id = \$1`).
			WithArgs(alertID).
			WillReturnRows(sqlmock.NewRows(alertTestColumns))

		alert, err := repo.GetByID(alertID)
		require.NoError(t, err)
		assert.Nil(t, alert)
	})
}

func TestListAlerts(t *testing.T) {
	mockDB, mock := newMockDB(t)
	defer mockDB.Close()
	repo := NewAlertRepository(mockDB)

	now := time.Now()

	t.Run("All", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM emergency_alerts ORDER BY created_at DESC`).
			WillReturnRows(sqlmock.NewRows(alertTestColumns).
				AddRow(uuid.New(), uuid.New(), nil, nil, "general", -1.29, 36.82,
					nil, "active", nil, nil, nil, now, now).
				AddRow(uuid.New(), uuid.New(), nil, nil, "theft", -1.30, 36.83,
					nil, "resolved", uuid.New(), now, now, now, now))

		alerts, err := repo.List("")
		require.NoError(t, err)
		assert.Len(t, alerts, 2)
	})

	t.Run("Filtered By Status", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM emergency_alerts WHERE status = \$1 ORDER BY created_at DESC`).
			WithArgs(models.AlertStatusActive).
			WillReturnRows(sqlmock.NewRows(alertTestColumns))

		alerts, err := repo.List(models.AlertStatusActive)
		require.NoError(t, err)
		assert.Empty(t, alerts)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAlertStatus(t *testing.T) {
	mockDB, mock := newMockDB(t)
	defer mockDB.Close()
	repo := NewAlertRepository(mockDB)

	adminID := uuid.New()
	now := time.Now().UTC()

	alert := &models.EmergencyAlert{
		ID:             uuid.New(),
		Status:         models.AlertStatusAcknowledged,
		AcknowledgedBy: uuid.NullUUID{UUID: adminID, Valid: true},
		AcknowledgedAt: models.Time(now),
	}

	mock.ExpectQuery(`UPDATE emergency_alerts`).
		WithArgs(alert.ID, alert.Status, alert.AcknowledgedBy, alert.AcknowledgedAt, alert.ResolvedAt).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

	err := repo.UpdateStatus(alert)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
