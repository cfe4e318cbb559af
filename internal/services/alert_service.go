package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/safarisalama/transit-backend/internal/metrics"
	"github.com/safarisalama/transit-backend/internal/models"
	"github.com/safarisalama/transit-backend/pkg/notify"
	"github.com/sirupsen/logrus"
)

// AlertStore is the persistence surface the alert workflow needs
type AlertStore interface {
	Create(alert *models.EmergencyAlert) error
	GetByID(alertID uuid.UUID) (*models.EmergencyAlert, error)
	List(status models.AlertStatus) ([]models.EmergencyAlert, error)
	UpdateStatus(alert *models.EmergencyAlert) error
}

// AlertDispatcher queues an alert event for best-effort fan-out; it
// must never block or fail the caller
type AlertDispatcher interface {
	Dispatch(event notify.AlertEvent)
}

// AlertService handles the emergency alert workflow
type AlertService struct {
	alerts     AlertStore
	dispatcher AlertDispatcher
	metrics    *metrics.Collector
	logger     *logrus.Logger

	now func() time.Time
}

// NewAlertService creates a new AlertService
func NewAlertService(alerts AlertStore, dispatcher AlertDispatcher, collector *metrics.Collector, logger *logrus.Logger) *AlertService {
	return &AlertService{
		alerts:     alerts,
		dispatcher: dispatcher,
		metrics:    collector,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateAlertInput contains the data needed to raise an alert
type CreateAlertInput struct {
	UserID      uuid.UUID
	TripID      uuid.NullUUID
	VehicleID   uuid.NullUUID
	AlertType   models.AlertType
	Latitude    float64
	Longitude   float64
	Description models.NullString
}

// CreateAlert persists a new alert with status active and queues the
// notification fan-out. The alert write is the source of truth:
// notification delivery is best-effort and its failure can never fail
// or roll back the creation.
func (s *AlertService) CreateAlert(input *CreateAlertInput) (*models.EmergencyAlert, error) {
	alertType := input.AlertType
	if alertType == "" {
		alertType = models.AlertTypeGeneral
	}

	alert := &models.EmergencyAlert{
		ID:          uuid.New(),
		UserID:      input.UserID,
		TripID:      input.TripID,
		VehicleID:   input.VehicleID,
		AlertType:   alertType,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Description: input.Description,
		Status:      models.AlertStatusActive,
	}

	if err := s.alerts.Create(alert); err != nil {
		return nil, err
	}

	s.metrics.AlertsCreated.WithLabelValues(string(alert.AlertType)).Inc()
	s.logger.WithFields(logrus.Fields{
		"alert_id":   alert.ID,
		"user_id":    alert.UserID,
		"alert_type": alert.AlertType,
	}).Warn("Emergency alert created")

	// Recipient resolution (emergency contacts, drivers within radius,
	// the user's SACCO admin) is a collaborator responsibility; lists
	// are empty until that lands.
	s.dispatcher.Dispatch(notify.AlertEvent{
		AlertID:           alert.ID,
		UserID:            alert.UserID,
		Latitude:          alert.Latitude,
		Longitude:         alert.Longitude,
		AlertType:         string(alert.AlertType),
		EmergencyContacts: []string{},
		NearbyDrivers:     []uuid.UUID{},
	})

	return alert, nil
}

// UpdateAlertStatus transitions an alert to newStatus. The status field
// is always overwritten, but the audit timestamps are write-once: a
// second acknowledgement or resolution keeps the original timestamp.
func (s *AlertService) UpdateAlertStatus(alertID uuid.UUID, newStatus models.AlertStatus, actingAdminID uuid.UUID) (*models.EmergencyAlert, error) {
	if !models.ValidAlertStatus(newStatus) {
		return nil, &ValidationError{Message: "unknown alert status: " + string(newStatus)}
	}

	alert, err := s.alerts.GetByID(alertID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, &NotFoundError{Resource: "emergency alert"}
	}

	alert.Status = newStatus

	if newStatus == models.AlertStatusAcknowledged && !alert.AcknowledgedAt.Valid {
		alert.AcknowledgedBy = uuid.NullUUID{UUID: actingAdminID, Valid: true}
		alert.AcknowledgedAt = models.Time(s.now().UTC())
	}
	if newStatus == models.AlertStatusResolved && !alert.ResolvedAt.Valid {
		alert.ResolvedAt = models.Time(s.now().UTC())
	}

	if err := s.alerts.UpdateStatus(alert); err != nil {
		return nil, err
	}

	s.metrics.AlertTransitions.WithLabelValues(string(newStatus)).Inc()
	s.logger.WithFields(logrus.Fields{
		"alert_id": alert.ID,
		"status":   alert.Status,
		"admin_id": actingAdminID,
	}).Info("Emergency alert status updated")

	return alert, nil
}

// GetAlert returns an alert by ID
func (s *AlertService) GetAlert(alertID uuid.UUID) (*models.EmergencyAlert, error) {
	alert, err := s.alerts.GetByID(alertID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, &NotFoundError{Resource: "emergency alert"}
	}
	return alert, nil
}

// ListAlerts returns alerts newest first, optionally filtered by status
func (s *AlertService) ListAlerts(status models.AlertStatus) ([]models.EmergencyAlert, error) {
	return s.alerts.List(status)
}
