// Package notify fans out emergency alert notifications. Dispatch is
// fire-and-forget: events flow through a one-way buffered channel to a
// worker goroutine, so a slow or failing notifier can never block or
// fail the alert write that produced the event.
package notify

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AlertEvent carries everything a notifier needs to fan out an
// emergency alert to its recipients.
type AlertEvent struct {
	AlertID           uuid.UUID     `json:"alert_id"`
	UserID            uuid.UUID     `json:"user_id"`
	Latitude          float64       `json:"latitude"`
	Longitude         float64       `json:"longitude"`
	AlertType         string        `json:"alert_type"`
	EmergencyContacts []string      `json:"emergency_contacts"`
	NearbyDrivers     []uuid.UUID   `json:"nearby_drivers"`
	SaccoAdminID      uuid.NullUUID `json:"sacco_admin_id"`
}

// Notifier delivers an alert event to its recipients. Implementations
// provide SMS, push or email delivery; errors are logged by the
// dispatcher and never propagated to the alert writer.
type Notifier interface {
	// Send delivers the event. No delivery, retry or ordering
	// guarantee is implied.
	Send(event AlertEvent) error

	// GetName returns the name of the notifier implementation
	GetName() string
}

// LogNotifier is the development notifier: it records what would have
// been sent. Real SMS/push/email integrations implement Notifier the
// same way the production SMS gateway would.
type LogNotifier struct {
	logger *logrus.Logger
}

// NewLogNotifier creates a notifier that only logs deliveries
func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send logs the alert fan-out instead of delivering it
func (n *LogNotifier) Send(event AlertEvent) error {
	n.logger.WithFields(logrus.Fields{
		"alert_id":           event.AlertID,
		"user_id":            event.UserID,
		"alert_type":         event.AlertType,
		"latitude":           event.Latitude,
		"longitude":          event.Longitude,
		"emergency_contacts": len(event.EmergencyContacts),
		"nearby_drivers":     len(event.NearbyDrivers),
		"sacco_admin":        event.SaccoAdminID.Valid,
	}).Info("Emergency alert notification dispatched")
	return nil
}

// GetName returns the notifier name
func (n *LogNotifier) GetName() string {
	return "log"
}
