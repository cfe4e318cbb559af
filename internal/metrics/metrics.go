package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service's Prometheus instruments on a private
// registry so tests can create collectors independently.
type Collector struct {
	reg *prometheus.Registry

	TripsStarted   prometheus.Counter
	TripsCompleted prometheus.Counter
	PointsSynced   prometheus.Counter

	AlertsCreated     *prometheus.CounterVec // type label
	AlertTransitions  *prometheus.CounterVec // status label
	NotificationsSent prometheus.Counter
	NotificationsErrs prometheus.Counter
}

// NewCollector creates and registers the service instruments
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		TripsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transit_trips_started_total",
			Help: "Total trips started.",
		}),
		TripsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transit_trips_completed_total",
			Help: "Total trips completed.",
		}),
		PointsSynced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transit_offline_points_synced_total",
			Help: "Total offline GPS points accepted by sync.",
		}),
		AlertsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transit_emergency_alerts_created_total",
			Help: "Total emergency alerts created.",
		}, []string{"type"}),
		AlertTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transit_emergency_alert_transitions_total",
			Help: "Total emergency alert status transitions.",
		}, []string{"status"}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transit_notifications_sent_total",
			Help: "Total emergency notifications handed to the notifier.",
		}),
		NotificationsErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transit_notification_errors_total",
			Help: "Total emergency notifications dropped or failed.",
		}),
	}

	reg.MustRegister(
		c.TripsStarted, c.TripsCompleted, c.PointsSynced,
		c.AlertsCreated, c.AlertTransitions,
		c.NotificationsSent, c.NotificationsErrs,
	)

	return c
}

// Handler returns the /metrics HTTP handler for this collector
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
