package notify

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Dispatcher drains alert events to a Notifier on a background worker.
// Dispatch never blocks: when the queue is full the event is dropped
// and counted, which is acceptable for a best-effort side channel.
type Dispatcher struct {
	notifier Notifier
	logger   *logrus.Logger
	events   chan AlertEvent

	closeOnce sync.Once
	done      chan struct{}

	// OnResult, when set, is called after each delivery attempt with
	// delivered=false for both send failures and queue drops. Used to
	// feed metrics counters.
	OnResult func(delivered bool)
}

// NewDispatcher creates a dispatcher with the given queue size and
// starts its worker goroutine.
func NewDispatcher(notifier Notifier, logger *logrus.Logger, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	d := &Dispatcher{
		notifier: notifier,
		logger:   logger,
		events:   make(chan AlertEvent, queueSize),
		done:     make(chan struct{}),
	}
	go d.run()
	return d
}

// Dispatch queues an event for delivery. It never blocks and never
// returns an error: a full queue drops the event with a warning.
func (d *Dispatcher) Dispatch(event AlertEvent) {
	select {
	case d.events <- event:
	default:
		d.logger.WithField("alert_id", event.AlertID).
			Warn("Notification queue full, dropping alert event")
		d.report(false)
	}
}

// Close stops the worker after draining queued events.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.events)
		<-d.done
	})
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for event := range d.events {
		if err := d.notifier.Send(event); err != nil {
			d.logger.WithFields(logrus.Fields{
				"alert_id": event.AlertID,
				"notifier": d.notifier.GetName(),
				"error":    err.Error(),
			}).Error("Failed to send emergency notification")
			d.report(false)
			continue
		}
		d.report(true)
	}
}

func (d *Dispatcher) report(delivered bool) {
	if d.OnResult != nil {
		d.OnResult(delivered)
	}
}
