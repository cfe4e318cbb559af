package notify

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []AlertEvent
	err    error
}

func (n *recordingNotifier) Send(event AlertEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

func (n *recordingNotifier) GetName() string { return "recording" }

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestDispatcher_DeliversEvents(t *testing.T) {
	notifier := &recordingNotifier{}
	d := NewDispatcher(notifier, testLogger(), 8)

	alertID := uuid.New()
	d.Dispatch(AlertEvent{AlertID: alertID, AlertType: "accident"})
	d.Close()

	assert.Equal(t, 1, notifier.count())
	assert.Equal(t, alertID, notifier.events[0].AlertID)
}

func TestDispatcher_SendFailureIsSwallowed(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("gateway down")}
	d := NewDispatcher(notifier, testLogger(), 8)

	var mu sync.Mutex
	failed := 0
	d.OnResult = func(delivered bool) {
		mu.Lock()
		defer mu.Unlock()
		if !delivered {
			failed++
		}
	}

	// Dispatch must not return or panic even when every send fails.
	d.Dispatch(AlertEvent{AlertID: uuid.New()})
	d.Dispatch(AlertEvent{AlertID: uuid.New()})
	d.Close()

	assert.Equal(t, 2, notifier.count())
	assert.Equal(t, 2, failed)
}

func TestDispatcher_CloseIsIdempotent(t *testing.T) {
	d := NewDispatcher(&recordingNotifier{}, testLogger(), 1)
	d.Close()
	assert.NotPanics(t, func() { d.Close() })
}
