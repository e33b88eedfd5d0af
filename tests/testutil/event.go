package testutil

import (
	"context"
	"sync"

	"github.com/bizledger/backend/internal/application/notification"
	"github.com/bizledger/backend/internal/domain/shared"
)

// RecordingEventHandler stores every event it receives.
type RecordingEventHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
}

// NewRecordingEventHandler subscribes to eventTypes, or to everything when
// none are given.
func NewRecordingEventHandler(eventTypes ...string) *RecordingEventHandler {
	return &RecordingEventHandler{eventTypes: eventTypes}
}

// EventTypes returns the event types this handler subscribes to.
func (h *RecordingEventHandler) EventTypes() []string {
	return h.eventTypes
}

// Handle records the event.
func (h *RecordingEventHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return nil
}

// Types returns the types of the handled events in order.
func (h *RecordingEventHandler) Types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	types := make([]string, len(h.handled))
	for i, e := range h.handled {
		types[i] = e.EventType()
	}
	return types
}

// Handled returns a copy of the handled events.
func (h *RecordingEventHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

// RecordingNotifier captures outbound notifications instead of sending them.
type RecordingNotifier struct {
	mu   sync.Mutex
	sent []notification.Message
	err  error
}

// Send records msg and returns the configured error.
func (n *RecordingNotifier) Send(_ context.Context, msg notification.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

// FailWith makes every later Send return err.
func (n *RecordingNotifier) FailWith(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.err = err
}

// Sent returns the recorded messages.
func (n *RecordingNotifier) Sent() []notification.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification.Message(nil), n.sent...)
}

// Kinds returns the kinds of the recorded messages with their recipients.
func (n *RecordingNotifier) Kinds() map[notification.Kind][]string {
	n.mu.Lock()
	defer n.mu.Unlock()
	kinds := map[notification.Kind][]string{}
	for _, m := range n.sent {
		kinds[m.Kind] = append(kinds[m.Kind], m.To.Email)
	}
	return kinds
}
