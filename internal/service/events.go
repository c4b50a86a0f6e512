package service

import (
	"sync"
	"time"

	"github.com/Harshitk-cp/arbiter/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventHandler receives lifecycle events. Handlers must not assume any
// ordering across events and must tolerate concurrent invocation.
type EventHandler func(domain.Event)

// EventBus is an in-process publish/subscribe fan-out. Publication is
// fire-and-forget: each handler runs in its own goroutine and a panic in
// one handler never reaches the publisher or other handlers.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[domain.EventType]map[int]EventHandler
	nextID   int
	logger   *zap.Logger
}

func NewEventBus(logger *zap.Logger) *EventBus {
	return &EventBus{
		handlers: make(map[domain.EventType]map[int]EventHandler),
		logger:   logger,
	}
}

// On registers a handler for an event type and returns a subscription id
// usable with Off.
func (b *EventBus) On(event domain.EventType, h EventHandler) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	if b.handlers[event] == nil {
		b.handlers[event] = make(map[int]EventHandler)
	}
	b.handlers[event][b.nextID] = h
	return b.nextID
}

// Off removes a subscription. Unknown ids are ignored.
func (b *EventBus) Off(event domain.EventType, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.handlers[event], id)
}

// Publish delivers the event to every subscriber asynchronously.
func (b *EventBus) Publish(e domain.Event) {
	for _, h := range b.snapshot(e.Type) {
		go b.dispatch(h, e)
	}
}

// PublishSync delivers the event to every subscriber before returning.
// Panics are still isolated per handler. Intended for tests and
// shutdown-ordered notifications.
func (b *EventBus) PublishSync(e domain.Event) {
	for _, h := range b.snapshot(e.Type) {
		b.dispatch(h, e)
	}
}

func (b *EventBus) snapshot(event domain.EventType) []EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]EventHandler, 0, len(b.handlers[event]))
	for _, h := range b.handlers[event] {
		out = append(out, h)
	}
	return out
}

func (b *EventBus) dispatch(h EventHandler, e domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event", string(e.Type)),
				zap.String("decision_id", e.DecisionID.String()),
				zap.Any("panic", r))
		}
	}()
	h(e)
}

// newEvent builds a lifecycle event with the current timestamp.
func newEvent(t domain.EventType, decisionID uuid.UUID, payload map[string]any) domain.Event {
	return domain.Event{
		Type:       t,
		DecisionID: decisionID,
		Payload:    payload,
		Timestamp:  time.Now(),
	}
}
