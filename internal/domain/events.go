package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies a decision lifecycle notification.
type EventType string

const (
	EventDecisionRequested EventType = "decision:requested"
	EventVoteSubmitted     EventType = "vote:submitted"
	EventDecisionMade      EventType = "decision:made"
	EventDecisionResolved  EventType = "decision:resolved"
	EventDecisionTimeout   EventType = "decision:timeout"
)

// Event is published on the in-process bus for every lifecycle
// transition. Payload contents depend on the event type.
type Event struct {
	Type       EventType      `json:"type"`
	DecisionID uuid.UUID      `json:"decision_id"`
	Payload    map[string]any `json:"payload,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}
