package domain

import "time"

// DecisionPattern is a named template for a recurring decision type. It
// prefills a DecisionContext when the caller omits the corresponding
// fields; it is read-only at runtime except for explicit registration.
type DecisionPattern struct {
	Type           string        `json:"type"`
	RequiredAgents []string      `json:"required_agents"`
	OptionalAgents []string      `json:"optional_agents,omitempty"`
	Threshold      float64       `json:"threshold"`
	Timeout        time.Duration `json:"timeout_ms"`
}
