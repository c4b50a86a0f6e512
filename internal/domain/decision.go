package domain

import (
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func ValidPriority(p string) bool {
	switch Priority(p) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type VoteValue string

const (
	VoteApprove VoteValue = "approve"
	VoteReject  VoteValue = "reject"
	VoteAbstain VoteValue = "abstain"
)

func ValidVoteValue(v string) bool {
	switch VoteValue(v) {
	case VoteApprove, VoteReject, VoteAbstain:
		return true
	}
	return false
}

type Outcome string

const (
	OutcomeApproved          Outcome = "approved"
	OutcomeRejected          Outcome = "rejected"
	OutcomeTimeout           Outcome = "timeout"
	OutcomeInsufficientVotes Outcome = "insufficient_votes"
)

// DecisionContext is a pending request for arbitration. It lives in the
// engine's pending set until exactly one Decision is produced for it.
type DecisionContext struct {
	ID             uuid.UUID      `json:"id"`
	Type           string         `json:"type"`
	Priority       Priority       `json:"priority"`
	Data           map[string]any `json:"data,omitempty"`
	RequiredAgents []string       `json:"required_agents"`
	OptionalAgents []string       `json:"optional_agents,omitempty"`
	Timeout        time.Duration  `json:"timeout_ms"`
	Threshold      float64        `json:"threshold"`
	CreatedAt      time.Time      `json:"created_at"`
}

// AgentVote is keyed by (decision, agent); a later vote from the same
// agent replaces the earlier one.
type AgentVote struct {
	DecisionID uuid.UUID      `json:"decision_id"`
	AgentID    string         `json:"agent_id"`
	Vote       VoteValue      `json:"vote"`
	Confidence float64        `json:"confidence"`
	Reasoning  string         `json:"reasoning,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// ExecutionStep is a symbolic instruction for an external executor; the
// engine never performs steps itself.
type ExecutionStep struct {
	Step   int            `json:"step"`
	Action string         `json:"action"`
	Agent  string         `json:"agent"`
	Data   map[string]any `json:"data,omitempty"`
}

// Decision is the immutable, final outcome for a DecisionContext.
type Decision struct {
	ContextID     uuid.UUID       `json:"context_id"`
	Type          string          `json:"type"`
	Outcome       Outcome         `json:"outcome"`
	Confidence    float64         `json:"confidence"`
	Votes         []AgentVote     `json:"votes"`
	Reasoning     string          `json:"reasoning"`
	FinalData     map[string]any  `json:"final_data,omitempty"`
	ExecutionPlan []ExecutionStep `json:"execution_plan,omitempty"`
	RequestedAt   time.Time       `json:"requested_at"`
	Timestamp     time.Time       `json:"timestamp"`
}

// ResolutionLatency is the time between the arbitration request and the
// final decision.
func (d *Decision) ResolutionLatency() time.Duration {
	return d.Timestamp.Sub(d.RequestedAt)
}
