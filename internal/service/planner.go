package service

import "github.com/Harshitk-cp/arbiter/internal/domain"

// planStep is one entry of a decision-type template. The agent names
// are targets for an external executor; the engine never calls them.
type planStep struct {
	action string
	agent  string
}

var planTemplates = map[string][]planStep{
	"order_modification": {
		{action: "validate_modification", agent: "order_validator"},
		{action: "update_stations", agent: "kitchen_router"},
		{action: "notify_customer", agent: "customer_notifier"},
	},
	"order_cancellation": {
		{action: "halt_preparation", agent: "kitchen_router"},
		{action: "release_stations", agent: "kitchen_router"},
		{action: "notify_customer", agent: "customer_notifier"},
	},
	"station_reassignment": {
		{action: "validate_capacity", agent: "capacity_planner"},
		{action: "reassign_station", agent: "kitchen_router"},
		{action: "rebalance_queue", agent: "kitchen_router"},
	},
}

// buildExecutionPlan converts an approved decision into an ordered step
// list. Unrecognized decision types get a single generic step so every
// approval remains executable.
func buildExecutionPlan(decisionType string, approving []domain.AgentVote) []domain.ExecutionStep {
	data := mergeVoteData(approving)

	template, ok := planTemplates[decisionType]
	if !ok {
		return []domain.ExecutionStep{{
			Step:   1,
			Action: "execute_decision",
			Agent:  "execution_coordinator",
			Data:   data,
		}}
	}

	steps := make([]domain.ExecutionStep, len(template))
	for i, t := range template {
		steps[i] = domain.ExecutionStep{
			Step:   i + 1,
			Action: t.action,
			Agent:  t.agent,
			Data:   data,
		}
	}
	return steps
}
