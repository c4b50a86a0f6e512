package domain

// ResolutionStrategy names an explicitly-invoked aggregation rule that
// overrides the default weighted-consensus evaluation.
type ResolutionStrategy string

const (
	// StrategyWeightedVote aggregates approve/reject with caller-supplied
	// per-agent weights instead of reliability.
	StrategyWeightedVote ResolutionStrategy = "weighted_vote"
	// StrategyExpertOverride restricts the outcome to a caller-supplied
	// expert subset.
	StrategyExpertOverride ResolutionStrategy = "expert_override"
	// StrategyHierarchical lets the first listed agent with a non-abstain
	// vote decide.
	StrategyHierarchical ResolutionStrategy = "hierarchical"
	// StrategyMajorityPlus requires a 2/3 supermajority of non-abstain votes.
	StrategyMajorityPlus ResolutionStrategy = "majority_plus"
	// StrategyUnanimousRequired requires every non-abstain vote to approve.
	StrategyUnanimousRequired ResolutionStrategy = "unanimous_required"
)

func ValidResolutionStrategy(s string) bool {
	switch ResolutionStrategy(s) {
	case StrategyWeightedVote, StrategyExpertOverride, StrategyHierarchical,
		StrategyMajorityPlus, StrategyUnanimousRequired:
		return true
	}
	return false
}

// ResolveOptions carries the caller-supplied inputs that some strategies
// need. Unused fields are ignored by strategies that do not read them.
type ResolveOptions struct {
	// Weights are per-agent multipliers for weighted_vote; missing agents
	// default to 1.
	Weights map[string]float64 `json:"weights,omitempty"`
	// Experts is the agent subset consulted by expert_override.
	Experts []string `json:"experts,omitempty"`
	// Hierarchy is the ordered agent list consulted by hierarchical.
	Hierarchy []string `json:"hierarchy,omitempty"`
}
