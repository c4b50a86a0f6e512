package service

import (
	"errors"
	"fmt"

	"github.com/Harshitk-cp/arbiter/internal/domain"
)

// SupermajorityThreshold is the approve fraction majority_plus requires
// among non-abstain votes.
const SupermajorityThreshold = 0.67

var ErrInvalidStrategy = errors.New("unknown resolution strategy")

// resolveWithStrategy applies a named conflict-resolution rule to the
// current vote snapshot. Strategies are pure given the snapshot; the
// caller finalizes the resulting evaluation.
func resolveWithStrategy(
	dc *domain.DecisionContext,
	votes []domain.AgentVote,
	strategy domain.ResolutionStrategy,
	opts domain.ResolveOptions,
	reliability func(agentID string) float64,
) (evaluation, error) {
	switch strategy {
	case domain.StrategyWeightedVote:
		return resolveWeightedVote(dc, votes, opts.Weights), nil
	case domain.StrategyExpertOverride:
		return resolveExpertOverride(dc, votes, opts.Experts, reliability), nil
	case domain.StrategyHierarchical:
		return resolveHierarchical(dc, votes, opts.Hierarchy, reliability), nil
	case domain.StrategyMajorityPlus:
		return resolveMajorityPlus(votes), nil
	case domain.StrategyUnanimousRequired:
		return resolveUnanimous(votes), nil
	}
	return evaluation{}, fmt.Errorf("%w: %q", ErrInvalidStrategy, strategy)
}

// resolveWeightedVote mirrors the default consensus rule but replaces
// reliability with caller-supplied per-agent weights (default 1).
func resolveWeightedVote(dc *domain.DecisionContext, votes []domain.AgentVote, weights map[string]float64) evaluation {
	weight := func(agentID string) float64 {
		if w, ok := weights[agentID]; ok {
			return w
		}
		return 1
	}
	return evaluateConsensus(dc, votes, weight)
}

// resolveExpertOverride restricts the outcome to the experts' votes; a
// simple majority of their non-abstain votes decides. With no expert
// vote at all, the default evaluation applies.
func resolveExpertOverride(dc *domain.DecisionContext, votes []domain.AgentVote, experts []string, reliability func(string) float64) evaluation {
	expertSet := make(map[string]bool, len(experts))
	for _, e := range experts {
		expertSet[e] = true
	}

	var approving []domain.AgentVote
	approveCount, rejectCount := 0, 0
	for _, v := range votes {
		if !expertSet[v.AgentID] {
			continue
		}
		switch v.Vote {
		case domain.VoteApprove:
			approving = append(approving, v)
			approveCount++
		case domain.VoteReject:
			rejectCount++
		}
	}

	if approveCount+rejectCount == 0 {
		ev := evaluateConsensus(dc, votes, reliability)
		ev.Reasoning = "no expert votes; " + ev.Reasoning
		return ev
	}

	fraction := float64(approveCount) / float64(approveCount+rejectCount)
	detail := fmt.Sprintf("%d of %d experts approved", approveCount, approveCount+rejectCount)

	if fraction >= 0.5 {
		return evaluation{
			Outcome:    domain.OutcomeApproved,
			Confidence: fraction,
			Reasoning:  "expert override: " + detail,
			Approving:  approving,
		}
	}
	return evaluation{
		Outcome:    domain.OutcomeRejected,
		Confidence: 1 - fraction,
		Reasoning:  "expert override: " + detail,
	}
}

// resolveHierarchical walks the caller-supplied agent order and takes
// the first non-abstain vote as the outcome. With no such vote, the
// default evaluation applies.
func resolveHierarchical(dc *domain.DecisionContext, votes []domain.AgentVote, hierarchy []string, reliability func(string) float64) evaluation {
	byAgent := make(map[string]domain.AgentVote, len(votes))
	for _, v := range votes {
		byAgent[v.AgentID] = v
	}

	for _, agentID := range hierarchy {
		v, ok := byAgent[agentID]
		if !ok || v.Vote == domain.VoteAbstain {
			continue
		}
		reasoning := fmt.Sprintf("hierarchical: %s voted %s with confidence %.2f", agentID, v.Vote, v.Confidence)
		if v.Vote == domain.VoteApprove {
			return evaluation{
				Outcome:    domain.OutcomeApproved,
				Confidence: v.Confidence,
				Reasoning:  reasoning,
				Approving:  []domain.AgentVote{v},
			}
		}
		return evaluation{
			Outcome:    domain.OutcomeRejected,
			Confidence: v.Confidence,
			Reasoning:  reasoning,
		}
	}

	ev := evaluateConsensus(dc, votes, reliability)
	ev.Reasoning = "no hierarchy agent voted; " + ev.Reasoning
	return ev
}

// resolveMajorityPlus approves only on a supermajority of non-abstain
// votes.
func resolveMajorityPlus(votes []domain.AgentVote) evaluation {
	var approving []domain.AgentVote
	nonAbstain := 0
	for _, v := range votes {
		switch v.Vote {
		case domain.VoteApprove:
			approving = append(approving, v)
			nonAbstain++
		case domain.VoteReject:
			nonAbstain++
		}
	}

	if nonAbstain == 0 {
		return evaluation{
			Outcome:    domain.OutcomeRejected,
			Confidence: 0,
			Reasoning:  "majority_plus: no non-abstain votes",
		}
	}

	ratio := float64(len(approving)) / float64(nonAbstain)
	detail := fmt.Sprintf("%d of %d non-abstain votes approved (need %.0f%%)",
		len(approving), nonAbstain, SupermajorityThreshold*100)

	if ratio >= SupermajorityThreshold {
		return evaluation{
			Outcome:    domain.OutcomeApproved,
			Confidence: ratio,
			Reasoning:  "majority_plus: " + detail,
			Approving:  approving,
		}
	}
	return evaluation{
		Outcome:    domain.OutcomeRejected,
		Confidence: 1 - ratio,
		Reasoning:  "majority_plus: " + detail,
	}
}

// resolveUnanimous approves only when every non-abstain vote approves
// and at least one exists.
func resolveUnanimous(votes []domain.AgentVote) evaluation {
	var approving []domain.AgentVote
	rejects := 0
	for _, v := range votes {
		switch v.Vote {
		case domain.VoteApprove:
			approving = append(approving, v)
		case domain.VoteReject:
			rejects++
		}
	}

	if rejects > 0 || len(approving) == 0 {
		return evaluation{
			Outcome:    domain.OutcomeRejected,
			Confidence: 0,
			Reasoning: fmt.Sprintf("unanimous_required: %d approvals, %d rejections",
				len(approving), rejects),
		}
	}

	var sum float64
	for _, v := range approving {
		sum += v.Confidence
	}
	return evaluation{
		Outcome:    domain.OutcomeApproved,
		Confidence: sum / float64(len(approving)),
		Reasoning:  fmt.Sprintf("unanimous_required: all %d non-abstain votes approved", len(approving)),
		Approving:  approving,
	}
}
