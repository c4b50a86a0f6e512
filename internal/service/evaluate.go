package service

import (
	"fmt"

	"github.com/Harshitk-cp/arbiter/internal/domain"
)

// evaluation is the result of an aggregation rule over a vote snapshot.
// Approving carries the approve votes so finalization can build the
// execution plan and merged data without re-partitioning.
type evaluation struct {
	Outcome    domain.Outcome
	Confidence float64
	Reasoning  string
	Approving  []domain.AgentVote
}

// evaluateConsensus applies the default weighted-consensus rule:
// each approve/reject vote weighs confidence x reliability, and the
// approval ratio Wa/(Wa+Wr) is compared against the context threshold.
// Abstains count toward the required-vote check but not the ratio.
//
// The insufficient-votes check is independent of readiness: the fast
// readiness path can trigger evaluation with fewer votes than required
// agents, and this still resolves to insufficient_votes.
func evaluateConsensus(dc *domain.DecisionContext, votes []domain.AgentVote, reliability func(agentID string) float64) evaluation {
	if len(votes) < len(dc.RequiredAgents) {
		return evaluation{
			Outcome:    domain.OutcomeInsufficientVotes,
			Confidence: 0,
			Reasoning: fmt.Sprintf("insufficient votes: %d received, %d required agents",
				len(votes), len(dc.RequiredAgents)),
		}
	}

	var approving []domain.AgentVote
	var approveWeight, rejectWeight float64
	abstained := 0

	for _, v := range votes {
		switch v.Vote {
		case domain.VoteApprove:
			approving = append(approving, v)
			approveWeight += v.Confidence * reliability(v.AgentID)
		case domain.VoteReject:
			rejectWeight += v.Confidence * reliability(v.AgentID)
		case domain.VoteAbstain:
			abstained++
		}
	}

	ratio := 0.0
	if approveWeight+rejectWeight > 0 {
		ratio = approveWeight / (approveWeight + rejectWeight)
	}

	detail := fmt.Sprintf("approve weight %.3f, reject weight %.3f, %d abstained",
		approveWeight, rejectWeight, abstained)

	if ratio >= dc.Threshold {
		return evaluation{
			Outcome:    domain.OutcomeApproved,
			Confidence: ratio,
			Reasoning:  fmt.Sprintf("weighted approval %.3f meets threshold %.2f (%s)", ratio, dc.Threshold, detail),
			Approving:  approving,
		}
	}

	return evaluation{
		Outcome:    domain.OutcomeRejected,
		Confidence: 1 - ratio,
		Reasoning:  fmt.Sprintf("weighted approval %.3f below threshold %.2f (%s)", ratio, dc.Threshold, detail),
	}
}

// dataContribution records one agent's value for a merged data key when
// the values are heterogeneous and cannot be averaged.
type dataContribution struct {
	Agent      string  `json:"agent"`
	Value      any     `json:"value"`
	Confidence float64 `json:"confidence"`
}

// mergeVoteData combines the data payloads of approving votes. Keys
// where every contributed value is numeric collapse to the
// confidence-weighted mean; any other key keeps the full contribution
// list so no information is lost.
func mergeVoteData(approving []domain.AgentVote) map[string]any {
	contributions := make(map[string][]dataContribution)
	var keys []string

	for _, v := range approving {
		for k, val := range v.Data {
			if _, seen := contributions[k]; !seen {
				keys = append(keys, k)
			}
			contributions[k] = append(contributions[k], dataContribution{
				Agent:      v.AgentID,
				Value:      val,
				Confidence: v.Confidence,
			})
		}
	}

	if len(keys) == 0 {
		return nil
	}

	merged := make(map[string]any, len(keys))
	for _, k := range keys {
		merged[k] = mergeKey(contributions[k])
	}
	return merged
}

func mergeKey(contribs []dataContribution) any {
	var weightedSum, weightTotal, plainSum float64
	for _, c := range contribs {
		n, ok := toFloat(c.Value)
		if !ok {
			return contribs
		}
		weightedSum += n * c.Confidence
		weightTotal += c.Confidence
		plainSum += n
	}

	if weightTotal == 0 {
		// All contributors had zero confidence; fall back to a plain mean.
		return plainSum / float64(len(contribs))
	}
	return weightedSum / weightTotal
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
