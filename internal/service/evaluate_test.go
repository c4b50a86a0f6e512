package service

import (
	"testing"
	"time"

	"github.com/Harshitk-cp/arbiter/internal/domain"
	"github.com/google/uuid"
)

func fixedReliability(score float64) func(string) float64 {
	return func(string) float64 { return score }
}

func testContext(required []string, threshold float64) *domain.DecisionContext {
	return &domain.DecisionContext{
		ID:             uuid.New(),
		Type:           "order_modification",
		Priority:       domain.PriorityMedium,
		RequiredAgents: required,
		Threshold:      threshold,
		Timeout:        time.Second,
		CreatedAt:      time.Now(),
	}
}

func approveVote(agentID string, confidence float64) domain.AgentVote {
	return domain.AgentVote{AgentID: agentID, Vote: domain.VoteApprove, Confidence: confidence}
}

func rejectVote(agentID string, confidence float64) domain.AgentVote {
	return domain.AgentVote{AgentID: agentID, Vote: domain.VoteReject, Confidence: confidence}
}

func TestEvaluateConsensus_UnanimousApproval(t *testing.T) {
	dc := testContext([]string{"A", "B"}, 0.7)
	votes := []domain.AgentVote{approveVote("A", 0.9), approveVote("B", 0.9)}

	ev := evaluateConsensus(dc, votes, fixedReliability(0.5))

	if ev.Outcome != domain.OutcomeApproved {
		t.Fatalf("expected approved, got %s", ev.Outcome)
	}
	if ev.Confidence != 1.0 {
		t.Fatalf("expected confidence 1.0, got %f", ev.Confidence)
	}
}

func TestEvaluateConsensus_InsufficientVotes(t *testing.T) {
	dc := testContext([]string{"A", "B"}, 0.7)
	votes := []domain.AgentVote{approveVote("A", 0.9)}

	ev := evaluateConsensus(dc, votes, fixedReliability(0.5))

	if ev.Outcome != domain.OutcomeInsufficientVotes {
		t.Fatalf("expected insufficient_votes, got %s", ev.Outcome)
	}
	if ev.Confidence != 0 {
		t.Fatalf("expected confidence 0, got %f", ev.Confidence)
	}
}

func TestEvaluateConsensus_Rejected(t *testing.T) {
	dc := testContext([]string{"A", "B"}, 0.7)
	votes := []domain.AgentVote{approveVote("A", 0.3), rejectVote("B", 0.9)}

	ev := evaluateConsensus(dc, votes, fixedReliability(0.5))

	if ev.Outcome != domain.OutcomeRejected {
		t.Fatalf("expected rejected, got %s", ev.Outcome)
	}
	// ratio = 0.15/(0.15+0.45) = 0.25; confidence = 1 - ratio
	if ev.Confidence != 0.75 {
		t.Fatalf("expected confidence 0.75, got %f", ev.Confidence)
	}
}

func TestEvaluateConsensus_Monotonicity(t *testing.T) {
	dc := testContext([]string{"A", "B"}, 0.7)

	high := []domain.AgentVote{approveVote("A", 0.9), rejectVote("B", 0.3)}
	ev := evaluateConsensus(dc, high, fixedReliability(0.5))
	if ev.Outcome != domain.OutcomeApproved {
		t.Fatalf("expected approved with strong approve vote, got %s", ev.Outcome)
	}

	// Lowering the approving confidence below the threshold point flips
	// the outcome.
	low := []domain.AgentVote{approveVote("A", 0.2), rejectVote("B", 0.3)}
	ev = evaluateConsensus(dc, low, fixedReliability(0.5))
	if ev.Outcome != domain.OutcomeRejected {
		t.Fatalf("expected rejected with weak approve vote, got %s", ev.Outcome)
	}
}

func TestEvaluateConsensus_AbstainsCountForQuorumOnly(t *testing.T) {
	dc := testContext([]string{"A", "B"}, 0.7)
	votes := []domain.AgentVote{
		approveVote("A", 0.9),
		{AgentID: "B", Vote: domain.VoteAbstain, Confidence: 0.9},
	}

	ev := evaluateConsensus(dc, votes, fixedReliability(0.5))

	// The abstain satisfies the required-count check but contributes no
	// weight, so the single approve carries the ratio to 1.0.
	if ev.Outcome != domain.OutcomeApproved {
		t.Fatalf("expected approved, got %s", ev.Outcome)
	}
	if ev.Confidence != 1.0 {
		t.Fatalf("expected confidence 1.0, got %f", ev.Confidence)
	}
}

func TestEvaluateConsensus_AllAbstainZeroRatio(t *testing.T) {
	dc := testContext([]string{"A", "B"}, 0.7)
	votes := []domain.AgentVote{
		{AgentID: "A", Vote: domain.VoteAbstain, Confidence: 0.9},
		{AgentID: "B", Vote: domain.VoteAbstain, Confidence: 0.9},
	}

	ev := evaluateConsensus(dc, votes, fixedReliability(0.5))

	if ev.Outcome != domain.OutcomeRejected {
		t.Fatalf("expected rejected when ratio is undefined, got %s", ev.Outcome)
	}
	if ev.Confidence != 1.0 {
		t.Fatalf("expected confidence 1.0, got %f", ev.Confidence)
	}
}

func TestEvaluateConsensus_ZeroThresholdApproves(t *testing.T) {
	dc := testContext([]string{"A", "B"}, 0)
	votes := []domain.AgentVote{rejectVote("A", 0.9), rejectVote("B", 0.9)}

	// ratio 0 still meets a threshold of 0.
	ev := evaluateConsensus(dc, votes, fixedReliability(0.5))
	if ev.Outcome != domain.OutcomeApproved {
		t.Fatalf("expected approved at threshold 0, got %s", ev.Outcome)
	}
}

func TestMergeVoteData_NumericWeightedMean(t *testing.T) {
	votes := []domain.AgentVote{
		{AgentID: "A", Vote: domain.VoteApprove, Confidence: 0.8, Data: map[string]any{"eta_minutes": 10.0}},
		{AgentID: "B", Vote: domain.VoteApprove, Confidence: 0.2, Data: map[string]any{"eta_minutes": 20.0}},
	}

	merged := mergeVoteData(votes)

	got, ok := merged["eta_minutes"].(float64)
	if !ok {
		t.Fatalf("expected float64 mean, got %T", merged["eta_minutes"])
	}
	// (10*0.8 + 20*0.2) / (0.8+0.2) = 12
	if got != 12.0 {
		t.Fatalf("expected weighted mean 12.0, got %f", got)
	}
}

func TestMergeVoteData_HeterogeneousKeepsContributions(t *testing.T) {
	votes := []domain.AgentVote{
		{AgentID: "A", Vote: domain.VoteApprove, Confidence: 0.8, Data: map[string]any{"station": "grill"}},
		{AgentID: "B", Vote: domain.VoteApprove, Confidence: 0.6, Data: map[string]any{"station": 3}},
	}

	merged := mergeVoteData(votes)

	contribs, ok := merged["station"].([]dataContribution)
	if !ok {
		t.Fatalf("expected contribution list, got %T", merged["station"])
	}
	if len(contribs) != 2 {
		t.Fatalf("expected 2 contributions, got %d", len(contribs))
	}
	if contribs[0].Agent != "A" || contribs[0].Value != "grill" {
		t.Fatalf("unexpected first contribution: %+v", contribs[0])
	}
}

func TestMergeVoteData_Empty(t *testing.T) {
	votes := []domain.AgentVote{approveVote("A", 0.9)}
	if merged := mergeVoteData(votes); merged != nil {
		t.Fatalf("expected nil merge for votes without data, got %v", merged)
	}
}

func TestMergeVoteData_ZeroConfidenceFallsBackToMean(t *testing.T) {
	votes := []domain.AgentVote{
		{AgentID: "A", Vote: domain.VoteApprove, Confidence: 0, Data: map[string]any{"count": 2.0}},
		{AgentID: "B", Vote: domain.VoteApprove, Confidence: 0, Data: map[string]any{"count": 4.0}},
	}

	merged := mergeVoteData(votes)
	if got := merged["count"].(float64); got != 3.0 {
		t.Fatalf("expected plain mean 3.0, got %f", got)
	}
}
