package domain

import (
	"testing"
	"time"
)

func TestValidPriority(t *testing.T) {
	valid := []string{"low", "medium", "high", "critical"}
	for _, p := range valid {
		if !ValidPriority(p) {
			t.Errorf("ValidPriority(%q) = false, want true", p)
		}
	}

	invalid := []string{"", "urgent", "HIGH", "Critical"}
	for _, p := range invalid {
		if ValidPriority(p) {
			t.Errorf("ValidPriority(%q) = true, want false", p)
		}
	}
}

func TestValidVoteValue(t *testing.T) {
	valid := []string{"approve", "reject", "abstain"}
	for _, v := range valid {
		if !ValidVoteValue(v) {
			t.Errorf("ValidVoteValue(%q) = false, want true", v)
		}
	}

	invalid := []string{"", "yes", "no", "Approve"}
	for _, v := range invalid {
		if ValidVoteValue(v) {
			t.Errorf("ValidVoteValue(%q) = true, want false", v)
		}
	}
}

func TestValidResolutionStrategy(t *testing.T) {
	valid := []string{
		"weighted_vote",
		"expert_override",
		"hierarchical",
		"majority_plus",
		"unanimous_required",
	}
	for _, s := range valid {
		if !ValidResolutionStrategy(s) {
			t.Errorf("ValidResolutionStrategy(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "majority", "weighted", "WEIGHTED_VOTE"}
	for _, s := range invalid {
		if ValidResolutionStrategy(s) {
			t.Errorf("ValidResolutionStrategy(%q) = true, want false", s)
		}
	}
}

func TestValidFeedbackOutcome(t *testing.T) {
	if !ValidFeedbackOutcome("correct") || !ValidFeedbackOutcome("incorrect") {
		t.Error("correct and incorrect should be valid feedback outcomes")
	}
	for _, o := range []string{"", "right", "Correct"} {
		if ValidFeedbackOutcome(o) {
			t.Errorf("ValidFeedbackOutcome(%q) = true, want false", o)
		}
	}
}

func TestResolutionLatency(t *testing.T) {
	requested := time.Now()
	d := &Decision{
		RequestedAt: requested,
		Timestamp:   requested.Add(250 * time.Millisecond),
	}

	if got := d.ResolutionLatency(); got != 250*time.Millisecond {
		t.Errorf("ResolutionLatency() = %v, want 250ms", got)
	}
}
