package service

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/arbiter/internal/domain"
	"github.com/Harshitk-cp/arbiter/internal/store"
	"go.uber.org/zap"
)

const (
	// DefaultVoteReliability is assumed during evaluation for agents with
	// no recorded feedback.
	DefaultVoteReliability = 0.5
	// InitialReliability seeds an agent's score on its first feedback.
	InitialReliability = 0.8
	ReliabilityStep    = 0.05
	MinReliability     = 0.1
	MaxReliability     = 1.0
)

var (
	ErrInvalidFeedback = errors.New("feedback outcome must be correct or incorrect")
	ErrAgentIDMissing  = errors.New("agent_id is required")
)

// ReliabilityService owns the per-agent trust ledger. Evaluation reads
// go through Get; only Update mutates scores.
type ReliabilityService struct {
	store  domain.ReliabilityStore
	logger *zap.Logger
}

func NewReliabilityService(st domain.ReliabilityStore, logger *zap.Logger) *ReliabilityService {
	return &ReliabilityService{store: st, logger: logger}
}

// Get returns the agent's current reliability, defaulting unseen agents
// to DefaultVoteReliability.
func (s *ReliabilityService) Get(ctx context.Context, agentID string) float64 {
	score, err := s.store.Get(ctx, agentID)
	if err != nil {
		return DefaultVoteReliability
	}
	return score
}

// Update applies explicit correctness feedback: +ReliabilityStep for
// correct, -ReliabilityStep for incorrect, clamped to
// [MinReliability, MaxReliability]. First feedback for an agent starts
// from InitialReliability.
func (s *ReliabilityService) Update(ctx context.Context, agentID string, outcome domain.FeedbackOutcome) (float64, error) {
	if agentID == "" {
		return 0, ErrAgentIDMissing
	}
	if !domain.ValidFeedbackOutcome(string(outcome)) {
		return 0, ErrInvalidFeedback
	}

	score, err := s.store.Get(ctx, agentID)
	if errors.Is(err, store.ErrNotFound) {
		score = InitialReliability
	} else if err != nil {
		return 0, err
	}

	old := score
	switch outcome {
	case domain.FeedbackCorrect:
		score += ReliabilityStep
	case domain.FeedbackIncorrect:
		score -= ReliabilityStep
	}
	score = clampReliability(score)

	if err := s.store.Put(ctx, agentID, score); err != nil {
		return 0, err
	}

	s.logger.Debug("updated agent reliability",
		zap.String("agent_id", agentID),
		zap.String("outcome", string(outcome)),
		zap.Float64("old", old),
		zap.Float64("new", score))

	return score, nil
}

// Snapshot returns all recorded scores. Agents that never received
// feedback are absent.
func (s *ReliabilityService) Snapshot(ctx context.Context) (map[string]float64, error) {
	return s.store.All(ctx)
}

func clampReliability(score float64) float64 {
	if score < MinReliability {
		return MinReliability
	}
	if score > MaxReliability {
		return MaxReliability
	}
	return score
}
