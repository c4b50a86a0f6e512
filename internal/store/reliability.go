package store

import (
	"context"
	"sync"
)

// ReliabilityStore is an in-memory map of agent id to trust score.
// The engine is single-process and reliability does not survive
// restarts, so no durable backend sits behind this.
type ReliabilityStore struct {
	mu     sync.RWMutex
	scores map[string]float64
}

func NewReliabilityStore() *ReliabilityStore {
	return &ReliabilityStore{scores: make(map[string]float64)}
}

func (s *ReliabilityStore) Get(_ context.Context, agentID string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	score, ok := s.scores[agentID]
	if !ok {
		return 0, ErrNotFound
	}
	return score, nil
}

func (s *ReliabilityStore) Put(_ context.Context, agentID string, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scores[agentID] = score
	return nil
}

func (s *ReliabilityStore) All(_ context.Context) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]float64, len(s.scores))
	for id, score := range s.scores {
		out[id] = score
	}
	return out, nil
}
