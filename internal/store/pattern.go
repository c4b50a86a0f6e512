package store

import (
	"context"
	"sort"
	"sync"

	"github.com/Harshitk-cp/arbiter/internal/domain"
)

// PatternStore holds decision patterns keyed by decision type.
// Registration replaces any existing pattern for the same type.
type PatternStore struct {
	mu       sync.RWMutex
	patterns map[string]domain.DecisionPattern
}

func NewPatternStore() *PatternStore {
	return &PatternStore{patterns: make(map[string]domain.DecisionPattern)}
}

func (s *PatternStore) Put(_ context.Context, p *domain.DecisionPattern) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.patterns[p.Type] = *p
	return nil
}

func (s *PatternStore) GetByType(_ context.Context, decisionType string) (*domain.DecisionPattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.patterns[decisionType]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *PatternStore) List(_ context.Context) ([]domain.DecisionPattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.DecisionPattern, 0, len(s.patterns))
	for _, p := range s.patterns {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}
