package store

import (
	"context"
	"sync"

	"github.com/Harshitk-cp/arbiter/internal/domain"
	"github.com/google/uuid"
)

// HistoryStore retains finalized decisions in memory, oldest first.
// When maxEntries > 0 the oldest decisions are evicted once the cap is
// exceeded; recency ordering is preserved either way.
type HistoryStore struct {
	mu         sync.RWMutex
	decisions  []domain.Decision
	byID       map[uuid.UUID]int
	maxEntries int
}

func NewHistoryStore(maxEntries int) *HistoryStore {
	return &HistoryStore{
		byID:       make(map[uuid.UUID]int),
		maxEntries: maxEntries,
	}
}

func (s *HistoryStore) Append(_ context.Context, d *domain.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[d.ContextID]; exists {
		return ErrConflict
	}

	s.decisions = append(s.decisions, *d)

	if s.maxEntries > 0 && len(s.decisions) > s.maxEntries {
		evicted := s.decisions[0]
		s.decisions = s.decisions[1:]
		delete(s.byID, evicted.ContextID)
	}

	// Rebuild index offsets after any eviction; cheap for the cap sizes
	// this store is configured with.
	s.byID = make(map[uuid.UUID]int, len(s.decisions))
	for i := range s.decisions {
		s.byID[s.decisions[i].ContextID] = i
	}
	return nil
}

func (s *HistoryStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	d := s.decisions[i]
	return &d, nil
}

// List returns up to limit decisions, newest first, optionally filtered
// by decision type. limit <= 0 means no limit.
func (s *HistoryStore) List(_ context.Context, limit int, typeFilter string) ([]domain.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Decision
	for i := len(s.decisions) - 1; i >= 0; i-- {
		d := s.decisions[i]
		if typeFilter != "" && d.Type != typeFilter {
			continue
		}
		out = append(out, d)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *HistoryStore) All(_ context.Context) ([]domain.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Decision, len(s.decisions))
	copy(out, s.decisions)
	return out, nil
}
