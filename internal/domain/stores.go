package domain

import (
	"context"

	"github.com/google/uuid"
)

// ReliabilityStore holds per-agent trust scores. Get returns
// store.ErrNotFound for agents that have never received feedback;
// callers decide which default applies.
type ReliabilityStore interface {
	Get(ctx context.Context, agentID string) (float64, error)
	Put(ctx context.Context, agentID string, score float64) error
	All(ctx context.Context) (map[string]float64, error)
}

// HistoryStore retains finalized decisions in recency order.
type HistoryStore interface {
	Append(ctx context.Context, d *Decision) error
	GetByID(ctx context.Context, id uuid.UUID) (*Decision, error)
	List(ctx context.Context, limit int, typeFilter string) ([]Decision, error)
	All(ctx context.Context) ([]Decision, error)
}

// PatternStore holds registered decision patterns keyed by decision type.
type PatternStore interface {
	Put(ctx context.Context, p *DecisionPattern) error
	GetByType(ctx context.Context, decisionType string) (*DecisionPattern, error)
	List(ctx context.Context) ([]DecisionPattern, error)
}
