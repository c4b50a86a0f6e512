package service

import (
	"context"

	"github.com/Harshitk-cp/arbiter/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HistoryService retains finalized decisions and derives aggregate
// metrics from them.
type HistoryService struct {
	store  domain.HistoryStore
	logger *zap.Logger
}

func NewHistoryService(st domain.HistoryStore, logger *zap.Logger) *HistoryService {
	return &HistoryService{store: st, logger: logger}
}

func (s *HistoryService) Record(ctx context.Context, d *domain.Decision) error {
	if err := s.store.Append(ctx, d); err != nil {
		return err
	}
	s.logger.Debug("decision recorded",
		zap.String("decision_id", d.ContextID.String()),
		zap.String("outcome", string(d.Outcome)))
	return nil
}

func (s *HistoryService) Get(ctx context.Context, id uuid.UUID) (*domain.Decision, error) {
	return s.store.GetByID(ctx, id)
}

func (s *HistoryService) List(ctx context.Context, limit int, typeFilter string) ([]domain.Decision, error) {
	return s.store.List(ctx, limit, typeFilter)
}

// Metrics computes aggregate statistics over the retained history.
// Consensus rate counts only approved and rejected outcomes against the
// full total.
func (s *HistoryService) Metrics(ctx context.Context) (*domain.Metrics, error) {
	decisions, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}

	m := &domain.Metrics{Total: len(decisions)}
	var latencySum float64

	for i := range decisions {
		d := &decisions[i]
		switch d.Outcome {
		case domain.OutcomeApproved:
			m.Approved++
		case domain.OutcomeRejected:
			m.Rejected++
		case domain.OutcomeTimeout:
			m.Timeouts++
		case domain.OutcomeInsufficientVotes:
			m.InsufficientVotes++
		}
		latencySum += float64(d.ResolutionLatency().Milliseconds())
	}

	if m.Total > 0 {
		m.AvgResolutionMs = latencySum / float64(m.Total)
		m.ConsensusRate = float64(m.Approved+m.Rejected) / float64(m.Total)
	}
	return m, nil
}
