package service

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/arbiter/internal/domain"
	"github.com/Harshitk-cp/arbiter/internal/store"
	"go.uber.org/zap"
)

var (
	ErrPatternTypeMissing  = errors.New("pattern type is required")
	ErrPatternNoAgents     = errors.New("pattern required_agents is required")
	ErrPatternBadThreshold = errors.New("pattern threshold must be between 0 and 1")
	ErrPatternBadTimeout   = errors.New("pattern timeout must be positive")
)

// PatternService registers decision templates and prefills contexts for
// recurring decision types.
type PatternService struct {
	store  domain.PatternStore
	logger *zap.Logger
}

func NewPatternService(st domain.PatternStore, logger *zap.Logger) *PatternService {
	return &PatternService{store: st, logger: logger}
}

func (s *PatternService) Register(ctx context.Context, p *domain.DecisionPattern) error {
	if p.Type == "" {
		return ErrPatternTypeMissing
	}
	if len(p.RequiredAgents) == 0 {
		return ErrPatternNoAgents
	}
	if p.Threshold < 0 || p.Threshold > 1 {
		return ErrPatternBadThreshold
	}
	if p.Timeout <= 0 {
		return ErrPatternBadTimeout
	}

	if err := s.store.Put(ctx, p); err != nil {
		return err
	}
	s.logger.Info("registered decision pattern",
		zap.String("type", p.Type),
		zap.Int("required_agents", len(p.RequiredAgents)))
	return nil
}

func (s *PatternService) Get(ctx context.Context, decisionType string) (*domain.DecisionPattern, error) {
	return s.store.GetByType(ctx, decisionType)
}

func (s *PatternService) List(ctx context.Context) ([]domain.DecisionPattern, error) {
	return s.store.List(ctx)
}

// ApplyDefaults fills the unset fields of a context from the pattern
// registered for its type, if any. Caller-provided fields win.
func (s *PatternService) ApplyDefaults(ctx context.Context, dc *domain.DecisionContext) {
	p, err := s.store.GetByType(ctx, dc.Type)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Debug("pattern lookup failed", zap.String("type", dc.Type), zap.Error(err))
		}
		return
	}

	if len(dc.RequiredAgents) == 0 {
		dc.RequiredAgents = append([]string(nil), p.RequiredAgents...)
	}
	if len(dc.OptionalAgents) == 0 {
		dc.OptionalAgents = append([]string(nil), p.OptionalAgents...)
	}
	if dc.Threshold == 0 {
		dc.Threshold = p.Threshold
	}
	if dc.Timeout == 0 {
		dc.Timeout = p.Timeout
	}
}
