package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Harshitk-cp/arbiter/internal/domain"
	"github.com/Harshitk-cp/arbiter/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// MinReadyVotes is the floor of the fast-path readiness clause:
	// evaluation may trigger once max(MinReadyVotes, |required|) votes
	// arrive even if a required agent is still missing.
	MinReadyVotes = 2

	DefaultThreshold = 0.7
	DefaultTimeout   = 5 * time.Second
)

var (
	ErrDecisionNotFound  = errors.New("decision not found")
	ErrWaitTimeout       = errors.New("timed out waiting for decision")
	ErrEngineClosed      = errors.New("engine is shut down")
	ErrNoRequiredAgents  = errors.New("required_agents is required")
	ErrInvalidThreshold  = errors.New("threshold must be between 0 and 1")
	ErrInvalidTimeout    = errors.New("timeout must be positive")
	ErrInvalidPriority   = errors.New("priority must be low, medium, high, or critical")
	ErrInvalidVote       = errors.New("vote must be approve, reject, or abstain")
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 1")
)

// pendingDecision isolates the mutable state of one arbitration so
// operations on independent decisions never contend. Vote submission,
// evaluation, resolution, and the timeout all serialize on mu;
// finalized flips exactly once and done closes with it.
type pendingDecision struct {
	mu        sync.Mutex
	dc        *domain.DecisionContext
	votes     map[string]domain.AgentVote
	voteOrder []string
	timer     *time.Timer
	finalized bool
	decision  *domain.Decision
	done      chan struct{}
}

func (p *pendingDecision) snapshot() []domain.AgentVote {
	out := make([]domain.AgentVote, 0, len(p.votes))
	for _, agentID := range p.voteOrder {
		out = append(out, p.votes[agentID])
	}
	return out
}

// ready reports whether evaluation should run: every required agent has
// voted, or the total vote count reaches max(MinReadyVotes, |required|).
// The second clause trades completeness for latency when optional or
// extra agents respond faster than a required one.
func (p *pendingDecision) ready() bool {
	required := 0
	for _, agentID := range p.dc.RequiredAgents {
		if _, ok := p.votes[agentID]; ok {
			required++
		}
	}
	if required == len(p.dc.RequiredAgents) {
		return true
	}

	floor := len(p.dc.RequiredAgents)
	if floor < MinReadyVotes {
		floor = MinReadyVotes
	}
	return len(p.votes) >= floor
}

// DecisionService is the arbitration engine: it owns every pending
// DecisionContext and produces exactly one Decision per context.
type DecisionService struct {
	mu      sync.RWMutex
	pending map[uuid.UUID]*pendingDecision
	closed  bool

	reliability *ReliabilityService
	history     *HistoryService
	patterns    *PatternService
	bus         *EventBus
	logger      *zap.Logger

	// Defaults applied when neither the caller nor a registered pattern
	// sets the field.
	Threshold float64
	Timeout   time.Duration
}

func NewDecisionService(
	reliability *ReliabilityService,
	history *HistoryService,
	patterns *PatternService,
	bus *EventBus,
	logger *zap.Logger,
) *DecisionService {
	return &DecisionService{
		pending:     make(map[uuid.UUID]*pendingDecision),
		reliability: reliability,
		history:     history,
		patterns:    patterns,
		bus:         bus,
		logger:      logger,
		Threshold:   DefaultThreshold,
		Timeout:     DefaultTimeout,
	}
}

// RequestDecision registers a context for arbitration and schedules its
// deadline. The returned id identifies the decision in every other
// operation.
func (s *DecisionService) RequestDecision(ctx context.Context, dc *domain.DecisionContext) (uuid.UUID, error) {
	if s.patterns != nil {
		s.patterns.ApplyDefaults(ctx, dc)
	}

	if dc.Priority == "" {
		dc.Priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(string(dc.Priority)) {
		return uuid.Nil, ErrInvalidPriority
	}
	if len(dc.RequiredAgents) == 0 {
		return uuid.Nil, ErrNoRequiredAgents
	}
	if dc.Threshold == 0 {
		dc.Threshold = s.Threshold
	}
	if dc.Threshold < 0 || dc.Threshold > 1 {
		return uuid.Nil, ErrInvalidThreshold
	}
	if dc.Timeout == 0 {
		dc.Timeout = s.Timeout
	}
	if dc.Timeout < 0 {
		return uuid.Nil, ErrInvalidTimeout
	}

	if dc.ID == uuid.Nil {
		dc.ID = uuid.New()
	}
	dc.CreatedAt = time.Now()

	p := &pendingDecision{
		dc:    dc,
		votes: make(map[string]domain.AgentVote),
		done:  make(chan struct{}),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return uuid.Nil, ErrEngineClosed
	}
	s.pending[dc.ID] = p
	s.mu.Unlock()

	p.timer = time.AfterFunc(dc.Timeout, func() { s.expire(dc.ID) })

	s.logger.Info("decision requested",
		zap.String("decision_id", dc.ID.String()),
		zap.String("type", dc.Type),
		zap.String("priority", string(dc.Priority)),
		zap.Duration("timeout", dc.Timeout))

	s.bus.Publish(newEvent(domain.EventDecisionRequested, dc.ID, map[string]any{
		"type":            dc.Type,
		"priority":        string(dc.Priority),
		"required_agents": len(dc.RequiredAgents),
	}))

	return dc.ID, nil
}

// SubmitVote upserts an agent's vote and, when the decision becomes
// ready, evaluates and finalizes it in the same step.
func (s *DecisionService) SubmitVote(ctx context.Context, decisionID uuid.UUID, vote *domain.AgentVote) error {
	if vote.AgentID == "" {
		return ErrAgentIDMissing
	}
	if !domain.ValidVoteValue(string(vote.Vote)) {
		return ErrInvalidVote
	}
	if vote.Confidence < 0 || vote.Confidence > 1 {
		return ErrInvalidConfidence
	}

	p, err := s.lookup(decisionID)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.finalized {
		// Finalization removes the context from the pending set; a vote
		// racing with it lands here and sees the same NotFound as a vote
		// for an id that never existed.
		return ErrDecisionNotFound
	}

	vote.DecisionID = decisionID
	vote.Timestamp = time.Now()
	if _, seen := p.votes[vote.AgentID]; !seen {
		p.voteOrder = append(p.voteOrder, vote.AgentID)
	}
	p.votes[vote.AgentID] = *vote

	s.logger.Debug("vote submitted",
		zap.String("decision_id", decisionID.String()),
		zap.String("agent_id", vote.AgentID),
		zap.String("vote", string(vote.Vote)),
		zap.Float64("confidence", vote.Confidence),
		zap.Int("votes", len(p.votes)))

	s.bus.Publish(newEvent(domain.EventVoteSubmitted, decisionID, map[string]any{
		"agent_id": vote.AgentID,
		"vote":     string(vote.Vote),
		"votes":    len(p.votes),
	}))

	if !p.ready() {
		return nil
	}

	ev := evaluateConsensus(p.dc, p.snapshot(), s.reliabilityReader(ctx))
	s.finalizeLocked(ctx, p, ev, domain.EventDecisionMade)
	return nil
}

// ResolveConflict finalizes the decision immediately using a named
// strategy, bypassing the readiness check.
func (s *DecisionService) ResolveConflict(ctx context.Context, decisionID uuid.UUID, strategy domain.ResolutionStrategy, opts domain.ResolveOptions) (*domain.Decision, error) {
	if !domain.ValidResolutionStrategy(string(strategy)) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStrategy, strategy)
	}

	p, err := s.lookup(decisionID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.finalized {
		return nil, ErrDecisionNotFound
	}

	ev, err := resolveWithStrategy(p.dc, p.snapshot(), strategy, opts, s.reliabilityReader(ctx))
	if err != nil {
		return nil, err
	}
	ev.Reasoning = fmt.Sprintf("resolved via %s: %s", strategy, ev.Reasoning)

	s.finalizeLocked(ctx, p, ev, domain.EventDecisionResolved)
	return p.decision, nil
}

// GetDecision returns the finalized decision, (nil, nil) while the
// context is still pending, and ErrDecisionNotFound for ids the engine
// has never seen.
func (s *DecisionService) GetDecision(ctx context.Context, decisionID uuid.UUID) (*domain.Decision, error) {
	d, err := s.history.Get(ctx, decisionID)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	s.mu.RLock()
	_, isPending := s.pending[decisionID]
	s.mu.RUnlock()

	if isPending {
		return nil, nil
	}
	return nil, ErrDecisionNotFound
}

// WaitForDecision blocks until the decision finalizes, the wait timeout
// elapses, or ctx is cancelled. It returns immediately when the
// decision is already resolved and adds no locking to the decision.
func (s *DecisionService) WaitForDecision(ctx context.Context, decisionID uuid.UUID, timeout time.Duration) (*domain.Decision, error) {
	if d, err := s.history.Get(ctx, decisionID); err == nil {
		return d, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	p, err := s.lookup(decisionID)
	if err != nil {
		// The decision may have finalized between the history check and
		// the pending lookup.
		if d, herr := s.history.Get(ctx, decisionID); herr == nil {
			return d, nil
		}
		return nil, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-p.done:
		if p.decision == nil {
			return nil, ErrEngineClosed
		}
		return p.decision, nil
	case <-timer.C:
		return nil, ErrWaitTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown cancels every outstanding timer, releases waiters, and
// clears all pending state. Idempotent.
func (s *DecisionService) Shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	pendings := make([]*pendingDecision, 0, len(s.pending))
	for _, p := range s.pending {
		pendings = append(pendings, p)
	}
	s.pending = make(map[uuid.UUID]*pendingDecision)
	s.mu.Unlock()

	for _, p := range pendings {
		p.mu.Lock()
		if !p.finalized {
			p.finalized = true
			if p.timer != nil {
				p.timer.Stop()
			}
			close(p.done)
		}
		p.mu.Unlock()
	}

	s.logger.Info("decision engine shut down", zap.Int("cancelled", len(pendings)))
}

// expire is the timeout supervisor path: it finalizes with outcome
// timeout unless evaluation or a resolver won the race first.
func (s *DecisionService) expire(decisionID uuid.UUID) {
	p, err := s.lookup(decisionID)
	if err != nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.finalized {
		return
	}

	elapsed := time.Since(p.dc.CreatedAt)
	ev := evaluation{
		Outcome:    domain.OutcomeTimeout,
		Confidence: 0,
		Reasoning: fmt.Sprintf("decision timed out after %s with %d of %d required votes",
			elapsed.Round(time.Millisecond), len(p.votes), len(p.dc.RequiredAgents)),
	}
	s.finalizeLocked(context.Background(), p, ev, domain.EventDecisionTimeout)
}

// finalizeLocked commits the one and only Decision for p. Callers must
// hold p.mu; the finalized flag makes the commit first-writer-wins for
// the evaluation, resolver, and timeout triggers.
func (s *DecisionService) finalizeLocked(ctx context.Context, p *pendingDecision, ev evaluation, event domain.EventType) {
	if p.finalized {
		return
	}
	p.finalized = true

	if p.timer != nil {
		p.timer.Stop()
	}

	d := &domain.Decision{
		ContextID:   p.dc.ID,
		Type:        p.dc.Type,
		Outcome:     ev.Outcome,
		Confidence:  ev.Confidence,
		Votes:       p.snapshot(),
		Reasoning:   ev.Reasoning,
		RequestedAt: p.dc.CreatedAt,
		Timestamp:   time.Now(),
	}
	if ev.Outcome == domain.OutcomeApproved {
		d.FinalData = mergeVoteData(ev.Approving)
		d.ExecutionPlan = buildExecutionPlan(p.dc.Type, ev.Approving)
	}

	if err := s.history.Record(ctx, d); err != nil {
		s.logger.Error("failed to record decision",
			zap.String("decision_id", d.ContextID.String()), zap.Error(err))
	}

	p.decision = d
	close(p.done)

	s.mu.Lock()
	delete(s.pending, p.dc.ID)
	s.mu.Unlock()

	s.logger.Info("decision finalized",
		zap.String("decision_id", d.ContextID.String()),
		zap.String("type", d.Type),
		zap.String("outcome", string(d.Outcome)),
		zap.Float64("confidence", d.Confidence),
		zap.Int("votes", len(d.Votes)),
		zap.Duration("latency", d.ResolutionLatency()))

	s.bus.Publish(newEvent(event, d.ContextID, map[string]any{
		"outcome":    string(d.Outcome),
		"confidence": d.Confidence,
		"votes":      len(d.Votes),
	}))
}

func (s *DecisionService) lookup(decisionID uuid.UUID) (*pendingDecision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrEngineClosed
	}
	p, ok := s.pending[decisionID]
	if !ok {
		return nil, ErrDecisionNotFound
	}
	return p, nil
}

func (s *DecisionService) reliabilityReader(ctx context.Context) func(agentID string) float64 {
	return func(agentID string) float64 {
		return s.reliability.Get(ctx, agentID)
	}
}

// PendingCount reports how many contexts are awaiting a decision.
func (s *DecisionService) PendingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pending)
}
