package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Harshitk-cp/arbiter/internal/domain"
	"github.com/Harshitk-cp/arbiter/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func recordDecisions(t *testing.T, svc *HistoryService, outcomes []domain.Outcome) {
	t.Helper()
	now := time.Now()
	for i, outcome := range outcomes {
		d := &domain.Decision{
			ContextID:   uuid.New(),
			Type:        "order_modification",
			Outcome:     outcome,
			RequestedAt: now.Add(-100 * time.Millisecond),
			Timestamp:   now,
		}
		if err := svc.Record(context.Background(), d); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
}

func TestHistoryService_Metrics(t *testing.T) {
	svc := NewHistoryService(store.NewHistoryStore(0), zap.NewNop())

	outcomes := make([]domain.Outcome, 0, 10)
	for i := 0; i < 6; i++ {
		outcomes = append(outcomes, domain.OutcomeApproved)
	}
	for i := 0; i < 2; i++ {
		outcomes = append(outcomes, domain.OutcomeRejected)
	}
	for i := 0; i < 2; i++ {
		outcomes = append(outcomes, domain.OutcomeTimeout)
	}
	recordDecisions(t, svc, outcomes)

	m, err := svc.Metrics(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if m.Total != 10 || m.Approved != 6 || m.Rejected != 2 || m.Timeouts != 2 {
		t.Fatalf("unexpected counts: %+v", m)
	}
	if m.ConsensusRate != 0.8 {
		t.Fatalf("expected consensus rate 0.8, got %f", m.ConsensusRate)
	}
	if m.AvgResolutionMs != 100 {
		t.Fatalf("expected average latency 100ms, got %f", m.AvgResolutionMs)
	}
}

func TestHistoryService_MetricsEmpty(t *testing.T) {
	svc := NewHistoryService(store.NewHistoryStore(0), zap.NewNop())

	m, err := svc.Metrics(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if m.Total != 0 || m.ConsensusRate != 0 || m.AvgResolutionMs != 0 {
		t.Fatalf("expected zeroed metrics, got %+v", m)
	}
}

func TestHistoryService_ListNewestFirstWithFilter(t *testing.T) {
	svc := NewHistoryService(store.NewHistoryStore(0), zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		dtype := "order_modification"
		if i%2 == 1 {
			dtype = "order_cancellation"
		}
		d := &domain.Decision{
			ContextID: uuid.New(),
			Type:      dtype,
			Outcome:   domain.OutcomeApproved,
			Reasoning: fmt.Sprintf("decision %d", i),
			Timestamp: time.Now(),
		}
		if err := svc.Record(ctx, d); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	all, err := svc.List(ctx, 0, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 decisions, got %d", len(all))
	}
	if all[0].Reasoning != "decision 4" {
		t.Fatalf("expected newest first, got %s", all[0].Reasoning)
	}

	filtered, err := svc.List(ctx, 1, "order_cancellation")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(filtered) != 1 || filtered[0].Reasoning != "decision 3" {
		t.Fatalf("unexpected filtered result: %+v", filtered)
	}
}

func TestHistoryStore_EvictsOldestAtCap(t *testing.T) {
	st := store.NewHistoryStore(3)
	ctx := context.Background()

	ids := make([]uuid.UUID, 5)
	for i := range ids {
		ids[i] = uuid.New()
		err := st.Append(ctx, &domain.Decision{ContextID: ids[i], Outcome: domain.OutcomeApproved})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, _ := st.All(ctx)
	if len(all) != 3 {
		t.Fatalf("expected cap of 3, got %d", len(all))
	}
	if all[0].ContextID != ids[2] || all[2].ContextID != ids[4] {
		t.Fatal("expected the two oldest decisions evicted")
	}
	if _, err := st.GetByID(ctx, ids[0]); err != store.ErrNotFound {
		t.Fatalf("expected evicted decision to be gone, got %v", err)
	}
}

func TestHistoryStore_DuplicateAppendConflicts(t *testing.T) {
	st := store.NewHistoryStore(0)
	ctx := context.Background()

	d := &domain.Decision{ContextID: uuid.New(), Outcome: domain.OutcomeApproved}
	if err := st.Append(ctx, d); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := st.Append(ctx, d); err != store.ErrConflict {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}
