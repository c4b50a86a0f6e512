package service

import (
	"context"
	"testing"
	"time"

	"github.com/Harshitk-cp/arbiter/internal/domain"
	"github.com/Harshitk-cp/arbiter/internal/store"
	"go.uber.org/zap"
)

func setupPatternTest(t *testing.T) *PatternService {
	t.Helper()
	return NewPatternService(store.NewPatternStore(), zap.NewNop())
}

func TestPatternService_RegisterAndGet(t *testing.T) {
	svc := setupPatternTest(t)
	ctx := context.Background()

	p := &domain.DecisionPattern{
		Type:           "order_modification",
		RequiredAgents: []string{"order_manager", "kitchen_supervisor"},
		OptionalAgents: []string{"inventory"},
		Threshold:      0.7,
		Timeout:        5 * time.Second,
	}
	if err := svc.Register(ctx, p); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, err := svc.Get(ctx, "order_modification")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Threshold != 0.7 || len(got.RequiredAgents) != 2 {
		t.Fatalf("unexpected pattern: %+v", got)
	}
}

func TestPatternService_RegisterValidation(t *testing.T) {
	svc := setupPatternTest(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		pattern domain.DecisionPattern
		want    error
	}{
		{"missing type", domain.DecisionPattern{RequiredAgents: []string{"a"}, Threshold: 0.5, Timeout: time.Second}, ErrPatternTypeMissing},
		{"no agents", domain.DecisionPattern{Type: "x", Threshold: 0.5, Timeout: time.Second}, ErrPatternNoAgents},
		{"bad threshold", domain.DecisionPattern{Type: "x", RequiredAgents: []string{"a"}, Threshold: 1.5, Timeout: time.Second}, ErrPatternBadThreshold},
		{"bad timeout", domain.DecisionPattern{Type: "x", RequiredAgents: []string{"a"}, Threshold: 0.5}, ErrPatternBadTimeout},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.pattern
			if err := svc.Register(ctx, &p); err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestPatternService_ApplyDefaults(t *testing.T) {
	svc := setupPatternTest(t)
	ctx := context.Background()

	err := svc.Register(ctx, &domain.DecisionPattern{
		Type:           "order_cancellation",
		RequiredAgents: []string{"order_manager", "billing"},
		Threshold:      0.8,
		Timeout:        2 * time.Second,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	dc := &domain.DecisionContext{Type: "order_cancellation"}
	svc.ApplyDefaults(ctx, dc)

	if len(dc.RequiredAgents) != 2 || dc.Threshold != 0.8 || dc.Timeout != 2*time.Second {
		t.Fatalf("expected pattern defaults applied, got %+v", dc)
	}

	// Caller-provided fields win over the pattern.
	dc = &domain.DecisionContext{
		Type:           "order_cancellation",
		RequiredAgents: []string{"auditor"},
		Threshold:      0.9,
		Timeout:        time.Second,
	}
	svc.ApplyDefaults(ctx, dc)
	if len(dc.RequiredAgents) != 1 || dc.RequiredAgents[0] != "auditor" {
		t.Fatalf("expected caller agents preserved, got %v", dc.RequiredAgents)
	}
	if dc.Threshold != 0.9 || dc.Timeout != time.Second {
		t.Fatalf("expected caller threshold/timeout preserved, got %+v", dc)
	}
}

func TestPatternService_ApplyDefaultsNoPattern(t *testing.T) {
	svc := setupPatternTest(t)

	dc := &domain.DecisionContext{Type: "unheard_of"}
	svc.ApplyDefaults(context.Background(), dc)

	if len(dc.RequiredAgents) != 0 || dc.Threshold != 0 {
		t.Fatalf("expected context untouched, got %+v", dc)
	}
}
