package service

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Harshitk-cp/arbiter/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestEventBus_PublishSyncDelivers(t *testing.T) {
	bus := NewEventBus(zap.NewNop())

	var got []domain.Event
	bus.On(domain.EventDecisionMade, func(e domain.Event) {
		got = append(got, e)
	})

	bus.PublishSync(newEvent(domain.EventDecisionMade, uuid.New(), map[string]any{"outcome": "approved"}))

	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].Payload["outcome"] != "approved" {
		t.Fatalf("unexpected payload: %v", got[0].Payload)
	}
}

func TestEventBus_OffStopsDelivery(t *testing.T) {
	bus := NewEventBus(zap.NewNop())

	var count int
	id := bus.On(domain.EventVoteSubmitted, func(domain.Event) { count++ })
	bus.PublishSync(newEvent(domain.EventVoteSubmitted, uuid.New(), nil))
	bus.Off(domain.EventVoteSubmitted, id)
	bus.PublishSync(newEvent(domain.EventVoteSubmitted, uuid.New(), nil))

	if count != 1 {
		t.Fatalf("expected 1 delivery after Off, got %d", count)
	}
}

func TestEventBus_PanickingHandlerIsIsolated(t *testing.T) {
	bus := NewEventBus(zap.NewNop())

	var delivered int
	bus.On(domain.EventDecisionMade, func(domain.Event) { panic("listener bug") })
	bus.On(domain.EventDecisionMade, func(domain.Event) { delivered++ })

	bus.PublishSync(newEvent(domain.EventDecisionMade, uuid.New(), nil))

	if delivered != 1 {
		t.Fatalf("expected healthy handler to run despite panic, got %d deliveries", delivered)
	}
}

func TestEventBus_PublishIsAsync(t *testing.T) {
	bus := NewEventBus(zap.NewNop())

	var wg sync.WaitGroup
	wg.Add(2)
	var count atomic.Int32
	for i := 0; i < 2; i++ {
		bus.On(domain.EventDecisionTimeout, func(domain.Event) {
			count.Add(1)
			wg.Done()
		})
	}

	bus.Publish(newEvent(domain.EventDecisionTimeout, uuid.New(), nil))

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handlers did not run within 1s")
	}
	if count.Load() != 2 {
		t.Fatalf("expected 2 deliveries, got %d", count.Load())
	}
}

func TestEventBus_SubscribersAreScopedByEvent(t *testing.T) {
	bus := NewEventBus(zap.NewNop())

	var count int
	bus.On(domain.EventDecisionRequested, func(domain.Event) { count++ })
	bus.PublishSync(newEvent(domain.EventDecisionMade, uuid.New(), nil))

	if count != 0 {
		t.Fatalf("expected no delivery for a different event, got %d", count)
	}
}
