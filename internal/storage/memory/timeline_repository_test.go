package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
	"github.com/vladislavdragonenkov/restaurant/internal/storage/memory"
)

func TestTimelineRepository_ChronologicalOrder(t *testing.T) {
	repo := memory.NewTimelineRepository()
	now := time.Now().UTC()

	events := []domain.TimelineEvent{
		{OrderID: "order-1", Type: domain.TimelineStatusChanged, Status: domain.OrderStatusConfirmed, Occurred: now.Add(time.Second)},
		{OrderID: "order-1", Type: domain.TimelineOrderCreated, Status: domain.OrderStatusPending, Occurred: now},
		{OrderID: "order-2", Type: domain.TimelineOrderCreated, Status: domain.OrderStatusPending, Occurred: now},
	}
	for _, e := range events {
		if err := repo.Append(e); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	got, err := repo.List("order-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Type != domain.TimelineOrderCreated {
		t.Fatalf("expected OrderCreated first, got %s", got[0].Type)
	}

	empty, _ := repo.List("missing")
	if len(empty) != 0 {
		t.Fatalf("expected no events, got %d", len(empty))
	}
}

func TestTimelineRepository_SameInstantKeepsAppendOrder(t *testing.T) {
	repo := memory.NewTimelineRepository()
	at := time.Now().UTC()

	// Отмена пишет OrderCancelled и CompensationFailed в одну и ту же миллисекунду.
	for _, typ := range []string{domain.TimelineOrderCancelled, domain.TimelineCompensationFailed, domain.TimelineNotificationFailed} {
		if err := repo.Append(domain.TimelineEvent{OrderID: "order-1", Type: typ, Occurred: at}); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	got, _ := repo.List("order-1")
	want := []string{domain.TimelineOrderCancelled, domain.TimelineCompensationFailed, domain.TimelineNotificationFailed}
	for i := range want {
		if got[i].Type != want[i] {
			t.Fatalf("event %d: got %s, want %s", i, got[i].Type, want[i])
		}
	}
}

func TestTimelineRepository_StampsAndValidates(t *testing.T) {
	repo := memory.NewTimelineRepository()

	if err := repo.Append(domain.TimelineEvent{OrderID: "order-1", Type: domain.TimelineOrderCreated}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	got, _ := repo.List("order-1")
	if len(got) != 1 || got[0].Occurred.IsZero() {
		t.Fatalf("expected stamped event, got %+v", got)
	}

	got[0].Reason = "mutated"
	again, _ := repo.List("order-1")
	if again[0].Reason != "" {
		t.Fatal("List must return a copy")
	}

	if err := repo.Append(domain.TimelineEvent{Type: domain.TimelineOrderCreated}); !errors.Is(err, domain.ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}
}
