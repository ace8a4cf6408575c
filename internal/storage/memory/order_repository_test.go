package memory_test

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
	"github.com/vladislavdragonenkov/restaurant/internal/storage/memory"
)

func newOrder(t *testing.T, customerID string) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(customerID, []domain.OrderItem{
		{ProductID: "p1", ProductName: "Classic Burger", Quantity: 2, UnitPriceMinor: 1050},
	}, "")
	if err != nil {
		t.Fatalf("new order: %v", err)
	}
	return order
}

func TestOrderRepository_CreateGet(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder(t, "customer-1")

	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(order); !errors.Is(err, domain.ErrOrderAlreadyExists) {
		t.Fatalf("expected ErrOrderAlreadyExists, got %v", err)
	}

	stored, err := repo.Get(order.ID())
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.ID() != order.ID() || stored.TotalAmount() != 2100 {
		t.Fatalf("unexpected stored order: %+v", stored.Snapshot())
	}

	if _, err := repo.Get("missing"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_MutationsRequireSave(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder(t, "customer-1")
	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := order.UpdateStatus(domain.OrderStatusConfirmed); err != nil {
		t.Fatalf("update status: %v", err)
	}

	stored, err := repo.Get(order.ID())
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Status() != domain.OrderStatusPending {
		t.Fatalf("expected stored status pending, got %s", stored.Status())
	}

	if err := repo.Save(order); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	stored, err = repo.Get(order.ID())
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Status() != domain.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", stored.Status())
	}
}

func TestOrderRepository_SaveMissing(t *testing.T) {
	repo := memory.NewOrderRepository()
	if err := repo.Save(newOrder(t, "customer-1")); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_Listing(t *testing.T) {
	repo := memory.NewOrderRepository()

	first := newOrder(t, "customer-1")
	second := newOrder(t, "customer-1")
	other := newOrder(t, "customer-2")
	for _, o := range []*domain.Order{first, second, other} {
		if err := repo.Create(o); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	if err := other.UpdateStatus(domain.OrderStatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := repo.Save(other); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	byCustomer, err := repo.ListByCustomer("customer-1", 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(byCustomer) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(byCustomer))
	}
	if byCustomer[0].CreatedAt().Before(byCustomer[1].CreatedAt()) {
		t.Fatal("expected newest orders first")
	}

	limited, err := repo.ListByCustomer("customer-1", 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}

	all, err := repo.ListAll(0)
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(all))
	}

	cancelled, err := repo.ListByStatus(domain.OrderStatusCancelled, 10)
	if err != nil {
		t.Fatalf("list by status failed: %v", err)
	}
	if len(cancelled) != 1 || cancelled[0].ID() != other.ID() {
		t.Fatalf("expected only the cancelled order, got %d", len(cancelled))
	}
}
