package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
// Хранит снимки, а не указатели, чтобы изменения агрегата вне Save не попадали в хранилище.
type orderRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.OrderSnapshot
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items: make(map[string]domain.OrderSnapshot),
	}
}

// Create сохраняет новый заказ, если ID ещё не занят.
func (r *orderRepositoryInMemory) Create(order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.ID()]; exists {
		return domain.ErrOrderAlreadyExists
	}
	r.items[order.ID()] = order.Snapshot()
	return nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) Get(id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, ok := r.items[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return domain.RestoreOrder(snap), nil
}

// Save перезаписывает существующий заказ.
func (r *orderRepositoryInMemory) Save(order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[order.ID()]; !ok {
		return domain.ErrOrderNotFound
	}
	r.items[order.ID()] = order.Snapshot()
	return nil
}

// ListByCustomer возвращает заказы клиента, ограничивая выборку limit (если >0).
func (r *orderRepositoryInMemory) ListByCustomer(customerID string, limit int) ([]*domain.Order, error) {
	return r.list(func(s domain.OrderSnapshot) bool { return s.CustomerID == customerID }, limit), nil
}

// ListAll возвращает все заказы.
func (r *orderRepositoryInMemory) ListAll(limit int) ([]*domain.Order, error) {
	return r.list(func(domain.OrderSnapshot) bool { return true }, limit), nil
}

// ListByStatus возвращает заказы в указанном статусе.
func (r *orderRepositoryInMemory) ListByStatus(status domain.OrderStatus, limit int) ([]*domain.Order, error) {
	return r.list(func(s domain.OrderSnapshot) bool { return s.Status == status }, limit), nil
}

func (r *orderRepositoryInMemory) list(match func(domain.OrderSnapshot) bool, limit int) []*domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snaps := make([]domain.OrderSnapshot, 0, len(r.items))
	for _, snap := range r.items {
		if match(snap) {
			snaps = append(snaps, snap)
		}
	}

	sort.Slice(snaps, func(i, j int) bool {
		if !snaps[i].CreatedAt.Equal(snaps[j].CreatedAt) {
			return snaps[i].CreatedAt.After(snaps[j].CreatedAt)
		}
		return snaps[i].ID > snaps[j].ID
	})

	if limit > 0 && len(snaps) > limit {
		snaps = snaps[:limit]
	}

	result := make([]*domain.Order, 0, len(snaps))
	for _, snap := range snaps {
		result = append(result, domain.RestoreOrder(snap))
	}
	return result
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
