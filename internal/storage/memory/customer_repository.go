package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

// customerRepositoryInMemory хранит клиентов и индекс по email.
type customerRepositoryInMemory struct {
	mu      sync.RWMutex
	items   map[string]domain.Customer
	byEmail map[string]string
}

// NewCustomerRepository создаёт пустой in-memory справочник клиентов.
func NewCustomerRepository() domain.CustomerRepository {
	return &customerRepositoryInMemory{
		items:   make(map[string]domain.Customer),
		byEmail: make(map[string]string),
	}
}

func (r *customerRepositoryInMemory) Get(id string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return c, nil
}

// GetByEmail ищет клиента без учёта регистра.
func (r *customerRepositoryInMemory) GetByEmail(email string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return r.items[id], nil
}

func (r *customerRepositoryInMemory) List() ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Customer, 0, len(r.items))
	for _, c := range r.items {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Save создаёт или обновляет клиента. Email не может принадлежать двум клиентам.
func (r *customerRepositoryInMemory) Save(customer domain.Customer) error {
	if customer.ID == "" {
		return fmt.Errorf("%w: id is required", domain.ErrInvalidCustomer)
	}
	email := domain.NormalizeEmail(customer.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.byEmail[email]; ok && owner != customer.ID {
		return fmt.Errorf("%w: %s", domain.ErrEmailTaken, email)
	}
	if prev, ok := r.items[customer.ID]; ok && prev.Email != email {
		delete(r.byEmail, prev.Email)
	}

	customer.Email = email
	r.items[customer.ID] = customer
	r.byEmail[email] = customer.ID
	return nil
}

var _ domain.CustomerRepository = (*customerRepositoryInMemory)(nil)
