package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

// productRepositoryInMemory хранит каталог меню в памяти.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

// NewProductRepository создаёт пустой in-memory каталог.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{items: make(map[string]domain.Product)}
}

// Get возвращает позицию меню или ErrProductNotFound.
func (r *productRepositoryInMemory) Get(id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	return p, nil
}

// List возвращает все позиции, отсортированные по категории и имени.
func (r *productRepositoryInMemory) List() ([]domain.Product, error) {
	return r.filter(func(domain.Product) bool { return true }), nil
}

// ListAvailable возвращает только позиции, доступные для заказа.
func (r *productRepositoryInMemory) ListAvailable() ([]domain.Product, error) {
	return r.filter(func(p domain.Product) bool { return p.Available }), nil
}

// ListByCategory возвращает доступные позиции категории.
func (r *productRepositoryInMemory) ListByCategory(category domain.Category) ([]domain.Product, error) {
	return r.filter(func(p domain.Product) bool { return p.Available && p.Category == category }), nil
}

// Save создаёт или обновляет позицию.
func (r *productRepositoryInMemory) Save(product domain.Product) error {
	if product.ID == "" {
		return fmt.Errorf("%w: id is required", domain.ErrInvalidProduct)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[product.ID] = product
	return nil
}

// Delete удаляет позицию из каталога.
func (r *productRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	delete(r.items, id)
	return nil
}

func (r *productRepositoryInMemory) filter(match func(domain.Product) bool) []domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(r.items))
	for _, p := range r.items {
		if match(p) {
			result = append(result, p)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Category != result[j].Category {
			return result[i].Category < result[j].Category
		}
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
