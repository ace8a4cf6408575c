package catalog

import (
	"context"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

// AddProductRequest — данные новой позиции меню.
type AddProductRequest struct {
	Name        string
	Description string
	Category    string
	PriceMinor  int64
}

// Service управляет каталогом меню.
type Service struct {
	repo   domain.ProductRepository
	logger *log.Entry
}

// NewService создаёт сервис каталога.
func NewService(repo domain.ProductRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "catalog")
	}
	return &Service{repo: repo, logger: logger}
}

// AddProduct добавляет позицию в меню.
func (s *Service) AddProduct(_ context.Context, req AddProductRequest) (domain.Product, error) {
	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		return domain.Product{}, err
	}
	product, err := domain.NewProduct(req.Name, req.Description, category, req.PriceMinor)
	if err != nil {
		return domain.Product{}, err
	}
	if err := s.repo.Save(product); err != nil {
		return domain.Product{}, fmt.Errorf("save product: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"product_id":  product.ID,
		"category":    product.Category,
		"price_minor": product.PriceMinor,
	}).Info("product added to menu")
	return product, nil
}

// GetProduct возвращает позицию меню по ID.
func (s *Service) GetProduct(_ context.Context, id string) (domain.Product, error) {
	return s.repo.Get(id)
}

// ListAvailable возвращает меню: позиции, доступные для заказа.
func (s *Service) ListAvailable(_ context.Context) ([]domain.Product, error) {
	return s.repo.ListAvailable()
}

// ListAll возвращает все позиции, включая снятые с продажи.
func (s *Service) ListAll(_ context.Context) ([]domain.Product, error) {
	return s.repo.List()
}

// ListByCategory возвращает доступные позиции категории.
func (s *Service) ListByCategory(_ context.Context, raw string) ([]domain.Product, error) {
	category, err := domain.ParseCategory(raw)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByCategory(category)
}

// Categories возвращает отсортированный список категорий, в которых есть доступные позиции.
func (s *Service) Categories(_ context.Context) ([]domain.Category, error) {
	products, err := s.repo.ListAvailable()
	if err != nil {
		return nil, err
	}

	seen := make(map[domain.Category]struct{})
	result := make([]domain.Category, 0)
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		result = append(result, p.Category)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result, nil
}

// ChangePrice меняет цену позиции. Оформленные заказы хранят свой снимок цены.
func (s *Service) ChangePrice(_ context.Context, id string, priceMinor int64) (domain.Product, error) {
	product, err := s.repo.Get(id)
	if err != nil {
		return domain.Product{}, err
	}
	old := product.PriceMinor
	if err := product.ChangePrice(priceMinor); err != nil {
		return domain.Product{}, err
	}
	if err := s.repo.Save(product); err != nil {
		return domain.Product{}, fmt.Errorf("save product: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"product_id": id,
		"old_price":  old,
		"new_price":  priceMinor,
	}).Info("product price changed")
	return product, nil
}

// SetAvailability включает или снимает позицию с продажи.
func (s *Service) SetAvailability(_ context.Context, id string, available bool) (domain.Product, error) {
	product, err := s.repo.Get(id)
	if err != nil {
		return domain.Product{}, err
	}
	product.Available = available
	if err := s.repo.Save(product); err != nil {
		return domain.Product{}, fmt.Errorf("save product: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"product_id": id,
		"available":  available,
	}).Info("product availability changed")
	return product, nil
}

// DeleteProduct удаляет позицию из каталога.
func (s *Service) DeleteProduct(_ context.Context, id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.logger.WithField("product_id", id).Info("product removed from menu")
	return nil
}
