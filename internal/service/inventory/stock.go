package inventory

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

// DefaultStockLevel — начальный остаток для позиции, которую склад видит впервые.
const DefaultStockLevel = 100

// Stock — in-memory складской учёт. Позиции заводятся лениво с остатком defaultLevel.
type Stock struct {
	mu           sync.Mutex
	levels       map[string]int64
	defaultLevel int64
	logger       *log.Entry
}

// NewStock создаёт склад. defaultLevel <= 0 заменяется на DefaultStockLevel.
func NewStock(defaultLevel int64, logger *log.Entry) *Stock {
	if defaultLevel <= 0 {
		defaultLevel = DefaultStockLevel
	}
	if logger == nil {
		logger = log.WithField("component", "inventory")
	}
	return &Stock{
		levels:       make(map[string]int64),
		defaultLevel: defaultLevel,
		logger:       logger,
	}
}

// Reserve списывает qty единиц, если их достаточно. Частичного резерва не бывает.
func (s *Stock) Reserve(ctx context.Context, productID string, qty int32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidOrder)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	level := s.levelLocked(productID)
	if level < int64(qty) {
		return fmt.Errorf("%w: product %s has %d, requested %d", domain.ErrInsufficientStock, productID, level, qty)
	}
	s.levels[productID] = level - int64(qty)

	s.logger.WithFields(log.Fields{
		"product_id": productID,
		"qty":        qty,
		"left":       s.levels[productID],
	}).Debug("stock reserved")
	return nil
}

// Release возвращает qty единиц на склад.
func (s *Stock) Release(_ context.Context, productID string, qty int32) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidOrder)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.levels[productID] = s.levelLocked(productID) + int64(qty)
	s.logger.WithFields(log.Fields{
		"product_id": productID,
		"qty":        qty,
	}).Debug("stock released")
	return nil
}

// Available возвращает текущий остаток позиции.
func (s *Stock) Available(productID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.levelLocked(productID)
}

// Restock увеличивает остаток позиции на qty.
func (s *Stock) Restock(productID string, qty int64) (int64, error) {
	if qty <= 0 {
		return 0, fmt.Errorf("%w: restock quantity must be positive", domain.ErrInvalidProduct)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	level := s.levelLocked(productID) + qty
	s.levels[productID] = level
	s.logger.WithFields(log.Fields{
		"product_id": productID,
		"qty":        qty,
		"level":      level,
	}).Info("stock replenished")
	return level, nil
}

func (s *Stock) levelLocked(productID string) int64 {
	level, ok := s.levels[productID]
	if !ok {
		level = s.defaultLevel
		s.levels[productID] = level
	}
	return level
}

var _ domain.InventoryService = (*Stock)(nil)
