package inventory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

// Line фиксирует аргументы одного вызова Reserve/Release.
type Line struct {
	ProductID string
	Qty       int32
}

// MockService — конфигурируемая заглушка InventoryService для тестов.
type MockService struct {
	mu sync.Mutex

	ReserveErr error
	ReleaseErr error
	// ReserveErrByProduct позволяет уронить резерв только для конкретной позиции.
	ReserveErrByProduct map[string]error

	ReserveCalls int
	ReleaseCalls int
	Reserved     []Line
	Released     []Line
}

// NewMockService возвращает mock с успешным сценарием по умолчанию.
func NewMockService() *MockService {
	return &MockService{ReserveErrByProduct: make(map[string]error)}
}

// Reserve возвращает заранее настроенную ошибку и считает вызовы.
func (m *MockService) Reserve(_ context.Context, productID string, qty int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ReserveCalls++
	if err := m.ReserveErrByProduct[productID]; err != nil {
		return err
	}
	if m.ReserveErr != nil {
		return m.ReserveErr
	}
	m.Reserved = append(m.Reserved, Line{ProductID: productID, Qty: qty})
	return nil
}

// Release возвращает заранее настроенную ошибку и считает вызовы.
func (m *MockService) Release(_ context.Context, productID string, qty int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ReleaseCalls++
	m.Released = append(m.Released, Line{ProductID: productID, Qty: qty})
	return m.ReleaseErr
}

// ReleasedLines возвращает копию снятых резервов.
func (m *MockService) ReleasedLines() []Line {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Line(nil), m.Released...)
}

var _ domain.InventoryService = (*MockService)(nil)
