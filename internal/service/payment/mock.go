package payment

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

// MockService — конфигурируемая заглушка PaymentGateway для тестов.
type MockService struct {
	mu sync.Mutex

	ChargeResult domain.PaymentResult
	ChargeErr    error
	RefundResult domain.PaymentResult
	RefundErr    error

	ChargeCalls   int
	RefundCalls   int
	ChargedAmount int64
	RefundedRefs  []string
}

// NewMockService возвращает mock с успешным сценарием по умолчанию.
func NewMockService() *MockService {
	return &MockService{
		ChargeResult: domain.PaymentSucceeded("txn-mock"),
		RefundResult: domain.PaymentSucceeded("refund-mock"),
	}
}

// Charge возвращает заранее настроенный результат и считает вызовы.
func (m *MockService) Charge(_ context.Context, amountMinor int64, _ string) (domain.PaymentResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ChargeCalls++
	m.ChargedAmount += amountMinor
	return m.ChargeResult, m.ChargeErr
}

// Refund возвращает настроенный результат и считает вызовы.
func (m *MockService) Refund(_ context.Context, transactionRef string, _ int64) (domain.PaymentResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RefundCalls++
	m.RefundedRefs = append(m.RefundedRefs, transactionRef)
	return m.RefundResult, m.RefundErr
}

var _ domain.PaymentGateway = (*MockService)(nil)
