package payment

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

const (
	// DefaultDeclineRate — доля отклоняемых списаний в симуляторе.
	DefaultDeclineRate = 0.1

	declineReasonFunds   = "Insufficient funds"
	declineReasonAmount  = "Invalid amount"
	declineReasonUnknown = "Unknown transaction"
	declineReasonRefund  = "Transaction already refunded"
	declineReasonExceeds = "Refund exceeds charged amount"
)

// Option настраивает Simulator.
type Option func(*Simulator)

// WithDeclineRate задаёт вероятность отказа в диапазоне [0, 1].
func WithDeclineRate(rate float64) Option {
	return func(s *Simulator) {
		switch {
		case rate < 0:
			rate = 0
		case rate > 1:
			rate = 1
		}
		s.declineRate = rate
	}
}

// WithRand подменяет источник случайности (детерминированные тесты).
func WithRand(rnd *rand.Rand) Option {
	return func(s *Simulator) {
		if rnd != nil {
			s.rnd = rnd
		}
	}
}

// WithLogger задаёт logger симулятора.
func WithLogger(logger *log.Entry) Option {
	return func(s *Simulator) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type charge struct {
	customerID string
	amount     int64
	refunded   bool
}

// Simulator — имитация платёжного провайдера: случайно отклоняет часть списаний
// и выдаёт uuid-идентификаторы транзакций.
type Simulator struct {
	mu          sync.Mutex
	rnd         *rand.Rand
	declineRate float64
	charges     map[string]*charge
	logger      *log.Entry
}

// NewSimulator создаёт симулятор с долей отказов DefaultDeclineRate.
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
		declineRate: DefaultDeclineRate,
		charges:     make(map[string]*charge),
		logger:      log.WithField("component", "payment-simulator"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Charge списывает сумму. Отказ возвращается как PaymentResult без ошибки.
func (s *Simulator) Charge(ctx context.Context, amountMinor int64, customerID string) (domain.PaymentResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.PaymentResult{}, err
	}
	logger := s.logger.WithFields(log.Fields{"customer_id": customerID, "amount_minor": amountMinor})

	if amountMinor < 0 {
		logger.Warn("payment declined: negative amount")
		return domain.PaymentDeclined(declineReasonAmount), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rnd.Float64() < s.declineRate {
		logger.Info("payment declined")
		return domain.PaymentDeclined(declineReasonFunds), nil
	}

	ref := "txn_" + uuid.NewString()
	s.charges[ref] = &charge{customerID: customerID, amount: amountMinor}
	logger.WithField("transaction_ref", ref).Info("payment captured")
	return domain.PaymentSucceeded(ref), nil
}

// Refund возвращает средства по транзакции. Повторный возврат отклоняется.
func (s *Simulator) Refund(ctx context.Context, transactionRef string, amountMinor int64) (domain.PaymentResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.PaymentResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.charges[transactionRef]
	switch {
	case !ok:
		return domain.PaymentDeclined(declineReasonUnknown), nil
	case c.refunded:
		return domain.PaymentDeclined(declineReasonRefund), nil
	case amountMinor > c.amount:
		return domain.PaymentDeclined(declineReasonExceeds), nil
	}

	c.refunded = true
	ref := "rfd_" + uuid.NewString()
	s.logger.WithFields(log.Fields{
		"transaction_ref": transactionRef,
		"refund_ref":      ref,
		"amount_minor":    amountMinor,
	}).Info("payment refunded")
	return domain.PaymentSucceeded(ref), nil
}

var _ domain.PaymentGateway = (*Simulator)(nil)
