package payment

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

// ErrCircuitOpen возвращается, пока breaker не пропускает вызовы к провайдеру.
var ErrCircuitOpen = errors.New("payment circuit breaker is open")

// RetryConfig конфигурация повторов возврата.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig возвращает конфигурацию по умолчанию.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
	}
}

// CircuitState — состояние breaker'а.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// CircuitBreaker размыкается после maxFailures ошибок подряд и через resetTimeout
// пропускает ровно один пробный вызов. Пока проба идёт, остальные получают ErrCircuitOpen.
type CircuitBreaker struct {
	mu            sync.Mutex
	maxFailures   int
	resetTimeout  time.Duration
	failures      int
	lastFailure   time.Time
	state         CircuitState
	trialInFlight bool
	now           func() time.Time
	logger        *log.Entry
}

// NewCircuitBreaker создаёт новый circuit breaker.
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration, logger *log.Entry) *CircuitBreaker {
	if logger == nil {
		logger = log.WithField("component", "payment-breaker")
	}
	if maxFailures <= 0 {
		maxFailures = 1
	}
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
		now:          time.Now,
		logger:       logger,
	}
}

// State возвращает текущее состояние.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) allow(operation string) error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return nil
	case CircuitHalfOpen:
		if cb.trialInFlight {
			return ErrCircuitOpen
		}
	default:
		if cb.now().Sub(cb.lastFailure) < cb.resetTimeout {
			return ErrCircuitOpen
		}
		cb.state = CircuitHalfOpen
		cb.logger.WithField("operation", operation).Info("circuit breaker half-open")
	}
	cb.trialInFlight = true
	return nil
}

func (cb *CircuitBreaker) record(operation string, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.trialInFlight = false
	if err == nil {
		if cb.state == CircuitHalfOpen {
			cb.logger.WithField("operation", operation).Info("circuit breaker closed")
		}
		cb.state = CircuitClosed
		cb.failures = 0
		return
	}

	cb.failures++
	cb.lastFailure = cb.now()
	if cb.state == CircuitHalfOpen || cb.failures >= cb.maxFailures {
		if cb.state != CircuitOpen {
			cb.logger.WithFields(log.Fields{
				"operation": operation,
				"failures":  cb.failures,
			}).Warn("circuit breaker opened")
		}
		cb.state = CircuitOpen
	}
}

// Execute выполняет операцию через breaker. Отказ провайдера (decline) не считается
// сбоем: fn возвращает ошибку только при недоступности.
func (cb *CircuitBreaker) Execute(operation string, fn func() error) error {
	if err := cb.allow(operation); err != nil {
		return err
	}
	err := fn()
	cb.record(operation, err)
	return err
}

// ResilientGateway оборачивает PaymentGateway breaker'ом, а Refund ещё и повторами.
// Charge не повторяется: повтор после таймаута может списать деньги дважды.
type ResilientGateway struct {
	next    domain.PaymentGateway
	breaker *CircuitBreaker
	retry   RetryConfig
	sleep   func(ctx context.Context, d time.Duration) error
	logger  *log.Entry
}

// NewResilientGateway создаёт обёртку над платёжным шлюзом.
func NewResilientGateway(next domain.PaymentGateway, breaker *CircuitBreaker, retry RetryConfig, logger *log.Entry) *ResilientGateway {
	if logger == nil {
		logger = log.WithField("component", "payment-gateway")
	}
	if breaker == nil {
		breaker = NewCircuitBreaker(5, 30*time.Second, logger)
	}
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = 1
	}
	return &ResilientGateway{next: next, breaker: breaker, retry: retry, sleep: sleepCtx, logger: logger}
}

// Charge списывает оплату через breaker.
func (g *ResilientGateway) Charge(ctx context.Context, amountMinor int64, customerID string) (domain.PaymentResult, error) {
	var result domain.PaymentResult
	err := g.breaker.Execute("charge", func() error {
		var err error
		result, err = g.next.Charge(ctx, amountMinor, customerID)
		return err
	})
	return result, err
}

// Refund делает возврат с экспоненциальными повторами при ошибках провайдера.
func (g *ResilientGateway) Refund(ctx context.Context, transactionRef string, amountMinor int64) (domain.PaymentResult, error) {
	var (
		result  domain.PaymentResult
		lastErr error
	)
	delay := g.retry.InitialDelay

	for attempt := 1; attempt <= g.retry.MaxAttempts; attempt++ {
		lastErr = g.breaker.Execute("refund", func() error {
			var err error
			result, err = g.next.Refund(ctx, transactionRef, amountMinor)
			return err
		})
		if lastErr == nil {
			if attempt > 1 {
				g.logger.WithFields(log.Fields{
					"transaction_ref": transactionRef,
					"attempt":         attempt,
				}).Info("refund succeeded after retry")
			}
			return result, nil
		}
		if !retryable(ctx, lastErr) || attempt == g.retry.MaxAttempts {
			break
		}

		g.logger.WithError(lastErr).WithFields(log.Fields{
			"transaction_ref": transactionRef,
			"attempt":         attempt,
			"delay":           delay,
		}).Warn("refund failed, retrying")
		if err := g.sleep(ctx, delay); err != nil {
			return domain.PaymentResult{}, err
		}
		delay = time.Duration(float64(delay) * g.retry.BackoffFactor)
		if g.retry.MaxDelay > 0 && delay > g.retry.MaxDelay {
			delay = g.retry.MaxDelay
		}
	}
	return domain.PaymentResult{}, lastErr
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return !errors.Is(err, ErrCircuitOpen) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ domain.PaymentGateway = (*ResilientGateway)(nil)
