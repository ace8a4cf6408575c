package ordering

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
	"github.com/vladislavdragonenkov/restaurant/internal/service/notification"
)

// Line — строка запроса на оформление: позиция меню и количество.
type Line struct {
	ProductID string
	Quantity  int32
}

// CreateOrderRequest — запрос на оформление заказа.
type CreateOrderRequest struct {
	CustomerID string
	Lines      []Line
	Notes      string
}

// CreateOrder оформляет заказ: проверка клиента и позиций, снимок цен, резерв склада,
// списание оплаты, сохранение и уведомление. Ошибка на любом шаге до сохранения
// откатывает уже сделанные резервы; заказ при этом не сохраняется.
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (order *domain.Order, err error) {
	ctx, span := s.tracer.Start(ctx, "ordering.CreateOrder", trace.WithAttributes(
		attribute.String("customer.id", req.CustomerID),
		attribute.Int("order.lines", len(req.Lines)),
	))
	defer span.End()

	start := time.Now()
	if s.metrics != nil {
		s.metrics.InFlightStarted()
	}
	defer func() {
		if s.metrics != nil {
			s.metrics.InFlightFinished()
			s.metrics.RecordCreateDuration(time.Since(start))
			if err != nil {
				s.metrics.RecordOrderFailed(failureReason(err))
			} else {
				s.metrics.RecordOrderCreated()
			}
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	logger := s.logger.WithField("customer_id", req.CustomerID)

	var items []domain.OrderItem
	err = s.step(ctx, domain.OrderStepValidate, func(context.Context) error {
		var vErr error
		items, vErr = s.snapshotLines(req)
		if vErr != nil {
			return vErr
		}
		order, vErr = domain.NewOrder(req.CustomerID, items, req.Notes)
		return vErr
	})
	if err != nil {
		logger.WithError(err).Info("order rejected")
		return nil, err
	}

	logger = logger.WithField("order_id", order.ID())
	span.SetAttributes(attribute.String("order.id", order.ID()), attribute.Int64("order.total_minor", order.TotalAmount()))

	reserved, err := s.reserveAll(ctx, order, logger)
	if err != nil {
		return nil, err
	}

	var payment domain.PaymentResult
	err = s.step(ctx, domain.OrderStepCharge, func(ctx context.Context) error {
		var chargeErr error
		payment, chargeErr = s.payments.Charge(ctx, order.TotalAmount(), order.CustomerID())
		switch {
		case chargeErr != nil:
			return &domain.PaymentFailedError{Reason: chargeErr.Error()}
		case !payment.Success():
			return &domain.PaymentFailedError{Reason: payment.FailureReason()}
		}
		return nil
	})
	if err != nil {
		logger.WithError(err).Warn("payment failed, releasing reserved stock")
		_ = s.releaseLines(ctx, order.ID(), reserved)
		return nil, err
	}

	err = s.step(ctx, domain.OrderStepPersist, func(context.Context) error {
		if attachErr := order.AttachPayment(payment.TransactionRef()); attachErr != nil {
			return attachErr
		}
		return s.orders.Create(order)
	})
	if err != nil {
		logger.WithError(err).Error("failed to persist order, compensating")
		_ = s.refund(ctx, order.ID(), payment.TransactionRef(), order.TotalAmount())
		_ = s.releaseLines(ctx, order.ID(), reserved)
		return nil, fmt.Errorf("persist order: %w", err)
	}

	s.appendTimeline(order, domain.TimelineOrderCreated, "")
	s.notify(ctx, order, notification.OrderPlaced(order))

	logger.WithFields(log.Fields{
		"total_minor": order.TotalAmount(),
		"items":       order.TotalItems(),
		"payment_ref": order.PaymentRef(),
	}).Info("order placed")
	return order, nil
}

// snapshotLines проверяет позиции и копирует их имя и цену в строки заказа.
func (s *Service) snapshotLines(req CreateOrderRequest) ([]domain.OrderItem, error) {
	if _, err := s.customers.Get(req.CustomerID); err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, req.CustomerID)
		}
		return nil, fmt.Errorf("lookup customer: %w", err)
	}

	items := make([]domain.OrderItem, 0, len(req.Lines))
	for _, line := range req.Lines {
		product, err := s.products.Get(line.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.Available {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductUnavailable, product.ID)
		}
		items = append(items, product.Snapshot(line.Quantity))
	}
	return items, nil
}

// reserveAll резервирует строки по очереди. Если строка k не резервируется,
// строки 0..k-1 освобождаются, и резерв считается несостоявшимся целиком.
func (s *Service) reserveAll(ctx context.Context, order *domain.Order, logger *log.Entry) ([]domain.OrderItem, error) {
	items := order.Items()
	reserved := make([]domain.OrderItem, 0, len(items))

	err := s.step(ctx, domain.OrderStepReserve, func(ctx context.Context) error {
		for _, item := range items {
			if err := s.inventory.Reserve(ctx, item.ProductID, item.Quantity); err != nil {
				return &domain.InventoryReservationError{ProductID: item.ProductID, Err: err}
			}
			reserved = append(reserved, item)
		}
		return nil
	})
	if err != nil {
		logger.WithError(err).WithField("reserved_lines", len(reserved)).Warn("reservation failed, rolling back")
		_ = s.releaseLines(ctx, order.ID(), reserved)
		return nil, err
	}
	return reserved, nil
}

// releaseLines снимает резерв по каждой строке ровно один раз. Ошибки логируются
// и возвращаются вызывающему только для записи в историю заказа.
func (s *Service) releaseLines(ctx context.Context, orderID string, lines []domain.OrderItem) error {
	if len(lines) == 0 {
		return nil
	}
	return s.step(ctx, domain.OrderStepRelease, func(ctx context.Context) error {
		var errs []error
		for i := len(lines) - 1; i >= 0; i-- {
			line := lines[i]
			err := s.inventory.Release(ctx, line.ProductID, line.Quantity)
			s.recordCompensation(domain.OrderStepRelease, err)
			if err != nil {
				s.logger.WithError(err).WithFields(log.Fields{
					"order_id":   orderID,
					"product_id": line.ProductID,
					"qty":        line.Quantity,
				}).Error("failed to release reserved stock")
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// refund возвращает оплату. Ошибка не прерывает вызывающий сценарий.
func (s *Service) refund(ctx context.Context, orderID, transactionRef string, amountMinor int64) error {
	if transactionRef == "" {
		return nil
	}
	return s.step(ctx, domain.OrderStepRefund, func(ctx context.Context) error {
		result, err := s.payments.Refund(ctx, transactionRef, amountMinor)
		if err == nil && !result.Success() {
			err = fmt.Errorf("refund declined: %s", result.FailureReason())
		}
		s.recordCompensation(domain.OrderStepRefund, err)
		if err != nil {
			s.logger.WithError(err).WithFields(log.Fields{
				"order_id":        orderID,
				"transaction_ref": transactionRef,
			}).Error("failed to refund payment")
		}
		return err
	})
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		return "customer_not_found"
	case errors.Is(err, domain.ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, domain.ErrProductUnavailable):
		return "product_unavailable"
	case errors.Is(err, domain.ErrInvalidOrder):
		return "invalid_order"
	case errors.Is(err, domain.ErrInventoryReservation):
		return "inventory"
	case errors.Is(err, domain.ErrPaymentFailed):
		return "payment"
	default:
		return "internal"
	}
}
