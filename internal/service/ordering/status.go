package ordering

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
	"github.com/vladislavdragonenkov/restaurant/internal/service/notification"
)

// ConfirmOrder переводит заказ из pending в confirmed.
func (s *Service) ConfirmOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.UpdateOrderStatus(ctx, orderID, domain.OrderStatusConfirmed)
}

// CancelOrder отменяет заказ, снимает резерв и возвращает оплату.
func (s *Service) CancelOrder(ctx context.Context, orderID, reason string) (*domain.Order, error) {
	return s.changeStatus(ctx, orderID, domain.OrderStatusCancelled, reason)
}

// UpdateOrderStatus переводит заказ в новый статус по таблице переходов и уведомляет клиента.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID string, next domain.OrderStatus) (*domain.Order, error) {
	return s.changeStatus(ctx, orderID, next, "")
}

func (s *Service) changeStatus(ctx context.Context, orderID string, next domain.OrderStatus, reason string) (order *domain.Order, err error) {
	ctx, span := s.tracer.Start(ctx, "ordering.UpdateOrderStatus", trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.String("order.next_status", next.String()),
	))
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	order, prev, err := s.transition(orderID, next)
	if err != nil {
		return nil, err
	}

	logger := s.logger.WithFields(log.Fields{
		"order_id": order.ID(),
		"from":     prev,
		"to":       next,
	})
	logger.Info("order status changed")

	if s.metrics != nil {
		s.metrics.RecordStatusTransition(prev.String(), next.String())
	}

	switch next {
	case domain.OrderStatusCancelled:
		s.appendTimeline(order, domain.TimelineOrderCancelled, reason)
		s.compensateCancelled(ctx, order)
		s.notify(ctx, order, notification.Cancelled(order, reason))
	case domain.OrderStatusDelivered:
		s.appendTimeline(order, domain.TimelineStatusChanged, "")
		s.notify(ctx, order, notification.StatusUpdate(order))
		s.notify(ctx, order, notification.Delivered(order))
	default:
		s.appendTimeline(order, domain.TimelineStatusChanged, "")
		s.notify(ctx, order, notification.StatusUpdate(order))
	}

	return order, nil
}

// transition загружает заказ, применяет переход и сохраняет результат под общим локом.
func (s *Service) transition(orderID string, next domain.OrderStatus) (*domain.Order, domain.OrderStatus, error) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()

	order, err := s.orders.Get(orderID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", err, orderID)
	}

	prev := order.Status()
	if err := order.UpdateStatus(next); err != nil {
		return nil, "", err
	}
	if err := s.orders.Save(order); err != nil {
		return nil, "", fmt.Errorf("save order: %w", err)
	}
	return order, prev, nil
}

// compensateCancelled возвращает на склад все позиции и делает возврат оплаты.
func (s *Service) compensateCancelled(ctx context.Context, order *domain.Order) {
	if err := s.releaseLines(ctx, order.ID(), order.Items()); err != nil {
		s.appendTimeline(order, domain.TimelineCompensationFailed, "release: "+err.Error())
	}
	if err := s.refund(ctx, order.ID(), order.PaymentRef(), order.TotalAmount()); err != nil {
		s.appendTimeline(order, domain.TimelineCompensationFailed, "refund: "+err.Error())
	}
}
