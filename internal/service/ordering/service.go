package ordering

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
	"github.com/vladislavdragonenkov/restaurant/internal/metrics"
)

const tracerName = "github.com/vladislavdragonenkov/restaurant/internal/service/ordering"

// Deps — порты, через которые сервис работает с внешним миром.
// Metrics, Tracer и Logger необязательны.
type Deps struct {
	Orders    domain.OrderRepository
	Products  domain.ProductRepository
	Customers domain.CustomerRepository
	Timeline  domain.TimelineRepository
	Inventory domain.InventoryService
	Payments  domain.PaymentGateway
	Notifier  domain.NotificationService

	Metrics *metrics.OrderMetrics
	Tracer  trace.Tracer
	Logger  *log.Entry
}

// Service оркестрирует оформление заказа и его жизненный цикл.
type Service struct {
	orders    domain.OrderRepository
	products  domain.ProductRepository
	customers domain.CustomerRepository
	timeline  domain.TimelineRepository
	inventory domain.InventoryService
	payments  domain.PaymentGateway
	notifier  domain.NotificationService

	metrics *metrics.OrderMetrics
	tracer  trace.Tracer
	logger  *log.Entry

	// statusMu сериализует read-modify-write существующих заказов.
	statusMu sync.Mutex
}

// NewService собирает сервис из портов.
func NewService(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = log.WithField("component", "ordering")
	}
	tracer := d.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &Service{
		orders:    d.Orders,
		products:  d.Products,
		customers: d.Customers,
		timeline:  d.Timeline,
		inventory: d.Inventory,
		payments:  d.Payments,
		notifier:  d.Notifier,
		metrics:   d.Metrics,
		tracer:    tracer,
		logger:    logger,
	}
}

// GetOrder возвращает заказ по ID.
func (s *Service) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	_, span := s.tracer.Start(ctx, "ordering.GetOrder", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	order, err := s.orders.Get(orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, orderID)
	}
	return order, nil
}

// ListCustomerOrders возвращает заказы клиента, новые первыми.
func (s *Service) ListCustomerOrders(ctx context.Context, customerID string, limit int) ([]*domain.Order, error) {
	_, span := s.tracer.Start(ctx, "ordering.ListCustomerOrders")
	defer span.End()

	if _, err := s.customers.Get(customerID); err != nil {
		return nil, fmt.Errorf("%w: %s", err, customerID)
	}
	return s.orders.ListByCustomer(customerID, limit)
}

// CountCustomerOrders возвращает количество заказов клиента.
func (s *Service) CountCustomerOrders(ctx context.Context, customerID string) (int, error) {
	orders, err := s.ListCustomerOrders(ctx, customerID, 0)
	if err != nil {
		return 0, err
	}
	return len(orders), nil
}

// ListOrders возвращает последние заказы всех клиентов.
func (s *Service) ListOrders(ctx context.Context, limit int) ([]*domain.Order, error) {
	_, span := s.tracer.Start(ctx, "ordering.ListOrders")
	defer span.End()

	return s.orders.ListAll(limit)
}

// ListOrdersByStatus возвращает заказы в указанном статусе.
func (s *Service) ListOrdersByStatus(ctx context.Context, status domain.OrderStatus, limit int) ([]*domain.Order, error) {
	_, span := s.tracer.Start(ctx, "ordering.ListOrdersByStatus", trace.WithAttributes(attribute.String("order.status", status.String())))
	defer span.End()

	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidOrder, status)
	}
	return s.orders.ListByStatus(status, limit)
}

// Timeline возвращает историю заказа.
func (s *Service) Timeline(ctx context.Context, orderID string) ([]domain.TimelineEvent, error) {
	if _, err := s.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	if s.timeline == nil {
		return nil, nil
	}
	return s.timeline.List(orderID)
}

// step выполняет шаг конвейера в отдельном span и пишет его длительность.
func (s *Service) step(ctx context.Context, step domain.OrderStep, fn func(ctx context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "ordering.step."+string(step))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	if s.metrics != nil {
		s.metrics.RecordStepDuration(string(step), time.Since(start))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (s *Service) appendTimeline(order *domain.Order, eventType, reason string) {
	if s.timeline == nil {
		return
	}
	event := domain.TimelineEvent{
		OrderID:  order.ID(),
		Type:     eventType,
		Status:   order.Status(),
		Reason:   reason,
		Occurred: time.Now().UTC(),
	}
	if err := s.timeline.Append(event); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID()).Warn("failed to append timeline event")
	}
}

// notify передаёт уведомление в порт. Ошибка только логируется и фиксируется в истории заказа.
func (s *Service) notify(ctx context.Context, order *domain.Order, n domain.Notification) {
	if s.notifier == nil {
		return
	}
	err := s.step(ctx, domain.OrderStepNotify, func(ctx context.Context) error {
		return s.notifier.Send(ctx, order.CustomerID(), n)
	})
	if s.metrics != nil {
		s.metrics.RecordNotification(err == nil)
	}
	if err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id":    order.ID(),
			"customer_id": order.CustomerID(),
			"kind":        n.Kind,
		}).Warn("failed to send notification")
		s.appendTimeline(order, domain.TimelineNotificationFailed, err.Error())
	}
}

func (s *Service) recordCompensation(kind domain.OrderStep, err error) {
	if s.metrics != nil {
		s.metrics.RecordCompensation(string(kind), err == nil)
	}
}
