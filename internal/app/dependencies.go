package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
	"github.com/vladislavdragonenkov/restaurant/internal/metrics"
	"github.com/vladislavdragonenkov/restaurant/internal/service/catalog"
	"github.com/vladislavdragonenkov/restaurant/internal/service/customer"
	"github.com/vladislavdragonenkov/restaurant/internal/service/inventory"
	"github.com/vladislavdragonenkov/restaurant/internal/service/notification"
	"github.com/vladislavdragonenkov/restaurant/internal/service/ordering"
	"github.com/vladislavdragonenkov/restaurant/internal/service/payment"
	"github.com/vladislavdragonenkov/restaurant/internal/storage/memory"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Orders        domain.OrderRepository
	Products      domain.ProductRepository
	Customers     domain.CustomerRepository
	Timeline      domain.TimelineRepository
	Notifications domain.NotificationRepository

	Stock    *inventory.Stock
	Payments *payment.Simulator
	Gateway  *payment.ResilientGateway
	Metrics  *metrics.OrderMetrics

	Catalog   *catalog.Service
	Directory *customer.Service
	Ordering  *ordering.Service
	Logger    *log.Entry
}

// NewDependencies собирает in-memory адаптеры и сервисы поверх них.
func NewDependencies(cfg Config, logger *log.Entry) *Dependencies {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	d := &Dependencies{
		Orders:        memory.NewOrderRepository(),
		Products:      memory.NewProductRepository(),
		Customers:     memory.NewCustomerRepository(),
		Timeline:      memory.NewTimelineRepository(),
		Notifications: memory.NewNotificationRepository(),
		Stock:         inventory.NewStock(cfg.DefaultStockLevel, logger.WithField("component", "inventory")),
		Payments: payment.NewSimulator(
			payment.WithDeclineRate(cfg.PaymentDeclineRate),
			payment.WithLogger(logger.WithField("component", "payment")),
		),
		Metrics: metrics.NewOrderMetrics(),
		Logger:  logger,
	}

	retry := payment.DefaultRetryConfig()
	retry.MaxAttempts = cfg.PaymentRefundAttempts
	d.Gateway = payment.NewResilientGateway(
		d.Payments,
		payment.NewCircuitBreaker(cfg.PaymentBreakerFailures, cfg.PaymentBreakerReset, logger.WithField("component", "payment-breaker")),
		retry,
		logger.WithField("component", "payment"),
	)

	d.Catalog = catalog.NewService(d.Products, logger.WithField("component", "catalog"))
	d.Directory = customer.NewService(d.Customers, logger.WithField("component", "customer"))
	d.Ordering = ordering.NewService(ordering.Deps{
		Orders:    d.Orders,
		Products:  d.Products,
		Customers: d.Customers,
		Timeline:  d.Timeline,
		Inventory: d.Stock,
		Payments:  d.Gateway,
		Notifier:  notification.NewOutbox(d.Notifications, logger.WithField("component", "notification")),
		Metrics:   d.Metrics,
		Logger:    logger.WithField("component", "ordering"),
	})
	return d
}
