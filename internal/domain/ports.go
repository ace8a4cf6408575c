package domain

import (
	"context"
	"time"
)

// InventoryService описывает взаимодействие со складом.
type InventoryService interface {
	// Reserve резервирует qty единиц позиции. Ошибка означает, что резерв не сделан.
	Reserve(ctx context.Context, productID string, qty int32) error
	// Release снимает резерв (компенсация). Вызывается по принципу best effort.
	Release(ctx context.Context, productID string, qty int32) error
}

// PaymentGateway описывает взаимодействие с платёжным провайдером.
type PaymentGateway interface {
	// Charge списывает amountMinor с клиента. Отказ провайдера — это PaymentResult,
	// а error означает, что результат получить не удалось.
	Charge(ctx context.Context, amountMinor int64, customerID string) (PaymentResult, error)
	// Refund возвращает средства по ранее проведённой транзакции.
	Refund(ctx context.Context, transactionRef string, amountMinor int64) (PaymentResult, error)
}

// NotificationService отправляет уведомления клиенту. Ошибка не фатальна для заказа.
type NotificationService interface {
	Send(ctx context.Context, customerID string, n Notification) error
}

// NotificationSender доставляет уведомление во внешний канал (лог, брокер).
type NotificationSender interface {
	Deliver(ctx context.Context, n Notification) error
}

// DeadLetterPublisher принимает уведомления, доставка которых не удалась.
type DeadLetterPublisher interface {
	PublishDeadLetter(ctx context.Context, n Notification, cause error) error
}

// NotificationRepository хранит очередь уведомлений до их доставки.
// Неудачные попытки остаются в очереди и снова становятся доступны после retryAt.
type NotificationRepository interface {
	Enqueue(n Notification) (Notification, error)
	PullDue(now time.Time, limit int) ([]Notification, error)
	Stats() (NotificationStats, error)
	MarkSent(id string) error
	RecordAttempt(id, cause string, retryAt time.Time) error
	MarkFailed(id, cause string) error
}

// TimelineRepository хранит события жизненного цикла заказа.
type TimelineRepository interface {
	Append(event TimelineEvent) error
	List(orderID string) ([]TimelineEvent, error)
}

// OrderStep задаёт константы шагов оформления для метрик/логов.
type OrderStep string

const (
	OrderStepValidate OrderStep = "validate"
	OrderStepReserve  OrderStep = "reserve"
	OrderStepCharge   OrderStep = "charge"
	OrderStepPersist  OrderStep = "persist"
	OrderStepNotify   OrderStep = "notify"
	OrderStepRelease  OrderStep = "release"
	OrderStepRefund   OrderStep = "refund"
)
