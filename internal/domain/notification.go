package domain

import "time"

// NotificationKind определяет тип уведомления клиенту.
type NotificationKind string

const (
	NotificationOrderPlaced    NotificationKind = "order_placed"
	NotificationStatusUpdate   NotificationKind = "status_update"
	NotificationOrderDelivered NotificationKind = "order_delivered"
	NotificationOrderCancelled NotificationKind = "order_cancelled"
)

// Notification — сообщение клиенту о заказе.
type Notification struct {
	ID         string
	CustomerID string
	OrderID    string
	Kind       NotificationKind
	Subject    string
	Body       string
	CreatedAt  time.Time

	// Attempts и LastError заполняет очередь: сколько раз доставка уже не удалась и почему.
	Attempts  int
	LastError string
}

// NotificationStats описывает backlog очереди уведомлений.
type NotificationStats struct {
	PendingCount    int
	RetryingCount   int
	FailedCount     int
	OldestPendingAt time.Time
}
