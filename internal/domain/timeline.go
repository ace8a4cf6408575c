package domain

import "time"

// Типы событий жизненного цикла заказа.
const (
	TimelineOrderCreated       = "OrderCreated"
	TimelineStatusChanged      = "OrderStatusChanged"
	TimelineOrderCancelled     = "OrderCancelled"
	TimelineNotificationFailed = "NotificationFailed"
	TimelineCompensationFailed = "CompensationFailed"
)

// TimelineEvent описывает событие в жизненном цикле заказа.
type TimelineEvent struct {
	OrderID  string
	Type     string
	Status   OrderStatus
	Reason   string
	Occurred time.Time
}
