package kafka

import (
	"time"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

// EventType определяет тип события
type EventType string

const (
	EventTypeNotification           EventType = "notification.requested"
	EventTypeNotificationDeadLetter EventType = "notification.dead_letter"
)

// Topics для Kafka
const (
	TopicNotifications    = "restaurant.notifications"
	TopicNotificationsDLQ = "restaurant.notifications.dlq"
)

// Kafka headers для DLQ
const (
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// NotificationEvent — JSON-конверт уведомления в топике.
type NotificationEvent struct {
	EventType      EventType `json:"event_type"`
	NotificationID string    `json:"notification_id"`
	CustomerID     string    `json:"customer_id"`
	OrderID        string    `json:"order_id,omitempty"`
	Kind           string    `json:"kind"`
	Subject        string    `json:"subject"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
	PublishedAt    time.Time `json:"published_at"`
	Attempts       int       `json:"attempts,omitempty"`
	Error          string    `json:"error,omitempty"`
}

// NewNotificationEvent создает конверт для уведомления
func NewNotificationEvent(eventType EventType, n domain.Notification) *NotificationEvent {
	return &NotificationEvent{
		EventType:      eventType,
		NotificationID: n.ID,
		CustomerID:     n.CustomerID,
		OrderID:        n.OrderID,
		Kind:           string(n.Kind),
		Subject:        n.Subject,
		Body:           n.Body,
		CreatedAt:      n.CreatedAt,
		PublishedAt:    time.Now().UTC(),
		Attempts:       n.Attempts,
	}
}
