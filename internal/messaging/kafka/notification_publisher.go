package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

// NotificationPublisher доставляет уведомления в Kafka и отправляет неудачные в DLQ.
type NotificationPublisher struct {
	producer *Producer
	topic    string
	dlqTopic string
}

// NewNotificationPublisher создаёт Kafka sender для уведомлений.
func NewNotificationPublisher(producer *Producer, topic, dlqTopic string) *NotificationPublisher {
	if topic == "" {
		topic = TopicNotifications
	}
	if dlqTopic == "" {
		dlqTopic = TopicNotificationsDLQ
	}
	return &NotificationPublisher{
		producer: producer,
		topic:    topic,
		dlqTopic: dlqTopic,
	}
}

// Deliver публикует уведомление. Ключ — клиент, чтобы сохранить порядок его сообщений.
func (p *NotificationPublisher) Deliver(ctx context.Context, n domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka notification publisher is not initialized")
	}

	return p.producer.PublishEvent(p.topic, partitionKey(n), NewNotificationEvent(EventTypeNotification, n))
}

// PublishDeadLetter отправляет уведомление в DLQ с причиной отказа.
func (p *NotificationPublisher) PublishDeadLetter(_ context.Context, n domain.Notification, cause error) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka notification publisher is not initialized")
	}

	event := NewNotificationEvent(EventTypeNotificationDeadLetter, n)
	headers := map[string]string{
		HeaderOriginalTopic: p.topic,
		HeaderFailedAt:      time.Now().UTC().Format(time.RFC3339Nano),
	}
	if cause != nil {
		event.Error = cause.Error()
		headers[HeaderErrorMessage] = cause.Error()
	}

	if err := p.producer.PublishWithHeaders(p.dlqTopic, partitionKey(n), event, headers); err != nil {
		return fmt.Errorf("publish to dlq: %w", err)
	}
	return nil
}

func partitionKey(n domain.Notification) string {
	if n.CustomerID != "" {
		return n.CustomerID
	}
	return n.ID
}

var (
	_ domain.NotificationSender  = (*NotificationPublisher)(nil)
	_ domain.DeadLetterPublisher = (*NotificationPublisher)(nil)
)
