package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

func TestNotificationPublisher_Deliver(t *testing.T) {
	t.Parallel()

	producer, mockProducer := newTestProducer(t)
	mockProducer.ExpectSendMessageAndSucceed()

	publisher := NewNotificationPublisher(producer, "", "")
	err := publisher.Deliver(context.Background(), domain.Notification{
		ID:         "n-1",
		CustomerID: "c-1",
		OrderID:    "order-1",
		Kind:       domain.NotificationOrderPlaced,
	})
	if err != nil {
		t.Fatalf("deliver failed: %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNotificationPublisher_DeliverProducerError(t *testing.T) {
	t.Parallel()

	producer, mockProducer := newTestProducer(t)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := NewNotificationPublisher(producer, TopicNotifications, TopicNotificationsDLQ)
	if err := publisher.Deliver(context.Background(), domain.Notification{ID: "n-2"}); err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNotificationPublisher_PublishDeadLetter(t *testing.T) {
	t.Parallel()

	producer, mockProducer := newTestProducer(t)
	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event NotificationEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.EventType != EventTypeNotificationDeadLetter || event.Error != "broker down" || event.Attempts != 3 {
			return errors.New("unexpected dead letter payload")
		}
		return nil
	})

	publisher := NewNotificationPublisher(producer, "", "")
	err := publisher.PublishDeadLetter(context.Background(), domain.Notification{ID: "n-3", CustomerID: "c-1", Attempts: 3}, errors.New("broker down"))
	if err != nil {
		t.Fatalf("dead letter failed: %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNotificationPublisher_NotInitialized(t *testing.T) {
	t.Parallel()

	var publisher *NotificationPublisher
	if err := publisher.Deliver(context.Background(), domain.Notification{}); err == nil {
		t.Fatal("expected error for nil publisher")
	}
	if err := NewNotificationPublisher(nil, "", "").PublishDeadLetter(context.Background(), domain.Notification{}, nil); err == nil {
		t.Fatal("expected error for publisher without producer")
	}
}

func TestPartitionKey(t *testing.T) {
	t.Parallel()

	if got := partitionKey(domain.Notification{ID: "n", CustomerID: "c"}); got != "c" {
		t.Fatalf("expected customer key, got %q", got)
	}
	if got := partitionKey(domain.Notification{ID: "n"}); got != "n" {
		t.Fatalf("expected id fallback, got %q", got)
	}
}
