package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
	"github.com/vladislavdragonenkov/restaurant/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/restaurant/internal/service/notification"
)

// initKafkaProducer создаёт producer, если заданы брокеры.
// Возвращает nil, nil при пустом списке брокеров.
func initKafkaProducer(brokers []string, clientID string, logger *log.Entry) (*kafka.Producer, error) {
	if len(brokers) == 0 {
		return nil, nil
	}

	producer, err := kafka.NewProducer(brokers, clientID)
	if err != nil {
		return nil, err
	}

	logger.WithField("brokers", brokers).Info("kafka producer initialized")
	return producer, nil
}

// notificationSink выбирает, куда воркер доставляет уведомления: Kafka-топик
// с DLQ или лог, если Kafka не настроена.
func notificationSink(producer *kafka.Producer, cfg Config, logger *log.Entry) (domain.NotificationSender, domain.DeadLetterPublisher) {
	if producer == nil {
		return notification.NewLogSender(logger.WithField("sink", "log")), nil
	}
	publisher := kafka.NewNotificationPublisher(producer, cfg.KafkaTopic, cfg.KafkaDLQTopic)
	return publisher, publisher
}

// closeKafka закрывает Kafka producer если он не nil.
func closeKafka(producer *kafka.Producer, logger *log.Entry) {
	if producer == nil {
		return
	}

	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka producer")
	} else {
		logger.Info("kafka producer closed")
	}
}
