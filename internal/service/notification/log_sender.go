package notification

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

// LogSender «доставляет» уведомления в лог. Используется, когда брокер не настроен.
type LogSender struct {
	logger *log.Entry
}

// NewLogSender создаёт sender поверх logrus.
func NewLogSender(logger *log.Entry) *LogSender {
	if logger == nil {
		logger = log.WithField("component", "notification-log")
	}
	return &LogSender{logger: logger}
}

// Deliver пишет уведомление в лог.
func (s *LogSender) Deliver(ctx context.Context, n domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.WithFields(log.Fields{
		"notification_id": n.ID,
		"customer_id":     n.CustomerID,
		"order_id":        n.OrderID,
		"kind":            n.Kind,
		"subject":         n.Subject,
	}).Info(n.Body)
	return nil
}

var _ domain.NotificationSender = (*LogSender)(nil)
