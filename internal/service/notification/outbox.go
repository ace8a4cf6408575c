package notification

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

// Outbox реализует NotificationService: уведомление только ставится в очередь,
// доставкой занимается Worker. Вызов никогда не блокируется на внешнем канале.
type Outbox struct {
	repo   domain.NotificationRepository
	logger *log.Entry
	now    func() time.Time
}

// NewOutbox создаёт NotificationService поверх очереди уведомлений.
func NewOutbox(repo domain.NotificationRepository, logger *log.Entry) *Outbox {
	if logger == nil {
		logger = log.WithField("component", "notification-outbox")
	}
	return &Outbox{repo: repo, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Send ставит уведомление в очередь доставки.
func (o *Outbox) Send(ctx context.Context, customerID string, n domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if o.repo == nil {
		return fmt.Errorf("notification outbox is not configured")
	}

	n.CustomerID = customerID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = o.now()
	}

	saved, err := o.repo.Enqueue(n)
	if err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}

	o.logger.WithFields(log.Fields{
		"notification_id": saved.ID,
		"customer_id":     customerID,
		"order_id":        n.OrderID,
		"kind":            n.Kind,
	}).Debug("notification enqueued")
	return nil
}

var _ domain.NotificationService = (*Outbox)(nil)
