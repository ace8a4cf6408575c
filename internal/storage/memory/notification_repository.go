package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

type deliveryState int

const (
	statePending deliveryState = iota
	stateSent
	stateFailed
)

type queuedNotification struct {
	msg      domain.Notification
	seq      uint64
	state    deliveryState
	attempts int
	lastErr  string
	// Раньше dueAt уведомление не выдаётся в PullDue.
	dueAt     time.Time
	createdAt time.Time
}

func (q *queuedNotification) view() domain.Notification {
	n := q.msg
	n.Attempts = q.attempts
	n.LastError = q.lastErr
	return n
}

// notificationQueue хранит уведомления клиентам в памяти до доставки.
type notificationQueue struct {
	mu      sync.RWMutex
	items   map[string]*queuedNotification
	nextSeq uint64
}

// NewNotificationRepository создаёт in-memory очередь уведомлений.
func NewNotificationRepository() *notificationQueue {
	return &notificationQueue{items: make(map[string]*queuedNotification)}
}

// Enqueue ставит уведомление в очередь. Оно доступно для доставки сразу.
func (q *notificationQueue) Enqueue(msg domain.Notification) (domain.Notification, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now
	}
	msg.Attempts, msg.LastError = 0, ""

	q.nextSeq++
	q.items[msg.ID] = &queuedNotification{
		msg:       msg,
		seq:       q.nextSeq,
		state:     statePending,
		dueAt:     now,
		createdAt: now,
	}
	return msg, nil
}

// PullDue возвращает до limit уведомлений, срок повторной попытки которых наступил,
// в порядке постановки в очередь.
func (q *notificationQueue) PullDue(now time.Time, limit int) ([]domain.Notification, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	result := make([]domain.Notification, 0, limit)
	for _, item := range q.pendingLocked() {
		if item.dueAt.After(now) {
			continue
		}
		result = append(result, item.view())
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

// Stats возвращает размер backlog, число уведомлений на повторе и возраст самого старого.
func (q *notificationQueue) Stats() (domain.NotificationStats, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	var stats domain.NotificationStats
	for _, item := range q.items {
		switch item.state {
		case statePending:
			stats.PendingCount++
			if item.attempts > 0 {
				stats.RetryingCount++
			}
			if stats.OldestPendingAt.IsZero() || item.createdAt.Before(stats.OldestPendingAt) {
				stats.OldestPendingAt = item.createdAt
			}
		case stateFailed:
			stats.FailedCount++
		}
	}
	return stats, nil
}

// MarkSent фиксирует успешную доставку.
func (q *notificationQueue) MarkSent(id string) error {
	return q.update(id, func(item *queuedNotification) {
		item.attempts++
		item.lastErr = ""
		item.state = stateSent
	})
}

// RecordAttempt фиксирует неудачную попытку. Уведомление остаётся в очереди до retryAt.
func (q *notificationQueue) RecordAttempt(id, cause string, retryAt time.Time) error {
	return q.update(id, func(item *queuedNotification) {
		item.attempts++
		item.lastErr = cause
		item.dueAt = retryAt
	})
}

// MarkFailed снимает уведомление с доставки после последней неудачной попытки.
func (q *notificationQueue) MarkFailed(id, cause string) error {
	return q.update(id, func(item *queuedNotification) {
		item.attempts++
		item.lastErr = cause
		item.state = stateFailed
	})
}

// update меняет только уведомления, ожидающие доставки.
func (q *notificationQueue) update(id string, fn func(*queuedNotification)) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	item, ok := q.items[id]
	if !ok || item.state != statePending {
		return domain.ErrNotificationNotFound
	}
	fn(item)
	return nil
}

// AllPending возвращает все недоставленные уведомления, включая ждущие повтора.
func (q *notificationQueue) AllPending() []domain.Notification {
	q.mu.RLock()
	defer q.mu.RUnlock()

	pending := q.pendingLocked()
	result := make([]domain.Notification, 0, len(pending))
	for _, item := range pending {
		result = append(result, item.view())
	}
	return result
}

func (q *notificationQueue) pendingLocked() []*queuedNotification {
	result := make([]*queuedNotification, 0, len(q.items))
	for _, item := range q.items {
		if item.state == statePending {
			result = append(result, item)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].seq < result[j].seq })
	return result
}

var _ domain.NotificationRepository = (*notificationQueue)(nil)
