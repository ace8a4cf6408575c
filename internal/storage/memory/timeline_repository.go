package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

// orderTimelines хранит историю каждого заказа отсортированной по времени.
type orderTimelines struct {
	mu     sync.RWMutex
	byID   map[string][]domain.TimelineEvent
	nowUTC func() time.Time
}

// NewTimelineRepository создаёт in-memory историю заказов.
func NewTimelineRepository() domain.TimelineRepository {
	return &orderTimelines{
		byID:   make(map[string][]domain.TimelineEvent),
		nowUTC: func() time.Time { return time.Now().UTC() },
	}
}

// Append вставляет событие по времени. События с одинаковым временем
// остаются в порядке добавления; событие без времени получает текущее.
func (r *orderTimelines) Append(event domain.TimelineEvent) error {
	if event.OrderID == "" || event.Type == "" {
		return fmt.Errorf("%w: timeline event needs order id and type", domain.ErrInvalidOrder)
	}
	if event.Occurred.IsZero() {
		event.Occurred = r.nowUTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	events := r.byID[event.OrderID]
	at := sort.Search(len(events), func(i int) bool { return events[i].Occurred.After(event.Occurred) })
	events = append(events, domain.TimelineEvent{})
	copy(events[at+1:], events[at:])
	events[at] = event
	r.byID[event.OrderID] = events
	return nil
}

// List возвращает копию истории заказа; для неизвестного заказа история пустая.
func (r *orderTimelines) List(orderID string) ([]domain.TimelineEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]domain.TimelineEvent(nil), r.byID[orderID]...), nil
}

var _ domain.TimelineRepository = (*orderTimelines)(nil)
