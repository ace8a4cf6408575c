package health

import (
	"context"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

// FuncChecker оборачивает функцию проверки.
type FuncChecker struct {
	name    string
	checkFn func(ctx context.Context) error
}

// NewFuncChecker создаёт проверку из функции; ошибка означает unhealthy.
func NewFuncChecker(name string, checkFn func(ctx context.Context) error) *FuncChecker {
	return &FuncChecker{name: name, checkFn: checkFn}
}

// Check выполняет проверку
func (c *FuncChecker) Check(ctx context.Context) Check {
	start := time.Now()
	err := c.checkFn(ctx)
	check := Check{Name: c.name, Status: StatusHealthy, DurationMs: time.Since(start).Milliseconds()}
	if err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
	}
	return check
}

// Pinger — компонент с проверкой соединения, например Kafka producer.
type Pinger interface {
	Check(ctx context.Context) error
}

// NewKafkaChecker проверяет доступность брокеров.
func NewKafkaChecker(p Pinger) *FuncChecker {
	return NewFuncChecker("kafka", p.Check)
}

// BacklogSource отдаёт статистику очереди уведомлений.
type BacklogSource interface {
	Stats() (domain.NotificationStats, error)
}

// BacklogChecker переводит сервис в degraded, когда очередь уведомлений растёт
// или самое старое уведомление ждёт дольше maxAge.
type BacklogChecker struct {
	source     BacklogSource
	maxPending int
	maxAge     time.Duration
	now        func() time.Time
}

// NewBacklogChecker создаёт проверку очереди уведомлений. Нулевой порог отключает соответствующую проверку.
func NewBacklogChecker(source BacklogSource, maxPending int, maxAge time.Duration) *BacklogChecker {
	return &BacklogChecker{source: source, maxPending: maxPending, maxAge: maxAge, now: time.Now}
}

// Check сравнивает backlog с порогами.
func (c *BacklogChecker) Check(_ context.Context) Check {
	start := time.Now()
	check := Check{Name: "notifications", Status: StatusHealthy}

	stats, err := c.source.Stats()
	if err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
		check.DurationMs = time.Since(start).Milliseconds()
		return check
	}

	switch {
	case c.maxPending > 0 && stats.PendingCount > c.maxPending:
		check.Status = StatusDegraded
		check.Message = fmt.Sprintf("pending notifications %d exceed %d", stats.PendingCount, c.maxPending)
	case c.maxAge > 0 && !stats.OldestPendingAt.IsZero() && c.now().Sub(stats.OldestPendingAt) > c.maxAge:
		check.Status = StatusDegraded
		check.Message = fmt.Sprintf("oldest notification waits longer than %s", c.maxAge)
	case stats.FailedCount > 0:
		check.Message = fmt.Sprintf("%d notifications failed", stats.FailedCount)
	}
	check.DurationMs = time.Since(start).Milliseconds()
	return check
}
