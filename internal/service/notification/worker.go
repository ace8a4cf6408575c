package notification

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

var (
	dispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "restaurant_notification_dispatch_total",
		Help: "Notification delivery attempts grouped by outcome.",
	}, []string{"outcome"})
	backlog = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "restaurant_notification_backlog",
		Help: "Undelivered notifications: all pending and those waiting for a retry.",
	}, []string{"state"})
	oldestPendingAge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "restaurant_notification_oldest_pending_age_seconds",
		Help: "Age in seconds of the oldest undelivered notification.",
	})
)

// WorkerConfig задаёт расписание доставки. Нулевые поля заменяются значениями по умолчанию.
type WorkerConfig struct {
	PollInterval  time.Duration
	BatchSize     int
	MaxAttempts   int
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration

	DeadLetter domain.DeadLetterPublisher
	Logger     *log.Entry
}

// DefaultWorkerConfig возвращает настройки по умолчанию.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval:  time.Second,
		BatchSize:     100,
		MaxAttempts:   3,
		RetryDelay:    50 * time.Millisecond,
		MaxRetryDelay: 30 * time.Second,
	}
}

func (c WorkerConfig) withDefaults() WorkerConfig {
	def := DefaultWorkerConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = def.BatchSize
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = 0
	}
	if c.MaxRetryDelay <= 0 {
		c.MaxRetryDelay = def.MaxRetryDelay
	}
	if c.Logger == nil {
		c.Logger = log.WithField("component", "notification-worker")
	}
	return c
}

// Outcome — итог одной попытки доставки.
type Outcome string

const (
	OutcomeSent         Outcome = "sent"
	OutcomeRetry        Outcome = "retry"
	OutcomeDeadLettered Outcome = "dead_lettered"
	// OutcomeInterrupted: попытку прервала остановка воркера, она не засчитывается.
	OutcomeInterrupted Outcome = "interrupted"
)

// DispatchReport считает итоги одного прохода по очереди.
type DispatchReport map[Outcome]int

// Worker периодически забирает из очереди уведомления, срок доставки которых наступил,
// и делает по каждому одну попытку. Между попытками уведомление ждёт в очереди,
// поэтому воркер не блокируется на backoff и при остановке ничего не теряет.
type Worker struct {
	queue  domain.NotificationRepository
	sender domain.NotificationSender
	cfg    WorkerConfig
	now    func() time.Time
}

// NewWorker создаёт воркер доставки уведомлений.
func NewWorker(queue domain.NotificationRepository, sender domain.NotificationSender, cfg WorkerConfig) *Worker {
	return &Worker{
		queue:  queue,
		sender: sender,
		cfg:    cfg.withDefaults(),
		now:    time.Now,
	}
}

// Run разбирает очередь каждые PollInterval до отмены ctx.
func (w *Worker) Run(ctx context.Context) {
	if w.queue == nil || w.sender == nil {
		w.cfg.Logger.Warn("notification worker is disabled: queue or sender is nil")
		return
	}

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		w.Dispatch(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Dispatch делает один проход: по одной попытке на каждое уведомление из батча.
func (w *Worker) Dispatch(ctx context.Context) DispatchReport {
	report := DispatchReport{}
	if ctx.Err() != nil {
		return report
	}

	due, err := w.queue.PullDue(w.now(), w.cfg.BatchSize)
	if err != nil {
		w.cfg.Logger.WithError(err).Warn("failed to pull due notifications")
		return report
	}

	for _, n := range due {
		if ctx.Err() != nil {
			break
		}
		outcome := w.attempt(ctx, n)
		report[outcome]++
		dispatched.WithLabelValues(string(outcome)).Inc()
	}

	w.observeBacklog()
	return report
}

// Stats отдаёт состояние очереди для health-проверок.
func (w *Worker) Stats() (domain.NotificationStats, error) {
	return w.queue.Stats()
}

func (w *Worker) attempt(ctx context.Context, n domain.Notification) Outcome {
	err := w.sender.Deliver(ctx, n)
	logger := w.cfg.Logger.WithFields(log.Fields{
		"notification_id": n.ID,
		"order_id":        n.OrderID,
		"kind":            n.Kind,
		"attempt":         n.Attempts + 1,
	})

	if err == nil {
		if markErr := w.queue.MarkSent(n.ID); markErr != nil {
			logger.WithError(markErr).Warn("failed to mark notification as sent")
		}
		return OutcomeSent
	}

	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		logger.WithError(err).Debug("delivery interrupted, notification stays queued")
		return OutcomeInterrupted
	}

	attempts := n.Attempts + 1
	if attempts < w.cfg.MaxAttempts {
		retryAt := w.now().Add(w.backoff(attempts))
		if markErr := w.queue.RecordAttempt(n.ID, err.Error(), retryAt); markErr != nil {
			logger.WithError(markErr).Warn("failed to record delivery attempt")
		}
		logger.WithError(err).WithField("retry_at", retryAt).Info("notification delivery failed, will retry")
		return OutcomeRetry
	}

	logger.WithError(err).Error("notification delivery failed, giving up")
	n.Attempts, n.LastError = attempts, err.Error()
	if w.cfg.DeadLetter != nil {
		if dlqErr := w.cfg.DeadLetter.PublishDeadLetter(ctx, n, err); dlqErr != nil {
			logger.WithError(dlqErr).Warn("failed to publish notification to dead letter topic")
		}
	}
	if markErr := w.queue.MarkFailed(n.ID, err.Error()); markErr != nil {
		logger.WithError(markErr).Warn("failed to mark notification as failed")
	}
	return OutcomeDeadLettered
}

// backoff удваивает RetryDelay после каждой неудачи, не превышая MaxRetryDelay.
func (w *Worker) backoff(failures int) time.Duration {
	delay := w.cfg.RetryDelay
	for i := 1; i < failures && delay < w.cfg.MaxRetryDelay; i++ {
		delay *= 2
	}
	return min(delay, w.cfg.MaxRetryDelay)
}

func (w *Worker) observeBacklog() {
	stats, err := w.queue.Stats()
	if err != nil {
		w.cfg.Logger.WithError(err).Warn("failed to collect notification backlog stats")
		return
	}

	backlog.WithLabelValues("pending").Set(float64(stats.PendingCount))
	backlog.WithLabelValues("retrying").Set(float64(stats.RetryingCount))
	if stats.PendingCount == 0 || stats.OldestPendingAt.IsZero() {
		oldestPendingAge.Set(0)
		return
	}
	oldestPendingAge.Set(max(w.now().Sub(stats.OldestPendingAt).Seconds(), 0))
}
