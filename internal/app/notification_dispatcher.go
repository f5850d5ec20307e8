package app

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/example/plantops/internal/metrics"
	"github.com/example/plantops/internal/ports/secondary"
)

// NotificationDispatcher delivers notifications on background goroutines.
// Failures are logged and counted; they never reach the caller.
type NotificationDispatcher struct {
	notifier secondary.Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics

	wg       sync.WaitGroup
	sent     atomic.Int64
	failures atomic.Int64
}

// NewNotificationDispatcher creates a dispatcher in front of notifier.
func NewNotificationDispatcher(notifier secondary.Notifier, logger *slog.Logger, m *metrics.Metrics) *NotificationDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationDispatcher{notifier: notifier, logger: logger, metrics: m}
}

// Dispatch queues n for delivery and returns immediately. Delivery outlives
// cancellation of ctx so a finished run does not drop its notifications.
func (d *NotificationDispatcher) Dispatch(ctx context.Context, n secondary.Notification) {
	if d == nil || d.notifier == nil {
		return
	}

	deliveryCtx := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.notifier.Notify(deliveryCtx, n); err != nil {
			d.failures.Add(1)
			d.metrics.NotificationFailed(n.Type)
			d.logger.Warn("Notification delivery failed",
				slog.String("type", n.Type),
				slog.String("recipient", n.RecipientID),
				slog.String("task_id", n.TaskID),
				slog.String("error", err.Error()))
			return
		}
		d.sent.Add(1)
		d.metrics.NotificationSent(n.Type)
	}()
}

// Drain waits for in-flight deliveries. It returns false if timeout elapsed first;
// a non-positive timeout waits indefinitely.
func (d *NotificationDispatcher) Drain(timeout time.Duration) bool {
	if d == nil {
		return true
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	if timeout <= 0 {
		<-done
		return true
	}

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Sent returns the number of delivered notifications.
func (d *NotificationDispatcher) Sent() int64 {
	return d.sent.Load()
}

// Failures returns the number of notifications that could not be delivered.
func (d *NotificationDispatcher) Failures() int64 {
	return d.failures.Load()
}
