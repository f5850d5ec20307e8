// Package notify contains secondary.Notifier implementations: the in-app
// notification log, a NATS publisher, a structured-log sink and a fan-out.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/example/plantops/internal/ports/secondary"
)

// StoreNotifier records notifications in the in-app notification log.
type StoreNotifier struct {
	repo  secondary.NotificationRepository
	newID func() string
}

// NewStoreNotifier creates a notifier backed by a NotificationRepository.
func NewStoreNotifier(repo secondary.NotificationRepository) *StoreNotifier {
	return &StoreNotifier{repo: repo, newID: uuid.NewString}
}

// Notify persists the notification.
func (s *StoreNotifier) Notify(ctx context.Context, n secondary.Notification) error {
	record := &secondary.NotificationRecord{
		ID:             s.newID(),
		Type:           n.Type,
		RecipientID:    n.RecipientID,
		RecipientEmail: n.RecipientEmail,
		TaskID:         n.TaskID,
		Title:          n.Title,
		Message:        n.Message,
		Priority:       n.Priority,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	return nil
}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that logs at info level.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the notification.
func (l *LogNotifier) Notify(ctx context.Context, n secondary.Notification) error {
	l.logger.InfoContext(ctx, "Notification",
		slog.String("type", n.Type),
		slog.String("recipient", n.RecipientID),
		slog.String("task_id", n.TaskID),
		slog.String("title", n.Title),
		slog.String("priority", n.Priority),
	)
	return nil
}

// Multi delivers to every notifier and joins their errors.
type Multi []secondary.Notifier

// Notify calls each notifier in order. A failing notifier does not stop the rest.
func (m Multi) Notify(ctx context.Context, n secondary.Notification) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ secondary.Notifier = (*StoreNotifier)(nil)
	_ secondary.Notifier = (*LogNotifier)(nil)
	_ secondary.Notifier = Multi(nil)
)
