package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/plantops/internal/ports/secondary"
)

// NotificationRepository implements secondary.NotificationRepository with SQLite.
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new SQLite notification repository.
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create persists a notification.
func (r *NotificationRepository) Create(ctx context.Context, n *secondary.NotificationRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (id, type, recipient_id, recipient_email, task_id, title, message, priority)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Type, nullString(n.RecipientID), nullString(n.RecipientEmail), nullString(n.TaskID),
		n.Title, nullString(n.Message), nullString(n.Priority),
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// List retrieves notifications matching the given filters, newest first.
func (r *NotificationRepository) List(ctx context.Context, filters secondary.NotificationFilters) ([]*secondary.NotificationRecord, error) {
	query := "SELECT id, type, recipient_id, recipient_email, task_id, title, message, priority, created_at FROM notifications WHERE 1=1"
	args := []any{}

	if filters.RecipientID != "" {
		query += " AND recipient_id = ?"
		args = append(args, filters.RecipientID)
	}

	if filters.Type != "" {
		query += " AND type = ?"
		args = append(args, filters.Type)
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*secondary.NotificationRecord
	for rows.Next() {
		var (
			recipientID    sql.NullString
			recipientEmail sql.NullString
			taskID         sql.NullString
			message        sql.NullString
			priority       sql.NullString
			createdAt      time.Time
		)
		n := &secondary.NotificationRecord{}
		if err := rows.Scan(&n.ID, &n.Type, &recipientID, &recipientEmail, &taskID, &n.Title, &message, &priority, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.RecipientID = recipientID.String
		n.RecipientEmail = recipientEmail.String
		n.TaskID = taskID.String
		n.Message = message.String
		n.Priority = priority.String
		n.CreatedAt = formatTimestamp(createdAt)
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// Ensure NotificationRepository implements the interface
var _ secondary.NotificationRepository = (*NotificationRepository)(nil)
