package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/example/plantops/internal/ports/secondary"
)

// Publisher is the subset of *nats.Conn used for delivery.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSNotifier publishes notifications as JSON on <prefix>.<type>.
type NATSNotifier struct {
	pub    Publisher
	prefix string
}

// Message is the JSON payload published for each notification.
type Message struct {
	Type           string    `json:"type"`
	RecipientID    string    `json:"recipient_id"`
	RecipientEmail string    `json:"recipient_email,omitempty"`
	TaskID         string    `json:"task_id,omitempty"`
	Title          string    `json:"title"`
	Message        string    `json:"message,omitempty"`
	Priority       string    `json:"priority,omitempty"`
	SentAt         time.Time `json:"sent_at"`
}

// Connect dials a NATS server for notification publishing.
func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("plantops"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return nc, nil
}

// NewNATSNotifier creates a notifier publishing through pub.
func NewNATSNotifier(pub Publisher, prefix string) *NATSNotifier {
	return &NATSNotifier{pub: pub, prefix: prefix}
}

// Subject returns the subject a notification type is published on.
func (p *NATSNotifier) Subject(notificationType string) string {
	return p.prefix + "." + notificationType
}

// Notify publishes the notification.
func (p *NATSNotifier) Notify(ctx context.Context, n secondary.Notification) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before publish: %w", err)
	}

	data, err := json.Marshal(Message{
		Type:           n.Type,
		RecipientID:    n.RecipientID,
		RecipientEmail: n.RecipientEmail,
		TaskID:         n.TaskID,
		Title:          n.Title,
		Message:        n.Message,
		Priority:       n.Priority,
		SentAt:         time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	if err := p.pub.Publish(p.Subject(n.Type), data); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

var (
	_ Publisher          = (*nats.Conn)(nil)
	_ secondary.Notifier = (*NATSNotifier)(nil)
)
