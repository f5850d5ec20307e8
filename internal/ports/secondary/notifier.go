package secondary

import "context"

// Notification types emitted by the engine.
const (
	NotificationTaskAssigned     = "task_assigned"
	NotificationOptimizerSummary = "optimizer_summary"
	NotificationCorrectiveTask   = "corrective_task"
)

// Notification is a request to tell someone about something.
type Notification struct {
	Type           string
	RecipientID    string
	RecipientEmail string
	TaskID         string // optional
	Title          string
	Message        string
	Priority       string
}

// Notifier defines the secondary port for outbound notification delivery.
// Delivery is best-effort from the engine's point of view.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
