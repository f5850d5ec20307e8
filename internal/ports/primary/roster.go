package primary

import "context"

// RosterService defines the primary port for the reference data the optimizer reads:
// engineers, holidays and leave.
type RosterService interface {
	// AddEngineer registers an engineer.
	AddEngineer(ctx context.Context, req AddEngineerRequest) (*Engineer, error)

	// ListEngineers lists engineers, optionally by role.
	ListEngineers(ctx context.Context, role string) ([]*Engineer, error)

	// AddHoliday adds a non-work day to the calendar.
	AddHoliday(ctx context.Context, date, label string) error

	// RemoveHoliday removes a non-work day from the calendar.
	RemoveHoliday(ctx context.Context, date string) error

	// ListHolidays lists the holiday calendar.
	ListHolidays(ctx context.Context) ([]*Holiday, error)

	// RequestLeave records a pending leave request.
	RequestLeave(ctx context.Context, req LeaveRequestInput) (*LeaveRequest, error)

	// DecideLeave approves or rejects a pending leave request.
	DecideLeave(ctx context.Context, id string, approve bool) error

	// ListLeave lists leave requests.
	ListLeave(ctx context.Context, engineerID, status string) ([]*LeaveRequest, error)

	// ListNotifications lists the in-app notification log.
	ListNotifications(ctx context.Context, recipientID string, limit int) ([]*NotificationEntry, error)
}

// AddEngineerRequest contains parameters for registering an engineer.
type AddEngineerRequest struct {
	Name   string
	Role   string
	Skills []string
	Email  string
}

// Engineer represents an engineer at the port boundary.
type Engineer struct {
	ID     string
	Name   string
	Role   string
	Skills []string
	Email  string
}

// Holiday represents a calendar holiday.
type Holiday struct {
	Date  string
	Label string
}

// LeaveRequestInput contains parameters for requesting leave.
type LeaveRequestInput struct {
	EngineerID string
	StartDate  string
	EndDate    string
	Reason     string
}

// LeaveRequest represents a leave request at the port boundary.
type LeaveRequest struct {
	ID         string
	EngineerID string
	StartDate  string
	EndDate    string
	Status     string
	Reason     string
}

// NotificationEntry represents a logged notification.
type NotificationEntry struct {
	ID          string
	Type        string
	RecipientID string
	TaskID      string
	Title       string
	Message     string
	Priority    string
	CreatedAt   string
}
