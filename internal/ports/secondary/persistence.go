// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is wrapped by repositories when a record does not exist.
var ErrNotFound = errors.New("not found")

// TaskRepository defines the secondary port for maintenance task persistence.
type TaskRepository interface {
	// Create persists a new task.
	Create(ctx context.Context, task *TaskRecord) error

	// GetByID retrieves a task by its ID.
	GetByID(ctx context.Context, id string) (*TaskRecord, error)

	// List retrieves tasks matching the given filters.
	List(ctx context.Context, filters TaskFilters) ([]*TaskRecord, error)

	// GetNextID returns the next available task ID.
	GetNextID(ctx context.Context) (string, error)

	// ListOpenUnassigned retrieves Open tasks with no assignee due within [from, to].
	ListOpenUnassigned(ctx context.Context, from, to time.Time) ([]*TaskRecord, error)

	// CountOpenByAssignee counts non-completed tasks due on date, grouped by assignee.
	CountOpenByAssignee(ctx context.Context, date time.Time) (map[string]int, error)

	// Assign sets the assignee of a task that is still Open and unassigned.
	// It fails if the task was assigned or changed status in the meantime.
	Assign(ctx context.Context, id, assigneeID, notes string) error

	// SetAssignee overwrites the assignee and notes unconditionally.
	SetAssignee(ctx context.Context, id, assigneeID, notes string) error

	// UpdateStatus updates status and notes; a non-zero completedOn sets the completion date.
	UpdateStatus(ctx context.Context, id, status, notes string, completedOn time.Time) error
}

// TaskRecord represents a maintenance task as stored in persistence.
type TaskRecord struct {
	ID             string
	Location       string
	AssetID        string // optional
	AssetType      string // optional, label of the asset's type
	AssigneeID     string // optional
	DueDate        time.Time
	Type           string
	Status         string
	Priority       string
	Notes          string
	CompletionDate time.Time // zero unless completed
	CreatedAt      string
	UpdatedAt      string
}

// TaskFilters contains filter options for querying tasks.
type TaskFilters struct {
	Status     string
	AssigneeID string
	Type       string
	DueFrom    time.Time
	DueTo      time.Time
	Unassigned bool
	Limit      int
}

// EngineerRepository defines the secondary port for engineer persistence.
type EngineerRepository interface {
	// Create persists a new engineer.
	Create(ctx context.Context, engineer *EngineerRecord) error

	// GetByID retrieves an engineer by its ID.
	GetByID(ctx context.Context, id string) (*EngineerRecord, error)

	// List retrieves engineers matching the given filters.
	List(ctx context.Context, filters EngineerFilters) ([]*EngineerRecord, error)

	// GetNextID returns the next available engineer ID.
	GetNextID(ctx context.Context) (string, error)
}

// EngineerRecord represents an engineer as stored in persistence.
type EngineerRecord struct {
	ID        string
	Name      string
	Role      string
	Skills    []string
	Email     string
	CreatedAt string
}

// EngineerFilters contains filter options for querying engineers.
type EngineerFilters struct {
	Role string
	// ExcludeRole drops engineers with this role (e.g. "Viewer").
	ExcludeRole string
}

// HolidayRepository defines the secondary port for the holiday calendar.
type HolidayRepository interface {
	// Create persists a holiday. Dates are unique.
	Create(ctx context.Context, holiday *HolidayRecord) error

	// Delete removes the holiday on date.
	Delete(ctx context.Context, date time.Time) error

	// List retrieves all holidays ordered by date.
	List(ctx context.Context) ([]*HolidayRecord, error)
}

// HolidayRecord represents a holiday as stored in persistence.
type HolidayRecord struct {
	Date  time.Time
	Label string
}

// LeaveRepository defines the secondary port for leave request persistence.
type LeaveRepository interface {
	// Create persists a new leave request.
	Create(ctx context.Context, leave *LeaveRecord) error

	// GetByID retrieves a leave request by its ID.
	GetByID(ctx context.Context, id string) (*LeaveRecord, error)

	// List retrieves leave requests matching the given filters.
	List(ctx context.Context, filters LeaveFilters) ([]*LeaveRecord, error)

	// UpdateStatus sets the approval status of a leave request.
	UpdateStatus(ctx context.Context, id, status string) error

	// GetNextID returns the next available leave request ID.
	GetNextID(ctx context.Context) (string, error)
}

// LeaveRecord represents a leave request as stored in persistence.
type LeaveRecord struct {
	ID         string
	EngineerID string
	StartDate  time.Time
	EndDate    time.Time
	Status     string // pending, approved, rejected
	Reason     string
	CreatedAt  string
}

// LeaveFilters contains filter options for querying leave requests.
type LeaveFilters struct {
	EngineerID string
	Status     string
}

// PartsRequestRepository defines the secondary port for parts request persistence.
type PartsRequestRepository interface {
	// Create persists a new parts request.
	Create(ctx context.Context, req *PartsRequestRecord) error

	// GetByID retrieves a parts request by its ID.
	GetByID(ctx context.Context, id string) (*PartsRequestRecord, error)

	// List retrieves parts requests matching the given filters.
	List(ctx context.Context, filters PartsRequestFilters) ([]*PartsRequestRecord, error)

	// GetNextID returns the next available parts request ID.
	GetNextID(ctx context.Context) (string, error)

	// UpdateStatus sets the status and stamps the matching date column with on.
	UpdateStatus(ctx context.Context, id, status string, on time.Time) error

	// LinkCorrectiveTask sets corrective_task_id. It fails if a link already exists.
	LinkCorrectiveTask(ctx context.Context, id, taskID string) error
}

// PartsRequestRecord represents a parts request as stored in persistence.
type PartsRequestRecord struct {
	ID               string
	TaskID           string
	Description      string
	Quantity         int
	Urgency          string
	Status           string
	CorrectiveTaskID string // optional, immutable once set
	RequestedDate    time.Time
	OrderedDate      time.Time
	ReceivedDate     time.Time
	InstalledDate    time.Time
	CreatedAt        string
}

// PartsRequestFilters contains filter options for querying parts requests.
type PartsRequestFilters struct {
	TaskID string
	Status string
}

// NotificationRepository defines the secondary port for the in-app notification log.
type NotificationRepository interface {
	// Create persists a notification.
	Create(ctx context.Context, n *NotificationRecord) error

	// List retrieves notifications matching the given filters, newest first.
	List(ctx context.Context, filters NotificationFilters) ([]*NotificationRecord, error)
}

// NotificationRecord represents a stored notification.
type NotificationRecord struct {
	ID             string
	Type           string
	RecipientID    string
	RecipientEmail string
	TaskID         string
	Title          string
	Message        string
	Priority       string
	CreatedAt      string
}

// NotificationFilters contains filter options for querying notifications.
type NotificationFilters struct {
	RecipientID string
	Type        string
	Limit       int
}
