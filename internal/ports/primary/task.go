// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import "context"

// TaskService defines the primary port for maintenance task operations.
type TaskService interface {
	// CreateTask creates a new Open task.
	CreateTask(ctx context.Context, req CreateTaskRequest) (*CreateTaskResponse, error)

	// GetTask retrieves a task by ID.
	GetTask(ctx context.Context, taskID string) (*Task, error)

	// ListTasks lists tasks with optional filters.
	ListTasks(ctx context.Context, filters TaskFilters) ([]*Task, error)

	// AssignTask assigns a task to an eligible engineer.
	AssignTask(ctx context.Context, taskID, engineerID string) error

	// TransitionStatus moves a task to a new status, applying side effects.
	TransitionStatus(ctx context.Context, req TransitionRequest) (*TransitionResponse, error)

	// CreateCorrectiveTask spawns a corrective follow-up task from an existing task.
	CreateCorrectiveTask(ctx context.Context, req CorrectiveTaskRequest) (*Task, error)
}

// CreateTaskRequest contains parameters for creating a task.
type CreateTaskRequest struct {
	Location  string
	AssetID   string // Optional
	AssetType string // Optional
	DueDate   string // YYYY-MM-DD
	Type      string
	Priority  string
	Notes     string
}

// CreateTaskResponse contains the result of creating a task.
type CreateTaskResponse struct {
	TaskID string
	Task   *Task
}

// TransitionRequest contains parameters for a status change.
type TransitionRequest struct {
	TaskID string
	Status string
	Note   string // Optional, appended to the task notes

	// Follow-up options, used only when entering Requires Follow-up.
	FollowUpReason   string
	FollowUpUrgency  string
	FollowUpDueDays  int
	FollowUpNotes    string
	AssignToOriginal bool
}

// TransitionResponse contains the result of a status change.
type TransitionResponse struct {
	Task           *Task
	CorrectiveTask *Task // set when a corrective task was spawned
}

// CorrectiveTaskRequest contains parameters for spawning a corrective task.
type CorrectiveTaskRequest struct {
	OriginalTaskID   string
	Reason           string
	Urgency          string // Critical, High, Medium, Low
	DueDaysOverride  int    // > 0 overrides the urgency-derived window
	Notes            string
	AssignToOriginal bool
}

// Task represents a maintenance task at the port boundary.
type Task struct {
	ID             string
	Location       string
	AssetID        string
	AssetType      string
	AssigneeID     string
	DueDate        string
	Type           string
	Status         string
	Priority       string
	Notes          string
	CompletionDate string
	CreatedAt      string
	UpdatedAt      string
}

// TaskFilters contains filter options for listing tasks.
type TaskFilters struct {
	Status     string
	AssigneeID string
	Type       string
	Unassigned bool
	Limit      int
}
