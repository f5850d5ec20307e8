package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/plantops/internal/core/calendar"
	"github.com/example/plantops/internal/core/task"
	"github.com/example/plantops/internal/ports/primary"
	"github.com/example/plantops/internal/ports/secondary"
)

// DefaultTaskType is used when a task is created without a type.
const DefaultTaskType = "Planned Maintenance"

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	taskRepo     secondary.TaskRepository
	engineerRepo secondary.EngineerRepository
	dispatcher   *NotificationDispatcher
	logger       *slog.Logger
	now          func() time.Time
}

// NewTaskService creates a new TaskService with injected dependencies.
func NewTaskService(
	taskRepo secondary.TaskRepository,
	engineerRepo secondary.EngineerRepository,
	dispatcher *NotificationDispatcher,
	logger *slog.Logger,
) *TaskServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskServiceImpl{
		taskRepo:     taskRepo,
		engineerRepo: engineerRepo,
		dispatcher:   dispatcher,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *TaskServiceImpl) today() time.Time {
	return calendar.DateOf(s.now())
}

// CreateTask creates a new Open task.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, req primary.CreateTaskRequest) (*primary.CreateTaskResponse, error) {
	if strings.TrimSpace(req.Location) == "" {
		return nil, fmt.Errorf("location is required")
	}

	due, err := calendar.ParseDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = task.PriorityMedium
	}
	switch priority {
	case task.PriorityHigh, task.PriorityMedium, task.PriorityLow:
	default:
		return nil, fmt.Errorf("unknown priority %q (valid: High, Medium, Low)", priority)
	}

	taskType := req.Type
	if taskType == "" {
		taskType = DefaultTaskType
	}

	nextID, err := s.taskRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate task ID: %w", err)
	}

	record := &secondary.TaskRecord{
		ID:        nextID,
		Location:  req.Location,
		AssetID:   req.AssetID,
		AssetType: req.AssetType,
		DueDate:   due,
		Type:      taskType,
		Status:    task.StatusOpen,
		Priority:  priority,
		Notes:     req.Notes,
	}

	if err := s.taskRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	created, err := s.taskRepo.GetByID(ctx, nextID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created task: %w", err)
	}

	return &primary.CreateTaskResponse{
		TaskID: nextID,
		Task:   recordToTask(created),
	}, nil
}

// GetTask retrieves a task by ID.
func (s *TaskServiceImpl) GetTask(ctx context.Context, taskID string) (*primary.Task, error) {
	record, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return recordToTask(record), nil
}

// ListTasks lists tasks with optional filters.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, filters primary.TaskFilters) ([]*primary.Task, error) {
	records, err := s.taskRepo.List(ctx, secondary.TaskFilters{
		Status:     task.NormalizeStatus(filters.Status),
		AssigneeID: filters.AssigneeID,
		Type:       filters.Type,
		Unassigned: filters.Unassigned,
		Limit:      filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]*primary.Task, len(records))
	for i, r := range records {
		tasks[i] = recordToTask(r)
	}
	return tasks, nil
}

// AssignTask assigns a task to an eligible engineer, replacing any current assignee.
func (s *TaskServiceImpl) AssignTask(ctx context.Context, taskID, engineerID string) error {
	record, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	guardCtx := task.AssignContext{
		TaskID:     taskID,
		TaskStatus: record.Status,
		EngineerID: engineerID,
	}
	engineer, err := s.engineerRepo.GetByID(ctx, engineerID)
	switch {
	case err == nil:
		guardCtx.EngineerExists = true
		guardCtx.EngineerRole = engineer.Role
	case !errors.Is(err, secondary.ErrNotFound):
		return fmt.Errorf("failed to get engineer: %w", err)
	}
	if err := task.CanAssignTask(guardCtx).Error(); err != nil {
		return err
	}

	notes := task.AppendNote(record.Notes, "Assigned to "+engineerID)
	if err := s.taskRepo.SetAssignee(ctx, taskID, engineerID, notes); err != nil {
		return fmt.Errorf("failed to assign task: %w", err)
	}

	s.dispatcher.Dispatch(ctx, assignedNotification(record, engineer))
	return nil
}

// TransitionStatus moves a task to a new status. Completing a task stamps
// today's completion date; entering Requires Follow-up spawns a corrective task.
func (s *TaskServiceImpl) TransitionStatus(ctx context.Context, req primary.TransitionRequest) (*primary.TransitionResponse, error) {
	record, err := s.taskRepo.GetByID(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	status := task.NormalizeStatus(req.Status)
	guard := task.CanTransition(task.TransitionContext{
		TaskID:     req.TaskID,
		FromStatus: record.Status,
		ToStatus:   status,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	notes := record.Notes
	if strings.TrimSpace(req.Note) != "" {
		notes = task.AppendNote(notes, req.Note)
	}

	var completedOn time.Time
	if status == task.StatusCompleted {
		completedOn = s.today()
	}

	if err := s.taskRepo.UpdateStatus(ctx, req.TaskID, status, notes, completedOn); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	s.logger.Info("Task status changed",
		slog.String("task_id", req.TaskID),
		slog.String("from", record.Status),
		slog.String("to", status))

	updated, err := s.taskRepo.GetByID(ctx, req.TaskID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve updated task: %w", err)
	}
	resp := &primary.TransitionResponse{Task: recordToTask(updated)}

	if status == task.StatusRequiresFollowUp {
		corrective, err := s.CreateCorrectiveTask(ctx, primary.CorrectiveTaskRequest{
			OriginalTaskID:   req.TaskID,
			Reason:           req.FollowUpReason,
			Urgency:          req.FollowUpUrgency,
			DueDaysOverride:  req.FollowUpDueDays,
			Notes:            req.FollowUpNotes,
			AssignToOriginal: req.AssignToOriginal,
		})
		if err != nil {
			return resp, fmt.Errorf("task %s moved to %s but the corrective task was not created: %w", req.TaskID, status, err)
		}
		resp.CorrectiveTask = corrective
	}

	return resp, nil
}

// CreateCorrectiveTask spawns an Open "Corrective Maintenance" task at the
// original task's location and asset.
func (s *TaskServiceImpl) CreateCorrectiveTask(ctx context.Context, req primary.CorrectiveTaskRequest) (*primary.Task, error) {
	original, err := s.taskRepo.GetByID(ctx, req.OriginalTaskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get original task: %w", err)
	}

	urgency := req.Urgency
	if urgency == "" {
		urgency = task.PriorityMedium
	}

	nextID, err := s.taskRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate task ID: %w", err)
	}

	record := &secondary.TaskRecord{
		ID:        nextID,
		Location:  original.Location,
		AssetID:   original.AssetID,
		AssetType: original.AssetType,
		DueDate:   calendar.AddDays(s.today(), task.CorrectiveDueDays(urgency, req.DueDaysOverride)),
		Type:      task.TypeCorrective,
		Status:    task.StatusOpen,
		Priority:  task.CorrectivePriority(urgency),
		Notes:     task.CorrectiveNotes(req.Reason, original.ID, req.Notes),
	}
	if req.AssignToOriginal {
		record.AssigneeID = original.AssigneeID
	}

	if err := s.taskRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create corrective task: %w", err)
	}

	s.logger.Info("Corrective task created",
		slog.String("task_id", nextID),
		slog.String("original_task_id", original.ID),
		slog.String("urgency", urgency),
		slog.String("due", calendar.Format(record.DueDate)))

	if record.AssigneeID != "" {
		engineer, err := s.engineerRepo.GetByID(ctx, record.AssigneeID)
		if err != nil {
			engineer = &secondary.EngineerRecord{ID: record.AssigneeID}
		}
		n := assignedNotification(record, engineer)
		n.Type = secondary.NotificationCorrectiveTask
		n.Title = "Corrective task assigned"
		s.dispatcher.Dispatch(ctx, n)
	}

	created, err := s.taskRepo.GetByID(ctx, nextID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve corrective task: %w", err)
	}
	return recordToTask(created), nil
}

// assignedNotification builds the message sent to an engineer who receives a task.
func assignedNotification(t *secondary.TaskRecord, engineer *secondary.EngineerRecord) secondary.Notification {
	where := t.Location
	if t.AssetID != "" {
		where = fmt.Sprintf("%s (%s)", t.Location, t.AssetID)
	}
	return secondary.Notification{
		Type:           secondary.NotificationTaskAssigned,
		RecipientID:    engineer.ID,
		RecipientEmail: engineer.Email,
		TaskID:         t.ID,
		Title:          "New task assigned",
		Message:        fmt.Sprintf("%s %s at %s is due %s.", t.ID, t.Type, where, calendar.Format(t.DueDate)),
		Priority:       t.Priority,
	}
}

// Ensure TaskServiceImpl implements the interface
var _ primary.TaskService = (*TaskServiceImpl)(nil)
