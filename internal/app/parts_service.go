package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/plantops/internal/core/calendar"
	"github.com/example/plantops/internal/core/parts"
	"github.com/example/plantops/internal/core/task"
	"github.com/example/plantops/internal/ports/primary"
	"github.com/example/plantops/internal/ports/secondary"
)

// PartsServiceImpl implements the PartsService interface.
//
// Each operation saves the parts request first and then applies its
// follow-up (corrective task, link, task status) as separate writes. When a
// follow-up fails the error wraps primary.ErrPartialFulfillment.
type PartsServiceImpl struct {
	partsRepo secondary.PartsRequestRepository
	taskRepo  secondary.TaskRepository
	tasks     primary.TaskService
	logger    *slog.Logger
	now       func() time.Time
}

// NewPartsService creates a new PartsService with injected dependencies.
func NewPartsService(
	partsRepo secondary.PartsRequestRepository,
	taskRepo secondary.TaskRepository,
	tasks primary.TaskService,
	logger *slog.Logger,
) *PartsServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &PartsServiceImpl{
		partsRepo: partsRepo,
		taskRepo:  taskRepo,
		tasks:     tasks,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *PartsServiceImpl) today() time.Time {
	return calendar.DateOf(s.now())
}

func partial(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{primary.ErrPartialFulfillment}, args...)...)
}

// CreatePartsRequest raises a parts request and moves the task to Parts Required when allowed.
func (s *PartsServiceImpl) CreatePartsRequest(ctx context.Context, req primary.CreatePartsRequest) (*primary.PartsRequest, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	urgency := req.Urgency
	if urgency == "" {
		urgency = parts.UrgencyMedium
	}

	guardCtx := parts.CreateContext{TaskID: req.TaskID, Quantity: quantity, Urgency: urgency}
	owner, err := s.taskRepo.GetByID(ctx, req.TaskID)
	switch {
	case err == nil:
		guardCtx.TaskExists = true
		guardCtx.TaskStatus = owner.Status
	case !errors.Is(err, secondary.ErrNotFound):
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if err := parts.CanCreateRequest(guardCtx).Error(); err != nil {
		return nil, err
	}

	nextID, err := s.partsRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate parts request ID: %w", err)
	}

	record := &secondary.PartsRequestRecord{
		ID:            nextID,
		TaskID:        req.TaskID,
		Description:   req.Description,
		Quantity:      quantity,
		Urgency:       urgency,
		Status:        parts.StatusRequested,
		RequestedDate: s.today(),
	}
	if err := s.partsRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create parts request: %w", err)
	}

	if owner.Status != task.StatusPartsRequired {
		if _, err := s.tasks.TransitionStatus(ctx, primary.TransitionRequest{
			TaskID: req.TaskID,
			Status: task.StatusPartsRequired,
			Note:   fmt.Sprintf("Parts requested: %s (%s)", nextID, req.Description),
		}); err != nil {
			return recordToPartsRequest(record), partial("parts request %s created but task %s not moved to %s: %w",
				nextID, req.TaskID, task.StatusPartsRequired, err)
		}
	}

	return recordToPartsRequest(record), nil
}

// GetPartsRequest retrieves a parts request by ID.
func (s *PartsServiceImpl) GetPartsRequest(ctx context.Context, id string) (*primary.PartsRequest, error) {
	record, err := s.partsRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return recordToPartsRequest(record), nil
}

// ListPartsRequests lists parts requests with optional filters.
func (s *PartsServiceImpl) ListPartsRequests(ctx context.Context, filters primary.PartsRequestFilters) ([]*primary.PartsRequest, error) {
	records, err := s.partsRepo.List(ctx, secondary.PartsRequestFilters{
		TaskID: filters.TaskID,
		Status: filters.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list parts requests: %w", err)
	}

	out := make([]*primary.PartsRequest, len(records))
	for i, r := range records {
		out[i] = recordToPartsRequest(r)
	}
	return out, nil
}

// MarkOrdered records that the parts were ordered. A task waiting in
// Parts Required moves on to Awaiting Parts.
func (s *PartsServiceImpl) MarkOrdered(ctx context.Context, id string) error {
	record, err := s.partsRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := parts.CanMarkOrdered(parts.StatusContext{RequestID: id, Status: record.Status}).Error(); err != nil {
		return err
	}

	if err := s.partsRepo.UpdateStatus(ctx, id, parts.StatusOrdered, s.today()); err != nil {
		return fmt.Errorf("failed to mark parts ordered: %w", err)
	}

	owner, err := s.taskRepo.GetByID(ctx, record.TaskID)
	if err != nil {
		return partial("parts request %s ordered but task %s could not be read: %w", id, record.TaskID, err)
	}
	if owner.Status == task.StatusPartsRequired {
		if _, err := s.tasks.TransitionStatus(ctx, primary.TransitionRequest{
			TaskID: record.TaskID,
			Status: task.StatusAwaitingParts,
			Note:   "Parts ordered: " + id,
		}); err != nil {
			return partial("parts request %s ordered but task %s not moved to %s: %w",
				id, record.TaskID, task.StatusAwaitingParts, err)
		}
	}

	return nil
}

// HandlePartsReceived marks the request Received, spawns the corrective task
// that installs the parts, links it, and puts the originating task back In Progress.
func (s *PartsServiceImpl) HandlePartsReceived(ctx context.Context, id string) (*primary.PartsReceivedResponse, error) {
	record, err := s.partsRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	guard := parts.CanMarkReceived(parts.StatusContext{
		RequestID:        id,
		Status:           record.Status,
		CorrectiveTaskID: record.CorrectiveTaskID,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	today := s.today()
	if err := s.partsRepo.UpdateStatus(ctx, id, parts.StatusReceived, today); err != nil {
		return nil, fmt.Errorf("failed to mark parts received: %w", err)
	}
	record.Status = parts.StatusReceived
	record.ReceivedDate = today
	resp := &primary.PartsReceivedResponse{Request: recordToPartsRequest(record)}

	corrective, err := s.tasks.CreateCorrectiveTask(ctx, primary.CorrectiveTaskRequest{
		OriginalTaskID:  record.TaskID,
		Reason:          fmt.Sprintf("Install received parts: %s (qty %d)", record.Description, record.Quantity),
		Urgency:         record.Urgency,
		DueDaysOverride: parts.ReceivedDueDays(record.Urgency),
		Notes:           "Parts request: " + id,
	})
	if err != nil {
		return resp, partial("parts request %s received but corrective task not created: %w", id, err)
	}
	resp.CorrectiveTask = corrective

	if err := s.partsRepo.LinkCorrectiveTask(ctx, id, corrective.ID); err != nil {
		return resp, partial("corrective task %s created but not linked to parts request %s: %w", corrective.ID, id, err)
	}
	resp.Request.CorrectiveTaskID = corrective.ID

	s.logger.Info("Parts received",
		slog.String("parts_request_id", id),
		slog.String("task_id", record.TaskID),
		slog.String("corrective_task_id", corrective.ID))

	owner, err := s.taskRepo.GetByID(ctx, record.TaskID)
	if err != nil {
		return resp, partial("parts request %s received but task %s could not be read: %w", id, record.TaskID, err)
	}
	switch owner.Status {
	case task.StatusInProgress:
	case task.StatusCompleted:
		s.logger.Warn("Parts received for a completed task",
			slog.String("parts_request_id", id),
			slog.String("task_id", record.TaskID))
	default:
		if _, err := s.tasks.TransitionStatus(ctx, primary.TransitionRequest{
			TaskID: record.TaskID,
			Status: task.StatusInProgress,
			Note:   fmt.Sprintf("Parts received (%s); installation tracked in %s", id, corrective.ID),
		}); err != nil {
			return resp, partial("parts request %s received but task %s not moved to %s: %w",
				id, record.TaskID, task.StatusInProgress, err)
		}
	}

	return resp, nil
}

// HandlePartsInstalled marks the request Installed and completes its corrective task.
func (s *PartsServiceImpl) HandlePartsInstalled(ctx context.Context, id string) error {
	record, err := s.partsRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := parts.CanMarkInstalled(parts.StatusContext{RequestID: id, Status: record.Status}).Error(); err != nil {
		return err
	}

	if err := s.partsRepo.UpdateStatus(ctx, id, parts.StatusInstalled, s.today()); err != nil {
		return fmt.Errorf("failed to mark parts installed: %w", err)
	}

	if record.CorrectiveTaskID == "" {
		return nil
	}

	corrective, err := s.taskRepo.GetByID(ctx, record.CorrectiveTaskID)
	if err != nil {
		return partial("parts request %s installed but corrective task %s could not be read: %w", id, record.CorrectiveTaskID, err)
	}
	if corrective.Status == task.StatusCompleted {
		return nil
	}

	if _, err := s.tasks.TransitionStatus(ctx, primary.TransitionRequest{
		TaskID: record.CorrectiveTaskID,
		Status: task.StatusCompleted,
		Note:   "Parts installed: " + id,
	}); err != nil {
		return partial("parts request %s installed but corrective task %s not completed: %w", id, record.CorrectiveTaskID, err)
	}

	return nil
}

// CancelPartsRequest cancels an outstanding parts request.
func (s *PartsServiceImpl) CancelPartsRequest(ctx context.Context, id string) error {
	record, err := s.partsRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := parts.CanCancel(parts.StatusContext{RequestID: id, Status: record.Status}).Error(); err != nil {
		return err
	}

	if err := s.partsRepo.UpdateStatus(ctx, id, parts.StatusCancelled, time.Time{}); err != nil {
		return fmt.Errorf("failed to cancel parts request: %w", err)
	}
	return nil
}

// Ensure PartsServiceImpl implements the interface
var _ primary.PartsService = (*PartsServiceImpl)(nil)
