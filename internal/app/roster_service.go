package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/plantops/internal/core/calendar"
	"github.com/example/plantops/internal/ports/primary"
	"github.com/example/plantops/internal/ports/secondary"
)

// DefaultRole is used when an engineer is added without a role.
const DefaultRole = "Engineer"

// RosterServiceImpl implements the RosterService interface.
type RosterServiceImpl struct {
	engineerRepo     secondary.EngineerRepository
	holidayRepo      secondary.HolidayRepository
	leaveRepo        secondary.LeaveRepository
	notificationRepo secondary.NotificationRepository
}

// NewRosterService creates a new RosterService with injected dependencies.
func NewRosterService(
	engineerRepo secondary.EngineerRepository,
	holidayRepo secondary.HolidayRepository,
	leaveRepo secondary.LeaveRepository,
	notificationRepo secondary.NotificationRepository,
) *RosterServiceImpl {
	return &RosterServiceImpl{
		engineerRepo:     engineerRepo,
		holidayRepo:      holidayRepo,
		leaveRepo:        leaveRepo,
		notificationRepo: notificationRepo,
	}
}

// AddEngineer registers an engineer.
func (s *RosterServiceImpl) AddEngineer(ctx context.Context, req primary.AddEngineerRequest) (*primary.Engineer, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("engineer name is required")
	}

	role := req.Role
	if role == "" {
		role = DefaultRole
	}

	nextID, err := s.engineerRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate engineer ID: %w", err)
	}

	record := &secondary.EngineerRecord{
		ID:     nextID,
		Name:   req.Name,
		Role:   role,
		Skills: req.Skills,
		Email:  req.Email,
	}
	if err := s.engineerRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create engineer: %w", err)
	}

	return recordToEngineer(record), nil
}

// ListEngineers lists engineers, optionally by role.
func (s *RosterServiceImpl) ListEngineers(ctx context.Context, role string) ([]*primary.Engineer, error) {
	records, err := s.engineerRepo.List(ctx, secondary.EngineerFilters{Role: role})
	if err != nil {
		return nil, fmt.Errorf("failed to list engineers: %w", err)
	}

	engineers := make([]*primary.Engineer, len(records))
	for i, r := range records {
		engineers[i] = recordToEngineer(r)
	}
	return engineers, nil
}

// AddHoliday adds a non-work day to the calendar.
func (s *RosterServiceImpl) AddHoliday(ctx context.Context, date, label string) error {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return err
	}
	if strings.TrimSpace(label) == "" {
		return fmt.Errorf("holiday label is required")
	}
	return s.holidayRepo.Create(ctx, &secondary.HolidayRecord{Date: d, Label: label})
}

// RemoveHoliday removes a non-work day from the calendar.
func (s *RosterServiceImpl) RemoveHoliday(ctx context.Context, date string) error {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return err
	}
	return s.holidayRepo.Delete(ctx, d)
}

// ListHolidays lists the holiday calendar.
func (s *RosterServiceImpl) ListHolidays(ctx context.Context) ([]*primary.Holiday, error) {
	records, err := s.holidayRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	holidays := make([]*primary.Holiday, len(records))
	for i, r := range records {
		holidays[i] = &primary.Holiday{Date: calendar.Format(r.Date), Label: r.Label}
	}
	return holidays, nil
}

// RequestLeave records a pending leave request.
func (s *RosterServiceImpl) RequestLeave(ctx context.Context, req primary.LeaveRequestInput) (*primary.LeaveRequest, error) {
	if _, err := s.engineerRepo.GetByID(ctx, req.EngineerID); err != nil {
		return nil, err
	}

	start, err := calendar.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := calendar.ParseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("leave ends (%s) before it starts (%s)", req.EndDate, req.StartDate)
	}

	nextID, err := s.leaveRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate leave request ID: %w", err)
	}

	record := &secondary.LeaveRecord{
		ID:         nextID,
		EngineerID: req.EngineerID,
		StartDate:  start,
		EndDate:    end,
		Status:     calendar.LeavePending,
		Reason:     req.Reason,
	}
	if err := s.leaveRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create leave request: %w", err)
	}

	return recordToLeave(record), nil
}

// DecideLeave approves or rejects a pending leave request.
func (s *RosterServiceImpl) DecideLeave(ctx context.Context, id string, approve bool) error {
	record, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if record.Status != calendar.LeavePending {
		return fmt.Errorf("leave request %s is already %s", id, record.Status)
	}

	status := calendar.LeaveRejected
	if approve {
		status = calendar.LeaveApproved
	}
	if err := s.leaveRepo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	return nil
}

// ListLeave lists leave requests.
func (s *RosterServiceImpl) ListLeave(ctx context.Context, engineerID, status string) ([]*primary.LeaveRequest, error) {
	records, err := s.leaveRepo.List(ctx, secondary.LeaveFilters{EngineerID: engineerID, Status: status})
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	leave := make([]*primary.LeaveRequest, len(records))
	for i, r := range records {
		leave[i] = recordToLeave(r)
	}
	return leave, nil
}

// ListNotifications lists the in-app notification log, newest first.
func (s *RosterServiceImpl) ListNotifications(ctx context.Context, recipientID string, limit int) ([]*primary.NotificationEntry, error) {
	records, err := s.notificationRepo.List(ctx, secondary.NotificationFilters{RecipientID: recipientID, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	entries := make([]*primary.NotificationEntry, len(records))
	for i, r := range records {
		entries[i] = &primary.NotificationEntry{
			ID:          r.ID,
			Type:        r.Type,
			RecipientID: r.RecipientID,
			TaskID:      r.TaskID,
			Title:       r.Title,
			Message:     r.Message,
			Priority:    r.Priority,
			CreatedAt:   r.CreatedAt,
		}
	}
	return entries, nil
}

// Ensure RosterServiceImpl implements the interface
var _ primary.RosterService = (*RosterServiceImpl)(nil)
