package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/plantops/internal/ports/primary"
	"github.com/example/plantops/internal/ports/secondary"
)

func newTestRosterService() (*RosterServiceImpl, *mockEngineerRepository, *mockLeaveRepository, *mockNotificationRepository) {
	engineers := newMockEngineerRepository(&secondary.EngineerRecord{ID: "ENG-001", Name: "Ana", Skills: []string{"HVAC"}})
	leave := newMockLeaveRepository()
	notifications := &mockNotificationRepository{}
	svc := NewRosterService(engineers, &mockHolidayRepository{}, leave, notifications)
	return svc, engineers, leave, notifications
}

func TestAddEngineer(t *testing.T) {
	svc, engineers, _, _ := newTestRosterService()

	eng, err := svc.AddEngineer(context.Background(), primary.AddEngineerRequest{
		Name:   "Ben",
		Skills: []string{"Electrical", "Generator Maintenance"},
	})
	require.NoError(t, err)

	assert.Equal(t, "ENG-002", eng.ID)
	assert.Equal(t, DefaultRole, eng.Role)
	assert.Contains(t, engineers.engineers, "ENG-002")

	_, err = svc.AddEngineer(context.Background(), primary.AddEngineerRequest{Name: "  "})
	assert.Error(t, err)
}

func TestHolidays(t *testing.T) {
	svc, _, _, _ := newTestRosterService()
	ctx := context.Background()

	require.NoError(t, svc.AddHoliday(ctx, "2026-12-25", "Christmas Day"))
	assert.Error(t, svc.AddHoliday(ctx, "2026-12-25", "Duplicate"))
	assert.Error(t, svc.AddHoliday(ctx, "25 Dec", "Christmas Day"))
	assert.Error(t, svc.AddHoliday(ctx, "2026-12-26", ""))

	holidays, err := svc.ListHolidays(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*primary.Holiday{{Date: "2026-12-25", Label: "Christmas Day"}}, holidays)

	require.NoError(t, svc.RemoveHoliday(ctx, "2026-12-25"))
	assert.Error(t, svc.RemoveHoliday(ctx, "2026-12-25"))
}

func TestRequestLeave(t *testing.T) {
	svc, _, leave, _ := newTestRosterService()

	req, err := svc.RequestLeave(context.Background(), primary.LeaveRequestInput{
		EngineerID: "ENG-001",
		StartDate:  "2026-10-26",
		EndDate:    "2026-10-30",
		Reason:     "Annual leave",
	})
	require.NoError(t, err)

	assert.Equal(t, "LEAVE-001", req.ID)
	assert.Equal(t, "pending", req.Status)
	assert.Equal(t, "2026-10-26", req.StartDate)
	assert.Contains(t, leave.leave, "LEAVE-001")
}

func TestRequestLeave_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		input primary.LeaveRequestInput
	}{
		{name: "unknown engineer", input: primary.LeaveRequestInput{EngineerID: "ENG-404", StartDate: "2026-10-26", EndDate: "2026-10-26"}},
		{name: "end before start", input: primary.LeaveRequestInput{EngineerID: "ENG-001", StartDate: "2026-10-26", EndDate: "2026-10-23"}},
		{name: "bad date", input: primary.LeaveRequestInput{EngineerID: "ENG-001", StartDate: "next week", EndDate: "2026-10-23"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, leave, _ := newTestRosterService()
			_, err := svc.RequestLeave(context.Background(), tt.input)
			assert.Error(t, err)
			assert.Empty(t, leave.leave)
		})
	}
}

func TestDecideLeave(t *testing.T) {
	svc, _, leave, _ := newTestRosterService()
	ctx := context.Background()
	leave.leave["LEAVE-001"] = &secondary.LeaveRecord{ID: "LEAVE-001", EngineerID: "ENG-001", Status: "pending"}
	leave.leave["LEAVE-002"] = &secondary.LeaveRecord{ID: "LEAVE-002", EngineerID: "ENG-001", Status: "pending"}

	require.NoError(t, svc.DecideLeave(ctx, "LEAVE-001", true))
	require.NoError(t, svc.DecideLeave(ctx, "LEAVE-002", false))
	assert.Equal(t, "approved", leave.leave["LEAVE-001"].Status)
	assert.Equal(t, "rejected", leave.leave["LEAVE-002"].Status)

	err := svc.DecideLeave(ctx, "LEAVE-001", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already approved")

	approved, err := svc.ListLeave(ctx, "ENG-001", "approved")
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "LEAVE-001", approved[0].ID)
}

func TestListNotifications(t *testing.T) {
	svc, _, _, notifications := newTestRosterService()
	notifications.records = []*secondary.NotificationRecord{
		{ID: "n1", Type: secondary.NotificationTaskAssigned, RecipientID: "ENG-001", TaskID: "TASK-001", Title: "New task assigned"},
		{ID: "n2", Type: secondary.NotificationOptimizerSummary, RecipientID: "ENG-009"},
	}

	entries, err := svc.ListNotifications(context.Background(), "ENG-001", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "TASK-001", entries[0].TaskID)
	assert.Equal(t, "New task assigned", entries[0].Title)
}
