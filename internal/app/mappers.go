package app

import (
	"time"

	"github.com/example/plantops/internal/core/calendar"
	"github.com/example/plantops/internal/ports/primary"
	"github.com/example/plantops/internal/ports/secondary"
)

// optionalDate renders a calendar day, empty when zero.
func optionalDate(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return calendar.Format(d)
}

func recordToTask(r *secondary.TaskRecord) *primary.Task {
	return &primary.Task{
		ID:             r.ID,
		Location:       r.Location,
		AssetID:        r.AssetID,
		AssetType:      r.AssetType,
		AssigneeID:     r.AssigneeID,
		DueDate:        optionalDate(r.DueDate),
		Type:           r.Type,
		Status:         r.Status,
		Priority:       r.Priority,
		Notes:          r.Notes,
		CompletionDate: optionalDate(r.CompletionDate),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func recordToPartsRequest(r *secondary.PartsRequestRecord) *primary.PartsRequest {
	return &primary.PartsRequest{
		ID:               r.ID,
		TaskID:           r.TaskID,
		Description:      r.Description,
		Quantity:         r.Quantity,
		Urgency:          r.Urgency,
		Status:           r.Status,
		CorrectiveTaskID: r.CorrectiveTaskID,
		RequestedDate:    optionalDate(r.RequestedDate),
		OrderedDate:      optionalDate(r.OrderedDate),
		ReceivedDate:     optionalDate(r.ReceivedDate),
		InstalledDate:    optionalDate(r.InstalledDate),
	}
}

func recordToEngineer(r *secondary.EngineerRecord) *primary.Engineer {
	return &primary.Engineer{
		ID:     r.ID,
		Name:   r.Name,
		Role:   r.Role,
		Skills: r.Skills,
		Email:  r.Email,
	}
}

func recordToLeave(r *secondary.LeaveRecord) *primary.LeaveRequest {
	return &primary.LeaveRequest{
		ID:         r.ID,
		EngineerID: r.EngineerID,
		StartDate:  optionalDate(r.StartDate),
		EndDate:    optionalDate(r.EndDate),
		Status:     r.Status,
		Reason:     r.Reason,
	}
}
