// Package parts contains the pure business logic for parts requests.
// A parts request moves Requested -> Ordered -> Received -> Installed, or is Cancelled.
package parts

import (
	"fmt"
	"strings"

	"github.com/example/plantops/internal/core/task"
)

// Parts request statuses.
const (
	StatusRequested = "Requested"
	StatusOrdered   = "Ordered"
	StatusReceived  = "Received"
	StatusInstalled = "Installed"
	StatusCancelled = "Cancelled"
)

// Urgency tiers.
const (
	UrgencyCritical = "Critical"
	UrgencyHigh     = "High"
	UrgencyMedium   = "Medium"
	UrgencyLow      = "Low"
)

// StatusContext provides context for parts request status guards.
type StatusContext struct {
	RequestID        string
	Status           string
	CorrectiveTaskID string
}

// CreateContext provides context for parts request creation guards.
type CreateContext struct {
	TaskID     string
	TaskExists bool
	TaskStatus string
	Quantity   int
	Urgency    string
}

// IsValidUrgency reports whether u is a known urgency tier.
func IsValidUrgency(u string) bool {
	switch u {
	case UrgencyCritical, UrgencyHigh, UrgencyMedium, UrgencyLow:
		return true
	}
	return false
}

// ReceivedDueDays is the corrective-task due window when parts arrive.
func ReceivedDueDays(urgency string) int {
	if strings.EqualFold(urgency, UrgencyCritical) {
		return 1
	}
	return 2
}

// CanCreateRequest evaluates whether parts can be requested for a task.
// Rules:
// - Task must exist and not be completed
// - Quantity must be positive
// - Urgency must be a known tier
func CanCreateRequest(ctx CreateContext) task.GuardResult {
	if !ctx.TaskExists {
		return task.GuardResult{Allowed: false, Reason: fmt.Sprintf("task %s not found", ctx.TaskID)}
	}
	if ctx.TaskStatus == task.StatusCompleted {
		return task.GuardResult{Allowed: false, Reason: fmt.Sprintf("task %s is completed; parts cannot be requested", ctx.TaskID)}
	}
	if ctx.Quantity <= 0 {
		return task.GuardResult{Allowed: false, Reason: fmt.Sprintf("quantity must be positive (got %d)", ctx.Quantity)}
	}
	if !IsValidUrgency(ctx.Urgency) {
		return task.GuardResult{Allowed: false, Reason: fmt.Sprintf("unknown urgency %q (valid: Critical, High, Medium, Low)", ctx.Urgency)}
	}
	return task.GuardResult{Allowed: true}
}

// CanMarkOrdered evaluates whether a request can be marked ordered.
func CanMarkOrdered(ctx StatusContext) task.GuardResult {
	if ctx.Status != StatusRequested {
		return task.GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only order requested parts (parts request %s is %s)", ctx.RequestID, ctx.Status),
		}
	}
	return task.GuardResult{Allowed: true}
}

// CanMarkReceived evaluates whether a request can be marked received.
// Rules:
// - Status must be Requested or Ordered
// - No corrective task may be linked yet (the link is immutable)
func CanMarkReceived(ctx StatusContext) task.GuardResult {
	if ctx.Status != StatusRequested && ctx.Status != StatusOrdered {
		return task.GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only receive requested or ordered parts (parts request %s is %s)", ctx.RequestID, ctx.Status),
		}
	}
	if ctx.CorrectiveTaskID != "" {
		return task.GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("parts request %s is already linked to corrective task %s", ctx.RequestID, ctx.CorrectiveTaskID),
		}
	}
	return task.GuardResult{Allowed: true}
}

// CanMarkInstalled evaluates whether a request can be marked installed.
func CanMarkInstalled(ctx StatusContext) task.GuardResult {
	if ctx.Status != StatusReceived {
		return task.GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only install received parts (parts request %s is %s)", ctx.RequestID, ctx.Status),
		}
	}
	return task.GuardResult{Allowed: true}
}

// CanCancel evaluates whether a request can be cancelled.
func CanCancel(ctx StatusContext) task.GuardResult {
	if ctx.Status != StatusRequested && ctx.Status != StatusOrdered {
		return task.GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only cancel requested or ordered parts (parts request %s is %s)", ctx.RequestID, ctx.Status),
		}
	}
	return task.GuardResult{Allowed: true}
}
