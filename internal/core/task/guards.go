// Package task contains the pure business logic for the maintenance task lifecycle.
// Guards are pure functions that evaluate preconditions without side effects.
package task

import (
	"fmt"
	"strings"
)

// Task statuses.
const (
	StatusOpen             = "Open"
	StatusInProgress       = "In Progress"
	StatusCompleted        = "Completed"
	StatusAwaitingParts    = "Awaiting Parts"
	StatusPartsRequired    = "Parts Required"
	StatusOnHold           = "On Hold"
	StatusRequiresFollowUp = "Requires Follow-up"
)

// TypeCorrective is the task type of spawned follow-up work.
const TypeCorrective = "Corrective Maintenance"

// RoleViewer marks read-only users who are never assigned work.
const RoleViewer = "Viewer"

// Priorities and urgencies.
const (
	PriorityHigh    = "High"
	PriorityMedium  = "Medium"
	PriorityLow     = "Low"
	UrgencyCritical = "Critical"
)

// Statuses lists every known status in lifecycle order.
var Statuses = []string{
	StatusOpen,
	StatusInProgress,
	StatusAwaitingParts,
	StatusPartsRequired,
	StatusOnHold,
	StatusRequiresFollowUp,
	StatusCompleted,
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// TransitionContext provides context for status transition guards.
type TransitionContext struct {
	TaskID     string
	FromStatus string
	ToStatus   string
}

// AssignContext provides context for assignment guards.
type AssignContext struct {
	TaskID         string
	TaskStatus     string
	EngineerID     string
	EngineerExists bool
	EngineerRole   string
}

// IsKnownStatus reports whether s is a lifecycle status.
func IsKnownStatus(s string) bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsSideBranch reports whether s is one of the blocked/exception states.
func IsSideBranch(s string) bool {
	switch s {
	case StatusAwaitingParts, StatusPartsRequired, StatusOnHold, StatusRequiresFollowUp:
		return true
	}
	return false
}

// NormalizeStatus maps loose user input ("in_progress", "on hold") to a status.
// Unknown input is returned unchanged.
func NormalizeStatus(s string) string {
	key := strings.ToLower(strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if strings.ToLower(strings.ReplaceAll(known, "-", " ")) == key {
			return known
		}
	}
	return s
}

// CanTransition evaluates whether a task may move between two statuses.
// Rules:
// - Target must be a known status and differ from the current one
// - Completed is terminal
// - Open may go anywhere except back to Open
// - In Progress may complete or branch
// - Side branches may return to In Progress or move to another side branch
func CanTransition(ctx TransitionContext) GuardResult {
	if !IsKnownStatus(ctx.ToStatus) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("unknown status %q (valid: %s)", ctx.ToStatus, strings.Join(Statuses, ", ")),
		}
	}

	if ctx.FromStatus == ctx.ToStatus {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("task %s is already %s", ctx.TaskID, ctx.ToStatus),
		}
	}

	if ctx.FromStatus == StatusCompleted {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("task %s is completed and cannot change status", ctx.TaskID),
		}
	}

	allowed := false
	switch {
	case ctx.FromStatus == StatusOpen:
		allowed = true
	case ctx.FromStatus == StatusInProgress:
		allowed = ctx.ToStatus == StatusCompleted || IsSideBranch(ctx.ToStatus)
	case IsSideBranch(ctx.FromStatus):
		allowed = ctx.ToStatus == StatusInProgress || IsSideBranch(ctx.ToStatus)
	}

	if !allowed {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot move task %s from %s to %s", ctx.TaskID, ctx.FromStatus, ctx.ToStatus),
		}
	}

	return GuardResult{Allowed: true}
}

// CanAssignTask evaluates whether a task may be assigned to an engineer.
// Rules:
// - Engineer must exist
// - Engineer must not be a Viewer
// - Task must not be completed
func CanAssignTask(ctx AssignContext) GuardResult {
	if !ctx.EngineerExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("engineer %s not found", ctx.EngineerID),
		}
	}

	if strings.EqualFold(ctx.EngineerRole, RoleViewer) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("engineer %s has role %s and cannot be assigned work", ctx.EngineerID, ctx.EngineerRole),
		}
	}

	if ctx.TaskStatus == StatusCompleted {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("task %s is completed and cannot be reassigned", ctx.TaskID),
		}
	}

	return GuardResult{Allowed: true}
}

// IsEligibleRole reports whether an engineer with this role can receive work.
func IsEligibleRole(role string) bool {
	return !strings.EqualFold(role, RoleViewer)
}
