package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/plantops/internal/core/task"
	"github.com/example/plantops/internal/ports/primary"
)

// TaskAdapter is a thin adapter that translates CLI operations to TaskService calls.
// It depends only on the TaskService interface, enabling easy testing with mocks.
type TaskAdapter struct {
	service primary.TaskService
	out     io.Writer
}

// NewTaskAdapter creates a new TaskAdapter with the given service.
func NewTaskAdapter(service primary.TaskService, out io.Writer) *TaskAdapter {
	return &TaskAdapter{
		service: service,
		out:     out,
	}
}

// Create creates a new task.
func (a *TaskAdapter) Create(ctx context.Context, req primary.CreateTaskRequest) error {
	resp, err := a.service.CreateTask(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	t := resp.Task
	fmt.Fprintf(a.out, "✓ Created task %s: %s at %s, due %s [%s]\n", t.ID, t.Type, t.Location, t.DueDate, t.Priority)
	return nil
}

// List lists tasks with optional filters.
func (a *TaskAdapter) List(ctx context.Context, filters primary.TaskFilters) error {
	tasks, err := a.service.ListTasks(ctx, filters)
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks found.")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-12s %-8s %-20s %-10s %s\n", "ID", "DUE", "PRIORITY", "STATUS", "ASSIGNEE", "LOCATION")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────────")
	for _, t := range tasks {
		assignee := t.AssigneeID
		if assignee == "" {
			assignee = "-"
		}
		fmt.Fprintf(a.out, "%-10s %-12s %-8s %-20s %-10s %s\n",
			t.ID, t.DueDate, t.Priority, statusLabel(t.Status), assignee, t.Location)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Show displays details for a single task.
func (a *TaskAdapter) Show(ctx context.Context, taskID string) (*primary.Task, error) {
	t, err := a.service.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nTask:     %s\n", t.ID)
	fmt.Fprintf(a.out, "Type:     %s\n", t.Type)
	fmt.Fprintf(a.out, "Status:   %s\n", statusLabel(t.Status))
	fmt.Fprintf(a.out, "Priority: %s\n", t.Priority)
	fmt.Fprintf(a.out, "Location: %s\n", t.Location)
	if t.AssetID != "" {
		fmt.Fprintf(a.out, "Asset:    %s (%s)\n", t.AssetID, t.AssetType)
	}
	fmt.Fprintf(a.out, "Due:      %s\n", t.DueDate)
	if t.AssigneeID != "" {
		fmt.Fprintf(a.out, "Assignee: %s\n", t.AssigneeID)
	}
	if t.CompletionDate != "" {
		fmt.Fprintf(a.out, "Completed: %s\n", t.CompletionDate)
	}
	if t.Notes != "" {
		fmt.Fprintln(a.out, "Notes:")
		for _, line := range strings.Split(t.Notes, "\n") {
			fmt.Fprintf(a.out, "  %s\n", line)
		}
	}
	fmt.Fprintln(a.out)
	return t, nil
}

// Assign assigns a task to an engineer.
func (a *TaskAdapter) Assign(ctx context.Context, taskID, engineerID string) error {
	if err := a.service.AssignTask(ctx, taskID, engineerID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Task %s assigned to %s\n", taskID, engineerID)
	return nil
}

// Transition moves a task to a new status.
func (a *TaskAdapter) Transition(ctx context.Context, req primary.TransitionRequest) error {
	resp, err := a.service.TransitionStatus(ctx, req)
	if resp != nil && resp.Task != nil {
		fmt.Fprintf(a.out, "✓ Task %s is now %s\n", resp.Task.ID, statusLabel(resp.Task.Status))
	}
	if err != nil {
		return err
	}
	if resp.CorrectiveTask != nil {
		a.printCorrective(resp.CorrectiveTask)
	}
	return nil
}

// Corrective spawns a corrective task from an existing task.
func (a *TaskAdapter) Corrective(ctx context.Context, req primary.CorrectiveTaskRequest) error {
	t, err := a.service.CreateCorrectiveTask(ctx, req)
	if err != nil {
		return err
	}
	a.printCorrective(t)
	return nil
}

func (a *TaskAdapter) printCorrective(t *primary.Task) {
	fmt.Fprintf(a.out, "✓ Created corrective task %s [%s], due %s\n", t.ID, t.Priority, t.DueDate)
	if t.AssigneeID != "" {
		fmt.Fprintf(a.out, "  Assigned to %s\n", t.AssigneeID)
	}
}

func statusLabel(status string) string {
	switch status {
	case task.StatusCompleted:
		return color.New(color.FgHiGreen).Sprint(status)
	case task.StatusInProgress:
		return color.New(color.FgHiBlue).Sprint(status)
	case task.StatusRequiresFollowUp:
		return color.New(color.FgRed).Sprint(status)
	case task.StatusAwaitingParts, task.StatusPartsRequired, task.StatusOnHold:
		return color.New(color.FgYellow).Sprint(status)
	}
	return status
}
