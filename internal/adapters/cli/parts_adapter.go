package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/plantops/internal/ports/primary"
)

// PartsAdapter is a thin adapter that translates CLI operations to PartsService calls.
type PartsAdapter struct {
	service primary.PartsService
	out     io.Writer
}

// NewPartsAdapter creates a new PartsAdapter with the given service.
func NewPartsAdapter(service primary.PartsService, out io.Writer) *PartsAdapter {
	return &PartsAdapter{
		service: service,
		out:     out,
	}
}

// Request raises a parts request against a task.
func (a *PartsAdapter) Request(ctx context.Context, req primary.CreatePartsRequest) error {
	pr, err := a.service.CreatePartsRequest(ctx, req)
	if pr != nil {
		fmt.Fprintf(a.out, "✓ Created parts request %s for %s: %d x %s [%s]\n",
			pr.ID, pr.TaskID, pr.Quantity, pr.Description, pr.Urgency)
	}
	return a.partial(err)
}

// List lists parts requests.
func (a *PartsAdapter) List(ctx context.Context, filters primary.PartsRequestFilters) error {
	requests, err := a.service.ListPartsRequests(ctx, filters)
	if err != nil {
		return err
	}

	if len(requests) == 0 {
		fmt.Fprintln(a.out, "No parts requests found.")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-10s %-10s %-9s %-12s %s\n", "ID", "TASK", "STATUS", "URGENCY", "CORRECTIVE", "DESCRIPTION")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────")
	for _, pr := range requests {
		corrective := pr.CorrectiveTaskID
		if corrective == "" {
			corrective = "-"
		}
		fmt.Fprintf(a.out, "%-10s %-10s %-10s %-9s %-12s %d x %s\n",
			pr.ID, pr.TaskID, pr.Status, pr.Urgency, corrective, pr.Quantity, pr.Description)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Ordered marks a request as ordered.
func (a *PartsAdapter) Ordered(ctx context.Context, id string) error {
	err := a.service.MarkOrdered(ctx, id)
	if err == nil || errors.Is(err, primary.ErrPartialFulfillment) {
		fmt.Fprintf(a.out, "✓ Parts request %s ordered\n", id)
	}
	return a.partial(err)
}

// Received records receipt of the parts.
func (a *PartsAdapter) Received(ctx context.Context, id string) error {
	resp, err := a.service.HandlePartsReceived(ctx, id)
	if resp != nil {
		fmt.Fprintf(a.out, "✓ Parts request %s received\n", id)
		if resp.CorrectiveTask != nil {
			fmt.Fprintf(a.out, "  Corrective task %s due %s\n", resp.CorrectiveTask.ID, resp.CorrectiveTask.DueDate)
		}
	}
	return a.partial(err)
}

// Installed records installation of the parts.
func (a *PartsAdapter) Installed(ctx context.Context, id string) error {
	err := a.service.HandlePartsInstalled(ctx, id)
	if err == nil || errors.Is(err, primary.ErrPartialFulfillment) {
		fmt.Fprintf(a.out, "✓ Parts request %s installed\n", id)
	}
	return a.partial(err)
}

// Cancel cancels a parts request.
func (a *PartsAdapter) Cancel(ctx context.Context, id string) error {
	if err := a.service.CancelPartsRequest(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Parts request %s cancelled\n", id)
	return nil
}

// partial prints a warning for a half-applied operation and passes err through.
func (a *PartsAdapter) partial(err error) error {
	if errors.Is(err, primary.ErrPartialFulfillment) {
		fmt.Fprintf(a.out, "%s the parts request was saved but a follow-up step failed; fix and retry the follow-up manually\n",
			color.New(color.FgYellow).Sprint("⚠"))
	}
	return err
}
