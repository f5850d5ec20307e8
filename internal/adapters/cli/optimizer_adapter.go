// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/example/plantops/internal/core/calendar"
	"github.com/example/plantops/internal/ports/primary"
)

// OptimizerAdapter is a thin adapter that translates CLI operations to OptimizerService calls.
type OptimizerAdapter struct {
	service primary.OptimizerService
	out     io.Writer
}

// NewOptimizerAdapter creates a new OptimizerAdapter with the given service.
func NewOptimizerAdapter(service primary.OptimizerService, out io.Writer) *OptimizerAdapter {
	return &OptimizerAdapter{
		service: service,
		out:     out,
	}
}

// Run performs one optimizer pass. An empty date means today.
func (a *OptimizerAdapter) Run(ctx context.Context, date string) (*primary.RunSummary, error) {
	var ref time.Time
	if date != "" {
		d, err := calendar.ParseDate(date)
		if err != nil {
			return nil, err
		}
		ref = d
	}

	summary, err := a.service.RunOnce(ctx, ref)
	if summary != nil {
		a.PrintSummary(summary)
	}
	if err != nil {
		return summary, fmt.Errorf("optimizer run failed: %w", err)
	}
	return summary, nil
}

// PrintSummary renders a run summary.
func (a *OptimizerAdapter) PrintSummary(s *primary.RunSummary) {
	fmt.Fprintf(a.out, "\nOptimizer run %s (window %s .. %s): %s\n",
		s.ReferenceDate, s.WindowStart, s.WindowEnd, outcomeLabel(s.Outcome))
	fmt.Fprintf(a.out, "  Candidates: %d  Assigned: %d  Skipped: %d  Errors: %d  (%s)\n",
		s.CandidateTasks, s.AssignedCount, s.SkippedCount(), len(s.Errors), s.Duration.Round(time.Millisecond))

	for _, msg := range s.LoadErrors {
		fmt.Fprintf(a.out, "  %s %s\n", color.New(color.FgRed).Sprint("load error:"), msg)
	}

	if len(s.Assignments) > 0 {
		fmt.Fprintf(a.out, "\n%-10s %-10s %-12s %6s  %s\n", "TASK", "ENGINEER", "DATE", "SCORE", "REASON")
		fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
		for _, d := range s.Assignments {
			fmt.Fprintf(a.out, "%-10s %-10s %-12s %6.3f  %s\n", d.TaskID, d.EngineerID, d.EffectiveDate, d.Score, d.Reason)
		}
	}

	if len(s.SkippedTasks) > 0 {
		fmt.Fprintln(a.out, "\nSkipped:")
		for _, sk := range s.SkippedTasks {
			fmt.Fprintf(a.out, "  %s %s\n", sk.TaskID, color.New(color.FgYellow).Sprint(sk.Reason))
		}
	}

	if len(s.Errors) > 0 {
		fmt.Fprintln(a.out, "\nFailed:")
		for _, e := range s.Errors {
			fmt.Fprintf(a.out, "  %s %s\n", e.TaskID, color.New(color.FgRed).Sprint(e.Error))
		}
	}

	if len(s.PerEngineer) > 0 {
		fmt.Fprintln(a.out, "\nPer engineer:")
		for _, ea := range s.PerEngineer {
			fmt.Fprintf(a.out, "  %s (%s): %d\n", ea.EngineerName, ea.EngineerID, ea.Count)
		}
	}
	fmt.Fprintln(a.out)
}

func outcomeLabel(outcome string) string {
	switch outcome {
	case primary.OutcomeCompleted:
		return color.New(color.FgHiGreen).Sprint(outcome)
	case primary.OutcomeIdle:
		return color.New(color.FgHiBlue).Sprint(outcome)
	case primary.OutcomeAborted:
		return color.New(color.FgRed).Sprint(outcome)
	}
	return outcome
}
