package primary

import (
	"context"
	"errors"
	"time"
)

// ErrRunInProgress is returned when RunOnce is called while another run is active.
var ErrRunInProgress = errors.New("optimizer run already in progress")

// Run outcomes. Operators use these to tell healthy idle runs from stuck runs.
const (
	OutcomeIdle      = "idle"      // there was nothing to assign
	OutcomeCompleted = "completed" // the run finished; assignments may be zero
	OutcomeAborted   = "aborted"   // reference data could not be loaded
)

// Skip reasons recorded per task.
const (
	SkipNonWorkDay     = "non_work_day"
	SkipNoAvailability = "no_availability"
	SkipBelowThreshold = "below_threshold"
)

// OptimizerService defines the primary port for the daily assignment optimizer.
type OptimizerService interface {
	// RunOnce performs one assignment pass for the given reference date.
	// A zero referenceDate means today. The summary is returned even when
	// the run aborts, alongside the error.
	RunOnce(ctx context.Context, referenceDate time.Time) (*RunSummary, error)
}

// RunSummary is the structured result of an optimizer run.
type RunSummary struct {
	Outcome        string
	ReferenceDate  string
	WindowStart    string
	WindowEnd      string
	CandidateTasks int
	AssignedCount  int
	PerEngineer    []EngineerAssignments
	Assignments    []AssignmentDecision
	Skipped        map[string]int
	SkippedTasks   []SkippedTask
	Errors         []TaskError
	LoadErrors     []string
	StartedAt      time.Time
	Duration       time.Duration
}

// EngineerAssignments is the per-engineer breakdown of a run.
type EngineerAssignments struct {
	EngineerID   string
	EngineerName string
	Count        int
	TaskIDs      []string
}

// AssignmentDecision records one committed assignment.
type AssignmentDecision struct {
	TaskID        string
	EngineerID    string
	EffectiveDate string
	Score         float64
	Reason        string
}

// SkippedTask records why a task was left unassigned.
type SkippedTask struct {
	TaskID string
	Reason string
}

// TaskError records a per-task write failure.
type TaskError struct {
	TaskID string
	Error  string
}

// SkippedCount returns the total number of skipped tasks.
func (s *RunSummary) SkippedCount() int {
	n := 0
	for _, c := range s.Skipped {
		n += c
	}
	return n
}
