package app

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/example/plantops/internal/config"
	"github.com/example/plantops/internal/core/assignment"
	"github.com/example/plantops/internal/core/calendar"
	"github.com/example/plantops/internal/core/task"
	"github.com/example/plantops/internal/core/workload"
	"github.com/example/plantops/internal/metrics"
	"github.com/example/plantops/internal/ports/primary"
	"github.com/example/plantops/internal/ports/secondary"
)

// RoleManager receives the run summary notification.
const RoleManager = "Manager"

// OptimizerServiceImpl implements the OptimizerService interface.
type OptimizerServiceImpl struct {
	taskRepo     secondary.TaskRepository
	engineerRepo secondary.EngineerRepository
	holidayRepo  secondary.HolidayRepository
	leaveRepo    secondary.LeaveRepository
	dispatcher   *NotificationDispatcher
	metrics      *metrics.Metrics
	logger       *slog.Logger
	cfg          config.OptimizerConfig

	runMu sync.Mutex
	now   func() time.Time
}

// NewOptimizerService creates a new OptimizerService with injected dependencies.
func NewOptimizerService(
	taskRepo secondary.TaskRepository,
	engineerRepo secondary.EngineerRepository,
	holidayRepo secondary.HolidayRepository,
	leaveRepo secondary.LeaveRepository,
	dispatcher *NotificationDispatcher,
	m *metrics.Metrics,
	logger *slog.Logger,
	cfg config.OptimizerConfig,
) *OptimizerServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CapacityCeiling <= 0 {
		cfg.CapacityCeiling = workload.DefaultCeiling
	}
	return &OptimizerServiceImpl{
		taskRepo:     taskRepo,
		engineerRepo: engineerRepo,
		holidayRepo:  holidayRepo,
		leaveRepo:    leaveRepo,
		dispatcher:   dispatcher,
		metrics:      m,
		logger:       logger,
		cfg:          cfg,
		now:          time.Now,
	}
}

// referenceData is everything a run reads before it starts assigning.
type referenceData struct {
	engineers []*secondary.EngineerRecord
	holidays  []*secondary.HolidayRecord
	leave     []*secondary.LeaveRecord
	tasks     []*secondary.TaskRecord
	loads     map[string]int
}

// RunOnce performs one greedy assignment pass for referenceDate (today when zero).
// Only one run may be active at a time; an overlapping call returns
// primary.ErrRunInProgress without touching any data.
func (s *OptimizerServiceImpl) RunOnce(ctx context.Context, referenceDate time.Time) (*primary.RunSummary, error) {
	if !s.runMu.TryLock() {
		return nil, primary.ErrRunInProgress
	}
	defer s.runMu.Unlock()

	started := time.Now()
	if referenceDate.IsZero() {
		referenceDate = s.now()
	}
	ref := calendar.DateOf(referenceDate)
	windowStart := calendar.AddDays(ref, -s.cfg.LookbackDays)
	windowEnd := calendar.AddDays(ref, s.cfg.LookaheadDays)

	summary := &primary.RunSummary{
		ReferenceDate: calendar.Format(ref),
		WindowStart:   calendar.Format(windowStart),
		WindowEnd:     calendar.Format(windowEnd),
		Skipped:       make(map[string]int),
		StartedAt:     started.UTC(),
	}

	if s.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RunTimeout)
		defer cancel()
	}

	logger := s.logger.With(slog.String("reference_date", summary.ReferenceDate))
	logger.Info("Optimizer run started",
		slog.String("window_start", summary.WindowStart),
		slog.String("window_end", summary.WindowEnd))

	data, err := s.load(ctx, windowStart, windowEnd, ref)
	if err != nil {
		summary.Outcome = primary.OutcomeAborted
		summary.LoadErrors = append(summary.LoadErrors, err.Error())
		s.finish(summary, started, logger)
		return summary, fmt.Errorf("optimizer run aborted: %w", err)
	}

	summary.CandidateTasks = len(data.tasks)
	if len(data.tasks) == 0 {
		summary.Outcome = primary.OutcomeIdle
		s.finish(summary, started, logger)
		return summary, nil
	}

	runErr := s.assign(ctx, ref, data, summary, logger)

	if runErr == nil {
		summary.Outcome = primary.OutcomeCompleted
		s.notifyManagers(ctx, data.engineers, summary)
	} else {
		summary.Outcome = primary.OutcomeAborted
	}

	if !s.dispatcher.Drain(s.cfg.NotifyDrainTimeout) {
		logger.Warn("Notifications still in flight after drain timeout",
			slog.Duration("timeout", s.cfg.NotifyDrainTimeout))
	}

	s.finish(summary, started, logger)
	return summary, runErr
}

// load reads all reference data concurrently. Any failure fails the whole load.
func (s *OptimizerServiceImpl) load(ctx context.Context, from, to, ref time.Time) (*referenceData, error) {
	data := &referenceData{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		engineers, err := s.engineerRepo.List(gctx, secondary.EngineerFilters{ExcludeRole: task.RoleViewer})
		if err != nil {
			return fmt.Errorf("failed to load engineers: %w", err)
		}
		for _, e := range engineers {
			if task.IsEligibleRole(e.Role) {
				data.engineers = append(data.engineers, e)
			}
		}
		sort.Slice(data.engineers, func(i, j int) bool { return data.engineers[i].ID < data.engineers[j].ID })
		return nil
	})

	g.Go(func() error {
		holidays, err := s.holidayRepo.List(gctx)
		if err != nil {
			return fmt.Errorf("failed to load holidays: %w", err)
		}
		data.holidays = holidays
		return nil
	})

	g.Go(func() error {
		leave, err := s.leaveRepo.List(gctx, secondary.LeaveFilters{Status: calendar.LeaveApproved})
		if err != nil {
			return fmt.Errorf("failed to load leave: %w", err)
		}
		data.leave = leave
		return nil
	})

	g.Go(func() error {
		tasks, err := s.taskRepo.ListOpenUnassigned(gctx, from, to)
		if err != nil {
			return fmt.Errorf("failed to load tasks: %w", err)
		}
		data.tasks = tasks
		return nil
	})

	g.Go(func() error {
		loads, err := s.taskRepo.CountOpenByAssignee(gctx, ref)
		if err != nil {
			return fmt.Errorf("failed to load workload: %w", err)
		}
		data.loads = loads
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

// assign runs the sequential decide-and-commit loop. It returns an error only
// when the run context ends; per-task failures are recorded in the summary.
func (s *OptimizerServiceImpl) assign(ctx context.Context, ref time.Time, data *referenceData, summary *primary.RunSummary, logger *slog.Logger) error {
	holidays := make([]calendar.Holiday, len(data.holidays))
	for i, h := range data.holidays {
		holidays[i] = calendar.Holiday{Date: h.Date, Label: h.Label}
	}
	leave := make([]calendar.Leave, len(data.leave))
	for i, l := range data.leave {
		leave[i] = calendar.Leave{EngineerID: l.EngineerID, Start: l.StartDate, End: l.EndDate}
	}
	cal := calendar.New(holidays, leave)
	tracker := workload.NewTracker(data.loads, s.cfg.CapacityCeiling)

	candidates := make([]assignment.Candidate, len(data.engineers))
	engineers := make(map[string]*secondary.EngineerRecord, len(data.engineers))
	for i, e := range data.engineers {
		candidates[i] = assignment.Candidate{ID: e.ID, Name: e.Name, Skills: e.Skills}
		engineers[e.ID] = e
	}

	records := make(map[string]*secondary.TaskRecord, len(data.tasks))
	order := make([]assignment.Task, len(data.tasks))
	for i, t := range data.tasks {
		records[t.ID] = t
		order[i] = assignment.Task{ID: t.ID, AssetID: t.AssetID, AssetType: t.AssetType, Priority: t.Priority, DueDate: t.DueDate}
	}
	assignment.SortForRun(order, ref)

	perEngineer := make(map[string]*primary.EngineerAssignments)

	for _, at := range order {
		if err := ctx.Err(); err != nil {
			logger.Warn("Optimizer run stopped early", slog.String("error", err.Error()))
			return fmt.Errorf("optimizer run interrupted: %w", err)
		}

		overdue := assignment.IsOverdue(at, ref)
		effective := at.DueDate
		if overdue {
			effective = cal.NextWorkDay(ref)
		} else if !cal.IsWorkDay(effective) {
			s.skip(summary, at.ID, primary.SkipNonWorkDay)
			continue
		}

		var pool []assignment.Candidate
		for _, c := range candidates {
			if cal.IsAvailable(c.ID, effective) && tracker.HasCapacity(c.ID) {
				pool = append(pool, c)
			}
		}
		if len(pool) == 0 {
			s.skip(summary, at.ID, primary.SkipNoAvailability)
			continue
		}

		best, score, ok := assignment.SelectBest(at, pool, tracker.CurrentLoad, tracker.Ceiling(), s.cfg.MinScore)
		if !ok {
			s.skip(summary, at.ID, primary.SkipBelowThreshold)
			continue
		}

		record := records[at.ID]
		reason := assignment.Reason(score, overdue)
		if err := s.taskRepo.Assign(ctx, at.ID, best.ID, task.AppendNote(record.Notes, reason)); err != nil {
			logger.Warn("Failed to assign task",
				slog.String("task_id", at.ID),
				slog.String("engineer_id", best.ID),
				slog.String("error", err.Error()))
			summary.Errors = append(summary.Errors, primary.TaskError{TaskID: at.ID, Error: err.Error()})
			continue
		}
		tracker.Increment(best.ID)

		summary.AssignedCount++
		summary.Assignments = append(summary.Assignments, primary.AssignmentDecision{
			TaskID:        at.ID,
			EngineerID:    best.ID,
			EffectiveDate: calendar.Format(effective),
			Score:         score.Total,
			Reason:        reason,
		})

		ea, ok := perEngineer[best.ID]
		if !ok {
			ea = &primary.EngineerAssignments{EngineerID: best.ID, EngineerName: best.Name}
			perEngineer[best.ID] = ea
		}
		ea.Count++
		ea.TaskIDs = append(ea.TaskIDs, at.ID)

		logger.Debug("Task assigned",
			slog.String("task_id", at.ID),
			slog.String("engineer_id", best.ID),
			slog.Float64("score", score.Total))

		s.dispatcher.Dispatch(ctx, assignedNotification(record, engineers[best.ID]))
	}

	for _, ea := range perEngineer {
		summary.PerEngineer = append(summary.PerEngineer, *ea)
	}
	sort.Slice(summary.PerEngineer, func(i, j int) bool {
		return summary.PerEngineer[i].EngineerID < summary.PerEngineer[j].EngineerID
	})

	return nil
}

func (s *OptimizerServiceImpl) skip(summary *primary.RunSummary, taskID, reason string) {
	summary.Skipped[reason]++
	summary.SkippedTasks = append(summary.SkippedTasks, primary.SkippedTask{TaskID: taskID, Reason: reason})
}

// notifyManagers sends the run summary to every engineer with the Manager role.
func (s *OptimizerServiceImpl) notifyManagers(ctx context.Context, engineers []*secondary.EngineerRecord, summary *primary.RunSummary) {
	message := SummaryMessage(summary)
	for _, e := range engineers {
		if !strings.EqualFold(e.Role, RoleManager) {
			continue
		}
		s.dispatcher.Dispatch(ctx, secondary.Notification{
			Type:           secondary.NotificationOptimizerSummary,
			RecipientID:    e.ID,
			RecipientEmail: e.Email,
			Title:          fmt.Sprintf("Daily assignment run %s", summary.ReferenceDate),
			Message:        message,
			Priority:       task.PriorityLow,
		})
	}
}

func (s *OptimizerServiceImpl) finish(summary *primary.RunSummary, started time.Time, logger *slog.Logger) {
	summary.Duration = time.Since(started)
	s.metrics.RunFinished(summary.Outcome, summary.AssignedCount, summary.Skipped, len(summary.Errors), summary.Duration)

	logger.Info("Optimizer run finished",
		slog.String("outcome", summary.Outcome),
		slog.Int("candidates", summary.CandidateTasks),
		slog.Int("assigned", summary.AssignedCount),
		slog.Int("skipped", summary.SkippedCount()),
		slog.Int("errors", len(summary.Errors)),
		slog.Duration("duration", summary.Duration))
}

// SummaryMessage renders a run summary as one line of prose.
func SummaryMessage(summary *primary.RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Assigned %d of %d candidate tasks", summary.AssignedCount, summary.CandidateTasks)
	switch n := len(summary.PerEngineer); n {
	case 0:
	case 1:
		b.WriteString(" across 1 engineer")
	default:
		fmt.Fprintf(&b, " across %d engineers", n)
	}

	if n := summary.SkippedCount(); n > 0 {
		reasons := make([]string, 0, len(summary.Skipped))
		for reason := range summary.Skipped {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		parts := make([]string, len(reasons))
		for i, reason := range reasons {
			parts[i] = fmt.Sprintf("%s: %d", reason, summary.Skipped[reason])
		}
		fmt.Fprintf(&b, "; skipped %d (%s)", n, strings.Join(parts, ", "))
	}

	if len(summary.Errors) > 0 {
		fmt.Fprintf(&b, "; %d failed", len(summary.Errors))
	}

	if len(summary.PerEngineer) > 0 {
		parts := make([]string, len(summary.PerEngineer))
		for i, ea := range summary.PerEngineer {
			parts[i] = fmt.Sprintf("%s %d", ea.EngineerName, ea.Count)
		}
		fmt.Fprintf(&b, ". Per engineer: %s", strings.Join(parts, ", "))
	}

	return b.String() + "."
}

// Ensure OptimizerServiceImpl implements the interface
var _ primary.OptimizerService = (*OptimizerServiceImpl)(nil)
