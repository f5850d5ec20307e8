package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/plantops/internal/config"
	"github.com/example/plantops/internal/metrics"
	"github.com/example/plantops/internal/ports/primary"
	"github.com/example/plantops/internal/ports/secondary"
)

// monday is the reference date used throughout the optimizer tests.
var monday = date(2026, time.October, 19)

type optimizerFixture struct {
	tasks     *mockTaskRepository
	engineers *mockEngineerRepository
	holidays  *mockHolidayRepository
	leave     *mockLeaveRepository
	notifier  *recordingNotifier
	svc       *OptimizerServiceImpl
}

func newOptimizerFixture(t *testing.T, cfg config.OptimizerConfig, engineers ...*secondary.EngineerRecord) *optimizerFixture {
	t.Helper()
	f := &optimizerFixture{
		tasks:     newMockTaskRepository(),
		engineers: newMockEngineerRepository(engineers...),
		holidays:  &mockHolidayRepository{},
		leave:     newMockLeaveRepository(),
		notifier:  &recordingNotifier{},
	}
	m := metrics.New()
	dispatcher := NewNotificationDispatcher(f.notifier, nil, m)
	f.svc = NewOptimizerService(f.tasks, f.engineers, f.holidays, f.leave, dispatcher, m, nil, cfg)
	f.svc.now = fixedClock(monday.Add(6 * time.Hour))
	return f
}

func defaultOptimizerConfig() config.OptimizerConfig {
	return config.DefaultConfig().Optimizer
}

// preload gives an engineer n in-progress tasks due on the reference date.
func (f *optimizerFixture) preload(engineerID string, n int) {
	for i := 0; i < n; i++ {
		f.tasks.add(&secondary.TaskRecord{
			ID:         "TASK-9" + engineerID[len(engineerID)-2:] + string(rune('0'+i)),
			AssigneeID: engineerID,
			Status:     "In Progress",
			Priority:   "Medium",
			DueDate:    monday,
		})
	}
}

func TestRunOnce_AssignsBestScoringEngineer(t *testing.T) {
	f := newOptimizerFixture(t, defaultOptimizerConfig(),
		&secondary.EngineerRecord{ID: "ENG-001", Name: "Ana", Skills: []string{"HVAC", "Mechanical"}, Email: "ana@example.com"},
		&secondary.EngineerRecord{ID: "ENG-002", Name: "Ben", Skills: []string{"Electrical"}},
	)
	f.preload("ENG-001", 2)
	f.tasks.add(&secondary.TaskRecord{ID: "TASK-010", AssetID: "AST-010", AssetType: "Gas Boiler", Priority: "High", DueDate: monday})

	summary, err := f.svc.RunOnce(context.Background(), monday)
	require.NoError(t, err)

	assert.Equal(t, primary.OutcomeCompleted, summary.Outcome)
	assert.Equal(t, 1, summary.CandidateTasks)
	assert.Equal(t, 1, summary.AssignedCount)
	require.Len(t, summary.Assignments, 1)

	decision := summary.Assignments[0]
	assert.Equal(t, "ENG-001", decision.EngineerID)
	assert.InDelta(t, 0.655, decision.Score, 0.001)
	assert.Equal(t, "2026-10-19", decision.EffectiveDate)

	stored := f.tasks.get("TASK-010")
	assert.Equal(t, "ENG-001", stored.AssigneeID)
	assert.Equal(t, "Open", stored.Status)
	assert.Contains(t, stored.Notes, "Auto-assigned: skill match 67%, workload capacity 75%")

	sent := f.notifier.ofType(secondary.NotificationTaskAssigned)
	require.Len(t, sent, 1)
	assert.Equal(t, "ENG-001", sent[0].RecipientID)
	assert.Equal(t, "ana@example.com", sent[0].RecipientEmail)
	assert.Equal(t, "TASK-010", sent[0].TaskID)
}

func TestRunOnce_NeverExceedsCapacity(t *testing.T) {
	cfg := defaultOptimizerConfig()
	cfg.CapacityCeiling = 3
	f := newOptimizerFixture(t, cfg,
		&secondary.EngineerRecord{ID: "ENG-001", Name: "Ana", Skills: []string{"HVAC", "Mechanical", "Plumbing"}},
	)
	f.preload("ENG-001", 1)
	for _, id := range []string{"TASK-010", "TASK-011", "TASK-012", "TASK-013"} {
		f.tasks.add(&secondary.TaskRecord{ID: id, AssetID: "AST-010", AssetType: "Booster Pump", Priority: "Medium", DueDate: monday})
	}

	summary, err := f.svc.RunOnce(context.Background(), monday)
	require.NoError(t, err)

	// ceiling 3 minus one task already held
	assert.Equal(t, 2, summary.AssignedCount)
	assert.Equal(t, 2, summary.Skipped[primary.SkipNoAvailability])
	require.Len(t, summary.PerEngineer, 1)
	assert.Equal(t, 2, summary.PerEngineer[0].Count)
	assert.Equal(t, []string{"TASK-010", "TASK-011"}, summary.PerEngineer[0].TaskIDs)
}

func TestRunOnce_OverdueTasksGoFirst(t *testing.T) {
	cfg := defaultOptimizerConfig()
	cfg.CapacityCeiling = 1
	f := newOptimizerFixture(t, cfg,
		&secondary.EngineerRecord{ID: "ENG-001", Name: "Ana", Skills: []string{"HVAC", "Mechanical", "Plumbing"}},
	)
	f.tasks.add(&secondary.TaskRecord{ID: "TASK-010", AssetID: "AST-010", AssetType: "Booster Pump", Priority: "High", DueDate: monday})
	f.tasks.add(&secondary.TaskRecord{ID: "TASK-011", AssetID: "AST-010", AssetType: "Booster Pump", Priority: "Low", DueDate: date(2026, time.October, 14)})

	summary, err := f.svc.RunOnce(context.Background(), monday)
	require.NoError(t, err)

	require.Len(t, summary.Assignments, 1)
	assert.Equal(t, "TASK-011", summary.Assignments[0].TaskID)
	assert.Equal(t, "2026-10-19", summary.Assignments[0].EffectiveDate)
	assert.Contains(t, summary.Assignments[0].Reason, "overdue")
	assert.Equal(t, 1, summary.Skipped[primary.SkipNoAvailability])
	assert.Empty(t, f.tasks.get("TASK-010").AssigneeID)
}

func TestRunOnce_OverdueTaskOnWeekendUsesNextWorkDay(t *testing.T) {
	f := newOptimizerFixture(t, defaultOptimizerConfig(),
		&secondary.EngineerRecord{ID: "ENG-001", Name: "Ana", Skills: []string{"Electrical"}},
	)
	saturday := date(2026, time.October, 24)
	f.tasks.add(&secondary.TaskRecord{ID: "TASK-010", AssetID: "AST-010", AssetType: "Generator", Priority: "High", DueDate: date(2026, time.October, 20)})

	summary, err := f.svc.RunOnce(context.Background(), saturday)
	require.NoError(t, err)

	require.Len(t, summary.Assignments, 1)
	assert.Equal(t, "2026-10-26", summary.Assignments[0].EffectiveDate)
}

func TestRunOnce_SecondRunAssignsNothing(t *testing.T) {
	f := newOptimizerFixture(t, defaultOptimizerConfig(),
		&secondary.EngineerRecord{ID: "ENG-001", Name: "Ana", Skills: []string{"Electrical", "Generator Maintenance"}},
	)
	f.tasks.add(&secondary.TaskRecord{ID: "TASK-010", AssetID: "AST-010", AssetType: "Generator", Priority: "High", DueDate: monday})
	f.tasks.add(&secondary.TaskRecord{ID: "TASK-011", AssetID: "AST-010", AssetType: "Generator", Priority: "Low", DueDate: date(2026, time.October, 21)})

	first, err := f.svc.RunOnce(context.Background(), monday)
	require.NoError(t, err)
	assert.Equal(t, 2, first.AssignedCount)

	second, err := f.svc.RunOnce(context.Background(), monday)
	require.NoError(t, err)
	assert.Equal(t, 0, second.AssignedCount)
	assert.Equal(t, primary.OutcomeIdle, second.Outcome)
	assert.Len(t, f.notifier.ofType(secondary.NotificationTaskAssigned), 2)
}

func TestRunOnce_SkipReasons(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(f *optimizerFixture)
		taskDue  time.Time
		asset    string
		priority string
		want     string
	}{
		{
			name:     "due on a weekend",
			taskDue:  date(2026, time.October, 24),
			asset:    "Generator",
			priority: "High",
			want:     primary.SkipNonWorkDay,
		},
		{
			name: "due on a holiday",
			setup: func(f *optimizerFixture) {
				f.holidays.holidays = append(f.holidays.holidays, &secondary.HolidayRecord{Date: date(2026, time.October, 20), Label: "Plant shutdown"})
			},
			taskDue:  date(2026, time.October, 20),
			asset:    "Generator",
			priority: "High",
			want:     primary.SkipNonWorkDay,
		},
		{
			name: "only engineer on approved leave",
			setup: func(f *optimizerFixture) {
				f.leave.leave["LEAVE-001"] = &secondary.LeaveRecord{
					ID: "LEAVE-001", EngineerID: "ENG-001", Status: "approved",
					StartDate: monday, EndDate: date(2026, time.October, 23),
				}
			},
			taskDue:  monday,
			asset:    "Generator",
			priority: "High",
			want:     primary.SkipNoAvailability,
		},
		{
			name: "only engineer at capacity",
			setup: func(f *optimizerFixture) {
				f.preload("ENG-001", 8)
			},
			taskDue:  monday,
			asset:    "Generator",
			priority: "High",
			want:     primary.SkipNoAvailability,
		},
		{
			name: "best score not above threshold",
			setup: func(f *optimizerFixture) {
				f.preload("ENG-001", 7)
			},
			taskDue:  monday,
			asset:    "Gas Boiler",
			priority: "Low",
			want:     primary.SkipBelowThreshold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOptimizerFixture(t, defaultOptimizerConfig(),
				&secondary.EngineerRecord{ID: "ENG-001", Name: "Ana", Skills: []string{"Electrical"}},
			)
			if tt.setup != nil {
				tt.setup(f)
			}
			f.tasks.add(&secondary.TaskRecord{ID: "TASK-010", AssetID: "AST-010", AssetType: tt.asset, Priority: tt.priority, DueDate: tt.taskDue})

			summary, err := f.svc.RunOnce(context.Background(), monday)
			require.NoError(t, err)

			assert.Equal(t, primary.OutcomeCompleted, summary.Outcome)
			assert.Equal(t, 0, summary.AssignedCount)
			assert.Equal(t, 1, summary.Skipped[tt.want])
			assert.Equal(t, []primary.SkippedTask{{TaskID: "TASK-010", Reason: tt.want}}, summary.SkippedTasks)
			assert.Empty(t, f.tasks.get("TASK-010").AssigneeID)
		})
	}
}

func TestRunOnce_PendingLeaveDoesNotBlock(t *testing.T) {
	f := newOptimizerFixture(t, defaultOptimizerConfig(),
		&secondary.EngineerRecord{ID: "ENG-001", Name: "Ana", Skills: []string{"Electrical"}},
	)
	f.leave.leave["LEAVE-001"] = &secondary.LeaveRecord{
		ID: "LEAVE-001", EngineerID: "ENG-001", Status: "pending", StartDate: monday, EndDate: monday,
	}
	f.tasks.add(&secondary.TaskRecord{ID: "TASK-010", AssetID: "AST-010", AssetType: "Generator", Priority: "High", DueDate: monday})

	summary, err := f.svc.RunOnce(context.Background(), monday)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.AssignedCount)
}

func TestRunOnce_ViewersAreNeverAssigned(t *testing.T) {
	f := newOptimizerFixture(t, defaultOptimizerConfig(),
		&secondary.EngineerRecord{ID: "ENG-001", Name: "Vic", Role: "Viewer", Skills: []string{"Electrical", "Generator Maintenance"}},
	)
	f.tasks.add(&secondary.TaskRecord{ID: "TASK-010", AssetID: "AST-010", AssetType: "Generator", Priority: "High", DueDate: monday})

	summary, err := f.svc.RunOnce(context.Background(), monday)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.AssignedCount)
	assert.Equal(t, 1, summary.Skipped[primary.SkipNoAvailability])
}

func TestRunOnce_TieGoesToLowestEngineerID(t *testing.T) {
	f := newOptimizerFixture(t, defaultOptimizerConfig(),
		&secondary.EngineerRecord{ID: "ENG-003", Name: "Cy", Skills: []string{"Electrical"}},
		&secondary.EngineerRecord{ID: "ENG-001", Name: "Ana", Skills: []string{"Electrical"}},
		&secondary.EngineerRecord{ID: "ENG-002", Name: "Ben", Skills: []string{"Electrical"}},
	)
	f.tasks.add(&secondary.TaskRecord{ID: "TASK-010", AssetID: "AST-010", AssetType: "Generator", Priority: "High", DueDate: monday})

	summary, err := f.svc.RunOnce(context.Background(), monday)
	require.NoError(t, err)
	require.Len(t, summary.Assignments, 1)
	assert.Equal(t, "ENG-001", summary.Assignments[0].EngineerID)
}

func TestRunOnce_AssignFailureIsRecordedAndRunContinues(t *testing.T) {
	f := newOptimizerFixture(t, defaultOptimizerConfig(),
		&secondary.EngineerRecord{ID: "ENG-001", Name: "Ana", Skills: []string{"Electrical"}},
	)
	f.tasks.add(&secondary.TaskRecord{ID: "TASK-010", AssetID: "AST-010", AssetType: "Generator", Priority: "High", DueDate: monday})
	f.tasks.add(&secondary.TaskRecord{ID: "TASK-011", AssetID: "AST-010", AssetType: "Generator", Priority: "Medium", DueDate: monday})
	f.tasks.assignErr["TASK-010"] = errors.New("database is locked")

	summary, err := f.svc.RunOnce(context.Background(), monday)
	require.NoError(t, err)

	assert.Equal(t, primary.OutcomeCompleted, summary.Outcome)
	assert.Equal(t, 1, summary.AssignedCount)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "TASK-010", summary.Errors[0].TaskID)
	assert.Equal(t, "ENG-001", f.tasks.get("TASK-011").AssigneeID)
}

func TestRunOnce_IdleWhenNothingToAssign(t *testing.T) {
	f := newOptimizerFixture(t, defaultOptimizerConfig(),
		&secondary.EngineerRecord{ID: "ENG-001", Name: "Ana", Skills: []string{"Electrical"}},
		&secondary.EngineerRecord{ID: "ENG-009", Name: "Mia", Role: RoleManager},
	)
	// outside the lookahead window
	f.tasks.add(&secondary.TaskRecord{ID: "TASK-010", AssetID: "AST-010", AssetType: "Generator", Priority: "High", DueDate: date(2026, time.November, 30)})

	summary, err := f.svc.RunOnce(context.Background(), monday)
	require.NoError(t, err)

	assert.Equal(t, primary.OutcomeIdle, summary.Outcome)
	assert.Equal(t, 0, summary.CandidateTasks)
	assert.Zero(t, f.tasks.assignCalls)
	assert.Empty(t, f.notifier.ofType(secondary.NotificationOptimizerSummary))
}

func TestRunOnce_AbortsWhenReferenceDataFails(t *testing.T) {
	f := newOptimizerFixture(t, defaultOptimizerConfig(),
		&secondary.EngineerRecord{ID: "ENG-001", Name: "Ana", Skills: []string{"Electrical"}},
	)
	f.tasks.add(&secondary.TaskRecord{ID: "TASK-010", AssetID: "AST-010", AssetType: "Generator", Priority: "High", DueDate: monday})
	f.holidays.listErr = errors.New("no such table: holidays")

	summary, err := f.svc.RunOnce(context.Background(), monday)
	require.Error(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, primary.OutcomeAborted, summary.Outcome)
	require.Len(t, summary.LoadErrors, 1)
	assert.Contains(t, summary.LoadErrors[0], "failed to load holidays")
	assert.Zero(t, f.tasks.assignCalls)
	assert.Empty(t, f.tasks.get("TASK-010").AssigneeID)
}

func TestRunOnce_CancelledContextAborts(t *testing.T) {
	f := newOptimizerFixture(t, defaultOptimizerConfig(),
		&secondary.EngineerRecord{ID: "ENG-001", Name: "Ana", Skills: []string{"Electrical"}},
	)
	f.tasks.add(&secondary.TaskRecord{ID: "TASK-010", AssetID: "AST-010", AssetType: "Generator", Priority: "High", DueDate: monday})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := f.svc.RunOnce(ctx, monday)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, primary.OutcomeAborted, summary.Outcome)
	assert.Equal(t, 0, summary.AssignedCount)
}

func TestRunOnce_RejectsOverlappingRun(t *testing.T) {
	f := newOptimizerFixture(t, defaultOptimizerConfig())

	f.svc.runMu.Lock()
	summary, err := f.svc.RunOnce(context.Background(), monday)
	f.svc.runMu.Unlock()

	assert.Nil(t, summary)
	assert.ErrorIs(t, err, primary.ErrRunInProgress)
}

func TestRunOnce_ZeroDateUsesClock(t *testing.T) {
	f := newOptimizerFixture(t, defaultOptimizerConfig())

	summary, err := f.svc.RunOnce(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", summary.ReferenceDate)
	assert.Equal(t, "2026-09-19", summary.WindowStart)
	assert.Equal(t, "2026-10-26", summary.WindowEnd)
}

func TestRunOnce_NotifiesManagers(t *testing.T) {
	f := newOptimizerFixture(t, defaultOptimizerConfig(),
		&secondary.EngineerRecord{ID: "ENG-001", Name: "Ana", Skills: []string{"Electrical", "Generator Maintenance"}},
		&secondary.EngineerRecord{ID: "ENG-009", Name: "Mia", Role: RoleManager, Skills: []string{"Administration"}, Email: "mia@example.com"},
	)
	f.tasks.add(&secondary.TaskRecord{ID: "TASK-010", AssetID: "AST-010", AssetType: "Generator", Priority: "High", DueDate: monday})
	f.tasks.add(&secondary.TaskRecord{ID: "TASK-011", AssetID: "AST-010", AssetType: "Generator", Priority: "High", DueDate: date(2026, time.October, 24)})

	summary, err := f.svc.RunOnce(context.Background(), monday)
	require.NoError(t, err)

	sent := f.notifier.ofType(secondary.NotificationOptimizerSummary)
	require.Len(t, sent, 1)
	assert.Equal(t, "ENG-009", sent[0].RecipientID)
	assert.Equal(t, "mia@example.com", sent[0].RecipientEmail)
	assert.Equal(t, "Daily assignment run 2026-10-19", sent[0].Title)
	assert.Equal(t, SummaryMessage(summary), sent[0].Message)
	assert.Equal(t, "Assigned 1 of 2 candidate tasks across 1 engineer; skipped 1 (non_work_day: 1). Per engineer: Ana 1.", sent[0].Message)
}

func TestRunOnce_NotificationFailureDoesNotFailRun(t *testing.T) {
	f := newOptimizerFixture(t, defaultOptimizerConfig(),
		&secondary.EngineerRecord{ID: "ENG-001", Name: "Ana", Skills: []string{"Electrical"}},
	)
	f.notifier.fail = true
	f.tasks.add(&secondary.TaskRecord{ID: "TASK-010", AssetID: "AST-010", AssetType: "Generator", Priority: "High", DueDate: monday})

	summary, err := f.svc.RunOnce(context.Background(), monday)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.AssignedCount)
	assert.Equal(t, int64(1), f.svc.dispatcher.Failures())
}

func TestSummaryMessage(t *testing.T) {
	summary := &primary.RunSummary{
		CandidateTasks: 6,
		AssignedCount:  3,
		Skipped:        map[string]int{primary.SkipNoAvailability: 1, primary.SkipBelowThreshold: 1},
		Errors:         []primary.TaskError{{TaskID: "TASK-004", Error: "database is locked"}},
		PerEngineer: []primary.EngineerAssignments{
			{EngineerID: "ENG-001", EngineerName: "Ana", Count: 2},
			{EngineerID: "ENG-002", EngineerName: "Ben", Count: 1},
		},
	}

	got := SummaryMessage(summary)
	assert.Equal(t, "Assigned 3 of 6 candidate tasks across 2 engineers; skipped 2 (below_threshold: 1, no_availability: 1); 1 failed. Per engineer: Ana 2, Ben 1.", got)

	empty := SummaryMessage(&primary.RunSummary{})
	assert.True(t, strings.HasPrefix(empty, "Assigned 0 of 0"))
	assert.Equal(t, "Assigned 0 of 0 candidate tasks.", empty)
}

func TestRunOnce_AssetWithoutTypeNeedsMechanical(t *testing.T) {
	f := newOptimizerFixture(t, defaultOptimizerConfig(),
		&secondary.EngineerRecord{ID: "ENG-001", Name: "Ana", Skills: []string{"Electrical"}},
	)
	f.tasks.add(&secondary.TaskRecord{ID: "TASK-010", AssetID: "AST-9", Priority: "Low", DueDate: monday})

	summary, err := f.svc.RunOnce(context.Background(), monday)
	require.NoError(t, err)

	// skill 0 of {Mechanical}: 0.3 + 0.01 is not above 0.4
	assert.Zero(t, summary.AssignedCount)
	assert.Equal(t, []primary.SkippedTask{{TaskID: "TASK-010", Reason: primary.SkipBelowThreshold}}, summary.SkippedTasks)
	assert.Empty(t, f.tasks.get("TASK-010").AssigneeID)
}

func TestRunOnce_NoAssetIsNeutral(t *testing.T) {
	f := newOptimizerFixture(t, defaultOptimizerConfig(),
		&secondary.EngineerRecord{ID: "ENG-001", Name: "Ana", Skills: []string{"Plumbing"}},
	)
	f.tasks.add(&secondary.TaskRecord{ID: "TASK-010", AssetType: "Generator", Priority: "Low", DueDate: monday})

	summary, err := f.svc.RunOnce(context.Background(), monday)
	require.NoError(t, err)

	require.Len(t, summary.Assignments, 1)
	assert.InDelta(t, 0.61, summary.Assignments[0].Score, 0.001)
	assert.Contains(t, summary.Assignments[0].Reason, "skill match 50%")
}
