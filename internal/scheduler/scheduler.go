// Package scheduler triggers the daily optimizer run on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is the unit of scheduled work. The context is cancelled when the
// scheduler stops.
type Job func(ctx context.Context)

// Scheduler runs one job on a cron schedule, never overlapping itself.
type Scheduler struct {
	cron    *cron.Cron
	entryID cron.EntryID
	logger  *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

// New parses schedule (standard five-field cron, or descriptors like @daily)
// and registers job. Times are evaluated in loc; nil means UTC.
func New(schedule string, loc *time.Location, job Job, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}

	cl := cronLogger{logger: logger}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{cron: c, logger: logger, ctx: ctx, cancel: cancel}

	id, err := c.AddFunc(schedule, func() { job(s.ctx) })
	if err != nil {
		cancel()
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	s.entryID = id
	return s, nil
}

// Start begins running the schedule in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", slog.Time("next_run", s.Next()))
}

// Next returns the next activation time, or zero if the scheduler is not running.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entryID).Next
}

// Stop halts the schedule, cancels the running job's context and waits
// for it to return or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, slog.String("error", err.Error()))...)
}

var _ cron.Logger = cronLogger{}
