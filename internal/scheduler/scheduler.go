// Package scheduler re-runs the analysis on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one scheduled run.
type Job func(ctx context.Context) error

// Scheduler runs a job on a standard five-field cron expression. A run
// that is still going when the next one is due causes that next run to be
// skipped.
type Scheduler struct {
	logger  *zap.Logger
	spec    string
	job     Job
	cron    *cron.Cron
	timeout time.Duration
	runs    atomic.Int64
	base    context.Context
}

// New validates spec and prepares a scheduler. Runs are limited to timeout
// when it is positive.
func New(logger *zap.Logger, spec string, timeout time.Duration, job Job) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if job == nil {
		return nil, fmt.Errorf("scheduler requires a job")
	}

	cronLogger := cronLogger{logger: logger.Sugar()}
	s := &Scheduler{
		logger:  logger,
		spec:    spec,
		job:     job,
		timeout: timeout,
		base:    context.Background(),
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
	}

	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins scheduling in the background. Scheduled runs derive their
// context from ctx, so cancelling it cancels a run in progress.
func (s *Scheduler) Start(ctx context.Context) {
	s.base = ctx
	s.cron.Start()
	s.logger.Info("scheduler started",
		zap.String("op", "scheduler.Start"),
		zap.String("schedule", s.spec),
		zap.Time("next", s.Next()),
	)
}

// Stop stops scheduling and waits for a running job to finish or for ctx
// to be done, whichever comes first.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped", zap.String("op", "scheduler.Stop"))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

// Next returns the next scheduled run time, or the zero time when the
// scheduler has not started.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Runs returns how many runs have completed, successful or not.
func (s *Scheduler) Runs() int64 {
	return s.runs.Load()
}

// RunNow runs the job once in the calling goroutine.
func (s *Scheduler) RunNow(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	err := s.job(ctx)
	s.runs.Add(1)
	if err != nil {
		s.logger.Error("scheduled run failed",
			zap.String("op", "scheduler.run"),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return err
	}
	s.logger.Info("scheduled run completed",
		zap.String("op", "scheduler.run"),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func (s *Scheduler) run() {
	_ = s.RunNow(s.base)
}

// cronLogger forwards cron's own log lines to zap.
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
