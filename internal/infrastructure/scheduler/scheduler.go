// Package scheduler runs periodic maintenance jobs on a cron clock.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"jobdesk/internal/bootstrap/logging"
	"jobdesk/internal/errs"
)

const HaulingAutocompleteJob = "hauling-autocomplete"

var ErrUnknownJob = errors.New("unknown scheduled job")

type JobFunc func(ctx context.Context) error

type FailureRecorder interface {
	SchedulerFailure(job string)
}

type Scheduler struct {
	ctx      context.Context
	cron     *cron.Cron
	failures FailureRecorder

	mu      sync.Mutex
	entries map[string]cron.EntryID
	jobs    map[string]func()
}

// New builds a scheduler evaluating specs in loc. Job runs inherit ctx's
// logger and are skipped while a previous run of the same job is active.
func New(ctx context.Context, loc *time.Location, failures FailureRecorder) *Scheduler {
	if ctx == nil {
		ctx = context.Background()
	}
	if loc == nil {
		loc = time.UTC
	}
	logCtx := logging.WithAttrs(ctx, slog.String("component", "scheduler"))
	logger := cronLogger{ctx: logCtx}

	return &Scheduler{
		ctx:      logCtx,
		failures: failures,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		entries: map[string]cron.EntryID{},
		jobs:    map[string]func(){},
	}
}

func (s *Scheduler) Register(name string, spec string, run JobFunc) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("job name is required")
	}
	if run == nil {
		return fmt.Errorf("job %s: run func is required", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}

	job := s.wrap(name, run)
	id, err := s.cron.AddFunc(spec, job)
	if err != nil {
		return errs.Wrapf(err, "schedule job %s at %q", name, spec)
	}
	s.entries[name] = id
	s.jobs[name] = job

	logging.Info(s.ctx, "job scheduled", slog.String("job", name), slog.String("spec", spec))
	return nil
}

func (s *Scheduler) wrap(name string, run JobFunc) func() {
	return func() {
		ctx := logging.WithAttrs(s.ctx, slog.String("job", name))
		started := time.Now()
		if err := run(ctx); err != nil {
			if s.failures != nil {
				s.failures.SchedulerFailure(name)
			}
			logging.Error(ctx, "scheduled job failed",
				slog.Duration("elapsed", time.Since(started)),
				slog.Any("err", errs.Loggable(err)),
			)
			return
		}
		logging.Info(ctx, "scheduled job finished", slog.Duration("elapsed", time.Since(started)))
	}
}

// RunNow runs a registered job synchronously, outside the cron clock.
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	job()
	return nil
}

// Next reports the next activation of a registered job. It is zero until
// the scheduler is started.
func (s *Scheduler) Next(name string) (time.Time, error) {
	s.mu.Lock()
	id, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return s.cron.Entry(id).Next, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logging.Info(s.ctx, "scheduler started", slog.Int("jobs", len(s.cron.Entries())))
}

// Stop halts the clock and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		logging.Info(s.ctx, "scheduler stopped")
		return nil
	case <-ctx.Done():
		return errs.Wrap(ctx.Err(), "wait for running jobs")
	}
}

type cronLogger struct {
	ctx context.Context
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	logging.Logger(l.ctx).DebugContext(l.ctx, "cron: "+msg, l.args(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	args := append([]any{slog.Any("err", errs.Loggable(err))}, keysAndValues...)
	logging.Logger(l.ctx).ErrorContext(l.ctx, "cron: "+msg, l.args(args)...)
}

func (l cronLogger) args(keysAndValues []any) []any {
	attrs := logging.Attrs(l.ctx)
	out := make([]any, 0, len(attrs)+len(keysAndValues))
	for _, attr := range attrs {
		out = append(out, attr)
	}
	return append(out, keysAndValues...)
}
