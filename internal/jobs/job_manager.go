package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"blogjobs/internal/core/domain/model/job"

	"github.com/robfig/cron/v3"
)

// ErrJobAlreadyRunning is returned by Trigger while a run of the same
// recurring job is in progress.
var ErrJobAlreadyRunning = errors.New("job is already running")

// RecurringJob fires a catalog job on a cron schedule with seconds precision.
type RecurringJob struct {
	Name job.Name
	Spec string
}

// JobManager coordinates the job scheduler and the recurring triggers.
//
// A recurring job never overlaps with itself, whichever way it was started.
// Each recurring name owns an in-flight guard shared by the cron entry and
// by Trigger:
//
//   - a cron tick that fires while the previous run is still busy is skipped;
//   - Trigger returns ErrJobAlreadyRunning while a run is active;
//   - a triggered run that reaches a worker after a cron run took the guard
//     is skipped and logged.
//
// Usage:
//
//	jm := jobs.NewJobManager(scheduler, []jobs.RecurringJob{
//		{Name: job.CheckLinks, Spec: "0 0 4 * * *"},
//	}, logger)
//	if err := jm.StartAll(); err != nil {
//		return err
//	}
//	defer jm.StopAll(shutdownCtx)
//
//	handle, err := jm.Trigger(ctx, job.CheckLinks)
//	if errors.Is(err, jobs.ErrJobAlreadyRunning) {
//		// a check is already in progress
//	}
type JobManager struct {
	scheduler *Scheduler
	recurring []RecurringJob
	cron      *cron.Cron
	logger    *slog.Logger

	// guards is filled in the constructor and read-only afterwards.
	guards map[job.Name]*sync.Mutex
}

// NewJobManager creates a job manager; nothing runs until StartAll.
func NewJobManager(scheduler *Scheduler, recurring []RecurringJob, logger *slog.Logger) *JobManager {
	logger = logger.With("component", "job_manager")
	cl := newCronLogger(logger)
	guards := make(map[job.Name]*sync.Mutex, len(recurring))
	for _, r := range recurring {
		guards[r.Name] = &sync.Mutex{}
	}
	return &JobManager{
		scheduler: scheduler,
		recurring: recurring,
		guards:    guards,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
	}
}

// StartAll registers the recurring jobs and starts the scheduler and cron.
// Returns an error if any recurring job cannot be registered. Call it once.
func (jm *JobManager) StartAll() error {
	for _, r := range jm.recurring {
		entry, err := jm.scheduler.catalog.Lookup(r.Name)
		if err != nil {
			return fmt.Errorf("failed to register recurring job %s: %w", r.Name, err)
		}
		name := r.Name
		if err := jm.scheduler.catalog.Register(name, entry.Policy, jm.guarded(name, entry.Handler)); err != nil {
			return fmt.Errorf("failed to register recurring job %s: %w", r.Name, err)
		}
		if _, err := jm.cron.AddFunc(r.Spec, func() {
			ctx := context.Background()
			if err := jm.scheduler.RunNow(ctx, name, struct{}{}); err != nil {
				jm.logger.ErrorContext(ctx, "Recurring job failed", "job", name, "error", err)
			}
		}); err != nil {
			return fmt.Errorf("failed to register recurring job %s (%q): %w", r.Name, r.Spec, err)
		}
		jm.logger.Info("Recurring job registered", "job", r.Name, "spec", r.Spec)
	}

	jm.scheduler.Start()
	jm.cron.Start()
	jm.logger.Info("Recurring jobs started", "count", len(jm.recurring))
	return nil
}

// StopAll stops cron, waits for running recurring jobs and stops the scheduler.
func (jm *JobManager) StopAll(ctx context.Context) error {
	cronCtx := jm.cron.Stop()
	select {
	case <-cronCtx.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := jm.scheduler.Stop(ctx); err != nil {
		return err
	}
	jm.logger.Info("Recurring jobs stopped")
	return nil
}

// Trigger runs a recurring or ad-hoc job through the worker pool right away.
// For a recurring job it fails with ErrJobAlreadyRunning while a run is active.
func (jm *JobManager) Trigger(ctx context.Context, name job.Name) (job.Handle, error) {
	if guard, ok := jm.guards[name]; ok {
		if !guard.TryLock() {
			return job.Handle{}, fmt.Errorf("trigger %s: %w", name, ErrJobAlreadyRunning)
		}
		guard.Unlock()
	}
	return jm.scheduler.Enqueue(ctx, name, struct{}{})
}

// guarded wraps a recurring job handler so that at most one attempt of the
// job runs at a time.
func (jm *JobManager) guarded(name job.Name, handler HandlerFunc) HandlerFunc {
	guard := jm.guards[name]
	return func(ctx context.Context, payload json.RawMessage) error {
		if !guard.TryLock() {
			jm.logger.InfoContext(ctx, "Recurring job skipped, previous run still busy", "job", name)
			return nil
		}
		defer guard.Unlock()
		return handler(ctx, payload)
	}
}
