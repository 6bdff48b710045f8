package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"blogjobs/internal/core/domain/model/job"
	"blogjobs/internal/core/domain/model/kernel"
	"blogjobs/internal/pkg/errs"
)

const queueSize = 256

// ErrSchedulerStopped is returned for jobs submitted after Stop.
var ErrSchedulerStopped = errors.New("job scheduler is stopped")

// DeadLetterFunc receives jobs that failed their last allowed attempt.
type DeadLetterFunc func(ctx context.Context, j job.Job, err error)

// Scheduler is an in-process delay scheduler with a bounded worker pool.
// Every job runs independently: one job's failure, panic or retry never
// affects another. Jobs pending in timers or the queue are lost on Stop.
//
// A job is looked up by name in the Catalog when it is submitted and again
// when it runs, so the handler registered at run time is the one called.
// Failed attempts are retried after the entry's RetryPolicy delay until the
// policy is exhausted; the last failure goes to the dead-letter hook.
// Invalid values (errs.ErrValueIsInvalid and friends) are never retried.
//
// Usage:
//
//	catalog := jobs.NewCatalog()
//	policy := job.RetryPolicy{MaxRetries: 1, RetryDelay: time.Minute}
//	_ = catalog.Register(job.SendBroadcastUnit, policy, sendUnit)
//
//	s, err := jobs.NewScheduler(catalog, 4, logger,
//		jobs.WithDeadLetter(func(ctx context.Context, j job.Job, err error) {
//			logger.ErrorContext(ctx, "job dropped", "job", j.String(), "error", err)
//		}),
//	)
//	if err != nil {
//		return err
//	}
//	s.Start()
//	defer s.Stop(shutdownCtx)
//
//	handle, err := s.ScheduleAt(ctx, job.SendBroadcastUnit, unit, unit.SendAt)
type Scheduler struct {
	catalog    *Catalog
	clock      kernel.Clock
	logger     *slog.Logger
	workers    int
	deadLetter DeadLetterFunc

	mu      sync.Mutex
	started bool
	stopped bool
	queue   chan job.Job
	stopCh  chan struct{}
	timers  map[kernel.UUID]*time.Timer
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// SchedulerOption customizes a Scheduler.
type SchedulerOption func(*Scheduler)

// WithDeadLetter sets the hook for exhausted jobs.
func WithDeadLetter(fn DeadLetterFunc) SchedulerOption {
	return func(s *Scheduler) { s.deadLetter = fn }
}

// WithClock replaces the system clock.
func WithClock(clock kernel.Clock) SchedulerOption {
	return func(s *Scheduler) { s.clock = clock }
}

// NewScheduler creates a scheduler with the given number of workers. Nothing
// runs until Start; jobs submitted earlier wait in the queue.
//
// Returns:
//   - errs.ErrValueIsRequired if catalog is nil
//   - errs.ErrValueIsOutOfRange if workers is below 1
func NewScheduler(catalog *Catalog, workers int, logger *slog.Logger, opts ...SchedulerOption) (*Scheduler, error) {
	if catalog == nil {
		return nil, errs.NewValueIsRequiredError("catalog")
	}
	if workers < 1 {
		return nil, errs.NewValueIsOutOfRangeError("workers", workers, 1, "max int")
	}
	s := &Scheduler{
		catalog: catalog,
		clock:   kernel.SystemClock{},
		logger:  logger.With("component", "job_scheduler"),
		workers: workers,
		queue:   make(chan job.Job, queueSize),
		stopCh:  make(chan struct{}),
		timers:  make(map[kernel.UUID]*time.Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start launches the workers. Jobs submitted before Start wait in the queue.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true
	s.baseCtx, s.cancel = context.WithCancel(context.Background())

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	s.logger.Info("job scheduler started", "workers", s.workers)
}

// Stop cancels pending timers and running jobs, then waits for the workers
// to return or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	close(s.stopCh)
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("job scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue runs the job as soon as a worker is free.
func (s *Scheduler) Enqueue(ctx context.Context, name job.Name, payload any) (job.Handle, error) {
	return s.ScheduleAt(ctx, name, payload, s.clock.Now())
}

// ScheduleAt runs the job at when. A time at or before now runs immediately.
func (s *Scheduler) ScheduleAt(ctx context.Context, name job.Name, payload any, when time.Time) (job.Handle, error) {
	entry, err := s.catalog.Lookup(name)
	if err != nil {
		return job.Handle{}, err
	}
	j, err := job.New(name, payload, when, entry.Policy)
	if err != nil {
		return job.Handle{}, err
	}
	if err = s.submit(j); err != nil {
		return job.Handle{}, err
	}
	s.logger.DebugContext(ctx, "job scheduled", "job", j.String(), "run_at", j.RunAt)
	return j.Handle(), nil
}

// RunNow executes one attempt of the job in the calling goroutine. A failed
// attempt that may be retried is handed to the worker pool.
func (s *Scheduler) RunNow(ctx context.Context, name job.Name, payload any) error {
	entry, err := s.catalog.Lookup(name)
	if err != nil {
		return err
	}
	j, err := job.New(name, payload, s.clock.Now(), entry.Policy)
	if err != nil {
		return err
	}
	return s.run(ctx, j)
}

// Pending is the number of jobs waiting on a timer.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *Scheduler) submit(j job.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrSchedulerStopped
	}

	delay := j.Delay(s.clock.Now())
	if delay == 0 {
		go s.dispatch(j)
		return nil
	}
	s.timers[j.ID] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, j.ID)
		s.mu.Unlock()
		s.dispatch(j)
	})
	return nil
}

func (s *Scheduler) dispatch(j job.Job) {
	select {
	case s.queue <- j:
	case <-s.stopCh:
		s.logger.Warn("job discarded on shutdown", "job", j.String())
	}
}

func (s *Scheduler) worker() {
	defer s.wg.Done()
	for {
		select {
		case <-s.stopCh:
			return
		case j := <-s.queue:
			_ = s.run(s.baseCtx, j)
		}
	}
}

// run executes one attempt and decides between retry, dead letter and done.
func (s *Scheduler) run(ctx context.Context, j job.Job) error {
	entry, err := s.catalog.Lookup(j.Name)
	if err != nil {
		s.logger.ErrorContext(ctx, "job failed", "job", j.String(), "error", err)
		return err
	}

	j.Attempt++
	start := time.Now()
	s.logger.DebugContext(ctx, "job started", "job", j.String(), "attempt", j.Attempt)

	err = safeCall(ctx, entry.Handler, j)
	dur := time.Since(start)
	if err == nil {
		s.logger.InfoContext(ctx, "job completed", "job", j.String(), "attempt", j.Attempt, "dur", dur)
		return nil
	}

	if j.CanRetry() && !isPermanent(err) {
		j.RunAt = s.clock.Now().Add(j.Policy.RetryDelay)
		if submitErr := s.submit(j); submitErr == nil {
			s.logger.WarnContext(ctx, "job retry scheduled",
				"job", j.String(), "attempt", j.Attempt, "run_at", j.RunAt, "error", err)
			return err
		}
	}

	s.logger.ErrorContext(ctx, "job dropped", "job", j.String(), "attempts", j.Attempt, "dur", dur, "error", err)
	if s.deadLetter != nil {
		s.deadLetter(context.WithoutCancel(ctx), j, err)
	}
	return err
}

func safeCall(ctx context.Context, handler HandlerFunc, j job.Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v\n%s", j.Name, r, debug.Stack())
		}
	}()
	return handler(ctx, j.Payload)
}

// isPermanent reports errors that a retry cannot fix.
func isPermanent(err error) bool {
	return errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsOutOfRange)
}
