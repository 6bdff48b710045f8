// Package fanout runs one action per target with bounded parallelism and
// collects a per-target outcome. A failing, panicking or timed-out target is
// recorded in its own slot and never stops the others.
package fanout

import (
	"context"
	"errors"
	"fmt"
	"net"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status is the terminal state of one target.
type Status int

const (
	Succeeded Status = iota + 1
	Failed
	TimedOut
)

func (s Status) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case TimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Action is run once per target. It must only write state owned by its target.
type Action[T any] func(ctx context.Context, target T) error

// Outcome is the result of one target's action.
type Outcome[T any] struct {
	Target   T
	Status   Status
	Err      error
	Duration time.Duration
}

// Report lists outcomes in target order.
type Report[T any] struct {
	Outcomes []Outcome[T]
}

func (r Report[T]) Succeeded() int {
	return r.count(func(s Status) bool { return s == Succeeded })
}

// Failed counts failed and timed-out targets.
func (r Report[T]) Failed() int {
	return r.count(func(s Status) bool { return s != Succeeded })
}

func (r Report[T]) count(match func(Status) bool) int {
	n := 0
	for _, o := range r.Outcomes {
		if match(o.Status) {
			n++
		}
	}
	return n
}

// RunAll attempts action exactly once for every target, at most maxConcurrency
// at a time, and returns after every target reached a terminal outcome.
// maxConcurrency below 1 is treated as 1.
func RunAll[T any](ctx context.Context, targets []T, action Action[T], maxConcurrency int) Report[T] {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	outcomes := make([]Outcome[T], len(targets))

	var g errgroup.Group
	g.SetLimit(maxConcurrency)
	for i, target := range targets {
		g.Go(func() error {
			outcomes[i] = runOne(ctx, target, action)
			return nil
		})
	}
	_ = g.Wait()

	return Report[T]{Outcomes: outcomes}
}

func runOne[T any](ctx context.Context, target T, action Action[T]) (out Outcome[T]) {
	start := time.Now()
	out.Target = target
	defer func() {
		if r := recover(); r != nil {
			out.Status = Failed
			out.Err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
		out.Duration = time.Since(start)
	}()

	err := action(ctx, target)
	out.Err = err
	out.Status = classify(err)
	return out
}

func classify(err error) Status {
	if err == nil {
		return Succeeded
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return TimedOut
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return TimedOut
	}
	return Failed
}
