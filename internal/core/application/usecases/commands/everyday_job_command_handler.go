package commands

import (
	"context"
	"errors"
	"fmt"

	"blogjobs/internal/core/domain/model/kernel"
	"blogjobs/internal/core/ports"
	"blogjobs/internal/pkg/errs"
)

// EverydayJobResult summarizes what one maintenance pass removed or flushed.
type EverydayJobResult struct {
	PrunedAbuseEntries int
	RunningDays        int64
	DeletedSearchRows  int64
	FlushedTracking    int
}

// EverydayJobCommandHandler prunes the per-IP abuse counters, advances the
// running-days counter, drops search history older than a month and flushes
// buffered tracking records. Steps are independent: a failing step does not
// stop the others, and every failure is reported together.
type EverydayJobCommandHandler struct {
	abuse     ports.AbuseCounter
	store     ports.KeyValueStore
	searchLog ports.SearchLog
	tracking  ports.TrackingBuffer
	clock     kernel.Clock
	threshold int64
}

func NewEverydayJobCommandHandler(
	abuse ports.AbuseCounter,
	store ports.KeyValueStore,
	searchLog ports.SearchLog,
	tracking ports.TrackingBuffer,
	clock kernel.Clock,
	threshold int64,
) (EverydayJobCommandHandler, error) {
	if threshold < 1 {
		return EverydayJobCommandHandler{}, errs.NewValueIsOutOfRangeError("abuse threshold", threshold, 1, "max int64")
	}
	return EverydayJobCommandHandler{
		abuse:     abuse,
		store:     store,
		searchLog: searchLog,
		tracking:  tracking,
		clock:     clock,
		threshold: threshold,
	}, nil
}

func (h *EverydayJobCommandHandler) Handle(ctx context.Context, cmd EverydayJobCommand) (EverydayJobResult, error) {
	if err := cmd.Validate(); err != nil {
		return EverydayJobResult{}, err
	}

	var (
		result  EverydayJobResult
		errList []error
		err     error
	)

	result.PrunedAbuseEntries = h.abuse.Prune(h.threshold)

	if result.RunningDays, err = h.store.IncrementCounter(ctx, CounterRunningDays); err != nil {
		errList = append(errList, fmt.Errorf("increment %s: %w", CounterRunningDays, err))
	}

	cutoff := h.clock.Now().AddDate(0, -1, 0)
	if result.DeletedSearchRows, err = h.searchLog.DeleteBefore(ctx, cutoff); err != nil {
		errList = append(errList, fmt.Errorf("delete search history: %w", err))
	}

	if result.FlushedTracking, err = h.tracking.Flush(ctx); err != nil {
		errList = append(errList, fmt.Errorf("flush tracking: %w", err))
	}

	return result, errors.Join(errList...)
}
