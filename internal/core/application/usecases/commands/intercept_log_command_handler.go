package commands

import (
	"context"
	"fmt"

	"blogjobs/internal/core/ports"
)

// InterceptLogCommandHandler bumps the global intercept counter, resolves the
// blocked client's address and appends the record to the bounded intercept
// list. An unresolved address is stored empty; it never fails the job.
type InterceptLogCommandHandler struct {
	store    ports.KeyValueStore
	resolver ports.GeoResolver
}

func NewInterceptLogCommandHandler(store ports.KeyValueStore, resolver ports.GeoResolver) InterceptLogCommandHandler {
	return InterceptLogCommandHandler{store: store, resolver: resolver}
}

func (h *InterceptLogCommandHandler) Handle(ctx context.Context, cmd InterceptLogCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if _, err := h.store.IncrementCounter(ctx, CounterInterceptCount); err != nil {
		return fmt.Errorf("increment %s: %w", CounterInterceptCount, err)
	}

	record := cmd.Interception
	if address, err := h.resolver.Resolve(ctx, record.IP); err == nil {
		record.Address = address.Formatted
	}

	if err := h.store.Push(ctx, ListIntercept, record); err != nil {
		return fmt.Errorf("push %s: %w", ListIntercept, err)
	}
	return nil
}
