package commands

import (
	"context"
	"fmt"
	"time"

	"blogjobs/internal/core/domain/model/kernel"
	"blogjobs/internal/core/ports"
	"blogjobs/internal/pkg/errs"
)

// StatisticsSearchKeywordsCommandHandler caches the most searched keywords of
// the last month, the last week and today. Each run overwrites the cache.
type StatisticsSearchKeywordsCommandHandler struct {
	searchLog ports.SearchLog
	store     ports.KeyValueStore
	clock     kernel.Clock
	limit     int
}

func NewStatisticsSearchKeywordsCommandHandler(
	searchLog ports.SearchLog,
	store ports.KeyValueStore,
	clock kernel.Clock,
	limit int,
) (StatisticsSearchKeywordsCommandHandler, error) {
	if limit < 1 {
		return StatisticsSearchKeywordsCommandHandler{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "max int")
	}
	return StatisticsSearchKeywordsCommandHandler{
		searchLog: searchLog,
		store:     store,
		clock:     clock,
		limit:     limit,
	}, nil
}

func (h *StatisticsSearchKeywordsCommandHandler) Handle(ctx context.Context, cmd StatisticsSearchKeywordsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := h.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	windows := []struct {
		key   string
		since time.Time
	}{
		{KeySearchRankMonth, today.AddDate(0, -1, 0)},
		{KeySearchRankWeek, today.AddDate(0, 0, -7)},
		{KeySearchRankToday, today},
	}

	for _, w := range windows {
		ranks, err := h.searchLog.GetRanks(ctx, w.since, h.limit)
		if err != nil {
			return fmt.Errorf("rank keywords for %s: %w", w.key, err)
		}
		if err = h.store.Set(ctx, w.key, ranks); err != nil {
			return fmt.Errorf("cache %s: %w", w.key, err)
		}
	}
	return nil
}
