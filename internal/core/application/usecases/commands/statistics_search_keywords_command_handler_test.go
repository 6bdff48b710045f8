package commands_test

import (
	"errors"
	"testing"
	"time"

	"blogjobs/internal/core/application/usecases/commands"
	"blogjobs/internal/core/domain/model/kernel"
	"blogjobs/internal/core/domain/model/visitor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStatisticsSearchKeywordsCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2024, 6, 15, 17, 45, 0, 0, time.UTC)
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	month := []visitor.SearchRank{{Keywords: "golang", Count: 40}}
	week := []visitor.SearchRank{{Keywords: "golang", Count: 9}}
	day := []visitor.SearchRank{{Keywords: "cron", Count: 2}}

	searchLog := new(SearchLog)
	store := new(KVStore)
	mock.InOrder(
		searchLog.On("GetRanks", ctx, today.AddDate(0, -1, 0), 30).Return(month, nil).Once(),
		store.On("Set", ctx, commands.KeySearchRankMonth, month).Return(nil).Once(),
		searchLog.On("GetRanks", ctx, today.AddDate(0, 0, -7), 30).Return(week, nil).Once(),
		store.On("Set", ctx, commands.KeySearchRankWeek, week).Return(nil).Once(),
		searchLog.On("GetRanks", ctx, today, 30).Return(day, nil).Once(),
		store.On("Set", ctx, commands.KeySearchRankToday, day).Return(nil).Once(),
	)

	handler, err := commands.NewStatisticsSearchKeywordsCommandHandler(searchLog, store, kernel.FixedClock(now), 30)
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, commands.NewStatisticsSearchKeywordsCommand()))
	searchLog.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestStatisticsSearchKeywordsCommandHandler_Handle_QueryError(t *testing.T) {
	ctx := t.Context()
	searchLog := new(SearchLog)
	store := new(KVStore)
	searchLog.On("GetRanks", ctx, mock.Anything, 10).Return(nil, errors.New("timeout")).Once()

	handler, err := commands.NewStatisticsSearchKeywordsCommandHandler(searchLog, store, kernel.SystemClock{}, 10)
	require.NoError(t, err)

	err = handler.Handle(ctx, commands.NewStatisticsSearchKeywordsCommand())

	require.Error(t, err)
	assert.Contains(t, err.Error(), commands.KeySearchRankMonth)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}
