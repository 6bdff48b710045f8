package commands

import (
	"errors"

	"blogjobs/internal/pkg/guard"
)

var ErrStatisticsSearchKeywordsCommandIsNotConstructed = errors.New(
	"StatisticsSearchKeywordsCommand must be created via NewStatisticsSearchKeywordsCommand constructor",
)

type StatisticsSearchKeywordsCommand struct {
	guard guard.ConstructorGuard
}

func NewStatisticsSearchKeywordsCommand() StatisticsSearchKeywordsCommand {
	return StatisticsSearchKeywordsCommand{guard: guard.NewConstructorGuard()}
}

func (c StatisticsSearchKeywordsCommand) Validate() error {
	return c.guard.Validate(ErrStatisticsSearchKeywordsCommandIsNotConstructed)
}
