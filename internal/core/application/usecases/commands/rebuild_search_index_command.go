package commands

import (
	"errors"

	"blogjobs/internal/pkg/guard"
)

var ErrRebuildSearchIndexCommandIsNotConstructed = errors.New(
	"RebuildSearchIndexCommand must be created via NewRebuildSearchIndexCommand constructor",
)

type RebuildSearchIndexCommand struct {
	guard guard.ConstructorGuard
}

func NewRebuildSearchIndexCommand() RebuildSearchIndexCommand {
	return RebuildSearchIndexCommand{guard: guard.NewConstructorGuard()}
}

func (c RebuildSearchIndexCommand) Validate() error {
	return c.guard.Validate(ErrRebuildSearchIndexCommandIsNotConstructed)
}
