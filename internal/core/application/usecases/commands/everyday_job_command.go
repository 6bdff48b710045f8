package commands

import (
	"errors"

	"blogjobs/internal/pkg/guard"
)

var ErrEverydayJobCommandIsNotConstructed = errors.New(
	"EverydayJobCommand must be created via NewEverydayJobCommand constructor",
)

// EverydayJobCommand runs the daily maintenance pass.
type EverydayJobCommand struct {
	guard guard.ConstructorGuard
}

func NewEverydayJobCommand() EverydayJobCommand {
	return EverydayJobCommand{guard: guard.NewConstructorGuard()}
}

func (c EverydayJobCommand) Validate() error {
	return c.guard.Validate(ErrEverydayJobCommandIsNotConstructed)
}
