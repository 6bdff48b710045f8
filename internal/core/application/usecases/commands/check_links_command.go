package commands

import (
	"errors"

	"blogjobs/internal/pkg/guard"
)

var ErrCheckLinksCommandIsNotConstructed = errors.New(
	"CheckLinksCommand must be created via NewCheckLinksCommand constructor",
)

// CheckLinksCommand probes every checkable partner link once.
type CheckLinksCommand struct {
	guard guard.ConstructorGuard
}

func NewCheckLinksCommand() CheckLinksCommand {
	return CheckLinksCommand{guard: guard.NewConstructorGuard()}
}

func (c CheckLinksCommand) Validate() error {
	return c.guard.Validate(ErrCheckLinksCommandIsNotConstructed)
}
