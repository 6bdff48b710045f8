package commands

import (
	"errors"

	"blogjobs/internal/core/domain/model/broadcast"
	"blogjobs/internal/pkg/guard"
)

var ErrSendBroadcastUnitCommandIsNotConstructed = errors.New(
	"SendBroadcastUnitCommand must be created via NewSendBroadcastUnitCommand constructor",
)

// SendBroadcastUnitCommand delivers one pre-rendered broadcast mail.
type SendBroadcastUnitCommand struct {
	Unit broadcast.Unit `json:"unit"`

	guard guard.ConstructorGuard
}

func NewSendBroadcastUnitCommand(unit broadcast.Unit) (SendBroadcastUnitCommand, error) {
	if err := unit.Validate(); err != nil {
		return SendBroadcastUnitCommand{}, err
	}
	return SendBroadcastUnitCommand{Unit: unit, guard: guard.NewConstructorGuard()}, nil
}

func (c SendBroadcastUnitCommand) Validate() error {
	return c.guard.Validate(ErrSendBroadcastUnitCommandIsNotConstructed)
}
