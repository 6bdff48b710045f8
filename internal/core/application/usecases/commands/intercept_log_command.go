package commands

import (
	"errors"
	"strings"

	"blogjobs/internal/core/domain/model/visitor"
	"blogjobs/internal/pkg/errs"
	"blogjobs/internal/pkg/guard"
)

var ErrInterceptLogCommandIsNotConstructed = errors.New(
	"InterceptLogCommand must be created via NewInterceptLogCommand constructor",
)

// InterceptLogCommand records one blocked request.
type InterceptLogCommand struct {
	Interception visitor.Interception `json:"interception"`

	guard guard.ConstructorGuard
}

func NewInterceptLogCommand(interception visitor.Interception) (InterceptLogCommand, error) {
	if strings.TrimSpace(interception.IP) == "" {
		return InterceptLogCommand{}, errs.NewValueIsRequiredError("ip")
	}
	return InterceptLogCommand{Interception: interception, guard: guard.NewConstructorGuard()}, nil
}

func (c InterceptLogCommand) Validate() error {
	return c.guard.Validate(ErrInterceptLogCommandIsNotConstructed)
}
