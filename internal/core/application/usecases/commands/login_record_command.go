package commands

import (
	"errors"
	"strings"

	"blogjobs/internal/core/domain/model/visitor"
	"blogjobs/internal/pkg/errs"
	"blogjobs/internal/pkg/guard"
)

var ErrLoginRecordCommandIsNotConstructed = errors.New(
	"LoginRecordCommand must be created via NewLoginRecordCommand constructor",
)

// LoginRecordCommand records a successful sign-in.
type LoginRecordCommand struct {
	Username  string            `json:"username"`
	IP        string            `json:"ip"`
	LoginType visitor.LoginType `json:"login_type"`

	guard guard.ConstructorGuard
}

func NewLoginRecordCommand(username, ip string, loginType visitor.LoginType) (LoginRecordCommand, error) {
	if strings.TrimSpace(username) == "" {
		return LoginRecordCommand{}, errs.NewValueIsRequiredError("username")
	}
	if strings.TrimSpace(ip) == "" {
		return LoginRecordCommand{}, errs.NewValueIsRequiredError("ip")
	}
	if loginType < visitor.LoginDefault || loginType > visitor.LoginToken {
		return LoginRecordCommand{}, errs.NewValueIsOutOfRangeError("login type", loginType, visitor.LoginDefault, visitor.LoginToken)
	}
	return LoginRecordCommand{
		Username:  username,
		IP:        ip,
		LoginType: loginType,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c LoginRecordCommand) Validate() error {
	return c.guard.Validate(ErrLoginRecordCommandIsNotConstructed)
}
