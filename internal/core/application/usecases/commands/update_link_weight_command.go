package commands

import (
	"errors"
	"net/url"
	"strings"

	"blogjobs/internal/pkg/errs"
	"blogjobs/internal/pkg/guard"
)

var ErrUpdateLinkWeightCommandIsNotConstructed = errors.New(
	"UpdateLinkWeightCommand must be created via NewUpdateLinkWeightCommand constructor",
)

// UpdateLinkWeightCommand credits the partner links a visitor came from.
type UpdateLinkWeightCommand struct {
	Referrer string `json:"referrer"`
	host     string

	guard guard.ConstructorGuard
}

func NewUpdateLinkWeightCommand(referrer string) (UpdateLinkWeightCommand, error) {
	referrer = strings.TrimSpace(referrer)
	if referrer == "" {
		return UpdateLinkWeightCommand{}, errs.NewValueIsRequiredError("referrer")
	}
	u, err := url.Parse(referrer)
	if err != nil {
		return UpdateLinkWeightCommand{}, errs.NewValueIsInvalidErrorWithCause("referrer", err)
	}
	if u.Hostname() == "" {
		return UpdateLinkWeightCommand{}, errs.NewValueIsInvalidError("referrer")
	}
	return UpdateLinkWeightCommand{
		Referrer: referrer,
		host:     u.Hostname(),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Host is the referrer host used to match links.
func (c UpdateLinkWeightCommand) Host() string {
	return c.host
}

func (c UpdateLinkWeightCommand) Validate() error {
	return c.guard.Validate(ErrUpdateLinkWeightCommandIsNotConstructed)
}
