package cmd

import (
	"context"

	"blogjobs/internal/core/domain/model/visitor"
	"blogjobs/internal/pkg/errs"
)

// unresolved stands in when no geolocation source is configured.
type unresolved struct{}

func (unresolved) Name() string { return "none" }

func (unresolved) Resolve(_ context.Context, ip string) (visitor.Address, error) {
	return visitor.Address{}, errs.NewObjectNotFoundError("address", ip)
}
