package geo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"blogjobs/internal/core/domain/model/visitor"
	"blogjobs/internal/core/ports"
	"blogjobs/internal/pkg/errs"
)

// ChainResolver returns the first non-empty address of its resolvers.
type ChainResolver struct {
	resolvers []ports.GeoResolver
	logger    *slog.Logger
}

func NewChainResolver(logger *slog.Logger, resolvers ...ports.GeoResolver) (*ChainResolver, error) {
	if len(resolvers) == 0 {
		return nil, errs.NewValueIsRequiredError("resolvers")
	}
	return &ChainResolver{resolvers: resolvers, logger: logger.With("component", "geo")}, nil
}

func (c *ChainResolver) Name() string { return "chain" }

func (c *ChainResolver) Resolve(ctx context.Context, ip string) (visitor.Address, error) {
	var failures []error
	for _, r := range c.resolvers {
		addr, err := r.Resolve(ctx, ip)
		if err == nil && !addr.IsZero() {
			return addr, nil
		}
		if err == nil {
			err = errs.NewObjectNotFoundError("address", ip)
		}
		c.logger.Debug("resolver fell through", "resolver", r.Name(), "ip", ip, "error", err)
		failures = append(failures, fmt.Errorf("%s: %w", r.Name(), err))
	}
	return visitor.Address{}, errors.Join(failures...)
}
