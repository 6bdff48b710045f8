package commands

import (
	"context"
	"fmt"
)

// UpdateLinkWeightCommandHandler increments the weight of every link whose URL
// contains the referrer host. Links of other hosts are left untouched.
type UpdateLinkWeightCommandHandler struct {
	uowFactory LinkUoWFactory
}

func NewUpdateLinkWeightCommandHandler(uowFactory LinkUoWFactory) UpdateLinkWeightCommandHandler {
	return UpdateLinkWeightCommandHandler{uowFactory: uowFactory}
}

// Handle returns the number of links whose weight went up.
func (h *UpdateLinkWeightCommandHandler) Handle(ctx context.Context, cmd UpdateLinkWeightCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.LinkRepository()
	links, err := repo.FindByHost(ctx, cmd.Host())
	if err != nil {
		return 0, fmt.Errorf("find links by host %s: %w", cmd.Host(), err)
	}

	updated := 0
	for _, l := range links {
		if !l.MatchesHost(cmd.Host()) {
			continue
		}
		if err = repo.IncrementWeight(ctx, l); err != nil {
			return 0, fmt.Errorf("update link %d: %w", l.ID(), err)
		}
		l.IncrementWeight()
		updated++
	}
	if updated == 0 {
		return 0, nil
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return updated, nil
}
