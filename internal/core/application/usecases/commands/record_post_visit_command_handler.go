package commands

import (
	"context"
	"errors"

	"blogjobs/internal/core/domain/model/kernel"
	"blogjobs/internal/pkg/errs"
)

// RecordPostVisitCommandHandler increments the view counter of a post and
// recomputes its average views per day. Visits to unknown posts are ignored.
type RecordPostVisitCommandHandler struct {
	uowFactory PostUoWFactory
	clock      kernel.Clock
}

func NewRecordPostVisitCommandHandler(uowFactory PostUoWFactory, clock kernel.Clock) RecordPostVisitCommandHandler {
	return RecordPostVisitCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h *RecordPostVisitCommandHandler) Handle(ctx context.Context, cmd RecordPostVisitCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.PostRepository()
	p, err := repo.GetForUpdate(ctx, cmd.PostID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	p.RecordVisit(h.clock.Now())
	if err = repo.Update(ctx, p); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
