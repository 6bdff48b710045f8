package commands

import (
	"context"
	"errors"
	"fmt"

	"blogjobs/internal/core/domain/model/kernel"
	"blogjobs/internal/core/domain/model/post"
	"blogjobs/internal/pkg/errs"
)

// PublishPostCommandHandler upserts a post by id and moves it to Published.
// An existing row is updated in place; a missing row is inserted.
type PublishPostCommandHandler struct {
	uowFactory PostUoWFactory
	clock      kernel.Clock
}

func NewPublishPostCommandHandler(uowFactory PostUoWFactory, clock kernel.Clock) PublishPostCommandHandler {
	return PublishPostCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h *PublishPostCommandHandler) Handle(ctx context.Context, cmd PublishPostCommand) error {
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
	now := h.clock.Now()

	existing, err := repo.GetForUpdate(ctx, cmd.PostID)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		created, createErr := post.NewPost(cmd.PostID, cmd.Title, cmd.Author, cmd.Content)
		if createErr != nil {
			return createErr
		}
		if err = created.Publish(now); err != nil {
			return err
		}
		if err = repo.Add(ctx, created); err != nil {
			return fmt.Errorf("insert post %d: %w", cmd.PostID, err)
		}
	case err != nil:
		return err
	default:
		if err = existing.Publish(now); err != nil {
			return err
		}
		if err = repo.Update(ctx, existing); err != nil {
			return fmt.Errorf("update post %d: %w", cmd.PostID, err)
		}
	}

	return uow.Commit(ctx)
}
