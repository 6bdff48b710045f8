package commands

import (
	"context"
	"fmt"

	"blogjobs/internal/core/ports"
)

// PostCollection is the index collection holding posts.
const PostCollection = "posts"

// RebuildSearchIndexCommandHandler re-indexes the post collection and then
// drops index entries of posts that are not published. Running it twice
// with no data change yields the same index membership.
type RebuildSearchIndexCommandHandler struct {
	uowFactory PostUoWFactory
	index      ports.SearchIndex
}

func NewRebuildSearchIndexCommandHandler(uowFactory PostUoWFactory, index ports.SearchIndex) RebuildSearchIndexCommandHandler {
	return RebuildSearchIndexCommandHandler{uowFactory: uowFactory, index: index}
}

func (h *RebuildSearchIndexCommandHandler) Handle(ctx context.Context, cmd RebuildSearchIndexCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := h.index.Rebuild(ctx, []string{PostCollection}); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	ids, err := h.uowFactory.Create().PostRepository().ListIDsNotPublished(ctx)
	if err != nil {
		return fmt.Errorf("list unpublished posts: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	if err = h.index.Delete(ctx, ids); err != nil {
		return fmt.Errorf("prune index: %w", err)
	}
	return nil
}
