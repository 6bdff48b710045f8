// Package ports defines the gateways background jobs use to reach storage,
// the network and the job runtime. Adapters under internal/adapters implement
// them; handlers depend only on these interfaces.
package ports

import (
	"context"

	"blogjobs/internal/core/domain/model/post"
)

// PostRepository is the persistence contract for posts.
type PostRepository interface {
	// Get returns errs.ObjectNotFoundError when the post does not exist.
	Get(ctx context.Context, id int64) (*post.Post, error)

	// GetForUpdate is Get that also locks the post until the surrounding
	// transaction ends. Handlers that change counters read through it.
	GetForUpdate(ctx context.Context, id int64) (*post.Post, error)

	// Add inserts a post that does not exist yet.
	Add(ctx context.Context, p *post.Post) error

	// Update persists status, dates and counters of an existing post.
	Update(ctx context.Context, p *post.Post) error

	// ListIDsNotPublished returns ids of every post whose status is not Published.
	ListIDsNotPublished(ctx context.Context) ([]int64, error)
}
