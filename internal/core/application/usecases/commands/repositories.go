// Package commands contains the background operations of the job catalog.
// Every command follows the same pattern: a guarded command value built by
// its constructor, and a handler that validates it, talks to ports and
// manages the transaction when it writes posts or links.
package commands

import (
	"context"

	"blogjobs/internal/core/ports"
)

// Unit of Work interfaces give handlers a transaction boundary without
// depending on the storage adapter.
type (
	// TxManager handles transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// PostRepoFactory provides the post repository, bound to the transaction once Begin ran.
	PostRepoFactory interface {
		PostRepository() ports.PostRepository
	}

	// LinkRepoFactory provides the link repository, bound to the transaction once Begin ran.
	LinkRepoFactory interface {
		LinkRepository() ports.LinkRepository
	}

	// PostUoW manages transactions for post-only jobs.
	PostUoW interface {
		TxManager
		PostRepoFactory
	}

	// PostUoWFactory creates post unit of work instances.
	PostUoWFactory interface {
		Create() PostUoW
	}

	// LinkUoW manages transactions for link-only jobs.
	//
	// Example:
	//   uow := factory.Create()
	//   links, err := uow.LinkRepository().GetAllCheckable(ctx) // outside the transaction
	//   err = uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//   // ... update every link through uow.LinkRepository()
	//   err = uow.Commit(ctx)
	LinkUoW interface {
		TxManager
		LinkRepoFactory
	}

	// LinkUoWFactory creates link unit of work instances.
	LinkUoWFactory interface {
		Create() LinkUoW
	}
)

// Keys used in the key/counter store.
const (
	CounterInterceptCount = "interceptCount"
	CounterRunningDays    = "Interview:RunningDays"
	ListIntercept         = "intercept"
	ListTracking          = "tracking"
	KeySearchRankMonth    = "SearchRank:Month"
	KeySearchRankWeek     = "SearchRank:Week"
	KeySearchRankToday    = "SearchRank:Today"
)
