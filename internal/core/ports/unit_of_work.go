package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork for each job invocation.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a transaction boundary spanning post and link writes.
// Client code manages the lifecycle explicitly.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// PostRepository is bound to the transaction started by Begin.
	PostRepository() PostRepository

	// LinkRepository is bound to the transaction started by Begin.
	LinkRepository() LinkRepository
}
