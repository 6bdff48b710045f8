// Package postgres provides the GORM unit of work shared by post and link jobs.
// A unit of work keeps one transaction open across repository calls and records
// every aggregate the repositories wrote.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db, logger)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	if err := uow.LinkRepository().UpdateStatus(ctx, l); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Every aggregate a repository writes is tracked by key ("post:11", "link:3").
// Commit logs the keys at debug level, which shows exactly what a job changed;
// Rollback forgets them.
//
// Repositories obtained before Begin run outside the transaction, which is how
// read-only scans such as GetAllCheckable avoid holding a transaction open while
// slow network work happens.
//
// Instances are not safe for concurrent use; every job invocation creates its own.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"blogjobs/internal/adapters/out/postgres/linkrepo"
	"blogjobs/internal/adapters/out/postgres/postrepo"
	"blogjobs/internal/core/ports"

	"gorm.io/gorm"
)

type trackedAggregate struct {
	key       string
	aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances over one connection pool.
type GormUnitOfWorkFactory struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormUnitOfWorkFactory returns a factory whose units of work log committed
// aggregates to logger.
func NewGormUnitOfWorkFactory(db *gorm.DB, logger *slog.Logger) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{
		db:     db,
		logger: logger.With("component", "unit_of_work"),
	}
}

// Create returns a fresh unit of work with no open transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return newGormUnitOfWork(f.db, f.logger)
}

// GormUnitOfWork coordinates one database transaction and tracks the
// aggregates written through its repositories.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	logger            *slog.Logger
	trackedAggregates []trackedAggregate
}

func newGormUnitOfWork(db *gorm.DB, logger *slog.Logger) *GormUnitOfWork {
	return &GormUnitOfWork{
		db:                db,
		logger:            logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// Begin opens the transaction. A second call while one is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	uow.tx = tx

	return nil
}

// Commit finalizes the transaction and logs the aggregates it wrote. It
// returns gorm.ErrInvalidTransaction when nothing is open.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	for _, a := range uow.trackedAggregates {
		uow.logger.DebugContext(ctx, "Aggregate committed", "key", a.key, "type", fmt.Sprintf("%T", a.aggregate))
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Rollback discards the transaction and forgets tracked aggregates. After a
// successful Commit it returns gorm.ErrInvalidTransaction, so callers may defer
// it unconditionally.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// PostRepository is bound to the open transaction, or to the pool when none is open.
func (uow *GormUnitOfWork) PostRepository() ports.PostRepository {
	return postrepo.NewGormPostRepository(uow.conn(), uow)
}

// LinkRepository is bound to the open transaction, or to the pool when none is open.
func (uow *GormUnitOfWork) LinkRepository() ports.LinkRepository {
	return linkrepo.NewGormLinkRepository(uow.conn(), uow)
}

// TrackAggregate is called by repositories after every successful write.
func (uow *GormUnitOfWork) TrackAggregate(key string, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		key:       key,
		aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
