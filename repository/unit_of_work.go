package repository

import (
	"context"
	"errors"
	"fmt"

	"puttbot/database"
	"puttbot/events"
	"puttbot/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork scopes the repositories to one pgx transaction
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	playerRepo       service.PlayerRepository
	betRepo          service.BetRepository
	pendingGameRepo  service.PendingGameRepository
	courseRepo       service.CourseRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return errors.New("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx
	u.playerRepo = newPlayerRepositoryWithTx(tx)
	u.betRepo = newBetRepositoryWithTx(tx)
	u.pendingGameRepo = newPendingGameRepositoryWithTx(tx)
	u.courseRepo = newCourseRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and then emits the events it buffered
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return errors.New("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil

	return u.transactionalBus.Flush(u.ctx)
}

// Rollback aborts the transaction and drops its events. Safe to defer after Commit.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil
	u.transactionalBus.Discard()
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

func (u *unitOfWork) mustBegin() {
	if u.tx == nil && u.playerRepo == nil {
		panic("unit of work not started: call Begin first")
	}
}

func (u *unitOfWork) PlayerRepository() service.PlayerRepository {
	u.mustBegin()
	return u.playerRepo
}

func (u *unitOfWork) BetRepository() service.BetRepository {
	u.mustBegin()
	return u.betRepo
}

func (u *unitOfWork) PendingGameRepository() service.PendingGameRepository {
	u.mustBegin()
	return u.pendingGameRepo
}

func (u *unitOfWork) CourseRepository() service.CourseRepository {
	u.mustBegin()
	return u.courseRepo
}

// EventBus returns the bus whose events are emitted only after Commit
func (u *unitOfWork) EventBus() service.EventPublisher {
	return u.transactionalBus
}
