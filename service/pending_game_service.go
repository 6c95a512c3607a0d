package service

import (
	"context"
	"fmt"

	"puttbot/models"
)

// pendingGameService implements the PendingGameService interface
type pendingGameService struct {
	uowFactory UnitOfWorkFactory
}

// NewPendingGameService creates a new pending game service
func NewPendingGameService(uowFactory UnitOfWorkFactory) PendingGameService {
	return &pendingGameService{uowFactory: uowFactory}
}

func (s *pendingGameService) SavePending(ctx context.Context, game *models.PendingGame) error {
	if _, err := models.ParseVariant(string(game.GameType)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return s.within(ctx, "save pending game", func(uow UnitOfWork) error {
		return uow.PendingGameRepository().Upsert(ctx, game)
	})
}

func (s *pendingGameService) RemovePending(ctx context.Context, gameType models.Variant) error {
	return s.within(ctx, "remove pending game", func(uow UnitOfWork) error {
		return uow.PendingGameRepository().Delete(ctx, gameType)
	})
}

func (s *pendingGameService) ListPending(ctx context.Context) ([]*models.PendingGame, error) {
	var games []*models.PendingGame
	err := s.within(ctx, "list pending games", func(uow UnitOfWork) error {
		var err error
		games, err = uow.PendingGameRepository().GetAll(ctx)
		return err
	})
	return games, err
}

func (s *pendingGameService) ClearPending(ctx context.Context) error {
	return s.within(ctx, "clear pending games", func(uow UnitOfWork) error {
		return uow.PendingGameRepository().DeleteAll(ctx)
	})
}

// within runs fn in its own unit of work and commits on success
func (s *pendingGameService) within(ctx context.Context, op string, fn func(uow UnitOfWork) error) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return storeErr("begin transaction", err)
	}
	defer uow.Rollback()

	if err := fn(uow); err != nil {
		return storeErr(op, err)
	}
	if err := uow.Commit(); err != nil {
		return storeErr("commit", err)
	}
	return nil
}
