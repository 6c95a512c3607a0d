package service

import (
	"context"
	"fmt"

	"puttbot/events"
)

// ledgerService implements the LedgerService interface
type ledgerService struct {
	uowFactory UnitOfWorkFactory
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory) LedgerService {
	return &ledgerService{uowFactory: uowFactory}
}

// Debit removes amount from a player's credits with a single conditional update
func (s *ledgerService) Debit(ctx context.Context, playerID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	return retryOnce(ctx, "ledger debit", func() error {
		uow := s.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return storeErr("begin transaction", err)
		}
		defer uow.Rollback()

		if _, err := uow.PlayerRepository().GetOrCreate(ctx, playerID); err != nil {
			return storeErr("load player", err)
		}

		ok, err := uow.PlayerRepository().Debit(ctx, playerID, amount)
		if err != nil {
			return storeErr("debit credits", err)
		}
		if !ok {
			return ErrInsufficientFunds
		}

		uow.EventBus().Publish(events.BalanceChangeEvent{
			PlayerID:     playerID,
			ChangeAmount: -amount,
			Reason:       events.BalanceReasonManual,
		})

		if err := uow.Commit(); err != nil {
			return commitErr("commit debit", err)
		}
		return nil
	})
}

// Credit adds amount to a player's credits
func (s *ledgerService) Credit(ctx context.Context, playerID string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: amount cannot be negative", ErrInvalidInput)
	}
	if amount == 0 {
		return nil
	}

	return retryOnce(ctx, "ledger credit", func() error {
		uow := s.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return storeErr("begin transaction", err)
		}
		defer uow.Rollback()

		if _, err := uow.PlayerRepository().GetOrCreate(ctx, playerID); err != nil {
			return storeErr("load player", err)
		}
		if err := uow.PlayerRepository().Credit(ctx, playerID, amount); err != nil {
			return storeErr("credit credits", err)
		}

		uow.EventBus().Publish(events.BalanceChangeEvent{
			PlayerID:     playerID,
			ChangeAmount: amount,
			Reason:       events.BalanceReasonManual,
		})

		if err := uow.Commit(); err != nil {
			return commitErr("commit credit", err)
		}
		return nil
	})
}
