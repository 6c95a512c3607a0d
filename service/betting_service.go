package service

import (
	"context"
	"fmt"

	"puttbot/events"
	"puttbot/models"

	log "github.com/sirupsen/logrus"
)

// bettingService implements the BettingService interface
type bettingService struct {
	uowFactory UnitOfWorkFactory
}

// NewBettingService creates a new betting service
func NewBettingService(uowFactory UnitOfWorkFactory) BettingService {
	return &bettingService{uowFactory: uowFactory}
}

// PlaceBet debits the stake and inserts the bet row in one transaction.
// When the debit fails nothing is written.
func (s *bettingService) PlaceBet(ctx context.Context, bet *models.Bet) error {
	if bet.Amount <= 0 {
		return fmt.Errorf("%w: bet amount must be positive", ErrInvalidInput)
	}
	if bet.Odds <= 0 || bet.Odds >= 1 {
		return fmt.Errorf("%w: odds %.4f out of range", ErrInvalidInput, bet.Odds)
	}
	if bet.GameID == "" || bet.Choice == "" {
		return fmt.Errorf("%w: bet is missing its game or choice", ErrInvalidInput)
	}
	bet.Payout = Payout(bet.Amount, bet.Odds)
	bet.Won = nil

	err := retryOnce(ctx, "place bet", func() error {
		uow := s.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return storeErr("begin transaction", err)
		}
		defer uow.Rollback()

		if _, err := uow.PlayerRepository().GetOrCreate(ctx, bet.PlayerID); err != nil {
			return storeErr("load bettor", err)
		}

		ok, err := uow.PlayerRepository().Debit(ctx, bet.PlayerID, bet.Amount)
		if err != nil {
			return storeErr("debit stake", err)
		}
		if !ok {
			return ErrInsufficientFunds
		}

		if err := uow.BetRepository().Create(ctx, bet); err != nil {
			return storeErr("record bet", err)
		}

		uow.EventBus().Publish(events.BalanceChangeEvent{
			PlayerID:     bet.PlayerID,
			ChangeAmount: -bet.Amount,
			Reason:       events.BalanceReasonBetPlaced,
			GameID:       bet.GameID,
		})
		uow.EventBus().Publish(events.BetPlacedEvent{
			BetID:    bet.ID,
			PlayerID: bet.PlayerID,
			GameID:   bet.GameID,
			Choice:   bet.Choice,
			Amount:   bet.Amount,
			Odds:     bet.Odds,
			Payout:   bet.Payout,
		})

		if err := uow.Commit(); err != nil {
			return commitErr("commit bet", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"bettor": bet.PlayerID,
		"game":   bet.GameID,
		"choice": bet.Choice,
		"amount": bet.Amount,
		"odds":   bet.Odds,
		"payout": bet.Payout,
	}).Info("Bet placed")
	return nil
}
