package service

import (
	"context"
	"slices"

	"puttbot/events"
	"puttbot/models"

	log "github.com/sirupsen/logrus"
)

// settlementService implements the SettlementService interface
type settlementService struct {
	uowFactory UnitOfWorkFactory
	policy     RatingPolicy
}

// NewSettlementService creates a new settlement service
func NewSettlementService(uowFactory UnitOfWorkFactory, policy RatingPolicy) SettlementService {
	return &settlementService{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

// Settle applies a match result. Player stats and every pending bet are
// written in one transaction; bets that are already resolved are skipped,
// so settling the same match twice has no further effect.
func (s *settlementService) Settle(ctx context.Context, match *models.MatchSettlement) (*models.SettlementSummary, error) {
	if match.Result.Kind == models.ResultNone {
		log.WithField("game", match.GameID).Info("Match ended without votes, nothing to settle")
		return &models.SettlementSummary{GameID: match.GameID, Variant: match.Variant, Result: match.Result}, nil
	}

	var summary *models.SettlementSummary
	err := retryOnce(ctx, "settle match", func() error {
		var err error
		summary, err = s.settleOnce(ctx, match)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"game":    match.GameID,
		"variant": match.Variant,
		"result":  match.Result.Kind,
		"choice":  match.Result.Choice,
		"bets":    len(summary.Bets),
	}).Info("Match settled")
	return summary, nil
}

func (s *settlementService) settleOnce(ctx context.Context, match *models.MatchSettlement) (*models.SettlementSummary, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeErr("begin transaction", err)
	}
	defer uow.Rollback()

	// lock in id order so overlapping settlements cannot deadlock
	locked := make(map[string]*models.Player, len(match.Players))
	ids := slices.Clone(match.Players)
	slices.Sort(ids)
	for _, id := range ids {
		p, err := uow.PlayerRepository().GetForUpdate(ctx, id)
		if err != nil {
			return nil, storeErr("load player", err)
		}
		locked[id] = p
	}
	players := make([]*models.Player, 0, len(match.Players))
	for _, id := range match.Players {
		players = append(players, locked[id])
	}

	changes := ApplyResult(s.policy, match.Variant, players, match.Result)
	for _, p := range players {
		if err := uow.PlayerRepository().SaveStats(ctx, p); err != nil {
			return nil, storeErr("save player", err)
		}
	}

	payouts := make([]models.BetPayout, 0, len(match.Bets))
	for _, bet := range match.Bets {
		if bet.Won != nil {
			continue
		}
		won := match.Result.Wins(bet.Choice)
		resolved, err := uow.BetRepository().Resolve(ctx, bet.ID, won)
		if err != nil {
			return nil, storeErr("resolve bet", err)
		}
		if !resolved {
			continue
		}

		payout := models.BetPayout{BetID: bet.ID, PlayerID: bet.PlayerID, Won: won}
		if won {
			if err := uow.PlayerRepository().Credit(ctx, bet.PlayerID, bet.Payout); err != nil {
				return nil, storeErr("pay out bet", err)
			}
			payout.Payout = bet.Payout
			uow.EventBus().Publish(events.BalanceChangeEvent{
				PlayerID:     bet.PlayerID,
				ChangeAmount: bet.Payout,
				Reason:       events.BalanceReasonBetPayout,
				GameID:       match.GameID,
			})
		}
		payouts = append(payouts, payout)
	}

	summary := &models.SettlementSummary{
		GameID:  match.GameID,
		Variant: match.Variant,
		Result:  match.Result,
		Players: changes,
		Bets:    payouts,
	}
	uow.EventBus().Publish(events.MatchSettledEvent{ChannelID: match.ChannelID, Summary: *summary})

	if err := uow.Commit(); err != nil {
		return nil, commitErr("commit settlement", err)
	}
	return summary, nil
}
