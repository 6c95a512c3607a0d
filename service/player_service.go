package service

import (
	"context"
	"fmt"

	"puttbot/models"
)

// playerService implements the PlayerService interface
type playerService struct {
	uowFactory UnitOfWorkFactory
}

// NewPlayerService creates a new player registry service
func NewPlayerService(uowFactory UnitOfWorkFactory) PlayerService {
	return &playerService{uowFactory: uowFactory}
}

// GetPlayer returns the player's record, inserting the defaults on first reference
func (s *playerService) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeErr("begin transaction", err)
	}
	defer uow.Rollback()

	player, err := uow.PlayerRepository().GetOrCreate(ctx, id)
	if err != nil {
		return nil, storeErr("get player", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, storeErr("commit", err)
	}
	return player, nil
}

// SavePlayer upserts the full record
func (s *playerService) SavePlayer(ctx context.Context, player *models.Player) error {
	if player.Credits < 0 {
		return fmt.Errorf("%w: credits cannot be negative", ErrInvalidInput)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return storeErr("begin transaction", err)
	}
	defer uow.Rollback()

	if err := uow.PlayerRepository().Save(ctx, player); err != nil {
		return storeErr("save player", err)
	}
	if err := uow.Commit(); err != nil {
		return storeErr("commit", err)
	}
	return nil
}

// UpdateStat loads, mutates and saves a single field.
// Credits go through the ledger's atomic update rather than a full save.
func (s *playerService) UpdateStat(ctx context.Context, id string, field models.StatField, value int64, mode models.StatMode) (*models.Player, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeErr("begin transaction", err)
	}
	defer uow.Rollback()

	repo := uow.PlayerRepository()
	player, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, storeErr("get player", err)
	}

	before := player.Credits
	if err := player.ApplyStat(field, value, mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if field == models.StatCredits {
		switch delta := player.Credits - before; {
		case delta > 0:
			err = repo.Credit(ctx, id, delta)
		case delta < 0:
			var ok bool
			ok, err = repo.Debit(ctx, id, -delta)
			if err == nil && !ok {
				return nil, ErrInsufficientFunds
			}
		}
		if err != nil {
			return nil, storeErr("adjust credits", err)
		}
	} else if err := repo.SaveStats(ctx, player); err != nil {
		return nil, storeErr("save player", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, storeErr("commit", err)
	}
	return player, nil
}

// ResetPlayer restores every field to its default
func (s *playerService) ResetPlayer(ctx context.Context, id string) (*models.Player, error) {
	player := models.NewPlayer(id)
	if err := s.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

// Leaderboard returns one page of players ordered by rank.
// Out of range pages are clamped.
func (s *playerService) Leaderboard(ctx context.Context, page int) (*models.LeaderboardPage, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeErr("begin transaction", err)
	}
	defer uow.Rollback()

	total, err := uow.PlayerRepository().Count(ctx)
	if err != nil {
		return nil, storeErr("count players", err)
	}

	totalPages := (total + models.LeaderboardPageSize - 1) / models.LeaderboardPageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 0 {
		page = 0
	}
	if page >= totalPages {
		page = totalPages - 1
	}

	offset := page * models.LeaderboardPageSize
	players, err := uow.PlayerRepository().Leaderboard(ctx, models.LeaderboardPageSize, offset)
	if err != nil {
		return nil, storeErr("load leaderboard", err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(players))
	for i, p := range players {
		entries = append(entries, models.LeaderboardEntry{Position: offset + i + 1, Player: p})
	}

	return &models.LeaderboardPage{
		Entries:    entries,
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}, nil
}

// LeaderboardPageOf returns the page a player appears on
func (s *playerService) LeaderboardPageOf(ctx context.Context, id string) (int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, storeErr("begin transaction", err)
	}
	defer uow.Rollback()

	pos, err := uow.PlayerRepository().Position(ctx, id)
	if err != nil {
		return 0, storeErr("find player position", err)
	}
	if pos < 0 {
		return 0, fmt.Errorf("%w: that player has no record yet", ErrInvalidInput)
	}
	return pos / models.LeaderboardPageSize, nil
}
