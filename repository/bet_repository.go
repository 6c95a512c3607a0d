package repository

import (
	"context"
	"fmt"

	"puttbot/database"
	"puttbot/models"

	"github.com/jackc/pgx/v5"
)

// BetRepository implements the BetRepository interface
type BetRepository struct {
	q queryable
}

// NewBetRepository creates a new bet repository
func NewBetRepository(db *database.DB) *BetRepository {
	return &BetRepository{q: db.Pool}
}

// newBetRepositoryWithTx creates a new bet repository with a transaction
func newBetRepositoryWithTx(tx queryable) *BetRepository {
	return &BetRepository{q: tx}
}

// Create records a new pending bet
func (r *BetRepository) Create(ctx context.Context, bet *models.Bet) error {
	query := `
		INSERT INTO bets (player_id, game_id, choice, amount, odds, payout, won)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		bet.PlayerID, bet.GameID, bet.Choice, bet.Amount, bet.Odds, bet.Payout, bet.Won,
	).Scan(&bet.ID, &bet.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bet: %w", err)
	}
	return nil
}

// Resolve sets the outcome of a bet that is still pending
func (r *BetRepository) Resolve(ctx context.Context, id int64, won bool) (bool, error) {
	query := `UPDATE bets SET won = $2 WHERE id = $1 AND won IS NULL`

	result, err := r.q.Exec(ctx, query, id, won)
	if err != nil {
		return false, fmt.Errorf("failed to resolve bet %d: %w", id, err)
	}
	return result.RowsAffected() == 1, nil
}

// GetByGame returns the bets placed on a game in placement order
func (r *BetRepository) GetByGame(ctx context.Context, gameID string) ([]*models.Bet, error) {
	query := `
		SELECT id, player_id, game_id, choice, amount, odds, payout, won, created_at
		FROM bets
		WHERE game_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bets for game %s: %w", gameID, err)
	}

	bets, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[models.Bet])
	if err != nil {
		return nil, fmt.Errorf("failed to scan bets: %w", err)
	}
	return bets, nil
}
