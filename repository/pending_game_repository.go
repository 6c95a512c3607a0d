package repository

import (
	"context"
	"fmt"

	"puttbot/database"
	"puttbot/models"

	"github.com/jackc/pgx/v5"
)

// PendingGameRepository implements the PendingGameRepository interface
type PendingGameRepository struct {
	q queryable
}

// NewPendingGameRepository creates a new pending game repository
func NewPendingGameRepository(db *database.DB) *PendingGameRepository {
	return &PendingGameRepository{q: db.Pool}
}

func newPendingGameRepositoryWithTx(tx queryable) *PendingGameRepository {
	return &PendingGameRepository{q: tx}
}

// Upsert writes the pending row for a variant
func (r *PendingGameRepository) Upsert(ctx context.Context, game *models.PendingGame) error {
	players := game.Players
	if players == nil {
		players = []string{}
	}

	query := `
		INSERT INTO pending_games (game_type, players, channel_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (game_type) DO UPDATE SET
			players = EXCLUDED.players,
			channel_id = EXCLUDED.channel_id,
			updated_at = NOW()
	`
	if _, err := r.q.Exec(ctx, query, string(game.GameType), players, game.ChannelID); err != nil {
		return fmt.Errorf("failed to upsert pending %s game: %w", game.GameType, err)
	}
	return nil
}

// Delete removes the pending row for a variant
func (r *PendingGameRepository) Delete(ctx context.Context, gameType models.Variant) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM pending_games WHERE game_type = $1`, string(gameType)); err != nil {
		return fmt.Errorf("failed to delete pending %s game: %w", gameType, err)
	}
	return nil
}

// GetAll returns every pending row
func (r *PendingGameRepository) GetAll(ctx context.Context) ([]*models.PendingGame, error) {
	rows, err := r.q.Query(ctx, `SELECT game_type, players, channel_id FROM pending_games ORDER BY game_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending games: %w", err)
	}

	games, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.PendingGame, error) {
		var g models.PendingGame
		var gameType string
		if err := row.Scan(&gameType, &g.Players, &g.ChannelID); err != nil {
			return nil, err
		}
		g.GameType = models.Variant(gameType)
		return &g, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan pending games: %w", err)
	}
	return games, nil
}

// DeleteAll removes every pending row
func (r *PendingGameRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM pending_games`); err != nil {
		return fmt.Errorf("failed to clear pending games: %w", err)
	}
	return nil
}
