package repository

import (
	"context"
	"errors"
	"fmt"

	"puttbot/database"
	"puttbot/models"

	"github.com/jackc/pgx/v5"
)

const playerColumns = `id, rank, trophies, credits, wins, losses, draws,
	games_played, current_streak, best_streak, created_at, updated_at`

// PlayerRepository implements the PlayerRepository interface
type PlayerRepository struct {
	q queryable
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *database.DB) *PlayerRepository {
	return &PlayerRepository{q: db.Pool}
}

// newPlayerRepositoryWithTx creates a new player repository with a transaction
func newPlayerRepositoryWithTx(tx queryable) *PlayerRepository {
	return &PlayerRepository{q: tx}
}

// Get retrieves a player by id
func (r *PlayerRepository) Get(ctx context.Context, id string) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`

	rows, err := r.q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", id, err)
	}

	player, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.Player])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan player %s: %w", id, err)
	}
	return player, nil
}

// GetOrCreate inserts the default record when the player is new, then returns it
func (r *PlayerRepository) GetOrCreate(ctx context.Context, id string) (*models.Player, error) {
	defaults := models.NewPlayer(id)
	query := `
		INSERT INTO players (id, rank, credits)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, query, id, defaults.Rank, defaults.Credits); err != nil {
		return nil, fmt.Errorf("failed to create player %s: %w", id, err)
	}

	player, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, fmt.Errorf("player %s missing after insert", id)
	}
	return player, nil
}

// GetForUpdate is GetOrCreate with the row locked until the transaction ends
func (r *PlayerRepository) GetForUpdate(ctx context.Context, id string) (*models.Player, error) {
	defaults := models.NewPlayer(id)
	insert := `
		INSERT INTO players (id, rank, credits)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, insert, id, defaults.Rank, defaults.Credits); err != nil {
		return nil, fmt.Errorf("failed to create player %s: %w", id, err)
	}

	rows, err := r.q.Query(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock player %s: %w", id, err)
	}
	player, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.Player])
	if err != nil {
		return nil, fmt.Errorf("failed to scan player %s: %w", id, err)
	}
	return player, nil
}

// SaveStats writes every field except credits, which only Debit and Credit move
func (r *PlayerRepository) SaveStats(ctx context.Context, p *models.Player) error {
	query := `
		UPDATE players SET
			rank = $2,
			trophies = $3,
			wins = $4,
			losses = $5,
			draws = $6,
			games_played = $7,
			current_streak = $8,
			best_streak = $9,
			updated_at = NOW()
		WHERE id = $1
		RETURNING credits, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		p.ID, p.Rank, p.Trophies, p.Wins, p.Losses, p.Draws,
		p.GamesPlayed, p.CurrentStreak, p.BestStreak,
	).Scan(&p.Credits, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("player %s not found", p.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to save stats for player %s: %w", p.ID, err)
	}
	return nil
}

// Save upserts the full player record
func (r *PlayerRepository) Save(ctx context.Context, p *models.Player) error {
	query := `
		INSERT INTO players (id, rank, trophies, credits, wins, losses, draws,
			games_played, current_streak, best_streak)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			rank = EXCLUDED.rank,
			trophies = EXCLUDED.trophies,
			credits = EXCLUDED.credits,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			draws = EXCLUDED.draws,
			games_played = EXCLUDED.games_played,
			current_streak = EXCLUDED.current_streak,
			best_streak = EXCLUDED.best_streak,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		p.ID, p.Rank, p.Trophies, p.Credits, p.Wins, p.Losses, p.Draws,
		p.GamesPlayed, p.CurrentStreak, p.BestStreak,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save player %s: %w", p.ID, err)
	}
	return nil
}

// Debit deducts from a player's credits atomically, only when they can cover it
func (r *PlayerRepository) Debit(ctx context.Context, id string, amount int64) (bool, error) {
	if amount <= 0 {
		return false, fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE players
		SET credits = credits - $1, updated_at = NOW()
		WHERE id = $2 AND credits >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, id)
	if err != nil {
		return false, fmt.Errorf("failed to debit player %s: %w", id, err)
	}
	return result.RowsAffected() == 1, nil
}

// Credit adds to a player's credits atomically
func (r *PlayerRepository) Credit(ctx context.Context, id string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("amount cannot be negative")
	}

	query := `
		UPDATE players
		SET credits = credits + $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("failed to credit player %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("player %s not found", id)
	}
	return nil
}

// Leaderboard returns players ordered by rank, then trophies, then id
func (r *PlayerRepository) Leaderboard(ctx context.Context, limit, offset int) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + `
		FROM players
		ORDER BY rank DESC, trophies DESC, id ASC
		LIMIT $1 OFFSET $2`

	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	players, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[models.Player])
	if err != nil {
		return nil, fmt.Errorf("failed to scan leaderboard: %w", err)
	}
	return players, nil
}

// Count returns the number of players
func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM players`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

// Position returns the zero based leaderboard index of a player, -1 if unknown
func (r *PlayerRepository) Position(ctx context.Context, id string) (int, error) {
	query := `
		SELECT pos FROM (
			SELECT id, ROW_NUMBER() OVER (ORDER BY rank DESC, trophies DESC, id ASC) - 1 AS pos
			FROM players
		) ranked
		WHERE id = $1
	`

	var pos int
	err := r.q.QueryRow(ctx, query, id).Scan(&pos)
	if errors.Is(err, pgx.ErrNoRows) {
		return -1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find position of player %s: %w", id, err)
	}
	return pos, nil
}
