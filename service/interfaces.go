package service

import (
	"context"

	"puttbot/events"
	"puttbot/models"
)

// PlayerRepository defines the interface for player data access
type PlayerRepository interface {
	// Get retrieves a player by id, returning nil when absent
	Get(ctx context.Context, id string) (*models.Player, error)

	// GetOrCreate retrieves a player, inserting the default record first if absent
	GetOrCreate(ctx context.Context, id string) (*models.Player, error)

	// GetForUpdate is GetOrCreate plus a row lock held until the transaction ends
	GetForUpdate(ctx context.Context, id string) (*models.Player, error)

	// Save upserts the full player record
	Save(ctx context.Context, player *models.Player) error

	// SaveStats writes everything but credits and refreshes player.Credits from the row
	SaveStats(ctx context.Context, player *models.Player) error

	// Debit subtracts amount from credits only if credits >= amount.
	// Returns false when the player cannot cover the amount.
	Debit(ctx context.Context, id string, amount int64) (bool, error)

	// Credit adds amount to credits
	Credit(ctx context.Context, id string, amount int64) error

	// Leaderboard returns players ordered by rank descending
	Leaderboard(ctx context.Context, limit, offset int) ([]*models.Player, error)

	// Count returns the number of players
	Count(ctx context.Context) (int, error)

	// Position returns the zero based index of a player in the leaderboard ordering,
	// or -1 when the player does not exist
	Position(ctx context.Context, id string) (int, error)
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	// Create inserts a bet and sets its ID and CreatedAt
	Create(ctx context.Context, bet *models.Bet) error

	// Resolve records the outcome of a pending bet.
	// Returns false when the bet was already resolved.
	Resolve(ctx context.Context, id int64, won bool) (bool, error)

	// GetByGame returns all bets placed on a game
	GetByGame(ctx context.Context, gameID string) ([]*models.Bet, error)
}

// PendingGameRepository defines the interface for the durable pending-game directory
type PendingGameRepository interface {
	// Upsert writes the row for the game's variant
	Upsert(ctx context.Context, game *models.PendingGame) error

	// Delete removes the row for a variant
	Delete(ctx context.Context, gameType models.Variant) error

	// GetAll returns every row
	GetAll(ctx context.Context) ([]*models.PendingGame, error)

	// DeleteAll removes every row
	DeleteAll(ctx context.Context) error
}

// CourseRepository defines the interface for the course catalog
type CourseRepository interface {
	// GetAll returns every course ordered by name
	GetAll(ctx context.Context) ([]*models.Course, error)

	// GetRandom returns one course at random, nil when the catalog is empty
	GetRandom(ctx context.Context) (*models.Course, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork scopes repositories to a single transaction
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	PlayerRepository() PlayerRepository
	BetRepository() BetRepository
	PendingGameRepository() PendingGameRepository
	CourseRepository() CourseRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates new units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// LedgerService defines atomic credit operations
type LedgerService interface {
	// Debit removes amount from a player's credits, failing with ErrInsufficientFunds
	Debit(ctx context.Context, playerID string, amount int64) error

	// Credit adds amount to a player's credits
	Credit(ctx context.Context, playerID string, amount int64) error
}

// PlayerService defines the player registry operations
type PlayerService interface {
	// GetPlayer returns a player, creating the default record on first reference
	GetPlayer(ctx context.Context, id string) (*models.Player, error)

	// SavePlayer upserts the full record
	SavePlayer(ctx context.Context, player *models.Player) error

	// UpdateStat loads a player, sets or adds to one field and saves it
	UpdateStat(ctx context.Context, id string, field models.StatField, value int64, mode models.StatMode) (*models.Player, error)

	// ResetPlayer restores a player's record to the defaults
	ResetPlayer(ctx context.Context, id string) (*models.Player, error)

	// Leaderboard returns a zero based page of the rank ordering
	Leaderboard(ctx context.Context, page int) (*models.LeaderboardPage, error)

	// LeaderboardPageOf returns the page that holds a player
	LeaderboardPageOf(ctx context.Context, id string) (int, error)
}

// BettingService defines spectator wager placement
type BettingService interface {
	// PlaceBet debits the stake and records the bet in one transaction
	PlaceBet(ctx context.Context, bet *models.Bet) error
}

// SettlementService defines match result application
type SettlementService interface {
	// Settle applies stat changes and resolves bets for a finished match
	Settle(ctx context.Context, match *models.MatchSettlement) (*models.SettlementSummary, error)
}

// PendingGameService defines the durable side of the pending-game directory
type PendingGameService interface {
	SavePending(ctx context.Context, game *models.PendingGame) error
	RemovePending(ctx context.Context, gameType models.Variant) error
	ListPending(ctx context.Context) ([]*models.PendingGame, error)
	ClearPending(ctx context.Context) error
}

// CourseService defines course selection
type CourseService interface {
	// RandomCourse picks a course for a new match
	RandomCourse(ctx context.Context) (*models.Course, error)
}
