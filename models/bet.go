package models

import "time"

// BetOutcome is the settlement state of a bet
type BetOutcome string

const (
	BetPending BetOutcome = "pending"
	BetWon     BetOutcome = "won"
	BetLost    BetOutcome = "lost"
)

// Bet represents a spectator wager on a match
type Bet struct {
	ID          int64     `db:"id"`
	PlayerID    string    `db:"player_id"`
	DisplayName string    `db:"-"`
	GameID      string    `db:"game_id"`
	Choice      string    `db:"choice"`
	Amount      int64     `db:"amount"`
	Odds        float64   `db:"odds"`
	Payout      int64     `db:"payout"`
	Won         *bool     `db:"won"` // nil while pending
	CreatedAt   time.Time `db:"created_at"`
}

// Outcome derives the settlement state from Won
func (b *Bet) Outcome() BetOutcome {
	if b.Won == nil {
		return BetPending
	}
	if *b.Won {
		return BetWon
	}
	return BetLost
}

// Resolve records the outcome once; later calls are ignored
func (b *Bet) Resolve(won bool) bool {
	if b.Won != nil {
		return false
	}
	b.Won = &won
	return true
}
