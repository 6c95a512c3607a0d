package models

import (
	"fmt"
	"time"
)

const (
	DefaultRank    int64 = 1000
	DefaultCredits int64 = 1000
)

// Player represents a community member's match record and credit balance
type Player struct {
	ID            string    `db:"id"`
	Rank          int64     `db:"rank"`
	Trophies      int64     `db:"trophies"`
	Credits       int64     `db:"credits"`
	Wins          int64     `db:"wins"`
	Losses        int64     `db:"losses"`
	Draws         int64     `db:"draws"`
	GamesPlayed   int64     `db:"games_played"`
	CurrentStreak int64     `db:"current_streak"`
	BestStreak    int64     `db:"best_streak"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// NewPlayer returns the default record for a player seen for the first time
func NewPlayer(id string) *Player {
	return &Player{
		ID:      id,
		Rank:    DefaultRank,
		Credits: DefaultCredits,
	}
}

// StatField names an editable player attribute
type StatField string

const (
	StatRank          StatField = "rank"
	StatTrophies      StatField = "trophies"
	StatCredits       StatField = "credits"
	StatWins          StatField = "wins"
	StatLosses        StatField = "losses"
	StatDraws         StatField = "draws"
	StatGamesPlayed   StatField = "games_played"
	StatCurrentStreak StatField = "current_streak"
	StatBestStreak    StatField = "best_streak"
)

// StatFields lists every editable field in display order
var StatFields = []StatField{
	StatRank, StatTrophies, StatCredits, StatWins, StatLosses,
	StatDraws, StatGamesPlayed, StatCurrentStreak, StatBestStreak,
}

// StatMode selects how UpdateStat combines the value with the current one
type StatMode string

const (
	StatModeSet StatMode = "set"
	StatModeAdd StatMode = "add"
)

func (p *Player) field(f StatField) (*int64, error) {
	switch f {
	case StatRank:
		return &p.Rank, nil
	case StatTrophies:
		return &p.Trophies, nil
	case StatCredits:
		return &p.Credits, nil
	case StatWins:
		return &p.Wins, nil
	case StatLosses:
		return &p.Losses, nil
	case StatDraws:
		return &p.Draws, nil
	case StatGamesPlayed:
		return &p.GamesPlayed, nil
	case StatCurrentStreak:
		return &p.CurrentStreak, nil
	case StatBestStreak:
		return &p.BestStreak, nil
	}
	return nil, fmt.Errorf("unknown stat field %q", f)
}

// Stat returns the value of the named field
func (p *Player) Stat(f StatField) (int64, error) {
	ptr, err := p.field(f)
	if err != nil {
		return 0, err
	}
	return *ptr, nil
}

// ApplyStat sets or adds value to the named field.
// Credits and trophies may not become negative.
func (p *Player) ApplyStat(f StatField, value int64, mode StatMode) error {
	ptr, err := p.field(f)
	if err != nil {
		return err
	}

	next := value
	switch mode {
	case StatModeSet:
	case StatModeAdd:
		next = *ptr + value
	default:
		return fmt.Errorf("unknown stat mode %q", mode)
	}

	if next < 0 && f != StatRank {
		return fmt.Errorf("%s cannot be negative", f)
	}
	*ptr = next
	return nil
}

// WinRate returns wins over games played as a percentage
func (p *Player) WinRate() float64 {
	if p.GamesPlayed == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.GamesPlayed) * 100
}
