package lobby

import (
	"puttbot/models"
)

// BetBook is the append-only list of bets placed on one lobby.
// It is guarded by the owning lobby's lock.
type BetBook struct {
	entries []*models.Bet
}

func (b *BetBook) Append(bet *models.Bet) {
	b.entries = append(b.entries, bet)
}

func (b *BetBook) Len() int {
	return len(b.entries)
}

// Bets returns copies of the entries in placement order
func (b *BetBook) Bets() []*models.Bet {
	bets := make([]*models.Bet, 0, len(b.entries))
	for _, e := range b.entries {
		cp := *e
		bets = append(bets, &cp)
	}
	return bets
}

// Staked sums the amounts bet on a choice
func (b *BetBook) Staked(choice string) int64 {
	var total int64
	for _, e := range b.entries {
		if e.Choice == choice {
			total += e.Amount
		}
	}
	return total
}

// Settle resolves every pending entry against the result and returns the
// entries it resolved. Entries already resolved are left alone, and a
// result without votes resolves nothing.
func (b *BetBook) Settle(result models.Result) []*models.Bet {
	if result.Kind == models.ResultNone {
		return nil
	}
	var resolved []*models.Bet
	for _, e := range b.entries {
		if e.Resolve(result.Wins(e.Choice)) {
			resolved = append(resolved, e)
		}
	}
	return resolved
}
