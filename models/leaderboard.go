package models

const LeaderboardPageSize = 10

// LeaderboardEntry is a player with their position in the rank ordering
type LeaderboardEntry struct {
	Position int
	Player   *Player
}

// LeaderboardPage is one page of the rank ordering
type LeaderboardPage struct {
	Entries    []LeaderboardEntry
	Page       int // zero based
	TotalPages int
	Total      int
}

// HasPrev reports whether an earlier page exists
func (p *LeaderboardPage) HasPrev() bool { return p.Page > 0 }

// HasNext reports whether a later page exists
func (p *LeaderboardPage) HasNext() bool { return p.Page+1 < p.TotalPages }
