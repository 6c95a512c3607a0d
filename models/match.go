package models

// ResultKind classifies a vote tally
type ResultKind string

const (
	ResultNone ResultKind = "none" // nobody voted
	ResultDraw ResultKind = "draw"
	ResultWin  ResultKind = "win"
)

// Result is the outcome of a match
type Result struct {
	Kind   ResultKind
	Choice string // set when Kind is ResultWin
}

// Wins reports whether a bet or seat labelled choice won
func (r Result) Wins(choice string) bool {
	return r.Kind == ResultWin && r.Choice == choice
}

// MatchSettlement carries everything needed to apply a match result to the store
type MatchSettlement struct {
	GameID    string
	Variant   Variant
	ChannelID string
	Players   []string
	Result    Result
	Bets      []*Bet
}

// PlayerChange is the effect of a settlement on one participant
type PlayerChange struct {
	PlayerID  string
	Won       bool
	Draw      bool
	RankDelta int64
	NewRank   int64
}

// BetPayout is the effect of a settlement on one bet
type BetPayout struct {
	BetID    int64
	PlayerID string
	Won      bool
	Payout   int64
}

// SettlementSummary is returned once a settlement has been committed
type SettlementSummary struct {
	GameID  string
	Variant Variant
	Result  Result
	Players []PlayerChange
	Bets    []BetPayout
}
