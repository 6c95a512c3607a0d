package lobby

import (
	"fmt"
	"strings"

	"puttbot/models"
)

// State is a lobby's position in its lifecycle
type State string

const (
	StateOpen      State = "open"
	StateLocked    State = "locked"
	StateBetting   State = "betting"
	StateEnded     State = "ended"
	StateVoting    State = "voting"
	StateSettled   State = "settled"
	StateAbandoned State = "abandoned"
)

// Terminal reports whether no further transitions are possible
func (s State) Terminal() bool {
	return s == StateSettled || s == StateAbandoned
}

// Seat is a player seated in a lobby. Rank is read when they join.
type Seat struct {
	ID   string
	Name string
	Rank int64
}

// View is an immutable snapshot of a lobby handed to the Surface
type View struct {
	ID            string
	GameID        string
	Variant       models.Variant
	ChannelID     string
	HostID        string
	State         State
	Seats         []Seat
	Odds          []float64 // in Variant.Choices() order, set at lock-in
	Bets          []*models.Bet
	Votes         map[string]string
	BettingClosed bool
	VotingClosed  bool
	RoomName      string
	Course        *models.Course
	ThreadID      string
	RoomMessageID string
	Result        *models.Result
	Summary       *models.SettlementSummary
	SettleFailed  bool
}

// IsPlayer reports whether userID holds a seat
func (v View) IsPlayer(userID string) bool {
	for _, s := range v.Seats {
		if s.ID == userID {
			return true
		}
	}
	return false
}

// OddsFor returns the frozen win probability of a choice, 0 before lock-in
func (v View) OddsFor(choice string) float64 {
	for i, c := range v.Variant.Choices() {
		if c == choice && i < len(v.Odds) {
			return v.Odds[i]
		}
	}
	return 0
}

// ChoiceLabel names the player or team a choice stands for
func (v View) ChoiceLabel(choice string) string {
	var names []string
	for _, seat := range v.Variant.SeatsFor(choice) {
		if seat < len(v.Seats) {
			names = append(names, v.Seats[seat].Name)
		}
	}
	if v.Variant.IsTeam() {
		if len(names) == 0 {
			return fmt.Sprintf("Team %s", choice)
		}
		return fmt.Sprintf("Team %s (%s)", choice, strings.Join(names, " & "))
	}
	if len(names) == 0 {
		return fmt.Sprintf("Player %s", choice)
	}
	return names[0]
}
