package testutil

import (
	"puttbot/models"
)

// CreateTestPlayer creates a player with default values
func CreateTestPlayer(id string) *models.Player {
	return models.NewPlayer(id)
}

// CreateTestPlayerWithCredits creates a player with a specific balance
func CreateTestPlayerWithCredits(id string, credits int64) *models.Player {
	p := CreateTestPlayer(id)
	p.Credits = credits
	return p
}

// CreateTestPlayerWithRank creates a player with a specific rank and trophy count
func CreateTestPlayerWithRank(id string, rank, trophies int64) *models.Player {
	p := CreateTestPlayer(id)
	p.Rank = rank
	p.Trophies = trophies
	return p
}

// CreateTestBet creates a pending bet at even odds
func CreateTestBet(playerID, gameID, choice string, amount int64) *models.Bet {
	return &models.Bet{
		PlayerID: playerID,
		GameID:   gameID,
		Choice:   choice,
		Amount:   amount,
		Odds:     0.5,
		Payout:   amount * 2,
	}
}
