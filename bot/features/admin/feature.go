package admin

import (
	"context"

	"puttbot/models"
	"puttbot/service"

	"github.com/bwmarrin/discordgo"
)

// LobbyAdmin is the part of the lobby manager the admin commands drive
type LobbyAdmin interface {
	ClearPending(ctx context.Context) error
	ClearPresence(userID string)
}

// Feature holds the administrator-only commands
type Feature struct {
	session *discordgo.Session
	players service.PlayerService
	ledger  service.LedgerService
	lobbies LobbyAdmin
}

// NewFeature creates a new admin feature instance
func NewFeature(session *discordgo.Session, players service.PlayerService, ledger service.LedgerService) *Feature {
	return &Feature{
		session: session,
		players: players,
		ledger:  ledger,
	}
}

func (f *Feature) SetLobbies(l LobbyAdmin) { f.lobbies = l }

// Commands lists the command names this feature answers
var Commands = []string{"stats_edit", "stats_reset", "add_credits", "clear_pending", "clear_active", "clear_chat"}

// EditableFields are the fields stats_edit offers
var EditableFields = []models.StatField{models.StatRank, models.StatTrophies, models.StatCredits}
