package stats

import (
	"puttbot/service"

	"github.com/bwmarrin/discordgo"
)

// Prefix routes leaderboard navigation buttons to this feature
const Prefix = leaderboardPagePrefix

// Feature represents the stats and leaderboard commands
type Feature struct {
	session *discordgo.Session
	players service.PlayerService
}

// NewFeature creates a new stats feature instance
func NewFeature(session *discordgo.Session, players service.PlayerService) *Feature {
	return &Feature{
		session: session,
		players: players,
	}
}

// HandleCommand handles /stats and /leaderboard
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "stats":
		f.handleStats(s, i)
	case "leaderboard":
		f.handleLeaderboard(s, i)
	}
}

// HandleInteraction handles leaderboard page buttons
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handlePageButton(s, i)
}
