package stats

import (
	"testing"

	"puttbot/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPlayerStatsEmbed(t *testing.T) {
	p := models.NewPlayer("1")
	p.Wins, p.Losses, p.GamesPlayed = 3, 1, 4
	p.Credits = 12500

	embed := BuildPlayerStatsEmbed(p, "alice")
	assert.Equal(t, "📊 Stats for alice", embed.Title)
	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "Rank: **1000**\nTrophies: **0**", embed.Fields[0].Value)
	assert.Equal(t, "**12,500**", embed.Fields[1].Value)
	assert.Contains(t, embed.Fields[2].Value, "Win rate: **75.0%**")

	fresh := BuildPlayerStatsEmbed(models.NewPlayer("2"), "bob")
	assert.NotContains(t, fresh.Fields[2].Value, "Win rate")
}

func TestBuildLeaderboardEmbed(t *testing.T) {
	page := &models.LeaderboardPage{
		Entries: []models.LeaderboardEntry{
			{Position: 11, Player: &models.Player{ID: "a", Rank: 1100, Trophies: 3}},
			{Position: 12, Player: &models.Player{ID: "b", Rank: 1090}},
		},
		Page:       1,
		TotalPages: 3,
		Total:      25,
	}

	embed := BuildLeaderboardEmbed(page, "b")
	assert.Equal(t, "11. <@a> - **1100** rank, 3 🏆\n**→** 12. <@b> - **1090** rank, 0 🏆", embed.Description)
	assert.Equal(t, "Page 2 of 3 · 25 players", embed.Footer.Text)

	empty := BuildLeaderboardEmbed(&models.LeaderboardPage{}, "")
	assert.Equal(t, "No players found", empty.Description)
}

func TestBuildLeaderboardNavButtons(t *testing.T) {
	first := &models.LeaderboardPage{Page: 0, TotalPages: 2}
	components := BuildLeaderboardNavButtons(first)
	require.Len(t, components, 1)
	row := components[0].(discordgo.ActionsRow)
	prev := row.Components[0].(discordgo.Button)
	next := row.Components[1].(discordgo.Button)
	assert.True(t, prev.Disabled)
	assert.False(t, next.Disabled)
	assert.Equal(t, "leaderboard_page_1", next.CustomID)

	assert.Empty(t, BuildLeaderboardNavButtons(&models.LeaderboardPage{TotalPages: 1}))
}

func TestParsePage(t *testing.T) {
	page, ok := parsePage("leaderboard_page_4")
	assert.True(t, ok)
	assert.Equal(t, 4, page)

	_, ok = parsePage("leaderboard_page_-1")
	assert.False(t, ok)
	_, ok = parsePage("match_join_1")
	assert.False(t, ok)
}
