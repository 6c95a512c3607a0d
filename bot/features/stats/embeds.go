package stats

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"puttbot/bot/common"
	"puttbot/models"

	"github.com/bwmarrin/discordgo"
)

const leaderboardPagePrefix = "leaderboard_page_"

// BuildPlayerStatsEmbed creates the player statistics embed
func BuildPlayerStatsEmbed(player *models.Player, targetName string) *discordgo.MessageEmbed {
	record := fmt.Sprintf("Wins: **%d**\nLosses: **%d**\nDraws: **%d**", player.Wins, player.Losses, player.Draws)
	if player.GamesPlayed > 0 {
		record += fmt.Sprintf("\nWin rate: **%.1f%%**", float64(player.Wins)/float64(player.GamesPlayed)*100)
	}

	return &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("📊 Stats for %s", targetName),
		Color:     common.ColorPrimary,
		Timestamp: time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "⛳ Rank",
				Value:  fmt.Sprintf("Rank: **%d**\nTrophies: **%d**", player.Rank, player.Trophies),
				Inline: true,
			},
			{
				Name:   "💰 Credits",
				Value:  fmt.Sprintf("**%s**", common.FormatBalance(player.Credits)),
				Inline: true,
			},
			{
				Name:   "🎯 Record",
				Value:  record,
				Inline: true,
			},
			{
				Name:   "🔥 Streaks",
				Value:  fmt.Sprintf("Games: **%d**\nCurrent: **%d**\nBest: **%d**", player.GamesPlayed, player.CurrentStreak, player.BestStreak),
				Inline: true,
			},
		},
	}
}

// BuildLeaderboardEmbed creates one page of the rank leaderboard
func BuildLeaderboardEmbed(page *models.LeaderboardPage, highlightID string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🏆 Leaderboard",
		Color: common.ColorPrimary,
	}

	if len(page.Entries) == 0 {
		embed.Description = "No players found"
		return embed
	}

	lines := make([]string, 0, len(page.Entries))
	for _, entry := range page.Entries {
		var marker string
		switch entry.Position {
		case 1:
			marker = "🥇"
		case 2:
			marker = "🥈"
		case 3:
			marker = "🥉"
		default:
			marker = fmt.Sprintf("%d.", entry.Position)
		}

		line := fmt.Sprintf("%s %s - **%d** rank, %d 🏆", marker, common.Mention(entry.Player.ID), entry.Player.Rank, entry.Player.Trophies)
		if entry.Player.ID == highlightID {
			line = "**→** " + line
		}
		lines = append(lines, line)
	}

	embed.Description = strings.Join(lines, "\n")
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Page %d of %d · %d players", page.Page+1, page.TotalPages, page.Total),
	}
	return embed
}

// BuildLeaderboardNavButtons creates the ◀/▶ buttons for a page
func BuildLeaderboardNavButtons(page *models.LeaderboardPage) []discordgo.MessageComponent {
	if page.TotalPages <= 1 {
		return []discordgo.MessageComponent{}
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "◀",
					Style:    discordgo.SecondaryButton,
					CustomID: leaderboardPagePrefix + strconv.Itoa(page.Page-1),
					Disabled: !page.HasPrev(),
				},
				discordgo.Button{
					Label:    "▶",
					Style:    discordgo.SecondaryButton,
					CustomID: leaderboardPagePrefix + strconv.Itoa(page.Page+1),
					Disabled: !page.HasNext(),
				},
			},
		},
	}
}

// parsePage extracts the target page from a nav button custom ID
func parsePage(customID string) (int, bool) {
	raw, ok := strings.CutPrefix(customID, leaderboardPagePrefix)
	if !ok {
		return 0, false
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 0 {
		return 0, false
	}
	return page, true
}
