package matches

import (
	"fmt"
	"strings"

	"puttbot/bot/common"
	"puttbot/lobby"
	"puttbot/models"

	"github.com/bwmarrin/discordgo"
)

const maxLabel = 80

// BuildStartEmbed creates the message a seed command posts
func BuildStartEmbed(variant models.Variant) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("⛳ %s", variant.Title()),
		Description: fmt.Sprintf("Press **Start** to open a %s lobby for %d players.", strings.ToLower(variant.Title()), variant.Capacity()),
		Color:       common.ColorPrimary,
	}
}

// BuildStartComponents creates the start button
func BuildStartComponents(variant models.Variant) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Start",
					Style:    discordgo.SuccessButton,
					CustomID: customID(actionStart, string(variant)),
					Emoji:    &discordgo.ComponentEmoji{Name: "⛳"},
				},
			},
		},
	}
}

// BuildLobbyEmbed renders a lobby in any non-abandoned state
func BuildLobbyEmbed(view lobby.View) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("⛳ %s Lobby", view.Variant.Title()),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Game %s", view.GameID),
		},
	}

	switch view.State {
	case lobby.StateOpen:
		embed.Color = common.ColorPrimary
		embed.Description = fmt.Sprintf("Waiting for players (%d/%d). Press **Join** to take a seat.",
			len(view.Seats), view.Variant.Capacity())
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Players",
			Value: seatList(view),
		})
		return embed

	case lobby.StateLocked, lobby.StateBetting:
		embed.Color = common.ColorInfo
		status := "Betting is **open**: pick an outcome below."
		if view.BettingClosed {
			status = "Betting is **closed**."
		}
		embed.Description = fmt.Sprintf("%s\n%s", roomLine(view), status)

	case lobby.StateVoting:
		embed.Color = common.ColorWarning
		embed.Description = fmt.Sprintf("The game has ended. Players, vote for the winner (%d/%d voted).",
			len(view.Votes), len(view.Seats))

	case lobby.StateEnded:
		embed.Color = common.ColorDanger
		embed.Description = "The game has ended."
		if view.SettleFailed {
			embed.Description = "The result could not be recorded. An administrator will reconcile this match."
		}

	case lobby.StateSettled:
		embed.Color = common.ColorSuccess
		embed.Description = resultLine(view)
	}

	embed.Fields = append(embed.Fields, outcomeFields(view)...)
	if view.Summary != nil && len(view.Summary.Players) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Rank changes",
			Value: rankChanges(view),
		})
	}
	if len(view.Bets) > 0 {
		var total int64
		for _, b := range view.Bets {
			total += b.Amount
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Bets",
			Value: fmt.Sprintf("%d bets, %s credits staked", len(view.Bets), common.FormatBalance(total)),
		})
	}
	return embed
}

// BuildLobbyComponents returns the controls for the lobby's current state.
// The result is never nil so that an edit clears stale controls.
func BuildLobbyComponents(view lobby.View) []discordgo.MessageComponent {
	components := []discordgo.MessageComponent{}

	switch view.State {
	case lobby.StateOpen:
		components = append(components, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Join", Style: discordgo.SuccessButton, CustomID: customID(actionJoin, view.ID)},
				discordgo.Button{Label: "Leave", Style: discordgo.DangerButton, CustomID: customID(actionLeave, view.ID)},
			},
		})

	case lobby.StateBetting:
		if !view.BettingClosed {
			options := make([]discordgo.SelectMenuOption, 0, len(view.Variant.Choices()))
			for _, choice := range view.Variant.Choices() {
				odds := view.OddsFor(choice)
				desc := fmt.Sprintf("Win chance %s", common.FormatOdds(odds))
				if odds > 0 {
					desc += fmt.Sprintf(", pays %.2fx", 1/odds)
				}
				options = append(options, discordgo.SelectMenuOption{
					Label:       truncate(view.ChoiceLabel(choice), 100),
					Value:       choice,
					Description: desc,
				})
			}
			components = append(components, discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						CustomID:    customID(actionBet, view.ID),
						Placeholder: "Place a bet",
						Options:     options,
					},
				},
			})
		}
		components = append(components, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Game Ended", Style: discordgo.PrimaryButton, CustomID: customID(actionEnd, view.ID)},
			},
		})

	case lobby.StateVoting:
		if view.VotingClosed {
			break
		}
		buttons := make([]discordgo.MessageComponent, 0, len(view.Variant.Choices()))
		for _, choice := range view.Variant.Choices() {
			buttons = append(buttons, discordgo.Button{
				Label:    truncate(view.ChoiceLabel(choice), maxLabel),
				Style:    discordgo.SecondaryButton,
				CustomID: customID(actionVote, view.ID, choice),
			})
		}
		components = append(components, discordgo.ActionsRow{Components: buttons})
	}

	return components
}

// BuildClosedEmbed replaces a lobby that closed before it filled
func BuildClosedEmbed(view lobby.View) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("⛳ %s Lobby", view.Variant.Title()),
		Description: "This lobby closed before it filled.",
		Color:       common.ColorMuted,
	}
}

// BuildRoomEmbed is posted in the match thread
func BuildRoomEmbed(view lobby.View) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Room %s", view.RoomName),
		Description: fmt.Sprintf("Create a private room named **%s** and play on **%s**. Press **Game Ended** on the lobby when you're done.", view.RoomName, courseName(view)),
		Color:       common.ColorInfo,
		Fields:      outcomeFields(view),
	}
	if view.Course != nil && view.Course.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: view.Course.ImageURL}
	}
	if view.State == lobby.StateSettled {
		embed.Color = common.ColorSuccess
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Result",
			Value: resultLine(view),
		})
	}
	return embed
}

// BuildResultsEmbed announces a settled match in the host channel
func BuildResultsEmbed(summary models.SettlementSummary) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🏆 %s match settled", summary.Variant.Title()),
		Color: common.ColorSuccess,
	}

	switch summary.Result.Kind {
	case models.ResultNone:
		embed.Color = common.ColorMuted
		embed.Description = "Nobody voted, so no result was recorded."
		return embed
	case models.ResultDraw:
		embed.Description = "The match was a draw."
	default:
		var winners []string
		for _, p := range summary.Players {
			if p.Won {
				winners = append(winners, common.Mention(p.PlayerID))
			}
		}
		embed.Description = fmt.Sprintf("Winner: %s", strings.Join(winners, " & "))
	}

	var players strings.Builder
	for _, p := range summary.Players {
		fmt.Fprintf(&players, "%s %s → %d\n", common.Mention(p.PlayerID), common.FormatDelta(p.RankDelta), p.NewRank)
	}
	if players.Len() > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Ranks", Value: players.String()})
	}

	var bets strings.Builder
	for _, b := range summary.Bets {
		if b.Won {
			fmt.Fprintf(&bets, "%s won %s\n", common.Mention(b.PlayerID), common.FormatBalance(b.Payout))
		} else {
			fmt.Fprintf(&bets, "%s lost\n", common.Mention(b.PlayerID))
		}
	}
	if bets.Len() > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Bets", Value: truncate(bets.String(), 1024)})
	}
	return embed
}

func seatList(view lobby.View) string {
	if len(view.Seats) == 0 {
		return "Nobody yet"
	}
	var b strings.Builder
	for i, s := range view.Seats {
		fmt.Fprintf(&b, "%d. %s (rank %d)", i+1, s.Name, s.Rank)
		if s.ID == view.HostID {
			b.WriteString(" 👑")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// outcomeFields lists each outcome with its odds and the credits staked on it
func outcomeFields(view lobby.View) []*discordgo.MessageEmbedField {
	staked := make(map[string]int64)
	for _, b := range view.Bets {
		staked[b.Choice] += b.Amount
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(view.Variant.Choices()))
	for _, choice := range view.Variant.Choices() {
		value := fmt.Sprintf("Win chance %s", common.FormatOdds(view.OddsFor(choice)))
		if amount := staked[choice]; amount > 0 {
			value += fmt.Sprintf("\nStaked %s", common.FormatBalance(amount))
		}
		if voted := votesFor(view, choice); voted > 0 && view.State == lobby.StateVoting {
			value += fmt.Sprintf("\nVotes %d", voted)
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   truncate(view.ChoiceLabel(choice), 256),
			Value:  value,
			Inline: true,
		})
	}
	return fields
}

func votesFor(view lobby.View, choice string) int {
	n := 0
	for _, c := range view.Votes {
		if c == choice {
			n++
		}
	}
	return n
}

func rankChanges(view lobby.View) string {
	names := make(map[string]string, len(view.Seats))
	for _, s := range view.Seats {
		names[s.ID] = s.Name
	}
	var b strings.Builder
	for _, p := range view.Summary.Players {
		fmt.Fprintf(&b, "%s %s → %d\n", names[p.PlayerID], common.FormatDelta(p.RankDelta), p.NewRank)
	}
	return b.String()
}

func resultLine(view lobby.View) string {
	if view.Result == nil {
		return "No result yet."
	}
	switch view.Result.Kind {
	case models.ResultWin:
		return fmt.Sprintf("Winner: **%s**", view.ChoiceLabel(view.Result.Choice))
	case models.ResultDraw:
		return "The match was a **draw**."
	}
	return "Nobody voted, so no result was recorded."
}

func roomLine(view lobby.View) string {
	if view.RoomName == "" {
		return fmt.Sprintf("Playing on **%s**.", courseName(view))
	}
	return fmt.Sprintf("Room **%s** on **%s**.", view.RoomName, courseName(view))
}

func courseName(view lobby.View) string {
	if view.Course == nil || view.Course.Name == "" {
		return "a course of the host's choice"
	}
	return view.Course.Name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
