package matches

import (
	"testing"

	"puttbot/lobby"
	"puttbot/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singlesView(state lobby.State) lobby.View {
	return lobby.View{
		ID:        "900",
		GameID:    "game-1",
		Variant:   models.VariantSingles,
		ChannelID: "chan",
		HostID:    "1",
		State:     state,
		Seats: []lobby.Seat{
			{ID: "1", Name: "alice", Rank: 1000},
			{ID: "2", Name: "bob", Rank: 1000},
		},
		Odds:     []float64{0.5, 0.5},
		Votes:    map[string]string{},
		RoomName: "Eagle",
		Course:   &models.Course{Name: "Pirate Cove", ImageURL: "https://example.com/cove.png"},
	}
}

func rowOf(t *testing.T, c discordgo.MessageComponent) discordgo.ActionsRow {
	row, ok := c.(discordgo.ActionsRow)
	require.True(t, ok)
	return row
}

func TestBuildLobbyComponents_Open(t *testing.T) {
	view := singlesView(lobby.StateOpen)
	view.Seats = view.Seats[:1]

	components := BuildLobbyComponents(view)
	require.Len(t, components, 1)
	row := rowOf(t, components[0])
	require.Len(t, row.Components, 2)
	assert.Equal(t, "match_join_900", row.Components[0].(discordgo.Button).CustomID)
	assert.Equal(t, "match_leave_900", row.Components[1].(discordgo.Button).CustomID)
}

func TestBuildLobbyComponents_Betting(t *testing.T) {
	view := singlesView(lobby.StateBetting)

	components := BuildLobbyComponents(view)
	require.Len(t, components, 2)

	menu := rowOf(t, components[0]).Components[0].(discordgo.SelectMenu)
	assert.Equal(t, "match_bet_900", menu.CustomID)
	require.Len(t, menu.Options, 2)
	assert.Equal(t, "alice", menu.Options[0].Label)
	assert.Equal(t, "1", menu.Options[0].Value)
	assert.Equal(t, "Win chance 50.0%, pays 2.00x", menu.Options[0].Description)

	end := rowOf(t, components[1]).Components[0].(discordgo.Button)
	assert.Equal(t, "match_end_900", end.CustomID)

	view.BettingClosed = true
	components = BuildLobbyComponents(view)
	require.Len(t, components, 1)
	assert.Equal(t, "match_end_900", rowOf(t, components[0]).Components[0].(discordgo.Button).CustomID)
}

func TestBuildLobbyComponents_VotingAndTerminal(t *testing.T) {
	view := singlesView(lobby.StateVoting)

	components := BuildLobbyComponents(view)
	require.Len(t, components, 1)
	buttons := rowOf(t, components[0]).Components
	require.Len(t, buttons, 2)
	assert.Equal(t, "match_vote_900_2", buttons[1].(discordgo.Button).CustomID)
	assert.Equal(t, "bob", buttons[1].(discordgo.Button).Label)

	view.State = lobby.StateSettled
	components = BuildLobbyComponents(view)
	assert.NotNil(t, components)
	assert.Empty(t, components)
}

func TestBuildLobbyEmbed(t *testing.T) {
	view := singlesView(lobby.StateBetting)
	view.Bets = []*models.Bet{
		{PlayerID: "9", Choice: "1", Amount: 100},
		{PlayerID: "8", Choice: "1", Amount: 250},
	}

	embed := BuildLobbyEmbed(view)
	assert.Contains(t, embed.Description, "Room **Eagle** on **Pirate Cove**")
	assert.Contains(t, embed.Description, "Betting is **open**")
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "alice", embed.Fields[0].Name)
	assert.Contains(t, embed.Fields[0].Value, "Staked 350")
	assert.Equal(t, "2 bets, 350 credits staked", embed.Fields[2].Value)

	view.State = lobby.StateSettled
	view.Result = &models.Result{Kind: models.ResultWin, Choice: "2"}
	view.Summary = &models.SettlementSummary{
		Players: []models.PlayerChange{
			{PlayerID: "1", RankDelta: -10, NewRank: 990},
			{PlayerID: "2", Won: true, RankDelta: 10, NewRank: 1010},
		},
	}
	embed = BuildLobbyEmbed(view)
	assert.Equal(t, "Winner: **bob**", embed.Description)
	assert.Contains(t, embed.Fields[2].Value, "bob +10 → 1010")
}

func TestBuildLobbyEmbed_DoublesTeams(t *testing.T) {
	view := lobby.View{
		ID:      "900",
		Variant: models.VariantDoubles,
		State:   lobby.StateBetting,
		Seats: []lobby.Seat{
			{ID: "1", Name: "a"}, {ID: "2", Name: "b"}, {ID: "3", Name: "c"}, {ID: "4", Name: "d"},
		},
		Odds: []float64{0.5, 0.5},
	}
	embed := BuildLobbyEmbed(view)
	assert.Equal(t, "Team A (a & b)", embed.Fields[0].Name)
	assert.Equal(t, "Team B (c & d)", embed.Fields[1].Name)
}

func TestBuildRoomEmbed(t *testing.T) {
	embed := BuildRoomEmbed(singlesView(lobby.StateBetting))
	assert.Equal(t, "Room Eagle", embed.Title)
	require.NotNil(t, embed.Image)
	assert.Equal(t, "https://example.com/cove.png", embed.Image.URL)

	view := singlesView(lobby.StateBetting)
	view.Course = nil
	assert.Contains(t, BuildRoomEmbed(view).Description, "a course of the host's choice")
}

func TestBuildResultsEmbed(t *testing.T) {
	summary := models.SettlementSummary{
		Variant: models.VariantSingles,
		Result:  models.Result{Kind: models.ResultWin, Choice: "1"},
		Players: []models.PlayerChange{
			{PlayerID: "1", Won: true, RankDelta: 10, NewRank: 1010},
			{PlayerID: "2", RankDelta: -10, NewRank: 990},
		},
		Bets: []models.BetPayout{
			{PlayerID: "9", Won: true, Payout: 200},
			{PlayerID: "8", Won: false},
		},
	}

	embed := BuildResultsEmbed(summary)
	assert.Equal(t, "Winner: <@1>", embed.Description)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "<@1> +10 → 1010\n<@2> -10 → 990\n", embed.Fields[0].Value)
	assert.Equal(t, "<@9> won 200\n<@8> lost\n", embed.Fields[1].Value)

	none := BuildResultsEmbed(models.SettlementSummary{Variant: models.VariantSingles, Result: models.Result{Kind: models.ResultNone}})
	assert.Empty(t, none.Fields)
	assert.Contains(t, none.Description, "Nobody voted")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
