package lobby

import (
	"context"
	"errors"
	"testing"
	"time"

	"puttbot/models"
	"puttbot/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLobby_SinglesHappyPath(t *testing.T) {
	w := newTestWorld(t)
	ctx := context.Background()

	l := w.fill(t, "chan", models.VariantSingles, "A", "B")
	require.Equal(t, StateBetting, l.State())

	view := l.View()
	assert.Equal(t, "Eagle", view.RoomName)
	assert.Equal(t, "Tourist Trap", view.Course.Name)
	assert.Equal(t, "thread-"+l.ID(), view.ThreadID)
	assert.InDelta(t, 0.5, view.OddsFor("1"), 1e-9)

	bet, err := l.SubmitBet(ctx, "C", "Carol", "1", 100)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, bet.Odds, 1e-9)
	assert.Equal(t, int64(200), bet.Payout)
	assert.Equal(t, int64(900), w.store.player("C").Credits)

	require.NoError(t, l.EndGame(ctx, "A"))
	assert.Equal(t, StateVoting, l.State())

	require.NoError(t, l.Vote(ctx, "A", "1"))
	assert.Equal(t, StateVoting, l.State())
	require.NoError(t, l.Vote(ctx, "B", "1"))
	assert.Equal(t, StateSettled, l.State())

	a := w.store.player("A")
	assert.Equal(t, int64(1010), a.Rank)
	assert.Equal(t, int64(1), a.Trophies)
	assert.Equal(t, int64(1), a.Wins)
	assert.Equal(t, int64(1), a.CurrentStreak)

	b := w.store.player("B")
	assert.Equal(t, int64(990), b.Rank)
	assert.Equal(t, int64(1), b.Losses)
	assert.Equal(t, int64(0), b.CurrentStreak)

	assert.Equal(t, int64(1100), w.store.player("C").Credits)
	bets := w.store.storedBets()
	require.Len(t, bets, 1)
	assert.Equal(t, models.BetWon, bets[0].Outcome())

	assert.False(t, w.m.Presence().IsActive("A"))
	assert.False(t, w.m.Presence().IsActive("B"))

	// the room is archived after the archive delay and the lobby forgotten
	w.clock.Advance(30 * time.Second)
	assert.Equal(t, []string{"thread-" + l.ID()}, w.surface.archived)
	_, ok := w.m.Lookup(l.ID())
	assert.False(t, ok)
}

func TestLobby_DrawInTriples(t *testing.T) {
	w := newTestWorld(t)
	ctx := context.Background()

	l := w.fill(t, "chan", models.VariantTriples, "A", "B", "C")
	_, err := l.SubmitBet(ctx, "D", "Dan", "2", 50)
	require.NoError(t, err)

	require.NoError(t, l.EndGame(ctx, "B"))
	require.NoError(t, l.Vote(ctx, "A", "1"))
	require.NoError(t, l.Vote(ctx, "B", "2"))
	require.NoError(t, l.Vote(ctx, "C", "3"))

	require.Equal(t, StateSettled, l.State())
	assert.Equal(t, models.ResultDraw, l.View().Result.Kind)

	for _, id := range []string{"A", "B", "C"} {
		p := w.store.player(id)
		assert.Equal(t, int64(1), p.Draws, id)
		assert.Equal(t, int64(1), p.GamesPlayed, id)
		assert.Equal(t, int64(0), p.CurrentStreak, id)
		assert.Equal(t, int64(1000), p.Rank, id)
		assert.Equal(t, p.GamesPlayed, p.Wins+p.Losses+p.Draws)
	}

	bets := w.store.storedBets()
	require.Len(t, bets, 1)
	assert.Equal(t, models.BetLost, bets[0].Outcome())
	assert.Equal(t, int64(950), w.store.player("D").Credits)
}

func TestLobby_InsufficientFunds(t *testing.T) {
	w := newTestWorld(t)
	ctx := context.Background()

	poor := models.NewPlayer("C")
	poor.Credits = 50
	w.store.seed(poor)

	l := w.fill(t, "chan", models.VariantSingles, "A", "B")

	_, err := l.SubmitBet(ctx, "C", "Carol", "2", 100)
	assert.ErrorIs(t, err, service.ErrInsufficientFunds)
	assert.Empty(t, w.store.storedBets())
	assert.Equal(t, int64(50), w.store.player("C").Credits)
	assert.Empty(t, l.View().Bets)
}

func TestLobby_CrossLobbyExclusion(t *testing.T) {
	w := newTestWorld(t)
	ctx := context.Background()

	singles := w.open(t, "chan", models.VariantSingles, "U")
	before := singles.View()

	// U cannot open a doubles lobby
	require.NoError(t, w.m.SeedStartButton(ctx, "chan", models.VariantDoubles, "seeder"))
	_, err := w.m.StartLobby(ctx, "chan", w.surface.lastButton().MessageID, models.VariantDoubles, "U", "U")
	assert.ErrorIs(t, err, service.ErrAlreadyInLobby)

	// nor join one somebody else opened
	doubles, err := w.m.StartLobby(ctx, "chan", w.surface.lastButton().MessageID, models.VariantDoubles, "V", "V")
	require.NoError(t, err)
	assert.ErrorIs(t, doubles.Join(ctx, "U", "U"), service.ErrAlreadyInLobby)

	// nor seed a start button
	assert.ErrorIs(t, w.m.SeedStartButton(ctx, "other", models.VariantTriples, "U"), service.ErrAlreadyInLobby)

	after := singles.View()
	assert.Equal(t, before.Seats, after.Seats)
	assert.Equal(t, StateOpen, after.State)
	assert.Len(t, doubles.View().Seats, 1)
}

func TestLobby_AbandonTimer(t *testing.T) {
	w := newTestWorld(t)

	l := w.open(t, "chan", models.VariantSingles, "A")
	require.NotNil(t, w.store.pendingRow(models.VariantSingles))
	assert.Equal(t, []string{"A"}, w.store.pendingRow(models.VariantSingles).Players)
	buttonsBefore := len(w.surface.postedButtons())

	w.clock.Advance(299 * time.Second)
	assert.Equal(t, StateOpen, l.State())

	w.clock.Advance(time.Second)
	assert.Equal(t, StateAbandoned, l.State())
	assert.False(t, w.m.Presence().IsActive("A"))
	assert.Nil(t, w.store.pendingRow(models.VariantSingles))
	assert.Nil(t, w.m.Directory().Pending(models.VariantSingles))
	require.Len(t, w.surface.closed, 1)

	buttons := w.surface.postedButtons()
	require.Len(t, buttons, buttonsBefore+1)
	assert.Equal(t, "chan", buttons[len(buttons)-1].ChannelID)
	assert.Equal(t, models.VariantSingles, buttons[len(buttons)-1].Variant)
	assert.True(t, w.m.Directory().HasButton("chan", models.VariantSingles))

	_, ok := w.m.Lookup(l.ID())
	assert.False(t, ok)
}

func TestLobby_VoteTimeoutWithPlurality(t *testing.T) {
	w := newTestWorld(t)
	ctx := context.Background()

	l := w.fill(t, "chan", models.VariantDoubles, "P1", "P2", "P3", "P4")
	bet, err := l.SubmitBet(ctx, "C", "Carol", models.TeamA, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(200), bet.Payout)

	require.NoError(t, l.EndGame(ctx, "P3"))
	require.NoError(t, l.Vote(ctx, "P1", models.TeamA))
	require.NoError(t, l.Vote(ctx, "P2", models.TeamA))
	require.NoError(t, l.Vote(ctx, "P3", models.TeamA))

	w.clock.Advance(299 * time.Second)
	assert.Equal(t, StateVoting, l.State())
	assert.True(t, w.m.Presence().IsActive("P4"))

	w.clock.Advance(time.Second)
	require.Equal(t, StateSettled, l.State())
	assert.Equal(t, models.Result{Kind: models.ResultWin, Choice: models.TeamA}, *l.View().Result)

	assert.Equal(t, int64(1010), w.store.player("P1").Rank)
	assert.Equal(t, int64(1010), w.store.player("P2").Rank)
	assert.Equal(t, int64(990), w.store.player("P3").Rank)
	assert.Equal(t, int64(990), w.store.player("P4").Rank)
	assert.Equal(t, int64(1100), w.store.player("C").Credits)
	assert.False(t, w.m.Presence().IsActive("P4"))
}

func TestLobby_JoinThenLeaveRestoresPresence(t *testing.T) {
	w := newTestWorld(t)
	ctx := context.Background()

	l := w.open(t, "chan", models.VariantDoubles, "A")
	before := w.m.Presence().Snapshot()

	require.NoError(t, l.Join(ctx, "B", "Bob"))
	assert.True(t, w.m.Presence().IsActive("B"))
	assert.Equal(t, []string{"A", "B"}, w.store.pendingRow(models.VariantDoubles).Players)

	require.NoError(t, l.Leave(ctx, "B"))
	assert.Equal(t, before, w.m.Presence().Snapshot())
	assert.Equal(t, []string{"A"}, w.store.pendingRow(models.VariantDoubles).Players)
}

func TestLobby_LastPlayerLeavingAbandons(t *testing.T) {
	w := newTestWorld(t)
	ctx := context.Background()

	l := w.open(t, "chan", models.VariantTriples, "A")
	require.NoError(t, l.Join(ctx, "B", "Bob"))
	require.NoError(t, l.Leave(ctx, "A"))
	assert.Equal(t, "B", l.View().HostID)

	require.NoError(t, l.Leave(ctx, "B"))
	assert.Equal(t, StateAbandoned, l.State())
	assert.Empty(t, w.m.Presence().Snapshot())
	assert.Nil(t, w.m.Directory().Pending(models.VariantTriples))

	// the abandon timer was cancelled with the lobby
	assert.Zero(t, w.clock.Pending())
}

func TestLobby_JoinRules(t *testing.T) {
	w := newTestWorld(t)
	ctx := context.Background()

	l := w.open(t, "chan", models.VariantSingles, "A")
	assert.ErrorIs(t, l.Join(ctx, "A", "A"), service.ErrAlreadyInLobby)
	assert.ErrorIs(t, l.Leave(ctx, "Z"), service.ErrNotAParticipant)

	require.NoError(t, l.Join(ctx, "B", "B"))
	err := l.Join(ctx, "C", "C")
	assert.ErrorIs(t, err, service.ErrLobbyClosed)
	assert.ErrorIs(t, err, service.ErrLobbyFull)
	assert.False(t, w.m.Presence().IsActive("C"))

	assert.ErrorIs(t, l.Leave(ctx, "A"), service.ErrLobbyClosed)
}

func TestLobby_LockInReleasesPendingSlotAndRepostsButton(t *testing.T) {
	w := newTestWorld(t)

	l := w.fill(t, "chan", models.VariantSingles, "A", "B")

	assert.Nil(t, w.m.Directory().Pending(models.VariantSingles))
	assert.Nil(t, w.store.pendingRow(models.VariantSingles))
	assert.True(t, w.m.Directory().HasButton("chan", models.VariantSingles))
	require.Len(t, w.surface.rooms, 1)
	assert.Equal(t, l.ID(), w.surface.rooms[0].ID)

	// a second singles lobby may open while the first is in play
	next := w.open(t, "chan", models.VariantSingles, "C")
	assert.Equal(t, StateOpen, next.State())
}

func TestLobby_BettingRules(t *testing.T) {
	w := newTestWorld(t)
	ctx := context.Background()

	open := w.open(t, "chan", models.VariantTriples, "A")
	_, err := open.SubmitBet(ctx, "C", "C", "1", 10)
	assert.ErrorIs(t, err, service.ErrBettingClosed)

	l := w.fill(t, "chan2", models.VariantSingles, "P", "Q")

	_, err = l.SubmitBet(ctx, "P", "P", "1", 10)
	assert.ErrorIs(t, err, service.ErrParticipantCannotBet)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = l.SubmitBet(ctx, "C", "C", "A", 10)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = l.SubmitBet(ctx, "C", "C", "1", 0)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = l.SubmitBet(ctx, "C", "C", "2", 10)
	require.NoError(t, err)
	_, err = l.SubmitBet(ctx, "D", "D", "2", 10)
	require.NoError(t, err)
	bets := l.View().Bets
	require.Len(t, bets, 2)
	assert.Equal(t, bets[0].Odds, bets[1].Odds)

	// the betting window closes while the game continues
	w.clock.Advance(120 * time.Second)
	assert.Equal(t, StateBetting, l.State())
	assert.True(t, l.View().BettingClosed)
	_, err = l.SubmitBet(ctx, "C", "C", "2", 10)
	assert.ErrorIs(t, err, service.ErrBettingClosed)

	require.NoError(t, l.EndGame(ctx, "Q"))
}

func TestLobby_EndGameRules(t *testing.T) {
	w := newTestWorld(t)
	ctx := context.Background()

	open := w.open(t, "chan", models.VariantDoubles, "A")
	assert.ErrorIs(t, open.EndGame(ctx, "A"), service.ErrInvalidInput)

	l := w.fill(t, "chan2", models.VariantSingles, "P", "Q")
	assert.ErrorIs(t, l.EndGame(ctx, "X"), service.ErrNotAParticipant)
	require.NoError(t, l.EndGame(ctx, "P"))
	assert.ErrorIs(t, l.EndGame(ctx, "Q"), service.ErrGameAlreadyEnded)

	_, err := l.SubmitBet(ctx, "C", "C", "1", 10)
	assert.ErrorIs(t, err, service.ErrBettingClosed)
}

func TestLobby_VoteRules(t *testing.T) {
	w := newTestWorld(t)
	ctx := context.Background()

	l := w.fill(t, "chan", models.VariantTriples, "A", "B", "C")
	assert.ErrorIs(t, l.Vote(ctx, "A", "1"), service.ErrVotingClosed)

	require.NoError(t, l.EndGame(ctx, "A"))
	assert.ErrorIs(t, l.Vote(ctx, "X", "1"), service.ErrNotAParticipant)
	assert.ErrorIs(t, l.Vote(ctx, "A", "4"), service.ErrInvalidInput)

	// recasting overwrites
	require.NoError(t, l.Vote(ctx, "A", "1"))
	require.NoError(t, l.Vote(ctx, "A", "2"))
	assert.Equal(t, "2", l.View().Votes["A"])
	assert.False(t, w.m.Presence().IsActive("A"))

	require.NoError(t, l.Vote(ctx, "B", "2"))
	require.NoError(t, l.Vote(ctx, "C", "3"))
	require.Equal(t, StateSettled, l.State())
	assert.Equal(t, int64(1010), w.store.player("B").Rank)

	assert.ErrorIs(t, l.Vote(ctx, "A", "1"), service.ErrVotingClosed)
}

func TestLobby_VoteTimeoutWithoutVotes(t *testing.T) {
	w := newTestWorld(t)
	ctx := context.Background()

	l := w.fill(t, "chan", models.VariantSingles, "A", "B")
	_, err := l.SubmitBet(ctx, "C", "C", "1", 100)
	require.NoError(t, err)
	require.NoError(t, l.EndGame(ctx, "A"))

	w.clock.Advance(300 * time.Second)
	require.Equal(t, StateSettled, l.State())
	assert.Equal(t, models.ResultNone, l.View().Result.Kind)

	assert.Equal(t, int64(0), w.store.player("A").GamesPlayed)
	bets := w.store.storedBets()
	require.Len(t, bets, 1)
	assert.Equal(t, models.BetPending, bets[0].Outcome())
	assert.Empty(t, w.m.Presence().Snapshot())
}

func TestLobby_SettleIsIdempotent(t *testing.T) {
	w := newTestWorld(t)
	ctx := context.Background()

	l := w.fill(t, "chan", models.VariantSingles, "A", "B")
	require.NoError(t, l.EndGame(ctx, "A"))
	require.NoError(t, l.Vote(ctx, "A", "2"))
	require.NoError(t, l.Vote(ctx, "B", "2"))
	require.Equal(t, StateSettled, l.State())

	require.NoError(t, l.Settle(ctx))
	assert.Equal(t, 1, w.store.settled)
	assert.Equal(t, int64(1010), w.store.player("B").Rank)
}

func TestLobby_SettlementFailureLeavesLobbyEnded(t *testing.T) {
	w := newTestWorld(t)
	ctx := context.Background()

	l := w.fill(t, "chan", models.VariantSingles, "A", "B")
	require.NoError(t, l.EndGame(ctx, "A"))

	w.store.settleErr = errors.Join(service.ErrTransientStore, errors.New("connection reset"))
	require.NoError(t, l.Vote(ctx, "A", "1"))
	err := l.Vote(ctx, "B", "1")
	assert.ErrorIs(t, err, service.ErrTransientStore)

	view := l.View()
	assert.Equal(t, StateEnded, view.State)
	assert.True(t, view.VotingClosed)
	assert.True(t, view.SettleFailed)
	assert.Equal(t, int64(1000), w.store.player("A").Rank)
	assert.ErrorIs(t, l.Vote(ctx, "A", "2"), service.ErrVotingClosed)
}

func TestLobby_SettlementFailureFreesSilentPlayers(t *testing.T) {
	w := newTestWorld(t)
	ctx := context.Background()

	l := w.fill(t, "chan", models.VariantSingles, "A", "B")
	require.NoError(t, l.EndGame(ctx, "A"))
	require.NoError(t, l.Vote(ctx, "A", "1"))
	require.True(t, w.m.Presence().IsActive("B"))

	w.store.settleErr = errors.Join(service.ErrTransientStore, errors.New("connection reset"))
	w.clock.Advance(DefaultConfig().VotingWindow)

	assert.Equal(t, StateEnded, l.State())
	assert.True(t, l.View().SettleFailed)
	assert.False(t, w.m.Presence().IsActive("B"))

	next := w.open(t, "chan-2", models.VariantSingles, "B")
	assert.Equal(t, StateOpen, next.State())
}

func TestLobby_CourseFallback(t *testing.T) {
	w := newTestWorld(t)
	w.m.courses = fakeCourses{err: errors.New("store down")}

	l := w.fill(t, "chan", models.VariantSingles, "A", "B")
	assert.Equal(t, service.DefaultCourse.Name, l.View().Course.Name)
}

func TestLobby_LockInUsesRanksSettledAfterJoin(t *testing.T) {
	w := newTestWorld(t)
	ctx := context.Background()

	first := w.fill(t, "chan-1", models.VariantSingles, "A", "B")
	require.NoError(t, first.EndGame(ctx, "A"))
	require.NoError(t, first.Vote(ctx, "A", "1"))

	// A is free again after voting and joins the next match at the old rank
	second := w.open(t, "chan-2", models.VariantTriples, "A")
	require.NoError(t, first.Vote(ctx, "B", "1"))
	require.Equal(t, StateSettled, first.State())
	require.Equal(t, int64(1010), w.store.player("A").Rank)

	require.NoError(t, second.Join(ctx, "C", "name-C"))
	require.NoError(t, second.Join(ctx, "D", "name-D"))
	require.Equal(t, StateBetting, second.State())

	want, err := service.WinProbabilities(models.VariantTriples, []int64{1010, 1000, 1000})
	require.NoError(t, err)
	view := second.View()
	assert.InDelta(t, want[0], view.OddsFor("1"), 1e-9)
	assert.Equal(t, int64(1010), view.Seats[0].Rank)
}
