package lobby

import (
	"context"
	"fmt"
	"sync"

	"puttbot/clock"
	"puttbot/events"
	"puttbot/models"
	"puttbot/service"

	log "github.com/sirupsen/logrus"
)

// Lobby is one match from the first player joining until settlement.
// Every transition, timer callbacks included, runs under mu.
type Lobby struct {
	mu sync.Mutex
	m  *Manager

	id        string // the chat message carrying the lobby
	gameID    string
	variant   models.Variant
	channelID string
	hostID    string

	seats         []Seat
	state         State
	bettingClosed bool
	votingClosed  bool
	book          BetBook
	votes         map[string]string
	odds          []float64

	roomName      string
	course        *models.Course
	threadID      string
	roomMessageID string

	result       *models.Result
	summary      *models.SettlementSummary
	settleFailed bool

	abandonTimer clock.Timer
	bettingTimer clock.Timer
	voteTimer    clock.Timer
	archiveTimer clock.Timer
}

func (l *Lobby) ID() string { return l.id }

func (l *Lobby) GameID() string { return l.gameID }

func (l *Lobby) Variant() models.Variant { return l.variant }

func (l *Lobby) ChannelID() string { return l.channelID }

func (l *Lobby) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// View returns a snapshot of the lobby
func (l *Lobby) View() View {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.view()
}

// Join seats a user. The lobby locks in when the last seat is taken.
func (l *Lobby) Join(ctx context.Context, userID, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateOpen {
		return service.ErrLobbyClosed
	}
	if l.seatOf(userID) >= 0 {
		return service.ErrAlreadyInLobby
	}
	if len(l.seats) >= l.variant.Capacity() {
		return service.ErrLobbyFull
	}
	if !l.m.presence.Activate(userID) {
		return service.ErrAlreadyInLobby
	}

	player, err := l.m.players.GetPlayer(ctx, userID)
	if err != nil {
		l.m.presence.Deactivate(userID)
		return fmt.Errorf("failed to load player %s: %w", userID, err)
	}

	l.seats = append(l.seats, Seat{ID: userID, Name: name, Rank: player.Rank})
	l.logger().WithFields(log.Fields{
		"user":    userID,
		"players": len(l.seats),
	}).Info("Player joined lobby")

	if len(l.seats) == l.variant.Capacity() {
		l.lockIn(ctx)
		return nil
	}

	l.persistPending(ctx)
	l.render(ctx)
	return nil
}

// Leave unseats a user before lock-in. The last player leaving abandons the lobby.
func (l *Lobby) Leave(ctx context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.seatOf(userID)
	if idx < 0 {
		return service.ErrNotAParticipant
	}
	if l.state != StateOpen {
		return service.ErrLobbyClosed
	}

	l.seats = append(l.seats[:idx], l.seats[idx+1:]...)
	l.m.presence.Deactivate(userID)
	l.logger().WithField("user", userID).Info("Player left lobby")

	if len(l.seats) == 0 {
		l.abandon(ctx, "empty", true)
		return nil
	}
	if userID == l.hostID {
		l.hostID = l.seats[0].ID
	}

	l.persistPending(ctx)
	l.render(ctx)
	return nil
}

// SubmitBet places a spectator bet at the odds frozen at lock-in
func (l *Lobby) SubmitBet(ctx context.Context, bettorID, name, choice string, amount int64) (*models.Bet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.seatOf(bettorID) >= 0 {
		return nil, service.ErrParticipantCannotBet
	}
	if l.state != StateBetting || l.bettingClosed {
		return nil, service.ErrBettingClosed
	}
	idx := choiceIndex(l.variant, choice)
	if idx < 0 || idx >= len(l.odds) {
		return nil, fmt.Errorf("%w: %q is not an outcome of this match", service.ErrInvalidInput, choice)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: bet amount must be positive", service.ErrInvalidInput)
	}

	bet := &models.Bet{
		PlayerID:    bettorID,
		DisplayName: name,
		GameID:      l.gameID,
		Choice:      choice,
		Amount:      amount,
		Odds:        l.odds[idx],
	}
	if err := l.m.bets.PlaceBet(ctx, bet); err != nil {
		return nil, err
	}
	l.book.Append(bet)

	l.render(ctx)
	placed := *bet
	return &placed, nil
}

// EndGame is pressed by a participant once the match has been played. It
// closes betting and opens voting.
func (l *Lobby) EndGame(ctx context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.seatOf(userID) < 0 {
		return service.ErrNotAParticipant
	}
	switch l.state {
	case StateBetting:
	case StateEnded, StateVoting, StateSettled:
		return service.ErrGameAlreadyEnded
	default:
		return fmt.Errorf("%w: the game has not started", service.ErrInvalidInput)
	}

	stopTimer(&l.bettingTimer)
	l.bettingClosed = true
	l.transition(StateEnded)
	l.transition(StateVoting)
	l.voteTimer = l.m.clock.AfterFunc(l.m.cfg.VotingWindow, l.voteTimeout)

	l.render(ctx)
	return nil
}

// Vote records or replaces a participant's vote. The match settles as soon as
// every participant has voted.
func (l *Lobby) Vote(ctx context.Context, userID, choice string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.seatOf(userID) < 0 {
		return service.ErrNotAParticipant
	}
	if l.state != StateVoting || l.votingClosed {
		return service.ErrVotingClosed
	}
	if !l.variant.IsChoice(choice) {
		return fmt.Errorf("%w: %q is not an outcome of this match", service.ErrInvalidInput, choice)
	}

	l.votes[userID] = choice
	l.m.presence.Deactivate(userID)
	l.logger().WithFields(log.Fields{
		"user":   userID,
		"choice": choice,
		"votes":  len(l.votes),
	}).Info("Vote recorded")

	if len(l.votes) == len(l.seats) {
		return l.settle(ctx)
	}
	l.render(ctx)
	return nil
}

// Settle closes voting and applies the tally. Settling an already settled
// lobby does nothing.
func (l *Lobby) Settle(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateSettled:
		return nil
	case StateVoting, StateEnded:
		return l.settle(ctx)
	}
	return fmt.Errorf("%w: lobby is %s", service.ErrInvalidInput, l.state)
}

func (l *Lobby) lockIn(ctx context.Context) {
	stopTimer(&l.abandonTimer)
	l.transition(StateLocked)

	l.m.directory.Release(l.variant, l)
	if err := l.m.pending.RemovePending(ctx, l.variant); err != nil {
		l.logger().WithError(err).Error("Failed to remove pending game row")
	}
	l.m.repostStartButton(ctx, l.channelID, l.variant)

	// ranks can move between join and lock-in when a seat's previous match settles
	ratings := make([]int64, len(l.seats))
	for i := range l.seats {
		seat := &l.seats[i]
		if player, err := l.m.players.GetPlayer(ctx, seat.ID); err != nil {
			l.logger().WithError(err).WithField("user", seat.ID).Warn("Failed to refresh rank, using rank at join")
		} else {
			seat.Rank = player.Rank
		}
		ratings[i] = seat.Rank
	}
	odds, err := service.WinProbabilities(l.variant, ratings)
	if err != nil {
		l.logger().WithError(err).Error("Failed to compute odds")
		odds = make([]float64, len(l.variant.Choices()))
		for i := range odds {
			odds[i] = 1 / float64(len(odds))
		}
	}
	l.odds = odds

	l.roomName = l.m.names.UniqueWord(ctx)
	course, err := l.m.courses.RandomCourse(ctx)
	if err != nil {
		l.logger().WithError(err).Warn("Failed to pick a course")
		fallback := service.DefaultCourse
		course = &fallback
	}
	l.course = course

	threadID, roomMessageID, err := l.m.surface.OpenRoom(ctx, l.view())
	if err != nil {
		l.logger().WithError(err).Error("Failed to open match room")
	}
	l.threadID, l.roomMessageID = threadID, roomMessageID

	l.transition(StateBetting)
	l.bettingTimer = l.m.clock.AfterFunc(l.m.cfg.BettingWindow, l.closeBetting)
	l.render(ctx)
}

func (l *Lobby) settle(ctx context.Context) error {
	stopTimer(&l.voteTimer)
	l.votingClosed = true

	result := Tally(l.votes)
	l.result = &result

	match := &models.MatchSettlement{
		GameID:    l.gameID,
		Variant:   l.variant,
		ChannelID: l.channelID,
		Players:   l.playerIDs(),
		Result:    result,
		Bets:      l.book.Bets(),
	}
	summary, err := l.m.settler.Settle(ctx, match)
	if err != nil {
		l.settleFailed = true
		l.state = StateEnded
		l.m.presence.DeactivateMany(l.playerIDs())
		l.logger().WithError(err).Error("Settlement failed, lobby left ended for an administrator")
		l.render(ctx)
		return err
	}

	l.book.Settle(result)
	l.summary = summary
	l.settleFailed = false
	l.transition(StateSettled)
	l.m.presence.DeactivateMany(l.playerIDs())

	l.render(ctx)
	l.archiveTimer = l.m.clock.AfterFunc(l.m.cfg.ArchiveAfter, l.archive)
	return nil
}

// abandon closes a lobby that never filled. Caller holds mu.
func (l *Lobby) abandon(ctx context.Context, reason string, repost bool) {
	if l.state.Terminal() {
		return
	}
	l.stopTimers()
	players := l.playerIDs()
	l.state = StateAbandoned
	l.logger().WithField("reason", reason).Info("Lobby abandoned")

	l.m.presence.DeactivateMany(players)
	l.m.directory.Release(l.variant, l)
	if err := l.m.pending.RemovePending(ctx, l.variant); err != nil {
		l.logger().WithError(err).Error("Failed to remove pending game row")
	}
	if err := l.m.surface.CloseLobby(ctx, l.view()); err != nil {
		l.logger().WithError(err).Error("Failed to close lobby message")
	}
	if repost {
		l.m.repostStartButton(ctx, l.channelID, l.variant)
	}
	l.m.forget(l)

	if l.m.bus != nil {
		l.m.bus.Emit(ctx, events.LobbyAbandonedEvent{
			LobbyID:   l.id,
			Variant:   l.variant,
			ChannelID: l.channelID,
			Players:   players,
		})
	}
}

func (l *Lobby) abandonTimeout() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateOpen || len(l.seats) >= l.variant.Capacity() {
		return
	}
	l.abandon(context.Background(), "inactivity", true)
}

func (l *Lobby) closeBetting() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateBetting || l.bettingClosed {
		return
	}
	l.bettingClosed = true
	l.logger().Info("Betting window closed")
	l.render(context.Background())
}

func (l *Lobby) voteTimeout() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateVoting {
		return
	}
	l.logger().WithField("votes", len(l.votes)).Info("Voting window elapsed")
	_ = l.settle(context.Background())
}

func (l *Lobby) archive() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateSettled {
		return
	}
	if l.threadID != "" {
		if err := l.m.surface.ArchiveRoom(context.Background(), l.threadID); err != nil {
			l.logger().WithError(err).Error("Failed to archive match room")
		}
	}
	l.m.forget(l)
}

func (l *Lobby) transition(to State) {
	l.state = to
	l.logger().Info("Lobby transition")
}

func (l *Lobby) stopTimers() {
	stopTimer(&l.abandonTimer)
	stopTimer(&l.bettingTimer)
	stopTimer(&l.voteTimer)
	stopTimer(&l.archiveTimer)
}

func stopTimer(t *clock.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}

func (l *Lobby) persistPending(ctx context.Context) {
	game := &models.PendingGame{
		GameType:  l.variant,
		Players:   l.playerIDs(),
		ChannelID: l.channelID,
	}
	if err := l.m.pending.SavePending(ctx, game); err != nil {
		l.logger().WithError(err).Error("Failed to save pending game row")
	}
}

func (l *Lobby) render(ctx context.Context) {
	v := l.view()
	if err := l.m.surface.RenderLobby(ctx, v); err != nil {
		l.logger().WithError(err).Error("Failed to render lobby")
	}
	if l.threadID != "" {
		if err := l.m.surface.RenderRoom(ctx, v); err != nil {
			l.logger().WithError(err).Error("Failed to render match room")
		}
	}
}

func (l *Lobby) view() View {
	votes := make(map[string]string, len(l.votes))
	for k, v := range l.votes {
		votes[k] = v
	}
	return View{
		ID:            l.id,
		GameID:        l.gameID,
		Variant:       l.variant,
		ChannelID:     l.channelID,
		HostID:        l.hostID,
		State:         l.state,
		Seats:         append([]Seat(nil), l.seats...),
		Odds:          append([]float64(nil), l.odds...),
		Bets:          l.book.Bets(),
		Votes:         votes,
		BettingClosed: l.bettingClosed,
		VotingClosed:  l.votingClosed,
		RoomName:      l.roomName,
		Course:        l.course,
		ThreadID:      l.threadID,
		RoomMessageID: l.roomMessageID,
		Result:        l.result,
		Summary:       l.summary,
		SettleFailed:  l.settleFailed,
	}
}

func (l *Lobby) seatOf(userID string) int {
	for i, s := range l.seats {
		if s.ID == userID {
			return i
		}
	}
	return -1
}

func (l *Lobby) playerIDs() []string {
	ids := make([]string, len(l.seats))
	for i, s := range l.seats {
		ids[i] = s.ID
	}
	return ids
}

func (l *Lobby) logger() *log.Entry {
	return log.WithFields(log.Fields{
		"lobby":   l.id,
		"variant": l.variant,
		"state":   l.state,
	})
}

func choiceIndex(variant models.Variant, choice string) int {
	for i, c := range variant.Choices() {
		if c == choice {
			return i
		}
	}
	return -1
}
