package lobby

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"puttbot/clock"
	"puttbot/models"
	"puttbot/service"
)

// fakeStore is an in-memory stand-in for the player, bet, settlement and
// pending-game services.
type fakeStore struct {
	mu        sync.Mutex
	players   map[string]*models.Player
	bets      map[int64]*models.Bet
	nextBetID int64
	pending   map[models.Variant]*models.PendingGame
	settleErr error
	settled   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		players: make(map[string]*models.Player),
		bets:    make(map[int64]*models.Bet),
		pending: make(map[models.Variant]*models.PendingGame),
	}
}

func (s *fakeStore) getOrCreate(id string) *models.Player {
	p, ok := s.players[id]
	if !ok {
		p = models.NewPlayer(id)
		s.players[id] = p
	}
	return p
}

func (s *fakeStore) seed(p *models.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[p.ID] = p
}

func (s *fakeStore) player(id string) models.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.getOrCreate(id)
}

func (s *fakeStore) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s.getOrCreate(id)
	return &cp, nil
}

func (s *fakeStore) PlaceBet(ctx context.Context, bet *models.Bet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bettor := s.getOrCreate(bet.PlayerID)
	if bettor.Credits < bet.Amount {
		return service.ErrInsufficientFunds
	}
	bettor.Credits -= bet.Amount
	bet.Payout = service.Payout(bet.Amount, bet.Odds)
	s.nextBetID++
	bet.ID = s.nextBetID
	stored := *bet
	s.bets[bet.ID] = &stored
	return nil
}

func (s *fakeStore) Settle(ctx context.Context, match *models.MatchSettlement) (*models.SettlementSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settleErr != nil {
		return nil, s.settleErr
	}
	s.settled++
	summary := &models.SettlementSummary{GameID: match.GameID, Variant: match.Variant, Result: match.Result}
	if match.Result.Kind == models.ResultNone {
		return summary, nil
	}

	players := make([]*models.Player, 0, len(match.Players))
	for _, id := range match.Players {
		players = append(players, s.getOrCreate(id))
	}
	summary.Players = service.ApplyResult(service.FlatPolicy{Step: 10}, match.Variant, players, match.Result)

	for _, b := range match.Bets {
		stored := s.bets[b.ID]
		won := match.Result.Wins(b.Choice)
		if stored == nil || !stored.Resolve(won) {
			continue
		}
		payout := models.BetPayout{BetID: b.ID, PlayerID: b.PlayerID, Won: won}
		if won {
			s.getOrCreate(b.PlayerID).Credits += stored.Payout
			payout.Payout = stored.Payout
		}
		summary.Bets = append(summary.Bets, payout)
	}
	return summary, nil
}

func (s *fakeStore) storedBets() []models.Bet {
	s.mu.Lock()
	defer s.mu.Unlock()
	bets := make([]models.Bet, 0, len(s.bets))
	for id := int64(1); id <= s.nextBetID; id++ {
		if b, ok := s.bets[id]; ok {
			bets = append(bets, *b)
		}
	}
	return bets
}

func (s *fakeStore) SavePending(ctx context.Context, game *models.PendingGame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *game
	s.pending[game.GameType] = &cp
	return nil
}

func (s *fakeStore) RemovePending(ctx context.Context, gameType models.Variant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, gameType)
	return nil
}

func (s *fakeStore) ListPending(ctx context.Context) ([]*models.PendingGame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var games []*models.PendingGame
	for _, v := range models.Variants {
		if g, ok := s.pending[v]; ok {
			cp := *g
			games = append(games, &cp)
		}
	}
	return games, nil
}

func (s *fakeStore) ClearPending(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = make(map[models.Variant]*models.PendingGame)
	return nil
}

func (s *fakeStore) pendingRow(v models.Variant) *models.PendingGame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[v]
}

type fakeNamer struct{}

func (fakeNamer) UniqueWord(ctx context.Context) string { return "Eagle" }

type fakeCourses struct{ err error }

func (c fakeCourses) RandomCourse(ctx context.Context) (*models.Course, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &models.Course{Name: "Tourist Trap"}, nil
}

type postedButton struct {
	ChannelID string
	Variant   models.Variant
	MessageID string
}

// fakeSurface records what would have been shown in chat
type fakeSurface struct {
	mu       sync.Mutex
	seq      int
	posted   []postedButton
	removed  []string
	renders  int
	last     View
	closed   []View
	rooms    []View
	archived []string
}

func (f *fakeSurface) PostStartButton(ctx context.Context, channelID string, variant models.Variant) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	id := fmt.Sprintf("msg-%d", f.seq)
	f.posted = append(f.posted, postedButton{ChannelID: channelID, Variant: variant, MessageID: id})
	return id, nil
}

func (f *fakeSurface) RemoveStartButton(ctx context.Context, channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, messageID)
	return nil
}

func (f *fakeSurface) RenderLobby(ctx context.Context, view View) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renders++
	f.last = view
	return nil
}

func (f *fakeSurface) CloseLobby(ctx context.Context, view View) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, view)
	return nil
}

func (f *fakeSurface) OpenRoom(ctx context.Context, view View) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms = append(f.rooms, view)
	return "thread-" + view.ID, "room-" + view.ID, nil
}

func (f *fakeSurface) RenderRoom(ctx context.Context, view View) error {
	return nil
}

func (f *fakeSurface) ArchiveRoom(ctx context.Context, threadID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.archived = append(f.archived, threadID)
	return nil
}

func (f *fakeSurface) postedButtons() []postedButton {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]postedButton(nil), f.posted...)
}

func (f *fakeSurface) lastButton() postedButton {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posted[len(f.posted)-1]
}

type testWorld struct {
	m       *Manager
	store   *fakeStore
	surface *fakeSurface
	clock   *clock.Fake
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()
	w := &testWorld{
		store:   newFakeStore(),
		surface: &fakeSurface{},
		clock:   clock.NewFake(time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)),
	}
	w.m = NewManager(DefaultConfig(), Deps{
		Players: w.store,
		Bets:    w.store,
		Settler: w.store,
		Pending: w.store,
		Names:   fakeNamer{},
		Courses: fakeCourses{},
		Surface: w.surface,
		Clock:   w.clock,
	})
	return w
}

// open seeds a start button in channel and has host press it
func (w *testWorld) open(t *testing.T, channelID string, variant models.Variant, host string) *Lobby {
	t.Helper()
	ctx := context.Background()
	if err := w.m.SeedStartButton(ctx, channelID, variant, "seeder"); err != nil && !errors.Is(err, service.ErrPendingExists) {
		t.Fatalf("seed start button: %v", err)
	}
	var msgID string
	for _, b := range w.surface.postedButtons() {
		if b.ChannelID == channelID && b.Variant == variant {
			msgID = b.MessageID
		}
	}
	l, err := w.m.StartLobby(ctx, channelID, msgID, variant, host, "name-"+host)
	if err != nil {
		t.Fatalf("start lobby: %v", err)
	}
	return l
}

// fill opens a lobby and seats the given players in order, the first as host
func (w *testWorld) fill(t *testing.T, channelID string, variant models.Variant, players ...string) *Lobby {
	t.Helper()
	l := w.open(t, channelID, variant, players[0])
	for _, p := range players[1:] {
		if err := l.Join(context.Background(), p, "name-"+p); err != nil {
			t.Fatalf("join %s: %v", p, err)
		}
	}
	return l
}
