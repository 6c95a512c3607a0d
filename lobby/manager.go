package lobby

import (
	"context"
	"fmt"
	"sync"
	"time"

	"puttbot/clock"
	"puttbot/events"
	"puttbot/models"
	"puttbot/service"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Config holds the lobby timings
type Config struct {
	AbandonAfter  time.Duration
	BettingWindow time.Duration
	VotingWindow  time.Duration
	ArchiveAfter  time.Duration
}

// DefaultConfig returns the production timings
func DefaultConfig() Config {
	return Config{
		AbandonAfter:  300 * time.Second,
		BettingWindow: 120 * time.Second,
		VotingWindow:  300 * time.Second,
		ArchiveAfter:  30 * time.Second,
	}
}

// Deps are the collaborators a Manager drives
type Deps struct {
	Players PlayerStore
	Bets    BetPlacer
	Settler MatchSettler
	Pending PendingStore
	Names   RoomNamer
	Courses CoursePicker
	Surface Surface
	Clock   clock.Clock
	Bus     *events.Bus // optional
}

// Manager owns every live lobby together with the presence tracker and the
// pending-game directory they share. Tests build one per world.
type Manager struct {
	cfg Config

	players PlayerStore
	bets    BetPlacer
	settler MatchSettler
	pending PendingStore
	names   RoomNamer
	courses CoursePicker
	surface Surface
	clock   clock.Clock
	bus     *events.Bus

	presence  *Presence
	directory *Directory

	mu      sync.Mutex
	lobbies map[string]*Lobby
}

// NewManager creates a new lobby manager
func NewManager(cfg Config, deps Deps) *Manager {
	clk := deps.Clock
	if clk == nil {
		clk = &clock.DefaultClock{}
	}
	return &Manager{
		cfg:       cfg,
		players:   deps.Players,
		bets:      deps.Bets,
		settler:   deps.Settler,
		pending:   deps.Pending,
		names:     deps.Names,
		courses:   deps.Courses,
		surface:   deps.Surface,
		clock:     clk,
		bus:       deps.Bus,
		presence:  NewPresence(),
		directory: NewDirectory(),
		lobbies:   make(map[string]*Lobby),
	}
}

func (m *Manager) Presence() *Presence { return m.presence }

func (m *Manager) Directory() *Directory { return m.directory }

// SeedStartButton posts a start button for a variant in a channel
func (m *Manager) SeedStartButton(ctx context.Context, channelID string, variant models.Variant, invokerID string) error {
	if m.presence.IsActive(invokerID) {
		return service.ErrAlreadyInLobby
	}
	if m.directory.Pending(variant) != nil || m.directory.HasButton(channelID, variant) {
		return service.ErrPendingExists
	}

	msgID, err := m.surface.PostStartButton(ctx, channelID, variant)
	if err != nil {
		return fmt.Errorf("failed to post start button: %w", err)
	}
	if !m.directory.AddButton(channelID, variant, msgID) {
		if err := m.surface.RemoveStartButton(ctx, channelID, msgID); err != nil {
			log.WithError(err).Warn("Failed to remove duplicate start button")
		}
		return service.ErrPendingExists
	}

	log.WithFields(log.Fields{
		"channel": channelID,
		"variant": variant,
		"user":    invokerID,
	}).Info("Start button posted")
	return nil
}

// StartLobby turns the start button message into a new lobby hosted by the presser
func (m *Manager) StartLobby(ctx context.Context, channelID, messageID string, variant models.Variant, hostID, hostName string) (*Lobby, error) {
	if m.presence.IsActive(hostID) {
		return nil, service.ErrAlreadyInLobby
	}
	if m.directory.Pending(variant) != nil {
		return nil, service.ErrPendingExists
	}

	host, err := m.players.GetPlayer(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player %s: %w", hostID, err)
	}

	l := &Lobby{
		m:         m,
		id:        messageID,
		gameID:    uuid.NewString(),
		variant:   variant,
		channelID: channelID,
		hostID:    hostID,
		seats:     []Seat{{ID: hostID, Name: hostName, Rank: host.Rank}},
		state:     StateOpen,
		votes:     make(map[string]string),
	}

	if !m.directory.Claim(variant, l) {
		return nil, service.ErrPendingExists
	}
	if !m.presence.Activate(hostID) {
		m.directory.Release(variant, l)
		return nil, service.ErrAlreadyInLobby
	}
	m.directory.TakeButton(channelID, variant, messageID)

	m.mu.Lock()
	m.lobbies[l.id] = l
	m.mu.Unlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.abandonTimer = m.clock.AfterFunc(m.cfg.AbandonAfter, l.abandonTimeout)
	l.logger().WithFields(log.Fields{
		"game": l.gameID,
		"host": hostID,
	}).Info("Lobby opened")
	l.persistPending(ctx)
	l.render(ctx)
	return l, nil
}

// Lookup finds a live lobby by its message id
func (m *Manager) Lookup(id string) (*Lobby, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lobbies[id]
	return l, ok
}

// Lobbies returns the number of live lobbies
func (m *Manager) Lobbies() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lobbies)
}

// Restore reposts a start button for every pending game recorded before a
// restart. The lobbies themselves are gone, so their rows are cleared.
func (m *Manager) Restore(ctx context.Context) error {
	games, err := m.pending.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pending games: %w", err)
	}
	for _, g := range games {
		m.repostStartButton(ctx, g.ChannelID, g.GameType)
	}
	if err := m.pending.ClearPending(ctx); err != nil {
		return fmt.Errorf("failed to clear pending games: %w", err)
	}

	log.WithField("count", len(games)).Info("Restored start buttons for pending games")
	return nil
}

// ClearPending closes every pending lobby, removes every start button and
// empties the durable directory.
func (m *Manager) ClearPending(ctx context.Context) error {
	for _, l := range m.directory.PendingLobbies() {
		l.mu.Lock()
		l.abandon(ctx, "cleared by administrator", false)
		l.mu.Unlock()
	}
	for _, b := range m.directory.DrainButtons() {
		if err := m.surface.RemoveStartButton(ctx, b.ChannelID, b.MessageID); err != nil {
			log.WithError(err).WithField("channel", b.ChannelID).Warn("Failed to remove start button")
		}
	}
	if err := m.pending.ClearPending(ctx); err != nil {
		return fmt.Errorf("failed to clear pending games: %w", err)
	}
	return nil
}

// ClearPresence releases one user, or everyone when userID is empty
func (m *Manager) ClearPresence(userID string) {
	if userID == "" {
		m.presence.Clear()
		log.Info("Cleared all presence")
		return
	}
	m.presence.Deactivate(userID)
	log.WithField("user", userID).Info("Cleared presence")
}

func (m *Manager) repostStartButton(ctx context.Context, channelID string, variant models.Variant) {
	if m.directory.HasButton(channelID, variant) {
		return
	}
	msgID, err := m.surface.PostStartButton(ctx, channelID, variant)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"channel": channelID,
			"variant": variant,
		}).Error("Failed to repost start button")
		return
	}
	if !m.directory.AddButton(channelID, variant, msgID) {
		if err := m.surface.RemoveStartButton(ctx, channelID, msgID); err != nil {
			log.WithError(err).Warn("Failed to remove duplicate start button")
		}
	}
}

func (m *Manager) forget(l *Lobby) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lobbies[l.id] == l {
		delete(m.lobbies, l.id)
	}
}
