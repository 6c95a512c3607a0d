package events

import (
	"context"
	"sync"

	"puttbot/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange  EventType = "balance_change"
	EventTypeBetPlaced      EventType = "bet_placed"
	EventTypeMatchSettled   EventType = "match_settled"
	EventTypeLobbyAbandoned EventType = "lobby_abandoned"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceReason describes why credits moved
type BalanceReason string

const (
	BalanceReasonBetPlaced BalanceReason = "bet_placed"
	BalanceReasonBetPayout BalanceReason = "bet_payout"
	BalanceReasonManual    BalanceReason = "manual"
)

// BalanceChangeEvent represents a ledger movement that was committed
type BalanceChangeEvent struct {
	PlayerID     string
	ChangeAmount int64 // negative for debits
	Reason       BalanceReason
	GameID       string
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// BetPlacedEvent represents a bet that was accepted into a lobby's book
type BetPlacedEvent struct {
	BetID    int64
	PlayerID string
	GameID   string
	Choice   string
	Amount   int64
	Odds     float64
	Payout   int64
}

func (e BetPlacedEvent) Type() EventType {
	return EventTypeBetPlaced
}

// MatchSettledEvent represents a match whose result has been applied
type MatchSettledEvent struct {
	ChannelID string
	Summary   models.SettlementSummary
}

func (e MatchSettledEvent) Type() EventType {
	return EventTypeMatchSettled
}

// LobbyAbandonedEvent is emitted when a lobby closes before it filled
type LobbyAbandonedEvent struct {
	LobbyID   string
	Variant   models.Variant
	ChannelID string
	Players   []string
}

func (e LobbyAbandonedEvent) Type() EventType {
	return EventTypeLobbyAbandoned
}

// Handler reacts to a delivered event. Handlers run on their own goroutine.
type Handler func(ctx context.Context, event Event)

// Bus fans events out to subscribers
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe registers handler for one event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	count := len(b.handlers[eventType])
	b.mu.Unlock()

	log.WithFields(log.Fields{
		"event":    eventType,
		"handlers": count,
	}).Debug("Event handler subscribed")
}

// Emit delivers event to every handler of its type without waiting for them.
// A panicking handler is logged and does not affect the others.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type()]...)
	b.mu.RUnlock()

	for idx, h := range handlers {
		go dispatch(ctx, event, idx, h)
	}
}

func dispatch(ctx context.Context, event Event, idx int, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"event":   event.Type(),
				"handler": idx,
				"panic":   r,
			}).Error("Event handler panicked")
		}
	}()
	h(ctx, event)
}

// TransactionalBus holds events published inside a unit of work until the
// transaction commits
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits the held events after a successful commit. Handlers get a
// fresh context since the transaction's may already be done.
func (b *TransactionalBus) Flush(_ context.Context) error {
	if len(b.pending) > 0 {
		log.WithField("events", len(b.pending)).Debug("Flushing committed events")
	}
	for _, ev := range b.pending {
		b.real.Emit(context.Background(), ev)
	}
	b.pending = nil
	return nil
}

// Discard drops the held events after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
