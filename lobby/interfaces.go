package lobby

import (
	"context"

	"puttbot/models"
)

// PlayerStore loads player records, creating defaults on first reference
type PlayerStore interface {
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
}

// BetPlacer debits a stake and records the bet atomically
type BetPlacer interface {
	PlaceBet(ctx context.Context, bet *models.Bet) error
}

// MatchSettler applies a finished match to the store
type MatchSettler interface {
	Settle(ctx context.Context, match *models.MatchSettlement) (*models.SettlementSummary, error)
}

// PendingStore is the durable mirror of the pending-game directory
type PendingStore interface {
	SavePending(ctx context.Context, game *models.PendingGame) error
	RemovePending(ctx context.Context, gameType models.Variant) error
	ListPending(ctx context.Context) ([]*models.PendingGame, error)
	ClearPending(ctx context.Context) error
}

// RoomNamer hands out unused room names
type RoomNamer interface {
	UniqueWord(ctx context.Context) string
}

// CoursePicker chooses a course for a new match
type CoursePicker interface {
	RandomCourse(ctx context.Context) (*models.Course, error)
}

// Surface is the chat-side rendering of lobbies. Implementations post and
// edit messages; they never call back into the lobby.
type Surface interface {
	// PostStartButton posts a start affordance and returns its message id
	PostStartButton(ctx context.Context, channelID string, variant models.Variant) (string, error)
	RemoveStartButton(ctx context.Context, channelID, messageID string) error

	// RenderLobby edits the lobby message to reflect the view
	RenderLobby(ctx context.Context, view View) error
	// CloseLobby replaces the lobby message with its closed form
	CloseLobby(ctx context.Context, view View) error

	// OpenRoom creates the match thread and posts the room embed in it
	OpenRoom(ctx context.Context, view View) (threadID, roomMessageID string, err error)
	RenderRoom(ctx context.Context, view View) error
	ArchiveRoom(ctx context.Context, threadID string) error
}
