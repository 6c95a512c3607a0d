package service

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to users. Callers match them with errors.Is.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotAParticipant   = errors.New("not a participant")
	ErrAlreadyInLobby    = errors.New("already in a lobby")
	ErrLobbyFull         = errors.New("lobby is full")
	ErrPendingExists     = errors.New("a lobby is already pending")
	ErrBettingClosed     = errors.New("betting is closed")
	ErrVotingClosed      = errors.New("voting is closed")
	ErrNotAuthorized     = errors.New("not authorized")
	ErrInvalidInput      = errors.New("invalid input")
	ErrTransientStore    = errors.New("store unavailable")

	// ErrCommitUncertain means the commit may have landed; the work is never replayed
	ErrCommitUncertain = errors.New("commit outcome unknown")
)

// Refinements that keep their parent kind
var (
	ErrParticipantCannotBet = fmt.Errorf("%w: players cannot bet on their own match", ErrInvalidInput)
	ErrGameAlreadyEnded     = fmt.Errorf("%w: the game has already ended", ErrInvalidInput)
	ErrLobbyClosed          = fmt.Errorf("%w: the lobby is no longer open", ErrLobbyFull)
)

// storeErr marks a store failure as transient
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTransientStore) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrTransientStore, err)
}

// commitErr wraps a failed commit so retryOnce leaves it alone
func commitErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrCommitUncertain, err)
}
