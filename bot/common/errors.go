package common

import (
	"errors"
	"fmt"
	"strings"

	"puttbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const genericFailure = "Something went wrong. Please try again later."

// UserMessage maps an error to the reply shown to the user who caused it.
// Refinements are matched before their parent kinds.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, service.ErrInsufficientFunds):
		return "You don't have enough credits for that."
	case errors.Is(err, service.ErrParticipantCannotBet):
		return "Players can't bet on their own match."
	case errors.Is(err, service.ErrGameAlreadyEnded):
		return "This game has already ended."
	case errors.Is(err, service.ErrLobbyClosed):
		return "This lobby is no longer open."
	case errors.Is(err, service.ErrNotAParticipant):
		return "Only players in this match can do that."
	case errors.Is(err, service.ErrAlreadyInLobby):
		return "You're already in a lobby. Leave it or finish your match first."
	case errors.Is(err, service.ErrLobbyFull):
		return "This lobby is full."
	case errors.Is(err, service.ErrPendingExists):
		return "A lobby for this game type is already waiting for players."
	case errors.Is(err, service.ErrBettingClosed):
		return "Betting is closed for this match."
	case errors.Is(err, service.ErrVotingClosed):
		return "Voting is closed for this match."
	case errors.Is(err, service.ErrNotAuthorized):
		return "You need administrator permission to do that."
	case errors.Is(err, service.ErrInvalidInput):
		return invalidInputMessage(err)
	case errors.Is(err, service.ErrCommitUncertain):
		return "That may not have gone through. Check your credits with /stats before trying again."
	case errors.Is(err, service.ErrTransientStore):
		return "The database is unavailable right now. Please try again shortly."
	}
	return genericFailure
}

// IsUserError reports whether err is one of the user-facing kinds, as opposed
// to an internal failure worth logging
func IsUserError(err error) bool {
	msg := UserMessage(err)
	return msg != genericFailure && !errors.Is(err, service.ErrTransientStore) && !errors.Is(err, service.ErrCommitUncertain)
}

func invalidInputMessage(err error) string {
	text := err.Error()
	marker := service.ErrInvalidInput.Error() + ": "
	if idx := strings.LastIndex(text, marker); idx >= 0 {
		detail := text[idx+len(marker):]
		if detail != "" {
			return strings.ToUpper(detail[:1]) + detail[1:] + "."
		}
	}
	return "That input isn't valid."
}

// RespondWithError replies privately with a ❌ line
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := respond(s, i, discordgo.InteractionResponseChannelMessageWithSource, &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("❌ %s", message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError sends a private ❌ line after DeferResponse
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("❌ %s", message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

// HandleError logs internal failures and replies to the invoker privately
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	if !IsUserError(err) {
		log.WithFields(log.Fields{
			"user_id": InteractionUserID(i),
			"error":   err.Error(),
		}).Error("Interaction failed")
	}

	if deferred {
		FollowUpWithError(s, i, UserMessage(err))
	} else {
		RespondWithError(s, i, UserMessage(err))
	}
}
