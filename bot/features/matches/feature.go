package matches

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"puttbot/bot/common"
	"puttbot/events"
	"puttbot/lobby"
	"puttbot/models"
	"puttbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles the seed commands and every lobby control
type Feature struct {
	session *discordgo.Session
	surface *Surface
	manager *lobby.Manager
}

// NewFeature creates a new matches feature instance. The lobby manager is
// attached once it has been built around the feature's Surface.
func NewFeature(session *discordgo.Session) *Feature {
	return &Feature{
		session: session,
		surface: NewSurface(session),
	}
}

func (f *Feature) Surface() *Surface { return f.surface }

func (f *Feature) SetManager(m *lobby.Manager) { f.manager = m }

// HandleCommand handles open_singles, open_doubles and open_triples
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	name := i.ApplicationCommandData().Name
	variant, err := models.ParseVariant(strings.TrimPrefix(name, "open_"))
	if err != nil {
		common.RespondWithError(s, i, "Unknown game type")
		return
	}

	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring response: %v", err)
		return
	}

	ctx := context.Background()
	if err := f.manager.SeedStartButton(ctx, i.ChannelID, variant, common.InteractionUserID(i)); err != nil {
		common.HandleError(s, i, err, true)
		return
	}
	common.FollowUpWithSuccess(s, i, fmt.Sprintf("%s start button posted.", variant.Title()), true)
}

// HandleInteraction routes match_ buttons and select menus
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	action, args, ok := parseCustomID(data.CustomID)
	if !ok {
		log.Warnf("Malformed match custom ID: %s", data.CustomID)
		return
	}

	switch action {
	case actionStart:
		f.handleStart(s, i, args[0])
	case actionJoin:
		f.withLobby(s, i, args[0], func(ctx context.Context, l *lobby.Lobby, userID string) (string, error) {
			return "You joined the lobby.", l.Join(ctx, userID, common.GetDisplayName(s, i.GuildID, userID))
		})
	case actionLeave:
		f.withLobby(s, i, args[0], func(ctx context.Context, l *lobby.Lobby, userID string) (string, error) {
			return "You left the lobby.", l.Leave(ctx, userID)
		})
	case actionEnd:
		f.withLobby(s, i, args[0], func(ctx context.Context, l *lobby.Lobby, userID string) (string, error) {
			return "Game ended. Vote for the winner on the lobby message.", l.EndGame(ctx, userID)
		})
	case actionVote:
		if len(args) < 2 {
			return
		}
		f.withLobby(s, i, args[0], func(ctx context.Context, l *lobby.Lobby, userID string) (string, error) {
			return "Your vote was recorded.", l.Vote(ctx, userID, args[1])
		})
	case actionBet:
		if len(data.Values) == 0 {
			return
		}
		f.showBetModal(s, i, args[0], data.Values[0])
	default:
		log.Warnf("Unknown match action: %s", action)
	}
}

// HandleModal handles the bet amount modal
func (f *Feature) HandleModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()
	action, args, ok := parseCustomID(data.CustomID)
	if !ok || action != actionBetModal || len(args) < 2 {
		log.Warnf("Unexpected match modal: %s", data.CustomID)
		return
	}
	lobbyID, choice := args[0], args[1]

	raw := modalValue(data, amountInputID)
	amount, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		common.HandleError(s, i, fmt.Errorf("%w: amount must be a whole number", service.ErrInvalidInput), false)
		return
	}

	f.withLobby(s, i, lobbyID, func(ctx context.Context, l *lobby.Lobby, userID string) (string, error) {
		name := common.GetDisplayName(s, i.GuildID, userID)
		bet, err := l.SubmitBet(ctx, userID, name, choice, amount)
		if err != nil {
			return "", err
		}
		label := l.View().ChoiceLabel(choice)
		return fmt.Sprintf("Bet placed: **%s** on **%s** at %s. Pays **%s** if they win.",
			common.FormatBalance(bet.Amount), label, common.FormatOdds(bet.Odds), common.FormatBalance(bet.Payout)), nil
	})
}

// AnnounceResult posts the results line for a settled match
func (f *Feature) AnnounceResult(ctx context.Context, event events.Event) {
	settled, ok := event.(events.MatchSettledEvent)
	if !ok {
		return
	}
	if err := f.surface.PostResults(ctx, settled.ChannelID, settled.Summary); err != nil {
		log.WithFields(log.Fields{
			"game":    settled.Summary.GameID,
			"channel": settled.ChannelID,
		}).WithError(err).Error("Failed to announce match result")
	}
}

func (f *Feature) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate, rawVariant string) {
	variant, err := models.ParseVariant(rawVariant)
	if err != nil {
		common.RespondWithError(s, i, "Unknown game type")
		return
	}
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring response: %v", err)
		return
	}

	userID := common.InteractionUserID(i)
	name := common.GetDisplayName(s, i.GuildID, userID)
	if _, err := f.manager.StartLobby(context.Background(), i.ChannelID, i.Message.ID, variant, userID, name); err != nil {
		common.HandleError(s, i, err, true)
		return
	}
	common.FollowUpWithSuccess(s, i, fmt.Sprintf("You opened a %s lobby.", strings.ToLower(variant.Title())), true)
}

func (f *Feature) showBetModal(s *discordgo.Session, i *discordgo.InteractionCreate, lobbyID, choice string) {
	l, ok := f.manager.Lookup(lobbyID)
	if !ok {
		common.RespondWithError(s, i, "This lobby is no longer active.")
		return
	}

	view := l.View()
	userID := common.InteractionUserID(i)
	switch {
	case view.IsPlayer(userID):
		common.HandleError(s, i, service.ErrParticipantCannotBet, false)
		return
	case view.State != lobby.StateBetting || view.BettingClosed:
		common.HandleError(s, i, service.ErrBettingClosed, false)
		return
	}

	title := truncate(fmt.Sprintf("Bet on %s (%s)", view.ChoiceLabel(choice), common.FormatOdds(view.OddsFor(choice))), 45)
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: customID(actionBetModal, lobbyID, choice),
			Title:    title,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:    amountInputID,
							Label:       "Amount",
							Style:       discordgo.TextInputShort,
							Placeholder: "100",
							Required:    true,
							MinLength:   1,
							MaxLength:   12,
						},
					},
				},
			},
		},
	})
	if err != nil {
		log.Errorf("Error showing bet modal: %v", err)
	}
}

// withLobby defers an ephemeral reply, runs op against the lobby and reports
// the outcome to the invoker
func (f *Feature) withLobby(s *discordgo.Session, i *discordgo.InteractionCreate, lobbyID string, op func(ctx context.Context, l *lobby.Lobby, userID string) (string, error)) {
	l, ok := f.manager.Lookup(lobbyID)
	if !ok {
		common.RespondWithError(s, i, "This lobby is no longer active.")
		return
	}
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring response: %v", err)
		return
	}

	msg, err := op(context.Background(), l, common.InteractionUserID(i))
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}
	common.FollowUpWithSuccess(s, i, msg, true)
}

func modalValue(data discordgo.ModalSubmitInteractionData, id string) string {
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, c := range actionsRow.Components {
			if input, ok := c.(*discordgo.TextInput); ok && input.CustomID == id {
				return input.Value
			}
		}
	}
	return ""
}
