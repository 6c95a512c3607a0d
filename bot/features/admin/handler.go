package admin

import (
	"context"
	"fmt"

	"puttbot/bot/common"
	"puttbot/models"
	"puttbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// HandleCommand checks the invoker's permission and runs an admin command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if !common.IsInteractionAdmin(s, i) {
		common.HandleError(s, i, service.ErrNotAuthorized, false)
		return
	}

	log.WithFields(log.Fields{
		"command": data.Name,
		"user":    common.InteractionUserID(i),
		"channel": i.ChannelID,
	}).Info("Admin command invoked")

	switch data.Name {
	case "stats_edit":
		f.handleStatsEdit(s, i)
	case "stats_reset":
		f.handleStatsReset(s, i)
	case "add_credits":
		f.handleAddCredits(s, i)
	case "clear_pending":
		f.handleClearPending(s, i)
	case "clear_active":
		f.handleClearActive(s, i)
	case "clear_chat":
		f.handleClearChat(s, i)
	}
}

func (f *Feature) handleStatsEdit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	user := opts["user"].UserValue(s)
	field := models.StatField(opts["field"].StringValue())
	value := opts["value"].IntValue()
	mode := models.StatModeSet
	if m, ok := opts["mode"]; ok {
		mode = models.StatMode(m.StringValue())
	}

	player, err := f.players.UpdateStat(context.Background(), user.ID, field, value, mode)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	current, _ := player.Stat(field)
	msg := fmt.Sprintf("%s's %s is now **%d**.", common.Mention(user.ID), field, current)
	if err := common.RespondWithSuccess(s, i, msg, true); err != nil {
		log.Errorf("Error responding to stats_edit: %v", err)
	}
}

func (f *Feature) handleStatsReset(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := optionMap(i)["user"].UserValue(s)

	if _, err := f.players.ResetPlayer(context.Background(), user.ID); err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("Reset %s's record.", common.Mention(user.ID)), true); err != nil {
		log.Errorf("Error responding to stats_reset: %v", err)
	}
}

func (f *Feature) handleAddCredits(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	opts := optionMap(i)
	user := opts["user"].UserValue(s)
	amount := opts["amount"].IntValue()

	var err error
	switch {
	case amount > 0:
		err = f.ledger.Credit(ctx, user.ID, amount)
	case amount < 0:
		err = f.ledger.Debit(ctx, user.ID, -amount)
	default:
		err = fmt.Errorf("%w: amount cannot be zero", service.ErrInvalidInput)
	}
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	player, err := f.players.GetPlayer(ctx, user.ID)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	msg := fmt.Sprintf("Adjusted %s by %s. Balance: **%s**.",
		common.Mention(user.ID), common.FormatDelta(amount), common.FormatBalance(player.Credits))
	if err := common.RespondWithSuccess(s, i, msg, true); err != nil {
		log.Errorf("Error responding to add_credits: %v", err)
	}
}

func (f *Feature) handleClearPending(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring response: %v", err)
		return
	}
	if err := f.lobbies.ClearPending(context.Background()); err != nil {
		common.HandleError(s, i, err, true)
		return
	}
	common.FollowUpWithSuccess(s, i, "Cleared pending lobbies and start buttons.", true)
}

func (f *Feature) handleClearActive(s *discordgo.Session, i *discordgo.InteractionCreate) {
	msg := "Cleared every player's active status."
	target := ""
	if opt, ok := optionMap(i)["user"]; ok {
		target = opt.UserValue(s).ID
		msg = fmt.Sprintf("Cleared %s's active status.", common.Mention(target))
	}

	f.lobbies.ClearPresence(target)
	if err := common.RespondWithSuccess(s, i, msg, true); err != nil {
		log.Errorf("Error responding to clear_active: %v", err)
	}
}

func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}
