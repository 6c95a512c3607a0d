package stats

import (
	"context"

	"puttbot/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	invoker := common.InteractionUser(i)
	if invoker == nil {
		return
	}

	targetID := invoker.ID
	dm := false
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			if u := opt.UserValue(s); u != nil {
				targetID = u.ID
			}
		case "dm":
			dm = opt.BoolValue()
		}
	}

	player, err := f.players.GetPlayer(ctx, targetID)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	embed := BuildPlayerStatsEmbed(player, common.GetDisplayName(s, i.GuildID, targetID))

	if !dm {
		if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
			log.Errorf("Error responding with stats: %v", err)
		}
		return
	}

	channel, err := s.UserChannelCreate(invoker.ID)
	if err == nil {
		_, err = s.ChannelMessageSendEmbed(channel.ID, embed)
	}
	if err != nil {
		log.WithFields(log.Fields{
			"user":  invoker.ID,
			"error": err.Error(),
		}).Warn("Failed to deliver stats by DM")
		common.RespondWithError(s, i, "I couldn't send you a DM. Check your privacy settings.")
		return
	}
	if err := common.RespondWithSuccess(s, i, "Stats sent by DM.", true); err != nil {
		log.Errorf("Error acknowledging stats DM: %v", err)
	}
}

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	page := 0
	highlight := ""
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name != "user" {
			continue
		}
		u := opt.UserValue(s)
		if u == nil {
			continue
		}
		highlight = u.ID
		p, err := f.players.LeaderboardPageOf(ctx, u.ID)
		if err != nil {
			common.HandleError(s, i, err, false)
			return
		}
		page = p
	}

	lb, err := f.players.Leaderboard(ctx, page)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildLeaderboardEmbed(lb, highlight), BuildLeaderboardNavButtons(lb), false); err != nil {
		log.Errorf("Error responding with leaderboard: %v", err)
	}
}

func (f *Feature) handlePageButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	page, ok := parsePage(i.MessageComponentData().CustomID)
	if !ok {
		return
	}

	lb, err := f.players.Leaderboard(context.Background(), page)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := common.UpdateWithEmbed(s, i, BuildLeaderboardEmbed(lb, ""), BuildLeaderboardNavButtons(lb)); err != nil {
		log.Errorf("Error updating leaderboard page: %v", err)
	}
}
