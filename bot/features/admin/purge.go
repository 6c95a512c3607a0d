package admin

import (
	"fmt"
	"time"

	"puttbot/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Discord refuses to bulk delete messages older than two weeks
const bulkDeleteMaxAge = 14 * 24 * time.Hour

// partitionForDelete splits messages into those that can be bulk deleted and
// those that must be deleted one by one
func partitionForDelete(messages []*discordgo.Message, now time.Time) (bulk, single []string) {
	cutoff := now.Add(-bulkDeleteMaxAge)
	for _, m := range messages {
		if m.Timestamp.After(cutoff) {
			bulk = append(bulk, m.ID)
		} else {
			single = append(single, m.ID)
		}
	}
	// the bulk endpoint needs at least two ids
	if len(bulk) == 1 {
		single = append(single, bulk[0])
		bulk = nil
	}
	return bulk, single
}

func (f *Feature) handleClearChat(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring response: %v", err)
		return
	}

	messages, err := s.ChannelMessages(i.ChannelID, common.MaxBulkDelete, "", "", "")
	if err != nil {
		log.Errorf("Failed to list channel messages: %v", err)
		common.FollowUpWithError(s, i, "Couldn't read this channel's messages.")
		return
	}

	bulk, single := partitionForDelete(messages, time.Now())
	deleted := 0
	if len(bulk) > 0 {
		if err := s.ChannelMessagesBulkDelete(i.ChannelID, bulk); err != nil {
			log.Errorf("Bulk delete failed: %v", err)
		} else {
			deleted += len(bulk)
		}
	}
	for _, id := range single {
		if err := s.ChannelMessageDelete(i.ChannelID, id); err != nil {
			log.WithField("message", id).Warnf("Failed to delete message: %v", err)
			continue
		}
		deleted++
	}

	log.WithFields(log.Fields{
		"channel": i.ChannelID,
		"deleted": deleted,
	}).Info("Channel purged")
	common.FollowUpWithSuccess(s, i, fmt.Sprintf("Deleted %d messages.", deleted), true)
}
