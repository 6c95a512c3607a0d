package matches

import (
	"context"
	"fmt"
	"strings"

	"puttbot/bot/common"
	"puttbot/lobby"
	"puttbot/models"

	"github.com/bwmarrin/discordgo"
)

// Surface renders lobbies as Discord messages and match threads
type Surface struct {
	session *discordgo.Session
}

var _ lobby.Surface = (*Surface)(nil)

// NewSurface creates a Surface on an existing session
func NewSurface(session *discordgo.Session) *Surface {
	return &Surface{session: session}
}

func (s *Surface) PostStartButton(ctx context.Context, channelID string, variant models.Variant) (string, error) {
	msg, err := s.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{BuildStartEmbed(variant)},
		Components: BuildStartComponents(variant),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to send start button: %w", err)
	}
	return msg.ID, nil
}

func (s *Surface) RemoveStartButton(ctx context.Context, channelID, messageID string) error {
	if err := s.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete start button %s: %w", messageID, err)
	}
	return nil
}

func (s *Surface) RenderLobby(ctx context.Context, view lobby.View) error {
	return s.edit(ctx, view.ChannelID, view.ID, BuildLobbyEmbed(view), BuildLobbyComponents(view))
}

func (s *Surface) CloseLobby(ctx context.Context, view lobby.View) error {
	return s.edit(ctx, view.ChannelID, view.ID, BuildClosedEmbed(view), []discordgo.MessageComponent{})
}

func (s *Surface) OpenRoom(ctx context.Context, view lobby.View) (string, string, error) {
	name := fmt.Sprintf("%s · %s", view.Variant.Title(), view.RoomName)
	thread, err := s.session.MessageThreadStart(view.ChannelID, view.ID, name, common.ThreadArchiveMinutes, discordgo.WithContext(ctx))
	if err != nil {
		return "", "", fmt.Errorf("failed to start thread: %w", err)
	}

	mentions := make([]string, 0, len(view.Seats))
	for _, seat := range view.Seats {
		mentions = append(mentions, common.Mention(seat.ID))
	}
	msg, err := s.session.ChannelMessageSendComplex(thread.ID, &discordgo.MessageSend{
		Content: strings.Join(mentions, " "),
		Embeds:  []*discordgo.MessageEmbed{BuildRoomEmbed(view)},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return thread.ID, "", fmt.Errorf("failed to post room message: %w", err)
	}
	return thread.ID, msg.ID, nil
}

func (s *Surface) RenderRoom(ctx context.Context, view lobby.View) error {
	if view.ThreadID == "" || view.RoomMessageID == "" {
		return nil
	}
	return s.edit(ctx, view.ThreadID, view.RoomMessageID, BuildRoomEmbed(view), nil)
}

func (s *Surface) ArchiveRoom(ctx context.Context, threadID string) error {
	archived, locked := true, true
	_, err := s.session.ChannelEdit(threadID, &discordgo.ChannelEdit{
		Archived: &archived,
		Locked:   &locked,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to archive thread %s: %w", threadID, err)
	}
	return nil
}

// PostResults announces a settled match in its host channel
func (s *Surface) PostResults(ctx context.Context, channelID string, summary models.SettlementSummary) error {
	_, err := s.session.ChannelMessageSendEmbed(channelID, BuildResultsEmbed(summary), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to post results: %w", err)
	}
	return nil
}

func (s *Surface) edit(ctx context.Context, channelID, messageID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	embeds := []*discordgo.MessageEmbed{embed}
	edit := &discordgo.MessageEdit{
		ID:      messageID,
		Channel: channelID,
		Embeds:  &embeds,
	}
	if components != nil {
		edit.Components = &components
	}
	if _, err := s.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to edit message %s: %w", messageID, err)
	}
	return nil
}
