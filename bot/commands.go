package bot

import (
	"fmt"

	"puttbot/bot/features/admin"
	"puttbot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

var adminPermission int64 = discordgo.PermissionAdministrator

// commandDefinitions lists every slash command the bot serves
func commandDefinitions() []*discordgo.ApplicationCommand {
	commands := make([]*discordgo.ApplicationCommand, 0, 12)

	for _, v := range models.Variants {
		commands = append(commands, &discordgo.ApplicationCommand{
			Name:        "open_" + string(v),
			Description: fmt.Sprintf("Post a start button for a %s match (%d players)", v, v.Capacity()),
		})
	}

	fieldChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(admin.EditableFields))
	for _, f := range admin.EditableFields {
		fieldChoices = append(fieldChoices, &discordgo.ApplicationCommandOptionChoice{Name: string(f), Value: string(f)})
	}

	commands = append(commands,
		&discordgo.ApplicationCommand{
			Name:        "leaderboard",
			Description: "Show players ordered by rank",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Open the page that holds this player",
				},
			},
		},
		&discordgo.ApplicationCommand{
			Name:        "stats",
			Description: "Show a player's rank, record and credits",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Player to show (defaults to you)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "dm",
					Description: "Send the stats to you privately",
				},
			},
		},
		&discordgo.ApplicationCommand{
			Name:                     "stats_edit",
			Description:              "Edit a player's rank, trophies or credits",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Player to edit",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "field",
					Description: "Field to edit",
					Required:    true,
					Choices:     fieldChoices,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "value",
					Description: "New value, or the amount to add",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "mode",
					Description: "Set the value or add to it (default set)",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "set", Value: string(models.StatModeSet)},
						{Name: "add", Value: string(models.StatModeAdd)},
					},
				},
			},
		},
		&discordgo.ApplicationCommand{
			Name:                     "stats_reset",
			Description:              "Reset a player's record to the defaults",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Player to reset",
					Required:    true,
				},
			},
		},
		&discordgo.ApplicationCommand{
			Name:                     "add_credits",
			Description:              "Give or take credits",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Player to adjust",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Credits to add (negative to remove)",
					Required:    true,
				},
			},
		},
		&discordgo.ApplicationCommand{
			Name:                     "clear_pending",
			Description:              "Close waiting lobbies and remove start buttons",
			DefaultMemberPermissions: &adminPermission,
		},
		&discordgo.ApplicationCommand{
			Name:                     "clear_active",
			Description:              "Release players stuck as active",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Only this player (defaults to everyone)",
				},
			},
		},
		&discordgo.ApplicationCommand{
			Name:                     "clear_chat",
			Description:              "Delete recent messages in this channel",
			DefaultMemberPermissions: &adminPermission,
		},
	)

	return commands
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	for _, cmd := range commandDefinitions() {
		created, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.CommandGuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create command %s: %w", cmd.Name, err)
		}
		b.registered = append(b.registered, created)
	}

	log.WithFields(log.Fields{
		"count": len(b.registered),
		"guild": b.config.CommandGuildID,
	}).Info("Registered slash commands")
	return nil
}
