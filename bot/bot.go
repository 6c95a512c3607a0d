package bot

import (
	"fmt"
	"strings"

	"puttbot/bot/features/admin"
	"puttbot/bot/features/matches"
	"puttbot/bot/features/stats"
	"puttbot/events"
	"puttbot/lobby"
	"puttbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token string
	// CommandGuildID scopes slash commands to one guild; empty registers them globally
	CommandGuildID string
}

type Bot struct {
	config   Config
	session  *discordgo.Session
	eventBus *events.Bus

	matchesFeature *matches.Feature
	statsFeature   *stats.Feature
	adminFeature   *admin.Feature

	registered []*discordgo.ApplicationCommand
}

// New creates the session and features without connecting. The lobby manager
// is built around Surface() and handed to Start.
func New(config Config, playerService service.PlayerService, ledgerService service.LedgerService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsGuildMembers

	return &Bot{
		config:         config,
		session:        dg,
		eventBus:       eventBus,
		matchesFeature: matches.NewFeature(dg),
		statsFeature:   stats.NewFeature(dg, playerService),
		adminFeature:   admin.NewFeature(dg, playerService, ledgerService),
	}, nil
}

// Surface is the chat rendering the lobby manager drives
func (b *Bot) Surface() lobby.Surface {
	return b.matchesFeature.Surface()
}

// Start attaches the lobby manager, opens the gateway connection and
// registers slash commands
func (b *Bot) Start(manager *lobby.Manager) error {
	b.matchesFeature.SetManager(manager)
	b.adminFeature.SetLobbies(manager)

	b.session.AddHandler(b.handleCommands)
	b.session.AddHandler(b.handleInteractions)
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.WithField("user", r.User.Username).Info("Connected to Discord")
	})

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	if err := b.registerCommands(); err != nil {
		b.session.Close()
		return fmt.Errorf("error registering commands: %w", err)
	}

	if b.eventBus != nil {
		b.eventBus.Subscribe(events.EventTypeMatchSettled, b.matchesFeature.AnnounceResult)
	}
	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// handleCommands routes slash commands to their feature
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	switch {
	case strings.HasPrefix(name, "open_"):
		b.matchesFeature.HandleCommand(s, i)
	case name == "stats" || name == "leaderboard":
		b.statsFeature.HandleCommand(s, i)
	case isAdminCommand(name):
		b.adminFeature.HandleCommand(s, i)
	default:
		log.Warnf("Unknown command: %s", name)
	}
}

// handleInteractions routes components and modals by custom ID prefix
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		switch {
		case strings.HasPrefix(customID, matches.Prefix):
			b.matchesFeature.HandleInteraction(s, i)
		case strings.HasPrefix(customID, stats.Prefix):
			b.statsFeature.HandleInteraction(s, i)
		default:
			log.Debugf("Unhandled component interaction: %s", customID)
		}

	case discordgo.InteractionModalSubmit:
		customID := i.ModalSubmitData().CustomID
		if strings.HasPrefix(customID, matches.Prefix) {
			b.matchesFeature.HandleModal(s, i)
		}
	}
}

func isAdminCommand(name string) bool {
	for _, c := range admin.Commands {
		if c == name {
			return true
		}
	}
	return false
}
