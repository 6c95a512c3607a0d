package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"puttbot/bot"
	"puttbot/config"
	"puttbot/database"
	"puttbot/events"
	"puttbot/jobs"
	"puttbot/lobby"
	"puttbot/repository"
	"puttbot/roomnames"
	"puttbot/service"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	configureLogging(cfg)

	log.WithFields(log.Fields{
		"environment": cfg.Environment,
		"test_mode":   cfg.TestMode,
	}).Info("Starting puttbot...")

	databaseURL, err := database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName, cfg.DatabasePassword)
	if err != nil {
		return fmt.Errorf("failed to construct database URL: %w", err)
	}

	log.Info("Running database migrations...")
	if err := database.RunMigrationsWithURL(databaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := database.NewConnection(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	eventBus := events.NewBus()
	subscribeAuditLog(eventBus)
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	policy, err := service.NewRatingPolicy(cfg.RatingPolicy, cfg.RatingStep, cfg.RatingK)
	if err != nil {
		return fmt.Errorf("failed to select rating policy: %w", err)
	}

	playerService := service.NewPlayerService(uowFactory)
	ledgerService := service.NewLedgerService(uowFactory)
	bettingService := service.NewBettingService(uowFactory)
	settlementService := service.NewSettlementService(uowFactory, policy)
	pendingService := service.NewPendingGameService(uowFactory)
	courseService := service.NewCourseService(uowFactory)
	log.WithField("rating_policy", policy.Name()).Info("Services initialized")

	wordCache, closeCache, err := newWordCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()
	roomNames := roomnames.NewSource(wordCache, roomnames.NewHTTPFetcher(cfg.DictionaryURL))

	discordBot, err := bot.New(bot.Config{
		Token:          cfg.DiscordToken,
		CommandGuildID: cfg.CommandGuildID(),
	}, playerService, ledgerService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}

	manager := lobby.NewManager(lobby.Config{
		AbandonAfter:  cfg.LobbyAbandonAfter,
		BettingWindow: cfg.BettingWindow,
		VotingWindow:  cfg.VotingWindow,
		ArchiveAfter:  cfg.ArchiveAfter,
	}, lobby.Deps{
		Players: playerService,
		Bets:    bettingService,
		Settler: settlementService,
		Pending: pendingService,
		Names:   roomNames,
		Courses: courseService,
		Surface: discordBot.Surface(),
		Bus:     eventBus,
	})

	if err := discordBot.Start(manager); err != nil {
		return fmt.Errorf("failed to start Discord bot: %w", err)
	}
	defer func() {
		if err := discordBot.Close(); err != nil {
			log.Errorf("Error closing Discord bot: %v", err)
		}
	}()

	if err := manager.Restore(ctx); err != nil {
		log.WithError(err).Error("Failed to restore pending games")
	}

	scheduler := jobs.NewScheduler(roomNames, cfg.RoomNameRefill)
	if err := scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer scheduler.Stop()

	go func() {
		if err := roomNames.TopUp(ctx); err != nil {
			log.WithError(err).Warn("Initial room name top-up failed")
		}
	}()

	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down bot...")
	return nil
}

func configureLogging(cfg *config.Config) {
	log.SetOutput(os.Stdout)
	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Invalid LOG_LEVEL %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// newWordCache shares room names through Redis when REDIS_URL is set and
// keeps them in memory otherwise
func newWordCache(ctx context.Context, cfg *config.Config) (roomnames.Cache, func(), error) {
	if cfg.RedisURL == "" {
		log.Info("Using in-memory room name cache")
		return roomnames.NewMemoryCache(), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	cache, err := roomnames.NewRedisCache(pingCtx, client)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Using Redis room name cache")
	return cache, func() {
		if err := client.Close(); err != nil {
			log.Errorf("Error closing redis client: %v", err)
		}
	}, nil
}

// subscribeAuditLog records credit movements and abandoned lobbies
func subscribeAuditLog(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBalanceChange, func(_ context.Context, e events.Event) {
		change, ok := e.(events.BalanceChangeEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"player": change.PlayerID,
			"amount": change.ChangeAmount,
			"reason": change.Reason,
			"game":   change.GameID,
		}).Info("Balance changed")
	})

	bus.Subscribe(events.EventTypeLobbyAbandoned, func(_ context.Context, e events.Event) {
		abandoned, ok := e.(events.LobbyAbandonedEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"lobby":   abandoned.LobbyID,
			"variant": abandoned.Variant,
			"channel": abandoned.ChannelID,
			"players": len(abandoned.Players),
		}).Info("Lobby abandoned")
	})
}
