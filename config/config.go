package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string `envconfig:"DISCORD_TOKEN"`
	DiscordGuildID string `envconfig:"GUILD_ID"`

	// Database configuration
	DatabaseURL      string `envconfig:"DATABASE_URL"`
	DatabaseName     string `envconfig:"DATABASE_NAME"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD"`

	// Room name dictionary
	RedisURL       string `envconfig:"REDIS_URL"`
	DictionaryURL  string `envconfig:"DICTIONARY_URL" default:"https://random-word-api.herokuapp.com/word?length=5&number=200"`
	RoomNameRefill string `envconfig:"ROOM_NAME_REFILL_SPEC" default:"@every 15m"`

	// Rating configuration
	RatingPolicy string  `envconfig:"RATING_POLICY" default:"flat"`
	RatingStep   int64   `envconfig:"RATING_STEP" default:"10"`
	RatingK      float64 `envconfig:"RATING_K" default:"32"`

	// Lobby timings
	LobbyAbandonAfter time.Duration `envconfig:"LOBBY_ABANDON_AFTER" default:"300s"`
	BettingWindow     time.Duration `envconfig:"BETTING_WINDOW" default:"120s"`
	VotingWindow      time.Duration `envconfig:"VOTING_WINDOW" default:"300s"`
	ArchiveAfter      time.Duration `envconfig:"ARCHIVE_AFTER" default:"30s"`

	// TestMode shortens lobby timings and registers commands to the guild only
	TestMode bool `envconfig:"TEST_MODE" default:"false"`

	// Environment
	Environment string `envconfig:"ENVIRONMENT" default:"development"` // "development", "production" or "test"
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
}

const testModeDivisor = 10

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = Load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if cfg.TestMode {
		cfg.LobbyAbandonAfter /= testModeDivisor
		cfg.BettingWindow /= testModeDivisor
		cfg.VotingWindow /= testModeDivisor
		cfg.ArchiveAfter /= testModeDivisor
		if cfg.LogLevel == "info" {
			cfg.LogLevel = "debug"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required settings and value ranges
func (c *Config) Validate() error {
	if c.Environment != "test" {
		if c.DiscordToken == "" {
			return fmt.Errorf("DISCORD_TOKEN is required")
		}
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	}
	if c.TestMode && c.DiscordGuildID == "" && c.Environment != "test" {
		return fmt.Errorf("GUILD_ID is required when TEST_MODE is set")
	}

	switch c.RatingPolicy {
	case "flat", "elo":
	default:
		return fmt.Errorf("RATING_POLICY must be flat or elo, got %q", c.RatingPolicy)
	}
	if c.RatingStep <= 0 {
		return fmt.Errorf("RATING_STEP must be > 0")
	}
	if c.RatingK <= 0 {
		return fmt.Errorf("RATING_K must be > 0")
	}

	for name, d := range map[string]time.Duration{
		"LOBBY_ABANDON_AFTER": c.LobbyAbandonAfter,
		"BETTING_WINDOW":      c.BettingWindow,
		"VOTING_WINDOW":       c.VotingWindow,
		"ARCHIVE_AFTER":       c.ArchiveAfter,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be > 0", name)
		}
	}
	return nil
}

// CommandGuildID returns the guild slash commands are registered to.
// An empty string registers them globally.
func (c *Config) CommandGuildID() string {
	if c.TestMode {
		return c.DiscordGuildID
	}
	return ""
}
