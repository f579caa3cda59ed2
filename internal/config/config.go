package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"eventbot/pkg/tz"
)

const (
	defaultDatabaseURL      = "postgres://localhost:5432/eventbot?sslmode=disable"
	defaultMigrationsPath   = "migrations"
	defaultLocale           = "en"
	defaultArchiveSyncDelay = 2 * time.Second
)

type Config struct {
	Token                string
	GuildID              string
	EventChannelID       string
	EventCategoryID      string
	ArchiveCategoryID    string
	EventSeparatorRoleID string
	DatabaseURL          string
	MigrationsPath       string
	Timezone             string
	Locale               string
	MetricsAddr          string
	Environment          string
	LogLevel             string
	ArchiveSyncDelay     time.Duration

	Location *time.Location
}

// Load reads the configuration from the environment (and an optional .env file) and validates it.
func Load() (*Config, error) {
	// .env is optional when variables come from the environment (Docker, CI, ...)
	_ = godotenv.Load()

	cfg := &Config{
		Token:                os.Getenv("TOKEN"),
		GuildID:              os.Getenv("GUILD_ID"),
		EventChannelID:       os.Getenv("EVENT_CHANNEL_ID"),
		EventCategoryID:      os.Getenv("EVENT_CATEGORY_ID"),
		ArchiveCategoryID:    os.Getenv("ARCHIVE_CATEGORY_ID"),
		EventSeparatorRoleID: os.Getenv("EVENT_SEPARATOR_ROLE_ID"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		MigrationsPath:       os.Getenv("MIGRATIONS_PATH"),
		Timezone:             os.Getenv("TIMEZONE"),
		Locale:               os.Getenv("LOCALE"),
		MetricsAddr:          os.Getenv("METRICS_ADDR"),
		Environment:          os.Getenv("ENVIRONMENT"),
		LogLevel:             os.Getenv("LOG_LEVEL"),
	}

	if err := cfg.validate(os.Getenv("ARCHIVE_SYNC_DELAY")); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate applies defaults and checks every field.
func (c *Config) validate(archiveSyncDelay string) error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("config: TOKEN is required")
	}

	required := []struct {
		name, value string
	}{
		{"GUILD_ID", c.GuildID},
		{"EVENT_CHANNEL_ID", c.EventChannelID},
		{"EVENT_CATEGORY_ID", c.EventCategoryID},
		{"ARCHIVE_CATEGORY_ID", c.ArchiveCategoryID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("config: %s is required", r.name)
		}
		if !isSnowflake(r.value) {
			return fmt.Errorf("config: %s must be a Discord id (digits only)", r.name)
		}
	}
	if c.EventSeparatorRoleID != "" && !isSnowflake(c.EventSeparatorRoleID) {
		return fmt.Errorf("config: EVENT_SEPARATOR_ROLE_ID must be a Discord id (digits only)")
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		c.DatabaseURL = defaultDatabaseURL
	}
	parsed, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return fmt.Errorf("config: invalid DATABASE_URL (%q): %w", c.DatabaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: invalid DATABASE_URL (%q): missing scheme or host", c.DatabaseURL)
	}

	if c.MigrationsPath == "" {
		c.MigrationsPath = defaultMigrationsPath
	}
	if c.Locale == "" {
		c.Locale = defaultLocale
	}
	if c.Environment == "" {
		c.Environment = "production"
	}
	if c.Environment != "production" && c.Environment != "development" {
		return fmt.Errorf("config: ENVIRONMENT must be production or development, got %q", c.Environment)
	}

	if c.Timezone == "" {
		c.Timezone = tz.Default
	}
	c.Location, err = tz.Load(c.Timezone)
	if err != nil {
		return fmt.Errorf("config: invalid TIMEZONE: %w", err)
	}

	c.ArchiveSyncDelay = defaultArchiveSyncDelay
	if archiveSyncDelay != "" {
		d, err := time.ParseDuration(archiveSyncDelay)
		if err != nil || d < 0 {
			return fmt.Errorf("config: invalid ARCHIVE_SYNC_DELAY %q", archiveSyncDelay)
		}
		c.ArchiveSyncDelay = d
	}

	return nil
}

func isSnowflake(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
