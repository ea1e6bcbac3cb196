package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"gemarcade/database"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string
	// Channel that receives jackpot results; empty disables announcements
	AnnouncementChannelID string

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Economy
	StartingBalance  int64
	DailyBonusBase   int64
	DailyStreakBonus int64
	DailyStreakCap   int64

	// Accounts allowed to run admin commands
	AdminAccountIDs []string

	// Redis backs the rate limiter; empty means in-process counters
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// NATS forwarding of committed events; empty disables it
	NATSServers       string
	NATSSubjectPrefix string

	// OpenTelemetry metrics
	OTelEnabled              bool
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelExportIntervalMillis int
	OTelServiceName          string

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL combines the base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsAdmin reports whether accountID may run admin commands
func (c *Config) IsAdmin(accountID string) bool {
	return slices.Contains(c.AdminAccountIDs, accountID)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),

		AnnouncementChannelID: os.Getenv("ANNOUNCEMENT_CHANNEL_ID"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		StartingBalance:  getInt64WithDefault("STARTING_BALANCE", 1000),
		DailyBonusBase:   getInt64WithDefault("DAILY_BONUS_BASE", 250),
		DailyStreakBonus: getInt64WithDefault("DAILY_STREAK_BONUS", 25),
		DailyStreakCap:   getInt64WithDefault("DAILY_STREAK_CAP", 250),

		AdminAccountIDs: splitList(os.Getenv("ADMIN_ACCOUNT_IDS")),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       int(getInt64WithDefault("REDIS_DB", 0)),

		NATSServers:       os.Getenv("NATS_SERVERS"),
		NATSSubjectPrefix: getEnvWithDefault("NATS_SUBJECT_PREFIX", "gemarcade"),

		OTelEnabled:              os.Getenv("OTEL_ENABLED") == "true",
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_OTLP_ENDPOINT", "localhost:4317"),
		OTelExportIntervalMillis: int(getInt64WithDefault("OTEL_EXPORT_INTERVAL_MS", 30000)),
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "gemarcade"),

		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if config.Environment != "test" {
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}
	if config.StartingBalance < 0 {
		return nil, fmt.Errorf("STARTING_BALANCE must not be negative")
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig clears the global instance so the next Get reloads
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:       "test",
		StartingBalance:   1000,
		DailyBonusBase:    250,
		DailyStreakBonus:  25,
		DailyStreakCap:    250,
		NATSSubjectPrefix: "gemarcade",
		OTelExporterType:  "none",
		OTelServiceName:   "gemarcade",
		LogLevel:          "info",
	}
}
