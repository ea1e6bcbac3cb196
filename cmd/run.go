package cmd

import (
	"context"
	"fmt"
	"time"

	"gemarcade/bot"
	"gemarcade/config"
	"gemarcade/database"
	"gemarcade/events"
	"gemarcade/infrastructure"
	"gemarcade/infrastructure/observability"
	"gemarcade/ratelimit"
	"gemarcade/repository"
	"gemarcade/rng"
	"gemarcade/service"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	// Load configuration
	cfg := config.Get()
	ConfigureLogging(cfg)

	log.Info("Starting gemarcade bot...")

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	log.Info("Applying database migrations...")
	if err := database.RunMigrationsWithURL(cfg.GetDatabaseURL()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize metrics
	metrics := observability.NewMetricsProvider(cfg)
	if cfg.OTelEnabled {
		if err := metrics.Initialize(ctx); err != nil {
			log.WithError(err).Warn("Failed to initialize metrics, continuing without them")
		} else {
			metrics.Subscribe(eventBus)
		}
	}

	// Forward committed events to NATS
	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers, cfg.OTelServiceName)
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := natsClient.Connect(connectCtx)
		cancel()
		if err != nil {
			log.WithError(err).Warn("NATS unavailable, event forwarding disabled")
			natsClient = nil
		} else {
			infrastructure.NewEventForwarder(natsClient, cfg.NATSSubjectPrefix, metrics).Subscribe(eventBus)
			log.WithField("prefix", cfg.NATSSubjectPrefix).Info("Event forwarding to NATS enabled")
		}
	}

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	random := rng.NewService()
	if err := metrics.ObserveRNGDraws(random, rng.Streams); err != nil {
		log.WithError(err).Warn("Failed to export RNG draw counts")
	}

	// Initialize services
	log.Info("Initializing services...")
	services := bot.Services{
		Accounts: service.NewAccountService(uowFactory, service.EconomySettings{
			StartingBalance:  cfg.StartingBalance,
			DailyBonusBase:   cfg.DailyBonusBase,
			DailyStreakBonus: cfg.DailyStreakBonus,
			DailyStreakCap:   cfg.DailyStreakCap,
		}),
		GameConfig: service.NewGameConfigService(uowFactory),
		Slots:      service.NewSlotsService(uowFactory, random),
		Plinko:     service.NewPlinkoService(uowFactory, random),
		Mines:      service.NewMinesService(uowFactory, random),
		Blackjack:  service.NewBlackjackService(uowFactory, random),
		Jackpot:    service.NewJackpotService(uowFactory, random),
		Cases:      service.NewCaseService(uowFactory, random),
		Admin:      service.NewAdminService(uowFactory),
		FairSeeds:  service.NewFairSeedService(uowFactory, random),
	}

	if err := services.GameConfig.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("failed to seed game configs: %w", err)
	}
	if err := service.SeedDefaultCases(ctx, uowFactory); err != nil {
		return fmt.Errorf("failed to seed cases: %w", err)
	}

	// Rate limiting
	redisClient := connectRedis(ctx, cfg)
	limiter := NewRateLimiter(redisClient, ratelimit.DefaultRules())

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:                 cfg.DiscordToken,
		GuildID:               cfg.DiscordGuildID,
		AnnouncementChannelID: cfg.AnnouncementChannelID,
		IsAdmin:               cfg.IsAdmin,
	}
	discordBot, err := bot.New(botConfig, services, limiter, metrics, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down bot...")

	if err := discordBot.Close(); err != nil {
		log.WithError(err).Error("Error closing Discord bot")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.WithError(err).Error("Error closing NATS connection")
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.WithError(err).Error("Error closing Redis connection")
		}
	}
	if err := metrics.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down metrics")
	}

	log.Info("Shutdown completed")
	return nil
}

// ConfigureLogging applies the configured level; production logs are JSON
func ConfigureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// connectRedis returns nil when Redis is not configured or unreachable
func connectRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, rate limiting with in-process counters")
		return nil
	}
	client, err := ratelimit.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, rate limiting with in-process counters")
		return nil
	}
	log.WithField("addr", cfg.RedisAddr).Info("Rate limiting backed by Redis")
	return client
}

// NewRateLimiter builds one limiter per action. With Redis each action is
// counted there and falls back to memory while Redis is failing.
func NewRateLimiter(client *redis.Client, rules map[ratelimit.Action]ratelimit.Rule) *ratelimit.Set {
	return ratelimit.NewSet(rules, func(action ratelimit.Action, rule ratelimit.Rule) ratelimit.Limiter {
		memory := ratelimit.NewMemoryLimiter(rule)
		if client == nil {
			return memory
		}
		return ratelimit.WithFallback(ratelimit.NewRedisLimiter(client, "gemarcade:ratelimit:"+string(action), rule), memory)
	})
}
