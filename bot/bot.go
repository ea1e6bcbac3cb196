package bot

import (
	"context"
	"fmt"
	"strings"

	"gemarcade/bot/common"
	"gemarcade/bot/features/admin"
	"gemarcade/bot/features/arcade"
	"gemarcade/bot/features/blackjack"
	"gemarcade/bot/features/cases"
	"gemarcade/bot/features/jackpot"
	"gemarcade/bot/features/mines"
	"gemarcade/bot/features/wallet"
	"gemarcade/events"
	"gemarcade/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string
	// AnnouncementChannelID receives jackpot results when set
	AnnouncementChannelID string
	IsAdmin               func(accountID string) bool
}

// Services bundles what the bot's features call into
type Services struct {
	Accounts   service.AccountService
	GameConfig service.GameConfigService
	Slots      service.SlotsService
	Plinko     service.PlinkoService
	Mines      service.MinesService
	Blackjack  service.BlackjackService
	Jackpot    service.JackpotService
	Cases      service.CaseService
	Admin      service.AdminService
	FairSeeds  service.FairSeedService
}

// CommandRecorder counts handled interactions
type CommandRecorder interface {
	RecordCommand(command, result string)
	RecordRateLimited(action string)
}

type Bot struct {
	config   Config
	session  *discordgo.Session
	accounts service.AccountService
	recorder CommandRecorder

	// Features
	wallet    *wallet.Feature
	arcade    *arcade.Feature
	mines     *mines.Feature
	blackjack *blackjack.Feature
	jackpot   *jackpot.Feature
	cases     *cases.Feature
	admin     *admin.Feature
}

func New(config Config, services Services, limiter common.ActionLimiter, recorder CommandRecorder, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	guard := &common.Guard{Limiter: limiter}
	if recorder != nil {
		guard.Recorder = recorder
	}

	bot := &Bot{
		config:    config,
		session:   dg,
		accounts:  services.Accounts,
		recorder:  recorder,
		wallet:    wallet.New(services.Accounts),
		arcade:    arcade.New(services.Slots, services.Plinko, services.FairSeeds, guard),
		mines:     mines.New(services.Mines, guard),
		blackjack: blackjack.New(services.Blackjack, guard),
		jackpot:   jackpot.New(services.Jackpot, guard),
		cases:     cases.New(services.Cases, guard),
		admin:     admin.New(services.Admin, services.GameConfig, services.Cases, config.IsAdmin),
	}

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleInteractions)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	if config.AnnouncementChannelID != "" && eventBus != nil {
		bot.jackpot.SubscribeAnnouncements(dg, eventBus, config.AnnouncementChannelID)
		log.WithField("channelId", config.AnnouncementChannelID).Info("Jackpot announcements enabled")
	}

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// ensureAccount opens a wallet for first-time players
func (b *Bot) ensureAccount(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	user := common.InteractionUser(i)
	if user.ID == "" {
		return false
	}
	if _, err := b.accounts.GetOrCreateAccount(context.Background(), user.ID, user.Username); err != nil {
		common.HandleError(s, i, err, "ensure_account")
		return false
	}
	return true
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	if name != "admin" && !b.ensureAccount(s, i) {
		b.recordCommand(name, "rejected")
		return
	}

	switch name {
	case "balance":
		b.wallet.HandleBalance(s, i)
	case "daily":
		b.wallet.HandleDaily(s, i)
	case "history":
		b.wallet.HandleHistory(s, i)
	case "limits":
		b.wallet.HandleLimits(s, i)
	case "slots":
		b.arcade.HandleSlots(s, i)
	case "plinko":
		b.arcade.HandlePlinko(s, i)
	case "fair":
		b.arcade.HandleFair(s, i)
	case "mines":
		b.mines.HandleCommand(s, i)
	case "blackjack":
		b.blackjack.HandleCommand(s, i)
	case "jackpot":
		b.jackpot.HandleCommand(s, i)
	case "case":
		b.cases.HandleCommand(s, i)
	case "admin":
		b.admin.HandleCommand(s, i)
	default:
		log.WithField("command", name).Warn("Unknown command")
		return
	}
	b.recordCommand(name, "handled")
}

// handleInteractions routes button presses by custom ID prefix
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, "mines_"):
		b.mines.HandleInteraction(s, i)
		b.recordCommand("mines_button", "handled")
	case strings.HasPrefix(customID, "bj_"):
		b.blackjack.HandleInteraction(s, i)
		b.recordCommand("blackjack_button", "handled")
	}
}

func (b *Bot) recordCommand(command, result string) {
	if b.recorder != nil {
		b.recorder.RecordCommand(command, result)
	}
}
