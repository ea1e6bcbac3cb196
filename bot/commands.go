package bot

import (
	"fmt"

	"gemarcade/bot/features/arcade"
	"gemarcade/bot/features/mines"
	"gemarcade/games/plinko"
	"gemarcade/models"

	"github.com/bwmarrin/discordgo"
)

func betOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "bet",
		Description: description,
		Required:    true,
		MinValue:    floatPtr(1),
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

func gameChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(models.GameKeys))
	for _, key := range models.GameKeys {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: string(key), Value: string(key)})
	}
	return choices
}

func gameOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "game",
		Description: "Game to configure",
		Required:    true,
		Choices:     gameChoices(),
	}
}

func userOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: description,
		Required:    true,
	}
}

// Commands returns every slash command the bot registers
func Commands() []*discordgo.ApplicationCommand {
	adminPermission := int64(discordgo.PermissionAdministrator)

	return []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your current gem balance",
		},
		{
			Name:        "daily",
			Description: "Claim your daily gem bonus",
		},
		{
			Name:        "history",
			Description: "Show your recent transactions",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "count",
					Description: "Number of transactions to show",
					MinValue:    floatPtr(1),
					MaxValue:    25,
				},
			},
		},
		{
			Name:        "limits",
			Description: "Manage your daily spending limits",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show",
					Description: "Show your current limits",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set",
					Description: "Set daily loss and play limits",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "max_loss",
							Description: "Most gems you can lose per day",
							MinValue:    floatPtr(1),
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "max_plays",
							Description: "Most wagers you can place per day",
							MinValue:    floatPtr(1),
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "clear",
					Description: "Remove your limits",
				},
			},
		},
		{
			Name:        "slots",
			Description: "Spin the slot machine",
			Options: []*discordgo.ApplicationCommandOption{
				betOption("Gems to bet"),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "seed",
					Description: "Client seed; plays on your committed server seed (see /fair)",
				},
			},
		},
		{
			Name:        "fair",
			Description: "Provably fair seeds for slots",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show",
					Description: "Show the hash of your committed server seed",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "rotate",
					Description: "Reveal your server seed and commit a new one",
				},
			},
		},
		{
			Name:        "plinko",
			Description: "Drop a plinko ball",
			Options: []*discordgo.ApplicationCommandOption{
				betOption("Gems to bet"),
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "rows",
					Description: fmt.Sprintf("Board rows (default %d)", arcade.DefaultPlinkoRows),
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "8", Value: 8},
						{Name: "12", Value: 12},
						{Name: "16", Value: 16},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "risk",
					Description: fmt.Sprintf("Risk level (default %s)", arcade.DefaultPlinkoRisk),
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "low", Value: string(plinko.RiskLow)},
						{Name: "medium", Value: string(plinko.RiskMedium)},
						{Name: "high", Value: string(plinko.RiskHigh)},
					},
				},
			},
		},
		{
			Name:        "mines",
			Description: "Play mines",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Start a new round",
					Options: []*discordgo.ApplicationCommandOption{
						betOption("Gems to bet"),
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "mines",
							Description: fmt.Sprintf("Number of mines (default %d)", mines.DefaultMines),
							MinValue:    floatPtr(1),
							MaxValue:    24,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "reveal",
					Description: "Reveal a tile in your active round",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "tile",
							Description: "Tile number, 1 to 25",
							Required:    true,
							MinValue:    floatPtr(1),
							MaxValue:    25,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "cashout",
					Description: "Cash out your active round",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show your active round",
				},
			},
		},
		{
			Name:        "blackjack",
			Description: "Play a hand of blackjack",
			Options: []*discordgo.ApplicationCommandOption{
				betOption("Gems to bet"),
			},
		},
		{
			Name:        "jackpot",
			Description: "The pooled jackpot",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show the current round",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "enter",
					Description: "Buy tickets in the current round",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "amount",
							Description: "Gems to put in the pot",
							Required:    true,
							MinValue:    floatPtr(1),
						},
					},
				},
			},
		},
		{
			Name:        "case",
			Description: "Loot cases",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List available cases",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "open",
					Description: "Open a case",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "case",
							Description: "Case key",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "inventory",
					Description: "Show your items",
				},
			},
		},
		{
			Name:                     "admin",
			Description:              "Administrative commands",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "ban",
					Description: "Ban a player",
					Options: []*discordgo.ApplicationCommandOption{
						userOption("Player to ban"),
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "reason",
							Description: "Reason for the ban",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "unban",
					Description: "Lift a ban",
					Options: []*discordgo.ApplicationCommandOption{
						userOption("Player to unban"),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "adjust",
					Description: "Credit or debit a player's balance",
					Options: []*discordgo.ApplicationCommandOption{
						userOption("Player to adjust"),
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "amount",
							Description: "Signed amount of gems",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "reason",
							Description: "Reason for the adjustment",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "config-show",
					Description: "Show a game's configuration",
					Options:     []*discordgo.ApplicationCommandOption{gameOption()},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "config-set",
					Description: "Replace a game's configuration",
					Options: []*discordgo.ApplicationCommandOption{
						gameOption(),
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "config",
							Description: "Configuration JSON",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "enabled",
							Description: "Whether the game is playable (default true)",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "config-history",
					Description: "Show previous configuration versions",
					Options:     []*discordgo.ApplicationCommandOption{gameOption()},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "case-set",
					Description: "Create or update a loot case",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "definition",
							Description: "Case definition JSON",
							Required:    true,
						},
					},
				},
			},
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	for _, cmd := range Commands() {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}
