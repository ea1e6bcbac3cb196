package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gemarcade/bot/common"
	"gemarcade/models"
	"gemarcade/service"

	"github.com/bwmarrin/discordgo"
)

const (
	defaultHistoryCount = 10
	maxHistoryCount     = 25
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	account, err := f.accountService.GetAccount(ctx, user.ID)
	if err != nil {
		common.HandleError(s, i, err, "balance")
		return
	}

	message := fmt.Sprintf("%s, your current balance: **%s gems**", user.Username, common.FormatGems(account.Balance))
	common.RespondWithContent(s, i, message, false)
}

func (f *Feature) handleDaily(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	result, err := f.accountService.ClaimDaily(ctx, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyClaimed) {
			if account, getErr := f.accountService.GetAccount(ctx, user.ID); getErr == nil {
				next := service.NextDailyClaim(account, time.Now())
				common.RespondWithError(s, i, fmt.Sprintf("You've already claimed today's bonus. Come back %s.", common.FormatDiscordTimestamp(next, "R")))
				return
			}
		}
		common.HandleError(s, i, err, "daily")
		return
	}

	common.RespondWithEmbed(s, i, buildDailyEmbed(result), nil, false)
}

func (f *Feature) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate, count int) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	if count <= 0 || count > maxHistoryCount {
		count = defaultHistoryCount
	}

	entries, err := f.accountService.History(ctx, user.ID, count)
	if err != nil {
		common.HandleError(s, i, err, "history")
		return
	}

	common.RespondWithEmbed(s, i, buildHistoryEmbed(entries), nil, true)
}

func (f *Feature) handleShowLimits(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	account, err := f.accountService.GetAccount(ctx, user.ID)
	if err != nil {
		common.HandleError(s, i, err, "limits")
		return
	}

	common.RespondWithEmbed(s, i, buildLimitsEmbed(account.SelfLimits), nil, true)
}

func (f *Feature) handleSetLimits(s *discordgo.Session, i *discordgo.InteractionCreate, options common.Options) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	limits := limitsFromOptions(options)
	if !limits.IsSet() {
		common.RespondWithError(s, i, "Provide a daily loss limit, a daily play limit, or both.")
		return
	}

	if err := f.accountService.SetSelfLimits(ctx, user.ID, limits); err != nil {
		common.HandleError(s, i, err, "limits_set")
		return
	}

	common.RespondWithEmbed(s, i, buildLimitsEmbed(limits), nil, true)
}

func (f *Feature) handleClearLimits(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	if err := f.accountService.SetSelfLimits(ctx, user.ID, models.SelfLimits{}); err != nil {
		common.HandleError(s, i, err, "limits_clear")
		return
	}

	common.RespondWithContent(s, i, "✅ Your daily limits have been removed.", true)
}

// limitsFromOptions reads positive caps; zero or missing options leave the cap unset
func limitsFromOptions(options common.Options) models.SelfLimits {
	var limits models.SelfLimits
	if loss := options.Int("max_loss", 0); loss > 0 {
		limits.MaxLossPerDay = &loss
	}
	if plays := options.Int("max_plays", 0); plays > 0 {
		limits.MaxPlaysPerDay = &plays
	}
	return limits
}

func buildDailyEmbed(result *service.DailyClaimResult) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎁 Daily Bonus",
		Description: fmt.Sprintf("You received **%s gems**!", common.FormatGems(result.Amount)),
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Streak", Value: fmt.Sprintf("%d day(s)", result.Streak), Inline: true},
			{Name: "Balance", Value: common.FormatGems(result.NewBalance), Inline: true},
			{Name: "Next Claim", Value: common.FormatDiscordTimestamp(result.NextClaim, "R"), Inline: true},
		},
	}
}

func buildHistoryEmbed(entries []*models.LedgerEntry) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📜 Recent Transactions",
		Color: common.ColorInfo,
	}
	if len(entries) == 0 {
		embed.Description = "No transactions yet."
		return embed
	}

	var lines []string
	for _, entry := range entries {
		lines = append(lines, fmt.Sprintf("%s `%s` **%s** → %s",
			common.FormatDiscordTimestamp(entry.CreatedAt, "R"),
			entry.Type,
			common.FormatSignedGems(entry.Amount),
			common.FormatGems(entry.BalanceAfter)))
	}
	embed.Description = strings.Join(lines, "\n")
	return embed
}

func buildLimitsEmbed(limits models.SelfLimits) *discordgo.MessageEmbed {
	loss := "None"
	if limits.MaxLossPerDay != nil {
		loss = common.FormatGems(*limits.MaxLossPerDay) + " gems"
	}
	plays := "None"
	if limits.MaxPlaysPerDay != nil {
		plays = fmt.Sprintf("%d", *limits.MaxPlaysPerDay)
	}

	return &discordgo.MessageEmbed{
		Title:       "🛑 Daily Limits",
		Description: "Limits reset at midnight UTC.",
		Color:       common.ColorWarning,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Max Loss", Value: loss, Inline: true},
			{Name: "Max Plays", Value: plays, Inline: true},
		},
	}
}
