package wallet

import (
	"testing"
	"time"

	"gemarcade/bot/common"
	"gemarcade/models"
	"gemarcade/service"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intOption(name string, v int64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(v),
	}
}

func TestLimitsFromOptions(t *testing.T) {
	limits := limitsFromOptions(common.OptionMap([]*discordgo.ApplicationCommandInteractionDataOption{
		intOption("max_loss", 500),
		intOption("max_plays", 0),
	}))

	require.NotNil(t, limits.MaxLossPerDay)
	assert.Equal(t, int64(500), *limits.MaxLossPerDay)
	assert.Nil(t, limits.MaxPlaysPerDay)
	assert.True(t, limits.IsSet())

	assert.False(t, limitsFromOptions(common.Options{}).IsSet())
}

func TestBuildLimitsEmbed(t *testing.T) {
	plays := int64(20)
	embed := buildLimitsEmbed(models.SelfLimits{MaxPlaysPerDay: &plays})

	assert.Equal(t, "None", embed.Fields[0].Value)
	assert.Equal(t, "20", embed.Fields[1].Value)
}

func TestBuildHistoryEmbed(t *testing.T) {
	assert.Equal(t, "No transactions yet.", buildHistoryEmbed(nil).Description)

	embed := buildHistoryEmbed([]*models.LedgerEntry{
		{Type: models.TransactionTypeSlotsBet, Amount: -10, BalanceAfter: 990, CreatedAt: time.Unix(1700000000, 0)},
		{Type: models.TransactionTypeSlotsPayout, Amount: 50, BalanceAfter: 1040, CreatedAt: time.Unix(1700000001, 0)},
	})

	assert.Contains(t, embed.Description, "`slots_bet` **-10** → 990")
	assert.Contains(t, embed.Description, "`slots_payout` **+50** → 1,040")
}

func TestBuildDailyEmbed(t *testing.T) {
	embed := buildDailyEmbed(&service.DailyClaimResult{
		Amount:     300,
		Streak:     3,
		NewBalance: 1300,
		NextClaim:  time.Unix(1700006400, 0),
	})

	assert.Contains(t, embed.Description, "300 gems")
	assert.Equal(t, "3 day(s)", embed.Fields[0].Value)
	assert.Equal(t, "<t:1700006400:R>", embed.Fields[2].Value)
}
