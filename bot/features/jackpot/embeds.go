package jackpot

import (
	"fmt"
	"sort"
	"strings"

	"gemarcade/bot/common"
	"gemarcade/events"
	"gemarcade/models"
	"gemarcade/service"

	"github.com/bwmarrin/discordgo"
)

const maxListedStakes = 10

// WinChance is the share of the pot backing accountID, in percent
func WinChance(view *service.JackpotRoundView, accountID string) float64 {
	if view.Round.Pot <= 0 {
		return 0
	}
	return float64(view.Stakes[accountID]) * 100 / float64(view.Round.Pot)
}

// BuildRoundEmbed shows the open round from the viewer's perspective
func BuildRoundEmbed(view *service.JackpotRoundView, viewerID string) *discordgo.MessageEmbed {
	round := view.Round
	embed := &discordgo.MessageEmbed{
		Title:       "🏆 Jackpot",
		Description: fmt.Sprintf("Pot: **%s gems**\nDraw %s", common.FormatGems(round.Pot), common.FormatDiscordTimestamp(round.EndsAt, "R")),
		Color:       common.ColorGold,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Entries", Value: fmt.Sprintf("%d", len(view.Entries)), Inline: true},
			{Name: "House Cut", Value: fmt.Sprintf("%.2f%%", float64(round.HouseCutBps)/100), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Seed hash " + round.SeedHash},
	}

	if stake := view.Stakes[viewerID]; stake > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Your Stake",
			Value:  fmt.Sprintf("%s gems (%.1f%% chance)", common.FormatGems(stake), WinChance(view, viewerID)),
			Inline: true,
		})
	}

	if leaders := renderStakes(view.Stakes); leaders != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Top Stakes", Value: leaders})
	}
	return embed
}

func renderStakes(stakes map[string]int64) string {
	type stake struct {
		accountID string
		amount    int64
	}
	sorted := make([]stake, 0, len(stakes))
	for id, amount := range stakes {
		sorted = append(sorted, stake{id, amount})
	}
	sort.Slice(sorted, func(a, b int) bool {
		if sorted[a].amount != sorted[b].amount {
			return sorted[a].amount > sorted[b].amount
		}
		return sorted[a].accountID < sorted[b].accountID
	})

	var lines []string
	for idx, st := range sorted {
		if idx == maxListedStakes {
			break
		}
		lines = append(lines, fmt.Sprintf("%d. <@%s> %s", idx+1, st.accountID, common.FormatGems(st.amount)))
	}
	return strings.Join(lines, "\n")
}

// BuildSettledEmbed announces a closed or paid round
func BuildSettledEmbed(e events.JackpotSettledEvent) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:  "🏆 Jackpot Drawn",
		Color:  common.ColorGold,
		Footer: &discordgo.MessageEmbedFooter{Text: "Server seed " + e.ServerSeed},
	}
	if e.Status == models.JackpotStatusClosed || e.WinnerID == "" {
		embed.Description = "Nobody entered this round. A new round is open!"
		embed.Color = common.ColorInfo
		return embed
	}
	embed.Description = fmt.Sprintf("<@%s> won **%s gems** from a pot of %s!",
		e.WinnerID, common.FormatGems(e.Payout), common.FormatGems(e.Pot))
	return embed
}
