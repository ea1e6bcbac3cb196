package cases

import (
	"fmt"
	"strings"

	"gemarcade/bot/common"
	"gemarcade/games/loot"
	"gemarcade/models"
	"gemarcade/service"

	"github.com/bwmarrin/discordgo"
)

var rarityColors = map[loot.Rarity]int{
	loot.Common:    0x95A5A6,
	loot.Uncommon:  0x2ECC71,
	loot.Rare:      0x1F8BFF,
	loot.Epic:      0x9B59B6,
	loot.Legendary: 0xF1C40F,
	loot.Mythical:  0xE67E22,
	loot.Divine:    0xE91E63,
	loot.Secret:    0x11806A,
}

// RarityColor returns the embed color for a tier
func RarityColor(r loot.Rarity) int {
	if c, ok := rarityColors[r]; ok {
		return c
	}
	return common.ColorInfo
}

// BuildListEmbed lists the cases that can be opened
func BuildListEmbed(defs []*models.CaseDefinition) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📦 Cases",
		Color: common.ColorPrimary,
	}
	if len(defs) == 0 {
		embed.Description = "No cases are available right now."
		return embed
	}

	for _, def := range defs {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s (`%s`)", def.Name, def.Key),
			Value: fmt.Sprintf("%s gems · %s", common.FormatGems(def.Price), renderOdds(def.Weights)),
		})
	}
	return embed
}

// renderOdds lists tier chances in roll order
func renderOdds(weights loot.Weights) string {
	total := weights.Total()
	if total <= 0 {
		return "no drops"
	}
	var parts []string
	for _, r := range loot.Order {
		if w := weights[r]; w > 0 {
			parts = append(parts, fmt.Sprintf("%s %.2f%%", strings.ToLower(string(r)), w*100/total))
		}
	}
	return strings.Join(parts, ", ")
}

// BuildOpenEmbed shows the item a case produced
func BuildOpenEmbed(username string, result *service.CaseOpenResult) *discordgo.MessageEmbed {
	owned := int64(1)
	if result.Inventory != nil {
		owned = result.Inventory.Quantity
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("📦 %s opened %s", username, result.CaseKey),
		Description: fmt.Sprintf("**%s** `%s`", result.Rarity, result.ItemKey),
		Color:       RarityColor(result.Rarity),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Owned", Value: fmt.Sprintf("%d", owned), Inline: true},
			{Name: "Balance", Value: common.FormatGems(result.NewBalance), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Roll " + result.CorrelationID},
	}
}

// BuildInventoryEmbed lists owned items
func BuildInventoryEmbed(username string, items []*models.InventoryItem) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🎒 %s's Inventory", username),
		Color: common.ColorInfo,
	}
	if len(items) == 0 {
		embed.Description = "Your inventory is empty. Try `/case open`."
		return embed
	}

	var lines []string
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("**%s** `%s` ×%d", item.Rarity, item.ItemKey, item.Quantity))
	}
	embed.Description = strings.Join(lines, "\n")
	return embed
}
