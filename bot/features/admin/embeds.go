package admin

import (
	"fmt"
	"strings"

	"gemarcade/bot/common"
	"gemarcade/models"

	"github.com/bwmarrin/discordgo"
)

// maxConfigLength keeps the JSON block inside an embed description
const maxConfigLength = 3900

func BuildConfigEmbed(cfg *models.GameConfig) *discordgo.MessageEmbed {
	body := string(cfg.Config)
	if len(body) > maxConfigLength {
		body = body[:maxConfigLength] + "…"
	}

	updatedBy := "system"
	if cfg.UpdatedBy != nil {
		updatedBy = "<@" + *cfg.UpdatedBy + ">"
	}

	color := common.ColorSuccess
	if !cfg.Enabled {
		color = common.ColorDanger
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("⚙️ %s config v%d", cfg.Key, cfg.Version),
		Description: "```json\n" + body + "\n```",
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Enabled", Value: fmt.Sprintf("%t", cfg.Enabled), Inline: true},
			{Name: "Updated By", Value: updatedBy, Inline: true},
			{Name: "Updated", Value: common.FormatDiscordTimestamp(cfg.UpdatedAt, "f"), Inline: true},
		},
	}
}

func BuildHistoryEmbed(key models.GameKey, history []*models.GameConfigHistory) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("⚙️ %s config history", key),
		Color: common.ColorInfo,
	}
	if len(history) == 0 {
		embed.Description = "No previous versions."
		return embed
	}

	var lines []string
	for _, h := range history {
		by := "system"
		if h.UpdatedBy != nil {
			by = "<@" + *h.UpdatedBy + ">"
		}
		lines = append(lines, fmt.Sprintf("v%d · enabled=%t · %s · %s", h.Version, h.Enabled, by, common.FormatDiscordTimestamp(h.RecordedAt, "R")))
	}
	embed.Description = strings.Join(lines, "\n")
	return embed
}
