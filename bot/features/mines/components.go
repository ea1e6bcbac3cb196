package mines

import (
	"fmt"
	"slices"
	"strconv"

	"gemarcade/bot/common"
	minesgame "gemarcade/games/mines"
	"gemarcade/service"

	"github.com/bwmarrin/discordgo"
)

const (
	revealPrefix  = "mines"
	revealAction  = "reveal"
	tilesPerRow   = 5
	maxButtonRows = 5
)

// RevealID builds the custom ID of a tile button
func RevealID(roundID string, tile int) string {
	return common.CustomID(revealPrefix, revealAction, roundID, strconv.Itoa(tile))
}

// ParseRevealID extracts the round and 0-based tile from a button ID
func ParseRevealID(customID string) (string, int, bool) {
	parts, ok := common.ParseCustomID(customID, revealPrefix, 4)
	if !ok || parts[1] != revealAction {
		return "", 0, false
	}
	tile, err := strconv.Atoi(parts[3])
	if err != nil || tile < 0 {
		return "", 0, false
	}
	return parts[2], tile, true
}

// BuildGrid lays the board out as rows of tile buttons. Finished rounds
// show every bomb and disable the board.
func BuildGrid(view *service.MinesRoundView) []discordgo.MessageComponent {
	gridSize := min(view.View.GridSize, tilesPerRow*maxButtonRows)
	finished := view.View.Status != minesgame.StatusActive

	var rows []discordgo.MessageComponent
	for start := 0; start < gridSize; start += tilesPerRow {
		row := discordgo.ActionsRow{}
		for tile := start; tile < min(start+tilesPerRow, gridSize); tile++ {
			row.Components = append(row.Components, tileButton(view, tile, finished))
		}
		rows = append(rows, row)
	}
	return rows
}

func tileButton(view *service.MinesRoundView, tile int, finished bool) discordgo.Button {
	button := discordgo.Button{
		Label:    "?",
		Style:    discordgo.SecondaryButton,
		CustomID: RevealID(view.RoundID, tile),
		Disabled: finished,
	}

	switch {
	case slices.Contains(view.View.Bombs, tile):
		button.Label = "💣"
		button.Style = discordgo.DangerButton
	case slices.Contains(view.View.Revealed, tile):
		button.Label = "💎"
		button.Style = discordgo.SuccessButton
		button.Disabled = true
	}
	return button
}

// BuildEmbed summarizes the round
func BuildEmbed(username string, view *service.MinesRoundView) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("💣 %s's Mines", username),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Bet", Value: common.FormatGems(view.Bet), Inline: true},
			{Name: "Mines", Value: strconv.Itoa(view.View.MinesCount), Inline: true},
			{Name: "Multiplier", Value: common.FormatMultiplier(roundTo(view.View.Multiplier, 2)), Inline: true},
			{Name: "Balance", Value: common.FormatGems(view.Balance), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Round " + view.RoundID},
	}

	switch view.View.Status {
	case minesgame.StatusActive:
		embed.Color = common.ColorPrimary
		embed.Description = fmt.Sprintf("Pick a tile. Cash out now for **%s gems** with `/mines cashout`.", common.FormatGems(view.PotentialPayout))
	case minesgame.StatusLost:
		embed.Color = common.ColorDanger
		embed.Description = fmt.Sprintf("💥 Boom! You lost **%s gems**.", common.FormatGems(view.Bet))
	case minesgame.StatusCashed:
		embed.Color = common.ColorSuccess
		var payout int64
		if view.Payout != nil {
			payout = *view.Payout
		}
		embed.Description = fmt.Sprintf("💰 Cashed out **%s gems**!", common.FormatGems(payout))
	}
	return embed
}

func roundTo(v float64, places int) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	return f
}
