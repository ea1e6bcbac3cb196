package arcade

import (
	"fmt"
	"strings"

	"gemarcade/bot/common"
	"gemarcade/games/plinko"
	"gemarcade/games/slots"
	"gemarcade/service"

	"github.com/bwmarrin/discordgo"
)

var symbolEmoji = map[slots.Symbol]string{
	slots.SymbolGem:    "💎",
	slots.SymbolSeven:  "7️⃣",
	slots.SymbolCrown:  "👑",
	slots.SymbolStar:   "⭐",
	slots.SymbolHeart:  "❤️",
	slots.SymbolCoin:   "🪙",
	slots.SymbolCherry: "🍒",
}

// SymbolEmoji returns the display glyph for a reel symbol
func SymbolEmoji(symbol slots.Symbol) string {
	if e, ok := symbolEmoji[symbol]; ok {
		return e
	}
	return "❔"
}

// RenderGrid draws the reels row by row, marking the payline
func RenderGrid(grid slots.Grid) string {
	var b strings.Builder
	for row := 0; row < slots.Rows; row++ {
		for reel := 0; reel < slots.Reels; reel++ {
			b.WriteString(SymbolEmoji(grid[reel][row]))
			if reel < slots.Reels-1 {
				b.WriteString(" | ")
			}
		}
		if row == slots.CenterRow {
			b.WriteString(" ⬅️")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// BuildSlotsEmbed renders a spin result
func BuildSlotsEmbed(username string, result *service.SlotsSpinResult) *discordgo.MessageEmbed {
	color := common.ColorDanger
	outcome := fmt.Sprintf("No win. Lost **%s gems**.", common.FormatGems(result.Bet))
	if result.Result.IsWin {
		color = common.ColorSuccess
		outcome = fmt.Sprintf("**%s** pays **%s gems**!", common.FormatMultiplier(result.Result.Multiplier), common.FormatGems(result.Result.Payout))
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎰 %s's Spin", username),
		Description: RenderGrid(result.Result.Grid) + "\n" + outcome,
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Bet", Value: common.FormatGems(result.Bet), Inline: true},
			{Name: "Balance", Value: common.FormatGems(result.NewBalance), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Round " + result.CorrelationID},
	}
}

// RenderPath draws the bounce sequence as arrows
func RenderPath(path []plinko.Direction) string {
	var b strings.Builder
	for _, d := range path {
		if d == plinko.Left {
			b.WriteString("↙")
		} else {
			b.WriteString("↘")
		}
	}
	return b.String()
}

// BuildPlinkoEmbed renders a drop result
func BuildPlinkoEmbed(username string, result *service.PlinkoDropResult) *discordgo.MessageEmbed {
	color := common.ColorDanger
	if result.Result.Payout >= result.Bet {
		color = common.ColorSuccess
	}

	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🟣 %s's Plinko Drop", username),
		Description: fmt.Sprintf("%s\nLanded in bucket **%d** for **%s**.",
			RenderPath(result.Result.Path), result.Result.BucketIndex, common.FormatMultiplier(result.Result.Multiplier)),
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Bet", Value: common.FormatGems(result.Bet), Inline: true},
			{Name: "Payout", Value: common.FormatGems(result.Result.Payout), Inline: true},
			{Name: "Balance", Value: common.FormatGems(result.NewBalance), Inline: true},
			{Name: "Board", Value: fmt.Sprintf("%d rows, %s risk", result.Rows, result.Risk), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Round " + result.CorrelationID},
	}
}

// BuildSeedEmbed shows the committed seed hash a seeded spin will use
func BuildSeedEmbed(view *service.FairSeedView) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🔐 Provably Fair",
		Description: "Spin with `/slots seed:<your seed>` to play on this seed. Rotate it to reveal the seed and check past spins.",
		Color:       common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Server Seed Hash", Value: "`" + view.SeedHash + "`"},
			{Name: "Next Nonce", Value: fmt.Sprintf("%d", view.Nonce), Inline: true},
		},
	}
}

// BuildRotationEmbed reveals a retired seed and shows its replacement's hash
func BuildRotationEmbed(rotation *service.SeedRotation) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🔄 Server Seed Rotated",
		Description: "sha256 of the revealed seed must equal the hash you were shown before those spins.",
		Color:       common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Revealed Seed", Value: "`" + rotation.RevealedSeed + "`"},
			{Name: "Revealed Hash", Value: "`" + rotation.RevealedHash + "`"},
			{Name: "Spins Played", Value: fmt.Sprintf("%d", rotation.SpinsPlayed), Inline: true},
			{Name: "New Seed Hash", Value: "`" + rotation.NextHash + "`"},
		},
	}
}
