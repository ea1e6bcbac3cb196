package blackjack

import (
	"fmt"
	"strings"

	"gemarcade/bot/common"
	bj "gemarcade/games/blackjack"
	"gemarcade/service"

	"github.com/bwmarrin/discordgo"
)

const (
	actionPrefix = "bj"
	actionHit    = "hit"
	actionStand  = "stand"
	actionDouble = "double"
)

// ActionID builds the custom ID of an action button
func ActionID(action, sessionID string) string {
	return common.CustomID(actionPrefix, action, sessionID)
}

// ParseActionID extracts the action and session from a button ID
func ParseActionID(customID string) (string, string, bool) {
	parts, ok := common.ParseCustomID(customID, actionPrefix, 3)
	if !ok {
		return "", "", false
	}
	switch parts[1] {
	case actionHit, actionStand, actionDouble:
		return parts[1], parts[2], true
	}
	return "", "", false
}

// BuildButtons returns the action row. Double is only offered on the
// opening two cards.
func BuildButtons(view *service.BlackjackView) []discordgo.MessageComponent {
	active := view.View.Status == bj.StatusActive
	canDouble := active && !view.View.Doubled && len(view.View.Player) == 2

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Hit",
					Style:    discordgo.PrimaryButton,
					CustomID: ActionID(actionHit, view.SessionID),
					Disabled: !active,
				},
				discordgo.Button{
					Label:    "Stand",
					Style:    discordgo.SecondaryButton,
					CustomID: ActionID(actionStand, view.SessionID),
					Disabled: !active,
				},
				discordgo.Button{
					Label:    "Double",
					Style:    discordgo.SuccessButton,
					CustomID: ActionID(actionDouble, view.SessionID),
					Disabled: !canDouble,
				},
			},
		},
	}
}

// RenderHand lists cards with the hole card masked
func RenderHand(cards []bj.Card, holeHidden bool) string {
	labels := make([]string, 0, len(cards)+1)
	for _, c := range cards {
		labels = append(labels, "`"+c.String()+"`")
	}
	if holeHidden {
		labels = append(labels, "`??`")
	}
	return strings.Join(labels, " ")
}

var outcomeText = map[bj.Status]string{
	bj.StatusPlayerBust: "Bust! The dealer wins.",
	bj.StatusBlackjack:  "Blackjack!",
	bj.StatusPlayerWin:  "You win!",
	bj.StatusDealerBust: "Dealer busts. You win!",
	bj.StatusDealerWin:  "The dealer wins.",
	bj.StatusPush:       "Push. Your bet is returned.",
}

// BuildEmbed renders the table
func BuildEmbed(username string, view *service.BlackjackView) *discordgo.MessageEmbed {
	dealerTotal := fmt.Sprintf("%d", view.View.DealerTotal)
	if view.View.HoleHidden {
		dealerTotal += "+"
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🃏 %s's Blackjack", username),
		Fields: []*discordgo.MessageEmbedField{
			{Name: fmt.Sprintf("Your Hand (%d)", view.View.PlayerTotal), Value: RenderHand(view.View.Player, false)},
			{Name: fmt.Sprintf("Dealer (%s)", dealerTotal), Value: RenderHand(view.View.Dealer, view.View.HoleHidden)},
			{Name: "Bet", Value: common.FormatGems(view.Bet), Inline: true},
			{Name: "Balance", Value: common.FormatGems(view.Balance), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Hand " + view.SessionID},
	}

	if view.View.Status == bj.StatusActive {
		embed.Color = common.ColorPrimary
		embed.Description = "Hit, stand or double."
		return embed
	}

	var payout int64
	if view.Payout != nil {
		payout = *view.Payout
	}
	embed.Description = outcomeText[view.View.Status]
	switch {
	case payout > view.Bet:
		embed.Color = common.ColorSuccess
		embed.Description += fmt.Sprintf(" Paid **%s gems**.", common.FormatGems(payout))
	case payout == view.Bet:
		embed.Color = common.ColorWarning
	default:
		embed.Color = common.ColorDanger
	}
	return embed
}
