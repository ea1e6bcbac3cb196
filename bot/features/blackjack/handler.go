package blackjack

import (
	"context"

	"gemarcade/bot/common"
	"gemarcade/service"

	"github.com/bwmarrin/discordgo"
)

func (f *Feature) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate, bet int64) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	view, err := f.blackjackService.Start(ctx, user.ID, bet)
	if err != nil {
		common.HandleError(s, i, err, "blackjack_start")
		return
	}

	common.RespondWithEmbed(s, i, BuildEmbed(user.Username, view), BuildButtons(view), false)
}

func (f *Feature) handleAction(s *discordgo.Session, i *discordgo.InteractionCreate, action, sessionID string) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	var (
		view *service.BlackjackView
		err  error
	)
	switch action {
	case actionHit:
		view, err = f.blackjackService.Hit(ctx, user.ID, sessionID)
	case actionStand:
		view, err = f.blackjackService.Stand(ctx, user.ID, sessionID)
	case actionDouble:
		view, err = f.blackjackService.Double(ctx, user.ID, sessionID)
	default:
		return
	}
	if err != nil {
		common.HandleError(s, i, err, "blackjack_"+action)
		return
	}

	common.UpdateComponentMessage(s, i, BuildEmbed(user.Username, view), BuildButtons(view))
}
