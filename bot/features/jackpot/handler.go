package jackpot

import (
	"context"

	"gemarcade/bot/common"

	"github.com/bwmarrin/discordgo"
)

func (f *Feature) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	view, err := f.jackpotService.Current(ctx)
	if err != nil {
		common.HandleError(s, i, err, "jackpot_status")
		return
	}

	common.RespondWithEmbed(s, i, BuildRoundEmbed(view, user.ID), nil, false)
}

func (f *Feature) handleEnter(s *discordgo.Session, i *discordgo.InteractionCreate, amount int64) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	if _, err := f.jackpotService.Enter(ctx, user.ID, amount); err != nil {
		common.HandleError(s, i, err, "jackpot_enter")
		return
	}

	view, err := f.jackpotService.Current(ctx)
	if err != nil {
		common.HandleError(s, i, err, "jackpot_enter")
		return
	}

	common.RespondWithEmbed(s, i, BuildRoundEmbed(view, user.ID), nil, false)
}
