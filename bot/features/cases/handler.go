package cases

import (
	"context"

	"gemarcade/bot/common"

	"github.com/bwmarrin/discordgo"
)

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	defs, err := f.caseService.ListCases(ctx)
	if err != nil {
		common.HandleError(s, i, err, "case_list")
		return
	}

	common.RespondWithEmbed(s, i, BuildListEmbed(defs), nil, true)
}

func (f *Feature) handleOpen(s *discordgo.Session, i *discordgo.InteractionCreate, caseKey string) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	result, err := f.caseService.OpenCase(ctx, user.ID, caseKey)
	if err != nil {
		common.HandleError(s, i, err, "case_open")
		return
	}

	common.RespondWithEmbed(s, i, BuildOpenEmbed(user.Username, result), nil, false)
}

func (f *Feature) handleInventory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	items, err := f.caseService.Inventory(ctx, user.ID)
	if err != nil {
		common.HandleError(s, i, err, "case_inventory")
		return
	}

	common.RespondWithEmbed(s, i, BuildInventoryEmbed(user.Username, items), nil, true)
}
