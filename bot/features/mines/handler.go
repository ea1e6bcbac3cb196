package mines

import (
	"context"

	"gemarcade/bot/common"

	"github.com/bwmarrin/discordgo"
)

const DefaultMines = 3

func (f *Feature) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate, bet int64, minesCount int) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	view, err := f.minesService.Start(ctx, user.ID, bet, minesCount)
	if err != nil {
		common.HandleError(s, i, err, "mines_start")
		return
	}

	common.RespondWithEmbed(s, i, BuildEmbed(user.Username, view), BuildGrid(view), false)
}

// handleRevealCommand reveals a 1-based tile of the player's active round
func (f *Feature) handleRevealCommand(s *discordgo.Session, i *discordgo.InteractionCreate, tile int) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	active, err := f.minesService.Active(ctx, user.ID)
	if err != nil {
		common.HandleError(s, i, err, "mines_reveal")
		return
	}

	view, err := f.minesService.Reveal(ctx, user.ID, active.RoundID, tile-1)
	if err != nil {
		common.HandleError(s, i, err, "mines_reveal")
		return
	}

	common.RespondWithEmbed(s, i, BuildEmbed(user.Username, view), BuildGrid(view), false)
}

func (f *Feature) handleRevealButton(s *discordgo.Session, i *discordgo.InteractionCreate, roundID string, tile int) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	view, err := f.minesService.Reveal(ctx, user.ID, roundID, tile)
	if err != nil {
		common.HandleError(s, i, err, "mines_reveal")
		return
	}

	common.UpdateComponentMessage(s, i, BuildEmbed(user.Username, view), BuildGrid(view))
}

func (f *Feature) handleCashout(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	active, err := f.minesService.Active(ctx, user.ID)
	if err != nil {
		common.HandleError(s, i, err, "mines_cashout")
		return
	}

	view, err := f.minesService.Cashout(ctx, user.ID, active.RoundID)
	if err != nil {
		common.HandleError(s, i, err, "mines_cashout")
		return
	}

	common.RespondWithEmbed(s, i, BuildEmbed(user.Username, view), BuildGrid(view), false)
}

func (f *Feature) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	view, err := f.minesService.Active(ctx, user.ID)
	if err != nil {
		common.HandleError(s, i, err, "mines_status")
		return
	}

	common.RespondWithEmbed(s, i, BuildEmbed(user.Username, view), BuildGrid(view), true)
}
