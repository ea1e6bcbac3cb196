package mines

import (
	"gemarcade/bot/common"
	"gemarcade/ratelimit"
	"gemarcade/service"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	minesService service.MinesService
	guard        *common.Guard
}

func New(minesService service.MinesService, guard *common.Guard) *Feature {
	return &Feature{
		minesService: minesService,
		guard:        guard,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, options := common.SubCommand(i.ApplicationCommandData())
	switch sub {
	case "start":
		if !f.guard.Allow(s, i, ratelimit.ActionMinesStart) {
			return
		}
		f.handleStart(s, i, options.Int("bet", 0), int(options.Int("mines", DefaultMines)))
	case "reveal":
		if !f.guard.Allow(s, i, ratelimit.ActionMinesAction) {
			return
		}
		f.handleRevealCommand(s, i, int(options.Int("tile", 0)))
	case "cashout":
		if !f.guard.Allow(s, i, ratelimit.ActionMinesAction) {
			return
		}
		f.handleCashout(s, i)
	default:
		f.handleStatus(s, i)
	}
}

// HandleInteraction handles tile button presses
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	roundID, tile, ok := ParseRevealID(i.MessageComponentData().CustomID)
	if !ok {
		return
	}
	if !f.guard.Allow(s, i, ratelimit.ActionMinesAction) {
		return
	}
	f.handleRevealButton(s, i, roundID, tile)
}
