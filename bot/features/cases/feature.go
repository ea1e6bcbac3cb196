package cases

import (
	"gemarcade/bot/common"
	"gemarcade/ratelimit"
	"gemarcade/service"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	caseService service.CaseService
	guard       *common.Guard
}

func New(caseService service.CaseService, guard *common.Guard) *Feature {
	return &Feature{
		caseService: caseService,
		guard:       guard,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, options := common.SubCommand(i.ApplicationCommandData())
	switch sub {
	case "open":
		if !f.guard.Allow(s, i, ratelimit.ActionCase) {
			return
		}
		f.handleOpen(s, i, options.String("case", ""))
	case "inventory":
		f.handleInventory(s, i)
	default:
		f.handleList(s, i)
	}
}
