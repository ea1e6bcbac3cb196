package arcade

import (
	"gemarcade/bot/common"
	"gemarcade/ratelimit"
	"gemarcade/service"

	"github.com/bwmarrin/discordgo"
)

// Feature serves the single-call games
type Feature struct {
	slotsService    service.SlotsService
	plinkoService   service.PlinkoService
	fairSeedService service.FairSeedService
	guard           *common.Guard
}

func New(slotsService service.SlotsService, plinkoService service.PlinkoService, fairSeedService service.FairSeedService, guard *common.Guard) *Feature {
	return &Feature{
		slotsService:    slotsService,
		plinkoService:   plinkoService,
		fairSeedService: fairSeedService,
		guard:           guard,
	}
}

func (f *Feature) HandleSlots(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !f.guard.Allow(s, i, ratelimit.ActionSlots) {
		return
	}
	options := common.OptionMap(i.ApplicationCommandData().Options)
	f.handleSlots(s, i, options.Int("bet", 0), options.String("seed", ""))
}

func (f *Feature) HandlePlinko(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !f.guard.Allow(s, i, ratelimit.ActionPlinko) {
		return
	}
	options := common.OptionMap(i.ApplicationCommandData().Options)
	f.handlePlinko(s, i, options.Int("bet", 0), int(options.Int("rows", DefaultPlinkoRows)), options.String("risk", DefaultPlinkoRisk))
}

func (f *Feature) HandleFair(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, _ := common.SubCommand(i.ApplicationCommandData())
	if sub == "rotate" {
		f.handleRotateSeed(s, i)
		return
	}
	f.handleShowSeed(s, i)
}
