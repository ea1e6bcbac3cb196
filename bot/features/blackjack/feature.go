package blackjack

import (
	"gemarcade/bot/common"
	"gemarcade/ratelimit"
	"gemarcade/service"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	blackjackService service.BlackjackService
	guard            *common.Guard
}

func New(blackjackService service.BlackjackService, guard *common.Guard) *Feature {
	return &Feature{
		blackjackService: blackjackService,
		guard:            guard,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !f.guard.Allow(s, i, ratelimit.ActionBlackjack) {
		return
	}
	options := common.OptionMap(i.ApplicationCommandData().Options)
	f.handleStart(s, i, options.Int("bet", 0))
}

// HandleInteraction handles hit, stand and double buttons
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	action, sessionID, ok := ParseActionID(i.MessageComponentData().CustomID)
	if !ok {
		return
	}
	if !f.guard.Allow(s, i, ratelimit.ActionBlackjack) {
		return
	}
	f.handleAction(s, i, action, sessionID)
}
