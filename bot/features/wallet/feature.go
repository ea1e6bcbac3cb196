package wallet

import (
	"gemarcade/bot/common"
	"gemarcade/service"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	accountService service.AccountService
}

func New(accountService service.AccountService) *Feature {
	return &Feature{
		accountService: accountService,
	}
}

func (f *Feature) HandleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleBalance(s, i)
}

func (f *Feature) HandleDaily(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleDaily(s, i)
}

func (f *Feature) HandleHistory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_, options := common.SubCommand(i.ApplicationCommandData())
	f.handleHistory(s, i, int(options.Int("count", defaultHistoryCount)))
}

func (f *Feature) HandleLimits(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, options := common.SubCommand(i.ApplicationCommandData())
	switch sub {
	case "set":
		f.handleSetLimits(s, i, options)
	case "clear":
		f.handleClearLimits(s, i)
	default:
		f.handleShowLimits(s, i)
	}
}
