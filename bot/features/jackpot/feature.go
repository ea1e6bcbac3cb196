package jackpot

import (
	"context"

	"gemarcade/bot/common"
	"gemarcade/events"
	"gemarcade/ratelimit"
	"gemarcade/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

type Feature struct {
	jackpotService service.JackpotService
	guard          *common.Guard
}

func New(jackpotService service.JackpotService, guard *common.Guard) *Feature {
	return &Feature{
		jackpotService: jackpotService,
		guard:          guard,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, options := common.SubCommand(i.ApplicationCommandData())
	switch sub {
	case "enter":
		if !f.guard.Allow(s, i, ratelimit.ActionJackpot) {
			return
		}
		f.handleEnter(s, i, options.Int("amount", 0))
	default:
		f.handleStatus(s, i)
	}
}

// SubscribeAnnouncements posts settled rounds to channelID
func (f *Feature) SubscribeAnnouncements(s *discordgo.Session, bus *events.Bus, channelID string) {
	bus.Subscribe(events.EventTypeJackpotSettled, func(ctx context.Context, event events.Event) {
		settled, ok := event.(events.JackpotSettledEvent)
		if !ok {
			return
		}
		if _, err := s.ChannelMessageSendEmbed(channelID, BuildSettledEmbed(settled)); err != nil {
			log.WithError(err).WithField("roundId", settled.RoundID).Error("Failed to announce jackpot result")
		}
	})
}
