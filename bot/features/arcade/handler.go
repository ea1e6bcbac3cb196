package arcade

import (
	"context"

	"gemarcade/bot/common"
	"gemarcade/games/plinko"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultPlinkoRows = 8
	DefaultPlinkoRisk = string(plinko.RiskMedium)
)

func (f *Feature) handleSlots(s *discordgo.Session, i *discordgo.InteractionCreate, bet int64, seed string) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	result, err := f.slotsService.Spin(ctx, user.ID, bet, seed)
	if err != nil {
		common.HandleError(s, i, err, "slots")
		return
	}

	log.WithFields(log.Fields{
		"accountId":     user.ID,
		"correlationId": result.CorrelationID,
		"payout":        result.Result.Payout,
	}).Debug("Slots spin completed")

	common.RespondWithEmbed(s, i, BuildSlotsEmbed(user.Username, result), nil, false)
}

func (f *Feature) handlePlinko(s *discordgo.Session, i *discordgo.InteractionCreate, bet int64, rows int, risk string) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	result, err := f.plinkoService.Drop(ctx, user.ID, bet, rows, plinko.Risk(risk))
	if err != nil {
		common.HandleError(s, i, err, "plinko")
		return
	}

	log.WithFields(log.Fields{
		"accountId":     user.ID,
		"correlationId": result.CorrelationID,
		"bucket":        result.Result.BucketIndex,
	}).Debug("Plinko drop completed")

	common.RespondWithEmbed(s, i, BuildPlinkoEmbed(user.Username, result), nil, false)
}

func (f *Feature) handleShowSeed(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	view, err := f.fairSeedService.Current(ctx, user.ID)
	if err != nil {
		common.HandleError(s, i, err, "fair show")
		return
	}

	common.RespondWithEmbed(s, i, BuildSeedEmbed(view), nil, true)
}

func (f *Feature) handleRotateSeed(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	rotation, err := f.fairSeedService.Rotate(ctx, user.ID)
	if err != nil {
		common.HandleError(s, i, err, "fair rotate")
		return
	}

	common.RespondWithEmbed(s, i, BuildRotationEmbed(rotation), nil, true)
}
