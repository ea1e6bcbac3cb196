package admin

import (
	"context"
	"encoding/json"
	"fmt"

	"gemarcade/bot/common"
	"gemarcade/games/loot"
	"gemarcade/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const configHistoryLimit = 10

func (f *Feature) handleBan(s *discordgo.Session, i *discordgo.InteractionCreate, options common.Options, banned bool) {
	ctx := context.Background()
	actor := common.InteractionUser(i)
	target := options.UserID("user")
	reason := options.String("reason", "")

	if err := f.adminService.SetBanned(ctx, actor.ID, target, banned, reason); err != nil {
		common.HandleError(s, i, err, "admin_ban")
		return
	}

	log.WithFields(log.Fields{
		"actorId":   actor.ID,
		"accountId": target,
		"banned":    banned,
	}).Info("Account ban state changed")

	verb := "banned"
	if !banned {
		verb = "unbanned"
	}
	common.RespondWithContent(s, i, fmt.Sprintf("✅ <@%s> has been %s.", target, verb), true)
}

func (f *Feature) handleAdjust(s *discordgo.Session, i *discordgo.InteractionCreate, options common.Options) {
	ctx := context.Background()
	actor := common.InteractionUser(i)
	target := options.UserID("user")
	amount := options.Int("amount", 0)

	balance, err := f.adminService.AdjustBalance(ctx, actor.ID, target, amount, options.String("reason", ""))
	if err != nil {
		common.HandleError(s, i, err, "admin_adjust")
		return
	}

	common.RespondWithContent(s, i, fmt.Sprintf("✅ Adjusted <@%s> by **%s gems**. New balance: **%s gems**.",
		target, common.FormatSignedGems(amount), common.FormatGems(balance)), true)
}

func (f *Feature) handleConfigShow(s *discordgo.Session, i *discordgo.InteractionCreate, options common.Options) {
	ctx := context.Background()
	key := models.GameKey(options.String("game", ""))

	cfg, err := f.gameConfigService.Get(ctx, key)
	if err != nil {
		common.HandleError(s, i, err, "admin_config_show")
		return
	}

	common.RespondWithEmbed(s, i, BuildConfigEmbed(cfg), nil, true)
}

func (f *Feature) handleConfigSet(s *discordgo.Session, i *discordgo.InteractionCreate, options common.Options) {
	ctx := context.Background()
	actor := common.InteractionUser(i)
	key := models.GameKey(options.String("game", ""))

	raw := json.RawMessage(options.String("config", ""))
	if !json.Valid(raw) {
		common.RespondWithError(s, i, "The config must be valid JSON.")
		return
	}

	cfg, err := f.gameConfigService.Update(ctx, key, raw, options.Bool("enabled", true), actor.ID)
	if err != nil {
		common.HandleError(s, i, err, "admin_config_set")
		return
	}

	common.RespondWithEmbed(s, i, BuildConfigEmbed(cfg), nil, true)
}

func (f *Feature) handleConfigHistory(s *discordgo.Session, i *discordgo.InteractionCreate, options common.Options) {
	ctx := context.Background()
	key := models.GameKey(options.String("game", ""))

	history, err := f.gameConfigService.History(ctx, key, configHistoryLimit)
	if err != nil {
		common.HandleError(s, i, err, "admin_config_history")
		return
	}

	common.RespondWithEmbed(s, i, BuildHistoryEmbed(key, history), nil, true)
}

// caseDefinitionInput is the JSON shape admins submit for a case
type caseDefinitionInput struct {
	Key     string       `json:"key"`
	Name    string       `json:"name"`
	Price   int64        `json:"price"`
	Enabled *bool        `json:"enabled"`
	Weights loot.Weights `json:"weights"`
	Pools   loot.Pools   `json:"pools"`
}

// ParseCaseDefinition decodes an admin-supplied case. Cases are enabled
// unless the input says otherwise.
func ParseCaseDefinition(raw string) (*models.CaseDefinition, error) {
	var in caseDefinitionInput
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, fmt.Errorf("invalid case definition: %w", err)
	}
	if in.Key == "" {
		return nil, fmt.Errorf("invalid case definition: key is required")
	}

	def := &models.CaseDefinition{
		Key:     in.Key,
		Name:    in.Name,
		Price:   in.Price,
		Enabled: true,
		Weights: in.Weights,
		Pools:   in.Pools,
	}
	if def.Name == "" {
		def.Name = in.Key
	}
	if in.Enabled != nil {
		def.Enabled = *in.Enabled
	}
	return def, nil
}

func (f *Feature) handleCaseSet(s *discordgo.Session, i *discordgo.InteractionCreate, options common.Options) {
	ctx := context.Background()
	actor := common.InteractionUser(i)

	def, err := ParseCaseDefinition(options.String("definition", ""))
	if err != nil {
		common.RespondWithError(s, i, err.Error())
		return
	}

	if err := f.caseService.UpsertCase(ctx, actor.ID, def); err != nil {
		common.HandleError(s, i, err, "admin_case_set")
		return
	}

	common.RespondWithContent(s, i, fmt.Sprintf("✅ Case `%s` saved at %s gems.", def.Key, common.FormatGems(def.Price)), true)
}
