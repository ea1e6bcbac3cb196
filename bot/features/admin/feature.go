package admin

import (
	"gemarcade/bot/common"
	"gemarcade/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

type Feature struct {
	adminService      service.AdminService
	gameConfigService service.GameConfigService
	caseService       service.CaseService
	isAdmin           func(accountID string) bool
}

func New(adminService service.AdminService, gameConfigService service.GameConfigService, caseService service.CaseService, isAdmin func(accountID string) bool) *Feature {
	return &Feature{
		adminService:      adminService,
		gameConfigService: gameConfigService,
		caseService:       caseService,
		isAdmin:           isAdmin,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := common.InteractionUser(i)
	if f.isAdmin == nil || !f.isAdmin(user.ID) {
		log.WithField("accountId", user.ID).Warn("Rejected admin command from non-admin")
		common.RespondWithError(s, i, "You don't have permission to use this command.")
		return
	}

	sub, options := common.SubCommand(i.ApplicationCommandData())
	switch sub {
	case "ban":
		f.handleBan(s, i, options, true)
	case "unban":
		f.handleBan(s, i, options, false)
	case "adjust":
		f.handleAdjust(s, i, options)
	case "config-show":
		f.handleConfigShow(s, i, options)
	case "config-set":
		f.handleConfigSet(s, i, options)
	case "config-history":
		f.handleConfigHistory(s, i, options)
	case "case-set":
		f.handleCaseSet(s, i, options)
	default:
		common.RespondWithError(s, i, "Unknown admin command.")
	}
}
