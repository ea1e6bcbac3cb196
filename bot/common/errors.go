package common

import (
	"errors"
	"fmt"

	"gemarcade/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// userMessages maps service errors to text shown to players
var userMessages = []struct {
	err     error
	message string
}{
	{service.ErrInsufficientFunds, "You don't have enough gems for that."},
	{service.ErrAccountBanned, "Your account is suspended."},
	{service.ErrLimitExceeded, "You've reached one of your daily limits. Limits reset at midnight UTC."},
	{service.ErrInvalidWager, "That wager isn't allowed. Check the minimum and maximum bet."},
	{service.ErrGameDisabled, "This game is currently disabled."},
	{service.ErrConfigMissing, "This game isn't configured yet."},
	{service.ErrRoundNotFound, "That round doesn't exist or isn't yours."},
	{service.ErrRoundFinished, "That round is already finished."},
	{service.ErrCaseUnavailable, "That case isn't available."},
	{service.ErrPoolEmpty, "That case has an empty item pool."},
	{service.ErrAlreadyClaimed, "You've already claimed today's bonus."},
	{service.ErrInvalidAction, "That action isn't allowed right now."},
	{service.ErrInvalidConfig, "That configuration is invalid."},
	{service.ErrAccountNotFound, "That account doesn't exist."},
	{service.ErrRoundNotExpired, "That round is still running."},
	{service.ErrNoCommittedSeed, "No server seed is committed yet. Run `/fair show` to commit one, then spin with your seed."},
}

// UserMessage returns the player-facing text for err and whether err is a
// known, player-caused error
func UserMessage(err error) (string, bool) {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.message, true
		}
	}
	return "Something went wrong. Please try again later.", false
}

// RespondWithError sends an ephemeral error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.WithError(err).Error("Error sending error response")
	}
}

// HandleError logs err and tells the player what went wrong
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, action string) {
	message, known := UserMessage(err)

	entry := log.WithFields(log.Fields{
		"accountId": InteractionUser(i).ID,
		"action":    action,
	}).WithError(err)
	if known {
		entry.Debug("Rejected player action")
	} else {
		entry.Error("Unexpected error in bot action")
	}

	RespondWithError(s, i, message)
}
