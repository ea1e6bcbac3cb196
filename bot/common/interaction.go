package common

import (
	"context"

	"gemarcade/ratelimit"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Options maps option names to values
type Options map[string]*discordgo.ApplicationCommandInteractionDataOption

// InteractionUser returns the invoking user in guilds and DMs
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	if i.User != nil {
		return i.User
	}
	return &discordgo.User{}
}

// OptionMap indexes options by name
func OptionMap(options []*discordgo.ApplicationCommandInteractionDataOption) Options {
	m := make(Options, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

// SubCommand returns the invoked subcommand and its options
func SubCommand(data discordgo.ApplicationCommandInteractionData) (string, Options) {
	if len(data.Options) > 0 && data.Options[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		return data.Options[0].Name, OptionMap(data.Options[0].Options)
	}
	return "", OptionMap(data.Options)
}

// Int returns an integer option or def
func (o Options) Int(name string, def int64) int64 {
	if opt, ok := o[name]; ok {
		return opt.IntValue()
	}
	return def
}

// String returns a string option or def
func (o Options) String(name, def string) string {
	if opt, ok := o[name]; ok {
		return opt.StringValue()
	}
	return def
}

// Bool returns a boolean option or def
func (o Options) Bool(name string, def bool) bool {
	if opt, ok := o[name]; ok {
		return opt.BoolValue()
	}
	return def
}

// UserID returns the ID of a user option
func (o Options) UserID(name string) string {
	if opt, ok := o[name]; ok {
		if id, ok := opt.Value.(string); ok {
			return id
		}
	}
	return ""
}

// ActionLimiter admits player actions
type ActionLimiter interface {
	Allow(ctx context.Context, action ratelimit.Action, accountID string) (ratelimit.Decision, error)
}

// RateLimitRecorder counts rejected actions
type RateLimitRecorder interface {
	RecordRateLimited(action string)
}

// Guard checks an action against the limiter and answers the interaction
// when it is rejected. Limiter failures let the action through.
type Guard struct {
	Limiter  ActionLimiter
	Recorder RateLimitRecorder
}

// Allow reports whether the action may proceed
func (g *Guard) Allow(s *discordgo.Session, i *discordgo.InteractionCreate, action ratelimit.Action) bool {
	if g == nil || g.Limiter == nil {
		return true
	}

	accountID := InteractionUser(i).ID
	decision, err := g.Limiter.Allow(context.Background(), action, accountID)
	if err != nil {
		log.WithError(err).WithField("action", action).Warn("Rate limiter unavailable, allowing action")
		return true
	}
	if decision.Allowed {
		return true
	}

	if g.Recorder != nil {
		g.Recorder.RecordRateLimited(string(action))
	}
	RespondWithError(s, i, "Slow down! Try again in "+FormatDuration(decision.RetryAfter)+".")
	return false
}
