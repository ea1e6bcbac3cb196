package common

import (
	"context"
	"errors"
	"testing"

	"gemarcade/ratelimit"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestInteractionUser(t *testing.T) {
	guild := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: &discordgo.User{ID: "guild-user"}},
	}}
	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		User: &discordgo.User{ID: "dm-user"},
	}}
	empty := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}

	assert.Equal(t, "guild-user", InteractionUser(guild).ID)
	assert.Equal(t, "dm-user", InteractionUser(dm).ID)
	assert.Equal(t, "", InteractionUser(empty).ID)
}

func TestSubCommandAndOptions(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Name: "mines",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{
				Name: "start",
				Type: discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{Name: "bet", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(50)},
					{Name: "note", Type: discordgo.ApplicationCommandOptionString, Value: "hi"},
					{Name: "enabled", Type: discordgo.ApplicationCommandOptionBoolean, Value: false},
					{Name: "user", Type: discordgo.ApplicationCommandOptionUser, Value: "12345"},
				},
			},
		},
	}

	sub, options := SubCommand(data)

	assert.Equal(t, "start", sub)
	assert.Equal(t, int64(50), options.Int("bet", 0))
	assert.Equal(t, int64(3), options.Int("mines", 3))
	assert.Equal(t, "hi", options.String("note", ""))
	assert.False(t, options.Bool("enabled", true))
	assert.True(t, options.Bool("missing", true))
	assert.Equal(t, "12345", options.UserID("user"))
	assert.Equal(t, "", options.UserID("missing"))
}

func TestSubCommandWithoutSubcommand(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "bet", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(10)},
		},
	}

	sub, options := SubCommand(data)

	assert.Equal(t, "", sub)
	assert.Equal(t, int64(10), options.Int("bet", 0))
}

func TestDisableComponents(t *testing.T) {
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Hit", CustomID: "bj_hit_1"},
			discordgo.Button{Label: "Stand", CustomID: "bj_stand_1"},
		}},
	}

	disabled := DisableComponents(components)

	row := disabled[0].(discordgo.ActionsRow)
	for _, c := range row.Components {
		assert.True(t, c.(discordgo.Button).Disabled)
	}
	// original is untouched
	assert.False(t, components[0].(discordgo.ActionsRow).Components[0].(discordgo.Button).Disabled)
}

type mockLimiter struct {
	mock.Mock
}

func (m *mockLimiter) Allow(ctx context.Context, action ratelimit.Action, accountID string) (ratelimit.Decision, error) {
	args := m.Called(ctx, action, accountID)
	return args.Get(0).(ratelimit.Decision), args.Error(1)
}

func TestGuardAllow(t *testing.T) {
	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		User: &discordgo.User{ID: "player"},
	}}

	t.Run("nil guard allows", func(t *testing.T) {
		var g *Guard
		assert.True(t, g.Allow(nil, i, ratelimit.ActionSlots))
	})

	t.Run("allowed decision", func(t *testing.T) {
		limiter := new(mockLimiter)
		limiter.On("Allow", mock.Anything, ratelimit.ActionSlots, "player").
			Return(ratelimit.Decision{Allowed: true, Remaining: 4}, nil)

		g := &Guard{Limiter: limiter}
		assert.True(t, g.Allow(nil, i, ratelimit.ActionSlots))
		limiter.AssertExpectations(t)
	})

	t.Run("limiter failure lets the action through", func(t *testing.T) {
		limiter := new(mockLimiter)
		limiter.On("Allow", mock.Anything, ratelimit.ActionCase, "player").
			Return(ratelimit.Decision{}, errors.New("redis down"))

		g := &Guard{Limiter: limiter}
		assert.True(t, g.Allow(nil, i, ratelimit.ActionCase))
		limiter.AssertExpectations(t)
	})
}
