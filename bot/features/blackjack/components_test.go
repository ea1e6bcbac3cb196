package blackjack

import (
	"testing"

	"gemarcade/bot/common"
	bj "gemarcade/games/blackjack"
	"gemarcade/service"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actionButtons(t *testing.T, view *service.BlackjackView) []discordgo.Button {
	t.Helper()
	rows := BuildButtons(view)
	require.Len(t, rows, 1)
	row := rows[0].(discordgo.ActionsRow)
	out := make([]discordgo.Button, 0, len(row.Components))
	for _, c := range row.Components {
		out = append(out, c.(discordgo.Button))
	}
	return out
}

func TestParseActionID(t *testing.T) {
	action, session, ok := ParseActionID(ActionID(actionDouble, "sess-1"))
	assert.True(t, ok)
	assert.Equal(t, actionDouble, action)
	assert.Equal(t, "sess-1", session)

	_, _, ok = ParseActionID("bj_split_sess-1")
	assert.False(t, ok)

	_, _, ok = ParseActionID("mines_reveal_sess-1_3")
	assert.False(t, ok)
}

func TestBuildButtons(t *testing.T) {
	opening := &service.BlackjackView{
		SessionID: "sess-1",
		View: bj.View{
			Player: []bj.Card{{Rank: 9, Suit: bj.Hearts}, {Rank: 2, Suit: bj.Clubs}},
			Status: bj.StatusActive,
		},
	}
	b := actionButtons(t, opening)
	assert.False(t, b[0].Disabled)
	assert.False(t, b[1].Disabled)
	assert.False(t, b[2].Disabled, "double is offered on two cards")

	afterHit := &service.BlackjackView{
		SessionID: "sess-1",
		View: bj.View{
			Player: []bj.Card{{Rank: 9, Suit: bj.Hearts}, {Rank: 2, Suit: bj.Clubs}, {Rank: 3, Suit: bj.Spades}},
			Status: bj.StatusActive,
		},
	}
	b = actionButtons(t, afterHit)
	assert.True(t, b[2].Disabled)

	finished := &service.BlackjackView{SessionID: "sess-1", View: bj.View{Status: bj.StatusPush}}
	for _, button := range actionButtons(t, finished) {
		assert.True(t, button.Disabled)
	}
}

func TestRenderHand(t *testing.T) {
	cards := []bj.Card{{Rank: 1, Suit: bj.Spades}, {Rank: 13, Suit: bj.Hearts}}

	assert.Equal(t, "`AS` `KH`", RenderHand(cards, false))
	assert.Equal(t, "`AS` `??`", RenderHand(cards[:1], true))
}

func TestBuildEmbed(t *testing.T) {
	payout := int64(50)
	natural := &service.BlackjackView{
		SessionID: "sess-1",
		Bet:       20,
		Payout:    &payout,
		View: bj.View{
			Player:      []bj.Card{{Rank: 1, Suit: bj.Spades}, {Rank: 13, Suit: bj.Hearts}},
			Dealer:      []bj.Card{{Rank: 9, Suit: bj.Clubs}, {Rank: 7, Suit: bj.Clubs}},
			PlayerTotal: 21,
			DealerTotal: 16,
			Status:      bj.StatusBlackjack,
		},
	}
	embed := BuildEmbed("bob", natural)
	assert.Equal(t, common.ColorSuccess, embed.Color)
	assert.Contains(t, embed.Description, "Blackjack!")
	assert.Contains(t, embed.Description, "50")

	push := int64(20)
	natural.Payout = &push
	natural.View.Status = bj.StatusPush
	assert.Equal(t, common.ColorWarning, BuildEmbed("bob", natural).Color)

	active := &service.BlackjackView{
		SessionID: "sess-2",
		Bet:       20,
		View: bj.View{
			Player:      []bj.Card{{Rank: 5, Suit: bj.Spades}, {Rank: 6, Suit: bj.Hearts}},
			Dealer:      []bj.Card{{Rank: 10, Suit: bj.Clubs}},
			PlayerTotal: 11,
			DealerTotal: 10,
			HoleHidden:  true,
			Status:      bj.StatusActive,
		},
	}
	embed = BuildEmbed("bob", active)
	assert.Equal(t, common.ColorPrimary, embed.Color)
	assert.Equal(t, "Dealer (10+)", embed.Fields[1].Name)
	assert.Contains(t, embed.Fields[1].Value, "??")
}
