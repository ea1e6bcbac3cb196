package mines

import (
	"testing"

	"gemarcade/bot/common"
	minesgame "gemarcade/games/mines"
	"gemarcade/service"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const roundID = "6f1c1d2e-8a1b-4c2d-9e3f-0a1b2c3d4e5f"

func buttons(t *testing.T, rows []discordgo.MessageComponent) []discordgo.Button {
	t.Helper()
	var out []discordgo.Button
	for _, r := range rows {
		row, ok := r.(discordgo.ActionsRow)
		require.True(t, ok)
		for _, c := range row.Components {
			out = append(out, c.(discordgo.Button))
		}
	}
	return out
}

func TestRevealID(t *testing.T) {
	id := RevealID(roundID, 17)
	assert.Less(t, len(id), 100, "custom IDs are capped at 100 characters")

	parsed, tile, ok := ParseRevealID(id)
	assert.True(t, ok)
	assert.Equal(t, roundID, parsed)
	assert.Equal(t, 17, tile)
}

func TestParseRevealIDRejectsForeignIDs(t *testing.T) {
	for _, id := range []string{
		"bj_hit_" + roundID,
		"mines_cashout_" + roundID + "_1",
		"mines_reveal_" + roundID + "_x",
		"mines_reveal_" + roundID + "_-1",
		"mines_reveal_" + roundID,
	} {
		_, _, ok := ParseRevealID(id)
		assert.False(t, ok, id)
	}
}

func TestBuildGridActiveRound(t *testing.T) {
	view := &service.MinesRoundView{
		RoundID: roundID,
		Bet:     100,
		View: minesgame.View{
			GridSize:   25,
			MinesCount: 3,
			Revealed:   []int{0, 6},
			Status:     minesgame.StatusActive,
			Multiplier: 1.2,
		},
	}

	rows := BuildGrid(view)
	require.Len(t, rows, 5)

	all := buttons(t, rows)
	require.Len(t, all, 25)

	assert.Equal(t, "💎", all[0].Label)
	assert.True(t, all[0].Disabled)
	assert.Equal(t, discordgo.SuccessButton, all[6].Style)

	assert.Equal(t, "?", all[1].Label)
	assert.False(t, all[1].Disabled)
	assert.Equal(t, RevealID(roundID, 1), all[1].CustomID)
}

func TestBuildGridLostRoundShowsBombs(t *testing.T) {
	view := &service.MinesRoundView{
		RoundID: roundID,
		Bet:     100,
		View: minesgame.View{
			GridSize:   25,
			MinesCount: 2,
			Revealed:   []int{3},
			Bombs:      []int{3, 24},
			Status:     minesgame.StatusLost,
		},
	}

	all := buttons(t, BuildGrid(view))

	assert.Equal(t, "💣", all[3].Label)
	assert.Equal(t, discordgo.DangerButton, all[24].Style)
	for _, b := range all {
		assert.True(t, b.Disabled)
	}
}

func TestBuildEmbed(t *testing.T) {
	payout := int64(240)
	cashed := &service.MinesRoundView{
		RoundID: roundID,
		Bet:     100,
		View:    minesgame.View{GridSize: 25, MinesCount: 5, Status: minesgame.StatusCashed, Multiplier: 2.4},
		Payout:  &payout,
		Balance: 1140,
	}

	embed := BuildEmbed("alice", cashed)

	assert.Equal(t, common.ColorSuccess, embed.Color)
	assert.Contains(t, embed.Description, "240")

	active := &service.MinesRoundView{
		RoundID:         roundID,
		Bet:             100,
		View:            minesgame.View{GridSize: 25, MinesCount: 5, Status: minesgame.StatusActive, Multiplier: 1.23456},
		PotentialPayout: 123,
	}
	embed = BuildEmbed("alice", active)

	assert.Equal(t, common.ColorPrimary, embed.Color)
	assert.Contains(t, embed.Description, "123")
	assert.Equal(t, "1.23x", embed.Fields[2].Value)
}
