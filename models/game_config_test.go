package models

import (
	"encoding/json"
	"testing"

	"gemarcade/games/plinko"
	"gemarcade/games/slots"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameConfig_DefaultsFillMissingFields(t *testing.T) {
	gc := &GameConfig{Key: GameMines, Config: json.RawMessage(`{"maxBet": 500}`)}
	cfg, err := gc.Mines()
	require.NoError(t, err)
	assert.Equal(t, int64(10), cfg.MinBet)
	assert.Equal(t, int64(500), cfg.MaxBet)
	assert.Equal(t, 3, cfg.MinMines)
	assert.Equal(t, 0.98, cfg.HouseEdge)
}

func TestGameConfig_EmptyUsesDefaults(t *testing.T) {
	gc := &GameConfig{Key: GameJackpot}
	cfg, err := gc.Jackpot()
	require.NoError(t, err)
	assert.Equal(t, DefaultJackpotConfig(), cfg)
}

func TestValidateGameConfig(t *testing.T) {
	tests := []struct {
		name    string
		key     GameKey
		raw     string
		wantErr bool
	}{
		{"valid slots", GameSlots, `{"minBet": 5, "maxBet": 50}`, false},
		{"inverted bounds", GameSlots, `{"minBet": 50, "maxBet": 5}`, true},
		{"negative payout", GameSlots, `{"payouts": {"gem": -1}}`, true},
		{"too many mines", GameMines, `{"maxMines": 25}`, true},
		{"plinko rows out of range", GamePlinko, `{"rows": [2]}`, true},
		{"plinko empty risk", GamePlinko, `{"risks": {"low": []}}`, true},
		{"blackjack stand on", GameBlackjack, `{"dealerStandOn": 30}`, true},
		{"jackpot cut", GameJackpot, `{"houseCutBps": 20000}`, true},
		{"malformed", GameJackpot, `{"minEntry": "lots"}`, true},
		{"unknown game", GameKey("roulette"), `{}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGameConfig(tt.key, json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSlotsConfig_PaytableMergesOverrides(t *testing.T) {
	cfg := DefaultSlotsConfig()
	cfg.Payouts = map[slots.Symbol]float64{slots.SymbolGem: 200}
	table := cfg.Paytable()
	assert.Equal(t, 200.0, table.Full[slots.SymbolGem])
	assert.Equal(t, 50.0, table.Full[slots.SymbolSeven])
}

func TestPlinkoConfig_AllowsRows(t *testing.T) {
	cfg := DefaultPlinkoConfig()
	assert.True(t, cfg.AllowsRows(12))
	assert.False(t, cfg.AllowsRows(10))
	assert.Len(t, cfg.Risks[plinko.RiskHigh], 6)
}

func TestBetBounds_Allows(t *testing.T) {
	b := BetBounds{MinBet: 10, MaxBet: 200}
	assert.True(t, b.Allows(10))
	assert.True(t, b.Allows(200))
	assert.False(t, b.Allows(9))
	assert.False(t, b.Allows(201))
	assert.False(t, BetBounds{MinBet: 0, MaxBet: 5}.Allows(0))
}
