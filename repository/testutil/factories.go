package testutil

import (
	"encoding/json"
	"time"

	"gemarcade/games/loot"
	"gemarcade/models"

	"github.com/google/uuid"
)

// NewLedgerEntry builds an unsaved ledger entry
func NewLedgerEntry(accountID string, txType models.TransactionType, amount, balanceAfter int64) *models.LedgerEntry {
	return &models.LedgerEntry{
		AccountID:     accountID,
		Type:          txType,
		Amount:        amount,
		BalanceAfter:  balanceAfter,
		CorrelationID: uuid.NewString(),
		Metadata: map[string]any{
			"test": true,
		},
	}
}

// NewGameConfig builds a version 1 config row with the game's defaults
func NewGameConfig(key models.GameKey) *models.GameConfig {
	raw, err := models.DefaultGameConfig(key)
	if err != nil {
		raw = json.RawMessage(`{}`)
	}
	return &models.GameConfig{
		Key:     key,
		Enabled: true,
		Config:  raw,
		Version: 1,
	}
}

// NewJackpotRound builds an OPEN round ending after d
func NewJackpotRound(d time.Duration) *models.JackpotRound {
	return &models.JackpotRound{
		ID:          uuid.NewString(),
		Status:      models.JackpotStatusOpen,
		SeedHash:    "hash",
		ServerSeed:  "seed",
		EndsAt:      time.Now().Add(d),
		HouseCutBps: 250,
	}
}

// NewCaseDefinition builds an enabled case with the default drop table
func NewCaseDefinition(key string, price int64) *models.CaseDefinition {
	return &models.CaseDefinition{
		Key:     key,
		Name:    key + " case",
		Price:   price,
		Enabled: true,
		Weights: loot.DefaultWeights(),
		Pools: loot.Pools{
			loot.Common: {"pebble"},
			loot.Rare:   {"gem"},
		},
	}
}
