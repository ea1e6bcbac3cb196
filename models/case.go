package models

import (
	"time"

	"gemarcade/games/loot"
)

// CaseDefinition is a purchasable loot case
type CaseDefinition struct {
	Key       string       `db:"key"`
	Name      string       `db:"name"`
	Price     int64        `db:"price"`
	Enabled   bool         `db:"enabled"`
	Weights   loot.Weights `db:"rarity_weights"`
	Pools     loot.Pools   `db:"item_pools"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
}

// InventoryItem counts how many of an item an account owns
type InventoryItem struct {
	AccountID string      `db:"account_id"`
	ItemKey   string      `db:"item_key"`
	Rarity    loot.Rarity `db:"rarity"`
	Quantity  int64       `db:"quantity"`
	UpdatedAt time.Time   `db:"updated_at"`
}

// CaseOpenLog records one case roll for audit
type CaseOpenLog struct {
	ID            int64       `db:"id"`
	AccountID     string      `db:"account_id"`
	CaseKey       string      `db:"case_key"`
	CorrelationID string      `db:"correlation_id"`
	Price         int64       `db:"price"`
	Rarity        loot.Rarity `db:"rarity"`
	ItemKey       string      `db:"item_key"`
	CreatedAt     time.Time   `db:"created_at"`
}
