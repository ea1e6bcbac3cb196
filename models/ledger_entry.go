package models

import (
	"time"
)

// TransactionType is the kind of ledger entry
type TransactionType string

const (
	TransactionTypeInitialGrant    TransactionType = "initial_grant"
	TransactionTypeSlotsBet        TransactionType = "slots_bet"
	TransactionTypeSlotsPayout     TransactionType = "slots_payout"
	TransactionTypeMinesBet        TransactionType = "mines_bet"
	TransactionTypeMinesPayout     TransactionType = "mines_payout"
	TransactionTypePlinkoBet       TransactionType = "plinko_bet"
	TransactionTypePlinkoPayout    TransactionType = "plinko_payout"
	TransactionTypeBlackjackBet    TransactionType = "blackjack_bet"
	TransactionTypeBlackjackPayout TransactionType = "blackjack_payout"
	TransactionTypeJackpotEntry    TransactionType = "jackpot_entry"
	TransactionTypeJackpotWin      TransactionType = "jackpot_win"
	TransactionTypeCaseOpen        TransactionType = "case_open"
	TransactionTypeDailyBonus      TransactionType = "daily_bonus"
	TransactionTypeAdminAdjust     TransactionType = "admin_adjust"
)

// IsWager reports whether the entry is a stake placed on a game
func (t TransactionType) IsWager() bool {
	switch t {
	case TransactionTypeSlotsBet, TransactionTypeMinesBet, TransactionTypePlinkoBet,
		TransactionTypeBlackjackBet, TransactionTypeJackpotEntry, TransactionTypeCaseOpen:
		return true
	}
	return false
}

// IsPayout reports whether the entry returns winnings from a game
func (t TransactionType) IsPayout() bool {
	switch t {
	case TransactionTypeSlotsPayout, TransactionTypeMinesPayout, TransactionTypePlinkoPayout,
		TransactionTypeBlackjackPayout, TransactionTypeJackpotWin:
		return true
	}
	return false
}

// LedgerEntry is one immutable balance change
type LedgerEntry struct {
	ID            int64           `db:"id"`
	AccountID     string          `db:"account_id"`
	Type          TransactionType `db:"type"`
	Amount        int64           `db:"amount"`
	BalanceAfter  int64           `db:"balance_after"`
	CorrelationID string          `db:"correlation_id"`
	Metadata      map[string]any  `db:"metadata"`
	CreatedAt     time.Time       `db:"created_at"`
}
