package models

import (
	"time"
)

// SelfLimits are player-set daily caps. Nil means no cap.
type SelfLimits struct {
	MaxLossPerDay  *int64 `json:"maxLossPerDay,omitempty"`
	MaxPlaysPerDay *int64 `json:"maxPlaysPerDay,omitempty"`
}

// IsSet reports whether any cap is configured
func (l SelfLimits) IsSet() bool {
	return l.MaxLossPerDay != nil || l.MaxPlaysPerDay != nil
}

// Account is a player wallet
type Account struct {
	ID             string     `db:"id"`
	Username       string     `db:"username"`
	Balance        int64      `db:"balance"`
	Banned         bool       `db:"banned"`
	BanReason      *string    `db:"ban_reason"`
	SelfLimits     SelfLimits `db:"-"`
	DailyStreak    int        `db:"daily_streak"`
	LastDailyClaim *time.Time `db:"last_daily_claim_at"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}
