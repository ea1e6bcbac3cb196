package models

import (
	"time"

	"gemarcade/games/blackjack"
	"gemarcade/games/mines"
)

// MinesRound is a persisted mines game
type MinesRound struct {
	ID        string      `db:"id"`
	AccountID string      `db:"account_id"`
	Bet       int64       `db:"bet"`
	State     mines.Round `db:"state"`
	Payout    *int64      `db:"payout"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

// BlackjackSession is a persisted blackjack hand
type BlackjackSession struct {
	ID        string         `db:"id"`
	AccountID string         `db:"account_id"`
	Bet       int64          `db:"bet"`
	State     blackjack.Hand `db:"state"`
	Payout    *int64         `db:"payout"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}
