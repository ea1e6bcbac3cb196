package models

import (
	"time"
)

// JackpotStatus is the round lifecycle state
type JackpotStatus string

const (
	JackpotStatusOpen    JackpotStatus = "OPEN"
	JackpotStatusClosed  JackpotStatus = "CLOSED"
	JackpotStatusSettled JackpotStatus = "SETTLED"
)

// JackpotRound is a timed pooled draw. SeedHash is published while the
// round is open; ServerSeed is only exposed once it is settled.
type JackpotRound struct {
	ID            string        `db:"id"`
	Status        JackpotStatus `db:"status"`
	Pot           int64         `db:"pot"`
	SeedHash      string        `db:"seed_hash"`
	ServerSeed    string        `db:"server_seed"`
	EndsAt        time.Time     `db:"ends_at"`
	WinnerID      *string       `db:"winner_id"`
	WinningTicket *int64        `db:"winning_ticket"`
	Payout        *int64        `db:"payout"`
	HouseCutBps   int           `db:"house_cut_bps"`
	SettledAt     *time.Time    `db:"settled_at"`
	CreatedAt     time.Time     `db:"created_at"`
}

// IsExpired reports whether the entry window has passed
func (r *JackpotRound) IsExpired(now time.Time) bool {
	return !now.Before(r.EndsAt)
}

// RevealedSeed returns the server seed once the round can no longer change
func (r *JackpotRound) RevealedSeed() string {
	if r.Status == JackpotStatusOpen {
		return ""
	}
	return r.ServerSeed
}

// JackpotEntry is one ticket purchase; Amount is also the ticket weight
type JackpotEntry struct {
	ID        int64     `db:"id"`
	RoundID   string    `db:"round_id"`
	AccountID string    `db:"account_id"`
	Amount    int64     `db:"amount"`
	CreatedAt time.Time `db:"created_at"`
}
