package models

import (
	"time"
)

// FairSeed is an account's committed server seed. The hash is shown to the
// player before any seeded spin; the seed stays secret until rotation.
// Nonce counts the spins played on this seed.
type FairSeed struct {
	AccountID  string    `db:"account_id"`
	ServerSeed string    `db:"server_seed"`
	SeedHash   string    `db:"seed_hash"`
	Nonce      int64     `db:"nonce"`
	CreatedAt  time.Time `db:"created_at"`
}
