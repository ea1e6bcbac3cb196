package service

import (
	"gemarcade/rng"
)

// RandomSource supplies game randomness. *rng.Service implements it.
type RandomSource interface {
	Stream(stream rng.Stream) rng.Source
	NewCommitment(stream rng.Stream) rng.Commitment
}
