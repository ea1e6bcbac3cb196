package loot

import (
	"errors"
	"fmt"

	"gemarcade/rng"
)

// Rarity is a loot tier
type Rarity string

const (
	Common    Rarity = "COMMON"
	Uncommon  Rarity = "UNCOMMON"
	Rare      Rarity = "RARE"
	Epic      Rarity = "EPIC"
	Legendary Rarity = "LEGENDARY"
	Mythical  Rarity = "MYTHICAL"
	Divine    Rarity = "DIVINE"
	Secret    Rarity = "SECRET"
)

// Order is the fixed walk order for rolls
var Order = []Rarity{Common, Uncommon, Rare, Epic, Legendary, Mythical, Divine, Secret}

var (
	ErrPoolEmpty    = errors.New("item pool is empty")
	ErrNoWeights    = errors.New("rarity weights sum to zero")
	ErrUnknownTier  = errors.New("unknown rarity")
	ErrNegativeTier = errors.New("negative rarity weight")
)

// Weights are relative tier weights; missing tiers weigh zero
type Weights map[Rarity]float64

// Pools lists item keys per tier
type Pools map[Rarity][]string

// DefaultWeights is the standard drop table
func DefaultWeights() Weights {
	return Weights{
		Common:    600,
		Uncommon:  250,
		Rare:      90,
		Epic:      40,
		Legendary: 15,
		Mythical:  4,
		Divine:    1,
		Secret:    0.2,
	}
}

// Total sums the weights of known tiers
func (w Weights) Total() float64 {
	var total float64
	for _, r := range Order {
		total += w[r]
	}
	return total
}

// RollRarity draws uniformly in [0,total) and walks the tiers in Order.
// The last tier with positive weight catches floating point leftovers.
func RollRarity(weights Weights, src rng.Source) Rarity {
	total := weights.Total()
	roll := src.Float64() * total

	fallback := Order[0]
	for _, r := range Order {
		w := weights[r]
		if w <= 0 {
			continue
		}
		fallback = r
		if roll < w {
			return r
		}
		roll -= w
	}
	return fallback
}

// PickItem draws an item uniformly from pool
func PickItem(pool []string, src rng.Source) (string, error) {
	if len(pool) == 0 {
		return "", ErrPoolEmpty
	}
	return pool[src.IntN(len(pool))], nil
}

// Validate checks a drop table before it goes live: every tier that can
// roll needs at least one item.
func Validate(weights Weights, pools Pools) error {
	for r, w := range weights {
		if !isKnown(r) {
			return fmt.Errorf("%w: %s", ErrUnknownTier, r)
		}
		if w < 0 {
			return fmt.Errorf("%w: %s", ErrNegativeTier, r)
		}
	}
	if weights.Total() <= 0 {
		return ErrNoWeights
	}
	for _, r := range Order {
		if weights[r] > 0 && len(pools[r]) == 0 {
			return fmt.Errorf("%w: %s", ErrPoolEmpty, r)
		}
	}
	return nil
}

func isKnown(r Rarity) bool {
	for _, o := range Order {
		if o == r {
			return true
		}
	}
	return false
}
