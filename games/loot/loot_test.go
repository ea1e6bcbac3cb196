package loot

import (
	"testing"

	"gemarcade/rng"
	"gemarcade/rng/rngtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollRarity(t *testing.T) {
	t.Run("minimum draw picks first tier", func(t *testing.T) {
		r := RollRarity(Weights{Common: 1, Rare: 0}, rngtest.NewSequence(0))
		assert.Equal(t, Common, r)
	})

	t.Run("top of range picks second tier", func(t *testing.T) {
		r := RollRarity(Weights{Common: 1, Rare: 1}, rngtest.NewSequence(0.9999))
		assert.Equal(t, Rare, r)
	})

	t.Run("zero weight tiers never roll", func(t *testing.T) {
		src := rng.NewSeeded("zero")
		for i := 0; i < 1000; i++ {
			assert.NotEqual(t, Uncommon, RollRarity(Weights{Common: 3, Uncommon: 0, Epic: 1}, src))
		}
	})

	t.Run("falls back to last positive tier", func(t *testing.T) {
		r := RollRarity(Weights{Common: 1, Epic: 1}, rngtest.NewSequence(1.0))
		assert.Equal(t, Epic, r)
	})

	t.Run("default table favours common", func(t *testing.T) {
		src := rng.NewSeeded("default")
		counts := make(map[Rarity]int)
		for i := 0; i < 10000; i++ {
			counts[RollRarity(DefaultWeights(), src)]++
		}
		assert.Greater(t, counts[Common], counts[Uncommon])
		assert.Greater(t, counts[Uncommon], counts[Rare])
	})
}

func TestPickItem(t *testing.T) {
	_, err := PickItem(nil, rngtest.NewSequence(0))
	assert.ErrorIs(t, err, ErrPoolEmpty)

	item, err := PickItem([]string{"a", "b", "c"}, rngtest.NewSequence(0.5))
	require.NoError(t, err)
	assert.Equal(t, "b", item)
}

func TestValidate(t *testing.T) {
	pools := Pools{Common: {"hat"}, Rare: {"cape"}}

	assert.NoError(t, Validate(Weights{Common: 10, Rare: 1}, pools))
	assert.ErrorIs(t, Validate(Weights{Common: 10, Epic: 1}, pools), ErrPoolEmpty)
	assert.ErrorIs(t, Validate(Weights{}, pools), ErrNoWeights)
	assert.ErrorIs(t, Validate(Weights{"SHINY": 1}, pools), ErrUnknownTier)
	assert.ErrorIs(t, Validate(Weights{Common: -1}, pools), ErrNegativeTier)
}
