package mines

import (
	"strconv"
	"testing"

	"gemarcade/rng"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func safeTile(r *Round) int {
	for i := 0; i < r.GridSize; i++ {
		if !r.isBomb(i) && !containsInt(r.Revealed, i) {
			return i
		}
	}
	return -1
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func TestMultiplier(t *testing.T) {
	m1 := Multiplier(1, 3, DefaultGridSize, DefaultHouseEdge)
	m2 := Multiplier(2, 3, DefaultGridSize, DefaultHouseEdge)
	m3 := Multiplier(3, 3, DefaultGridSize, DefaultHouseEdge)
	assert.Less(t, m1, m2)
	assert.Less(t, m2, m3)

	assert.Equal(t, 1.0, Multiplier(0, 3, DefaultGridSize, DefaultHouseEdge))
	assert.Equal(t, 1.1136, Multiplier(1, 3, DefaultGridSize, DefaultHouseEdge))

	// denser boards pay more per reveal
	assert.Greater(t, Multiplier(1, 10, DefaultGridSize, DefaultHouseEdge), m1)
}

func TestNewRound(t *testing.T) {
	t.Run("distinct bombs in range", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			r, err := NewRound(15, rng.NewSeeded(strconv.Itoa(i)))
			require.NoError(t, err)
			require.Len(t, r.Bombs, 15)
			seen := make(map[int]bool)
			for _, b := range r.Bombs {
				require.GreaterOrEqual(t, b, 0)
				require.Less(t, b, DefaultGridSize)
				require.False(t, seen[b])
				seen[b] = true
			}
		}
	})

	t.Run("rejects bad counts", func(t *testing.T) {
		_, err := NewRound(0, rng.NewSeeded("x"))
		assert.ErrorIs(t, err, ErrInvalidMineCount)
		_, err = NewRound(25, rng.NewSeeded("x"))
		assert.ErrorIs(t, err, ErrInvalidMineCount)
	})
}

func TestRound_Reveal(t *testing.T) {
	t.Run("safe reveal raises multiplier", func(t *testing.T) {
		r, err := NewRound(3, rng.NewSeeded("reveal"))
		require.NoError(t, err)

		res, err := r.Reveal(safeTile(r))
		require.NoError(t, err)
		assert.False(t, res.HitMine)
		assert.Equal(t, Multiplier(1, 3, 25, DefaultHouseEdge), res.Multiplier)
		assert.Equal(t, StatusActive, r.Status)
	})

	t.Run("repeat reveal is a no-op", func(t *testing.T) {
		r, err := NewRound(3, rng.NewSeeded("repeat"))
		require.NoError(t, err)
		tile := safeTile(r)
		_, err = r.Reveal(tile)
		require.NoError(t, err)

		res, err := r.Reveal(tile)
		require.NoError(t, err)
		assert.True(t, res.AlreadyRevealed)
		assert.Len(t, r.Revealed, 1)
	})

	t.Run("bomb ends the round", func(t *testing.T) {
		r, err := NewRound(3, rng.NewSeeded("bomb"))
		require.NoError(t, err)

		res, err := r.Reveal(r.Bombs[0])
		require.NoError(t, err)
		assert.True(t, res.HitMine)
		assert.Equal(t, StatusLost, r.Status)

		_, err = r.Reveal(safeTile(r))
		assert.ErrorIs(t, err, ErrRoundFinished)
		_, err = r.Cashout(10)
		assert.ErrorIs(t, err, ErrRoundFinished)
	})

	t.Run("out of range", func(t *testing.T) {
		r, err := NewRound(3, rng.NewSeeded("range"))
		require.NoError(t, err)
		_, err = r.Reveal(25)
		assert.ErrorIs(t, err, ErrInvalidTile)
	})
}

func TestRound_Cashout(t *testing.T) {
	r, err := NewRound(3, rng.NewSeeded("cashout"))
	require.NoError(t, err)
	_, err = r.Reveal(safeTile(r))
	require.NoError(t, err)
	_, err = r.Reveal(safeTile(r))
	require.NoError(t, err)

	payout, err := r.Cashout(100)
	require.NoError(t, err)
	assert.Equal(t, int64(100*Multiplier(2, 3, 25, DefaultHouseEdge)), payout)
	assert.Equal(t, StatusCashed, r.Status)

	_, err = r.Cashout(100)
	assert.ErrorIs(t, err, ErrRoundFinished)
}

func TestRound_ViewHidesBombsWhileActive(t *testing.T) {
	r, err := NewRound(3, rng.NewSeeded("view"))
	require.NoError(t, err)
	assert.Empty(t, r.View().Bombs)

	_, err = r.Reveal(r.Bombs[0])
	require.NoError(t, err)
	assert.Equal(t, r.Bombs, r.View().Bombs)
}
