package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_FloatRange(t *testing.T) {
	svc := NewService()
	for i := 0; i < 10000; i++ {
		f := svc.Float(StreamOutcome)
		require.GreaterOrEqual(t, f, 0.0)
		require.Less(t, f, 1.0)
	}
	assert.Equal(t, uint64(10000), svc.Draws(StreamOutcome))
	assert.Equal(t, uint64(0), svc.Draws(StreamLoot))
}

func TestService_IntRange(t *testing.T) {
	svc := NewService()
	seen := make(map[int]bool)
	for i := 0; i < 5000; i++ {
		n := svc.Int(6, StreamCosmetic)
		require.GreaterOrEqual(t, n, 0)
		require.Less(t, n, 6)
		seen[n] = true
	}
	assert.Len(t, seen, 6)
}

func TestService_StreamCountsDraws(t *testing.T) {
	svc := NewService()
	src := svc.Stream(StreamLoot)
	src.Float64()
	src.IntN(10)
	assert.Equal(t, uint64(2), svc.Draws(StreamLoot))
}

func TestNewSeeded_Deterministic(t *testing.T) {
	a := NewSeeded("x")
	b := NewSeeded("x")
	c := NewSeeded("y")

	var sameAsC int
	for i := 0; i < 20; i++ {
		va, vb, vc := a.IntN(1000), b.IntN(1000), c.IntN(1000)
		assert.Equal(t, va, vb)
		if va == vc {
			sameAsC++
		}
	}
	assert.Less(t, sameAsC, 20)
}

func TestRollProvablyFair(t *testing.T) {
	t.Run("deterministic for same inputs", func(t *testing.T) {
		a := RollProvablyFair("server", "client", 1)
		b := RollProvablyFair("server", "client", 1)
		assert.Equal(t, a, b)
	})

	t.Run("nonce changes outcome", func(t *testing.T) {
		assert.NotEqual(t, RollProvablyFair("server", "client", 1), RollProvablyFair("server", "client", 2))
	})

	t.Run("range", func(t *testing.T) {
		for i := uint64(0); i < 1000; i++ {
			v := RollProvablyFair("s", "c", i)
			require.GreaterOrEqual(t, v, 0.0)
			require.Less(t, v, 1.0)
		}
	})
}

func TestCommitment(t *testing.T) {
	c := NewCommitment()
	assert.Len(t, c.Seed, 64)
	assert.Len(t, c.Hash, 64)
	assert.True(t, VerifyCommitment(c.Seed, c.Hash))
	assert.False(t, VerifyCommitment(c.Seed+"0", c.Hash))
	assert.NotEqual(t, c.Seed, NewCommitment().Seed)
}

func TestFairSource_ReplaysFromSeed(t *testing.T) {
	a := NewFairSource("seed", "round-1")
	b := NewFairSource("seed", "round-1")
	for i := 0; i < 5; i++ {
		assert.Equal(t, a.IntN(100), b.IntN(100))
	}
	assert.Equal(t, uint64(5), a.Nonce)
}

func TestWeightedIndex(t *testing.T) {
	t.Run("skips zero weights", func(t *testing.T) {
		src := NewSeeded("weights")
		for i := 0; i < 500; i++ {
			idx := WeightedIndex([]int64{0, 5, 0, 5}, src)
			assert.Contains(t, []int{1, 3}, idx)
		}
	})

	t.Run("proportional", func(t *testing.T) {
		src := NewSeeded("proportional")
		counts := make([]int, 2)
		for i := 0; i < 20000; i++ {
			counts[WeightedIndex([]int64{1, 3}, src)]++
		}
		ratio := float64(counts[1]) / float64(counts[0])
		assert.InDelta(t, 3.0, ratio, 0.3)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, -1, WeightedIndex(nil, NewSeeded("e")))
	})
}
