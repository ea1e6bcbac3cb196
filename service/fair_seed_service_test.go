package service

import (
	"context"
	"testing"

	"gemarcade/models"
	"gemarcade/rng"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFairSeedService_Current(t *testing.T) {
	ctx := context.Background()

	t.Run("commits a seed on first use", func(t *testing.T) {
		u := newTestUoW()
		u.expectCommit()
		u.repos.FairSeeds.On("GetForUpdate", mock.Anything, "acc-1").Return(nil, nil)
		u.repos.FairSeeds.On("Replace", mock.Anything, mock.MatchedBy(func(seed *models.FairSeed) bool {
			return seed.AccountID == "acc-1" && seed.ServerSeed == "server-seed"
		})).Return(nil).Once()

		svc := NewFairSeedService(u.factory, newFakeRandom(rng.NewSeeded("unused")))
		view, err := svc.Current(ctx, "acc-1")

		require.NoError(t, err)
		assert.Equal(t, rng.HashSeed("server-seed"), view.SeedHash)
		assert.Equal(t, int64(0), view.Nonce)
		u.repos.FairSeeds.AssertExpectations(t)
	})

	t.Run("existing seed is kept", func(t *testing.T) {
		u := newTestUoW()
		u.expectCommit()
		u.repos.FairSeeds.On("GetForUpdate", mock.Anything, "acc-1").
			Return(&models.FairSeed{AccountID: "acc-1", ServerSeed: "old", SeedHash: "old-hash", Nonce: 7}, nil)

		svc := NewFairSeedService(u.factory, newFakeRandom(rng.NewSeeded("unused")))
		view, err := svc.Current(ctx, "acc-1")

		require.NoError(t, err)
		assert.Equal(t, &FairSeedView{SeedHash: "old-hash", Nonce: 7}, view)
		u.repos.FairSeeds.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
	})
}

func TestFairSeedService_Rotate(t *testing.T) {
	ctx := context.Background()

	t.Run("reveals the old seed and commits a new one", func(t *testing.T) {
		u := newTestUoW()
		u.expectCommit()
		old := &models.FairSeed{AccountID: "acc-1", ServerSeed: "old", SeedHash: rng.HashSeed("old"), Nonce: 3}
		u.repos.FairSeeds.On("GetForUpdate", mock.Anything, "acc-1").Return(old, nil)
		u.repos.FairSeeds.On("Replace", mock.Anything, mock.AnythingOfType("*models.FairSeed")).Return(nil).Once()

		svc := NewFairSeedService(u.factory, newFakeRandom(rng.NewSeeded("unused")))
		rotation, err := svc.Rotate(ctx, "acc-1")

		require.NoError(t, err)
		assert.Equal(t, "old", rotation.RevealedSeed)
		assert.True(t, rng.VerifyCommitment(rotation.RevealedSeed, rotation.RevealedHash))
		assert.Equal(t, int64(3), rotation.SpinsPlayed)
		assert.Equal(t, rng.HashSeed("server-seed"), rotation.NextHash)
	})

	t.Run("nothing to reveal", func(t *testing.T) {
		u := newTestUoW()
		u.repos.FairSeeds.On("GetForUpdate", mock.Anything, "acc-1").Return(nil, nil)

		svc := NewFairSeedService(u.factory, newFakeRandom(rng.NewSeeded("unused")))
		_, err := svc.Rotate(ctx, "acc-1")

		assert.ErrorIs(t, err, ErrNoCommittedSeed)
		u.uow.AssertNotCalled(t, "Commit")
	})
}

func TestSeededSource_ReplaysFromRevealedSeed(t *testing.T) {
	seed := &models.FairSeed{ServerSeed: "revealed", Nonce: 2}

	a := seededSource(seed, "client")
	b := rng.NewFairSource("revealed", "client:2")
	for range 5 {
		assert.Equal(t, b.Float64(), a.Float64())
	}

	seed.Nonce = 3
	c := seededSource(seed, "client")
	assert.NotEqual(t, rng.RollProvablyFair("revealed", "client:2", 0), c.Float64())
}
