package service

import (
	"context"
	"testing"

	"gemarcade/events"
	"gemarcade/games/slots"
	"gemarcade/models"
	"gemarcade/rng"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSlotsService_Spin_SettlesOutcome(t *testing.T) {
	ctx := context.Background()
	u := newTestUoW()
	u.expectCommit()
	u.withConfig(models.GameSlots, `{}`)
	u.withAccount(testAccount("acc-1", 1000))

	expected, err := slots.Spin(10, rng.NewSeeded("spin"), slots.DefaultPaytable())
	require.NoError(t, err)

	svc := NewSlotsService(u.factory, newFakeRandom(rng.NewSeeded("spin")))
	result, err := svc.Spin(ctx, "acc-1", 10, "")

	require.NoError(t, err)
	assert.Equal(t, expected, result.Result)
	assert.Equal(t, 1000-10+expected.Payout, result.NewBalance)
	assert.NotEmpty(t, result.CorrelationID)

	wantEntries := 1
	if expected.Payout > 0 {
		wantEntries = 2
	}
	require.Len(t, u.entries, wantEntries)
	for _, e := range u.entries {
		assert.Equal(t, result.CorrelationID, e.CorrelationID)
	}
	assert.Len(t, u.repos.Events.OfType(events.EventTypeGameRoundCompleted), 1)
}

func TestSlotsService_Spin_ClientSeedUsesCommittedSeed(t *testing.T) {
	ctx := context.Background()
	u := newTestUoW()
	u.expectCommit()
	u.withConfig(models.GameSlots, `{}`)
	u.withAccount(testAccount("acc-1", 1000))

	committed := &models.FairSeed{AccountID: "acc-1", ServerSeed: "committed-seed", SeedHash: rng.HashSeed("committed-seed"), Nonce: 4}
	u.repos.FairSeeds.On("GetForUpdate", mock.Anything, "acc-1").Return(committed, nil)
	u.repos.FairSeeds.On("IncrementNonce", mock.Anything, "acc-1").Return(nil).Once()

	expected, err := slots.Spin(10, rng.NewFairSource("committed-seed", "lucky:4"), slots.DefaultPaytable())
	require.NoError(t, err)

	svc := NewSlotsService(u.factory, newFakeRandom(rng.NewSeeded("unused")))
	result, err := svc.Spin(ctx, "acc-1", 10, "lucky")

	require.NoError(t, err)
	assert.Equal(t, expected.Grid, result.Result.Grid)
	bet := u.entries[0]
	assert.NotContains(t, bet.Metadata, "serverSeed")
	assert.Equal(t, committed.SeedHash, bet.Metadata["seedHash"])
	assert.Equal(t, "lucky", bet.Metadata["clientSeed"])
	assert.Equal(t, int64(4), bet.Metadata["nonce"])
	u.repos.FairSeeds.AssertExpectations(t)
}

func TestSlotsService_Spin_ClientSeedNeedsCommitment(t *testing.T) {
	ctx := context.Background()
	u := newTestUoW()
	u.withConfig(models.GameSlots, `{}`)
	u.withAccount(testAccount("acc-1", 1000))
	u.repos.FairSeeds.On("GetForUpdate", mock.Anything, "acc-1").Return(nil, nil)

	svc := NewSlotsService(u.factory, newFakeRandom(rng.NewSeeded("unused")))
	_, err := svc.Spin(ctx, "acc-1", 10, "lucky")

	assert.ErrorIs(t, err, ErrNoCommittedSeed)
	assert.Empty(t, u.entries)
	u.uow.AssertNotCalled(t, "Commit")
}

func TestSlotsService_Spin_RejectsBetOutsideBounds(t *testing.T) {
	ctx := context.Background()
	u := newTestUoW()
	u.withConfig(models.GameSlots, `{"minBet":10,"maxBet":100}`)

	svc := NewSlotsService(u.factory, newFakeRandom(rng.NewSeeded("x")))
	for _, bet := range []int64{-1, 0, 9, 101} {
		_, err := svc.Spin(ctx, "acc-1", bet, "")
		assert.ErrorIs(t, err, ErrInvalidWager, "bet %d", bet)
	}
	u.repos.Accounts.AssertNotCalled(t, "GetByIDForUpdate", mock.Anything, mock.Anything)
}

func TestSlotsService_Spin_DisabledGame(t *testing.T) {
	ctx := context.Background()
	u := newTestUoW()
	u.repos.GameConfigs.On("Get", ctx, models.GameSlots).Return(&models.GameConfig{Key: models.GameSlots, Enabled: false}, nil)

	svc := NewSlotsService(u.factory, newFakeRandom(rng.NewSeeded("x")))
	_, err := svc.Spin(ctx, "acc-1", 10, "")

	assert.ErrorIs(t, err, ErrGameDisabled)
}

func TestSlotsService_Spin_InsufficientFundsLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	u := newTestUoW()
	u.withConfig(models.GameSlots, `{}`)
	account := testAccount("acc-1", 5)
	u.withAccount(account)

	svc := NewSlotsService(u.factory, newFakeRandom(rng.NewSeeded("x")))
	_, err := svc.Spin(ctx, "acc-1", 10, "")

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(5), account.Balance)
	assert.Empty(t, u.entries)
	u.uow.AssertNotCalled(t, "Commit")
}
