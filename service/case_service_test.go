package service

import (
	"context"
	"testing"

	"gemarcade/events"
	"gemarcade/games/loot"
	"gemarcade/models"
	"gemarcade/rng/rngtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCaseService_OpenCase(t *testing.T) {
	ctx := context.Background()
	u := newTestUoW()
	u.expectCommit()
	u.withAccount(testAccount("acc-1", 500))

	def := &models.CaseDefinition{
		Key:     "test",
		Name:    "Test Case",
		Price:   100,
		Enabled: true,
		Weights: loot.Weights{loot.Common: 1, loot.Rare: 1},
		Pools: loot.Pools{
			loot.Common: {"pebble"},
			loot.Rare:   {"ruby", "sapphire"},
		},
	}
	u.repos.Cases.On("GetCase", ctx, "test").Return(def, nil)
	inventory := &models.InventoryItem{AccountID: "acc-1", ItemKey: "sapphire", Rarity: loot.Rare, Quantity: 2}
	u.repos.Cases.On("AddInventory", ctx, "acc-1", "sapphire", loot.Rare, int64(1)).Return(inventory, nil)
	u.repos.Cases.On("AppendOpenLog", ctx, mock.MatchedBy(func(l *models.CaseOpenLog) bool {
		return l.CaseKey == "test" && l.ItemKey == "sapphire" && l.Price == 100
	})).Return(nil)

	// 0.9 lands in the RARE half, then 0.9 picks the second RARE item
	svc := NewCaseService(u.factory, newFakeRandom(rngtest.NewSequence(0.9, 0.9)))
	result, err := svc.OpenCase(ctx, "acc-1", "test")

	require.NoError(t, err)
	assert.Equal(t, loot.Rare, result.Rarity)
	assert.Equal(t, "sapphire", result.ItemKey)
	assert.Equal(t, int64(400), result.NewBalance)
	assert.Equal(t, inventory, result.Inventory)
	require.Len(t, u.entries, 1)
	assert.Equal(t, models.TransactionTypeCaseOpen, u.entries[0].Type)
	assert.Equal(t, result.CorrelationID, u.entries[0].CorrelationID)
	assert.Len(t, u.repos.Events.OfType(events.EventTypeCaseOpened), 1)
	u.repos.Cases.AssertExpectations(t)
}

func TestCaseService_OpenCase_Unavailable(t *testing.T) {
	ctx := context.Background()
	u := newTestUoW()
	u.repos.Cases.On("GetCase", ctx, "missing").Return(nil, nil)
	u.repos.Cases.On("GetCase", ctx, "retired").Return(&models.CaseDefinition{Key: "retired", Enabled: false}, nil)

	svc := NewCaseService(u.factory, newFakeRandom(rngtest.NewSequence(0)))

	_, err := svc.OpenCase(ctx, "acc-1", "missing")
	assert.ErrorIs(t, err, ErrCaseUnavailable)

	_, err = svc.OpenCase(ctx, "acc-1", "retired")
	assert.ErrorIs(t, err, ErrCaseUnavailable)
}

func TestCaseService_OpenCase_EmptyPoolChargesNothing(t *testing.T) {
	ctx := context.Background()
	u := newTestUoW()
	account := testAccount("acc-1", 500)
	u.withAccount(account)
	u.repos.Cases.On("GetCase", ctx, "broken").Return(&models.CaseDefinition{
		Key:     "broken",
		Price:   100,
		Enabled: true,
		Weights: loot.Weights{loot.Common: 1},
		Pools:   loot.Pools{},
	}, nil)

	svc := NewCaseService(u.factory, newFakeRandom(rngtest.NewSequence(0)))
	_, err := svc.OpenCase(ctx, "acc-1", "broken")

	assert.ErrorIs(t, err, ErrPoolEmpty)
	assert.Equal(t, int64(500), account.Balance)
	assert.Empty(t, u.entries)
}

func TestCaseService_UpsertCase_Validates(t *testing.T) {
	ctx := context.Background()
	u := newTestUoW()
	svc := NewCaseService(u.factory, newFakeRandom(rngtest.NewSequence(0)))

	err := svc.UpsertCase(ctx, "admin", &models.CaseDefinition{
		Key:     "bad",
		Price:   10,
		Weights: loot.Weights{loot.Epic: 5},
		Pools:   loot.Pools{loot.Common: {"pebble"}},
	})

	assert.ErrorIs(t, err, ErrInvalidConfig)
	u.factory.AssertNotCalled(t, "Create")
}

func TestCaseService_UpsertCase_Audited(t *testing.T) {
	ctx := context.Background()
	u := newTestUoW()
	u.expectCommit()
	def := StarterCase()
	u.repos.Cases.On("UpsertCase", ctx, def).Return(nil)
	u.repos.AuditLogs.On("Append", ctx, mock.MatchedBy(func(a *models.AuditLog) bool {
		return a.Action == models.AuditActionUpsertCase && a.TargetID == def.Key
	})).Return(nil)

	svc := NewCaseService(u.factory, newFakeRandom(rngtest.NewSequence(0)))
	require.NoError(t, svc.UpsertCase(ctx, "admin", def))

	u.repos.AuditLogs.AssertExpectations(t)
}

func TestStarterCase_IsValid(t *testing.T) {
	def := StarterCase()
	assert.NoError(t, loot.Validate(def.Weights, def.Pools))
}

func TestSeedDefaultCases_SkipsExisting(t *testing.T) {
	ctx := context.Background()
	u := newTestUoW()
	u.expectCommit()
	u.repos.Cases.On("GetCase", ctx, "starter").Return(StarterCase(), nil)

	require.NoError(t, SeedDefaultCases(ctx, u.factory))
	u.repos.Cases.AssertNotCalled(t, "UpsertCase", mock.Anything, mock.Anything)
}
