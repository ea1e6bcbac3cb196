package repository

import (
	"context"
	"testing"

	"gemarcade/games/loot"
	"gemarcade/models"
	"gemarcade/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaseRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCaseRepository(testDB.DB)
	ctx := context.Background()
	testDB.SeedAccount(t, "acc-1", 1000)

	t.Run("upsert and list", func(t *testing.T) {
		require.NoError(t, repo.UpsertCase(ctx, testutil.NewCaseDefinition("cheap", 50)))
		pricey := testutil.NewCaseDefinition("pricey", 500)
		require.NoError(t, repo.UpsertCase(ctx, pricey))

		pricey.Enabled = false
		pricey.Name = "Retired"
		require.NoError(t, repo.UpsertCase(ctx, pricey))

		all, err := repo.ListCases(ctx, false)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "cheap", all[0].Key)

		enabled, err := repo.ListCases(ctx, true)
		require.NoError(t, err)
		require.Len(t, enabled, 1)

		def, err := repo.GetCase(ctx, "pricey")
		require.NoError(t, err)
		assert.Equal(t, "Retired", def.Name)
		assert.Equal(t, loot.DefaultWeights(), def.Weights)
		assert.Equal(t, []string{"gem"}, def.Pools[loot.Rare])
	})

	t.Run("inventory accumulates", func(t *testing.T) {
		item, err := repo.AddInventory(ctx, "acc-1", "gem", loot.Rare, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), item.Quantity)

		item, err = repo.AddInventory(ctx, "acc-1", "gem", loot.Rare, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), item.Quantity)

		items, err := repo.GetInventory(ctx, "acc-1")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "gem", items[0].ItemKey)
	})

	t.Run("open log", func(t *testing.T) {
		entry := &models.CaseOpenLog{
			AccountID:     "acc-1",
			CaseKey:       "cheap",
			CorrelationID: "corr-1",
			Price:         50,
			Rarity:        loot.Common,
			ItemKey:       "pebble",
		}
		require.NoError(t, repo.AppendOpenLog(ctx, entry))
		assert.NotZero(t, entry.ID)
	})

	t.Run("missing case", func(t *testing.T) {
		def, err := repo.GetCase(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, def)
	})
}

func TestAuditLogRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAuditLogRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, &models.AuditLog{
		ActorID:  "admin",
		Action:   models.AuditActionBan,
		TargetID: "acc-1",
		Metadata: map[string]any{"reason": "spam"},
	}))
	require.NoError(t, repo.Append(ctx, &models.AuditLog{
		ActorID:  "admin",
		Action:   models.AuditActionUnban,
		TargetID: "acc-1",
	}))

	logs, err := repo.GetByTarget(ctx, "acc-1", 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.AuditActionUnban, logs[0].Action)
	assert.Equal(t, "spam", logs[1].Metadata["reason"])
}
