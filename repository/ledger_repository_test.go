package repository

import (
	"context"
	"testing"
	"time"

	"gemarcade/models"
	"gemarcade/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRepository_AppendAndQuery(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()
	testDB.SeedAccount(t, "acc-1", 1000)
	since := time.Now().Add(-time.Minute)

	bet := testutil.NewLedgerEntry("acc-1", models.TransactionTypeSlotsBet, -100, 900)
	require.NoError(t, repo.Append(ctx, bet))
	assert.NotZero(t, bet.ID)
	assert.False(t, bet.CreatedAt.IsZero())

	payout := testutil.NewLedgerEntry("acc-1", models.TransactionTypeSlotsPayout, 40, 940)
	payout.CorrelationID = bet.CorrelationID
	require.NoError(t, repo.Append(ctx, payout))

	t.Run("sum all and debits only", func(t *testing.T) {
		all, err := repo.SumAmountsSince(ctx, "acc-1", since, false)
		require.NoError(t, err)
		assert.Equal(t, int64(940), all)

		debits, err := repo.SumAmountsSince(ctx, "acc-1", since, true)
		require.NoError(t, err)
		assert.Equal(t, int64(-100), debits)
	})

	t.Run("count debits", func(t *testing.T) {
		count, err := repo.CountEntriesSince(ctx, "acc-1", since, true)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		count, err = repo.CountEntriesSince(ctx, "acc-1", time.Now().Add(time.Hour), false)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("history is newest first", func(t *testing.T) {
		entries, err := repo.GetByAccount(ctx, "acc-1", 2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, payout.ID, entries[0].ID)
		assert.Equal(t, bet.ID, entries[1].ID)
		assert.Equal(t, true, entries[0].Metadata["test"])
	})

	t.Run("correlation groups one action", func(t *testing.T) {
		entries, err := repo.GetByCorrelationID(ctx, bet.CorrelationID)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, models.TransactionTypeSlotsBet, entries[0].Type)
		assert.Equal(t, models.TransactionTypeSlotsPayout, entries[1].Type)
	})

	t.Run("negative balance after is rejected", func(t *testing.T) {
		bad := testutil.NewLedgerEntry("acc-1", models.TransactionTypeSlotsBet, -5000, -4060)
		assert.Error(t, repo.Append(ctx, bad))
	})
}
