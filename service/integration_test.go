package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"gemarcade/events"
	"gemarcade/games/plinko"
	"gemarcade/games/slots"
	"gemarcade/models"
	"gemarcade/repository"
	"gemarcade/repository/testutil"
	"gemarcade/rng"
	"gemarcade/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type integrationEnv struct {
	db      *testutil.TestDatabase
	factory service.UnitOfWorkFactory
}

func newIntegrationEnv(t *testing.T) *integrationEnv {
	t.Helper()
	testDB := testutil.SetupTestDatabase(t)
	factory := repository.NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	require.NoError(t, service.NewGameConfigService(factory).SeedDefaults(context.Background()))
	return &integrationEnv{
		db:      testDB,
		factory: factory,
	}
}

// applyEntry runs one ledger entry in its own unit of work and returns the new balance
func (e *integrationEnv) applyEntry(ctx context.Context, req service.EntryRequest) (int64, error) {
	uow := e.factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	entry, err := service.ApplyEntry(ctx, uow, req)
	if err != nil {
		return 0, err
	}
	if err := uow.Commit(); err != nil {
		return 0, err
	}
	return entry.BalanceAfter, nil
}

// assertLedgerMatchesBalance checks that the entry log sums to the stored balance
func (e *integrationEnv) assertLedgerMatchesBalance(t *testing.T, accountID string) int64 {
	t.Helper()
	ctx := context.Background()

	var balance, sum int64
	require.NoError(t, e.db.DB.QueryRow(ctx, `SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance))
	require.NoError(t, e.db.DB.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)::BIGINT FROM ledger_entries WHERE account_id = $1`, accountID,
	).Scan(&sum))
	assert.Equal(t, balance, sum, "ledger sum must equal balance for %s", accountID)
	return balance
}

func TestIntegration_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	t.Parallel()
	env := newIntegrationEnv(t)
	env.db.SeedAccount(t, "acc-1", 1000)

	const attempts = 20
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.applyEntry(context.Background(), service.EntryRequest{
				AccountID:     "acc-1",
				Amount:        -100,
				Type:          models.TransactionTypeSlotsBet,
				CorrelationID: "concurrent",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, service.ErrInsufficientFunds)
	}
	assert.Equal(t, 10, succeeded)
	assert.Equal(t, int64(0), env.assertLedgerMatchesBalance(t, "acc-1"))
}

func TestIntegration_SelfLossLimit(t *testing.T) {
	t.Parallel()
	env := newIntegrationEnv(t)
	ctx := context.Background()
	env.db.SeedAccount(t, "acc-1", 1000)

	accounts := service.NewAccountService(env.factory, service.DefaultEconomySettings())
	maxLoss := int64(100)
	require.NoError(t, accounts.SetSelfLimits(ctx, "acc-1", models.SelfLimits{MaxLossPerDay: &maxLoss}))

	debit := func(amount int64) error {
		_, err := env.applyEntry(ctx, service.EntryRequest{
			AccountID:     "acc-1",
			Amount:        -amount,
			Type:          models.TransactionTypePlinkoBet,
			CorrelationID: "limit",
		})
		return err
	}

	require.NoError(t, debit(95))
	assert.ErrorIs(t, debit(10), service.ErrLimitExceeded)
	require.NoError(t, debit(5))
	assert.ErrorIs(t, debit(1), service.ErrLimitExceeded)

	assert.Equal(t, int64(900), env.assertLedgerMatchesBalance(t, "acc-1"))
}

func TestIntegration_FailedUnitOfWorkLeavesNoTrace(t *testing.T) {
	t.Parallel()
	env := newIntegrationEnv(t)
	ctx := context.Background()
	env.db.SeedAccount(t, "acc-1", 100)

	uow := env.factory.Create()
	require.NoError(t, uow.Begin(ctx))
	_, err := service.ApplyEntry(ctx, uow, service.EntryRequest{
		AccountID: "acc-1", Amount: -60, Type: models.TransactionTypeCaseOpen, CorrelationID: "atomic",
	})
	require.NoError(t, err)
	_, err = service.ApplyEntry(ctx, uow, service.EntryRequest{
		AccountID: "acc-1", Amount: -60, Type: models.TransactionTypeCaseOpen, CorrelationID: "atomic",
	})
	require.ErrorIs(t, err, service.ErrInsufficientFunds)
	require.NoError(t, uow.Rollback())

	assert.Equal(t, int64(100), env.assertLedgerMatchesBalance(t, "acc-1"))

	var count int
	require.NoError(t, env.db.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM ledger_entries WHERE correlation_id = 'atomic'`).Scan(&count))
	assert.Zero(t, count)
}

func TestIntegration_GamesKeepLedgerConsistent(t *testing.T) {
	t.Parallel()
	env := newIntegrationEnv(t)
	ctx := context.Background()
	random := rng.NewService()

	accounts := service.NewAccountService(env.factory, service.DefaultEconomySettings())
	account, err := accounts.GetOrCreateAccount(ctx, "player", "player")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), account.Balance)

	slotsSvc := service.NewSlotsService(env.factory, random)
	plinkoSvc := service.NewPlinkoService(env.factory, random)
	minesSvc := service.NewMinesService(env.factory, random)

	for i := 0; i < 5; i++ {
		_, err := slotsSvc.Spin(ctx, "player", 10, "")
		require.NoError(t, err)
		_, err = plinkoSvc.Drop(ctx, "player", 10, 8, plinko.RiskLow)
		require.NoError(t, err)
	}

	round, err := minesSvc.Start(ctx, "player", 10, 3)
	require.NoError(t, err)
	_, err = minesSvc.Cashout(ctx, "player", round.RoundID)
	require.NoError(t, err)

	env.assertLedgerMatchesBalance(t, "player")
}

func TestIntegration_SeededSpinReplaysAfterRotation(t *testing.T) {
	t.Parallel()
	env := newIntegrationEnv(t)
	env.db.SeedAccount(t, "acc-1", 1000)
	ctx := context.Background()

	random := rng.NewService()
	seeds := service.NewFairSeedService(env.factory, random)
	slotsSvc := service.NewSlotsService(env.factory, random)

	_, err := slotsSvc.Spin(ctx, "acc-1", 10, "lucky")
	require.ErrorIs(t, err, service.ErrNoCommittedSeed)

	shown, err := seeds.Current(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), shown.Nonce)

	first, err := slotsSvc.Spin(ctx, "acc-1", 10, "lucky")
	require.NoError(t, err)
	second, err := slotsSvc.Spin(ctx, "acc-1", 10, "lucky")
	require.NoError(t, err)

	rotation, err := seeds.Rotate(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, shown.SeedHash, rotation.RevealedHash)
	assert.True(t, rng.VerifyCommitment(rotation.RevealedSeed, shown.SeedHash))
	assert.Equal(t, int64(2), rotation.SpinsPlayed)
	assert.NotEqual(t, shown.SeedHash, rotation.NextHash)

	for nonce, spin := range []*service.SlotsSpinResult{first, second} {
		replay, err := slots.Spin(10, rng.NewFairSource(rotation.RevealedSeed, fmt.Sprintf("lucky:%d", nonce)), slots.DefaultPaytable())
		require.NoError(t, err)
		assert.Equal(t, spin.Result.Grid, replay.Grid)
	}

	env.assertLedgerMatchesBalance(t, "acc-1")
}

func TestIntegration_JackpotWithoutEntriesCloses(t *testing.T) {
	t.Parallel()
	env := newIntegrationEnv(t)
	ctx := context.Background()
	jackpot := service.NewJackpotService(env.factory, rng.NewService())

	round, err := jackpot.GetOpenRound(ctx)
	require.NoError(t, err)

	_, err = jackpot.SettleRound(ctx, round.ID)
	assert.ErrorIs(t, err, service.ErrRoundNotExpired)

	expireRound(t, env, round.ID)
	settled, err := jackpot.SettleRound(ctx, round.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JackpotStatusClosed, settled.Status)
	assert.Nil(t, settled.WinnerID)
	assert.Equal(t, round.ServerSeed, settled.RevealedSeed())

	next, err := jackpot.GetOpenRound(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, round.ID, next.ID)
}

func TestIntegration_JackpotPaysOneWinner(t *testing.T) {
	t.Parallel()
	env := newIntegrationEnv(t)
	ctx := context.Background()
	env.db.SeedAccount(t, "a", 1000)
	env.db.SeedAccount(t, "b", 1000)
	jackpot := service.NewJackpotService(env.factory, rng.NewService())

	first, err := jackpot.Enter(ctx, "a", 100)
	require.NoError(t, err)
	_, err = jackpot.Enter(ctx, "b", 300)
	require.NoError(t, err)

	expireRound(t, env, first.Round.ID)
	settled, err := jackpot.SettleRound(ctx, first.Round.ID)
	require.NoError(t, err)
	require.Equal(t, models.JackpotStatusSettled, settled.Status)
	require.NotNil(t, settled.WinnerID)
	require.NotNil(t, settled.Payout)

	// Default house cut is 250 bps
	assert.Equal(t, int64(390), *settled.Payout)
	total := env.assertLedgerMatchesBalance(t, "a") + env.assertLedgerMatchesBalance(t, "b")
	assert.Equal(t, int64(2000-400+390), total)

	// Settling again is a no-op
	again, err := jackpot.SettleRound(ctx, first.Round.ID)
	require.NoError(t, err)
	assert.Equal(t, *settled.WinnerID, *again.WinnerID)
}

func expireRound(t *testing.T, env *integrationEnv, roundID string) {
	t.Helper()
	_, err := env.db.DB.Exec(context.Background(),
		`UPDATE jackpot_rounds SET ends_at = $1 WHERE id = $2`, time.Now().Add(-time.Second), roundID)
	require.NoError(t, err)
}
