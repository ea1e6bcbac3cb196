package service

import (
	"encoding/json"
	"testing"
	"time"

	"gemarcade/models"
	"gemarcade/rng"

	"github.com/stretchr/testify/mock"
)

// testUoW wires a mock unit of work with every repository mocked
type testUoW struct {
	factory *MockUnitOfWorkFactory
	uow     *MockUnitOfWork
	repos   MockRepositories
	entries []*models.LedgerEntry
}

func newTestUoW() *testUoW {
	u := &testUoW{
		factory: new(MockUnitOfWorkFactory),
		uow:     new(MockUnitOfWork),
		repos: MockRepositories{
			Accounts:          new(MockAccountRepository),
			Ledger:            new(MockLedgerRepository),
			GameConfigs:       new(MockGameConfigRepository),
			MinesRounds:       new(MockMinesRoundRepository),
			BlackjackSessions: new(MockBlackjackSessionRepository),
			Jackpot:           new(MockJackpotRepository),
			Cases:             new(MockCaseRepository),
			AuditLogs:         new(MockAuditLogRepository),
			FairSeeds:         new(MockFairSeedRepository),
			Events:            &MockEventPublisher{},
		},
	}
	u.uow.SetRepositories(u.repos)
	u.factory.On("Create").Return(u.uow)
	u.uow.On("Begin", mock.Anything).Return(nil)
	u.uow.On("Rollback").Return(nil)
	return u
}

func (u *testUoW) expectCommit() {
	u.uow.On("Commit").Return(nil)
}

// withAccount serves account from the account mock and keeps its balance
// in step with UpdateBalance. Appended entries are captured in u.entries.
func (u *testUoW) withAccount(account *models.Account) {
	u.repos.Accounts.On("GetByIDForUpdate", mock.Anything, account.ID).Return(account, nil).Maybe()
	u.repos.Accounts.On("GetByID", mock.Anything, account.ID).Return(account, nil).Maybe()
	u.repos.Accounts.On("UpdateBalance", mock.Anything, account.ID, mock.AnythingOfType("int64")).
		Run(func(args mock.Arguments) {
			account.Balance = args.Get(2).(int64)
		}).Return(nil).Maybe()
	u.repos.Ledger.On("Append", mock.Anything, mock.AnythingOfType("*models.LedgerEntry")).
		Run(func(args mock.Arguments) {
			entry := args.Get(1).(*models.LedgerEntry)
			entry.ID = int64(len(u.entries) + 1)
			u.entries = append(u.entries, entry)
		}).Return(nil).Maybe()
}

// withConfig serves an enabled game config at version 1
func (u *testUoW) withConfig(key models.GameKey, raw string) {
	u.repos.GameConfigs.On("Get", mock.Anything, key).Return(&models.GameConfig{
		Key:     key,
		Enabled: true,
		Config:  json.RawMessage(raw),
		Version: 1,
	}, nil)
}

func testAccount(id string, balance int64) *models.Account {
	return &models.Account{ID: id, Username: "user-" + id, Balance: balance}
}

func int64Ptr(v int64) *int64 { return &v }

// fixClock pins now for the duration of the test
func fixClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

// fakeRandom serves one scripted source for every stream
type fakeRandom struct {
	src        rng.Source
	commitment rng.Commitment
}

func (f *fakeRandom) Stream(rng.Stream) rng.Source { return f.src }

func (f *fakeRandom) NewCommitment(rng.Stream) rng.Commitment { return f.commitment }

func newFakeRandom(src rng.Source) *fakeRandom {
	return &fakeRandom{
		src:        src,
		commitment: rng.Commitment{Seed: "server-seed", Hash: rng.HashSeed("server-seed")},
	}
}
