package service

import (
	"context"
	"sync"
	"time"

	"gemarcade/events"
	"gemarcade/games/loot"
	"gemarcade/models"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, id, username string) (*models.Account, error) {
	args := m.Called(ctx, id, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, id string, newBalance int64) error {
	args := m.Called(ctx, id, newBalance)
	return args.Error(0)
}

func (m *MockAccountRepository) SetBanned(ctx context.Context, id string, banned bool, reason *string) error {
	args := m.Called(ctx, id, banned, reason)
	return args.Error(0)
}

func (m *MockAccountRepository) SetSelfLimits(ctx context.Context, id string, limits models.SelfLimits) error {
	args := m.Called(ctx, id, limits)
	return args.Error(0)
}

func (m *MockAccountRepository) RecordDailyClaim(ctx context.Context, id string, streak int, claimedAt time.Time) error {
	args := m.Called(ctx, id, streak, claimedAt)
	return args.Error(0)
}

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, entry *models.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) SumAmountsSince(ctx context.Context, accountID string, since time.Time, onlyNegative bool) (int64, error) {
	args := m.Called(ctx, accountID, since, onlyNegative)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) CountEntriesSince(ctx context.Context, accountID string, since time.Time, onlyNegative bool) (int64, error) {
	args := m.Called(ctx, accountID, since, onlyNegative)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) GetByAccount(ctx context.Context, accountID string, limit int) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) GetByCorrelationID(ctx context.Context, correlationID string) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx, correlationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}

// MockGameConfigRepository is a mock implementation of GameConfigRepository
type MockGameConfigRepository struct {
	mock.Mock
}

func (m *MockGameConfigRepository) Get(ctx context.Context, key models.GameKey) (*models.GameConfig, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameConfig), args.Error(1)
}

func (m *MockGameConfigRepository) GetForUpdate(ctx context.Context, key models.GameKey) (*models.GameConfig, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameConfig), args.Error(1)
}

func (m *MockGameConfigRepository) InsertIfMissing(ctx context.Context, cfg *models.GameConfig) (bool, error) {
	args := m.Called(ctx, cfg)
	return args.Bool(0), args.Error(1)
}

func (m *MockGameConfigRepository) Update(ctx context.Context, cfg *models.GameConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockGameConfigRepository) AppendHistory(ctx context.Context, history *models.GameConfigHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockGameConfigRepository) GetHistory(ctx context.Context, key models.GameKey, limit int) ([]*models.GameConfigHistory, error) {
	args := m.Called(ctx, key, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GameConfigHistory), args.Error(1)
}

// MockMinesRoundRepository is a mock implementation of MinesRoundRepository
type MockMinesRoundRepository struct {
	mock.Mock
}

func (m *MockMinesRoundRepository) Create(ctx context.Context, round *models.MinesRound) error {
	args := m.Called(ctx, round)
	return args.Error(0)
}

func (m *MockMinesRoundRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.MinesRound, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MinesRound), args.Error(1)
}

func (m *MockMinesRoundRepository) GetActiveByAccount(ctx context.Context, accountID string) (*models.MinesRound, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MinesRound), args.Error(1)
}

func (m *MockMinesRoundRepository) Update(ctx context.Context, round *models.MinesRound) error {
	args := m.Called(ctx, round)
	return args.Error(0)
}

// MockBlackjackSessionRepository is a mock implementation of BlackjackSessionRepository
type MockBlackjackSessionRepository struct {
	mock.Mock
}

func (m *MockBlackjackSessionRepository) Create(ctx context.Context, session *models.BlackjackSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockBlackjackSessionRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.BlackjackSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlackjackSession), args.Error(1)
}

func (m *MockBlackjackSessionRepository) GetActiveByAccount(ctx context.Context, accountID string) (*models.BlackjackSession, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlackjackSession), args.Error(1)
}

func (m *MockBlackjackSessionRepository) Update(ctx context.Context, session *models.BlackjackSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

// MockJackpotRepository is a mock implementation of JackpotRepository
type MockJackpotRepository struct {
	mock.Mock
}

func (m *MockJackpotRepository) CreateRound(ctx context.Context, round *models.JackpotRound) (bool, error) {
	args := m.Called(ctx, round)
	return args.Bool(0), args.Error(1)
}

func (m *MockJackpotRepository) GetRound(ctx context.Context, id string) (*models.JackpotRound, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JackpotRound), args.Error(1)
}

func (m *MockJackpotRepository) GetRoundForUpdate(ctx context.Context, id string) (*models.JackpotRound, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JackpotRound), args.Error(1)
}

func (m *MockJackpotRepository) GetLatestOpen(ctx context.Context) (*models.JackpotRound, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JackpotRound), args.Error(1)
}

func (m *MockJackpotRepository) UpdateRound(ctx context.Context, round *models.JackpotRound) error {
	args := m.Called(ctx, round)
	return args.Error(0)
}

func (m *MockJackpotRepository) AddEntry(ctx context.Context, entry *models.JackpotEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJackpotRepository) IncrementPot(ctx context.Context, roundID string, amount int64) error {
	args := m.Called(ctx, roundID, amount)
	return args.Error(0)
}

func (m *MockJackpotRepository) GetEntries(ctx context.Context, roundID string) ([]*models.JackpotEntry, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.JackpotEntry), args.Error(1)
}

// MockCaseRepository is a mock implementation of CaseRepository
type MockCaseRepository struct {
	mock.Mock
}

func (m *MockCaseRepository) GetCase(ctx context.Context, key string) (*models.CaseDefinition, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CaseDefinition), args.Error(1)
}

func (m *MockCaseRepository) ListCases(ctx context.Context, enabledOnly bool) ([]*models.CaseDefinition, error) {
	args := m.Called(ctx, enabledOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CaseDefinition), args.Error(1)
}

func (m *MockCaseRepository) UpsertCase(ctx context.Context, def *models.CaseDefinition) error {
	args := m.Called(ctx, def)
	return args.Error(0)
}

func (m *MockCaseRepository) AddInventory(ctx context.Context, accountID, itemKey string, rarity loot.Rarity, quantity int64) (*models.InventoryItem, error) {
	args := m.Called(ctx, accountID, itemKey, rarity, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockCaseRepository) GetInventory(ctx context.Context, accountID string) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockCaseRepository) AppendOpenLog(ctx context.Context, entry *models.CaseOpenLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockAuditLogRepository is a mock implementation of AuditLogRepository
type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Append(ctx context.Context, entry *models.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditLogRepository) GetByTarget(ctx context.Context, targetID string, limit int) ([]*models.AuditLog, error) {
	args := m.Called(ctx, targetID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

// MockFairSeedRepository is a mock implementation of FairSeedRepository
type MockFairSeedRepository struct {
	mock.Mock
}

func (m *MockFairSeedRepository) GetForUpdate(ctx context.Context, accountID string) (*models.FairSeed, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FairSeed), args.Error(1)
}

func (m *MockFairSeedRepository) Replace(ctx context.Context, seed *models.FairSeed) error {
	args := m.Called(ctx, seed)
	return args.Error(0)
}

func (m *MockFairSeedRepository) IncrementNonce(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []events.Event
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// OfType returns the recorded events of one type
func (m *MockEventPublisher) OfType(eventType events.EventType) []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []events.Event
	for _, e := range m.Events {
		if e.Type() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// MockRepositories groups the repositories a MockUnitOfWork hands out.
// Nil fields are returned as nil interfaces.
type MockRepositories struct {
	Accounts          *MockAccountRepository
	Ledger            *MockLedgerRepository
	GameConfigs       *MockGameConfigRepository
	MinesRounds       *MockMinesRoundRepository
	BlackjackSessions *MockBlackjackSessionRepository
	Jackpot           *MockJackpotRepository
	Cases             *MockCaseRepository
	AuditLogs         *MockAuditLogRepository
	FairSeeds         *MockFairSeedRepository
	Events            *MockEventPublisher
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	repos MockRepositories
}

// SetRepositories configures the repositories returned by the getters
func (m *MockUnitOfWork) SetRepositories(repos MockRepositories) {
	if repos.Events == nil {
		repos.Events = &MockEventPublisher{}
	}
	m.repos = repos
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository {
	if m.repos.Accounts == nil {
		return nil
	}
	return m.repos.Accounts
}

func (m *MockUnitOfWork) LedgerRepository() LedgerRepository {
	if m.repos.Ledger == nil {
		return nil
	}
	return m.repos.Ledger
}

func (m *MockUnitOfWork) GameConfigRepository() GameConfigRepository {
	if m.repos.GameConfigs == nil {
		return nil
	}
	return m.repos.GameConfigs
}

func (m *MockUnitOfWork) MinesRoundRepository() MinesRoundRepository {
	if m.repos.MinesRounds == nil {
		return nil
	}
	return m.repos.MinesRounds
}

func (m *MockUnitOfWork) BlackjackSessionRepository() BlackjackSessionRepository {
	if m.repos.BlackjackSessions == nil {
		return nil
	}
	return m.repos.BlackjackSessions
}

func (m *MockUnitOfWork) JackpotRepository() JackpotRepository {
	if m.repos.Jackpot == nil {
		return nil
	}
	return m.repos.Jackpot
}

func (m *MockUnitOfWork) CaseRepository() CaseRepository {
	if m.repos.Cases == nil {
		return nil
	}
	return m.repos.Cases
}

func (m *MockUnitOfWork) AuditLogRepository() AuditLogRepository {
	if m.repos.AuditLogs == nil {
		return nil
	}
	return m.repos.AuditLogs
}

func (m *MockUnitOfWork) FairSeedRepository() FairSeedRepository {
	if m.repos.FairSeeds == nil {
		return nil
	}
	return m.repos.FairSeeds
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.repos.Events == nil {
		m.repos.Events = &MockEventPublisher{}
	}
	return m.repos.Events
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
