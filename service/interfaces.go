package service

import (
	"context"
	"encoding/json"
	"time"

	"gemarcade/events"
	"gemarcade/games/blackjack"
	"gemarcade/games/loot"
	"gemarcade/games/mines"
	"gemarcade/games/plinko"
	"gemarcade/games/slots"
	"gemarcade/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByID retrieves an account without locking it
	GetByID(ctx context.Context, id string) (*models.Account, error)

	// GetByIDForUpdate retrieves an account and locks its row until the transaction ends
	GetByIDForUpdate(ctx context.Context, id string) (*models.Account, error)

	// Create inserts an account with a zero balance
	Create(ctx context.Context, id, username string) (*models.Account, error)

	// UpdateBalance sets an account's balance
	UpdateBalance(ctx context.Context, id string, newBalance int64) error

	// SetBanned sets or clears the ban flag
	SetBanned(ctx context.Context, id string, banned bool, reason *string) error

	// SetSelfLimits replaces the account's daily caps
	SetSelfLimits(ctx context.Context, id string, limits models.SelfLimits) error

	// RecordDailyClaim stores the daily bonus streak
	RecordDailyClaim(ctx context.Context, id string, streak int, claimedAt time.Time) error
}

// LedgerRepository defines the interface for the append-only entry log
type LedgerRepository interface {
	// Append writes a new entry and fills in its ID and CreatedAt
	Append(ctx context.Context, entry *models.LedgerEntry) error

	// SumAmountsSince sums entry amounts since a point in time, optionally only debits
	SumAmountsSince(ctx context.Context, accountID string, since time.Time, onlyNegative bool) (int64, error)

	// CountEntriesSince counts entries since a point in time, optionally only debits
	CountEntriesSince(ctx context.Context, accountID string, since time.Time, onlyNegative bool) (int64, error)

	// GetByAccount returns the most recent entries for an account
	GetByAccount(ctx context.Context, accountID string, limit int) ([]*models.LedgerEntry, error)

	// GetByCorrelationID returns every entry of one logical action
	GetByCorrelationID(ctx context.Context, correlationID string) ([]*models.LedgerEntry, error)
}

// GameConfigRepository defines the interface for versioned game configuration
type GameConfigRepository interface {
	Get(ctx context.Context, key models.GameKey) (*models.GameConfig, error)
	GetForUpdate(ctx context.Context, key models.GameKey) (*models.GameConfig, error)

	// InsertIfMissing creates a row at version 1 unless one exists
	InsertIfMissing(ctx context.Context, cfg *models.GameConfig) (bool, error)

	// Update overwrites the current row; callers append history first
	Update(ctx context.Context, cfg *models.GameConfig) error

	AppendHistory(ctx context.Context, history *models.GameConfigHistory) error
	GetHistory(ctx context.Context, key models.GameKey, limit int) ([]*models.GameConfigHistory, error)
}

// MinesRoundRepository defines the interface for persisted mines rounds
type MinesRoundRepository interface {
	Create(ctx context.Context, round *models.MinesRound) error
	GetByIDForUpdate(ctx context.Context, id string) (*models.MinesRound, error)
	GetActiveByAccount(ctx context.Context, accountID string) (*models.MinesRound, error)
	Update(ctx context.Context, round *models.MinesRound) error
}

// BlackjackSessionRepository defines the interface for persisted blackjack hands
type BlackjackSessionRepository interface {
	Create(ctx context.Context, session *models.BlackjackSession) error
	GetByIDForUpdate(ctx context.Context, id string) (*models.BlackjackSession, error)
	GetActiveByAccount(ctx context.Context, accountID string) (*models.BlackjackSession, error)
	Update(ctx context.Context, session *models.BlackjackSession) error
}

// JackpotRepository defines the interface for jackpot rounds and entries
type JackpotRepository interface {
	// CreateRound inserts an OPEN round. It reports false when another OPEN round already exists.
	CreateRound(ctx context.Context, round *models.JackpotRound) (bool, error)
	GetRound(ctx context.Context, id string) (*models.JackpotRound, error)

	// GetRoundForUpdate locks the round row; settlement and entry serialize on it
	GetRoundForUpdate(ctx context.Context, id string) (*models.JackpotRound, error)

	// GetLatestOpen returns the newest OPEN round, expired or not
	GetLatestOpen(ctx context.Context) (*models.JackpotRound, error)

	UpdateRound(ctx context.Context, round *models.JackpotRound) error
	AddEntry(ctx context.Context, entry *models.JackpotEntry) error
	IncrementPot(ctx context.Context, roundID string, amount int64) error
	GetEntries(ctx context.Context, roundID string) ([]*models.JackpotEntry, error)
}

// CaseRepository defines the interface for loot cases and inventory
type CaseRepository interface {
	GetCase(ctx context.Context, key string) (*models.CaseDefinition, error)
	ListCases(ctx context.Context, enabledOnly bool) ([]*models.CaseDefinition, error)
	UpsertCase(ctx context.Context, def *models.CaseDefinition) error

	// AddInventory increments a held item, creating the row on first drop
	AddInventory(ctx context.Context, accountID, itemKey string, rarity loot.Rarity, quantity int64) (*models.InventoryItem, error)
	GetInventory(ctx context.Context, accountID string) ([]*models.InventoryItem, error)
	AppendOpenLog(ctx context.Context, entry *models.CaseOpenLog) error
}

// AuditLogRepository defines the interface for administrative audit records
type AuditLogRepository interface {
	Append(ctx context.Context, entry *models.AuditLog) error
	GetByTarget(ctx context.Context, targetID string, limit int) ([]*models.AuditLog, error)
}

// FairSeedRepository defines the interface for committed per-account seeds
type FairSeedRepository interface {
	// GetForUpdate locks the account's seed row; nil when none is committed
	GetForUpdate(ctx context.Context, accountID string) (*models.FairSeed, error)

	// Replace commits a new seed and resets the nonce to zero
	Replace(ctx context.Context, seed *models.FairSeed) error

	IncrementNonce(ctx context.Context, accountID string) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations.
// Every ledger mutation requires a started unit of work.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and releases queued events
	Commit() error

	// Rollback rolls back the transaction; it is a no-op after Commit
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	LedgerRepository() LedgerRepository
	GameConfigRepository() GameConfigRepository
	MinesRoundRepository() MinesRoundRepository
	BlackjackSessionRepository() BlackjackSessionRepository
	JackpotRepository() JackpotRepository
	CaseRepository() CaseRepository
	AuditLogRepository() AuditLogRepository
	FairSeedRepository() FairSeedRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// AccountService manages wallets
type AccountService interface {
	// GetOrCreateAccount returns the account, opening it with the starting grant if new
	GetOrCreateAccount(ctx context.Context, accountID, username string) (*models.Account, error)
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
	SetSelfLimits(ctx context.Context, accountID string, limits models.SelfLimits) error
	ClaimDaily(ctx context.Context, accountID string) (*DailyClaimResult, error)
	History(ctx context.Context, accountID string, limit int) ([]*models.LedgerEntry, error)
}

// FairSeedService manages the committed server seed behind seeded spins
type FairSeedService interface {
	// Current returns the committed seed's hash, committing one if needed
	Current(ctx context.Context, accountID string) (*FairSeedView, error)

	// Rotate reveals the current seed and commits a fresh one
	Rotate(ctx context.Context, accountID string) (*SeedRotation, error)
}

// GameConfigService reads and versions game configuration
type GameConfigService interface {
	Get(ctx context.Context, key models.GameKey) (*models.GameConfig, error)
	Update(ctx context.Context, key models.GameKey, config json.RawMessage, enabled bool, updatedBy string) (*models.GameConfig, error)
	History(ctx context.Context, key models.GameKey, limit int) ([]*models.GameConfigHistory, error)
	SeedDefaults(ctx context.Context) error
}

// SlotsService plays slots
type SlotsService interface {
	Spin(ctx context.Context, accountID string, bet int64, clientSeed string) (*SlotsSpinResult, error)
}

// PlinkoService plays plinko
type PlinkoService interface {
	Drop(ctx context.Context, accountID string, bet int64, rows int, risk plinko.Risk) (*PlinkoDropResult, error)
}

// MinesService plays multi-step mines rounds
type MinesService interface {
	Start(ctx context.Context, accountID string, bet int64, minesCount int) (*MinesRoundView, error)
	Reveal(ctx context.Context, accountID, roundID string, tile int) (*MinesRoundView, error)
	Cashout(ctx context.Context, accountID, roundID string) (*MinesRoundView, error)
	Active(ctx context.Context, accountID string) (*MinesRoundView, error)
}

// BlackjackService plays multi-step blackjack hands
type BlackjackService interface {
	Start(ctx context.Context, accountID string, bet int64) (*BlackjackView, error)
	Hit(ctx context.Context, accountID, sessionID string) (*BlackjackView, error)
	Stand(ctx context.Context, accountID, sessionID string) (*BlackjackView, error)
	Double(ctx context.Context, accountID, sessionID string) (*BlackjackView, error)
	Active(ctx context.Context, accountID string) (*BlackjackView, error)
}

// JackpotService runs the pooled jackpot
type JackpotService interface {
	GetOpenRound(ctx context.Context) (*models.JackpotRound, error)
	Enter(ctx context.Context, accountID string, amount int64) (*JackpotEntryResult, error)
	SettleRound(ctx context.Context, roundID string) (*models.JackpotRound, error)
	Current(ctx context.Context) (*JackpotRoundView, error)
}

// CaseService opens loot cases
type CaseService interface {
	OpenCase(ctx context.Context, accountID, caseKey string) (*CaseOpenResult, error)
	ListCases(ctx context.Context) ([]*models.CaseDefinition, error)
	Inventory(ctx context.Context, accountID string) ([]*models.InventoryItem, error)
	UpsertCase(ctx context.Context, actorID string, def *models.CaseDefinition) error
}

// AdminService performs audited administrative actions
type AdminService interface {
	SetBanned(ctx context.Context, actorID, accountID string, banned bool, reason string) error
	AdjustBalance(ctx context.Context, actorID, accountID string, amount int64, reason string) (int64, error)
}

// SlotsSpinResult is the outcome of a spin
type SlotsSpinResult struct {
	CorrelationID string
	Result        slots.Result
	Bet           int64
	NewBalance    int64
}

// PlinkoDropResult is the outcome of a drop
type PlinkoDropResult struct {
	CorrelationID string
	Result        plinko.Result
	Risk          plinko.Risk
	Rows          int
	Bet           int64
	NewBalance    int64
}

// MinesRoundView is the client projection of a mines round
type MinesRoundView struct {
	RoundID         string
	Bet             int64
	View            mines.View
	LastReveal      *mines.RevealResult
	PotentialPayout int64
	Payout          *int64
	Balance         int64
}

// BlackjackView is the client projection of a blackjack hand
type BlackjackView struct {
	SessionID string
	Bet       int64
	View      blackjack.View
	Payout    *int64
	Balance   int64
}

// JackpotEntryResult is returned after buying into a round
type JackpotEntryResult struct {
	Round      *models.JackpotRound
	Entry      *models.JackpotEntry
	NewBalance int64
}

// JackpotRoundView summarizes a round for display
type JackpotRoundView struct {
	Round   *models.JackpotRound
	Entries []*models.JackpotEntry
	// Stakes maps account to total contributed
	Stakes map[string]int64
}

// CaseOpenResult is the outcome of a case roll
type CaseOpenResult struct {
	CorrelationID string
	CaseKey       string
	Rarity        loot.Rarity
	ItemKey       string
	Inventory     *models.InventoryItem
	NewBalance    int64
}

// DailyClaimResult is the outcome of a daily bonus claim
type DailyClaimResult struct {
	Amount     int64
	Streak     int
	NewBalance int64
	NextClaim  time.Time
}
