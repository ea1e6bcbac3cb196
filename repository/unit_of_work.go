package repository

import (
	"context"
	"errors"
	"fmt"

	"gemarcade/database"
	"gemarcade/events"
	"gemarcade/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db                   *database.DB
	tx                   pgx.Tx
	ctx                  context.Context
	transactionalBus     *events.TransactionalBus
	accountRepo          service.AccountRepository
	ledgerRepo           service.LedgerRepository
	gameConfigRepo       service.GameConfigRepository
	minesRoundRepo       service.MinesRoundRepository
	blackjackSessionRepo service.BlackjackSessionRepository
	jackpotRepo          service.JackpotRepository
	caseRepo             service.CaseRepository
	auditLogRepo         service.AuditLogRepository
	fairSeedRepo         service.FairSeedRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.accountRepo = newAccountRepositoryWithTx(tx)
	u.ledgerRepo = newLedgerRepositoryWithTx(tx)
	u.gameConfigRepo = newGameConfigRepositoryWithTx(tx)
	u.minesRoundRepo = newMinesRoundRepositoryWithTx(tx)
	u.blackjackSessionRepo = newBlackjackSessionRepositoryWithTx(tx)
	u.jackpotRepo = newJackpotRepositoryWithTx(tx)
	u.caseRepo = newCaseRepositoryWithTx(tx)
	u.auditLogRepo = newAuditLogRepositoryWithTx(tx)
	u.fairSeedRepo = newFairSeedRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		if err := u.transactionalBus.Flush(u.ctx); err != nil {
			return fmt.Errorf("failed to flush events: %w", err)
		}
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

func notStarted() {
	panic("unit of work not started - call Begin() first")
}

// AccountRepository returns the account repository for this unit of work
func (u *unitOfWork) AccountRepository() service.AccountRepository {
	if u.accountRepo == nil {
		notStarted()
	}
	return u.accountRepo
}

// LedgerRepository returns the ledger repository for this unit of work
func (u *unitOfWork) LedgerRepository() service.LedgerRepository {
	if u.ledgerRepo == nil {
		notStarted()
	}
	return u.ledgerRepo
}

// GameConfigRepository returns the game config repository for this unit of work
func (u *unitOfWork) GameConfigRepository() service.GameConfigRepository {
	if u.gameConfigRepo == nil {
		notStarted()
	}
	return u.gameConfigRepo
}

// MinesRoundRepository returns the mines round repository for this unit of work
func (u *unitOfWork) MinesRoundRepository() service.MinesRoundRepository {
	if u.minesRoundRepo == nil {
		notStarted()
	}
	return u.minesRoundRepo
}

// BlackjackSessionRepository returns the blackjack session repository for this unit of work
func (u *unitOfWork) BlackjackSessionRepository() service.BlackjackSessionRepository {
	if u.blackjackSessionRepo == nil {
		notStarted()
	}
	return u.blackjackSessionRepo
}

// JackpotRepository returns the jackpot repository for this unit of work
func (u *unitOfWork) JackpotRepository() service.JackpotRepository {
	if u.jackpotRepo == nil {
		notStarted()
	}
	return u.jackpotRepo
}

// CaseRepository returns the case repository for this unit of work
func (u *unitOfWork) CaseRepository() service.CaseRepository {
	if u.caseRepo == nil {
		notStarted()
	}
	return u.caseRepo
}

// AuditLogRepository returns the audit log repository for this unit of work
func (u *unitOfWork) AuditLogRepository() service.AuditLogRepository {
	if u.auditLogRepo == nil {
		notStarted()
	}
	return u.auditLogRepo
}

// FairSeedRepository returns the fair seed repository for this unit of work
func (u *unitOfWork) FairSeedRepository() service.FairSeedRepository {
	if u.fairSeedRepo == nil {
		notStarted()
	}
	return u.fairSeedRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		notStarted()
	}
	return u.transactionalBus
}
