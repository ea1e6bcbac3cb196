package service

import (
	"context"
	"fmt"
	"time"

	"gemarcade/events"
	"gemarcade/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// EconomySettings holds the grant and bonus amounts
type EconomySettings struct {
	StartingBalance  int64
	DailyBonusBase   int64
	DailyStreakBonus int64
	DailyStreakCap   int64
}

// DefaultEconomySettings returns the stock amounts
func DefaultEconomySettings() EconomySettings {
	return EconomySettings{
		StartingBalance:  1000,
		DailyBonusBase:   250,
		DailyStreakBonus: 25,
		DailyStreakCap:   250,
	}
}

// accountService implements the AccountService interface
type accountService struct {
	uowFactory UnitOfWorkFactory
	settings   EconomySettings
}

// NewAccountService creates a new account service
func NewAccountService(uowFactory UnitOfWorkFactory, settings EconomySettings) AccountService {
	return &accountService{
		uowFactory: uowFactory,
		settings:   settings,
	}
}

// GetOrCreateAccount retrieves an existing account or opens one with the starting grant
func (s *accountService) GetOrCreateAccount(ctx context.Context, accountID, username string) (*models.Account, error) {
	var account *models.Account
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		account, err = getOrCreateAccount(ctx, uow, accountID, username, s.settings.StartingBalance)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// getOrCreateAccount opens the account inside uow. The insert ignores
// conflicts so two first requests for the same player grant only once.
func getOrCreateAccount(ctx context.Context, uow UnitOfWork, accountID, username string, startingBalance int64) (*models.Account, error) {
	accountRepo := uow.AccountRepository()

	account, err := accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if account != nil {
		return account, nil
	}

	account, err = accountRepo.Create(ctx, accountID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	if account == nil {
		// Lost the race to a concurrent create
		account, err = accountRepo.GetByID(ctx, accountID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch account after conflict: %w", err)
		}
		if account == nil {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
		}
		return account, nil
	}

	if startingBalance > 0 {
		entry, err := ApplyEntry(ctx, uow, EntryRequest{
			AccountID:     accountID,
			Amount:        startingBalance,
			Type:          models.TransactionTypeInitialGrant,
			CorrelationID: uuid.NewString(),
			Metadata:      map[string]any{"username": username},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to record starting grant: %w", err)
		}
		account.Balance = entry.BalanceAfter
	}

	uow.EventBus().Publish(events.AccountCreatedEvent{
		AccountID:      accountID,
		Username:       username,
		InitialBalance: account.Balance,
	})

	log.WithFields(log.Fields{
		"accountId": accountID,
		"balance":   account.Balance,
	}).Info("Opened account")

	return account, nil
}

// GetAccount returns an account or ErrAccountNotFound
func (s *accountService) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	var account *models.Account
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		account, err = uow.AccountRepository().GetByID(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to get account: %w", err)
		}
		if account == nil {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// SetSelfLimits replaces the account's daily caps. Nil clears a cap.
func (s *accountService) SetSelfLimits(ctx context.Context, accountID string, limits models.SelfLimits) error {
	for _, limit := range []*int64{limits.MaxLossPerDay, limits.MaxPlaysPerDay} {
		if limit != nil && *limit <= 0 {
			return fmt.Errorf("%w: limits must be positive", ErrInvalidWager)
		}
	}

	return withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		account, err := uow.AccountRepository().GetByIDForUpdate(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to lock account: %w", err)
		}
		if account == nil {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
		}
		if err := uow.AccountRepository().SetSelfLimits(ctx, accountID, limits); err != nil {
			return fmt.Errorf("failed to set self limits: %w", err)
		}
		return nil
	})
}

// ClaimDaily pays the once-per-UTC-day bonus. Consecutive days grow the
// streak bonus up to its cap.
func (s *accountService) ClaimDaily(ctx context.Context, accountID string) (*DailyClaimResult, error) {
	var result *DailyClaimResult
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		account, err := uow.AccountRepository().GetByIDForUpdate(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to lock account: %w", err)
		}
		if account == nil {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
		}

		at := now()
		today := StartOfUTCDay(at)
		streak := 1
		if last := account.LastDailyClaim; last != nil {
			lastDay := StartOfUTCDay(*last)
			if !lastDay.Before(today) {
				return ErrAlreadyClaimed
			}
			if lastDay.Equal(today.AddDate(0, 0, -1)) {
				streak = account.DailyStreak + 1
			}
		}

		amount := s.dailyBonus(streak)
		entry, err := ApplyEntry(ctx, uow, EntryRequest{
			AccountID:     accountID,
			Amount:        amount,
			Type:          models.TransactionTypeDailyBonus,
			CorrelationID: uuid.NewString(),
			Metadata:      map[string]any{"streak": streak},
		})
		if err != nil {
			return err
		}

		if err := uow.AccountRepository().RecordDailyClaim(ctx, accountID, streak, at); err != nil {
			return fmt.Errorf("failed to record daily claim: %w", err)
		}

		result = &DailyClaimResult{
			Amount:     amount,
			Streak:     streak,
			NewBalance: entry.BalanceAfter,
			NextClaim:  GetNextResetTime(at, 0),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *accountService) dailyBonus(streak int) int64 {
	extra := s.settings.DailyStreakBonus * int64(streak-1)
	if extra > s.settings.DailyStreakCap {
		extra = s.settings.DailyStreakCap
	}
	return s.settings.DailyBonusBase + extra
}

// History returns the most recent ledger entries, newest first
func (s *accountService) History(ctx context.Context, accountID string, limit int) ([]*models.LedgerEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var entries []*models.LedgerEntry
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		entries, err = uow.LedgerRepository().GetByAccount(ctx, accountID, limit)
		if err != nil {
			return fmt.Errorf("failed to get history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// NextDailyClaim reports when the account may claim again
func NextDailyClaim(account *models.Account, at time.Time) time.Time {
	if account.LastDailyClaim == nil || StartOfUTCDay(*account.LastDailyClaim).Before(StartOfUTCDay(at)) {
		return at
	}
	return GetNextResetTime(at, 0)
}
