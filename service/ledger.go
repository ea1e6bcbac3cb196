package service

import (
	"context"
	"fmt"
	"maps"

	"gemarcade/events"
	"gemarcade/models"

	log "github.com/sirupsen/logrus"
)

// EntryRequest describes one balance change
type EntryRequest struct {
	AccountID     string
	Amount        int64
	Type          models.TransactionType
	CorrelationID string
	Metadata      map[string]any
}

// BetAndPayoutRequest pairs a stake with its settled return
type BetAndPayoutRequest struct {
	AccountID     string
	Bet           int64
	Payout        int64
	BetType       models.TransactionType
	PayoutType    models.TransactionType
	CorrelationID string
	Metadata      map[string]any
}

// BetAndPayoutResult holds the entries written for one round
type BetAndPayoutResult struct {
	BetEntry    *models.LedgerEntry
	PayoutEntry *models.LedgerEntry
	NewBalance  int64
}

// ApplyEntry is the single entry point for balance changes. It locks the
// account row, checks ban and self-limits, refuses to go negative, then
// updates the balance and appends the entry. uow must be started; nothing
// is visible until the caller commits.
func ApplyEntry(ctx context.Context, uow UnitOfWork, req EntryRequest) (*models.LedgerEntry, error) {
	if req.Amount == 0 {
		return nil, fmt.Errorf("%w: zero amount entry", ErrInvalidWager)
	}

	accountRepo := uow.AccountRepository()
	account, err := accountRepo.GetByIDForUpdate(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %s: %w", req.AccountID, err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, req.AccountID)
	}
	if account.Banned {
		return nil, ErrAccountBanned
	}

	if req.Amount < 0 && account.SelfLimits.IsSet() {
		if err := checkSelfLimits(ctx, uow.LedgerRepository(), account, -req.Amount); err != nil {
			return nil, err
		}
	}

	oldBalance := account.Balance
	newBalance := oldBalance + req.Amount
	if newBalance < 0 {
		return nil, fmt.Errorf("%w: balance %d, debit %d", ErrInsufficientFunds, oldBalance, -req.Amount)
	}

	if err := accountRepo.UpdateBalance(ctx, account.ID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to update balance for %s: %w", account.ID, err)
	}

	entry := &models.LedgerEntry{
		AccountID:     account.ID,
		Type:          req.Type,
		Amount:        req.Amount,
		BalanceAfter:  newBalance,
		CorrelationID: req.CorrelationID,
		Metadata:      req.Metadata,
	}
	if entry.Metadata == nil {
		entry.Metadata = map[string]any{}
	}
	if err := uow.LedgerRepository().Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		AccountID:       account.ID,
		OldBalance:      oldBalance,
		NewBalance:      newBalance,
		ChangeAmount:    req.Amount,
		TransactionType: req.Type,
		CorrelationID:   req.CorrelationID,
	})

	log.WithFields(log.Fields{
		"accountId":       account.ID,
		"amount":          req.Amount,
		"balanceAfter":    newBalance,
		"transactionType": req.Type,
		"correlationId":   req.CorrelationID,
	}).Debug("Applied ledger entry")

	return entry, nil
}

// checkSelfLimits re-aggregates today's debits from the entry log. The
// account row is already locked, so concurrent debits see each other.
func checkSelfLimits(ctx context.Context, ledger LedgerRepository, account *models.Account, debit int64) error {
	since := StartOfUTCDay(now())

	if maxLoss := account.SelfLimits.MaxLossPerDay; maxLoss != nil {
		debits, err := ledger.SumAmountsSince(ctx, account.ID, since, true)
		if err != nil {
			return fmt.Errorf("failed to sum daily losses: %w", err)
		}
		if -debits+debit > *maxLoss {
			return fmt.Errorf("%w: loss %d of %d", ErrLimitExceeded, -debits, *maxLoss)
		}
	}

	if maxPlays := account.SelfLimits.MaxPlaysPerDay; maxPlays != nil {
		plays, err := ledger.CountEntriesSince(ctx, account.ID, since, true)
		if err != nil {
			return fmt.Errorf("failed to count daily plays: %w", err)
		}
		if plays >= *maxPlays {
			return fmt.Errorf("%w: %d of %d plays", ErrLimitExceeded, plays, *maxPlays)
		}
	}

	return nil
}

// ApplyBetAndPayout records a stake and its return inside the caller's unit
// of work. The payout entry is skipped when payout is zero.
func ApplyBetAndPayout(ctx context.Context, uow UnitOfWork, req BetAndPayoutRequest) (*BetAndPayoutResult, error) {
	if req.Bet <= 0 {
		return nil, fmt.Errorf("%w: bet must be positive", ErrInvalidWager)
	}
	if req.Payout < 0 {
		return nil, fmt.Errorf("%w: payout must not be negative", ErrInvalidWager)
	}

	betEntry, err := ApplyEntry(ctx, uow, EntryRequest{
		AccountID:     req.AccountID,
		Amount:        -req.Bet,
		Type:          req.BetType,
		CorrelationID: req.CorrelationID,
		Metadata:      withStage(req.Metadata, "bet"),
	})
	if err != nil {
		return nil, err
	}

	result := &BetAndPayoutResult{BetEntry: betEntry, NewBalance: betEntry.BalanceAfter}
	if req.Payout == 0 {
		return result, nil
	}

	payoutEntry, err := ApplyEntry(ctx, uow, EntryRequest{
		AccountID:     req.AccountID,
		Amount:        req.Payout,
		Type:          req.PayoutType,
		CorrelationID: req.CorrelationID,
		Metadata:      withStage(req.Metadata, "payout"),
	})
	if err != nil {
		return nil, err
	}

	result.PayoutEntry = payoutEntry
	result.NewBalance = payoutEntry.BalanceAfter
	return result, nil
}

func withStage(metadata map[string]any, stage string) map[string]any {
	out := make(map[string]any, len(metadata)+1)
	maps.Copy(out, metadata)
	out["stage"] = stage
	return out
}
