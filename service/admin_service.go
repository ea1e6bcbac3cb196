package service

import (
	"context"
	"fmt"

	"gemarcade/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// adminService implements the AdminService interface
type adminService struct {
	uowFactory UnitOfWorkFactory
}

// NewAdminService creates a new admin service
func NewAdminService(uowFactory UnitOfWorkFactory) AdminService {
	return &adminService{uowFactory: uowFactory}
}

// SetBanned bans or unbans an account and records who did it
func (s *adminService) SetBanned(ctx context.Context, actorID, accountID string, banned bool, reason string) error {
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		account, err := uow.AccountRepository().GetByIDForUpdate(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to lock account: %w", err)
		}
		if account == nil {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
		}

		var reasonPtr *string
		if banned && reason != "" {
			reasonPtr = &reason
		}
		if err := uow.AccountRepository().SetBanned(ctx, accountID, banned, reasonPtr); err != nil {
			return fmt.Errorf("failed to update ban flag: %w", err)
		}

		action := models.AuditActionUnban
		if banned {
			action = models.AuditActionBan
		}
		return uow.AuditLogRepository().Append(ctx, &models.AuditLog{
			ActorID:  actorID,
			Action:   action,
			TargetID: accountID,
			Metadata: map[string]any{"reason": reason},
		})
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"actorId":   actorID,
		"accountId": accountID,
		"banned":    banned,
	}).Warn("Changed account ban")
	return nil
}

// AdjustBalance credits or debits an account through the ledger. Debits
// still cannot take the balance below zero.
func (s *adminService) AdjustBalance(ctx context.Context, actorID, accountID string, amount int64, reason string) (int64, error) {
	if amount == 0 {
		return 0, fmt.Errorf("%w: adjustment must be non-zero", ErrInvalidWager)
	}

	var balance int64
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		correlationID := uuid.NewString()
		entry, err := ApplyEntry(ctx, uow, EntryRequest{
			AccountID:     accountID,
			Amount:        amount,
			Type:          models.TransactionTypeAdminAdjust,
			CorrelationID: correlationID,
			Metadata: map[string]any{
				"actorId": actorID,
				"reason":  reason,
			},
		})
		if err != nil {
			return err
		}
		balance = entry.BalanceAfter

		return uow.AuditLogRepository().Append(ctx, &models.AuditLog{
			ActorID:  actorID,
			Action:   models.AuditActionAdjustBalance,
			TargetID: accountID,
			Metadata: map[string]any{
				"amount":        amount,
				"reason":        reason,
				"correlationId": correlationID,
			},
		})
	})
	if err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"actorId":   actorID,
		"accountId": accountID,
		"amount":    amount,
		"balance":   balance,
	}).Warn("Adjusted account balance")
	return balance, nil
}
