package service

import (
	"context"
	"testing"

	"gemarcade/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdminService_SetBanned(t *testing.T) {
	ctx := context.Background()
	u := newTestUoW()
	u.expectCommit()
	u.withAccount(testAccount("acc-1", 100))
	u.repos.Accounts.On("SetBanned", ctx, "acc-1", true, mock.MatchedBy(func(r *string) bool {
		return r != nil && *r == "botting"
	})).Return(nil)
	u.repos.AuditLogs.On("Append", ctx, mock.MatchedBy(func(a *models.AuditLog) bool {
		return a.Action == models.AuditActionBan && a.ActorID == "admin" && a.TargetID == "acc-1"
	})).Return(nil)

	svc := NewAdminService(u.factory)
	require.NoError(t, svc.SetBanned(ctx, "admin", "acc-1", true, "botting"))

	u.repos.Accounts.AssertExpectations(t)
	u.repos.AuditLogs.AssertExpectations(t)
}

func TestAdminService_Unban(t *testing.T) {
	ctx := context.Background()
	u := newTestUoW()
	u.expectCommit()
	u.withAccount(testAccount("acc-1", 100))
	u.repos.Accounts.On("SetBanned", ctx, "acc-1", false, (*string)(nil)).Return(nil)
	u.repos.AuditLogs.On("Append", ctx, mock.MatchedBy(func(a *models.AuditLog) bool {
		return a.Action == models.AuditActionUnban
	})).Return(nil)

	svc := NewAdminService(u.factory)
	require.NoError(t, svc.SetBanned(ctx, "admin", "acc-1", false, "appeal"))
}

func TestAdminService_AdjustBalance(t *testing.T) {
	ctx := context.Background()
	u := newTestUoW()
	u.expectCommit()
	u.withAccount(testAccount("acc-1", 100))
	u.repos.AuditLogs.On("Append", ctx, mock.AnythingOfType("*models.AuditLog")).Return(nil)

	svc := NewAdminService(u.factory)
	balance, err := svc.AdjustBalance(ctx, "admin", "acc-1", -40, "refund reversal")

	require.NoError(t, err)
	assert.Equal(t, int64(60), balance)
	require.Len(t, u.entries, 1)
	assert.Equal(t, models.TransactionTypeAdminAdjust, u.entries[0].Type)
	assert.Equal(t, "admin", u.entries[0].Metadata["actorId"])
}

func TestAdminService_AdjustBalance_CannotOverdraw(t *testing.T) {
	ctx := context.Background()
	u := newTestUoW()
	u.withAccount(testAccount("acc-1", 100))

	svc := NewAdminService(u.factory)
	_, err := svc.AdjustBalance(ctx, "admin", "acc-1", -500, "")

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	u.repos.AuditLogs.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}
