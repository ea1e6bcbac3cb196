package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gemarcade/database"
	"gemarcade/models"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `id, username, balance, banned, ban_reason, max_loss_per_day, max_plays_per_day,
	daily_streak, last_daily_claim_at, created_at, updated_at`

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Balance,
		&account.Banned,
		&account.BanReason,
		&account.SelfLimits.MaxLossPerDay,
		&account.SelfLimits.MaxPlaysPerDay,
		&account.DailyStreak,
		&account.LastDailyClaim,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", id, err)
	}
	return account, nil
}

// GetByIDForUpdate retrieves an account and holds its row lock until the
// surrounding transaction ends
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	account, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %s: %w", id, err)
	}
	return account, nil
}

// Create inserts an account with a zero balance. It returns nil when the
// account already exists.
func (r *AccountRepository) Create(ctx context.Context, id, username string) (*models.Account, error) {
	query := `
		INSERT INTO accounts (id, username, balance)
		VALUES ($1, $2, 0)
		ON CONFLICT (id) DO NOTHING
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, id, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create account %s: %w", id, err)
	}
	return account, nil
}

// UpdateBalance sets an account's balance
func (r *AccountRepository) UpdateBalance(ctx context.Context, id string, newBalance int64) error {
	query := `
		UPDATE accounts
		SET balance = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, newBalance, id)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found", id)
	}
	return nil
}

// SetBanned sets or clears the ban flag
func (r *AccountRepository) SetBanned(ctx context.Context, id string, banned bool, reason *string) error {
	query := `
		UPDATE accounts
		SET banned = $1, ban_reason = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.q.Exec(ctx, query, banned, reason, id)
	if err != nil {
		return fmt.Errorf("failed to set ban for account %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found", id)
	}
	return nil
}

// SetSelfLimits replaces the daily caps
func (r *AccountRepository) SetSelfLimits(ctx context.Context, id string, limits models.SelfLimits) error {
	query := `
		UPDATE accounts
		SET max_loss_per_day = $1, max_plays_per_day = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.q.Exec(ctx, query, limits.MaxLossPerDay, limits.MaxPlaysPerDay, id)
	if err != nil {
		return fmt.Errorf("failed to set self limits for account %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found", id)
	}
	return nil
}

// RecordDailyClaim stores the streak and claim time
func (r *AccountRepository) RecordDailyClaim(ctx context.Context, id string, streak int, claimedAt time.Time) error {
	query := `
		UPDATE accounts
		SET daily_streak = $1, last_daily_claim_at = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.q.Exec(ctx, query, streak, claimedAt, id)
	if err != nil {
		return fmt.Errorf("failed to record daily claim for account %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found", id)
	}
	return nil
}
