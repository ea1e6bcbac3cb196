package repository

import (
	"context"
	"errors"
	"fmt"

	"gemarcade/database"
	"gemarcade/models"

	"github.com/jackc/pgx/v5"
)

// FairSeedRepository implements the FairSeedRepository interface
type FairSeedRepository struct {
	q queryable
}

// NewFairSeedRepository creates a new fair seed repository
func NewFairSeedRepository(db *database.DB) *FairSeedRepository {
	return &FairSeedRepository{q: db.Pool}
}

// newFairSeedRepositoryWithTx creates a new fair seed repository with a transaction
func newFairSeedRepositoryWithTx(tx queryable) *FairSeedRepository {
	return &FairSeedRepository{q: tx}
}

// GetForUpdate returns the account's committed seed and locks it, or nil
// when none has been committed
func (r *FairSeedRepository) GetForUpdate(ctx context.Context, accountID string) (*models.FairSeed, error) {
	query := `
		SELECT account_id, server_seed, seed_hash, nonce, created_at
		FROM fair_seeds
		WHERE account_id = $1
		FOR UPDATE
	`

	var seed models.FairSeed
	err := r.q.QueryRow(ctx, query, accountID).Scan(
		&seed.AccountID,
		&seed.ServerSeed,
		&seed.SeedHash,
		&seed.Nonce,
		&seed.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fair seed for %s: %w", accountID, err)
	}
	return &seed, nil
}

// Replace commits a new seed for the account and resets its nonce
func (r *FairSeedRepository) Replace(ctx context.Context, seed *models.FairSeed) error {
	query := `
		INSERT INTO fair_seeds (account_id, server_seed, seed_hash, nonce)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (account_id) DO UPDATE
		SET server_seed = EXCLUDED.server_seed,
		    seed_hash = EXCLUDED.seed_hash,
		    nonce = 0,
		    created_at = NOW()
		RETURNING nonce, created_at
	`

	err := r.q.QueryRow(ctx, query, seed.AccountID, seed.ServerSeed, seed.SeedHash).Scan(&seed.Nonce, &seed.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to replace fair seed for %s: %w", seed.AccountID, err)
	}
	return nil
}

// IncrementNonce advances the account's nonce after a seeded spin
func (r *FairSeedRepository) IncrementNonce(ctx context.Context, accountID string) error {
	tag, err := r.q.Exec(ctx, `UPDATE fair_seeds SET nonce = nonce + 1 WHERE account_id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("failed to increment nonce for %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no fair seed for %s", accountID)
	}
	return nil
}
