package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gemarcade/database"
	"gemarcade/models"

	"github.com/jackc/pgx/v5"
)

// LedgerRepository implements the LedgerRepository interface. Entries are
// only ever inserted.
type LedgerRepository struct {
	q queryable
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{q: db.Pool}
}

// newLedgerRepositoryWithTx creates a new ledger repository with a transaction
func newLedgerRepositoryWithTx(tx queryable) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

// Append writes a new entry
func (r *LedgerRepository) Append(ctx context.Context, entry *models.LedgerEntry) error {
	metadataJSON, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal entry metadata: %w", err)
	}

	query := `
		INSERT INTO ledger_entries (account_id, type, amount, balance_after, correlation_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		entry.AccountID,
		entry.Type,
		entry.Amount,
		entry.BalanceAfter,
		entry.CorrelationID,
		metadataJSON,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry for account %s: %w", entry.AccountID, err)
	}
	return nil
}

// SumAmountsSince sums entry amounts at or after since
func (r *LedgerRepository) SumAmountsSince(ctx context.Context, accountID string, since time.Time, onlyNegative bool) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)::BIGINT
		FROM ledger_entries
		WHERE account_id = $1 AND created_at >= $2 AND (NOT $3 OR amount < 0)
	`

	var sum int64
	if err := r.q.QueryRow(ctx, query, accountID, since, onlyNegative).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum entries for account %s: %w", accountID, err)
	}
	return sum, nil
}

// CountEntriesSince counts entries at or after since
func (r *LedgerRepository) CountEntriesSince(ctx context.Context, accountID string, since time.Time, onlyNegative bool) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM ledger_entries
		WHERE account_id = $1 AND created_at >= $2 AND (NOT $3 OR amount < 0)
	`

	var count int64
	if err := r.q.QueryRow(ctx, query, accountID, since, onlyNegative).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries for account %s: %w", accountID, err)
	}
	return count, nil
}

// GetByAccount returns the newest entries for an account
func (r *LedgerRepository) GetByAccount(ctx context.Context, accountID string, limit int) ([]*models.LedgerEntry, error) {
	query := `
		SELECT id, account_id, type, amount, balance_after, correlation_id, metadata, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for account %s: %w", accountID, err)
	}
	defer rows.Close()

	return scanLedgerEntries(rows)
}

// GetByCorrelationID returns the entries of one logical action in order
func (r *LedgerRepository) GetByCorrelationID(ctx context.Context, correlationID string) ([]*models.LedgerEntry, error) {
	query := `
		SELECT id, account_id, type, amount, balance_after, correlation_id, metadata, created_at
		FROM ledger_entries
		WHERE correlation_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, correlationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for correlation %s: %w", correlationID, err)
	}
	defer rows.Close()

	return scanLedgerEntries(rows)
}

func scanLedgerEntries(rows pgx.Rows) ([]*models.LedgerEntry, error) {
	var entries []*models.LedgerEntry
	for rows.Next() {
		var entry models.LedgerEntry
		var metadataJSON []byte
		err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.Type,
			&entry.Amount,
			&entry.BalanceAfter,
			&entry.CorrelationID,
			&metadataJSON,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal entry metadata: %w", err)
			}
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}
	return entries, nil
}
