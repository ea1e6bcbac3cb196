package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gemarcade/database"
	"gemarcade/games/loot"
	"gemarcade/models"

	"github.com/jackc/pgx/v5"
)

// CaseRepository implements the CaseRepository interface
type CaseRepository struct {
	q queryable
}

// NewCaseRepository creates a new case repository
func NewCaseRepository(db *database.DB) *CaseRepository {
	return &CaseRepository{q: db.Pool}
}

// newCaseRepositoryWithTx creates a new case repository with a transaction
func newCaseRepositoryWithTx(tx queryable) *CaseRepository {
	return &CaseRepository{q: tx}
}

const caseColumns = `key, name, price, enabled, rarity_weights, item_pools, created_at, updated_at`

func scanCase(row pgx.Row) (*models.CaseDefinition, error) {
	var def models.CaseDefinition
	var weights, pools []byte
	if err := row.Scan(&def.Key, &def.Name, &def.Price, &def.Enabled, &weights, &pools, &def.CreatedAt, &def.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(weights, &def.Weights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rarity weights for case %s: %w", def.Key, err)
	}
	if err := json.Unmarshal(pools, &def.Pools); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item pools for case %s: %w", def.Key, err)
	}
	return &def, nil
}

// GetCase retrieves a case definition by key
func (r *CaseRepository) GetCase(ctx context.Context, key string) (*models.CaseDefinition, error) {
	def, err := scanCase(r.q.QueryRow(ctx, `SELECT `+caseColumns+` FROM case_definitions WHERE key = $1`, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get case %s: %w", key, err)
	}
	return def, nil
}

// ListCases returns case definitions ordered by price
func (r *CaseRepository) ListCases(ctx context.Context, enabledOnly bool) ([]*models.CaseDefinition, error) {
	query := `SELECT ` + caseColumns + `
		FROM case_definitions
		WHERE (NOT $1 OR enabled)
		ORDER BY price, key`

	rows, err := r.q.Query(ctx, query, enabledOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query cases: %w", err)
	}
	defer rows.Close()

	var defs []*models.CaseDefinition
	for rows.Next() {
		def, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cases: %w", err)
	}
	return defs, nil
}

// UpsertCase creates or replaces a case definition
func (r *CaseRepository) UpsertCase(ctx context.Context, def *models.CaseDefinition) error {
	weights, err := json.Marshal(def.Weights)
	if err != nil {
		return fmt.Errorf("failed to marshal rarity weights: %w", err)
	}
	pools, err := json.Marshal(def.Pools)
	if err != nil {
		return fmt.Errorf("failed to marshal item pools: %w", err)
	}

	query := `
		INSERT INTO case_definitions (key, name, price, enabled, rarity_weights, item_pools)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			enabled = EXCLUDED.enabled,
			rarity_weights = EXCLUDED.rarity_weights,
			item_pools = EXCLUDED.item_pools,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err = r.q.QueryRow(ctx, query, def.Key, def.Name, def.Price, def.Enabled, weights, pools).
		Scan(&def.CreatedAt, &def.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert case %s: %w", def.Key, err)
	}
	return nil
}

// AddInventory increments the quantity of a held item
func (r *CaseRepository) AddInventory(ctx context.Context, accountID, itemKey string, rarity loot.Rarity, quantity int64) (*models.InventoryItem, error) {
	query := `
		INSERT INTO inventory_items (account_id, item_key, rarity, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id, item_key) DO UPDATE SET
			quantity = inventory_items.quantity + EXCLUDED.quantity,
			updated_at = NOW()
		RETURNING account_id, item_key, rarity, quantity, updated_at
	`

	var item models.InventoryItem
	err := r.q.QueryRow(ctx, query, accountID, itemKey, rarity, quantity).Scan(
		&item.AccountID,
		&item.ItemKey,
		&item.Rarity,
		&item.Quantity,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add %s to inventory of %s: %w", itemKey, accountID, err)
	}
	return &item, nil
}

// GetInventory returns every item an account holds
func (r *CaseRepository) GetInventory(ctx context.Context, accountID string) ([]*models.InventoryItem, error) {
	query := `
		SELECT account_id, item_key, rarity, quantity, updated_at
		FROM inventory_items
		WHERE account_id = $1 AND quantity > 0
		ORDER BY rarity, item_key
	`

	rows, err := r.q.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	var items []*models.InventoryItem
	for rows.Next() {
		var item models.InventoryItem
		if err := rows.Scan(&item.AccountID, &item.ItemKey, &item.Rarity, &item.Quantity, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory: %w", err)
	}
	return items, nil
}

// AppendOpenLog records a case opening
func (r *CaseRepository) AppendOpenLog(ctx context.Context, entry *models.CaseOpenLog) error {
	query := `
		INSERT INTO case_open_logs (account_id, case_key, correlation_id, price, rarity, item_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.AccountID,
		entry.CaseKey,
		entry.CorrelationID,
		entry.Price,
		entry.Rarity,
		entry.ItemKey,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record case open: %w", err)
	}
	return nil
}
