package repository

import (
	"context"
	"errors"
	"fmt"

	"gemarcade/database"
	"gemarcade/models"

	"github.com/jackc/pgx/v5"
)

// GameConfigRepository implements the GameConfigRepository interface
type GameConfigRepository struct {
	q queryable
}

// NewGameConfigRepository creates a new game config repository
func NewGameConfigRepository(db *database.DB) *GameConfigRepository {
	return &GameConfigRepository{q: db.Pool}
}

// newGameConfigRepositoryWithTx creates a new game config repository with a transaction
func newGameConfigRepositoryWithTx(tx queryable) *GameConfigRepository {
	return &GameConfigRepository{q: tx}
}

func (r *GameConfigRepository) get(ctx context.Context, key models.GameKey, lock bool) (*models.GameConfig, error) {
	query := `
		SELECT key, enabled, config, version, updated_by, updated_at
		FROM game_configs
		WHERE key = $1
	`
	if lock {
		query += ` FOR UPDATE`
	}

	var cfg models.GameConfig
	err := r.q.QueryRow(ctx, query, key).Scan(
		&cfg.Key,
		&cfg.Enabled,
		&cfg.Config,
		&cfg.Version,
		&cfg.UpdatedBy,
		&cfg.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game config %s: %w", key, err)
	}
	return &cfg, nil
}

// Get retrieves the current config for a game
func (r *GameConfigRepository) Get(ctx context.Context, key models.GameKey) (*models.GameConfig, error) {
	return r.get(ctx, key, false)
}

// GetForUpdate retrieves and locks the current config for a game
func (r *GameConfigRepository) GetForUpdate(ctx context.Context, key models.GameKey) (*models.GameConfig, error) {
	return r.get(ctx, key, true)
}

// InsertIfMissing creates the row unless one exists; it reports whether it inserted
func (r *GameConfigRepository) InsertIfMissing(ctx context.Context, cfg *models.GameConfig) (bool, error) {
	query := `
		INSERT INTO game_configs (key, enabled, config, version, updated_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO NOTHING
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query, cfg.Key, cfg.Enabled, []byte(cfg.Config), cfg.Version, cfg.UpdatedBy).Scan(&cfg.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert game config %s: %w", cfg.Key, err)
	}
	return true, nil
}

// Update overwrites the current row
func (r *GameConfigRepository) Update(ctx context.Context, cfg *models.GameConfig) error {
	query := `
		UPDATE game_configs
		SET enabled = $1, config = $2, version = $3, updated_by = $4, updated_at = NOW()
		WHERE key = $5
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query, cfg.Enabled, []byte(cfg.Config), cfg.Version, cfg.UpdatedBy, cfg.Key).Scan(&cfg.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("game config %s not found", cfg.Key)
	}
	if err != nil {
		return fmt.Errorf("failed to update game config %s: %w", cfg.Key, err)
	}
	return nil
}

// AppendHistory records a superseded version
func (r *GameConfigRepository) AppendHistory(ctx context.Context, history *models.GameConfigHistory) error {
	query := `
		INSERT INTO game_config_history (key, enabled, config, version, updated_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, recorded_at
	`

	err := r.q.QueryRow(ctx, query,
		history.Key,
		history.Enabled,
		[]byte(history.Config),
		history.Version,
		history.UpdatedBy,
	).Scan(&history.ID, &history.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to record config history for %s: %w", history.Key, err)
	}
	return nil
}

// GetHistory returns superseded versions, newest first
func (r *GameConfigRepository) GetHistory(ctx context.Context, key models.GameKey, limit int) ([]*models.GameConfigHistory, error) {
	query := `
		SELECT id, key, enabled, config, version, updated_by, recorded_at
		FROM game_config_history
		WHERE key = $1
		ORDER BY version DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, key, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query config history for %s: %w", key, err)
	}
	defer rows.Close()

	var history []*models.GameConfigHistory
	for rows.Next() {
		var h models.GameConfigHistory
		if err := rows.Scan(&h.ID, &h.Key, &h.Enabled, &h.Config, &h.Version, &h.UpdatedBy, &h.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan config history: %w", err)
		}
		history = append(history, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating config history: %w", err)
	}
	return history, nil
}
