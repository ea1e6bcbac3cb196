package repository

import (
	"context"
	"errors"
	"fmt"

	"gemarcade/database"
	"gemarcade/models"

	"github.com/jackc/pgx/v5"
)

// JackpotRepository implements the JackpotRepository interface
type JackpotRepository struct {
	q queryable
}

// NewJackpotRepository creates a new jackpot repository
func NewJackpotRepository(db *database.DB) *JackpotRepository {
	return &JackpotRepository{q: db.Pool}
}

// newJackpotRepositoryWithTx creates a new jackpot repository with a transaction
func newJackpotRepositoryWithTx(tx queryable) *JackpotRepository {
	return &JackpotRepository{q: tx}
}

const jackpotRoundColumns = `id, status, pot, seed_hash, server_seed, ends_at, winner_id,
	winning_ticket, payout, house_cut_bps, settled_at, created_at`

func scanJackpotRound(row pgx.Row) (*models.JackpotRound, error) {
	var round models.JackpotRound
	err := row.Scan(
		&round.ID,
		&round.Status,
		&round.Pot,
		&round.SeedHash,
		&round.ServerSeed,
		&round.EndsAt,
		&round.WinnerID,
		&round.WinningTicket,
		&round.Payout,
		&round.HouseCutBps,
		&round.SettledAt,
		&round.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &round, nil
}

// CreateRound inserts an OPEN round. The partial unique index on status
// makes a concurrent second insert a no-op, reported as false.
func (r *JackpotRepository) CreateRound(ctx context.Context, round *models.JackpotRound) (bool, error) {
	query := `
		INSERT INTO jackpot_rounds (id, status, pot, seed_hash, server_seed, ends_at, house_cut_bps)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT DO NOTHING
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		round.ID,
		round.Status,
		round.Pot,
		round.SeedHash,
		round.ServerSeed,
		round.EndsAt,
		round.HouseCutBps,
	).Scan(&round.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create jackpot round: %w", err)
	}
	return true, nil
}

func (r *JackpotRepository) getRound(ctx context.Context, query string, args ...any) (*models.JackpotRound, error) {
	round, err := scanJackpotRound(r.q.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get jackpot round: %w", err)
	}
	return round, nil
}

// GetRound retrieves a round by ID
func (r *JackpotRepository) GetRound(ctx context.Context, id string) (*models.JackpotRound, error) {
	return r.getRound(ctx, `SELECT `+jackpotRoundColumns+` FROM jackpot_rounds WHERE id = $1`, id)
}

// GetRoundForUpdate retrieves and locks a round
func (r *JackpotRepository) GetRoundForUpdate(ctx context.Context, id string) (*models.JackpotRound, error) {
	return r.getRound(ctx, `SELECT `+jackpotRoundColumns+` FROM jackpot_rounds WHERE id = $1 FOR UPDATE`, id)
}

// GetLatestOpen returns the newest OPEN round
func (r *JackpotRepository) GetLatestOpen(ctx context.Context) (*models.JackpotRound, error) {
	query := `SELECT ` + jackpotRoundColumns + `
		FROM jackpot_rounds
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT 1`
	return r.getRound(ctx, query, models.JackpotStatusOpen)
}

// UpdateRound stores the settlement fields of a round
func (r *JackpotRepository) UpdateRound(ctx context.Context, round *models.JackpotRound) error {
	query := `
		UPDATE jackpot_rounds
		SET status = $1, pot = $2, winner_id = $3, winning_ticket = $4, payout = $5, settled_at = $6
		WHERE id = $7
	`

	result, err := r.q.Exec(ctx, query,
		round.Status,
		round.Pot,
		round.WinnerID,
		round.WinningTicket,
		round.Payout,
		round.SettledAt,
		round.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update jackpot round %s: %w", round.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("jackpot round %s not found", round.ID)
	}
	return nil
}

// AddEntry records a buy-in
func (r *JackpotRepository) AddEntry(ctx context.Context, entry *models.JackpotEntry) error {
	query := `
		INSERT INTO jackpot_entries (round_id, account_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, entry.RoundID, entry.AccountID, entry.Amount).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add jackpot entry: %w", err)
	}
	return nil
}

// IncrementPot adds to a round's pot
func (r *JackpotRepository) IncrementPot(ctx context.Context, roundID string, amount int64) error {
	result, err := r.q.Exec(ctx, `UPDATE jackpot_rounds SET pot = pot + $1 WHERE id = $2`, amount, roundID)
	if err != nil {
		return fmt.Errorf("failed to increment pot for round %s: %w", roundID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("jackpot round %s not found", roundID)
	}
	return nil
}

// GetEntries returns a round's entries in insertion order
func (r *JackpotRepository) GetEntries(ctx context.Context, roundID string) ([]*models.JackpotEntry, error) {
	query := `
		SELECT id, round_id, account_id, amount, created_at
		FROM jackpot_entries
		WHERE round_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to query jackpot entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.JackpotEntry
	for rows.Next() {
		var e models.JackpotEntry
		if err := rows.Scan(&e.ID, &e.RoundID, &e.AccountID, &e.Amount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan jackpot entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jackpot entries: %w", err)
	}
	return entries, nil
}
