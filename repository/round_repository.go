package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gemarcade/database"
	"gemarcade/games/blackjack"
	"gemarcade/games/mines"
	"gemarcade/models"

	"github.com/jackc/pgx/v5"
)

// MinesRoundRepository implements the MinesRoundRepository interface. The
// engine state is stored as JSONB next to a denormalized status column.
type MinesRoundRepository struct {
	q queryable
}

// NewMinesRoundRepository creates a new mines round repository
func NewMinesRoundRepository(db *database.DB) *MinesRoundRepository {
	return &MinesRoundRepository{q: db.Pool}
}

// newMinesRoundRepositoryWithTx creates a new mines round repository with a transaction
func newMinesRoundRepositoryWithTx(tx queryable) *MinesRoundRepository {
	return &MinesRoundRepository{q: tx}
}

// Create inserts a new round
func (r *MinesRoundRepository) Create(ctx context.Context, round *models.MinesRound) error {
	state, err := json.Marshal(round.State)
	if err != nil {
		return fmt.Errorf("failed to marshal mines state: %w", err)
	}

	query := `
		INSERT INTO mines_rounds (id, account_id, bet, status, state, payout)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err = r.q.QueryRow(ctx, query,
		round.ID,
		round.AccountID,
		round.Bet,
		round.State.Status,
		state,
		round.Payout,
	).Scan(&round.CreatedAt, &round.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create mines round %s: %w", round.ID, err)
	}
	return nil
}

// GetByIDForUpdate retrieves and locks a round
func (r *MinesRoundRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.MinesRound, error) {
	query := `
		SELECT id, account_id, bet, state, payout, created_at, updated_at
		FROM mines_rounds
		WHERE id = $1
		FOR UPDATE
	`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetActiveByAccount returns the newest ACTIVE round for an account
func (r *MinesRoundRepository) GetActiveByAccount(ctx context.Context, accountID string) (*models.MinesRound, error) {
	query := `
		SELECT id, account_id, bet, state, payout, created_at, updated_at
		FROM mines_rounds
		WHERE account_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanOne(r.q.QueryRow(ctx, query, accountID, mines.StatusActive))
}

func (r *MinesRoundRepository) scanOne(row pgx.Row) (*models.MinesRound, error) {
	var round models.MinesRound
	var state []byte
	err := row.Scan(&round.ID, &round.AccountID, &round.Bet, &state, &round.Payout, &round.CreatedAt, &round.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mines round: %w", err)
	}
	if err := json.Unmarshal(state, &round.State); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mines state: %w", err)
	}
	return &round, nil
}

// Update stores the round's new state
func (r *MinesRoundRepository) Update(ctx context.Context, round *models.MinesRound) error {
	state, err := json.Marshal(round.State)
	if err != nil {
		return fmt.Errorf("failed to marshal mines state: %w", err)
	}

	query := `
		UPDATE mines_rounds
		SET status = $1, state = $2, payout = $3, updated_at = NOW()
		WHERE id = $4
	`

	result, err := r.q.Exec(ctx, query, round.State.Status, state, round.Payout, round.ID)
	if err != nil {
		return fmt.Errorf("failed to update mines round %s: %w", round.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("mines round %s not found", round.ID)
	}
	return nil
}

// BlackjackSessionRepository implements the BlackjackSessionRepository interface
type BlackjackSessionRepository struct {
	q queryable
}

// NewBlackjackSessionRepository creates a new blackjack session repository
func NewBlackjackSessionRepository(db *database.DB) *BlackjackSessionRepository {
	return &BlackjackSessionRepository{q: db.Pool}
}

// newBlackjackSessionRepositoryWithTx creates a new blackjack session repository with a transaction
func newBlackjackSessionRepositoryWithTx(tx queryable) *BlackjackSessionRepository {
	return &BlackjackSessionRepository{q: tx}
}

// Create inserts a new session
func (r *BlackjackSessionRepository) Create(ctx context.Context, session *models.BlackjackSession) error {
	state, err := json.Marshal(session.State)
	if err != nil {
		return fmt.Errorf("failed to marshal blackjack state: %w", err)
	}

	query := `
		INSERT INTO blackjack_sessions (id, account_id, bet, status, state, payout)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err = r.q.QueryRow(ctx, query,
		session.ID,
		session.AccountID,
		session.Bet,
		session.State.Status,
		state,
		session.Payout,
	).Scan(&session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create blackjack session %s: %w", session.ID, err)
	}
	return nil
}

// GetByIDForUpdate retrieves and locks a session
func (r *BlackjackSessionRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.BlackjackSession, error) {
	query := `
		SELECT id, account_id, bet, state, payout, created_at, updated_at
		FROM blackjack_sessions
		WHERE id = $1
		FOR UPDATE
	`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetActiveByAccount returns the newest ACTIVE session for an account
func (r *BlackjackSessionRepository) GetActiveByAccount(ctx context.Context, accountID string) (*models.BlackjackSession, error) {
	query := `
		SELECT id, account_id, bet, state, payout, created_at, updated_at
		FROM blackjack_sessions
		WHERE account_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanOne(r.q.QueryRow(ctx, query, accountID, blackjack.StatusActive))
}

func (r *BlackjackSessionRepository) scanOne(row pgx.Row) (*models.BlackjackSession, error) {
	var session models.BlackjackSession
	var state []byte
	err := row.Scan(&session.ID, &session.AccountID, &session.Bet, &state, &session.Payout, &session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blackjack session: %w", err)
	}
	if err := json.Unmarshal(state, &session.State); err != nil {
		return nil, fmt.Errorf("failed to unmarshal blackjack state: %w", err)
	}
	return &session, nil
}

// Update stores the session's new state
func (r *BlackjackSessionRepository) Update(ctx context.Context, session *models.BlackjackSession) error {
	state, err := json.Marshal(session.State)
	if err != nil {
		return fmt.Errorf("failed to marshal blackjack state: %w", err)
	}

	query := `
		UPDATE blackjack_sessions
		SET bet = $1, status = $2, state = $3, payout = $4, updated_at = NOW()
		WHERE id = $5
	`

	result, err := r.q.Exec(ctx, query, session.Bet, session.State.Status, state, session.Payout, session.ID)
	if err != nil {
		return fmt.Errorf("failed to update blackjack session %s: %w", session.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("blackjack session %s not found", session.ID)
	}
	return nil
}
