package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gemarcade/events"
	"gemarcade/models"
	"gemarcade/rng"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// maxOpenRoundAttempts bounds the settle-then-refetch loop
const maxOpenRoundAttempts = 3

// jackpotService implements the JackpotService interface
type jackpotService struct {
	uowFactory UnitOfWorkFactory
	random     RandomSource
}

// NewJackpotService creates a new jackpot service
func NewJackpotService(uowFactory UnitOfWorkFactory, random RandomSource) JackpotService {
	return &jackpotService{
		uowFactory: uowFactory,
		random:     random,
	}
}

// GetOpenRound returns the round currently taking entries. An expired round
// is settled first and a fresh one opened in its place.
func (s *jackpotService) GetOpenRound(ctx context.Context) (*models.JackpotRound, error) {
	for range maxOpenRoundAttempts {
		var round *models.JackpotRound
		err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
			var err error
			round, err = uow.JackpotRepository().GetLatestOpen(ctx)
			if err != nil {
				return fmt.Errorf("failed to get open jackpot round: %w", err)
			}
			if round == nil {
				round, err = s.openRound(ctx, uow)
			}
			return err
		})
		if err != nil {
			return nil, err
		}

		if !round.IsExpired(now()) {
			return round, nil
		}
		if _, err := s.SettleRound(ctx, round.ID); err != nil && !errors.Is(err, ErrRoundNotExpired) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("no open jackpot round after %d attempts", maxOpenRoundAttempts)
}

// openRound commits to a fresh server seed and inserts the round. Losing
// the insert race to another request returns that request's round.
func (s *jackpotService) openRound(ctx context.Context, uow UnitOfWork) (*models.JackpotRound, error) {
	row, err := loadGameConfig(ctx, uow, models.GameJackpot)
	if err != nil {
		return nil, err
	}
	cfg, err := row.Jackpot()
	if err != nil {
		return nil, err
	}

	commitment := s.random.NewCommitment(rng.StreamJackpot)
	round := &models.JackpotRound{
		ID:          uuid.NewString(),
		Status:      models.JackpotStatusOpen,
		SeedHash:    commitment.Hash,
		ServerSeed:  commitment.Seed,
		EndsAt:      now().Add(cfg.RoundDuration()),
		HouseCutBps: cfg.HouseCutBps,
	}
	created, err := uow.JackpotRepository().CreateRound(ctx, round)
	if err != nil {
		return nil, fmt.Errorf("failed to create jackpot round: %w", err)
	}
	if !created {
		existing, err := uow.JackpotRepository().GetLatestOpen(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get open jackpot round: %w", err)
		}
		if existing == nil {
			return nil, fmt.Errorf("%w: open jackpot round vanished", ErrRoundNotFound)
		}
		return existing, nil
	}

	log.WithFields(log.Fields{
		"roundId":  round.ID,
		"seedHash": round.SeedHash,
		"endsAt":   round.EndsAt,
	}).Info("Opened jackpot round")

	return round, nil
}

// Enter buys tickets in the open round. Round status and expiry are
// re-checked under the round lock in the same transaction as the debit.
func (s *jackpotService) Enter(ctx context.Context, accountID string, amount int64) (*JackpotEntryResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidWager)
	}

	open, err := s.GetOpenRound(ctx)
	if err != nil {
		return nil, err
	}

	var result *JackpotEntryResult
	err = withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		row, err := loadGameConfig(ctx, uow, models.GameJackpot)
		if err != nil {
			return err
		}
		cfg, err := row.Jackpot()
		if err != nil {
			return err
		}
		if amount < cfg.MinEntry {
			return fmt.Errorf("%w: minimum entry is %d", ErrInvalidWager, cfg.MinEntry)
		}

		repo := uow.JackpotRepository()
		round, err := repo.GetRoundForUpdate(ctx, open.ID)
		if err != nil {
			return fmt.Errorf("failed to lock jackpot round: %w", err)
		}
		if round == nil {
			return fmt.Errorf("%w: %s", ErrRoundNotFound, open.ID)
		}
		if round.Status != models.JackpotStatusOpen || round.IsExpired(now()) {
			return ErrRoundFinished
		}

		ledgerEntry, err := ApplyEntry(ctx, uow, EntryRequest{
			AccountID:     accountID,
			Amount:        -amount,
			Type:          models.TransactionTypeJackpotEntry,
			CorrelationID: round.ID,
			Metadata:      map[string]any{"roundId": round.ID},
		})
		if err != nil {
			return err
		}

		entry := &models.JackpotEntry{
			RoundID:   round.ID,
			AccountID: accountID,
			Amount:    amount,
		}
		if err := repo.AddEntry(ctx, entry); err != nil {
			return fmt.Errorf("failed to add jackpot entry: %w", err)
		}
		if err := repo.IncrementPot(ctx, round.ID, amount); err != nil {
			return fmt.Errorf("failed to increment jackpot pot: %w", err)
		}
		round.Pot += amount

		result = &JackpotEntryResult{
			Round:      round,
			Entry:      entry,
			NewBalance: ledgerEntry.BalanceAfter,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SettleRound draws the winner of an expired round. The draw replays from
// the committed server seed and the round id, so anyone holding the
// revealed seed can verify it. Settling a finished round is a no-op.
func (s *jackpotService) SettleRound(ctx context.Context, roundID string) (*models.JackpotRound, error) {
	var settled *models.JackpotRound
	var event *events.JackpotSettledEvent
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		repo := uow.JackpotRepository()
		round, err := repo.GetRoundForUpdate(ctx, roundID)
		if err != nil {
			return fmt.Errorf("failed to lock jackpot round: %w", err)
		}
		if round == nil {
			return fmt.Errorf("%w: %s", ErrRoundNotFound, roundID)
		}
		settled = round
		if round.Status != models.JackpotStatusOpen {
			return nil
		}
		at := now()
		if !round.IsExpired(at) {
			return ErrRoundNotExpired
		}

		entries, err := repo.GetEntries(ctx, roundID)
		if err != nil {
			return fmt.Errorf("failed to get jackpot entries: %w", err)
		}

		round.SettledAt = &at
		if len(entries) == 0 {
			round.Status = models.JackpotStatusClosed
		} else if err := s.payWinner(ctx, uow, round, entries); err != nil {
			return err
		}

		if err := repo.UpdateRound(ctx, round); err != nil {
			return fmt.Errorf("failed to update jackpot round: %w", err)
		}

		event = &events.JackpotSettledEvent{
			RoundID:    round.ID,
			Status:     round.Status,
			Pot:        round.Pot,
			ServerSeed: round.ServerSeed,
		}
		if round.WinnerID != nil {
			event.WinnerID = *round.WinnerID
		}
		if round.Payout != nil {
			event.Payout = *round.Payout
		}
		uow.EventBus().Publish(*event)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if event != nil {
		log.WithFields(log.Fields{
			"roundId":  event.RoundID,
			"status":   event.Status,
			"winnerId": event.WinnerID,
			"pot":      event.Pot,
			"payout":   event.Payout,
		}).Info("Settled jackpot round")
	}
	return settled, nil
}

func (s *jackpotService) payWinner(ctx context.Context, uow UnitOfWork, round *models.JackpotRound, entries []*models.JackpotEntry) error {
	winner, ticket := selectWinner(entries, rng.NewFairSource(round.ServerSeed, round.ID))
	if winner == nil {
		return fmt.Errorf("jackpot round %s has no weighted entries", round.ID)
	}

	payout := round.Pot * int64(10000-round.HouseCutBps) / 10000
	round.Status = models.JackpotStatusSettled
	round.WinnerID = &winner.AccountID
	round.WinningTicket = &ticket
	round.Payout = &payout

	if payout <= 0 {
		return nil
	}
	_, err := ApplyEntry(ctx, uow, EntryRequest{
		AccountID:     winner.AccountID,
		Amount:        payout,
		Type:          models.TransactionTypeJackpotWin,
		CorrelationID: round.ID,
		Metadata: map[string]any{
			"roundId": round.ID,
			"ticket":  ticket,
			"pot":     round.Pot,
		},
	})
	if errors.Is(err, ErrAccountBanned) {
		log.WithFields(log.Fields{
			"roundId":  round.ID,
			"winnerId": winner.AccountID,
			"payout":   payout,
		}).Warn("Jackpot winner is banned, payout forfeited")
		forfeited := int64(0)
		round.Payout = &forfeited
		return nil
	}
	return err
}

// selectWinner draws a ticket in [0, total) and walks the entries in
// order. Each entry owns as many tickets as gems it staked.
func selectWinner(entries []*models.JackpotEntry, src rng.Source) (*models.JackpotEntry, int64) {
	var total int64
	for _, e := range entries {
		if e.Amount > 0 {
			total += e.Amount
		}
	}
	if total <= 0 {
		return nil, 0
	}

	ticket := int64(src.Float64() * float64(total))
	if ticket >= total {
		ticket = total - 1
	}
	remaining := ticket
	for _, e := range entries {
		if e.Amount <= 0 {
			continue
		}
		if remaining < e.Amount {
			return e, ticket
		}
		remaining -= e.Amount
	}
	return entries[len(entries)-1], ticket
}

// Current returns the open round with per-account stakes
func (s *jackpotService) Current(ctx context.Context) (*JackpotRoundView, error) {
	round, err := s.GetOpenRound(ctx)
	if err != nil {
		return nil, err
	}

	view := &JackpotRoundView{Round: round, Stakes: map[string]int64{}}
	err = withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		entries, err := uow.JackpotRepository().GetEntries(ctx, round.ID)
		if err != nil {
			return fmt.Errorf("failed to get jackpot entries: %w", err)
		}
		view.Entries = entries
		for _, e := range entries {
			view.Stakes[e.AccountID] += e.Amount
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// TimeLeft is how long the round keeps taking entries
func TimeLeft(round *models.JackpotRound) time.Duration {
	return max(0, round.EndsAt.Sub(now()))
}
