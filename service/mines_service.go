package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gemarcade/events"
	"gemarcade/games/mines"
	"gemarcade/models"
	"gemarcade/rng"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// minesService implements the MinesService interface
type minesService struct {
	uowFactory UnitOfWorkFactory
	random     RandomSource
}

// NewMinesService creates a new mines service
func NewMinesService(uowFactory UnitOfWorkFactory, random RandomSource) MinesService {
	return &minesService{
		uowFactory: uowFactory,
		random:     random,
	}
}

// Start charges the bet and places the bombs. The round id doubles as the
// correlation id of every entry the round produces.
func (s *minesService) Start(ctx context.Context, accountID string, bet int64, minesCount int) (*MinesRoundView, error) {
	var view *MinesRoundView
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		row, err := loadGameConfig(ctx, uow, models.GameMines)
		if err != nil {
			return err
		}
		cfg, err := row.Mines()
		if err != nil {
			return err
		}
		if !cfg.Allows(bet) {
			return fmt.Errorf("%w: bet %d outside %d-%d", ErrInvalidWager, bet, cfg.MinBet, cfg.MaxBet)
		}
		if minesCount < cfg.MinMines || minesCount > cfg.MaxMines {
			return fmt.Errorf("%w: mines must be %d-%d", ErrInvalidWager, cfg.MinMines, cfg.MaxMines)
		}

		state, err := mines.NewRoundWithGrid(mines.DefaultGridSize, minesCount, cfg.HouseEdge, s.random.Stream(rng.StreamOutcome))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidWager, err)
		}

		roundID := uuid.NewString()
		entry, err := ApplyEntry(ctx, uow, EntryRequest{
			AccountID:     accountID,
			Amount:        -bet,
			Type:          models.TransactionTypeMinesBet,
			CorrelationID: roundID,
			Metadata: map[string]any{
				"stage":         "bet",
				"mines":         minesCount,
				"configVersion": row.Version,
			},
		})
		if err != nil {
			return err
		}

		round := &models.MinesRound{
			ID:        roundID,
			AccountID: accountID,
			Bet:       bet,
			State:     *state,
		}
		if err := uow.MinesRoundRepository().Create(ctx, round); err != nil {
			return fmt.Errorf("failed to save mines round: %w", err)
		}

		view = minesView(round, nil, entry.BalanceAfter)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"accountId": accountID,
		"roundId":   view.RoundID,
		"bet":       bet,
		"mines":     minesCount,
	}).Debug("Mines round started")

	return view, nil
}

// Reveal uncovers a tile. Hitting a bomb ends the round with no payout.
func (s *minesService) Reveal(ctx context.Context, accountID, roundID string, tile int) (*MinesRoundView, error) {
	var view *MinesRoundView
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		round, err := lockMinesRound(ctx, uow, accountID, roundID)
		if err != nil {
			return err
		}

		reveal, err := round.State.Reveal(tile)
		if err != nil {
			return mapMinesError(err)
		}

		if reveal.HitMine {
			zero := int64(0)
			round.Payout = &zero
			uow.EventBus().Publish(events.GameRoundCompletedEvent{
				Game:          models.GameMines,
				AccountID:     accountID,
				CorrelationID: round.ID,
				Bet:           round.Bet,
				Outcome:       string(round.State.Status),
			})
		}
		if err := uow.MinesRoundRepository().Update(ctx, round); err != nil {
			return fmt.Errorf("failed to save mines round: %w", err)
		}

		balance, err := currentBalance(ctx, uow, accountID)
		if err != nil {
			return err
		}
		view = minesView(round, &reveal, balance)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Cashout closes the round at the current multiplier and credits the payout
func (s *minesService) Cashout(ctx context.Context, accountID, roundID string) (*MinesRoundView, error) {
	var view *MinesRoundView
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		round, err := lockMinesRound(ctx, uow, accountID, roundID)
		if err != nil {
			return err
		}

		multiplier := round.State.CurrentMultiplier()
		payout, err := round.State.Cashout(round.Bet)
		if err != nil {
			return mapMinesError(err)
		}
		round.Payout = &payout

		balance, err := currentBalance(ctx, uow, accountID)
		if err != nil {
			return err
		}
		if payout > 0 {
			entry, err := ApplyEntry(ctx, uow, EntryRequest{
				AccountID:     accountID,
				Amount:        payout,
				Type:          models.TransactionTypeMinesPayout,
				CorrelationID: round.ID,
				Metadata: map[string]any{
					"stage":      "payout",
					"multiplier": multiplier,
					"revealed":   len(round.State.Revealed),
				},
			})
			if err != nil {
				return err
			}
			balance = entry.BalanceAfter
		}

		if err := uow.MinesRoundRepository().Update(ctx, round); err != nil {
			return fmt.Errorf("failed to save mines round: %w", err)
		}

		uow.EventBus().Publish(events.GameRoundCompletedEvent{
			Game:          models.GameMines,
			AccountID:     accountID,
			CorrelationID: round.ID,
			Bet:           round.Bet,
			Payout:        payout,
			Outcome:       string(round.State.Status),
		})

		view = minesView(round, nil, balance)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Active returns the player's most recent unfinished round
func (s *minesService) Active(ctx context.Context, accountID string) (*MinesRoundView, error) {
	var view *MinesRoundView
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		round, err := uow.MinesRoundRepository().GetActiveByAccount(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to get active mines round: %w", err)
		}
		if round == nil {
			return ErrRoundNotFound
		}
		balance, err := currentBalance(ctx, uow, accountID)
		if err != nil {
			return err
		}
		view = minesView(round, nil, balance)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// lockMinesRound loads a round for update. Rounds owned by someone else
// are reported as missing.
func lockMinesRound(ctx context.Context, uow UnitOfWork, accountID, roundID string) (*models.MinesRound, error) {
	round, err := uow.MinesRoundRepository().GetByIDForUpdate(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mines round: %w", err)
	}
	if round == nil || round.AccountID != accountID {
		return nil, fmt.Errorf("%w: %s", ErrRoundNotFound, roundID)
	}
	return round, nil
}

func mapMinesError(err error) error {
	switch {
	case errors.Is(err, mines.ErrRoundFinished):
		return ErrRoundFinished
	case errors.Is(err, mines.ErrInvalidTile):
		return fmt.Errorf("%w: %v", ErrInvalidAction, err)
	default:
		return err
	}
}

func minesView(round *models.MinesRound, reveal *mines.RevealResult, balance int64) *MinesRoundView {
	view := &MinesRoundView{
		RoundID:    round.ID,
		Bet:        round.Bet,
		View:       round.State.View(),
		LastReveal: reveal,
		Payout:     round.Payout,
		Balance:    balance,
	}
	if !round.State.IsTerminal() {
		view.PotentialPayout = int64(math.Floor(float64(round.Bet) * round.State.CurrentMultiplier()))
	}
	return view
}

// currentBalance reads the balance as this transaction sees it
func currentBalance(ctx context.Context, uow UnitOfWork, accountID string) (int64, error) {
	account, err := uow.AccountRepository().GetByID(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return 0, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}
	return account.Balance, nil
}
