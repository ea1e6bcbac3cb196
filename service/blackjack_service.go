package service

import (
	"context"
	"errors"
	"fmt"

	"gemarcade/events"
	"gemarcade/games/blackjack"
	"gemarcade/models"
	"gemarcade/rng"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// blackjackService implements the BlackjackService interface
type blackjackService struct {
	uowFactory UnitOfWorkFactory
	random     RandomSource
}

// NewBlackjackService creates a new blackjack service
func NewBlackjackService(uowFactory UnitOfWorkFactory, random RandomSource) BlackjackService {
	return &blackjackService{
		uowFactory: uowFactory,
		random:     random,
	}
}

// Start charges the bet and deals. A natural settles immediately.
func (s *blackjackService) Start(ctx context.Context, accountID string, bet int64) (*BlackjackView, error) {
	var view *BlackjackView
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		row, err := loadGameConfig(ctx, uow, models.GameBlackjack)
		if err != nil {
			return err
		}
		cfg, err := row.Blackjack()
		if err != nil {
			return err
		}
		if !cfg.Allows(bet) {
			return fmt.Errorf("%w: bet %d outside %d-%d", ErrInvalidWager, bet, cfg.MinBet, cfg.MaxBet)
		}

		hand, err := blackjack.Deal(s.random.Stream(rng.StreamOutcome), cfg.DealerStandOn)
		if err != nil {
			return err
		}

		sessionID := uuid.NewString()
		entry, err := ApplyEntry(ctx, uow, EntryRequest{
			AccountID:     accountID,
			Amount:        -bet,
			Type:          models.TransactionTypeBlackjackBet,
			CorrelationID: sessionID,
			Metadata: map[string]any{
				"stage":         "bet",
				"configVersion": row.Version,
			},
		})
		if err != nil {
			return err
		}

		session := &models.BlackjackSession{
			ID:        sessionID,
			AccountID: accountID,
			Bet:       bet,
			State:     *hand,
		}
		balance := entry.BalanceAfter
		if hand.IsTerminal() {
			if balance, err = settleBlackjack(ctx, uow, session, balance); err != nil {
				return err
			}
		}

		if err := uow.BlackjackSessionRepository().Create(ctx, session); err != nil {
			return fmt.Errorf("failed to save blackjack session: %w", err)
		}

		view = blackjackView(session, balance)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"accountId": accountID,
		"sessionId": view.SessionID,
		"bet":       bet,
		"status":    view.View.Status,
	}).Debug("Blackjack hand dealt")

	return view, nil
}

// Hit draws a player card. A bust ends the hand with no payout.
func (s *blackjackService) Hit(ctx context.Context, accountID, sessionID string) (*BlackjackView, error) {
	return s.act(ctx, accountID, sessionID, func(_ UnitOfWork, session *models.BlackjackSession) error {
		return session.State.Hit(blackjack.TargetPlayer)
	})
}

// Stand plays out the dealer and settles
func (s *blackjackService) Stand(ctx context.Context, accountID, sessionID string) (*BlackjackView, error) {
	return s.act(ctx, accountID, sessionID, func(_ UnitOfWork, session *models.BlackjackSession) error {
		return session.State.Stand()
	})
}

// Double charges a second stake equal to the first, draws one card and stands
func (s *blackjackService) Double(ctx context.Context, accountID, sessionID string) (*BlackjackView, error) {
	return s.act(ctx, accountID, sessionID, func(uow UnitOfWork, session *models.BlackjackSession) error {
		hand := &session.State
		if hand.IsTerminal() {
			return blackjack.ErrRoundFinished
		}
		if len(hand.Player) != 2 || hand.Doubled {
			return blackjack.ErrDoubleNotAllowed
		}

		if _, err := ApplyEntry(ctx, uow, EntryRequest{
			AccountID:     session.AccountID,
			Amount:        -session.Bet,
			Type:          models.TransactionTypeBlackjackBet,
			CorrelationID: session.ID,
			Metadata: map[string]any{
				"stage":  "bet",
				"action": "double",
			},
		}); err != nil {
			return err
		}
		session.Bet *= 2
		return hand.Double()
	})
}

// act locks the session, applies one action and settles if the hand ended
func (s *blackjackService) act(ctx context.Context, accountID, sessionID string, action func(uow UnitOfWork, session *models.BlackjackSession) error) (*BlackjackView, error) {
	var view *BlackjackView
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		session, err := uow.BlackjackSessionRepository().GetByIDForUpdate(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to load blackjack session: %w", err)
		}
		if session == nil || session.AccountID != accountID {
			return fmt.Errorf("%w: %s", ErrRoundNotFound, sessionID)
		}

		if err := action(uow, session); err != nil {
			return mapBlackjackError(err)
		}

		balance, err := currentBalance(ctx, uow, accountID)
		if err != nil {
			return err
		}
		if session.State.IsTerminal() {
			if balance, err = settleBlackjack(ctx, uow, session, balance); err != nil {
				return err
			}
		}

		if err := uow.BlackjackSessionRepository().Update(ctx, session); err != nil {
			return fmt.Errorf("failed to save blackjack session: %w", err)
		}

		view = blackjackView(session, balance)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Active returns the player's most recent unfinished hand
func (s *blackjackService) Active(ctx context.Context, accountID string) (*BlackjackView, error) {
	var view *BlackjackView
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		session, err := uow.BlackjackSessionRepository().GetActiveByAccount(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to get active blackjack session: %w", err)
		}
		if session == nil {
			return ErrRoundNotFound
		}
		balance, err := currentBalance(ctx, uow, accountID)
		if err != nil {
			return err
		}
		view = blackjackView(session, balance)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// settleBlackjack credits the payout of a terminal hand and returns the new balance
func settleBlackjack(ctx context.Context, uow UnitOfWork, session *models.BlackjackSession, balance int64) (int64, error) {
	payout := blackjack.Settle(session.State.Status, session.Bet)
	session.Payout = &payout

	if payout > 0 {
		entry, err := ApplyEntry(ctx, uow, EntryRequest{
			AccountID:     session.AccountID,
			Amount:        payout,
			Type:          models.TransactionTypeBlackjackPayout,
			CorrelationID: session.ID,
			Metadata: map[string]any{
				"stage":  "payout",
				"status": session.State.Status,
			},
		})
		if err != nil {
			return 0, err
		}
		balance = entry.BalanceAfter
	}

	uow.EventBus().Publish(events.GameRoundCompletedEvent{
		Game:          models.GameBlackjack,
		AccountID:     session.AccountID,
		CorrelationID: session.ID,
		Bet:           session.Bet,
		Payout:        payout,
		Outcome:       string(session.State.Status),
	})
	return balance, nil
}

func mapBlackjackError(err error) error {
	switch {
	case errors.Is(err, blackjack.ErrRoundFinished):
		return ErrRoundFinished
	case errors.Is(err, blackjack.ErrDoubleNotAllowed):
		return fmt.Errorf("%w: %v", ErrInvalidAction, err)
	default:
		return err
	}
}

func blackjackView(session *models.BlackjackSession, balance int64) *BlackjackView {
	return &BlackjackView{
		SessionID: session.ID,
		Bet:       session.Bet,
		View:      session.State.View(),
		Payout:    session.Payout,
		Balance:   balance,
	}
}
