package service

import (
	"context"
	"fmt"

	"gemarcade/events"
	"gemarcade/games/plinko"
	"gemarcade/models"
	"gemarcade/rng"

	"github.com/google/uuid"
)

// plinkoService implements the PlinkoService interface
type plinkoService struct {
	uowFactory UnitOfWorkFactory
	random     RandomSource
}

// NewPlinkoService creates a new plinko service
func NewPlinkoService(uowFactory UnitOfWorkFactory, random RandomSource) PlinkoService {
	return &plinkoService{
		uowFactory: uowFactory,
		random:     random,
	}
}

func (s *plinkoService) Drop(ctx context.Context, accountID string, bet int64, rows int, risk plinko.Risk) (*PlinkoDropResult, error) {
	var result *PlinkoDropResult
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		row, err := loadGameConfig(ctx, uow, models.GamePlinko)
		if err != nil {
			return err
		}
		cfg, err := row.Plinko()
		if err != nil {
			return err
		}
		if !cfg.Allows(bet) {
			return fmt.Errorf("%w: bet %d outside %d-%d", ErrInvalidWager, bet, cfg.MinBet, cfg.MaxBet)
		}
		if !cfg.AllowsRows(rows) {
			return fmt.Errorf("%w: %d rows not offered", ErrInvalidWager, rows)
		}
		multipliers, ok := cfg.Risks[risk]
		if !ok {
			return fmt.Errorf("%w: unknown risk %q", ErrInvalidWager, risk)
		}

		drop, err := plinko.Play(bet, rows, multipliers, s.random.Stream(rng.StreamOutcome))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidWager, err)
		}

		correlationID := uuid.NewString()
		settled, err := ApplyBetAndPayout(ctx, uow, BetAndPayoutRequest{
			AccountID:     accountID,
			Bet:           bet,
			Payout:        drop.Payout,
			BetType:       models.TransactionTypePlinkoBet,
			PayoutType:    models.TransactionTypePlinkoPayout,
			CorrelationID: correlationID,
			Metadata: map[string]any{
				"rows":          rows,
				"risk":          risk,
				"bucket":        drop.BucketIndex,
				"multiplier":    drop.Multiplier,
				"configVersion": row.Version,
			},
		})
		if err != nil {
			return err
		}

		uow.EventBus().Publish(events.GameRoundCompletedEvent{
			Game:          models.GamePlinko,
			AccountID:     accountID,
			CorrelationID: correlationID,
			Bet:           bet,
			Payout:        drop.Payout,
			Outcome:       outcomeLabel(drop.Payout > bet),
		})

		result = &PlinkoDropResult{
			CorrelationID: correlationID,
			Result:        drop,
			Risk:          risk,
			Rows:          rows,
			Bet:           bet,
			NewBalance:    settled.NewBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
