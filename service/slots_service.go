package service

import (
	"context"
	"errors"
	"fmt"

	"gemarcade/events"
	"gemarcade/games/slots"
	"gemarcade/models"
	"gemarcade/rng"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// slotsService implements the SlotsService interface
type slotsService struct {
	uowFactory UnitOfWorkFactory
	random     RandomSource
}

// NewSlotsService creates a new slots service
func NewSlotsService(uowFactory UnitOfWorkFactory, random RandomSource) SlotsService {
	return &slotsService{
		uowFactory: uowFactory,
		random:     random,
	}
}

// Spin plays one spin and settles it in a single transaction. With a client
// seed the grid comes from the account's committed server seed, the client
// seed and the seed's nonce. Entries record the seed hash and nonce; the seed
// itself is only revealed by rotation.
func (s *slotsService) Spin(ctx context.Context, accountID string, bet int64, clientSeed string) (*SlotsSpinResult, error) {
	var result *SlotsSpinResult
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		row, err := loadGameConfig(ctx, uow, models.GameSlots)
		if err != nil {
			return err
		}
		cfg, err := row.Slots()
		if err != nil {
			return err
		}
		if !cfg.Allows(bet) {
			return fmt.Errorf("%w: bet %d outside %d-%d", ErrInvalidWager, bet, cfg.MinBet, cfg.MaxBet)
		}

		correlationID := uuid.NewString()
		metadata := map[string]any{"configVersion": row.Version}

		var src rng.Source
		if clientSeed != "" {
			seed, err := uow.FairSeedRepository().GetForUpdate(ctx, accountID)
			if err != nil {
				return err
			}
			if seed == nil {
				return ErrNoCommittedSeed
			}
			src = seededSource(seed, clientSeed)
			metadata["seedHash"] = seed.SeedHash
			metadata["clientSeed"] = clientSeed
			metadata["nonce"] = seed.Nonce
			if err := uow.FairSeedRepository().IncrementNonce(ctx, accountID); err != nil {
				return err
			}
		} else {
			src = s.random.Stream(rng.StreamOutcome)
		}

		spin, err := slots.Spin(bet, src, cfg.Paytable())
		if err != nil {
			if errors.Is(err, slots.ErrInvalidBet) {
				return fmt.Errorf("%w: %v", ErrInvalidWager, err)
			}
			return err
		}
		metadata["grid"] = spin.Grid
		metadata["multiplier"] = spin.Multiplier

		settled, err := ApplyBetAndPayout(ctx, uow, BetAndPayoutRequest{
			AccountID:     accountID,
			Bet:           bet,
			Payout:        spin.Payout,
			BetType:       models.TransactionTypeSlotsBet,
			PayoutType:    models.TransactionTypeSlotsPayout,
			CorrelationID: correlationID,
			Metadata:      metadata,
		})
		if err != nil {
			return err
		}

		uow.EventBus().Publish(events.GameRoundCompletedEvent{
			Game:          models.GameSlots,
			AccountID:     accountID,
			CorrelationID: correlationID,
			Bet:           bet,
			Payout:        spin.Payout,
			Outcome:       outcomeLabel(spin.IsWin),
		})

		result = &SlotsSpinResult{
			CorrelationID: correlationID,
			Result:        spin,
			Bet:           bet,
			NewBalance:    settled.NewBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"accountId":     accountID,
		"bet":           bet,
		"payout":        result.Result.Payout,
		"correlationId": result.CorrelationID,
	}).Debug("Slots spin settled")

	return result, nil
}

func outcomeLabel(win bool) string {
	if win {
		return "win"
	}
	return "loss"
}
