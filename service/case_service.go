package service

import (
	"context"
	"errors"
	"fmt"

	"gemarcade/events"
	"gemarcade/games/loot"
	"gemarcade/models"
	"gemarcade/rng"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// caseService implements the CaseService interface
type caseService struct {
	uowFactory UnitOfWorkFactory
	random     RandomSource
}

// NewCaseService creates a new case service
func NewCaseService(uowFactory UnitOfWorkFactory, random RandomSource) CaseService {
	return &caseService{
		uowFactory: uowFactory,
		random:     random,
	}
}

// OpenCase charges the price, rolls a rarity then an item, and adds it to
// the inventory. The debit, inventory row and open log share one
// correlation id and one transaction.
func (s *caseService) OpenCase(ctx context.Context, accountID, caseKey string) (*CaseOpenResult, error) {
	var result *CaseOpenResult
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		repo := uow.CaseRepository()
		def, err := repo.GetCase(ctx, caseKey)
		if err != nil {
			return fmt.Errorf("failed to get case %s: %w", caseKey, err)
		}
		if def == nil || !def.Enabled {
			return fmt.Errorf("%w: %s", ErrCaseUnavailable, caseKey)
		}

		rarity := loot.RollRarity(def.Weights, s.random.Stream(rng.StreamLoot))
		item, err := loot.PickItem(def.Pools[rarity], s.random.Stream(rng.StreamCosmetic))
		if err != nil {
			if errors.Is(err, loot.ErrPoolEmpty) {
				return fmt.Errorf("%w: %s/%s", ErrPoolEmpty, caseKey, rarity)
			}
			return err
		}

		correlationID := uuid.NewString()
		entry, err := ApplyEntry(ctx, uow, EntryRequest{
			AccountID:     accountID,
			Amount:        -def.Price,
			Type:          models.TransactionTypeCaseOpen,
			CorrelationID: correlationID,
			Metadata: map[string]any{
				"caseKey": caseKey,
				"rarity":  rarity,
				"item":    item,
			},
		})
		if err != nil {
			return err
		}

		inventory, err := repo.AddInventory(ctx, accountID, item, rarity, 1)
		if err != nil {
			return fmt.Errorf("failed to add inventory: %w", err)
		}
		if err := repo.AppendOpenLog(ctx, &models.CaseOpenLog{
			AccountID:     accountID,
			CaseKey:       caseKey,
			CorrelationID: correlationID,
			Price:         def.Price,
			Rarity:        rarity,
			ItemKey:       item,
		}); err != nil {
			return fmt.Errorf("failed to append case open log: %w", err)
		}

		uow.EventBus().Publish(events.CaseOpenedEvent{
			AccountID:     accountID,
			CaseKey:       caseKey,
			Rarity:        string(rarity),
			ItemKey:       item,
			CorrelationID: correlationID,
		})

		result = &CaseOpenResult{
			CorrelationID: correlationID,
			CaseKey:       caseKey,
			Rarity:        rarity,
			ItemKey:       item,
			Inventory:     inventory,
			NewBalance:    entry.BalanceAfter,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"accountId":     accountID,
		"caseKey":       caseKey,
		"rarity":        result.Rarity,
		"item":          result.ItemKey,
		"correlationId": result.CorrelationID,
	}).Debug("Opened case")

	return result, nil
}

func (s *caseService) ListCases(ctx context.Context) ([]*models.CaseDefinition, error) {
	var cases []*models.CaseDefinition
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		cases, err = uow.CaseRepository().ListCases(ctx, true)
		if err != nil {
			return fmt.Errorf("failed to list cases: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cases, nil
}

func (s *caseService) Inventory(ctx context.Context, accountID string) ([]*models.InventoryItem, error) {
	var items []*models.InventoryItem
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		items, err = uow.CaseRepository().GetInventory(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to get inventory: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertCase validates the drop table before storing it, so an empty pool
// is caught here rather than on a player's open.
func (s *caseService) UpsertCase(ctx context.Context, actorID string, def *models.CaseDefinition) error {
	if def.Key == "" || def.Price <= 0 {
		return fmt.Errorf("%w: case needs a key and a positive price", ErrInvalidConfig)
	}
	if err := loot.Validate(def.Weights, def.Pools); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		if err := uow.CaseRepository().UpsertCase(ctx, def); err != nil {
			return fmt.Errorf("failed to save case %s: %w", def.Key, err)
		}
		return uow.AuditLogRepository().Append(ctx, &models.AuditLog{
			ActorID:  actorID,
			Action:   models.AuditActionUpsertCase,
			TargetID: def.Key,
			Metadata: map[string]any{
				"price":   def.Price,
				"enabled": def.Enabled,
			},
		})
	})
}

// StarterCase is seeded on first boot
func StarterCase() *models.CaseDefinition {
	return &models.CaseDefinition{
		Key:     "starter",
		Name:    "Starter Case",
		Price:   100,
		Enabled: true,
		Weights: loot.DefaultWeights(),
		Pools: loot.Pools{
			loot.Common:    {"pebble_badge", "paper_crown", "tin_ring"},
			loot.Uncommon:  {"copper_badge", "felt_hat"},
			loot.Rare:      {"silver_badge", "velvet_cape"},
			loot.Epic:      {"gold_badge", "emerald_pin"},
			loot.Legendary: {"ruby_crown"},
			loot.Mythical:  {"sapphire_throne"},
			loot.Divine:    {"diamond_halo"},
			loot.Secret:    {"prismatic_gem"},
		},
	}
}

// SeedDefaultCases stores the starter case unless it already exists
func SeedDefaultCases(ctx context.Context, factory UnitOfWorkFactory) error {
	return withUnitOfWork(ctx, factory, func(uow UnitOfWork) error {
		starter := StarterCase()
		existing, err := uow.CaseRepository().GetCase(ctx, starter.Key)
		if err != nil {
			return fmt.Errorf("failed to check starter case: %w", err)
		}
		if existing != nil {
			return nil
		}
		if err := uow.CaseRepository().UpsertCase(ctx, starter); err != nil {
			return fmt.Errorf("failed to seed starter case: %w", err)
		}
		log.WithField("caseKey", starter.Key).Info("Seeded starter case")
		return nil
	})
}
