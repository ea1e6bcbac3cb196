package service

import (
	"context"
	"encoding/json"
	"fmt"

	"gemarcade/models"

	log "github.com/sirupsen/logrus"
)

// gameConfigService implements the GameConfigService interface
type gameConfigService struct {
	uowFactory UnitOfWorkFactory
}

// NewGameConfigService creates a new game config service
func NewGameConfigService(uowFactory UnitOfWorkFactory) GameConfigService {
	return &gameConfigService{uowFactory: uowFactory}
}

func (s *gameConfigService) Get(ctx context.Context, key models.GameKey) (*models.GameConfig, error) {
	var cfg *models.GameConfig
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		cfg, err = uow.GameConfigRepository().Get(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to get config for %s: %w", key, err)
		}
		if cfg == nil {
			return fmt.Errorf("%w: %s", ErrConfigMissing, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Update validates and stores a new version. The previous version is
// copied to history first. An empty config keeps the current document.
func (s *gameConfigService) Update(ctx context.Context, key models.GameKey, config json.RawMessage, enabled bool, updatedBy string) (*models.GameConfig, error) {
	var updated *models.GameConfig
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		repo := uow.GameConfigRepository()
		current, err := repo.GetForUpdate(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to lock config for %s: %w", key, err)
		}

		raw := config
		if len(raw) == 0 {
			if current != nil {
				raw = current.Config
			} else if raw, err = models.DefaultGameConfig(key); err != nil {
				return err
			}
		}
		if err := models.ValidateGameConfig(key, raw); err != nil {
			return err
		}

		updated = &models.GameConfig{
			Key:       key,
			Enabled:   enabled,
			Config:    raw,
			Version:   1,
			UpdatedBy: &updatedBy,
		}

		if current == nil {
			if _, err := repo.InsertIfMissing(ctx, updated); err != nil {
				return fmt.Errorf("failed to insert config for %s: %w", key, err)
			}
		} else {
			if err := repo.AppendHistory(ctx, &models.GameConfigHistory{
				Key:       current.Key,
				Enabled:   current.Enabled,
				Config:    current.Config,
				Version:   current.Version,
				UpdatedBy: current.UpdatedBy,
			}); err != nil {
				return fmt.Errorf("failed to record config history: %w", err)
			}
			updated.Version = current.Version + 1
			if err := repo.Update(ctx, updated); err != nil {
				return fmt.Errorf("failed to update config for %s: %w", key, err)
			}
		}

		if err := uow.AuditLogRepository().Append(ctx, &models.AuditLog{
			ActorID:  updatedBy,
			Action:   models.AuditActionUpdateConfig,
			TargetID: string(key),
			Metadata: map[string]any{
				"version": updated.Version,
				"enabled": enabled,
			},
		}); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"game":      key,
		"version":   updated.Version,
		"enabled":   enabled,
		"updatedBy": updatedBy,
	}).Info("Updated game config")

	return updated, nil
}

func (s *gameConfigService) History(ctx context.Context, key models.GameKey, limit int) ([]*models.GameConfigHistory, error) {
	if limit <= 0 {
		limit = 10
	}
	var history []*models.GameConfigHistory
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		history, err = uow.GameConfigRepository().GetHistory(ctx, key, limit)
		if err != nil {
			return fmt.Errorf("failed to get config history for %s: %w", key, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

// SeedDefaults inserts the stock config for every game that has none
func (s *gameConfigService) SeedDefaults(ctx context.Context) error {
	return withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		for _, key := range models.GameKeys {
			raw, err := models.DefaultGameConfig(key)
			if err != nil {
				return err
			}
			inserted, err := uow.GameConfigRepository().InsertIfMissing(ctx, &models.GameConfig{
				Key:     key,
				Enabled: true,
				Config:  raw,
				Version: 1,
			})
			if err != nil {
				return fmt.Errorf("failed to seed config for %s: %w", key, err)
			}
			if inserted {
				log.WithField("game", key).Info("Seeded default game config")
			}
		}
		return nil
	})
}

// loadGameConfig reads a game's config inside uow and refuses disabled games
func loadGameConfig(ctx context.Context, uow UnitOfWork, key models.GameKey) (*models.GameConfig, error) {
	cfg, err := uow.GameConfigRepository().Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load config for %s: %w", key, err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: %s", ErrConfigMissing, key)
	}
	if !cfg.Enabled {
		return nil, fmt.Errorf("%w: %s", ErrGameDisabled, key)
	}
	return cfg, nil
}
