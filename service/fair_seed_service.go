package service

import (
	"context"
	"fmt"

	"gemarcade/models"
	"gemarcade/rng"

	log "github.com/sirupsen/logrus"
)

// FairSeedView is what a player may see of their committed seed
type FairSeedView struct {
	SeedHash string
	Nonce    int64
}

// SeedRotation reveals a retired seed alongside its replacement's hash
type SeedRotation struct {
	RevealedSeed string
	RevealedHash string
	SpinsPlayed  int64
	NextHash     string
}

// fairSeedService implements the FairSeedService interface
type fairSeedService struct {
	uowFactory UnitOfWorkFactory
	random     RandomSource
}

// NewFairSeedService creates a new fair seed service
func NewFairSeedService(uowFactory UnitOfWorkFactory, random RandomSource) FairSeedService {
	return &fairSeedService{
		uowFactory: uowFactory,
		random:     random,
	}
}

func (s *fairSeedService) Current(ctx context.Context, accountID string) (*FairSeedView, error) {
	var view *FairSeedView
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		seed, err := uow.FairSeedRepository().GetForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if seed == nil {
			seed, err = s.commit(ctx, uow, accountID)
			if err != nil {
				return err
			}
		}
		view = &FairSeedView{SeedHash: seed.SeedHash, Nonce: seed.Nonce}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *fairSeedService) Rotate(ctx context.Context, accountID string) (*SeedRotation, error) {
	var rotation *SeedRotation
	err := withUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		old, err := uow.FairSeedRepository().GetForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if old == nil {
			return ErrNoCommittedSeed
		}

		next, err := s.commit(ctx, uow, accountID)
		if err != nil {
			return err
		}
		rotation = &SeedRotation{
			RevealedSeed: old.ServerSeed,
			RevealedHash: old.SeedHash,
			SpinsPlayed:  old.Nonce,
			NextHash:     next.SeedHash,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"accountId":    accountID,
		"revealedHash": rotation.RevealedHash,
		"nextHash":     rotation.NextHash,
	}).Info("Rotated server seed")
	return rotation, nil
}

func (s *fairSeedService) commit(ctx context.Context, uow UnitOfWork, accountID string) (*models.FairSeed, error) {
	commitment := s.random.NewCommitment(rng.StreamOutcome)
	seed := &models.FairSeed{
		AccountID:  accountID,
		ServerSeed: commitment.Seed,
		SeedHash:   commitment.Hash,
	}
	if err := uow.FairSeedRepository().Replace(ctx, seed); err != nil {
		return nil, fmt.Errorf("failed to commit server seed: %w", err)
	}
	return seed, nil
}

// seededSource derives the draw source for one seeded spin. Each spin uses
// the committed seed with the client seed and the spin's nonce, so the
// server cannot pick a seed after seeing the client's.
func seededSource(seed *models.FairSeed, clientSeed string) rng.Source {
	return rng.NewFairSource(seed.ServerSeed, fmt.Sprintf("%s:%d", clientSeed, seed.Nonce))
}
