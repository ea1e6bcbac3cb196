package service

import (
	"errors"

	"gemarcade/models"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountBanned     = errors.New("account banned")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrLimitExceeded     = errors.New("daily limit reached")
	ErrRoundNotFound     = errors.New("round not found")
	ErrRoundFinished     = errors.New("round finished")
	ErrInvalidWager      = errors.New("invalid wager")
	ErrConfigMissing     = errors.New("missing game config")
	ErrPoolEmpty         = errors.New("empty item pool")

	ErrGameDisabled    = errors.New("game disabled")
	ErrCaseUnavailable = errors.New("case unavailable")
	ErrAlreadyClaimed  = errors.New("daily bonus already claimed")
	ErrRoundNotExpired = errors.New("round has not ended")
	ErrInvalidAction   = errors.New("action not allowed")
	ErrNoCommittedSeed = errors.New("no server seed committed")
	ErrInvalidConfig   = models.ErrInvalidConfig
)
