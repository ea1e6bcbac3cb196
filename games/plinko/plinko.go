package plinko

import (
	"errors"
	"fmt"
	"math"

	"gemarcade/rng"
)

// Direction is one peg bounce
type Direction string

const (
	Left  Direction = "L"
	Right Direction = "R"
)

// Risk selects a multiplier table
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

var (
	ErrInvalidRows = errors.New("rows must be positive")
	ErrEmptyTable  = errors.New("multiplier table is empty")
	ErrInvalidBet  = errors.New("bet must be positive")
)

// DefaultMultipliers are the bucket tables per risk tier
func DefaultMultipliers() map[Risk][]float64 {
	return map[Risk][]float64{
		RiskLow:    {0.5, 0.8, 1, 1.2, 2},
		RiskMedium: {0.3, 0.7, 1, 1.5, 3, 5},
		RiskHigh:   {0.2, 0.5, 1, 2, 5, 10},
	}
}

// Result is the outcome of one drop
type Result struct {
	Path        []Direction `json:"path"`
	BucketIndex int         `json:"bucketIndex"`
	Multiplier  float64     `json:"multiplier"`
	Payout      int64       `json:"payout"`
}

// Drop generates rows independent left/right bounces
func Drop(rows int, src rng.Source) []Direction {
	path := make([]Direction, rows)
	for i := range path {
		if src.IntN(2) == 0 {
			path[i] = Left
		} else {
			path[i] = Right
		}
	}
	return path
}

// BucketIndex maps a path onto one of bucketCount buckets as
// round(rights/rows * (bucketCount-1)), clamped into range.
func BucketIndex(path []Direction, bucketCount int) int {
	if len(path) == 0 || bucketCount <= 0 {
		return 0
	}
	rights := 0
	for _, d := range path {
		if d == Right {
			rights++
		}
	}
	idx := int(math.Round(float64(rights) / float64(len(path)) * float64(bucketCount-1)))
	return max(0, min(bucketCount-1, idx))
}

// Play drops a ball and prices the landing bucket
func Play(bet int64, rows int, multipliers []float64, src rng.Source) (Result, error) {
	if bet <= 0 {
		return Result{}, ErrInvalidBet
	}
	if rows <= 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidRows, rows)
	}
	if len(multipliers) == 0 {
		return Result{}, ErrEmptyTable
	}

	path := Drop(rows, src)
	idx := BucketIndex(path, len(multipliers))
	mult := multipliers[idx]

	return Result{
		Path:        path,
		BucketIndex: idx,
		Multiplier:  mult,
		Payout:      int64(math.Floor(float64(bet) * mult)),
	}, nil
}
